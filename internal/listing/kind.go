package listing

// Kind identifies one of the three listing variants the marketplace serves.
type Kind string

const (
	KindProduct  Kind = "product"
	KindRental   Kind = "rental"
	KindBusiness Kind = "business"
)

// Tables maps a listing kind onto its relational surface. The engagement
// counter builds its statements from this closed set, so table and column
// names never come from request input.
type Tables struct {
	Table      string
	IDColumn   string
	LikesTable string
	LikesFK    string
}

var kindTables = map[Kind]Tables{
	KindProduct: {
		Table:      "products",
		IDColumn:   "product_id",
		LikesTable: "product_likes",
		LikesFK:    "product_id",
	},
	KindRental: {
		Table:      "rental_items",
		IDColumn:   "rental_id",
		LikesTable: "rental_likes",
		LikesFK:    "rental_id",
	},
	KindBusiness: {
		Table:      "businesses",
		IDColumn:   "business_id",
		LikesTable: "business_likes",
		LikesFK:    "business_id",
	},
}

func TablesFor(kind Kind) (Tables, bool) {
	t, ok := kindTables[kind]
	return t, ok
}
