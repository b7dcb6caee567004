package listing

// ReputationJoin supplies the aggregated review columns for a listing query:
// a LEFT JOIN over the grouped review relation plus the SELECT columns it
// contributes. Averages coalesce to 0 so a party with no reviews still
// formats with a defined rating.
type ReputationJoin struct {
	Columns string
	Join    string
}

var reputationJoins = map[Kind]ReputationJoin{
	KindProduct: {
		Columns: "COALESCE(pr.avg_rating, 0) AS seller_rating, COALESCE(pr.total_sales, 0) AS seller_total_sales",
		Join: `LEFT JOIN (
		SELECT seller_id, AVG(rating) AS avg_rating, COUNT(*) AS total_sales
		FROM product_reviews
		GROUP BY seller_id
	) pr ON p.seller_id = pr.seller_id`,
	},
	KindRental: {
		Columns: "COALESCE(rr.avg_rating, 0) AS owner_rating, COALESCE(rr.total_properties, 0) AS owner_properties",
		Join: `LEFT JOIN (
		SELECT owner_id, AVG(rating) AS avg_rating, COUNT(*) AS total_properties
		FROM rental_reviews
		GROUP BY owner_id
	) rr ON r.owner_id = rr.owner_id`,
	},
	KindBusiness: {
		Columns: "COALESCE(br.avg_rating, 0) AS rating, COALESCE(br.total_reviews, 0) AS reviews",
		Join: `LEFT JOIN (
		SELECT business_id, AVG(rating) AS avg_rating, COUNT(*) AS total_reviews
		FROM business_reviews
		GROUP BY business_id
	) br ON b.business_id = br.business_id`,
	},
}

func ReputationFor(kind Kind) ReputationJoin {
	return reputationJoins[kind]
}
