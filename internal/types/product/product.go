package product

// CreateProduct is the payload accepted by POST /api/marketplace/products.
// The seller id always comes from the authenticated session, never from the
// body.
type CreateProduct struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Category     string   `json:"category"`
	Quantity     int      `json:"quantity"`
	IsSecondHand bool     `json:"is_second_hand"`
	Condition    string   `json:"condition"`
	Location     string   `json:"location"`
	Images       []string `json:"images"`
}

// MissingFields reports which required fields are absent from the payload.
func (p CreateProduct) MissingFields() []string {
	var missing []string
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.Description == "" {
		missing = append(missing, "description")
	}
	if p.Price <= 0 {
		missing = append(missing, "price")
	}
	if p.Category == "" {
		missing = append(missing, "category")
	}
	return missing
}
