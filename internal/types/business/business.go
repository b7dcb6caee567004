package business

// CreateBusiness is the payload accepted by POST /api/marketplace/businesses.
// The trailing feature flags are carried opaquely: stored and echoed back
// without the marketplace interpreting them.
type CreateBusiness struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	PriceRange      string   `json:"price_range"`
	OperatingHours  string   `json:"operating_hours"`
	Location        string   `json:"location"`
	Phone           string   `json:"phone"`
	Email           string   `json:"email"`
	Services        []string `json:"services"`
	DeliveryTime    string   `json:"delivery_time"`
	StudentDiscount string   `json:"student_discount"`
	SameDay         bool     `json:"same_day"`
	OnlineAvailable bool     `json:"online_available"`
	MinOrder        string   `json:"min_order"`
	Warranty        string   `json:"warranty"`
	GroupSessions   bool     `json:"group_sessions"`
	EcoFriendly     bool     `json:"eco_friendly"`
	Experience      string   `json:"experience"`
	Images          []string `json:"images"`
}

// MissingFields reports which required fields are absent from the payload.
func (b CreateBusiness) MissingFields() []string {
	var missing []string
	if b.Name == "" {
		missing = append(missing, "name")
	}
	if b.Description == "" {
		missing = append(missing, "description")
	}
	if b.Category == "" {
		missing = append(missing, "category")
	}
	if b.OperatingHours == "" {
		missing = append(missing, "operating_hours")
	}
	if b.Location == "" {
		missing = append(missing, "location")
	}
	if b.Phone == "" {
		missing = append(missing, "phone")
	}
	if b.Email == "" {
		missing = append(missing, "email")
	}
	return missing
}
