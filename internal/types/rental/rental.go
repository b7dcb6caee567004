package rental

// CreateRental is the payload accepted by POST /api/marketplace/rentals.
type CreateRental struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	RentalRate        float64  `json:"rental_rate"`
	RentalType        string   `json:"rental_type"`
	Bedrooms          int      `json:"bedrooms"`
	Bathrooms         int      `json:"bathrooms"`
	Furnished         bool     `json:"furnished"`
	UtilitiesIncluded bool     `json:"utilities_included"`
	PetFriendly       bool     `json:"pet_friendly"`
	Location          string   `json:"location"`
	AvailableFrom     string   `json:"available_from"`
	Amenities         []string `json:"amenities"`
	Floor             int      `json:"floor"`
	Size              string   `json:"size"`
	Images            []string `json:"images"`
}

// MissingFields reports which required fields are absent from the payload.
func (r CreateRental) MissingFields() []string {
	var missing []string
	if r.Name == "" {
		missing = append(missing, "name")
	}
	if r.Description == "" {
		missing = append(missing, "description")
	}
	if r.RentalRate <= 0 {
		missing = append(missing, "rental_rate")
	}
	if r.RentalType == "" {
		missing = append(missing, "rental_type")
	}
	if r.Location == "" {
		missing = append(missing, "location")
	}
	if r.AvailableFrom == "" {
		missing = append(missing, "available_from")
	}
	return missing
}
