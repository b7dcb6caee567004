package rental

import (
	"time"

	"campusmarket/internal/listing"
	types "campusmarket/internal/types/rental"
)

// Owner is the contact and reputation block nested in every rental view.
type Owner struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Rating     float64 `json:"rating"`
	Properties int     `json:"properties"`
}

// Rental is the public view-model of a rental property listing.
type Rental struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	RentalRate        float64   `json:"rental_rate"`
	RentalType        string    `json:"rental_type"`
	Bedrooms          int       `json:"bedrooms"`
	Bathrooms         int       `json:"bathrooms"`
	Furnished         bool      `json:"furnished"`
	UtilitiesIncluded bool      `json:"utilities_included"`
	PetFriendly       bool      `json:"pet_friendly"`
	Location          string    `json:"location"`
	AvailableFrom     time.Time `json:"available_from"`
	Views             int       `json:"views"`
	Likes             int       `json:"likes"`
	Verified          bool      `json:"verified"`
	Floor             int       `json:"floor"`
	Size              string    `json:"size"`
	Amenities         []string  `json:"amenities"`
	Images            []string  `json:"images"`
	CreatedAt         time.Time `json:"created_at"`
	Owner             Owner     `json:"owner"`
}

//go:generate mockgen -source=rental.go -destination=../mocks/mock_rental_repo.go -package=mocks
type RentalRepo interface {
	List(plan listing.Plan) ([]Rental, error)
	Count(plan listing.Plan) (int, error)
	GetByID(id int64) (*Rental, error)
	Create(ownerID int64, r types.CreateRental) (int64, time.Time, error)
}
