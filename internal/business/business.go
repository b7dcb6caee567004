package business

import (
	"time"

	"campusmarket/internal/listing"
	types "campusmarket/internal/types/business"
)

// Owner is the contact block nested in every business view. The rating and
// review count live on the business itself since the reviews target the
// business, not its owner.
type Owner struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Experience string `json:"experience"`
}

// Business is the public view-model of a local business listing.
type Business struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	PriceRange      string    `json:"price_range"`
	OperatingHours  string    `json:"operating_hours"`
	Location        string    `json:"location"`
	Verified        bool      `json:"verified"`
	Views           int       `json:"views"`
	Likes           int       `json:"likes"`
	Rating          float64   `json:"rating"`
	Reviews         int       `json:"reviews"`
	Services        []string  `json:"services"`
	Images          []string  `json:"images"`
	DeliveryTime    string    `json:"delivery_time"`
	StudentDiscount string    `json:"student_discount"`
	SameDay         bool      `json:"same_day"`
	OnlineAvailable bool      `json:"online_available"`
	MinOrder        string    `json:"min_order"`
	Warranty        string    `json:"warranty"`
	GroupSessions   bool      `json:"group_sessions"`
	EcoFriendly     bool      `json:"eco_friendly"`
	CreatedAt       time.Time `json:"created_at"`
	Owner           Owner     `json:"owner"`
}

//go:generate mockgen -source=business.go -destination=../mocks/mock_business_repo.go -package=mocks
type BusinessRepo interface {
	List(plan listing.Plan) ([]Business, error)
	Count(plan listing.Plan) (int, error)
	GetByID(id int64) (*Business, error)
	Create(ownerID int64, b types.CreateBusiness) (int64, time.Time, error)
}
