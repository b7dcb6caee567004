package product

import (
	"time"

	"campusmarket/internal/listing"
	types "campusmarket/internal/types/product"
)

// Seller is the contact and reputation block nested in every product view.
type Seller struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Rating     float64 `json:"rating"`
	TotalSales int     `json:"total_sales"`
}

// Product is the public view-model of a sale listing.
type Product struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Category     string    `json:"category"`
	Quantity     int       `json:"quantity"`
	IsSecondHand bool      `json:"is_second_hand"`
	Condition    string    `json:"condition"`
	Location     string    `json:"location"`
	CreatedAt    time.Time `json:"created_at"`
	Views        int       `json:"views"`
	Likes        int       `json:"likes"`
	Verified     bool      `json:"verified"`
	Images       []string  `json:"images"`
	Seller       Seller    `json:"seller"`
}

//go:generate mockgen -source=product.go -destination=../mocks/mock_product_repo.go -package=mocks
type ProductRepo interface {
	List(plan listing.Plan) ([]Product, error)
	Count(plan listing.Plan) (int, error)
	GetByID(id int64) (*Product, error)
	Create(sellerID int64, p types.CreateProduct) (int64, time.Time, error)
}
