package analytics

import (
	"context"

	"campusmarket/internal/kafka"
)

// Preference is the accumulated interest weight of a user in a listing
// category. Weights grow with every search, view and like the user performs.
type Preference struct {
	UserID   int64  `json:"user_id"`
	Category string `json:"category"`
	Weight   int64  `json:"weight"`
}

// Event weights. A like says more about a user than a search.
const (
	WeightSearch = 1
	WeightView   = 2
	WeightLike   = 3
)

//go:generate mockgen -source=analytics.go -destination=../mocks/mock_analytics.go -package=mocks
type AnalyticsRepo interface {
	// AddWeight upserts the preference row for (userID, category) and bumps
	// its weight by delta.
	AddWeight(ctx context.Context, userID int64, category string, delta int64) error
	// TopCategories returns the user's categories ordered by weight, heaviest
	// first.
	TopCategories(ctx context.Context, userID int64, limit int) ([]Preference, error)
}

type AnalyticsService interface {
	ProcessEvent(ctx context.Context, event kafka.Event) error
	TopCategories(ctx context.Context, userID int64, limit int) ([]Preference, error)
}
