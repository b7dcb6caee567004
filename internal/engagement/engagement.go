package engagement

import (
	"context"

	"campusmarket/internal/listing"
)

// EngagementRepo maintains the denormalized views/likes counters on a
// listing together with the per-user like relation backing them.
//
//go:generate mockgen -source=engagement.go -destination=../mocks/mock_engagement_repo.go -package=mocks
type EngagementRepo interface {
	// IncrementViews bumps the view counter by one and returns the new
	// value. Every call counts, repeats by the same user included.
	IncrementViews(ctx context.Context, kind listing.Kind, id int64) (int, error)

	// ToggleLike flips the (listing, user) like state and returns the
	// resulting liked flag and counter. The relation row and the counter
	// move together inside one transaction.
	ToggleLike(ctx context.Context, kind listing.Kind, id, userID int64) (bool, int, error)
}
