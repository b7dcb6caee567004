package kafka

import (
	"time"

	"campusmarket/internal/listing"
)

type EventType string

const (
	EventTypeSearch EventType = "search"
	EventTypeView   EventType = "view"
	EventTypeLike   EventType = "like"
)

// Event is one engagement fact published by the marketplace handlers and
// consumed by the analytics process.
type Event struct {
	UserID    int64        `json:"user_id"`
	Type      EventType    `json:"type"`
	Kind      listing.Kind `json:"kind"`
	ListingID int64        `json:"listing_id,omitempty"`
	Category  string       `json:"category,omitempty"`
	Query     string       `json:"query,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}
