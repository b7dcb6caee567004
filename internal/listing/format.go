package listing

import (
	"database/sql"
	"encoding/json"
)

// PlaceholderImage is returned when a listing was stored without images.
const PlaceholderImage = "/api/placeholder/400/300"

// DecodeStringList decodes a JSON-array text column into a string slice.
// Absent, empty or malformed input yields an empty slice, never nil and
// never an error.
func DecodeStringList(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return []string{}
	}

	var out []string
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil || out == nil {
		return []string{}
	}

	return out
}

// DecodeImages decodes the images column, substituting the single-element
// placeholder sequence when nothing usable was stored.
func DecodeImages(raw sql.NullString) []string {
	images := DecodeStringList(raw)
	if len(images) == 0 {
		return []string{PlaceholderImage}
	}
	return images
}

// ProductCondition applies the condition default rule: an explicit stored
// value wins, otherwise it derives from the second-hand flag.
func ProductCondition(condition sql.NullString, isSecondHand bool) string {
	if condition.Valid && condition.String != "" {
		return condition.String
	}
	if isSecondHand {
		return "Used"
	}
	return "New"
}

// TextOr returns the stored text or a fallback when the column was NULL.
func TextOr(raw sql.NullString, fallback string) string {
	if raw.Valid {
		return raw.String
	}
	return fallback
}
