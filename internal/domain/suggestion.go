package domain

import "time"

// SuggestionStatus tracks whether a user suggestion has been reviewed.
type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionReviewed SuggestionStatus = "reviewed"
)

// Suggestion is a free-text improvement suggestion submitted by a user.
type Suggestion struct {
	ID        string
	Content   string
	Status    SuggestionStatus
	CreatedAt time.Time
}
