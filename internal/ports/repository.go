package ports

import (
	"context"

	"scalpSignals/internal/domain"
)

// TradeRecordRepository defines the interface for the durable, append-only
// trade outcome store. Writes are fire-and-forget from the engine's point
// of view: a failed append is surfaced to the caller but never blocks
// signal generation or mutates in-memory history.
type TradeRecordRepository interface {
	// CreateRecord appends a new trade record.
	CreateRecord(ctx context.Context, rec *domain.TradeRecord) error
	// FindRecent retrieves the most recent records, newest first, up to a limit.
	FindRecent(ctx context.Context, limit int) ([]*domain.TradeRecord, error)
	// CountOutcomes returns the number of recorded wins and the total count.
	CountOutcomes(ctx context.Context) (wins int, total int, err error)
}

// SuggestionRepository stores free-text improvement suggestions.
type SuggestionRepository interface {
	// CreateSuggestion appends a new suggestion.
	CreateSuggestion(ctx context.Context, s *domain.Suggestion) error
	// FindByStatus retrieves suggestions with the given status, newest first.
	FindByStatus(ctx context.Context, status domain.SuggestionStatus) ([]*domain.Suggestion, error)
}
