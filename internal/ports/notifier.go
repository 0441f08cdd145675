package ports

import (
	"context"

	"scalpSignals/internal/domain"
)

// Notifier relays user-submitted suggestions through an external messaging
// channel. Delivery failure is reported to the caller but must not roll
// back the locally stored record.
type Notifier interface {
	RelaySuggestion(ctx context.Context, s *domain.Suggestion) error
}
