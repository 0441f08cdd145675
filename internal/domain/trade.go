package domain

import "time"

// TradeRecord is the recorded outcome of a previously pinned signal.
// Records are created exactly once and never mutated or deleted; SignalID
// is a back-reference for lookup only, not an ownership link.
type TradeRecord struct {
	ID                 string
	SignalID           string
	Pair               string
	Type               SignalType
	EntryPrice         float64
	ExitPrice          float64
	Success            bool
	Timestamp          time.Time
	TimeElapsedMinutes int
}
