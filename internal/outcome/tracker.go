// Package outcome records win/loss verdicts for pinned signals and maintains
// the rolling success-rate statistic.
package outcome

import (
	"context"
	"fmt"
	"sync"
	"time"

	"scalpSignals/internal/domain"
	"scalpSignals/internal/ports"

	"github.com/google/uuid"
)

// Config holds configuration for the outcome tracker.
type Config struct {
	Logger ports.Logger
	// Repository persists records durably. Optional: without it the tracker
	// is purely in-memory.
	Repository ports.TradeRecordRepository
}

// Tracker accumulates trade records. Records are append-only: they are never
// mutated or deleted once created. The in-memory tally is the source of
// truth for the session; persistence is best-effort and a write failure
// never discards the local record.
type Tracker struct {
	logger ports.Logger
	repo   ports.TradeRecordRepository

	mu      sync.RWMutex
	records []domain.TradeRecord
	wins    int
	total   int
}

// New creates a new outcome tracker.
func New(cfg Config) (*Tracker, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for outcome tracker")
	}
	return &Tracker{
		logger: cfg.Logger,
		repo:   cfg.Repository,
	}, nil
}

// Hydrate seeds the win/total counters from previously persisted records so
// the success rate survives restarts. No-op without a repository.
func (t *Tracker) Hydrate(ctx context.Context) error {
	if t.repo == nil {
		return nil
	}
	wins, total, err := t.repo.CountOutcomes(ctx)
	if err != nil {
		return fmt.Errorf("failed to hydrate outcome counters: %w", err)
	}

	t.mu.Lock()
	t.wins = wins
	t.total = total
	t.mu.Unlock()

	t.logger.Info(ctx, "Hydrated outcome history", map[string]interface{}{"wins": wins, "total": total})
	return nil
}

// RecordOutcome records a win/loss verdict for a signal with no explicit
// closing price; the exit price defaults to the entry price, since the
// tracker measures directional call accuracy rather than realized P&L.
func (t *Tracker) RecordOutcome(ctx context.Context, sig *domain.Signal, success bool) (*domain.TradeRecord, error) {
	if sig == nil {
		return nil, fmt.Errorf("signal is nil: %w", ports.ErrInvalidRequest)
	}
	return t.RecordOutcomeAt(ctx, sig, success, sig.EntryPrice)
}

// RecordOutcomeAt records a verdict with an explicit exit price. The record
// is always kept in memory; if the repository write fails the error is
// returned alongside the record so the caller can retry or surface it.
func (t *Tracker) RecordOutcomeAt(ctx context.Context, sig *domain.Signal, success bool, exitPrice float64) (*domain.TradeRecord, error) {
	if sig == nil {
		return nil, fmt.Errorf("signal is nil: %w", ports.ErrInvalidRequest)
	}

	now := time.Now()
	elapsed := int(now.Sub(sig.Timestamp).Minutes())
	if elapsed < 0 {
		elapsed = 0
	}
	record := domain.TradeRecord{
		ID:                 uuid.NewString(),
		SignalID:           sig.ID,
		Pair:               sig.Pair,
		Type:               sig.Type,
		EntryPrice:         sig.EntryPrice,
		ExitPrice:          exitPrice,
		Success:            success,
		Timestamp:          now,
		TimeElapsedMinutes: elapsed,
	}

	t.mu.Lock()
	t.records = append(t.records, record)
	t.total++
	if success {
		t.wins++
	}
	t.mu.Unlock()

	if t.repo != nil {
		if err := t.repo.CreateRecord(ctx, &record); err != nil {
			t.logger.Error(ctx, err, "Failed to persist trade record", map[string]interface{}{
				"recordID": record.ID,
				"signalID": sig.ID,
			})
			return &record, fmt.Errorf("trade record kept in memory but not persisted: %w", err)
		}
	}

	t.logger.Info(ctx, "Recorded trade outcome", map[string]interface{}{
		"pair":    sig.Pair,
		"success": success,
	})
	return &record, nil
}

// SuccessRate returns wins/total as a fraction in [0,1], 0 when no records
// exist.
func (t *Tracker) SuccessRate() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.total == 0 {
		return 0
	}
	return float64(t.wins) / float64(t.total)
}

// History returns the most recent persisted records, newest first. Without a
// repository it falls back to the session's in-memory records.
func (t *Tracker) History(ctx context.Context, limit int) ([]*domain.TradeRecord, error) {
	if t.repo != nil {
		records, err := t.repo.FindRecent(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to load trade history: %w", err)
		}
		return records, nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	n := len(t.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*domain.TradeRecord, 0, n)
	for i := len(t.records) - 1; i >= 0 && len(out) < n; i-- {
		rec := t.records[i]
		out = append(out, &rec)
	}
	return out, nil
}
