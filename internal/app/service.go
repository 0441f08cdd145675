package app

import (
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"sync"
	"syscall"
	"time"

	"scalpSignals/config"
	"scalpSignals/internal/domain"
	"scalpSignals/internal/outcome"
	"scalpSignals/internal/ports"
	"scalpSignals/internal/risk"
	"scalpSignals/internal/signal"
	"scalpSignals/internal/watchlist"

	"github.com/google/uuid"
)

// Engine orchestrates the refresh cycle and owns the live signal list. Live
// signals follow last-write-wins per pair; pinned signals live in the
// watchlist with their own lifecycle; trade history belongs to the tracker.
type Engine struct {
	cfg       *config.Config
	logger    ports.Logger
	feed      ports.PriceFeed
	generator *signal.Generator
	tracker   *outcome.Tracker
	watchlist *watchlist.Watchlist

	// Optional collaborators; the engine degrades to in-memory-only
	// operation without them.
	suggestionRepo ports.SuggestionRepository
	notifier       ports.Notifier

	// live holds the current signal per pair. Replaced wholesale each
	// successful refresh for that pair; a failed refresh leaves the stale
	// entry in place.
	mu   sync.RWMutex
	live map[string]domain.Signal

	// refreshing guards against overlapping cycles: a tick that fires while
	// a cycle is still running is skipped.
	refreshMu  sync.Mutex
	refreshing bool

	// cancel tears down a running Start loop.
	cancelMu sync.Mutex
	cancel   context.CancelFunc
}

// NewEngine creates a new application engine.
func NewEngine(
	cfg *config.Config,
	logger ports.Logger,
	feed ports.PriceFeed,
	generator *signal.Generator,
	tracker *outcome.Tracker,
	suggestionRepo ports.SuggestionRepository,
	notifier ports.Notifier,
) (*Engine, error) {
	if cfg == nil || logger == nil || feed == nil || generator == nil || tracker == nil {
		return nil, fmt.Errorf("missing required dependencies for Engine")
	}
	if len(cfg.Pairs) == 0 {
		return nil, fmt.Errorf("configuration must name at least one tracked pair")
	}
	if cfg.RefreshInterval <= 0 {
		return nil, fmt.Errorf("configuration RefreshInterval must be positive")
	}

	return &Engine{
		cfg:            cfg,
		logger:         logger,
		feed:           feed,
		generator:      generator,
		tracker:        tracker,
		watchlist:      watchlist.New(),
		suggestionRepo: suggestionRepo,
		notifier:       notifier,
		live:           make(map[string]domain.Signal, len(cfg.Pairs)),
	}, nil
}

// Start runs the refresh loop until the context is canceled or a shutdown
// signal arrives. The first refresh runs immediately; subsequent cycles fire
// on the configured interval, with ticks skipped while a cycle is in flight.
func (e *Engine) Start(ctx context.Context) error {
	e.logger.Info(ctx, "Starting signal engine", map[string]interface{}{
		"pairs":    e.cfg.Pairs,
		"interval": e.cfg.RefreshInterval.String(),
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.cancelMu.Lock()
	e.cancel = cancel
	e.cancelMu.Unlock()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	ossignal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer ossignal.Stop(sigCh)
	go func() {
		select {
		case s := <-sigCh:
			e.logger.Info(ctx, "Received shutdown signal", map[string]interface{}{"signal": s.String()})
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := e.tracker.Hydrate(ctx); err != nil {
		// Non-fatal: the session starts with an empty tally.
		e.logger.Error(ctx, err, "Failed to hydrate outcome history, starting fresh")
	}

	e.Refresh(ctx)

	ticker := time.NewTicker(e.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info(ctx, "Signal engine stopped")
			return ctx.Err()
		case <-ticker.C:
			e.Refresh(ctx)
		}
	}
}

// Stop shuts down a running Start loop. It is a no-op if the engine was
// never started.
func (e *Engine) Stop() {
	e.cancelMu.Lock()
	cancel := e.cancel
	e.cancelMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Refresh runs one cycle: fetch candles and regenerate the signal for every
// tracked pair, in parallel, one writer per pair. If a previous cycle is
// still running the call is skipped and ports.ErrRefreshInFlight is
// returned. A pair whose fetch or generation fails keeps its previous live
// signal unchanged.
func (e *Engine) Refresh(ctx context.Context) error {
	e.refreshMu.Lock()
	if e.refreshing {
		e.refreshMu.Unlock()
		e.logger.Warn(ctx, "Refresh already in progress, skipping tick")
		return ports.ErrRefreshInFlight
	}
	e.refreshing = true
	e.refreshMu.Unlock()

	defer func() {
		e.refreshMu.Lock()
		e.refreshing = false
		e.refreshMu.Unlock()
	}()

	started := time.Now()
	var wg sync.WaitGroup
	for _, pair := range e.cfg.Pairs {
		wg.Add(1)
		go func(pair string) {
			defer wg.Done()
			e.refreshPair(ctx, pair)
		}(pair)
	}
	wg.Wait()

	e.logger.Debug(ctx, "Refresh cycle complete", map[string]interface{}{
		"pairs":   len(e.cfg.Pairs),
		"elapsed": time.Since(started).String(),
	})
	return nil
}

func (e *Engine) refreshPair(ctx context.Context, pair string) {
	candles, err := e.feed.GetCandles(ctx, pair, e.cfg.CandleInterval, e.cfg.CandleLimit)
	if err != nil {
		e.logger.Error(ctx, err, "Candle fetch failed, keeping previous signal", map[string]interface{}{"pair": pair})
		return
	}

	sig, err := e.generator.Generate(ctx, pair, candles)
	if err != nil {
		e.logger.Warn(ctx, "Signal generation skipped", map[string]interface{}{
			"pair":   pair,
			"reason": err.Error(),
		})
		return
	}

	e.mu.Lock()
	e.live[pair] = *sig
	e.mu.Unlock()
}

// LiveSignal returns the current signal for the pair, if one exists.
func (e *Engine) LiveSignal(pair string) (domain.Signal, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	sig, ok := e.live[pair]
	return sig, ok
}

// LiveSignals returns a copy of every live signal. Order is not meaningful.
func (e *Engine) LiveSignals() []domain.Signal {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]domain.Signal, 0, len(e.live))
	for _, sig := range e.live {
		out = append(out, sig)
	}
	return out
}

// PinSignal pins the live signal with the given id. The pinned snapshot
// survives later live-list replacement for its pair.
func (e *Engine) PinSignal(signalID string) (domain.Signal, error) {
	e.mu.RLock()
	var found *domain.Signal
	for _, sig := range e.live {
		if sig.ID == signalID {
			s := sig
			found = &s
			break
		}
	}
	e.mu.RUnlock()

	if found == nil {
		return domain.Signal{}, fmt.Errorf("no live signal with id %s: %w", signalID, ports.ErrNotFound)
	}
	e.watchlist.Pin(found)
	return *found, nil
}

// UnpinSignal removes a pinned signal. Unpinning an unknown id is a no-op.
func (e *Engine) UnpinSignal(signalID string) bool {
	return e.watchlist.Unpin(signalID)
}

// PinnedSignals returns a copy of every pinned signal.
func (e *Engine) PinnedSignals() []domain.Signal {
	return e.watchlist.All()
}

// RecordOutcome records a win/loss verdict for a pinned signal and unpins
// it. The record is kept even when persistence fails; the error is surfaced
// so the caller can retry.
func (e *Engine) RecordOutcome(ctx context.Context, signalID string, success bool) (*domain.TradeRecord, error) {
	sig, ok := e.watchlist.Get(signalID)
	if !ok {
		return nil, fmt.Errorf("no pinned signal with id %s: %w", signalID, ports.ErrNotFound)
	}

	record, err := e.tracker.RecordOutcome(ctx, &sig, success)
	if record != nil {
		e.watchlist.Unpin(signalID)
	}
	return record, err
}

// RiskFor computes the position sizing view for a signal under the given
// risk parameters. The signal may be live or pinned.
func (e *Engine) RiskFor(params domain.RiskParameters, signalID string) (domain.RiskResult, error) {
	sig, ok := e.watchlist.Get(signalID)
	if !ok {
		e.mu.RLock()
		for _, live := range e.live {
			if live.ID == signalID {
				sig, ok = live, true
				break
			}
		}
		e.mu.RUnlock()
	}
	if !ok {
		return domain.RiskResult{}, fmt.Errorf("no signal with id %s: %w", signalID, ports.ErrNotFound)
	}

	return risk.ComputeRisk(params, sig.EntryPrice, sig.Analysis.Volatility, sig.Type)
}

// SuccessRate returns the rolling win rate as a fraction in [0,1].
func (e *Engine) SuccessRate() float64 {
	return e.tracker.SuccessRate()
}

// TradeHistory returns the most recent trade records, newest first.
func (e *Engine) TradeHistory(ctx context.Context, limit int) ([]*domain.TradeRecord, error) {
	return e.tracker.History(ctx, limit)
}

// statisticsWindow bounds how much history feeds the aggregate metrics.
const statisticsWindow = 500

// Statistics computes aggregate outcome metrics over recent trade history.
func (e *Engine) Statistics(ctx context.Context) (*outcome.Statistics, error) {
	records, err := e.tracker.History(ctx, statisticsWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load records for statistics: %w", err)
	}
	return outcome.AnalyzeRecords(records), nil
}

// SubmitSuggestion stores an improvement suggestion and relays it through
// the notification channel when one is configured. Persistence and relay
// failures are surfaced to the caller but never roll back the suggestion
// value itself.
func (e *Engine) SubmitSuggestion(ctx context.Context, content string) (*domain.Suggestion, error) {
	if content == "" {
		return nil, fmt.Errorf("suggestion content is empty: %w", ports.ErrInvalidRequest)
	}

	suggestion := &domain.Suggestion{
		ID:        uuid.NewString(),
		Content:   content,
		Status:    domain.SuggestionPending,
		CreatedAt: time.Now(),
	}

	if e.suggestionRepo != nil {
		if err := e.suggestionRepo.CreateSuggestion(ctx, suggestion); err != nil {
			e.logger.Error(ctx, err, "Failed to persist suggestion", map[string]interface{}{"suggestionID": suggestion.ID})
			return suggestion, fmt.Errorf("suggestion not persisted: %w", err)
		}
	}

	if e.notifier != nil {
		if err := e.notifier.RelaySuggestion(ctx, suggestion); err != nil {
			e.logger.Error(ctx, err, "Failed to relay suggestion", map[string]interface{}{"suggestionID": suggestion.ID})
			return suggestion, fmt.Errorf("suggestion stored but not relayed: %w", err)
		}
	}

	e.logger.Info(ctx, "Suggestion submitted", map[string]interface{}{"suggestionID": suggestion.ID})
	return suggestion, nil
}
