package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"scalpSignals/config"
	"scalpSignals/internal/domain"
	"scalpSignals/internal/outcome"
	"scalpSignals/internal/ports"
	"scalpSignals/internal/signal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

// fakeFeed implements ports.PriceFeed with canned per-pair series
type fakeFeed struct {
	closes map[string][]float64
	errs   map[string]error
}

func (f *fakeFeed) GetCandles(ctx context.Context, pair, interval string, limit int) ([]domain.Candle, error) {
	if err := f.errs[pair]; err != nil {
		return nil, err
	}
	closes := f.closes[pair]
	now := time.Now()
	candles := make([]domain.Candle, 0, len(closes))
	for i, c := range closes {
		openTime := now.Add(time.Duration(i-len(closes)) * 15 * time.Minute)
		candles = append(candles, domain.Candle{
			OpenTime:  openTime,
			CloseTime: openTime.Add(15 * time.Minute),
			Pair:      pair,
			Interval:  interval,
			Open:      c,
			High:      c * 1.002,
			Low:       c * 0.998,
			Close:     c,
			Volume:    300000,
		})
	}
	return candles, nil
}

// failingNotifier implements ports.Notifier and always fails
type failingNotifier struct{}

func (n *failingNotifier) RelaySuggestion(ctx context.Context, s *domain.Suggestion) error {
	return errors.New("channel unreachable")
}

// memSuggestionRepo implements ports.SuggestionRepository in memory
type memSuggestionRepo struct {
	suggestions []domain.Suggestion
	createErr   error
}

func (r *memSuggestionRepo) CreateSuggestion(ctx context.Context, s *domain.Suggestion) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.suggestions = append(r.suggestions, *s)
	return nil
}

func (r *memSuggestionRepo) FindByStatus(ctx context.Context, status domain.SuggestionStatus) ([]*domain.Suggestion, error) {
	var out []*domain.Suggestion
	for i := range r.suggestions {
		if r.suggestions[i].Status == status {
			out = append(out, &r.suggestions[i])
		}
	}
	return out, nil
}

func trendingSeries(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func testConfig(pairs ...string) *config.Config {
	return &config.Config{
		Pairs:           pairs,
		CandleInterval:  "15m",
		CandleLimit:     100,
		RefreshInterval: 5 * time.Minute,
		Risk:            domain.RiskParameters{AvailableCapital: 1000, RiskPerTrade: 0.02, MaxLeverage: 20},
	}
}

func newTestEngine(t *testing.T, cfg *config.Config, feed ports.PriceFeed, repo ports.SuggestionRepository, notifier ports.Notifier) *Engine {
	t.Helper()
	logger := &mockLogger{}

	tracker, err := outcome.New(outcome.Config{Logger: logger})
	require.NoError(t, err)

	gen, err := signal.New(signal.Config{Logger: logger, SuccessRate: tracker.SuccessRate})
	require.NoError(t, err)

	engine, err := NewEngine(cfg, logger, feed, gen, tracker, repo, notifier)
	require.NoError(t, err)
	return engine
}

func TestNewEngine_Validation(t *testing.T) {
	feed := &fakeFeed{}

	t.Run("Missing dependencies", func(t *testing.T) {
		engine, err := NewEngine(nil, &mockLogger{}, feed, nil, nil, nil, nil)
		assert.Error(t, err)
		assert.Nil(t, engine)
	})

	t.Run("No tracked pairs", func(t *testing.T) {
		logger := &mockLogger{}
		tracker, err := outcome.New(outcome.Config{Logger: logger})
		require.NoError(t, err)
		gen, err := signal.New(signal.Config{Logger: logger})
		require.NoError(t, err)

		engine, err := NewEngine(testConfig(), logger, feed, gen, tracker, nil, nil)
		assert.Error(t, err)
		assert.Nil(t, engine)
	})
}

func TestStartStop(t *testing.T) {
	feed := &fakeFeed{closes: map[string][]float64{
		"BTCUSDT": trendingSeries(50, 64000, 25),
	}}
	cfg := testConfig("BTCUSDT")
	cfg.RefreshInterval = 10 * time.Millisecond
	engine := newTestEngine(t, cfg, feed, nil, nil)

	done := make(chan error, 1)
	go func() {
		done <- engine.Start(context.Background())
	}()

	require.Eventually(t, func() bool {
		_, ok := engine.LiveSignal("BTCUSDT")
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	engine.Stop()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not stop")
	}
}

func TestRefresh_PopulatesLiveSignals(t *testing.T) {
	feed := &fakeFeed{closes: map[string][]float64{
		"BTCUSDT": trendingSeries(50, 64000, 25),
		"ETHUSDT": trendingSeries(50, 3200, -2),
	}}
	engine := newTestEngine(t, testConfig("BTCUSDT", "ETHUSDT"), feed, nil, nil)

	engine.Refresh(context.Background())

	assert.Len(t, engine.LiveSignals(), 2)
	btc, ok := engine.LiveSignal("BTCUSDT")
	require.True(t, ok)
	assert.Equal(t, "BTCUSDT", btc.Pair)

	_, ok = engine.LiveSignal("DOGEUSDT")
	assert.False(t, ok)
}

func TestRefresh_ReplacesLiveSignal(t *testing.T) {
	feed := &fakeFeed{closes: map[string][]float64{
		"BTCUSDT": trendingSeries(50, 64000, 25),
	}}
	engine := newTestEngine(t, testConfig("BTCUSDT"), feed, nil, nil)
	ctx := context.Background()

	engine.Refresh(ctx)
	first, ok := engine.LiveSignal("BTCUSDT")
	require.True(t, ok)

	engine.Refresh(ctx)
	second, ok := engine.LiveSignal("BTCUSDT")
	require.True(t, ok)

	// Last write wins, with a fresh identity.
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, engine.LiveSignals(), 1)
}

func TestRefresh_FailedFeedKeepsStaleSignal(t *testing.T) {
	feed := &fakeFeed{closes: map[string][]float64{
		"BTCUSDT": trendingSeries(50, 64000, 25),
	}}
	engine := newTestEngine(t, testConfig("BTCUSDT"), feed, nil, nil)
	ctx := context.Background()

	engine.Refresh(ctx)
	stale, ok := engine.LiveSignal("BTCUSDT")
	require.True(t, ok)

	feed.errs = map[string]error{"BTCUSDT": ports.ErrFeedUnavailable}
	engine.Refresh(ctx)

	current, ok := engine.LiveSignal("BTCUSDT")
	require.True(t, ok)
	assert.Equal(t, stale.ID, current.ID)
}

func TestRefresh_ShortSeriesKeepsStaleSignal(t *testing.T) {
	feed := &fakeFeed{closes: map[string][]float64{
		"BTCUSDT": trendingSeries(50, 64000, 25),
	}}
	engine := newTestEngine(t, testConfig("BTCUSDT"), feed, nil, nil)
	ctx := context.Background()

	engine.Refresh(ctx)
	stale, ok := engine.LiveSignal("BTCUSDT")
	require.True(t, ok)

	feed.closes["BTCUSDT"] = trendingSeries(10, 64000, 25)
	engine.Refresh(ctx)

	current, ok := engine.LiveSignal("BTCUSDT")
	require.True(t, ok)
	assert.Equal(t, stale.ID, current.ID)
}

func TestPinSignal_SurvivesRefresh(t *testing.T) {
	feed := &fakeFeed{closes: map[string][]float64{
		"BTCUSDT": trendingSeries(50, 64000, 25),
	}}
	engine := newTestEngine(t, testConfig("BTCUSDT"), feed, nil, nil)
	ctx := context.Background()

	engine.Refresh(ctx)
	live, ok := engine.LiveSignal("BTCUSDT")
	require.True(t, ok)

	pinned, err := engine.PinSignal(live.ID)
	require.NoError(t, err)
	assert.Equal(t, live.ID, pinned.ID)

	engine.Refresh(ctx)
	replaced, ok := engine.LiveSignal("BTCUSDT")
	require.True(t, ok)
	require.NotEqual(t, live.ID, replaced.ID)

	// The pinned snapshot is untouched by the replacement.
	stillPinned := engine.PinnedSignals()
	require.Len(t, stillPinned, 1)
	assert.Equal(t, live.ID, stillPinned[0].ID)
}

func TestPinSignal_UnknownID(t *testing.T) {
	engine := newTestEngine(t, testConfig("BTCUSDT"), &fakeFeed{}, nil, nil)
	_, err := engine.PinSignal("missing")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRecordOutcome(t *testing.T) {
	feed := &fakeFeed{closes: map[string][]float64{
		"BTCUSDT": trendingSeries(50, 64000, 25),
	}}
	engine := newTestEngine(t, testConfig("BTCUSDT"), feed, nil, nil)
	ctx := context.Background()

	engine.Refresh(ctx)
	live, _ := engine.LiveSignal("BTCUSDT")
	_, err := engine.PinSignal(live.ID)
	require.NoError(t, err)

	record, err := engine.RecordOutcome(ctx, live.ID, true)
	require.NoError(t, err)
	assert.Equal(t, live.ID, record.SignalID)
	assert.Equal(t, 1.0, engine.SuccessRate())

	// Recording unpins the signal.
	assert.Empty(t, engine.PinnedSignals())

	_, err = engine.RecordOutcome(ctx, live.ID, true)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestStatistics(t *testing.T) {
	feed := &fakeFeed{closes: map[string][]float64{
		"BTCUSDT": trendingSeries(50, 64000, 25),
	}}
	engine := newTestEngine(t, testConfig("BTCUSDT"), feed, nil, nil)
	ctx := context.Background()

	for i, success := range []bool{true, true, false} {
		engine.Refresh(ctx)
		current, ok := engine.LiveSignal("BTCUSDT")
		require.True(t, ok, "iteration %d", i)
		_, err := engine.PinSignal(current.ID)
		require.NoError(t, err)
		_, err = engine.RecordOutcome(ctx, current.ID, success)
		require.NoError(t, err)
	}

	stats, err := engine.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalTrades)
	assert.Equal(t, 2, stats.WinningTrades)
	assert.InDelta(t, 2.0/3.0, stats.WinRate, 0.0001)
	assert.Equal(t, 3, stats.ByPair["BTCUSDT"].TotalTrades)
}

func TestRiskFor(t *testing.T) {
	feed := &fakeFeed{closes: map[string][]float64{
		"BTCUSDT": trendingSeries(50, 64000, 25),
	}}
	cfg := testConfig("BTCUSDT")
	engine := newTestEngine(t, cfg, feed, nil, nil)
	ctx := context.Background()

	engine.Refresh(ctx)
	live, _ := engine.LiveSignal("BTCUSDT")

	result, err := engine.RiskFor(cfg.Risk, live.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, result.CapitalAtRisk)
	assert.Equal(t, 20, result.SuggestedLeverage)

	_, err = engine.RiskFor(cfg.Risk, "missing")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSubmitSuggestion(t *testing.T) {
	engine := newTestEngine(t, testConfig("BTCUSDT"), &fakeFeed{}, &memSuggestionRepo{}, nil)

	suggestion, err := engine.SubmitSuggestion(context.Background(), "add EMA crossover alerts")
	require.NoError(t, err)
	assert.NotEmpty(t, suggestion.ID)
	assert.Equal(t, domain.SuggestionPending, suggestion.Status)
}

func TestSubmitSuggestion_RelayFailureKeepsRecord(t *testing.T) {
	repo := &memSuggestionRepo{}
	engine := newTestEngine(t, testConfig("BTCUSDT"), &fakeFeed{}, repo, &failingNotifier{})
	ctx := context.Background()

	suggestion, err := engine.SubmitSuggestion(ctx, "add EMA crossover alerts")
	assert.Error(t, err)
	require.NotNil(t, suggestion)

	// The local record is not rolled back.
	pending, err := repo.FindByStatus(ctx, domain.SuggestionPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestSubmitSuggestion_Empty(t *testing.T) {
	engine := newTestEngine(t, testConfig("BTCUSDT"), &fakeFeed{}, nil, nil)
	suggestion, err := engine.SubmitSuggestion(context.Background(), "")
	assert.ErrorIs(t, err, ports.ErrInvalidRequest)
	assert.Nil(t, suggestion)
}
