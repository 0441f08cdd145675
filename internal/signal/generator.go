// Package signal turns indicator snapshots into directional trade signals.
package signal

import (
	"context"
	"fmt"
	"math"
	"time"

	"scalpSignals/internal/domain"
	"scalpSignals/internal/indicators"
	"scalpSignals/internal/ports"
	"scalpSignals/internal/risk"

	"github.com/google/uuid"
)

// MinSeriesLength is the minimum number of valid price points required
// before a signal is generated for a pair.
const MinSeriesLength = 20

const (
	defaultStopLossPct    = 0.02
	defaultTakeProfit1Pct = 0.01
	defaultTakeProfit2Pct = 0.02

	entryOffsetFactor = 0.5
	stopLossFactor    = 1.5
	takeProfit1Factor = 2.0
	takeProfit2Factor = 3.0
)

// Config holds configuration for the signal generator.
type Config struct {
	Logger ports.Logger
	// SuccessRate supplies the rolling historical win rate as a fraction
	// in [0,1]. Optional; signals carry a zero estimate without it.
	SuccessRate func() float64
	// Risk supplies default account-level parameters used to stamp each
	// signal with a leverage and position size. Optional; signals carry
	// zero sizing without it.
	Risk *domain.RiskParameters
}

// Generator produces at most one directional signal per pair per refresh
// cycle. It is stateless between calls; replace-on-refresh semantics are
// owned by the caller.
type Generator struct {
	logger      ports.Logger
	successRate func() float64
	riskParams  *domain.RiskParameters
}

// New creates a new signal generator.
func New(cfg Config) (*Generator, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for signal generator")
	}
	if cfg.Risk != nil {
		if err := cfg.Risk.Validate(); err != nil {
			return nil, fmt.Errorf("invalid default risk parameters: %w", err)
		}
	}
	return &Generator{
		logger:      cfg.Logger,
		successRate: cfg.SuccessRate,
		riskParams:  cfg.Risk,
	}, nil
}

// Generate computes an indicator snapshot from the candle series and derives
// a signal for the pair. Returns ports.ErrInsufficientData when fewer than
// MinSeriesLength valid price points survive ingestion filtering; the caller
// keeps its previous signal for the pair in that case.
func (g *Generator) Generate(ctx context.Context, pair string, candles []domain.Candle) (*domain.Signal, error) {
	valid := domain.ValidCandles(candles)
	series := domain.SeriesFromCandles(valid)
	if len(series) < MinSeriesLength {
		return nil, fmt.Errorf("pair %s has %d valid price points, need %d: %w",
			pair, len(series), MinSeriesLength, ports.ErrInsufficientData)
	}

	snapshot := indicators.ComputeSnapshot(valid)
	lastClose := series[len(series)-1].Price

	sigType := classify(snapshot)
	entry := entryPrice(sigType, lastClose, snapshot.Volatility)
	stop := stopLoss(sigType, entry, snapshot.Volatility)
	takeProfits := takeProfitLadder(sigType, entry, snapshot.Volatility)
	strength := classifyStrength(snapshot)

	var rate float64
	if g.successRate != nil {
		rate = g.successRate() * 100
	}

	var positionSize float64
	if g.riskParams != nil {
		if result, err := risk.ComputeRisk(*g.riskParams, entry, snapshot.Volatility, sigType); err == nil {
			positionSize = result.PositionSize
		}
	}

	sig := &domain.Signal{
		ID:                   uuid.NewString(),
		Pair:                 pair,
		Type:                 sigType,
		EntryPrice:           entry,
		StopLoss:             stop,
		TakeProfits:          takeProfits,
		Leverage:             tierLeverage(snapshot.Volatility),
		PositionSize:         positionSize,
		Strength:             strength,
		SuccessRateEstimate:  rate,
		EstimatedTimeMinutes: estimateHoldingTime(snapshot),
		Message:              rationale(sigType, snapshot),
		Analysis:             snapshot,
		Timestamp:            time.Now(),
	}

	g.logger.Debug(ctx, "Generated signal", map[string]interface{}{
		"pair":     pair,
		"type":     string(sigType),
		"strength": string(strength),
		"entry":    entry,
	})
	return sig, nil
}

// classify derives the trade direction deterministically from indicator
// state. Long bias on a low RSI or positive MACD momentum, short bias on the
// mirror; the MACD histogram sign breaks ties, and a flat histogram falls
// back to which side of neutral the RSI sits on.
func classify(s domain.IndicatorSnapshot) domain.SignalType {
	hist := s.MACD.Histogram
	longBias := s.RSI < 45 || hist > 0
	shortBias := s.RSI > 55 || hist < 0

	switch {
	case longBias && !shortBias:
		return domain.SignalLong
	case shortBias && !longBias:
		return domain.SignalShort
	case hist > 0:
		return domain.SignalLong
	case hist < 0:
		return domain.SignalShort
	case s.RSI <= 50:
		return domain.SignalLong
	default:
		return domain.SignalShort
	}
}

// entryPrice nudges the last close by a volatility-scaled offset toward a
// favorable fill: below market for longs, above for shorts.
func entryPrice(sigType domain.SignalType, lastClose, volatility float64) float64 {
	offset := lastClose * volatility * entryOffsetFactor
	if sigType == domain.SignalLong {
		return lastClose - offset
	}
	return lastClose + offset
}

func stopLoss(sigType domain.SignalType, entry, volatility float64) float64 {
	pct := volatility * stopLossFactor
	if volatility <= 0 {
		pct = defaultStopLossPct
	}
	if sigType == domain.SignalLong {
		return entry * (1 - pct)
	}
	return entry * (1 + pct)
}

// takeProfitLadder orders both targets by distance from entry in the
// direction of the trade.
func takeProfitLadder(sigType domain.SignalType, entry, volatility float64) [2]float64 {
	pct1 := volatility * takeProfit1Factor
	pct2 := volatility * takeProfit2Factor
	if volatility <= 0 {
		pct1 = defaultTakeProfit1Pct
		pct2 = defaultTakeProfit2Pct
	}
	if sigType == domain.SignalLong {
		return [2]float64{entry * (1 + pct1), entry * (1 + pct2)}
	}
	return [2]float64{entry * (1 - pct1), entry * (1 - pct2)}
}

// classifyStrength combines RSI displacement from neutral with MACD
// histogram magnitude into a 0..1 composite and buckets it.
func classifyStrength(s domain.IndicatorSnapshot) domain.SignalStrength {
	rsiComponent := math.Abs(50-s.RSI) / 50
	histComponent := math.Abs(s.MACD.Histogram)
	if histComponent > 1 {
		histComponent = 1
	}
	composite := (rsiComponent + histComponent) / 2

	switch {
	case composite < 0.4:
		return domain.StrengthLow
	case composite <= 0.7:
		return domain.StrengthMedium
	default:
		return domain.StrengthHigh
	}
}

// rationale names the dominant contributing indicator in a fixed template.
func rationale(sigType domain.SignalType, s domain.IndicatorSnapshot) string {
	if sigType == domain.SignalLong {
		if s.RSI < 45 {
			return fmt.Sprintf("RSI at %.1f signals oversold conditions, favoring a long entry", s.RSI)
		}
		return fmt.Sprintf("MACD histogram positive at %.4f, upward momentum building", s.MACD.Histogram)
	}
	if s.RSI > 55 {
		return fmt.Sprintf("RSI at %.1f signals overbought conditions, favoring a short entry", s.RSI)
	}
	return fmt.Sprintf("MACD histogram negative at %.4f, downward momentum building", s.MACD.Histogram)
}

// tierLeverage suggests a leverage for the signal from volatility alone:
// calmer markets tolerate higher leverage. This is the signal's own view,
// independent of the user ceiling the risk manager applies.
func tierLeverage(volatility float64) int {
	switch {
	case volatility < 0.01:
		return 20
	case volatility < 0.02:
		return 15
	case volatility < 0.03:
		return 10
	case volatility < 0.04:
		return 7
	default:
		return 5
	}
}

// estimateHoldingTime maps volatility and traded volume onto an expected
// time-to-target bucket. Faster markets resolve targets sooner.
func estimateHoldingTime(s domain.IndicatorSnapshot) int {
	switch {
	case s.Volatility > 0.005 && s.Volume > 1_000_000:
		return 15
	case s.Volatility > 0.003 && s.Volume > 500_000:
		return 30
	case s.Volatility > 0.001 && s.Volume > 100_000:
		return 60
	default:
		return 240
	}
}
