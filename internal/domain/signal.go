package domain

import "time"

// SignalType is the direction of a trade suggestion.
type SignalType string

const (
	SignalLong  SignalType = "LONG"
	SignalShort SignalType = "SHORT"
)

// SignalStrength buckets the composite indicator conviction.
type SignalStrength string

const (
	StrengthLow    SignalStrength = "LOW"
	StrengthMedium SignalStrength = "MEDIUM"
	StrengthHigh   SignalStrength = "HIGH"
)

// MACDResult holds the three MACD readings at one instant.
type MACDResult struct {
	MACDLine   float64
	SignalLine float64
	Histogram  float64
}

// EMASet holds the short/medium/long exponential moving averages
// (periods 9/21/50 by convention).
type EMASet struct {
	Short  float64
	Medium float64
	Long   float64
}

// BollingerBands is a moving-average volatility envelope.
type BollingerBands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// StochasticResult holds the %K/%D oscillator readings.
type StochasticResult struct {
	K float64
	D float64
}

// IndicatorSnapshot is an immutable battery of technical readings computed
// from one price series at one instant.
type IndicatorSnapshot struct {
	RSI        float64 // in [0,100]
	MACD       MACDResult
	EMA        EMASet
	Bollinger  BollingerBands
	Stochastic StochasticResult
	Volatility float64 // stddev of simple returns, unannualized
	Volume     float64 // volume of the most recent candle
}

// Signal is a directional trade suggestion derived from an indicator
// snapshot. Signals are immutable once created; a new refresh produces a
// new Signal with a new ID that replaces the prior one for the same pair.
type Signal struct {
	ID                   string
	Pair                 string
	Type                 SignalType
	EntryPrice           float64
	StopLoss             float64
	TakeProfits          [2]float64 // ordered by distance from entry in trade direction
	Leverage             int
	PositionSize         float64
	Strength             SignalStrength
	SuccessRateEstimate  float64 // percentage, from recorded outcome history
	EstimatedTimeMinutes int
	Message              string
	Analysis             IndicatorSnapshot
	Timestamp            time.Time
}

// IsLong reports whether the signal suggests a long position.
func (s *Signal) IsLong() bool {
	return s.Type == SignalLong
}
