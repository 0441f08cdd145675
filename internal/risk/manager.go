// Package risk computes position sizing under user-supplied risk constraints.
package risk

import (
	"fmt"
	"math"

	"scalpSignals/internal/domain"
	"scalpSignals/internal/ports"
)

// PlatformMaxLeverage is the hard leverage ceiling applied regardless of
// user configuration.
const PlatformMaxLeverage = 20

const stopLossFactor = 1.5

// ComputeRisk derives position size, leverage, stop-loss and a fixed
// take-profit ladder from the user's risk parameters and a signal's entry
// price and volatility. Pure function: no side effects, no persisted state;
// it runs synchronously whenever a risk parameter changes.
func ComputeRisk(params domain.RiskParameters, entryPrice, volatility float64, sigType domain.SignalType) (domain.RiskResult, error) {
	if err := params.Validate(); err != nil {
		return domain.RiskResult{}, fmt.Errorf("invalid risk parameters: %w", err)
	}
	if entryPrice <= 0 || math.IsNaN(entryPrice) || math.IsInf(entryPrice, 0) {
		return domain.RiskResult{}, fmt.Errorf("entry price must be a positive number, got %f: %w", entryPrice, ports.ErrInvalidRequest)
	}
	if volatility < 0 || math.IsNaN(volatility) || math.IsInf(volatility, 0) {
		volatility = 0
	}

	capitalAtRisk := params.AvailableCapital * params.RiskPerTrade

	leverage := params.MaxLeverage
	if leverage > PlatformMaxLeverage {
		leverage = PlatformMaxLeverage
	}

	stopPct := volatility * stopLossFactor
	var stopLoss float64
	if sigType == domain.SignalShort {
		stopLoss = entryPrice * (1 + stopPct)
	} else {
		stopLoss = entryPrice * (1 - stopPct)
	}

	// With zero volatility the stop collapses onto the entry, so size by
	// leveraged capital directly instead of dividing by a zero distance.
	stopDistance := math.Abs(entryPrice - stopLoss)
	var positionSize float64
	if stopDistance == 0 {
		positionSize = capitalAtRisk * float64(leverage)
	} else {
		positionSize = capitalAtRisk * float64(leverage) / stopDistance
	}

	takeProfits := takeProfitLadder(entryPrice, sigType)

	return domain.RiskResult{
		PositionSize:      positionSize,
		SuggestedLeverage: leverage,
		StopLoss:          stopLoss,
		TakeProfits:       takeProfits,
		CapitalAtRisk:     capitalAtRisk,
	}, nil
}

// takeProfitLadder applies the fixed +1%/+2%/+3% ladder in the trade
// direction. This is a user-tunable risk view, independent of the signal
// generator's own volatility-scaled targets.
func takeProfitLadder(entryPrice float64, sigType domain.SignalType) [3]float64 {
	if sigType == domain.SignalShort {
		return [3]float64{
			entryPrice * 0.99,
			entryPrice * 0.98,
			entryPrice * 0.97,
		}
	}
	return [3]float64{
		entryPrice * 1.01,
		entryPrice * 1.02,
		entryPrice * 1.03,
	}
}
