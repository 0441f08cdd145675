package domain

import "fmt"

// RiskParameters are the user-owned account-level risk constraints. They
// are supplied per computation and never persisted by the engine.
type RiskParameters struct {
	AvailableCapital float64 // > 0
	RiskPerTrade     float64 // fraction in (0,1]
	MaxLeverage      int     // >= 1
}

// Validate checks the parameter ranges.
func (p RiskParameters) Validate() error {
	if p.AvailableCapital <= 0 {
		return fmt.Errorf("available capital must be positive, got %f", p.AvailableCapital)
	}
	if p.RiskPerTrade <= 0 || p.RiskPerTrade > 1 {
		return fmt.Errorf("risk per trade must be in (0,1], got %f", p.RiskPerTrade)
	}
	if p.MaxLeverage < 1 {
		return fmt.Errorf("max leverage must be at least 1, got %d", p.MaxLeverage)
	}
	return nil
}

// RiskResult is the derived position sizing view. It is computed on demand
// and not stored.
type RiskResult struct {
	PositionSize      float64
	SuggestedLeverage int
	StopLoss          float64
	TakeProfits       [3]float64
	CapitalAtRisk     float64
}
