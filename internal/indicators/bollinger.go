package indicators

import (
	"math"

	"scalpSignals/internal/domain"
)

// Conventional Bollinger parameters.
const (
	DefaultBollingerPeriod     = 20
	DefaultBollingerMultiplier = 2.0
)

// Bollinger computes Bollinger Bands over the last period prices: a simple
// moving average as the middle band and the population standard deviation of
// the same window scaled by the multiplier for the envelope. When fewer than
// period prices are available the whole series is used.
func Bollinger(prices []float64, period int, multiplier float64) domain.BollingerBands {
	if len(prices) == 0 || period <= 0 {
		return domain.BollingerBands{}
	}

	window := prices
	if len(prices) > period {
		window = prices[len(prices)-period:]
	}

	var sum float64
	for _, p := range window {
		sum += p
	}
	middle := sum / float64(len(window))

	var variance float64
	for _, p := range window {
		d := p - middle
		variance += d * d
	}
	stdDev := math.Sqrt(variance / float64(len(window)))

	return domain.BollingerBands{
		Upper:  middle + stdDev*multiplier,
		Middle: middle,
		Lower:  middle - stdDev*multiplier,
	}
}
