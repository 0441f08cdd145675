package indicators

import "scalpSignals/internal/domain"

// Conventional Stochastic parameters.
const (
	DefaultStochasticPeriod = 14
	stochasticSmoothing     = 3
)

// Stochastic computes the %K/%D oscillator over the candle high/low/close
// range. %K measures where the latest close sits within the period's
// high-low range; %D is a 3-sample simple average of recent %K readings.
// Returns the neutral reading {50, 50} when the input is too short or the
// range is flat.
func Stochastic(candles []domain.Candle, period int) domain.StochasticResult {
	if period <= 0 || len(candles) < period {
		return domain.StochasticResult{K: 50, D: 50}
	}

	k := stochasticK(candles, period)

	// %D averages the %K readings at the last few closes.
	samples := stochasticSmoothing
	if available := len(candles) - period + 1; available < samples {
		samples = available
	}
	var sum float64
	for i := 0; i < samples; i++ {
		sum += stochasticK(candles[:len(candles)-i], period)
	}
	d := sum / float64(samples)

	return domain.StochasticResult{K: k, D: d}
}

func stochasticK(candles []domain.Candle, period int) float64 {
	window := candles[len(candles)-period:]
	lowest := window[0].Low
	highest := window[0].High
	for _, c := range window[1:] {
		if c.Low < lowest {
			lowest = c.Low
		}
		if c.High > highest {
			highest = c.High
		}
	}

	if highest == lowest {
		return 50
	}
	lastClose := window[len(window)-1].Close
	return (lastClose - lowest) / (highest - lowest) * 100
}
