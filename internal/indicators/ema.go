// Package indicators provides pure, deterministic technical indicator
// computations over price series. Every function degrades to a neutral
// default on short input rather than returning an error; callers decide
// whether degraded readings are acceptable.
package indicators

// EMASeries computes the exponential moving average over the full series.
// The first value seeds from the first price; each subsequent value applies
// the standard multiplier 2/(period+1).
func EMASeries(prices []float64, period int) []float64 {
	if len(prices) == 0 || period <= 0 {
		return nil
	}

	multiplier := 2.0 / float64(period+1)
	series := make([]float64, len(prices))
	series[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		series[i] = (prices[i]-series[i-1])*multiplier + series[i-1]
	}
	return series
}

// EMA returns the latest exponential moving average value, or 0 on empty input.
func EMA(prices []float64, period int) float64 {
	series := EMASeries(prices, period)
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}
