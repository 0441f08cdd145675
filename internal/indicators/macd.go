package indicators

import "scalpSignals/internal/domain"

// Conventional MACD periods.
const (
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9
)

// MACD computes the Moving Average Convergence/Divergence reading.
// The MACD line is the difference between the fast and slow EMA series;
// the signal line is the 9-period EMA applied to the full MACD line
// history, so the histogram carries real convergence information instead
// of collapsing to zero. Returns a zero-valued result on empty input.
func MACD(prices []float64) domain.MACDResult {
	if len(prices) == 0 {
		return domain.MACDResult{}
	}

	fast := EMASeries(prices, MACDFastPeriod)
	slow := EMASeries(prices, MACDSlowPeriod)

	macdSeries := make([]float64, len(prices))
	for i := range prices {
		macdSeries[i] = fast[i] - slow[i]
	}

	signalSeries := EMASeries(macdSeries, MACDSignalPeriod)

	macdLine := macdSeries[len(macdSeries)-1]
	signalLine := signalSeries[len(signalSeries)-1]
	return domain.MACDResult{
		MACDLine:   macdLine,
		SignalLine: signalLine,
		Histogram:  macdLine - signalLine,
	}
}
