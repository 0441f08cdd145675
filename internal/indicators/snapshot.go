package indicators

import "scalpSignals/internal/domain"

// Conventional EMA ribbon periods.
const (
	EMAShortPeriod  = 9
	EMAMediumPeriod = 21
	EMALongPeriod   = 50
)

// ComputeSnapshot derives the full indicator battery from one candle series.
// The closes drive every price-based indicator; the candles themselves feed
// the Stochastic high/low range. The snapshot is a pure value, computed in
// one pass and never mutated afterwards.
func ComputeSnapshot(candles []domain.Candle) domain.IndicatorSnapshot {
	prices := domain.SeriesFromCandles(candles).Prices()

	var volume float64
	if len(candles) > 0 {
		volume = candles[len(candles)-1].Volume
	}

	return domain.IndicatorSnapshot{
		RSI:  RSI(prices, DefaultRSIPeriod),
		MACD: MACD(prices),
		EMA: domain.EMASet{
			Short:  EMA(prices, EMAShortPeriod),
			Medium: EMA(prices, EMAMediumPeriod),
			Long:   EMA(prices, EMALongPeriod),
		},
		Bollinger:  Bollinger(prices, DefaultBollingerPeriod, DefaultBollingerMultiplier),
		Stochastic: Stochastic(candles, DefaultStochasticPeriod),
		Volatility: Volatility(prices),
		Volume:     volume,
	}
}
