package domain

import (
	"math"
	"time"
)

// PricePoint is a single sample of a price series.
type PricePoint struct {
	Timestamp int64   // Unix milliseconds
	Price     float64 // Closing price at that instant
}

// Candle represents a single OHLCV candlestick.
type Candle struct {
	OpenTime  time.Time // Start time of the interval
	CloseTime time.Time // End time of the interval
	Pair      string    // Trading pair (e.g., "BTCUSDT")
	Interval  string    // Candle interval (e.g., "15m")
	Open      float64   // Opening price
	High      float64   // Highest price
	Low       float64   // Lowest price
	Close     float64   // Closing price
	Volume    float64   // Traded volume
}

// PriceSeries is a time-ascending sequence of price points for one pair.
type PriceSeries []PricePoint

// Prices returns the raw price values in series order.
func (s PriceSeries) Prices() []float64 {
	prices := make([]float64, len(s))
	for i, p := range s {
		prices[i] = p.Price
	}
	return prices
}

// SeriesFromCandles builds a price series from candle closes, dropping
// samples that are not finite positive numbers. Malformed entries are
// filtered here so downstream math never sees them.
func SeriesFromCandles(candles []Candle) PriceSeries {
	series := make(PriceSeries, 0, len(candles))
	for _, c := range candles {
		if math.IsNaN(c.Close) || math.IsInf(c.Close, 0) || c.Close <= 0 {
			continue
		}
		series = append(series, PricePoint{
			Timestamp: c.CloseTime.UnixMilli(),
			Price:     c.Close,
		})
	}
	return series
}

// ValidCandles returns the candles whose OHLC values are all finite and
// positive, preserving order.
func ValidCandles(candles []Candle) []Candle {
	out := make([]Candle, 0, len(candles))
	for _, c := range candles {
		if !validPrice(c.Open) || !validPrice(c.High) || !validPrice(c.Low) || !validPrice(c.Close) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func validPrice(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
