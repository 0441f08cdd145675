package indicators

import (
	"testing"

	"scalpSignals/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestBollinger(t *testing.T) {
	t.Run("Known window", func(t *testing.T) {
		prices := make([]float64, 20)
		for i := range prices {
			prices[i] = float64(i + 1)
		}
		// Population variance of 1..20 is (20^2-1)/12 = 33.25.
		got := Bollinger(prices, DefaultBollingerPeriod, DefaultBollingerMultiplier)
		assert.InDelta(t, 10.5, got.Middle, 0.0001)
		assert.InDelta(t, 22.032563, got.Upper, 0.0001)
		assert.InDelta(t, -1.032563, got.Lower, 0.0001)
	})

	t.Run("Only the trailing window counts", func(t *testing.T) {
		window := make([]float64, 20)
		for i := range window {
			window[i] = float64(i + 1)
		}
		padded := append([]float64{100000, 50000}, window...)

		assert.Equal(t,
			Bollinger(window, DefaultBollingerPeriod, DefaultBollingerMultiplier),
			Bollinger(padded, DefaultBollingerPeriod, DefaultBollingerMultiplier))
	})

	t.Run("Constant series collapses the bands", func(t *testing.T) {
		prices := make([]float64, 25)
		for i := range prices {
			prices[i] = 100
		}
		got := Bollinger(prices, DefaultBollingerPeriod, DefaultBollingerMultiplier)
		assert.Equal(t, domain.BollingerBands{Upper: 100, Middle: 100, Lower: 100}, got)
	})

	t.Run("Empty input yields zero value", func(t *testing.T) {
		assert.Equal(t, domain.BollingerBands{}, Bollinger(nil, DefaultBollingerPeriod, DefaultBollingerMultiplier))
	})
}

func TestBollinger_Ordering(t *testing.T) {
	prices := make([]float64, 0, 60)
	price := 2500.0
	for i := 0; i < 60; i++ {
		if i%5 == 0 {
			price *= 0.97
		} else {
			price *= 1.008
		}
		prices = append(prices, price)
	}

	for n := 1; n <= len(prices); n++ {
		got := Bollinger(prices[:n], DefaultBollingerPeriod, DefaultBollingerMultiplier)
		assert.LessOrEqual(t, got.Lower, got.Middle)
		assert.LessOrEqual(t, got.Middle, got.Upper)
	}
}
