package indicators

import (
	"testing"

	"scalpSignals/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestMACD_HistogramIdentity(t *testing.T) {
	prices := make([]float64, 0, 60)
	price := 100.0
	for i := 0; i < 60; i++ {
		if i%2 == 0 {
			price *= 1.01
		} else {
			price *= 0.997
		}
		prices = append(prices, price)
	}

	for n := 1; n <= len(prices); n++ {
		result := MACD(prices[:n])
		assert.Equal(t, result.MACDLine-result.SignalLine, result.Histogram)
	}
}

func TestMACD(t *testing.T) {
	t.Run("Empty input yields zero value", func(t *testing.T) {
		assert.Equal(t, domain.MACDResult{}, MACD(nil))
	})

	t.Run("Single price yields zero lines", func(t *testing.T) {
		result := MACD([]float64{100})
		assert.Equal(t, 0.0, result.MACDLine)
		assert.Equal(t, 0.0, result.SignalLine)
		assert.Equal(t, 0.0, result.Histogram)
	})

	t.Run("Rising trend yields positive MACD line and histogram", func(t *testing.T) {
		prices := make([]float64, 60)
		for i := range prices {
			prices[i] = 100 + float64(i)
		}
		result := MACD(prices)
		assert.Greater(t, result.MACDLine, 0.0)
		assert.Greater(t, result.Histogram, 0.0)
	})

	t.Run("Falling trend yields negative MACD line", func(t *testing.T) {
		prices := make([]float64, 60)
		for i := range prices {
			prices[i] = 160 - float64(i)
		}
		result := MACD(prices)
		assert.Less(t, result.MACDLine, 0.0)
		assert.Less(t, result.Histogram, 0.0)
	})
}
