package outcome

import (
	"testing"
	"time"

	"scalpSignals/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statsRecord(pair string, success bool, minutesAgo, held int) *domain.TradeRecord {
	return &domain.TradeRecord{
		ID:                 pair + time.Duration(minutesAgo).String(),
		Pair:               pair,
		Type:               domain.SignalLong,
		Success:            success,
		Timestamp:          time.Now().Add(-time.Duration(minutesAgo) * time.Minute),
		TimeElapsedMinutes: held,
	}
}

func TestAnalyzeRecords_Empty(t *testing.T) {
	stats := AnalyzeRecords(nil)
	require.NotNil(t, stats)
	assert.Equal(t, 0, stats.TotalTrades)
	assert.Equal(t, 0.0, stats.WinRate)
	assert.Empty(t, stats.ByPair)
}

func TestAnalyzeRecords(t *testing.T) {
	records := []*domain.TradeRecord{
		// Given newest first, as the repository returns them.
		statsRecord("ETHUSDT", false, 10, 20),
		statsRecord("BTCUSDT", true, 20, 30),
		statsRecord("BTCUSDT", true, 30, 60),
		statsRecord("ETHUSDT", true, 40, 10),
		statsRecord("BTCUSDT", false, 50, 40),
	}

	stats := AnalyzeRecords(records)

	assert.Equal(t, 5, stats.TotalTrades)
	assert.Equal(t, 3, stats.WinningTrades)
	assert.Equal(t, 2, stats.LosingTrades)
	assert.InDelta(t, 0.6, stats.WinRate, 0.0001)

	// Chronological order: loss, win, win, win, loss.
	assert.Equal(t, 3, stats.MaxConsecutiveWins)
	assert.Equal(t, 1, stats.MaxConsecutiveLosses)

	// (40+10+60+30+20)/5 = 32 minutes.
	assert.Equal(t, 32*time.Minute, stats.AverageHoldingTime)

	btc := stats.ByPair["BTCUSDT"]
	assert.Equal(t, 3, btc.TotalTrades)
	assert.Equal(t, 2, btc.WinningTrades)
	assert.InDelta(t, 2.0/3.0, btc.WinRate, 0.0001)

	eth := stats.ByPair["ETHUSDT"]
	assert.Equal(t, 2, eth.TotalTrades)
	assert.InDelta(t, 0.5, eth.WinRate, 0.0001)
}
