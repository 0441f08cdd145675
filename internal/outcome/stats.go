package outcome

import (
	"sort"
	"time"

	"scalpSignals/internal/domain"
)

// Statistics holds aggregate metrics over recorded trade outcomes.
type Statistics struct {
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRate       float64 // fraction in [0,1]

	MaxConsecutiveWins   int
	MaxConsecutiveLosses int
	AverageHoldingTime   time.Duration

	// ByPair breaks the win rate down per trading pair.
	ByPair map[string]PairStatistics
}

// PairStatistics is the per-pair slice of the aggregate metrics.
type PairStatistics struct {
	TotalTrades   int
	WinningTrades int
	WinRate       float64
}

// AnalyzeRecords computes aggregate statistics from trade records. Records
// are processed in chronological order so the streak metrics are meaningful.
func AnalyzeRecords(records []*domain.TradeRecord) *Statistics {
	stats := &Statistics{
		ByPair: make(map[string]PairStatistics),
	}
	if len(records) == 0 {
		return stats
	}

	ordered := make([]*domain.TradeRecord, len(records))
	copy(ordered, records)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	var consecutiveWins, consecutiveLosses int
	var totalHoldingMinutes int

	for _, rec := range ordered {
		stats.TotalTrades++
		totalHoldingMinutes += rec.TimeElapsedMinutes

		pair := stats.ByPair[rec.Pair]
		pair.TotalTrades++

		if rec.Success {
			stats.WinningTrades++
			pair.WinningTrades++
			consecutiveWins++
			consecutiveLosses = 0
		} else {
			stats.LosingTrades++
			consecutiveLosses++
			consecutiveWins = 0
		}
		stats.ByPair[rec.Pair] = pair

		if consecutiveWins > stats.MaxConsecutiveWins {
			stats.MaxConsecutiveWins = consecutiveWins
		}
		if consecutiveLosses > stats.MaxConsecutiveLosses {
			stats.MaxConsecutiveLosses = consecutiveLosses
		}
	}

	stats.WinRate = float64(stats.WinningTrades) / float64(stats.TotalTrades)
	stats.AverageHoldingTime = time.Duration(totalHoldingMinutes/stats.TotalTrades) * time.Minute

	for pair, ps := range stats.ByPair {
		ps.WinRate = float64(ps.WinningTrades) / float64(ps.TotalTrades)
		stats.ByPair[pair] = ps
	}

	return stats
}
