package ports

import (
	"context"

	"scalpSignals/internal/domain"
)

// PriceFeed supplies candle history for a trading pair. The engine does not
// care how the data is fetched, cached, or rate-limited; it only requires a
// non-empty, time-ordered series.
type PriceFeed interface {
	// GetCandles retrieves up to limit most recent candles for the pair at
	// the given interval, oldest first.
	GetCandles(ctx context.Context, pair, interval string, limit int) ([]domain.Candle, error)
}
