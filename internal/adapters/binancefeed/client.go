package binancefeed

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"scalpSignals/internal/domain"
	"scalpSignals/internal/ports"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/jpillora/backoff"
)

const (
	baseURLProduction = "https://api.binance.com"
	baseURLTestnet    = "https://testnet.binance.vision"
)

// Client implements the ports.PriceFeed interface using the go-binance
// spot API. Kline retrieval is a public endpoint, so API keys are optional.
type Client struct {
	client      *binance.Client
	logger      ports.Logger
	maxAttempts int
	retryMin    time.Duration
	retryMax    time.Duration
}

// Config holds configuration specific to the Binance feed adapter.
type Config struct {
	APIKey      string
	SecretKey   string
	UseTestnet  bool
	Logger      ports.Logger
	MaxAttempts int           // Max fetch attempts before giving up
	RetryMin    time.Duration // Initial retry delay
	RetryMax    time.Duration // Retry delay ceiling
}

// New creates a new Binance feed adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance feed")
	}

	client := binance.NewClient(cfg.APIKey, cfg.SecretKey)
	if cfg.UseTestnet {
		client.BaseURL = baseURLTestnet
	} else {
		client.BaseURL = baseURLProduction
	}
	cfg.Logger.Info(context.Background(), "Binance feed configured", map[string]interface{}{"baseURL": client.BaseURL})

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	retryMin := cfg.RetryMin
	if retryMin <= 0 {
		retryMin = time.Second
	}
	retryMax := cfg.RetryMax
	if retryMax <= 0 {
		retryMax = 30 * time.Second
	}

	return &Client{
		client:      client,
		logger:      cfg.Logger,
		maxAttempts: maxAttempts,
		retryMin:    retryMin,
		retryMax:    retryMax,
	}, nil
}

// GetCandles retrieves up to limit most recent candles for the pair, oldest
// first. Transient failures are retried with exponential backoff; rows with
// unparseable numeric fields are dropped rather than propagated.
func (c *Client) GetCandles(ctx context.Context, pair, interval string, limit int) ([]domain.Candle, error) {
	b := &backoff.Backoff{
		Min:    c.retryMin,
		Max:    c.retryMax,
		Factor: 2,
		Jitter: true,
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		klines, err := c.client.NewKlinesService().
			Symbol(pair).
			Interval(interval).
			Limit(limit).
			Do(ctx)
		if err == nil {
			return c.toCandles(ctx, pair, interval, klines), nil
		}

		lastErr = c.handleError(ctx, err, "GetCandles")
		// Context and request-shape errors will not get better on retry.
		if errors.Is(lastErr, ports.ErrContextCanceled) ||
			errors.Is(lastErr, ports.ErrInvalidRequest) {
			return nil, lastErr
		}

		if attempt < c.maxAttempts {
			delay := b.Duration()
			c.logger.Warn(ctx, "Candle fetch failed, retrying", map[string]interface{}{
				"pair":    pair,
				"attempt": attempt,
				"delay":   delay.String(),
			})
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("GetCandles canceled during retry wait: %w: %w", ports.ErrContextCanceled, ctx.Err())
			case <-time.After(delay):
			}
		}
	}
	return nil, fmt.Errorf("candle fetch failed after %d attempts: %w", c.maxAttempts, lastErr)
}

// toCandles maps raw klines to domain candles, dropping malformed rows.
func (c *Client) toCandles(ctx context.Context, pair, interval string, klines []*binance.Kline) []domain.Candle {
	candles := make([]domain.Candle, 0, len(klines))
	dropped := 0
	for _, k := range klines {
		open, errO := strconv.ParseFloat(k.Open, 64)
		high, errH := strconv.ParseFloat(k.High, 64)
		low, errL := strconv.ParseFloat(k.Low, 64)
		closePrice, errC := strconv.ParseFloat(k.Close, 64)
		volume, errV := strconv.ParseFloat(k.Volume, 64)
		if errO != nil || errH != nil || errL != nil || errC != nil || errV != nil {
			dropped++
			continue
		}
		candles = append(candles, domain.Candle{
			OpenTime:  time.UnixMilli(k.OpenTime),
			CloseTime: time.UnixMilli(k.CloseTime),
			Pair:      pair,
			Interval:  interval,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    volume,
		})
	}
	if dropped > 0 {
		c.logger.Warn(ctx, "Dropped malformed kline rows", map[string]interface{}{"pair": pair, "dropped": dropped})
	}
	return candles
}

// handleError translates Binance API errors into standardized ports errors.
func (c *Client) handleError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	fields := map[string]interface{}{"operation": operation, "originalError": err.Error()}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		fields["apiErrorCode"] = apiErr.Code
		var mappedErr error
		switch apiErr.Code {
		case -1003: // Too many requests
			mappedErr = ports.ErrRateLimited
		case -1100, -1101, -1102, -1103, -1104, -1120, -1121: // Parameter/symbol/interval errors
			mappedErr = ports.ErrInvalidRequest
		default:
			mappedErr = ports.ErrFeedUnavailable
		}
		c.logger.Error(ctx, err, fmt.Sprintf("%s failed with API error", operation), fields)
		return fmt.Errorf("%s failed: %w: %w", operation, mappedErr, err)
	}

	var finalErr error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		finalErr = fmt.Errorf("%s canceled: %w: %w", operation, ports.ErrContextCanceled, err)
	case strings.Contains(err.Error(), "connection refused"),
		strings.Contains(err.Error(), "no such host"),
		strings.Contains(err.Error(), "use of closed network connection"):
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrConnectionFailed, err)
	default:
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrFeedUnavailable, err)
	}
	c.logger.Error(ctx, err, fmt.Sprintf("%s failed", operation), fields)
	return finalErr
}
