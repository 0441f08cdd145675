package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"scalpSignals/internal/adapters/logger"
	"scalpSignals/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	// Binance API. Kline retrieval is public, so keys are optional.
	APIKey    string
	SecretKey string
	IsTestnet bool

	// Tracked pairs and candle shape
	Pairs          []string
	CandleInterval string // e.g., "15m"
	CandleLimit    int    // Candles fetched per pair per refresh

	// Refresh scheduling
	RefreshInterval time.Duration

	// Default account-level risk parameters
	Risk domain.RiskParameters

	// Database
	DBPath string

	// Logging
	LogLevel logger.LogLevel

	// Feed retry settings
	MaxFetchAttempts int
	RetryMinDelay    time.Duration
	RetryMaxDelay    time.Duration

	// Telegram suggestion relay (optional; both must be set to enable)
	TelegramToken  string
	TelegramChatID string
}

// TelegramEnabled reports whether the suggestion relay is configured.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != ""
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Binance API
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", false)

	// Tracked pairs
	pairsStr := getEnv("TRACKED_PAIRS", "BTCUSDT,ETHUSDT,BNBUSDT")
	for _, p := range strings.Split(pairsStr, ",") {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			cfg.Pairs = append(cfg.Pairs, p)
		}
	}
	if len(cfg.Pairs) == 0 {
		errs = append(errs, "TRACKED_PAIRS must name at least one pair")
	}

	cfg.CandleInterval = getEnv("CANDLE_INTERVAL", "15m")
	if cfg.CandleInterval == "" {
		errs = append(errs, "CANDLE_INTERVAL must be set")
	}

	cfg.CandleLimit, err = getEnvAsIntRequired("CANDLE_LIMIT", 100)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid CANDLE_LIMIT: %v", err))
	} else if cfg.CandleLimit < 20 {
		errs = append(errs, "CANDLE_LIMIT must be at least 20")
	}

	// Refresh scheduling
	refreshMinutes := getEnvAsInt("REFRESH_INTERVAL_MINUTES", 5)
	if refreshMinutes <= 0 {
		errs = append(errs, "REFRESH_INTERVAL_MINUTES must be positive")
	}
	cfg.RefreshInterval = time.Duration(refreshMinutes) * time.Minute

	// Risk defaults
	cfg.Risk.AvailableCapital, err = getEnvAsFloatRequired("AVAILABLE_CAPITAL", 1000.0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid AVAILABLE_CAPITAL: %v", err))
	}
	cfg.Risk.RiskPerTrade, err = getEnvAsFloatRequired("RISK_PER_TRADE", 0.02)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid RISK_PER_TRADE: %v", err))
	}
	cfg.Risk.MaxLeverage, err = getEnvAsIntRequired("MAX_LEVERAGE", 20)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MAX_LEVERAGE: %v", err))
	}
	if err := cfg.Risk.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("invalid risk parameters: %v", err))
	}

	// Database
	cfg.DBPath = getEnv("DB_PATH", "./data/scalp_signals.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr)

	// Feed retry settings
	cfg.MaxFetchAttempts = getEnvAsInt("MAX_FETCH_ATTEMPTS", 3)
	if cfg.MaxFetchAttempts <= 0 {
		errs = append(errs, "MAX_FETCH_ATTEMPTS must be positive")
	}

	retryMinSeconds := getEnvAsInt("RETRY_MIN_DELAY_SECONDS", 1)
	if retryMinSeconds <= 0 {
		errs = append(errs, "RETRY_MIN_DELAY_SECONDS must be positive")
	}
	cfg.RetryMinDelay = time.Duration(retryMinSeconds) * time.Second

	retryMaxSeconds := getEnvAsInt("RETRY_MAX_DELAY_SECONDS", 30)
	if retryMaxSeconds < retryMinSeconds {
		errs = append(errs, "RETRY_MAX_DELAY_SECONDS must be at least RETRY_MIN_DELAY_SECONDS")
	}
	cfg.RetryMaxDelay = time.Duration(retryMaxSeconds) * time.Second

	// Telegram relay (optional)
	cfg.TelegramToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	cfg.TelegramChatID = getEnv("TELEGRAM_CHAT_ID", "")
	if (cfg.TelegramToken == "") != (cfg.TelegramChatID == "") {
		errs = append(errs, "TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		// Use default if env var is not set at all
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// Return error if env var is set but invalid
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
