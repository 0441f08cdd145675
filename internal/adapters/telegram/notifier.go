package telegram

import (
	"context"
	"fmt"
	"time"

	"scalpSignals/internal/domain"
	"scalpSignals/internal/ports"

	tb "gopkg.in/tucnak/telebot.v2"
)

// Notifier relays user suggestions to a Telegram chat. It implements the
// ports.Notifier interface.
type Notifier struct {
	bot    *tb.Bot
	chatID string
	logger ports.Logger
}

// Config holds configuration specific to the Telegram notifier.
type Config struct {
	Token  string
	ChatID string
	Logger ports.Logger
}

// New creates a Telegram notifier. The bot token is validated against the
// Telegram API during construction.
func New(cfg Config) (*Notifier, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Telegram notifier")
	}
	if cfg.Token == "" || cfg.ChatID == "" {
		return nil, fmt.Errorf("telegram token and chat id are required: %w", ports.ErrConfigurationError)
	}

	bot, err := tb.NewBot(tb.Settings{
		Token:  cfg.Token,
		Poller: &tb.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w: %w", ports.ErrConnectionFailed, err)
	}

	return &Notifier{
		bot:    bot,
		chatID: cfg.ChatID,
		logger: cfg.Logger,
	}, nil
}

// RelaySuggestion sends the suggestion text to the configured chat.
func (n *Notifier) RelaySuggestion(ctx context.Context, s *domain.Suggestion) error {
	if s == nil {
		return fmt.Errorf("suggestion is nil: %w", ports.ErrInvalidRequest)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("RelaySuggestion canceled: %w: %w", ports.ErrContextCanceled, err)
	}

	chat, err := n.bot.ChatByID(n.chatID)
	if err != nil {
		n.logger.Error(ctx, err, "Failed to resolve telegram chat", map[string]interface{}{"chatID": n.chatID})
		return fmt.Errorf("failed to resolve telegram chat: %w: %w", ports.ErrNotifyFailed, err)
	}

	message := fmt.Sprintf("New suggestion (%s):\n%s", s.ID, s.Content)
	if _, err := n.bot.Send(chat, message); err != nil {
		n.logger.Error(ctx, err, "Failed to relay suggestion", map[string]interface{}{"suggestionID": s.ID})
		return fmt.Errorf("failed to relay suggestion: %w: %w", ports.ErrNotifyFailed, err)
	}

	n.logger.Debug(ctx, "Suggestion relayed to telegram", map[string]interface{}{"suggestionID": s.ID})
	return nil
}
