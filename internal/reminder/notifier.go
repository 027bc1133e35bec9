package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/platform/logger"
)

// ErrNoChatID is returned when a telegram reminder targets a learner without a chat.
var ErrNoChatID = errors.New("learner has no telegram chat id")

// Notifier delivers one reminder to one learner.
type Notifier interface {
	SendReminder(ctx context.Context, settings *domain.LearnerSettings, due int) error
}

// Message returns the reminder text for a number of due cards.
func Message(due int) string {
	if due == 1 {
		return "You have 1 flashcard due for review."
	}
	return fmt.Sprintf("You have %d flashcards due for review.", due)
}

// LogNotifier writes reminders to the log. It is used when no delivery
// channel is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier. A nil logger uses slog.Default().
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With(slog.String("component", "log_notifier"))}
}

// SendReminder implements Notifier.
func (n *LogNotifier) SendReminder(ctx context.Context, settings *domain.LearnerSettings, due int) error {
	logger.FromContextOrDefault(ctx, n.logger).Info("study reminder",
		slog.String("user_id", settings.UserID.String()),
		slog.Int("due_cards", due),
		slog.String("message", Message(due)))
	return nil
}

// Sender is the part of the telegram bot API used to deliver messages.
// *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier sends reminders as telegram messages. Learners without a
// chat id are passed to the fallback notifier when one is set.
type TelegramNotifier struct {
	bot      Sender
	fallback Notifier
	logger   *slog.Logger
}

// NewTelegramNotifier creates a TelegramNotifier.
func NewTelegramNotifier(bot Sender, fallback Notifier, logger *slog.Logger) *TelegramNotifier {
	if bot == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("bot cannot be nil for TelegramNotifier")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TelegramNotifier{
		bot:      bot,
		fallback: fallback,
		logger:   logger.With(slog.String("component", "telegram_notifier")),
	}
}

// NewTelegramBot connects to the telegram bot API with token.
// An empty endpoint uses the public API.
func NewTelegramBot(token, endpoint string, client tgbotapi.HTTPClient) (*tgbotapi.BotAPI, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to connect telegram bot: %w", err)
	}
	return bot, nil
}

// SendReminder implements Notifier.
func (n *TelegramNotifier) SendReminder(ctx context.Context, settings *domain.LearnerSettings, due int) error {
	log := logger.FromContextOrDefault(ctx, n.logger)

	if settings.TelegramChatID == nil {
		if n.fallback != nil {
			return n.fallback.SendReminder(ctx, settings, due)
		}
		return ErrNoChatID
	}

	msg := tgbotapi.NewMessage(*settings.TelegramChatID, Message(due))
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram reminder: %w", err)
	}

	log.Debug("telegram reminder sent",
		slog.String("user_id", settings.UserID.String()),
		slog.Int64("chat_id", *settings.TelegramChatID),
		slog.Int("due_cards", due))
	return nil
}
