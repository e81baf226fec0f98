package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Greeting is the static /start reply. It bypasses the question pipeline
// entirely.
const Greeting = "Привет! Я ИИ-аналитик. Задавай вопросы по базе видео, и я отвечу числом."

// QuestionHandler answers one free-text question with user-facing text.
type QuestionHandler interface {
	Handle(ctx context.Context, question string) string
}

type Config struct {
	Logger  *slog.Logger
	Token   string
	Handler QuestionHandler
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if c.Token == "" {
		return fmt.Errorf("token is required")
	}
	if c.Handler == nil {
		return fmt.Errorf("question handler is required")
	}
	return nil
}

// Bot receives Telegram updates and forwards non-command messages to the
// question handler. The underlying library dispatches each update on its own
// goroutine, so concurrent questions run independent pipeline instances.
type Bot struct {
	log     *slog.Logger
	api     *bot.Bot
	handler QuestionHandler
}

func New(cfg Config) (*Bot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate telegram config: %w", err)
	}

	b := &Bot{
		log:     cfg.Logger,
		handler: cfg.Handler,
	}
	api, err := bot.New(cfg.Token, bot.WithDefaultHandler(b.onMessage))
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	api.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, b.onStart)
	b.api = api
	return b, nil
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	b.log.Info("telegram bot polling for updates")
	b.api.Start(ctx)
}

func (b *Bot) onStart(ctx context.Context, api *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	b.reply(ctx, api, update.Message.Chat.ID, Greeting)
	MessagesProcessedTotal.WithLabelValues("start").Inc()
}

func (b *Bot) onMessage(ctx context.Context, api *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		MessagesIgnoredTotal.WithLabelValues("no_text").Inc()
		return
	}

	text := strings.TrimSpace(update.Message.Text)
	if reason, ignore := shouldIgnore(text); ignore {
		MessagesIgnoredTotal.WithLabelValues(reason).Inc()
		return
	}

	start := time.Now()
	chatID := update.Message.Chat.ID

	// Typing indicator is best-effort and never gates the answer.
	if _, err := api.SendChatAction(ctx, &bot.SendChatActionParams{
		ChatID: chatID,
		Action: models.ChatActionTyping,
	}); err != nil {
		b.log.Debug("failed to send typing action", "chat_id", chatID, "error", err)
		APIErrorsTotal.WithLabelValues("send_chat_action").Inc()
	}

	answer := b.handler.Handle(ctx, text)
	b.reply(ctx, api, chatID, answer)

	MessagesProcessedTotal.WithLabelValues("question").Inc()
	MessageProcessingDuration.Observe(time.Since(start).Seconds())
}

func (b *Bot) reply(ctx context.Context, api *bot.Bot, chatID int64, text string) {
	if _, err := api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		b.log.Error("failed to send message", "chat_id", chatID, "error", err)
		APIErrorsTotal.WithLabelValues("send_message").Inc()
	}
}

// shouldIgnore reports whether a message bypasses the question pipeline.
// Commands other than /start are not questions; /start itself is handled by
// its registered handler before the default one runs.
func shouldIgnore(text string) (string, bool) {
	if text == "" {
		return "no_text", true
	}
	if strings.HasPrefix(text, "/") {
		return "command", true
	}
	return "", false
}
