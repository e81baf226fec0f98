package nlsql

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultMaxTokens = 1024
	defaultTimeout   = 30 * time.Second
)

// completionAPI is the slice of the Anthropic SDK the translator depends on.
type completionAPI interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type TranslatorConfig struct {
	Logger     *slog.Logger
	Client     anthropic.Client
	Model      anthropic.Model
	RulePrompt string
	MaxTokens  int64
	// Timeout bounds a single completion request.
	Timeout time.Duration
}

func (c *TranslatorConfig) Validate() error {
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.RulePrompt == "" {
		return fmt.Errorf("rule prompt is required")
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = defaultMaxTokens
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	return nil
}

// Translator turns a free-text question into a raw model completion using
// the fixed rule prompt. One request per question, no retries.
type Translator struct {
	cfg      TranslatorConfig
	log      *slog.Logger
	messages completionAPI
}

func NewTranslator(cfg TranslatorConfig) (*Translator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate translator config: %w", err)
	}
	svc := cfg.Client.Messages
	return &Translator{
		cfg:      cfg,
		log:      cfg.Logger,
		messages: &svc,
	}, nil
}

// Translate returns the verbatim text of the model's reply to the question.
func (t *Translator) Translate(ctx context.Context, question string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	t.log.Debug("translator: requesting completion", "model", t.cfg.Model)

	// Temperature stays at zero so identical questions decode identically;
	// extraction downstream relies on low output variance.
	resp, err := t.messages.New(ctx, anthropic.MessageNewParams{
		Model:       t.cfg.Model,
		MaxTokens:   t.cfg.MaxTokens,
		Temperature: anthropic.Float(0),
		System: []anthropic.TextBlockParam{
			{Text: t.cfg.RulePrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(question)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to get completion: %w", err)
	}

	var sb strings.Builder
	for _, blk := range resp.Content {
		if text := blk.AsText(); text.Text != "" {
			sb.WriteString(text.Text)
		}
	}
	raw := strings.TrimSpace(sb.String())
	if raw == "" {
		return "", fmt.Errorf("model returned an empty completion")
	}
	return raw, nil
}
