package telegram

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type staticHandler string

func (h staticHandler) Handle(ctx context.Context, question string) string {
	return string(h)
}

func TestTelegram_ConfigValidate(t *testing.T) {
	t.Parallel()

	t.Run("missing logger", func(t *testing.T) {
		t.Parallel()
		cfg := Config{Token: "123:abc", Handler: staticHandler("0")}
		err := cfg.Validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), "logger is required")
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()
		cfg := Config{Logger: slog.New(slog.DiscardHandler), Handler: staticHandler("0")}
		err := cfg.Validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), "token is required")
	})

	t.Run("missing handler", func(t *testing.T) {
		t.Parallel()
		cfg := Config{Logger: slog.New(slog.DiscardHandler), Token: "123:abc"}
		err := cfg.Validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), "question handler is required")
	})

	t.Run("complete config", func(t *testing.T) {
		t.Parallel()
		cfg := Config{Logger: slog.New(slog.DiscardHandler), Token: "123:abc", Handler: staticHandler("0")}
		require.NoError(t, cfg.Validate())
	})
}

func TestTelegram_ShouldIgnore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		reason string
		ignore bool
	}{
		{"question text", "Сколько всего видео в системе", "", false},
		{"slash command", "/help", "command", true},
		{"start command", "/start", "command", true},
		{"empty text", "", "no_text", true},
		{"question with inner slash", "прирост 01/02", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			reason, ignore := shouldIgnore(tt.text)
			require.Equal(t, tt.ignore, ignore)
			require.Equal(t, tt.reason, reason)
		})
	}
}
