package nlsql

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/require"
)

type fakeCompletionAPI struct {
	lastParams anthropic.MessageNewParams
	resp       *anthropic.Message
	err        error
}

func (f *fakeCompletionAPI) New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error) {
	f.lastParams = params
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

// textMessage builds an anthropic.Message through the SDK's own JSON
// unmarshalling so the content blocks behave like real API responses.
func textMessage(t *testing.T, text string) *anthropic.Message {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"role": "assistant",
		"content": []map[string]any{
			{"type": "text", "text": text},
		},
	})
	require.NoError(t, err)
	var msg anthropic.Message
	require.NoError(t, json.Unmarshal(payload, &msg))
	return &msg
}

func newTestTranslator(t *testing.T, api completionAPI) *Translator {
	t.Helper()
	tr, err := NewTranslator(TranslatorConfig{
		Logger:     slog.New(slog.DiscardHandler),
		Model:      "claude-sonnet-4-5",
		RulePrompt: RulePromptV1,
	})
	require.NoError(t, err)
	tr.messages = api
	return tr
}

func TestNLSQL_NewTranslator(t *testing.T) {
	t.Parallel()

	t.Run("returns error when config validation fails", func(t *testing.T) {
		t.Parallel()

		t.Run("missing logger", func(t *testing.T) {
			t.Parallel()
			tr, err := NewTranslator(TranslatorConfig{
				Model:      "claude-sonnet-4-5",
				RulePrompt: RulePromptV1,
			})
			require.Error(t, err)
			require.Nil(t, tr)
			require.Contains(t, err.Error(), "logger is required")
		})

		t.Run("missing model", func(t *testing.T) {
			t.Parallel()
			tr, err := NewTranslator(TranslatorConfig{
				Logger:     slog.New(slog.DiscardHandler),
				RulePrompt: RulePromptV1,
			})
			require.Error(t, err)
			require.Nil(t, tr)
			require.Contains(t, err.Error(), "model is required")
		})

		t.Run("missing rule prompt", func(t *testing.T) {
			t.Parallel()
			tr, err := NewTranslator(TranslatorConfig{
				Logger: slog.New(slog.DiscardHandler),
				Model:  "claude-sonnet-4-5",
			})
			require.Error(t, err)
			require.Nil(t, tr)
			require.Contains(t, err.Error(), "rule prompt is required")
		})
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Parallel()
		tr, err := NewTranslator(TranslatorConfig{
			Logger:     slog.New(slog.DiscardHandler),
			Model:      "claude-sonnet-4-5",
			RulePrompt: RulePromptV1,
		})
		require.NoError(t, err)
		require.Equal(t, int64(defaultMaxTokens), tr.cfg.MaxTokens)
		require.Equal(t, defaultTimeout, tr.cfg.Timeout)
	})
}

func TestNLSQL_Translator_Translate(t *testing.T) {
	t.Parallel()

	t.Run("returns the completion text", func(t *testing.T) {
		t.Parallel()
		api := &fakeCompletionAPI{resp: textMessage(t, "```sql\nSELECT COUNT(*) FROM videos;\n```")}
		tr := newTestTranslator(t, api)

		raw, err := tr.Translate(context.Background(), "Сколько всего видео в системе")
		require.NoError(t, err)
		require.Equal(t, "```sql\nSELECT COUNT(*) FROM videos;\n```", raw)
	})

	t.Run("pins temperature to zero and sends the rule prompt", func(t *testing.T) {
		t.Parallel()
		api := &fakeCompletionAPI{resp: textMessage(t, "SELECT 1")}
		tr := newTestTranslator(t, api)

		_, err := tr.Translate(context.Background(), "question")
		require.NoError(t, err)

		require.True(t, api.lastParams.Temperature.Valid())
		require.Zero(t, api.lastParams.Temperature.Value)
		require.Len(t, api.lastParams.System, 1)
		require.Equal(t, RulePromptV1, api.lastParams.System[0].Text)
		require.Len(t, api.lastParams.Messages, 1)
		require.Equal(t, anthropic.Model("claude-sonnet-4-5"), api.lastParams.Model)
	})

	t.Run("propagates service errors", func(t *testing.T) {
		t.Parallel()
		api := &fakeCompletionAPI{err: errors.New("model unreachable")}
		tr := newTestTranslator(t, api)

		raw, err := tr.Translate(context.Background(), "question")
		require.Error(t, err)
		require.Contains(t, err.Error(), "model unreachable")
		require.Empty(t, raw)
	})

	t.Run("rejects empty completions", func(t *testing.T) {
		t.Parallel()
		api := &fakeCompletionAPI{resp: &anthropic.Message{}}
		tr := newTestTranslator(t, api)

		raw, err := tr.Translate(context.Background(), "question")
		require.Error(t, err)
		require.Contains(t, err.Error(), "empty completion")
		require.Empty(t, raw)
	})
}

func TestNLSQL_LoadRulePrompt(t *testing.T) {
	t.Parallel()

	t.Run("empty path returns the built-in revision", func(t *testing.T) {
		t.Parallel()
		prompt, err := LoadRulePrompt("")
		require.NoError(t, err)
		require.Equal(t, RulePromptV1, prompt)
	})

	t.Run("reads an override file", func(t *testing.T) {
		t.Parallel()
		path := t.TempDir() + "/prompt.txt"
		require.NoError(t, writeFile(path, "custom rules\n"))
		prompt, err := LoadRulePrompt(path)
		require.NoError(t, err)
		require.Equal(t, "custom rules", prompt)
	})

	t.Run("rejects a missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadRulePrompt(t.TempDir() + "/absent.txt")
		require.Error(t, err)
	})

	t.Run("rejects an empty file", func(t *testing.T) {
		t.Parallel()
		path := t.TempDir() + "/empty.txt"
		require.NoError(t, writeFile(path, "  \n"))
		_, err := LoadRulePrompt(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "empty")
	})
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
