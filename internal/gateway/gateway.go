package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Dissonancell/trainee-telebot/internal/nlsql"
)

// DefaultAnswer is what the user sees whenever a genuine answer cannot be
// determined. Internal error detail never reaches the user.
const DefaultAnswer = "0"

// Stage identifies the pipeline stage a failure originated from.
type Stage string

const (
	StageTranslate Stage = "translate"
	StageExtract   Stage = "extract"
	StageExecute   Stage = "execute"
)

// Translator turns a free-text question into a raw model completion.
type Translator interface {
	Translate(ctx context.Context, question string) (string, error)
}

// ScalarExecutor runs a single SQL statement and returns its scalar result.
type ScalarExecutor interface {
	Scalar(ctx context.Context, stmt string) (float64, error)
}

// Result carries either a scalar value or the failure that prevented one.
// Failures collapse to DefaultAnswer at exactly one place, Handle.
type Result struct {
	Value float64
	SQL   string
	Stage Stage
	Err   error
}

func (r Result) Failed() bool { return r.Err != nil }

type Config struct {
	Logger     *slog.Logger
	Translator Translator
	Executor   ScalarExecutor
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if c.Translator == nil {
		return fmt.Errorf("translator is required")
	}
	if c.Executor == nil {
		return fmt.Errorf("executor is required")
	}
	return nil
}

// Handler runs the translate-extract-execute pipeline for one question at a
// time. It holds no per-question state; concurrent questions each run their
// own pipeline instance over the shared translator and executor handles.
type Handler struct {
	log        *slog.Logger
	translator Translator
	executor   ScalarExecutor
}

func NewHandler(cfg Config) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate gateway config: %w", err)
	}
	return &Handler{
		log:        cfg.Logger,
		translator: cfg.Translator,
		executor:   cfg.Executor,
	}, nil
}

// Ask runs the pipeline and reports the outcome explicitly, failures
// included.
func (h *Handler) Ask(ctx context.Context, question string) Result {
	raw, err := h.translator.Translate(ctx, question)
	if err != nil {
		return Result{Stage: StageTranslate, Err: err}
	}

	stmt := nlsql.ExtractStatement(raw)
	if stmt == "" {
		return Result{Stage: StageExtract, Err: errors.New("completion contains no statement")}
	}

	value, err := h.executor.Scalar(ctx, stmt)
	if err != nil {
		return Result{SQL: stmt, Stage: StageExecute, Err: err}
	}
	return Result{Value: value, SQL: stmt}
}

// Handle answers a question with user-facing text. Every failure path,
// without exception, yields DefaultAnswer; the cause is logged for operator
// diagnosis only.
func (h *Handler) Handle(ctx context.Context, question string) string {
	start := time.Now()
	res := h.Ask(ctx, question)
	PipelineDuration.Observe(time.Since(start).Seconds())

	if res.Failed() {
		QuestionsTotal.WithLabelValues(string(res.Stage), "error").Inc()
		h.log.Error("pipeline failed",
			"stage", res.Stage,
			"question", question,
			"sql", res.SQL,
			"error", res.Err,
		)
		return DefaultAnswer
	}

	QuestionsTotal.WithLabelValues("pipeline", "success").Inc()
	h.log.Info("question answered",
		"question", question,
		"sql", res.SQL,
		"value", res.Value,
	)
	return FormatScalar(res.Value)
}

// FormatScalar renders a scalar in its canonical decimal form: integers
// without a fractional part, everything else with the shortest exact
// representation.
func FormatScalar(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
