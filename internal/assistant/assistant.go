// Package assistant turns chat messages into stored transactions and events.
// A language model is asked first; the rule-based interpreter fills in when the
// model gives no structured action or cannot be reached.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/gmsas95/lifetrack/internal/errors"
	"github.com/gmsas95/lifetrack/internal/interpreter"
	"github.com/gmsas95/lifetrack/internal/llm"
	"github.com/gmsas95/lifetrack/internal/metrics"
	"github.com/gmsas95/lifetrack/internal/security"
	"github.com/gmsas95/lifetrack/internal/store"
)

// Backend generates free-text answers for a user message
type Backend interface {
	Available(ctx context.Context) bool
	Generate(ctx context.Context, message string, now time.Time) (string, error)
}

// Repository persists what the assistant records
type Repository interface {
	AppendTransaction(ctx context.Context, t *store.Transaction) error
	AppendEvent(ctx context.Context, e *store.Event) error
	AppendChatMessage(ctx context.Context, m *store.ChatMessage) error
}

// Source names the component that produced a reply
type Source string

const (
	SourceLLM    Source = "llm"
	SourceRules  Source = "rules"
	SourceHybrid Source = "llm+rules"
)

// Response is the outcome of handling one message
type Response struct {
	Kind        interpreter.Kind   `json:"kind"`
	Source      Source             `json:"source"`
	Transaction *store.Transaction `json:"transaction,omitempty"`
	Event       *store.Event       `json:"event,omitempty"`
	Reply       string             `json:"reply"`
}

// Assistant orchestrates the language model, the interpreter and the store
type Assistant struct {
	backend     Backend
	repo        Repository
	interpreter *interpreter.Interpreter
	guard       *security.Guard
	metrics     *metrics.Metrics
	logger      *zap.Logger
	now         func() time.Time
	location    *time.Location
	llmEnabled  atomic.Bool
}

type Option func(*Assistant)

func WithInterpreter(in *interpreter.Interpreter) Option {
	return func(a *Assistant) { a.interpreter = in }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Assistant) { a.metrics = m }
}

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) { a.now = now }
}

// WithLocation sets the zone used to decide what "today" is
func WithLocation(loc *time.Location) Option {
	return func(a *Assistant) { a.location = loc }
}

// New creates an assistant. A nil backend disables the language model.
func New(backend Backend, repo Repository, logger *zap.Logger, opts ...Option) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Assistant{
		backend:     backend,
		repo:        repo,
		interpreter: interpreter.New(),
		guard:       security.NewGuard(),
		metrics:     metrics.Default(),
		logger:      logger,
		now:         time.Now,
		location:    time.Local,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.llmEnabled.Store(backend != nil)
	return a
}

// SetLLMEnabled toggles use of the backend at runtime
func (a *Assistant) SetLLMEnabled(enabled bool) {
	a.llmEnabled.Store(enabled && a.backend != nil)
}

func (a *Assistant) LLMEnabled() bool {
	return a.llmEnabled.Load()
}

// Now returns the current time in the assistant's location
func (a *Assistant) Now() time.Time {
	return a.now().In(a.location)
}

// Preview interprets text with the rule-based interpreter without storing anything
func (a *Assistant) Preview(text string) *interpreter.Result {
	return a.interpreter.Interpret(text, a.Now())
}

type retryKey struct{}

// AsRetry marks ctx as a repeated attempt at a message whose user side is
// already in the chat history
func AsRetry(ctx context.Context) context.Context {
	return context.WithValue(ctx, retryKey{}, true)
}

// IsRetry reports whether ctx was marked by AsRetry
func IsRetry(ctx context.Context) bool {
	retry, _ := ctx.Value(retryKey{}).(bool)
	return retry
}

// Handle processes one chat message end to end
func (a *Assistant) Handle(ctx context.Context, text string) (*Response, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.New(apperrors.ErrBadRequest.Code, "message is required")
	}
	if err := a.guard.Check(text); err != nil {
		return nil, err
	}
	now := a.Now()

	if !IsRetry(ctx) {
		a.recordChat(ctx, "user", text, "")
	}

	var (
		resp *Response
		err  error
	)
	if answer, ok := a.askModel(ctx, text, now); ok {
		resp, err = a.fromModel(ctx, answer, text, now)
	} else {
		resp, err = a.fromRules(ctx, text, now)
	}
	if err != nil {
		return nil, err
	}

	a.recordChat(ctx, "assistant", resp.Reply, string(resp.Source))
	a.metrics.RecordIntent(string(resp.Kind), string(resp.Source))
	return resp, nil
}

// askModel returns the model answer, or false when the rule-based path should run instead
func (a *Assistant) askModel(ctx context.Context, text string, now time.Time) (string, bool) {
	if !a.llmEnabled.Load() {
		return "", false
	}
	if a.guard.Suspicious(text) {
		a.logger.Warn("Suspicious message kept away from the LLM")
		return "", false
	}
	if !a.backend.Available(ctx) {
		a.logger.Debug("LLM unavailable, using rules")
		return "", false
	}

	answer, err := a.backend.Generate(ctx, text, now)
	if err != nil {
		a.logger.Warn("LLM generate failed, using rules", zap.Error(err))
		return "", false
	}
	if answer == "" {
		return "", false
	}
	return answer, true
}

func (a *Assistant) fromModel(ctx context.Context, answer, text string, now time.Time) (*Response, error) {
	action, rest, ok := llm.ExtractAction(answer)

	display := answer
	if ok && rest != "" {
		display = rest
	}

	if ok && action.IsRecord() {
		resp, recorded := a.fromAction(action, now)
		if recorded {
			if err := a.store(ctx, resp); err != nil {
				return nil, err
			}
			if rest != "" {
				resp.Reply = rest
			}
			return resp, nil
		}
	}

	// the model answered in prose, so the rules only extract data
	result := a.interpreter.Interpret(text, now)
	resp := a.fromResult(result)
	if !result.HasPayload() {
		resp.Source = SourceLLM
		resp.Reply = display
		return resp, nil
	}

	if err := a.store(ctx, resp); err != nil {
		return nil, err
	}
	resp.Source = SourceHybrid
	resp.Reply = display + confirmation(resp)
	return resp, nil
}

func (a *Assistant) fromRules(ctx context.Context, text string, now time.Time) (*Response, error) {
	resp := a.fromResult(a.interpreter.Interpret(text, now))
	if err := a.store(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (a *Assistant) store(ctx context.Context, resp *Response) error {
	switch {
	case resp.Transaction != nil:
		if err := a.repo.AppendTransaction(ctx, resp.Transaction); err != nil {
			a.logger.Error("Failed to store transaction", zap.Error(err))
			return err
		}
		a.logger.Info("Transaction recorded",
			zap.String("type", resp.Transaction.Type),
			zap.Float64("amount", resp.Transaction.Amount),
			zap.String("category", resp.Transaction.Category),
			zap.String("source", string(resp.Source)),
		)
	case resp.Event != nil:
		if err := a.repo.AppendEvent(ctx, resp.Event); err != nil {
			a.logger.Error("Failed to store event", zap.Error(err))
			return err
		}
		a.logger.Info("Event recorded",
			zap.String("date", resp.Event.Date),
			zap.String("start_time", resp.Event.StartTime),
			zap.String("source", string(resp.Source)),
		)
	}
	return nil
}

func (a *Assistant) recordChat(ctx context.Context, role, content, source string) {
	if a.repo == nil {
		return
	}
	err := a.repo.AppendChatMessage(ctx, &store.ChatMessage{
		Role:      role,
		Content:   content,
		Source:    source,
		Timestamp: a.now(),
	})
	if err != nil {
		a.logger.Warn("Failed to record chat message", zap.String("role", role), zap.Error(err))
	}
}

// confirmation is appended to a prose model answer when the rules recorded something
func confirmation(resp *Response) string {
	switch {
	case resp.Transaction != nil:
		return fmt.Sprintf("\n\n✅ Đã ghi nhận: %s - %sđ",
			resp.Transaction.Description, interpreter.FormatAmount(resp.Transaction.Amount))
	case resp.Event != nil:
		return fmt.Sprintf("\n\n✅ Đã thêm sự kiện: %s lúc %s", resp.Event.Title, resp.Event.StartTime)
	}
	return ""
}
