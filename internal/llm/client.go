package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/gmsas95/lifetrack/internal/config"
	apperrors "github.com/gmsas95/lifetrack/internal/errors"
	"github.com/gmsas95/lifetrack/internal/metrics"
)

// Options configures a Client
type Options struct {
	BaseURL       string
	Model         string
	Timeout       time.Duration
	HealthTimeout time.Duration
	Temperature   float64
	NumPredict    int
	RPM           int
	Burst         int
	MaxFailures   uint32
	OpenTimeout   time.Duration
}

// OptionsFromConfig maps the llm config section onto client options
func OptionsFromConfig(cfg config.LLMConfig) Options {
	return Options{
		BaseURL:       cfg.BaseURL,
		Model:         cfg.Model,
		Timeout:       cfg.RequestTimeout(),
		HealthTimeout: cfg.HealthCheckTimeout(),
		Temperature:   cfg.Temperature,
		NumPredict:    cfg.NumPredict,
		RPM:           cfg.RPM,
		Burst:         cfg.Burst,
		MaxFailures:   cfg.MaxFailures,
		OpenTimeout:   time.Duration(cfg.OpenTimeout) * time.Second,
	}
}

func (o *Options) applyDefaults() {
	if o.BaseURL == "" {
		o.BaseURL = "http://localhost:11434"
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.Model == "" {
		o.Model = "qwen2.5-coder"
	}
	if o.Timeout == 0 {
		o.Timeout = 60 * time.Second
	}
	if o.HealthTimeout == 0 {
		o.HealthTimeout = 2 * time.Second
	}
	if o.Temperature == 0 {
		o.Temperature = 0.7
	}
	if o.NumPredict == 0 {
		o.NumPredict = 500
	}
	if o.Burst == 0 {
		o.Burst = 1
	}
	if o.MaxFailures == 0 {
		o.MaxFailures = 3
	}
	if o.OpenTimeout == 0 {
		o.OpenTimeout = 30 * time.Second
	}
}

// Client talks to an Ollama-compatible server
type Client struct {
	opts    Options
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[string]
	limiter *rate.Limiter
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewClient creates a new client. A zero RPM disables rate limiting.
func NewClient(opts Options, logger *zap.Logger, m *metrics.Metrics) *Client {
	opts.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.Default()
	}

	limit := rate.Inf
	if opts.RPM > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.RPM))
	}

	c := &Client{
		opts:    opts,
		client:  &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(limit, opts.Burst),
		metrics: m,
		logger:  logger,
	}

	c.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "ollama",
		Timeout: opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("LLM circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return c
}

// Model returns the configured model
func (c *Client) Model() string {
	return c.opts.Model
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Models lists the installed models. The call is bounded by the health timeout.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrLLMUnavailable.Code, "health check failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.New(apperrors.ErrLLMUnavailable.Code, fmt.Sprintf("health check returned status %d", resp.StatusCode))
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrLLMResponse.Code, "unreadable model list")
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Available reports whether the server answers the health check with 200
func (c *Client) Available(ctx context.Context) bool {
	_, err := c.Models(ctx)
	// a 200 with an odd body still means the server is up
	return err == nil || apperrors.Is(err, apperrors.ErrLLMResponse)
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate answers a user message, prompting with the assistant preamble and today's date.
func (c *Client) Generate(ctx context.Context, message string, now time.Time) (string, error) {
	return c.Complete(ctx, BuildPrompt(message, now))
}

// Complete sends a raw prompt through the rate limiter and circuit breaker
// and returns the trimmed model text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.limiter.Allow() {
		c.metrics.RecordLLMRequest("limited", 0)
		return "", apperrors.ErrRateLimited
	}

	start := time.Now()
	text, err := c.breaker.Execute(func() (string, error) {
		return c.generate(ctx, prompt)
	})
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		c.metrics.RecordLLMRequest("open", elapsed)
		return "", apperrors.Wrap(err, apperrors.ErrLLMUnavailable.Code, "circuit open")
	case err != nil:
		c.metrics.RecordLLMRequest("error", elapsed)
		return "", err
	}

	c.metrics.RecordLLMRequest("ok", elapsed)
	c.logger.Debug("LLM response",
		zap.String("model", c.opts.Model),
		zap.Duration("elapsed", elapsed),
		zap.Int("chars", len(text)),
	)
	return text, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.opts.Model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: c.opts.Temperature,
			NumPredict:  c.opts.NumPredict,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrLLMUnavailable.Code, "failed to send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", apperrors.New(apperrors.ErrLLMResponse.Code, fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes))))
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrLLMResponse.Code, "failed to decode response")
	}

	return strings.TrimSpace(result.Response), nil
}
