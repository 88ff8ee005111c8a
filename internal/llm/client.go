// Package llm wraps the model-completion collaborator behind a narrow
// interface: submit a prompt, receive text or a failure.
//
// The production client is backed by langchaingo against any
// OpenAI-compatible chat endpoint. Every call passes through a
// process-wide admission semaphore bounding outstanding completions
// across all concurrent runs, a per-client rate limiter, and an explicit
// retry policy with exponential backoff. Callers treat the client as an
// opaque function; schema-constrained generation is layered on top in
// structured.go.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrCollaborator marks a completion failure after the retry policy is
// exhausted. Fatal to the current orchestration step.
var ErrCollaborator = errors.New("model completion failed")

// DefaultMaxInFlight is the default capacity of the process-wide
// admission semaphore.
const DefaultMaxInFlight = 256

// globalAdmission bounds outstanding collaborator calls process-wide,
// shared across all clients unless a client is given its own semaphore.
var globalAdmission = semaphore.NewWeighted(DefaultMaxInFlight)

// Options control a single Generate call.
type Options struct {
	// Temperature for sampling. Negative means provider default.
	Temperature float64

	// Think appends the bounded-reasoning instruction before the
	// schema, mirroring the decision prompts' deliberation budget.
	Think bool

	// JSONMode asks the provider for a JSON-only response.
	JSONMode bool
}

// Option mutates Options.
type Option func(*Options)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(o *Options) { o.Temperature = t }
}

// WithThink enables the bounded-reasoning instruction.
func WithThink() Option {
	return func(o *Options) { o.Think = true }
}

// WithJSONMode requests a JSON-only response from the provider.
func WithJSONMode() Option {
	return func(o *Options) { o.JSONMode = true }
}

func applyOptions(opts []Option) Options {
	o := Options{Temperature: -1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Client is the opaque model-completion collaborator.
type Client interface {
	Generate(ctx context.Context, prompt string, opts ...Option) (string, error)
}

// Config configures the langchaingo-backed client.
type Config struct {
	// Model is the chat model name.
	Model string `koanf:"model"`

	// BaseURL points at any OpenAI-compatible endpoint.
	BaseURL string `koanf:"base_url"`

	// APIKey authenticates against the endpoint. Some gateways accept
	// any token; langchaingo requires one, so empty falls back to a
	// placeholder.
	APIKey string `koanf:"api_key"`

	// RequestsPerMinute caps the per-client call rate. Zero disables
	// rate limiting.
	RequestsPerMinute float64 `koanf:"requests_per_minute"`

	// MaxInFlight sizes a dedicated admission semaphore. Zero shares
	// the process-wide semaphore (capacity 256).
	MaxInFlight int64 `koanf:"max_in_flight"`

	// Retry overrides the default retry policy when non-nil.
	Retry *RetryPolicy `koanf:"retry"`
}

// OpenAIClient is the production Client.
type OpenAIClient struct {
	model     llms.Model
	limiter   *rate.Limiter
	admission *semaphore.Weighted
	retry     RetryPolicy
}

// NewOpenAIClient creates a client for an OpenAI-compatible endpoint.
func NewOpenAIClient(cfg Config) (*OpenAIClient, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm: model is required")
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "placeholder"
	}

	opts := []openai.Option{
		openai.WithModel(cfg.Model),
		openai.WithToken(apiKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("llm: creating client: %w", err)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerMinute/60.0), 5)
	}

	admission := globalAdmission
	if cfg.MaxInFlight > 0 {
		admission = semaphore.NewWeighted(cfg.MaxInFlight)
	}

	retry := DefaultRetryPolicy()
	if cfg.Retry != nil {
		retry = *cfg.Retry
		retry.ApplyDefaults()
	}

	return &OpenAIClient{
		model:     model,
		limiter:   limiter,
		admission: admission,
		retry:     retry,
	}, nil
}

// Generate submits the prompt and returns the completion text. The call
// blocks on the admission semaphore until a slot frees, honors ctx
// cancellation throughout, and retries transient failures per the
// client's retry policy before wrapping the last error in
// ErrCollaborator.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	o := applyOptions(opts)

	if err := c.admission.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("llm: admission: %w", err)
	}
	defer c.admission.Release(1)

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("llm: rate limiter: %w", err)
	}

	callOpts := []llms.CallOption{}
	if o.Temperature >= 0 {
		callOpts = append(callOpts, llms.WithTemperature(o.Temperature))
	}
	if o.JSONMode {
		callOpts = append(callOpts, llms.WithJSONMode())
	}

	var response string
	err := c.retry.Do(ctx, func() error {
		out, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt, callOpts...)
		if err != nil {
			return err
		}
		response = out
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCollaborator, err)
	}
	return response, nil
}

var _ Client = (*OpenAIClient)(nil)
