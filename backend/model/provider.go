// Package model wraps the language-model backends behind a single Provider
// interface. Providers are interchangeable; callers see a text-completion
// service with a timeout, retries, and a circuit breaker, never a raw SDK.
package model

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/munishbansal2000/layla-sub008/shared"
	"github.com/munishbansal2000/layla-sub008/shared/resilience"
)

// ErrModelUnavailable covers every transport-level failure: network errors,
// timeouts, and an open circuit. Callers degrade instead of surfacing it.
var ErrModelUnavailable = errors.New("model unavailable")

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

type CompletionRequest struct {
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

type Completion struct {
	Text string
}

// Provider is a black-box text-completion service.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req *CompletionRequest) (*Completion, error)
}

type ProviderOptions struct {
	BaseURL        string
	Timeout        time.Duration
	RetryConfig    *resilience.RetryConfig
	CircuitBreaker *resilience.CircuitBreaker
	Metrics        *prometheus.Registry
}

type ProviderOption func(*ProviderOptions)

func WithBaseURL(url string) ProviderOption {
	return func(o *ProviderOptions) {
		o.BaseURL = url
	}
}

func WithTimeout(timeout time.Duration) ProviderOption {
	return func(o *ProviderOptions) {
		o.Timeout = timeout
	}
}

func WithRetryConfig(config *resilience.RetryConfig) ProviderOption {
	return func(o *ProviderOptions) {
		o.RetryConfig = config
	}
}

func WithCircuitBreaker(breaker *resilience.CircuitBreaker) ProviderOption {
	return func(o *ProviderOptions) {
		o.CircuitBreaker = breaker
	}
}

func WithMetrics(registry *prometheus.Registry) ProviderOption {
	return func(o *ProviderOptions) {
		o.Metrics = registry
	}
}

func DefaultProviderOptions(name string) *ProviderOptions {
	return &ProviderOptions{
		Timeout: 30 * time.Second,
		RetryConfig: &resilience.RetryConfig{
			MaxAttempts:       3,
			InitialDelay:      500 * time.Millisecond,
			MaxDelay:          5 * time.Second,
			BackoffMultiplier: 2,
		},
		CircuitBreaker: resilience.NewCircuitBreaker(name, 5, 30*time.Second),
		Metrics:        prometheus.NewRegistry(),
	}
}

func (o *ProviderOptions) apply(opts []ProviderOption) {
	for _, opt := range opts {
		opt(o)
	}
}

// invoke runs fn under the provider's timeout, retry budget, and breaker.
func (o *ProviderOptions) invoke(ctx context.Context, metrics *providerMetrics, fn func(ctx context.Context) error) error {
	if !o.CircuitBreaker.Allow() {
		metrics.record("rejected")
		return shared.Wrap(shared.ErrorSourceModel, ErrModelUnavailable, "circuit open")
	}

	ctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	err := resilience.Retry(ctx, o.RetryConfig, fn)
	o.CircuitBreaker.RecordResult(err)

	if err != nil {
		metrics.record("error")
		return shared.Wrap(shared.ErrorSourceModel, errors.Join(ErrModelUnavailable, err), "completion failed")
	}

	metrics.record("ok")
	return nil
}
