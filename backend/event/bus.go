// Package event carries the engine's domain events to interested observers:
// parse outcomes, applied and rejected mutations, remediation passes.
// Delivery is synchronous and in subscription order; a panicking subscriber
// is contained and never fails the mutation that published the event.
package event

import (
	"log/slog"
	"sync"
	"time"
)

type Type string

const (
	IntentParsed       Type = "intent.parsed"
	MutationApplied    Type = "mutation.applied"
	MutationRejected   Type = "mutation.rejected"
	RemediationApplied Type = "remediation.applied"
)

// Event is one engine occurrence. Fields beyond Type and At are optional and
// depend on the event.
type Event struct {
	Type      Type
	At        time.Time
	SessionID string
	Intent    string
	Method    string
	Message   string
	Changes   int
}

type Handler func(Event)

type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
	logger   *slog.Logger
	metrics  *busMetrics
}

type Option func(*Bus)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		b.logger = logger
	}
}

func NewBus(opts ...Option) *Bus {
	b := &Bus{logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	if b.metrics == nil {
		b.metrics = newBusMetrics(nil)
	}
	return b
}

// Subscribe registers a handler for all subsequent events.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers the event to every subscriber. A panicking subscriber is
// logged and skipped; the rest still run.
func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	b.metrics.published.WithLabelValues(string(e.Type)).Inc()

	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(h, e)
	}
}

func (b *Bus) deliver(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", "type", e.Type, "panic", r)
		}
	}()
	h(e)
}
