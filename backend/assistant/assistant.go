// Package assistant is the engine's front door: it owns the
// parse-execute-respond loop for one message and the session bookkeeping
// around it. Transports (CLI, HTTP) stay thin on top of this.
package assistant

import (
	"context"
	"log/slog"
	"sync"

	"github.com/munishbansal2000/layla-sub008/backend/constraint"
	"github.com/munishbansal2000/layla-sub008/backend/event"
	"github.com/munishbansal2000/layla-sub008/backend/executor"
	"github.com/munishbansal2000/layla-sub008/backend/intent"
	"github.com/munishbansal2000/layla-sub008/backend/itinerary"
	"github.com/munishbansal2000/layla-sub008/backend/model"
	"github.com/munishbansal2000/layla-sub008/backend/session"
)

// Answerer serves the free-form question path. *model.AnswerClient satisfies
// it; tests substitute stubs.
type Answerer interface {
	Answer(ctx context.Context, question, itineraryContext string, turns []model.Message) (string, error)
}

// Reply is what one message produces. Itinerary is non-nil only when the
// message mutated the plan; the caller adopts it as the new current value.
// SessionID identifies the session that served the turn; callers that start
// without an id must pass it back on the next message to keep history and
// the undo stack alive.
type Reply struct {
	SessionID        string                     `json:"sessionId"`
	Message          string                     `json:"message"`
	Itinerary        *itinerary.Itinerary       `json:"itinerary,omitempty"`
	Intent           *intent.Intent             `json:"intent,omitempty"`
	Clarification    *intent.Clarification      `json:"clarification,omitempty"`
	UndoAction       *intent.Intent             `json:"undoAction,omitempty"`
	SuggestedActions []intent.Intent            `json:"suggestedActions,omitempty"`
	Suggestions      []itinerary.ActivityOption `json:"suggestions,omitempty"`
	Analysis         *constraint.Analysis       `json:"constraintAnalysis,omitempty"`
	AutoAdjustments  []string                   `json:"autoAdjustments,omitempty"`
	MinutesSaved     int                        `json:"minutesSaved,omitempty"`
	Rejected         bool                       `json:"rejected,omitempty"`
}

type Assistant struct {
	parser   *intent.Parser
	executor *executor.Executor
	sessions *session.Store
	answerer Answerer
	bus      *event.Bus
	logger   *slog.Logger

	mu       sync.Mutex
	inFlight map[string]*flight
}

type flight struct {
	cancel context.CancelFunc
}

type Option func(*Assistant)

func WithAnswerer(answerer Answerer) Option {
	return func(a *Assistant) {
		a.answerer = answerer
	}
}

func WithBus(bus *event.Bus) Option {
	return func(a *Assistant) {
		a.bus = bus
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) {
		a.logger = logger
	}
}

func New(parser *intent.Parser, exec *executor.Executor, sessions *session.Store, opts ...Option) *Assistant {
	a := &Assistant{
		parser:   parser,
		executor: exec,
		sessions: sessions,
		logger:   slog.Default(),
		inFlight: make(map[string]*flight),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// HandleMessage runs one full turn: parse, execute or answer, remember.
// A newer message for the same session cancels the model work of the one
// still in flight; the itinerary itself only changes synchronously.
func (a *Assistant) HandleMessage(ctx context.Context, sessionID, text string, it *itinerary.Itinerary) (*Reply, error) {
	sess := a.sessions.Get(sessionID)
	sess.Remember("user", text)

	ctx, done := a.supersede(sess.ID, ctx)
	defer done()

	parsed, err := a.parser.Parse(ctx, text, it, sess.Turns())
	if err != nil {
		return nil, err
	}

	if parsed.Clarification != nil {
		reply := &Reply{
			SessionID:     sess.ID,
			Message:       parsed.Clarification.Question,
			Clarification: parsed.Clarification,
		}
		sess.Remember("assistant", reply.Message)
		return reply, nil
	}

	in := parsed.Intent
	sess.SetLastIntent(in)
	a.publish(event.Event{
		Type:      event.IntentParsed,
		SessionID: sess.ID,
		Intent:    string(in.Type),
		Method:    string(in.Method),
	})

	var reply *Reply
	if in.Type == intent.AskQuestion {
		reply = a.answer(ctx, in, it, sess)
	} else {
		reply = a.execute(in, it, sess)
	}

	reply.SessionID = sess.ID
	sess.Remember("assistant", reply.Message)
	return reply, nil
}

func (a *Assistant) execute(in *intent.Intent, it *itinerary.Itinerary, sess *session.Session) *Reply {
	result := a.executor.Execute(in, it, sess)

	eventType := event.MutationApplied
	if !result.Success {
		eventType = event.MutationRejected
	}
	a.publish(event.Event{
		Type:      eventType,
		SessionID: sess.ID,
		Intent:    string(in.Type),
		Message:   result.Message,
	})

	return &Reply{
		Message:          result.Message,
		Itinerary:        result.Itinerary,
		Intent:           in,
		UndoAction:       result.UndoAction,
		SuggestedActions: result.SuggestedActions,
		Suggestions:      result.Suggestions,
		Analysis:         result.Analysis,
		AutoAdjustments:  result.AutoAdjustments,
		MinutesSaved:     result.MinutesSaved,
		Rejected:         !result.Success,
	}
}

// answer serves ASK_QUESTION. Without a reachable model the itinerary summary
// itself is the answer; questions never fail the turn.
func (a *Assistant) answer(ctx context.Context, in *intent.Intent, it *itinerary.Itinerary, sess *session.Session) *Reply {
	summary := ""
	if it != nil {
		summary = it.Summary()
	}

	if a.answerer != nil {
		history := sess.Turns()
		turns := make([]model.Message, 0, len(history))
		for _, turn := range history {
			role := model.RoleUser
			if turn.Role == "assistant" {
				role = model.RoleAssistant
			}
			turns = append(turns, model.Message{Role: role, Content: turn.Content})
		}
		text, err := a.answerer.Answer(ctx, in.Params.Query, summary, turns)
		if err == nil && text != "" {
			return &Reply{Message: text, Intent: in}
		}
		a.logger.Warn("answer model unavailable, using summary", "error", err)
	}

	message := "I can't reach the travel assistant right now."
	if summary != "" {
		message += " Here's the current plan:\n" + summary
	}
	return &Reply{Message: message, Intent: in}
}

// supersede cancels the previous in-flight turn for the session and registers
// this one.
func (a *Assistant) supersede(sessionID string, parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	f := &flight{cancel: cancel}

	a.mu.Lock()
	if prev, ok := a.inFlight[sessionID]; ok {
		prev.cancel()
	}
	a.inFlight[sessionID] = f
	a.mu.Unlock()

	return ctx, func() {
		a.mu.Lock()
		if a.inFlight[sessionID] == f {
			delete(a.inFlight, sessionID)
		}
		a.mu.Unlock()
		cancel()
	}
}

func (a *Assistant) publish(e event.Event) {
	if a.bus != nil {
		a.bus.Publish(e)
	}
}
