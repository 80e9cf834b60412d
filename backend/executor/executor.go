// Package executor applies parsed intents to itineraries. Every mutation
// consults the constraint engine, produces a fresh itinerary value, and
// carries an inverse intent. Failures become structured rejections, never
// raw errors.
package executor

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/munishbansal2000/layla-sub008/backend/constraint"
	"github.com/munishbansal2000/layla-sub008/backend/intent"
	"github.com/munishbansal2000/layla-sub008/backend/itinerary"
	"github.com/munishbansal2000/layla-sub008/backend/session"
)

// Result is the outcome of executing one intent. Itinerary is nil when the
// mutation was rejected; the caller keeps its previous value.
type Result struct {
	Success          bool                       `json:"success"`
	Message          string                     `json:"message"`
	Itinerary        *itinerary.Itinerary       `json:"itinerary,omitempty"`
	UndoAction       *intent.Intent             `json:"undoAction,omitempty"`
	SuggestedActions []intent.Intent            `json:"suggestedActions,omitempty"`
	Suggestions      []itinerary.ActivityOption `json:"suggestions,omitempty"`
	Analysis         *constraint.Analysis       `json:"constraintAnalysis,omitempty"`
	AutoAdjustments  []string                   `json:"autoAdjustments,omitempty"`
	MinutesSaved     int                        `json:"minutesSaved,omitempty"`
}

type handler func(in *intent.Intent, it *itinerary.Itinerary, sess *session.Session) *Result

type Executor struct {
	engine   *constraint.Engine
	flights  *constraint.Flights
	handlers map[intent.Type]handler
	logger   *slog.Logger
}

type Option func(*Executor)

func WithFlights(flights *constraint.Flights) Option {
	return func(e *Executor) {
		e.flights = flights
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

func New(engine *constraint.Engine, opts ...Option) *Executor {
	if engine == nil {
		engine = constraint.NewEngine(nil)
	}
	e := &Executor{
		engine: engine,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.handlers = map[intent.Type]handler{
		intent.AddActivity:         e.addActivity,
		intent.RemoveActivity:      e.removeActivity,
		intent.ReplaceActivity:     e.replaceActivity,
		intent.MoveActivity:        e.moveActivity,
		intent.SwapActivities:      e.swapActivities,
		intent.Prioritize:          e.prioritize,
		intent.Deprioritize:        e.deprioritize,
		intent.LockSlot:            e.lockSlot,
		intent.UnlockSlot:          e.unlockSlot,
		intent.SuggestAlternatives: e.suggestAlternatives,
		intent.SuggestFromPool:     e.suggestFromPool,
		intent.OptimizeRoute:       e.optimizeRoute,
		intent.OptimizeClusters:    e.optimizeClusters,
		intent.BalancePacing:       e.balancePacing,
		intent.Undo:                e.undo,
		intent.Redo:                e.redo,
	}
	return e
}

// Execute dispatches the intent to its handler. Unknown and non-mutation
// types come back as rejections with a descriptive message.
func (e *Executor) Execute(in *intent.Intent, it *itinerary.Itinerary, sess *session.Session) *Result {
	if in == nil || it == nil {
		return reject("nothing to execute")
	}

	h, ok := e.handlers[in.Type]
	if !ok {
		return reject(fmt.Sprintf("%s is not an itinerary mutation", in.Type))
	}

	result := h(in, it, sess)
	if result.Success {
		e.logger.Debug("intent executed", "type", in.Type, "activity", in.Params.ActivityName)
	} else {
		e.logger.Debug("intent rejected", "type", in.Type, "message", result.Message)
	}
	return result
}

// commit re-checks the mutated value. Blocking violations reject the
// mutation and the caller's itinerary stays untouched; warnings ride along
// on the successful result.
func (e *Executor) commit(mutated *itinerary.Itinerary, prior *itinerary.Itinerary, sess *session.Session, message string, undo *intent.Intent) *Result {
	analysis := e.engine.Analyze(mutated, e.flights)
	if analysis.HasErrors() {
		var reasons []string
		for _, issue := range analysis.Errors() {
			reasons = append(reasons, issue.Message)
		}
		return &Result{
			Success:  false,
			Message:  fmt.Sprintf("that change would break the itinerary: %s", strings.Join(reasons, "; ")),
			Analysis: analysis,
		}
	}

	if sess != nil {
		sess.PushUndo(prior)
	}

	return &Result{
		Success:    true,
		Message:    message,
		Itinerary:  mutated,
		UndoAction: undo,
		Analysis:   analysis,
	}
}

func reject(message string) *Result {
	return &Result{Success: false, Message: message}
}

func rejectLocked(slot *itinerary.Slot, activityName string) *Result {
	return &Result{
		Success: false,
		Message: fmt.Sprintf("%q is locked; unlock it first if you want to change it", activityName),
		SuggestedActions: []intent.Intent{{
			Type:       intent.UnlockSlot,
			Params:     intent.Params{SlotID: slot.ID, ActivityName: activityName},
			Confidence: 1,
		}},
	}
}

// locate resolves the slot an intent targets: explicit slot id first, then
// activity-name search.
func locate(it *itinerary.Itinerary, params intent.Params) (*itinerary.Day, *itinerary.Slot) {
	if params.SlotID != "" {
		if day, slot := it.SlotByID(params.SlotID); slot != nil {
			return day, slot
		}
	}
	if params.ActivityName != "" {
		return it.FindActivity(params.ActivityName)
	}
	return nil, nil
}

func activityLabel(slot *itinerary.Slot) string {
	if opt := slot.EffectiveOption(); opt != nil {
		return opt.Activity.Name
	}
	return slot.ID
}
