package intent

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/munishbansal2000/layla-sub008/backend/itinerary"
)

// ErrNoIntentMatch is returned by the fallback when the model produced
// nothing usable; the parser degrades to a question or clarification.
var ErrNoIntentMatch = errors.New("no intent matched")

// confidenceThreshold separates a rule hit worth acting on from one worth
// escalating to the model fallback.
const confidenceThreshold = 0.7

const (
	confidenceWithActivity = 0.8
	confidenceBare         = 0.5
	confidenceDegraded     = 0.2
)

// Fallback is the tier-2 parser: a language model constrained to the intent
// vocabulary. Implementations must honor ctx cancellation.
type Fallback interface {
	ParseIntent(ctx context.Context, message, itinerarySummary string, turns []Turn) (*Intent, error)
}

type Parser struct {
	fallback Fallback
	logger   *slog.Logger
}

type ParserOption func(*Parser)

func WithFallback(fallback Fallback) ParserOption {
	return func(p *Parser) {
		p.fallback = fallback
	}
}

func WithLogger(logger *slog.Logger) ParserOption {
	return func(p *Parser) {
		p.logger = logger
	}
}

func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse runs tier 1 against the message and escalates to the fallback when
// the result is weak. Model failures never surface: the parser degrades to a
// low-confidence question or a clarification request instead.
func (p *Parser) Parse(ctx context.Context, message string, itin *itinerary.Itinerary, turns []Turn) (*Result, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return &Result{Clarification: defaultClarification("I didn't catch that. What would you like to change?")}, nil
	}

	ruled := p.parseRules(message)

	if ruled != nil && ruled.Confidence >= confidenceThreshold && ruled.Type != AskQuestion {
		return &Result{Intent: ruled}, nil
	}

	if p.fallback != nil {
		summary := ""
		if itin != nil {
			summary = itin.Summary()
		}
		modeled, err := p.fallback.ParseIntent(ctx, message, summary, turns)
		if err == nil && modeled != nil && Known(modeled.Type) {
			modeled.Method = MethodModel
			clampConfidence(modeled)
			return &Result{Intent: modeled}, nil
		}
		if err != nil && !errors.Is(err, ErrNoIntentMatch) {
			p.logger.Warn("intent fallback unavailable, degrading to rules", "error", err)
		}
	}

	if ruled != nil {
		return &Result{Intent: ruled}, nil
	}

	if strings.HasSuffix(message, "?") {
		return &Result{Intent: &Intent{
			Type:       AskQuestion,
			Params:     Params{Query: message},
			Confidence: confidenceDegraded,
			Method:     MethodRules,
		}}, nil
	}

	return &Result{Clarification: defaultClarification("I'm not sure what you'd like to do with your itinerary.")}, nil
}

// parseRules is the synchronous tier-1 pass.
func (p *Parser) parseRules(message string) *Intent {
	lower := strings.ToLower(message)

	intentType, ok := matchRules(lower)
	if !ok {
		return nil
	}

	params := Params{}
	params.ToSlot = extractSlot(lower)
	params.DayNumber, params.ToDay = extractDays(lower)

	names := extractActivities(message)
	if len(names) > 0 {
		params.ActivityName = names[0]
	}
	if len(names) > 1 {
		params.SecondActivity = names[1]
	}
	if intentType == AskQuestion {
		params.Query = message
	}

	confidence := confidenceBare
	if params.ActivityName != "" && intentType != AskQuestion {
		confidence = confidenceWithActivity
	}

	return &Intent{
		Type:       intentType,
		Params:     params,
		Confidence: confidence,
		Method:     MethodRules,
	}
}

func clampConfidence(in *Intent) {
	if in.Confidence < 0 {
		in.Confidence = 0
	}
	if in.Confidence > 1 {
		in.Confidence = 1
	}
}

func defaultClarification(question string) *Clarification {
	return &Clarification{
		Question: question,
		Options: []ClarificationOption{
			{Label: "Move an activity", Value: MoveActivity},
			{Label: "Add an activity", Value: AddActivity},
			{Label: "Remove an activity", Value: RemoveActivity},
			{Label: "Ask a question", Value: AskQuestion},
		},
	}
}
