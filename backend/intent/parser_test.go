package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, p *Parser, message string) *Intent {
	t.Helper()
	res, err := p.Parse(context.Background(), message, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, res.Intent, "expected an intent for %q", message)
	return res.Intent
}

func TestParseRuleTable(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name    string
		message string
		want    Type
	}{
		{"move verb", "Move TeamLab to morning", MoveActivity},
		{"reschedule verb", "reschedule 'Ichiran Ramen' to day 2", MoveActivity},
		{"swap verb", "Swap Senso-ji Temple and Meiji Shrine", SwapActivities},
		{"remove verb", "remove 'Tokyo Tower'", RemoveActivity},
		{"add verb", "add 'Ghibli Museum' on day 3", AddActivity},
		{"replace verb", "replace 'Tokyo Tower' with 'Skytree'", ReplaceActivity},
		{"lock maps to prioritize", "Lock TeamLab Borderless", Prioritize},
		{"unlock quick action", "unlock the dinner slot", UnlockSlot},
		{"deprioritize", "Shibuya Crossing is optional", Deprioritize},
		{"optimize route", "optimize the route for day 2", OptimizeRoute},
		{"pacing", "day 3 feels too packed", BalancePacing},
		{"alternatives", "suggest alternatives for lunch", SuggestAlternatives},
		{"undo", "undo that", Undo},
		{"redo", "redo", Redo},
		{"question", "what time does Senso-ji open?", AskQuestion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseOne(t, p, tt.message)
			assert.Equal(t, tt.want, got.Type)
			assert.Equal(t, MethodRules, got.Method)
		})
	}
}

func TestParseLockActivity(t *testing.T) {
	p := NewParser()

	got := parseOne(t, p, "Lock TeamLab Borderless")
	assert.Equal(t, Prioritize, got.Type)
	assert.Equal(t, "TeamLab Borderless", got.Params.ActivityName)
	assert.InDelta(t, 0.8, got.Confidence, 1e-9)
}

func TestParseMoveToSlot(t *testing.T) {
	p := NewParser()

	got := parseOne(t, p, "Move TeamLab to morning")
	assert.Equal(t, MoveActivity, got.Type)
	assert.Equal(t, "morning", got.Params.ToSlot)
	assert.Equal(t, "TeamLab", got.Params.ActivityName)
}

func TestParseMoveAcrossDays(t *testing.T) {
	p := NewParser()

	got := parseOne(t, p, "move 'Ghibli Museum' from day 1 to day 3")
	assert.Equal(t, MoveActivity, got.Type)
	assert.Equal(t, "Ghibli Museum", got.Params.ActivityName)
	assert.Equal(t, 1, got.Params.DayNumber)
	assert.Equal(t, 3, got.Params.ToDay)
}

func TestParseOrdinalDay(t *testing.T) {
	p := NewParser()

	got := parseOne(t, p, "remove the ramen stop on the second day")
	assert.Equal(t, RemoveActivity, got.Type)
	assert.Equal(t, 2, got.Params.DayNumber)
}

func TestParseSwapExtractsBothNames(t *testing.T) {
	p := NewParser()

	got := parseOne(t, p, `swap "Tokyo Tower" and "Meiji Shrine"`)
	assert.Equal(t, SwapActivities, got.Type)
	assert.Equal(t, "Tokyo Tower", got.Params.ActivityName)
	assert.Equal(t, "Meiji Shrine", got.Params.SecondActivity)
}

func TestParseConfidenceWithoutActivity(t *testing.T) {
	p := NewParser()

	got := parseOne(t, p, "optimize the route")
	assert.InDelta(t, 0.5, got.Confidence, 1e-9)
}

func TestParsePriorityTieBreak(t *testing.T) {
	p := NewParser()

	// "move" (priority 1) must beat "suggest" (priority 3).
	got := parseOne(t, p, "move the museum visit and suggest a time")
	assert.Equal(t, MoveActivity, got.Type)
}

func TestParseUnmatchedReturnsClarification(t *testing.T) {
	p := NewParser()

	res, err := p.Parse(context.Background(), "banana banana banana", nil, nil)
	require.NoError(t, err)
	require.Nil(t, res.Intent)
	require.NotNil(t, res.Clarification)
	assert.NotEmpty(t, res.Clarification.Question)
	assert.NotEmpty(t, res.Clarification.Options)
}

type stubFallback struct {
	intent *Intent
	err    error
	called bool
}

func (s *stubFallback) ParseIntent(ctx context.Context, message, summary string, turns []Turn) (*Intent, error) {
	s.called = true
	return s.intent, s.err
}

func TestParseFallbackUsedForWeakMatches(t *testing.T) {
	fb := &stubFallback{intent: &Intent{
		Type:       BalancePacing,
		Confidence: 0.9,
	}}
	p := NewParser(WithFallback(fb))

	res, err := p.Parse(context.Background(), "optimize everything somehow", nil, nil)
	require.NoError(t, err)
	require.NotNil(t, res.Intent)
	assert.True(t, fb.called)
	assert.Equal(t, BalancePacing, res.Intent.Type)
	assert.Equal(t, MethodModel, res.Intent.Method)
}

func TestParseFallbackNotCalledForStrongMatches(t *testing.T) {
	fb := &stubFallback{}
	p := NewParser(WithFallback(fb))

	got := parseOne(t, p, "Move TeamLab to morning")
	assert.Equal(t, MoveActivity, got.Type)
	assert.False(t, fb.called)
}

func TestParseFallbackErrorDegrades(t *testing.T) {
	fb := &stubFallback{err: errors.New("connection refused")}
	p := NewParser(WithFallback(fb))

	// The weak rule result is kept when the model is unreachable.
	res, err := p.Parse(context.Background(), "optimize the route", nil, nil)
	require.NoError(t, err)
	require.NotNil(t, res.Intent)
	assert.Equal(t, OptimizeRoute, res.Intent.Type)

	// With no rule hit at all, a trailing question mark degrades to a
	// low-confidence question.
	res, err = p.Parse(context.Background(), "hmm, thoughts on Tuesday?", nil, nil)
	require.NoError(t, err)
	require.NotNil(t, res.Intent)
	assert.Equal(t, AskQuestion, res.Intent.Type)
	assert.LessOrEqual(t, res.Intent.Confidence, 0.5)
}

func TestParseFallbackUnknownTypeRejected(t *testing.T) {
	fb := &stubFallback{intent: &Intent{Type: Type("DO_SOMETHING_WILD"), Confidence: 0.99}}
	p := NewParser(WithFallback(fb))

	res, err := p.Parse(context.Background(), "optimize the route", nil, nil)
	require.NoError(t, err)
	require.NotNil(t, res.Intent)
	assert.Equal(t, OptimizeRoute, res.Intent.Type)
}
