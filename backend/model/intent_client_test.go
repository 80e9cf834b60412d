package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/munishbansal2000/layla-sub008/backend/intent"
)

type stubProvider struct {
	text string
	err  error
	req  *CompletionRequest
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(ctx context.Context, req *CompletionRequest) (*Completion, error) {
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	return &Completion{Text: s.text}, nil
}

func TestParseIntentStrictJSON(t *testing.T) {
	provider := &stubProvider{
		text: `{"type":"MOVE_ACTIVITY","params":{"activityName":"TeamLab Borderless","toSlot":"morning"},"confidence":0.92,"explanation":"user wants the museum earlier"}`,
	}
	client := NewIntentClient(provider)

	got, err := client.ParseIntent(context.Background(), "put teamlab earlier", "Day 1: ...", nil)
	require.NoError(t, err)
	assert.Equal(t, intent.MoveActivity, got.Type)
	assert.Equal(t, "TeamLab Borderless", got.Params.ActivityName)
	assert.Equal(t, "morning", got.Params.ToSlot)
	assert.InDelta(t, 0.92, got.Confidence, 1e-9)
	assert.Equal(t, intent.MethodModel, got.Method)
}

func TestParseIntentToleratesCodeFences(t *testing.T) {
	provider := &stubProvider{
		text: "```json\n{\"type\":\"BALANCE_PACING\",\"params\":{\"dayNumber\":2},\"confidence\":0.7}\n```",
	}
	client := NewIntentClient(provider)

	got, err := client.ParseIntent(context.Background(), "day 2 is exhausting", "", nil)
	require.NoError(t, err)
	assert.Equal(t, intent.BalancePacing, got.Type)
	assert.Equal(t, 2, got.Params.DayNumber)
}

func TestParseIntentRejectsUnknownType(t *testing.T) {
	provider := &stubProvider{
		text: `{"type":"TELEPORT","params":{},"confidence":0.99}`,
	}
	client := NewIntentClient(provider)

	_, err := client.ParseIntent(context.Background(), "teleport me", "", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, intent.ErrNoIntentMatch)
}

func TestParseIntentRejectsMalformedJSON(t *testing.T) {
	provider := &stubProvider{text: "I think the user wants to move something."}
	client := NewIntentClient(provider)

	_, err := client.ParseIntent(context.Background(), "move it", "", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, intent.ErrNoIntentMatch)
}

func TestParseIntentPropagatesUnavailable(t *testing.T) {
	provider := &stubProvider{err: ErrModelUnavailable}
	client := NewIntentClient(provider)

	_, err := client.ParseIntent(context.Background(), "move it", "", nil)
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestParseIntentTruncatesTurns(t *testing.T) {
	provider := &stubProvider{
		text: `{"type":"ASK_QUESTION","params":{"query":"hm"},"confidence":0.5}`,
	}
	client := NewIntentClient(provider)

	turns := make([]intent.Turn, 30)
	for i := range turns {
		turns[i] = intent.Turn{Role: "user", Content: "turn"}
	}

	_, err := client.ParseIntent(context.Background(), "hm", "summary", turns)
	require.NoError(t, err)
	// summary + 20 retained turns + current message
	assert.Len(t, provider.req.Messages, 22)
}

func TestSystemInstructionCarriesVocabularyAndSchema(t *testing.T) {
	client := NewIntentClient(&stubProvider{})
	instruction := client.systemInstruction()

	for _, typ := range intent.Types() {
		assert.Contains(t, instruction, string(typ))
	}
	assert.Contains(t, instruction, "activityName")
}
