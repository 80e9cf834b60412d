package model

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/munishbansal2000/layla-sub008/backend/intent"
)

// maxPriorTurns bounds the conversation window forwarded to the model.
const maxPriorTurns = 20

// wireIntent is the strict JSON shape the model must return for intent
// parsing. Its schema is embedded in the system instruction.
type wireIntent struct {
	Type        string        `json:"type"`
	Params      intent.Params `json:"params"`
	Confidence  float64       `json:"confidence"`
	Explanation string        `json:"explanation,omitempty"`
}

var intentSchemaJSON = func() string {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := reflector.Reflect(&wireIntent{})
	data, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("failed to marshal intent schema: %v", err))
	}
	return string(data)
}()

// IntentClient implements the parser's tier-2 fallback on top of a Provider.
type IntentClient struct {
	provider Provider
}

func NewIntentClient(provider Provider) *IntentClient {
	return &IntentClient{provider: provider}
}

func (c *IntentClient) systemInstruction() string {
	types := make([]string, 0, len(intent.Types()))
	for _, t := range intent.Types() {
		types = append(types, string(t))
	}

	var b strings.Builder
	b.WriteString("You classify travel-itinerary edit requests. ")
	b.WriteString("Respond with a single JSON object and nothing else. ")
	b.WriteString("The \"type\" field must be exactly one of: ")
	b.WriteString(strings.Join(types, ", "))
	b.WriteString(".\nThe object must match this JSON schema:\n")
	b.WriteString(intentSchemaJSON)
	b.WriteString("\nUse the itinerary summary to resolve activity names and day numbers. ")
	b.WriteString("If the request is not an itinerary edit, use type ASK_QUESTION with the question in params.query.")
	return b.String()
}

// ParseIntent asks the model to classify the message. Transport failures
// return ErrModelUnavailable; unusable responses return ErrNoIntentMatch.
// Both cause the parser to degrade rather than fail the request.
func (c *IntentClient) ParseIntent(ctx context.Context, message, itinerarySummary string, turns []intent.Turn) (*intent.Intent, error) {
	messages := make([]Message, 0, maxPriorTurns+2)
	if itinerarySummary != "" {
		messages = append(messages, Message{
			Role:    RoleUser,
			Content: "Current itinerary:\n" + itinerarySummary,
		})
	}
	for _, turn := range lastTurns(turns, maxPriorTurns) {
		role := RoleUser
		if turn.Role == "assistant" {
			role = RoleAssistant
		}
		messages = append(messages, Message{Role: role, Content: turn.Content})
	}
	messages = append(messages, Message{Role: RoleUser, Content: message})

	completion, err := c.provider.Complete(ctx, &CompletionRequest{
		System:      c.systemInstruction(),
		Messages:    messages,
		MaxTokens:   512,
		Temperature: 0,
	})
	if err != nil {
		return nil, err
	}

	parsed, err := decodeWireIntent(completion.Text)
	if err != nil {
		return nil, err
	}

	return &intent.Intent{
		Type:        intent.Type(parsed.Type),
		Params:      parsed.Params,
		Confidence:  parsed.Confidence,
		Explanation: parsed.Explanation,
		Method:      intent.MethodModel,
	}, nil
}

// decodeWireIntent tolerates code fences and prose around the JSON object
// but rejects anything that does not decode to a known intent type.
func decodeWireIntent(text string) (*wireIntent, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in response", intent.ErrNoIntentMatch)
	}

	var parsed wireIntent
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", intent.ErrNoIntentMatch, err)
	}

	if !intent.Known(intent.Type(parsed.Type)) {
		return nil, fmt.Errorf("%w: unknown intent type %q", intent.ErrNoIntentMatch, parsed.Type)
	}

	return &parsed, nil
}

func lastTurns(turns []intent.Turn, limit int) []intent.Turn {
	if len(turns) <= limit {
		return turns
	}
	return turns[len(turns)-limit:]
}
