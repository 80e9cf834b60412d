package model

import (
	"context"
	"fmt"
)

const answerSystemInstruction = "You are a travel-itinerary assistant. Use the " +
	"itinerary context to answer questions, reference actual plans, and offer " +
	"proactive suggestions when helpful. Keep answers concise and grounded in " +
	"the provided data."

// AnswerClient serves the free-form question path: no JSON constraint, just a
// grounded plain-text answer.
type AnswerClient struct {
	provider Provider
}

func NewAnswerClient(provider Provider) *AnswerClient {
	return &AnswerClient{provider: provider}
}

func (c *AnswerClient) Answer(ctx context.Context, question, itineraryContext string, turns []Message) (string, error) {
	messages := make([]Message, 0, maxPriorTurns+2)
	if itineraryContext != "" {
		messages = append(messages, Message{
			Role:    RoleUser,
			Content: "Latest itinerary context:\n" + itineraryContext,
		})
	}
	if len(turns) > maxPriorTurns {
		turns = turns[len(turns)-maxPriorTurns:]
	}
	messages = append(messages, turns...)
	messages = append(messages, Message{Role: RoleUser, Content: question})

	completion, err := c.provider.Complete(ctx, &CompletionRequest{
		System:      answerSystemInstruction,
		Messages:    messages,
		MaxTokens:   1024,
		Temperature: 0.4,
	})
	if err != nil {
		return "", err
	}
	if completion.Text == "" {
		return "", fmt.Errorf("%w: empty answer", ErrModelUnavailable)
	}
	return completion.Text, nil
}
