package model

import (
	"context"
	"fmt"
	"strings"

	deepseek "github.com/cohesion-org/deepseek-go"
	"github.com/cohesion-org/deepseek-go/constants"
)

type DeepSeekProvider struct {
	client  *deepseek.Client
	model   string
	options *ProviderOptions
	metrics *providerMetrics
}

func NewDeepSeekProvider(apiKey string, opts ...ProviderOption) (*DeepSeekProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("deepseek API key is required")
	}

	options := DefaultProviderOptions("deepseek")
	options.apply(opts)

	var client *deepseek.Client
	if options.BaseURL != "" {
		client = deepseek.NewClient(apiKey, options.BaseURL)
	} else {
		client = deepseek.NewClient(apiKey)
	}

	return &DeepSeekProvider{
		client:  client,
		model:   deepseek.DeepSeekChat,
		options: options,
		metrics: newProviderMetrics(options.Metrics, "deepseek"),
	}, nil
}

func (p *DeepSeekProvider) Name() string {
	return "deepseek"
}

func (p *DeepSeekProvider) Complete(ctx context.Context, req *CompletionRequest) (*Completion, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("at least one message is required")
	}

	messages := make([]deepseek.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, deepseek.ChatCompletionMessage{
			Role:    constants.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, msg := range req.Messages {
		role := constants.ChatMessageRoleUser
		if msg.Role == RoleAssistant {
			role = constants.ChatMessageRoleAssistant
		}
		messages = append(messages, deepseek.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	request := &deepseek.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: float32(req.Temperature),
	}

	var resp *deepseek.ChatCompletionResponse
	err := p.options.invoke(ctx, p.metrics, func(ctx context.Context) error {
		var err error
		resp, err = p.client.CreateChatCompletion(ctx, request)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ErrModelUnavailable)
	}

	return &Completion{Text: strings.TrimSpace(resp.Choices[0].Message.Content)}, nil
}
