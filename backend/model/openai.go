package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = "gpt-4o-mini"

type OpenAIProvider struct {
	client  *openai.Client
	model   string
	options *ProviderOptions
	metrics *providerMetrics
}

func NewOpenAIProvider(apiKey string, opts ...ProviderOption) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	options := DefaultProviderOptions("openai")
	options.apply(opts)

	clientOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if options.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(options.BaseURL))
	}

	return &OpenAIProvider{
		client:  openai.NewClient(clientOpts...),
		model:   defaultOpenAIModel,
		options: options,
		metrics: newProviderMetrics(options.Metrics, "openai"),
	}, nil
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Complete(ctx context.Context, req *CompletionRequest) (*Completion, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("at least one message is required")
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.F(openai.ChatModel(p.model)),
		Messages:    openai.F(messages),
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(req.Temperature),
	}

	var resp *openai.ChatCompletion
	err := p.options.invoke(ctx, p.metrics, func(ctx context.Context) error {
		var err error
		resp, err = p.client.Chat.Completions.New(ctx, params)
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
