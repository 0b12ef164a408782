package openai

import (
	"chat-server/internal/llm"
	"chat-server/internal/observability"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/samber/lo"
)

const (
	titleSystemPrompt = "Generate a short, descriptive title (3-5 words) for a conversation based on the user's first message. Be concise and specific."

	replyTemperature = 0.7
	replyMaxTokens   = 2000
	titleTemperature = 0.5
	titleMaxTokens   = 20
)

// OpenAIClient generates chat replies and titles with the OpenAI chat completions API
type OpenAIClient struct {
	client openai.Client
	model  string
	logger *observability.Logger
}

func NewOpenAIClient(apiKey, model string, logger *observability.Logger, opts ...option.RequestOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	options := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)

	return &OpenAIClient{
		client: openai.NewClient(options...),
		model:  model,
		logger: logger,
	}, nil
}

func (c *OpenAIClient) Name() string {
	return llm.ProviderOpenAI
}

func (c *OpenAIClient) GenerateReply(ctx context.Context, history []llm.ChatMessage) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(c.model),
		Messages:            toMessages(history),
		Temperature:         openai.Float(replyTemperature),
		MaxCompletionTokens: openai.Int(replyMaxTokens),
	})
	if err != nil {
		c.logger.Error(ctx, "Failed to generate OpenAI reply", err)
		return "", classify(err)
	}

	return llm.ReplyOrFallback(completionText(completion)), nil
}

// GenerateTitle asks for a short label for the first message. Failures yield llm.DefaultTitle.
func (c *OpenAIClient) GenerateTitle(ctx context.Context, firstMessage string) string {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(titleSystemPrompt),
			openai.UserMessage(firstMessage),
		},
		Temperature:         openai.Float(titleTemperature),
		MaxCompletionTokens: openai.Int(titleMaxTokens),
	})
	if err != nil {
		c.logger.InfoWithError(ctx, "Failed to generate OpenAI title, using default", err)
		return llm.DefaultTitle
	}
	return llm.CleanTitle(completionText(completion))
}

func toMessages(history []llm.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	return lo.Map(history, func(m llm.ChatMessage, _ int) openai.ChatCompletionMessageParamUnion {
		switch m.Role {
		case llm.RoleSystem:
			return openai.SystemMessage(m.Content)
		case llm.RoleAssistant:
			return openai.AssistantMessage(m.Content)
		default:
			return openai.UserMessage(m.Content)
		}
	})
}

func completionText(completion *openai.ChatCompletion) string {
	if completion == nil || len(completion.Choices) == 0 {
		return ""
	}
	return completion.Choices[0].Message.Content
}

// classify maps an OpenAI API failure onto the closed llm error kinds.
// Error codes win over HTTP status since quota exhaustion is also reported as 429.
func classify(err error) *llm.Error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return llm.NewError(llm.ProviderOpenAI, llm.KindUnknown, err)
	}

	switch apiErr.Code {
	case "insufficient_quota":
		return llm.NewError(llm.ProviderOpenAI, llm.KindQuotaExceeded, err)
	case "invalid_api_key":
		return llm.NewError(llm.ProviderOpenAI, llm.KindInvalidCredentials, err)
	case "rate_limit_exceeded":
		return llm.NewError(llm.ProviderOpenAI, llm.KindRateLimited, err)
	}

	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		return llm.NewError(llm.ProviderOpenAI, llm.KindInvalidCredentials, err)
	case http.StatusTooManyRequests:
		return llm.NewError(llm.ProviderOpenAI, llm.KindRateLimited, err)
	case http.StatusBadRequest:
		return llm.NewError(llm.ProviderOpenAI, llm.KindInvalidRequest, err)
	default:
		return llm.NewError(llm.ProviderOpenAI, llm.KindUnknown, err)
	}
}
