package googleai

import (
	"chat-server/internal/llm"
	"chat-server/internal/observability"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/lo"
	"google.golang.org/genai"
)

const titlePrompt = `Generate a short, descriptive title (3-5 words) for a conversation based on this message: "%s". Be concise and specific. Only return the title, nothing else.`

// GoogleAIClient generates chat replies and titles with the Gemini API
type GoogleAIClient struct {
	client *genai.Client
	model  string
	logger *observability.Logger
}

type Option func(*genai.ClientConfig)

// WithBaseURL points the client at a different Gemini API endpoint.
func WithBaseURL(baseURL string) Option {
	return func(cfg *genai.ClientConfig) {
		cfg.HTTPOptions.BaseURL = baseURL
	}
}

// NewGoogleAIClient creates a new Gemini client for the given model
func NewGoogleAIClient(ctx context.Context, apiKey, model string, logger *observability.Logger, opts ...Option) (*GoogleAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}

	return &GoogleAIClient{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (g *GoogleAIClient) Name() string {
	return llm.ProviderGemini
}

// GenerateReply sends the conversation as multi-turn contents. System entries are dropped.
func (g *GoogleAIClient) GenerateReply(ctx context.Context, history []llm.ChatMessage) (string, error) {
	contents := toContents(history)
	if len(contents) == 0 {
		return "", llm.NewError(llm.ProviderGemini, llm.KindInvalidRequest, errors.New("no user or assistant messages in history"))
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		g.logger.Error(ctx, "Failed to generate Gemini reply", err)
		return "", classify(err)
	}

	return llm.ReplyOrFallback(responseText(resp)), nil
}

// GenerateTitle asks for a short label for the first message. Failures yield llm.DefaultTitle.
func (g *GoogleAIClient) GenerateTitle(ctx context.Context, firstMessage string) string {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(fmt.Sprintf(titlePrompt, firstMessage)), nil)
	if err != nil {
		g.logger.InfoWithError(ctx, "Failed to generate Gemini title, using default", err)
		return llm.DefaultTitle
	}
	return llm.CleanTitle(responseText(resp))
}

func toContents(history []llm.ChatMessage) []*genai.Content {
	turns := lo.Filter(history, func(m llm.ChatMessage, _ int) bool {
		return m.Role != llm.RoleSystem
	})
	return lo.Map(turns, func(m llm.ChatMessage, _ int) *genai.Content {
		role := genai.RoleUser
		if m.Role == llm.RoleAssistant {
			role = genai.RoleModel // Gemini expects "model"
		}
		content := genai.Text(m.Content)[0]
		content.Role = string(role)
		return content
	})
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// classify maps a Gemini API failure onto the closed llm error kinds.
func classify(err error) *llm.Error {
	code, message, ok := apiErrorDetails(err)
	if !ok {
		return llm.NewError(llm.ProviderGemini, llm.KindUnknown, err)
	}

	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return llm.NewError(llm.ProviderGemini, llm.KindInvalidCredentials, err)
	case code == http.StatusBadRequest && strings.Contains(strings.ToLower(message), "api key"):
		return llm.NewError(llm.ProviderGemini, llm.KindInvalidCredentials, err)
	case code == http.StatusTooManyRequests:
		lower := strings.ToLower(message)
		if strings.Contains(lower, "quota") || strings.Contains(lower, "billing") {
			return llm.NewError(llm.ProviderGemini, llm.KindQuotaExceeded, err)
		}
		return llm.NewError(llm.ProviderGemini, llm.KindRateLimited, err)
	case code == http.StatusBadRequest:
		return llm.NewError(llm.ProviderGemini, llm.KindInvalidRequest, err)
	default:
		return llm.NewError(llm.ProviderGemini, llm.KindUnknown, err)
	}
}

func apiErrorDetails(err error) (int, string, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.Message + " " + apiErr.Status, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, apiErrPtr.Message + " " + apiErrPtr.Status, true
	}
	return 0, "", false
}
