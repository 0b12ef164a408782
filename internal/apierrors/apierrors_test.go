package apierrors

import (
	"chat-server/internal/conversations/processor"
	"chat-server/internal/llm"
	"chat-server/internal/observability"
	"chat-server/internal/store"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "conversation not found",
			err:         fmt.Errorf("lookup: %w", processor.ErrConversationNotFound),
			wantStatus:  http.StatusNotFound,
			wantCode:    CodeConversationNotFound,
			wantMessage: "Conversation not found",
		},
		{
			name:        "content required",
			err:         processor.ErrContentRequired,
			wantStatus:  http.StatusBadRequest,
			wantCode:    CodeContentRequired,
			wantMessage: "Content is required",
		},
		{
			name:        "store not found",
			err:         store.ErrNotFound,
			wantStatus:  http.StatusNotFound,
			wantCode:    CodeNotFound,
			wantMessage: "Resource not found",
		},
		{
			name:        "generator quota",
			err:         fmt.Errorf("failed to generate reply: %w", llm.NewError(llm.ProviderOpenAI, llm.KindQuotaExceeded, errors.New("raw payload"))),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    CodeAIQuotaExceeded,
			wantMessage: "OpenAI API quota exceeded. Please check your billing settings.",
		},
		{
			name:        "generator credentials",
			err:         llm.NewError(llm.ProviderGemini, llm.KindInvalidCredentials, nil),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    CodeAIInvalidCredentials,
			wantMessage: "Invalid Gemini API key. Please check your configuration.",
		},
		{
			name:        "generator invalid request",
			err:         llm.NewError(llm.ProviderGemini, llm.KindInvalidRequest, nil),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    CodeAIInvalidRequest,
			wantMessage: "Invalid request. Please try rephrasing your message.",
		},
		{
			name:       "generator rate limited",
			err:        llm.NewError(llm.ProviderOpenAI, llm.KindRateLimited, nil),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeAIRateLimited,
		},
		{
			name:       "generator unknown",
			err:        llm.NewError(llm.ProviderOpenAI, llm.KindUnknown, nil),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeAIServiceError,
		},
		{
			name:        "api error passes through",
			err:         BadRequest(CodeInvalidInput, "nope"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    CodeInvalidInput,
			wantMessage: "nope",
		},
		{
			name:        "unknown error is sanitized",
			err:         errors.New("secret database detail"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    CodeInternalError,
			wantMessage: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.Equal(t, tt.wantCode, got.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, got.Message)
			}
			assert.NotContains(t, got.Message, "raw payload")
			assert.NotContains(t, got.Message, "secret")
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	assert.Nil(t, MapError(nil))
}

func setupContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	SetLogger(observability.NewNopLogger())
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestRespondWithError(t *testing.T) {
	c, w := setupContext(t)

	RespondWithError(c, processor.ErrConversationNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Conversation not found", body["message"])
	assert.Equal(t, CodeConversationNotFound, body["code"])
	assert.NotContains(t, body, "errors")
}

type createRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content" binding:"required"`
}

func TestRespondWithValidationError(t *testing.T) {
	v := validator.New()
	v.SetTagName("binding")
	UseJSONFieldNames(v)

	tests := []struct {
		name       string
		err        func() error
		wantField  string
		wantSubstr string
	}{
		{
			name: "required field",
			err: func() error {
				return v.Struct(createRequest{})
			},
			wantField:  "content",
			wantSubstr: "content is required",
		},
		{
			name: "wrong json type",
			err: func() error {
				var req createRequest
				return json.NewDecoder(strings.NewReader(`{"title": 123}`)).Decode(&req)
			},
			wantField:  "title",
			wantSubstr: "title must be a string",
		},
		{
			name: "malformed json",
			err: func() error {
				var req createRequest
				return json.NewDecoder(strings.NewReader(`{"title":`)).Decode(&req)
			},
			wantField:  "body",
			wantSubstr: "valid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := setupContext(t)
			err := tt.err()
			require.Error(t, err)

			RespondWithValidationError(c, err)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "Invalid input", body.Message)
			assert.Equal(t, CodeInvalidInput, body.Code)
			require.Len(t, body.Errors, 1)
			assert.Equal(t, tt.wantField, body.Errors[0].Field)
			assert.Contains(t, body.Errors[0].Message, tt.wantSubstr)
		})
	}
}
