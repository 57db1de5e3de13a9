package services

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/vnkhanh/wikismart-edu-backend/apperr"
)

func TestDecodeGeminiResponse(t *testing.T) {
	t.Run("joins text parts", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Text("Hola "), genai.Text("mundo ")}},
			}},
		}
		out, err := decodeGeminiResponse(resp)
		require.NoError(t, err)
		assert.Equal(t, "Hola mundo", out)
	})

	t.Run("skips candidates without text", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{Content: nil},
				{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png", Data: []byte{1}}}}},
				{Content: &genai.Content{Parts: []genai.Part{genai.Text("second")}}},
			},
		}
		out, err := decodeGeminiResponse(resp)
		require.NoError(t, err)
		assert.Equal(t, "second", out)
	})

	t.Run("no candidates", func(t *testing.T) {
		_, err := decodeGeminiResponse(&genai.GenerateContentResponse{})
		assert.ErrorIs(t, err, apperr.ErrProvider)
	})

	t.Run("blocked prompt", func(t *testing.T) {
		_, err := decodeGeminiResponse(&genai.GenerateContentResponse{
			PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety},
		})
		assert.ErrorIs(t, err, apperr.ErrProvider)
		assert.Contains(t, err.Error(), "blocked")
	})

	t.Run("nil response", func(t *testing.T) {
		_, err := decodeGeminiResponse(nil)
		assert.ErrorIs(t, err, apperr.ErrProvider)
	})
}

func TestClassifyGeminiError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unauthorized", &googleapi.Error{Code: http.StatusUnauthorized}, apperr.ErrProviderUnavailable},
		{"forbidden", &googleapi.Error{Code: http.StatusForbidden}, apperr.ErrProviderUnavailable},
		{"bad api key", &googleapi.Error{Code: http.StatusBadRequest, Message: "API key not valid. Please pass a valid API key."}, apperr.ErrProviderUnavailable},
		{"bad request", &googleapi.Error{Code: http.StatusBadRequest, Message: "invalid argument"}, apperr.ErrProvider},
		{"wrapped server error", fmt.Errorf("call: %w", &googleapi.Error{Code: http.StatusInternalServerError}), apperr.ErrProvider},
		{"deadline", fmt.Errorf("rpc: %w", context.DeadlineExceeded), apperr.ErrProviderUnavailable},
		{"canceled", fmt.Errorf("rpc: %w", context.Canceled), apperr.ErrProviderUnavailable},
		{"other", assert.AnError, apperr.ErrProvider},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classifyGeminiError(context.Background(), tt.err), tt.want)
		})
	}
}

func TestClassifyGeminiError_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := classifyGeminiError(ctx, &googleapi.Error{Code: http.StatusInternalServerError})
	assert.ErrorIs(t, err, apperr.ErrProviderUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGeminiClient_NotConfigured(t *testing.T) {
	client, err := NewGeminiClient(context.Background(), "", "gemini-test", 0.3, 100)
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, "gemini:gemini-test", client.Name())
	_, err = client.Generate(context.Background(), GenerationRequest{Prompt: "x"})
	assert.ErrorIs(t, err, apperr.ErrProviderUnavailable)
}
