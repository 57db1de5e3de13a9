package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/vnkhanh/wikismart-edu-backend/apperr"
)

// GeminiClient wraps one Gemini model. A client built without an API key
// is valid but fails every call with PROVIDER_UNAVAILABLE.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

func NewGeminiClient(ctx context.Context, apiKey, model string, temperature float32, maxTokens int) (*GeminiClient, error) {
	g := &GeminiClient{model: model, temperature: temperature, maxTokens: int32(maxTokens)}
	if apiKey == "" {
		return g, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	g.client = client
	return g, nil
}

func (g *GeminiClient) Name() string { return "gemini:" + g.model }

func (g *GeminiClient) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *GeminiClient) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	if g.client == nil {
		return "", apperr.New(apperr.KindProviderUnavailable, "gemini is not configured")
	}

	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(g.temperature)
	model.SetMaxOutputTokens(g.maxTokens)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", classifyGeminiError(ctx, err)
	}
	return decodeGeminiResponse(resp)
}

func classifyGeminiError(ctx context.Context, err error) error {
	if cerr := contextError(ctx, "gemini", err); cerr != nil {
		return cerr
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperr.Wrap(apperr.KindProviderUnavailable, "gemini rejected the configured credentials", err)
		case http.StatusBadRequest:
			if strings.Contains(strings.ToLower(gerr.Message), "api key") {
				return apperr.Wrap(apperr.KindProviderUnavailable, "gemini rejected the configured credentials", err)
			}
		}
	}
	return apperr.Wrap(apperr.KindProvider, "gemini request failed", err)
}

// decodeGeminiResponse concatenates the text parts of the first candidate
// that has any. Non-text parts are ignored.
func decodeGeminiResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", apperr.New(apperr.KindProvider, "gemini returned an empty response")
	}

	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var sb strings.Builder
		found := false
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
				found = true
			}
		}
		if found {
			return strings.TrimSpace(sb.String()), nil
		}
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", apperr.Wrap(apperr.KindProvider, "gemini blocked the prompt",
			fmt.Errorf("block reason: %s", resp.PromptFeedback.BlockReason))
	}
	return "", apperr.New(apperr.KindProvider, "gemini response has no text content")
}
