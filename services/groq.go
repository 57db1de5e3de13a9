package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vnkhanh/wikismart-edu-backend/apperr"
)

const maxGroqResponseBytes = 4 << 20

// GroqClient calls the OpenAI-compatible chat completions endpoint of Groq.
type GroqClient struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float32
	maxTokens   int
	http        *http.Client
}

func NewGroqClient(apiKey, model, baseURL string, temperature float32, maxTokens int) *GroqClient {
	return &GroqClient{
		apiKey:      apiKey,
		model:       model,
		baseURL:     strings.TrimRight(baseURL, "/"),
		temperature: temperature,
		maxTokens:   maxTokens,
		http:        &http.Client{},
	}
}

func (g *GroqClient) Name() string { return "groq" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (g *GroqClient) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	if g.apiKey == "" {
		return "", apperr.New(apperr.KindProviderUnavailable, "groq is not configured")
	}

	payload, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "encode groq request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "build groq request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.http.Do(httpReq)
	if err != nil {
		if cerr := contextError(ctx, "groq", err); cerr != nil {
			return "", cerr
		}
		return "", apperr.Wrap(apperr.KindProvider, "groq request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxGroqResponseBytes+1))
	if err != nil {
		if cerr := contextError(ctx, "groq", err); cerr != nil {
			return "", cerr
		}
		return "", apperr.Wrap(apperr.KindProvider, "read groq response", err)
	}
	if len(body) > maxGroqResponseBytes {
		return "", apperr.New(apperr.KindProvider, "groq response is too large")
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", apperr.Wrap(apperr.KindProviderUnavailable, "groq rejected the configured credentials",
			fmt.Errorf("status=%d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return "", apperr.Wrap(apperr.KindProvider, "groq returned an error",
			fmt.Errorf("status=%d body=%s", resp.StatusCode, truncateBytes(body, 512)))
	}

	return decodeChatResponse(body)
}

// decodeChatResponse returns the first choice carrying message content.
func decodeChatResponse(body []byte) (string, error) {
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", apperr.Wrap(apperr.KindProvider, "groq returned malformed JSON", err)
	}
	for _, choice := range parsed.Choices {
		if choice.Message.Content != nil {
			return strings.TrimSpace(*choice.Message.Content), nil
		}
	}
	return "", apperr.New(apperr.KindProvider, "groq response has no message content")
}

func truncateBytes(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
