package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/vnkhanh/wikismart-edu-backend/apperr"
	"github.com/vnkhanh/wikismart-edu-backend/logging"
	"github.com/vnkhanh/wikismart-edu-backend/metrics"
	"github.com/vnkhanh/wikismart-edu-backend/models"
)

// GenerationRequest is one system + user prompt pair sent to a provider.
type GenerationRequest struct {
	System string
	Prompt string
}

// TextGenerator is a single LLM backend.
type TextGenerator interface {
	Name() string
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

const (
	SummaryShort  = "short"
	SummaryMedium = "medium"
)

type GatewayConfig struct {
	Summarizer    TextGenerator
	Translator    TextGenerator
	QuizGenerator TextGenerator
	MaxInputChars int
	Timeout       time.Duration
}

// Gateway routes generation tasks to their providers. Every call is capped
// to MaxInputChars, bounded by Timeout and guarded by a per-provider breaker.
type Gateway struct {
	summarizer    TextGenerator
	translator    TextGenerator
	quizGenerator TextGenerator
	maxInputChars int
	timeout       time.Duration
	breakers      map[string]*gobreaker.CircuitBreaker[string]
}

func NewGateway(cfg GatewayConfig) *Gateway {
	g := &Gateway{
		summarizer:    cfg.Summarizer,
		translator:    cfg.Translator,
		quizGenerator: cfg.QuizGenerator,
		maxInputChars: cfg.MaxInputChars,
		timeout:       cfg.Timeout,
		breakers:      map[string]*gobreaker.CircuitBreaker[string]{},
	}
	for _, p := range []TextGenerator{cfg.Summarizer, cfg.Translator, cfg.QuizGenerator} {
		if p == nil {
			continue
		}
		if _, ok := g.breakers[p.Name()]; !ok {
			g.breakers[p.Name()] = newProviderBreaker(p.Name())
		}
	}
	return g
}

func newProviderBreaker(name string) *gobreaker.CircuitBreaker[string] {
	return gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Only upstream failures count; a missing key, a timeout or a caller
		// that went away is not the provider misbehaving.
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			return apperr.KindOf(err) != apperr.KindProvider
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("provider", name).Str("from", from.String()).Str("to", to.String()).
				Msg("provider circuit breaker changed state")
		},
	})
}

// contextError classifies a provider call that ended because ctx was done.
// It returns nil when neither ctx nor err carries a context error.
func contextError(ctx context.Context, provider string, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return apperr.Wrap(apperr.KindProviderUnavailable, provider+" request was canceled", err)
	case errors.Is(ctx.Err(), context.Canceled):
		return apperr.Wrap(apperr.KindProviderUnavailable, provider+" request was canceled",
			errors.Join(context.Canceled, err))
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return apperr.Wrap(apperr.KindProviderUnavailable, provider+" request timed out", err)
	}
	return nil
}

// CapInput returns the first max characters of text.
func CapInput(text string, max int) string {
	if max <= 0 {
		return text
	}
	n := 0
	for i := range text {
		if n == max {
			return text[:i]
		}
		n++
	}
	return text
}

func (g *Gateway) call(ctx context.Context, p TextGenerator, req GenerationRequest) (string, error) {
	if p == nil {
		return "", apperr.New(apperr.KindProviderUnavailable, "no provider configured for this task")
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := g.breakers[p.Name()].Execute(func() (string, error) {
		out, err := p.Generate(ctx, req)
		if err != nil && ctx.Err() != nil {
			logging.Ctx(ctx).Debug().Err(err).Str("provider", p.Name()).Msg("provider call ended with its context")
			return "", contextError(ctx, p.Name(), ctx.Err())
		}
		return out, err
	})
	metrics.RecordProviderCall(p.Name(), time.Since(start), err)

	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "", apperr.Wrap(apperr.KindProvider, "provider is temporarily unavailable", err)
	case apperr.KindOf(err) == apperr.KindInternal:
		return "", apperr.Wrap(apperr.KindProvider, "provider call failed", err)
	}
	return "", err
}

// Summarize returns a summary of text. length must be "short" or "medium".
func (g *Gateway) Summarize(ctx context.Context, text, length string) (string, error) {
	if _, ok := summaryLengthInstruction[length]; !ok {
		return "", apperr.Validation("length", "length must be one of: short, medium")
	}
	content := CapInput(text, g.maxInputChars)
	out, err := g.call(ctx, g.summarizer, GenerationRequest{
		System: summarySystemPrompt,
		Prompt: summaryPrompt(length, content),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Translate renders text in targetLanguage. Empty text translates to "".
func (g *Gateway) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	targetLanguage = strings.TrimSpace(targetLanguage)
	if targetLanguage == "" {
		return "", apperr.Validation("target_language", "target_language is required")
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	content := CapInput(text, g.maxInputChars)
	out, err := g.call(ctx, g.translator, GenerationRequest{
		System: translationSystemPrompt,
		Prompt: translationPrompt(targetLanguage, content),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// GenerateQuiz asks the quiz provider for a quiz over text. Provider
// failures are returned; unparseable output degrades to an empty quiz.
func (g *Gateway) GenerateQuiz(ctx context.Context, text string) (models.Quiz, error) {
	if strings.TrimSpace(text) == "" {
		return models.EmptyQuiz(), nil
	}
	content := CapInput(text, g.maxInputChars)
	out, err := g.call(ctx, g.quizGenerator, GenerationRequest{
		System: quizSystemPrompt,
		Prompt: quizPrompt(content),
	})
	if err != nil {
		return models.Quiz{}, err
	}

	quiz := ParseQuiz(out)
	if quiz.Len() == 0 {
		logging.Ctx(ctx).Warn().Int("raw_len", len(out)).Msg("quiz provider returned no usable questions")
	}
	return quiz, nil
}
