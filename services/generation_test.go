package services

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/wikismart-edu-backend/apperr"
)

func TestCapInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"longer", "abcdefgh", 5, "abcde"},
		{"multibyte", "héllo wörld", 7, "héllo w"},
		{"zero means no cap", "abc", 0, "abc"},
		{"empty", "", 3, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CapInput(tt.in, tt.max))
		})
	}
}

func newTestGateway(sum, tr, quiz TextGenerator, maxChars int) *Gateway {
	return NewGateway(GatewayConfig{
		Summarizer:    sum,
		Translator:    tr,
		QuizGenerator: quiz,
		MaxInputChars: maxChars,
		Timeout:       time.Second,
	})
}

func TestGateway_CapsInputExactly(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	gw := newTestGateway(gen, gen, gen, 10)

	text := strings.Repeat("x", 10) + "TAIL"
	_, err := gw.Summarize(context.Background(), text, SummaryShort)
	require.NoError(t, err)

	prompt := gen.lastPrompt()
	assert.True(t, strings.HasSuffix(prompt, "\n"+strings.Repeat("x", 10)), prompt)
	assert.NotContains(t, prompt, "TAIL")

	_, err = gw.Translate(context.Background(), text, "fr")
	require.NoError(t, err)
	assert.NotContains(t, gen.lastPrompt(), "TAIL")

	_, err = gw.GenerateQuiz(context.Background(), text)
	require.NoError(t, err)
	assert.NotContains(t, gen.lastPrompt(), "TAIL")
}

func TestGateway_Summarize(t *testing.T) {
	gen := &fakeGenerator{reply: "  A short summary.  "}
	gw := newTestGateway(gen, nil, nil, 100)

	out, err := gw.Summarize(context.Background(), "Some article text.", SummaryMedium)
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", out)
	assert.Contains(t, gen.lastPrompt(), "medium-length")
	assert.Equal(t, summarySystemPrompt, gen.requests[0].System)
}

func TestGateway_SummarizeRejectsUnknownLength(t *testing.T) {
	gen := &fakeGenerator{reply: "x"}
	gw := newTestGateway(gen, nil, nil, 100)

	_, err := gw.Summarize(context.Background(), "text", "long")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, 0, gen.calls())
}

func TestGateway_Translate(t *testing.T) {
	gen := &fakeGenerator{reply: "Bonjour"}
	gw := newTestGateway(nil, gen, nil, 100)

	out, err := gw.Translate(context.Background(), "Hello", "fr")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", out)
	assert.Contains(t, gen.lastPrompt(), "Target language: fr.")

	out, err = gw.Translate(context.Background(), "   ", "fr")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 1, gen.calls())

	_, err = gw.Translate(context.Background(), "Hello", " ")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestGateway_GenerateQuiz(t *testing.T) {
	t.Run("fenced output is parsed", func(t *testing.T) {
		gen := &fakeGenerator{reply: "```json\n" + validQuizJSON + "\n```"}
		gw := newTestGateway(nil, nil, gen, 100)

		quiz, err := gw.GenerateQuiz(context.Background(), "Go is a language.")
		require.NoError(t, err)
		assert.Equal(t, 2, quiz.Len())
	})

	t.Run("non JSON output degrades to empty quiz", func(t *testing.T) {
		gen := &fakeGenerator{reply: "Sorry, I can't help with that."}
		gw := newTestGateway(nil, nil, gen, 100)

		quiz, err := gw.GenerateQuiz(context.Background(), "Go is a language.")
		require.NoError(t, err)
		assert.Empty(t, quiz.MultipleChoice)
		assert.Empty(t, quiz.OpenQuestions)
		assert.NotNil(t, quiz.MultipleChoice)
	})

	t.Run("empty text skips the provider", func(t *testing.T) {
		gen := &fakeGenerator{reply: validQuizJSON}
		gw := newTestGateway(nil, nil, gen, 100)

		quiz, err := gw.GenerateQuiz(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, 0, quiz.Len())
		assert.Equal(t, 0, gen.calls())
	})

	t.Run("provider failure is returned", func(t *testing.T) {
		gen := &fakeGenerator{err: apperr.New(apperr.KindProvider, "boom")}
		gw := newTestGateway(nil, nil, gen, 100)

		_, err := gw.GenerateQuiz(context.Background(), "text")
		assert.ErrorIs(t, err, apperr.ErrProvider)
	})
}

func TestGateway_MissingProviderIsUnavailable(t *testing.T) {
	gw := newTestGateway(nil, nil, nil, 100)

	_, err := gw.Summarize(context.Background(), "text", SummaryShort)
	assert.ErrorIs(t, err, apperr.ErrProviderUnavailable)

	_, err = gw.Translate(context.Background(), "text", "de")
	assert.ErrorIs(t, err, apperr.ErrProviderUnavailable)

	_, err = gw.GenerateQuiz(context.Background(), "text")
	assert.ErrorIs(t, err, apperr.ErrProviderUnavailable)
}

func TestGateway_UnclassifiedErrorBecomesProviderError(t *testing.T) {
	gen := &fakeGenerator{err: assert.AnError}
	gw := newTestGateway(gen, nil, nil, 100)

	_, err := gw.Summarize(context.Background(), "text", SummaryShort)
	assert.ErrorIs(t, err, apperr.ErrProvider)
}

type slowGenerator struct{}

func (slowGenerator) Name() string { return "slow" }

func (slowGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestGateway_TimeoutIsUnavailable(t *testing.T) {
	gw := NewGateway(GatewayConfig{Summarizer: slowGenerator{}, MaxInputChars: 100, Timeout: 20 * time.Millisecond})

	_, err := gw.Summarize(context.Background(), "text", SummaryShort)
	assert.ErrorIs(t, err, apperr.ErrProviderUnavailable)
}

func TestGateway_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	gen := &fakeGenerator{name: "flaky", err: apperr.New(apperr.KindProvider, "upstream 500")}
	gw := newTestGateway(gen, nil, nil, 100)

	for i := 0; i < 5; i++ {
		_, err := gw.Summarize(context.Background(), "text", SummaryShort)
		require.ErrorIs(t, err, apperr.ErrProvider)
	}
	require.Equal(t, 5, gen.calls())

	_, err := gw.Summarize(context.Background(), "text", SummaryShort)
	assert.ErrorIs(t, err, apperr.ErrProvider)
	assert.Equal(t, 5, gen.calls(), "open breaker must not reach the provider")
}

func TestGateway_UnavailableDoesNotTripBreaker(t *testing.T) {
	gen := &fakeGenerator{name: "nokey", err: apperr.New(apperr.KindProviderUnavailable, "no key")}
	gw := newTestGateway(gen, nil, nil, 100)

	for i := 0; i < 7; i++ {
		_, err := gw.Summarize(context.Background(), "text", SummaryShort)
		require.ErrorIs(t, err, apperr.ErrProviderUnavailable)
	}
	assert.Equal(t, 7, gen.calls())
}

// abandonedGenerator reports an upstream failure whenever its caller has
// already gone away and answers normally otherwise.
type abandonedGenerator struct {
	calls atomic.Int32
}

func (g *abandonedGenerator) Name() string { return "abandoned" }

func (g *abandonedGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	g.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return "", apperr.Wrap(apperr.KindProvider, "upstream aborted", err)
	}
	return "ok", nil
}

func TestGateway_CanceledCallsDoNotTripBreaker(t *testing.T) {
	gen := &abandonedGenerator{}
	gw := NewGateway(GatewayConfig{Summarizer: gen, MaxInputChars: 100, Timeout: time.Second})

	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := gw.Summarize(ctx, "text", SummaryShort)
		require.ErrorIs(t, err, apperr.ErrProviderUnavailable)
		require.ErrorIs(t, err, context.Canceled)
	}

	out, err := gw.Summarize(context.Background(), "text", SummaryShort)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.EqualValues(t, 6, gen.calls.Load())
}

func TestGateway_TimedOutCallsDoNotTripBreaker(t *testing.T) {
	gen := &abandonedGenerator{}
	gw := NewGateway(GatewayConfig{Summarizer: gen, MaxInputChars: 100, Timeout: time.Second})

	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		_, err := gw.Summarize(ctx, "text", SummaryShort)
		cancel()
		require.ErrorIs(t, err, apperr.ErrProviderUnavailable)
	}

	_, err := gw.Summarize(context.Background(), "text", SummaryShort)
	require.NoError(t, err)
	assert.EqualValues(t, 6, gen.calls.Load())
}
