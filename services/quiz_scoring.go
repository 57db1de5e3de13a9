package services

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/vnkhanh/wikismart-edu-backend/apperr"
	"github.com/vnkhanh/wikismart-edu-backend/models"
)

// QuizAnswers is a user's submission, keyed by zero-based question index.
// Unanswered questions are simply absent.
type QuizAnswers struct {
	MultipleChoice map[int]int    `json:"answers_mcq"`
	OpenQuestions  map[int]string `json:"answers_open"`
}

type ScoreResult struct {
	Score       float64 `json:"score"`
	MCQCorrect  int     `json:"mcq_correct"`
	OpenCorrect int     `json:"open_correct"`
	Total       int     `json:"total"`
}

// ScoreAttempt grades answers against the stored key. Score is a percentage
// rounded to two decimals; an empty quiz scores 0.
func ScoreAttempt(key models.Quiz, answers QuizAnswers) (ScoreResult, error) {
	for idx := range answers.MultipleChoice {
		if idx < 0 || idx >= len(key.MultipleChoice) {
			return ScoreResult{}, apperr.Validation("answers_mcq", fmt.Sprintf("no multiple choice question at index %d", idx))
		}
	}
	for idx := range answers.OpenQuestions {
		if idx < 0 || idx >= len(key.OpenQuestions) {
			return ScoreResult{}, apperr.Validation("answers_open", fmt.Sprintf("no open question at index %d", idx))
		}
	}

	res := ScoreResult{Total: key.Len()}
	if res.Total == 0 {
		return res, nil
	}

	for idx, choice := range answers.MultipleChoice {
		if choice == key.MultipleChoice[idx].CorrectIndex {
			res.MCQCorrect++
		}
	}
	for idx, text := range answers.OpenQuestions {
		if openAnswerMatches(key.OpenQuestions[idx].Answer, text) {
			res.OpenCorrect++
		}
	}

	score := 100 * float64(res.MCQCorrect+res.OpenCorrect) / float64(res.Total)
	res.Score = math.Round(score*100) / 100
	return res, nil
}

// openAnswerMatches accepts an answer containing at least half of the
// reference answer's significant words.
func openAnswerMatches(reference, answer string) bool {
	ref := significantWords(reference)
	if len(ref) == 0 {
		return strings.TrimSpace(answer) != ""
	}

	given := map[string]bool{}
	for _, w := range significantWords(answer) {
		given[w] = true
	}

	hits := 0
	for _, w := range ref {
		if given[w] {
			hits++
		}
	}
	return hits*2 >= len(ref)
}

func significantWords(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := map[string]bool{}
	var words []string
	for _, f := range fields {
		if len([]rune(f)) < 3 || seen[f] {
			continue
		}
		seen[f] = true
		words = append(words, f)
	}
	return words
}
