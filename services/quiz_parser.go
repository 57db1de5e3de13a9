package services

import (
	"regexp"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vnkhanh/wikismart-edu-backend/models"
)

var reCodeFence = regexp.MustCompile("(?i)```(?:json)?")

type rawQuiz struct {
	MultipleChoice json.RawMessage `json:"multiple_choice"`
	OpenQuestions  json.RawMessage `json:"open_questions"`
}

// ParseQuiz turns raw provider output into a Quiz. It never fails: output
// that holds no usable JSON object yields an empty quiz. Code fences and
// surrounding prose are tolerated, and malformed questions are dropped.
func ParseQuiz(raw string) models.Quiz {
	raw = strings.TrimSpace(raw)

	obj, ok := decodeObject(raw)
	if !ok {
		stripped := reCodeFence.ReplaceAllString(raw, "")
		obj, ok = firstObject(stripped)
	}
	if !ok {
		return models.EmptyQuiz()
	}

	quiz := models.EmptyQuiz()

	var mcq []models.MultipleChoiceQuestion
	if len(obj.MultipleChoice) > 0 && json.Unmarshal(obj.MultipleChoice, &mcq) == nil {
		for _, q := range mcq {
			if validMultipleChoice(q) {
				quiz.MultipleChoice = append(quiz.MultipleChoice, q)
			}
		}
	}

	var open []models.OpenQuestion
	if len(obj.OpenQuestions) > 0 && json.Unmarshal(obj.OpenQuestions, &open) == nil {
		for _, q := range open {
			if strings.TrimSpace(q.Question) != "" {
				quiz.OpenQuestions = append(quiz.OpenQuestions, q)
			}
		}
	}

	return quiz
}

func validMultipleChoice(q models.MultipleChoiceQuestion) bool {
	return strings.TrimSpace(q.Question) != "" &&
		len(q.Options) >= 2 &&
		q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Options)
}

func decodeObject(s string) (rawQuiz, bool) {
	var q rawQuiz
	if !strings.HasPrefix(s, "{") {
		return q, false
	}
	if err := json.Unmarshal([]byte(s), &q); err != nil {
		return q, false
	}
	return q, true
}

// firstObject scans s for balanced {...} spans, skipping braces inside JSON
// strings, and returns the first span that decodes as an object.
func firstObject(s string) (rawQuiz, bool) {
	for start := strings.IndexByte(s, '{'); start >= 0; {
		if end := matchBrace(s, start); end > start {
			if q, ok := decodeObject(s[start : end+1]); ok {
				return q, true
			}
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return rawQuiz{}, false
}

// matchBrace returns the index of the brace closing s[start], or -1.
func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
