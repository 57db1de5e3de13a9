package services

import "fmt"

const summarySystemPrompt = "You are an educational assistant. You write clear, neutral, " +
	"and concise summaries of educational articles for students."

var summaryLengthInstruction = map[string]string{
	"short":  "Provide a very short summary (2-3 concise sentences).",
	"medium": "Provide a medium-length summary (1 short paragraph).",
}

func summaryPrompt(length, content string) string {
	return fmt.Sprintf("%s Focus only on the core ideas, without bullets, in plain text.\n\nArticle content:\n%s",
		summaryLengthInstruction[length], content)
}

const translationSystemPrompt = "You are a translation assistant for an educational platform. " +
	"Translate the given text into the target language while preserving meaning " +
	"and keeping a neutral, clear tone. Return only the translated text."

func translationPrompt(targetLanguage, content string) string {
	return fmt.Sprintf("Target language: %s.\nText to translate:\n%s", targetLanguage, content)
}

const quizSystemPrompt = `You are an educational quiz generator. Given article content, you produce a small quiz for students. You must respond with STRICT JSON that matches this schema exactly:
{
  "multiple_choice": [
    {
      "question": string,
      "options": [string, string, string, string],
      "correct_index": integer between 0 and 3
    }, ...
  ],
  "open_questions": [
    {
      "question": string,
      "answer": string
    }, ...
  ]
}.
Do not include any keys other than these, and do not include explanations.`

func quizPrompt(content string) string {
	return "Article content:\n" + content
}
