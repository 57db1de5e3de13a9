package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/wikismart-edu-backend/apperr"
	"github.com/vnkhanh/wikismart-edu-backend/middleware"
	"github.com/vnkhanh/wikismart-edu-backend/models"
	"github.com/vnkhanh/wikismart-edu-backend/services"
)

type GenerateQuizInput struct {
	URL string `json:"url" binding:"required,url"`
}

type QuizAttemptInput struct {
	ArticleID   string         `json:"article_id" binding:"required,uuid"`
	AnswersMCQ  map[int]int    `json:"answers_mcq"`
	AnswersOpen map[int]string `json:"answers_open"`
}

type GenerateQuizResponse struct {
	ArticleID string `json:"article_id"`
	Title     string `json:"title"`
	models.Quiz
}

type QuizAttemptResponse struct {
	AttemptID string `json:"attempt_id"`
	services.ScoreResult
}

func (h *Handler) GenerateQuiz(c *gin.Context) {
	var input GenerateQuizInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.RespondError(c, bindError(err))
		return
	}

	res, err := h.Quizzes.Generate(c.Request.Context(), input.URL)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, GenerateQuizResponse{
		ArticleID: res.Article.ID.String(),
		Title:     res.Article.Title,
		Quiz:      res.Quiz,
	})
}

func (h *Handler) SubmitQuizAttempt(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.RespondError(c, apperr.Unauthenticated("not authenticated"))
		return
	}

	var input QuizAttemptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.RespondError(c, bindError(err))
		return
	}
	articleID, err := parseID("article_id", input.ArticleID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	res, err := h.Quizzes.SubmitAttempt(c.Request.Context(), user.ID, articleID, services.QuizAnswers{
		MultipleChoice: input.AnswersMCQ,
		OpenQuestions:  input.AnswersOpen,
	})
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, QuizAttemptResponse{
		AttemptID:   res.Attempt.ID.String(),
		ScoreResult: res.ScoreResult,
	})
}

func (h *Handler) ListQuizAttempts(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.RespondError(c, apperr.Unauthenticated("not authenticated"))
		return
	}

	attempts, err := h.Quizzes.ListAttempts(c.Request.Context(), user.ID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": attempts, "total": len(attempts)})
}
