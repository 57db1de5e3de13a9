package controllers

import (
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/wikismart-edu-backend/apperr"
	"github.com/vnkhanh/wikismart-edu-backend/middleware"
	"github.com/vnkhanh/wikismart-edu-backend/models"
	"github.com/vnkhanh/wikismart-edu-backend/services"
)

type IngestURLInput struct {
	URL string `json:"url" binding:"required,url"`
}

type SummaryURLInput struct {
	URL    string `json:"url" binding:"required,url"`
	Length string `json:"length" binding:"omitempty,oneof=short medium"`
}

type SummaryInput struct {
	ArticleID string `json:"article_id" binding:"required,uuid"`
	Length    string `json:"length" binding:"omitempty,oneof=short medium"`
}

type TranslateURLInput struct {
	URL            string `json:"url" binding:"required,url"`
	TargetLanguage string `json:"target_language" binding:"required,langcode"`
}

type TranslateInput struct {
	ArticleID      string `json:"article_id" binding:"required,uuid"`
	TargetLanguage string `json:"target_language" binding:"required,langcode"`
}

type IngestResponse struct {
	Article    *models.Article `json:"article"`
	Title      string          `json:"title"`
	URL        *string         `json:"url"`
	Sections   []string        `json:"sections"`
	Characters int             `json:"characters"`
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Validation(field, field+" must be a valid UUID")
	}
	return id, nil
}

func newIngestResponse(res *services.IngestResult) IngestResponse {
	return IngestResponse{
		Article:    res.Article,
		Title:      res.Document.Title,
		URL:        res.Document.SourceURL,
		Sections:   res.Document.Sections.Names(),
		Characters: utf8.RuneCountInString(res.Document.Text),
	}
}

func (h *Handler) IngestArticleFromURL(c *gin.Context) {
	var input IngestURLInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.RespondError(c, bindError(err))
		return
	}

	res, err := h.Articles.IngestURL(c.Request.Context(), input.URL)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newIngestResponse(res))
}

func (h *Handler) IngestArticleFromUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		middleware.RespondError(c, apperr.Validation("file", "file is required"))
		return
	}
	if h.MaxUploadBytes > 0 && file.Size > h.MaxUploadBytes {
		middleware.RespondError(c, apperr.Validation("file",
			fmt.Sprintf("file exceeds the %d MB limit", h.MaxUploadBytes>>20)))
		return
	}

	inputType, err := services.GetInputTypeFromExt(file.Filename)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	f, err := file.Open()
	if err != nil {
		middleware.RespondError(c, apperr.Wrap(apperr.KindValidation, "could not read uploaded file", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		middleware.RespondError(c, apperr.Wrap(apperr.KindValidation, "could not read uploaded file", err))
		return
	}

	res, err := h.Articles.IngestUpload(c.Request.Context(), services.InputSource{
		Type:     inputType,
		Filename: file.Filename,
		Data:     data,
	})
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newIngestResponse(res))
}

func (h *Handler) SummarizeArticleFromURL(c *gin.Context) {
	var input SummaryURLInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.RespondError(c, bindError(err))
		return
	}

	res, err := h.Articles.SummarizeURL(c.Request.Context(), input.URL, input.Length)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"article_id": res.Article.ID,
		"url":        res.URL,
		"title":      res.Title,
		"length":     res.Length,
		"summary":    res.Summary,
	})
}

func (h *Handler) SummarizeArticle(c *gin.Context) {
	var input SummaryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.RespondError(c, bindError(err))
		return
	}

	articleID, err := parseID("article_id", input.ArticleID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	res, err := h.Articles.SummarizeArticle(c.Request.Context(), articleID, input.Length)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"article_id": res.Article.ID,
		"title":      res.Title,
		"length":     res.Length,
		"summary":    res.Summary,
	})
}

func (h *Handler) TranslateArticleFromURL(c *gin.Context) {
	var input TranslateURLInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.RespondError(c, bindError(err))
		return
	}

	res, err := h.Articles.TranslateURL(c.Request.Context(), input.URL, input.TargetLanguage)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"article_id":      res.Article.ID,
		"url":             res.URL,
		"title":           res.Title,
		"target_language": res.TargetLanguage,
		"translated_text": res.TranslatedText,
	})
}

func (h *Handler) TranslateArticle(c *gin.Context) {
	var input TranslateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.RespondError(c, bindError(err))
		return
	}

	articleID, err := parseID("article_id", input.ArticleID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	res, err := h.Articles.TranslateArticle(c.Request.Context(), articleID, input.TargetLanguage)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"article_id":      res.Article.ID,
		"title":           res.Title,
		"target_language": res.TargetLanguage,
		"translated_text": res.TranslatedText,
	})
}
