package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/wikismart-edu-backend/apperr"
	"github.com/vnkhanh/wikismart-edu-backend/logging"
	"github.com/vnkhanh/wikismart-edu-backend/models"
)

// Archiver stores the raw bytes of an upload and returns where it went.
type Archiver interface {
	Store(fileID, ext, contentType string, data []byte) (string, error)
}

// ArticleService ties content fetching and generation to the Article
// provenance table. Article content itself is never persisted.
type ArticleService struct {
	db      *gorm.DB
	source  ContentSource
	gateway *Gateway
	archive Archiver
}

func NewArticleService(db *gorm.DB, source ContentSource, gateway *Gateway, archive Archiver) *ArticleService {
	return &ArticleService{db: db, source: source, gateway: gateway, archive: archive}
}

// IngestResult is an article stub together with the document it was built from.
type IngestResult struct {
	Article  *models.Article
	Document *models.NormalizedDocument
}

type SummaryResult struct {
	Article *models.Article
	Title   string
	URL     string
	Length  string
	Summary string
}

type TranslationResult struct {
	Article        *models.Article
	Title          string
	URL            string
	TargetLanguage string
	TranslatedText string
}

func (s *ArticleService) record(ctx context.Context, url, title string, action models.ArticleAction) (*models.Article, error) {
	article := models.Article{
		URL:    truncateRunes(url, 500),
		Title:  truncateRunes(title, 255),
		Action: action,
	}
	if err := s.db.WithContext(ctx).Create(&article).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "record article", err)
	}
	return &article, nil
}

func (s *ArticleService) Get(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	var article models.Article
	if err := s.db.WithContext(ctx).First(&article, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("article not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "load article", err)
	}
	return &article, nil
}

func (s *ArticleService) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Article{}).Count(&n).Error; err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "count articles", err)
	}
	return n, nil
}

func (s *ArticleService) CountByAction(ctx context.Context, action models.ArticleAction) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Article{}).Where("action = ?", action).Count(&n).Error; err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "count articles", err)
	}
	return n, nil
}

func sourceURL(doc *models.NormalizedDocument, fallback string) string {
	if doc.SourceURL != nil && *doc.SourceURL != "" {
		return *doc.SourceURL
	}
	return fallback
}

// IngestURL fetches an article and records an INGEST stub for it.
func (s *ArticleService) IngestURL(ctx context.Context, locator string) (*IngestResult, error) {
	doc, err := s.source.FetchByLocator(ctx, locator)
	if err != nil {
		return nil, err
	}
	article, err := s.record(ctx, sourceURL(doc, locator), doc.Title, models.ActionIngest)
	if err != nil {
		return nil, err
	}
	return &IngestResult{Article: article, Document: doc}, nil
}

// IngestUpload normalises an uploaded file, archives the original when an
// archive is configured, and records an INGEST stub.
func (s *ArticleService) IngestUpload(ctx context.Context, input InputSource) (*IngestResult, error) {
	doc, err := NormalizeInput(input)
	if err != nil {
		return nil, err
	}

	location := "upload://" + filepath.Base(input.Filename)
	if s.archive != nil {
		fileID := uuid.NewString()
		url, err := s.archive.Store(fileID, "."+string(input.Type), input.Type.ContentType(), input.Data)
		switch {
		case err != nil:
			logging.Ctx(ctx).Warn().Err(err).Str("filename", input.Filename).Msg("archiving upload failed")
		case url != "":
			location = url
		}
	}

	article, err := s.record(ctx, location, titleForUpload(input.Filename, doc.Title), models.ActionIngest)
	if err != nil {
		return nil, err
	}
	return &IngestResult{Article: article, Document: doc}, nil
}

func titleForUpload(filename, fallback string) string {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if strings.TrimSpace(name) == "" || name == "." {
		return fallback
	}
	return name
}

func (s *ArticleService) SummarizeURL(ctx context.Context, locator, length string) (*SummaryResult, error) {
	if length == "" {
		length = SummaryMedium
	}
	if _, ok := summaryLengthInstruction[length]; !ok {
		return nil, apperr.Validation("length", "length must be one of: short, medium")
	}

	doc, err := s.source.FetchByLocator(ctx, locator)
	if err != nil {
		return nil, err
	}
	summary, err := s.gateway.Summarize(ctx, doc.Text, length)
	if err != nil {
		return nil, err
	}
	url := sourceURL(doc, locator)
	article, err := s.record(ctx, url, doc.Title, models.ActionSummary)
	if err != nil {
		return nil, err
	}
	return &SummaryResult{Article: article, Title: doc.Title, URL: url, Length: length, Summary: summary}, nil
}

// SummarizeArticle re-fetches a recorded article by its stored title.
func (s *ArticleService) SummarizeArticle(ctx context.Context, id uuid.UUID, length string) (*SummaryResult, error) {
	if length == "" {
		length = SummaryMedium
	}
	article, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := s.source.FetchByTitle(ctx, article.Title)
	if err != nil {
		return nil, err
	}
	summary, err := s.gateway.Summarize(ctx, doc.Text, length)
	if err != nil {
		return nil, err
	}
	return &SummaryResult{Article: article, Title: doc.Title, URL: article.URL, Length: length, Summary: summary}, nil
}

func (s *ArticleService) TranslateURL(ctx context.Context, locator, targetLanguage string) (*TranslationResult, error) {
	doc, err := s.source.FetchByLocator(ctx, locator)
	if err != nil {
		return nil, err
	}
	translated, err := s.gateway.Translate(ctx, doc.Text, targetLanguage)
	if err != nil {
		return nil, err
	}
	url := sourceURL(doc, locator)
	article, err := s.record(ctx, url, doc.Title, models.ActionTranslation)
	if err != nil {
		return nil, err
	}
	return &TranslationResult{
		Article:        article,
		Title:          doc.Title,
		URL:            url,
		TargetLanguage: targetLanguage,
		TranslatedText: translated,
	}, nil
}

// TranslateArticle re-fetches a recorded article by its stored title.
func (s *ArticleService) TranslateArticle(ctx context.Context, id uuid.UUID, targetLanguage string) (*TranslationResult, error) {
	article, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := s.source.FetchByTitle(ctx, article.Title)
	if err != nil {
		return nil, err
	}
	translated, err := s.gateway.Translate(ctx, doc.Text, targetLanguage)
	if err != nil {
		return nil, err
	}
	return &TranslationResult{
		Article:        article,
		Title:          doc.Title,
		URL:            article.URL,
		TargetLanguage: targetLanguage,
		TranslatedText: translated,
	}, nil
}

func truncateRunes(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}
