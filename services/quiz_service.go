package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/wikismart-edu-backend/apperr"
	"github.com/vnkhanh/wikismart-edu-backend/models"
)

type QuizService struct {
	db       *gorm.DB
	articles *ArticleService
	keys     *QuizKeyStore
}

func NewQuizService(db *gorm.DB, articles *ArticleService, keys *QuizKeyStore) *QuizService {
	return &QuizService{db: db, articles: articles, keys: keys}
}

type GeneratedQuiz struct {
	Article *models.Article
	Quiz    models.Quiz
}

// Generate builds a quiz for the article at locator, records a QUIZ stub
// and keeps the answer key so attempts can be scored later.
func (s *QuizService) Generate(ctx context.Context, locator string) (*GeneratedQuiz, error) {
	doc, err := s.articles.source.FetchByLocator(ctx, locator)
	if err != nil {
		return nil, err
	}
	quiz, err := s.articles.gateway.GenerateQuiz(ctx, doc.Text)
	if err != nil {
		return nil, err
	}
	article, err := s.articles.record(ctx, sourceURL(doc, locator), doc.Title, models.ActionQuiz)
	if err != nil {
		return nil, err
	}
	s.keys.Put(article.ID, quiz)
	return &GeneratedQuiz{Article: article, Quiz: quiz}, nil
}

type AttemptResult struct {
	Attempt *models.QuizAttempt
	ScoreResult
}

// SubmitAttempt scores answers against the stored key and persists the
// attempt. The attempt is immutable once written.
func (s *QuizService) SubmitAttempt(ctx context.Context, userID, articleID uuid.UUID, answers QuizAnswers) (*AttemptResult, error) {
	if _, err := s.articles.Get(ctx, articleID); err != nil {
		return nil, err
	}
	key, ok := s.keys.Get(articleID)
	if !ok {
		return nil, apperr.NotFound("no quiz is available for this article, generate one first")
	}

	res, err := ScoreAttempt(key, answers)
	if err != nil {
		return nil, err
	}

	attempt := models.QuizAttempt{
		UserID:    userID,
		ArticleID: articleID,
		Score:     res.Score,
	}
	if err := s.db.WithContext(ctx).Create(&attempt).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "save quiz attempt", err)
	}
	return &AttemptResult{Attempt: &attempt, ScoreResult: res}, nil
}

// ListAttempts returns the user's attempts, newest first.
func (s *QuizService) ListAttempts(ctx context.Context, userID uuid.UUID) ([]models.QuizAttempt, error) {
	attempts := []models.QuizAttempt{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list quiz attempts", err)
	}
	return attempts, nil
}

func (s *QuizService) CountAttempts(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.QuizAttempt{}).Count(&n).Error; err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "count quiz attempts", err)
	}
	return n, nil
}
