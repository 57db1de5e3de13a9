package services

import (
	"context"

	"github.com/vnkhanh/wikismart-edu-backend/models"
)

// GlobalStats is the admin dashboard summary. Downloads are not tracked and
// always report 0.
type GlobalStats struct {
	TotalUsers            int64 `json:"total_users"`
	TotalArticles         int64 `json:"total_articles"`
	TotalQuizzesGenerated int64 `json:"total_quizzes_generated"`
	TotalQuizAttempts     int64 `json:"total_quiz_attempts"`
	TotalDownloads        int64 `json:"total_downloads"`
}

type StatsService struct {
	users    *UserService
	articles *ArticleService
	quizzes  *QuizService
}

func NewStatsService(users *UserService, articles *ArticleService, quizzes *QuizService) *StatsService {
	return &StatsService{users: users, articles: articles, quizzes: quizzes}
}

func (s *StatsService) Global(ctx context.Context) (*GlobalStats, error) {
	var (
		stats GlobalStats
		err   error
	)
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalArticles, err = s.articles.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalQuizzesGenerated, err = s.articles.CountByAction(ctx, models.ActionQuiz); err != nil {
		return nil, err
	}
	if stats.TotalQuizAttempts, err = s.quizzes.CountAttempts(ctx); err != nil {
		return nil, err
	}
	return &stats, nil
}
