package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/vnkhanh/wikismart-edu-backend/logging"
	"github.com/vnkhanh/wikismart-edu-backend/models"
	"github.com/vnkhanh/wikismart-edu-backend/utils"
)

type seedUser struct {
	username, email, password string
	role                      models.UserRole
}

var seedUsers = []seedUser{
	{"admin", "admin@example.com", "admin123", models.RoleAdmin},
	{"alice", "alice@example.com", "password123", models.RoleUser},
	{"zakaria", "zakaria@example.com", "password123", models.RoleUser},
}

// SeedData fills an empty database with development fixtures. It does
// nothing once any user exists.
func SeedData(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		logging.Debug().Msg("database already has users, skipping seed")
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := make([]models.User, 0, len(seedUsers))
		for _, su := range seedUsers {
			hash, err := utils.HashPassword(su.password)
			if err != nil {
				return fmt.Errorf("hash seed password: %w", err)
			}
			users = append(users, models.User{
				Username:     su.username,
				Email:        su.email,
				PasswordHash: hash,
				Role:         su.role,
			})
		}
		if err := tx.Create(&users).Error; err != nil {
			return fmt.Errorf("seed users: %w", err)
		}

		articles := []models.Article{
			{URL: "https://en.wikipedia.org/wiki/Machine_learning", Title: "Machine learning", Action: models.ActionSummary},
			{URL: "https://en.wikipedia.org/wiki/Artificial_intelligence", Title: "Artificial intelligence", Action: models.ActionQuiz},
		}
		if err := tx.Create(&articles).Error; err != nil {
			return fmt.Errorf("seed articles: %w", err)
		}

		attempt := models.QuizAttempt{UserID: users[1].ID, ArticleID: articles[1].ID, Score: 85.5}
		if err := tx.Create(&attempt).Error; err != nil {
			return fmt.Errorf("seed quiz attempt: %w", err)
		}

		logging.Info().Int("users", len(users)).Int("articles", len(articles)).Msg("seeded development data")
		return nil
	})
}
