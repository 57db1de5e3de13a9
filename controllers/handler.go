package controllers

import (
	"gorm.io/gorm"

	"github.com/vnkhanh/wikismart-edu-backend/services"
	"github.com/vnkhanh/wikismart-edu-backend/utils"
)

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	DB             *gorm.DB
	Users          *services.UserService
	Tokens         *utils.TokenService
	Articles       *services.ArticleService
	Quizzes        *services.QuizService
	Stats          *services.StatsService
	MaxUploadBytes int64
}
