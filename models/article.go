package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArticleAction records why an article was fetched.
type ArticleAction string

const (
	ActionIngest      ArticleAction = "INGEST"
	ActionSummary     ArticleAction = "SUMMARY"
	ActionTranslation ArticleAction = "TRANSLATION"
	ActionQuiz        ArticleAction = "QUIZ"
)

// Article is a provenance stub. The fetched content itself is never stored;
// callers re-fetch by URL or title when they need it again.
type Article struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	URL       string        `gorm:"size:500;not null" json:"url"`
	Title     string        `gorm:"size:255;not null" json:"title"`
	Action    ArticleAction `gorm:"size:50;not null" json:"action"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
