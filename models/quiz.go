package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MultipleChoiceQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

type OpenQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Quiz is the generated quiz shape. Both slices are always non-nil so an
// empty quiz serialises as [] rather than null.
type Quiz struct {
	MultipleChoice []MultipleChoiceQuestion `json:"multiple_choice"`
	OpenQuestions  []OpenQuestion           `json:"open_questions"`
}

func EmptyQuiz() Quiz {
	return Quiz{
		MultipleChoice: []MultipleChoiceQuestion{},
		OpenQuestions:  []OpenQuestion{},
	}
}

func (q Quiz) Len() int { return len(q.MultipleChoice) + len(q.OpenQuestions) }

type QuizAttempt struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User        User      `gorm:"constraint:OnDelete:RESTRICT;" json:"-"`
	ArticleID   uuid.UUID `gorm:"type:uuid;not null;index" json:"article_id"`
	Article     Article   `gorm:"constraint:OnDelete:RESTRICT;" json:"-"`
	Score       float64   `gorm:"type:numeric(5,2);not null" json:"score"`
	SubmittedAt time.Time `gorm:"autoCreateTime" json:"submitted_at"`
}

func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
