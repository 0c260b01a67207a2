package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionMCQ         QuestionType = "MCQ"
	QuestionDescriptive QuestionType = "DESCRIPTIVE"
	QuestionPractical   QuestionType = "PRACTICAL"
	QuestionViva        QuestionType = "VIVA"
	QuestionPenPaper    QuestionType = "PEN_PAPER"
)

type AssessmentQuestion struct {
	ID           string       `json:"id" gorm:"primaryKey;size:36"`
	AssessmentID string       `json:"assessment_id" gorm:"not null;index;size:36"`
	QuestionType QuestionType `json:"question_type" gorm:"not null;size:20" validate:"required,oneof=MCQ DESCRIPTIVE PRACTICAL VIVA PEN_PAPER"`
	Text         string       `json:"text" gorm:"type:text;not null" validate:"required"`

	// Options holds the MCQ choice list as a JSON array; empty for other types.
	Options       datatypes.JSON `json:"options,omitempty" gorm:"type:jsonb"`
	CorrectAnswer *string        `json:"correct_answer,omitempty" gorm:"type:text"`

	Marks           int `json:"marks" gorm:"not null;default:1" validate:"min=0,max=100"`
	DifficultyLevel int `json:"difficulty_level" gorm:"not null;default:2"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *AssessmentQuestion) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

func (AssessmentQuestion) TableName() string {
	return "assessment_questions"
}
