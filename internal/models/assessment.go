package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AssessmentType string

const (
	AssessmentOnline  AssessmentType = "ONLINE"
	AssessmentOffline AssessmentType = "OFFLINE"
	AssessmentBlended AssessmentType = "BLENDED"
)

// Difficulty is stored as an integer and surfaced as a label. The mapping is
// fixed: 1 is EASY, 3 is HARD, everything else (including unset) is MEDIUM.
const (
	DifficultyEasy   = 1
	DifficultyMedium = 2
	DifficultyHard   = 3
)

const (
	DifficultyLabelEasy   = "EASY"
	DifficultyLabelMedium = "MEDIUM"
	DifficultyLabelHard   = "HARD"
)

// DifficultyLabel maps a stored difficulty integer to its display label.
func DifficultyLabel(level int) string {
	switch level {
	case DifficultyEasy:
		return DifficultyLabelEasy
	case DifficultyHard:
		return DifficultyLabelHard
	default:
		return DifficultyLabelMedium
	}
}

// DifficultyFromLabel maps a difficulty label to its stored integer.
// Unknown labels default to MEDIUM.
func DifficultyFromLabel(label string) int {
	switch label {
	case DifficultyLabelEasy:
		return DifficultyEasy
	case DifficultyLabelHard:
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

type Assessment struct {
	ID               string         `json:"id" gorm:"primaryKey;size:36"`
	CreatorID        string         `json:"creator_id" gorm:"not null;index;size:255"`
	Title            string         `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description      *string        `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	AssessmentType   AssessmentType `json:"assessment_type" gorm:"not null;size:20;default:ONLINE" validate:"omitempty,oneof=ONLINE OFFLINE BLENDED"`
	QuestionFormat   datatypes.JSON `json:"question_format" gorm:"type:jsonb"`
	InclusivityMode  bool           `json:"inclusivity_mode" gorm:"not null;default:false"`
	DifficultyLevel  int            `json:"difficulty_level" gorm:"not null;default:2"`
	IsPublished      bool           `json:"is_published" gorm:"not null;default:false;index"`
	ResultsPublished bool           `json:"results_published" gorm:"not null;default:false"`
	AIGenerated      bool           `json:"ai_generated" gorm:"not null;default:false"`
	CourseID         *string        `json:"course_id" gorm:"size:36;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Questions []AssessmentQuestion `json:"questions,omitempty" gorm:"foreignKey:AssessmentID"`
	Sessions  []AssessmentSession  `json:"sessions,omitempty" gorm:"foreignKey:AssessmentID"`

	// Computed fields (not stored)
	QuestionsCount int `json:"questions_count,omitempty" gorm:"-"`
}

func (a *Assessment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (Assessment) TableName() string {
	return "assessments"
}
