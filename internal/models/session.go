package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionInProgress SessionStatus = "IN_PROGRESS"
	SessionCompleted  SessionStatus = "COMPLETED"
)

// AssessmentSession is the single attempt record created by a student's
// submission. Created with status COMPLETED and start=end; only grading
// fields are mutated afterwards.
type AssessmentSession struct {
	ID           string        `json:"id" gorm:"primaryKey;size:36"`
	AssessmentID string        `json:"assessment_id" gorm:"not null;index;size:36"`
	UserID       string        `json:"user_id" gorm:"not null;index;size:255"`
	Status       SessionStatus `json:"status" gorm:"not null;size:20;default:IN_PROGRESS;index"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time" gorm:"index"`

	// Score is the graded total, filled in by instructor or automated
	// grading. Distinct from the derived answered-marks metric computed
	// for instructor listings.
	Score    float64 `json:"score"`
	Feedback *string `json:"feedback,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Assessment *Assessment          `json:"assessment,omitempty" gorm:"foreignKey:AssessmentID"`
	Responses  []AssessmentResponse `json:"responses,omitempty" gorm:"foreignKey:SessionID"`
}

type AssessmentResponse struct {
	ID         string `json:"id" gorm:"primaryKey;size:36"`
	SessionID  string `json:"session_id" gorm:"not null;index;size:36"`
	QuestionID string `json:"question_id" gorm:"not null;index;size:36"`

	Answer string `json:"answer" gorm:"type:text"`

	// Grading fields, null until graded.
	Score        *float64       `json:"score"`
	IsCorrect    *bool          `json:"is_correct"`
	AIEvaluation datatypes.JSON `json:"ai_evaluation,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Question *AssessmentQuestion `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
}

func (s *AssessmentSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (r *AssessmentResponse) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (AssessmentSession) TableName() string {
	return "assessment_sessions"
}

func (AssessmentResponse) TableName() string {
	return "assessment_responses"
}
