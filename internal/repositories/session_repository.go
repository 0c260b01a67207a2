package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"gorm.io/gorm"
)

// SessionRepository covers assessment sessions and their responses.
type SessionRepository interface {
	// Create persists a session together with its response rows.
	Create(ctx context.Context, tx *gorm.DB, session *models.AssessmentSession, responses []*models.AssessmentResponse) error

	// GetByAssessment returns all sessions for an assessment with responses
	// and each response's question preloaded, ordered by end time descending.
	GetByAssessment(ctx context.Context, tx *gorm.DB, assessmentID string) ([]*models.AssessmentSession, error)
	// GetByUserAndAssessment returns the student's first session for the
	// assessment with responses preloaded, or nil when none exists.
	GetByUserAndAssessment(ctx context.Context, tx *gorm.DB, userID, assessmentID string) (*models.AssessmentSession, error)
	// GetByUserForCreator returns all of the student's sessions on
	// assessments owned by the given creator, with Assessment preloaded.
	GetByUserForCreator(ctx context.Context, tx *gorm.DB, userID, creatorID string) ([]*models.AssessmentSession, error)
	// GetByUserInRange returns the student's sessions whose end time falls
	// inside [from, to).
	GetByUserInRange(ctx context.Context, tx *gorm.DB, userID, creatorID string, from, to time.Time) ([]*models.AssessmentSession, error)
}
