package repositories

import (
	"context"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"gorm.io/gorm"
)

// AssessmentRepository covers assessment rows and their creator-scoped
// visibility. Ownership-scoped lookups return ErrNotVisible when the row is
// absent or owned by someone else.
type AssessmentRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Assessment, error)
	GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id string) (*models.Assessment, error)
	Delete(ctx context.Context, tx *gorm.DB, id string) error

	// Ownership-scoped lookups
	GetOwned(ctx context.Context, tx *gorm.DB, id, creatorID string) (*models.Assessment, error)
	GetOwnedWithQuestions(ctx context.Context, tx *gorm.DB, id, creatorID string) (*models.Assessment, error)

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters AssessmentFilters) ([]*models.Assessment, int64, error)
	GetByCreatorWithSessions(ctx context.Context, tx *gorm.DB, creatorID string) ([]*models.Assessment, error)
	GetPublished(ctx context.Context, tx *gorm.DB, filters AssessmentFilters) ([]*models.Assessment, error)

	// Flags
	SetPublished(ctx context.Context, tx *gorm.DB, id string, published bool) error
	SetResultsPublished(ctx context.Context, tx *gorm.DB, id string, published bool) error

	// Statistics
	CountQuestions(ctx context.Context, tx *gorm.DB, assessmentID string) (int64, error)
}

// QuestionRepository covers assessment question rows. Questions are only
// ever created in batches, alongside their assessment.
type QuestionRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, questions []*models.AssessmentQuestion) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.AssessmentQuestion, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.AssessmentQuestion, error)
	Update(ctx context.Context, tx *gorm.DB, question *models.AssessmentQuestion) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
}
