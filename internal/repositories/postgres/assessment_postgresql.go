package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

type AssessmentPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewAssessmentPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.AssessmentRepository {
	return &AssessmentPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cacheManager,
	}
}

// getDB returns the transaction DB if provided, otherwise the default DB
func (a *AssessmentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return a.db
}

func (a *AssessmentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error {
	if err := a.getDB(tx).WithContext(ctx).Create(assessment).Error; err != nil {
		return fmt.Errorf("failed to create assessment: %w", err)
	}
	cache.InvalidateAssessmentCache(ctx, a.cacheManager, assessment.ID, assessment.CreatorID)

	return nil
}

func (a *AssessmentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Assessment, error) {
	cacheKey := fmt.Sprintf("id:%s", id)
	var assessment models.Assessment

	err := a.cacheManager.Assessment.CacheOrExecute(ctx, cacheKey, &assessment, cache.AnalyticsTTL, func() (interface{}, error) {
		var dbAssessment models.Assessment
		err := a.getDB(tx).WithContext(ctx).First(&dbAssessment, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, repositories.ErrNotVisible
			}
			return nil, fmt.Errorf("failed to get assessment: %w", err)
		}
		return &dbAssessment, nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotVisible) {
			return nil, repositories.ErrNotVisible
		}
		return nil, err
	}

	return &assessment, nil
}

func (a *AssessmentPostgreSQL) GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id string) (*models.Assessment, error) {
	var assessment models.Assessment
	err := a.getDB(tx).WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("assessment_questions.created_at ASC")
		}).
		First(&assessment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotVisible
		}
		return nil, fmt.Errorf("failed to get assessment with questions: %w", err)
	}
	return &assessment, nil
}

func (a *AssessmentPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	result := a.getDB(tx).WithContext(ctx).Delete(&models.Assessment{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete assessment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotVisible
	}
	cache.SafeDelete(ctx, a.cacheManager.Assessment, fmt.Sprintf("id:%s", id), fmt.Sprintf("details:%s", id))

	return nil
}

// GetOwned loads an assessment scoped to its creator. Absent rows and rows
// owned by someone else are indistinguishable to the caller.
func (a *AssessmentPostgreSQL) GetOwned(ctx context.Context, tx *gorm.DB, id, creatorID string) (*models.Assessment, error) {
	var assessment models.Assessment
	err := a.getDB(tx).WithContext(ctx).
		Where("id = ? AND creator_id = ?", id, creatorID).
		First(&assessment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotVisible
		}
		return nil, fmt.Errorf("failed to get owned assessment: %w", err)
	}
	return &assessment, nil
}

func (a *AssessmentPostgreSQL) GetOwnedWithQuestions(ctx context.Context, tx *gorm.DB, id, creatorID string) (*models.Assessment, error) {
	var assessment models.Assessment
	err := a.getDB(tx).WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("assessment_questions.created_at ASC")
		}).
		Where("id = ? AND creator_id = ?", id, creatorID).
		First(&assessment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotVisible
		}
		return nil, fmt.Errorf("failed to get owned assessment with questions: %w", err)
	}
	return &assessment, nil
}

func (a *AssessmentPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error) {
	query := a.getDB(tx).WithContext(ctx).Model(&models.Assessment{})
	query = a.helpers.ApplyAssessmentFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count assessments: %w", err)
	}

	query = a.helpers.ApplyPagination(query, filters.Limit, filters.Offset)
	query = a.helpers.ApplySorting(query, filters.SortBy, filters.SortOrder)

	var assessments []*models.Assessment
	if err := query.Find(&assessments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list assessments: %w", err)
	}

	return assessments, total, nil
}

func (a *AssessmentPostgreSQL) GetByCreatorWithSessions(ctx context.Context, tx *gorm.DB, creatorID string) ([]*models.Assessment, error) {
	var assessments []*models.Assessment
	err := a.getDB(tx).WithContext(ctx).
		Preload("Sessions").
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&assessments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get assessments with sessions: %w", err)
	}
	return assessments, nil
}

func (a *AssessmentPostgreSQL) GetPublished(ctx context.Context, tx *gorm.DB, filters repositories.AssessmentFilters) ([]*models.Assessment, error) {
	published := true
	filters.IsPublished = &published

	query := a.getDB(tx).WithContext(ctx).Model(&models.Assessment{}).Preload("Questions")
	query = a.helpers.ApplyAssessmentFilters(query, filters)
	query = a.helpers.ApplyPagination(query, filters.Limit, filters.Offset)
	query = query.Order("created_at DESC")

	var assessments []*models.Assessment
	if err := query.Find(&assessments).Error; err != nil {
		return nil, fmt.Errorf("failed to get published assessments: %w", err)
	}
	return assessments, nil
}

func (a *AssessmentPostgreSQL) SetPublished(ctx context.Context, tx *gorm.DB, id string, published bool) error {
	result := a.getDB(tx).WithContext(ctx).
		Model(&models.Assessment{}).
		Where("id = ?", id).
		Update("is_published", published)
	if result.Error != nil {
		return fmt.Errorf("failed to set published flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotVisible
	}
	cache.SafeDelete(ctx, a.cacheManager.Assessment, fmt.Sprintf("id:%s", id))

	return nil
}

func (a *AssessmentPostgreSQL) SetResultsPublished(ctx context.Context, tx *gorm.DB, id string, published bool) error {
	result := a.getDB(tx).WithContext(ctx).
		Model(&models.Assessment{}).
		Where("id = ?", id).
		Update("results_published", published)
	if result.Error != nil {
		return fmt.Errorf("failed to set results published flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotVisible
	}
	cache.SafeDelete(ctx, a.cacheManager.Assessment, fmt.Sprintf("id:%s", id))

	return nil
}

func (a *AssessmentPostgreSQL) CountQuestions(ctx context.Context, tx *gorm.DB, assessmentID string) (int64, error) {
	var count int64
	err := a.getDB(tx).WithContext(ctx).
		Model(&models.AssessmentQuestion{}).
		Where("assessment_id = ?", assessmentID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}
