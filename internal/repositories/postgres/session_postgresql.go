package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

type SessionPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewSessionPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.SessionRepository {
	return &SessionPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (s *SessionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

// Create persists a session together with its response rows.
func (s *SessionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, session *models.AssessmentSession, responses []*models.AssessmentResponse) error {
	db := s.getDB(tx)

	if err := db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	for _, response := range responses {
		response.SessionID = session.ID
	}
	if len(responses) > 0 {
		if err := db.WithContext(ctx).Create(&responses).Error; err != nil {
			return fmt.Errorf("failed to create responses: %w", err)
		}
	}

	cache.SafeDelete(ctx, s.cacheManager.Assessment, fmt.Sprintf("sessions:%s", session.AssessmentID))

	return nil
}

func (s *SessionPostgreSQL) GetByAssessment(ctx context.Context, tx *gorm.DB, assessmentID string) ([]*models.AssessmentSession, error) {
	var sessions []*models.AssessmentSession
	err := s.getDB(tx).WithContext(ctx).
		Preload("Responses.Question").
		Where("assessment_id = ?", assessmentID).
		Order("end_time DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions for assessment: %w", err)
	}
	return sessions, nil
}

func (s *SessionPostgreSQL) GetByUserAndAssessment(ctx context.Context, tx *gorm.DB, userID, assessmentID string) (*models.AssessmentSession, error) {
	var session models.AssessmentSession
	err := s.getDB(tx).WithContext(ctx).
		Preload("Responses").
		Where("user_id = ? AND assessment_id = ?", userID, assessmentID).
		Order("created_at ASC").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session for user: %w", err)
	}
	return &session, nil
}

func (s *SessionPostgreSQL) GetByUserForCreator(ctx context.Context, tx *gorm.DB, userID, creatorID string) ([]*models.AssessmentSession, error) {
	var sessions []*models.AssessmentSession
	err := s.getDB(tx).WithContext(ctx).
		Preload("Assessment").
		Joins("JOIN assessments ON assessments.id = assessment_sessions.assessment_id").
		Where("assessment_sessions.user_id = ? AND assessments.creator_id = ?", userID, creatorID).
		Order("assessment_sessions.end_time DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions for creator: %w", err)
	}
	return sessions, nil
}

func (s *SessionPostgreSQL) GetByUserInRange(ctx context.Context, tx *gorm.DB, userID, creatorID string, from, to time.Time) ([]*models.AssessmentSession, error) {
	var sessions []*models.AssessmentSession
	err := s.getDB(tx).WithContext(ctx).
		Joins("JOIN assessments ON assessments.id = assessment_sessions.assessment_id").
		Where("assessment_sessions.user_id = ? AND assessments.creator_id = ? AND assessment_sessions.end_time >= ? AND assessment_sessions.end_time < ?",
			userID, creatorID, from, to).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions in range: %w", err)
	}
	return sessions, nil
}
