package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

type ProgressPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewProgressPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.ProgressRepository {
	return &ProgressPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (p *ProgressPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}

// Upsert writes one progress row keyed by (user, chapter). Conflicts update
// the completion flag in place.
func (p *ProgressPostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, userID, chapterID string, isCompleted bool) (*models.UserProgress, error) {
	progress := &models.UserProgress{
		UserID:      userID,
		ChapterID:   chapterID,
		IsCompleted: isCompleted,
	}

	err := p.getDB(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "chapter_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"is_completed": isCompleted,
				"updated_at":   time.Now(),
			}),
		}).
		Create(progress).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert progress: %w", err)
	}

	// Re-read so callers get the surviving row, not the candidate insert.
	var saved models.UserProgress
	err = p.getDB(tx).WithContext(ctx).
		Where("user_id = ? AND chapter_id = ?", userID, chapterID).
		First(&saved).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load upserted progress: %w", err)
	}

	return &saved, nil
}

func (p *ProgressPostgreSQL) CountCompleted(ctx context.Context, tx *gorm.DB, userID string, chapterIDs []string) (int64, error) {
	if len(chapterIDs) == 0 {
		return 0, nil
	}

	var count int64
	err := p.getDB(tx).WithContext(ctx).
		Model(&models.UserProgress{}).
		Where("user_id = ? AND chapter_id IN ? AND is_completed = ?", userID, chapterIDs, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count completed progress: %w", err)
	}
	return count, nil
}

func (p *ProgressPostgreSQL) GetByUserAndChapters(ctx context.Context, tx *gorm.DB, userID string, chapterIDs []string) ([]*models.UserProgress, error) {
	if len(chapterIDs) == 0 {
		return nil, nil
	}

	var rows []*models.UserProgress
	err := p.getDB(tx).WithContext(ctx).
		Where("user_id = ? AND chapter_id IN ?", userID, chapterIDs).
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get progress rows: %w", err)
	}
	return rows, nil
}

func (p *ProgressPostgreSQL) GetCompletedInRange(ctx context.Context, tx *gorm.DB, userID string, chapterIDs []string, from, to time.Time) ([]*models.UserProgress, error) {
	if len(chapterIDs) == 0 {
		return nil, nil
	}

	var rows []*models.UserProgress
	err := p.getDB(tx).WithContext(ctx).
		Where("user_id = ? AND chapter_id IN ? AND is_completed = ? AND updated_at >= ? AND updated_at < ?",
			userID, chapterIDs, true, from, to).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get completed progress in range: %w", err)
	}
	return rows, nil
}
