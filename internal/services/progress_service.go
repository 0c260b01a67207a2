package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type progressService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
	cache  *cache.CacheManager
}

func NewProgressService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, cacheManager *cache.CacheManager) ProgressService {
	return &progressService{
		repo:   repo,
		db:     db,
		logger: logger,
		cache:  cacheManager,
	}
}

// GetCourseProgress returns the student's completion percentage for one
// course as an integer in [0,100]. Only published chapters count toward the
// denominator; a course with no published chapters reports 0. Data-access
// failures also report 0 so the hosting page always renders.
func (s *progressService) GetCourseProgress(ctx context.Context, userID, courseID string) int {
	var progress int
	key := fmt.Sprintf("course:%s:user:%s", courseID, userID)

	err := s.cache.Progress.CacheOrExecute(ctx, key, &progress, cache.ProgressTTL, func() (interface{}, error) {
		pct, err := s.computeCourseProgress(ctx, userID, courseID)
		if err != nil {
			return nil, err
		}
		return pct, nil
	})
	if err != nil {
		s.logger.Warn("Failed to compute course progress", "user_id", userID, "course_id", courseID, "error", err)
		return 0
	}

	return progress
}

func (s *progressService) computeCourseProgress(ctx context.Context, userID, courseID string) (int, error) {
	chapterIDs, err := s.repo.Course().GetPublishedChapterIDs(ctx, nil, courseID)
	if err != nil {
		return 0, fmt.Errorf("failed to get published chapters: %w", err)
	}

	if len(chapterIDs) == 0 {
		return 0, nil
	}

	completed, err := s.repo.Progress().CountCompleted(ctx, nil, userID, chapterIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed chapters: %w", err)
	}

	return roundPercentage(completed, int64(len(chapterIDs))), nil
}

// UpsertChapterProgress writes one progress row keyed by (user, chapter)
// and invalidates the cached percentage for the chapter's course.
func (s *progressService) UpsertChapterProgress(ctx context.Context, userID, courseID, chapterID string, isCompleted bool) (*models.UserProgress, error) {
	s.logger.Info("Upserting chapter progress", "user_id", userID, "chapter_id", chapterID, "is_completed", isCompleted)

	chapter, err := s.repo.Course().GetChapterByID(ctx, nil, chapterID)
	if err != nil {
		return nil, ErrChapterNotFound
	}
	if chapter.CourseID != courseID {
		return nil, ErrChapterNotFound
	}

	progress, err := s.repo.Progress().Upsert(ctx, nil, userID, chapterID, isCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert progress: %w", err)
	}

	cache.InvalidateProgressCache(ctx, s.cache, userID, courseID)

	return progress, nil
}

// roundPercentage computes round(100*k/n) with round-half-up semantics.
func roundPercentage(k, n int64) int {
	if n == 0 {
		return 0
	}
	return int(100*float64(k)/float64(n) + 0.5)
}
