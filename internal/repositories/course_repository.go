package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"gorm.io/gorm"
)

// CourseRepository covers course, chapter and purchase access.
type CourseRepository interface {
	// Chapters
	GetChapterByID(ctx context.Context, tx *gorm.DB, id string) (*models.Chapter, error)
	GetPublishedChapterIDs(ctx context.Context, tx *gorm.DB, courseID string) ([]string, error)
	GetChapterIDs(ctx context.Context, tx *gorm.DB, courseID string) ([]string, error)

	// Purchases
	// GetPurchasesByUser returns the student's purchases with Course (and its
	// published chapters and category) preloaded, newest purchase first.
	GetPurchasesByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.Purchase, error)
	// GetPurchasesByTeacher returns every purchase of the teacher's courses
	// with Course preloaded, newest first.
	GetPurchasesByTeacher(ctx context.Context, tx *gorm.DB, teacherID string) ([]*models.Purchase, error)
	// GetPurchasesByUserAndTeacher limits GetPurchasesByUser to one teacher's
	// courses, with all chapters preloaded.
	GetPurchasesByUserAndTeacher(ctx context.Context, tx *gorm.DB, userID, teacherID string) ([]*models.Purchase, error)
}

// ProgressRepository covers chapter completion records.
type ProgressRepository interface {
	// Upsert writes one progress row keyed by (user, chapter).
	Upsert(ctx context.Context, tx *gorm.DB, userID, chapterID string, isCompleted bool) (*models.UserProgress, error)

	// CountCompleted counts the user's completed rows among the given chapters.
	CountCompleted(ctx context.Context, tx *gorm.DB, userID string, chapterIDs []string) (int64, error)
	// GetByUserAndChapters returns the user's progress rows for the given
	// chapters, most recently updated first.
	GetByUserAndChapters(ctx context.Context, tx *gorm.DB, userID string, chapterIDs []string) ([]*models.UserProgress, error)
	// GetCompletedInRange returns the user's completed rows whose update
	// timestamp falls inside [from, to).
	GetCompletedInRange(ctx context.Context, tx *gorm.DB, userID string, chapterIDs []string, from, to time.Time) ([]*models.UserProgress, error)
}
