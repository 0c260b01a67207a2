package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

type CoursePostgreSQL struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db}
}

// getDB returns the transaction DB if provided, otherwise the default DB
func (c *CoursePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

func (c *CoursePostgreSQL) GetChapterByID(ctx context.Context, tx *gorm.DB, id string) (*models.Chapter, error) {
	var chapter models.Chapter
	err := c.getDB(tx).WithContext(ctx).First(&chapter, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	return &chapter, nil
}

func (c *CoursePostgreSQL) GetPublishedChapterIDs(ctx context.Context, tx *gorm.DB, courseID string) ([]string, error) {
	var ids []string
	err := c.getDB(tx).WithContext(ctx).
		Model(&models.Chapter{}).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get published chapter ids: %w", err)
	}
	return ids, nil
}

func (c *CoursePostgreSQL) GetChapterIDs(ctx context.Context, tx *gorm.DB, courseID string) ([]string, error) {
	var ids []string
	err := c.getDB(tx).WithContext(ctx).
		Model(&models.Chapter{}).
		Where("course_id = ?", courseID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get chapter ids: %w", err)
	}
	return ids, nil
}

func (c *CoursePostgreSQL) GetPurchasesByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.Purchase, error) {
	var purchases []*models.Purchase
	err := c.getDB(tx).WithContext(ctx).
		Preload("Course.Category").
		Preload("Course.Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_published = ?", true)
		}).
		Joins("Course").
		Where("purchases.user_id = ?", userID).
		Order("purchases.created_at DESC").
		Find(&purchases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get purchases for user: %w", err)
	}
	return purchases, nil
}

func (c *CoursePostgreSQL) GetPurchasesByTeacher(ctx context.Context, tx *gorm.DB, teacherID string) ([]*models.Purchase, error) {
	var purchases []*models.Purchase
	err := c.getDB(tx).WithContext(ctx).
		Joins("Course").
		Where("\"Course\".teacher_id = ?", teacherID).
		Order("purchases.created_at DESC").
		Find(&purchases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get purchases for teacher: %w", err)
	}
	return purchases, nil
}

func (c *CoursePostgreSQL) GetPurchasesByUserAndTeacher(ctx context.Context, tx *gorm.DB, userID, teacherID string) ([]*models.Purchase, error) {
	var purchases []*models.Purchase
	err := c.getDB(tx).WithContext(ctx).
		Preload("Course.Chapters").
		Joins("Course").
		Where("purchases.user_id = ? AND \"Course\".teacher_id = ?", userID, teacherID).
		Order("purchases.created_at DESC").
		Find(&purchases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get purchases for user and teacher: %w", err)
	}
	return purchases, nil
}
