package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type dashboardService struct {
	repo     repositories.Repository
	db       *gorm.DB
	logger   *slog.Logger
	progress ProgressService
}

func NewDashboardService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, progress ProgressService) DashboardService {
	return &dashboardService{
		repo:     repo,
		db:       db,
		logger:   logger,
		progress: progress,
	}
}

// GetStudentDashboard partitions the student's purchased courses into
// completed (exactly 100%) and in-progress. Order within each list follows
// the purchase fetch order, newest purchase first. Errors degrade to two
// empty lists.
func (s *dashboardService) GetStudentDashboard(ctx context.Context, userID string) *StudentDashboardResponse {
	response := &StudentDashboardResponse{
		CompletedCourses:  []*DashboardCourse{},
		CoursesInProgress: []*DashboardCourse{},
	}

	purchases, err := s.repo.Course().GetPurchasesByUser(ctx, nil, userID)
	if err != nil {
		s.logger.Warn("Failed to load dashboard purchases", "user_id", userID, "error", err)
		return response
	}

	for _, purchase := range purchases {
		course := purchase.Course
		entry := &DashboardCourse{
			Course:   &course,
			Progress: s.progress.GetCourseProgress(ctx, userID, course.ID),
		}

		if entry.Progress == 100 {
			response.CompletedCourses = append(response.CompletedCourses, entry)
		} else {
			response.CoursesInProgress = append(response.CoursesInProgress, entry)
		}
	}

	return response
}
