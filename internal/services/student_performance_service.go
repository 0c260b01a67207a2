package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"gorm.io/gorm"
)

const trendMonths = 6

type studentPerformanceService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewStudentPerformanceService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) StudentPerformanceService {
	return &studentPerformanceService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// GetPerformanceSnapshot returns, for one student, their standing in every
// course purchased from this teacher plus every assessment session on the
// teacher's assessments. Errors degrade to empty lists.
func (s *studentPerformanceService) GetPerformanceSnapshot(ctx context.Context, teacherID, studentID string) *StudentPerformanceResponse {
	response := &StudentPerformanceResponse{
		Courses:     []CoursePerformance{},
		Assessments: []AssessmentResult{},
	}

	purchases, err := s.repo.Course().GetPurchasesByUserAndTeacher(ctx, nil, studentID, teacherID)
	if err != nil {
		s.logger.Warn("Failed to load student purchases", "teacher_id", teacherID, "student_id", studentID, "error", err)
		return response
	}

	for _, purchase := range purchases {
		course := purchase.Course

		// The standing here is over every chapter of the course, published or
		// not, so the percentage always agrees with the counts next to it.
		chapterIDs, err := s.repo.Course().GetChapterIDs(ctx, nil, course.ID)
		if err != nil {
			s.logger.Warn("Failed to load course chapters", "student_id", studentID, "course_id", course.ID, "error", err)
			chapterIDs = nil
		}

		completed, err := s.repo.Progress().CountCompleted(ctx, nil, studentID, chapterIDs)
		if err != nil {
			s.logger.Warn("Failed to count completed chapters", "student_id", studentID, "course_id", course.ID, "error", err)
			completed = 0
		}

		// Last accessed is the newest progress update in this course,
		// falling back to the purchase time when no progress exists yet.
		lastAccessed := purchase.CreatedAt
		rows, err := s.repo.Progress().GetByUserAndChapters(ctx, nil, studentID, chapterIDs)
		if err != nil {
			s.logger.Warn("Failed to load progress rows", "student_id", studentID, "course_id", course.ID, "error", err)
		} else if len(rows) > 0 {
			lastAccessed = rows[0].UpdatedAt
		}

		response.Courses = append(response.Courses, CoursePerformance{
			CourseID:          course.ID,
			Title:             course.Title,
			Progress:          roundPercentage(completed, int64(len(chapterIDs))),
			ChaptersCompleted: int(completed),
			TotalChapters:     len(chapterIDs),
			LastAccessed:      lastAccessed,
		})
	}

	sessions, err := s.repo.Session().GetByUserForCreator(ctx, nil, studentID, teacherID)
	if err != nil {
		s.logger.Warn("Failed to load student sessions", "teacher_id", teacherID, "student_id", studentID, "error", err)
		return response
	}

	for _, session := range sessions {
		result := AssessmentResult{
			AssessmentID: session.AssessmentID,
			Score:        session.Score,
			CompletedAt:  session.EndTime,
			Difficulty:   models.DifficultyLabelMedium,
		}
		if session.Assessment != nil {
			result.Title = session.Assessment.Title
			result.Difficulty = models.DifficultyLabel(session.Assessment.DifficultyLevel)
		}
		response.Assessments = append(response.Assessments, result)
	}

	return response
}

// GetEnrollmentTrend returns exactly six monthly data points ending at the
// current month, oldest first. Months with no activity report zeros.
func (s *studentPerformanceService) GetEnrollmentTrend(ctx context.Context, teacherID, studentID string) []TrendPoint {
	points := make([]TrendPoint, 0, trendMonths)

	chapterIDs, err := s.teacherChapterIDs(ctx, teacherID, studentID)
	if err != nil {
		s.logger.Warn("Failed to load chapters for trend", "teacher_id", teacherID, "student_id", studentID, "error", err)
		chapterIDs = nil
	}

	now := time.Now()
	for i := trendMonths - 1; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)

		point := TrendPoint{Month: monthStart.Format("Jan")}

		if len(chapterIDs) > 0 {
			rows, err := s.repo.Progress().GetCompletedInRange(ctx, nil, studentID, chapterIDs, monthStart, monthEnd)
			if err != nil {
				s.logger.Warn("Failed to load monthly progress", "student_id", studentID, "month", point.Month, "error", err)
			} else {
				point.ChaptersCompleted = len(rows)
			}
		}

		sessions, err := s.repo.Session().GetByUserInRange(ctx, nil, studentID, teacherID, monthStart, monthEnd)
		if err != nil {
			s.logger.Warn("Failed to load monthly sessions", "student_id", studentID, "month", point.Month, "error", err)
		} else if len(sessions) > 0 {
			var sum float64
			for _, session := range sessions {
				sum += session.Score
			}
			point.AvgScore = roundInt(sum / float64(len(sessions)))
		}

		points = append(points, point)
	}

	return points
}

func (s *studentPerformanceService) teacherChapterIDs(ctx context.Context, teacherID, studentID string) ([]string, error) {
	purchases, err := s.repo.Course().GetPurchasesByUserAndTeacher(ctx, nil, studentID, teacherID)
	if err != nil {
		return nil, err
	}

	var chapterIDs []string
	for _, purchase := range purchases {
		for _, chapter := range purchase.Course.Chapters {
			chapterIDs = append(chapterIDs, chapter.ID)
		}
	}
	return chapterIDs, nil
}

// ListStudents returns every student who purchased at least one of the
// teacher's courses, with purchase and session counts. Identity details come
// from the user directory; a lookup failure leaves name and email blank
// rather than dropping the row.
func (s *studentPerformanceService) ListStudents(ctx context.Context, teacherID string) ([]StudentSummary, error) {
	purchases, err := s.repo.Course().GetPurchasesByTeacher(ctx, nil, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}

	counts := make(map[string]int)
	var order []string
	for _, purchase := range purchases {
		if _, seen := counts[purchase.UserID]; !seen {
			order = append(order, purchase.UserID)
		}
		counts[purchase.UserID]++
	}

	users := make(map[string]*models.User)
	if len(order) > 0 {
		resolved, err := s.repo.User().GetByIDs(ctx, order)
		if err != nil {
			s.logger.Warn("Failed to resolve student identities", "teacher_id", teacherID, "error", err)
		} else {
			for _, user := range resolved {
				users[user.ID] = user
			}
		}
	}

	summaries := make([]StudentSummary, 0, len(order))
	for _, studentID := range order {
		summary := StudentSummary{
			StudentID:        studentID,
			CoursesPurchased: counts[studentID],
		}
		if user, ok := users[studentID]; ok {
			summary.Name = user.FullName
			summary.Email = user.Email
		}

		sessions, err := s.repo.Session().GetByUserForCreator(ctx, nil, studentID, teacherID)
		if err != nil {
			s.logger.Warn("Failed to count student sessions", "student_id", studentID, "error", err)
		} else {
			summary.AssessmentsTaken = len(sessions)
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}
