package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"gorm.io/gorm"
)

const recentSalesLimit = 5

type teacherAnalyticsService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
	cache  *cache.CacheManager
}

func NewTeacherAnalyticsService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, cacheManager *cache.CacheManager) TeacherAnalyticsService {
	return &teacherAnalyticsService{
		repo:   repo,
		db:     db,
		logger: logger,
		cache:  cacheManager,
	}
}

// GetTeacherAnalytics aggregates revenue and sales across every purchase of
// the teacher's courses. Any failure degrades to a fully zeroed response;
// the aggregator never partially fails.
func (s *teacherAnalyticsService) GetTeacherAnalytics(ctx context.Context, teacherID string) *TeacherAnalyticsResponse {
	var response TeacherAnalyticsResponse
	key := fmt.Sprintf("teacher:%s", teacherID)

	err := s.cache.Analytics.CacheOrExecute(ctx, key, &response, cache.AnalyticsTTL, func() (interface{}, error) {
		return s.computeAnalytics(ctx, teacherID, time.Now())
	})
	if err != nil {
		s.logger.Warn("Failed to compute teacher analytics", "teacher_id", teacherID, "error", err)
		return zeroedTeacherAnalytics()
	}

	return &response
}

func (s *teacherAnalyticsService) computeAnalytics(ctx context.Context, teacherID string, now time.Time) (*TeacherAnalyticsResponse, error) {
	purchases, err := s.repo.Course().GetPurchasesByTeacher(ctx, nil, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}

	response := zeroedTeacherAnalytics()
	response.TotalSales = len(purchases)

	// Group revenue by course title, keeping first-encountered order
	// (purchases arrive newest first).
	totals := make(map[string]float64)
	var order []string
	students := make(map[string]struct{})

	for _, purchase := range purchases {
		price := coursePrice(&purchase.Course)

		if _, seen := totals[purchase.Course.Title]; !seen {
			order = append(order, purchase.Course.Title)
		}
		totals[purchase.Course.Title] += price
		response.TotalRevenue += price

		if purchase.CreatedAt.Month() == now.Month() && purchase.CreatedAt.Year() == now.Year() {
			response.MonthlyRevenue += price
		}

		students[purchase.UserID] = struct{}{}
	}

	for _, title := range order {
		response.Data = append(response.Data, CourseRevenue{Name: title, Total: totals[title]})
	}
	response.ActiveStudents = len(students)

	// Top course by summed revenue. The sort is stable so exact ties keep
	// their first-encountered order.
	if len(response.Data) > 0 {
		ranked := make([]CourseRevenue, len(response.Data))
		copy(ranked, response.Data)
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Total > ranked[j].Total
		})
		top := ranked[0]
		response.TopPerformingCourse = &top
	}

	for i, purchase := range purchases {
		if i == recentSalesLimit {
			break
		}
		response.RecentSales = append(response.RecentSales, RecentSale{
			CourseTitle: purchase.Course.Title,
			Amount:      coursePrice(&purchase.Course),
			Date:        purchase.CreatedAt,
		})
	}

	return response, nil
}

func zeroedTeacherAnalytics() *TeacherAnalyticsResponse {
	return &TeacherAnalyticsResponse{
		Data:        []CourseRevenue{},
		RecentSales: []RecentSale{},
	}
}

// coursePrice treats a null price as zero. A null price on a purchased
// course is a data-integrity violation upstream, not something to guard
// against here beyond avoiding a crash.
func coursePrice(course *models.Course) float64 {
	if course.Price == nil {
		return 0
	}
	return *course.Price
}
