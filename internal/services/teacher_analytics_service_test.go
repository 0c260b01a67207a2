package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"gorm.io/gorm"
)

func floatPtr(v float64) *float64 { return &v }

func TestTeacherAnalyticsService_ComputeAnalytics(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	courseA := models.Course{ID: "a", Title: "Algebra", Price: floatPtr(100)}
	courseB := models.Course{ID: "b", Title: "Biology", Price: floatPtr(50)}

	// Newest first, the order the repository returns. Two June sales, one May.
	purchases := []*models.Purchase{
		{UserID: "s1", Course: courseA, CreatedAt: now.AddDate(0, 0, -1)},
		{UserID: "s2", Course: courseA, CreatedAt: now.AddDate(0, 0, -2)},
		{UserID: "s1", Course: courseB, CreatedAt: now.AddDate(0, -1, 0)},
	}

	repo := &stubRepository{
		course: &stubCourseRepo{
			getPurchasesByTeacher: func(ctx context.Context, tx *gorm.DB, teacherID string) ([]*models.Purchase, error) {
				return purchases, nil
			},
		},
	}
	svc := &teacherAnalyticsService{repo: repo, logger: testLogger(), cache: testCache()}

	got, err := svc.computeAnalytics(ctx, "teacher-1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.TotalRevenue != 250 {
		t.Errorf("TotalRevenue = %v, want 250", got.TotalRevenue)
	}
	if got.TotalSales != 3 {
		t.Errorf("TotalSales = %d, want 3", got.TotalSales)
	}
	if got.MonthlyRevenue != 200 {
		t.Errorf("MonthlyRevenue = %v, want 200", got.MonthlyRevenue)
	}
	if got.ActiveStudents != 2 {
		t.Errorf("ActiveStudents = %d, want 2", got.ActiveStudents)
	}

	if len(got.Data) != 2 {
		t.Fatalf("expected 2 revenue groups, got %d", len(got.Data))
	}
	if got.Data[0].Name != "Algebra" || got.Data[0].Total != 200 {
		t.Errorf("first group = %+v, want Algebra/200", got.Data[0])
	}
	if got.Data[1].Name != "Biology" || got.Data[1].Total != 50 {
		t.Errorf("second group = %+v, want Biology/50", got.Data[1])
	}

	if got.TopPerformingCourse == nil || got.TopPerformingCourse.Name != "Algebra" {
		t.Errorf("TopPerformingCourse = %+v, want Algebra", got.TopPerformingCourse)
	}

	if len(got.RecentSales) != 3 {
		t.Fatalf("expected 3 recent sales, got %d", len(got.RecentSales))
	}
	if got.RecentSales[0].CourseTitle != "Algebra" || got.RecentSales[0].Amount != 100 {
		t.Errorf("first recent sale = %+v", got.RecentSales[0])
	}
}

func TestTeacherAnalyticsService_RecentSalesCap(t *testing.T) {
	course := models.Course{ID: "a", Title: "Algebra", Price: floatPtr(10)}
	purchases := make([]*models.Purchase, 8)
	for i := range purchases {
		purchases[i] = &models.Purchase{UserID: "s1", Course: course}
	}

	repo := &stubRepository{
		course: &stubCourseRepo{
			getPurchasesByTeacher: func(ctx context.Context, tx *gorm.DB, teacherID string) ([]*models.Purchase, error) {
				return purchases, nil
			},
		},
	}
	svc := &teacherAnalyticsService{repo: repo, logger: testLogger(), cache: testCache()}

	got, err := svc.computeAnalytics(context.Background(), "teacher-1", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.RecentSales) != recentSalesLimit {
		t.Errorf("RecentSales length = %d, want %d", len(got.RecentSales), recentSalesLimit)
	}
}

func TestTeacherAnalyticsService_ErrorDegradesToZero(t *testing.T) {
	repo := &stubRepository{
		course: &stubCourseRepo{
			getPurchasesByTeacher: func(ctx context.Context, tx *gorm.DB, teacherID string) ([]*models.Purchase, error) {
				return nil, errors.New("db down")
			},
		},
	}
	svc := NewTeacherAnalyticsService(repo, nil, testLogger(), testCache())

	got := svc.GetTeacherAnalytics(context.Background(), "teacher-1")

	if got.TotalRevenue != 0 || got.TotalSales != 0 || got.MonthlyRevenue != 0 || got.ActiveStudents != 0 {
		t.Errorf("expected zeroed totals, got %+v", got)
	}
	if got.TopPerformingCourse != nil {
		t.Errorf("expected nil top course, got %+v", got.TopPerformingCourse)
	}
	if got.Data == nil || got.RecentSales == nil {
		t.Error("expected initialized empty slices, got nil")
	}
}

func TestCoursePrice_NullPrice(t *testing.T) {
	if got := coursePrice(&models.Course{}); got != 0 {
		t.Errorf("coursePrice(nil price) = %v, want 0", got)
	}
	if got := coursePrice(&models.Course{Price: floatPtr(42)}); got != 42 {
		t.Errorf("coursePrice(42) = %v, want 42", got)
	}
}
