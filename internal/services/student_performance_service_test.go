package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"gorm.io/gorm"
)

func TestStudentPerformanceService_GetPerformanceSnapshot(t *testing.T) {
	ctx := context.Background()

	purchaseTime := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	progressTime := time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC)

	purchases := []*models.Purchase{
		{
			CourseID:  "c-1",
			CreatedAt: purchaseTime,
			Course: models.Course{
				ID:    "c-1",
				Title: "Algebra",
				Chapters: []models.Chapter{
					{ID: "ch-1"}, {ID: "ch-2"}, {ID: "ch-3"}, {ID: "ch-4"},
				},
			},
		},
	}
	sessions := []*models.AssessmentSession{
		{
			AssessmentID: "a-1",
			Score:        88,
			EndTime:      progressTime,
			Assessment:   &models.Assessment{ID: "a-1", Title: "Midterm", DifficultyLevel: models.DifficultyHard},
		},
		{
			AssessmentID: "a-2",
			Score:        70,
			EndTime:      progressTime,
		},
	}

	repo := &stubRepository{
		course: &stubCourseRepo{
			getPurchasesByUserAndTeacher: func(ctx context.Context, tx *gorm.DB, userID, teacherID string) ([]*models.Purchase, error) {
				return purchases, nil
			},
			getChapterIDs: func(ctx context.Context, tx *gorm.DB, courseID string) ([]string, error) {
				return []string{"ch-1", "ch-2", "ch-3", "ch-4"}, nil
			},
		},
		progress: &stubProgressRepo{
			countCompleted: func(ctx context.Context, tx *gorm.DB, userID string, chapterIDs []string) (int64, error) {
				return 3, nil
			},
			getByUserAndChapters: func(ctx context.Context, tx *gorm.DB, userID string, chapterIDs []string) ([]*models.UserProgress, error) {
				return []*models.UserProgress{{UpdatedAt: progressTime}}, nil
			},
		},
		session: &stubSessionRepo{
			getByUserForCreator: func(ctx context.Context, tx *gorm.DB, userID, creatorID string) ([]*models.AssessmentSession, error) {
				return sessions, nil
			},
		},
	}
	svc := NewStudentPerformanceService(repo, nil, testLogger())

	got := svc.GetPerformanceSnapshot(ctx, "teacher-1", "student-1")

	if len(got.Courses) != 1 {
		t.Fatalf("expected 1 course, got %d", len(got.Courses))
	}
	course := got.Courses[0]
	if course.Progress != 75 || course.ChaptersCompleted != 3 || course.TotalChapters != 4 {
		t.Errorf("course standing = %+v", course)
	}
	if !course.LastAccessed.Equal(progressTime) {
		t.Errorf("LastAccessed = %v, want newest progress update %v", course.LastAccessed, progressTime)
	}

	if len(got.Assessments) != 2 {
		t.Fatalf("expected 2 assessment results, got %d", len(got.Assessments))
	}
	if got.Assessments[0].Title != "Midterm" || got.Assessments[0].Difficulty != models.DifficultyLabelHard {
		t.Errorf("first result = %+v", got.Assessments[0])
	}
	// Session without a loaded assessment still renders, as MEDIUM.
	if got.Assessments[1].Difficulty != models.DifficultyLabelMedium {
		t.Errorf("fallback difficulty = %s, want MEDIUM", got.Assessments[1].Difficulty)
	}
}

// The snapshot percentage is over every chapter of the course, not just the
// published ones, so it always agrees with the completed/total counts shown
// beside it.
func TestStudentPerformanceService_SnapshotProgressCountsAllChapters(t *testing.T) {
	repo := &stubRepository{
		course: &stubCourseRepo{
			getPurchasesByUserAndTeacher: func(ctx context.Context, tx *gorm.DB, userID, teacherID string) ([]*models.Purchase, error) {
				return []*models.Purchase{{
					CourseID: "c-1",
					Course: models.Course{
						ID:    "c-1",
						Title: "Algebra",
						// Only two chapters published.
						Chapters: []models.Chapter{
							{ID: "ch-1", IsPublished: true}, {ID: "ch-2", IsPublished: true},
							{ID: "ch-3"}, {ID: "ch-4"},
						},
					},
				}}, nil
			},
			getChapterIDs: func(ctx context.Context, tx *gorm.DB, courseID string) ([]string, error) {
				return []string{"ch-1", "ch-2", "ch-3", "ch-4"}, nil
			},
		},
		progress: &stubProgressRepo{
			countCompleted: func(ctx context.Context, tx *gorm.DB, userID string, chapterIDs []string) (int64, error) {
				if len(chapterIDs) != 4 {
					t.Errorf("counted over %d chapters, want all 4", len(chapterIDs))
				}
				return 2, nil
			},
			getByUserAndChapters: func(ctx context.Context, tx *gorm.DB, userID string, chapterIDs []string) ([]*models.UserProgress, error) {
				return nil, nil
			},
		},
		session: &stubSessionRepo{
			getByUserForCreator: func(ctx context.Context, tx *gorm.DB, userID, creatorID string) ([]*models.AssessmentSession, error) {
				return nil, nil
			},
		},
	}
	svc := NewStudentPerformanceService(repo, nil, testLogger())

	got := svc.GetPerformanceSnapshot(context.Background(), "teacher-1", "student-1")
	if len(got.Courses) != 1 {
		t.Fatalf("expected 1 course, got %d", len(got.Courses))
	}
	course := got.Courses[0]
	// 2 of 4 chapters, not 2 of the 2 published ones.
	if course.Progress != 50 {
		t.Errorf("Progress = %d, want 50", course.Progress)
	}
	if course.ChaptersCompleted != 2 || course.TotalChapters != 4 {
		t.Errorf("counts = %d/%d, want 2/4", course.ChaptersCompleted, course.TotalChapters)
	}
}

func TestStudentPerformanceService_LastAccessedFallsBackToPurchase(t *testing.T) {
	purchaseTime := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)

	repo := &stubRepository{
		course: &stubCourseRepo{
			getPurchasesByUserAndTeacher: func(ctx context.Context, tx *gorm.DB, userID, teacherID string) ([]*models.Purchase, error) {
				return []*models.Purchase{{
					CourseID:  "c-1",
					CreatedAt: purchaseTime,
					Course:    models.Course{ID: "c-1", Title: "Algebra"},
				}}, nil
			},
			getChapterIDs: func(ctx context.Context, tx *gorm.DB, courseID string) ([]string, error) {
				return nil, nil
			},
		},
		progress: &stubProgressRepo{
			countCompleted: func(ctx context.Context, tx *gorm.DB, userID string, chapterIDs []string) (int64, error) {
				return 0, nil
			},
			getByUserAndChapters: func(ctx context.Context, tx *gorm.DB, userID string, chapterIDs []string) ([]*models.UserProgress, error) {
				return nil, nil
			},
		},
		session: &stubSessionRepo{
			getByUserForCreator: func(ctx context.Context, tx *gorm.DB, userID, creatorID string) ([]*models.AssessmentSession, error) {
				return nil, nil
			},
		},
	}
	svc := NewStudentPerformanceService(repo, nil, testLogger())

	got := svc.GetPerformanceSnapshot(context.Background(), "teacher-1", "student-1")
	if len(got.Courses) != 1 {
		t.Fatalf("expected 1 course, got %d", len(got.Courses))
	}
	if !got.Courses[0].LastAccessed.Equal(purchaseTime) {
		t.Errorf("LastAccessed = %v, want purchase time %v", got.Courses[0].LastAccessed, purchaseTime)
	}
}

func TestStudentPerformanceService_GetEnrollmentTrend(t *testing.T) {
	ctx := context.Background()

	repo := &stubRepository{
		course: &stubCourseRepo{
			getPurchasesByUserAndTeacher: func(ctx context.Context, tx *gorm.DB, userID, teacherID string) ([]*models.Purchase, error) {
				return []*models.Purchase{{
					Course: models.Course{ID: "c-1", Chapters: []models.Chapter{{ID: "ch-1"}}},
				}}, nil
			},
		},
		progress: &stubProgressRepo{
			getCompletedInRange: func(ctx context.Context, tx *gorm.DB, userID string, chapterIDs []string, from, to time.Time) ([]*models.UserProgress, error) {
				// Two completions in the current month only.
				now := time.Now()
				if from.Month() == now.Month() && from.Year() == now.Year() {
					return []*models.UserProgress{{}, {}}, nil
				}
				return nil, nil
			},
		},
		session: &stubSessionRepo{
			getByUserInRange: func(ctx context.Context, tx *gorm.DB, userID, creatorID string, from, to time.Time) ([]*models.AssessmentSession, error) {
				now := time.Now()
				if from.Month() == now.Month() && from.Year() == now.Year() {
					return []*models.AssessmentSession{{Score: 80}, {Score: 85}}, nil
				}
				return nil, nil
			},
		},
	}
	svc := NewStudentPerformanceService(repo, nil, testLogger())

	points := svc.GetEnrollmentTrend(ctx, "teacher-1", "student-1")

	if len(points) != trendMonths {
		t.Fatalf("expected %d points, got %d", trendMonths, len(points))
	}

	// Oldest first; the last point is the current month.
	now := time.Now()
	last := points[len(points)-1]
	if last.Month != now.Format("Jan") {
		t.Errorf("last month = %q, want %q", last.Month, now.Format("Jan"))
	}
	if last.ChaptersCompleted != 2 {
		t.Errorf("current month completions = %d, want 2", last.ChaptersCompleted)
	}
	// round((80+85)/2) = 83.
	if last.AvgScore != 83 {
		t.Errorf("current month avg = %d, want 83", last.AvgScore)
	}

	for i, point := range points[:len(points)-1] {
		if point.ChaptersCompleted != 0 || point.AvgScore != 0 {
			t.Errorf("point %d (%s) should be zeroed: %+v", i, point.Month, point)
		}
		if point.Month == "" {
			t.Errorf("point %d missing month label", i)
		}
	}
}

func TestStudentPerformanceService_ListStudents(t *testing.T) {
	ctx := context.Background()

	purchases := []*models.Purchase{
		{UserID: "s1", Course: models.Course{ID: "c-1"}},
		{UserID: "s2", Course: models.Course{ID: "c-1"}},
		{UserID: "s1", Course: models.Course{ID: "c-2"}},
	}
	sessionsByUser := map[string]int{"s1": 2, "s2": 0}

	repo := &stubRepository{
		course: &stubCourseRepo{
			getPurchasesByTeacher: func(ctx context.Context, tx *gorm.DB, teacherID string) ([]*models.Purchase, error) {
				return purchases, nil
			},
		},
		session: &stubSessionRepo{
			getByUserForCreator: func(ctx context.Context, tx *gorm.DB, userID, creatorID string) ([]*models.AssessmentSession, error) {
				sessions := make([]*models.AssessmentSession, sessionsByUser[userID])
				for i := range sessions {
					sessions[i] = &models.AssessmentSession{}
				}
				return sessions, nil
			},
		},
		user: &stubUserRepo{
			getByIDs: func(ctx context.Context, ids []string) ([]*models.User, error) {
				return []*models.User{
					{ID: "s1", FullName: "Student One", Email: "one@example.com"},
				}, nil
			},
		},
	}
	svc := NewStudentPerformanceService(repo, nil, testLogger())

	summaries, err := svc.ListStudents(ctx, "teacher-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(summaries) != 2 {
		t.Fatalf("expected 2 students, got %d", len(summaries))
	}
	first := summaries[0]
	if first.StudentID != "s1" || first.CoursesPurchased != 2 || first.AssessmentsTaken != 2 {
		t.Errorf("first summary = %+v", first)
	}
	if first.Name != "Student One" || first.Email != "one@example.com" {
		t.Errorf("identity not resolved: %+v", first)
	}

	// Unresolved identity keeps the row with blank name and email.
	second := summaries[1]
	if second.StudentID != "s2" || second.Name != "" || second.Email != "" {
		t.Errorf("second summary = %+v", second)
	}
	if second.CoursesPurchased != 1 || second.AssessmentsTaken != 0 {
		t.Errorf("second counts = %+v", second)
	}
}

func TestStudentPerformanceService_SnapshotErrorDegrades(t *testing.T) {
	repo := &stubRepository{
		course: &stubCourseRepo{
			getPurchasesByUserAndTeacher: func(ctx context.Context, tx *gorm.DB, userID, teacherID string) ([]*models.Purchase, error) {
				return nil, errors.New("db down")
			},
		},
	}
	svc := NewStudentPerformanceService(repo, nil, testLogger())

	got := svc.GetPerformanceSnapshot(context.Background(), "teacher-1", "student-1")
	if got.Courses == nil || got.Assessments == nil {
		t.Fatal("expected initialized empty lists")
	}
	if len(got.Courses) != 0 || len(got.Assessments) != 0 {
		t.Errorf("expected empty snapshot, got %+v", got)
	}
}
