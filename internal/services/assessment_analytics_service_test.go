package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"gorm.io/gorm"
)

func analyticsServiceWith(assessments []*models.Assessment, err error) *assessmentAnalyticsService {
	repo := &stubRepository{
		assessment: &stubAssessmentRepo{
			getByCreatorWithSessions: func(ctx context.Context, tx *gorm.DB, creatorID string) ([]*models.Assessment, error) {
				return assessments, err
			},
		},
	}
	return &assessmentAnalyticsService{repo: repo, logger: testLogger(), cache: testCache()}
}

func TestAssessmentAnalyticsService_ComputeAnalytics(t *testing.T) {
	assessments := []*models.Assessment{
		{
			Title:           "Quiz One",
			DifficultyLevel: models.DifficultyEasy,
			Sessions: []models.AssessmentSession{
				{Score: 80}, {Score: 90},
			},
		},
		{
			Title:           "Quiz Two",
			DifficultyLevel: models.DifficultyEasy,
			Sessions: []models.AssessmentSession{
				{Score: 60},
			},
		},
		{
			Title:           "A very long assessment title",
			DifficultyLevel: models.DifficultyHard,
			Sessions:        nil,
		},
	}

	got, err := analyticsServiceWith(assessments, nil).computeAnalytics(context.Background(), "teacher-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.TotalAssessments != 3 {
		t.Errorf("TotalAssessments = %d, want 3", got.TotalAssessments)
	}
	if got.TotalAttempts != 3 {
		t.Errorf("TotalAttempts = %d, want 3", got.TotalAttempts)
	}
	// (80+90+60)/3 = 76.67 rounds to 77.
	if got.AverageScore != 77 {
		t.Errorf("AverageScore = %d, want 77", got.AverageScore)
	}

	if len(got.Assessments) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(got.Assessments))
	}
	if got.Assessments[0].AvgScore != 85 || got.Assessments[0].Attempts != 2 {
		t.Errorf("first summary = %+v, want avg 85 attempts 2", got.Assessments[0])
	}
	if got.Assessments[2].AvgScore != 0 || got.Assessments[2].Attempts != 0 {
		t.Errorf("zero-session summary = %+v, want zeros", got.Assessments[2])
	}
	if got.Assessments[2].Title != "A very long assessme..." {
		t.Errorf("truncated title = %q", got.Assessments[2].Title)
	}

	// Each assessment lands in exactly one bucket.
	bucketTotal := 0
	for _, bucket := range got.ByDifficulty {
		bucketTotal += bucket.Count
	}
	if bucketTotal != len(assessments) {
		t.Errorf("bucket counts sum to %d, want %d", bucketTotal, len(assessments))
	}

	easy := got.ByDifficulty[models.DifficultyLabelEasy]
	if easy.Count != 2 {
		t.Errorf("easy bucket count = %d, want 2", easy.Count)
	}
	// Incremental blend: first 85, then round((85+60)/2) = 73.
	if easy.AvgScore != 73 {
		t.Errorf("easy bucket avg = %d, want 73", easy.AvgScore)
	}

	hard := got.ByDifficulty[models.DifficultyLabelHard]
	if hard.Count != 1 || hard.AvgScore != 0 {
		t.Errorf("hard bucket = %+v, want count 1 avg 0", hard)
	}
	if got.ByDifficulty[models.DifficultyLabelMedium].Count != 0 {
		t.Errorf("medium bucket count = %d, want 0", got.ByDifficulty[models.DifficultyLabelMedium].Count)
	}
}

func TestAssessmentAnalyticsService_ErrorDegradesToZero(t *testing.T) {
	svc := analyticsServiceWith(nil, errors.New("db down"))

	got := svc.GetAssessmentAnalytics(context.Background(), "teacher-1")

	if got.TotalAssessments != 0 || got.TotalAttempts != 0 || got.AverageScore != 0 {
		t.Errorf("expected zeroed totals, got %+v", got)
	}
	if len(got.ByDifficulty) != 3 {
		t.Fatalf("expected all 3 buckets present, got %d", len(got.ByDifficulty))
	}
	for label, bucket := range got.ByDifficulty {
		if bucket.Count != 0 || bucket.AvgScore != 0 {
			t.Errorf("bucket %s = %+v, want zeros", label, bucket)
		}
	}
}

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"short", "short"},
		{"exactly twenty chars", "exactly twenty chars"},
		{"twenty one characters", "twenty one character..."},
	}
	for _, tt := range tests {
		if got := truncateTitle(tt.in); got != tt.want {
			t.Errorf("truncateTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDifficultyLabelRoundTrip(t *testing.T) {
	// Every stored level maps to a label and back without loss; unknown
	// values collapse to MEDIUM.
	tests := []struct {
		level int
		label string
	}{
		{models.DifficultyEasy, models.DifficultyLabelEasy},
		{models.DifficultyMedium, models.DifficultyLabelMedium},
		{models.DifficultyHard, models.DifficultyLabelHard},
		{0, models.DifficultyLabelMedium},
		{99, models.DifficultyLabelMedium},
	}
	for _, tt := range tests {
		if got := models.DifficultyLabel(tt.level); got != tt.label {
			t.Errorf("DifficultyLabel(%d) = %q, want %q", tt.level, got, tt.label)
		}
	}
	if models.DifficultyFromLabel("UNKNOWN") != models.DifficultyMedium {
		t.Error("unknown label should map to MEDIUM")
	}
}
