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

const titleTruncateLen = 20

type assessmentAnalyticsService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
	cache  *cache.CacheManager
}

func NewAssessmentAnalyticsService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, cacheManager *cache.CacheManager) AssessmentAnalyticsService {
	return &assessmentAnalyticsService{
		repo:   repo,
		db:     db,
		logger: logger,
		cache:  cacheManager,
	}
}

// GetAssessmentAnalytics aggregates session scores per assessment and per
// difficulty band for one teacher. Errors degrade to zeroed totals with all
// three buckets present.
func (s *assessmentAnalyticsService) GetAssessmentAnalytics(ctx context.Context, teacherID string) *AssessmentAnalyticsResponse {
	var response AssessmentAnalyticsResponse
	key := fmt.Sprintf("assessments:%s", teacherID)

	err := s.cache.Analytics.CacheOrExecute(ctx, key, &response, cache.AnalyticsTTL, func() (interface{}, error) {
		return s.computeAnalytics(ctx, teacherID)
	})
	if err != nil {
		s.logger.Warn("Failed to compute assessment analytics", "teacher_id", teacherID, "error", err)
		return zeroedAssessmentAnalytics()
	}

	return &response
}

func (s *assessmentAnalyticsService) computeAnalytics(ctx context.Context, teacherID string) (*AssessmentAnalyticsResponse, error) {
	assessments, err := s.repo.Assessment().GetByCreatorWithSessions(ctx, nil, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assessments: %w", err)
	}

	response := zeroedAssessmentAnalytics()
	response.TotalAssessments = len(assessments)

	var overallSum float64
	var overallCount int

	for _, assessment := range assessments {
		attempts := len(assessment.Sessions)
		var sum float64
		for _, session := range assessment.Sessions {
			sum += session.Score
		}
		overallSum += sum
		overallCount += attempts
		response.TotalAttempts += attempts

		avgScore := 0
		if attempts > 0 {
			avgScore = roundInt(sum / float64(attempts))
		}

		response.Assessments = append(response.Assessments, AssessmentScoreSummary{
			Title:    truncateTitle(assessment.Title),
			AvgScore: avgScore,
			Attempts: attempts,
		})

		// Each assessment lands in exactly one bucket. The bucket average
		// blends per-assessment averages incrementally; the formula is
		// order-dependent and only approximates a true weighted average
		// when attempt counts differ, and downstream reports depend on
		// these exact numbers.
		bucket := response.ByDifficulty[models.DifficultyLabel(assessment.DifficultyLevel)]
		bucket.Count++
		bucket.AvgScore = roundInt((float64(bucket.AvgScore)*float64(bucket.Count-1) + float64(avgScore)) / float64(bucket.Count))
	}

	if overallCount > 0 {
		response.AverageScore = roundInt(overallSum / float64(overallCount))
	}

	return response, nil
}

func zeroedAssessmentAnalytics() *AssessmentAnalyticsResponse {
	return &AssessmentAnalyticsResponse{
		Assessments: []AssessmentScoreSummary{},
		ByDifficulty: map[string]*DifficultyBucket{
			models.DifficultyLabelEasy:   {},
			models.DifficultyLabelMedium: {},
			models.DifficultyLabelHard:   {},
		},
	}
}

func truncateTitle(title string) string {
	if len(title) > titleTruncateLen {
		return title[:titleTruncateLen] + "..."
	}
	return title
}

// roundInt rounds a non-negative value half-up to the nearest integer.
func roundInt(val float64) int {
	return int(val + 0.5)
}
