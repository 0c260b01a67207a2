package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates a cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateAssessmentCache drops cached assessment data and the creator's
// analytics after any assessment write.
func InvalidateAssessmentCache(ctx context.Context, cm *CacheManager, assessmentID, creatorID string) {
	SafeDelete(ctx, cm.Assessment,
		fmt.Sprintf("id:%s", assessmentID),
		fmt.Sprintf("details:%s", assessmentID))

	SafeInvalidatePattern(ctx, cm.Assessment, fmt.Sprintf("creator:%s:*", creatorID))
	SafeInvalidatePattern(ctx, cm.Analytics, fmt.Sprintf("assessments:%s*", creatorID))
}

// InvalidateProgressCache drops a student's cached progress for one course.
func InvalidateProgressCache(ctx context.Context, cm *CacheManager, userID, courseID string) {
	SafeDelete(ctx, cm.Progress, fmt.Sprintf("course:%s:user:%s", courseID, userID))
	SafeInvalidatePattern(ctx, cm.Progress, fmt.Sprintf("dashboard:%s*", userID))
}

// InvalidateSessionCache drops analytics derived from an assessment's
// sessions after a submission.
func InvalidateSessionCache(ctx context.Context, cm *CacheManager, assessmentID, creatorID string) {
	SafeInvalidatePattern(ctx, cm.Analytics, fmt.Sprintf("assessments:%s*", creatorID))
	SafeDelete(ctx, cm.Assessment, fmt.Sprintf("sessions:%s", assessmentID))
}
