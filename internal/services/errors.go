package services

import (
	"errors"
	"fmt"
)

// ===== SENTINEL ERRORS =====

var (
	// Generic
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrBadRequest       = errors.New("bad request")
	ErrValidationFailed = errors.New("validation failed")

	// Assessment
	ErrAssessmentNotFound     = errors.New("assessment not found")
	ErrAssessmentNotPublished = errors.New("assessment is not published")

	// Question
	ErrQuestionNotFound = errors.New("question not found")

	// Session / results
	ErrSessionNotFound     = errors.New("session not found")
	ErrResultsNotAvailable = errors.New("results not available")

	// Course
	ErrCourseNotFound  = errors.New("course not found")
	ErrChapterNotFound = errors.New("chapter not found")

	// User
	ErrUserNotFound = errors.New("user not found")
)

// ===== TYPED ERRORS =====

// UpstreamError reports a failure from the question generation backend.
// RawOutput carries whatever the model returned so the caller can inspect
// malformed content.
type UpstreamError struct {
	Operation string
	RawOutput string
	Err       error
}

func (e *UpstreamError) Error() string {
	if e.RawOutput != "" {
		return fmt.Sprintf("%s failed: %v: %s", e.Operation, e.Err, e.RawOutput)
	}
	return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
