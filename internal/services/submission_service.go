package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/validator"
	"gorm.io/gorm"
)

type submissionService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	cache     *cache.CacheManager
	publisher events.Publisher
}

func NewSubmissionService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, cacheManager *cache.CacheManager, publisher events.Publisher) SubmissionService {
	return &submissionService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		cache:     cacheManager,
		publisher: publisher,
	}
}

// Submit records a student's answer set against a published assessment: one
// COMPLETED session with start=end=now plus one response row per answer,
// written in one transaction. Grading fields stay null; grading is a later,
// separate step. A repeat submission creates another session.
func (s *submissionService) Submit(ctx context.Context, assessmentID, studentID string, req *SubmitResponsesRequest) (*models.AssessmentSession, error) {
	s.logger.Info("Recording submission", "assessment_id", assessmentID, "student_id", studentID, "answers", len(req.Answers))

	if errs := s.validator.GetBusinessValidator().ValidateSubmission(req); len(errs) > 0 {
		return nil, errs
	}

	assessment, err := s.repo.Assessment().GetByID(ctx, nil, assessmentID)
	if err != nil {
		return nil, ErrAssessmentNotFound
	}
	if !assessment.IsPublished {
		return nil, ErrAssessmentNotFound
	}

	now := time.Now()
	session := &models.AssessmentSession{
		AssessmentID: assessmentID,
		UserID:       studentID,
		Status:       models.SessionCompleted,
		StartTime:    now,
		EndTime:      now,
		Score:        0,
	}

	responses := make([]*models.AssessmentResponse, 0, len(req.Answers))
	for _, answer := range req.Answers {
		responses = append(responses, &models.AssessmentResponse{
			QuestionID: answer.QuestionID,
			Answer:     answer.Answer,
		})
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		return txRepo.Session().Create(ctx, nil, session, responses)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}

	cache.InvalidateSessionCache(ctx, s.cache, assessmentID, assessment.CreatorID)

	s.publisher.PublishSubmissionEvent(ctx, events.SubmissionEvent{
		Event:        events.EventSubmissionReceived,
		AssessmentID: assessmentID,
		SessionID:    session.ID,
		UserID:       studentID,
		AnswerCount:  len(responses),
		OccurredAt:   now,
	})

	return session, nil
}

// ListSessions is the instructor grading view: every session for the
// assessment with responses and questions, newest end time first. Each entry
// carries AnsweredMarks, the sum of marks over answered questions. That
// credits full marks merely for being answered; it is a completeness
// metric, not the graded score.
func (s *submissionService) ListSessions(ctx context.Context, assessmentID, teacherID string) ([]*SessionView, error) {
	if _, err := s.repo.Assessment().GetOwned(ctx, nil, assessmentID, teacherID); err != nil {
		if repositories.IsNotVisible(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}

	sessions, err := s.repo.Session().GetByAssessment(ctx, nil, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	views := make([]*SessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, &SessionView{
			AssessmentSession: session,
			AnsweredMarks:     answeredMarks(session),
		})
	}

	return views, nil
}

// answeredMarks sums the marks of every question answered at least once in
// the session.
func answeredMarks(session *models.AssessmentSession) int {
	seen := make(map[string]struct{})
	total := 0
	for _, response := range session.Responses {
		if _, ok := seen[response.QuestionID]; ok {
			continue
		}
		seen[response.QuestionID] = struct{}{}
		if response.Question != nil {
			total += response.Question.Marks
		}
	}
	return total
}

// GetStudentResult returns the student's own session with responses, but
// only when both the assessment and its results are published. Any other
// flag combination reads as not found.
func (s *submissionService) GetStudentResult(ctx context.Context, assessmentID, studentID string) (*models.AssessmentSession, error) {
	assessment, err := s.repo.Assessment().GetByID(ctx, nil, assessmentID)
	if err != nil {
		return nil, ErrAssessmentNotFound
	}
	if !assessment.IsPublished || !assessment.ResultsPublished {
		return nil, ErrResultsNotAvailable
	}

	session, err := s.repo.Session().GetByUserAndAssessment(ctx, nil, studentID, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if err := s.backfillCorrectAnswers(ctx, session); err != nil {
		s.logger.Warn("Failed to backfill correct answers", "session_id", session.ID, "error", err)
	}

	return session, nil
}

// backfillCorrectAnswers fills in missing Question.CorrectAnswer fields via
// a direct question lookup. Some joined rows arrive without the field.
func (s *submissionService) backfillCorrectAnswers(ctx context.Context, session *models.AssessmentSession) error {
	var missing []string
	for i := range session.Responses {
		q := session.Responses[i].Question
		if q == nil || q.CorrectAnswer == nil {
			missing = append(missing, session.Responses[i].QuestionID)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	questions, err := s.repo.Question().GetByIDs(ctx, nil, missing)
	if err != nil {
		return err
	}

	byID := make(map[string]*models.AssessmentQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	for i := range session.Responses {
		response := &session.Responses[i]
		if q, ok := byID[response.QuestionID]; ok {
			if response.Question == nil {
				response.Question = q
			} else if response.Question.CorrectAnswer == nil {
				response.Question.CorrectAnswer = q.CorrectAnswer
			}
		}
	}

	return nil
}
