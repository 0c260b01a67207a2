package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/validator"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type assessmentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	cache     *cache.CacheManager
	publisher events.Publisher
}

func NewAssessmentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, cacheManager *cache.CacheManager, publisher events.Publisher) AssessmentService {
	return &assessmentService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		cache:     cacheManager,
		publisher: publisher,
	}
}

// ===== CORE CRUD OPERATIONS =====

// Create persists the assessment and, when AI content is attached, its
// question rows. Everything runs in one transaction so a partial question
// set never survives a failure.
func (s *assessmentService) Create(ctx context.Context, req *CreateAssessmentRequest, creatorID string) (*models.Assessment, error) {
	s.logger.Info("Creating assessment", "creator_id", creatorID, "title", req.Title)

	// Validate request with business rules
	if errs := s.validator.GetBusinessValidator().ValidateAssessmentCreate(req); len(errs) > 0 {
		return nil, errs
	}

	difficulty := models.DifficultyFromLabel(req.DifficultyLevel)

	var assessment *models.Assessment
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		assessment = &models.Assessment{
			CreatorID:       creatorID,
			Title:           req.Title,
			Description:     req.Description,
			AssessmentType:  assessmentTypeOrDefault(req.AssessmentType),
			QuestionFormat:  marshalQuestionFormat(req.QuestionFormat),
			InclusivityMode: req.InclusivityMode,
			DifficultyLevel: difficulty,
			AIGenerated:     req.AIGenerated,
			CourseID:        req.CourseID,
		}

		if err := txRepo.Assessment().Create(ctx, nil, assessment); err != nil {
			return fmt.Errorf("failed to create assessment: %w", err)
		}

		if req.AIGenerated && req.AIContent != nil {
			questions := buildGeneratedQuestions(assessment.ID, difficulty, req.AIContent)
			if len(questions) > 0 {
				if err := txRepo.Question().CreateBatch(ctx, nil, questions); err != nil {
					return fmt.Errorf("failed to create questions: %w", err)
				}
			}
			assessment.Questions = dereferenceQuestions(questions)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Assessment created successfully", "assessment_id", assessment.ID, "questions", len(assessment.Questions))

	return assessment, nil
}

// Get is the role-split detail view. Creators get their own assessment with
// questions; everyone else only sees it when it is published.
func (s *assessmentService) Get(ctx context.Context, id, userID string, role models.UserRole) (*models.Assessment, error) {
	assessment, err := s.repo.Assessment().GetByIDWithQuestions(ctx, nil, id)
	if err != nil {
		return nil, ErrAssessmentNotFound
	}

	if assessment.CreatorID == userID {
		return assessment, nil
	}

	if role == models.RoleAdmin {
		return assessment, nil
	}

	// Unpublished assessments are invisible to non-owners.
	if !assessment.IsPublished {
		return nil, ErrAssessmentNotFound
	}

	return assessment, nil
}

func (s *assessmentService) List(ctx context.Context, creatorID string, filters repositories.AssessmentFilters) (*AssessmentListResponse, error) {
	filters.CreatorID = &creatorID

	assessments, total, err := s.repo.Assessment().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}

	for _, assessment := range assessments {
		count, err := s.repo.Assessment().CountQuestions(ctx, nil, assessment.ID)
		if err != nil {
			s.logger.Warn("Failed to count questions", "assessment_id", assessment.ID, "error", err)
			continue
		}
		assessment.QuestionsCount = int(count)
	}

	return &AssessmentListResponse{Assessments: assessments, Total: total}, nil
}

func (s *assessmentService) ListPublished(ctx context.Context, filters repositories.AssessmentFilters) ([]*models.Assessment, error) {
	assessments, err := s.repo.Assessment().GetPublished(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list published assessments: %w", err)
	}
	return assessments, nil
}

// ===== FLAG TOGGLES AND DELETE =====

// SetPublished toggles the published flag. Absent rows and rows owned by
// another creator are both reported as not found.
func (s *assessmentService) SetPublished(ctx context.Context, id, creatorID string, published bool) error {
	s.logger.Info("Toggling published flag", "assessment_id", id, "creator_id", creatorID, "published", published)

	if _, err := s.repo.Assessment().GetOwned(ctx, nil, id, creatorID); err != nil {
		return s.mapLookupError(err)
	}

	if err := s.repo.Assessment().SetPublished(ctx, nil, id, published); err != nil {
		return s.mapLookupError(err)
	}

	cache.InvalidateAssessmentCache(ctx, s.cache, id, creatorID)

	if published {
		s.publisher.PublishAssessmentEvent(ctx, events.AssessmentEvent{
			Event:        events.EventAssessmentPublished,
			AssessmentID: id,
			CreatorID:    creatorID,
			OccurredAt:   time.Now(),
		})
	}

	return nil
}

func (s *assessmentService) SetResultsPublished(ctx context.Context, id, creatorID string, published bool) error {
	s.logger.Info("Toggling results-published flag", "assessment_id", id, "creator_id", creatorID, "published", published)

	if _, err := s.repo.Assessment().GetOwned(ctx, nil, id, creatorID); err != nil {
		return s.mapLookupError(err)
	}

	if err := s.repo.Assessment().SetResultsPublished(ctx, nil, id, published); err != nil {
		return s.mapLookupError(err)
	}

	cache.InvalidateAssessmentCache(ctx, s.cache, id, creatorID)

	if published {
		s.publisher.PublishAssessmentEvent(ctx, events.AssessmentEvent{
			Event:        events.EventResultsPublished,
			AssessmentID: id,
			CreatorID:    creatorID,
			OccurredAt:   time.Now(),
		})
	}

	return nil
}

func (s *assessmentService) Delete(ctx context.Context, id, creatorID string) error {
	s.logger.Info("Deleting assessment", "assessment_id", id, "creator_id", creatorID)

	if _, err := s.repo.Assessment().GetOwned(ctx, nil, id, creatorID); err != nil {
		return s.mapLookupError(err)
	}

	if err := s.repo.Assessment().Delete(ctx, nil, id); err != nil {
		return s.mapLookupError(err)
	}

	cache.InvalidateAssessmentCache(ctx, s.cache, id, creatorID)

	return nil
}

// ===== QUESTION MANAGEMENT =====

func (s *assessmentService) GetQuestion(ctx context.Context, assessmentID, questionID, creatorID string) (*models.AssessmentQuestion, error) {
	question, err := s.ownedQuestion(ctx, assessmentID, questionID, creatorID)
	if err != nil {
		return nil, err
	}
	return question, nil
}

func (s *assessmentService) UpdateQuestion(ctx context.Context, assessmentID, questionID, creatorID string, req *UpdateQuestionRequest) (*models.AssessmentQuestion, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	question, err := s.ownedQuestion(ctx, assessmentID, questionID, creatorID)
	if err != nil {
		return nil, err
	}

	if req.Text != nil {
		question.Text = *req.Text
	}
	if req.Options != nil {
		question.Options = marshalOptions(req.Options)
	}
	if req.CorrectAnswer != nil {
		question.CorrectAnswer = req.CorrectAnswer
	}
	if req.Marks != nil {
		question.Marks = *req.Marks
	}

	if err := s.repo.Question().Update(ctx, nil, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	cache.InvalidateAssessmentCache(ctx, s.cache, assessmentID, creatorID)

	return question, nil
}

func (s *assessmentService) DeleteQuestion(ctx context.Context, assessmentID, questionID, creatorID string) error {
	if _, err := s.ownedQuestion(ctx, assessmentID, questionID, creatorID); err != nil {
		return err
	}

	if err := s.repo.Question().Delete(ctx, nil, questionID); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}

	cache.InvalidateAssessmentCache(ctx, s.cache, assessmentID, creatorID)

	return nil
}

// ownedQuestion resolves a question through its owning assessment so that
// ownership and existence checks share one lookup path.
func (s *assessmentService) ownedQuestion(ctx context.Context, assessmentID, questionID, creatorID string) (*models.AssessmentQuestion, error) {
	if _, err := s.repo.Assessment().GetOwned(ctx, nil, assessmentID, creatorID); err != nil {
		return nil, s.mapLookupError(err)
	}

	question, err := s.repo.Question().GetByID(ctx, nil, questionID)
	if err != nil {
		return nil, ErrQuestionNotFound
	}
	if question.AssessmentID != assessmentID {
		return nil, ErrQuestionNotFound
	}

	return question, nil
}

func (s *assessmentService) mapLookupError(err error) error {
	if repositories.IsNotVisible(err) {
		return ErrAssessmentNotFound
	}
	return err
}

// ===== HELPERS =====

func assessmentTypeOrDefault(raw string) models.AssessmentType {
	switch models.AssessmentType(raw) {
	case models.AssessmentOffline:
		return models.AssessmentOffline
	case models.AssessmentBlended:
		return models.AssessmentBlended
	default:
		return models.AssessmentOnline
	}
}

func marshalQuestionFormat(formats []string) datatypes.JSON {
	if len(formats) == 0 {
		return nil
	}
	data, err := json.Marshal(formats)
	if err != nil {
		return nil
	}
	return data
}

func marshalOptions(options []string) datatypes.JSON {
	data, err := json.Marshal(options)
	if err != nil {
		return nil
	}
	return data
}

// buildGeneratedQuestions converts parsed AI content into question rows.
// MCQ questions carry marks equal to the assessment difficulty; the other
// supported types carry difficulty+1. Unrecognized types are skipped.
func buildGeneratedQuestions(assessmentID string, difficulty int, content *validator.AIContent) []*models.AssessmentQuestion {
	var questions []*models.AssessmentQuestion

	for _, item := range content.Questions {
		qType := models.QuestionType(item.Type)

		var marks int
		switch qType {
		case models.QuestionMCQ:
			marks = difficulty
		case models.QuestionDescriptive, models.QuestionPractical, models.QuestionViva, models.QuestionPenPaper:
			marks = difficulty + 1
		default:
			continue
		}

		question := &models.AssessmentQuestion{
			AssessmentID:    assessmentID,
			QuestionType:    qType,
			Text:            item.Question,
			Marks:           marks,
			DifficultyLevel: difficulty,
		}
		if len(item.Options) > 0 {
			question.Options = marshalOptions(item.Options)
		}
		if item.CorrectAnswer != "" {
			answer := item.CorrectAnswer
			question.CorrectAnswer = &answer
		}

		questions = append(questions, question)
	}

	return questions
}

func dereferenceQuestions(questions []*models.AssessmentQuestion) []models.AssessmentQuestion {
	out := make([]models.AssessmentQuestion, 0, len(questions))
	for _, q := range questions {
		out = append(out, *q)
	}
	return out
}
