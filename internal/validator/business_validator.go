package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/learning-service/internal/models"
)

// BusinessValidator layers domain rules on top of struct-tag validation.
type BusinessValidator struct {
	validate *validator.Validate
}

func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates a struct against its tags.
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateAssessmentCreate validates assessment creation, including the
// AI-generated content payload when present.
func (bv *BusinessValidator) ValidateAssessmentCreate(req *AssessmentCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if req.AIGenerated && req.AIContent != nil && len(req.AIContent.Questions) == 0 {
		errors = append(errors, ValidationError{
			Field:   "ai_content",
			Message: "must contain at least one question when AI generation is flagged",
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateSubmission validates a student answer submission.
func (bv *BusinessValidator) ValidateSubmission(req *SubmitResponsesRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	for i, answer := range req.Answers {
		if strings.TrimSpace(answer.QuestionID) == "" {
			errors = append(errors, ValidationError{
				Field:   "answers",
				Message: "question id is required for every answer",
				Value:   i,
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

func (bv *BusinessValidator) registerBusinessRules() {
	// Title must be non-empty after trimming, at most 200 characters.
	bv.validate.RegisterValidation("assessment_title", func(fl validator.FieldLevel) bool {
		title := strings.TrimSpace(fl.Field().String())
		return len(title) >= 1 && len(title) <= 200
	})

	// Empty difficulty labels are allowed and default to MEDIUM downstream.
	bv.validate.RegisterValidation("difficulty_label", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "", models.DifficultyLabelEasy, models.DifficultyLabelMedium, models.DifficultyLabelHard:
			return true
		}
		return false
	})

	bv.validate.RegisterValidation("assessment_type", func(fl validator.FieldLevel) bool {
		switch models.AssessmentType(fl.Field().String()) {
		case "", models.AssessmentOnline, models.AssessmentOffline, models.AssessmentBlended:
			return true
		}
		return false
	})

	bv.validate.RegisterValidation("question_type", func(fl validator.FieldLevel) bool {
		switch models.QuestionType(fl.Field().String()) {
		case models.QuestionMCQ, models.QuestionDescriptive, models.QuestionPractical,
			models.QuestionViva, models.QuestionPenPaper:
			return true
		}
		return false
	})
}
