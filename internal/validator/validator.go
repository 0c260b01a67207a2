package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// ToValidationErrors converts go-playground validator errors into domain
// validation errors.
func ToValidationErrors(err error) ValidationErrors {
	var errors ValidationErrors
	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrors {
			errors = append(errors, ValidationError{
				Field:   fe.Field(),
				Message: defaultErrorMessage(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
	}
	return errors
}

func defaultErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "assessment_title":
		return "must be between 1 and 200 characters"
	case "difficulty_label":
		return "must be EASY, MEDIUM, or HARD"
	case "assessment_type":
		return "must be ONLINE, OFFLINE, or BLENDED"
	case "question_type":
		return "must be a valid question type"
	default:
		return fmt.Sprintf("validation failed for rule '%s'", fe.Tag())
	}
}

// Validator wraps the struct validator and the business rule validator.
type Validator struct {
	business *BusinessValidator
}

func New() *Validator {
	return &Validator{business: NewBusinessValidator()}
}

// Validate validates a struct and returns domain validation errors, nil when
// the struct is valid.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	return v.business.Validate(s)
}

func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}
