package validator

// AIQuestion is one question entry in the generated content payload.
type AIQuestion struct {
	Question      string   `json:"question" validate:"required"`
	Type          string   `json:"type" validate:"required"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
}

// AIContent is the parsed question-list payload returned by the generation
// service and optionally attached to an assessment create request.
type AIContent struct {
	Questions []AIQuestion `json:"questions" validate:"required,dive"`
}

// AssessmentCreateRequest represents the request structure for creating
// assessments.
type AssessmentCreateRequest struct {
	Title           string     `json:"title" validate:"required,assessment_title"`
	Description     *string    `json:"description" validate:"omitempty,max=2000"`
	AssessmentType  string     `json:"assessmentType" validate:"omitempty,assessment_type"`
	QuestionFormat  []string   `json:"questionFormat" validate:"omitempty,dive,question_type"`
	InclusivityMode bool       `json:"inclusivityMode"`
	DifficultyLevel string     `json:"difficultyLevel" validate:"omitempty,difficulty_label"`
	CourseID        *string    `json:"courseId"`
	AIGenerated     bool       `json:"aiGenerated"`
	AIContent       *AIContent `json:"aiContent,omitempty"`
}

// AssessmentUpdateRequest toggles the published flag.
type AssessmentUpdateRequest struct {
	IsPublished *bool `json:"isPublished" validate:"required"`
}

// ResultsPublishRequest toggles the results-published flag.
type ResultsPublishRequest struct {
	ResultsPublished *bool `json:"resultsPublished" validate:"required"`
}

// QuestionUpdateRequest represents a partial update to one question.
type QuestionUpdateRequest struct {
	Text          *string  `json:"text" validate:"omitempty,min=1"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer *string  `json:"correctAnswer,omitempty"`
	Marks         *int     `json:"marks" validate:"omitempty,min=0,max=100"`
}

// GenerateQuestionsRequest represents the AI question-generation request.
type GenerateQuestionsRequest struct {
	Topic           string   `json:"topic" validate:"required,min=1"`
	Description     string   `json:"description"`
	AssessmentType  string   `json:"assessmentType" validate:"omitempty,assessment_type"`
	QuestionFormat  []string `json:"questionFormat" validate:"omitempty,dive,question_type"`
	DifficultyLevel string   `json:"difficultyLevel" validate:"omitempty,difficulty_label"`
	QuestionCount   int      `json:"questionCount" validate:"omitempty,min=1,max=50"`
}

// AnswerInput is one submitted answer.
type AnswerInput struct {
	QuestionID string `json:"questionId" validate:"required"`
	Answer     string `json:"answer"`
}

// SubmitResponsesRequest represents a student's answer submission.
type SubmitResponsesRequest struct {
	Answers []AnswerInput `json:"answers" validate:"required,min=1,dive"`
}

// ProgressUpdateRequest upserts one chapter progress row.
type ProgressUpdateRequest struct {
	IsCompleted bool `json:"isCompleted"`
}
