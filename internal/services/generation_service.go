package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/SAP-F-2025/learning-service/internal/config"
	"github.com/SAP-F-2025/learning-service/internal/validator"
	"github.com/go-resty/resty/v2"
)

// fencedJSON matches a ```json fenced block anywhere in the model output.
var fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

type generationService struct {
	client    *resty.Client
	cfg       config.AIConfig
	logger    *slog.Logger
	validator *validator.Validator
}

func NewGenerationService(cfg config.AIConfig, logger *slog.Logger, v *validator.Validator) GenerationService {
	client := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &generationService{
		client:    client,
		cfg:       cfg,
		logger:    logger,
		validator: v,
	}
}

// ===== WIRE SHAPES =====

type generateContentRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateQuestions asks the external model for a question list and parses
// the JSON payload out of its reply. Malformed output fails the request
// immediately with the raw text attached; there are no retries.
func (s *generationService) GenerateQuestions(ctx context.Context, req *GenerateQuestionsRequest) (*validator.AIContent, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	prompt := buildGenerationPrompt(req)
	s.logger.Info("Requesting question generation", "topic", req.Topic, "count", req.QuestionCount)

	var result generateContentResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("key", s.cfg.APIKey).
		SetBody(generateContentRequest{
			Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
		}).
		SetResult(&result).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", s.cfg.Model))
	if err != nil {
		return nil, &UpstreamError{Operation: "question generation", Err: err}
	}
	if resp.IsError() {
		return nil, &UpstreamError{
			Operation: "question generation",
			RawOutput: resp.String(),
			Err:       fmt.Errorf("upstream returned status %d", resp.StatusCode()),
		}
	}

	raw := firstCandidateText(&result)
	if raw == "" {
		return nil, &UpstreamError{
			Operation: "question generation",
			RawOutput: resp.String(),
			Err:       errors.New("upstream response contained no candidates"),
		}
	}

	content, err := parseGeneratedContent(raw)
	if err != nil {
		return nil, &UpstreamError{Operation: "question generation", RawOutput: raw, Err: err}
	}

	s.logger.Info("Question generation succeeded", "topic", req.Topic, "questions", len(content.Questions))

	return content, nil
}

func firstCandidateText(resp *generateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// parseGeneratedContent extracts the question list from the model output.
// The payload is usually wrapped in a fenced ```json block; bare JSON is
// accepted too.
func parseGeneratedContent(raw string) (*validator.AIContent, error) {
	payload := raw
	if match := fencedJSON.FindStringSubmatch(raw); match != nil {
		payload = match[1]
	}

	var content validator.AIContent
	if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &content); err != nil {
		return nil, fmt.Errorf("failed to parse generated content: %w", err)
	}
	if len(content.Questions) == 0 {
		return nil, errors.New("generated content contained no questions")
	}

	return &content, nil
}

func buildGenerationPrompt(req *GenerateQuestionsRequest) string {
	count := req.QuestionCount
	if count <= 0 {
		count = 10
	}
	difficulty := req.DifficultyLevel
	if difficulty == "" {
		difficulty = "MEDIUM"
	}
	formats := "MCQ"
	if len(req.QuestionFormat) > 0 {
		formats = strings.Join(req.QuestionFormat, ", ")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate %d assessment questions on the topic %q.\n", count, req.Topic)
	if req.Description != "" {
		fmt.Fprintf(&sb, "Context: %s\n", req.Description)
	}
	if req.AssessmentType != "" {
		fmt.Fprintf(&sb, "Assessment mode: %s\n", req.AssessmentType)
	}
	fmt.Fprintf(&sb, "Question formats: %s\n", formats)
	fmt.Fprintf(&sb, "Difficulty: %s\n", difficulty)
	sb.WriteString("Respond with only a JSON object of the shape ")
	sb.WriteString(`{"questions":[{"question":"...","type":"MCQ","options":["..."],"correctAnswer":"..."}]}`)
	sb.WriteString(" inside a ```json fenced code block. For non-MCQ types omit options and correctAnswer.")

	return sb.String()
}
