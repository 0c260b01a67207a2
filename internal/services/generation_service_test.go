package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/config"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

func generationServiceFor(serverURL string) GenerationService {
	return NewGenerationService(config.AIConfig{
		Endpoint: serverURL,
		APIKey:   "test-key",
		Model:    "test-model",
		Timeout:  5 * time.Second,
	}, testLogger(), validator.New())
}

func geminiReply(text string) string {
	payload := strings.ReplaceAll(text, `"`, `\"`)
	payload = strings.ReplaceAll(payload, "\n", `\n`)
	return `{"candidates":[{"content":{"parts":[{"text":"` + payload + `"}]}}]}`
}

func TestGenerationService_GenerateQuestions(t *testing.T) {
	var gotPath, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(geminiReply("Here you go:\n```json\n{\"questions\":[{\"question\":\"Pick one\",\"type\":\"MCQ\",\"options\":[\"a\",\"b\"],\"correctAnswer\":\"a\"}]}\n```")))
	}))
	defer server.Close()

	svc := generationServiceFor(server.URL)

	content, err := svc.GenerateQuestions(context.Background(), &GenerateQuestionsRequest{Topic: "physics"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/v1beta/models/test-model:generateContent" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("key query param = %q", gotKey)
	}

	if len(content.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(content.Questions))
	}
	q := content.Questions[0]
	if q.Question != "Pick one" || q.Type != "MCQ" || q.CorrectAnswer != "a" {
		t.Errorf("unexpected question: %+v", q)
	}
}

func TestGenerationService_UpstreamErrorCarriesRawOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := generationServiceFor(server.URL)

	_, err := svc.GenerateQuestions(context.Background(), &GenerateQuestionsRequest{Topic: "physics"})
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if !strings.Contains(upstream.RawOutput, "quota exceeded") {
		t.Errorf("raw output not preserved: %q", upstream.RawOutput)
	}
}

func TestGenerationService_MalformedOutputFailsWithoutRetry(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(geminiReply("I could not generate questions, sorry.")))
	}))
	defer server.Close()

	svc := generationServiceFor(server.URL)

	_, err := svc.GenerateQuestions(context.Background(), &GenerateQuestionsRequest{Topic: "physics"})
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 upstream call, got %d", calls)
	}
}

func TestGenerationService_MissingTopic(t *testing.T) {
	svc := generationServiceFor("http://unused.invalid")

	_, err := svc.GenerateQuestions(context.Background(), &GenerateQuestionsRequest{})
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		t.Errorf("expected validation errors, got %v", err)
	}
}

func TestParseGeneratedContent(t *testing.T) {
	valid := `{"questions":[{"question":"Pick one","type":"MCQ"}]}`

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "fenced json", raw: "preamble\n```json\n" + valid + "\n```\ntrailer"},
		{name: "bare json", raw: valid},
		{name: "not json", raw: "no questions here", wantErr: true},
		{name: "empty question list", raw: `{"questions":[]}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := parseGeneratedContent(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(content.Questions) != 1 {
				t.Errorf("expected 1 question, got %d", len(content.Questions))
			}
		})
	}
}

func TestBuildGenerationPrompt_Defaults(t *testing.T) {
	prompt := buildGenerationPrompt(&GenerateQuestionsRequest{Topic: "chemistry"})

	if !strings.Contains(prompt, "Generate 10 assessment questions") {
		t.Errorf("default count missing: %q", prompt)
	}
	if !strings.Contains(prompt, "Difficulty: MEDIUM") {
		t.Errorf("default difficulty missing: %q", prompt)
	}
	if !strings.Contains(prompt, "Question formats: MCQ") {
		t.Errorf("default format missing: %q", prompt)
	}
	if !strings.Contains(prompt, "```json") {
		t.Errorf("fenced output instruction missing: %q", prompt)
	}
}
