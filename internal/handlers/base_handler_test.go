package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/SAP-F-2025/learning-service/internal/validator"
	"github.com/gin-gonic/gin"
)

func testHandlerLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBaseHandler_HandleServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewBaseHandler(testHandlerLogger())

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "assessment not found", err: services.ErrAssessmentNotFound, wantStatus: http.StatusNotFound},
		{name: "ownership failure reads as not found", err: repositories.ErrNotVisible, wantStatus: http.StatusNotFound},
		{name: "results not released", err: services.ErrResultsNotAvailable, wantStatus: http.StatusNotFound},
		{name: "unauthorized", err: services.ErrUnauthorized, wantStatus: http.StatusUnauthorized},
		{name: "forbidden", err: services.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "bad request", err: services.ErrBadRequest, wantStatus: http.StatusBadRequest},
		{name: "validation errors", err: validator.ValidationErrors{{Field: "title", Message: "required"}}, wantStatus: http.StatusBadRequest},
		{name: "upstream failure", err: &services.UpstreamError{Operation: "question generation", Err: errors.New("boom")}, wantStatus: http.StatusInternalServerError},
		{name: "unknown error", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)

			h.handleServiceError(c, tt.err)

			if recorder.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", recorder.Code, tt.wantStatus)
			}
		})
	}
}

func TestBaseHandler_RequireUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewBaseHandler(testHandlerLogger())

	t.Run("authenticated", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Set("user_id", "user-1")

		userID, ok := h.requireUserID(c)
		if !ok || userID != "user-1" {
			t.Errorf("requireUserID = %q, %v", userID, ok)
		}
	})

	t.Run("missing identity", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)

		if _, ok := h.requireUserID(c); ok {
			t.Error("expected failure without user_id in context")
		}
		if recorder.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", recorder.Code)
		}
	})
}
