package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/gin-gonic/gin"
)

type stubProgressService struct {
	services.ProgressService

	upsert func(ctx context.Context, userID, courseID, chapterID string, isCompleted bool) (*models.UserProgress, error)
}

func (s *stubProgressService) UpsertChapterProgress(ctx context.Context, userID, courseID, chapterID string, isCompleted bool) (*models.UserProgress, error) {
	return s.upsert(ctx, userID, courseID, chapterID, isCompleted)
}

func TestProgressHandler_UpdateProgress(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("writes progress", func(t *testing.T) {
		var gotCourse, gotChapter string
		svc := &stubProgressService{
			upsert: func(ctx context.Context, userID, courseID, chapterID string, isCompleted bool) (*models.UserProgress, error) {
				gotCourse, gotChapter = courseID, chapterID
				return &models.UserProgress{UserID: userID, ChapterID: chapterID, IsCompleted: isCompleted}, nil
			},
		}
		handler := NewProgressHandler(svc, testHandlerLogger())

		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Set("user_id", "student-1")
		c.Params = gin.Params{{Key: "courseId", Value: "c-1"}, {Key: "chapterId", Value: "ch-1"}}
		c.Request = httptest.NewRequest(http.MethodPut, "/courses/c-1/chapters/ch-1/progress",
			strings.NewReader(`{"isCompleted":true}`))
		c.Request.Header.Set("Content-Type", "application/json")

		handler.UpdateProgress(c)

		if recorder.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", recorder.Code, recorder.Body.String())
		}
		if gotCourse != "c-1" || gotChapter != "ch-1" {
			t.Errorf("service called with course %q chapter %q", gotCourse, gotChapter)
		}
	})

	t.Run("unknown chapter maps to 404", func(t *testing.T) {
		svc := &stubProgressService{
			upsert: func(ctx context.Context, userID, courseID, chapterID string, isCompleted bool) (*models.UserProgress, error) {
				return nil, services.ErrChapterNotFound
			},
		}
		handler := NewProgressHandler(svc, testHandlerLogger())

		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Set("user_id", "student-1")
		c.Request = httptest.NewRequest(http.MethodPut, "/courses/c-1/chapters/missing/progress",
			strings.NewReader(`{"isCompleted":true}`))
		c.Request.Header.Set("Content-Type", "application/json")

		handler.UpdateProgress(c)

		if recorder.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", recorder.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		handler := NewProgressHandler(&stubProgressService{}, testHandlerLogger())

		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Set("user_id", "student-1")
		c.Request = httptest.NewRequest(http.MethodPut, "/courses/c-1/chapters/ch-1/progress",
			strings.NewReader(`{`))
		c.Request.Header.Set("Content-Type", "application/json")

		handler.UpdateProgress(c)

		if recorder.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", recorder.Code)
		}
	})
}
