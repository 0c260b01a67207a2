package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	BaseHandler
	progressService services.ProgressService
}

func NewProgressHandler(progressService services.ProgressService, logger utils.Logger) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler:     NewBaseHandler(logger),
		progressService: progressService,
	}
}

// UpdateProgress upserts one chapter progress row for the caller
// @Summary Update chapter progress
// @Tags progress
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param chapterId path string true "Chapter ID"
// @Param progress body services.UpdateProgressRequest true "Progress flags"
// @Success 200 {object} models.UserProgress
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{courseId}/chapters/{chapterId}/progress [put]
func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req services.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	courseID := c.Param("courseId")
	chapterID := c.Param("chapterId")

	h.LogRequest(c, "Updating chapter progress", "course_id", courseID, "chapter_id", chapterID)

	progress, err := h.progressService.UpsertChapterProgress(c.Request.Context(), userID, courseID, chapterID, req.IsCompleted)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}
