package handlers

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	BaseHandler
	submissionService services.SubmissionService
	exportService     services.ExportService
}

func NewSubmissionHandler(submissionService services.SubmissionService, exportService services.ExportService, logger utils.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       NewBaseHandler(logger),
		submissionService: submissionService,
		exportService:     exportService,
	}
}

// SubmitResponses records the caller's answer set for a published assessment
// @Summary Submit assessment responses
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path string true "Assessment ID"
// @Param body body services.SubmitResponsesRequest true "Answer set"
// @Success 201 {object} models.AssessmentSession
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id}/responses [post]
func (h *SubmissionHandler) SubmitResponses(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req services.SubmitResponsesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	session, err := h.submissionService.Submit(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// ListResponses is the instructor grading view of every session
// @Summary List assessment sessions
// @Tags submissions
// @Produce json
// @Param id path string true "Assessment ID"
// @Success 200 {array} services.SessionView
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id}/responses [get]
func (h *SubmissionHandler) ListResponses(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	sessions, err := h.submissionService.ListSessions(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// GetStudentResult returns the caller's own graded session, visible only
// once the assessment and its results are published
// @Summary Get own assessment result
// @Tags submissions
// @Produce json
// @Param id path string true "Assessment ID"
// @Success 200 {object} models.AssessmentSession
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id}/student-results [get]
func (h *SubmissionHandler) GetStudentResult(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	session, err := h.submissionService.GetStudentResult(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// ExportResults streams the session table as a CSV or XLSX attachment
// @Summary Export assessment results
// @Tags submissions
// @Produce text/csv
// @Param id path string true "Assessment ID"
// @Param format query string false "csv (default) or xlsx"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id}/export-results [get]
func (h *SubmissionHandler) ExportResults(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	result, err := h.exportService.ExportResults(c.Request.Context(), c.Param("id"), userID, c.Query("format"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
