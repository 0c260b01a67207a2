package handlers

import (
	"net/http"
	"strconv"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type AssessmentHandler struct {
	BaseHandler
	assessmentService services.AssessmentService
	generationService services.GenerationService
}

func NewAssessmentHandler(
	assessmentService services.AssessmentService,
	generationService services.GenerationService,
	logger utils.Logger,
) *AssessmentHandler {
	return &AssessmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assessmentService: assessmentService,
		generationService: generationService,
	}
}

// CreateAssessment creates a new assessment
// @Summary Create assessment
// @Description Creates an assessment; AI-generated question content is persisted in the same transaction
// @Tags assessments
// @Accept json
// @Produce json
// @Param assessment body services.CreateAssessmentRequest true "Assessment data"
// @Success 201 {object} models.Assessment
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /assessments [post]
func (h *AssessmentHandler) CreateAssessment(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req services.CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	assessment, err := h.assessmentService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assessment)
}

// ListAssessments lists the caller's own assessments
// @Summary List own assessments
// @Tags assessments
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Param type query string false "Question format filter"
// @Success 200 {object} services.AssessmentListResponse
// @Failure 401 {object} ErrorResponse
// @Router /assessments [get]
func (h *AssessmentHandler) ListAssessments(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	response, err := h.assessmentService.List(c.Request.Context(), userID, parseAssessmentFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListPublishedAssessments lists published assessments for students
// @Summary List published assessments
// @Tags assessments
// @Produce json
// @Success 200 {array} models.Assessment
// @Failure 401 {object} ErrorResponse
// @Router /assessments/published [get]
func (h *AssessmentHandler) ListPublishedAssessments(c *gin.Context) {
	if _, ok := h.requireUserID(c); !ok {
		return
	}

	assessments, err := h.assessmentService.ListPublished(c.Request.Context(), parseAssessmentFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessments)
}

// GetAssessment retrieves one assessment; creators see their own drafts,
// students only published ones
// @Summary Get assessment
// @Tags assessments
// @Produce json
// @Param id path string true "Assessment ID"
// @Success 200 {object} models.Assessment
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id} [get]
func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	assessment, err := h.assessmentService.Get(c.Request.Context(), c.Param("id"), userID, h.userRole(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// UpdateAssessment toggles the published flag
// @Summary Toggle assessment published flag
// @Tags assessments
// @Accept json
// @Produce json
// @Param id path string true "Assessment ID"
// @Param body body services.UpdateAssessmentRequest true "Published flag"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id} [patch]
func (h *AssessmentHandler) UpdateAssessment(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req services.UpdateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsPublished == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "isPublished is required",
		})
		return
	}

	if err := h.assessmentService.SetPublished(c.Request.Context(), c.Param("id"), userID, *req.IsPublished); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "isPublished": *req.IsPublished})
}

// PublishResults toggles the results-published flag
// @Summary Toggle results visibility
// @Tags assessments
// @Accept json
// @Produce json
// @Param id path string true "Assessment ID"
// @Param body body services.PublishResultsRequest true "Results-published flag"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id}/publish-results [patch]
func (h *AssessmentHandler) PublishResults(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req services.PublishResultsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ResultsPublished == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "resultsPublished is required",
		})
		return
	}

	if err := h.assessmentService.SetResultsPublished(c.Request.Context(), c.Param("id"), userID, *req.ResultsPublished); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "resultsPublished": *req.ResultsPublished})
}

// DeleteAssessment removes a creator's assessment
// @Summary Delete assessment
// @Tags assessments
// @Param id path string true "Assessment ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id} [delete]
func (h *AssessmentHandler) DeleteAssessment(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.assessmentService.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GenerateQuestions delegates question authoring to the external model
// @Summary Generate assessment questions
// @Tags assessments
// @Accept json
// @Produce json
// @Param body body services.GenerateQuestionsRequest true "Generation parameters"
// @Success 200 {object} validator.AIContent
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /assessments/generate [post]
func (h *AssessmentHandler) GenerateQuestions(c *gin.Context) {
	if _, ok := h.requireUserID(c); !ok {
		return
	}

	var req services.GenerateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	content, err := h.generationService.GenerateQuestions(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, content)
}

// ===== QUESTION SUBROUTES =====

// GetQuestion returns one question of the caller's assessment
// @Summary Get question
// @Tags assessments
// @Produce json
// @Param id path string true "Assessment ID"
// @Param questionId path string true "Question ID"
// @Success 200 {object} models.AssessmentQuestion
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id}/questions/{questionId} [get]
func (h *AssessmentHandler) GetQuestion(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	question, err := h.assessmentService.GetQuestion(c.Request.Context(), c.Param("id"), c.Param("questionId"), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// UpdateQuestion partially updates one question
// @Summary Update question
// @Tags assessments
// @Accept json
// @Produce json
// @Param id path string true "Assessment ID"
// @Param questionId path string true "Question ID"
// @Param body body services.UpdateQuestionRequest true "Question fields"
// @Success 200 {object} models.AssessmentQuestion
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id}/questions/{questionId} [patch]
func (h *AssessmentHandler) UpdateQuestion(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	question, err := h.assessmentService.UpdateQuestion(c.Request.Context(), c.Param("id"), c.Param("questionId"), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion removes one question from the caller's assessment
// @Summary Delete question
// @Tags assessments
// @Param id path string true "Assessment ID"
// @Param questionId path string true "Question ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id}/questions/{questionId} [delete]
func (h *AssessmentHandler) DeleteQuestion(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.assessmentService.DeleteQuestion(c.Request.Context(), c.Param("id"), c.Param("questionId"), userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// parseAssessmentFilters extracts the common list query parameters.
func parseAssessmentFilters(c *gin.Context) repositories.AssessmentFilters {
	var filters repositories.AssessmentFilters

	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil {
		filters.Offset = offset
	}
	if raw := c.Query("type"); raw != "" {
		qType := models.QuestionType(raw)
		filters.Type = &qType
	}
	filters.SortBy = c.DefaultQuery("sortBy", "created_at")
	filters.SortOrder = c.DefaultQuery("sortOrder", "desc")

	return filters
}
