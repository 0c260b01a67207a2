package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	BaseHandler
	teacherAnalytics    services.TeacherAnalyticsService
	assessmentAnalytics services.AssessmentAnalyticsService
	studentPerformance  services.StudentPerformanceService
}

func NewAnalyticsHandler(
	teacherAnalytics services.TeacherAnalyticsService,
	assessmentAnalytics services.AssessmentAnalyticsService,
	studentPerformance services.StudentPerformanceService,
	logger utils.Logger,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:         NewBaseHandler(logger),
		teacherAnalytics:    teacherAnalytics,
		assessmentAnalytics: assessmentAnalytics,
		studentPerformance:  studentPerformance,
	}
}

// GetTeacherAnalytics returns revenue and sales aggregates for the caller
// @Summary Teacher revenue analytics
// @Tags analytics
// @Produce json
// @Success 200 {object} services.TeacherAnalyticsResponse
// @Failure 401 {object} ErrorResponse
// @Router /analytics/teacher [get]
func (h *AnalyticsHandler) GetTeacherAnalytics(c *gin.Context) {
	teacherID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.teacherAnalytics.GetTeacherAnalytics(c.Request.Context(), teacherID))
}

// GetAssessmentAnalytics returns per-assessment and per-difficulty score
// aggregates for the caller's assessments
// @Summary Assessment score analytics
// @Tags analytics
// @Produce json
// @Success 200 {object} services.AssessmentAnalyticsResponse
// @Failure 401 {object} ErrorResponse
// @Router /analytics/assessments [get]
func (h *AnalyticsHandler) GetAssessmentAnalytics(c *gin.Context) {
	teacherID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.assessmentAnalytics.GetAssessmentAnalytics(c.Request.Context(), teacherID))
}

// ListStudents returns every student enrolled in the caller's courses
// @Summary List enrolled students
// @Tags analytics
// @Produce json
// @Success 200 {array} services.StudentSummary
// @Failure 401 {object} ErrorResponse
// @Router /analytics/students [get]
func (h *AnalyticsHandler) ListStudents(c *gin.Context) {
	teacherID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	students, err := h.studentPerformance.ListStudents(c.Request.Context(), teacherID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// GetStudentPerformance returns one student's standing across the caller's
// courses and assessments
// @Summary Student performance snapshot
// @Tags analytics
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} services.StudentPerformanceResponse
// @Failure 401 {object} ErrorResponse
// @Router /analytics/students/{studentId}/performance [get]
func (h *AnalyticsHandler) GetStudentPerformance(c *gin.Context) {
	teacherID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	studentID := c.Param("studentId")

	h.LogRequest(c, "Getting student performance", "student_id", studentID)

	c.JSON(http.StatusOK, h.studentPerformance.GetPerformanceSnapshot(c.Request.Context(), teacherID, studentID))
}

// GetStudentTrend returns the student's six-month activity trend
// @Summary Student enrollment trend
// @Tags analytics
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {array} services.TrendPoint
// @Failure 401 {object} ErrorResponse
// @Router /analytics/students/{studentId}/trend [get]
func (h *AnalyticsHandler) GetStudentTrend(c *gin.Context) {
	teacherID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	studentID := c.Param("studentId")

	c.JSON(http.StatusOK, h.studentPerformance.GetEnrollmentTrend(c.Request.Context(), teacherID, studentID))
}
