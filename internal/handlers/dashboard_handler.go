package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	BaseHandler
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      NewBaseHandler(logger),
		dashboardService: dashboardService,
	}
}

// GetDashboardCourses returns the caller's purchased courses split into
// completed and in-progress
// @Summary Student dashboard courses
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.StudentDashboardResponse
// @Failure 401 {object} ErrorResponse
// @Router /dashboard/courses [get]
func (h *DashboardHandler) GetDashboardCourses(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	// The aggregator never fails; degraded data renders as empty lists.
	response := h.dashboardService.GetStudentDashboard(c.Request.Context(), userID)

	c.JSON(http.StatusOK, response)
}
