package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/config"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

type HandlerManager struct {
	progressHandler   *ProgressHandler
	dashboardHandler  *DashboardHandler
	analyticsHandler  *AnalyticsHandler
	assessmentHandler *AssessmentHandler
	submissionHandler *SubmissionHandler
	authMiddleware    *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		progressHandler:  NewProgressHandler(serviceManager.Progress(), logger),
		dashboardHandler: NewDashboardHandler(serviceManager.Dashboard(), logger),
		analyticsHandler: NewAnalyticsHandler(
			serviceManager.TeacherAnalytics(),
			serviceManager.AssessmentAnalytics(),
			serviceManager.StudentPerformance(),
			logger,
		),
		assessmentHandler: NewAssessmentHandler(serviceManager.Assessment(), serviceManager.Generation(), logger),
		submissionHandler: NewSubmissionHandler(serviceManager.Submission(), serviceManager.Export(), logger),
		authMiddleware:    authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		teacherOnly := hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin)

		// Chapter progress - authenticated students
		v1.PUT("/courses/:courseId/chapters/:chapterId/progress", hm.progressHandler.UpdateProgress)

		// Student dashboard
		v1.GET("/dashboard/courses", hm.dashboardHandler.GetDashboardCourses)

		// Analytics - Teachers and Admins only
		analytics := v1.Group("/analytics")
		analytics.Use(teacherOnly)
		{
			analytics.GET("/teacher", hm.analyticsHandler.GetTeacherAnalytics)
			analytics.GET("/assessments", hm.analyticsHandler.GetAssessmentAnalytics)
			analytics.GET("/students", hm.analyticsHandler.ListStudents)
			analytics.GET("/students/:studentId/performance", hm.analyticsHandler.GetStudentPerformance)
			analytics.GET("/students/:studentId/trend", hm.analyticsHandler.GetStudentTrend)
		}

		// Assessment routes
		assessments := v1.Group("/assessments")
		{
			// Authoring - Teachers and Admins only
			assessments.POST("", teacherOnly, hm.assessmentHandler.CreateAssessment)
			assessments.GET("", teacherOnly, hm.assessmentHandler.ListAssessments)
			assessments.POST("/generate", teacherOnly, hm.assessmentHandler.GenerateQuestions)
			assessments.PATCH("/:id", teacherOnly, hm.assessmentHandler.UpdateAssessment)
			assessments.DELETE("/:id", teacherOnly, hm.assessmentHandler.DeleteAssessment)
			assessments.PATCH("/:id/publish-results", teacherOnly, hm.assessmentHandler.PublishResults)

			// Question management - Teachers and Admins only
			assessments.GET("/:id/questions/:questionId", teacherOnly, hm.assessmentHandler.GetQuestion)
			assessments.PATCH("/:id/questions/:questionId", teacherOnly, hm.assessmentHandler.UpdateQuestion)
			assessments.DELETE("/:id/questions/:questionId", teacherOnly, hm.assessmentHandler.DeleteQuestion)

			// Viewing - all authenticated users
			assessments.GET("/published", hm.assessmentHandler.ListPublishedAssessments)
			assessments.GET("/:id", hm.assessmentHandler.GetAssessment)

			// Submissions and results
			assessments.POST("/:id/responses", hm.submissionHandler.SubmitResponses)
			assessments.GET("/:id/responses", teacherOnly, hm.submissionHandler.ListResponses)
			assessments.GET("/:id/student-results", hm.submissionHandler.GetStudentResult)
			assessments.GET("/:id/export-results", teacherOnly, hm.submissionHandler.ExportResults)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "learning-service",
		})
	})
}
