package services

import (
	"context"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateAssessmentRequest = validator.AssessmentCreateRequest
type UpdateAssessmentRequest = validator.AssessmentUpdateRequest
type PublishResultsRequest = validator.ResultsPublishRequest
type UpdateQuestionRequest = validator.QuestionUpdateRequest
type GenerateQuestionsRequest = validator.GenerateQuestionsRequest
type SubmitResponsesRequest = validator.SubmitResponsesRequest
type UpdateProgressRequest = validator.ProgressUpdateRequest

// ===== DASHBOARD DTOs =====

type DashboardCourse struct {
	*models.Course
	Progress int `json:"progress"`
}

type StudentDashboardResponse struct {
	CompletedCourses  []*DashboardCourse `json:"completedCourses"`
	CoursesInProgress []*DashboardCourse `json:"coursesInProgress"`
}

// ===== TEACHER ANALYTICS DTOs =====

type CourseRevenue struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

type RecentSale struct {
	CourseTitle string    `json:"courseTitle"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
}

type TeacherAnalyticsResponse struct {
	Data                []CourseRevenue `json:"data"`
	TotalRevenue        float64         `json:"totalRevenue"`
	TotalSales          int             `json:"totalSales"`
	MonthlyRevenue      float64         `json:"monthlyRevenue"`
	ActiveStudents      int             `json:"activeStudents"`
	TopPerformingCourse *CourseRevenue  `json:"topPerformingCourse"`
	RecentSales         []RecentSale    `json:"recentSales"`
}

// ===== ASSESSMENT ANALYTICS DTOs =====

type AssessmentScoreSummary struct {
	Title    string `json:"title"`
	AvgScore int    `json:"avgScore"`
	Attempts int    `json:"attempts"`
}

type DifficultyBucket struct {
	Count    int `json:"count"`
	AvgScore int `json:"avgScore"`
}

type AssessmentAnalyticsResponse struct {
	Assessments      []AssessmentScoreSummary     `json:"assessments"`
	TotalAssessments int                          `json:"totalAssessments"`
	TotalAttempts    int                          `json:"totalAttempts"`
	AverageScore     int                          `json:"averageScore"`
	ByDifficulty     map[string]*DifficultyBucket `json:"byDifficulty"`
}

// ===== STUDENT PERFORMANCE DTOs =====

type CoursePerformance struct {
	CourseID          string    `json:"courseId"`
	Title             string    `json:"title"`
	Progress          int       `json:"progress"`
	ChaptersCompleted int       `json:"chaptersCompleted"`
	TotalChapters     int       `json:"totalChapters"`
	LastAccessed      time.Time `json:"lastAccessed"`
}

type AssessmentResult struct {
	AssessmentID string    `json:"assessmentId"`
	Title        string    `json:"title"`
	Score        float64   `json:"score"`
	CompletedAt  time.Time `json:"completedAt"`
	Difficulty   string    `json:"difficulty"`
}

type StudentPerformanceResponse struct {
	Courses     []CoursePerformance `json:"courses"`
	Assessments []AssessmentResult  `json:"assessments"`
}

type TrendPoint struct {
	Month             string `json:"month"`
	ChaptersCompleted int    `json:"chaptersCompleted"`
	AvgScore          int    `json:"avgScore"`
}

type StudentSummary struct {
	StudentID        string `json:"studentId"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	CoursesPurchased int    `json:"coursesPurchased"`
	AssessmentsTaken int    `json:"assessmentsTaken"`
}

// ===== ASSESSMENT DTOs =====

type AssessmentListResponse struct {
	Assessments []*models.Assessment `json:"assessments"`
	Total       int64                `json:"total"`
}

// ===== SUBMISSION DTOs =====

// SessionView is the instructor-facing session listing entry. AnsweredMarks
// is a provisional completeness metric (full marks credited for every
// answered question), distinct from the graded Score on the session itself.
type SessionView struct {
	*models.AssessmentSession
	AnsweredMarks int `json:"answeredMarks"`
}

// ===== EXPORT DTOs =====

type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ===== SERVICE INTERFACES =====

// ProgressService computes and records chapter completion. GetCourseProgress
// never fails: data-access errors degrade to 0 so the hosting page renders.
type ProgressService interface {
	GetCourseProgress(ctx context.Context, userID, courseID string) int
	UpsertChapterProgress(ctx context.Context, userID, courseID, chapterID string, isCompleted bool) (*models.UserProgress, error)
}

// DashboardService composes the student dashboard. Errors degrade to empty
// lists, never propagate.
type DashboardService interface {
	GetStudentDashboard(ctx context.Context, userID string) *StudentDashboardResponse
}

// TeacherAnalyticsService aggregates revenue and sales for one teacher.
// Errors degrade to a fully zeroed response.
type TeacherAnalyticsService interface {
	GetTeacherAnalytics(ctx context.Context, teacherID string) *TeacherAnalyticsResponse
}

// AssessmentAnalyticsService aggregates session scores per assessment and
// per difficulty band. Errors degrade to zeroed totals with all three
// buckets present.
type AssessmentAnalyticsService interface {
	GetAssessmentAnalytics(ctx context.Context, teacherID string) *AssessmentAnalyticsResponse
}

// StudentPerformanceService is the teacher-facing "inspect one student"
// view. Snapshot and trend degrade to empty shapes on error; ListStudents
// is a plain listing and propagates.
type StudentPerformanceService interface {
	GetPerformanceSnapshot(ctx context.Context, teacherID, studentID string) *StudentPerformanceResponse
	GetEnrollmentTrend(ctx context.Context, teacherID, studentID string) []TrendPoint
	ListStudents(ctx context.Context, teacherID string) ([]StudentSummary, error)
}

type AssessmentService interface {
	// Create persists the assessment and, for AI-generated content, its
	// question rows in a single transaction.
	Create(ctx context.Context, req *CreateAssessmentRequest, creatorID string) (*models.Assessment, error)

	// Get returns the detail view: creators see their own assessments with
	// questions, students see published ones only.
	Get(ctx context.Context, id, userID string, role models.UserRole) (*models.Assessment, error)
	List(ctx context.Context, creatorID string, filters repositories.AssessmentFilters) (*AssessmentListResponse, error)
	ListPublished(ctx context.Context, filters repositories.AssessmentFilters) ([]*models.Assessment, error)

	// Flag toggles and delete, creator-scoped. Absent and not-owned rows are
	// both reported as not found.
	SetPublished(ctx context.Context, id, creatorID string, published bool) error
	SetResultsPublished(ctx context.Context, id, creatorID string, published bool) error
	Delete(ctx context.Context, id, creatorID string) error

	// Question management, creator-scoped through the owning assessment.
	GetQuestion(ctx context.Context, assessmentID, questionID, creatorID string) (*models.AssessmentQuestion, error)
	UpdateQuestion(ctx context.Context, assessmentID, questionID, creatorID string, req *UpdateQuestionRequest) (*models.AssessmentQuestion, error)
	DeleteQuestion(ctx context.Context, assessmentID, questionID, creatorID string) error
}

// GenerationService delegates question authoring to the external model.
type GenerationService interface {
	GenerateQuestions(ctx context.Context, req *GenerateQuestionsRequest) (*validator.AIContent, error)
}

type SubmissionService interface {
	// Submit records one completed session plus one response row per answer,
	// transactionally. Published assessments only.
	Submit(ctx context.Context, assessmentID, studentID string, req *SubmitResponsesRequest) (*models.AssessmentSession, error)

	// ListSessions is the instructor grading view, newest end time first.
	ListSessions(ctx context.Context, assessmentID, teacherID string) ([]*SessionView, error)

	// GetStudentResult returns the student's own session, visible only when
	// the assessment is published and its results are published.
	GetStudentResult(ctx context.Context, assessmentID, studentID string) (*models.AssessmentSession, error)
}

type ExportService interface {
	// ExportResults renders the session table as "csv" or "xlsx".
	ExportResults(ctx context.Context, assessmentID, teacherID, format string) (*ExportResult, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Progress() ProgressService
	Dashboard() DashboardService
	TeacherAnalytics() TeacherAnalyticsService
	AssessmentAnalytics() AssessmentAnalyticsService
	StudentPerformance() StudentPerformanceService
	Assessment() AssessmentService
	Generation() GenerationService
	Submission() SubmissionService
	Export() ExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
