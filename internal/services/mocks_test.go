package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"gorm.io/gorm"
)

// Shared test doubles. Each stub embeds the interface it fakes so only the
// methods a test actually uses need a function assigned; calling anything
// else panics, which is exactly what we want from an unexpected call.

type stubRepository struct {
	course     repositories.CourseRepository
	progress   repositories.ProgressRepository
	assessment repositories.AssessmentRepository
	question   repositories.QuestionRepository
	session    repositories.SessionRepository
	user       repositories.UserRepository
}

func (s *stubRepository) Course() repositories.CourseRepository         { return s.course }
func (s *stubRepository) Progress() repositories.ProgressRepository     { return s.progress }
func (s *stubRepository) Assessment() repositories.AssessmentRepository { return s.assessment }
func (s *stubRepository) Question() repositories.QuestionRepository     { return s.question }
func (s *stubRepository) Session() repositories.SessionRepository       { return s.session }
func (s *stubRepository) User() repositories.UserRepository             { return s.user }

func (s *stubRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(s)
}
func (s *stubRepository) Ping(ctx context.Context) error { return nil }
func (s *stubRepository) Close() error                   { return nil }

type stubCourseRepo struct {
	repositories.CourseRepository

	getChapterByID               func(ctx context.Context, tx *gorm.DB, id string) (*models.Chapter, error)
	getPublishedChapterIDs       func(ctx context.Context, tx *gorm.DB, courseID string) ([]string, error)
	getChapterIDs                func(ctx context.Context, tx *gorm.DB, courseID string) ([]string, error)
	getPurchasesByUser           func(ctx context.Context, tx *gorm.DB, userID string) ([]*models.Purchase, error)
	getPurchasesByTeacher        func(ctx context.Context, tx *gorm.DB, teacherID string) ([]*models.Purchase, error)
	getPurchasesByUserAndTeacher func(ctx context.Context, tx *gorm.DB, userID, teacherID string) ([]*models.Purchase, error)
}

func (s *stubCourseRepo) GetChapterByID(ctx context.Context, tx *gorm.DB, id string) (*models.Chapter, error) {
	return s.getChapterByID(ctx, tx, id)
}
func (s *stubCourseRepo) GetPublishedChapterIDs(ctx context.Context, tx *gorm.DB, courseID string) ([]string, error) {
	return s.getPublishedChapterIDs(ctx, tx, courseID)
}
func (s *stubCourseRepo) GetChapterIDs(ctx context.Context, tx *gorm.DB, courseID string) ([]string, error) {
	return s.getChapterIDs(ctx, tx, courseID)
}
func (s *stubCourseRepo) GetPurchasesByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.Purchase, error) {
	return s.getPurchasesByUser(ctx, tx, userID)
}
func (s *stubCourseRepo) GetPurchasesByTeacher(ctx context.Context, tx *gorm.DB, teacherID string) ([]*models.Purchase, error) {
	return s.getPurchasesByTeacher(ctx, tx, teacherID)
}
func (s *stubCourseRepo) GetPurchasesByUserAndTeacher(ctx context.Context, tx *gorm.DB, userID, teacherID string) ([]*models.Purchase, error) {
	return s.getPurchasesByUserAndTeacher(ctx, tx, userID, teacherID)
}

type stubProgressRepo struct {
	repositories.ProgressRepository

	upsert               func(ctx context.Context, tx *gorm.DB, userID, chapterID string, isCompleted bool) (*models.UserProgress, error)
	countCompleted       func(ctx context.Context, tx *gorm.DB, userID string, chapterIDs []string) (int64, error)
	getByUserAndChapters func(ctx context.Context, tx *gorm.DB, userID string, chapterIDs []string) ([]*models.UserProgress, error)
	getCompletedInRange  func(ctx context.Context, tx *gorm.DB, userID string, chapterIDs []string, from, to time.Time) ([]*models.UserProgress, error)
}

func (s *stubProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, userID, chapterID string, isCompleted bool) (*models.UserProgress, error) {
	return s.upsert(ctx, tx, userID, chapterID, isCompleted)
}
func (s *stubProgressRepo) CountCompleted(ctx context.Context, tx *gorm.DB, userID string, chapterIDs []string) (int64, error) {
	return s.countCompleted(ctx, tx, userID, chapterIDs)
}
func (s *stubProgressRepo) GetByUserAndChapters(ctx context.Context, tx *gorm.DB, userID string, chapterIDs []string) ([]*models.UserProgress, error) {
	return s.getByUserAndChapters(ctx, tx, userID, chapterIDs)
}
func (s *stubProgressRepo) GetCompletedInRange(ctx context.Context, tx *gorm.DB, userID string, chapterIDs []string, from, to time.Time) ([]*models.UserProgress, error) {
	return s.getCompletedInRange(ctx, tx, userID, chapterIDs, from, to)
}

type stubAssessmentRepo struct {
	repositories.AssessmentRepository

	create                   func(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error
	getByID                  func(ctx context.Context, tx *gorm.DB, id string) (*models.Assessment, error)
	getByIDWithQuestions     func(ctx context.Context, tx *gorm.DB, id string) (*models.Assessment, error)
	getOwned                 func(ctx context.Context, tx *gorm.DB, id, creatorID string) (*models.Assessment, error)
	getOwnedWithQuestions    func(ctx context.Context, tx *gorm.DB, id, creatorID string) (*models.Assessment, error)
	getByCreatorWithSessions func(ctx context.Context, tx *gorm.DB, creatorID string) ([]*models.Assessment, error)
	setPublished             func(ctx context.Context, tx *gorm.DB, id string, published bool) error
	setResultsPublished      func(ctx context.Context, tx *gorm.DB, id string, published bool) error
	delete                   func(ctx context.Context, tx *gorm.DB, id string) error
}

func (s *stubAssessmentRepo) Create(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error {
	return s.create(ctx, tx, assessment)
}
func (s *stubAssessmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Assessment, error) {
	return s.getByID(ctx, tx, id)
}
func (s *stubAssessmentRepo) GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id string) (*models.Assessment, error) {
	return s.getByIDWithQuestions(ctx, tx, id)
}
func (s *stubAssessmentRepo) GetOwned(ctx context.Context, tx *gorm.DB, id, creatorID string) (*models.Assessment, error) {
	return s.getOwned(ctx, tx, id, creatorID)
}
func (s *stubAssessmentRepo) GetOwnedWithQuestions(ctx context.Context, tx *gorm.DB, id, creatorID string) (*models.Assessment, error) {
	return s.getOwnedWithQuestions(ctx, tx, id, creatorID)
}
func (s *stubAssessmentRepo) GetByCreatorWithSessions(ctx context.Context, tx *gorm.DB, creatorID string) ([]*models.Assessment, error) {
	return s.getByCreatorWithSessions(ctx, tx, creatorID)
}
func (s *stubAssessmentRepo) SetPublished(ctx context.Context, tx *gorm.DB, id string, published bool) error {
	return s.setPublished(ctx, tx, id, published)
}
func (s *stubAssessmentRepo) SetResultsPublished(ctx context.Context, tx *gorm.DB, id string, published bool) error {
	return s.setResultsPublished(ctx, tx, id, published)
}
func (s *stubAssessmentRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	return s.delete(ctx, tx, id)
}

type stubQuestionRepo struct {
	repositories.QuestionRepository

	createBatch func(ctx context.Context, tx *gorm.DB, questions []*models.AssessmentQuestion) error
	getByID     func(ctx context.Context, tx *gorm.DB, id string) (*models.AssessmentQuestion, error)
	getByIDs    func(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.AssessmentQuestion, error)
}

func (s *stubQuestionRepo) CreateBatch(ctx context.Context, tx *gorm.DB, questions []*models.AssessmentQuestion) error {
	return s.createBatch(ctx, tx, questions)
}
func (s *stubQuestionRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.AssessmentQuestion, error) {
	return s.getByID(ctx, tx, id)
}
func (s *stubQuestionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.AssessmentQuestion, error) {
	return s.getByIDs(ctx, tx, ids)
}

type stubSessionRepo struct {
	repositories.SessionRepository

	create                 func(ctx context.Context, tx *gorm.DB, session *models.AssessmentSession, responses []*models.AssessmentResponse) error
	getByAssessment        func(ctx context.Context, tx *gorm.DB, assessmentID string) ([]*models.AssessmentSession, error)
	getByUserAndAssessment func(ctx context.Context, tx *gorm.DB, userID, assessmentID string) (*models.AssessmentSession, error)
	getByUserForCreator    func(ctx context.Context, tx *gorm.DB, userID, creatorID string) ([]*models.AssessmentSession, error)
	getByUserInRange       func(ctx context.Context, tx *gorm.DB, userID, creatorID string, from, to time.Time) ([]*models.AssessmentSession, error)
}

func (s *stubSessionRepo) Create(ctx context.Context, tx *gorm.DB, session *models.AssessmentSession, responses []*models.AssessmentResponse) error {
	return s.create(ctx, tx, session, responses)
}
func (s *stubSessionRepo) GetByAssessment(ctx context.Context, tx *gorm.DB, assessmentID string) ([]*models.AssessmentSession, error) {
	return s.getByAssessment(ctx, tx, assessmentID)
}
func (s *stubSessionRepo) GetByUserAndAssessment(ctx context.Context, tx *gorm.DB, userID, assessmentID string) (*models.AssessmentSession, error) {
	return s.getByUserAndAssessment(ctx, tx, userID, assessmentID)
}
func (s *stubSessionRepo) GetByUserForCreator(ctx context.Context, tx *gorm.DB, userID, creatorID string) ([]*models.AssessmentSession, error) {
	return s.getByUserForCreator(ctx, tx, userID, creatorID)
}
func (s *stubSessionRepo) GetByUserInRange(ctx context.Context, tx *gorm.DB, userID, creatorID string, from, to time.Time) ([]*models.AssessmentSession, error) {
	return s.getByUserInRange(ctx, tx, userID, creatorID, from, to)
}

type stubUserRepo struct {
	repositories.UserRepository

	getByIDs func(ctx context.Context, ids []string) ([]*models.User, error)
}

func (s *stubUserRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	return s.getByIDs(ctx, ids)
}

// capturePublisher records published events for assertions.
type capturePublisher struct {
	mu               sync.Mutex
	assessmentEvents []events.AssessmentEvent
	submissionEvents []events.SubmissionEvent
}

func (p *capturePublisher) PublishAssessmentEvent(ctx context.Context, event events.AssessmentEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.assessmentEvents = append(p.assessmentEvents, event)
}

func (p *capturePublisher) PublishSubmissionEvent(ctx context.Context, event events.SubmissionEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.submissionEvents = append(p.submissionEvents, event)
}

func (p *capturePublisher) Close() error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testCache builds a cache manager with no backing Redis; every read misses
// and the cache-aside path falls through to the fetch function.
func testCache() *cache.CacheManager {
	return cache.NewCacheManager(nil)
}
