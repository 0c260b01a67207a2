package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/config"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/validator"
	"gorm.io/gorm"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	EnableDebugLogging bool
	LogLevel           slog.Level

	AI config.AIConfig

	DefaultTimeout time.Duration
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	cache     *cache.CacheManager
	publisher events.Publisher
	config    ServiceManagerConfig

	// Service instances
	progressService            ProgressService
	dashboardService           DashboardService
	teacherAnalyticsService    TeacherAnalyticsService
	assessmentAnalyticsService AssessmentAnalyticsService
	studentPerformanceService  StudentPerformanceService
	assessmentService          AssessmentService
	generationService          GenerationService
	submissionService          SubmissionService
	exportService              ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, cacheManager *cache.CacheManager, publisher events.Publisher, config ServiceManagerConfig) ServiceManager {
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &serviceManager{
		db:        db,
		repo:      repo,
		logger:    logger,
		validator: validator,
		cache:     cacheManager,
		publisher: publisher,
		config:    config,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration
func NewDefaultServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, cacheManager *cache.CacheManager, publisher events.Publisher, ai config.AIConfig) ServiceManager {
	cfg := ServiceManagerConfig{
		EnableDebugLogging: false,
		LogLevel:           slog.LevelInfo,
		AI:                 ai,
		DefaultTimeout:     30 * time.Second,
	}
	return NewServiceManager(db, repo, logger, validator, cacheManager, publisher, cfg)
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.progressService = NewProgressService(sm.repo, sm.db, sm.logger, sm.cache)
	sm.dashboardService = NewDashboardService(sm.repo, sm.db, sm.logger, sm.progressService)
	sm.teacherAnalyticsService = NewTeacherAnalyticsService(sm.repo, sm.db, sm.logger, sm.cache)
	sm.assessmentAnalyticsService = NewAssessmentAnalyticsService(sm.repo, sm.db, sm.logger, sm.cache)
	sm.studentPerformanceService = NewStudentPerformanceService(sm.repo, sm.db, sm.logger)
	sm.assessmentService = NewAssessmentService(sm.repo, sm.db, sm.logger, sm.validator, sm.cache, sm.publisher)
	sm.generationService = NewGenerationService(sm.config.AI, sm.logger, sm.validator)
	sm.submissionService = NewSubmissionService(sm.repo, sm.db, sm.logger, sm.validator, sm.cache, sm.publisher)
	sm.exportService = NewExportService(sm.repo, sm.db, sm.logger)

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) mustBeInitialized() {
	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// Service getters
func (sm *serviceManager) Progress() ProgressService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.progressService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.dashboardService
}

func (sm *serviceManager) TeacherAnalytics() TeacherAnalyticsService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.teacherAnalyticsService
}

func (sm *serviceManager) AssessmentAnalytics() AssessmentAnalyticsService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.assessmentAnalyticsService
}

func (sm *serviceManager) StudentPerformance() StudentPerformanceService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.studentPerformanceService
}

func (sm *serviceManager) Assessment() AssessmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.assessmentService
}

func (sm *serviceManager) Generation() GenerationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.generationService
}

func (sm *serviceManager) Submission() SubmissionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.submissionService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.exportService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if err := sm.publisher.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}

	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close repository", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}

// WithTimeout creates a context with the default timeout
func (sm *serviceManager) WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, sm.config.DefaultTimeout)
}
