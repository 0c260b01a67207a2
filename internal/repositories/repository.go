package repositories

import (
	"context"
	"errors"
)

// ErrNotVisible is returned by ownership-scoped lookups when the entity does
// not exist or the caller is not allowed to see it. Endpoints decide the
// externally visible status code; most surface it as not-found.
var ErrNotVisible = errors.New("entity not found or not visible to caller")

// IsNotVisible reports whether err wraps ErrNotVisible.
func IsNotVisible(err error) bool {
	return errors.Is(err, ErrNotVisible)
}

// Repository aggregates all entity repositories.
type Repository interface {
	// Course domain
	Course() CourseRepository
	Progress() ProgressRepository

	// Assessment domain
	Assessment() AssessmentRepository
	Question() QuestionRepository
	Session() SessionRepository

	// User domain (read-only, backed by the identity provider)
	User() UserRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
