package repositories

import (
	"context"

	"github.com/SAP-F-2025/learning-service/internal/models"
)

// UserRepository interface for user operations (this service is not the
// owner of user data; reads go to the identity provider).
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)
}
