package users

import (
	"context"

	"github.com/ruedaverde/backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, upd *models.ProfileUpdate) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id string, newHash string) error
}
