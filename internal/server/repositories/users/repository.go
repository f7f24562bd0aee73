package users

import (
	"context"

	"github.com/conlangforge/conlangforge/internal/server/models"
)

type Repository interface {
	// Create inserts a user; a duplicate username returns common.ErrorConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
