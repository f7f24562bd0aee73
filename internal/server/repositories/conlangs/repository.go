package conlangs

import (
	"context"

	"github.com/conlangforge/conlangforge/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, c *models.Conlang) (*models.Conlang, error)
	GetByID(ctx context.Context, id string) (*models.Conlang, error)
	ListPublic(ctx context.Context) ([]*models.Conlang, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Conlang, error)
}
