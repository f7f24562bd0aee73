package tags

import (
	"context"

	"github.com/conlangforge/conlangforge/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, t *models.Tag) (*models.Tag, error)
	GetByID(ctx context.Context, id string) (*models.Tag, error)
	ListByWord(ctx context.Context, wordID string) ([]*models.Tag, error)

	// Attach and Detach maintain the word↔tag many-to-many relation.
	// Both are idempotent.
	Attach(ctx context.Context, wordID, tagID string) error
	Detach(ctx context.Context, wordID, tagID string) error
}
