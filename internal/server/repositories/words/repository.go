package words

import (
	"context"

	"github.com/conlangforge/conlangforge/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, w *models.Word) (*models.Word, error)
	GetByID(ctx context.Context, id string) (*models.Word, error)
	ListByConlang(ctx context.Context, conlangID string) ([]*models.Word, error)

	// Delete removes a word; section rows cascade at the database level.
	Delete(ctx context.Context, id string) (int64, error)
}
