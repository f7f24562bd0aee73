package categories

import (
	"context"

	"github.com/conlangforge/conlangforge/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, c *models.LexicalCategory) (*models.LexicalCategory, error)
	GetByID(ctx context.Context, id string) (*models.LexicalCategory, error)

	// FindByNormalizedLabel looks up a category by its lowercased label
	// within one conlang. Used by the service layer to enforce
	// case-insensitive uniqueness before insert.
	FindByNormalizedLabel(ctx context.Context, conlangID, normalized string) (*models.LexicalCategory, error)

	ListByConlang(ctx context.Context, conlangID string) ([]*models.LexicalCategory, error)
}
