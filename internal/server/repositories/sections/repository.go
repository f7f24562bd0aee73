package sections

import (
	"context"
	"encoding/json"

	"github.com/conlangforge/conlangforge/internal/server/models"
)

// Repository persists lexical sections. A position of 0 on Insert means
// "append": the row gets the word's current maximum position + 1.
type Repository interface {
	Insert(ctx context.Context, s *models.LexicalSection) (*models.LexicalSection, error)
	GetByID(ctx context.Context, id string) (*models.LexicalSection, error)
	ListByWord(ctx context.Context, wordID string) ([]*models.LexicalSection, error)
	UpdateProperties(ctx context.Context, id string, properties json.RawMessage) (*models.LexicalSection, error)

	// Delete removes a section and reports how many rows were affected.
	// Deleting a missing id affects zero rows and is not an error here;
	// the service layer documents the operation as an idempotent no-op.
	Delete(ctx context.Context, id string) (int64, error)

	// UpdatePosition sets one section's position. It returns
	// common.ErrorNotFound when the id does not exist, which callers use
	// to abort a batch reorder transaction.
	UpdatePosition(ctx context.Context, id string, position int) error
}
