// Package sections stores the local mirror of a word's lexical sections.
package sections

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/conlangforge/conlangforge/internal/client/models"
	"github.com/conlangforge/conlangforge/internal/dbx"
)

type Repository interface {
	ReplaceForWord(ctx context.Context, wordID string, secs []*models.LexicalSection) error
	ListByWord(ctx context.Context, wordID string) ([]*models.LexicalSection, error)
}

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// ReplaceForWord swaps the cached sections of a word wholesale. The caller is
// expected to run it inside a transaction so a crash never leaves a word with
// half of its sections.
func (r *SQLiteRepository) ReplaceForWord(ctx context.Context, wordID string, secs []*models.LexicalSection) error {
	if _, err := r.db.ExecContext(ctx, `delete from sections where word_id = ?`, wordID); err != nil {
		return fmt.Errorf("failed to clear sections: %w", err)
	}

	query := `INSERT INTO sections (id, word_id, section_type, position, properties, html)
			values (?, ?, ?, ?, ?, ?)`
	for _, sec := range secs {
		_, err := r.db.ExecContext(ctx, query,
			sec.ID, wordID, string(sec.Type), sec.Position, string(sec.Properties), sec.HTML)
		if err != nil {
			return fmt.Errorf("failed to insert section: %w", err)
		}
	}
	return nil
}

// ListByWord returns the cached sections in display order.
func (r *SQLiteRepository) ListByWord(ctx context.Context, wordID string) ([]*models.LexicalSection, error) {
	query := `select id, word_id, section_type, position, properties, html
			from sections where word_id = ? order by position, id`
	rows, err := r.db.QueryContext(ctx, query, wordID)
	if err != nil {
		return nil, fmt.Errorf("failed to select sections: %w", err)
	}
	defer rows.Close()

	var result []*models.LexicalSection
	for rows.Next() {
		sec := &models.LexicalSection{}
		var properties string
		if err := rows.Scan(&sec.ID, &sec.WordID, &sec.Type, &sec.Position, &properties, &sec.HTML); err != nil {
			return nil, err
		}
		sec.Properties = json.RawMessage(properties)
		result = append(result, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
