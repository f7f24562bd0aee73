// Package words stores the local mirror of words fetched from the server.
package words

import (
	"context"
	"fmt"
	"time"

	"github.com/conlangforge/conlangforge/internal/client/models"
	"github.com/conlangforge/conlangforge/internal/dbx"
)

type Repository interface {
	Upsert(ctx context.Context, word *models.Word) error
	GetByID(ctx context.Context, id string) (*models.Word, error)
	ListByConlang(ctx context.Context, conlangID string) ([]*models.Word, error)
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert inserts the word or refreshes its mutable columns.
func (r *SQLiteRepository) Upsert(ctx context.Context, word *models.Word) error {
	query := `INSERT INTO words (id, conlang_id, text, gloss, updated_at)
			values (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET text = excluded.text,
				gloss = excluded.gloss,
				updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		word.ID, word.ConlangID, word.Text, word.Gloss, word.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to upsert word: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Word, error) {
	query := `select id, conlang_id, text, gloss from words where id = ?`
	word := &models.Word{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&word.ID, &word.ConlangID, &word.Text, &word.Gloss)
	if err != nil {
		return nil, fmt.Errorf("failed to select word: %w", err)
	}
	return word, nil
}

func (r *SQLiteRepository) ListByConlang(ctx context.Context, conlangID string) ([]*models.Word, error) {
	query := `select id, conlang_id, text, gloss from words where conlang_id = ? order by text`
	rows, err := r.db.QueryContext(ctx, query, conlangID)
	if err != nil {
		return nil, fmt.Errorf("failed to select words: %w", err)
	}
	defer rows.Close()

	var result []*models.Word
	for rows.Next() {
		word := &models.Word{}
		if err := rows.Scan(&word.ID, &word.ConlangID, &word.Text, &word.Gloss); err != nil {
			return nil, err
		}
		result = append(result, word)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `delete from words where id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete word: %w", err)
	}
	return nil
}
