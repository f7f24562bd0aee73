// Package words provides the PostgreSQL-backed repository for word rows.
package words

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/conlangforge/conlangforge/internal/common"
	"github.com/conlangforge/conlangforge/internal/dbx"
	"github.com/conlangforge/conlangforge/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, w *models.Word) (*models.Word, error) {
	query := `
		INSERT INTO words (conlang_id, text, gloss)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, w.ConlangID, w.Text, w.Gloss).
		Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return w, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Word, error) {
	query := `
		SELECT id, conlang_id, text, gloss, created_at, updated_at
		FROM words
		WHERE id = $1
	`
	w := &models.Word{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&w.ID, &w.ConlangID, &w.Text, &w.Gloss, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return w, nil
}

func (r *PostgresRepository) ListByConlang(ctx context.Context, conlangID string) ([]*models.Word, error) {
	query := `
		SELECT id, conlang_id, text, gloss, created_at, updated_at
		FROM words
		WHERE conlang_id = $1
		ORDER BY text, id
	`
	rows, err := r.db.QueryContext(ctx, query, conlangID)
	if err != nil {
		return nil, fmt.Errorf("failed to select words: %w", err)
	}
	defer rows.Close()

	var result []*models.Word
	for rows.Next() {
		w := &models.Word{}
		if err := rows.Scan(&w.ID, &w.ConlangID, &w.Text, &w.Gloss, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM words WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
