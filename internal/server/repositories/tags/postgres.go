// Package tags provides the PostgreSQL-backed repository for tags and the
// word_tags relation.
package tags

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

func (r *PostgresRepository) Insert(ctx context.Context, t *models.Tag) (*models.Tag, error) {
	query := `
		INSERT INTO tags (conlang_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, t.ConlangID, t.Name).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Tag, error) {
	query := `SELECT id, conlang_id, name, created_at FROM tags WHERE id = $1`
	t := &models.Tag{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.ConlangID, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) ListByWord(ctx context.Context, wordID string) ([]*models.Tag, error) {
	query := `
		SELECT t.id, t.conlang_id, t.name, t.created_at
		FROM tags t
		JOIN word_tags wt ON wt.tag_id = t.id
		WHERE wt.word_id = $1
		ORDER BY t.name, t.id
	`
	rows, err := r.db.QueryContext(ctx, query, wordID)
	if err != nil {
		return nil, fmt.Errorf("failed to select tags: %w", err)
	}
	defer rows.Close()

	var result []*models.Tag
	for rows.Next() {
		t := &models.Tag{}
		if err := rows.Scan(&t.ID, &t.ConlangID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Attach(ctx context.Context, wordID, tagID string) error {
	query := `
		INSERT INTO word_tags (word_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, wordID, tagID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Detach(ctx context.Context, wordID, tagID string) error {
	query := `DELETE FROM word_tags WHERE word_id = $1 AND tag_id = $2`
	if _, err := r.db.ExecContext(ctx, query, wordID, tagID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
