// Package categories provides the PostgreSQL-backed repository for lexical
// category (part-of-speech label) rows.
package categories

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

func (r *PostgresRepository) Insert(ctx context.Context, c *models.LexicalCategory) (*models.LexicalCategory, error) {
	query := `
		INSERT INTO lexical_categories (conlang_id, owner_id, label)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, c.ConlangID, c.OwnerID, c.Label).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.LexicalCategory, error) {
	query := `
		SELECT id, conlang_id, owner_id, label, created_at
		FROM lexical_categories
		WHERE id = $1
	`
	c := &models.LexicalCategory{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.ConlangID, &c.OwnerID, &c.Label, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) FindByNormalizedLabel(ctx context.Context, conlangID, normalized string) (*models.LexicalCategory, error) {
	query := `
		SELECT id, conlang_id, owner_id, label, created_at
		FROM lexical_categories
		WHERE conlang_id = $1 AND lower(label) = $2
	`
	c := &models.LexicalCategory{}
	err := r.db.QueryRowContext(ctx, query, conlangID, normalized).
		Scan(&c.ID, &c.ConlangID, &c.OwnerID, &c.Label, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListByConlang(ctx context.Context, conlangID string) ([]*models.LexicalCategory, error) {
	query := `
		SELECT id, conlang_id, owner_id, label, created_at
		FROM lexical_categories
		WHERE conlang_id = $1
		ORDER BY label, id
	`
	rows, err := r.db.QueryContext(ctx, query, conlangID)
	if err != nil {
		return nil, fmt.Errorf("failed to select categories: %w", err)
	}
	defer rows.Close()

	var result []*models.LexicalCategory
	for rows.Next() {
		c := &models.LexicalCategory{}
		if err := rows.Scan(&c.ID, &c.ConlangID, &c.OwnerID, &c.Label, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
