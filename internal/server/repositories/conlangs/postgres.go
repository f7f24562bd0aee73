// Package conlangs provides the PostgreSQL-backed repository for conlang rows.
package conlangs

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

func (r *PostgresRepository) Insert(ctx context.Context, c *models.Conlang) (*models.Conlang, error) {
	query := `
		INSERT INTO conlangs (owner_id, name, description, public)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, c.OwnerID, c.Name, c.Description, c.Public).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Conlang, error) {
	query := `
		SELECT id, owner_id, name, description, public, created_at, updated_at
		FROM conlangs
		WHERE id = $1
	`
	c := &models.Conlang{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.Public, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListPublic(ctx context.Context) ([]*models.Conlang, error) {
	query := `
		SELECT id, owner_id, name, description, public, created_at, updated_at
		FROM conlangs
		WHERE public
		ORDER BY name, id
	`
	return r.list(ctx, query)
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Conlang, error) {
	query := `
		SELECT id, owner_id, name, description, public, created_at, updated_at
		FROM conlangs
		WHERE owner_id = $1
		ORDER BY name, id
	`
	return r.list(ctx, query, ownerID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Conlang, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select conlangs: %w", err)
	}
	defer rows.Close()

	var result []*models.Conlang
	for rows.Next() {
		c := &models.Conlang{}
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.Public,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
