// Package sections provides the PostgreSQL-backed repository for lexical
// section rows: (word_id, section_type, position, properties-as-jsonb).
package sections

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/conlangforge/conlangforge/internal/common"
	"github.com/conlangforge/conlangforge/internal/dbx"
	"github.com/conlangforge/conlangforge/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert creates a section row. When s.Position is 0 the row is appended
// after the word's current last section (MAX(position)+1, starting at 1).
func (r *PostgresRepository) Insert(ctx context.Context, s *models.LexicalSection) (*models.LexicalSection, error) {
	query := `
		INSERT INTO lexical_sections (word_id, section_type, position, properties)
		VALUES ($1, $2,
			COALESCE(NULLIF($3::int, 0),
				(SELECT COALESCE(MAX(position), 0) + 1 FROM lexical_sections WHERE word_id = $1)),
			$4)
		RETURNING id, position, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		s.WordID, string(s.Type), s.Position, []byte(s.Properties)).
		Scan(&s.ID, &s.Position, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.LexicalSection, error) {
	query := `
		SELECT id, word_id, section_type, position, properties, created_at, updated_at
		FROM lexical_sections
		WHERE id = $1
	`
	s := &models.LexicalSection{}
	var props []byte
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&s.ID, &s.WordID, &s.Type, &s.Position, &props, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	s.Properties = props
	return s, nil
}

// ListByWord returns the word's sections in display order. Position is the
// primary key of the ordering; creation time and id break ties so the order
// is always total.
func (r *PostgresRepository) ListByWord(ctx context.Context, wordID string) ([]*models.LexicalSection, error) {
	query := `
		SELECT id, word_id, section_type, position, properties, created_at, updated_at
		FROM lexical_sections
		WHERE word_id = $1
		ORDER BY position, created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, wordID)
	if err != nil {
		return nil, fmt.Errorf("failed to select sections: %w", err)
	}
	defer rows.Close()

	var result []*models.LexicalSection
	for rows.Next() {
		s := &models.LexicalSection{}
		var props []byte
		if err := rows.Scan(&s.ID, &s.WordID, &s.Type, &s.Position, &props,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Properties = props
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateProperties replaces the properties document wholesale. The section
// type column is deliberately not touched: the type is immutable.
func (r *PostgresRepository) UpdateProperties(ctx context.Context, id string, properties json.RawMessage) (*models.LexicalSection, error) {
	query := `
		UPDATE lexical_sections
		SET properties = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, word_id, section_type, position, properties, created_at, updated_at
	`
	s := &models.LexicalSection{}
	var props []byte
	err := r.db.QueryRowContext(ctx, query, id, []byte(properties)).
		Scan(&s.ID, &s.WordID, &s.Type, &s.Position, &props, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	s.Properties = props
	return s, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lexical_sections WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) UpdatePosition(ctx context.Context, id string, position int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE lexical_sections SET position = $2, updated_at = now() WHERE id = $1`,
		id, position)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
