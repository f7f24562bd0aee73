// Package cache manages the CLI's local SQLite mirror of server data. The
// mirror lets the user browse previously fetched words and sections while
// the server is unreachable; it is never the source of truth.
package cache

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/conlangforge/conlangforge/internal/client/cache/migrations"
	"github.com/conlangforge/conlangforge/internal/client/models"
	"github.com/conlangforge/conlangforge/internal/client/repositories/sections"
	"github.com/conlangforge/conlangforge/internal/client/repositories/words"
	"github.com/conlangforge/conlangforge/internal/dbx"
)

type Cache struct {
	db       *sql.DB
	Words    words.Repository
	Sections sections.Repository
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the cache database and migrates it.
func Open(ctx context.Context, dsn string) (*Cache, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{
		db:       db,
		Words:    words.NewSQLiteRepository(db),
		Sections: sections.NewSQLiteRepository(db),
	}, nil
}

// StoreWord mirrors a fetched word and its sections. The swap runs in one
// transaction so readers never observe a word with a torn section list.
func (c *Cache) StoreWord(ctx context.Context, word *models.Word) error {
	return dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := words.NewSQLiteRepository(tx).Upsert(ctx, word); err != nil {
			return err
		}
		return sections.NewSQLiteRepository(tx).ReplaceForWord(ctx, word.ID, word.Sections)
	})
}

// LoadWord returns the cached word with its sections in display order, or an
// error when the word was never fetched.
func (c *Cache) LoadWord(ctx context.Context, wordID string) (*models.Word, error) {
	word, err := c.Words.GetByID(ctx, wordID)
	if err != nil {
		return nil, err
	}
	secs, err := c.Sections.ListByWord(ctx, wordID)
	if err != nil {
		return nil, err
	}
	word.Sections = secs
	return word, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}
