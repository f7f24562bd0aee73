package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/conlangforge/conlangforge/internal/dbx"
	"github.com/conlangforge/conlangforge/internal/server/migrations"
	"github.com/conlangforge/conlangforge/internal/server/repositories/categories"
	"github.com/conlangforge/conlangforge/internal/server/repositories/conlangs"
	"github.com/conlangforge/conlangforge/internal/server/repositories/refreshtokens"
	"github.com/conlangforge/conlangforge/internal/server/repositories/sections"
	"github.com/conlangforge/conlangforge/internal/server/repositories/tags"
	"github.com/conlangforge/conlangforge/internal/server/repositories/users"
	"github.com/conlangforge/conlangforge/internal/server/repositories/words"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
	db *sql.DB
}

// NewPostgresRepositoryManager opens the database, runs embedded goose
// migrations, and returns the manager plus the underlying *sql.DB for
// services that need transaction control.
func NewPostgresRepositoryManager(ctx context.Context, dsn string) (*PostgresRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresRepositoryManager{db: db}
	if err := m.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return m, nil
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, m.db, ".")
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Conlangs(db dbx.DBTX) conlangs.Repository {
	return conlangs.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Words(db dbx.DBTX) words.Repository {
	return words.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Sections(db dbx.DBTX) sections.Repository {
	return sections.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Categories(db dbx.DBTX) categories.Repository {
	return categories.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Tags(db dbx.DBTX) tags.Repository {
	return tags.NewPostgresRepository(db)
}
