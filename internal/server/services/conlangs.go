package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/conlangforge/conlangforge/internal/common"
	"github.com/conlangforge/conlangforge/internal/server/models"
	"github.com/conlangforge/conlangforge/internal/server/repositories/repomanager"
)

type ConlangService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewConlangService(db *sql.DB, m repomanager.RepositoryManager) *ConlangService {
	return &ConlangService{db: db, repomanager: m}
}

func (s *ConlangService) Create(ctx context.Context, ownerID, name, description string, public bool) (*models.Conlang, error) {
	if strings.TrimSpace(name) == "" {
		verr := common.NewValidationError()
		verr.Add("name", "name is required")
		return nil, verr
	}

	repo := s.repomanager.Conlangs(s.db)
	c, err := repo.Insert(ctx, &models.Conlang{
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Public:      public,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating conlang: %w", err)
	}
	return c, nil
}

// Get returns a conlang if it is public or owned by userID. userID may be
// empty for anonymous reads.
func (s *ConlangService) Get(ctx context.Context, userID, conlangID string) (*models.Conlang, error) {
	c, err := s.repomanager.Conlangs(s.db).GetByID(ctx, conlangID)
	if err != nil {
		return nil, err
	}
	if !c.Public && c.OwnerID != userID {
		return nil, common.ErrorForbidden
	}
	return c, nil
}

func (s *ConlangService) ListPublic(ctx context.Context) ([]*models.Conlang, error) {
	return s.repomanager.Conlangs(s.db).ListPublic(ctx)
}

func (s *ConlangService) ListMine(ctx context.Context, userID string) ([]*models.Conlang, error) {
	return s.repomanager.Conlangs(s.db).ListByOwner(ctx, userID)
}

// requireOwner loads a conlang and verifies that userID owns it. It is the
// single ownership gate used by every mutating service path, and it runs
// before payload validation so non-owners learn nothing about payloads.
func requireOwner(ctx context.Context, m repomanager.RepositoryManager, db *sql.DB, conlangID, userID string) (*models.Conlang, error) {
	if userID == "" {
		return nil, common.ErrorUnauthorized
	}
	c, err := m.Conlangs(db).GetByID(ctx, conlangID)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != userID {
		return nil, common.ErrorForbidden
	}
	return c, nil
}
