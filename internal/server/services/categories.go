package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/conlangforge/conlangforge/internal/common"
	"github.com/conlangforge/conlangforge/internal/server/models"
	"github.com/conlangforge/conlangforge/internal/server/repositories/repomanager"
)

type CategoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCategoryService(db *sql.DB, m repomanager.RepositoryManager) *CategoryService {
	return &CategoryService{db: db, repomanager: m}
}

// Create adds a lexical category. Uniqueness is case-insensitive per
// conlang and enforced here, before insert: "Noun" and "noun" collide and
// the duplicate surfaces as common.ErrorConflict, not a raw DB constraint.
func (s *CategoryService) Create(ctx context.Context, userID, conlangID, label string) (*models.LexicalCategory, error) {
	if _, err := requireOwner(ctx, s.repomanager, s.db, conlangID, userID); err != nil {
		return nil, err
	}

	label = strings.TrimSpace(label)
	if label == "" {
		verr := common.NewValidationError()
		verr.Add("label", "label is required")
		return nil, verr
	}

	normalized := strings.ToLower(label)
	repo := s.repomanager.Categories(s.db)

	_, err := repo.FindByNormalizedLabel(ctx, conlangID, normalized)
	switch {
	case err == nil:
		return nil, common.ErrorConflict
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error checking label: %w", err)
	}

	c, err := repo.Insert(ctx, &models.LexicalCategory{
		ConlangID: conlangID,
		OwnerID:   userID,
		Label:     label,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating category: %w", err)
	}
	return c, nil
}

func (s *CategoryService) ListByConlang(ctx context.Context, userID, conlangID string) ([]*models.LexicalCategory, error) {
	c, err := s.repomanager.Conlangs(s.db).GetByID(ctx, conlangID)
	if err != nil {
		return nil, err
	}
	if !c.Public && c.OwnerID != userID {
		return nil, common.ErrorForbidden
	}
	return s.repomanager.Categories(s.db).ListByConlang(ctx, conlangID)
}
