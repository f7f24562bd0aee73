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

type WordService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewWordService(db *sql.DB, m repomanager.RepositoryManager) *WordService {
	return &WordService{db: db, repomanager: m}
}

func (s *WordService) Create(ctx context.Context, userID, conlangID, text, gloss string) (*models.Word, error) {
	if _, err := requireOwner(ctx, s.repomanager, s.db, conlangID, userID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		verr := common.NewValidationError()
		verr.Add("text", "word text is required")
		return nil, verr
	}

	w, err := s.repomanager.Words(s.db).Insert(ctx, &models.Word{
		ConlangID: conlangID,
		Text:      text,
		Gloss:     gloss,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating word: %w", err)
	}
	return w, nil
}

// GetWithSections returns the word plus its full ordered section list and
// tags. The sections are already in position-ascending sequence; clients
// must not re-sort them.
func (s *WordService) GetWithSections(ctx context.Context, userID, wordID string) (*models.Word, error) {
	w, err := s.repomanager.Words(s.db).GetByID(ctx, wordID)
	if err != nil {
		return nil, err
	}

	c, err := s.repomanager.Conlangs(s.db).GetByID(ctx, w.ConlangID)
	if err != nil {
		return nil, err
	}
	if !c.Public && c.OwnerID != userID {
		return nil, common.ErrorForbidden
	}

	w.Sections, err = s.repomanager.Sections(s.db).ListByWord(ctx, wordID)
	if err != nil {
		return nil, fmt.Errorf("error loading sections: %w", err)
	}
	w.Tags, err = s.repomanager.Tags(s.db).ListByWord(ctx, wordID)
	if err != nil {
		return nil, fmt.Errorf("error loading tags: %w", err)
	}
	return w, nil
}

func (s *WordService) ListByConlang(ctx context.Context, userID, conlangID string) ([]*models.Word, error) {
	c, err := s.repomanager.Conlangs(s.db).GetByID(ctx, conlangID)
	if err != nil {
		return nil, err
	}
	if !c.Public && c.OwnerID != userID {
		return nil, common.ErrorForbidden
	}
	return s.repomanager.Words(s.db).ListByConlang(ctx, conlangID)
}

// Delete removes a word; its sections cascade at the database level.
func (s *WordService) Delete(ctx context.Context, userID, wordID string) error {
	w, err := s.repomanager.Words(s.db).GetByID(ctx, wordID)
	if err != nil {
		return err
	}
	if _, err := requireOwner(ctx, s.repomanager, s.db, w.ConlangID, userID); err != nil {
		return err
	}
	if _, err := s.repomanager.Words(s.db).Delete(ctx, wordID); err != nil {
		return fmt.Errorf("error deleting word: %w", err)
	}
	return nil
}
