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

type TagService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTagService(db *sql.DB, m repomanager.RepositoryManager) *TagService {
	return &TagService{db: db, repomanager: m}
}

func (s *TagService) Create(ctx context.Context, userID, conlangID, name string) (*models.Tag, error) {
	if _, err := requireOwner(ctx, s.repomanager, s.db, conlangID, userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		verr := common.NewValidationError()
		verr.Add("name", "tag name is required")
		return nil, verr
	}
	t, err := s.repomanager.Tags(s.db).Insert(ctx, &models.Tag{ConlangID: conlangID, Name: name})
	if err != nil {
		return nil, fmt.Errorf("error creating tag: %w", err)
	}
	return t, nil
}

// Attach links a tag to a word. Both must live in the same conlang, owned
// by userID.
func (s *TagService) Attach(ctx context.Context, userID, wordID, tagID string) error {
	w, t, err := s.loadPair(ctx, wordID, tagID)
	if err != nil {
		return err
	}
	if w.ConlangID != t.ConlangID {
		verr := common.NewValidationError()
		verr.Add("tagId", "tag belongs to a different conlang")
		return verr
	}
	if _, err := requireOwner(ctx, s.repomanager, s.db, w.ConlangID, userID); err != nil {
		return err
	}
	return s.repomanager.Tags(s.db).Attach(ctx, wordID, tagID)
}

func (s *TagService) Detach(ctx context.Context, userID, wordID, tagID string) error {
	w, _, err := s.loadPair(ctx, wordID, tagID)
	if err != nil {
		return err
	}
	if _, err := requireOwner(ctx, s.repomanager, s.db, w.ConlangID, userID); err != nil {
		return err
	}
	return s.repomanager.Tags(s.db).Detach(ctx, wordID, tagID)
}

func (s *TagService) loadPair(ctx context.Context, wordID, tagID string) (*models.Word, *models.Tag, error) {
	w, err := s.repomanager.Words(s.db).GetByID(ctx, wordID)
	if err != nil {
		return nil, nil, err
	}
	t, err := s.repomanager.Tags(s.db).GetByID(ctx, tagID)
	if err != nil {
		return nil, nil, err
	}
	return w, t, nil
}
