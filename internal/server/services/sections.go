package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/conlangforge/conlangforge/internal/common"
	"github.com/conlangforge/conlangforge/internal/dbx"
	"github.com/conlangforge/conlangforge/internal/section"
	"github.com/conlangforge/conlangforge/internal/server/models"
	"github.com/conlangforge/conlangforge/internal/server/repositories/repomanager"
)

// SectionService owns every lexical-section mutation. All paths check
// conlang ownership before validating or touching payloads.
type SectionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSectionService(db *sql.DB, m repomanager.RepositoryManager) *SectionService {
	return &SectionService{db: db, repomanager: m}
}

// PositionUpdate is one element of a batch reorder request.
type PositionUpdate struct {
	ID       string `json:"id"`
	Position int    `json:"order"`
}

// Insert validates the properties document against the schema for
// sectionType and appends the new section to the word (or places it at the
// given position when position > 0).
func (s *SectionService) Insert(ctx context.Context, userID, wordID string, t section.Type, properties json.RawMessage, position int) (*models.LexicalSection, error) {
	w, err := s.repomanager.Words(s.db).GetByID(ctx, wordID)
	if err != nil {
		return nil, err
	}
	if _, err := requireOwner(ctx, s.repomanager, s.db, w.ConlangID, userID); err != nil {
		return nil, err
	}

	props, err := section.Validate(t, properties)
	if err != nil {
		return nil, err
	}
	raw, err := section.Encode(props)
	if err != nil {
		return nil, fmt.Errorf("error encoding properties: %w", err)
	}

	created, err := s.repomanager.Sections(s.db).Insert(ctx, &models.LexicalSection{
		WordID:     wordID,
		Type:       t,
		Position:   position,
		Properties: raw,
	})
	if err != nil {
		return nil, fmt.Errorf("error inserting section: %w", err)
	}
	return created, nil
}

// UpdateProperties replaces a section's properties document wholesale. The
// section type is immutable; the new document is re-validated against the
// stored type's schema. A non-empty declaredType that differs from the
// stored type is rejected.
func (s *SectionService) UpdateProperties(ctx context.Context, userID, sectionID string, declaredType section.Type, properties json.RawMessage) (*models.LexicalSection, error) {
	existing, err := s.repomanager.Sections(s.db).GetByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireSectionOwner(ctx, userID, existing); err != nil {
		return nil, err
	}

	if declaredType != "" && declaredType != existing.Type {
		verr := common.NewValidationError()
		verr.Add("sectionType", "section type is immutable")
		return nil, verr
	}

	props, err := section.Validate(existing.Type, properties)
	if err != nil {
		return nil, err
	}
	raw, err := section.Encode(props)
	if err != nil {
		return nil, fmt.Errorf("error encoding properties: %w", err)
	}

	updated, err := s.repomanager.Sections(s.db).UpdateProperties(ctx, sectionID, raw)
	if err != nil {
		return nil, fmt.Errorf("error updating section: %w", err)
	}
	return updated, nil
}

// Delete removes a section. Deleting a missing id is a documented no-op, so
// repeated deletes of the same id succeed identically.
func (s *SectionService) Delete(ctx context.Context, userID, sectionID string) error {
	existing, err := s.repomanager.Sections(s.db).GetByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	}
	if err := s.requireSectionOwner(ctx, userID, existing); err != nil {
		return err
	}
	if _, err := s.repomanager.Sections(s.db).Delete(ctx, sectionID); err != nil {
		return fmt.Errorf("error deleting section: %w", err)
	}
	return nil
}

// Reorder applies a batch of position updates as a single atomic
// transaction: either every update commits or none do, so a word can never
// observe a half-applied ordering. All sections in the batch must belong to
// the same word, owned by userID. On success the word's full section list is
// returned in the new order.
func (s *SectionService) Reorder(ctx context.Context, userID string, updates []PositionUpdate) ([]*models.LexicalSection, error) {
	if len(updates) == 0 {
		verr := common.NewValidationError()
		verr.Add("updates", "at least one update is required")
		return nil, verr
	}

	first, err := s.repomanager.Sections(s.db).GetByID(ctx, updates[0].ID)
	if err != nil {
		return nil, err
	}
	if err := s.requireSectionOwner(ctx, userID, first); err != nil {
		return nil, err
	}

	wordID := first.WordID
	for _, u := range updates[1:] {
		sec, err := s.repomanager.Sections(s.db).GetByID(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		if sec.WordID != wordID {
			verr := common.NewValidationError()
			verr.Add("updates", "all sections in a batch must belong to one word")
			return nil, verr
		}
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Sections(tx)
		for _, u := range updates {
			if err := repo.UpdatePosition(ctx, u.ID, u.Position); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repomanager.Sections(s.db).ListByWord(ctx, wordID)
}

func (s *SectionService) requireSectionOwner(ctx context.Context, userID string, sec *models.LexicalSection) error {
	w, err := s.repomanager.Words(s.db).GetByID(ctx, sec.WordID)
	if err != nil {
		return err
	}
	_, err = requireOwner(ctx, s.repomanager, s.db, w.ConlangID, userID)
	return err
}
