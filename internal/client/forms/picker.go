package forms

import (
	"context"

	"github.com/conlangforge/conlangforge/internal/client/models"
)

// CategoryCreator persists a new lexical category for a conlang.
type CategoryCreator func(ctx context.Context, conlangID, label string) (*models.LexicalCategory, error)

// CategoryPicker drives the category dropdown inside a definition form. It
// supports creating a category inline: the new label shows up as selected
// immediately, and disappears again if the server turns it down.
type CategoryPicker struct {
	conlangID  string
	create     CategoryCreator
	categories []*models.LexicalCategory
	selected   string
}

func NewCategoryPicker(conlangID string, categories []*models.LexicalCategory, create CategoryCreator) *CategoryPicker {
	return &CategoryPicker{
		conlangID:  conlangID,
		create:     create,
		categories: append([]*models.LexicalCategory{}, categories...),
	}
}

func (p *CategoryPicker) Categories() []*models.LexicalCategory {
	return append([]*models.LexicalCategory{}, p.categories...)
}

// Select picks an existing category by id. Unknown ids are ignored.
func (p *CategoryPicker) Select(id string) *models.LexicalCategory {
	for _, c := range p.categories {
		if c.ID == id {
			p.selected = id
			return c
		}
	}
	return nil
}

// Selected returns the currently selected category, or nil.
func (p *CategoryPicker) Selected() *models.LexicalCategory {
	for _, c := range p.categories {
		if c.ID == p.selected {
			return c
		}
	}
	return nil
}

// CreateAndSelect adds a category inline. The entry appears in the list and
// becomes the selection optimistically; a create failure removes it again
// and restores the previous selection.
func (p *CategoryPicker) CreateAndSelect(ctx context.Context, label string) (*models.LexicalCategory, error) {
	pending := &models.LexicalCategory{ID: "pending:" + label, ConlangID: p.conlangID, Label: label}
	prevSelected := p.selected
	p.categories = append(p.categories, pending)
	p.selected = pending.ID

	created, err := p.create(ctx, p.conlangID, label)
	if err != nil {
		p.categories = p.categories[:len(p.categories)-1]
		p.selected = prevSelected
		return nil, err
	}

	p.categories[len(p.categories)-1] = created
	p.selected = created.ID
	return created, nil
}
