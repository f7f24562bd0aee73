package forms

import (
	"encoding/json"
	"slices"

	"github.com/conlangforge/conlangforge/internal/section"
)

// DefinitionForm edits a definition section. Until the user touches the
// title by hand it follows the selected lexical category's label, so a
// freshly added "Noun" definition is titled "Noun" without any typing.
type DefinitionForm struct {
	mode   Mode
	opened definitionState

	definitionState
}

type definitionState struct {
	title        string
	titleTouched bool

	categoryID     string
	categoryLabel  string
	definitionText string
	examples       []string
}

func (s definitionState) clone() definitionState {
	s.examples = slices.Clone(s.examples)
	return s
}

// NewDefinitionForm returns an empty add-mode form.
func NewDefinitionForm() *DefinitionForm {
	return &DefinitionForm{mode: ModeAdd}
}

// EditDefinitionForm loads an existing payload. categoryLabel is the label
// of the payload's current category; a title equal to it is treated as
// derived, so re-picking a category keeps the title in sync.
func EditDefinitionForm(p section.Definition, categoryLabel string) *DefinitionForm {
	st := definitionState{
		title:          p.Title,
		titleTouched:   p.Title != "" && p.Title != categoryLabel,
		categoryID:     p.LexicalCategoryID,
		categoryLabel:  categoryLabel,
		definitionText: p.DefinitionText,
		examples:       slices.Clone(p.Examples),
	}
	return &DefinitionForm{mode: ModeEdit, opened: st.clone(), definitionState: st}
}

// Cancel discards every unsubmitted edit, restoring the values the form was
// opened with.
func (f *DefinitionForm) Cancel() {
	f.definitionState = f.opened.clone()
}

func (f *DefinitionForm) Mode() Mode    { return f.mode }
func (f *DefinitionForm) Title() string { return f.title }

// SetTitle records a manual title edit. From this point on the title stops
// following the category label. Clearing the title hands control back.
func (f *DefinitionForm) SetTitle(title string) {
	f.title = title
	f.titleTouched = title != ""
}

// SetCategory selects a lexical category. The title follows the new label
// when the user has not claimed it: it is empty or still equal to the
// previous category's label.
func (f *DefinitionForm) SetCategory(id, label string) {
	follow := !f.titleTouched && (f.title == "" || f.title == f.categoryLabel)
	f.categoryID = id
	f.categoryLabel = label
	if follow {
		f.title = label
	}
}

func (f *DefinitionForm) SetDefinitionText(text string) {
	f.definitionText = text
}

func (f *DefinitionForm) AddExample(example string) {
	f.examples = append(f.examples, example)
}

func (f *DefinitionForm) RemoveExample(index int) {
	if index < 0 || index >= len(f.examples) {
		return
	}
	f.examples = slices.Delete(f.examples, index, index+1)
}

func (f *DefinitionForm) Examples() []string { return slices.Clone(f.examples) }

// Submit validates the form and returns the properties document.
func (f *DefinitionForm) Submit() (json.RawMessage, error) {
	return submit(section.TypeDefinition, section.Definition{
		Title:             f.title,
		LexicalCategoryID: f.categoryID,
		DefinitionText:    f.definitionText,
		Examples:          f.examples,
	})
}
