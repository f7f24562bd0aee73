package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/conlangforge/conlangforge/internal/client/api"
	"github.com/conlangforge/conlangforge/internal/client/forms"
	"github.com/conlangforge/conlangforge/internal/client/models"
	"github.com/conlangforge/conlangforge/internal/client/reorder"
	"github.com/conlangforge/conlangforge/internal/section"
)

// AddSection asks for a word, a section type, and the type's fields, then
// appends the new section to the word.
func (a *App) AddSection(ctx context.Context) error {
	if a.conlang == nil {
		return errNoConlang
	}

	wordID, err := getSimpleText(a.reader, "Word id", os.Stdout)
	if err != nil {
		return err
	}

	typeNames := make([]string, 0, len(section.Types))
	for _, t := range section.Types {
		typeNames = append(typeNames, string(t))
	}
	typed, err := getSimpleText(a.reader, "Section type ("+strings.Join(typeNames, ", ")+")", os.Stdout)
	if err != nil {
		return err
	}
	t := section.Type(typed)
	if !t.Valid() {
		return fmt.Errorf("unknown section type %q", typed)
	}

	raw, err := a.promptSection(ctx, t, nil)
	if err != nil {
		return err
	}

	sec, err := a.api.CreateSection(ctx, wordID, t, raw, 0)
	if err != nil {
		return err
	}

	fmt.Printf("Added %s section at position %d\n", sec.Type, sec.Position)
	return nil
}

// EditSection replaces an existing section's fields. The type is fixed; the
// form comes up pre-filled with the stored values.
func (a *App) EditSection(ctx context.Context) error {
	if a.conlang == nil {
		return errNoConlang
	}

	wordID, err := getSimpleText(a.reader, "Word id", os.Stdout)
	if err != nil {
		return err
	}
	word, err := a.api.GetWord(ctx, wordID)
	if err != nil {
		return err
	}

	for _, sec := range word.Sections {
		fmt.Printf("[%d] %s (%s)\n", sec.Position, sec.Type, sec.ID)
	}
	sectionID, err := getSimpleText(a.reader, "Section id", os.Stdout)
	if err != nil {
		return err
	}

	var existing *models.LexicalSection
	for _, sec := range word.Sections {
		if sec.ID == sectionID {
			existing = sec
			break
		}
	}
	if existing == nil {
		return fmt.Errorf("word has no section %q", sectionID)
	}

	raw, err := a.promptSection(ctx, existing.Type, existing.Properties)
	if err != nil {
		return err
	}

	if _, err := a.api.UpdateSection(ctx, sectionID, existing.Type, raw); err != nil {
		return err
	}

	fmt.Println("Updated.")
	return nil
}

// DeleteSection removes a section; deleting one that is already gone
// succeeds quietly.
func (a *App) DeleteSection(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Section id", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.DeleteSection(ctx, id); err != nil {
		return err
	}

	fmt.Println("Deleted.")
	return nil
}

// Reorder runs an interactive up/down reordering session for one word's
// sections. Every move is persisted immediately; a rejected move snaps the
// list back to the server-confirmed order.
func (a *App) Reorder(ctx context.Context) error {
	wordID, err := getSimpleText(a.reader, "Word id", os.Stdout)
	if err != nil {
		return err
	}
	word, err := a.api.GetWord(ctx, wordID)
	if err != nil {
		return err
	}
	if len(word.Sections) < 2 {
		fmt.Println("Nothing to reorder.")
		return nil
	}

	eng := reorder.NewEngine(word.Sections, func(ctx context.Context, updates []api.PositionUpdate) ([]*models.LexicalSection, error) {
		return a.api.ReorderSections(ctx, updates)
	})

	for {
		for i, sec := range eng.Sections() {
			fmt.Printf("%d. %s (%s)\n", i+1, sec.Type, sec.ID)
		}
		line, err := getSimpleText(a.reader, "Move (u <n> / d <n> / done)", os.Stdout)
		if err != nil {
			return err
		}
		if line == "done" {
			break
		}

		dir, numStr, ok := strings.Cut(line, " ")
		if !ok || (dir != "u" && dir != "d") {
			fmt.Println("Expected 'u <n>', 'd <n>' or 'done'.")
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(numStr))
		if err != nil || n < 1 || n > len(eng.Sections()) {
			fmt.Println("No such row.")
			continue
		}

		if dir == "u" {
			err = eng.MoveUp(ctx, n-1)
		} else {
			err = eng.MoveDown(ctx, n-1)
		}
		if err != nil {
			fmt.Println("Move rejected:", err.Error())
		}
	}

	word.Sections = eng.Sections()
	if err := a.cache.StoreWord(ctx, word); err != nil {
		fmt.Println("Warning: could not refresh local cache:", err.Error())
	}
	return nil
}

// promptSection collects a properties document for the given type. existing,
// when non-nil, pre-fills the form (edit mode).
func (a *App) promptSection(ctx context.Context, t section.Type, existing json.RawMessage) (json.RawMessage, error) {
	var payload section.Properties
	if existing != nil {
		var err error
		payload, err = section.Decode(t, existing)
		if err != nil {
			return nil, err
		}
	}

	switch t {
	case section.TypeDefinition:
		return a.promptDefinition(ctx, payload)
	case section.TypePronunciation:
		return a.promptPronunciation(ctx, payload)
	case section.TypeEtymology:
		return a.promptEtymology(payload)
	case section.TypeCustomText:
		return a.promptCustomText(payload)
	case section.TypeCustomFields:
		return a.promptCustomFields(payload)
	default:
		return nil, fmt.Errorf("unknown section type %q", t)
	}
}

func (a *App) promptDefinition(ctx context.Context, payload section.Properties) (json.RawMessage, error) {
	categories, err := a.api.ListCategories(ctx, a.conlang.ID)
	if err != nil {
		return nil, err
	}
	picker := forms.NewCategoryPicker(a.conlang.ID, categories, a.api.CreateCategory)

	form := forms.NewDefinitionForm()
	if payload != nil {
		def := payload.(section.Definition)
		label := ""
		for _, c := range categories {
			if c.ID == def.LexicalCategoryID {
				label = c.Label
			}
		}
		form = forms.EditDefinitionForm(def, label)
		picker.Select(def.LexicalCategoryID)
	}

	for _, c := range picker.Categories() {
		fmt.Printf("%s  %s\n", c.ID, c.Label)
	}
	choice, err := getSimpleText(a.reader, "Category id (or 'new <label>' to create one)", os.Stdout)
	if err != nil {
		return nil, err
	}
	if label, ok := strings.CutPrefix(choice, "new "); ok {
		created, err := picker.CreateAndSelect(ctx, strings.TrimSpace(label))
		if err != nil {
			return nil, err
		}
		form.SetCategory(created.ID, created.Label)
	} else if choice != "" {
		selected := picker.Select(choice)
		if selected == nil {
			return nil, fmt.Errorf("no category %q", choice)
		}
		form.SetCategory(selected.ID, selected.Label)
	}

	title, err := getSimpleText(a.reader, "Title (empty to use category label: "+form.Title()+")", os.Stdout)
	if err != nil {
		return nil, err
	}
	if title != "" {
		form.SetTitle(title)
	}

	text, err := GetMultiline(a.reader, "Definition text (markdown)", os.Stdout)
	if err != nil {
		return nil, err
	}
	form.SetDefinitionText(text)

	for {
		example, err := getSimpleText(a.reader, "Example (empty line to finish)", os.Stdout)
		if err != nil {
			return nil, err
		}
		if example == "" {
			break
		}
		form.AddExample(example)
	}

	return form.Submit()
}

func (a *App) promptPronunciation(ctx context.Context, payload section.Properties) (json.RawMessage, error) {
	form := forms.NewPronunciationForm()
	if payload != nil {
		form = forms.EditPronunciationForm(payload.(section.Pronunciation))
	}

	ipa, err := getSimpleText(a.reader, "IPA (without slashes)", os.Stdout)
	if err != nil {
		return nil, err
	}
	form.SetIPA(ipa)

	text, err := getSimpleText(a.reader, "Pronunciation text (optional)", os.Stdout)
	if err != nil {
		return nil, err
	}
	form.SetText(text)

	region, err := getSimpleText(a.reader, "Region (optional)", os.Stdout)
	if err != nil {
		return nil, err
	}
	form.SetRegion(region)

	path, err := getSimpleText(a.reader, "Audio file to upload (optional)", os.Stdout)
	if err != nil {
		return nil, err
	}
	if path != "" {
		audioURL, err := a.uploadAudio(ctx, path)
		if err != nil {
			return nil, err
		}
		form.SetAudioURL(audioURL)
	}

	return form.Submit()
}

// uploadAudio pushes a local file to object storage via a presigned URL and
// returns the object's public URL.
func (a *App) uploadAudio(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	_, uploadURL, err := a.api.PresignAudioUpload(ctx)
	if err != nil {
		return "", err
	}
	if err := a.api.UploadAudio(ctx, uploadURL, data, "audio/mpeg"); err != nil {
		return "", err
	}

	// The object URL is the presigned URL minus the signature query.
	publicURL, _, _ := strings.Cut(uploadURL, "?")
	return publicURL, nil
}

func (a *App) promptEtymology(payload section.Properties) (json.RawMessage, error) {
	form := forms.NewEtymologyForm()
	if payload != nil {
		form = forms.EditEtymologyForm(payload.(section.Etymology))
	}

	title, err := getSimpleText(a.reader, "Title (optional)", os.Stdout)
	if err != nil {
		return nil, err
	}
	form.SetTitle(title)

	text, err := GetMultiline(a.reader, "Etymology text (markdown)", os.Stdout)
	if err != nil {
		return nil, err
	}
	form.SetText(text)

	return form.Submit()
}

func (a *App) promptCustomText(payload section.Properties) (json.RawMessage, error) {
	form := forms.NewCustomTextForm()
	if payload != nil {
		form = forms.EditCustomTextForm(payload.(section.CustomText))
	}

	title, err := getSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return nil, err
	}
	form.SetTitle(title)

	text, err := GetMultiline(a.reader, "Content (markdown)", os.Stdout)
	if err != nil {
		return nil, err
	}
	form.SetText(text)

	return form.Submit()
}

func (a *App) promptCustomFields(payload section.Properties) (json.RawMessage, error) {
	form := forms.NewCustomFieldsForm()
	if payload != nil {
		form = forms.EditCustomFieldsForm(payload.(section.CustomFields))
	}

	title, err := getSimpleText(a.reader, "Title (optional)", os.Stdout)
	if err != nil {
		return nil, err
	}
	form.SetTitle(title)

	fields, err := GetKeyValues(a.reader, os.Stdout)
	if err != nil {
		return nil, err
	}
	for name, value := range fields {
		form.SetField(name, value)
	}

	return form.Submit()
}
