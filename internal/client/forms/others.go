package forms

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/conlangforge/conlangforge/internal/section"
)

// PronunciationForm edits a pronunciation section.
type PronunciationForm struct {
	mode    Mode
	opened  section.Pronunciation
	payload section.Pronunciation
}

func NewPronunciationForm() *PronunciationForm {
	return &PronunciationForm{mode: ModeAdd}
}

func EditPronunciationForm(p section.Pronunciation) *PronunciationForm {
	p.PhonemeIDs = slices.Clone(p.PhonemeIDs)
	return &PronunciationForm{mode: ModeEdit, opened: p, payload: p}
}

func (f *PronunciationForm) Mode() Mode { return f.mode }

// Cancel discards every unsubmitted edit.
func (f *PronunciationForm) Cancel() {
	f.payload = f.opened
	f.payload.PhonemeIDs = slices.Clone(f.opened.PhonemeIDs)
}

func (f *PronunciationForm) SetTitle(v string) { f.payload.Title = v }
func (f *PronunciationForm) SetIPA(v string) { f.payload.IPA = v }
func (f *PronunciationForm) SetText(v string) { f.payload.PronunciationText = v }
func (f *PronunciationForm) SetRegion(v string) { f.payload.Region = v }

// SetAudioURL stores the public URL of an uploaded recording.
func (f *PronunciationForm) SetAudioURL(v string) { f.payload.AudioURL = v }

func (f *PronunciationForm) TogglePhoneme(id string) {
	if i := slices.Index(f.payload.PhonemeIDs, id); i >= 0 {
		f.payload.PhonemeIDs = slices.Delete(f.payload.PhonemeIDs, i, i+1)
		return
	}
	f.payload.PhonemeIDs = append(f.payload.PhonemeIDs, id)
}

func (f *PronunciationForm) Submit() (json.RawMessage, error) {
	return submit(section.TypePronunciation, f.payload)
}

// EtymologyForm edits an etymology section. Every field is optional.
type EtymologyForm struct {
	mode    Mode
	opened  section.Etymology
	payload section.Etymology
}

func NewEtymologyForm() *EtymologyForm {
	return &EtymologyForm{mode: ModeAdd}
}

func EditEtymologyForm(p section.Etymology) *EtymologyForm {
	return &EtymologyForm{mode: ModeEdit, opened: p, payload: p}
}

func (f *EtymologyForm) Mode() Mode { return f.mode }
func (f *EtymologyForm) Cancel() { f.payload = f.opened }
func (f *EtymologyForm) SetTitle(v string) { f.payload.Title = v }
func (f *EtymologyForm) SetText(v string) { f.payload.EtymologyText = v }

func (f *EtymologyForm) Submit() (json.RawMessage, error) {
	return submit(section.TypeEtymology, f.payload)
}

// CustomTextForm edits a titled markdown block.
type CustomTextForm struct {
	mode    Mode
	opened  section.CustomText
	payload section.CustomText
}

func NewCustomTextForm() *CustomTextForm {
	return &CustomTextForm{mode: ModeAdd}
}

func EditCustomTextForm(p section.CustomText) *CustomTextForm {
	return &CustomTextForm{mode: ModeEdit, opened: p, payload: p}
}

func (f *CustomTextForm) Mode() Mode { return f.mode }
func (f *CustomTextForm) Cancel() { f.payload = f.opened }
func (f *CustomTextForm) SetTitle(v string) { f.payload.Title = v }
func (f *CustomTextForm) SetText(v string) { f.payload.ContentText = v }

func (f *CustomTextForm) Submit() (json.RawMessage, error) {
	return submit(section.TypeCustomText, f.payload)
}

// CustomFieldsForm edits a key/value table.
type CustomFieldsForm struct {
	mode        Mode
	openedTitle string
	opened      map[string]string

	title  string
	fields map[string]string
}

func NewCustomFieldsForm() *CustomFieldsForm {
	return &CustomFieldsForm{mode: ModeAdd, opened: map[string]string{}, fields: map[string]string{}}
}

func EditCustomFieldsForm(p section.CustomFields) *CustomFieldsForm {
	fields := maps.Clone(p.CustomFields)
	if fields == nil {
		fields = map[string]string{}
	}
	return &CustomFieldsForm{
		mode:        ModeEdit,
		openedTitle: p.Title,
		opened:      maps.Clone(fields),
		title:       p.Title,
		fields:      fields,
	}
}

func (f *CustomFieldsForm) Mode() Mode { return f.mode }
func (f *CustomFieldsForm) SetTitle(v string) { f.title = v }

func (f *CustomFieldsForm) Cancel() {
	f.title = f.openedTitle
	f.fields = maps.Clone(f.opened)
}

func (f *CustomFieldsForm) SetField(key, value string) {
	f.fields[key] = value
}

func (f *CustomFieldsForm) RemoveField(key string) {
	delete(f.fields, key)
}

func (f *CustomFieldsForm) Submit() (json.RawMessage, error) {
	return submit(section.TypeCustomFields, section.CustomFields{
		Title:        f.title,
		CustomFields: f.fields,
	})
}
