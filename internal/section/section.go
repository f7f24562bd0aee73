// Package section defines the lexical-section payload model: a closed,
// type-tagged union of property documents (definition, pronunciation,
// etymology, custom text, custom fields), their validation rules, and the
// pure renderer that maps a payload to display markup.
package section

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Type classifies a lexical section. The set is closed: a stored document
// tagged with one type never carries another type's fields.
type Type string

const (
	TypeDefinition    Type = "definition"
	TypePronunciation Type = "pronunciation"
	TypeEtymology     Type = "etymology"
	TypeCustomText    Type = "custom_text"
	TypeCustomFields  Type = "custom_fields"
)

// Types lists every valid section type in display order.
var Types = []Type{
	TypeDefinition,
	TypePronunciation,
	TypeEtymology,
	TypeCustomText,
	TypeCustomFields,
}

// Valid reports whether t is a member of the closed type set.
func (t Type) Valid() bool {
	switch t {
	case TypeDefinition, TypePronunciation, TypeEtymology, TypeCustomText, TypeCustomFields:
		return true
	}
	return false
}

// Properties is implemented by every payload variant.
type Properties interface {
	SectionType() Type
}

// Definition describes a word sense. LexicalCategoryID is required; the
// definition text is stored as markdown.
type Definition struct {
	Title             string   `json:"title,omitempty"`
	LexicalCategoryID string   `json:"lexicalCategoryId"`
	DefinitionText    string   `json:"definitionText,omitempty"`
	Examples          []string `json:"examples,omitempty"`
}

func (Definition) SectionType() Type { return TypeDefinition }

// Pronunciation carries at least one of IPA or a prose pronunciation text.
// AudioURL, when set, must be a well-formed absolute URL.
type Pronunciation struct {
	Title             string   `json:"title,omitempty"`
	PronunciationText string   `json:"pronunciationText,omitempty"`
	IPA               string   `json:"ipa,omitempty"`
	AudioURL          string   `json:"audioUrl,omitempty"`
	Region            string   `json:"region,omitempty"`
	PhonemeIDs        []string `json:"phonemeIds,omitempty"`
}

func (Pronunciation) SectionType() Type { return TypePronunciation }

// Etymology stores free-form origin notes as markdown.
type Etymology struct {
	Title         string `json:"title,omitempty"`
	EtymologyText string `json:"etymologyText,omitempty"`
}

func (Etymology) SectionType() Type { return TypeEtymology }

// CustomText is a user-titled markdown block.
type CustomText struct {
	Title       string `json:"title"`
	ContentText string `json:"contentText"`
}

func (CustomText) SectionType() Type { return TypeCustomText }

// CustomFields is a user-titled key/value table.
type CustomFields struct {
	Title        string            `json:"title,omitempty"`
	CustomFields map[string]string `json:"customFields"`
}

func (CustomFields) SectionType() Type { return TypeCustomFields }

// Decode unmarshals a raw properties document into the variant named by t.
// Unknown fields are rejected, which keeps the union closed: a document
// typed "definition" cannot smuggle in "etymologyText".
func Decode(t Type, raw json.RawMessage) (Properties, error) {
	switch t {
	case TypeDefinition:
		var v Definition
		return v, strictUnmarshal(raw, &v)
	case TypePronunciation:
		var v Pronunciation
		return v, strictUnmarshal(raw, &v)
	case TypeEtymology:
		var v Etymology
		return v, strictUnmarshal(raw, &v)
	case TypeCustomText:
		var v CustomText
		return v, strictUnmarshal(raw, &v)
	case TypeCustomFields:
		var v CustomFields
		return v, strictUnmarshal(raw, &v)
	default:
		return nil, fmt.Errorf("unknown section type %q", t)
	}
}

// Encode marshals a payload variant back to its stored JSON form.
func Encode(p Properties) (json.RawMessage, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func strictUnmarshal(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
