// Package models defines the server-side persistence entities.
package models

import (
	"encoding/json"
	"time"

	"github.com/conlangforge/conlangforge/internal/section"
)

type User struct {
	ID           string
	Username     string
	PasswordHash []byte
	CreatedAt    time.Time
}

type RefreshToken struct {
	UserID  string
	Token   string
	Expires time.Time
}

// Conlang is the top-level container entity. Public conlangs are browsable
// by anyone; everything else requires ownership.
type Conlang struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Public      bool      `json:"public"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Word owns an ordered collection of lexical sections. Deleting a word
// cascades to its sections.
type Word struct {
	ID        string    `json:"id"`
	ConlangID string    `json:"conlangId"`
	Text      string    `json:"text"`
	Gloss     string    `json:"gloss,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Sections is populated on the read path, already sorted by position.
	Sections []*LexicalSection `json:"sections,omitempty"`
	Tags     []*Tag            `json:"tags,omitempty"`
}

// LexicalSection is one row of the (wordId, sectionType, position,
// properties-as-document) table. Type is fixed at creation and immutable;
// Properties must validate against the schema for Type.
type LexicalSection struct {
	ID         string          `json:"id"`
	WordID     string          `json:"wordId"`
	Type       section.Type    `json:"sectionType"`
	Position   int             `json:"order"`
	Properties json.RawMessage `json:"properties"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// LexicalCategory is a user-defined part-of-speech label scoped to one
// conlang. Uniqueness is case-insensitive and enforced at the application
// layer before insert.
type LexicalCategory struct {
	ID        string    `json:"id"`
	ConlangID string    `json:"conlangId"`
	OwnerID   string    `json:"-"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
}

type Tag struct {
	ID        string    `json:"id"`
	ConlangID string    `json:"conlangId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
