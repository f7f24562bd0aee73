// Package models defines client-side data models used by the ConlangForge CLI.
// Shapes mirror the JSON documents the API serves.
package models

import (
	"encoding/json"
	"time"

	"github.com/conlangforge/conlangforge/internal/section"
)

type Conlang struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Public      bool      `json:"public"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Word struct {
	ID        string    `json:"id"`
	ConlangID string    `json:"conlangId"`
	Text      string    `json:"text"`
	Gloss     string    `json:"gloss,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Sections []*LexicalSection `json:"sections,omitempty"`
	Tags     []*Tag            `json:"tags,omitempty"`
}

// LexicalSection is one ordered section of a word. HTML carries the
// server-side rendering and is empty on documents the client built locally.
type LexicalSection struct {
	ID         string          `json:"id"`
	WordID     string          `json:"wordId"`
	Type       section.Type    `json:"sectionType"`
	Position   int             `json:"order"`
	Properties json.RawMessage `json:"properties"`
	HTML       string          `json:"html,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type LexicalCategory struct {
	ID        string    `json:"id"`
	ConlangID string    `json:"conlangId"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
}

type Tag struct {
	ID        string    `json:"id"`
	ConlangID string    `json:"conlangId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
