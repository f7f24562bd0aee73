// Package api implements the HTTP client for the ConlangForge backend.
package api

import (
	"context"
	"encoding/json"

	"github.com/conlangforge/conlangforge/internal/client/models"
	"github.com/conlangforge/conlangforge/internal/section"
)

// PositionUpdate assigns a section its new 1-based position in a reorder
// batch.
type PositionUpdate struct {
	ID       string `json:"id"`
	Position int    `json:"order"`
}

// Client defines the remote operations the CLI needs. The concrete
// HTTPClient satisfies it; tests can provide a stub.
type Client interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	Logout()
	IsAuthenticated() bool
	Ping(ctx context.Context) error

	ListPublicConlangs(ctx context.Context) ([]*models.Conlang, error)
	ListMyConlangs(ctx context.Context) ([]*models.Conlang, error)
	CreateConlang(ctx context.Context, name, description string, public bool) (*models.Conlang, error)
	GetConlang(ctx context.Context, id string) (*models.Conlang, error)

	CreateWord(ctx context.Context, conlangID, text, gloss string) (*models.Word, error)
	GetWord(ctx context.Context, id string) (*models.Word, error)
	ListWords(ctx context.Context, conlangID string) ([]*models.Word, error)
	DeleteWord(ctx context.Context, id string) error

	CreateSection(ctx context.Context, wordID string, t section.Type, properties json.RawMessage, position int) (*models.LexicalSection, error)
	UpdateSection(ctx context.Context, id string, t section.Type, properties json.RawMessage) (*models.LexicalSection, error)
	DeleteSection(ctx context.Context, id string) error
	ReorderSections(ctx context.Context, updates []PositionUpdate) ([]*models.LexicalSection, error)

	CreateCategory(ctx context.Context, conlangID, label string) (*models.LexicalCategory, error)
	ListCategories(ctx context.Context, conlangID string) ([]*models.LexicalCategory, error)

	CreateTag(ctx context.Context, conlangID, name string) (*models.Tag, error)
	AttachTag(ctx context.Context, wordID, tagID string) error
	DetachTag(ctx context.Context, wordID, tagID string) error

	PresignAudioUpload(ctx context.Context) (key string, url string, err error)
	UploadAudio(ctx context.Context, url string, data []byte, contentType string) error
}
