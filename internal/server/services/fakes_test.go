package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/conlangforge/conlangforge/internal/common"
	"github.com/conlangforge/conlangforge/internal/dbx"
	"github.com/conlangforge/conlangforge/internal/server/models"
	"github.com/conlangforge/conlangforge/internal/server/repositories/categories"
	"github.com/conlangforge/conlangforge/internal/server/repositories/conlangs"
	"github.com/conlangforge/conlangforge/internal/server/repositories/refreshtokens"
	"github.com/conlangforge/conlangforge/internal/server/repositories/sections"
	"github.com/conlangforge/conlangforge/internal/server/repositories/tags"
	"github.com/conlangforge/conlangforge/internal/server/repositories/users"
	"github.com/conlangforge/conlangforge/internal/server/repositories/words"
)

// In-memory repository fakes for service tests. The DBTX argument is
// ignored; transactional behavior itself is pinned by the repository-level
// sqlmock tests.

type fakeConlangs struct {
	byID map[string]*models.Conlang
}

func (f *fakeConlangs) Insert(ctx context.Context, c *models.Conlang) (*models.Conlang, error) {
	c.ID = "c" + strconv.Itoa(len(f.byID)+1)
	f.byID[c.ID] = c
	return c, nil
}

func (f *fakeConlangs) GetByID(ctx context.Context, id string) (*models.Conlang, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return c, nil
}

func (f *fakeConlangs) ListPublic(ctx context.Context) ([]*models.Conlang, error) {
	var out []*models.Conlang
	for _, c := range f.byID {
		if c.Public {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConlangs) ListByOwner(ctx context.Context, ownerID string) ([]*models.Conlang, error) {
	var out []*models.Conlang
	for _, c := range f.byID {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeWords struct {
	byID map[string]*models.Word
}

func (f *fakeWords) Insert(ctx context.Context, w *models.Word) (*models.Word, error) {
	w.ID = "w" + strconv.Itoa(len(f.byID)+1)
	f.byID[w.ID] = w
	return w, nil
}

func (f *fakeWords) GetByID(ctx context.Context, id string) (*models.Word, error) {
	w, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return w, nil
}

func (f *fakeWords) ListByConlang(ctx context.Context, conlangID string) ([]*models.Word, error) {
	var out []*models.Word
	for _, w := range f.byID {
		if w.ConlangID == conlangID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWords) Delete(ctx context.Context, id string) (int64, error) {
	if _, ok := f.byID[id]; !ok {
		return 0, nil
	}
	delete(f.byID, id)
	return 1, nil
}

type fakeSections struct {
	byID   map[string]*models.LexicalSection
	nextID int

	// failPosition makes UpdatePosition fail for a given id, simulating a
	// write failure mid-batch.
	failPosition map[string]error
}

func (f *fakeSections) Insert(ctx context.Context, s *models.LexicalSection) (*models.LexicalSection, error) {
	if s.Position == 0 {
		max := 0
		for _, existing := range f.byID {
			if existing.WordID == s.WordID && existing.Position > max {
				max = existing.Position
			}
		}
		s.Position = max + 1
	}
	f.nextID++
	s.ID = "s" + strconv.Itoa(f.nextID)
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	f.byID[s.ID] = s
	return s, nil
}

func (f *fakeSections) GetByID(ctx context.Context, id string) (*models.LexicalSection, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return s, nil
}

func (f *fakeSections) ListByWord(ctx context.Context, wordID string) ([]*models.LexicalSection, error) {
	var out []*models.LexicalSection
	for _, s := range f.byID {
		if s.WordID == wordID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeSections) UpdateProperties(ctx context.Context, id string, properties json.RawMessage) (*models.LexicalSection, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	s.Properties = properties
	s.UpdatedAt = time.Now()
	return s, nil
}

func (f *fakeSections) Delete(ctx context.Context, id string) (int64, error) {
	if _, ok := f.byID[id]; !ok {
		return 0, nil
	}
	delete(f.byID, id)
	return 1, nil
}

func (f *fakeSections) UpdatePosition(ctx context.Context, id string, position int) error {
	if err := f.failPosition[id]; err != nil {
		return err
	}
	s, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	s.Position = position
	return nil
}

type fakeCategories struct {
	byID map[string]*models.LexicalCategory
}

func (f *fakeCategories) Insert(ctx context.Context, c *models.LexicalCategory) (*models.LexicalCategory, error) {
	c.ID = "cat" + strconv.Itoa(len(f.byID)+1)
	f.byID[c.ID] = c
	return c, nil
}

func (f *fakeCategories) GetByID(ctx context.Context, id string) (*models.LexicalCategory, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return c, nil
}

func (f *fakeCategories) FindByNormalizedLabel(ctx context.Context, conlangID, normalized string) (*models.LexicalCategory, error) {
	for _, c := range f.byID {
		if c.ConlangID == conlangID && strings.ToLower(c.Label) == normalized {
			return c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeCategories) ListByConlang(ctx context.Context, conlangID string) ([]*models.LexicalCategory, error) {
	var out []*models.LexicalCategory
	for _, c := range f.byID {
		if c.ConlangID == conlangID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeTags struct {
	byID     map[string]*models.Tag
	attached map[string]map[string]bool
}

func (f *fakeTags) Insert(ctx context.Context, t *models.Tag) (*models.Tag, error) {
	t.ID = "t" + strconv.Itoa(len(f.byID)+1)
	f.byID[t.ID] = t
	return t, nil
}

func (f *fakeTags) GetByID(ctx context.Context, id string) (*models.Tag, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t, nil
}

func (f *fakeTags) ListByWord(ctx context.Context, wordID string) ([]*models.Tag, error) {
	var out []*models.Tag
	for id := range f.attached[wordID] {
		out = append(out, f.byID[id])
	}
	return out, nil
}

func (f *fakeTags) Attach(ctx context.Context, wordID, tagID string) error {
	if f.attached[wordID] == nil {
		f.attached[wordID] = map[string]bool{}
	}
	f.attached[wordID][tagID] = true
	return nil
}

func (f *fakeTags) Detach(ctx context.Context, wordID, tagID string) error {
	delete(f.attached[wordID], tagID)
	return nil
}

type fakeUsers struct {
	byID map[string]*models.User
}

func (f *fakeUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	for _, u := range f.byID {
		if u.Username == user.Username {
			return nil, common.ErrorConflict
		}
	}
	user.ID = "u" + strconv.Itoa(len(f.byID)+1)
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type fakeRefreshTokens struct {
	byToken map[string]*models.RefreshToken
}

func (f *fakeRefreshTokens) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	f.byToken[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (f *fakeRefreshTokens) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	t, ok := f.byToken[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t, nil
}

func (f *fakeRefreshTokens) Delete(ctx context.Context, token string) error {
	delete(f.byToken, token)
	return nil
}

type fakeManager struct {
	users         *fakeUsers
	refreshTokens *fakeRefreshTokens
	conlangs      *fakeConlangs
	words         *fakeWords
	sections      *fakeSections
	categories    *fakeCategories
	tags          *fakeTags
}

func newFakeManager() *fakeManager {
	return &fakeManager{
		users:         &fakeUsers{byID: map[string]*models.User{}},
		refreshTokens: &fakeRefreshTokens{byToken: map[string]*models.RefreshToken{}},
		conlangs:      &fakeConlangs{byID: map[string]*models.Conlang{}},
		words:         &fakeWords{byID: map[string]*models.Word{}},
		sections:      &fakeSections{byID: map[string]*models.LexicalSection{}},
		categories:    &fakeCategories{byID: map[string]*models.LexicalCategory{}},
		tags:          &fakeTags{byID: map[string]*models.Tag{}, attached: map[string]map[string]bool{}},
	}
}

func (m *fakeManager) Users(db dbx.DBTX) users.Repository                 { return m.users }
func (m *fakeManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository { return m.refreshTokens }
func (m *fakeManager) Conlangs(db dbx.DBTX) conlangs.Repository           { return m.conlangs }
func (m *fakeManager) Words(db dbx.DBTX) words.Repository                 { return m.words }
func (m *fakeManager) Sections(db dbx.DBTX) sections.Repository           { return m.sections }
func (m *fakeManager) Categories(db dbx.DBTX) categories.Repository       { return m.categories }
func (m *fakeManager) Tags(db dbx.DBTX) tags.Repository                   { return m.tags }

// newTxDB returns a *sql.DB whose transactions are tracked by sqlmock; the
// fakes do not issue queries, so only Begin/Commit/Rollback expectations
// matter.
func newTxDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}
