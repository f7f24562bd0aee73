package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/conlangforge/conlangforge/internal/common"
	"github.com/conlangforge/conlangforge/internal/logging"
	"github.com/conlangforge/conlangforge/internal/section"
	"github.com/conlangforge/conlangforge/internal/server/models"
	"github.com/conlangforge/conlangforge/internal/server/services"
)

// ---- test logger ----

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (nopLogger) With(...any) logging.Logger            { return nopLogger{} }

// ---- fakes ----

type fakeUsers struct {
	regResp *models.User
	regErr  error

	loginResp *services.TokenPair
	loginErr  error

	refreshResp *services.TokenPair
	refreshErr  error

	tokenUserID string
	tokenErr    error
}

func (f *fakeUsers) Register(ctx context.Context, username, password string) (*models.User, error) {
	return f.regResp, f.regErr
}
func (f *fakeUsers) Login(ctx context.Context, username, password string) (*services.TokenPair, error) {
	return f.loginResp, f.loginErr
}
func (f *fakeUsers) RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	return f.refreshResp, f.refreshErr
}
func (f *fakeUsers) UserIDFromToken(tokenString string) (string, error) {
	return f.tokenUserID, f.tokenErr
}

type fakeConlangs struct {
	conlang *models.Conlang
	list    []*models.Conlang
	err     error
}

func (f *fakeConlangs) Create(ctx context.Context, ownerID, name, description string, public bool) (*models.Conlang, error) {
	return f.conlang, f.err
}
func (f *fakeConlangs) Get(ctx context.Context, userID, conlangID string) (*models.Conlang, error) {
	return f.conlang, f.err
}
func (f *fakeConlangs) ListPublic(ctx context.Context) ([]*models.Conlang, error) {
	return f.list, f.err
}
func (f *fakeConlangs) ListMine(ctx context.Context, userID string) ([]*models.Conlang, error) {
	return f.list, f.err
}

type fakeWords struct {
	word *models.Word
	list []*models.Word
	err  error

	gotUserID string
}

func (f *fakeWords) Create(ctx context.Context, userID, conlangID, text, gloss string) (*models.Word, error) {
	f.gotUserID = userID
	return f.word, f.err
}
func (f *fakeWords) GetWithSections(ctx context.Context, userID, wordID string) (*models.Word, error) {
	f.gotUserID = userID
	return f.word, f.err
}
func (f *fakeWords) ListByConlang(ctx context.Context, userID, conlangID string) ([]*models.Word, error) {
	f.gotUserID = userID
	return f.list, f.err
}
func (f *fakeWords) Delete(ctx context.Context, userID, wordID string) error {
	f.gotUserID = userID
	return f.err
}

type fakeSectionsSvc struct {
	sec  *models.LexicalSection
	list []*models.LexicalSection
	err  error

	gotType       section.Type
	gotProperties json.RawMessage
	gotUpdates    []services.PositionUpdate
}

func (f *fakeSectionsSvc) Insert(ctx context.Context, userID, wordID string, t section.Type, properties json.RawMessage, position int) (*models.LexicalSection, error) {
	f.gotType = t
	f.gotProperties = properties
	return f.sec, f.err
}
func (f *fakeSectionsSvc) UpdateProperties(ctx context.Context, userID, sectionID string, declaredType section.Type, properties json.RawMessage) (*models.LexicalSection, error) {
	f.gotType = declaredType
	f.gotProperties = properties
	return f.sec, f.err
}
func (f *fakeSectionsSvc) Delete(ctx context.Context, userID, sectionID string) error {
	return f.err
}
func (f *fakeSectionsSvc) Reorder(ctx context.Context, userID string, updates []services.PositionUpdate) ([]*models.LexicalSection, error) {
	f.gotUpdates = updates
	return f.list, f.err
}

type fakeCategoriesSvc struct {
	cat  *models.LexicalCategory
	list []*models.LexicalCategory
	err  error
}

func (f *fakeCategoriesSvc) Create(ctx context.Context, userID, conlangID, label string) (*models.LexicalCategory, error) {
	return f.cat, f.err
}
func (f *fakeCategoriesSvc) ListByConlang(ctx context.Context, userID, conlangID string) ([]*models.LexicalCategory, error) {
	return f.list, f.err
}

type fakeTagsSvc struct {
	tag *models.Tag
	err error
}

func (f *fakeTagsSvc) Create(ctx context.Context, userID, conlangID, name string) (*models.Tag, error) {
	return f.tag, f.err
}
func (f *fakeTagsSvc) Attach(ctx context.Context, userID, wordID, tagID string) error { return f.err }
func (f *fakeTagsSvc) Detach(ctx context.Context, userID, wordID, tagID string) error { return f.err }

type fakeUploads struct {
	key, url string
	err      error
}

func (f *fakeUploads) PresignedPutURL(ctx context.Context) (string, string, error) {
	return f.key, f.url, f.err
}

type fakeHealth struct{ err error }

func (f *fakeHealth) Check(ctx context.Context) error { return f.err }

// ---- helpers ----

type testServer struct {
	*HTTPServer
	users      *fakeUsers
	conlangs   *fakeConlangs
	words      *fakeWords
	sections   *fakeSectionsSvc
	categories *fakeCategoriesSvc
	tags       *fakeTagsSvc
	uploads    *fakeUploads
	health     *fakeHealth
}

func newTestServer() *testServer {
	ts := &testServer{
		users:      &fakeUsers{tokenUserID: "u1"},
		conlangs:   &fakeConlangs{},
		words:      &fakeWords{},
		sections:   &fakeSectionsSvc{},
		categories: &fakeCategoriesSvc{},
		tags:       &fakeTagsSvc{},
		uploads:    &fakeUploads{},
		health:     &fakeHealth{},
	}
	ts.HTTPServer = NewHTTPServer("127.0.0.1:0", nopLogger{},
		ts.users, ts.conlangs, ts.words, ts.sections, ts.categories, ts.tags, ts.uploads, ts.health)
	return ts
}

func doRequest(t *testing.T, s *HTTPServer, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Routes().ServeHTTP(w, r)
	return w
}

// ---- tests ----

func TestRegister_Created(t *testing.T) {
	ts := newTestServer()
	ts.users.regResp = &models.User{ID: "u1", Username: "zamenhof"}

	w := doRequest(t, ts.HTTPServer, http.MethodPost, "/api/v1/register", "",
		`{"username":"zamenhof","password":"esperanto1"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "u1", resp["id"])
}

func TestRegister_ValidationErrorHasFields(t *testing.T) {
	ts := newTestServer()
	verr := common.NewValidationError()
	verr.Add("password", "must be at least 8 characters")
	ts.users.regErr = verr

	w := doRequest(t, ts.HTTPServer, http.MethodPost, "/api/v1/register", "",
		`{"username":"x","password":"short"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Contains(t, resp.Fields, "password")
}

func TestLogin_Unauthorized(t *testing.T) {
	ts := newTestServer()
	ts.users.loginErr = common.ErrorUnauthorized

	w := doRequest(t, ts.HTTPServer, http.MethodPost, "/api/v1/login", "",
		`{"username":"x","password":"y"}`)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_MissingToken(t *testing.T) {
	ts := newTestServer()

	w := doRequest(t, ts.HTTPServer, http.MethodPost, "/api/v1/conlangs", "",
		`{"name":"High Valyrian"}`)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	ts := newTestServer()
	ts.users.tokenErr = common.ErrTokenExpired

	w := doRequest(t, ts.HTTPServer, http.MethodPost, "/api/v1/conlangs", "stale",
		`{"name":"High Valyrian"}`)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	ts := newTestServer()
	ts.words.list = []*models.Word{}

	w := doRequest(t, ts.HTTPServer, http.MethodGet, "/api/v1/conlangs/c1/words", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "", ts.words.gotUserID)
}

func TestOptionalAuth_TokenSetsUser(t *testing.T) {
	ts := newTestServer()
	ts.words.list = []*models.Word{}

	w := doRequest(t, ts.HTTPServer, http.MethodGet, "/api/v1/conlangs/c1/words", "tok", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "u1", ts.words.gotUserID)
}

func TestGetWord_RendersSections(t *testing.T) {
	ts := newTestServer()
	ts.words.word = &models.Word{
		ID: "w1", ConlangID: "c1", Text: "tengwa",
		Sections: []*models.LexicalSection{
			{
				ID: "s1", WordID: "w1", Type: section.TypePronunciation, Position: 1,
				Properties: json.RawMessage(`{"ipa":"ˈteŋ.gʷa"}`),
				CreatedAt:  time.Now(), UpdatedAt: time.Now(),
			},
		},
	}

	w := doRequest(t, ts.HTTPServer, http.MethodGet, "/api/v1/words/w1", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Sections []struct {
			ID   string `json:"id"`
			HTML string `json:"html"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Sections, 1)
	require.Equal(t, "s1", resp.Sections[0].ID)
	require.Contains(t, resp.Sections[0].HTML, "/ˈteŋ.gʷa/")
}

func TestCreateSection_Created(t *testing.T) {
	ts := newTestServer()
	ts.sections.sec = &models.LexicalSection{
		ID: "s1", WordID: "w1", Type: section.TypeCustomText, Position: 3,
		Properties: json.RawMessage(`{"title":"Usage","contentText":"Formal."}`),
	}

	w := doRequest(t, ts.HTTPServer, http.MethodPost, "/api/v1/sections", "tok",
		`{"wordId":"w1","sectionType":"custom_text","properties":{"title":"Usage","contentText":"Formal."}}`)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, section.TypeCustomText, ts.sections.gotType)
}

func TestCreateSection_ValidationError(t *testing.T) {
	ts := newTestServer()
	verr := common.NewValidationError()
	verr.Add("properties.contentText", "is required")
	ts.sections.err = verr

	w := doRequest(t, ts.HTTPServer, http.MethodPost, "/api/v1/sections", "tok",
		`{"wordId":"w1","sectionType":"custom_text","properties":{"title":"Usage"}}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Contains(t, resp.Fields, "properties.contentText")
}

func TestDeleteSection_NoContent(t *testing.T) {
	ts := newTestServer()

	w := doRequest(t, ts.HTTPServer, http.MethodDelete, "/api/v1/sections/s1", "tok", "")

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Empty(t, w.Body.String())
}

func TestReorderSections_ReturnsNewOrder(t *testing.T) {
	ts := newTestServer()
	ts.sections.list = []*models.LexicalSection{
		{ID: "s2", Type: section.TypeEtymology, Position: 1, Properties: json.RawMessage(`{}`)},
		{ID: "s1", Type: section.TypeEtymology, Position: 2, Properties: json.RawMessage(`{}`)},
	}

	w := doRequest(t, ts.HTTPServer, http.MethodPost, "/api/v1/sections/reorder", "tok",
		`{"updates":[{"id":"s2","order":1},{"id":"s1","order":2}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []services.PositionUpdate{
		{ID: "s2", Position: 1},
		{ID: "s1", Position: 2},
	}, ts.sections.gotUpdates)
}

func TestCreateCategory_Conflict(t *testing.T) {
	ts := newTestServer()
	ts.categories.err = common.ErrorConflict

	w := doRequest(t, ts.HTTPServer, http.MethodPost, "/api/v1/conlangs/c1/categories", "tok",
		`{"label":"Noun"}`)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestGetConlang_NotFound(t *testing.T) {
	ts := newTestServer()
	ts.conlangs.err = common.ErrorNotFound

	w := doRequest(t, ts.HTTPServer, http.MethodGet, "/api/v1/conlangs/nope", "", "")

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteWord_Forbidden(t *testing.T) {
	ts := newTestServer()
	ts.words.err = common.ErrorForbidden

	w := doRequest(t, ts.HTTPServer, http.MethodDelete, "/api/v1/words/w1", "tok", "")

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestPresignAudioUpload(t *testing.T) {
	ts := newTestServer()
	ts.uploads.key = "audio/2026/08/28/abc"
	ts.uploads.url = "https://bucket.example/abc?sig=x"

	w := doRequest(t, ts.HTTPServer, http.MethodPost, "/api/v1/uploads/audio", "tok", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, ts.uploads.key, resp["key"])
	require.Equal(t, ts.uploads.url, resp["url"])
}

func TestHealthz(t *testing.T) {
	ts := newTestServer()

	w := doRequest(t, ts.HTTPServer, http.MethodGet, "/api/v1/healthz", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	ts.health.err = common.ErrorInternal
	w = doRequest(t, ts.HTTPServer, http.MethodGet, "/api/v1/healthz", "", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestInternalErrorIsGeneric(t *testing.T) {
	ts := newTestServer()
	ts.conlangs.err = errors.New("pq: connection reset")

	w := doRequest(t, ts.HTTPServer, http.MethodGet, "/api/v1/conlangs/c1", "", "")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "connection reset")
}

func TestMalformedBody(t *testing.T) {
	ts := newTestServer()

	w := doRequest(t, ts.HTTPServer, http.MethodPost, "/api/v1/login", "", `{"username":`)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
