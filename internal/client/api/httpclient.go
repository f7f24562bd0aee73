package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/conlangforge/conlangforge/internal/client/models"
	"github.com/conlangforge/conlangforge/internal/common"
	"github.com/conlangforge/conlangforge/internal/netx"
	"github.com/conlangforge/conlangforge/internal/section"
)

// HTTPClient talks JSON over HTTP to the backend. It holds the current token
// pair and transparently refreshes the access token once on a 401 before
// giving up.
type HTTPClient struct {
	baseURL      string
	http         *http.Client
	accessToken  string
	refreshToken string
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type apiError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// decodeError turns a non-2xx response into a domain error.
func decodeError(resp *http.Response) error {
	var body apiError
	_ = json.NewDecoder(resp.Body).Decode(&body)

	switch resp.StatusCode {
	case http.StatusBadRequest:
		if len(body.Fields) > 0 {
			verr := common.NewValidationError()
			for field, msg := range body.Fields {
				verr.Add(field, msg)
			}
			return verr
		}
		return fmt.Errorf("bad request: %s", body.Error)
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusForbidden:
		return common.ErrorForbidden
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return common.ErrorConflict
	default:
		return fmt.Errorf("%w: server returned %s", common.ErrorInternal, resp.Status)
	}
}

// do sends one JSON request and decodes the response into out (when out is
// non-nil). Authenticated requests that bounce with 401 are retried once
// after a token refresh.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return err
		}
	}

	resp, err := c.send(ctx, method, path, payload)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && c.refreshToken != "" {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if err := c.refresh(ctx); err != nil {
			return err
		}
		resp, err = c.send(ctx, method, path, payload)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) send(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	return c.http.Do(req)
}

func (c *HTTPClient) refresh(ctx context.Context) error {
	payload, err := json.Marshal(map[string]string{"refreshToken": c.refreshToken})
	if err != nil {
		return err
	}

	resp, err := c.send(ctx, http.MethodPost, "/api/v1/refresh", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		c.Logout()
		return decodeError(resp)
	}

	var tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return err
	}
	c.accessToken = tokens.AccessToken
	c.refreshToken = tokens.RefreshToken
	return nil
}

// ---- auth ----

func (c *HTTPClient) Register(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/register",
		map[string]string{"username": username, "password": password}, nil)
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) error {
	var tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/login",
		map[string]string{"username": username, "password": password}, &tokens)
	if err != nil {
		return err
	}
	c.accessToken = tokens.AccessToken
	c.refreshToken = tokens.RefreshToken
	return nil
}

func (c *HTTPClient) Logout() {
	c.accessToken = ""
	c.refreshToken = ""
}

func (c *HTTPClient) IsAuthenticated() bool {
	return c.accessToken != ""
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/v1/healthz", nil, nil)
}

// ---- conlangs ----

func (c *HTTPClient) ListPublicConlangs(ctx context.Context) ([]*models.Conlang, error) {
	var resp struct {
		Conlangs []*models.Conlang `json:"conlangs"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/conlangs", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Conlangs, nil
}

func (c *HTTPClient) ListMyConlangs(ctx context.Context) ([]*models.Conlang, error) {
	var resp struct {
		Conlangs []*models.Conlang `json:"conlangs"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/user/conlangs", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Conlangs, nil
}

func (c *HTTPClient) CreateConlang(ctx context.Context, name, description string, public bool) (*models.Conlang, error) {
	var conlang models.Conlang
	err := c.do(ctx, http.MethodPost, "/api/v1/conlangs",
		map[string]any{"name": name, "description": description, "public": public}, &conlang)
	if err != nil {
		return nil, err
	}
	return &conlang, nil
}

func (c *HTTPClient) GetConlang(ctx context.Context, id string) (*models.Conlang, error) {
	var conlang models.Conlang
	if err := c.do(ctx, http.MethodGet, "/api/v1/conlangs/"+url.PathEscape(id), nil, &conlang); err != nil {
		return nil, err
	}
	return &conlang, nil
}

// ---- words ----

func (c *HTTPClient) CreateWord(ctx context.Context, conlangID, text, gloss string) (*models.Word, error) {
	var word models.Word
	err := c.do(ctx, http.MethodPost, "/api/v1/words",
		map[string]string{"conlangId": conlangID, "text": text, "gloss": gloss}, &word)
	if err != nil {
		return nil, err
	}
	return &word, nil
}

func (c *HTTPClient) GetWord(ctx context.Context, id string) (*models.Word, error) {
	var word models.Word
	if err := c.do(ctx, http.MethodGet, "/api/v1/words/"+url.PathEscape(id), nil, &word); err != nil {
		return nil, err
	}
	return &word, nil
}

func (c *HTTPClient) ListWords(ctx context.Context, conlangID string) ([]*models.Word, error) {
	var resp struct {
		Words []*models.Word `json:"words"`
	}
	err := c.do(ctx, http.MethodGet, "/api/v1/conlangs/"+url.PathEscape(conlangID)+"/words", nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Words, nil
}

func (c *HTTPClient) DeleteWord(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/words/"+url.PathEscape(id), nil, nil)
}

// ---- sections ----

func (c *HTTPClient) CreateSection(ctx context.Context, wordID string, t section.Type, properties json.RawMessage, position int) (*models.LexicalSection, error) {
	var sec models.LexicalSection
	err := c.do(ctx, http.MethodPost, "/api/v1/sections", map[string]any{
		"wordId":      wordID,
		"sectionType": t,
		"order":       position,
		"properties":  properties,
	}, &sec)
	if err != nil {
		return nil, err
	}
	return &sec, nil
}

func (c *HTTPClient) UpdateSection(ctx context.Context, id string, t section.Type, properties json.RawMessage) (*models.LexicalSection, error) {
	var sec models.LexicalSection
	err := c.do(ctx, http.MethodPatch, "/api/v1/sections/"+url.PathEscape(id), map[string]any{
		"sectionType": t,
		"properties":  properties,
	}, &sec)
	if err != nil {
		return nil, err
	}
	return &sec, nil
}

func (c *HTTPClient) DeleteSection(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/sections/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) ReorderSections(ctx context.Context, updates []PositionUpdate) ([]*models.LexicalSection, error) {
	var resp struct {
		Sections []*models.LexicalSection `json:"sections"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/sections/reorder",
		map[string]any{"updates": updates}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Sections, nil
}

// ---- categories ----

func (c *HTTPClient) CreateCategory(ctx context.Context, conlangID, label string) (*models.LexicalCategory, error) {
	var cat models.LexicalCategory
	err := c.do(ctx, http.MethodPost, "/api/v1/conlangs/"+url.PathEscape(conlangID)+"/categories",
		map[string]string{"label": label}, &cat)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *HTTPClient) ListCategories(ctx context.Context, conlangID string) ([]*models.LexicalCategory, error) {
	var resp struct {
		Categories []*models.LexicalCategory `json:"categories"`
	}
	err := c.do(ctx, http.MethodGet, "/api/v1/conlangs/"+url.PathEscape(conlangID)+"/categories", nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// ---- tags ----

func (c *HTTPClient) CreateTag(ctx context.Context, conlangID, name string) (*models.Tag, error) {
	var tag models.Tag
	err := c.do(ctx, http.MethodPost, "/api/v1/conlangs/"+url.PathEscape(conlangID)+"/tags",
		map[string]string{"name": name}, &tag)
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (c *HTTPClient) AttachTag(ctx context.Context, wordID, tagID string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/words/"+url.PathEscape(wordID)+"/tags",
		map[string]string{"tagId": tagID}, nil)
}

func (c *HTTPClient) DetachTag(ctx context.Context, wordID, tagID string) error {
	return c.do(ctx, http.MethodDelete,
		"/api/v1/words/"+url.PathEscape(wordID)+"/tags/"+url.PathEscape(tagID), nil, nil)
}

// ---- uploads ----

func (c *HTTPClient) PresignAudioUpload(ctx context.Context) (string, string, error) {
	var resp struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/uploads/audio", nil, &resp); err != nil {
		return "", "", err
	}
	return resp.Key, resp.URL, nil
}

func (c *HTTPClient) UploadAudio(ctx context.Context, url string, data []byte, contentType string) error {
	return netx.UploadToPresignedURL(ctx, url, data, contentType)
}
