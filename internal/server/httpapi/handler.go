package httpapi

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/conlangforge/conlangforge/internal/section"
	"github.com/conlangforge/conlangforge/internal/server/models"
	"github.com/conlangforge/conlangforge/internal/server/services"
)

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// sectionView is a LexicalSection plus its server-side rendering.
type sectionView struct {
	*models.LexicalSection
	HTML template.HTML `json:"html,omitempty"`
}

// wordView overrides Word.Sections with rendered section views.
type wordView struct {
	*models.Word
	Sections []sectionView `json:"sections"`
}

func renderSection(sec *models.LexicalSection) sectionView {
	v := sectionView{LexicalSection: sec}
	p, err := section.Decode(sec.Type, sec.Properties)
	if err != nil {
		// Stored rows are validated at write time, so this only fires on
		// schema drift. The raw document still goes out.
		return v
	}
	v.HTML = section.Render(p)
	return v
}

func renderSections(secs []*models.LexicalSection) []sectionView {
	views := make([]sectionView, 0, len(secs))
	for _, sec := range secs {
		views = append(views, renderSection(sec))
	}
	return views
}

// ---- users ----

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	user, err := s.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", user.Username)
	s.writeJSON(w, http.StatusCreated, map[string]string{"id": user.ID, "username": user.Username})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	tokens, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, tokenPairResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken})
}

func (s *HTTPServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	tokens, err := s.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, tokenPairResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken})
}

// ---- conlangs ----

func (s *HTTPServer) handleListConlangs(w http.ResponseWriter, r *http.Request) {
	list, err := s.conlangs.ListPublic(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"conlangs": list})
}

func (s *HTTPServer) handleListMyConlangs(w http.ResponseWriter, r *http.Request) {
	list, err := s.conlangs.ListMine(r.Context(), userID(r.Context()))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"conlangs": list})
}

func (s *HTTPServer) handleCreateConlang(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Public      bool   `json:"public"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	conlang, err := s.conlangs.Create(r.Context(), userID(r.Context()), req.Name, req.Description, req.Public)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, conlang)
}

func (s *HTTPServer) handleGetConlang(w http.ResponseWriter, r *http.Request) {
	conlang, err := s.conlangs.Get(r.Context(), userID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, conlang)
}

// ---- words ----

func (s *HTTPServer) handleCreateWord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConlangID string `json:"conlangId"`
		Text      string `json:"text"`
		Gloss     string `json:"gloss"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	word, err := s.words.Create(r.Context(), userID(r.Context()), req.ConlangID, req.Text, req.Gloss)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, word)
}

func (s *HTTPServer) handleGetWord(w http.ResponseWriter, r *http.Request) {
	word, err := s.words.GetWithSections(r.Context(), userID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, wordView{Word: word, Sections: renderSections(word.Sections)})
}

func (s *HTTPServer) handleListWords(w http.ResponseWriter, r *http.Request) {
	words, err := s.words.ListByConlang(r.Context(), userID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"words": words})
}

func (s *HTTPServer) handleDeleteWord(w http.ResponseWriter, r *http.Request) {
	if err := s.words.Delete(r.Context(), userID(r.Context()), r.PathValue("id")); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- sections ----

func (s *HTTPServer) handleCreateSection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WordID     string          `json:"wordId"`
		Type       section.Type    `json:"sectionType"`
		Position   int             `json:"order"`
		Properties json.RawMessage `json:"properties"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	sec, err := s.sections.Insert(r.Context(), userID(r.Context()), req.WordID, req.Type, req.Properties, req.Position)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, renderSection(sec))
}

func (s *HTTPServer) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type       section.Type    `json:"sectionType"`
		Properties json.RawMessage `json:"properties"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	sec, err := s.sections.UpdateProperties(r.Context(), userID(r.Context()), r.PathValue("id"), req.Type, req.Properties)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, renderSection(sec))
}

// handleDeleteSection always answers 204: deleting an already-deleted
// section is a no-op, not an error.
func (s *HTTPServer) handleDeleteSection(w http.ResponseWriter, r *http.Request) {
	if err := s.sections.Delete(r.Context(), userID(r.Context()), r.PathValue("id")); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleReorderSections(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Updates []services.PositionUpdate `json:"updates"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	secs, err := s.sections.Reorder(r.Context(), userID(r.Context()), req.Updates)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"sections": renderSections(secs)})
}

// ---- categories ----

func (s *HTTPServer) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Label string `json:"label"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	cat, err := s.categories.Create(r.Context(), userID(r.Context()), r.PathValue("id"), req.Label)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, cat)
}

func (s *HTTPServer) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.categories.ListByConlang(r.Context(), userID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

// ---- tags ----

func (s *HTTPServer) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	tag, err := s.tags.Create(r.Context(), userID(r.Context()), r.PathValue("id"), req.Name)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, tag)
}

func (s *HTTPServer) handleAttachTag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TagID string `json:"tagId"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.tags.Attach(r.Context(), userID(r.Context()), r.PathValue("id"), req.TagID); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleDetachTag(w http.ResponseWriter, r *http.Request) {
	if err := s.tags.Detach(r.Context(), userID(r.Context()), r.PathValue("id"), r.PathValue("tagId")); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- uploads ----

func (s *HTTPServer) handlePresignAudioUpload(w http.ResponseWriter, r *http.Request) {
	key, url, err := s.uploads.PresignedPutURL(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"key": key, "url": url})
}

// ---- health ----

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := s.health.Check(r.Context()); err != nil {
		s.logger.Error(r.Context(), "health check", "error", err)
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
