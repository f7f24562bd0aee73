// Package httpapi exposes the application services over a JSON HTTP API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/conlangforge/conlangforge/internal/logging"
	"github.com/conlangforge/conlangforge/internal/section"
	"github.com/conlangforge/conlangforge/internal/server/models"
	"github.com/conlangforge/conlangforge/internal/server/services"
)

type userSvc interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	UserIDFromToken(tokenString string) (string, error)
}

type conlangSvc interface {
	Create(ctx context.Context, ownerID, name, description string, public bool) (*models.Conlang, error)
	Get(ctx context.Context, userID, conlangID string) (*models.Conlang, error)
	ListPublic(ctx context.Context) ([]*models.Conlang, error)
	ListMine(ctx context.Context, userID string) ([]*models.Conlang, error)
}

type wordSvc interface {
	Create(ctx context.Context, userID, conlangID, text, gloss string) (*models.Word, error)
	GetWithSections(ctx context.Context, userID, wordID string) (*models.Word, error)
	ListByConlang(ctx context.Context, userID, conlangID string) ([]*models.Word, error)
	Delete(ctx context.Context, userID, wordID string) error
}

type sectionSvc interface {
	Insert(ctx context.Context, userID, wordID string, t section.Type, properties json.RawMessage, position int) (*models.LexicalSection, error)
	UpdateProperties(ctx context.Context, userID, sectionID string, declaredType section.Type, properties json.RawMessage) (*models.LexicalSection, error)
	Delete(ctx context.Context, userID, sectionID string) error
	Reorder(ctx context.Context, userID string, updates []services.PositionUpdate) ([]*models.LexicalSection, error)
}

type categorySvc interface {
	Create(ctx context.Context, userID, conlangID, label string) (*models.LexicalCategory, error)
	ListByConlang(ctx context.Context, userID, conlangID string) ([]*models.LexicalCategory, error)
}

type tagSvc interface {
	Create(ctx context.Context, userID, conlangID, name string) (*models.Tag, error)
	Attach(ctx context.Context, userID, wordID, tagID string) error
	Detach(ctx context.Context, userID, wordID, tagID string) error
}

type uploadSvc interface {
	PresignedPutURL(ctx context.Context) (string, string, error)
}

type healthChecker interface {
	Check(ctx context.Context) error
}

type HTTPServer struct {
	address    string
	logger     logging.Logger
	users      userSvc
	conlangs   conlangSvc
	words      wordSvc
	sections   sectionSvc
	categories categorySvc
	tags       tagSvc
	uploads    uploadSvc
	health     healthChecker
}

func NewHTTPServer(a string, l logging.Logger, us userSvc, cs conlangSvc, ws wordSvc,
	ss sectionSvc, cats categorySvc, ts tagSvc, up uploadSvc, h healthChecker) *HTTPServer {
	return &HTTPServer{
		address:    a,
		logger:     l.With("module", "http_server"),
		users:      us,
		conlangs:   cs,
		words:      ws,
		sections:   ss,
		categories: cats,
		tags:       ts,
		uploads:    up,
		health:     h,
	}
}

// Routes builds the full route table. Method-qualified patterns let the mux
// reject wrong-method requests with 405 on its own.
func (s *HTTPServer) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/v1/healthz", s.handleHealthz)

	mux.Handle("GET /api/v1/conlangs", s.optionalAuth(s.handleListConlangs))
	mux.Handle("POST /api/v1/conlangs", s.requireAuth(s.handleCreateConlang))
	mux.Handle("GET /api/v1/user/conlangs", s.requireAuth(s.handleListMyConlangs))
	mux.Handle("GET /api/v1/conlangs/{id}", s.optionalAuth(s.handleGetConlang))
	mux.Handle("GET /api/v1/conlangs/{id}/words", s.optionalAuth(s.handleListWords))
	mux.Handle("GET /api/v1/conlangs/{id}/categories", s.optionalAuth(s.handleListCategories))
	mux.Handle("POST /api/v1/conlangs/{id}/categories", s.requireAuth(s.handleCreateCategory))
	mux.Handle("POST /api/v1/conlangs/{id}/tags", s.requireAuth(s.handleCreateTag))

	mux.Handle("POST /api/v1/words", s.requireAuth(s.handleCreateWord))
	mux.Handle("GET /api/v1/words/{id}", s.optionalAuth(s.handleGetWord))
	mux.Handle("DELETE /api/v1/words/{id}", s.requireAuth(s.handleDeleteWord))
	mux.Handle("POST /api/v1/words/{id}/tags", s.requireAuth(s.handleAttachTag))
	mux.Handle("DELETE /api/v1/words/{id}/tags/{tagId}", s.requireAuth(s.handleDetachTag))

	mux.Handle("POST /api/v1/sections", s.requireAuth(s.handleCreateSection))
	mux.Handle("POST /api/v1/sections/reorder", s.requireAuth(s.handleReorderSections))
	mux.Handle("PATCH /api/v1/sections/{id}", s.requireAuth(s.handleUpdateSection))
	mux.Handle("DELETE /api/v1/sections/{id}", s.requireAuth(s.handleDeleteSection))

	mux.Handle("POST /api/v1/uploads/audio", s.requireAuth(s.handlePresignAudioUpload))

	return mux
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
