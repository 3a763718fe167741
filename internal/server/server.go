package server

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"musaetermo/internal/session"
	"musaetermo/internal/storage"
	"musaetermo/internal/store"
	"musaetermo/internal/terms"
	"musaetermo/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

//go:embed static
var uiFS embed.FS

// maxUploadBytes caps the save-pdf request body. Rendered terms run a
// few hundred KB; 10 MB leaves plenty of headroom.
const maxUploadBytes = 10 << 20

type Service struct {
	logger   *logrus.Logger
	config   *types.Config
	archive  *store.Archive
	mirror   *storage.Mirror
	sessions *session.Manager
	cookie   *securecookie.SecureCookie

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	archive *store.Archive,
	mirror *storage.Mirror,
) (*Service, error) {
	mux := flow.New()

	// The session cookie only carries a session id; an HMAC key
	// derived from the configured secret is enough to keep it
	// tamper-proof.
	hashKey := sha256.Sum256([]byte(config.SessionSecret))

	s := &Service{
		logger:   logger,
		config:   config,
		archive:  archive,
		mirror:   mirror,
		sessions: session.NewManager(time.Duration(config.SessionMaxAgeSec) * time.Second),
		cookie:   securecookie.New(hashKey[:], nil),
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/api/terms", s.handleTerms, http.MethodGet)
	r.HandleFunc("/api/save-pdf", s.handleSavePDF, http.MethodPost)

	r.HandleFunc("/api/admin/login", s.handleAdminLogin, http.MethodPost)
	r.HandleFunc("/api/admin/logout", s.handleAdminLogout, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAdmin)

		r.HandleFunc("/api/pdfs", s.handleListPDFs, http.MethodGet)
		r.HandleFunc("/api/pdf/:fileName", s.handleDownloadPDF, http.MethodGet)
	})

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	staticRoot, err := fs.Sub(uiFS, "static")
	if err != nil {
		s.logger.WithError(err).Fatal("failed to mount static assets")
	}
	r.Handle("/...", http.FileServer(http.FS(staticRoot)), http.MethodGet)
}

// handleTerms exposes the embedded terms text so the form page and
// the rendered document share one source.
func (s *Service) handleTerms(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"title":      terms.Title,
		"subtitle":   terms.Subtitle,
		"paragraphs": terms.Paragraphs(),
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Service) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
