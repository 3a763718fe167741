package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"musaetermo/internal/store"
	"musaetermo/pkg/types"

	"github.com/alexedwards/flow"
	"golang.org/x/crypto/bcrypt"
)

// handleAdminLogin flips the session to authenticated iff the
// password matches. A wrong password is a soft failure: always 200,
// never an error status.
func (s *Service) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusOK, types.LoginResponse{Success: false, Error: "senha incorreta"})
		return
	}

	if !s.checkAdminPassword(strings.TrimSpace(req.Password)) {
		s.writeJSON(w, http.StatusOK, types.LoginResponse{Success: false, Error: "senha incorreta"})
		return
	}

	id := s.sessions.Create()
	s.setSessionCookie(w, id)
	s.logger.Info("admin logged in")

	s.writeJSON(w, http.StatusOK, types.LoginResponse{Success: true})
}

// checkAdminPassword prefers the bcrypt hash when one is configured;
// the plaintext fallback compares in constant time.
func (s *Service) checkAdminPassword(password string) bool {
	if s.config.AdminPasswordBcrypt != "" {
		err := bcrypt.CompareHashAndPassword([]byte(s.config.AdminPasswordBcrypt), []byte(password))
		return err == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.config.AdminPassword)) == 1
}

// handleAdminLogout destroys the session unconditionally.
func (s *Service) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	if id, ok := s.sessionID(r); ok {
		s.sessions.Destroy(id)
	}
	s.clearSessionCookie(w)

	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleListPDFs returns the directory listing and the metadata log
// side by side. The two are not reconciled; the log is advisory and
// may diverge from the directory.
func (s *Service) handleListPDFs(w http.ResponseWriter, _ *http.Request) {
	files, err := s.archive.List()
	if err != nil {
		s.logger.WithError(err).Error("failed to list pdfs")
		s.writeError(w, http.StatusInternalServerError, "erro ao listar PDFs")
		return
	}

	records, err := s.archive.Records()
	if err != nil {
		s.logger.WithError(err).Error("failed to read metadata log")
		s.writeError(w, http.StatusInternalServerError, "erro ao listar PDFs")
		return
	}

	s.writeJSON(w, http.StatusOK, types.ListResponse{Files: files, Registros: records})
}

// handleDownloadPDF streams one stored PDF as an attachment.
func (s *Service) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	fileName := flow.Param(r.Context(), "fileName")

	path, err := s.archive.Resolve(fileName)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.WithError(err).Error("failed to resolve download")
		}
		http.Error(w, "Arquivo não encontrado", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filepath.Base(path)+"\"")
	http.ServeFile(w, r, path)
}
