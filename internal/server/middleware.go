package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireAdmin gates the admin API on a live authenticated session.
// Anonymous requests redirect to the admin login page rather than
// erroring; the session cookie slides forward on every validated
// request.
func (s *Service) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.sessionID(r)
		if !ok || !s.sessions.Validate(id) {
			http.Redirect(w, r, "/admin.html", http.StatusSeeOther)
			return
		}

		s.setSessionCookie(w, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Service) sessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(s.config.CookieName)
	if err != nil {
		return "", false
	}

	var id string
	if err := s.cookie.Decode(s.config.CookieName, cookie.Value, &id); err != nil {
		s.logger.WithError(err).Debug("rejecting undecodable session cookie")
		return "", false
	}
	return id, true
}

func (s *Service) setSessionCookie(w http.ResponseWriter, id string) {
	encoded, err := s.cookie.Encode(s.config.CookieName, id)
	if err != nil {
		s.logger.WithError(err).Error("failed to encode session cookie")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    encoded,
		HttpOnly: true,
		Secure:   s.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   s.config.SessionMaxAgeSec,
	})
}

func (s *Service) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   s.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path != "/" && strings.HasSuffix(path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(path, "/")
			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}
