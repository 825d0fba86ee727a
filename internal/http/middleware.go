package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/rogerio-castellano/catalog-admin/internal/auth"
	"github.com/rogerio-castellano/catalog-admin/internal/http/flash"
	"github.com/rogerio-castellano/catalog-admin/internal/http/handlers"
)

const loginRequiredMessage = "Por favor inicia sesión para acceder a esta página."

// AccessLog writes one line per request.
func AccessLog(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			evt := log.Info()
			if status >= http.StatusInternalServerError {
				evt = log.Warn()
			}
			evt.Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote", r.RemoteAddr).
				Int("status", status).
				Int("size", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("http request")
		})
	}
}

func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")
		h.Set("Content-Security-Policy", "default-src 'self'; object-src 'none'; base-uri 'self'; form-action 'self'")
		if r.TLS != nil {
			h.Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}

// LoadSession resolves the session cookie and stores the user in the request
// context. Requests without a live session continue anonymously.
func LoadSession(srv *handlers.Server, sessions *auth.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(srv.CookieName())
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			u, err := sessions.Resolve(r.Context(), c.Value)
			switch {
			case errors.Is(err, auth.ErrNoSession):
				http.SetCookie(w, &http.Cookie{Name: srv.CookieName(), Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
				next.ServeHTTP(w, r)
			case err != nil:
				srv.Fail(w, r, err)
			default:
				next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), u)))
			}
		})
	}
}

// RequireSession redirects anonymous requests to the login page, remembering where they were going.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.UserFromContext(r.Context()); !ok {
			flash.Add(w, r, flash.Info, loginRequiredMessage)
			dest := ""
			if r.Method == http.MethodGet {
				dest = r.URL.RequestURI()
			}
			http.Redirect(w, r, handlers.LoginURL(dest), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
