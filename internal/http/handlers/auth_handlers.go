package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rogerio-castellano/catalog-admin/internal/auth"
	"github.com/rogerio-castellano/catalog-admin/internal/http/flash"
	"github.com/rogerio-castellano/catalog-admin/internal/http/metrics"
	"github.com/rogerio-castellano/catalog-admin/internal/repo"
)

// SafeNext returns next when it is a local absolute path and "" otherwise.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return ""
	}
	return next
}

// LoginURL is the login page, carrying next when it is safe to return to.
func LoginURL(next string) string {
	if next = SafeNext(next); next == "" {
		return "/login"
	}
	return "/login?next=" + url.QueryEscape(next)
}

func (s *Server) RegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register", View{Title: "Registro"})
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("usuario")
	_, err := s.sessions.Register(r.Context(), username, r.PostFormValue("password"), r.PostFormValue("confirm_password"))
	switch {
	case err == nil:
		metrics.RegistrationsTotal.WithLabelValues("created").Inc()
		flash.Add(w, r, flash.Success, "Usuario registrado correctamente. Ya puedes iniciar sesión.")
		redirect(w, r, "/login")
	case errors.Is(err, auth.ErrPasswordMismatch):
		metrics.RegistrationsTotal.WithLabelValues("mismatch").Inc()
		flash.Add(w, r, flash.Danger, "Las contraseñas no coinciden.")
		redirect(w, r, "/registro")
	case errors.Is(err, repo.ErrDuplicateUsername):
		metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		flash.Add(w, r, flash.Danger, "El nombre de usuario ya está en uso.")
		redirect(w, r, "/registro")
	case errors.Is(err, auth.ErrInvalidRegistration):
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		detail := strings.TrimPrefix(err.Error(), auth.ErrInvalidRegistration.Error()+": ")
		flash.Add(w, r, flash.Danger, "Datos de registro no válidos: "+detail+".")
		redirect(w, r, "/registro")
	default:
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		s.Fail(w, r, err)
	}
}

func (s *Server) LoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", View{Title: "Iniciar sesión", Data: SafeNext(r.URL.Query().Get("next"))})
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	next := SafeNext(r.PostFormValue("next"))
	sess, token, err := s.sessions.Login(r.Context(), r.PostFormValue("usuario"), r.PostFormValue("password"))
	switch {
	case errors.Is(err, auth.ErrNoSuchUser):
		metrics.LoginAttemptsTotal.WithLabelValues("unknown_user").Inc()
		flash.Add(w, r, flash.Danger, "El usuario no existe.")
		redirect(w, r, LoginURL(next))
		return
	case errors.Is(err, auth.ErrBadCredentials):
		metrics.LoginAttemptsTotal.WithLabelValues("bad_password").Inc()
		flash.Add(w, r, flash.Danger, "Contraseña incorrecta.")
		redirect(w, r, LoginURL(next))
		return
	case err != nil:
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		s.Fail(w, r, err)
		return
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.setSessionCookie(w, token, sess.ExpiresAt)
	flash.Add(w, r, flash.Success, "Sesión iniciada correctamente.")
	if next == "" {
		next = "/dashboard"
	}
	redirect(w, r, next)
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(s.cookie.Name); err == nil {
		if err := s.sessions.Logout(r.Context(), c.Value); err != nil {
			s.Fail(w, r, err)
			return
		}
		metrics.SessionsClosedTotal.Inc()
	}
	s.clearSessionCookie(w)
	flash.Add(w, r, flash.Info, "Has cerrado sesión.")
	redirect(w, r, "/")
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   s.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
