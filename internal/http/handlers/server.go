package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/rogerio-castellano/catalog-admin/internal/auth"
	"github.com/rogerio-castellano/catalog-admin/internal/http/flash"
	"github.com/rogerio-castellano/catalog-admin/internal/repo"
)

type CookieOptions struct {
	Name   string
	Secure bool
}

// Deps are the collaborators a Server needs. All fields are required except Logger.
type Deps struct {
	Products repo.ProductRepository
	Clients  repo.ClientRepository
	Lookups  repo.LookupRepository
	Stats    repo.StatsRepository
	Sessions *auth.SessionManager
	Renderer *Renderer
	Logger   zerolog.Logger
	Cookie   CookieOptions
	PageSize int
}

type Server struct {
	products repo.ProductRepository
	clients  repo.ClientRepository
	lookups  repo.LookupRepository
	stats    repo.StatsRepository
	sessions *auth.SessionManager
	renderer *Renderer
	log      zerolog.Logger
	cookie   CookieOptions
	pageSize int
	validate *validator.Validate
}

func NewServer(d Deps) *Server {
	if d.PageSize <= 0 {
		d.PageSize = repo.DefaultPageSize
	}
	if d.Cookie.Name == "" {
		d.Cookie.Name = "catalog_session"
	}
	return &Server{
		products: d.Products,
		clients:  d.Clients,
		lookups:  d.Lookups,
		stats:    d.Stats,
		sessions: d.Sessions,
		renderer: d.Renderer,
		log:      d.Logger,
		cookie:   d.Cookie,
		pageSize: d.PageSize,
		validate: newValidator(),
	}
}

func (s *Server) CookieName() string {
	return s.cookie.Name
}

var errBadID = errors.New("invalid id")

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}

// render fills in the per-request parts of the view and writes the page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, v View) {
	if u, ok := auth.UserFromContext(r.Context()); ok {
		v.CurrentUser = &u
	}
	v.Flashes = flash.Pop(w, r)
	if err := s.renderer.Render(w, status, page, v); err != nil {
		s.log.Error().Err(err).Str("page", page).Msg("render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Fail maps an error to an error page. Unexpected errors are logged and never shown.
func (s *Server) Fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := http.StatusInternalServerError, "Ocurrió un error inesperado. Intenta de nuevo más tarde."
	switch {
	case errors.Is(err, errBadID):
		status, msg = http.StatusBadRequest, "El identificador solicitado no es válido."
	case errors.Is(err, repo.ErrProductNotFound):
		status, msg = http.StatusNotFound, "El producto solicitado no existe."
	case errors.Is(err, repo.ErrClientNotFound):
		status, msg = http.StatusNotFound, "El cliente solicitado no existe."
	default:
		s.log.Error().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	s.render(w, r, status, "error", View{Title: errorTitles[status], Data: msg})
}

var errorTitles = map[int]string{
	http.StatusBadRequest:          "Solicitud no válida",
	http.StatusNotFound:            "Página no encontrada",
	http.StatusInternalServerError: "Error del servidor",
}

// NotFound renders the 404 page for unmatched routes.
func (s *Server) NotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "error", View{Title: errorTitles[http.StatusNotFound], Data: "La página solicitada no existe."})
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "home", View{Title: "Inicio"})
}

func (s *Server) About(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "about", View{Title: "Acerca de"})
}

func (s *Server) Profile(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "profile", View{Title: "Perfil"})
}

func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.CatalogStats(r.Context())
	if err != nil {
		s.Fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "dashboard", View{Title: "Panel de control", Data: stats})
}
