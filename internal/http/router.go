package http

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/rogerio-castellano/catalog-admin/internal/auth"
	"github.com/rogerio-castellano/catalog-admin/internal/http/handlers"
	"github.com/rogerio-castellano/catalog-admin/internal/http/metrics"
	"github.com/rogerio-castellano/catalog-admin/internal/http/ratelimit"
)

type RouterOptions struct {
	Server   *handlers.Server
	Sessions *auth.SessionManager
	// Limiter throttles POST /login and POST /registro. Nil disables throttling.
	Limiter *ratelimit.Limiter
	Logger  zerolog.Logger
	Static  fs.FS
	// Ready backs /readyz. Nil always reports ready.
	Ready func(ctx context.Context) error
	// TrustProxyHeaders takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxyHeaders bool
}

func NewRouter(opts RouterOptions) http.Handler {
	s := opts.Server
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if opts.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(AccessLog(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(SecurityHeaders)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", readyHandler(opts.Ready, opts.Logger))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	if opts.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(opts.Static))))
	}

	r.Group(func(r chi.Router) {
		r.Use(LoadSession(s, opts.Sessions))

		r.Get("/", s.Home)
		r.Get("/about", s.About)

		r.Group(func(r chi.Router) {
			if opts.Limiter != nil {
				r.Use(opts.Limiter.Middleware(http.MethodPost))
			}
			r.Get("/registro", s.RegisterForm)
			r.Post("/registro", s.Register)
			r.Get("/login", s.LoginForm)
			r.Post("/login", s.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireSession)

			r.Get("/perfil", s.Profile)
			r.Get("/dashboard", s.Dashboard)
			r.Get("/logout", s.Logout)

			r.Get("/productos", s.ListProducts)
			r.Get("/productos/nuevo", s.NewProductForm)
			r.Post("/productos/nuevo", s.CreateProduct)
			r.Get("/productos/editar/{id}", s.EditProductForm)
			r.Post("/productos/editar/{id}", s.UpdateProduct)
			r.Post("/productos/eliminar/{id}", s.DeleteProduct)

			r.Get("/clientes", s.ListClients)
			r.Get("/clientes/nuevo", s.NewClientForm)
			r.Post("/clientes/nuevo", s.CreateClient)
			r.Get("/clientes/editar/{id}", s.EditClientForm)
			r.Post("/clientes/editar/{id}", s.UpdateClient)
			r.Post("/clientes/eliminar/{id}", s.DeleteClient)
		})

		r.NotFound(s.NotFound)
	})

	return r
}

func readyHandler(ready func(ctx context.Context) error, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
			defer cancel()
			if err := ready(ctx); err != nil {
				log.Warn().Err(err).Msg("readiness check failed")
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("not ready"))
				return
			}
		}
		_, _ = w.Write([]byte("ready"))
	}
}
