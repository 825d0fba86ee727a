package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/rogerio-castellano/catalog-admin/internal/auth"
	api "github.com/rogerio-castellano/catalog-admin/internal/http"
	"github.com/rogerio-castellano/catalog-admin/internal/http/handlers"
	"github.com/rogerio-castellano/catalog-admin/internal/http/ratelimit"
	"github.com/rogerio-castellano/catalog-admin/internal/repo"
	"github.com/rogerio-castellano/catalog-admin/web"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = 10 * time.Minute
)

const addrFlag = "addr"

var serveFlags = map[string]cobraflags.Flag{
	addrFlag: &cobraflags.StringFlag{
		Name:  addrFlag,
		Value: "",
		Usage: "Listen address, overrides http.addr",
	},
}

func newServeCommand(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web application",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *cfgPath, serveFlags[addrFlag].GetString())
		},
	}
	cobraflags.RegisterMap(cmd, serveFlags)
	return cmd
}

func runServe(ctx context.Context, cfgPath, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, cfgPath)
	if err != nil {
		return err
	}
	defer a.Close()

	if addr == "" {
		addr = a.cfg.HTTP.Addr
	}

	if a.cfg.Database.MigrateOnStart {
		m, err := a.migrator()
		if err != nil {
			return err
		}
		if err := m.Up(ctx); err != nil {
			return err
		}
	}

	store, err := a.sessionStore(ctx)
	if err != nil {
		return err
	}
	if ms, ok := store.(*auth.MemoryStore); ok {
		go ms.Run(ctx, sweepInterval)
	}
	sessions, err := a.sessionManager(store)
	if err != nil {
		return err
	}

	renderer, err := handlers.NewRenderer(web.Templates())
	if err != nil {
		return err
	}

	srv := handlers.NewServer(handlers.Deps{
		Products: repo.NewSQLProductRepository(a.db),
		Clients:  repo.NewSQLClientRepository(a.db),
		Lookups:  repo.NewSQLLookupRepository(a.db),
		Stats:    repo.NewSQLStatsRepository(a.db),
		Sessions: sessions,
		Renderer: renderer,
		Logger:   a.log,
		Cookie:   handlers.CookieOptions{Name: a.cfg.Session.CookieName, Secure: a.cfg.Session.SecureCookie},
		PageSize: a.cfg.Catalog.PageSize,
	})

	limiter := ratelimit.New(a.cfg.Auth.LoginRate, a.cfg.Auth.LoginBurst)
	go limiter.Run(ctx)

	httpServer := &http.Server{
		Addr: addr,
		Handler: api.NewRouter(api.RouterOptions{
			Server:   srv,
			Sessions: sessions,
			Limiter:  limiter,
			Logger:   a.log,
			Static:   web.Static(),
			Ready:    a.ready,

			TrustProxyHeaders: a.cfg.HTTP.TrustProxyHeaders,
		}),
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", addr).Msg("server running")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
