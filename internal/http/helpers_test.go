package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/rogerio-castellano/catalog-admin/internal/auth"
	api "github.com/rogerio-castellano/catalog-admin/internal/http"
	"github.com/rogerio-castellano/catalog-admin/internal/http/handlers"
	"github.com/rogerio-castellano/catalog-admin/internal/http/ratelimit"
	"github.com/rogerio-castellano/catalog-admin/internal/models"
	"github.com/rogerio-castellano/catalog-admin/internal/repo"
	"github.com/rogerio-castellano/catalog-admin/web"
)

type testApp struct {
	t        *testing.T
	handler  http.Handler
	users    *repo.InMemoryUserRepository
	products *repo.InMemoryProductRepository
	clients  *repo.InMemoryClientRepository
	sessions *auth.SessionManager
	cookies  map[string]*http.Cookie
}

type appOption func(*api.RouterOptions)

func withLimiter(l *ratelimit.Limiter) appOption {
	return func(o *api.RouterOptions) { o.Limiter = l }
}

func withTrustedProxy() appOption {
	return func(o *api.RouterOptions) { o.TrustProxyHeaders = true }
}

func withReady(f func(context.Context) error) appOption {
	return func(o *api.RouterOptions) { o.Ready = f }
}

func newTestApp(t *testing.T, opts ...appOption) *testApp {
	t.Helper()

	lookups := repo.NewInMemoryLookupRepository(
		[]models.Category{{ID: 1, Name: "Electrónica"}, {ID: 2, Name: "Hogar"}},
		[]models.Brand{{ID: 1, Name: "Acme"}, {ID: 2, Name: "Globex"}},
	)
	users := repo.NewInMemoryUserRepository()
	products := repo.NewInMemoryProductRepository(lookups)
	clients := repo.NewInMemoryClientRepository()

	sessions, err := auth.NewSessionManager(users, auth.NewMemoryStore(), auth.NewBcryptHasher(bcrypt.MinCost), auth.Options{Secret: "test-secret", TTL: time.Hour})
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	renderer, err := handlers.NewRenderer(web.Templates())
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	srv := handlers.NewServer(handlers.Deps{
		Products: products,
		Clients:  clients,
		Lookups:  lookups,
		Stats:    repo.NewInMemoryStatsRepository(products, clients, lookups),
		Sessions: sessions,
		Renderer: renderer,
		Logger:   zerolog.Nop(),
		Cookie:   handlers.CookieOptions{Name: "catalog_session"},
		PageSize: repo.DefaultPageSize,
	})

	ro := api.RouterOptions{
		Server:   srv,
		Sessions: sessions,
		Logger:   zerolog.Nop(),
		Static:   web.Static(),
	}
	for _, o := range opts {
		o(&ro)
	}

	return &testApp{
		t:        t,
		handler:  api.NewRouter(ro),
		users:    users,
		products: products,
		clients:  clients,
		sessions: sessions,
		cookies:  map[string]*http.Cookie{},
	}
}

// do sends a request carrying the app's cookies and stores the cookies the response sets.
func (a *testApp) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	a.t.Helper()
	return a.doWithHeaders(method, path, form, nil)
}

func (a *testApp) doWithHeaders(method, path string, form url.Values, headers http.Header) *httptest.ResponseRecorder {
	a.t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for _, c := range a.cookies {
		req.AddCookie(c)
	}

	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)

	for _, c := range rr.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(a.cookies, c.Name)
			continue
		}
		a.cookies[c.Name] = c
	}
	return rr
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return a.do(http.MethodGet, path, nil)
}

func (a *testApp) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return a.do(http.MethodPost, path, form)
}

// signIn registers username (if needed) and logs in through the HTTP surface.
func (a *testApp) signIn(username, password string) {
	a.t.Helper()
	if _, err := a.users.GetByUsername(context.Background(), username); err != nil {
		if _, err := a.sessions.Register(context.Background(), username, password, password); err != nil {
			a.t.Fatalf("register %s: %v", username, err)
		}
	}
	rr := a.post("/login", url.Values{"usuario": {username}, "password": {password}})
	if rr.Code != http.StatusSeeOther {
		a.t.Fatalf("login: expected 303, got %d", rr.Code)
	}
	if _, ok := a.cookies["catalog_session"]; !ok {
		a.t.Fatal("login did not set the session cookie")
	}
}

func expectRedirect(t *testing.T, rr *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Location"); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}

func expectBody(t *testing.T, rr *httptest.ResponseRecorder, want ...string) {
	t.Helper()
	body := rr.Body.String()
	for _, w := range want {
		if !strings.Contains(body, w) {
			t.Errorf("expected body to contain %q", w)
		}
	}
}
