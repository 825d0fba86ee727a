package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"golang.org/x/crypto/bcrypt"

	"github.com/rogerio-castellano/catalog-admin/internal/repo"
)

func newTestManager(c *qt.C) (*SessionManager, *repo.InMemoryUserRepository, *MemoryStore) {
	users := repo.NewInMemoryUserRepository()
	store := NewMemoryStore()
	m, err := NewSessionManager(users, store, NewBcryptHasher(bcrypt.MinCost), Options{Secret: "test-secret", TTL: time.Hour})
	c.Assert(err, qt.IsNil)
	return m, users, store
}

func TestRegisterLoginResolve(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	m, _, _ := newTestManager(c)

	u, err := m.Register(ctx, "ana", "secreto", "secreto")
	c.Assert(err, qt.IsNil)
	c.Assert(u.ID, qt.Not(qt.Equals), 0)
	c.Assert(u.PasswordHash, qt.Not(qt.Equals), "secreto")

	sess, token, err := m.Login(ctx, "ana", "secreto")
	c.Assert(err, qt.IsNil)
	c.Assert(sess.UserID, qt.Equals, u.ID)
	c.Assert(token, qt.Not(qt.Equals), "")

	got, err := m.Resolve(ctx, token)
	c.Assert(err, qt.IsNil)
	c.Assert(got.ID, qt.Equals, u.ID)
	c.Assert(got.Username, qt.Equals, "ana")
}

func TestLoginUnknownUser(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	m, _, _ := newTestManager(c)

	_, err := m.Register(ctx, "ana", "secreto", "secreto")
	c.Assert(err, qt.IsNil)

	_, _, err = m.Login(ctx, "nadie", "secreto")
	c.Assert(err, qt.ErrorIs, ErrNoSuchUser)
	c.Assert(err, qt.Not(qt.ErrorIs), ErrBadCredentials)

	_, _, err = m.Login(ctx, "ana", "otra")
	c.Assert(err, qt.ErrorIs, ErrBadCredentials)
}

func TestRegisterPasswordMismatchCreatesNothing(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	m, users, _ := newTestManager(c)

	_, err := m.Register(ctx, "ana", "secreto", "secretO")
	c.Assert(err, qt.ErrorIs, ErrPasswordMismatch)

	_, err = users.GetByUsername(ctx, "ana")
	c.Assert(err, qt.ErrorIs, repo.ErrUserNotFound)
}

func TestRegisterValidation(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	m, _, _ := newTestManager(c)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"short username", "ab", "secreto"},
		{"blank username", "   ", "secreto"},
		{"short password", "ana", "abc"},
		{"two accented letters", "ñá", "secreto"},
		{"three accented letters as password", "ana", "ñáé"},
		{"long multibyte username", strings.Repeat("ñ", MaxUsernameLength+1), "secreto"},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			_, err := m.Register(ctx, tt.username, tt.password, tt.password)
			c.Assert(err, qt.ErrorIs, ErrInvalidRegistration)
		})
	}
}

func TestRegisterCountsCharactersNotBytes(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	m, _, _ := newTestManager(c)

	_, err := m.Register(ctx, "ñoño", "ñáéí", "ñáéí")
	c.Assert(err, qt.IsNil)
	_, err = m.Register(ctx, strings.Repeat("é", MaxUsernameLength), "secreto", "secreto")
	c.Assert(err, qt.IsNil)
}

func TestDuplicateRegistrationKeepsOriginalHash(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	m, users, _ := newTestManager(c)

	first, err := m.Register(ctx, "ana", "secreto", "secreto")
	c.Assert(err, qt.IsNil)

	_, err = m.Register(ctx, "ana", "distinto", "distinto")
	c.Assert(err, qt.ErrorIs, repo.ErrDuplicateUsername)

	stored, err := users.GetByUsername(ctx, "ana")
	c.Assert(err, qt.IsNil)
	c.Assert(stored.PasswordHash, qt.Equals, first.PasswordHash)

	_, _, err = m.Login(ctx, "ana", "secreto")
	c.Assert(err, qt.IsNil)
}

func TestLogoutDestroysSession(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	m, _, store := newTestManager(c)

	_, err := m.Register(ctx, "ana", "secreto", "secreto")
	c.Assert(err, qt.IsNil)
	_, token, err := m.Login(ctx, "ana", "secreto")
	c.Assert(err, qt.IsNil)
	c.Assert(store.Len(), qt.Equals, 1)

	c.Assert(m.Logout(ctx, token), qt.IsNil)
	c.Assert(store.Len(), qt.Equals, 0)

	_, err = m.Resolve(ctx, token)
	c.Assert(err, qt.ErrorIs, ErrNoSession)

	c.Assert(m.Logout(ctx, "garbage"), qt.IsNil)
}

func TestResolveRejectsBadTokens(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	m, _, _ := newTestManager(c)

	_, err := m.Register(ctx, "ana", "secreto", "secreto")
	c.Assert(err, qt.IsNil)
	_, token, err := m.Login(ctx, "ana", "secreto")
	c.Assert(err, qt.IsNil)

	other, err := NewSessionManager(repo.NewInMemoryUserRepository(), NewMemoryStore(), NewBcryptHasher(bcrypt.MinCost), Options{Secret: "other-secret"})
	c.Assert(err, qt.IsNil)

	tests := []struct {
		name  string
		m     *SessionManager
		token string
	}{
		{"empty", m, ""},
		{"malformed", m, "not-a-token"},
		{"tampered", m, token + "x"},
		{"wrong secret", other, token},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			_, err := tt.m.Resolve(ctx, tt.token)
			c.Assert(err, qt.ErrorIs, ErrNoSession)
		})
	}
}

func TestResolveExpiredSession(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	m, _, store := newTestManager(c)

	_, err := m.Register(ctx, "ana", "secreto", "secreto")
	c.Assert(err, qt.IsNil)
	_, token, err := m.Login(ctx, "ana", "secreto")
	c.Assert(err, qt.IsNil)

	later := time.Now().Add(2 * time.Hour)
	m.now = func() time.Time { return later }
	store.now = m.now

	_, err = m.Resolve(ctx, token)
	c.Assert(err, qt.ErrorIs, ErrNoSession)
	c.Assert(store.Sweep(), qt.Equals, 1)
}

func TestNewSessionManagerRequiresSecret(t *testing.T) {
	c := qt.New(t)
	_, err := NewSessionManager(repo.NewInMemoryUserRepository(), NewMemoryStore(), NewBcryptHasher(0), Options{})
	c.Assert(err, qt.ErrorMatches, "session secret is empty")
}

func TestUserContext(t *testing.T) {
	c := qt.New(t)
	_, ok := UserFromContext(context.Background())
	c.Assert(ok, qt.IsFalse)
}
