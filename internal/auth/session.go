package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"github.com/rogerio-castellano/catalog-admin/internal/models"
	"github.com/rogerio-castellano/catalog-admin/internal/repo"
)

var (
	ErrNoSuchUser          = errors.New("no such user")
	ErrBadCredentials      = errors.New("incorrect password")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrNoSession           = errors.New("no active session")
	ErrInvalidRegistration = errors.New("invalid registration")
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 4
)

type Options struct {
	Secret string
	TTL    time.Duration
}

// SessionManager resolves, creates and destroys sessions on top of the credential store.
type SessionManager struct {
	users  repo.UserRepository
	store  SessionStore
	hasher PasswordHasher
	signer TokenSigner
	ttl    time.Duration
	now    func() time.Time
	log    zerolog.Logger
}

func NewSessionManager(users repo.UserRepository, store SessionStore, hasher PasswordHasher, opts Options) (*SessionManager, error) {
	if opts.Secret == "" {
		return nil, errors.New("session secret is empty")
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	return &SessionManager{
		users:  users,
		store:  store,
		hasher: hasher,
		signer: NewTokenSigner(opts.Secret),
		ttl:    opts.TTL,
		now:    time.Now,
		log:    zerolog.Nop(),
	}, nil
}

func (m *SessionManager) WithLogger(l zerolog.Logger) *SessionManager {
	m.log = l
	return m
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Register creates a user after checking the confirmation and the field rules.
func (m *SessionManager) Register(ctx context.Context, username, password, confirm string) (models.User, error) {
	username = strings.TrimSpace(username)
	if password != confirm {
		return models.User{}, ErrPasswordMismatch
	}
	if err := validateCredentials(username, password); err != nil {
		return models.User{}, err
	}

	hash, err := m.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	u, err := m.users.CreateUser(ctx, models.User{Username: username, PasswordHash: hash})
	if err != nil {
		return models.User{}, err
	}
	m.log.Info().Int("user_id", u.ID).Str("username", u.Username).Msg("user registered")
	return u, nil
}

func validateCredentials(username, password string) error {
	var problems []string
	switch {
	case utf8.RuneCountInString(username) < MinUsernameLength:
		problems = append(problems, fmt.Sprintf("el usuario debe tener al menos %d caracteres", MinUsernameLength))
	case utf8.RuneCountInString(username) > MaxUsernameLength:
		problems = append(problems, fmt.Sprintf("el usuario no puede superar %d caracteres", MaxUsernameLength))
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		problems = append(problems, fmt.Sprintf("la contraseña debe tener al menos %d caracteres", MinPasswordLength))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRegistration, strings.Join(problems, "; "))
	}
	return nil
}

// Login checks the credentials and opens a new session for the user.
func (m *SessionManager) Login(ctx context.Context, username, password string) (Session, string, error) {
	u, err := m.users.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, repo.ErrUserNotFound) {
		return Session{}, "", ErrNoSuchUser
	}
	if err != nil {
		return Session{}, "", err
	}
	if !m.hasher.Verify(u.PasswordHash, password) {
		return Session{}, "", ErrBadCredentials
	}

	now := m.now()
	sess := Session{
		ID:        ksuid.New().String(),
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return Session{}, "", err
	}
	token, err := m.signer.Sign(sess)
	if err != nil {
		return Session{}, "", fmt.Errorf("sign session: %w", err)
	}
	m.log.Info().Int("user_id", u.ID).Str("session_id", sess.ID).Msg("session opened")
	return sess, token, nil
}

// Resolve maps a cookie token to its user. Anything that does not lead to
// a live session of an existing user yields ErrNoSession.
func (m *SessionManager) Resolve(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, ErrNoSession
	}
	sid, uid, err := m.signer.Parse(token, m.now())
	if err != nil {
		return models.User{}, ErrNoSession
	}

	sess, err := m.store.Get(ctx, sid)
	if errors.Is(err, ErrSessionNotFound) {
		return models.User{}, ErrNoSession
	}
	if err != nil {
		return models.User{}, err
	}
	if sess.UserID != uid {
		return models.User{}, ErrNoSession
	}

	u, err := m.users.GetByID(ctx, sess.UserID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return models.User{}, ErrNoSession
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Logout destroys the session behind token. Unknown or invalid tokens are a no-op.
func (m *SessionManager) Logout(ctx context.Context, token string) error {
	sid, _, err := m.signer.Parse(token, m.now())
	if err != nil {
		return nil
	}
	if err := m.store.Delete(ctx, sid); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	m.log.Info().Str("session_id", sid).Msg("session closed")
	return nil
}
