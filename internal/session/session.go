// Package session tracks the signed-in user's bearer token and login flag.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/cellgit/BearBasic/internal/storage"
)

// ErrNoToken is returned by Claims when nobody is signed in.
var ErrNoToken = errors.New("no auth token stored")

// Session reads and mutates login state in a Store. Mutations are serialized
// because logout can be triggered from many request completions at once.
type Session struct {
	store storage.Store

	mu sync.Mutex
}

// New wraps store.
func New(store storage.Store) *Session {
	return &Session{store: store}
}

// Token returns the stored Authorization value, "" when signed out.
func (s *Session) Token(ctx context.Context) (string, error) {
	token, _, err := s.store.Get(ctx, storage.KeyToken)
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return token, nil
}

// IsLoggedIn reports the stored login flag.
func (s *Session) IsLoggedIn(ctx context.Context) (bool, error) {
	v, ok, err := s.store.Get(ctx, storage.KeyIsLogin)
	if err != nil {
		return false, fmt.Errorf("load login flag: %w", err)
	}
	if !ok {
		return false, nil
	}
	loggedIn, err := strconv.ParseBool(v)
	if err != nil {
		return false, nil
	}
	return loggedIn, nil
}

// Login stores token and marks the user signed in.
func (s *Session) Login(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(ctx, storage.KeyToken, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := s.store.Set(ctx, storage.KeyIsLogin, "true"); err != nil {
		return fmt.Errorf("save login flag: %w", err)
	}
	return nil
}

// Logout clears the login flag, the token and the cached user info.
// Every step is attempted and all failures are joined into the returned error.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if err := s.store.Set(ctx, storage.KeyIsLogin, "false"); err != nil {
		errs = append(errs, fmt.Errorf("clear login flag: %w", err))
	}
	if err := s.store.Delete(ctx, storage.KeyUserInfo); err != nil {
		errs = append(errs, fmt.Errorf("delete user info: %w", err))
	}
	if err := s.store.Delete(ctx, storage.KeyToken); err != nil {
		errs = append(errs, fmt.Errorf("delete token: %w", err))
	}
	return errors.Join(errs...)
}

// Claims describes the stored token for display. The signature is not
// verified; only the backend can do that.
type Claims struct {
	Subject   string
	Issuer    string
	ExpiresAt time.Time
}

// Expired reports whether the token carried an expiry that has passed.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Claims parses the stored token as a JWT.
func (s *Session) Claims(ctx context.Context) (Claims, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return Claims{}, err
	}
	if token == "" {
		return Claims{}, ErrNoToken
	}
	return ParseClaims(token)
}

// ParseClaims reads registered claims from a raw or "Bearer "-prefixed JWT.
func ParseClaims(token string) (Claims, error) {
	raw := strings.TrimSpace(token)
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}

	var registered jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &registered); err != nil {
		return Claims{}, fmt.Errorf("parse token: %w", err)
	}

	claims := Claims{Subject: registered.Subject, Issuer: registered.Issuer}
	if registered.ExpiresAt != nil {
		claims.ExpiresAt = registered.ExpiresAt.Time
	}
	return claims, nil
}
