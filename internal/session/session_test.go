package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellgit/BearBasic/internal/storage"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "user-42",
		Issuer:    "bear",
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestLoginAndLogout(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	s := New(store)

	loggedIn, err := s.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, loggedIn)

	require.NoError(t, s.Login(ctx, "Bearer abc"))
	require.NoError(t, store.Set(ctx, storage.KeyUserInfo, `{"id":1}`))

	loggedIn, err = s.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.True(t, loggedIn)

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", token)

	require.NoError(t, s.Logout(ctx))

	loggedIn, err = s.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, loggedIn)

	_, ok, err := store.Get(ctx, storage.KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = store.Get(ctx, storage.KeyUserInfo)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogin_RejectsEmptyToken(t *testing.T) {
	assert.Error(t, New(storage.NewMemoryStore()).Login(context.Background(), "  "))
}

func TestLogout_ConcurrentCallsAreSafe(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemoryStore())
	require.NoError(t, s.Login(ctx, "tok"))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Logout(ctx))
		}()
	}
	wg.Wait()

	loggedIn, err := s.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, loggedIn)
}

type brokenStore struct {
	storage.Store
}

func (brokenStore) Set(context.Context, string, string) error { return errors.New("set refused") }
func (brokenStore) Delete(context.Context, string) error     { return errors.New("delete refused") }

func TestLogout_JoinsEveryFailure(t *testing.T) {
	err := New(brokenStore{Store: storage.NewMemoryStore()}).Logout(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "clear login flag: set refused")
	assert.ErrorContains(t, err, "delete user info: delete refused")
	assert.ErrorContains(t, err, "delete token: delete refused")
}

func TestClaims(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemoryStore())

	_, err := s.Claims(ctx)
	assert.ErrorIs(t, err, ErrNoToken)

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	require.NoError(t, s.Login(ctx, "Bearer "+signedToken(t, exp)))

	claims, err := s.Claims(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, "bear", claims.Issuer)
	assert.True(t, claims.ExpiresAt.Equal(exp))
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(exp.Add(time.Minute)))
}

func TestParseClaims_RejectsGarbage(t *testing.T) {
	_, err := ParseClaims("not-a-jwt")
	assert.ErrorContains(t, err, "parse token")
}
