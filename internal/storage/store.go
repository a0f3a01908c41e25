// Package storage persists the SDK's string key-value state (app id, device
// uuid, auth token, login flag).
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Well-known keys. Host applications reading or writing these values must use
// the same names.
const (
	KeyAppID    = "appId"
	KeyToken    = "token"
	KeyIsLogin  = "isLogin"
	KeyUUID     = "uuid"
	KeyUserInfo = "userInfo"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// ErrEmptyKey is returned when a key is blank.
var ErrEmptyKey = errors.New("storage key is empty")

// Store is a string key-value store.
type Store interface {
	// Get returns the value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Options selects and configures a backend.
type Options struct {
	Backend     string
	Path        string
	RedisAddr   string
	RedisPrefix string
}

// Open builds the Store described by opts. An empty backend means file.
func Open(opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		return NewFileStore(opts.Path)
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		return NewRedisStore(opts.RedisAddr, opts.RedisPrefix)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// GetString returns the stored value or "" when absent.
func GetString(ctx context.Context, s Store, key string) (string, error) {
	v, _, err := s.Get(ctx, key)
	return v, err
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	return nil
}
