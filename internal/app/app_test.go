package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellgit/BearBasic/internal/client"
	"github.com/cellgit/BearBasic/internal/config"
	"github.com/cellgit/BearBasic/internal/request"
	"github.com/cellgit/BearBasic/internal/storage"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestOpen_WiresCollaborators(t *testing.T) {
	var gotAppID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAppID = r.Header.Get(client.HeaderAppID)
		_, _ = io.WriteString(w, `{"status_code":200,"result":{"code":1002,"message":"用户不存在"}}`)
	}))
	t.Cleanup(server.Close)

	path := writeConfig(t, `
environment = "local"
domain = "`+server.URL+`"
store = "memory"
log_level = "debug"
`)
	var logs bytes.Buffer
	ctx := context.Background()
	a, err := Open(ctx, Options{ConfigPath: path, LogOutput: &logs})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.Equal(t, config.EnvLocal, a.Config.Environment)
	assert.Equal(t, server.URL+"/api/v1", a.Client.BaseURL())

	_, err = a.Start(ctx, "app-9")
	require.NoError(t, err)
	require.NoError(t, a.Session.Login(ctx, "Bearer t"))

	_, err = a.Client.FetchUntyped(ctx, request.Get("/user/profile"))
	require.Error(t, err)
	assert.Equal(t, "app-9", gotAppID)

	loggedIn, err := a.Session.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, loggedIn, "code 1002 should sign the user out")
	assert.Contains(t, logs.String(), "code=1002")
	assert.Equal(t, 1.0, testutil.ToFloat64(a.Metrics.CodesTotal.WithLabelValues("1002")))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.Metrics.RequestsTotal.WithLabelValues(http.MethodGet, "200")))
}

func TestOpen_LogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "bear.log")
	path := writeConfig(t, "store = \"memory\"\nlog_file = \""+logPath+"\"\n")

	var stderr bytes.Buffer
	a, err := Open(context.Background(), Options{ConfigPath: path, LogOutput: &stderr})
	require.NoError(t, err)
	_, err = a.Start(context.Background(), "app-1")
	require.NoError(t, err)
	require.NoError(t, a.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sdk started")
	assert.Empty(t, stderr.String())
}

func TestOpen_Overrides(t *testing.T) {
	path := writeConfig(t, `store = "memory"`)

	a, err := Open(context.Background(), Options{ConfigPath: path, Environment: "test", LogOutput: io.Discard})
	require.NoError(t, err)
	assert.Equal(t, "https://api.test.beartranslate.com/api/v1", a.Config.BaseURL())
	_, isMemory := a.Store.(*storage.MemoryStore)
	assert.True(t, isMemory)

	_, err = Open(context.Background(), Options{ConfigPath: path, Store: "sqlite", LogOutput: io.Discard})
	assert.ErrorContains(t, err, "invalid store")

	_, err = Open(context.Background(), Options{ConfigPath: path, Environment: "staging", LogOutput: io.Discard})
	assert.ErrorContains(t, err, "invalid environment")
}

func TestOpen_BadConfig(t *testing.T) {
	path := writeConfig(t, `timeout = "soon"`)
	_, err := Open(context.Background(), Options{ConfigPath: path})
	assert.ErrorContains(t, err, "load config")
}

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warn", &buf)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	logger = NewLogger("nonsense", &buf)
	logger.Debug("hidden")
	logger.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
