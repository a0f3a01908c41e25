package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cellgit/BearBasic/internal/client"
	"github.com/cellgit/BearBasic/internal/config"
	"github.com/cellgit/BearBasic/internal/dispatch"
	"github.com/cellgit/BearBasic/internal/identity"
	"github.com/cellgit/BearBasic/internal/metrics"
	"github.com/cellgit/BearBasic/internal/session"
	"github.com/cellgit/BearBasic/internal/storage"
)

// Options configure Open. Empty overrides keep the config file's values.
type Options struct {
	ConfigPath  string
	Environment string
	Store       string
	LogLevel    string
	// LogOutput defaults to stderr.
	LogOutput io.Writer
}

// App is the wired SDK: configuration, persisted state, the notification
// hook and the HTTP client.
type App struct {
	Config     config.Config
	Store      storage.Store
	Session    *session.Session
	Dispatcher *dispatch.Dispatcher
	Client     *client.Client
	Metrics    *metrics.Metrics
	Logger     *slog.Logger

	logFile *os.File
}

// Open loads configuration and builds every collaborator.
func Open(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := applyOverrides(&cfg, opts); err != nil {
		return nil, err
	}

	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	var logFile *os.File
	if cfg.LogFile != "" {
		logFile, err = openLogFile(cfg.LogFile)
		if err != nil {
			return nil, err
		}
		out = logFile
	}
	logger := NewLogger(cfg.LogLevel, out)

	store, err := storage.Open(storage.Options{
		Backend:     cfg.Store,
		Path:        cfg.StorePath,
		RedisAddr:   cfg.RedisAddr,
		RedisPrefix: cfg.RedisPrefix,
	})
	if err != nil {
		closeLog(logFile)
		return nil, fmt.Errorf("open store: %w", err)
	}

	sess := session.New(store)
	dispatcher := dispatch.New(sess.Logout, logger)
	m := metrics.New()

	c, err := client.FromConfig(ctx, cfg, store, m.Notifier(dispatcher), logger, m)
	if err != nil {
		closeStore(store)
		closeLog(logFile)
		return nil, fmt.Errorf("init client: %w", err)
	}

	logger.Debug("sdk opened",
		"environment", string(cfg.Environment),
		"base_url", cfg.BaseURL(),
		"store", cfg.Store,
	)
	return &App{
		Config:     cfg,
		Store:      store,
		Session:    sess,
		Dispatcher: dispatcher,
		Client:     c,
		Metrics:    m,
		Logger:     logger,
		logFile:    logFile,
	}, nil
}

// Start persists appID and a new device uuid.
func (a *App) Start(ctx context.Context, appID string) (identity.Identity, error) {
	id, err := identity.Start(ctx, a.Store, appID)
	if err != nil {
		return identity.Identity{}, err
	}
	a.Logger.Info("sdk started", "app_id", id.AppID, "uuid", id.DeviceUUID)
	return id, nil
}

// Close releases the store's connections and the log file, if any.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	if closer, ok := a.Store.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	if a.logFile != nil {
		errs = append(errs, a.logFile.Close())
	}
	return errors.Join(errs...)
}

// NewLogger builds a text logger at level. Unknown levels fall back to info.
func NewLogger(level string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func applyOverrides(cfg *config.Config, opts Options) error {
	if env := strings.TrimSpace(opts.Environment); env != "" {
		parsed, err := config.ParseEnvironment(env)
		if err != nil {
			return err
		}
		cfg.Environment = parsed
	}
	if s := strings.ToLower(strings.TrimSpace(opts.Store)); s != "" {
		switch s {
		case storage.BackendFile, storage.BackendMemory, storage.BackendRedis:
			cfg.Store = s
		default:
			return fmt.Errorf("invalid store %q", opts.Store)
		}
	}
	if lvl := strings.TrimSpace(opts.LogLevel); lvl != "" {
		cfg.LogLevel = strings.ToLower(lvl)
	}
	return nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func closeLog(f *os.File) {
	if f != nil {
		_ = f.Close()
	}
}

func closeStore(store storage.Store) {
	if closer, ok := store.(io.Closer); ok {
		_ = closer.Close()
	}
}
