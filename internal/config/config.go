package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Environment selects the API deployment the SDK talks to.
type Environment string

const (
	EnvProduction Environment = "production"
	EnvTest       Environment = "test"
	EnvLocal      Environment = "local"
)

var environmentDomains = map[Environment]string{
	EnvProduction: "https://api.beartranslate.com",
	EnvTest:       "https://api.test.beartranslate.com",
	EnvLocal:      "http://192.168.0.101:3000",
}

// Config captures everything the SDK needs to build and send requests.
type Config struct {
	Environment Environment
	APIVersion  string
	// Domain overrides the environment's domain when set.
	Domain  string
	Timeout time.Duration

	Store       string
	StorePath   string
	RedisAddr   string
	RedisPrefix string

	AppVersion string
	BundleID   string
	LogLevel   string
	// LogFile receives logs instead of stderr when set.
	LogFile string
}

const (
	defaultConfigPath = "~/.config/bearbasic/config.toml"
	defaultStorePath  = "~/.config/bearbasic/store.toml"
	defaultAPIVersion = "v1"
	defaultTimeout    = 300 * time.Second
	defaultStore      = "file"
	defaultLogLevel   = "info"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Environment: EnvProduction,
		APIVersion:  defaultAPIVersion,
		Timeout:     defaultTimeout,
		Store:       defaultStore,
		StorePath:   mustExpand(defaultStorePath),
		AppVersion:  "unknown",
		BundleID:    "unknown",
		LogLevel:    defaultLogLevel,
	}
}

// Load locates and parses the SDK config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Environment string `toml:"environment"`
		APIVersion  string `toml:"api_version"`
		Domain      string `toml:"domain"`
		Timeout     string `toml:"timeout"`
		Store       string `toml:"store"`
		StorePath   string `toml:"store_path"`
		RedisAddr   string `toml:"redis_addr"`
		RedisPrefix string `toml:"redis_prefix"`
		AppVersion  string `toml:"app_version"`
		BundleID    string `toml:"bundle_id"`
		LogLevel    string `toml:"log_level"`
		LogFile     string `toml:"log_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if env := strings.TrimSpace(raw.Environment); env != "" {
		parsed, err := ParseEnvironment(env)
		if err != nil {
			return Config{}, err
		}
		cfg.Environment = parsed
	}
	if v := strings.TrimSpace(raw.APIVersion); v != "" {
		cfg.APIVersion = v
	}
	cfg.Domain = strings.TrimRight(strings.TrimSpace(raw.Domain), "/")
	if t := strings.TrimSpace(raw.Timeout); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid timeout %q", raw.Timeout)
		}
		cfg.Timeout = d
	}

	if s := strings.ToLower(strings.TrimSpace(raw.Store)); s != "" {
		switch s {
		case "file", "memory", "redis":
			cfg.Store = s
		default:
			return Config{}, fmt.Errorf("invalid store %q", raw.Store)
		}
	}
	if p := strings.TrimSpace(raw.StorePath); p != "" {
		cfg.StorePath = mustExpand(p)
	}
	cfg.RedisAddr = strings.TrimSpace(raw.RedisAddr)
	cfg.RedisPrefix = strings.TrimSpace(raw.RedisPrefix)
	if cfg.Store == "redis" && cfg.RedisAddr == "" {
		return Config{}, fmt.Errorf("store = redis requires redis_addr")
	}

	if v := strings.TrimSpace(raw.AppVersion); v != "" {
		cfg.AppVersion = v
	}
	if v := strings.TrimSpace(raw.BundleID); v != "" {
		cfg.BundleID = v
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}

	return cfg, nil
}

// ParseEnvironment validates an environment name.
func ParseEnvironment(name string) (Environment, error) {
	env := Environment(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := environmentDomains[env]; !ok {
		return "", fmt.Errorf("invalid environment %q (want production, test or local)", name)
	}
	return env, nil
}

// APIDomain returns the scheme and host requests are sent to.
func (c Config) APIDomain() string {
	if c.Domain != "" {
		return c.Domain
	}
	if d, ok := environmentDomains[c.Environment]; ok {
		return d
	}
	return environmentDomains[EnvProduction]
}

// BaseURL returns "<domain>/api/<version>".
func (c Config) BaseURL() string {
	version := strings.Trim(strings.TrimSpace(c.APIVersion), "/")
	if version == "" {
		version = defaultAPIVersion
	}
	return c.APIDomain() + "/api/" + version
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
