package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cellgit/BearBasic/internal/config"
	"github.com/cellgit/BearBasic/internal/device"
	"github.com/cellgit/BearBasic/internal/envelope"
	"github.com/cellgit/BearBasic/internal/identity"
	"github.com/cellgit/BearBasic/internal/jsonvalue"
	"github.com/cellgit/BearBasic/internal/metrics"
	"github.com/cellgit/BearBasic/internal/request"
	"github.com/cellgit/BearBasic/internal/storage"
)

// Fetcher executes targets and unwraps their envelopes.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	Do(ctx context.Context, target request.Target) ([]byte, int, error)
	FetchUntyped(ctx context.Context, target request.Target) (envelope.Response[jsonvalue.Object], error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Header names attached to every request.
const (
	HeaderAuthorization = "Authorization"
	HeaderAppID         = "appId"
	HeaderUUID          = "uuid"
	HeaderIDFV          = "idfv"
	HeaderIDFA          = "idfa"
	HeaderPlatform      = "platform"
	HeaderAppVersion    = "appVersion"
	HeaderBundleID      = "bundleId"
	HeaderSystemVersion = "systemVersion"
)

const (
	defaultTimeout = 300 * time.Second
	maxBodyBytes   = 32 << 20
)

// Options configures New.
type Options struct {
	BaseURL  string
	Timeout  time.Duration
	Store    storage.Store
	Device   device.Info
	Notifier envelope.Notifier
	Logger   *slog.Logger
	// Metrics records request counts and durations; nil disables them.
	Metrics *metrics.Metrics
	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to the Bear API.
type Client struct {
	baseURL  string
	http     *http.Client
	store    storage.Store
	device   device.Info
	notifier envelope.Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// New builds a Client from explicit options.
func New(opts Options) (*Client, error) {
	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		return nil, errors.New("base url is required")
	}
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:  baseURL,
		http:     httpClient,
		store:    opts.Store,
		device:   opts.Device,
		notifier: opts.Notifier,
		logger:   logger,
		metrics:  opts.Metrics,
	}, nil
}

// FromConfig builds a Client for cfg, detecting the host for platform headers.
func FromConfig(ctx context.Context, cfg config.Config, store storage.Store, notifier envelope.Notifier, logger *slog.Logger, m *metrics.Metrics) (*Client, error) {
	return New(Options{
		BaseURL:  cfg.BaseURL(),
		Timeout:  cfg.Timeout,
		Store:    store,
		Device:   device.Detect(ctx, cfg.AppVersion, cfg.BundleID),
		Notifier: notifier,
		Logger:   logger,
		Metrics:  m,
	})
}

// BaseURL returns the API root requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do executes target and returns the raw body and HTTP status. Non-2xx
// statuses are not errors here; the envelope decoder classifies them.
func (c *Client) Do(ctx context.Context, target request.Target) ([]byte, int, error) {
	if c == nil {
		return nil, 0, fmt.Errorf("client is nil")
	}
	req, err := request.Build(ctx, c.baseURL, target)
	if err != nil {
		return nil, 0, err
	}
	headers, err := c.headers(ctx, target.SkipAuth)
	if err != nil {
		return nil, 0, err
	}
	for name, value := range headers {
		if req.Header.Get(name) == "" {
			req.Header.Set(name, value)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(req.Method, 0, time.Since(start))
		c.logger.Warn("api request failed", "method", req.Method, "url", req.URL.String(), "error", err)
		return nil, 0, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.metrics.ObserveRequest(req.Method, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("api request",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start),
	)
	return body, resp.StatusCode, nil
}

// FetchUntyped executes target and returns result.data as a raw object.
func (c *Client) FetchUntyped(ctx context.Context, target request.Target) (envelope.Response[jsonvalue.Object], error) {
	body, status, err := c.Do(ctx, target)
	if err != nil {
		return envelope.Response[jsonvalue.Object]{}, err
	}
	return envelope.DecodeUntyped(body, status, c.decodeOptions()...)
}

// Fetch executes target and decodes result.data into T.
func Fetch[T any](ctx context.Context, c *Client, target request.Target) (envelope.Response[T], error) {
	return FetchWith(ctx, c, target, envelope.JSONShape[T]{})
}

// FetchWith executes target and decodes result.data with shape.
func FetchWith[T any](ctx context.Context, c *Client, target request.Target, shape envelope.Shape[T]) (envelope.Response[T], error) {
	body, status, err := c.Do(ctx, target)
	if err != nil {
		return envelope.Response[T]{}, err
	}
	return envelope.DecodeWith(body, status, shape, c.decodeOptions()...)
}

func (c *Client) decodeOptions() []envelope.Option {
	return []envelope.Option{
		envelope.WithNotifier(c.notifier),
		envelope.WithLogger(c.logger),
	}
}

func (c *Client) headers(ctx context.Context, skipAuth bool) (map[string]string, error) {
	id, err := identity.Load(ctx, c.store)
	if err != nil {
		return nil, fmt.Errorf("load identity: %w", err)
	}
	deviceUUID := id.DeviceUUID
	if deviceUUID == "" {
		deviceUUID = identity.ZeroUUID
	}

	headers := map[string]string{
		HeaderUUID:          deviceUUID,
		HeaderIDFV:          deviceUUID,
		HeaderIDFA:          deviceUUID,
		HeaderPlatform:      c.device.Platform,
		HeaderAppVersion:    c.device.AppVersion,
		HeaderBundleID:      c.device.BundleID,
		HeaderSystemVersion: c.device.SystemVersion,
	}
	if id.AppID != "" {
		headers[HeaderAppID] = id.AppID
	}
	for name, value := range headers {
		if value == "" {
			delete(headers, name)
		}
	}

	if !skipAuth {
		token, err := storage.GetString(ctx, c.store, storage.KeyToken)
		if err != nil {
			return nil, fmt.Errorf("load token: %w", err)
		}
		if token != "" {
			headers[HeaderAuthorization] = token
		}
	}
	return headers, nil
}
