package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/cellgit/BearBasic/internal/app"
	"github.com/cellgit/BearBasic/internal/prefs"
	"github.com/cellgit/BearBasic/internal/request"
	"github.com/cellgit/BearBasic/internal/state"
	"github.com/cellgit/BearBasic/internal/ui"
)

// watchCmd polls a GET path and renders it in the terminal
func watchCmd(c *cli) *cobra.Command {
	var interval time.Duration
	var theme string
	var prefsPath string
	var metricsAddr string

	cmd := &cobra.Command{
		Use:         "watch <path>",
		Short:       "Poll an API path and show the latest result",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"tui": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			stored := prefs.Load(prefsPath)
			if !cmd.Flags().Changed("interval") {
				interval = stored.Interval
			}
			if !cmd.Flags().Changed("theme") {
				theme = stored.Theme
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			target := request.Get(args[0])
			store := &state.Store{}

			if metricsAddr != "" {
				stop := serveMetrics(metricsAddr, c.sdk)
				defer stop()
			}
			app.StartPoller(ctx, store, c.sdk.Client, target, interval, c.sdk.Logger)

			return ui.Run(ui.Options{
				Store:     store,
				Title:     http.MethodGet + " " + target.Path,
				BaseURL:   c.sdk.Config.BaseURL(),
				PollTick:  time.Second,
				ThemeName: theme,
				PrefsPath: prefsPath,
			})
		},
	}

	defaults := prefs.Default()
	cmd.Flags().DurationVar(&interval, "interval", defaults.Interval, "poll interval before backoff; overrides prefs")
	cmd.Flags().StringVar(&theme, "theme", defaults.Theme, "color theme: Nightfox, Kanagawa or Slate; overrides prefs")
	cmd.Flags().StringVar(&prefsPath, "prefs", prefs.DefaultPath(), "preferences file")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9464)")
	return cmd
}

// serveMetrics exposes /metrics until the returned stop func is called.
func serveMetrics(addr string, sdk *app.App) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", sdk.Metrics.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sdk.Logger.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}
