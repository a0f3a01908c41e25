package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cellgit/BearBasic/internal/app"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run executes one command and releases the SDK whether or not it failed.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root, c := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if closeErr := c.close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintf(stderr, "bear: %v\n", err)
		return 1
	}
	return 0
}

// cli carries the wired SDK between cobra hooks and commands.
type cli struct {
	opts app.Options
	sdk  *app.App
}

// close releases the SDK opened by PersistentPreRunE, if any.
func (c *cli) close() error {
	if c.sdk == nil {
		return nil
	}
	err := c.sdk.Close()
	c.sdk = nil
	return err
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{}

	root := &cobra.Command{
		Use:   "bear",
		Short: "Bear API client",
		Long: `bear talks to the Bear API: it bootstraps the device identity,
manages the login token and performs API calls, unwrapping the
response envelope and reporting business error codes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["offline"] == "true" {
				return nil
			}
			c.opts.LogOutput = cmd.ErrOrStderr()
			if cmd.Annotations["tui"] == "true" {
				c.opts.LogOutput = io.Discard
			}
			sdk, err := app.Open(cmd.Context(), c.opts)
			if err != nil {
				return err
			}
			c.sdk = sdk
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.opts.ConfigPath, "config", "", "config file (default ~/.config/bearbasic/config.toml)")
	flags.StringVar(&c.opts.Environment, "env", "", "API environment: production, test or local")
	flags.StringVar(&c.opts.Store, "store", "", "storage backend: file, memory or redis")
	flags.StringVar(&c.opts.LogLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		startCmd(c),
		identityCmd(c),
		loginCmd(c),
		logoutCmd(c),
		getCmd(c),
		postCmd(c),
		uploadCmd(c),
		watchCmd(c),
		logsCmd(c),
		codesCmd(),
	)
	return root, c
}
