package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cellgit/BearBasic/internal/config"
	"github.com/cellgit/BearBasic/internal/logtail"
)

// logsCmd prints the tail of the configured log file
func logsCmd(c *cli) *cobra.Command {
	var lines int
	var level string

	cmd := &cobra.Command{
		Use:         "logs",
		Short:       "Show the tail of the SDK log file",
		Annotations: map[string]string{"offline": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.opts.ConfigPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.LogFile == "" {
				return errors.New("no log_file configured")
			}

			var minLevel slog.Level
			if err := minLevel.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
				return fmt.Errorf("invalid level %q", level)
			}

			tail, err := logtail.Read(cfg.LogFile, lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, line := range logtail.Filter(tail, minLevel) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines to read (0 for all)")
	cmd.Flags().StringVar(&level, "level", "debug", "minimum level to show")
	return cmd
}
