package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/store/internal/config"
	"github.com/vango-dev/store/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configDir string
	debug     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "store",
		Short: "A single value with one observer",
		Long: `store demonstrates and serves observed stores.

An observed store holds one value and calls one observer on every
write. Writes made by the observer itself update the value without
notifying again.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configDir, "config", "c", "", "Directory containing store.json (default: current directory if present)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		demoCmd(opts),
		serveCmd(opts),
		versionCmd(),
	)

	return rootCmd
}

// loadConfig loads store.json from the configured directory. Without --config
// it falls back to defaults when the working directory has no store.json.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)

	switch {
	case opts.configDir != "":
		cfg, err = config.Load(opts.configDir)
	case config.Exists("."):
		cfg, err = config.Load(".")
	default:
		cfg = config.New()
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the CLI logger. --debug overrides the configured level.
func newLogger(w io.Writer, cfg *config.Config, debug bool) *slog.Logger {
	level, _ := cfg.Level()
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// printf writes a formatted line to the command's output.
func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}
