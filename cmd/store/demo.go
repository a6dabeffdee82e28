package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vango-dev/store/internal/config"
	"github.com/vango-dev/store/internal/errors"
	"github.com/vango-dev/store/pkg/middleware"
	"github.com/vango-dev/store/pkg/store"
)

func demoCmd(opts *rootOptions) *cobra.Command {
	var reentrant bool

	cmd := &cobra.Command{
		Use:   "demo [values...]",
		Short: "Write values to an observed store and show notifications",
		Long: `Build an observed store from store.json, write each value in turn and
print what the observer sees.

Values are JSON. Without arguments the "writes" list from store.json
is used. With --reentrant the observer writes back to its own store;
those nested writes change the value but are not notified.

Examples:
  store demo 1 2 3
  store demo --reentrant '"a"' '"b"'
  store demo --config ./examples/counter`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("reentrant") {
				cfg.Reentrant = reentrant
			}
			if len(args) > 0 {
				writes, err := parseValues(args)
				if err != nil {
					return err
				}
				cfg.Writes = writes
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg, opts.debug)
			return runDemo(cmd, cfg, logger)
		},
	}

	cmd.Flags().BoolVarP(&reentrant, "reentrant", "r", false, "Observer writes back to its own store")

	return cmd
}

// parseValues decodes each argument as a JSON value.
func parseValues(args []string) ([]any, error) {
	values := make([]any, 0, len(args))
	for _, arg := range args {
		var v any
		if err := json.Unmarshal([]byte(arg), &v); err != nil {
			return nil, errors.New("E150").
				WithDetail(fmt.Sprintf("%q is not a JSON value", arg)).
				WithSuggestion(`Quote strings for JSON, e.g. '"text"'`).
				Wrap(err)
		}
		values = append(values, v)
	}
	return values, nil
}

// demoStats counts what the demo observer saw.
type demoStats struct {
	notifications int
	nested        int
}

func runDemo(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	var (
		s     store.Store[any]
		stats demoStats
	)

	observe := func(value, old any) error {
		stats.notifications++
		printf(cmd, "  notified: %s (was %s)", formatValue(value), formatValue(old))

		if cfg.Reentrant {
			echo := fmt.Sprintf("%v (echo)", value)
			if _, err := s.Set(echo); err != nil {
				return err
			}
			stats.nested++
			printf(cmd, "  nested:   %s, notification suppressed", formatValue(echo))
		}
		return nil
	}

	onchange := middleware.Logging(cfg.Name, store.Observer[any](observe), logger)
	if cfg.Tracing.Enabled {
		onchange = middleware.OpenTelemetry(cfg.Name, onchange,
			middleware.WithTracerName(cfg.Tracing.TracerName),
		)
	}

	s = store.New(cfg.Initial, onchange,
		store.WithName(cfg.Name),
		store.WithLogger(logger),
	)

	printf(cmd, "%s = %s", cfg.Name, formatValue(s.Get()))
	for _, v := range cfg.Writes {
		printf(cmd, "%s <- %s", cfg.Name, formatValue(v))
		if _, err := s.Set(v); err != nil {
			return errors.FromError(err, "E001").Clone().WithStore(cfg.Name)
		}
	}
	printf(cmd, "%s = %s after %d writes, %d notifications, %d suppressed",
		cfg.Name, formatValue(s.Get()), len(cfg.Writes), stats.notifications, stats.nested)

	return nil
}

// formatValue renders a value as JSON for display.
func formatValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
