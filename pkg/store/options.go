package store

import "log/slog"

// Option is a functional option for configuring observed stores.
// Plain stores ignore options.
type Option func(*options)

// options holds configuration for an observed store.
type options struct {
	// name identifies the store in log output.
	name string

	// logger receives debug output. If nil, slog.Default() is used.
	logger *slog.Logger
}

// WithName sets the name the store reports in log output.
//
// Example:
//
//	cart := store.New(Cart{}, onCartChange, store.WithName("cart"))
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger for the store.
// Suppressed notifications are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// applyOptions applies the given options and returns the resulting config.
func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
