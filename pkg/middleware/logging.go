package middleware

import (
	"log/slog"
	"time"

	"github.com/vango-dev/store/pkg/store"
)

// Logging wraps next so every call is logged at debug level and every
// failure at warn level. A nil logger uses slog.Default().
func Logging[T any](name string, next store.Observer[T], logger *slog.Logger) store.Observer[T] {
	if next == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("store", name))

	return func(value, old T) error {
		start := time.Now()
		err := next(value, old)
		if err != nil {
			logger.Warn("store: observer failed",
				slog.Any("error", err),
				slog.Duration("duration", time.Since(start)),
			)
			return err
		}
		logger.Debug("store: observer notified",
			slog.Any("value", value),
			slog.Any("old", old),
			slog.Duration("duration", time.Since(start)),
		)
		return nil
	}
}
