// Package middleware provides observer wrappers for stores.
//
// Each wrapper takes the observer a store would be built with and returns a
// new observer that does the same work plus one cross-cutting concern. The
// wrapped observer's error is always returned unchanged, and a nil observer
// stays nil so the store is still built as a plain store.
//
// # Prometheus Metrics
//
//	onchange := middleware.Prometheus("cart", saveCart,
//	    middleware.WithNamespace("myapp"),
//	)
//	cart := store.New(Cart{}, onchange)
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
//
// Metrics collected:
//   - store_notifications_total: Counter of observer calls by store and status
//   - store_notification_duration_seconds: Histogram of observer duration
//   - store_notification_errors_total: Counter of observer errors by store
//
// # OpenTelemetry
//
// Every observer call becomes a span named "store.notify <name>":
//
//	onchange := middleware.OpenTelemetry("cart", saveCart,
//	    middleware.WithTracerName("my-app"),
//	)
//
// The tracer comes from the global provider unless WithTracerProvider is
// given.
//
// # Logging
//
//	onchange := middleware.Logging("cart", saveCart, slog.Default())
//
// Wrappers compose by nesting; the outermost runs first:
//
//	onchange := middleware.Logging("cart",
//	    middleware.Prometheus("cart", saveCart),
//	    logger,
//	)
package middleware
