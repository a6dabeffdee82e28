package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vango-dev/store/internal/errors"
	"github.com/vango-dev/store/pkg/store"
)

// HandlerConfig configures a store handler.
type HandlerConfig struct {
	// Name identifies the store in logs and error responses.
	Name string

	// Logger receives request logs. If nil, slog.Default() is used.
	Logger *slog.Logger

	// MaxBodyBytes limits PUT bodies (default: 1 MiB).
	MaxBodyBytes int64
}

// HandlerOption configures a store handler.
type HandlerOption func(*HandlerConfig)

// WithName sets the store name.
func WithName(name string) HandlerOption {
	return func(c *HandlerConfig) {
		c.Name = name
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(c *HandlerConfig) {
		c.Logger = logger
	}
}

// WithMaxBodyBytes limits the size of PUT bodies.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(c *HandlerConfig) {
		c.MaxBodyBytes = n
	}
}

func defaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		MaxBodyBytes: 1 << 20,
	}
}

// valueResponse is the body of successful responses.
type valueResponse[T any] struct {
	Value T  `json:"value"`
	Old   *T `json:"old,omitempty"`
}

// valueKey is the only field a PUT body may carry.
const valueKey = "value"

// errorResponse wraps a StoreError for the wire.
type errorResponse struct {
	Error json.RawMessage `json:"error"`
}

// storeHandler serves one store.
type storeHandler[T any] struct {
	mu     sync.Mutex
	store  store.Store[T]
	config HandlerConfig
	logger *slog.Logger
}

// Handler returns an http.Handler serving s.
func Handler[T any](s store.Store[T], opts ...HandlerOption) http.Handler {
	config := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&config)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.Name != "" {
		logger = logger.With(slog.String("store", config.Name))
	}

	h := &storeHandler[T]{
		store:  s,
		config: config,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/", h.read)
	r.Put("/", h.write)
	r.MethodNotAllowed(h.methodNotAllowed)

	return r
}

func (h *storeHandler[T]) read(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	value := h.store.Get()
	h.mu.Unlock()

	h.respond(w, http.StatusOK, valueResponse[T]{Value: value})
}

func (h *storeHandler[T]) write(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes)

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.fail(w, r, http.StatusBadRequest, errors.New("E060").Wrap(err))
		return
	}
	raw, ok := body[valueKey]
	if !ok || len(body) != 1 {
		h.fail(w, r, http.StatusBadRequest, errors.New("E060").
			WithSuggestion(`Send {"value": ...}`))
		return
	}
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}

	var next T
	if err := json.Unmarshal(raw, &next); err != nil {
		h.fail(w, r, http.StatusBadRequest, errors.New("E060").Wrap(err))
		return
	}

	old, value, err := h.set(next)
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, errors.FromError(err, "E001"))
		return
	}

	h.logger.Info("store: value written",
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	h.respond(w, http.StatusOK, valueResponse[T]{Value: value, Old: &old})
}

// set writes value under the lock, releasing it even if the observer panics.
func (h *storeHandler[T]) set(value T) (old, written T, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	old = h.store.Get()
	written, err = h.store.Set(value)
	return old, written, err
}

func (h *storeHandler[T]) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", "GET, PUT")
	h.fail(w, r, http.StatusMethodNotAllowed, errors.New("E061"))
}

func (h *storeHandler[T]) fail(w http.ResponseWriter, r *http.Request, status int, err *errors.StoreError) {
	if h.config.Name != "" {
		err = err.Clone().WithStore(h.config.Name)
	}
	h.logger.Warn("store: request failed",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Int("status", status),
		slog.Any("error", err),
	)
	h.respond(w, status, errorResponse{Error: json.RawMessage(err.FormatJSON())})
}

func (h *storeHandler[T]) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("store: encode response", slog.Any("error", err))
	}
}
