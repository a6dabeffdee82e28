package store

import (
	"log/slog"
)

// Observer is called after every write to an observed store with the value
// just written and the value it replaced. A returned error is passed back to
// the caller of Set unchanged.
type Observer[T any] func(value, old T) error

// Notify adapts a callback that cannot fail into an Observer.
func Notify[T any](fn func(value, old T)) Observer[T] {
	if fn == nil {
		return nil
	}
	return func(value, old T) error {
		fn(value, old)
		return nil
	}
}

// Store is a single mutable value.
type Store[T any] interface {
	// Get returns the current value.
	Get() T

	// Set replaces the current value and returns the value written.
	Set(value T) (T, error)
}

// New creates a store holding initial.
// If onchange is nil the store never notifies; otherwise onchange is called on
// every write.
func New[T any](initial T, onchange Observer[T], opts ...Option) Store[T] {
	if onchange == nil {
		return &Plain[T]{value: initial}
	}

	options := applyOptions(opts)
	logger := options.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Observed[T]{
		name:     options.name,
		value:    initial,
		onchange: onchange,
		logger:   logger,
	}
}

// Plain is a store without an observer.
type Plain[T any] struct {
	value T
}

// Get returns the current value.
func (s *Plain[T]) Get() T {
	return s.value
}

// Set replaces the current value. The error is always nil.
func (s *Plain[T]) Set(value T) (T, error) {
	s.value = value
	return value, nil
}

// notifyState tracks whether an observed store may call its observer.
type notifyState uint8

const (
	notifyEnabled notifyState = iota
	notifyDisabled
)

// Observed is a store with exactly one observer, fixed at construction.
type Observed[T any] struct {
	name  string
	value T

	onchange Observer[T]
	state    notifyState

	logger *slog.Logger
}

// Get returns the current value.
func (s *Observed[T]) Get() T {
	return s.value
}

// Set replaces the current value and calls the observer with the new and old
// values. Writes made while the observer is running update the value without
// notifying.
//
// Set returns value even when a nested write has since replaced it.
func (s *Observed[T]) Set(value T) (T, error) {
	old := s.value
	s.value = value

	if !s.acquire() {
		s.logger.Debug("store: notification suppressed", slog.String("store", s.name))
		return value, nil
	}
	defer s.release()

	return value, s.onchange(value, old)
}

// Name returns the name given with WithName.
func (s *Observed[T]) Name() string {
	return s.name
}

// Notifying reports whether a write would currently reach the observer.
// It is false only while the observer is running.
func (s *Observed[T]) Notifying() bool {
	return s.state == notifyEnabled
}

// acquire switches notification off and reports whether it was on.
func (s *Observed[T]) acquire() bool {
	if s.state == notifyDisabled {
		return false
	}
	s.state = notifyDisabled
	return true
}

// release switches notification back on.
func (s *Observed[T]) release() {
	s.state = notifyEnabled
}
