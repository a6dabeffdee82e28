package store

// Prop is the single-function form of a store.
// Called with no arguments it reads; called with arguments it writes the
// first one and ignores the rest.
type Prop[T any] func(value ...T) (T, error)

// Func returns the accessor form of s.
func Func[T any](s Store[T]) Prop[T] {
	return func(value ...T) (T, error) {
		if len(value) == 0 {
			return s.Get(), nil
		}
		return s.Set(value[0])
	}
}

// MakeStore creates a store and returns its accessor form.
//
// Example:
//
//	name := store.MakeStore("", nil)
//	name("Ada")
//	current, _ := name()
func MakeStore[T any](initial T, onchange Observer[T], opts ...Option) Prop[T] {
	return Func(New(initial, onchange, opts...))
}
