// Package store provides a minimal mutable value container with an optional
// change observer.
//
// It is meant for the cases where a full reactive graph is too much: a single
// value, read and written directly, with one callback told about every write.
//
// # Core Types
//
// Store[T] is created with New. Passing a nil observer yields a plain store:
//
//	count := store.New(0, nil)
//	count.Set(5)
//	value := count.Get() // 5
//
// Passing an observer yields an observed store. The observer runs
// synchronously on every write with the new and the previous value:
//
//	count := store.New(0, func(value, old int) error {
//	    fmt.Println(old, "->", value)
//	    return nil
//	})
//
// # Accessor Form
//
// Prop[T] folds read and write into one function, selected by the number of
// arguments:
//
//	count := store.MakeStore(0, nil)
//	count()  // read
//	count(5) // write
//
// # Reentrancy
//
// While an observer runs, notification for that store is switched off. A write
// issued from inside the observer still updates the value but does not call
// the observer again, so an observer that writes to its own store cannot
// recurse without bound. Notification is switched back on when the observer
// returns, fails or panics.
//
// # Thread Safety
//
// Stores are not safe for concurrent use. Share a store across goroutines only
// behind a lock.
package store
