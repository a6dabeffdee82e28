// Package server exposes a single store over HTTP.
//
// The handler is a chi router with two routes on its root:
//
//	GET /    read:  200 {"value": ...}
//	PUT /    write: 200 {"value": ..., "old": ...}
//
// A PUT body must be {"value": ...}. Observer failures answer 500 with the
// error encoded as JSON; the value has still been written.
//
// Stores are not safe for concurrent use, so the handler serializes every
// request against its store.
//
//	counter := store.New(0, onCounterChange)
//	r := chi.NewRouter()
//	r.Mount("/counter", server.Handler(counter, server.WithName("counter")))
package server
