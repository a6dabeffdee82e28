// Package errors provides structured, actionable error messages for the store
// tooling.
//
// Errors carry a registered code, a category, a short message and optionally a
// longer detail, a fix suggestion and a documentation link. Errors returned by
// observers are never replaced by this package; they are wrapped and remain
// reachable through errors.Is and errors.As.
//
// # Error Categories
//
//   - runtime: failures raised while a store is being written
//   - protocol: malformed HTTP requests against an exposed store
//   - config: invalid or missing store.json
//   - cli: bad command-line input
//
// # Usage
//
//	err := errors.New("E122").
//	    WithDetail("Port must be between 0 and 65535").
//	    WithSuggestion("Set server.port in store.json")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E122: Invalid server port
//	//
//	//   Port must be between 0 and 65535
//	//
//	//   Hint: Set server.port in store.json
//	//
//	//   Learn more: https://vango.dev/docs/store/errors/E122
package errors
