// Package registry provides the static table that maps an operation name to
// the base URL of the operation service that implements it.
//
// # Overview
//
// The gateway never discovers services. The table is assembled once during
// start-up and is read-only for the life of the process:
//
//	Defaults()                 add → http://localhost:3001, ... divide → :3004
//	    │
//	    ▼
//	--registry-file (YAML)     services: {add: http://add:3001, ...}
//	    │
//	    ▼
//	ADD_SERVICE_URL, ...       one variable per operation
//	    │
//	    ▼
//	New()                      validation, then frozen
//
// Later sources win. New rejects operations outside add, subtract, multiply
// and divide, and any URL that is not an absolute http(s) URL, so a bad
// configuration stops the process before it serves traffic.
//
// # Concurrency
//
// Registry has no mutating methods. Lookups from concurrent request
// handlers need no locks.
package registry
