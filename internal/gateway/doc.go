// Package gateway implements the public API that routes arithmetic requests
// to the operation services.
//
// # Dispatch
//
// Every POST /api/calculate runs the same four steps in Dispatcher.Calculate:
//
//  1. operation must be a registry key, else ErrInvalidOperation (400)
//  2. a and b must be JSON numbers, else calc.ErrNotNumbers (400)
//  3. POST {a, b} to <service>/calculate, one attempt, no retry
//  4. relay {operation, a, b, result}, or *UpstreamError (502)
//
// Steps 1 and 2 never touch the network. Any failure in step 3 is an
// UpstreamError: a refused connection, a timeout, a non-2xx status (a
// divide-by-zero 400 from the divide service included) or a body without a
// result. Its Detail is the underlying message and is relayed to the client
// verbatim next to the fixed "Operation service unavailable." text.
//
// # Routes
//
//	GET  /health         {"service": "api-gateway", "status": "ok"}
//	POST /api/calculate  dispatch, see above
//	GET  /api/services   on-demand /health probe of every registered service
//	GET  /metrics        Prometheus exposition
//	GET  /               frontend index.html, when a frontend directory exists
//
// Unmatched GET paths fall through to the frontend directory.
//
// # Concurrency
//
// The gateway holds no per-request state. The registry is immutable, the
// outbound client is shared, and a client disconnect cancels the outbound
// call through the request context. The Prober fans its checks out with an
// errgroup and bounds each one with its own timeout.
package gateway
