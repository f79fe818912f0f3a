// Package calc holds the wire contract shared by the gateway and the
// operation services, and the JSON client the gateway uses for its single
// hop to a backend.
//
// # Overview
//
// Every exchange in the system is one JSON request and one JSON response:
//
//	client ──POST /api/calculate──▶ gateway ──POST /calculate──▶ operation service
//	       ◀──{operation,a,b,result}─        ◀──{result}────────
//
// Request bodies decode operands as `any` (CalculationRequest, Operands) so a
// string, boolean or null operand becomes a client input error with a fixed
// message instead of a generic decode failure. Numbers validates the pair.
//
// # Error Contract
//
// Errors travel as ErrorResponse:
//
//	{"error": "<fixed message>"}                      400, client input
//	{"error": "<fixed message>", "detail": "<cause>"} 502, gateway upstream failure
//
// The fixed messages are the Msg* constants and must not change; clients
// match on them.
//
// # Client
//
// Client wraps one *http.Client with a timeout (DefaultTimeout unless
// configured). A non-2xx answer is returned as *StatusError, which carries
// the remote status and, when present, the remote error message. Transport
// errors are returned unchanged so callers can report them verbatim. There
// are no retries.
package calc
