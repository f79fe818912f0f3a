package calc

import (
	"encoding/json"
	"errors"
	"math"
)

// Fixed client-facing messages shared by the gateway and the operation services.
const (
	MsgInvalidOperation   = "Invalid operation. Use add, subtract, multiply, or divide."
	MsgNotNumbers         = "Fields 'a' and 'b' must be numbers."
	MsgDivideByZero       = "Cannot divide by zero."
	MsgNonFinite          = "Result is not a finite number."
	MsgServiceUnavailable = "Operation service unavailable."
	MsgInternal           = "Internal server error."
)

// StatusOK is the status every healthy service reports on /health.
const StatusOK = "ok"

// ErrNotNumbers is returned when an operand is missing or is not a JSON number.
var ErrNotNumbers = errors.New("operands must be numbers")

// CalculationRequest is the body a client posts to the gateway. Operands are
// decoded loosely so that a string or null can be reported as a client error
// instead of failing the whole decode.
type CalculationRequest struct {
	Operation string `json:"operation"`
	A         any    `json:"a"`
	B         any    `json:"b"`
}

// CalculationResult is the gateway's success body.
type CalculationResult struct {
	Operation string  `json:"operation"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
	Result    float64 `json:"result"`
}

// Operands is the body an operation service accepts on /calculate.
type Operands struct {
	A any `json:"a"`
	B any `json:"b"`
}

// ComputeRequest is what the gateway forwards once operands are validated.
type ComputeRequest struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// ComputeResponse is an operation service's success body.
type ComputeResponse struct {
	Result float64 `json:"result"`
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

type HealthResponse struct {
	Service string `json:"service"`
	Status  string `json:"status"`
}

// Numbers returns both operands as float64, or ErrNotNumbers when either is
// not a finite JSON number.
func (o Operands) Numbers() (float64, float64, error) {
	return Numbers(o.A, o.B)
}

// Numbers validates a pair of loosely decoded operands.
func Numbers(a, b any) (float64, float64, error) {
	x, ok := number(a)
	if !ok {
		return 0, 0, ErrNotNumbers
	}
	y, ok := number(b)
	if !ok {
		return 0, 0, ErrNotNumbers
	}
	return x, y, nil
}

func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
