// Package arith implements the four arithmetic operations served by the
// operation services behind one Operation capability.
package arith

import (
	"errors"
	"math"

	"golang.org/x/exp/slices"
)

var (
	// ErrDivideByZero is returned by Divide when the divisor is zero.
	ErrDivideByZero = errors.New("divide by zero")

	// ErrNonFiniteResult is returned when a result overflows to ±Inf and
	// can no longer be represented in JSON.
	ErrNonFiniteResult = errors.New("result is not finite")
)

// Operation names. They are also the gateway's routing keys.
const (
	OpAdd      = "add"
	OpSubtract = "subtract"
	OpMultiply = "multiply"
	OpDivide   = "divide"
)

// Operation is a pure binary arithmetic operation.
type Operation interface {
	Name() string
	Compute(a, b float64) (float64, error)
}

type binaryOp struct {
	name  string
	fn    func(a, b float64) float64
	guard func(a, b float64) error
}

func (o binaryOp) Name() string { return o.name }

func (o binaryOp) Compute(a, b float64) (float64, error) {
	if o.guard != nil {
		if err := o.guard(a, b); err != nil {
			return 0, err
		}
	}
	r := o.fn(a, b)
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return 0, ErrNonFiniteResult
	}
	return r, nil
}

var (
	Add      Operation = binaryOp{name: OpAdd, fn: func(a, b float64) float64 { return a + b }}
	Subtract Operation = binaryOp{name: OpSubtract, fn: func(a, b float64) float64 { return a - b }}
	Multiply Operation = binaryOp{name: OpMultiply, fn: func(a, b float64) float64 { return a * b }}
	Divide   Operation = binaryOp{
		name:  OpDivide,
		fn:    func(a, b float64) float64 { return a / b },
		guard: nonZeroDivisor,
	}
)

func nonZeroDivisor(_, b float64) error {
	if b == 0 {
		return ErrDivideByZero
	}
	return nil
}

var all = []Operation{Add, Subtract, Multiply, Divide}

// All returns the four operations in add, subtract, multiply, divide order.
func All() []Operation {
	return slices.Clone(all)
}

// Names returns the operation names in the same order as All.
func Names() []string {
	names := make([]string, 0, len(all))
	for _, op := range all {
		names = append(names, op.Name())
	}
	return names
}

// Lookup returns the operation called name.
func Lookup(name string) (Operation, bool) {
	i := slices.IndexFunc(all, func(op Operation) bool { return op.Name() == name })
	if i < 0 {
		return nil, false
	}
	return all[i], true
}

// DefaultPort is the fixed listen port of each operation service.
func DefaultPort(name string) (int, bool) {
	switch name {
	case OpAdd:
		return 3001, true
	case OpSubtract:
		return 3002, true
	case OpMultiply:
		return 3003, true
	case OpDivide:
		return 3004, true
	}
	return 0, false
}
