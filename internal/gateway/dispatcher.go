package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/dreamware/calcgate/internal/calc"
	"github.com/dreamware/calcgate/internal/registry"
)

// ErrInvalidOperation is returned when the requested operation has no entry
// in the registry.
var ErrInvalidOperation = errors.New("invalid operation")

// UpstreamError reports that the operation service could not produce a
// result: it was unreachable, timed out, answered non-2xx or sent a body
// without a result.
type UpstreamError struct {
	Operation string
	URL       string
	Err       error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s service at %s: %v", e.Operation, e.URL, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Detail is the underlying failure message relayed to clients.
func (e *UpstreamError) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// Poster sends one JSON request and decodes the JSON answer.
type Poster interface {
	PostJSON(ctx context.Context, url string, body any, out any) error
}

// computeReply tells a missing result apart from a zero one.
type computeReply struct {
	Result *float64 `json:"result"`
}

// Dispatcher validates a calculation request, resolves its backend through
// the registry and forwards the operands in a single round trip.
type Dispatcher struct {
	registry *registry.Registry
	client   Poster
}

// NewDispatcher returns a Dispatcher routing through reg with client.
func NewDispatcher(reg *registry.Registry, client Poster) *Dispatcher {
	return &Dispatcher{registry: reg, client: client}
}

// Calculate runs one request. Errors are ErrInvalidOperation and
// calc.ErrNotNumbers for client input, checked in that order before any
// network call, or *UpstreamError when the backend fails.
func (d *Dispatcher) Calculate(ctx context.Context, req calc.CalculationRequest) (calc.CalculationResult, error) {
	target, ok := d.registry.ComputeURL(req.Operation)
	if !ok {
		return calc.CalculationResult{}, ErrInvalidOperation
	}
	a, b, err := calc.Numbers(req.A, req.B)
	if err != nil {
		return calc.CalculationResult{}, err
	}

	var resp computeReply
	if err := d.client.PostJSON(ctx, target, calc.ComputeRequest{A: a, B: b}, &resp); err != nil {
		return calc.CalculationResult{}, &UpstreamError{Operation: req.Operation, URL: target, Err: err}
	}
	if resp.Result == nil {
		return calc.CalculationResult{}, &UpstreamError{
			Operation: req.Operation,
			URL:       target,
			Err:       errors.New("response has no result"),
		}
	}

	return calc.CalculationResult{
		Operation: req.Operation,
		A:         a,
		B:         b,
		Result:    *resp.Result,
	}, nil
}
