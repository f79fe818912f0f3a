package gateway

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dreamware/calcgate/internal/calc"
	"github.com/dreamware/calcgate/internal/registry"
)

const (
	statusUnavailable   = "unavailable"
	defaultProbeTimeout = 2 * time.Second
)

// ServiceStatus is the liveness of one registered operation service.
type ServiceStatus struct {
	Operation string `json:"operation"`
	URL       string `json:"url"`
	Status    string `json:"status"`
	Detail    string `json:"detail,omitempty"`
}

// Getter issues one JSON GET.
type Getter interface {
	GetJSON(ctx context.Context, url string, out any) error
}

// Prober checks every registered service's /health on demand. It keeps no
// state between calls and its answers never affect dispatch.
type Prober struct {
	registry *registry.Registry
	client   Getter
	timeout  time.Duration
}

// NewProber returns a Prober whose individual checks give up after timeout.
func NewProber(reg *registry.Registry, client Getter, timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &Prober{registry: reg, client: client, timeout: timeout}
}

// Probe checks all services concurrently and returns their status in
// registry order.
func (p *Prober) Probe(ctx context.Context) []ServiceStatus {
	entries := p.registry.Entries()
	out := make([]ServiceStatus, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			out[i] = p.check(gctx, e)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (p *Prober) check(ctx context.Context, e registry.Entry) ServiceStatus {
	st := ServiceStatus{Operation: e.Operation, URL: e.URL, Status: statusUnavailable}

	url, _ := p.registry.HealthURL(e.Operation)
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var health calc.HealthResponse
	if err := p.client.GetJSON(ctx, url, &health); err != nil {
		st.Detail = err.Error()
		return st
	}
	if health.Status != calc.StatusOK {
		st.Detail = fmt.Sprintf("reported status %q", health.Status)
		return st
	}
	st.Status = calc.StatusOK
	return st
}
