package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/calcgate/internal/calc"
	"github.com/dreamware/calcgate/internal/registry"
)

// TestProbe mixes a healthy, a degraded, a failing and a dead service.
func TestProbe(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(calc.HealthResponse{Service: "add", Status: "ok"})
	}))
	defer healthy.Close()

	degraded := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(calc.HealthResponse{Service: "divide", Status: "starting"})
	}))
	defer degraded.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	reg, err := registry.New(map[string]string{
		"add":      healthy.URL,
		"divide":   degraded.URL,
		"multiply": failing.URL,
		"subtract": deadURL,
	})
	require.NoError(t, err)

	got := NewProber(reg, calc.NewClient(time.Second), time.Second).Probe(context.Background())
	require.Len(t, got, 4)

	assert.Equal(t, ServiceStatus{Operation: "add", URL: healthy.URL, Status: "ok"}, got[0])

	assert.Equal(t, "divide", got[1].Operation)
	assert.Equal(t, "unavailable", got[1].Status)
	assert.Contains(t, got[1].Detail, `"starting"`)

	assert.Equal(t, "multiply", got[2].Operation)
	assert.Equal(t, "unavailable", got[2].Status)
	assert.Contains(t, got[2].Detail, "503")

	assert.Equal(t, "subtract", got[3].Operation)
	assert.Equal(t, "unavailable", got[3].Status)
	assert.NotEmpty(t, got[3].Detail)
}

func TestProbeTimeout(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	defer close(release)

	reg, err := registry.New(map[string]string{"add": slow.URL})
	require.NoError(t, err)

	start := time.Now()
	got := NewProber(reg, calc.NewClient(time.Minute), 50*time.Millisecond).Probe(context.Background())
	require.Len(t, got, 1)
	assert.Equal(t, "unavailable", got[0].Status)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestNewProberDefaultTimeout(t *testing.T) {
	p := NewProber(registry.Default(), calc.NewClient(0), 0)
	assert.Equal(t, 2*time.Second, p.timeout)
}
