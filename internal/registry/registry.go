package registry

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/dreamware/calcgate/internal/arith"
)

// ErrUnknownOperation is returned when a mapping names an operation the
// system does not implement.
var ErrUnknownOperation = errors.New("unknown operation")

// Paths every operation service exposes.
const (
	ComputePath = "/calculate"
	HealthPath  = "/health"
)

// Entry is one row of the registry.
type Entry struct {
	Operation string `json:"operation"`
	URL       string `json:"url"`
}

// Registry maps an operation name to the base URL of the service that
// implements it.
//
// A Registry is built once at start-up and never mutated afterwards, so it
// is safe for concurrent reads without locking.
type Registry struct {
	services map[string]string
}

// New builds a Registry from operation → base URL pairs. Every key must be a
// known operation and every value an absolute http(s) URL. Trailing slashes
// are trimmed. Operations absent from services are not routable.
func New(services map[string]string) (*Registry, error) {
	r := &Registry{services: make(map[string]string, len(services))}
	for op, raw := range services {
		if _, ok := arith.Lookup(op); !ok {
			return nil, fmt.Errorf("registry entry %q: %w", op, ErrUnknownOperation)
		}
		base, err := normalizeURL(raw)
		if err != nil {
			return nil, fmt.Errorf("registry entry %q: %w", op, err)
		}
		r.services[op] = base
	}
	return r, nil
}

// Defaults returns the built-in mapping: every operation on localhost at
// its fixed service port.
func Defaults() map[string]string {
	services := make(map[string]string, 4)
	for _, name := range arith.Names() {
		port, _ := arith.DefaultPort(name)
		services[name] = fmt.Sprintf("http://localhost:%d", port)
	}
	return services
}

// Default returns a Registry holding Defaults.
func Default() *Registry {
	r, err := New(Defaults())
	if err != nil {
		panic(err) // defaults are static
	}
	return r
}

// EnvVar is the environment variable that overrides the URL of op,
// e.g. ADD_SERVICE_URL.
func EnvVar(op string) string {
	return strings.ToUpper(op) + "_SERVICE_URL"
}

type fileConfig struct {
	Services map[string]string `yaml:"services"`
}

// Load builds the start-up registry: Defaults, then the YAML file at path
// (skipped when path is empty), then per-operation environment overrides
// read through getenv (os.Getenv when nil).
//
// File format:
//
//	services:
//	  add: http://add:3001
//	  divide: http://divide:3004
func Load(path string, getenv func(string) string) (*Registry, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	services := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read registry file: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse registry file %s: %w", path, err)
		}
		for op, u := range fc.Services {
			services[op] = u
		}
	}

	for _, op := range arith.Names() {
		if v := getenv(EnvVar(op)); v != "" {
			services[op] = v
		}
	}
	return New(services)
}

// Resolve returns the base URL of the service for op.
func (r *Registry) Resolve(op string) (string, bool) {
	base, ok := r.services[op]
	return base, ok
}

// ComputeURL returns the compute endpoint for op.
func (r *Registry) ComputeURL(op string) (string, bool) {
	base, ok := r.services[op]
	if !ok {
		return "", false
	}
	return base + ComputePath, true
}

// HealthURL returns the liveness endpoint for op.
func (r *Registry) HealthURL(op string) (string, bool) {
	base, ok := r.services[op]
	if !ok {
		return "", false
	}
	return base + HealthPath, true
}

// Operations returns the routable operation names in sorted order.
func (r *Registry) Operations() []string {
	ops := make([]string, 0, len(r.services))
	for op := range r.services {
		ops = append(ops, op)
	}
	slices.Sort(ops)
	return ops
}

// Entries returns a copy of the registry ordered by operation name.
func (r *Registry) Entries() []Entry {
	ops := r.Operations()
	out := make([]Entry, 0, len(ops))
	for _, op := range ops {
		out = append(out, Entry{Operation: op, URL: r.services[op]})
	}
	return out
}

func normalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid url %q: missing host", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}
