package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

// TestDefault checks the built-in routes and their endpoints.
func TestDefault(t *testing.T) {
	r := Default()

	assert.Equal(t, []string{"add", "divide", "multiply", "subtract"}, r.Operations())

	tests := []struct {
		op   string
		base string
	}{
		{"add", "http://localhost:3001"},
		{"subtract", "http://localhost:3002"},
		{"multiply", "http://localhost:3003"},
		{"divide", "http://localhost:3004"},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			base, ok := r.Resolve(tt.op)
			require.True(t, ok)
			assert.Equal(t, tt.base, base)

			compute, ok := r.ComputeURL(tt.op)
			require.True(t, ok)
			assert.Equal(t, tt.base+"/calculate", compute)

			health, ok := r.HealthURL(tt.op)
			require.True(t, ok)
			assert.Equal(t, tt.base+"/health", health)
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	r := Default()
	for _, op := range []string{"", "modulo", "Add", "power"} {
		_, ok := r.Resolve(op)
		assert.False(t, ok, op)
		_, ok = r.ComputeURL(op)
		assert.False(t, ok, op)
		_, ok = r.HealthURL(op)
		assert.False(t, ok, op)
	}
}

// TestNewValidation rejects configuration mistakes up front.
func TestNewValidation(t *testing.T) {
	tests := []struct {
		name     string
		services map[string]string
		wantErr  error
	}{
		{name: "unknown operation", services: map[string]string{"modulo": "http://x:1"}, wantErr: ErrUnknownOperation},
		{name: "relative url", services: map[string]string{"add": "localhost:3001"}},
		{name: "missing host", services: map[string]string{"add": "http://"}},
		{name: "unsupported scheme", services: map[string]string{"add": "ftp://host:21"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.services)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	r, err := New(map[string]string{"add": "http://adder:9000/"})
	require.NoError(t, err)

	u, ok := r.ComputeURL("add")
	require.True(t, ok)
	assert.Equal(t, "http://adder:9000/calculate", u)

	// operations left out are not routable
	_, ok = r.Resolve("divide")
	assert.False(t, ok)
}

// TestLoadPrecedence layers defaults, file and environment.
func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`services:
  add: http://add.internal:8001
  divide: http://divide.internal:8004
`), 0o600))

	env := map[string]string{"DIVIDE_SERVICE_URL": "http://divide.env:9004"}
	r, err := Load(path, func(k string) string { return env[k] })
	require.NoError(t, err)

	want := []Entry{
		{Operation: "add", URL: "http://add.internal:8001"},
		{Operation: "divide", URL: "http://divide.env:9004"},
		{Operation: "multiply", URL: "http://localhost:3003"},
		{Operation: "subtract", URL: "http://localhost:3002"},
	}
	assert.Equal(t, want, r.Entries())
}

func TestLoadWithoutFile(t *testing.T) {
	r, err := Load("", noEnv)
	require.NoError(t, err)
	assert.Equal(t, Default().Entries(), r.Entries())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), noEnv)
	assert.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("services: [not, a, map]\n"), 0o600))
	_, err = Load(bad, noEnv)
	assert.Error(t, err)

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("services:\n  modulo: http://m:1\n"), 0o600))
	_, err = Load(unknown, noEnv)
	assert.ErrorIs(t, err, ErrUnknownOperation)

	_, err = Load("", func(k string) string {
		if k == "ADD_SERVICE_URL" {
			return "not a url"
		}
		return ""
	})
	assert.Error(t, err)
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "ADD_SERVICE_URL", EnvVar("add"))
	assert.Equal(t, "MULTIPLY_SERVICE_URL", EnvVar("multiply"))
}
