package main

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRequiresOperation(t *testing.T) {
	t.Setenv("OPERATION", "")

	cmd := newRootCmd()
	cmd.SetArgs(nil)
	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--operation is required")
}

func TestRunRejectsUnknownOperation(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--operation", "modulo"})
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}

// TestRunFailsOnTakenPort reports a bind failure instead of serving.
func TestRunFailsOnTakenPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--operation", "add", "--addr", ln.Addr().String()})
	err = cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "add service: listen")
}
