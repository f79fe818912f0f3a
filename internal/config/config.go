// Package config holds the process configuration of the gateway and the
// operation services. Every flag defaults to an environment variable so the
// binaries run unchanged under a process manager or a container runtime.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/dreamware/calcgate/internal/arith"
	"github.com/dreamware/calcgate/internal/calc"
	"github.com/dreamware/calcgate/internal/logging"
)

// OperationAll makes the operation service binary host every operation.
const OperationAll = "all"

// Gateway configures cmd/gateway.
type Gateway struct {
	Addr            string
	FrontendDir     string
	RegistryFile    string
	UpstreamTimeout time.Duration
	ProbeTimeout    time.Duration
	ShutdownTimeout time.Duration
	Log             logging.Config
}

// OpService configures cmd/opservice.
type OpService struct {
	Operation       string
	Addr            string
	ShutdownTimeout time.Duration
	Log             logging.Config
}

// Getenv returns the environment value of k, or def when unset or empty.
func Getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// GetenvDuration parses k as a time.Duration, falling back to def when unset
// or unparsable.
func GetenvDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// BindGateway registers the gateway flags on fs and returns the target.
func BindGateway(fs *pflag.FlagSet) *Gateway {
	c := &Gateway{}
	fs.StringVar(&c.Addr, "addr", Getenv("GATEWAY_ADDR", ":3000"), "listen address (GATEWAY_ADDR)")
	fs.StringVar(&c.FrontendDir, "frontend-dir", Getenv("FRONTEND_DIR", "frontend"), "static frontend directory (FRONTEND_DIR)")
	fs.StringVar(&c.RegistryFile, "registry-file", Getenv("REGISTRY_FILE", ""), "YAML file overriding service URLs (REGISTRY_FILE)")
	fs.DurationVar(&c.UpstreamTimeout, "upstream-timeout", GetenvDuration("UPSTREAM_TIMEOUT", calc.DefaultTimeout), "timeout of one call to an operation service (UPSTREAM_TIMEOUT)")
	fs.DurationVar(&c.ProbeTimeout, "probe-timeout", GetenvDuration("PROBE_TIMEOUT", 2*time.Second), "timeout of one backend health check (PROBE_TIMEOUT)")
	fs.DurationVar(&c.ShutdownTimeout, "shutdown-timeout", GetenvDuration("SHUTDOWN_TIMEOUT", 10*time.Second), "graceful shutdown budget (SHUTDOWN_TIMEOUT)")
	bindLog(fs, &c.Log)
	return c
}

// BindOpService registers the operation service flags on fs.
func BindOpService(fs *pflag.FlagSet) *OpService {
	c := &OpService{}
	fs.StringVar(&c.Operation, "operation", Getenv("OPERATION", ""), "add, subtract, multiply, divide or all (OPERATION)")
	fs.StringVar(&c.Addr, "addr", Getenv("OPSERVICE_ADDR", ""), "listen address, defaults to the operation's fixed port (OPSERVICE_ADDR)")
	fs.DurationVar(&c.ShutdownTimeout, "shutdown-timeout", GetenvDuration("SHUTDOWN_TIMEOUT", 10*time.Second), "graceful shutdown budget (SHUTDOWN_TIMEOUT)")
	bindLog(fs, &c.Log)
	return c
}

func bindLog(fs *pflag.FlagSet, l *logging.Config) {
	def := logging.DefaultConfig()
	*l = def
	fs.StringVar(&l.Level, "log-level", Getenv("LOG_LEVEL", def.Level), "debug, info, warn or error (LOG_LEVEL)")
	fs.StringVar(&l.Format, "log-format", Getenv("LOG_FORMAT", def.Format), "json or console (LOG_FORMAT)")
	fs.StringVar(&l.File, "log-file", Getenv("LOG_FILE", ""), "also write rotated logs to this file (LOG_FILE)")
}

// Operations resolves the --operation value to the operations to serve.
func (c *OpService) Operations() ([]arith.Operation, error) {
	name := strings.ToLower(strings.TrimSpace(c.Operation))
	switch name {
	case "":
		return nil, fmt.Errorf("--operation is required: one of %s or %s", strings.Join(arith.Names(), ", "), OperationAll)
	case OperationAll:
		return arith.All(), nil
	}
	op, ok := arith.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown operation %q", c.Operation)
	}
	return []arith.Operation{op}, nil
}

// ListenAddr returns the address op listens on: the --addr override when
// serving a single operation, otherwise the operation's fixed port.
func (c *OpService) ListenAddr(op arith.Operation, single bool) string {
	if single && c.Addr != "" {
		return c.Addr
	}
	port, _ := arith.DefaultPort(op.Name())
	return fmt.Sprintf(":%d", port)
}
