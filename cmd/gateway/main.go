// Package main implements the calcgate API gateway, the public entry point
// that validates arithmetic requests and routes each one to the operation
// service that implements it.
//
// Architecture:
//
//	┌──────────────────────────────────────────┐
//	│                Gateway                   │
//	├──────────────────────────────────────────┤
//	│  HTTP API:                               │
//	│    /health         - Liveness            │
//	│    /api/calculate  - Dispatch            │
//	│    /api/services   - Backend probe       │
//	│    /metrics        - Prometheus          │
//	│    /               - Static frontend     │
//	├──────────────────────────────────────────┤
//	│  Components:                             │
//	│    Registry    - operation → base URL    │
//	│    Dispatcher  - validate, forward       │
//	│    Prober      - on-demand health checks │
//	└──────────────────────────────────────────┘
//
// Configuration (flag / environment):
//   - --addr / GATEWAY_ADDR: listen address (default ":3000")
//   - --registry-file / REGISTRY_FILE: YAML service map
//   - ADD_SERVICE_URL, SUBTRACT_SERVICE_URL, MULTIPLY_SERVICE_URL,
//     DIVIDE_SERVICE_URL: per-operation overrides
//   - --upstream-timeout / UPSTREAM_TIMEOUT: per-call timeout (default 5s)
//   - --frontend-dir / FRONTEND_DIR: static files (default "frontend")
//   - --log-level, --log-format, --log-file
//
// Example usage:
//
//	./gateway --addr :3000
//	curl -X POST localhost:3000/api/calculate \
//	  -d '{"operation":"add","a":2,"b":3}'
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dreamware/calcgate/internal/calc"
	"github.com/dreamware/calcgate/internal/config"
	"github.com/dreamware/calcgate/internal/gateway"
	"github.com/dreamware/calcgate/internal/logging"
	"github.com/dreamware/calcgate/internal/registry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gateway",
		Short:         "Route arithmetic requests to the operation services",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cfg := config.BindGateway(cmd.Flags())
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context(), cfg)
	}
	return cmd
}

func run(ctx context.Context, cfg *config.Gateway) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	reg, err := registry.Load(cfg.RegistryFile, nil)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}
	for _, e := range reg.Entries() {
		logger.Info("route", zap.String("operation", e.Operation), zap.String("url", e.URL))
	}

	gin.SetMode(gin.ReleaseMode)
	srv := gateway.NewServer(reg, calc.NewClient(cfg.UpstreamTimeout), logger, gateway.Options{
		FrontendDir:  cfg.FrontendDir,
		ProbeTimeout: cfg.ProbeTimeout,
	})
	httpSrv := srv.HTTPServer(cfg.Addr)

	go func() {
		logger.Info("gateway listening", zap.String("addr", cfg.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	wait := gfshutdown.GracefulShutdown(ctx, cfg.ShutdownTimeout, map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			return httpSrv.Shutdown(ctx)
		},
	})
	if code := <-wait; code != 0 {
		return fmt.Errorf("shutdown finished with exit code %d", code)
	}
	logger.Info("gateway stopped")
	return nil
}
