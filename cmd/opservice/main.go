// Package main implements a calcgate operation service: a small HTTP server
// that performs exactly one arithmetic operation.
//
// Each operation has a fixed port:
//
//	add      :3001
//	subtract :3002
//	multiply :3003
//	divide   :3004
//
// --operation all hosts the four services in one process, each on its own
// port, which is handy for local development.
//
// Example usage:
//
//	./opservice --operation divide
//	curl -X POST localhost:3004/calculate -d '{"a":10,"b":2}'
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dreamware/calcgate/internal/config"
	"github.com/dreamware/calcgate/internal/logging"
	"github.com/dreamware/calcgate/internal/opservice"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "opservice",
		Short:         "Serve one arithmetic operation, or all four",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cfg := config.BindOpService(cmd.Flags())
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context(), cfg)
	}
	return cmd
}

func run(ctx context.Context, cfg *config.OpService) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ops, err := cfg.Operations()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	gin.SetMode(gin.ReleaseMode)

	// bind every port before serving so a taken port fails start-up
	servers := make([]*http.Server, 0, len(ops))
	listeners := make([]net.Listener, 0, len(ops))
	for _, op := range ops {
		addr := cfg.ListenAddr(op, len(ops) == 1)
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			for _, l := range listeners {
				_ = l.Close()
			}
			return fmt.Errorf("%s service: listen %s: %w", op.Name(), addr, err)
		}
		listeners = append(listeners, ln)
		servers = append(servers, opservice.New(op, logger).HTTPServer(addr))
		logger.Info("operation service listening", zap.String("service", op.Name()), zap.String("addr", addr))
	}

	var g errgroup.Group
	for i, srv := range servers {
		srv := srv
		ln := listeners[i]
		g.Go(func() error {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	shutdown := make(map[string]gfshutdown.Operation, len(servers))
	for i, srv := range servers {
		srv := srv
		shutdown[ops[i].Name()] = func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		}
	}
	wait := gfshutdown.GracefulShutdown(ctx, cfg.ShutdownTimeout, shutdown)

	serveErr := make(chan error, 1)
	go func() { serveErr <- g.Wait() }()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case code := <-wait:
		if code != 0 {
			return fmt.Errorf("shutdown finished with exit code %d", code)
		}
	}
	logger.Info("operation services stopped")
	return nil
}
