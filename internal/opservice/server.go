// Package opservice serves one arithmetic operation over HTTP.
//
// Routes:
//
//	GET  /health     {"service": "<name>", "status": "ok"}
//	POST /calculate  {"a": n, "b": n} → {"result": n}
//	GET  /metrics    Prometheus exposition
//
// Operands that are not JSON numbers, a zero divisor and a result that
// overflows float64 are answered with 400 and a fixed message.
package opservice

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dreamware/calcgate/internal/arith"
	"github.com/dreamware/calcgate/internal/calc"
	"github.com/dreamware/calcgate/internal/middleware"
)

// Server is the HTTP front of a single arith.Operation.
type Server struct {
	op      arith.Operation
	logger  *zap.Logger
	metrics *middleware.Metrics
	engine  *gin.Engine
}

// New builds the routes for op. A nil logger disables logging.
func New(op arith.Operation, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		op:      op,
		logger:  logger.With(zap.String("service", op.Name())),
		metrics: middleware.NewMetrics(op.Name()),
	}

	e := gin.New()
	e.Use(
		middleware.Recovery(s.logger),
		middleware.RequestID(),
		middleware.AccessLog(s.logger),
		s.metrics.Middleware(),
	)
	e.GET("/health", s.handleHealth)
	e.POST("/calculate", s.handleCalculate)
	e.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	s.engine = e
	return s
}

// Name is the operation name, which is also the service identity.
func (s *Server) Name() string { return s.op.Name() }

// Handler exposes the routes for embedding or tests.
func (s *Server) Handler() http.Handler { return s.engine }

// HTTPServer wraps the routes in an http.Server listening on addr.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, calc.HealthResponse{Service: s.op.Name(), Status: calc.StatusOK})
}

func (s *Server) handleCalculate(c *gin.Context) {
	var body calc.Operands
	if err := c.ShouldBindJSON(&body); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, calc.ErrorResponse{Error: calc.MsgNotNumbers})
		return
	}
	a, b, err := body.Numbers()
	if err != nil {
		c.JSON(http.StatusBadRequest, calc.ErrorResponse{Error: calc.MsgNotNumbers})
		return
	}

	result, err := s.op.Compute(a, b)
	switch {
	case errors.Is(err, arith.ErrDivideByZero):
		c.JSON(http.StatusBadRequest, calc.ErrorResponse{Error: calc.MsgDivideByZero})
		return
	case errors.Is(err, arith.ErrNonFiniteResult):
		c.JSON(http.StatusBadRequest, calc.ErrorResponse{Error: calc.MsgNonFinite})
		return
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, calc.ErrorResponse{Error: calc.MsgInternal})
		return
	}

	s.logger.Debug("computed",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.Float64("a", a),
		zap.Float64("b", b),
		zap.Float64("result", result),
	)
	c.JSON(http.StatusOK, calc.ComputeResponse{Result: result})
}
