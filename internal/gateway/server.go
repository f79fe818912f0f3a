package gateway

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/dreamware/calcgate/internal/calc"
	"github.com/dreamware/calcgate/internal/middleware"
	"github.com/dreamware/calcgate/internal/registry"
)

// ServiceName is the identity reported on the gateway's /health.
const ServiceName = "api-gateway"

// Transport is the outbound side of the gateway. *calc.Client implements it.
type Transport interface {
	Poster
	Getter
}

// Options tune the gateway server.
type Options struct {
	// FrontendDir holds index.html and static assets. Ignored when it does
	// not exist.
	FrontendDir string

	// ProbeTimeout bounds each backend health check made by /api/services.
	ProbeTimeout time.Duration
}

// Server is the public HTTP API of the gateway.
type Server struct {
	dispatcher *Dispatcher
	prober     *Prober
	logger     *zap.Logger
	metrics    *middleware.Metrics
	upstream   *prometheus.CounterVec
	engine     *gin.Engine
}

// NewServer wires the dispatcher, prober and routes. A nil logger disables
// logging.
func NewServer(reg *registry.Registry, transport Transport, logger *zap.Logger, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("service", ServiceName))
	metrics := middleware.NewMetrics(ServiceName)

	s := &Server{
		dispatcher: NewDispatcher(reg, transport),
		prober:     NewProber(reg, transport, opts.ProbeTimeout),
		logger:     logger,
		metrics:    metrics,
		upstream: promauto.With(metrics.Registry()).NewCounterVec(prometheus.CounterOpts{
			Namespace: "calc",
			Subsystem: "gateway",
			Name:      "upstream_failures_total",
			Help:      "Calls to operation services that ended in a 502.",
		}, []string{"operation"}),
	}

	e := gin.New()
	e.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.AccessLog(logger),
		middleware.CORS(),
		metrics.Middleware(),
	)
	e.GET("/health", s.handleHealth)
	e.POST("/api/calculate", s.handleCalculate)
	e.GET("/api/services", s.handleServices)
	e.GET("/metrics", gin.WrapH(metrics.Handler()))
	s.mountFrontend(e, opts.FrontendDir)

	s.engine = e
	return s
}

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
	c.JSON(http.StatusOK, calc.HealthResponse{Service: ServiceName, Status: calc.StatusOK})
}

func (s *Server) handleCalculate(c *gin.Context) {
	var req calc.CalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// an unreadable body names no operation
		_ = c.Error(err)
		req = calc.CalculationRequest{}
	}

	res, err := s.dispatcher.Calculate(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, req.Operation, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) writeError(c *gin.Context, op string, err error) {
	var upstream *UpstreamError
	switch {
	case errors.Is(err, ErrInvalidOperation):
		c.JSON(http.StatusBadRequest, calc.ErrorResponse{Error: calc.MsgInvalidOperation})
	case errors.Is(err, calc.ErrNotNumbers):
		c.JSON(http.StatusBadRequest, calc.ErrorResponse{Error: calc.MsgNotNumbers})
	case errors.As(err, &upstream):
		s.upstream.WithLabelValues(op).Inc()
		s.logger.Warn("operation service call failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("operation", upstream.Operation),
			zap.String("url", upstream.URL),
			zap.Error(upstream.Err),
		)
		c.JSON(http.StatusBadGateway, calc.ErrorResponse{
			Error:  calc.MsgServiceUnavailable,
			Detail: upstream.Detail(),
		})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, calc.ErrorResponse{Error: calc.MsgInternal})
	}
}

func (s *Server) handleServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"services": s.prober.Probe(c.Request.Context())})
}

// mountFrontend serves dir/index.html on / and any other file under dir
// for paths no API route claims.
func (s *Server) mountFrontend(e *gin.Engine, dir string) {
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, calc.ErrorResponse{Error: "Not found."})
	}
	if dir == "" || !isDir(dir) {
		if dir != "" {
			s.logger.Info("frontend directory not found, static files disabled", zap.String("dir", dir))
		}
		e.NoRoute(notFound)
		return
	}

	index := filepath.Join(dir, "index.html")
	e.GET("/", func(c *gin.Context) {
		c.File(index)
	})
	files := http.FileServer(http.Dir(dir))
	e.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			notFound(c)
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	})
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
