package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dmehra2102/prod-golang-projects/odyssey/config"
	v1 "github.com/dmehra2102/prod-golang-projects/odyssey/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/middleware"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/metrics"
)

const (
	maxBodyBytes     = 4 << 20
	maxSignBodyBytes = 1 << 20
)

type Handlers struct {
	Health    *v1.HealthHandler
	Clients   *v1.ClientHandler
	Documents *v1.DocumentHandler
	PT        *v1.PTHandler
	Live      *v1.LiveHandler
	Help      *v1.HelpHandler
}

type Server struct {
	http *http.Server
	log  *zap.Logger
}

func New(cfg *config.Config, h Handlers, m *metrics.Collector, gatherer prometheus.Gatherer, log *zap.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              cfg.Server.Address(),
			Handler:           NewRouter(cfg, h, m, gatherer, log),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			IdleTimeout:       cfg.Server.IdleTimeout,
		},
		log: log,
	}
}

// NewRouter assembles the middleware chain and every route. It does not
// bind a port, so tests drive it through httptest.
func NewRouter(cfg *config.Config, h Handlers, m *metrics.Collector, gatherer prometheus.Gatherer, log *zap.Logger) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.Tracing(),
		middleware.Logger(log),
		middleware.Metrics(m),
		middleware.CORS(cfg.CORS),
	)

	h.Health.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(metrics.Handler(gatherer)))

	api := r.Group("/v1")
	api.Use(
		middleware.RateLimit(
			middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.BurstSize),
			"api", m,
		),
		middleware.BodyLimit(maxBodyBytes),
	)

	signRate := rate.Limit(float64(cfg.RateLimit.SignRequestsPerMinute) / 60)
	sign := api.Group("")
	sign.Use(
		middleware.RateLimit(
			middleware.NewIPRateLimiter(signRate, cfg.RateLimit.SignRequestsPerMinute),
			"sign", m,
		),
		middleware.BodyLimit(maxSignBodyBytes),
	)

	h.Clients.RegisterRoutes(api)
	h.Documents.RegisterRoutes(api, sign)
	h.PT.RegisterRoutes(api)
	h.Live.RegisterRoutes(api)
	h.Help.RegisterRoutes(api)

	return r
}

func (s *Server) Addr() string { return s.http.Addr }

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("http server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
