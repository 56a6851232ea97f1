package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"benri/internal/config"
	"benri/internal/logging"
	"benri/internal/reminder"
)

// Server hosts the reminder bot webhook endpoints.
type Server struct {
	cfg           config.ServerConfig
	channelSecret string
	messenger     Messenger
	registry      *reminder.Registry
	logger        logging.Logger
	metrics       *Metrics
	clock         func() time.Time

	engine     *gin.Engine
	httpServer *http.Server
}

// ServerOption customizes a Server.
type ServerOption func(*Server)

// WithClock injects the time source (used by tests).
func WithClock(clock func() time.Time) ServerOption {
	return func(s *Server) { s.clock = clock }
}

// WithMetrics shares an already registered Metrics set instead of
// registering a fresh one on the metrics registry.
func WithMetrics(m *Metrics) ServerOption {
	return func(s *Server) { s.metrics = m }
}

// NewServer assembles the gin engine and routes. The channel secret and the
// messenger are required; starting without them is a configuration error.
func NewServer(cfg config.ServerConfig, channelSecret string, messenger Messenger,
	registry *reminder.Registry, metricsReg *prometheus.Registry, logger logging.Logger,
	opts ...ServerOption) (*Server, error) {

	if channelSecret == "" {
		return nil, fmt.Errorf("webhook server requires the channel secret")
	}
	if messenger == nil {
		return nil, fmt.Errorf("webhook server requires a messenger")
	}
	if registry == nil {
		return nil, fmt.Errorf("webhook server requires a reminder registry")
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:           cfg,
		channelSecret: channelSecret,
		messenger:     messenger,
		registry:      registry,
		logger:        logging.OrNop(logger),
		clock:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		if metricsReg != nil {
			s.metrics = NewMetrics(metricsReg)
		} else {
			s.metrics = NewMetrics(nil)
		}
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	if cfg.EnableCORS {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Line-Signature"}
		engine.Use(cors.New(corsConfig))
	}

	engine.GET("/health", s.handleHealth)
	engine.POST("/callback", s.handleCallback)
	if metricsReg != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metricsReg, promhttp.HandlerOpts{})))
	}

	s.engine = engine
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s, nil
}

// Handler exposes the HTTP handler (used by tests).
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("reminder bot listening on %s", s.httpServer.Addr)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
