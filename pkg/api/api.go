package api

import (
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emonxxx11/filegate/pkg/apiresponses"
	"github.com/emonxxx11/filegate/pkg/config"
	"github.com/emonxxx11/filegate/pkg/metrics"
	"github.com/emonxxx11/filegate/pkg/version"
)

// APIController is implemented by route groups that register themselves
// on the server.
type APIController interface {
	BasePath() string
	Register(rg *gin.RouterGroup) error
	Handlers() []gin.HandlerFunc
}

type Server struct {
	gin     *gin.Engine
	config  config.Config
	started time.Time
}

func NewServer(log *zap.Logger, cfg config.Config, debug bool) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		RequestID(),
		ginzap.Ginzap(log, time.RFC3339, true),
		ginzap.RecoveryWithZap(log, true),
	)

	if len(cfg.Server.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
			log.Sugar().Fatalf("invalid trustedProxies configuration: %v", err)
		}
	}

	if len(cfg.Server.AllowedOrigins) > 0 {
		engine.Use(
			cors.New(cors.Config{
				AllowOrigins:     cfg.Server.AllowedOrigins,
				AllowMethods:     []string{"GET", "POST", "OPTIONS"},
				AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
				AllowCredentials: true,
				MaxAge:           12 * time.Hour,
			}),
		)
	}

	engine.NoRoute(apiresponses.RespondNotFound)

	s := &Server{
		gin:     engine,
		config:  cfg,
		started: time.Now(),
	}

	engine.GET("health", s.health)
	engine.GET("metrics", gin.WrapH(metrics.MetricsHandler()))

	return s
}

func (s *Server) RegisterAll(controllers []APIController) error {
	r := s.gin.Group("api")
	for _, c := range controllers {
		if err := c.Register(r.Group(c.BasePath(), c.Handlers()...)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) Listen() {
	if s.config.Server.TLSCertFile != "" && s.config.Server.TLSKeyFile != "" {
		_ = s.gin.RunTLS(s.config.Server.ListenAddress, s.config.Server.TLSCertFile, s.config.Server.TLSKeyFile)
		return
	}
	_ = s.gin.Run(s.config.Server.ListenAddress)
}

// Handler exposes the underlying engine for tests.
func (s *Server) Handler() *gin.Engine {
	return s.gin
}

type healthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
	Version   string  `json:"version"`
	Service   string  `json:"service"`
}

func (s *Server) health(c *gin.Context) {
	apiresponses.RespondOK(c, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(s.started).Seconds(),
		Version:   version.Version,
		Service:   "filegate",
	})
}
