package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"wschat-service/internal/config"
	"wschat-service/internal/messenger"
	"wschat-service/internal/ws"
)

// Server is the HTTP hosting layer around the messenger: it performs the
// websocket upgrade handshake, serves the static client and exposes a health
// probe. Everything protocol-related lives in the messenger.
type Server struct {
	engine    *gin.Engine
	cfg       *config.Config
	messenger *messenger.Messenger
	log       *slog.Logger
}

func New(cfg *config.Config, m *messenger.Messenger, log *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(LogApi())

	s := &Server{
		engine:    engine,
		cfg:       cfg,
		messenger: m,
		log:       log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.handleHealth)

	upgrader := ws.NewUpgrader(s.cfg.Server.AllowedOrigins)
	s.engine.GET("/socket", ws.Serve(s.messenger, upgrader, s.log))

	if s.cfg.Server.StaticDir != "" {
		s.engine.Static("/static", s.cfg.Server.StaticDir)
		s.engine.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "/static/index.html")
		})
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"clients": len(s.messenger.Nicknames()),
	})
}

// Engine exposes the router for the http.Server and for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
