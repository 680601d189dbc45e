package server

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"rewind/pkg/agent"
	"rewind/pkg/config"
)

type Server struct {
	Echo  *echo.Echo
	Agent *agent.Agent
	Cfg   config.Config
	Ctx   context.Context
}

func NewServer(ctx context.Context, cfg config.Config, a *agent.Agent) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	s := &Server{
		Echo:  e,
		Agent: a,
		Cfg:   cfg,
		Ctx:   ctx,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)
	s.Echo.GET("/health", s.handleGetHealth)

	api := s.Echo.Group("/api")
	api.POST("/analyze", s.handlePostAnalyze)      // full pipeline, SSE progress
	api.POST("/quick-analysis", s.handlePostQuick) // scene analysis only
	api.GET("/payloads/:id", s.handleGetPayload)   // previously saved result
}

func (s *Server) Start(addr string) error {
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}
