package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no rate limiting)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// REST surface, rate limited per client IP
	api := s.echo.Group("/api", s.rateLimitMiddleware)
	api.POST("/transcriptions", s.handleTranscription)
	api.POST("/bets", s.handlePlaceBet)
	api.GET("/bets/live", s.handleLiveBets)
	api.POST("/bets/:id/resolve", s.handleResolveBet)
	api.POST("/rounds/state", s.handleRoundState)
	api.GET("/balance/:userId", s.handleBalance)

	// Duplex channel (connection limits enforced inside the handler)
	s.echo.GET("/ws", s.handleWebSocket)
}
