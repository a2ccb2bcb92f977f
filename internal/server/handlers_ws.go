package server

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleWebSocket(c echo.Context) error {
	ip := c.RealIP()
	ok, reason := s.limits.Acquire(ip)
	if !ok {
		slog.Warn("websocket connection rejected", "ip", ip, "reason", reason)
		return c.JSON(http.StatusTooManyRequests, errorBody(string(reason)))
	}
	defer s.limits.Release(ip)

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return nil // upgrader already wrote the HTTP error
	}

	return s.hub.HandleConn(conn)
}
