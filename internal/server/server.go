package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"

	"github.com/beargallbladder/fairwaylive/internal/config"
	"github.com/beargallbladder/fairwaylive/internal/domain"
	"github.com/beargallbladder/fairwaylive/internal/game"
)

// roundSession is the game surface the HTTP handlers need.
type roundSession interface {
	AnalyzeTranscription(playerID, transcript string) (game.AnalyzeResult, error)
	PlaceBet(bettorID, betID string, amount float64) (domain.Wager, domain.OddsQuote, error)
	GenerateLiveBets(round domain.RoundState, players []domain.Player) ([]game.BoardEntry, error)
	Board() ([]game.BoardEntry, error)
	Resolve(group string, winners []string) []domain.Settlement
	Balance(bettorID string) float64
	MarketMood() float64
}

// connHandler owns an accepted websocket connection for its lifetime.
type connHandler interface {
	HandleConn(conn *gws.Conn) error
}

var upgrader = gws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // clients connect from course wifi and carrier NAT
	},
}

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	session   roundSession
	hub       connHandler
	limits    *ConnectionLimits
	redis     *goredis.Client // nil in single-instance mode
	startTime time.Time
}

func NewServer(cfg *config.Config, session roundSession, hub connHandler, redisClient *goredis.Client) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	srv := &Server{
		echo:      e,
		config:    cfg,
		session:   session,
		hub:       hub,
		limits:    NewConnectionLimits(int64(cfg.MaxClients), 4, 10.0, 10),
		redis:     redisClient,
		startTime: time.Now(),
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("starting server", "port", s.config.Port, "env", s.config.AppEnv)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
