package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/beargallbladder/fairwaylive/internal/domain"
	"github.com/beargallbladder/fairwaylive/internal/game"
)

type transcriptionRequest struct {
	PlayerID string `json:"playerId"`
	Text     string `json:"text"`
}

type placeBetRequest struct {
	UserID string  `json:"userId"`
	BetID  string  `json:"betId"`
	Amount float64 `json:"amount"`
}

type resolveRequest struct {
	Winners []string `json:"winners"`
}

type roundStateRequest struct {
	Round   domain.RoundState `json:"round"`
	Players []domain.Player   `json:"players"`
}

func (s *Server) handleTranscription(c echo.Context) error {
	var req transcriptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}
	if req.PlayerID == "" || req.Text == "" {
		return c.JSON(http.StatusBadRequest, errorBody("playerId and text are required"))
	}

	result, err := s.session.AnalyzeTranscription(req.PlayerID, req.Text)
	if err != nil {
		slog.Error("transcription analysis failed", "player_id", req.PlayerID, "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody("analysis failed"))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"sentiment":  result.Sample,
		"triggers":   result.Triggers,
		"oddsImpact": result.OddsImpact,
		"marketMood": result.MarketMood,
	})
}

func (s *Server) handlePlaceBet(c echo.Context) error {
	var req placeBetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}
	if req.UserID == "" || req.BetID == "" {
		return c.JSON(http.StatusBadRequest, errorBody("userId and betId are required"))
	}

	wager, newOdds, err := s.session.PlaceBet(req.UserID, req.BetID, req.Amount)
	if err != nil {
		return c.JSON(betErrorStatus(err), errorBody(err.Error()))
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"bet":     wager,
		"newOdds": newOdds,
	})
}

func (s *Server) handleLiveBets(c echo.Context) error {
	entries, err := s.session.Board()
	if err != nil {
		slog.Error("live bet board failed", "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody("board unavailable"))
	}
	if entries == nil {
		entries = []game.BoardEntry{}
	}
	return c.JSON(http.StatusOK, map[string]any{"bets": entries})
}

func (s *Server) handleRoundState(c echo.Context) error {
	var req roundStateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}
	if req.Round.RoundID == "" {
		return c.JSON(http.StatusBadRequest, errorBody("round.roundId is required"))
	}

	entries, err := s.session.GenerateLiveBets(req.Round, req.Players)
	if err != nil {
		slog.Error("live bet generation failed", "round_id", req.Round.RoundID, "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody("bet generation failed"))
	}
	return c.JSON(http.StatusOK, map[string]any{"bets": entries})
}

func (s *Server) handleResolveBet(c echo.Context) error {
	group := c.Param("id")
	var req resolveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}

	settlements := s.session.Resolve(group, req.Winners)
	return c.JSON(http.StatusOK, map[string]any{
		"group":       group,
		"settlements": settlements,
	})
}

func (s *Server) handleBalance(c echo.Context) error {
	userID := c.Param("userId")
	return c.JSON(http.StatusOK, map[string]any{
		"userId":  userID,
		"balance": s.session.Balance(userID),
	})
}

func errorBody(msg string) map[string]any {
	return map[string]any{"success": false, "error": msg}
}

// betErrorStatus maps typed placement errors onto HTTP statuses.
func betErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrBetNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrLimitExceeded):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
