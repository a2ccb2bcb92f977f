package game

import (
	"encoding/json"
	"fmt"

	"github.com/beargallbladder/fairwaylive/internal/domain"
)

// Operation types understood by Dispatch. These are the wire operation names
// carried in request frames.
const (
	OpAnalyzeTranscription = "analyze_transcription"
	OpPlaceBet             = "place_bet"
	OpGetLiveBets          = "get_live_bets"
	OpResolveBet           = "resolve_bet"
	OpGetQuote             = "get_quote"
	OpGetBalance           = "get_balance"
)

type analyzeArgs struct {
	PlayerID string `json:"playerId"`
	Text     string `json:"text"`
}

type placeBetArgs struct {
	UserID string  `json:"userId"`
	BetID  string  `json:"betId"`
	Amount float64 `json:"amount"`
}

type liveBetsArgs struct {
	Round   domain.RoundState `json:"round"`
	Players []domain.Player   `json:"players"`
}

type resolveArgs struct {
	Group   string   `json:"group"`
	Winners []string `json:"winners"`
}

type quoteArgs struct {
	BetID string `json:"betId"`
}

type balanceArgs struct {
	UserID string `json:"userId"`
}

type placeBetResult struct {
	Wager   domain.Wager     `json:"bet"`
	NewOdds domain.OddsQuote `json:"newOdds"`
}

// Dispatch routes one wire operation to the session. It is the responder
// half of the duplex channel: the hub's read loop hands over request frames
// and writes whatever comes back under the same correlation id.
func (s *Session) Dispatch(op string, args json.RawMessage) (any, error) {
	switch op {
	case OpAnalyzeTranscription:
		var a analyzeArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, fmt.Errorf("bad %s args: %w", op, err)
		}
		return s.AnalyzeTranscription(a.PlayerID, a.Text)

	case OpPlaceBet:
		var a placeBetArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, fmt.Errorf("bad %s args: %w", op, err)
		}
		wager, quote, err := s.PlaceBet(a.UserID, a.BetID, a.Amount)
		if err != nil {
			return nil, err
		}
		return placeBetResult{Wager: wager, NewOdds: quote}, nil

	case OpGetLiveBets:
		var a liveBetsArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, fmt.Errorf("bad %s args: %w", op, err)
		}
		return s.GenerateLiveBets(a.Round, a.Players)

	case OpResolveBet:
		var a resolveArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, fmt.Errorf("bad %s args: %w", op, err)
		}
		return s.Resolve(a.Group, a.Winners), nil

	case OpGetQuote:
		var a quoteArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, fmt.Errorf("bad %s args: %w", op, err)
		}
		return s.Quote(a.BetID)

	case OpGetBalance:
		var a balanceArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, fmt.Errorf("bad %s args: %w", op, err)
		}
		return s.Balance(a.UserID), nil

	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}
}
