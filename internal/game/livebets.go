package game

import (
	"context"
	"fmt"
	"math"

	"github.com/beargallbladder/fairwaylive/internal/domain"
	"github.com/beargallbladder/fairwaylive/internal/odds"
)

// BoardEntry is one live bet offered to bettors: the definition, the quote
// that placement would lock, and the jittered presentation-only odds.
type BoardEntry struct {
	Definition  domain.BetDefinition `json:"definition"`
	Quote       domain.OddsQuote     `json:"quote"`
	DisplayOdds float64              `json:"displayOdds"`
}

// handleLiveBets generates candidate wagers from the round state:
//   - a make-putt prop for every player on the green
//   - a long-drive contest on par-5 tee boxes
//   - head-to-head matchups between players within one stroke
//
// Already-registered bets keep their quotes (and accumulated market impact);
// generation is idempotent per hole.
func (s *Session) handleLiveBets(ctx context.Context, round domain.RoundState, players []domain.Player) ([]BoardEntry, error) {
	s.round = round
	s.players = players

	var entries []BoardEntry

	for _, p := range players {
		if !p.OnGreen {
			continue
		}
		def := domain.BetDefinition{
			ID:          fmt.Sprintf("putt-%d-%s", round.Hole, p.ID),
			Type:        domain.BetMakePutt,
			PlayerID:    p.ID,
			Group:       fmt.Sprintf("putt-%d-%s", round.Hole, p.ID),
			Description: fmt.Sprintf("%s makes the putt", p.Name),
		}
		entry, err := s.offerBet(ctx, def)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if round.OnTee && round.Par == 5 {
		group := fmt.Sprintf("drive-%d", round.Hole)
		for _, p := range players {
			def := domain.BetDefinition{
				ID:          fmt.Sprintf("drive-%d-%s", round.Hole, p.ID),
				Type:        domain.BetLongDrive,
				PlayerID:    p.ID,
				Group:       group,
				Description: fmt.Sprintf("%s hits the longest drive", p.Name),
			}
			entry, err := s.offerBet(ctx, def)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}
	}

	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			a, b := players[i], players[j]
			if math.Abs(float64(a.TotalStrokes-b.TotalStrokes)) > 1 {
				continue
			}
			id := fmt.Sprintf("h2h-%d-%s-%s", round.Hole, a.ID, b.ID)
			def := domain.BetDefinition{
				ID:          id,
				Type:        domain.BetHeadToHead,
				PlayerID:    a.ID,
				TargetID:    b.ID,
				Group:       id,
				Description: fmt.Sprintf("%s beats %s on hole %d", a.Name, b.Name, round.Hole),
			}
			entry, err := s.offerHeadToHead(ctx, def)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

func (s *Session) offerBet(ctx context.Context, def domain.BetDefinition) (BoardEntry, error) {
	quote, err := s.engine.Quote(def.ID)
	if err != nil {
		if _, err := s.engine.RegisterBet(def); err != nil {
			return BoardEntry{}, err
		}
		value, _, err := s.mood.Latest(ctx, def.PlayerID)
		if err != nil {
			return BoardEntry{}, err
		}
		quote, err = s.engine.RequoteSelf(def.ID, value, s.round)
		if err != nil {
			return BoardEntry{}, err
		}
	}

	return BoardEntry{
		Definition:  def,
		Quote:       quote,
		DisplayOdds: odds.Display(quote.CurrentOdds, s.rng),
	}, nil
}

func (s *Session) offerHeadToHead(ctx context.Context, def domain.BetDefinition) (BoardEntry, error) {
	quote, err := s.engine.Quote(def.ID)
	if err != nil {
		if _, err := s.engine.RegisterBet(def); err != nil {
			return BoardEntry{}, err
		}
		left, _, err := s.mood.Latest(ctx, def.PlayerID)
		if err != nil {
			return BoardEntry{}, err
		}
		right, _, err := s.mood.Latest(ctx, def.TargetID)
		if err != nil {
			return BoardEntry{}, err
		}
		quote, err = s.engine.RequoteHeadToHead(def.ID, left-right)
		if err != nil {
			return BoardEntry{}, err
		}
	}

	return BoardEntry{
		Definition:  def,
		Quote:       quote,
		DisplayOdds: odds.Display(quote.CurrentOdds, s.rng),
	}, nil
}
