// Package odds maintains quoted odds per bet: base table lookups, sentiment
// adjustments, hole-context modifiers, and market impact from wager volume.
package odds

import (
	"math"

	"github.com/beargallbladder/fairwaylive/internal/domain"
)

const (
	// MinOdds and MaxOdds bound every quoted and locked odds value.
	MinOdds = 1.1
	MaxOdds = 50.0

	// Head-to-head quotes are bounded more tightly: the matchup is close to
	// even by construction.
	headToHeadMin = 1.2
	headToHeadMax = 5.0

	marketImpactCap   = 0.2
	marketImpactScale = 500.0

	par3BirdieModifier = 0.8
	par5EagleModifier  = 0.6
)

type quoteState struct {
	def    domain.BetDefinition
	quote  domain.OddsQuote
	market float64 // accumulated market-impact multiplier, monotone toward the floor
}

// Engine owns all quotes for one session. It is not safe for concurrent use;
// the session actor is the only caller.
type Engine struct {
	quotes map[string]*quoteState
}

func NewEngine() *Engine {
	return &Engine{quotes: make(map[string]*quoteState)}
}

// RegisterBet creates the initial quote for a bet definition. The type must
// be a member of the base odds table.
func (e *Engine) RegisterBet(def domain.BetDefinition) (domain.OddsQuote, error) {
	base, ok := domain.BaseOdds[def.Type]
	if !ok {
		return domain.OddsQuote{}, domain.ErrUnknownBetType
	}

	state := &quoteState{
		def:    def,
		market: 1.0,
		quote: domain.OddsQuote{
			BetID:       def.ID,
			Type:        def.Type,
			BaseOdds:    base,
			CurrentOdds: clamp(base, MinOdds, MaxOdds),
			LastFactors: []domain.Factor{{Label: "base", Contribution: base}},
		},
	}
	e.quotes[def.ID] = state
	return state.quote, nil
}

// Quote returns a copy of the current quote for a bet.
func (e *Engine) Quote(betID string) (domain.OddsQuote, error) {
	state, ok := e.quotes[betID]
	if !ok {
		return domain.OddsQuote{}, domain.ErrBetNotFound
	}
	return copyQuote(state.quote), nil
}

// Definition returns the registered bet definition for a bet id.
func (e *Engine) Definition(betID string) (domain.BetDefinition, error) {
	state, ok := e.quotes[betID]
	if !ok {
		return domain.BetDefinition{}, domain.ErrBetNotFound
	}
	return state.def, nil
}

// BetIDs lists every registered bet id.
func (e *Engine) BetIDs() []string {
	ids := make([]string, 0, len(e.quotes))
	for id := range e.quotes {
		ids = append(ids, id)
	}
	return ids
}

// GroupBets lists the bet ids registered under a resolution group.
func (e *Engine) GroupBets(group string) []string {
	var ids []string
	for id, state := range e.quotes {
		if state.def.Group == group {
			ids = append(ids, id)
		}
	}
	return ids
}

// RequoteSelf recomputes a quote from the sentiment of the bet's own target.
// Confidence lowers the odds (the outcome is judged more likely), struggle
// raises them. Accumulated market impact survives the recompute.
func (e *Engine) RequoteSelf(betID string, sentiment float64, round domain.RoundState) (domain.OddsQuote, error) {
	state, ok := e.quotes[betID]
	if !ok {
		return domain.OddsQuote{}, domain.ErrBetNotFound
	}

	adjustment := 1 + math.Abs(sentiment)*0.5
	if sentiment >= 0 {
		adjustment = 1 - sentiment*0.3
	}

	context := contextModifier(state.def.Type, round)

	factors := []domain.Factor{
		{Label: "base", Contribution: state.quote.BaseOdds},
		{Label: "sentiment", Contribution: adjustment},
	}
	if context != 1.0 {
		factors = append(factors, domain.Factor{Label: "context", Contribution: context})
	}
	if state.market != 1.0 {
		factors = append(factors, domain.Factor{Label: "market", Contribution: state.market})
	}

	odds := clamp(state.quote.BaseOdds*adjustment*context, MinOdds, MaxOdds)
	odds = math.Max(MinOdds, odds*state.market)

	state.quote.CurrentOdds = odds
	state.quote.LastFactors = factors
	return copyQuote(state.quote), nil
}

// RequoteHeadToHead recomputes a matchup quote from the sentiment
// differential between the two players (positive favors the bet's player).
func (e *Engine) RequoteHeadToHead(betID string, differential float64) (domain.OddsQuote, error) {
	state, ok := e.quotes[betID]
	if !ok {
		return domain.OddsQuote{}, domain.ErrBetNotFound
	}

	var odds float64
	if differential > 0 {
		odds = clamp(2.0-differential, headToHeadMin, headToHeadMax)
	} else {
		odds = clamp(2.0+math.Abs(differential)*1.5, headToHeadMin, headToHeadMax)
	}

	factors := []domain.Factor{
		{Label: "base", Contribution: state.quote.BaseOdds},
		{Label: "sentiment", Contribution: differential},
	}
	if state.market != 1.0 {
		factors = append(factors, domain.Factor{Label: "market", Contribution: state.market})
		odds = math.Max(MinOdds, odds*state.market)
	}

	state.quote.CurrentOdds = odds
	state.quote.LastFactors = factors
	return copyQuote(state.quote), nil
}

// ApplyMarketImpact shortens the line after a wager lands on a bet. The move
// is monotone: odds only step toward the floor from action on the outcome.
func (e *Engine) ApplyMarketImpact(betID string, amount float64) (domain.OddsQuote, error) {
	state, ok := e.quotes[betID]
	if !ok {
		return domain.OddsQuote{}, domain.ErrBetNotFound
	}

	impact := math.Min(marketImpactCap, amount/marketImpactScale)
	state.market *= 1 - impact
	state.quote.CurrentOdds = math.Max(MinOdds, state.quote.CurrentOdds*(1-impact))
	state.quote.LastFactors = append(state.quote.LastFactors,
		domain.Factor{Label: "market", Contribution: 1 - impact})
	return copyQuote(state.quote), nil
}

func contextModifier(t domain.BetType, round domain.RoundState) float64 {
	switch {
	case round.Par == 3 && t == domain.BetBirdieOrBetter:
		return par3BirdieModifier
	case round.Par == 5 && t == domain.BetEagle:
		return par5EagleModifier
	default:
		return 1.0
	}
}

func copyQuote(q domain.OddsQuote) domain.OddsQuote {
	cp := q
	cp.LastFactors = make([]domain.Factor, len(q.LastFactors))
	copy(cp.LastFactors, q.LastFactors)
	return cp
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
