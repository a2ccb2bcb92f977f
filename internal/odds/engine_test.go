package odds

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beargallbladder/fairwaylive/internal/domain"
)

func birdieBet() domain.BetDefinition {
	return domain.BetDefinition{
		ID:       "bet-1",
		Type:     domain.BetBirdieOrBetter,
		PlayerID: "p1",
		Group:    "bet-1",
	}
}

func par4() domain.RoundState {
	return domain.RoundState{Hole: 1, Par: 4}
}

func TestRegisterBet_UnknownType(t *testing.T) {
	engine := NewEngine()
	_, err := engine.RegisterBet(domain.BetDefinition{ID: "x", Type: "moon_shot"})
	assert.ErrorIs(t, err, domain.ErrUnknownBetType)
}

func TestRegisterBet_ClampsBaseAboveCeiling(t *testing.T) {
	engine := NewEngine()
	quote, err := engine.RegisterBet(domain.BetDefinition{ID: "ace", Type: domain.BetHoleInOne, PlayerID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, 500.0, quote.BaseOdds)
	assert.Equal(t, MaxOdds, quote.CurrentOdds)
}

func TestQuote_UnknownBet(t *testing.T) {
	engine := NewEngine()
	_, err := engine.Quote("missing")
	assert.ErrorIs(t, err, domain.ErrBetNotFound)
}

func TestRequoteSelf_PositiveSentimentShortensOdds(t *testing.T) {
	engine := NewEngine()
	_, err := engine.RegisterBet(birdieBet())
	require.NoError(t, err)

	quote, err := engine.RequoteSelf("bet-1", 0.4, par4())
	require.NoError(t, err)
	// 3.5 * (1 - 0.4*0.3) = 3.08
	assert.InDelta(t, 3.08, quote.CurrentOdds, 1e-9)
}

func TestRequoteSelf_NegativeSentimentLengthensOdds(t *testing.T) {
	engine := NewEngine()
	_, err := engine.RegisterBet(birdieBet())
	require.NoError(t, err)

	quote, err := engine.RequoteSelf("bet-1", -0.6, par4())
	require.NoError(t, err)
	// 3.5 * (1 + 0.6*0.5) = 4.55
	assert.InDelta(t, 4.55, quote.CurrentOdds, 1e-9)
}

func TestRequoteSelf_MonotoneInSentiment(t *testing.T) {
	engine := NewEngine()
	_, err := engine.RegisterBet(birdieBet())
	require.NoError(t, err)

	prev := MaxOdds + 1
	for s := -1.0; s <= 1.0; s += 0.05 {
		quote, err := engine.RequoteSelf("bet-1", s, par4())
		require.NoError(t, err)
		assert.LessOrEqual(t, quote.CurrentOdds, prev, "sentiment %.2f", s)
		prev = quote.CurrentOdds
	}
}

func TestRequoteSelf_StaysWithinBounds(t *testing.T) {
	engine := NewEngine()
	for betType := range domain.BaseOdds {
		def := domain.BetDefinition{ID: string(betType), Type: betType, PlayerID: "p1"}
		_, err := engine.RegisterBet(def)
		require.NoError(t, err)

		for _, s := range []float64{-1, -0.5, 0, 0.5, 1} {
			quote, err := engine.RequoteSelf(def.ID, s, par4())
			require.NoError(t, err)
			assert.GreaterOrEqual(t, quote.CurrentOdds, MinOdds)
			assert.LessOrEqual(t, quote.CurrentOdds, MaxOdds)
		}
	}
}

func TestRequoteSelf_Par3BirdieModifier(t *testing.T) {
	engine := NewEngine()
	_, err := engine.RegisterBet(birdieBet())
	require.NoError(t, err)

	quote, err := engine.RequoteSelf("bet-1", 0, domain.RoundState{Hole: 7, Par: 3})
	require.NoError(t, err)
	assert.InDelta(t, 3.5*0.8, quote.CurrentOdds, 1e-9)
}

func TestRequoteSelf_Par5EagleModifier(t *testing.T) {
	engine := NewEngine()
	_, err := engine.RegisterBet(domain.BetDefinition{ID: "e1", Type: domain.BetEagle, PlayerID: "p1"})
	require.NoError(t, err)

	quote, err := engine.RequoteSelf("e1", 0, domain.RoundState{Hole: 9, Par: 5})
	require.NoError(t, err)
	assert.InDelta(t, 15.0*0.6, quote.CurrentOdds, 1e-9)
}

func TestRequoteSelf_FactorTraceOrder(t *testing.T) {
	engine := NewEngine()
	_, err := engine.RegisterBet(birdieBet())
	require.NoError(t, err)
	_, err = engine.ApplyMarketImpact("bet-1", 100)
	require.NoError(t, err)

	quote, err := engine.RequoteSelf("bet-1", 0.4, domain.RoundState{Hole: 7, Par: 3})
	require.NoError(t, err)

	labels := make([]string, 0, len(quote.LastFactors))
	for _, f := range quote.LastFactors {
		labels = append(labels, f.Label)
	}
	assert.Equal(t, []string{"base", "sentiment", "context", "market"}, labels)
}

func TestRequoteHeadToHead_Bounds(t *testing.T) {
	engine := NewEngine()
	_, err := engine.RegisterBet(domain.BetDefinition{ID: "h1", Type: domain.BetHeadToHead, PlayerID: "p1", TargetID: "p2"})
	require.NoError(t, err)

	// big positive differential clamps to the tighter floor
	quote, err := engine.RequoteHeadToHead("h1", 1.5)
	require.NoError(t, err)
	assert.InDelta(t, 1.2, quote.CurrentOdds, 1e-9)

	// big negative differential clamps to the tighter ceiling
	quote, err = engine.RequoteHeadToHead("h1", -3.0)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, quote.CurrentOdds, 1e-9)

	quote, err = engine.RequoteHeadToHead("h1", 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, quote.CurrentOdds, 1e-9)

	quote, err = engine.RequoteHeadToHead("h1", -0.5)
	require.NoError(t, err)
	assert.InDelta(t, 2.75, quote.CurrentOdds, 1e-9)
}

func TestApplyMarketImpact(t *testing.T) {
	engine := NewEngine()
	_, err := engine.RegisterBet(birdieBet())
	require.NoError(t, err)
	_, err = engine.RequoteSelf("bet-1", 0.4, par4())
	require.NoError(t, err)

	// impact = min(0.2, 100/500) = 0.2 -> 3.08 * 0.8 = 2.464
	quote, err := engine.ApplyMarketImpact("bet-1", 100)
	require.NoError(t, err)
	assert.InDelta(t, 2.464, quote.CurrentOdds, 1e-9)
}

func TestApplyMarketImpact_CappedAndFloored(t *testing.T) {
	engine := NewEngine()
	_, err := engine.RegisterBet(domain.BetDefinition{ID: "p", Type: domain.BetParOrBetter, PlayerID: "p1"})
	require.NoError(t, err)

	// massive stake caps at 20% per wager
	quote, err := engine.ApplyMarketImpact("p", 10_000)
	require.NoError(t, err)
	assert.InDelta(t, 1.8*0.8, quote.CurrentOdds, 1e-9)

	// repeated action can only approach the floor, never cross it
	for i := 0; i < 50; i++ {
		quote, err = engine.ApplyMarketImpact("p", 10_000)
		require.NoError(t, err)
	}
	assert.InDelta(t, MinOdds, quote.CurrentOdds, 1e-9)
}

func TestApplyMarketImpact_SurvivesRequote(t *testing.T) {
	engine := NewEngine()
	_, err := engine.RegisterBet(birdieBet())
	require.NoError(t, err)
	_, err = engine.ApplyMarketImpact("bet-1", 100)
	require.NoError(t, err)

	quote, err := engine.RequoteSelf("bet-1", 0.4, par4())
	require.NoError(t, err)
	assert.InDelta(t, 3.08*0.8, quote.CurrentOdds, 1e-9)
}

func TestDisplay_JitterStaysWithinTenPercent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		v := Display(3.08, rng)
		assert.GreaterOrEqual(t, v, 3.08*0.9-0.01)
		assert.LessOrEqual(t, v, 3.08*1.1+0.01)
	}
}
