package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beargallbladder/fairwaylive/internal/domain"
)

func TestDispatch_AnalyzeTranscription(t *testing.T) {
	f := newSessionFixture(t)

	result, err := f.session.Dispatch(OpAnalyzeTranscription,
		json.RawMessage(`{"playerId":"p1","text":"I crushed that drive, pure money"}`))
	require.NoError(t, err)

	analyze, ok := result.(AnalyzeResult)
	require.True(t, ok)
	assert.InDelta(t, 0.4, analyze.Sample.Value, 1e-9)
}

func TestDispatch_PlaceBetRoundTrip(t *testing.T) {
	f := newSessionFixture(t, puttDef("putt-1-p1", "p1"))

	result, err := f.session.Dispatch(OpPlaceBet,
		json.RawMessage(`{"userId":"u1","betId":"putt-1-p1","amount":100}`))
	require.NoError(t, err)

	placed, ok := result.(placeBetResult)
	require.True(t, ok)
	assert.InDelta(t, 2.0, placed.Wager.LockedOdds, 1e-9)
	assert.InDelta(t, 1.6, placed.NewOdds.CurrentOdds, 1e-9)
}

func TestDispatch_PlaceBetErrorPropagates(t *testing.T) {
	f := newSessionFixture(t)
	_, err := f.session.Dispatch(OpPlaceBet,
		json.RawMessage(`{"userId":"u1","betId":"missing","amount":100}`))
	assert.ErrorIs(t, err, domain.ErrBetNotFound)
}

func TestDispatch_GetLiveBets(t *testing.T) {
	f := newSessionFixture(t)

	args := json.RawMessage(`{
		"round": {"roundId":"r1","hole":7,"par":4},
		"players": [{"id":"p1","name":"Ava","onGreen":true}]
	}`)
	result, err := f.session.Dispatch(OpGetLiveBets, args)
	require.NoError(t, err)

	entries, ok := result.([]BoardEntry)
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, "putt-7-p1", entries[0].Definition.ID)
}

func TestDispatch_ResolveAndBalance(t *testing.T) {
	f := newSessionFixture(t, puttDef("putt-1-p1", "p1"))

	_, err := f.session.Dispatch(OpPlaceBet,
		json.RawMessage(`{"userId":"u1","betId":"putt-1-p1","amount":100}`))
	require.NoError(t, err)

	result, err := f.session.Dispatch(OpResolveBet,
		json.RawMessage(`{"group":"putt-1-p1","winners":["putt-1-p1"]}`))
	require.NoError(t, err)
	settlements, ok := result.([]domain.Settlement)
	require.True(t, ok)
	require.Len(t, settlements, 1)

	balance, err := f.session.Dispatch(OpGetBalance, json.RawMessage(`{"userId":"u1"}`))
	require.NoError(t, err)
	assert.InDelta(t, 1100.0, balance.(float64), 1e-9)
}

func TestDispatch_GetQuote(t *testing.T) {
	f := newSessionFixture(t, puttDef("putt-1-p1", "p1"))

	result, err := f.session.Dispatch(OpGetQuote, json.RawMessage(`{"betId":"putt-1-p1"}`))
	require.NoError(t, err)
	quote, ok := result.(domain.OddsQuote)
	require.True(t, ok)
	assert.InDelta(t, 2.0, quote.CurrentOdds, 1e-9)
}

func TestDispatch_BadArgs(t *testing.T) {
	f := newSessionFixture(t)
	_, err := f.session.Dispatch(OpPlaceBet, json.RawMessage(`{"amount":"not a number"}`))
	assert.Error(t, err)
}

func TestDispatch_UnknownOperation(t *testing.T) {
	f := newSessionFixture(t)
	_, err := f.session.Dispatch("launch_drone", json.RawMessage(`{}`))
	assert.ErrorContains(t, err, "unknown operation")
}
