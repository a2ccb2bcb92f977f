package websocket

import (
	"errors"

	"github.com/beargallbladder/fairwaylive/internal/domain"
)

// ErrHubFull is returned when the client cap is reached.
var ErrHubFull = errors.New("websocket: max clients reached")

// settlementsPush is the payload of a bets:settled frame.
type settlementsPush struct {
	Group       string              `json:"group"`
	Settlements []domain.Settlement `json:"settlements"`
}

// predictionPush is the payload of a prediction frame.
type predictionPush struct {
	PlayerID string `json:"playerId"`
	Text     string `json:"text"`
}

// BroadcastOdds pushes a moved line to every client.
func (h *Hub) BroadcastOdds(quote domain.OddsQuote) {
	h.BroadcastPush(PushOddsUpdate, quote)
}

// BroadcastSettlements pushes a group's settlement outcomes.
func (h *Hub) BroadcastSettlements(group string, settlements []domain.Settlement) {
	h.BroadcastPush(PushSettlements, settlementsPush{Group: group, Settlements: settlements})
}

// BroadcastPrediction pushes a server-initiated prediction line.
func (h *Hub) BroadcastPrediction(playerID, text string) {
	h.BroadcastPush(PushPrediction, predictionPush{PlayerID: playerID, Text: text})
}
