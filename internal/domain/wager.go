package domain

import (
	"time"

	"github.com/google/uuid"
)

// WagerStatus is the wager state machine: Pending transitions to exactly one
// of Won, Lost, or Void and never transitions again.
type WagerStatus string

const (
	WagerPending WagerStatus = "pending"
	WagerWon     WagerStatus = "won"
	WagerLost    WagerStatus = "lost"
	WagerVoid    WagerStatus = "void"
)

// Terminal reports whether the status is a settled end state.
func (s WagerStatus) Terminal() bool {
	return s == WagerWon || s == WagerLost || s == WagerVoid
}

// Wager is a placed bet. LockedOdds freezes the quote at placement time so
// later odds drift never changes the payout.
type Wager struct {
	ID              uuid.UUID   `json:"id"`
	BettorID        string      `json:"bettorId"`
	BetID           string      `json:"betId"`
	Amount          float64     `json:"amount"`
	LockedOdds      float64     `json:"lockedOdds"`
	PotentialPayout float64     `json:"potentialPayout"`
	PlacedAt        time.Time   `json:"placedAt"`
	Status          WagerStatus `json:"status"`
}

// Settlement records the outcome of one wager during resolution.
type Settlement struct {
	WagerID  uuid.UUID   `json:"wagerId"`
	BettorID string      `json:"bettorId"`
	Status   WagerStatus `json:"status"`
	Payout   float64     `json:"payout"`
}
