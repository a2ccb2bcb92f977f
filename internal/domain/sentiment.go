package domain

import "time"

// SentimentSample is one bounded sentiment reading extracted from a
// transcript. Value is always within [-1, 1].
type SentimentSample struct {
	PlayerID  string    `json:"playerId"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// TriggerKind classifies a betting trigger found in a transcript.
type TriggerKind string

const (
	TriggerLongDrive     TriggerKind = "long_drive"
	TriggerBirdieCall    TriggerKind = "birdie_call"
	TriggerEagleCall     TriggerKind = "eagle_call"
	TriggerParCall       TriggerKind = "par_call"
	TriggerConfidentPutt TriggerKind = "confident_putt"
)

// Trigger is a betting opportunity detected in a transcript. SuggestedBet is
// the bet type a generator would open from it; Distance is set only for
// long-drive triggers.
type Trigger struct {
	Kind         TriggerKind `json:"kind"`
	SuggestedBet BetType     `json:"suggestedBet"`
	Distance     int         `json:"distance,omitempty"`
}
