package domain

// Player is the round-state view of one golfer that the live bet generator
// works from. Strokes is the running total for the current hole.
type Player struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Strokes       int     `json:"strokes"`
	TotalStrokes  int     `json:"totalStrokes"`
	OnGreen       bool    `json:"onGreen"`
	DistanceToPin float64 `json:"distanceToPin,omitempty"`
}

// RoundState is the per-hole context used for quote modifiers and live bet
// generation.
type RoundState struct {
	RoundID string `json:"roundId"`
	Hole    int    `json:"hole"`
	Par     int    `json:"par"`
	OnTee   bool   `json:"onTee"`
}
