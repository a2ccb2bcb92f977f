package domain

// BetType is a fixed category of wager outcome. Every type has an entry in the
// base odds table; strings outside the set fail with ErrUnknownBetType.
type BetType string

const (
	BetMakePutt       BetType = "make_putt"
	BetThreePutt      BetType = "three_putt"
	BetParOrBetter    BetType = "par_or_better"
	BetBirdieOrBetter BetType = "birdie_or_better"
	BetEagle          BetType = "eagle"
	BetHoleInOne      BetType = "hole_in_one"
	BetLongDrive      BetType = "long_drive"
	BetBogeyOrWorse   BetType = "bogey_or_worse"
	BetHeadToHead     BetType = "head_to_head"
)

// BaseOdds is the static table of decimal odds per bet type. Quoted odds are
// derived from these and clamped, so an entry may exceed the quote ceiling.
var BaseOdds = map[BetType]float64{
	BetMakePutt:       2.0,
	BetThreePutt:      4.0,
	BetParOrBetter:    1.8,
	BetBirdieOrBetter: 3.5,
	BetEagle:          15.0,
	BetHoleInOne:      500.0,
	BetLongDrive:      2.8,
	BetBogeyOrWorse:   2.5,
	BetHeadToHead:     2.0,
}

// ParseBetType validates membership in the base odds table.
func ParseBetType(s string) (BetType, error) {
	t := BetType(s)
	if _, ok := BaseOdds[t]; !ok {
		return "", ErrUnknownBetType
	}
	return t, nil
}

// BetDefinition is a candidate wager produced by the round or live-bet
// generator. Immutable once created.
type BetDefinition struct {
	ID          string  `json:"id"`
	Type        BetType `json:"type"`
	PlayerID    string  `json:"playerId"`
	TargetID    string  `json:"targetId,omitempty"`
	Group       string  `json:"group"`
	Description string  `json:"description"`
}

// Factor is one named contribution in a quote's audit trace.
type Factor struct {
	Label        string  `json:"label"`
	Contribution float64 `json:"contribution"`
}

// OddsQuote is the currently computed odds for a bet, including the ordered
// factor trace explaining the value. Owned exclusively by the odds engine.
type OddsQuote struct {
	BetID       string   `json:"betId"`
	Type        BetType  `json:"type"`
	BaseOdds    float64  `json:"baseOdds"`
	CurrentOdds float64  `json:"currentOdds"`
	LastFactors []Factor `json:"lastFactors"`
}
