package sentiment

import (
	"strings"
	"time"

	"github.com/beargallbladder/fairwaylive/internal/domain"
)

const (
	confidenceWeight = 0.2
	struggleWeight   = -0.3
)

// The two lexicons are disjoint. Matching is presence-based per keyword: a
// word appearing three times still contributes its weight once.
var (
	confidenceWords = []string{
		"crushed", "nailed", "money", "pured", "flushed",
		"dialed", "striped", "smoked", "stuffed", "perfect",
		"beauty", "gorgeous", "automatic",
	}
	struggleWords = []string{
		"shank", "chunk", "duff", "hosel", "yip",
		"ugly", "brutal", "terrible", "awful", "choked",
		"blew it", "water ball",
	}
)

// Result is the outcome of analyzing one transcript.
type Result struct {
	Sample   domain.SentimentSample
	Triggers []domain.Trigger
}

// Analyze lower-cases the transcript, scores it against the confidence and
// struggle lexicons, and extracts betting triggers. The score is clamped to
// [-1, 1]. Analyze has no side effects; appending the sample to the rolling
// mood window is the caller's job.
func Analyze(playerID, transcript string, now time.Time) Result {
	lower := strings.ToLower(transcript)

	score := 0.0
	for _, w := range confidenceWords {
		if strings.Contains(lower, w) {
			score += confidenceWeight
		}
	}
	for _, w := range struggleWords {
		if strings.Contains(lower, w) {
			score += struggleWeight
		}
	}

	return Result{
		Sample: domain.SentimentSample{
			PlayerID:  playerID,
			Value:     clamp(score, -1, 1),
			Timestamp: now,
		},
		Triggers: ExtractTriggers(lower),
	}
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
