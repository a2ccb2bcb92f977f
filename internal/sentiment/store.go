package sentiment

import (
	"context"

	"github.com/beargallbladder/fairwaylive/internal/domain"
)

// historyCapacity bounds the shared rolling mood window. Oldest samples are
// evicted first.
const historyCapacity = 5

// MoodStore holds the session's sentiment state: the shared rolling window
// used for the "market mood" average, and the per-player latest values kept
// in a separate map. The window is deliberately global to the session, so one
// player's trash talk moves the whole market.
type MoodStore interface {
	Append(ctx context.Context, sample domain.SentimentSample) error
	Average(ctx context.Context) (float64, error)
	Latest(ctx context.Context, playerID string) (float64, bool, error)
	Reset(ctx context.Context) error
}
