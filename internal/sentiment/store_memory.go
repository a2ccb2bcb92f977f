package sentiment

import (
	"context"

	"github.com/beargallbladder/fairwaylive/internal/domain"
)

// InMemoryStore provides in-memory mood state for single-instance mode.
// All methods are called from the session actor goroutine (no concurrent
// access), so no locking is needed.
type InMemoryStore struct {
	window []domain.SentimentSample
	latest map[string]float64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		latest: make(map[string]float64),
	}
}

func (s *InMemoryStore) Append(_ context.Context, sample domain.SentimentSample) error {
	s.window = append(s.window, sample)
	if len(s.window) > historyCapacity {
		s.window = s.window[len(s.window)-historyCapacity:]
	}
	s.latest[sample.PlayerID] = sample.Value
	return nil
}

func (s *InMemoryStore) Average(_ context.Context) (float64, error) {
	if len(s.window) == 0 {
		return 0, nil
	}
	sum := 0.0
	for _, sample := range s.window {
		sum += sample.Value
	}
	return sum / float64(len(s.window)), nil
}

func (s *InMemoryStore) Latest(_ context.Context, playerID string) (float64, bool, error) {
	v, ok := s.latest[playerID]
	return v, ok, nil
}

func (s *InMemoryStore) Reset(_ context.Context) error {
	s.window = nil
	s.latest = make(map[string]float64)
	return nil
}

// Window returns a copy of the rolling window, oldest first.
func (s *InMemoryStore) Window() []domain.SentimentSample {
	cp := make([]domain.SentimentSample, len(s.window))
	copy(cp, s.window)
	return cp
}
