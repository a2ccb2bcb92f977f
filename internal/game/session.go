// Package game hosts the session actor. One Session owns the rolling mood
// window, the odds engine, and the bet ledger for a round, and serializes
// every mutation on a single command loop. Collaborators never touch those
// structures directly, so none of them need locks.
package game

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/jonboulle/clockwork"

	"github.com/beargallbladder/fairwaylive/internal/domain"
	"github.com/beargallbladder/fairwaylive/internal/ledger"
	"github.com/beargallbladder/fairwaylive/internal/metrics"
	"github.com/beargallbladder/fairwaylive/internal/odds"
	"github.com/beargallbladder/fairwaylive/internal/sentiment"
)

// Broadcaster pushes quote and settlement updates to connected clients.
type Broadcaster interface {
	BroadcastOdds(quote domain.OddsQuote)
	BroadcastSettlements(group string, settlements []domain.Settlement)
}

// AnalyzeResult is what a transcript produces: the bounded sample, any
// betting triggers, the adjustment the sample applies to the player's own
// lines (negative shortens), and the session-wide mood average.
type AnalyzeResult struct {
	Sample     domain.SentimentSample `json:"sample"`
	Triggers   []domain.Trigger       `json:"triggers"`
	OddsImpact float64                `json:"oddsImpact"`
	MarketMood float64                `json:"marketMood"`
}

// --- Command types ---

type sessionCmd interface{ sessionCmd() }

type cmdAnalyze struct {
	playerID   string
	transcript string
	replyCh    chan analyzeReply
}

func (cmdAnalyze) sessionCmd() {}

type analyzeReply struct {
	result AnalyzeResult
	err    error
}

type cmdPlaceBet struct {
	bettorID string
	betID    string
	amount   float64
	replyCh  chan placeBetReply
}

func (cmdPlaceBet) sessionCmd() {}

type placeBetReply struct {
	wager domain.Wager
	quote domain.OddsQuote
	err   error
}

type cmdLiveBets struct {
	round   domain.RoundState
	players []domain.Player
	replyCh chan liveBetsReply
}

func (cmdLiveBets) sessionCmd() {}

type liveBetsReply struct {
	entries []BoardEntry
	err     error
}

type cmdBoard struct {
	replyCh chan liveBetsReply
}

func (cmdBoard) sessionCmd() {}

type cmdResolve struct {
	group   string
	winners []string
	replyCh chan []domain.Settlement
}

func (cmdResolve) sessionCmd() {}

type cmdQuote struct {
	betID   string
	replyCh chan quoteReply
}

func (cmdQuote) sessionCmd() {}

type quoteReply struct {
	quote domain.OddsQuote
	err   error
}

type cmdBalance struct {
	bettorID string
	replyCh  chan float64
}

func (cmdBalance) sessionCmd() {}

type cmdMood struct {
	replyCh chan float64
}

func (cmdMood) sessionCmd() {}

type cmdSetBroadcaster struct {
	b Broadcaster
}

func (cmdSetBroadcaster) sessionCmd() {}

type cmdStop struct {
	doneCh chan struct{}
}

func (cmdStop) sessionCmd() {}

// --- Session ---

type Session struct {
	cmdCh       chan sessionCmd
	mood        sentiment.MoodStore
	engine      *odds.Engine
	ledger      *ledger.Ledger
	clock       clockwork.Clock
	rng         *rand.Rand
	broadcaster Broadcaster
	round       domain.RoundState
	players     []domain.Player
}

func NewSession(mood sentiment.MoodStore, engine *odds.Engine, book *ledger.Ledger, clock clockwork.Clock, rng *rand.Rand) *Session {
	return &Session{
		cmdCh:  make(chan sessionCmd, 256),
		mood:   mood,
		engine: engine,
		ledger: book,
		clock:  clock,
		rng:    rng,
	}
}

// SetBroadcaster wires the push side. Used to resolve the circular dependency
// where the session needs the hub for broadcasting but the hub needs the
// session for dispatch. Must be called before Start().
func (s *Session) SetBroadcaster(b Broadcaster) {
	s.cmdCh <- cmdSetBroadcaster{b: b}
}

// Start launches the actor goroutine.
func (s *Session) Start() {
	go s.run()
}

func (s *Session) run() {
	ctx := context.Background()
	for cmd := range s.cmdCh {
		switch c := cmd.(type) {
		case cmdSetBroadcaster:
			s.broadcaster = c.b

		case cmdAnalyze:
			result, err := s.handleAnalyze(ctx, c.playerID, c.transcript)
			c.replyCh <- analyzeReply{result: result, err: err}

		case cmdPlaceBet:
			wager, quote, err := s.ledger.PlaceBet(c.bettorID, c.betID, c.amount)
			if err == nil {
				metrics.BetsPlaced.Inc()
				s.broadcastOdds(quote)
			} else {
				metrics.BetsRejected.Inc()
			}
			c.replyCh <- placeBetReply{wager: wager, quote: quote, err: err}

		case cmdLiveBets:
			entries, err := s.handleLiveBets(ctx, c.round, c.players)
			c.replyCh <- liveBetsReply{entries: entries, err: err}

		case cmdBoard:
			entries, err := s.handleLiveBets(ctx, s.round, s.players)
			c.replyCh <- liveBetsReply{entries: entries, err: err}

		case cmdResolve:
			settlements := s.ledger.Resolve(c.group, c.winners)
			metrics.WagersResolved.Add(float64(len(settlements)))
			if len(settlements) > 0 && s.broadcaster != nil {
				s.broadcaster.BroadcastSettlements(c.group, settlements)
			}
			c.replyCh <- settlements

		case cmdQuote:
			quote, err := s.engine.Quote(c.betID)
			c.replyCh <- quoteReply{quote: quote, err: err}

		case cmdBalance:
			c.replyCh <- s.ledger.Balance(c.bettorID)

		case cmdMood:
			avg, err := s.mood.Average(ctx)
			if err != nil {
				slog.Warn("mood average failed", "error", err)
			}
			c.replyCh <- avg

		case cmdStop:
			close(c.doneCh)
			return
		}
	}
}

func (s *Session) handleAnalyze(ctx context.Context, playerID, transcript string) (AnalyzeResult, error) {
	result := sentiment.Analyze(playerID, transcript, s.clock.Now())
	if err := s.mood.Append(ctx, result.Sample); err != nil {
		return AnalyzeResult{}, err
	}

	s.requotePlayer(ctx, playerID, result.Sample.Value)

	avg, err := s.mood.Average(ctx)
	if err != nil {
		return AnalyzeResult{}, err
	}

	return AnalyzeResult{
		Sample:     result.Sample,
		Triggers:   result.Triggers,
		OddsImpact: oddsImpact(result.Sample.Value),
		MarketMood: avg,
	}, nil
}

// requotePlayer refreshes every quote the player's sentiment feeds: their own
// lines via the self-referential adjustment, and any matchup involving them
// via the sentiment differential.
func (s *Session) requotePlayer(ctx context.Context, playerID string, value float64) {
	for _, betID := range s.engine.BetIDs() {
		def, err := s.engine.Definition(betID)
		if err != nil {
			continue
		}

		switch {
		case def.Type == domain.BetHeadToHead && (def.PlayerID == playerID || def.TargetID == playerID):
			left, _, err := s.mood.Latest(ctx, def.PlayerID)
			if err != nil {
				continue
			}
			right, _, err := s.mood.Latest(ctx, def.TargetID)
			if err != nil {
				continue
			}
			quote, err := s.engine.RequoteHeadToHead(betID, left-right)
			if err == nil {
				s.broadcastOdds(quote)
			}

		case def.Type != domain.BetHeadToHead && def.PlayerID == playerID:
			quote, err := s.engine.RequoteSelf(betID, value, s.round)
			if err == nil {
				s.broadcastOdds(quote)
			}
		}
	}
}

func (s *Session) broadcastOdds(quote domain.OddsQuote) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastOdds(quote)
	}
}

// oddsImpact is the multiplicative adjustment minus one: negative when
// confidence shortens the player's lines, positive when struggle lengthens
// them.
func oddsImpact(value float64) float64 {
	if value >= 0 {
		return -value * 0.3
	}
	return -value * 0.5
}

// --- Public API ---

func (s *Session) AnalyzeTranscription(playerID, transcript string) (AnalyzeResult, error) {
	replyCh := make(chan analyzeReply, 1)
	s.cmdCh <- cmdAnalyze{playerID: playerID, transcript: transcript, replyCh: replyCh}
	reply := <-replyCh
	return reply.result, reply.err
}

func (s *Session) PlaceBet(bettorID, betID string, amount float64) (domain.Wager, domain.OddsQuote, error) {
	replyCh := make(chan placeBetReply, 1)
	s.cmdCh <- cmdPlaceBet{bettorID: bettorID, betID: betID, amount: amount, replyCh: replyCh}
	reply := <-replyCh
	return reply.wager, reply.quote, reply.err
}

func (s *Session) GenerateLiveBets(round domain.RoundState, players []domain.Player) ([]BoardEntry, error) {
	replyCh := make(chan liveBetsReply, 1)
	s.cmdCh <- cmdLiveBets{round: round, players: players, replyCh: replyCh}
	reply := <-replyCh
	return reply.entries, reply.err
}

// Board regenerates the live bet board from the last submitted round state.
// Before any round state arrives the board is empty.
func (s *Session) Board() ([]BoardEntry, error) {
	replyCh := make(chan liveBetsReply, 1)
	s.cmdCh <- cmdBoard{replyCh: replyCh}
	reply := <-replyCh
	return reply.entries, reply.err
}

func (s *Session) Resolve(group string, winners []string) []domain.Settlement {
	replyCh := make(chan []domain.Settlement, 1)
	s.cmdCh <- cmdResolve{group: group, winners: winners, replyCh: replyCh}
	return <-replyCh
}

func (s *Session) Quote(betID string) (domain.OddsQuote, error) {
	replyCh := make(chan quoteReply, 1)
	s.cmdCh <- cmdQuote{betID: betID, replyCh: replyCh}
	reply := <-replyCh
	return reply.quote, reply.err
}

func (s *Session) Balance(bettorID string) float64 {
	replyCh := make(chan float64, 1)
	s.cmdCh <- cmdBalance{bettorID: bettorID, replyCh: replyCh}
	return <-replyCh
}

// MarketMood returns the rolling average over the shared sentiment window.
func (s *Session) MarketMood() float64 {
	replyCh := make(chan float64, 1)
	s.cmdCh <- cmdMood{replyCh: replyCh}
	return <-replyCh
}

func (s *Session) Stop() {
	doneCh := make(chan struct{})
	s.cmdCh <- cmdStop{doneCh: doneCh}
	<-doneCh
}
