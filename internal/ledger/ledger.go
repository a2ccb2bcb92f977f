// Package ledger owns bet lifecycle: placement, payout computation,
// resolution, and in-memory balance accounting.
package ledger

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/beargallbladder/fairwaylive/internal/domain"
)

// Book is the odds engine subset the ledger needs.
type Book interface {
	Quote(betID string) (domain.OddsQuote, error)
	ApplyMarketImpact(betID string, amount float64) (domain.OddsQuote, error)
	GroupBets(group string) []string
}

// Ledger tracks wagers and bettor balances for one session. Like the odds
// engine it is owned by the session actor and never accessed concurrently.
type Ledger struct {
	book            Book
	clock           clockwork.Clock
	maxBet          float64
	startingBalance float64

	wagers   map[uuid.UUID]*domain.Wager
	byBet    map[string][]uuid.UUID
	balances map[string]float64
}

func New(book Book, clock clockwork.Clock, maxBet, startingBalance float64) *Ledger {
	return &Ledger{
		book:            book,
		clock:           clock,
		maxBet:          maxBet,
		startingBalance: startingBalance,
		wagers:          make(map[uuid.UUID]*domain.Wager),
		byBet:           make(map[string][]uuid.UUID),
		balances:        make(map[string]float64),
	}
}

// Balance returns a bettor's current balance, opening the account with the
// starting balance on first touch.
func (l *Ledger) Balance(bettorID string) float64 {
	if _, ok := l.balances[bettorID]; !ok {
		l.balances[bettorID] = l.startingBalance
	}
	return l.balances[bettorID]
}

// PlaceBet validates and records a wager against the current quote. The
// quote is frozen into LockedOdds so later drift never changes the payout.
// Placement fires the market-impact update on the odds engine; the returned
// quote is the post-impact line.
func (l *Ledger) PlaceBet(bettorID, betID string, amount float64) (domain.Wager, domain.OddsQuote, error) {
	if amount <= 0 {
		return domain.Wager{}, domain.OddsQuote{}, domain.ErrInvalidAmount
	}

	quote, err := l.book.Quote(betID)
	if err != nil {
		return domain.Wager{}, domain.OddsQuote{}, err
	}

	if amount > l.maxBet {
		return domain.Wager{}, domain.OddsQuote{}, domain.ErrLimitExceeded
	}
	if amount > l.Balance(bettorID) {
		// the debit does not apply at all; balances never go negative
		return domain.Wager{}, domain.OddsQuote{}, domain.ErrLimitExceeded
	}

	wager := domain.Wager{
		ID:              uuid.New(),
		BettorID:        bettorID,
		BetID:           betID,
		Amount:          amount,
		LockedOdds:      quote.CurrentOdds,
		PotentialPayout: amount * quote.CurrentOdds,
		PlacedAt:        l.clock.Now(),
		Status:          domain.WagerPending,
	}

	l.balances[bettorID] -= amount
	l.wagers[wager.ID] = &wager
	l.byBet[betID] = append(l.byBet[betID], wager.ID)

	newQuote, err := l.book.ApplyMarketImpact(betID, amount)
	if err != nil {
		// quote was just read, so this should not happen; keep the wager
		slog.Warn("market impact update failed", "bet_id", betID, "error", err)
		newQuote = quote
	}

	return wager, newQuote, nil
}

// Wager returns a copy of a stored wager.
func (l *Ledger) Wager(id uuid.UUID) (domain.Wager, bool) {
	w, ok := l.wagers[id]
	if !ok {
		return domain.Wager{}, false
	}
	return *w, true
}

// WagersForBet returns copies of all wagers placed on a bet.
func (l *Ledger) WagersForBet(betID string) []domain.Wager {
	ids := l.byBet[betID]
	out := make([]domain.Wager, 0, len(ids))
	for _, id := range ids {
		out = append(out, *l.wagers[id])
	}
	return out
}

// Resolve settles every pending wager in a bet group. Wagers on a winning
// bet transition to Won; the rest to Lost. A single winning outcome pays
// amount times locked odds; a tie among several winning outcomes returns
// each winning stake with no multiplier. Already-terminal wagers are left
// untouched, which makes Resolve idempotent.
func (l *Ledger) Resolve(group string, winners []string) []domain.Settlement {
	betIDs := l.book.GroupBets(group)
	if len(betIDs) == 0 {
		slog.Warn("resolve for unknown bet group ignored", "group", group)
		return nil
	}

	winnerSet := make(map[string]bool, len(winners))
	for _, id := range winners {
		winnerSet[id] = true
	}
	tie := len(winners) > 1

	// settle from a snapshot: resolution mutates status flags that the
	// iteration must not observe mid-update
	var pending []uuid.UUID
	for _, betID := range betIDs {
		for _, wagerID := range l.byBet[betID] {
			if l.wagers[wagerID].Status == domain.WagerPending {
				pending = append(pending, wagerID)
			}
		}
	}

	settlements := make([]domain.Settlement, 0, len(pending))
	for _, wagerID := range pending {
		w := l.wagers[wagerID]
		if w.Status.Terminal() {
			continue
		}

		if winnerSet[w.BetID] {
			payout := w.Amount * w.LockedOdds
			if tie {
				payout = w.Amount // stake returned, no multiplier
			}
			w.Status = domain.WagerWon
			l.balances[w.BettorID] = l.Balance(w.BettorID) + payout
			settlements = append(settlements, domain.Settlement{
				WagerID: w.ID, BettorID: w.BettorID, Status: domain.WagerWon, Payout: payout,
			})
		} else {
			w.Status = domain.WagerLost
			settlements = append(settlements, domain.Settlement{
				WagerID: w.ID, BettorID: w.BettorID, Status: domain.WagerLost, Payout: 0,
			})
		}
	}

	return settlements
}

// Void cancels every pending wager in a group and returns the stakes.
func (l *Ledger) Void(group string) []domain.Settlement {
	betIDs := l.book.GroupBets(group)
	var settlements []domain.Settlement
	for _, betID := range betIDs {
		for _, wagerID := range l.byBet[betID] {
			w := l.wagers[wagerID]
			if w.Status != domain.WagerPending {
				continue
			}
			w.Status = domain.WagerVoid
			l.balances[w.BettorID] = l.Balance(w.BettorID) + w.Amount
			settlements = append(settlements, domain.Settlement{
				WagerID: w.ID, BettorID: w.BettorID, Status: domain.WagerVoid, Payout: w.Amount,
			})
		}
	}
	return settlements
}
