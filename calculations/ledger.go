package calculations

import (
	"slices"
	"sort"

	"github.com/shopspring/decimal"

	"smartsaver/domain"
)

// chunk is a slice of principal remembered by the month it was deposited.
type chunk struct {
	origin int
	amount decimal.Decimal
}

// ledger keeps chunks sorted by origin month, oldest first.
type ledger struct {
	chunks []chunk
}

func newLedger(initial decimal.Decimal, topUps []domain.TopUp) *ledger {
	l := &ledger{chunks: []chunk{{origin: 0, amount: initial}}}
	for _, t := range topUps {
		l.credit(t.Month, t.Amount)
	}
	return l
}

func (l *ledger) credit(origin int, amount decimal.Decimal) {
	i := sort.Search(len(l.chunks), func(i int) bool {
		return l.chunks[i].origin >= origin
	})
	if i < len(l.chunks) && l.chunks[i].origin == origin {
		l.chunks[i].amount = l.chunks[i].amount.Add(amount)
		return
	}
	l.chunks = slices.Insert(l.chunks, i, chunk{origin: origin, amount: amount})
}

func (l *ledger) balance() decimal.Decimal {
	total := decimal.Zero
	for _, c := range l.chunks {
		total = total.Add(c.amount)
	}
	return total
}

// withdraw takes at most the current balance, draining the oldest chunks
// first, and returns what was actually taken.
func (l *ledger) withdraw(requested decimal.Decimal) decimal.Decimal {
	taken := decimal.Min(requested, l.balance())
	remaining := taken
	for i := range l.chunks {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(l.chunks[i].amount, remaining)
		l.chunks[i].amount = l.chunks[i].amount.Sub(take)
		remaining = remaining.Sub(take)
	}
	return taken
}

// interest is the simple interest earned in month by every chunk that
// already existed at that month.
func (l *ledger) interest(month int, apr decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, c := range l.chunks {
		if c.origin > month {
			break
		}
		if c.amount.IsPositive() {
			total = total.Add(MonthlyInterest(c.amount, apr))
		}
	}
	return total
}
