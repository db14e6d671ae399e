package calculations

import (
	"fmt"

	"github.com/shopspring/decimal"

	"smartsaver/domain"
)

// SimulateFlex runs the flex vault for termMonths months.
//
// Top-ups are credited to the ledger before the first month and start
// earning in their own month. Each month applies that month's withdrawals
// in the order given, then accrues interest on every chunk that exists by
// then. interest_accrued is the sum of the unrounded monthly interest,
// rounded once at the end.
func SimulateFlex(initial decimal.Decimal, termMonths int, apr decimal.Decimal,
	topUps []domain.TopUp, withdrawals []domain.Withdrawal) (domain.SimulationResult, error) {

	if err := checkInputs(initial, termMonths, apr); err != nil {
		return domain.SimulationResult{}, err
	}
	for i, t := range topUps {
		if err := t.Validate(); err != nil {
			return domain.SimulationResult{}, fmt.Errorf("%w: topups[%d]: %w", ErrInvalidInput, i, err)
		}
	}
	for i, w := range withdrawals {
		if err := w.Validate(); err != nil {
			return domain.SimulationResult{}, fmt.Errorf("%w: withdrawals[%d]: %w", ErrInvalidInput, i, err)
		}
	}

	l := newLedger(initial, topUps)

	byMonth := make(map[int][]decimal.Decimal)
	for _, w := range withdrawals {
		byMonth[w.Month] = append(byMonth[w.Month], w.Amount)
	}

	schedule := make([]domain.ScheduleEntry, 0, termMonths)
	accrued := decimal.Zero
	balance := l.balance()

	for m := 0; m < termMonths; m++ {
		for _, amount := range byMonth[m] {
			l.withdraw(amount)
		}
		balance = l.balance()

		monthInterest := l.interest(m, apr)
		schedule = append(schedule, domain.ScheduleEntry{
			Month:    m + 1,
			Balance:  round2(balance),
			Interest: round2(monthInterest),
		})
		accrued = accrued.Add(monthInterest)
	}

	return domain.SimulationResult{
		FinalBalance:    round2(balance),
		InterestAccrued: round2(accrued),
		Schedule:        schedule,
	}, nil
}
