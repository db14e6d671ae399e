package calculations

import (
	"github.com/shopspring/decimal"

	"smartsaver/domain"
)

// SimulateLocked computes the locked vault in closed form. Principal is
// fixed for the whole term, so no schedule is produced.
func SimulateLocked(initial decimal.Decimal, termMonths int, apr decimal.Decimal) (domain.SimulationResult, error) {
	return simulateFixed(initial, termMonths, apr)
}

// SimulateMain computes the main account the same way as the locked vault.
func SimulateMain(initial decimal.Decimal, termMonths int, apr decimal.Decimal) (domain.SimulationResult, error) {
	return simulateFixed(initial, termMonths, apr)
}

func simulateFixed(initial decimal.Decimal, termMonths int, apr decimal.Decimal) (domain.SimulationResult, error) {
	if err := checkInputs(initial, termMonths, apr); err != nil {
		return domain.SimulationResult{}, err
	}

	monthly := MonthlyInterest(initial, apr)
	accrued := monthly.Mul(decimal.NewFromInt(int64(termMonths)))

	return domain.SimulationResult{
		FinalBalance:    round2(initial),
		InterestAccrued: round2(accrued),
	}, nil
}
