// Package calculations simulates the savings products month by month.
//
// All three simulators share MonthlyInterest: simple interest on the
// principal present in a month, never compounded into later months.
package calculations

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidInput = errors.New("invalid simulation input")

var monthsTimesPercent = decimal.NewFromInt(1200)

// MonthlyInterest returns amount * (apr/100) / 12.
func MonthlyInterest(amount, apr decimal.Decimal) decimal.Decimal {
	return amount.Mul(apr).Div(monthsTimesPercent)
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func checkInputs(initial decimal.Decimal, termMonths int, apr decimal.Decimal) error {
	if initial.IsNegative() {
		return fmt.Errorf("%w: initial must be >= 0, got %s", ErrInvalidInput, initial)
	}
	if termMonths < 0 {
		return fmt.Errorf("%w: term_months must be >= 0, got %d", ErrInvalidInput, termMonths)
	}
	if apr.IsNegative() {
		return fmt.Errorf("%w: apr must be >= 0, got %s", ErrInvalidInput, apr)
	}
	return nil
}
