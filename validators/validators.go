package validators

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"smartsaver/config"
	"smartsaver/domain"
)

// ValidateAmount checks that value lies in [minInclusive, maxInclusive].
func ValidateAmount(name string, value, minInclusive, maxInclusive decimal.Decimal) error {
	if value.LessThan(minInclusive) {
		return fmt.Errorf("%s: value must be >= %s", name, minInclusive)
	}
	if value.GreaterThan(maxInclusive) {
		return fmt.Errorf("%s: value is too large (> %s)", name, maxInclusive)
	}
	return nil
}

// ValidateIntRange checks that value lies in [minInclusive, maxInclusive].
func ValidateIntRange(name string, value int, minInclusive, maxInclusive int) error {
	if value < minInclusive || value > maxInclusive {
		return fmt.Errorf("%s: value must be in range [%d; %d]", name, minInclusive, maxInclusive)
	}
	return nil
}

// CheckFinite rejects NaN and infinities before they are turned into decimals.
func CheckFinite(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%s: value is not a finite number", name)
	}
	return nil
}

// CheckInitial checks the opening deposit.
func CheckInitial(cfg *config.Config, initial decimal.Decimal) error {
	return ValidateAmount("initial", initial, decimal.Zero, cfg.MaxInitialAmount())
}

// CheckTermMonths checks the simulated term. Zero is allowed and yields an empty schedule.
func CheckTermMonths(cfg *config.Config, months int) error {
	return ValidateIntRange("term_months", months, 0, cfg.MaxTermMonths)
}

// CheckRate checks an annual percentage rate.
func CheckRate(rate decimal.Decimal) error {
	return ValidateAmount("apr", rate, decimal.Zero, decimal.NewFromInt(1000))
}

// CheckEvents checks top-ups and withdrawals individually and caps how many a request may carry.
func CheckEvents(cfg *config.Config, topUps []domain.TopUp, withdrawals []domain.Withdrawal) error {
	if n := len(topUps) + len(withdrawals); n > cfg.MaxEvents {
		return fmt.Errorf("events: %d top-ups and withdrawals exceed the limit of %d", n, cfg.MaxEvents)
	}
	for i, t := range topUps {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("topups[%d]: %w", i, err)
		}
		if err := ValidateAmount(fmt.Sprintf("topups[%d].amount", i), t.Amount, decimal.Zero, cfg.MaxInitialAmount()); err != nil {
			return err
		}
	}
	for i, w := range withdrawals {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("withdrawals[%d]: %w", i, err)
		}
	}
	return nil
}
