package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidEvent   = errors.New("invalid event")
	ErrUnknownProduct = errors.New("unknown product")
)

type Product string

const (
	ProductFlex   Product = "flex"
	ProductLocked Product = "locked"
	ProductMain   Product = "main"
)

// ParseProduct maps a product code to a Product.
func ParseProduct(code string) (Product, error) {
	switch p := Product(code); p {
	case ProductFlex, ProductLocked, ProductMain:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProduct, code)
}

// Label is the customer-facing product name.
func (p Product) Label() string {
	switch p {
	case ProductFlex:
		return "SmartSaver Flex Premium"
	case ProductLocked:
		return "Locked Vault"
	case ProductMain:
		return "SmartSaver Classic"
	}
	return string(p)
}

// TopUp is an extra deposit credited at the start of a 0-based month.
type TopUp struct {
	Month  int             `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

// Withdrawal is a request to take funds out during a 0-based month.
type Withdrawal struct {
	Month  int             `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

func NewTopUp(month int, amount decimal.Decimal) (TopUp, error) {
	t := TopUp{Month: month, Amount: amount}
	if err := t.Validate(); err != nil {
		return TopUp{}, err
	}
	return t, nil
}

func NewWithdrawal(month int, amount decimal.Decimal) (Withdrawal, error) {
	w := Withdrawal{Month: month, Amount: amount}
	if err := w.Validate(); err != nil {
		return Withdrawal{}, err
	}
	return w, nil
}

func (t TopUp) Validate() error {
	if err := checkEvent(t.Month, t.Amount); err != nil {
		return fmt.Errorf("top-up: %w", err)
	}
	return nil
}

func (w Withdrawal) Validate() error {
	if err := checkEvent(w.Month, w.Amount); err != nil {
		return fmt.Errorf("withdrawal: %w", err)
	}
	return nil
}

func checkEvent(month int, amount decimal.Decimal) error {
	if month < 0 {
		return fmt.Errorf("%w: month must be >= 0, got %d", ErrInvalidEvent, month)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be > 0, got %s", ErrInvalidEvent, amount)
	}
	return nil
}

// eventJSON keeps both fields optional so a missing one can be told apart from a zero.
type eventJSON struct {
	Month  *int             `json:"month"`
	Amount *decimal.Decimal `json:"amount"`
}

func (e eventJSON) fields() (int, decimal.Decimal, error) {
	if e.Month == nil {
		return 0, decimal.Zero, fmt.Errorf("%w: month is required", ErrInvalidEvent)
	}
	if e.Amount == nil {
		return 0, decimal.Zero, fmt.Errorf("%w: amount is required", ErrInvalidEvent)
	}
	return *e.Month, *e.Amount, nil
}

func (t *TopUp) UnmarshalJSON(data []byte) error {
	var raw eventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	month, amount, err := raw.fields()
	if err != nil {
		return fmt.Errorf("top-up: %w", err)
	}
	v, err := NewTopUp(month, amount)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (w *Withdrawal) UnmarshalJSON(data []byte) error {
	var raw eventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	month, amount, err := raw.fields()
	if err != nil {
		return fmt.Errorf("withdrawal: %w", err)
	}
	v, err := NewWithdrawal(month, amount)
	if err != nil {
		return err
	}
	*w = v
	return nil
}

type ScheduleEntry struct {
	Month    int             `json:"month"`
	Balance  decimal.Decimal `json:"balance"`
	Interest decimal.Decimal `json:"interest"`
}

// SimulationResult is the outcome of one simulation. Schedule is nil for the
// fixed-rate products and non-nil (possibly empty) for the flex vault.
type SimulationResult struct {
	FinalBalance    decimal.Decimal `json:"final_balance"`
	InterestAccrued decimal.Decimal `json:"interest_accrued"`
	Schedule        []ScheduleEntry `json:"schedule"`
}

func (r SimulationResult) MarshalJSON() ([]byte, error) {
	if r.Schedule == nil {
		return json.Marshal(struct {
			FinalBalance    decimal.Decimal `json:"final_balance"`
			InterestAccrued decimal.Decimal `json:"interest_accrued"`
		}{r.FinalBalance, r.InterestAccrued})
	}
	type plain SimulationResult
	return json.Marshal(plain(r))
}

type FlexInput struct {
	Initial     decimal.Decimal `json:"initial"`
	TermMonths  int             `json:"term_months"`
	TopUps      []TopUp         `json:"topups"`
	Withdrawals []Withdrawal    `json:"withdrawals"`
}

type SimpleInput struct {
	Initial    decimal.Decimal `json:"initial"`
	TermMonths int             `json:"term_months"`
}

// ProductOutcomes holds one simulation per product for the same plan.
type ProductOutcomes struct {
	Flex   SimulationResult `json:"flex"`
	Locked SimulationResult `json:"locked"`
	Main   SimulationResult `json:"main"`
}
