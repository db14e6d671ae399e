package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type ProductRates struct {
	FlexVaultAPR   decimal.Decimal `json:"flex_vault_apr"`
	LockedVaultAPR decimal.Decimal `json:"locked_vault_apr"`
	MainAccountAPR decimal.Decimal `json:"main_account_apr"`
}

type TermLimits struct {
	MinMonths int `json:"min_months"`
	MaxMonths int `json:"max_months"`
}

// Rates is the rates and terms table every simulation reads its APR from.
type Rates struct {
	Products ProductRates `json:"products"`
	Terms    TermLimits   `json:"terms"`
}

// APR returns the annual percentage rate configured for a product.
func (r Rates) APR(p Product) (decimal.Decimal, error) {
	switch p {
	case ProductFlex:
		return r.Products.FlexVaultAPR, nil
	case ProductLocked:
		return r.Products.LockedVaultAPR, nil
	case ProductMain:
		return r.Products.MainAccountAPR, nil
	}
	return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownProduct, string(p))
}

// Contains reports whether months falls within the advertised term range.
func (t TermLimits) Contains(months int) bool {
	return months >= t.MinMonths && months <= t.MaxMonths
}
