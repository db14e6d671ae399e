package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvents(t *testing.T) {
	_, err := NewTopUp(3, decimal.NewFromInt(100))
	require.NoError(t, err)

	_, err = NewTopUp(-1, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, err = NewWithdrawal(2, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, err = NewWithdrawal(2, decimal.NewFromInt(-5))
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestFlexInput_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantError bool
	}{
		{
			name: "valid",
			body: `{"initial": 5000, "term_months": 12, "topups": [{"month": 2, "amount": 100.5}], "withdrawals": [{"month": 6, "amount": "2000"}]}`,
		},
		{name: "no events", body: `{"initial": 5000, "term_months": 12}`},
		{name: "missing month", body: `{"initial": 1, "term_months": 1, "topups": [{"amount": 10}]}`, wantError: true},
		{name: "missing amount", body: `{"initial": 1, "term_months": 1, "withdrawals": [{"month": 1}]}`, wantError: true},
		{name: "negative amount", body: `{"initial": 1, "term_months": 1, "withdrawals": [{"month": 1, "amount": -3}]}`, wantError: true},
		{name: "negative month", body: `{"initial": 1, "term_months": 1, "topups": [{"month": -1, "amount": 3}]}`, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in FlexInput
			err := json.Unmarshal([]byte(tt.body), &in)
			if tt.wantError {
				assert.ErrorIs(t, err, ErrInvalidEvent)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 12, in.TermMonths)
		})
	}
}

func TestSimulationResult_MarshalJSON(t *testing.T) {
	decimal.MarshalJSONWithoutQuotes = true
	defer func() { decimal.MarshalJSONWithoutQuotes = false }()

	fixed, err := json.Marshal(SimulationResult{
		FinalBalance:    decimal.NewFromInt(10000),
		InterestAccrued: decimal.NewFromInt(600),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"final_balance": 10000, "interest_accrued": 600}`, string(fixed))

	flex, err := json.Marshal(SimulationResult{
		FinalBalance:    decimal.NewFromInt(10),
		InterestAccrued: decimal.Zero,
		Schedule:        []ScheduleEntry{},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"final_balance": 10, "interest_accrued": 0, "schedule": []}`, string(flex))
}

func TestRates_APR(t *testing.T) {
	rates := Rates{Products: ProductRates{
		FlexVaultAPR:   decimal.NewFromInt(5),
		LockedVaultAPR: decimal.NewFromInt(7),
		MainAccountAPR: decimal.NewFromInt(2),
	}, Terms: TermLimits{MinMonths: 12, MaxMonths: 24}}

	apr, err := rates.APR(ProductLocked)
	require.NoError(t, err)
	assert.True(t, apr.Equal(decimal.NewFromInt(7)))

	_, err = rates.APR(Product("bond"))
	assert.ErrorIs(t, err, ErrUnknownProduct)

	assert.True(t, rates.Terms.Contains(12))
	assert.False(t, rates.Terms.Contains(25))
}
