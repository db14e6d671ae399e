package calculations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateFixed(t *testing.T) {
	tests := []struct {
		name         string
		initial      string
		months       int
		apr          string
		wantBalance  string
		wantInterest string
	}{
		{name: "locked example", initial: "10000", months: 12, apr: "6.0", wantBalance: "10000", wantInterest: "600"},
		{name: "zero term", initial: "10000", months: 0, apr: "6.0", wantBalance: "10000", wantInterest: "0"},
		{name: "zero rate", initial: "2500", months: 24, apr: "0", wantBalance: "2500", wantInterest: "0"},
		{name: "rounds once", initial: "5000", months: 12, apr: "5", wantBalance: "5000", wantInterest: "250"},
		{name: "fractional principal", initial: "100.005", months: 1, apr: "12", wantBalance: "100.01", wantInterest: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locked, err := SimulateLocked(dec(tt.initial), tt.months, dec(tt.apr))
			require.NoError(t, err)
			mainAccount, err := SimulateMain(dec(tt.initial), tt.months, dec(tt.apr))
			require.NoError(t, err)

			assertDecimal(t, tt.wantBalance, locked.FinalBalance)
			assertDecimal(t, tt.wantInterest, locked.InterestAccrued)
			assert.Nil(t, locked.Schedule)
			assert.Equal(t, locked, mainAccount)
		})
	}
}

func TestSimulateFixed_InvalidInput(t *testing.T) {
	_, err := SimulateLocked(dec("-10"), 12, dec("5"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = SimulateMain(dec("10"), -3, dec("5"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = SimulateMain(dec("10"), 3, dec("-5"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMonthlyInterest(t *testing.T) {
	assertDecimal(t, "50", MonthlyInterest(dec("10000"), dec("6")))
	assertDecimal(t, "12.5", MonthlyInterest(dec("3000"), dec("5")))
	assertDecimal(t, "0", MonthlyInterest(dec("3000"), dec("0")))
}
