package calculations

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartsaver/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func TestSimulateFlex_ZeroTerm(t *testing.T) {
	tests := []struct {
		name      string
		initial   string
		apr       string
		topUps    []domain.TopUp
		wantFinal string
	}{
		{name: "no events", initial: "5000", apr: "5", wantFinal: "5000"},
		{name: "zero rate", initial: "1234.567", apr: "0", wantFinal: "1234.57"},
		{
			name:    "top-ups are folded in before the first month",
			initial: "1000",
			apr:     "5",
			topUps: []domain.TopUp{
				{Month: 0, Amount: dec("500")},
				{Month: 4, Amount: dec("250")},
			},
			wantFinal: "1750",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := SimulateFlex(dec(tt.initial), 0, dec(tt.apr), tt.topUps, nil)
			require.NoError(t, err)

			assert.NotNil(t, result.Schedule)
			assert.Empty(t, result.Schedule)
			assertDecimal(t, "0", result.InterestAccrued)
			assertDecimal(t, tt.wantFinal, result.FinalBalance)
		})
	}
}

func TestSimulateFlex_NoEventsMatchesLocked(t *testing.T) {
	tests := []struct {
		initial string
		months  int
		apr     string
	}{
		{"5000", 12, "5"},
		{"10000", 24, "6"},
		{"1234.56", 18, "3.3"},
		{"0", 12, "5"},
		{"999.99", 1, "10.52"},
	}

	for _, tt := range tests {
		t.Run(tt.initial+"/"+tt.apr, func(t *testing.T) {
			flex, err := SimulateFlex(dec(tt.initial), tt.months, dec(tt.apr), nil, nil)
			require.NoError(t, err)
			locked, err := SimulateLocked(dec(tt.initial), tt.months, dec(tt.apr))
			require.NoError(t, err)

			require.Len(t, flex.Schedule, tt.months)
			for i, entry := range flex.Schedule {
				assert.Equal(t, i+1, entry.Month)
				assertDecimal(t, dec(tt.initial).Round(2).String(), entry.Balance)
			}
			assertDecimal(t, dec(tt.initial).Round(2).String(), flex.FinalBalance)
			assertDecimal(t, locked.InterestAccrued.String(), flex.InterestAccrued)
		})
	}
}

func TestSimulateFlex_WithdrawalIsClipped(t *testing.T) {
	result, err := SimulateFlex(dec("1000"), 6, dec("5"), nil, []domain.Withdrawal{
		{Month: 2, Amount: dec("5000")},
	})
	require.NoError(t, err)

	assertDecimal(t, "1000", result.Schedule[1].Balance)
	for _, entry := range result.Schedule[2:] {
		assertDecimal(t, "0", entry.Balance)
		assertDecimal(t, "0", entry.Interest)
	}
	assertDecimal(t, "0", result.FinalBalance)
	// two months of 1000 * 5% / 12
	assertDecimal(t, "8.33", result.InterestAccrued)
}

func TestSimulateFlex_FIFODepletion(t *testing.T) {
	result, err := SimulateFlex(dec("1000"), 4, dec("12"),
		[]domain.TopUp{{Month: 3, Amount: dec("500")}},
		[]domain.Withdrawal{{Month: 3, Amount: dec("1200")}},
	)
	require.NoError(t, err)

	// Only the month-3 chunk survives, holding 300.
	last := result.Schedule[3]
	assertDecimal(t, "300", last.Balance)
	assertDecimal(t, "3", last.Interest)
	for _, entry := range result.Schedule[:3] {
		assertDecimal(t, "1500", entry.Balance)
		assertDecimal(t, "10", entry.Interest)
	}
	assertDecimal(t, "300", result.FinalBalance)
	assertDecimal(t, "33", result.InterestAccrued)
}

func TestSimulateFlex_TopUpAccruesFromItsMonth(t *testing.T) {
	result, err := SimulateFlex(dec("1200"), 8, dec("10"),
		[]domain.TopUp{{Month: 5, Amount: dec("600")}}, nil)
	require.NoError(t, err)

	for m, entry := range result.Schedule {
		assertDecimal(t, "1800", entry.Balance)
		if m < 5 {
			assertDecimal(t, "10", entry.Interest)
		} else {
			assertDecimal(t, "15", entry.Interest)
		}
	}
	assertDecimal(t, "95", result.InterestAccrued)
}

func TestSimulateFlex_TopUpsInSameMonthShareAChunk(t *testing.T) {
	result, err := SimulateFlex(dec("0"), 3, dec("12"), []domain.TopUp{
		{Month: 1, Amount: dec("100")},
		{Month: 1, Amount: dec("200")},
	}, nil)
	require.NoError(t, err)

	assertDecimal(t, "0", result.Schedule[0].Interest)
	assertDecimal(t, "3", result.Schedule[1].Interest)
	assertDecimal(t, "300", result.FinalBalance)
}

func TestSimulateFlex_BreakAtMonthSix(t *testing.T) {
	result, err := SimulateFlex(dec("5000"), 12, dec("5.0"), nil, []domain.Withdrawal{
		{Month: 6, Amount: dec("2000")},
	})
	require.NoError(t, err)
	require.Len(t, result.Schedule, 12)

	assertDecimal(t, "5000", result.Schedule[5].Balance)
	assertDecimal(t, "20.83", result.Schedule[5].Interest)
	assertDecimal(t, "3000", result.Schedule[6].Balance)
	assertDecimal(t, "12.50", result.Schedule[6].Interest)
	assertDecimal(t, "3000", result.FinalBalance)
	assertDecimal(t, "200", result.InterestAccrued)
}

func TestSimulateFlex_WithdrawalsInSuppliedOrder(t *testing.T) {
	result, err := SimulateFlex(dec("1000"), 3, dec("12"), nil, []domain.Withdrawal{
		{Month: 1, Amount: dec("700")},
		{Month: 1, Amount: dec("700")},
		{Month: 0, Amount: dec("100")},
	})
	require.NoError(t, err)

	assertDecimal(t, "900", result.Schedule[0].Balance)
	assertDecimal(t, "0", result.Schedule[1].Balance)
	assertDecimal(t, "0", result.FinalBalance)
}

func TestSimulateFlex_WithdrawalOutsideTermIgnored(t *testing.T) {
	result, err := SimulateFlex(dec("5000"), 12, dec("5"), nil, []domain.Withdrawal{
		{Month: 12, Amount: dec("2000")},
		{Month: 40, Amount: dec("2000")},
	})
	require.NoError(t, err)

	assertDecimal(t, "5000", result.FinalBalance)
	assertDecimal(t, "250", result.InterestAccrued)
}

func TestSimulateFlex_RoundingPolicy(t *testing.T) {
	result, err := SimulateFlex(dec("5000"), 12, dec("5"), nil, nil)
	require.NoError(t, err)

	sumOfRounded := decimal.Zero
	for _, entry := range result.Schedule {
		sumOfRounded = sumOfRounded.Add(entry.Interest)
	}
	unrounded := MonthlyInterest(dec("5000"), dec("5")).Mul(decimal.NewFromInt(12))

	// interest_accrued rounds the exact total once; adding the displayed
	// monthly figures would drift by four cents here.
	assertDecimal(t, "250", result.InterestAccrued)
	assertDecimal(t, unrounded.Round(2).String(), result.InterestAccrued)
	assertDecimal(t, "249.96", sumOfRounded)
	assert.True(t, result.InterestAccrued.Sub(sumOfRounded).Abs().
		LessThanOrEqual(dec("0.005").Mul(decimal.NewFromInt(12))))
}

func TestSimulateFlex_InvalidInput(t *testing.T) {
	tests := []struct {
		name        string
		initial     string
		months      int
		apr         string
		topUps      []domain.TopUp
		withdrawals []domain.Withdrawal
	}{
		{name: "negative initial", initial: "-1", months: 12, apr: "5"},
		{name: "negative term", initial: "100", months: -1, apr: "5"},
		{name: "negative apr", initial: "100", months: 12, apr: "-0.5"},
		{
			name: "negative top-up month", initial: "100", months: 12, apr: "5",
			topUps: []domain.TopUp{{Month: -2, Amount: dec("10")}},
		},
		{
			name: "zero withdrawal", initial: "100", months: 12, apr: "5",
			withdrawals: []domain.Withdrawal{{Month: 1, Amount: decimal.Zero}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SimulateFlex(dec(tt.initial), tt.months, dec(tt.apr), tt.topUps, tt.withdrawals)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestSimulateFlex_InvalidEventKeepsCause(t *testing.T) {
	_, err := SimulateFlex(dec("100"), 12, dec("5"), nil,
		[]domain.Withdrawal{{Month: -1, Amount: dec("10")}})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrInvalidEvent)
}

func TestSimulateFlex_ConcurrentCallsAreIndependent(t *testing.T) {
	withdrawals := []domain.Withdrawal{{Month: 6, Amount: dec("2000")}}
	want, err := SimulateFlex(dec("5000"), 12, dec("5"), nil, withdrawals)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]domain.SimulationResult, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = SimulateFlex(dec("5000"), 12, dec("5"), nil, withdrawals)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assertDecimal(t, want.FinalBalance.String(), got.FinalBalance)
		assertDecimal(t, want.InterestAccrued.String(), got.InterestAccrued)
	}
	assertDecimal(t, "2000", withdrawals[0].Amount)
}
