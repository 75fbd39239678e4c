package payroll

import (
	"testing"

	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/payroll"
	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/fixtures"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCalculator(mutate func(*payroll.PayrollSetting)) *TaxCalculator {
	setting := fixtures.DefaultPayrollSetting("company-1")
	if mutate != nil {
		mutate(&setting)
	}
	return NewTaxCalculator(setting, fixtures.DefaultPTKPEntries(), fixtures.DefaultTERBands(), fixtures.DefaultTaxBrackets())
}

func TestTaxCalculator_TERBandLookup(t *testing.T) {
	calc := newTestCalculator(nil)

	tests := []struct {
		name    string
		income  decimal.Decimal
		rate    string
		wantTax decimal.Decimal
	}{
		{"zero band", decimal.NewFromInt(5_000_000), "0", decimal.Zero},
		{"just below first threshold", decimal.NewFromInt(5_399_999), "0", decimal.Zero},
		{"exactly on threshold", decimal.NewFromInt(5_400_000), "0.0025", decimal.NewFromInt(13_500)},
		{"just below band edge", decimal.NewFromInt(9_649_999), "0.0175", decimal.RequireFromString("168874.9825")},
		{"exactly on band edge", decimal.NewFromInt(9_650_000), "0.02", decimal.NewFromInt(193_000)},
		{"open top band", decimal.NewFromInt(2_000_000_000), "0.34", decimal.NewFromInt(680_000_000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := calc.Calculate(tt.income, "TK/0")
			require.NoError(t, err)

			assert.Equal(t, "ter", res.Method)
			require.NotNil(t, res.TERCategory)
			assert.Equal(t, payroll.TERCategoryA, *res.TERCategory)
			require.NotNil(t, res.TERRate)
			assert.True(t, res.TERRate.Equal(decimal.RequireFromString(tt.rate)))
			assert.True(t, res.Tax.Equal(tt.wantTax), "tax = %s", res.Tax)
		})
	}
}

func TestTaxCalculator_TERCategoryFollowsPTKPStatus(t *testing.T) {
	calc := newTestCalculator(nil)
	income := decimal.NewFromInt(6_000_000)

	// Category A taxes 6,000,000 at 0.75%; category B is still in its
	// zero band at the same income.
	resA, err := calc.Calculate(income, "TK/0")
	require.NoError(t, err)
	assert.True(t, resA.Tax.Equal(decimal.NewFromInt(45_000)))

	resB, err := calc.Calculate(income, "K/1")
	require.NoError(t, err)
	assert.Equal(t, payroll.TERCategoryB, *resB.TERCategory)
	assert.True(t, resB.Tax.IsZero())
}

func TestTaxCalculator_MissingPTKPStatus(t *testing.T) {
	calc := newTestCalculator(nil)

	_, err := calc.Calculate(decimal.NewFromInt(10_000_000), "TK/9")
	assert.ErrorIs(t, err, payroll.ErrMissingPTKPEntry)
}

func TestTaxCalculator_MissingTERBand(t *testing.T) {
	// A band table covering only category A cannot price a category C
	// employee.
	setting := fixtures.DefaultPayrollSetting("company-1")
	var bandsA []payroll.TaxConfiguration
	for _, b := range fixtures.DefaultTERBands() {
		if b.Category == payroll.TERCategoryA {
			bandsA = append(bandsA, b)
		}
	}
	calc := NewTaxCalculator(setting, fixtures.DefaultPTKPEntries(), bandsA, nil)

	_, err := calc.Calculate(decimal.NewFromInt(10_000_000), "K/3")
	assert.ErrorIs(t, err, payroll.ErrMissingTERRate)
}

func TestTaxCalculator_NegativeIncome(t *testing.T) {
	calc := newTestCalculator(nil)

	_, err := calc.Calculate(decimal.NewFromInt(-1), "TK/0")
	assert.ErrorIs(t, err, payroll.ErrNegativeInput)
}

func TestTaxCalculator_ProgressiveSingleBracket(t *testing.T) {
	calc := newTestCalculator(func(s *payroll.PayrollSetting) {
		s.UseTERMethod = false
	})

	// 10,000,000/month, TK/0: occupational cost hits the 500,000 cap,
	// annualized 114,000,000 minus 54,000,000 PTKP leaves exactly
	// 60,000,000 in the 5% bracket.
	res, err := calc.Calculate(decimal.NewFromInt(10_000_000), "TK/0")
	require.NoError(t, err)

	assert.Equal(t, "progressive", res.Method)
	assert.Nil(t, res.TERCategory)
	assert.True(t, res.Tax.Equal(decimal.NewFromInt(250_000)), "tax = %s", res.Tax)
}

func TestTaxCalculator_ProgressiveMultipleBrackets(t *testing.T) {
	calc := newTestCalculator(func(s *payroll.PayrollSetting) {
		s.UseTERMethod = false
	})

	// 30,000,000/month, K/3: annual taxable 282,000,000 spans three
	// brackets; annual tax 3,000,000 + 28,500,000 + 8,000,000.
	res, err := calc.Calculate(decimal.NewFromInt(30_000_000), "K/3")
	require.NoError(t, err)

	want := decimal.NewFromInt(39_500_000).Div(decimal.NewFromInt(12))
	assert.True(t, res.Tax.Equal(want), "tax = %s", res.Tax)
}

func TestTaxCalculator_ProgressiveBelowPTKP(t *testing.T) {
	calc := newTestCalculator(func(s *payroll.PayrollSetting) {
		s.UseTERMethod = false
	})

	res, err := calc.Calculate(decimal.NewFromInt(4_000_000), "TK/0")
	require.NoError(t, err)
	assert.True(t, res.Tax.IsZero())
}

func TestTaxCalculator_ProgressiveNoBrackets(t *testing.T) {
	setting := fixtures.DefaultPayrollSetting("company-1")
	setting.UseTERMethod = false
	calc := NewTaxCalculator(setting, fixtures.DefaultPTKPEntries(), nil, nil)

	_, err := calc.Calculate(decimal.NewFromInt(10_000_000), "TK/0")
	assert.ErrorIs(t, err, payroll.ErrNoTaxBrackets)
}

func TestTaxCalculator_PaymentConventions(t *testing.T) {
	income := decimal.NewFromInt(9_600_000) // TER A 1.75% band
	wantTax := decimal.NewFromInt(168_000)

	t.Run("gross withholds from the employee", func(t *testing.T) {
		calc := newTestCalculator(nil)
		res, err := calc.Calculate(income, "TK/0")
		require.NoError(t, err)

		assert.True(t, res.EmployeeBorne.Equal(wantTax))
		assert.True(t, res.EmployerBorne.IsZero())
		assert.True(t, res.GrossAddition.IsZero())
	})

	t.Run("net lands on the employer only", func(t *testing.T) {
		calc := newTestCalculator(func(s *payroll.PayrollSetting) {
			s.TaxPaymentMethod = payroll.TaxPaymentNet
		})
		res, err := calc.Calculate(income, "TK/0")
		require.NoError(t, err)

		assert.True(t, res.EmployeeBorne.IsZero())
		assert.True(t, res.EmployerBorne.Equal(wantTax))
		assert.True(t, res.GrossAddition.IsZero())
	})
}

func TestTaxCalculator_GrossUpConverges(t *testing.T) {
	calc := newTestCalculator(func(s *payroll.PayrollSetting) {
		s.TaxPaymentMethod = payroll.TaxPaymentGrossUp
	})

	base := decimal.NewFromInt(10_000_000)
	res, err := calc.Calculate(base, "TK/0")
	require.NoError(t, err)

	// The seed is the tax on the base income alone; the allowance
	// settles higher once it pushes the income into the 2.25% band.
	require.NotNil(t, res.GrossUpInitial)
	assert.True(t, res.GrossUpInitial.Equal(decimal.NewFromInt(200_000)))

	require.NotNil(t, res.FinalGrossUp)
	allowance := *res.FinalGrossUp
	assert.True(t, allowance.GreaterThan(*res.GrossUpInitial))

	// At the fixed point the allowance covers exactly the tax on the
	// grossed-up income.
	assert.True(t, res.Tax.Equal(allowance))
	assert.True(t, res.GrossAddition.Equal(allowance))
	assert.True(t, res.EmployeeBorne.Equal(res.Tax))
	assert.True(t, res.TaxableIncome.Sub(base).Abs().LessThanOrEqual(allowance.Add(decimal.NewFromInt(1))))

	// Re-check through the plain gross convention: the withholding tax
	// on the grossed-up income reproduces the allowance within one unit.
	plain := newTestCalculator(nil)
	check, err := plain.Calculate(base.Add(allowance), "TK/0")
	require.NoError(t, err)
	assert.True(t, check.Tax.Sub(allowance).Abs().LessThanOrEqual(decimal.NewFromInt(1)))
}

func TestTaxCalculator_GrossUpZeroTaxStaysZero(t *testing.T) {
	calc := newTestCalculator(func(s *payroll.PayrollSetting) {
		s.TaxPaymentMethod = payroll.TaxPaymentGrossUp
	})

	res, err := calc.Calculate(decimal.NewFromInt(5_000_000), "TK/0")
	require.NoError(t, err)

	assert.True(t, res.Tax.IsZero())
	assert.True(t, res.GrossAddition.IsZero())
}

func TestTaxCalculator_GrossUpNotConverged(t *testing.T) {
	// An absurdly tight tolerance exhausts the iteration limit before
	// the fixed point is reached to that precision.
	calc := newTestCalculator(func(s *payroll.PayrollSetting) {
		s.TaxPaymentMethod = payroll.TaxPaymentGrossUp
		s.RoundingPrecision = 30
	})

	_, err := calc.Calculate(decimal.NewFromInt(10_000_000), "TK/0")
	assert.ErrorIs(t, err, payroll.ErrGrossUpNotConverged)
}
