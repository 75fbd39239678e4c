package payroll

import (
	"testing"

	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/payroll"
	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/fixtures"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateContributions_BelowAllCaps(t *testing.T) {
	setting := fixtures.DefaultPayrollSetting("company-1")
	salary := decimal.NewFromInt(10_000_000)

	emp, er, err := CalculateContributions(salary, setting)
	require.NoError(t, err)

	assert.True(t, emp.Health.Equal(decimal.NewFromInt(100_000)))
	assert.True(t, emp.JHT.Equal(decimal.NewFromInt(200_000)))
	assert.True(t, emp.JP.Equal(decimal.NewFromInt(100_000)))
	assert.True(t, emp.Total().Equal(decimal.NewFromInt(400_000)))

	assert.True(t, er.Health.Equal(decimal.NewFromInt(400_000)))
	assert.True(t, er.JHT.Equal(decimal.NewFromInt(370_000)))
	assert.True(t, er.JP.Equal(decimal.NewFromInt(200_000)))
	assert.True(t, er.JKK.Equal(decimal.NewFromInt(24_000)))
	assert.True(t, er.JKM.Equal(decimal.NewFromInt(30_000)))
	assert.True(t, er.Total().Equal(decimal.NewFromInt(1_024_000)))
}

func TestCalculateContributions_CapsApplyPerClass(t *testing.T) {
	setting := fixtures.DefaultPayrollSetting("company-1")
	salary := decimal.NewFromInt(15_000_000)

	emp, er, err := CalculateContributions(salary, setting)
	require.NoError(t, err)

	// Health is capped at 12,000,000, JP at 10,042,300; JHT, JKK and
	// JKM use the full salary.
	assert.True(t, emp.Health.Equal(decimal.NewFromInt(120_000)))
	assert.True(t, emp.JP.Equal(decimal.NewFromInt(100_423)))
	assert.True(t, emp.JHT.Equal(decimal.NewFromInt(300_000)))

	assert.True(t, er.Health.Equal(decimal.NewFromInt(480_000)))
	assert.True(t, er.JP.Equal(decimal.NewFromInt(200_846)))
	assert.True(t, er.JHT.Equal(decimal.NewFromInt(555_000)))
	assert.True(t, er.JKK.Equal(decimal.NewFromInt(36_000)))
	assert.True(t, er.JKM.Equal(decimal.NewFromInt(45_000)))
}

func TestCalculateContributions_ZeroCapMeansUncapped(t *testing.T) {
	setting := fixtures.DefaultPayrollSetting("company-1")
	setting.HealthSalaryCap = decimal.Zero
	salary := decimal.NewFromInt(50_000_000)

	emp, _, err := CalculateContributions(salary, setting)
	require.NoError(t, err)

	assert.True(t, emp.Health.Equal(decimal.NewFromInt(500_000)))
}

func TestCalculateContributions_ZeroSalary(t *testing.T) {
	setting := fixtures.DefaultPayrollSetting("company-1")

	emp, er, err := CalculateContributions(decimal.Zero, setting)
	require.NoError(t, err)
	assert.True(t, emp.Total().IsZero())
	assert.True(t, er.Total().IsZero())
}

func TestCalculateContributions_NegativeSalary(t *testing.T) {
	setting := fixtures.DefaultPayrollSetting("company-1")

	_, _, err := CalculateContributions(decimal.NewFromInt(-1), setting)
	assert.ErrorIs(t, err, payroll.ErrNegativeInput)
}
