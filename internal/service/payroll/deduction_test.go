package payroll

import (
	"testing"

	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deductionSetting() payroll.PayrollSetting {
	return payroll.PayrollSetting{
		AbsenceDeductionRate: decimal.NewFromInt(1),
		LateDeductionMode:    payroll.LatePerMinute,
		LateDeductionRate:    decimal.NewFromInt(5_000),
		LateToleranceMinutes: 15,
	}
}

func TestAggregateDeductions_AttendanceSources(t *testing.T) {
	res, err := AggregateDeductions(DeductionInput{
		BasicSalary:     decimal.NewFromInt(10_500_000),
		WorkingDays:     21,
		AbsenceDays:     2,
		LateMinutes:     30,
		UnpaidLeaveDays: 1,
		Setting:         deductionSetting(),
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 3)

	// Daily rate 500,000. Absence 2 days, late 15 minutes over
	// tolerance, one unpaid leave day.
	assert.Equal(t, payroll.DeductionAbsence, res.Items[0].Source)
	assert.Equal(t, "Absence (2 days)", res.Items[0].Name)
	assert.True(t, res.Items[0].Amount.Equal(decimal.NewFromInt(1_000_000)))

	assert.Equal(t, payroll.DeductionLate, res.Items[1].Source)
	assert.Equal(t, "Lateness (15 minutes over tolerance)", res.Items[1].Name)
	assert.True(t, res.Items[1].Amount.Equal(decimal.NewFromInt(75_000)))

	assert.Equal(t, payroll.DeductionLeave, res.Items[2].Source)
	assert.True(t, res.Items[2].Amount.Equal(decimal.NewFromInt(500_000)))

	assert.True(t, res.Total.Equal(decimal.NewFromInt(1_575_000)))
}

func TestAggregateDeductions_LatenessWithinTolerance(t *testing.T) {
	res, err := AggregateDeductions(DeductionInput{
		BasicSalary: decimal.NewFromInt(10_500_000),
		WorkingDays: 21,
		LateMinutes: 15,
		Setting:     deductionSetting(),
	})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.True(t, res.Total.IsZero())
}

func TestAggregateDeductions_LatenessPerDay(t *testing.T) {
	setting := deductionSetting()
	setting.LateDeductionMode = payroll.LatePerDay
	setting.LateDeductionRate = decimal.NewFromInt(100_000)

	res, err := AggregateDeductions(DeductionInput{
		BasicSalary: decimal.NewFromInt(10_500_000),
		WorkingDays: 21,
		LateDays:    2,
		Setting:     setting,
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Lateness (2 days)", res.Items[0].Name)
	assert.True(t, res.Items[0].Amount.Equal(decimal.NewFromInt(200_000)))
}

func TestAggregateDeductions_AmbiguousLateness(t *testing.T) {
	_, err := AggregateDeductions(DeductionInput{
		BasicSalary: decimal.NewFromInt(10_500_000),
		WorkingDays: 21,
		LateMinutes: 30,
		LateDays:    1,
		Setting:     deductionSetting(),
	})
	assert.ErrorIs(t, err, payroll.ErrAmbiguousLateness)
}

func TestAggregateDeductions_AbsenceRateMultiplier(t *testing.T) {
	setting := deductionSetting()
	setting.AbsenceDeductionRate = decimal.RequireFromString("0.5")

	res, err := AggregateDeductions(DeductionInput{
		BasicSalary: decimal.NewFromInt(10_500_000),
		WorkingDays: 21,
		AbsenceDays: 2,
		Setting:     setting,
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.True(t, res.Items[0].Amount.Equal(decimal.NewFromInt(500_000)))
}

func TestAggregateDeductions_AdjustmentRows(t *testing.T) {
	adjustments := []payroll.PayrollAdjustment{
		{ID: "adj-1", Type: payroll.AdjustmentLoan, Description: "Loan repayment", Amount: decimal.NewFromInt(250_000), Status: payroll.AdjustmentApproved},
		{ID: "adj-2", Type: payroll.AdjustmentPenalty, Description: "Damaged equipment", Amount: decimal.NewFromInt(100_000), Status: payroll.AdjustmentPending},
		{ID: "adj-3", Type: payroll.AdjustmentBonus, Description: "Spot bonus", Amount: decimal.NewFromInt(500_000), Status: payroll.AdjustmentApproved},
	}

	res, err := AggregateDeductions(DeductionInput{
		BasicSalary: decimal.NewFromInt(10_500_000),
		WorkingDays: 21,
		Adjustments: adjustments,
		Setting:     deductionSetting(),
	})
	require.NoError(t, err)

	// Only the approved loan qualifies: pending rows and earnings are
	// not deductions.
	require.Len(t, res.Items, 1)
	assert.Equal(t, payroll.DeductionLoan, res.Items[0].Source)
	assert.Equal(t, "Loan repayment", res.Items[0].Name)
	require.NotNil(t, res.Items[0].ReferenceID)
	assert.Equal(t, "adj-1", *res.Items[0].ReferenceID)
	assert.True(t, res.Total.Equal(decimal.NewFromInt(250_000)))
}

func TestAggregateDeductions_InvalidInputs(t *testing.T) {
	_, err := AggregateDeductions(DeductionInput{
		BasicSalary: decimal.NewFromInt(10_500_000),
		WorkingDays: 0,
		Setting:     deductionSetting(),
	})
	assert.ErrorIs(t, err, payroll.ErrZeroWorkingDays)

	_, err = AggregateDeductions(DeductionInput{
		BasicSalary: decimal.NewFromInt(-1),
		WorkingDays: 21,
		Setting:     deductionSetting(),
	})
	assert.ErrorIs(t, err, payroll.ErrNegativeInput)

	_, err = AggregateDeductions(DeductionInput{
		BasicSalary: decimal.NewFromInt(10_500_000),
		WorkingDays: 21,
		AbsenceDays: -2,
		Setting:     deductionSetting(),
	})
	assert.ErrorIs(t, err, payroll.ErrNegativeInput)
}
