package payroll

import (
	"testing"
	"time"

	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/employee"
	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/payroll"
	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/fixtures"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEmployee() employee.Employee {
	salary := decimal.NewFromInt(10_000_000)
	return employee.Employee{
		ID:               "emp-1",
		CompanyID:        "company-1",
		EmployeeCode:     "EMP001",
		FullName:         "Budi Santoso",
		PTKPStatus:       "TK/0",
		HireDate:         date(2020, time.January, 1),
		EmploymentStatus: employee.EmploymentStatusActive,
		BaseSalary:       &salary,
	}
}

func assemblerInput(mutate func(*payroll.PayrollSetting)) AssemblerInput {
	setting := fixtures.DefaultPayrollSetting("company-1")
	setting.LateDeductionRate = decimal.NewFromInt(5_000)
	if mutate != nil {
		mutate(&setting)
	}
	return AssemblerInput{
		Employee:    testEmployee(),
		PeriodMonth: 6,
		PeriodYear:  2025,
		Setting:     setting,
		Attendance: payroll.AttendanceSummary{
			EmployeeID:  "emp-1",
			WorkingDays: 21,
			AbsenceDays: 2,
			LateMinutes: 30,
		},
		Tax: NewTaxCalculator(setting, fixtures.DefaultPTKPEntries(), fixtures.DefaultTERBands(), fixtures.DefaultTaxBrackets()),
	}
}

func TestAssemblePayroll_WorkedExample(t *testing.T) {
	p, err := AssemblePayroll(assemblerInput(nil))
	require.NoError(t, err)

	// Full period: no proration. Daily rate 476,190.48; two absence
	// days plus 15 late minutes over tolerance make 1,027,381 in
	// deductions after rounding.
	assert.True(t, p.BasicSalary.Equal(decimal.NewFromInt(10_000_000)))
	assert.True(t, p.ProrateFactor.Equal(decimal.NewFromInt(1)))
	assert.Nil(t, p.ProrateReason)
	assert.True(t, p.GrossSalary.Equal(decimal.NewFromInt(10_000_000)))
	assert.True(t, p.TotalDeductions.Equal(decimal.NewFromInt(1_027_381)))

	// Employee contributions 400,000 reduce the tax base to 9,600,000,
	// which lands in the category A 1.75% band.
	assert.True(t, p.EmployeeContribution.Equal(decimal.NewFromInt(400_000)))
	assert.True(t, p.EmployerContribution.Equal(decimal.NewFromInt(1_024_000)))
	assert.True(t, p.TaxableIncome.Equal(decimal.NewFromInt(9_600_000)))
	assert.Equal(t, "ter", p.TaxMethod)
	require.NotNil(t, p.TERCategory)
	assert.Equal(t, payroll.TERCategoryA, *p.TERCategory)
	require.NotNil(t, p.TERRate)
	assert.True(t, p.TERRate.Equal(decimal.RequireFromString("0.0175")))
	assert.True(t, p.TaxAmount.Equal(decimal.NewFromInt(168_000)))

	assert.True(t, p.NetSalary.Equal(decimal.NewFromInt(9_432_000)))
	assert.True(t, p.TakeHomePay.Equal(decimal.NewFromInt(8_404_619)))
	assert.True(t, p.EmployerCost.Equal(decimal.NewFromInt(11_024_000)))

	assert.Equal(t, payroll.StatusDraft, p.Status)
	assert.Equal(t, int64(1), p.Version)
}

func TestAssemblePayroll_DetailOrderAndRounding(t *testing.T) {
	p, err := AssemblePayroll(assemblerInput(nil))
	require.NoError(t, err)

	names := make([]string, len(p.Details))
	for i, d := range p.Details {
		names[i] = d.ComponentName
		assert.Equal(t, i+1, d.Sequence)
		// Every stored amount is already rounded to the configured
		// precision.
		assert.True(t, d.Amount.Equal(d.Amount.Round(0)), "%s not rounded: %s", d.ComponentName, d.Amount)
	}

	assert.Equal(t, []string{
		"Basic Salary",
		"Absence (2 days)",
		"Lateness (15 minutes over tolerance)",
		"BPJS Health (Employee)",
		"BPJS JHT (Employee)",
		"BPJS JP (Employee)",
		"BPJS Health (Employer)",
		"BPJS JHT (Employer)",
		"BPJS JP (Employer)",
		"BPJS JKK (Employer)",
		"BPJS JKM (Employer)",
		"Income Tax (PPh 21)",
	}, names)

	// The absence row keeps full precision until the final rounding pass.
	assert.True(t, p.Details[1].Amount.Equal(decimal.NewFromInt(952_381)))
	require.NotNil(t, p.Details[1].Source)
	assert.Equal(t, payroll.DeductionAbsence, *p.Details[1].Source)
}

func TestAssemblePayroll_AdjustmentEarnings(t *testing.T) {
	in := assemblerInput(nil)
	in.Adjustments = []payroll.PayrollAdjustment{
		{
			ID:          "adj-1",
			Type:        payroll.AdjustmentBonus,
			Description: "Performance bonus",
			Amount:      decimal.NewFromInt(2_000_000),
			IsTaxable:   true,
			Status:      payroll.AdjustmentApproved,
		},
		{
			ID:          "adj-2",
			Type:        payroll.AdjustmentReimbursement,
			Description: "Travel reimbursement",
			Amount:      decimal.NewFromInt(300_000),
			IsTaxable:   false,
			Status:      payroll.AdjustmentApproved,
		},
	}

	p, err := AssemblePayroll(in)
	require.NoError(t, err)

	assert.True(t, p.TotalAllowances.Equal(decimal.NewFromInt(2_300_000)))
	assert.True(t, p.GrossSalary.Equal(decimal.NewFromInt(12_300_000)))

	// Only the taxable bonus enters the tax base: 10,000,000 + 2,000,000
	// - 400,000 = 11,600,000, category A 4% band.
	assert.True(t, p.TaxableIncome.Equal(decimal.NewFromInt(11_600_000)))
	assert.True(t, p.TaxAmount.Equal(decimal.NewFromInt(464_000)))

	// Earnings rows keep the reference back to the adjustment.
	require.NotNil(t, p.Details[1].ReferenceID)
	assert.Equal(t, "adj-1", *p.Details[1].ReferenceID)
	assert.Equal(t, "Performance bonus", p.Details[1].ComponentName)
}

func TestAssemblePayroll_OvertimeIsTaxable(t *testing.T) {
	in := assemblerInput(nil)
	in.Attendance.AbsenceDays = 0
	in.Attendance.LateMinutes = 0
	in.OvertimePay = decimal.NewFromInt(500_000)

	p, err := AssemblePayroll(in)
	require.NoError(t, err)

	assert.True(t, p.OvertimePay.Equal(decimal.NewFromInt(500_000)))
	assert.True(t, p.GrossSalary.Equal(decimal.NewFromInt(10_500_000)))
	// 10,500,000 + 500,000... tax base is 10,500,000 - 400,000.
	assert.True(t, p.TaxableIncome.Equal(decimal.NewFromInt(10_100_000)))

	var found bool
	for _, d := range p.Details {
		if d.ComponentName == "Overtime Pay" {
			found = true
			assert.Equal(t, payroll.ComponentEarning, d.ComponentType)
		}
	}
	assert.True(t, found)
}

func TestAssemblePayroll_NetConvention(t *testing.T) {
	p, err := AssemblePayroll(assemblerInput(func(s *payroll.PayrollSetting) {
		s.TaxPaymentMethod = payroll.TaxPaymentNet
	}))
	require.NoError(t, err)

	// Tax is not withheld: net pay only loses the employee
	// contributions, the employer cost picks up the tax.
	assert.True(t, p.NetSalary.Equal(decimal.NewFromInt(9_600_000)))
	assert.True(t, p.EmployerCost.Equal(decimal.NewFromInt(11_192_000)))

	last := p.Details[len(p.Details)-1]
	assert.Equal(t, "Income Tax (PPh 21, Company Borne)", last.ComponentName)
}

func TestAssemblePayroll_GrossUpConvention(t *testing.T) {
	in := assemblerInput(func(s *payroll.PayrollSetting) {
		s.TaxPaymentMethod = payroll.TaxPaymentGrossUp
	})
	in.Attendance.AbsenceDays = 0
	in.Attendance.LateMinutes = 0

	p, err := AssemblePayroll(in)
	require.NoError(t, err)

	require.NotNil(t, p.FinalGrossUp)
	allowance := *p.FinalGrossUp
	assert.True(t, allowance.IsPositive())

	// The allowance shows up as an earning row and inside both
	// gross salary and total allowances.
	assert.True(t, p.TotalAllowances.Equal(allowance))
	assert.True(t, p.GrossSalary.Equal(decimal.NewFromInt(10_000_000).Add(allowance)))

	var found bool
	for _, d := range p.Details {
		if d.ComponentName == "Tax Allowance (Gross Up)" {
			found = true
			assert.True(t, d.Amount.Equal(allowance))
		}
	}
	assert.True(t, found)

	// The employee is made whole: tax withheld equals the allowance
	// granted, so net pay matches the no-tax case.
	assert.True(t, p.TaxAmount.Equal(allowance))
	assert.True(t, p.NetSalary.Equal(decimal.NewFromInt(9_600_000)))
}

func TestAssemblePayroll_CustomFactorMovesUnpaidLeaveToDeductions(t *testing.T) {
	in := assemblerInput(nil)
	in.Attendance.AbsenceDays = 0
	in.Attendance.LateMinutes = 0
	in.Attendance.UnpaidLeaveDays = 2
	factor := decimal.NewFromInt(1)
	in.CustomFactor = &factor

	p, err := AssemblePayroll(in)
	require.NoError(t, err)

	// With a caller-supplied factor the day count is bypassed, so the
	// unpaid leave lands in the deduction list instead.
	assert.True(t, p.BasicSalary.Equal(decimal.NewFromInt(10_000_000)))

	var found bool
	for _, d := range p.Details {
		if d.ComponentName == "Unpaid leave (2 days)" {
			found = true
			assert.True(t, d.Amount.Equal(decimal.NewFromInt(952_381)))
		}
	}
	assert.True(t, found)
}

func TestAssemblePayroll_UnpaidLeaveViaProrationOnly(t *testing.T) {
	in := assemblerInput(nil)
	in.Attendance.AbsenceDays = 0
	in.Attendance.LateMinutes = 0
	in.Attendance.UnpaidLeaveDays = 2

	p, err := AssemblePayroll(in)
	require.NoError(t, err)

	// Day counting already reduced the basic salary; no second hit in
	// the deduction list.
	assert.True(t, p.ProrateFactor.Equal(decimal.NewFromInt(19).Div(decimal.NewFromInt(21))))
	assert.True(t, p.TotalDeductions.IsZero())
	require.NotNil(t, p.ProrateReason)
	assert.Equal(t, "unpaid leave", *p.ProrateReason)
}

func TestAssemblePayroll_MissingBaseSalary(t *testing.T) {
	in := assemblerInput(nil)
	in.Employee.BaseSalary = nil

	_, err := AssemblePayroll(in)
	assert.ErrorIs(t, err, payroll.ErrEmployeeHasNoBaseSalary)
}

func TestDetailsMatch(t *testing.T) {
	in := assemblerInput(nil)

	first, err := AssemblePayroll(in)
	require.NoError(t, err)
	second, err := AssemblePayroll(in)
	require.NoError(t, err)

	assert.True(t, DetailsMatch(first.Details, second.Details))

	// A configuration change between validation and submission must be
	// detected.
	drifted := assemblerInput(func(s *payroll.PayrollSetting) {
		s.LateDeductionRate = decimal.NewFromInt(10_000)
	})
	third, err := AssemblePayroll(drifted)
	require.NoError(t, err)
	assert.False(t, DetailsMatch(first.Details, third.Details))
}
