package payroll

import (
	"fmt"
	"time"

	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/employee"
	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// AssemblerInput is the full snapshot one payslip computation reads.
// Everything is fetched up front; assembly itself is pure so the same
// input always yields the same payslip.
type AssemblerInput struct {
	Employee    employee.Employee
	PeriodMonth int
	PeriodYear  int
	Setting     payroll.PayrollSetting
	Attendance  payroll.AttendanceSummary
	Adjustments []payroll.PayrollAdjustment // approved rows only
	OvertimePay decimal.Decimal
	Holidays    []time.Time

	// CustomFactor, when set, overrides the configured proration method.
	CustomFactor *decimal.Decimal

	Tax *TaxCalculator
}

// AssemblePayroll runs the full calculation pipeline for one employee
// and one period and returns the unrounded-then-rounded payslip with
// its ordered breakdown rows. Intermediate amounts keep full decimal
// precision; rounding is applied exactly once, at the very end.
func AssemblePayroll(in AssemblerInput) (payroll.Payroll, error) {
	if in.Employee.BaseSalary == nil {
		return payroll.Payroll{}, fmt.Errorf("%w: employee %s", payroll.ErrEmployeeHasNoBaseSalary, in.Employee.ID)
	}
	baseSalary := *in.Employee.BaseSalary

	method := in.Setting.ProrationMethod
	if in.CustomFactor != nil {
		method = payroll.ProrationCustom
	}

	// Unpaid leave enters the calculation exactly once: through the day
	// count when proration counts days, through the deduction list when
	// a custom factor bypasses day counting.
	unpaidViaProration := in.Attendance.UnpaidLeaveDays
	unpaidViaDeduction := 0
	if method == payroll.ProrationCustom {
		unpaidViaProration = 0
		unpaidViaDeduction = in.Attendance.UnpaidLeaveDays
	}

	prorate, err := CalculateProration(ProrationInput{
		PeriodMonth:     in.PeriodMonth,
		PeriodYear:      in.PeriodYear,
		JoinDate:        in.Employee.HireDate,
		ResignDate:      in.Employee.ResignationDate,
		UnpaidLeaveDays: unpaidViaProration,
		Method:          method,
		Holidays:        in.Holidays,
		CustomFactor:    in.CustomFactor,
	})
	if err != nil {
		return payroll.Payroll{}, err
	}

	proratedBasic := baseSalary.Mul(prorate.Factor)

	// Earnings from approved adjustments. Taxable and BPJS-applicable
	// flags are carried per row so the downstream bases differ.
	var totalAllowances decimal.Decimal
	var earningDetails []payroll.PayrollDetail
	taxableEarnings := proratedBasic
	bpjsBase := proratedBasic
	for _, adj := range in.Adjustments {
		if adj.Status != payroll.AdjustmentApproved || !adj.Type.IsEarning() {
			continue
		}
		totalAllowances = totalAllowances.Add(adj.Amount)
		if adj.IsTaxable {
			taxableEarnings = taxableEarnings.Add(adj.Amount)
		}
		if adj.BPJSApplicable {
			bpjsBase = bpjsBase.Add(adj.Amount)
		}
		ref := adj.ID
		earningDetails = append(earningDetails, payroll.PayrollDetail{
			ComponentType:  payroll.ComponentEarning,
			ComponentName:  adj.Description,
			Amount:         adj.Amount,
			IsTaxable:      adj.IsTaxable,
			BPJSApplicable: adj.BPJSApplicable,
			ReferenceID:    &ref,
		})
	}

	overtime := in.OvertimePay
	taxableEarnings = taxableEarnings.Add(overtime)

	deductions, err := AggregateDeductions(DeductionInput{
		BasicSalary:     proratedBasic,
		WorkingDays:     in.Attendance.WorkingDays,
		AbsenceDays:     in.Attendance.AbsenceDays,
		LateMinutes:     in.Attendance.LateMinutes,
		LateDays:        in.Attendance.LateDays,
		UnpaidLeaveDays: unpaidViaDeduction,
		Adjustments:     in.Adjustments,
		Setting:         in.Setting,
	})
	if err != nil {
		return payroll.Payroll{}, err
	}

	empContrib, erContrib, err := CalculateContributions(bpjsBase, in.Setting)
	if err != nil {
		return payroll.Payroll{}, err
	}

	// Employee-side statutory contributions reduce the tax base.
	taxable := taxableEarnings.Sub(empContrib.Total())
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	tax, err := in.Tax.Calculate(taxable, in.Employee.PTKPStatus)
	if err != nil {
		return payroll.Payroll{}, err
	}

	gross := proratedBasic.Add(totalAllowances).Add(overtime).Add(tax.GrossAddition)

	netSalary := gross.Sub(empContrib.Total()).Sub(tax.EmployeeBorne)
	takeHome := netSalary.Sub(deductions.Total)
	employerCost := gross.Add(erContrib.Total()).Add(tax.EmployerBorne)

	p := payroll.Payroll{
		CompanyID:   in.Employee.CompanyID,
		EmployeeID:  in.Employee.ID,
		PeriodMonth: in.PeriodMonth,
		PeriodYear:  in.PeriodYear,

		BasicSalary:   proratedBasic,
		ProrateFactor: prorate.Factor,

		TotalAllowances: totalAllowances.Add(tax.GrossAddition),
		OvertimePay:     overtime,
		GrossSalary:     gross,

		TotalDeductions: deductions.Total,

		EmployeeContribution: empContrib.Total(),
		EmployerContribution: erContrib.Total(),

		TaxableIncome:  tax.TaxableIncome,
		TaxMethod:      tax.Method,
		TaxPayment:     in.Setting.TaxPaymentMethod,
		TERCategory:    tax.TERCategory,
		TERRate:        tax.TERRate,
		GrossUpInitial: tax.GrossUpInitial,
		FinalGrossUp:   tax.FinalGrossUp,
		TaxAmount:      tax.Tax,

		NetSalary:    netSalary,
		TakeHomePay:  takeHome,
		EmployerCost: employerCost,

		Status:  payroll.StatusDraft,
		Version: 1,
	}
	if prorate.IsProrated {
		reason := prorate.Reason
		p.ProrateReason = &reason
	}

	p.Details = buildDetails(in, p, earningDetails, deductions, empContrib, erContrib, tax)
	roundPayroll(&p, in.Setting)
	return p, nil
}

// buildDetails lays out the breakdown in payslip order: earnings, then
// deductions, then contributions, then tax.
func buildDetails(
	in AssemblerInput,
	p payroll.Payroll,
	earnings []payroll.PayrollDetail,
	deductions DeductionResult,
	empContrib EmployeeContributions,
	erContrib EmployerContributions,
	tax TaxResult,
) []payroll.PayrollDetail {
	var details []payroll.PayrollDetail
	add := func(d payroll.PayrollDetail) {
		d.Sequence = len(details) + 1
		details = append(details, d)
	}

	add(payroll.PayrollDetail{
		ComponentType:  payroll.ComponentEarning,
		ComponentName:  "Basic Salary",
		Amount:         p.BasicSalary,
		IsTaxable:      true,
		BPJSApplicable: true,
	})
	for _, e := range earnings {
		add(e)
	}
	if !p.OvertimePay.IsZero() {
		add(payroll.PayrollDetail{
			ComponentType: payroll.ComponentEarning,
			ComponentName: "Overtime Pay",
			Amount:        p.OvertimePay,
			IsTaxable:     true,
		})
	}
	if !tax.GrossAddition.IsZero() {
		add(payroll.PayrollDetail{
			ComponentType: payroll.ComponentEarning,
			ComponentName: "Tax Allowance (Gross Up)",
			Amount:        tax.GrossAddition,
			IsTaxable:     true,
		})
	}

	for _, d := range deductions.Items {
		src := d.Source
		add(payroll.PayrollDetail{
			ComponentType: payroll.ComponentDeduction,
			ComponentName: d.Name,
			Amount:        d.Amount,
			Source:        &src,
			ReferenceID:   d.ReferenceID,
		})
	}

	type contribRow struct {
		name   string
		amount decimal.Decimal
	}
	employeeRows := []contribRow{
		{"BPJS Health (Employee)", empContrib.Health},
		{"BPJS JHT (Employee)", empContrib.JHT},
		{"BPJS JP (Employee)", empContrib.JP},
	}
	employerRows := []contribRow{
		{"BPJS Health (Employer)", erContrib.Health},
		{"BPJS JHT (Employer)", erContrib.JHT},
		{"BPJS JP (Employer)", erContrib.JP},
		{"BPJS JKK (Employer)", erContrib.JKK},
		{"BPJS JKM (Employer)", erContrib.JKM},
	}
	for _, r := range employeeRows {
		if r.amount.IsZero() {
			continue
		}
		add(payroll.PayrollDetail{
			ComponentType: payroll.ComponentContribution,
			ComponentName: r.name,
			Amount:        r.amount,
		})
	}
	for _, r := range employerRows {
		if r.amount.IsZero() {
			continue
		}
		add(payroll.PayrollDetail{
			ComponentType: payroll.ComponentContribution,
			ComponentName: r.name,
			Amount:        r.amount,
		})
	}

	if !tax.Tax.IsZero() {
		name := "Income Tax (PPh 21)"
		if in.Setting.TaxPaymentMethod == payroll.TaxPaymentNet {
			name = "Income Tax (PPh 21, Company Borne)"
		}
		add(payroll.PayrollDetail{
			ComponentType: payroll.ComponentTax,
			ComponentName: name,
			Amount:        tax.Tax,
		})
	}
	return details
}

// roundPayroll applies the company rounding policy to every monetary
// field, once. Headline fields and breakdown rows are rounded with the
// same method and precision so the payslip stays internally consistent.
func roundPayroll(p *payroll.Payroll, s payroll.PayrollSetting) {
	r := func(v decimal.Decimal) decimal.Decimal { return roundAmount(v, s) }

	p.BasicSalary = r(p.BasicSalary)
	p.TotalAllowances = r(p.TotalAllowances)
	p.OvertimePay = r(p.OvertimePay)
	p.GrossSalary = r(p.GrossSalary)
	p.TotalDeductions = r(p.TotalDeductions)
	p.EmployeeContribution = r(p.EmployeeContribution)
	p.EmployerContribution = r(p.EmployerContribution)
	p.TaxableIncome = r(p.TaxableIncome)
	p.TaxAmount = r(p.TaxAmount)
	p.NetSalary = r(p.NetSalary)
	p.TakeHomePay = r(p.TakeHomePay)
	p.EmployerCost = r(p.EmployerCost)
	if p.GrossUpInitial != nil {
		v := r(*p.GrossUpInitial)
		p.GrossUpInitial = &v
	}
	if p.FinalGrossUp != nil {
		v := r(*p.FinalGrossUp)
		p.FinalGrossUp = &v
	}
	for i := range p.Details {
		p.Details[i].Amount = r(p.Details[i].Amount)
	}
}

func roundAmount(v decimal.Decimal, s payroll.PayrollSetting) decimal.Decimal {
	switch s.RoundingMethod {
	case payroll.RoundingFloor:
		return v.RoundFloor(s.RoundingPrecision)
	case payroll.RoundingCeil:
		return v.RoundCeil(s.RoundingPrecision)
	default:
		return v.Round(s.RoundingPrecision)
	}
}

// DetailsMatch reports whether a frozen breakdown still matches a fresh
// recomputation. Used before submission to detect configuration drift
// between validation and submission.
func DetailsMatch(frozen, recomputed []payroll.PayrollDetail) bool {
	if len(frozen) != len(recomputed) {
		return false
	}
	for i := range frozen {
		f, r := frozen[i], recomputed[i]
		if f.ComponentType != r.ComponentType || f.ComponentName != r.ComponentName || !f.Amount.Equal(r.Amount) {
			return false
		}
	}
	return true
}
