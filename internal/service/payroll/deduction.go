package payroll

import (
	"fmt"

	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// DeductionInput aggregates the heterogeneous deduction sources for one
// employee and period. Lateness arrives as total minutes or whole late
// days depending on company configuration, never both.
type DeductionInput struct {
	BasicSalary     decimal.Decimal
	WorkingDays     int
	AbsenceDays     int
	LateMinutes     int
	LateDays        int
	UnpaidLeaveDays int
	Adjustments     []payroll.PayrollAdjustment // approved rows for the period
	Setting         payroll.PayrollSetting
}

// DeductionItem is one itemized deduction, tagged with its source and an
// optional reference back to the originating record for auditability.
type DeductionItem struct {
	Source      payroll.DeductionSource
	Name        string
	Amount      decimal.Decimal
	ReferenceID *string
}

type DeductionResult struct {
	Items []DeductionItem
	Total decimal.Decimal
}

// AggregateDeductions converts attendance exceptions, unpaid leave and
// approved adjustments into monetary deductions. Amounts keep full
// precision here; rounding happens once, in the assembler.
func AggregateDeductions(in DeductionInput) (DeductionResult, error) {
	if in.WorkingDays <= 0 {
		return DeductionResult{}, payroll.ErrZeroWorkingDays
	}
	if in.BasicSalary.IsNegative() {
		return DeductionResult{}, fmt.Errorf("%w: basic salary", payroll.ErrNegativeInput)
	}
	if in.AbsenceDays < 0 || in.LateMinutes < 0 || in.LateDays < 0 || in.UnpaidLeaveDays < 0 {
		return DeductionResult{}, fmt.Errorf("%w: attendance counts", payroll.ErrNegativeInput)
	}
	if in.LateMinutes > 0 && in.LateDays > 0 {
		return DeductionResult{}, payroll.ErrAmbiguousLateness
	}

	dailyRate := in.BasicSalary.Div(decimal.NewFromInt(int64(in.WorkingDays)))

	var result DeductionResult

	if in.AbsenceDays > 0 {
		amount := decimal.NewFromInt(int64(in.AbsenceDays)).
			Mul(dailyRate).
			Mul(in.Setting.AbsenceDeductionRate)
		result.Items = append(result.Items, DeductionItem{
			Source: payroll.DeductionAbsence,
			Name:   fmt.Sprintf("Absence (%d days)", in.AbsenceDays),
			Amount: amount,
		})
	}

	if late := lateDeduction(in); !late.Amount.IsZero() {
		result.Items = append(result.Items, late)
	}

	if in.UnpaidLeaveDays > 0 {
		amount := decimal.NewFromInt(int64(in.UnpaidLeaveDays)).Mul(dailyRate)
		result.Items = append(result.Items, DeductionItem{
			Source: payroll.DeductionLeave,
			Name:   fmt.Sprintf("Unpaid leave (%d days)", in.UnpaidLeaveDays),
			Amount: amount,
		})
	}

	// Loan/advance/penalty deductions come verbatim from approved
	// adjustment rows, keeping the reference id for the audit trail.
	for _, adj := range in.Adjustments {
		if adj.Status != payroll.AdjustmentApproved || adj.Type.IsEarning() {
			continue
		}
		ref := adj.ID
		result.Items = append(result.Items, DeductionItem{
			Source:      adjustmentSource(adj.Type),
			Name:        adj.Description,
			Amount:      adj.Amount,
			ReferenceID: &ref,
		})
	}

	for _, item := range result.Items {
		result.Total = result.Total.Add(item.Amount)
	}
	return result, nil
}

func lateDeduction(in DeductionInput) DeductionItem {
	s := in.Setting
	switch s.LateDeductionMode {
	case payroll.LatePerDay:
		if in.LateDays == 0 {
			return DeductionItem{}
		}
		return DeductionItem{
			Source: payroll.DeductionLate,
			Name:   fmt.Sprintf("Lateness (%d days)", in.LateDays),
			Amount: decimal.NewFromInt(int64(in.LateDays)).Mul(s.LateDeductionRate),
		}
	default: // per minute, charged only on the excess over the grace window
		excess := in.LateMinutes - s.LateToleranceMinutes
		if excess <= 0 {
			return DeductionItem{}
		}
		return DeductionItem{
			Source: payroll.DeductionLate,
			Name:   fmt.Sprintf("Lateness (%d minutes over tolerance)", excess),
			Amount: decimal.NewFromInt(int64(excess)).Mul(s.LateDeductionRate),
		}
	}
}

func adjustmentSource(t payroll.AdjustmentType) payroll.DeductionSource {
	switch t {
	case payroll.AdjustmentLoan:
		return payroll.DeductionLoan
	case payroll.AdjustmentAdvance:
		return payroll.DeductionAdvance
	case payroll.AdjustmentPenalty:
		return payroll.DeductionPenalty
	default:
		return payroll.DeductionOther
	}
}
