package payroll

import (
	"fmt"
	"time"

	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// ProrationInput carries everything the proration calculation needs.
// The pay period, employee window and holiday list are explicit inputs
// so the calculation is deterministic and replayable.
type ProrationInput struct {
	PeriodMonth     int
	PeriodYear      int
	JoinDate        time.Time
	ResignDate      *time.Time
	UnpaidLeaveDays int
	Method          payroll.ProrationMethod
	Holidays        []time.Time
	CustomFactor    *decimal.Decimal // required when Method is custom
}

type ProrationResult struct {
	IsProrated bool
	Factor     decimal.Decimal // always within [0,1]
	ActualDays int
	TotalDays  int
	Reason     string
}

var one = decimal.NewFromInt(1)

// CalculateProration computes the fraction of the pay period the
// employee is entitled to be paid for.
func CalculateProration(in ProrationInput) (ProrationResult, error) {
	if in.PeriodMonth < 1 || in.PeriodMonth > 12 {
		return ProrationResult{}, payroll.ErrInvalidPeriod
	}
	if in.UnpaidLeaveDays < 0 {
		return ProrationResult{}, fmt.Errorf("%w: unpaid leave days", payroll.ErrNegativeInput)
	}

	// Explicit escape hatch for manual correction: the caller-supplied
	// factor bypasses day counting entirely.
	if in.Method == payroll.ProrationCustom {
		if in.CustomFactor == nil {
			return ProrationResult{}, fmt.Errorf("%w: custom proration requires a factor", payroll.ErrCustomFactorRange)
		}
		f := *in.CustomFactor
		if f.IsNegative() || f.GreaterThan(one) {
			return ProrationResult{}, payroll.ErrCustomFactorRange
		}
		return ProrationResult{
			IsProrated: !f.Equal(one),
			Factor:     f,
			Reason:     "custom factor",
		}, nil
	}

	periodStart := time.Date(in.PeriodYear, time.Month(in.PeriodMonth), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, -1)

	totalDays := countEligibleDays(periodStart, periodEnd, in.Method, in.Holidays)
	if totalDays == 0 {
		return ProrationResult{}, payroll.ErrZeroTotalDays
	}

	// Clip the employee's active window to the period bounds. Joining
	// and resigning within the same period clips both sides.
	windowStart := periodStart
	if in.JoinDate.After(windowStart) {
		windowStart = in.JoinDate
	}
	windowEnd := periodEnd
	if in.ResignDate != nil && in.ResignDate.Before(windowEnd) {
		windowEnd = *in.ResignDate
	}

	actualDays := 0
	if !windowStart.After(windowEnd) {
		actualDays = countEligibleDays(windowStart, windowEnd, in.Method, in.Holidays)
	}
	actualDays -= in.UnpaidLeaveDays
	if actualDays < 0 {
		actualDays = 0
	}
	if actualDays > totalDays {
		actualDays = totalDays
	}

	factor := decimal.NewFromInt(int64(actualDays)).Div(decimal.NewFromInt(int64(totalDays)))
	if factor.GreaterThan(one) {
		factor = one
	}

	res := ProrationResult{
		IsProrated: actualDays < totalDays,
		Factor:     factor,
		ActualDays: actualDays,
		TotalDays:  totalDays,
	}
	if res.IsProrated {
		res.Reason = prorationReason(in, periodStart, periodEnd)
	}
	return res, nil
}

func countEligibleDays(from, to time.Time, method payroll.ProrationMethod, holidays []time.Time) int {
	holidaySet := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		holidaySet[h.Format("2006-01-02")] = struct{}{}
	}

	days := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if method == payroll.ProrationWorkingDays {
			if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
				continue
			}
			if _, ok := holidaySet[d.Format("2006-01-02")]; ok {
				continue
			}
		}
		days++
	}
	return days
}

func prorationReason(in ProrationInput, periodStart, periodEnd time.Time) string {
	switch {
	case in.JoinDate.After(periodStart) && in.ResignDate != nil && in.ResignDate.Before(periodEnd):
		return "joined and resigned within period"
	case in.JoinDate.After(periodStart):
		return "joined mid-period"
	case in.ResignDate != nil && in.ResignDate.Before(periodEnd):
		return "resigned mid-period"
	case in.UnpaidLeaveDays > 0:
		return "unpaid leave"
	default:
		return "partial period"
	}
}
