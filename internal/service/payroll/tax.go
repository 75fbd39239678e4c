package payroll

import (
	"fmt"
	"sort"

	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Occupational cost deduction for the progressive method: 5% of gross,
// capped per month (biaya jabatan).
var (
	occupationalCostRate = decimal.NewFromFloat(0.05)
	occupationalCostCap  = decimal.NewFromInt(500_000)
	twelve               = decimal.NewFromInt(12)
)

const grossUpMaxIterations = 20

// TaxCalculator computes monthly income tax. The method (withholding
// rate table vs. progressive brackets) is fixed per company, never per
// payslip, so the calculator is built once per company and reused.
type TaxCalculator struct {
	setting  payroll.PayrollSetting
	ptkp     map[string]payroll.PTKPEntry
	terBands []payroll.TaxConfiguration
	brackets []payroll.TaxBracket
}

func NewTaxCalculator(
	setting payroll.PayrollSetting,
	ptkpEntries []payroll.PTKPEntry,
	terBands []payroll.TaxConfiguration,
	brackets []payroll.TaxBracket,
) *TaxCalculator {
	ptkp := make(map[string]payroll.PTKPEntry, len(ptkpEntries))
	for _, e := range ptkpEntries {
		ptkp[e.StatusCode] = e
	}

	sortedBands := make([]payroll.TaxConfiguration, len(terBands))
	copy(sortedBands, terBands)
	sort.Slice(sortedBands, func(i, j int) bool {
		return sortedBands[i].IncomeLower.LessThan(sortedBands[j].IncomeLower)
	})

	sortedBrackets := make([]payroll.TaxBracket, len(brackets))
	copy(sortedBrackets, brackets)
	sort.Slice(sortedBrackets, func(i, j int) bool {
		return sortedBrackets[i].LowerBound.LessThan(sortedBrackets[j].LowerBound)
	})

	return &TaxCalculator{
		setting:  setting,
		ptkp:     ptkp,
		terBands: sortedBands,
		brackets: sortedBrackets,
	}
}

// TaxResult carries the computed tax plus the method metadata the
// payslip records for audit.
type TaxResult struct {
	Method        string // "ter" or "progressive"
	TaxableIncome decimal.Decimal
	Tax           decimal.Decimal

	TERCategory *payroll.TERCategory
	TERRate     *decimal.Decimal

	GrossUpInitial *decimal.Decimal
	FinalGrossUp   *decimal.Decimal

	// How the tax lands on the payslip, per payment convention.
	EmployeeBorne decimal.Decimal // withheld from the employee
	EmployerBorne decimal.Decimal // added to employer cost only
	GrossAddition decimal.Decimal // gross-up allowance added to gross pay
}

// Calculate resolves the monthly tax for a taxable income and a
// dependent-status code, applying the company's payment convention.
func (c *TaxCalculator) Calculate(monthlyTaxable decimal.Decimal, ptkpStatus string) (TaxResult, error) {
	if monthlyTaxable.IsNegative() {
		return TaxResult{}, fmt.Errorf("%w: taxable income", payroll.ErrNegativeInput)
	}

	entry, ok := c.ptkp[ptkpStatus]
	if !ok {
		return TaxResult{}, fmt.Errorf("%w: %q", payroll.ErrMissingPTKPEntry, ptkpStatus)
	}

	res, err := c.monthlyTax(monthlyTaxable, entry)
	if err != nil {
		return TaxResult{}, err
	}

	switch c.setting.TaxPaymentMethod {
	case payroll.TaxPaymentNet:
		// Company bears the tax: net salary is the contractual figure,
		// the tax shows up only as employer cost.
		res.EmployerBorne = res.Tax
	case payroll.TaxPaymentGrossUp:
		if err := c.grossUp(&res, monthlyTaxable, entry); err != nil {
			return TaxResult{}, err
		}
	default: // gross
		res.EmployeeBorne = res.Tax
	}
	return res, nil
}

// monthlyTax dispatches on the company-level method flag.
func (c *TaxCalculator) monthlyTax(income decimal.Decimal, entry payroll.PTKPEntry) (TaxResult, error) {
	if c.setting.UseTERMethod {
		return c.terTax(income, entry)
	}
	return c.progressiveTax(income, entry)
}

// terTax is the period-local withholding-table path: one band lookup,
// no running annual total.
func (c *TaxCalculator) terTax(income decimal.Decimal, entry payroll.PTKPEntry) (TaxResult, error) {
	category := entry.TERCategory
	for _, band := range c.terBands {
		if band.Category != category {
			continue
		}
		if income.LessThan(band.IncomeLower) {
			continue
		}
		if band.IncomeUpper != nil && income.GreaterThanOrEqual(*band.IncomeUpper) {
			continue
		}
		rate := band.Rate
		return TaxResult{
			Method:        "ter",
			TaxableIncome: income,
			Tax:           income.Mul(rate),
			TERCategory:   &category,
			TERRate:       &rate,
		}, nil
	}
	return TaxResult{}, fmt.Errorf("%w: category %s, income %s", payroll.ErrMissingTERRate, category, income)
}

// progressiveTax annualizes the monthly income, walks the bracket
// schedule and divides the annual liability back to a monthly figure.
func (c *TaxCalculator) progressiveTax(income decimal.Decimal, entry payroll.PTKPEntry) (TaxResult, error) {
	if len(c.brackets) == 0 {
		return TaxResult{}, payroll.ErrNoTaxBrackets
	}

	occCost := decimal.Min(income.Mul(occupationalCostRate), occupationalCostCap)
	annual := income.Sub(occCost).Mul(twelve)
	taxableAnnual := annual.Sub(entry.AnnualThreshold)

	res := TaxResult{Method: "progressive", TaxableIncome: income}
	if taxableAnnual.LessThanOrEqual(decimal.Zero) {
		return res, nil
	}

	var annualTax decimal.Decimal
	for _, b := range c.brackets {
		if taxableAnnual.LessThanOrEqual(b.LowerBound) {
			break
		}
		upper := taxableAnnual
		if b.UpperBound != nil {
			upper = decimal.Min(taxableAnnual, *b.UpperBound)
		}
		portion := upper.Sub(b.LowerBound)
		if portion.IsPositive() {
			annualTax = annualTax.Add(portion.Mul(b.Rate))
		}
	}

	res.Tax = annualTax.Div(twelve)
	return res, nil
}

// grossUp solves for the taxable allowance that covers the tax on the
// grossed-up pay. Fixed-point iteration is used instead of the closed
// form because the allowance can push the income into a higher band,
// shifting the applicable rate: allowance(n+1) = tax(base + allowance(n)).
// Convergence tolerance follows the company's rounding precision.
func (c *TaxCalculator) grossUp(res *TaxResult, baseIncome decimal.Decimal, entry payroll.PTKPEntry) error {
	tolerance := decimal.New(1, -c.setting.RoundingPrecision)

	initial := res.Tax
	allowance := initial
	var final TaxResult
	converged := false

	for i := 0; i < grossUpMaxIterations; i++ {
		next, err := c.monthlyTax(baseIncome.Add(allowance), entry)
		if err != nil {
			return err
		}
		diff := next.Tax.Sub(allowance).Abs()
		final = next
		if diff.LessThanOrEqual(tolerance) {
			allowance = next.Tax
			converged = true
			break
		}
		allowance = next.Tax
	}
	if !converged {
		return payroll.ErrGrossUpNotConverged
	}

	*res = final
	res.GrossUpInitial = &initial
	res.FinalGrossUp = &allowance
	res.GrossAddition = allowance
	res.EmployeeBorne = final.Tax
	return nil
}
