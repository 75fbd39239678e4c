package fixtures

import (
	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// ==========================================
// DEFAULT PAYROLL SETTING
// ==========================================

// DefaultPayrollSetting returns the statutory 2024 rates a new company
// starts from. Rates are fractions, caps are monthly IDR amounts.
func DefaultPayrollSetting(companyID string) payroll.PayrollSetting {
	return payroll.PayrollSetting{
		CompanyID: companyID,

		HealthEmployeeRate: pct("1"),
		HealthEmployerRate: pct("4"),
		HealthSalaryCap:    idr(12_000_000),

		JHTEmployeeRate: pct("2"),
		JHTEmployerRate: pct("3.7"),
		JPEmployeeRate:  pct("1"),
		JPEmployerRate:  pct("2"),
		JPSalaryCap:     idr(10_042_300),
		JKKEmployerRate: pct("0.24"),
		JKMEmployerRate: pct("0.3"),

		UseTERMethod:     true,
		TaxPaymentMethod: payroll.TaxPaymentGross,

		AbsenceDeductionRate: decimal.NewFromInt(1),
		LateDeductionMode:    payroll.LatePerMinute,
		LateDeductionRate:    decimal.Zero,
		LateToleranceMinutes: 15,

		OvertimeMultiplier: decimal.RequireFromString("1.5"),

		ProrationMethod:   payroll.ProrationWorkingDays,
		PayrollCutoffDay:  20,
		PaymentDay:        25,
		Currency:          "IDR",
		RoundingMethod:    payroll.RoundingNearest,
		RoundingPrecision: 0,

		IsActive: true,
	}
}

// ==========================================
// PTKP TABLE
// ==========================================

// DefaultPTKPEntries returns the annual non-taxable thresholds per
// dependent-status code and the withholding-table category each status
// maps to.
func DefaultPTKPEntries() []payroll.PTKPEntry {
	entry := func(code string, annual int64, cat payroll.TERCategory) payroll.PTKPEntry {
		return payroll.PTKPEntry{
			StatusCode:      code,
			AnnualThreshold: idr(annual),
			TERCategory:     cat,
		}
	}
	return []payroll.PTKPEntry{
		entry("TK/0", 54_000_000, payroll.TERCategoryA),
		entry("TK/1", 58_500_000, payroll.TERCategoryA),
		entry("TK/2", 63_000_000, payroll.TERCategoryB),
		entry("TK/3", 67_500_000, payroll.TERCategoryB),
		entry("K/0", 58_500_000, payroll.TERCategoryA),
		entry("K/1", 63_000_000, payroll.TERCategoryB),
		entry("K/2", 67_500_000, payroll.TERCategoryB),
		entry("K/3", 72_000_000, payroll.TERCategoryC),
	}
}

// ==========================================
// TER WITHHOLDING TABLE
// ==========================================

// DefaultTERBands returns the monthly withholding-rate table. Bands are
// half-open [lower, upper); the last band of each category is open-ended.
func DefaultTERBands() []payroll.TaxConfiguration {
	var rows []payroll.TaxConfiguration
	band := func(cat payroll.TERCategory, lower, upper int64, ratePercent string) {
		row := payroll.TaxConfiguration{
			Category:    cat,
			IncomeLower: idr(lower),
			Rate:        pct(ratePercent),
		}
		if upper > 0 {
			u := idr(upper)
			row.IncomeUpper = &u
		}
		rows = append(rows, row)
	}

	a := payroll.TERCategoryA
	band(a, 0, 5_400_000, "0")
	band(a, 5_400_000, 5_650_000, "0.25")
	band(a, 5_650_000, 5_950_000, "0.5")
	band(a, 5_950_000, 6_300_000, "0.75")
	band(a, 6_300_000, 6_750_000, "1")
	band(a, 6_750_000, 7_500_000, "1.25")
	band(a, 7_500_000, 8_550_000, "1.5")
	band(a, 8_550_000, 9_650_000, "1.75")
	band(a, 9_650_000, 10_050_000, "2")
	band(a, 10_050_000, 10_350_000, "2.25")
	band(a, 10_350_000, 10_700_000, "2.5")
	band(a, 10_700_000, 11_050_000, "3")
	band(a, 11_050_000, 11_600_000, "3.5")
	band(a, 11_600_000, 12_500_000, "4")
	band(a, 12_500_000, 13_750_000, "5")
	band(a, 13_750_000, 15_100_000, "6")
	band(a, 15_100_000, 16_950_000, "7")
	band(a, 16_950_000, 19_750_000, "8")
	band(a, 19_750_000, 24_150_000, "9")
	band(a, 24_150_000, 26_450_000, "10")
	band(a, 26_450_000, 28_000_000, "11")
	band(a, 28_000_000, 30_050_000, "12")
	band(a, 30_050_000, 32_400_000, "13")
	band(a, 32_400_000, 35_400_000, "14")
	band(a, 35_400_000, 39_100_000, "15")
	band(a, 39_100_000, 43_850_000, "16")
	band(a, 43_850_000, 47_800_000, "17")
	band(a, 47_800_000, 51_400_000, "18")
	band(a, 51_400_000, 56_300_000, "19")
	band(a, 56_300_000, 62_200_000, "20")
	band(a, 62_200_000, 68_600_000, "21")
	band(a, 68_600_000, 77_500_000, "22")
	band(a, 77_500_000, 89_000_000, "23")
	band(a, 89_000_000, 103_000_000, "24")
	band(a, 103_000_000, 125_000_000, "25")
	band(a, 125_000_000, 157_000_000, "26")
	band(a, 157_000_000, 206_000_000, "27")
	band(a, 206_000_000, 337_000_000, "28")
	band(a, 337_000_000, 454_000_000, "29")
	band(a, 454_000_000, 550_000_000, "30")
	band(a, 550_000_000, 695_000_000, "31")
	band(a, 695_000_000, 910_000_000, "32")
	band(a, 910_000_000, 1_400_000_000, "33")
	band(a, 1_400_000_000, 0, "34")

	b := payroll.TERCategoryB
	band(b, 0, 6_200_000, "0")
	band(b, 6_200_000, 6_500_000, "0.25")
	band(b, 6_500_000, 6_850_000, "0.5")
	band(b, 6_850_000, 7_300_000, "0.75")
	band(b, 7_300_000, 9_200_000, "1")
	band(b, 9_200_000, 10_750_000, "1.5")
	band(b, 10_750_000, 11_250_000, "2")
	band(b, 11_250_000, 11_600_000, "2.5")
	band(b, 11_600_000, 12_600_000, "3")
	band(b, 12_600_000, 13_600_000, "4")
	band(b, 13_600_000, 14_950_000, "5")
	band(b, 14_950_000, 16_400_000, "6")
	band(b, 16_400_000, 18_450_000, "7")
	band(b, 18_450_000, 21_850_000, "8")
	band(b, 21_850_000, 26_000_000, "9")
	band(b, 26_000_000, 27_700_000, "10")
	band(b, 27_700_000, 29_350_000, "11")
	band(b, 29_350_000, 31_450_000, "12")
	band(b, 31_450_000, 33_950_000, "13")
	band(b, 33_950_000, 37_100_000, "14")
	band(b, 37_100_000, 41_100_000, "15")
	band(b, 41_100_000, 45_800_000, "16")
	band(b, 45_800_000, 49_500_000, "17")
	band(b, 49_500_000, 53_800_000, "18")
	band(b, 53_800_000, 58_500_000, "19")
	band(b, 58_500_000, 64_000_000, "20")
	band(b, 64_000_000, 71_000_000, "21")
	band(b, 71_000_000, 80_000_000, "22")
	band(b, 80_000_000, 93_000_000, "23")
	band(b, 93_000_000, 109_000_000, "24")
	band(b, 109_000_000, 129_000_000, "25")
	band(b, 129_000_000, 163_000_000, "26")
	band(b, 163_000_000, 211_000_000, "27")
	band(b, 211_000_000, 374_000_000, "28")
	band(b, 374_000_000, 459_000_000, "29")
	band(b, 459_000_000, 555_000_000, "30")
	band(b, 555_000_000, 704_000_000, "31")
	band(b, 704_000_000, 957_000_000, "32")
	band(b, 957_000_000, 1_405_000_000, "33")
	band(b, 1_405_000_000, 0, "34")

	c := payroll.TERCategoryC
	band(c, 0, 6_600_000, "0")
	band(c, 6_600_000, 6_950_000, "0.25")
	band(c, 6_950_000, 7_350_000, "0.5")
	band(c, 7_350_000, 7_800_000, "0.75")
	band(c, 7_800_000, 8_850_000, "1")
	band(c, 8_850_000, 9_800_000, "1.25")
	band(c, 9_800_000, 10_950_000, "1.5")
	band(c, 10_950_000, 11_200_000, "1.75")
	band(c, 11_200_000, 12_050_000, "2")
	band(c, 12_050_000, 12_950_000, "3")
	band(c, 12_950_000, 14_150_000, "4")
	band(c, 14_150_000, 15_550_000, "5")
	band(c, 15_550_000, 17_050_000, "6")
	band(c, 17_050_000, 19_500_000, "7")
	band(c, 19_500_000, 22_700_000, "8")
	band(c, 22_700_000, 26_600_000, "9")
	band(c, 26_600_000, 28_100_000, "10")
	band(c, 28_100_000, 30_100_000, "11")
	band(c, 30_100_000, 32_600_000, "12")
	band(c, 32_600_000, 35_400_000, "13")
	band(c, 35_400_000, 38_900_000, "14")
	band(c, 38_900_000, 43_000_000, "15")
	band(c, 43_000_000, 47_400_000, "16")
	band(c, 47_400_000, 51_200_000, "17")
	band(c, 51_200_000, 55_800_000, "18")
	band(c, 55_800_000, 60_400_000, "19")
	band(c, 60_400_000, 66_700_000, "20")
	band(c, 66_700_000, 74_500_000, "21")
	band(c, 74_500_000, 83_200_000, "22")
	band(c, 83_200_000, 95_600_000, "23")
	band(c, 95_600_000, 110_000_000, "24")
	band(c, 110_000_000, 134_000_000, "25")
	band(c, 134_000_000, 169_000_000, "26")
	band(c, 169_000_000, 221_000_000, "27")
	band(c, 221_000_000, 390_000_000, "28")
	band(c, 390_000_000, 463_000_000, "29")
	band(c, 463_000_000, 561_000_000, "30")
	band(c, 561_000_000, 709_000_000, "31")
	band(c, 709_000_000, 965_000_000, "32")
	band(c, 965_000_000, 1_419_000_000, "33")
	band(c, 1_419_000_000, 0, "34")

	return rows
}

// ==========================================
// PROGRESSIVE ANNUAL BRACKETS
// ==========================================

// DefaultTaxBrackets returns the annual progressive schedule.
func DefaultTaxBrackets() []payroll.TaxBracket {
	var rows []payroll.TaxBracket
	bracket := func(lower, upper int64, ratePercent string) {
		row := payroll.TaxBracket{
			LowerBound: idr(lower),
			Rate:       pct(ratePercent),
		}
		if upper > 0 {
			u := idr(upper)
			row.UpperBound = &u
		}
		rows = append(rows, row)
	}
	bracket(0, 60_000_000, "5")
	bracket(60_000_000, 250_000_000, "15")
	bracket(250_000_000, 500_000_000, "25")
	bracket(500_000_000, 5_000_000_000, "30")
	bracket(5_000_000_000, 0, "35")
	return rows
}

func idr(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// pct converts a percentage string to a fraction, e.g. "3.7" -> 0.037.
func pct(p string) decimal.Decimal {
	return decimal.RequireFromString(p).Div(decimal.NewFromInt(100))
}
