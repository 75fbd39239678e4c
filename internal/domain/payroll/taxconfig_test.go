package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bracket(lower int64, upper int64, rate string) TaxBracket {
	b := TaxBracket{
		LowerBound: decimal.NewFromInt(lower),
		Rate:       decimal.RequireFromString(rate),
	}
	if upper > 0 {
		u := decimal.NewFromInt(upper)
		b.UpperBound = &u
	}
	return b
}

func validBrackets() []TaxBracket {
	return []TaxBracket{
		bracket(0, 60_000_000, "0.05"),
		bracket(60_000_000, 250_000_000, "0.15"),
		bracket(250_000_000, 0, "0.25"),
	}
}

func TestValidateTaxBrackets_Valid(t *testing.T) {
	assert.NoError(t, ValidateTaxBrackets(validBrackets()))
}

func TestValidateTaxBrackets_OrderIndependent(t *testing.T) {
	brackets := validBrackets()
	brackets[0], brackets[2] = brackets[2], brackets[0]
	assert.NoError(t, ValidateTaxBrackets(brackets))
}

func TestValidateTaxBrackets_Empty(t *testing.T) {
	assert.ErrorIs(t, ValidateTaxBrackets(nil), ErrNoTaxBrackets)
}

func TestValidateTaxBrackets_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]TaxBracket) []TaxBracket
	}{
		{"must start at zero", func(bs []TaxBracket) []TaxBracket {
			bs[0].LowerBound = decimal.NewFromInt(1)
			return bs
		}},
		{"gap between brackets", func(bs []TaxBracket) []TaxBracket {
			u := decimal.NewFromInt(50_000_000)
			bs[0].UpperBound = &u
			return bs
		}},
		{"overlap between brackets", func(bs []TaxBracket) []TaxBracket {
			u := decimal.NewFromInt(70_000_000)
			bs[0].UpperBound = &u
			return bs
		}},
		{"closed top bracket", func(bs []TaxBracket) []TaxBracket {
			u := decimal.NewFromInt(500_000_000)
			bs[2].UpperBound = &u
			return bs
		}},
		{"open bracket below the top", func(bs []TaxBracket) []TaxBracket {
			bs[1].UpperBound = nil
			return bs
		}},
		{"negative rate", func(bs []TaxBracket) []TaxBracket {
			bs[1].Rate = decimal.RequireFromString("-0.1")
			return bs
		}},
		{"inverted bounds", func(bs []TaxBracket) []TaxBracket {
			u := decimal.NewFromInt(0)
			bs[0].UpperBound = &u
			return bs
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTaxBrackets(tt.mutate(validBrackets()))
			assert.ErrorIs(t, err, ErrBracketGapOrOverlap)
		})
	}
}

func terBand(cat TERCategory, lower, upper int64, rate string) TaxConfiguration {
	row := TaxConfiguration{
		Category:    cat,
		IncomeLower: decimal.NewFromInt(lower),
		Rate:        decimal.RequireFromString(rate),
	}
	if upper > 0 {
		u := decimal.NewFromInt(upper)
		row.IncomeUpper = &u
	}
	return row
}

func validTERBands() []TaxConfiguration {
	var rows []TaxConfiguration
	for _, cat := range []TERCategory{TERCategoryA, TERCategoryB, TERCategoryC} {
		rows = append(rows,
			terBand(cat, 0, 5_400_000, "0"),
			terBand(cat, 5_400_000, 10_000_000, "0.0025"),
			terBand(cat, 10_000_000, 0, "0.02"),
		)
	}
	return rows
}

func TestValidateTERBands_Valid(t *testing.T) {
	assert.NoError(t, ValidateTERBands(validTERBands()))
}

func TestValidateTERBands_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]TaxConfiguration) []TaxConfiguration
	}{
		{"missing category", func(rows []TaxConfiguration) []TaxConfiguration {
			var kept []TaxConfiguration
			for _, r := range rows {
				if r.Category != TERCategoryC {
					kept = append(kept, r)
				}
			}
			return kept
		}},
		{"must start at zero", func(rows []TaxConfiguration) []TaxConfiguration {
			rows[0].IncomeLower = decimal.NewFromInt(100)
			return rows
		}},
		{"gap between bands", func(rows []TaxConfiguration) []TaxConfiguration {
			u := decimal.NewFromInt(5_000_000)
			rows[0].IncomeUpper = &u
			return rows
		}},
		{"closed top band", func(rows []TaxConfiguration) []TaxConfiguration {
			u := decimal.NewFromInt(99_000_000)
			rows[2].IncomeUpper = &u
			return rows
		}},
		{"rate above one", func(rows []TaxConfiguration) []TaxConfiguration {
			rows[1].Rate = decimal.NewFromInt(2)
			return rows
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTERBands(tt.mutate(validTERBands()))
			assert.ErrorIs(t, err, ErrTERBandGapOrOverlap)
		})
	}
}

func TestValidateTERBands_SingleOpenBandPerCategory(t *testing.T) {
	var rows []TaxConfiguration
	for _, cat := range []TERCategory{TERCategoryA, TERCategoryB, TERCategoryC} {
		rows = append(rows, terBand(cat, 0, 0, "0.05"))
	}
	require.NoError(t, ValidateTERBands(rows))
}
