package payroll

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ValidateTaxBrackets checks that progressive brackets partition income
// space: ascending, contiguous, no overlaps, exactly one open top
// bracket, starting at zero. Enforced at seed time so runtime never
// silently miscalculates.
func ValidateTaxBrackets(brackets []TaxBracket) error {
	if len(brackets) == 0 {
		return ErrNoTaxBrackets
	}

	sorted := make([]TaxBracket, len(brackets))
	copy(sorted, brackets)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LowerBound.LessThan(sorted[j].LowerBound)
	})

	if !sorted[0].LowerBound.IsZero() {
		return fmt.Errorf("%w: first bracket must start at 0, got %s", ErrBracketGapOrOverlap, sorted[0].LowerBound)
	}

	for i, b := range sorted {
		if b.Rate.IsNegative() {
			return fmt.Errorf("%w: bracket %d has negative rate", ErrBracketGapOrOverlap, i)
		}
		last := i == len(sorted)-1
		if last {
			if b.UpperBound != nil {
				return fmt.Errorf("%w: top bracket must be open-ended", ErrBracketGapOrOverlap)
			}
			continue
		}
		if b.UpperBound == nil {
			return fmt.Errorf("%w: only the top bracket may be open-ended", ErrBracketGapOrOverlap)
		}
		if b.UpperBound.LessThanOrEqual(b.LowerBound) {
			return fmt.Errorf("%w: bracket %d upper bound %s not above lower bound %s", ErrBracketGapOrOverlap, i, b.UpperBound, b.LowerBound)
		}
		if !sorted[i+1].LowerBound.Equal(*b.UpperBound) {
			return fmt.Errorf("%w: bracket %d ends at %s but next starts at %s", ErrBracketGapOrOverlap, i, b.UpperBound, sorted[i+1].LowerBound)
		}
	}

	return nil
}

// ValidateTERBands checks that the withholding-rate bands for each
// category are ascending and contiguous from zero with one open top band.
func ValidateTERBands(rows []TaxConfiguration) error {
	byCategory := make(map[TERCategory][]TaxConfiguration)
	for _, row := range rows {
		byCategory[row.Category] = append(byCategory[row.Category], row)
	}

	for _, cat := range []TERCategory{TERCategoryA, TERCategoryB, TERCategoryC} {
		bands := byCategory[cat]
		if len(bands) == 0 {
			return fmt.Errorf("%w: category %s has no bands", ErrTERBandGapOrOverlap, cat)
		}
		sort.Slice(bands, func(i, j int) bool {
			return bands[i].IncomeLower.LessThan(bands[j].IncomeLower)
		})
		if !bands[0].IncomeLower.IsZero() {
			return fmt.Errorf("%w: category %s must start at 0", ErrTERBandGapOrOverlap, cat)
		}
		for i, b := range bands {
			if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
				return fmt.Errorf("%w: category %s band %d rate out of range", ErrTERBandGapOrOverlap, cat, i)
			}
			last := i == len(bands)-1
			if last {
				if b.IncomeUpper != nil {
					return fmt.Errorf("%w: category %s top band must be open-ended", ErrTERBandGapOrOverlap, cat)
				}
				continue
			}
			if b.IncomeUpper == nil {
				return fmt.Errorf("%w: category %s has an open band below the top", ErrTERBandGapOrOverlap, cat)
			}
			if !bands[i+1].IncomeLower.Equal(*b.IncomeUpper) {
				return fmt.Errorf("%w: category %s band %d ends at %s but next starts at %s", ErrTERBandGapOrOverlap, cat, i, b.IncomeUpper, bands[i+1].IncomeLower)
			}
		}
	}

	return nil
}
