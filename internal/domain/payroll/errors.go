package payroll

import "errors"

var (
	ErrPayrollSettingNotFound  = errors.New("payroll setting not found for company")
	ErrPayrollNotFound         = errors.New("payroll record not found")
	ErrPayrollAlreadyExists    = errors.New("payroll already exists for this employee and period")
	ErrAdjustmentNotFound      = errors.New("payroll adjustment not found")
	ErrAdjustmentNotPending    = errors.New("payroll adjustment already decided")
	ErrInvalidPeriod           = errors.New("invalid payroll period")
	ErrEmployeeHasNoBaseSalary = errors.New("employee has no base salary configured")
	ErrVersionConflict         = errors.New("payroll was modified concurrently, retry the transition")
	ErrPaymentRefRequired      = errors.New("payment reference is required to mark a payroll paid")

	// Configuration errors: fatal at generation time for the affected
	// employee only.
	ErrMissingPTKPEntry      = errors.New("no PTKP entry for employee dependent status")
	ErrMissingTERRate        = errors.New("no withholding rate configured for category and income band")
	ErrNoTaxBrackets         = errors.New("no progressive tax brackets configured")
	ErrBracketGapOrOverlap   = errors.New("tax brackets must be contiguous and ascending")
	ErrTERBandGapOrOverlap   = errors.New("withholding rate bands must be contiguous and ascending")
	ErrGrossUpNotConverged   = errors.New("gross-up iteration did not converge within tolerance")
	ErrFrozenMismatch        = errors.New("recomputed payroll differs from frozen validated amounts")

	// Arithmetic edge cases rejected at the component boundary.
	ErrZeroTotalDays     = errors.New("pay period has zero eligible days")
	ErrZeroWorkingDays   = errors.New("working day count must be positive")
	ErrNegativeInput     = errors.New("calculation input must not be negative")
	ErrAmbiguousLateness = errors.New("lateness must be given as minutes or days, not both")
	ErrCustomFactorRange = errors.New("custom prorate factor must be between 0 and 1")
)
