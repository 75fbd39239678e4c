package response

import (
	"errors"
	"net/http"

	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/employee"
	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/payroll"
	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/user"
	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// A lifecycle violation carries the state and action that clashed.
	var transitionErr *payroll.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		BadRequest(w, transitionErr.Error(), nil)
		return
	}

	switch {
	// Access errors
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, user.ErrHRStaffAccessRequired),
		errors.Is(err, user.ErrHRManagerAccessRequired),
		errors.Is(err, user.ErrOwnerAccessRequired):
		Forbidden(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollNotFound):
		NotFound(w, "Payroll not found")
	case errors.Is(err, payroll.ErrPayrollSettingNotFound):
		NotFound(w, "Payroll setting not found")
	case errors.Is(err, payroll.ErrAdjustmentNotFound):
		NotFound(w, "Payroll adjustment not found")
	case errors.Is(err, payroll.ErrPayrollAlreadyExists):
		Conflict(w, "Payroll already exists for this employee and period")
	case errors.Is(err, payroll.ErrVersionConflict):
		Conflict(w, "Payroll was modified by another user, please retry")
	case errors.Is(err, payroll.ErrAdjustmentNotPending):
		Conflict(w, "Adjustment has already been decided")
	case errors.Is(err, payroll.ErrFrozenMismatch):
		Conflict(w, "Validated breakdown no longer matches current configuration, re-validate first")
	case errors.Is(err, payroll.ErrPaymentRefRequired):
		BadRequest(w, "Payment reference is required to mark a payroll as paid", nil)
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)
	case errors.Is(err, payroll.ErrEmployeeHasNoBaseSalary):
		BadRequest(w, "Employee has no base salary configured", nil)
	case errors.Is(err, payroll.ErrCustomFactorRange):
		BadRequest(w, "Custom proration factor must be between 0 and 1", nil)
	case errors.Is(err, payroll.ErrAmbiguousLateness):
		BadRequest(w, "Lateness must be reported as minutes or days, not both", nil)
	case errors.Is(err, payroll.ErrZeroWorkingDays),
		errors.Is(err, payroll.ErrZeroTotalDays),
		errors.Is(err, payroll.ErrNegativeInput):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrMissingPTKPEntry),
		errors.Is(err, payroll.ErrMissingTERRate),
		errors.Is(err, payroll.ErrNoTaxBrackets),
		errors.Is(err, payroll.ErrBracketGapOrOverlap),
		errors.Is(err, payroll.ErrTERBandGapOrOverlap),
		errors.Is(err, payroll.ErrGrossUpNotConverged):
		UnprocessableEntity(w, err.Error())

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
