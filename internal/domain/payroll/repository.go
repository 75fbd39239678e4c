package payroll

import (
	"context"

	"github.com/shopspring/decimal"
)

// PayrollRepository defines data access methods for the payroll engine.
// All methods include companyID to prevent cross-company data access.
type PayrollRepository interface {
	// Settings
	GetSetting(ctx context.Context, companyID string) (PayrollSetting, error)
	UpsertSetting(ctx context.Context, setting PayrollSetting) (PayrollSetting, error)

	// Tax configuration (company rows first, global fallback)
	GetTaxConfigurations(ctx context.Context, companyID string) ([]TaxConfiguration, error)
	GetTaxBrackets(ctx context.Context, companyID string) ([]TaxBracket, error)
	GetPTKPEntries(ctx context.Context) ([]PTKPEntry, error)
	ReplaceTaxConfigurations(ctx context.Context, companyID *string, rows []TaxConfiguration) error
	ReplaceTaxBrackets(ctx context.Context, companyID *string, rows []TaxBracket) error

	// Adjustments
	CreateAdjustment(ctx context.Context, adj PayrollAdjustment) (PayrollAdjustment, error)
	GetAdjustmentByID(ctx context.Context, id, companyID string) (PayrollAdjustment, error)
	ListAdjustments(ctx context.Context, companyID string, month, year int, status *AdjustmentStatus) ([]PayrollAdjustment, error)
	GetApprovedAdjustments(ctx context.Context, companyID, employeeID string, month, year int) ([]PayrollAdjustment, error)
	DecideAdjustment(ctx context.Context, id, companyID string, status AdjustmentStatus, decidedBy string) error

	// Payrolls
	CreatePayroll(ctx context.Context, p Payroll) (Payroll, error)
	ReplaceDraftPayroll(ctx context.Context, p Payroll) (Payroll, error)
	GetPayrollByID(ctx context.Context, id, companyID string) (Payroll, error)
	GetPayrollByEmployeePeriod(ctx context.Context, employeeID string, month, year int, companyID string) (Payroll, error)
	ListPayrolls(ctx context.Context, companyID string, filter PayrollFilter) ([]Payroll, int64, error)
	// UpdatePayrollStatus applies a lifecycle transition guarded by the
	// optimistic version counter; returns ErrVersionConflict on a race.
	UpdatePayrollStatus(ctx context.Context, p Payroll) (Payroll, error)
	// UpdatePayrollStatusWithDetails applies the same version-guarded
	// transition and rewrites the breakdown rows in one transaction, so
	// the stored headline figures and line items never diverge.
	UpdatePayrollStatusWithDetails(ctx context.Context, p Payroll) (Payroll, error)
	GetPayrollSummary(ctx context.Context, companyID string, month, year int) (PayrollSummaryResponse, error)

	// External collaborator aggregates, fetched once per employee
	// before computation begins.
	GetAttendanceSummary(ctx context.Context, companyID string, month, year int, employeeIDs []string) ([]AttendanceSummary, error)
	GetOvertimePay(ctx context.Context, companyID, employeeID string, month, year int) (OvertimePayTotal, error)
}

// OvertimePayTotal is the single pre-approved overtime amount supplied
// by the overtime subsystem per employee per period.
type OvertimePayTotal struct {
	EmployeeID string
	Amount     decimal.Decimal
}
