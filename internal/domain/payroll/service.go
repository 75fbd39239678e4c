package payroll

import "context"

// PayrollService is the outward surface of the calculation engine.
type PayrollService interface {
	// Settings
	GetSetting(ctx context.Context) (PayrollSettingResponse, error)
	UpdateSetting(ctx context.Context, req UpdatePayrollSettingRequest) (PayrollSettingResponse, error)

	// Calculation
	Calculate(ctx context.Context, req CalculateRequest) (PayrollResponse, error)
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)

	// Lifecycle
	Transition(ctx context.Context, payrollID string, action Action, req TransitionRequest) (PayrollResponse, error)
	BulkTransition(ctx context.Context, action Action, req BulkTransitionRequest) ([]BulkTransitionResult, error)

	// Queries
	GetPayroll(ctx context.Context, id string) (PayrollResponse, error)
	ListPayrolls(ctx context.Context, filter PayrollFilter) (ListPayrollResponse, error)
	GetSummary(ctx context.Context, month, year int) (PayrollSummaryResponse, error)

	// Adjustments
	CreateAdjustment(ctx context.Context, req CreateAdjustmentRequest) (AdjustmentResponse, error)
	ListAdjustments(ctx context.Context, month, year int, status *AdjustmentStatus) ([]AdjustmentResponse, error)
	DecideAdjustment(ctx context.Context, id string, approve bool) (AdjustmentResponse, error)
}
