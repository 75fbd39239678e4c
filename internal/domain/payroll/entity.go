package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProrationMethod selects how eligible days are counted for a partial period.
type ProrationMethod string

const (
	ProrationWorkingDays  ProrationMethod = "working_days"
	ProrationCalendarDays ProrationMethod = "calendar_days"
	ProrationCustom       ProrationMethod = "custom"
)

// LateDeductionMode selects the unit lateness is charged in.
type LateDeductionMode string

const (
	LatePerMinute LateDeductionMode = "per_minute"
	LatePerDay    LateDeductionMode = "per_day"
)

// TaxPaymentMethod - who bears the income tax.
type TaxPaymentMethod string

const (
	TaxPaymentGross   TaxPaymentMethod = "gross"    // withheld from the employee
	TaxPaymentNet     TaxPaymentMethod = "net"      // borne by the company
	TaxPaymentGrossUp TaxPaymentMethod = "gross_up" // taxable allowance added on top
)

// RoundingMethod for final payslip amounts.
type RoundingMethod string

const (
	RoundingNearest RoundingMethod = "round"
	RoundingFloor   RoundingMethod = "floor"
	RoundingCeil    RoundingMethod = "ceil"
)

// PayrollSetting - company payroll configuration. One row per company,
// read by every calculation, mutated only by HR managers.
type PayrollSetting struct {
	ID        string
	CompanyID string

	// BPJS Kesehatan (health)
	HealthEmployeeRate decimal.Decimal
	HealthEmployerRate decimal.Decimal
	HealthSalaryCap    decimal.Decimal // zero = uncapped

	// BPJS Ketenagakerjaan classes
	JHTEmployeeRate decimal.Decimal // old-age savings
	JHTEmployerRate decimal.Decimal
	JPEmployeeRate  decimal.Decimal // pension
	JPEmployerRate  decimal.Decimal
	JPSalaryCap     decimal.Decimal
	JKKEmployerRate decimal.Decimal // work accident, employer only
	JKMEmployerRate decimal.Decimal // death insurance, employer only

	// Income tax
	UseTERMethod     bool
	TaxPaymentMethod TaxPaymentMethod

	// Attendance-driven deductions
	AbsenceDeductionRate decimal.Decimal // multiplier on the daily rate, usually 1
	LateDeductionMode    LateDeductionMode
	LateDeductionRate    decimal.Decimal // per minute or per day depending on mode
	LateToleranceMinutes int

	OvertimeMultiplier decimal.Decimal

	ProrationMethod   ProrationMethod
	PayrollCutoffDay  int
	PaymentDay        int
	Currency          string
	RoundingMethod    RoundingMethod
	RoundingPrecision int32

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TERCategory groups PTKP statuses into the three withholding-rate-table
// categories.
type TERCategory string

const (
	TERCategoryA TERCategory = "A"
	TERCategoryB TERCategory = "B"
	TERCategoryC TERCategory = "C"
)

// TaxConfiguration - one withholding-rate-table entry: effective monthly
// rate for a (category, income band) pair. CompanyID nil means global.
type TaxConfiguration struct {
	ID          string
	CompanyID   *string
	Category    TERCategory
	IncomeLower decimal.Decimal
	IncomeUpper *decimal.Decimal // nil = open-ended top band
	Rate        decimal.Decimal
	CreatedAt   time.Time
}

// TaxBracket - one progressive annual schedule entry. Brackets must
// partition income space without gaps or overlaps; validated at seed time.
type TaxBracket struct {
	ID         string
	CompanyID  *string
	LowerBound decimal.Decimal
	UpperBound *decimal.Decimal // nil = top bracket
	Rate       decimal.Decimal
	CreatedAt  time.Time
}

// PTKPEntry - annual non-taxable income threshold per dependent-status
// code (TK/0 .. K/3), plus the TER category the status maps to.
type PTKPEntry struct {
	ID              string
	StatusCode      string
	AnnualThreshold decimal.Decimal
	TERCategory     TERCategory
}

// AdjustmentType enum
type AdjustmentType string

const (
	AdjustmentBonus         AdjustmentType = "bonus"
	AdjustmentReimbursement AdjustmentType = "reimbursement"
	AdjustmentPenalty       AdjustmentType = "penalty"
	AdjustmentLoan          AdjustmentType = "loan"
	AdjustmentAdvance       AdjustmentType = "advance"
	AdjustmentOther         AdjustmentType = "other"
)

// AdjustmentStatus enum
type AdjustmentStatus string

const (
	AdjustmentPending  AdjustmentStatus = "pending"
	AdjustmentApproved AdjustmentStatus = "approved"
	AdjustmentRejected AdjustmentStatus = "rejected"
)

// IsEarning reports whether the adjustment type adds to pay.
func (t AdjustmentType) IsEarning() bool {
	return t == AdjustmentBonus || t == AdjustmentReimbursement
}

// PayrollAdjustment - ad-hoc earning or deduction for one employee and
// one pay period. Only approved adjustments may enter a payslip.
type PayrollAdjustment struct {
	ID             string
	CompanyID      string
	EmployeeID     string
	PeriodMonth    int
	PeriodYear     int
	Type           AdjustmentType
	Description    string
	Amount         decimal.Decimal
	IsTaxable      bool
	BPJSApplicable bool
	Status         AdjustmentStatus
	DecidedBy      *string
	DecidedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DeductionSource enum for line-item attribution.
type DeductionSource string

const (
	DeductionAbsence DeductionSource = "absence"
	DeductionLate    DeductionSource = "late"
	DeductionLoan    DeductionSource = "loan"
	DeductionAdvance DeductionSource = "advance"
	DeductionLeave   DeductionSource = "leave"
	DeductionPenalty DeductionSource = "penalty"
	DeductionOther   DeductionSource = "other"
)

// ComponentType enum for payslip line items.
type ComponentType string

const (
	ComponentEarning      ComponentType = "earning"
	ComponentDeduction    ComponentType = "deduction"
	ComponentContribution ComponentType = "contribution"
	ComponentTax          ComponentType = "tax"
)

// PayrollDetail - one ordered breakdown row attached to a Payroll.
// Purely derivative: recomputed on every recalculation until the parent
// is validated, frozen thereafter.
type PayrollDetail struct {
	ID             string
	PayrollID      string
	Sequence       int
	ComponentType  ComponentType
	ComponentName  string
	Amount         decimal.Decimal
	IsTaxable      bool
	BPJSApplicable bool
	Source         *DeductionSource
	ReferenceID    *string
}

// Payroll - the payslip: one non-cancelled row per (employee_id, period).
type Payroll struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	PeriodMonth int
	PeriodYear  int

	BasicSalary     decimal.Decimal
	ProrateFactor   decimal.Decimal
	ProrateReason   *string
	TotalAllowances decimal.Decimal
	OvertimePay     decimal.Decimal
	GrossSalary     decimal.Decimal

	TotalDeductions decimal.Decimal

	EmployeeContribution decimal.Decimal
	EmployerContribution decimal.Decimal

	TaxableIncome  decimal.Decimal
	TaxMethod      string // "ter" or "progressive"
	TaxPayment     TaxPaymentMethod
	TERCategory    *TERCategory
	TERRate        *decimal.Decimal
	GrossUpInitial *decimal.Decimal
	FinalGrossUp   *decimal.Decimal
	TaxAmount      decimal.Decimal

	// NetSalary is gross less employee contributions and employee-borne
	// tax. TakeHomePay further subtracts attendance and adjustment
	// deductions and is the amount actually transferred.
	NetSalary    decimal.Decimal
	TakeHomePay  decimal.Decimal
	EmployerCost decimal.Decimal

	Status  Status
	Version int64

	ValidatedBy *string
	ValidatedAt *time.Time
	SubmittedBy *string
	SubmittedAt *time.Time
	ApprovedBy  *string
	ApprovedAt  *time.Time
	RejectedBy  *string
	RejectedAt  *time.Time
	RejectNote  *string
	PaidBy      *string
	PaidAt      *time.Time
	PaymentRef  *string
	CancelledBy *string
	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Details []PayrollDetail

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// AttendanceSummary - aggregate supplied by the attendance subsystem.
// Lateness arrives either as total minutes or whole late days, never both.
type AttendanceSummary struct {
	EmployeeID      string
	WorkingDays     int
	AbsenceDays     int
	LateMinutes     int
	LateDays        int
	UnpaidLeaveDays int
}
