package payroll

import (
	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== SETTINGS DTOs ==========

type PayrollSettingResponse struct {
	ID                   string            `json:"id"`
	CompanyID            string            `json:"company_id"`
	HealthEmployeeRate   decimal.Decimal   `json:"health_employee_rate"`
	HealthEmployerRate   decimal.Decimal   `json:"health_employer_rate"`
	HealthSalaryCap      decimal.Decimal   `json:"health_salary_cap"`
	JHTEmployeeRate      decimal.Decimal   `json:"jht_employee_rate"`
	JHTEmployerRate      decimal.Decimal   `json:"jht_employer_rate"`
	JPEmployeeRate       decimal.Decimal   `json:"jp_employee_rate"`
	JPEmployerRate       decimal.Decimal   `json:"jp_employer_rate"`
	JPSalaryCap          decimal.Decimal   `json:"jp_salary_cap"`
	JKKEmployerRate      decimal.Decimal   `json:"jkk_employer_rate"`
	JKMEmployerRate      decimal.Decimal   `json:"jkm_employer_rate"`
	UseTERMethod         bool              `json:"use_ter_method"`
	TaxPaymentMethod     TaxPaymentMethod  `json:"tax_payment_method"`
	AbsenceDeductionRate decimal.Decimal   `json:"absence_deduction_rate"`
	LateDeductionMode    LateDeductionMode `json:"late_deduction_mode"`
	LateDeductionRate    decimal.Decimal   `json:"late_deduction_rate"`
	LateToleranceMinutes int               `json:"late_tolerance_minutes"`
	OvertimeMultiplier   decimal.Decimal   `json:"overtime_multiplier"`
	ProrationMethod      ProrationMethod   `json:"proration_method"`
	PayrollCutoffDay     int               `json:"payroll_cutoff_day"`
	PaymentDay           int               `json:"payment_day"`
	Currency             string            `json:"currency"`
	RoundingMethod       RoundingMethod    `json:"rounding_method"`
	RoundingPrecision    int32             `json:"rounding_precision"`
	IsActive             bool              `json:"is_active"`
}

type UpdatePayrollSettingRequest struct {
	HealthEmployeeRate   *decimal.Decimal   `json:"health_employee_rate,omitempty"`
	HealthEmployerRate   *decimal.Decimal   `json:"health_employer_rate,omitempty"`
	HealthSalaryCap      *decimal.Decimal   `json:"health_salary_cap,omitempty"`
	JHTEmployeeRate      *decimal.Decimal   `json:"jht_employee_rate,omitempty"`
	JHTEmployerRate      *decimal.Decimal   `json:"jht_employer_rate,omitempty"`
	JPEmployeeRate       *decimal.Decimal   `json:"jp_employee_rate,omitempty"`
	JPEmployerRate       *decimal.Decimal   `json:"jp_employer_rate,omitempty"`
	JPSalaryCap          *decimal.Decimal   `json:"jp_salary_cap,omitempty"`
	JKKEmployerRate      *decimal.Decimal   `json:"jkk_employer_rate,omitempty"`
	JKMEmployerRate      *decimal.Decimal   `json:"jkm_employer_rate,omitempty"`
	UseTERMethod         *bool              `json:"use_ter_method,omitempty"`
	TaxPaymentMethod     *TaxPaymentMethod  `json:"tax_payment_method,omitempty"`
	AbsenceDeductionRate *decimal.Decimal   `json:"absence_deduction_rate,omitempty"`
	LateDeductionMode    *LateDeductionMode `json:"late_deduction_mode,omitempty"`
	LateDeductionRate    *decimal.Decimal   `json:"late_deduction_rate,omitempty"`
	LateToleranceMinutes *int               `json:"late_tolerance_minutes,omitempty"`
	OvertimeMultiplier   *decimal.Decimal   `json:"overtime_multiplier,omitempty"`
	ProrationMethod      *ProrationMethod   `json:"proration_method,omitempty"`
	PayrollCutoffDay     *int               `json:"payroll_cutoff_day,omitempty"`
	PaymentDay           *int               `json:"payment_day,omitempty"`
	Currency             *string            `json:"currency,omitempty"`
	RoundingMethod       *RoundingMethod    `json:"rounding_method,omitempty"`
	RoundingPrecision    *int32             `json:"rounding_precision,omitempty"`
	IsActive             *bool              `json:"is_active,omitempty"`
}

func (r *UpdatePayrollSettingRequest) Validate() error {
	var errs validator.ValidationErrors

	nonNegative := map[string]*decimal.Decimal{
		"health_employee_rate":   r.HealthEmployeeRate,
		"health_employer_rate":   r.HealthEmployerRate,
		"health_salary_cap":      r.HealthSalaryCap,
		"jht_employee_rate":      r.JHTEmployeeRate,
		"jht_employer_rate":      r.JHTEmployerRate,
		"jp_employee_rate":       r.JPEmployeeRate,
		"jp_employer_rate":       r.JPEmployerRate,
		"jp_salary_cap":          r.JPSalaryCap,
		"jkk_employer_rate":      r.JKKEmployerRate,
		"jkm_employer_rate":      r.JKMEmployerRate,
		"absence_deduction_rate": r.AbsenceDeductionRate,
		"late_deduction_rate":    r.LateDeductionRate,
		"overtime_multiplier":    r.OvertimeMultiplier,
	}
	for field, v := range nonNegative {
		if v != nil && v.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}

	if r.TaxPaymentMethod != nil {
		switch *r.TaxPaymentMethod {
		case TaxPaymentGross, TaxPaymentNet, TaxPaymentGrossUp:
		default:
			errs = append(errs, validator.ValidationError{Field: "tax_payment_method", Message: "must be 'gross', 'net' or 'gross_up'"})
		}
	}
	if r.LateDeductionMode != nil && *r.LateDeductionMode != LatePerMinute && *r.LateDeductionMode != LatePerDay {
		errs = append(errs, validator.ValidationError{Field: "late_deduction_mode", Message: "must be 'per_minute' or 'per_day'"})
	}
	if r.ProrationMethod != nil {
		switch *r.ProrationMethod {
		case ProrationWorkingDays, ProrationCalendarDays, ProrationCustom:
		default:
			errs = append(errs, validator.ValidationError{Field: "proration_method", Message: "must be 'working_days', 'calendar_days' or 'custom'"})
		}
	}
	if r.RoundingMethod != nil {
		switch *r.RoundingMethod {
		case RoundingNearest, RoundingFloor, RoundingCeil:
		default:
			errs = append(errs, validator.ValidationError{Field: "rounding_method", Message: "must be 'round', 'floor' or 'ceil'"})
		}
	}
	if r.RoundingPrecision != nil && (*r.RoundingPrecision < 0 || *r.RoundingPrecision > 6) {
		errs = append(errs, validator.ValidationError{Field: "rounding_precision", Message: "must be between 0 and 6"})
	}
	if r.LateToleranceMinutes != nil && *r.LateToleranceMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "late_tolerance_minutes", Message: "must be non-negative"})
	}
	if r.PayrollCutoffDay != nil && (*r.PayrollCutoffDay < 1 || *r.PayrollCutoffDay > 31) {
		errs = append(errs, validator.ValidationError{Field: "payroll_cutoff_day", Message: "must be between 1 and 31"})
	}
	if r.PaymentDay != nil && (*r.PaymentDay < 1 || *r.PaymentDay > 31) {
		errs = append(errs, validator.ValidationError{Field: "payment_day", Message: "must be between 1 and 31"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== CALCULATION DTOs ==========

type CalculateRequest struct {
	EmployeeID   string           `json:"employee_id"`
	PeriodMonth  int              `json:"period_month"`
	PeriodYear   int              `json:"period_year"`
	CustomFactor *decimal.Decimal `json:"custom_factor,omitempty"` // only with proration_method=custom
}

func (r *CalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID == "" {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	errs = append(errs, validatePeriod(r.PeriodMonth, r.PeriodYear)...)
	if r.CustomFactor != nil && (r.CustomFactor.IsNegative() || r.CustomFactor.GreaterThan(decimal.NewFromInt(1))) {
		errs = append(errs, validator.ValidationError{Field: "custom_factor", Message: "must be between 0 and 1"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type GenerateRequest struct {
	PeriodMonth int      `json:"period_month"`
	PeriodYear  int      `json:"period_year"`
	EmployeeIDs []string `json:"employee_ids,omitempty"` // Empty = all active employees
}

func (r *GenerateRequest) Validate() error {
	errs := validatePeriod(r.PeriodMonth, r.PeriodYear)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePeriod(month, year int) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if month < 1 || month > 12 {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if year < 2020 {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be 2020 or later"})
	}
	return errs
}

// GenerateItemResult reports the outcome for one employee in a batch.
// A failed or skipped employee never aborts its siblings.
type GenerateItemResult struct {
	EmployeeID string  `json:"employee_id"`
	PayrollID  *string `json:"payroll_id,omitempty"`
	Skipped    bool    `json:"skipped"`
	Reason     *string `json:"reason,omitempty"`
}

type GenerateResponse struct {
	PeriodMonth int                  `json:"period_month"`
	PeriodYear  int                  `json:"period_year"`
	Generated   int                  `json:"generated"`
	Skipped     int                  `json:"skipped"`
	Failed      int                  `json:"failed"`
	Items       []GenerateItemResult `json:"items"`
}

// ========== LIFECYCLE DTOs ==========

type TransitionRequest struct {
	Note       *string `json:"note,omitempty"`
	PaymentRef *string `json:"payment_ref,omitempty"` // required for mark-paid
}

type BulkTransitionRequest struct {
	PayrollIDs []string `json:"payroll_ids"`
	Note       *string  `json:"note,omitempty"`
}

func (r *BulkTransitionRequest) Validate() error {
	var errs validator.ValidationErrors
	if len(r.PayrollIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "payroll_ids", Message: "at least one payroll is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// BulkTransitionResult - per-item outcome; partial failure is expected.
type BulkTransitionResult struct {
	PayrollID string  `json:"payroll_id"`
	OK        bool    `json:"ok"`
	Status    *string `json:"status,omitempty"`
	Error     *string `json:"error,omitempty"`
}

// ========== PAYROLL DTOs ==========

type PayrollDetailResponse struct {
	Sequence       int             `json:"sequence"`
	ComponentType  ComponentType   `json:"component_type"`
	ComponentName  string          `json:"component_name"`
	Amount         decimal.Decimal `json:"amount"`
	IsTaxable      bool            `json:"is_taxable"`
	BPJSApplicable bool            `json:"bpjs_applicable"`
	Source         *string         `json:"source,omitempty"`
	ReferenceID    *string         `json:"reference_id,omitempty"`
}

type PayrollResponse struct {
	ID                   string                  `json:"id"`
	EmployeeID           string                  `json:"employee_id"`
	EmployeeName         *string                 `json:"employee_name,omitempty"`
	EmployeeCode         *string                 `json:"employee_code,omitempty"`
	PeriodMonth          int                     `json:"period_month"`
	PeriodYear           int                     `json:"period_year"`
	BasicSalary          decimal.Decimal         `json:"basic_salary"`
	ProrateFactor        decimal.Decimal         `json:"prorate_factor"`
	ProrateReason        *string                 `json:"prorate_reason,omitempty"`
	TotalAllowances      decimal.Decimal         `json:"total_allowances"`
	OvertimePay          decimal.Decimal         `json:"overtime_pay"`
	GrossSalary          decimal.Decimal         `json:"gross_salary"`
	TotalDeductions      decimal.Decimal         `json:"total_deductions"`
	EmployeeContribution decimal.Decimal         `json:"employee_contribution"`
	EmployerContribution decimal.Decimal         `json:"employer_contribution"`
	TaxableIncome        decimal.Decimal         `json:"taxable_income"`
	TaxMethod            string                  `json:"tax_method"`
	TaxPayment           TaxPaymentMethod        `json:"tax_payment"`
	TERCategory          *TERCategory            `json:"ter_category,omitempty"`
	TERRate              *decimal.Decimal        `json:"ter_rate,omitempty"`
	GrossUpInitial       *decimal.Decimal        `json:"gross_up_initial,omitempty"`
	FinalGrossUp         *decimal.Decimal        `json:"final_gross_up,omitempty"`
	TaxAmount            decimal.Decimal         `json:"tax_amount"`
	NetSalary            decimal.Decimal         `json:"net_salary"`
	TakeHomePay          decimal.Decimal         `json:"take_home_pay"`
	EmployerCost         decimal.Decimal         `json:"employer_cost"`
	Status               Status                  `json:"status"`
	PaymentRef           *string                 `json:"payment_ref,omitempty"`
	Details              []PayrollDetailResponse `json:"details,omitempty"`
}

type PayrollFilter struct {
	PeriodMonth *int
	PeriodYear  *int
	Status      *Status
	EmployeeID  *string
	Page        int
	Limit       int
}

type ListPayrollResponse struct {
	Data       []PayrollResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

type PayrollSummaryResponse struct {
	PeriodMonth       int             `json:"period_month"`
	PeriodYear        int             `json:"period_year"`
	TotalEmployees    int             `json:"total_employees"`
	TotalGrossSalary  decimal.Decimal `json:"total_gross_salary"`
	TotalDeductions   decimal.Decimal `json:"total_deductions"`
	TotalTax          decimal.Decimal `json:"total_tax"`
	TotalNetSalary    decimal.Decimal `json:"total_net_salary"`
	TotalEmployerCost decimal.Decimal `json:"total_employer_cost"`
	CountByStatus     map[string]int  `json:"count_by_status"`
}

// ========== ADJUSTMENT DTOs ==========

type CreateAdjustmentRequest struct {
	EmployeeID     string          `json:"employee_id"`
	PeriodMonth    int             `json:"period_month"`
	PeriodYear     int             `json:"period_year"`
	Type           AdjustmentType  `json:"type"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	IsTaxable      *bool           `json:"is_taxable,omitempty"`
	BPJSApplicable *bool           `json:"bpjs_applicable,omitempty"`
}

func (r *CreateAdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID == "" {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	errs = append(errs, validatePeriod(r.PeriodMonth, r.PeriodYear)...)
	switch r.Type {
	case AdjustmentBonus, AdjustmentReimbursement, AdjustmentPenalty, AdjustmentLoan, AdjustmentAdvance, AdjustmentOther:
	default:
		errs = append(errs, validator.ValidationError{Field: "type", Message: "is not a valid adjustment type"})
	}
	if validator.IsEmpty(r.Description) {
		errs = append(errs, validator.ValidationError{Field: "description", Message: "is required"})
	}
	if r.Amount.IsNegative() || r.Amount.IsZero() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AdjustmentResponse struct {
	ID             string           `json:"id"`
	EmployeeID     string           `json:"employee_id"`
	PeriodMonth    int              `json:"period_month"`
	PeriodYear     int              `json:"period_year"`
	Type           AdjustmentType   `json:"type"`
	Description    string           `json:"description"`
	Amount         decimal.Decimal  `json:"amount"`
	IsTaxable      bool             `json:"is_taxable"`
	BPJSApplicable bool             `json:"bpjs_applicable"`
	Status         AdjustmentStatus `json:"status"`
}
