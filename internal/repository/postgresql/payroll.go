package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/payroll"
	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== SETTINGS ==========

func (r *payrollRepository) GetSetting(ctx context.Context, companyID string) (payroll.PayrollSetting, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id,
			   health_employee_rate, health_employer_rate, health_salary_cap,
			   jht_employee_rate, jht_employer_rate,
			   jp_employee_rate, jp_employer_rate, jp_salary_cap,
			   jkk_employer_rate, jkm_employer_rate,
			   use_ter_method, tax_payment_method,
			   absence_deduction_rate, late_deduction_mode, late_deduction_rate, late_tolerance_minutes,
			   overtime_multiplier, proration_method, payroll_cutoff_day, payment_day,
			   currency, rounding_method, rounding_precision, is_active,
			   created_at, updated_at
		FROM payroll_settings
		WHERE company_id = $1
	`

	var s payroll.PayrollSetting
	err := q.QueryRow(ctx, query, companyID).Scan(
		&s.ID, &s.CompanyID,
		&s.HealthEmployeeRate, &s.HealthEmployerRate, &s.HealthSalaryCap,
		&s.JHTEmployeeRate, &s.JHTEmployerRate,
		&s.JPEmployeeRate, &s.JPEmployerRate, &s.JPSalaryCap,
		&s.JKKEmployerRate, &s.JKMEmployerRate,
		&s.UseTERMethod, &s.TaxPaymentMethod,
		&s.AbsenceDeductionRate, &s.LateDeductionMode, &s.LateDeductionRate, &s.LateToleranceMinutes,
		&s.OvertimeMultiplier, &s.ProrationMethod, &s.PayrollCutoffDay, &s.PaymentDay,
		&s.Currency, &s.RoundingMethod, &s.RoundingPrecision, &s.IsActive,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollSetting{}, payroll.ErrPayrollSettingNotFound
		}
		return payroll.PayrollSetting{}, fmt.Errorf("failed to get payroll setting: %w", err)
	}

	return s, nil
}

func (r *payrollRepository) UpsertSetting(ctx context.Context, setting payroll.PayrollSetting) (payroll.PayrollSetting, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_settings (
			company_id,
			health_employee_rate, health_employer_rate, health_salary_cap,
			jht_employee_rate, jht_employer_rate,
			jp_employee_rate, jp_employer_rate, jp_salary_cap,
			jkk_employer_rate, jkm_employer_rate,
			use_ter_method, tax_payment_method,
			absence_deduction_rate, late_deduction_mode, late_deduction_rate, late_tolerance_minutes,
			overtime_multiplier, proration_method, payroll_cutoff_day, payment_day,
			currency, rounding_method, rounding_precision, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		ON CONFLICT (company_id) DO UPDATE SET
			health_employee_rate = EXCLUDED.health_employee_rate,
			health_employer_rate = EXCLUDED.health_employer_rate,
			health_salary_cap = EXCLUDED.health_salary_cap,
			jht_employee_rate = EXCLUDED.jht_employee_rate,
			jht_employer_rate = EXCLUDED.jht_employer_rate,
			jp_employee_rate = EXCLUDED.jp_employee_rate,
			jp_employer_rate = EXCLUDED.jp_employer_rate,
			jp_salary_cap = EXCLUDED.jp_salary_cap,
			jkk_employer_rate = EXCLUDED.jkk_employer_rate,
			jkm_employer_rate = EXCLUDED.jkm_employer_rate,
			use_ter_method = EXCLUDED.use_ter_method,
			tax_payment_method = EXCLUDED.tax_payment_method,
			absence_deduction_rate = EXCLUDED.absence_deduction_rate,
			late_deduction_mode = EXCLUDED.late_deduction_mode,
			late_deduction_rate = EXCLUDED.late_deduction_rate,
			late_tolerance_minutes = EXCLUDED.late_tolerance_minutes,
			overtime_multiplier = EXCLUDED.overtime_multiplier,
			proration_method = EXCLUDED.proration_method,
			payroll_cutoff_day = EXCLUDED.payroll_cutoff_day,
			payment_day = EXCLUDED.payment_day,
			currency = EXCLUDED.currency,
			rounding_method = EXCLUDED.rounding_method,
			rounding_precision = EXCLUDED.rounding_precision,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING id, company_id,
			health_employee_rate, health_employer_rate, health_salary_cap,
			jht_employee_rate, jht_employer_rate,
			jp_employee_rate, jp_employer_rate, jp_salary_cap,
			jkk_employer_rate, jkm_employer_rate,
			use_ter_method, tax_payment_method,
			absence_deduction_rate, late_deduction_mode, late_deduction_rate, late_tolerance_minutes,
			overtime_multiplier, proration_method, payroll_cutoff_day, payment_day,
			currency, rounding_method, rounding_precision, is_active,
			created_at, updated_at
	`

	var s payroll.PayrollSetting
	err := q.QueryRow(ctx, query,
		setting.CompanyID,
		setting.HealthEmployeeRate, setting.HealthEmployerRate, setting.HealthSalaryCap,
		setting.JHTEmployeeRate, setting.JHTEmployerRate,
		setting.JPEmployeeRate, setting.JPEmployerRate, setting.JPSalaryCap,
		setting.JKKEmployerRate, setting.JKMEmployerRate,
		setting.UseTERMethod, setting.TaxPaymentMethod,
		setting.AbsenceDeductionRate, setting.LateDeductionMode, setting.LateDeductionRate, setting.LateToleranceMinutes,
		setting.OvertimeMultiplier, setting.ProrationMethod, setting.PayrollCutoffDay, setting.PaymentDay,
		setting.Currency, setting.RoundingMethod, setting.RoundingPrecision, setting.IsActive,
	).Scan(
		&s.ID, &s.CompanyID,
		&s.HealthEmployeeRate, &s.HealthEmployerRate, &s.HealthSalaryCap,
		&s.JHTEmployeeRate, &s.JHTEmployerRate,
		&s.JPEmployeeRate, &s.JPEmployerRate, &s.JPSalaryCap,
		&s.JKKEmployerRate, &s.JKMEmployerRate,
		&s.UseTERMethod, &s.TaxPaymentMethod,
		&s.AbsenceDeductionRate, &s.LateDeductionMode, &s.LateDeductionRate, &s.LateToleranceMinutes,
		&s.OvertimeMultiplier, &s.ProrationMethod, &s.PayrollCutoffDay, &s.PaymentDay,
		&s.Currency, &s.RoundingMethod, &s.RoundingPrecision, &s.IsActive,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return payroll.PayrollSetting{}, fmt.Errorf("failed to upsert payroll setting: %w", err)
	}

	return s, nil
}

// ========== TAX CONFIGURATION ==========

// GetTaxConfigurations returns company-specific withholding bands when
// the company has any, otherwise the global rows.
func (r *payrollRepository) GetTaxConfigurations(ctx context.Context, companyID string) ([]payroll.TaxConfiguration, error) {
	rows, err := r.queryTaxConfigurations(ctx, &companyID)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		return rows, nil
	}
	return r.queryTaxConfigurations(ctx, nil)
}

func (r *payrollRepository) queryTaxConfigurations(ctx context.Context, companyID *string) ([]payroll.TaxConfiguration, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, category, income_lower, income_upper, rate, created_at
		FROM tax_configurations
		WHERE company_id IS NOT DISTINCT FROM $1
		ORDER BY category, income_lower
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tax configurations: %w", err)
	}
	defer rows.Close()

	var configs []payroll.TaxConfiguration
	for rows.Next() {
		var c payroll.TaxConfiguration
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Category, &c.IncomeLower, &c.IncomeUpper, &c.Rate, &c.CreatedAt); err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

func (r *payrollRepository) GetTaxBrackets(ctx context.Context, companyID string) ([]payroll.TaxBracket, error) {
	rows, err := r.queryTaxBrackets(ctx, &companyID)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		return rows, nil
	}
	return r.queryTaxBrackets(ctx, nil)
}

func (r *payrollRepository) queryTaxBrackets(ctx context.Context, companyID *string) ([]payroll.TaxBracket, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, lower_bound, upper_bound, rate, created_at
		FROM tax_brackets
		WHERE company_id IS NOT DISTINCT FROM $1
		ORDER BY lower_bound
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tax brackets: %w", err)
	}
	defer rows.Close()

	var brackets []payroll.TaxBracket
	for rows.Next() {
		var b payroll.TaxBracket
		if err := rows.Scan(&b.ID, &b.CompanyID, &b.LowerBound, &b.UpperBound, &b.Rate, &b.CreatedAt); err != nil {
			return nil, err
		}
		brackets = append(brackets, b)
	}
	return brackets, rows.Err()
}

func (r *payrollRepository) GetPTKPEntries(ctx context.Context) ([]payroll.PTKPEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, status_code, annual_threshold, ter_category
		FROM ptkp_entries
		ORDER BY status_code
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get ptkp entries: %w", err)
	}
	defer rows.Close()

	var entries []payroll.PTKPEntry
	for rows.Next() {
		var e payroll.PTKPEntry
		if err := rows.Scan(&e.ID, &e.StatusCode, &e.AnnualThreshold, &e.TERCategory); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *payrollRepository) ReplaceTaxConfigurations(ctx context.Context, companyID *string, configs []payroll.TaxConfiguration) error {
	if err := payroll.ValidateTERBands(configs); err != nil {
		return err
	}

	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		q := GetQuerier(txCtx, r.db)

		if _, err := q.Exec(txCtx, `DELETE FROM tax_configurations WHERE company_id IS NOT DISTINCT FROM $1`, companyID); err != nil {
			return fmt.Errorf("failed to clear tax configurations: %w", err)
		}

		insert := `
			INSERT INTO tax_configurations (company_id, category, income_lower, income_upper, rate)
			VALUES ($1, $2, $3, $4, $5)
		`
		for _, c := range configs {
			if _, err := q.Exec(txCtx, insert, companyID, c.Category, c.IncomeLower, c.IncomeUpper, c.Rate); err != nil {
				return fmt.Errorf("failed to insert tax configuration: %w", err)
			}
		}
		return nil
	})
}

func (r *payrollRepository) ReplaceTaxBrackets(ctx context.Context, companyID *string, brackets []payroll.TaxBracket) error {
	if err := payroll.ValidateTaxBrackets(brackets); err != nil {
		return err
	}

	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		q := GetQuerier(txCtx, r.db)

		if _, err := q.Exec(txCtx, `DELETE FROM tax_brackets WHERE company_id IS NOT DISTINCT FROM $1`, companyID); err != nil {
			return fmt.Errorf("failed to clear tax brackets: %w", err)
		}

		insert := `
			INSERT INTO tax_brackets (company_id, lower_bound, upper_bound, rate)
			VALUES ($1, $2, $3, $4)
		`
		for _, b := range brackets {
			if _, err := q.Exec(txCtx, insert, companyID, b.LowerBound, b.UpperBound, b.Rate); err != nil {
				return fmt.Errorf("failed to insert tax bracket: %w", err)
			}
		}
		return nil
	})
}

// ========== ADJUSTMENTS ==========

func (r *payrollRepository) CreateAdjustment(ctx context.Context, adj payroll.PayrollAdjustment) (payroll.PayrollAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_adjustments (
			company_id, employee_id, period_month, period_year,
			type, description, amount, is_taxable, bpjs_applicable, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, company_id, employee_id, period_month, period_year,
			type, description, amount, is_taxable, bpjs_applicable, status,
			decided_by, decided_at, created_at, updated_at
	`

	var a payroll.PayrollAdjustment
	err := q.QueryRow(ctx, query,
		adj.CompanyID, adj.EmployeeID, adj.PeriodMonth, adj.PeriodYear,
		adj.Type, adj.Description, adj.Amount, adj.IsTaxable, adj.BPJSApplicable, adj.Status,
	).Scan(
		&a.ID, &a.CompanyID, &a.EmployeeID, &a.PeriodMonth, &a.PeriodYear,
		&a.Type, &a.Description, &a.Amount, &a.IsTaxable, &a.BPJSApplicable, &a.Status,
		&a.DecidedBy, &a.DecidedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return payroll.PayrollAdjustment{}, fmt.Errorf("failed to create payroll adjustment: %w", err)
	}

	return a, nil
}

func (r *payrollRepository) GetAdjustmentByID(ctx context.Context, id, companyID string) (payroll.PayrollAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, employee_id, period_month, period_year,
			   type, description, amount, is_taxable, bpjs_applicable, status,
			   decided_by, decided_at, created_at, updated_at
		FROM payroll_adjustments
		WHERE id = $1 AND company_id = $2
	`

	var a payroll.PayrollAdjustment
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&a.ID, &a.CompanyID, &a.EmployeeID, &a.PeriodMonth, &a.PeriodYear,
		&a.Type, &a.Description, &a.Amount, &a.IsTaxable, &a.BPJSApplicable, &a.Status,
		&a.DecidedBy, &a.DecidedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollAdjustment{}, payroll.ErrAdjustmentNotFound
		}
		return payroll.PayrollAdjustment{}, fmt.Errorf("failed to get payroll adjustment: %w", err)
	}

	return a, nil
}

func (r *payrollRepository) ListAdjustments(ctx context.Context, companyID string, month, year int, status *payroll.AdjustmentStatus) ([]payroll.PayrollAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, employee_id, period_month, period_year,
			   type, description, amount, is_taxable, bpjs_applicable, status,
			   decided_by, decided_at, created_at, updated_at
		FROM payroll_adjustments
		WHERE company_id = $1 AND period_month = $2 AND period_year = $3
	`
	args := []interface{}{companyID, month, year}
	if status != nil {
		query += ` AND status = $4`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll adjustments: %w", err)
	}
	defer rows.Close()

	return scanAdjustments(rows)
}

func (r *payrollRepository) GetApprovedAdjustments(ctx context.Context, companyID, employeeID string, month, year int) ([]payroll.PayrollAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, employee_id, period_month, period_year,
			   type, description, amount, is_taxable, bpjs_applicable, status,
			   decided_by, decided_at, created_at, updated_at
		FROM payroll_adjustments
		WHERE company_id = $1 AND employee_id = $2 AND period_month = $3 AND period_year = $4 AND status = $5
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, companyID, employeeID, month, year, payroll.AdjustmentApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to get approved adjustments: %w", err)
	}
	defer rows.Close()

	return scanAdjustments(rows)
}

func scanAdjustments(rows pgx.Rows) ([]payroll.PayrollAdjustment, error) {
	var adjustments []payroll.PayrollAdjustment
	for rows.Next() {
		var a payroll.PayrollAdjustment
		err := rows.Scan(
			&a.ID, &a.CompanyID, &a.EmployeeID, &a.PeriodMonth, &a.PeriodYear,
			&a.Type, &a.Description, &a.Amount, &a.IsTaxable, &a.BPJSApplicable, &a.Status,
			&a.DecidedBy, &a.DecidedAt, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, a)
	}
	return adjustments, rows.Err()
}

func (r *payrollRepository) DecideAdjustment(ctx context.Context, id, companyID string, status payroll.AdjustmentStatus, decidedBy string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_adjustments
		SET status = $1, decided_by = $2, decided_at = NOW(), updated_at = NOW()
		WHERE id = $3 AND company_id = $4 AND status = $5
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, status, decidedBy, id, companyID, payroll.AdjustmentPending).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrAdjustmentNotPending
		}
		return fmt.Errorf("failed to decide payroll adjustment: %w", err)
	}

	return nil
}

// ========== PAYROLLS ==========

const payrollColumns = `
	id, company_id, employee_id, period_month, period_year,
	basic_salary, prorate_factor, prorate_reason, total_allowances, overtime_pay, gross_salary,
	total_deductions, employee_contribution, employer_contribution,
	taxable_income, tax_method, tax_payment, ter_category, ter_rate,
	gross_up_initial, final_gross_up, tax_amount,
	net_salary, take_home_pay, employer_cost,
	status, version,
	validated_by, validated_at, submitted_by, submitted_at, approved_by, approved_at,
	rejected_by, rejected_at, reject_note, paid_by, paid_at, payment_ref,
	cancelled_by, cancelled_at, created_at, updated_at`

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.EmployeeID, &p.PeriodMonth, &p.PeriodYear,
		&p.BasicSalary, &p.ProrateFactor, &p.ProrateReason, &p.TotalAllowances, &p.OvertimePay, &p.GrossSalary,
		&p.TotalDeductions, &p.EmployeeContribution, &p.EmployerContribution,
		&p.TaxableIncome, &p.TaxMethod, &p.TaxPayment, &p.TERCategory, &p.TERRate,
		&p.GrossUpInitial, &p.FinalGrossUp, &p.TaxAmount,
		&p.NetSalary, &p.TakeHomePay, &p.EmployerCost,
		&p.Status, &p.Version,
		&p.ValidatedBy, &p.ValidatedAt, &p.SubmittedBy, &p.SubmittedAt, &p.ApprovedBy, &p.ApprovedAt,
		&p.RejectedBy, &p.RejectedAt, &p.RejectNote, &p.PaidBy, &p.PaidAt, &p.PaymentRef,
		&p.CancelledBy, &p.CancelledAt, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *payrollRepository) CreatePayroll(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	var created payroll.Payroll

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		q := GetQuerier(txCtx, r.db)

		query := `
			INSERT INTO payrolls (
				company_id, employee_id, period_month, period_year,
				basic_salary, prorate_factor, prorate_reason, total_allowances, overtime_pay, gross_salary,
				total_deductions, employee_contribution, employer_contribution,
				taxable_income, tax_method, tax_payment, ter_category, ter_rate,
				gross_up_initial, final_gross_up, tax_amount,
				net_salary, take_home_pay, employer_cost, status, version
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
			RETURNING` + payrollColumns

		row := q.QueryRow(txCtx, query,
			p.CompanyID, p.EmployeeID, p.PeriodMonth, p.PeriodYear,
			p.BasicSalary, p.ProrateFactor, p.ProrateReason, p.TotalAllowances, p.OvertimePay, p.GrossSalary,
			p.TotalDeductions, p.EmployeeContribution, p.EmployerContribution,
			p.TaxableIncome, p.TaxMethod, p.TaxPayment, p.TERCategory, p.TERRate,
			p.GrossUpInitial, p.FinalGrossUp, p.TaxAmount,
			p.NetSalary, p.TakeHomePay, p.EmployerCost, p.Status, p.Version,
		)

		var scanErr error
		created, scanErr = scanPayroll(row)
		if scanErr != nil {
			if strings.Contains(scanErr.Error(), "uk_payroll_employee_period") {
				return payroll.ErrPayrollAlreadyExists
			}
			return fmt.Errorf("failed to create payroll: %w", scanErr)
		}

		return r.insertDetails(txCtx, q, created.ID, p.Details)
	})
	if err != nil {
		return payroll.Payroll{}, err
	}

	created.Details = p.Details
	return created, nil
}

// ReplaceDraftPayroll overwrites a live draft's computed fields and
// breakdown in place. Guarded by status so a validated slip can never be
// replaced through this path.
func (r *payrollRepository) ReplaceDraftPayroll(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	var replaced payroll.Payroll

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		q := GetQuerier(txCtx, r.db)

		query := `
			UPDATE payrolls SET
				basic_salary = $1, prorate_factor = $2, prorate_reason = $3,
				total_allowances = $4, overtime_pay = $5, gross_salary = $6,
				total_deductions = $7, employee_contribution = $8, employer_contribution = $9,
				taxable_income = $10, tax_method = $11, tax_payment = $12, ter_category = $13, ter_rate = $14,
				gross_up_initial = $15, final_gross_up = $16, tax_amount = $17,
				net_salary = $18, take_home_pay = $19, employer_cost = $20,
				status = $21, version = version + 1, updated_at = NOW()
			WHERE id = $22 AND company_id = $23 AND status IN ($24, $25, $26)
			RETURNING` + payrollColumns

		row := q.QueryRow(txCtx, query,
			p.BasicSalary, p.ProrateFactor, p.ProrateReason,
			p.TotalAllowances, p.OvertimePay, p.GrossSalary,
			p.TotalDeductions, p.EmployeeContribution, p.EmployerContribution,
			p.TaxableIncome, p.TaxMethod, p.TaxPayment, p.TERCategory, p.TERRate,
			p.GrossUpInitial, p.FinalGrossUp, p.TaxAmount,
			p.NetSalary, p.TakeHomePay, p.EmployerCost,
			payroll.StatusDraft,
			p.ID, p.CompanyID,
			payroll.StatusDraft, payroll.StatusProcessing, payroll.StatusRejected,
		)

		var scanErr error
		replaced, scanErr = scanPayroll(row)
		if scanErr != nil {
			if scanErr == pgx.ErrNoRows {
				return payroll.ErrPayrollNotFound
			}
			return fmt.Errorf("failed to replace draft payroll: %w", scanErr)
		}

		if _, err := q.Exec(txCtx, `DELETE FROM payroll_details WHERE payroll_id = $1`, p.ID); err != nil {
			return fmt.Errorf("failed to clear payroll details: %w", err)
		}
		return r.insertDetails(txCtx, q, p.ID, p.Details)
	})
	if err != nil {
		return payroll.Payroll{}, err
	}

	replaced.Details = p.Details
	return replaced, nil
}

func (r *payrollRepository) insertDetails(ctx context.Context, q database.Querier, payrollID string, details []payroll.PayrollDetail) error {
	insert := `
		INSERT INTO payroll_details (
			id, payroll_id, sequence, component_type, component_name, amount,
			is_taxable, bpjs_applicable, source, reference_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for _, d := range details {
		_, err := q.Exec(ctx, insert,
			uuid.New().String(), payrollID, d.Sequence, d.ComponentType, d.ComponentName, d.Amount,
			d.IsTaxable, d.BPJSApplicable, d.Source, d.ReferenceID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payroll detail: %w", err)
		}
	}
	return nil
}

func (r *payrollRepository) GetPayrollByID(ctx context.Context, id, companyID string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.id, p.company_id, p.employee_id, p.period_month, p.period_year,
			   p.basic_salary, p.prorate_factor, p.prorate_reason, p.total_allowances, p.overtime_pay, p.gross_salary,
			   p.total_deductions, p.employee_contribution, p.employer_contribution,
			   p.taxable_income, p.tax_method, p.tax_payment, p.ter_category, p.ter_rate,
			   p.gross_up_initial, p.final_gross_up, p.tax_amount,
			   p.net_salary, p.take_home_pay, p.employer_cost,
			   p.status, p.version,
			   p.validated_by, p.validated_at, p.submitted_by, p.submitted_at, p.approved_by, p.approved_at,
			   p.rejected_by, p.rejected_at, p.reject_note, p.paid_by, p.paid_at, p.payment_ref,
			   p.cancelled_by, p.cancelled_at, p.created_at, p.updated_at,
			   e.full_name, e.employee_code
		FROM payrolls p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.id = $1 AND p.company_id = $2
	`

	var p payroll.Payroll
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&p.ID, &p.CompanyID, &p.EmployeeID, &p.PeriodMonth, &p.PeriodYear,
		&p.BasicSalary, &p.ProrateFactor, &p.ProrateReason, &p.TotalAllowances, &p.OvertimePay, &p.GrossSalary,
		&p.TotalDeductions, &p.EmployeeContribution, &p.EmployerContribution,
		&p.TaxableIncome, &p.TaxMethod, &p.TaxPayment, &p.TERCategory, &p.TERRate,
		&p.GrossUpInitial, &p.FinalGrossUp, &p.TaxAmount,
		&p.NetSalary, &p.TakeHomePay, &p.EmployerCost,
		&p.Status, &p.Version,
		&p.ValidatedBy, &p.ValidatedAt, &p.SubmittedBy, &p.SubmittedAt, &p.ApprovedBy, &p.ApprovedAt,
		&p.RejectedBy, &p.RejectedAt, &p.RejectNote, &p.PaidBy, &p.PaidAt, &p.PaymentRef,
		&p.CancelledBy, &p.CancelledAt, &p.CreatedAt, &p.UpdatedAt,
		&p.EmployeeName, &p.EmployeeCode,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll: %w", err)
	}

	details, err := r.getDetails(ctx, p.ID)
	if err != nil {
		return payroll.Payroll{}, err
	}
	p.Details = details

	return p, nil
}

func (r *payrollRepository) getDetails(ctx context.Context, payrollID string) ([]payroll.PayrollDetail, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, payroll_id, sequence, component_type, component_name, amount,
			   is_taxable, bpjs_applicable, source, reference_id
		FROM payroll_details
		WHERE payroll_id = $1
		ORDER BY sequence
	`

	rows, err := q.Query(ctx, query, payrollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payroll details: %w", err)
	}
	defer rows.Close()

	var details []payroll.PayrollDetail
	for rows.Next() {
		var d payroll.PayrollDetail
		err := rows.Scan(
			&d.ID, &d.PayrollID, &d.Sequence, &d.ComponentType, &d.ComponentName, &d.Amount,
			&d.IsTaxable, &d.BPJSApplicable, &d.Source, &d.ReferenceID,
		)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// GetPayrollByEmployeePeriod finds the live (non-cancelled) payroll for
// one employee and period.
func (r *payrollRepository) GetPayrollByEmployeePeriod(ctx context.Context, employeeID string, month, year int, companyID string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + payrollColumns + `
		FROM payrolls
		WHERE employee_id = $1 AND period_month = $2 AND period_year = $3 AND company_id = $4 AND status != $5
	`

	p, err := scanPayroll(q.QueryRow(ctx, query, employeeID, month, year, companyID, payroll.StatusCancelled))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll by employee period: %w", err)
	}

	details, err := r.getDetails(ctx, p.ID)
	if err != nil {
		return payroll.Payroll{}, err
	}
	p.Details = details

	return p, nil
}

func (r *payrollRepository) ListPayrolls(ctx context.Context, companyID string, filter payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"p.company_id = $1"}
	args := []interface{}{companyID}

	if filter.PeriodMonth != nil {
		args = append(args, *filter.PeriodMonth)
		conditions = append(conditions, fmt.Sprintf("p.period_month = $%d", len(args)))
	}
	if filter.PeriodYear != nil {
		args = append(args, *filter.PeriodYear)
		conditions = append(conditions, fmt.Sprintf("p.period_year = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("p.employee_id = $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM payrolls p WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payrolls: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := `
		SELECT p.id, p.company_id, p.employee_id, p.period_month, p.period_year,
			   p.basic_salary, p.prorate_factor, p.prorate_reason, p.total_allowances, p.overtime_pay, p.gross_salary,
			   p.total_deductions, p.employee_contribution, p.employer_contribution,
			   p.taxable_income, p.tax_method, p.tax_payment, p.ter_category, p.ter_rate,
			   p.gross_up_initial, p.final_gross_up, p.tax_amount,
			   p.net_salary, p.take_home_pay, p.employer_cost,
			   p.status, p.version,
			   p.validated_by, p.validated_at, p.submitted_by, p.submitted_at, p.approved_by, p.approved_at,
			   p.rejected_by, p.rejected_at, p.reject_note, p.paid_by, p.paid_at, p.payment_ref,
			   p.cancelled_by, p.cancelled_at, p.created_at, p.updated_at,
			   e.full_name, e.employee_code
		FROM payrolls p
		JOIN employees e ON e.id = p.employee_id
		WHERE ` + where + `
		ORDER BY e.full_name, p.created_at
		LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payrolls: %w", err)
	}
	defer rows.Close()

	var payrolls []payroll.Payroll
	for rows.Next() {
		var p payroll.Payroll
		err := rows.Scan(
			&p.ID, &p.CompanyID, &p.EmployeeID, &p.PeriodMonth, &p.PeriodYear,
			&p.BasicSalary, &p.ProrateFactor, &p.ProrateReason, &p.TotalAllowances, &p.OvertimePay, &p.GrossSalary,
			&p.TotalDeductions, &p.EmployeeContribution, &p.EmployerContribution,
			&p.TaxableIncome, &p.TaxMethod, &p.TaxPayment, &p.TERCategory, &p.TERRate,
			&p.GrossUpInitial, &p.FinalGrossUp, &p.TaxAmount,
			&p.NetSalary, &p.TakeHomePay, &p.EmployerCost,
			&p.Status, &p.Version,
			&p.ValidatedBy, &p.ValidatedAt, &p.SubmittedBy, &p.SubmittedAt, &p.ApprovedBy, &p.ApprovedAt,
			&p.RejectedBy, &p.RejectedAt, &p.RejectNote, &p.PaidBy, &p.PaidAt, &p.PaymentRef,
			&p.CancelledBy, &p.CancelledAt, &p.CreatedAt, &p.UpdatedAt,
			&p.EmployeeName, &p.EmployeeCode,
		)
		if err != nil {
			return nil, 0, err
		}
		payrolls = append(payrolls, p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return payrolls, total, nil
}

// UpdatePayrollStatus persists a lifecycle transition. The WHERE clause
// carries the version the caller read; zero rows affected on an existing
// payroll means another writer won the race.
func (r *payrollRepository) UpdatePayrollStatus(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls SET
			basic_salary = $1, prorate_factor = $2, prorate_reason = $3,
			total_allowances = $4, overtime_pay = $5, gross_salary = $6,
			total_deductions = $7, employee_contribution = $8, employer_contribution = $9,
			taxable_income = $10, tax_method = $11, tax_payment = $12, ter_category = $13, ter_rate = $14,
			gross_up_initial = $15, final_gross_up = $16, tax_amount = $17,
			net_salary = $18, take_home_pay = $19, employer_cost = $20,
			status = $21,
			validated_by = $22, validated_at = $23, submitted_by = $24, submitted_at = $25,
			approved_by = $26, approved_at = $27, rejected_by = $28, rejected_at = $29, reject_note = $30,
			paid_by = $31, paid_at = $32, payment_ref = $33, cancelled_by = $34, cancelled_at = $35,
			version = version + 1, updated_at = NOW()
		WHERE id = $36 AND company_id = $37 AND version = $38
		RETURNING` + payrollColumns

	row := q.QueryRow(ctx, query,
		p.BasicSalary, p.ProrateFactor, p.ProrateReason,
		p.TotalAllowances, p.OvertimePay, p.GrossSalary,
		p.TotalDeductions, p.EmployeeContribution, p.EmployerContribution,
		p.TaxableIncome, p.TaxMethod, p.TaxPayment, p.TERCategory, p.TERRate,
		p.GrossUpInitial, p.FinalGrossUp, p.TaxAmount,
		p.NetSalary, p.TakeHomePay, p.EmployerCost,
		p.Status,
		p.ValidatedBy, p.ValidatedAt, p.SubmittedBy, p.SubmittedAt,
		p.ApprovedBy, p.ApprovedAt, p.RejectedBy, p.RejectedAt, p.RejectNote,
		p.PaidBy, p.PaidAt, p.PaymentRef, p.CancelledBy, p.CancelledAt,
		p.ID, p.CompanyID, p.Version,
	)

	updated, err := scanPayroll(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Distinguish a stale version from a missing row.
			var exists bool
			checkErr := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payrolls WHERE id = $1 AND company_id = $2)`, p.ID, p.CompanyID).Scan(&exists)
			if checkErr == nil && exists {
				return payroll.Payroll{}, payroll.ErrVersionConflict
			}
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to update payroll status: %w", err)
	}

	updated.Details = p.Details
	return updated, nil
}

// UpdatePayrollStatusWithDetails runs the status update and the
// breakdown rewrite inside one transaction.
func (r *payrollRepository) UpdatePayrollStatusWithDetails(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	var updated payroll.Payroll

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		var txErr error
		updated, txErr = r.UpdatePayrollStatus(txCtx, p)
		if txErr != nil {
			return txErr
		}

		q := GetQuerier(txCtx, r.db)
		if _, err := q.Exec(txCtx, `DELETE FROM payroll_details WHERE payroll_id = $1`, p.ID); err != nil {
			return fmt.Errorf("failed to clear payroll details: %w", err)
		}
		return r.insertDetails(txCtx, q, p.ID, p.Details)
	})
	if err != nil {
		return payroll.Payroll{}, err
	}

	updated.Details = p.Details
	return updated, nil
}

func (r *payrollRepository) GetPayrollSummary(ctx context.Context, companyID string, month, year int) (payroll.PayrollSummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	summary := payroll.PayrollSummaryResponse{
		PeriodMonth:   month,
		PeriodYear:    year,
		CountByStatus: make(map[string]int),
	}

	query := `
		SELECT COUNT(*),
			   COALESCE(SUM(gross_salary), 0),
			   COALESCE(SUM(total_deductions), 0),
			   COALESCE(SUM(tax_amount), 0),
			   COALESCE(SUM(net_salary), 0),
			   COALESCE(SUM(employer_cost), 0)
		FROM payrolls
		WHERE company_id = $1 AND period_month = $2 AND period_year = $3 AND status != $4
	`
	err := q.QueryRow(ctx, query, companyID, month, year, payroll.StatusCancelled).Scan(
		&summary.TotalEmployees,
		&summary.TotalGrossSalary,
		&summary.TotalDeductions,
		&summary.TotalTax,
		&summary.TotalNetSalary,
		&summary.TotalEmployerCost,
	)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}

	statusQuery := `
		SELECT status, COUNT(*)
		FROM payrolls
		WHERE company_id = $1 AND period_month = $2 AND period_year = $3
		GROUP BY status
	`
	rows, err := q.Query(ctx, statusQuery, companyID, month, year)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to get payroll status counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return payroll.PayrollSummaryResponse{}, err
		}
		summary.CountByStatus[status] = count
	}
	if err = rows.Err(); err != nil {
		return payroll.PayrollSummaryResponse{}, err
	}

	return summary, nil
}

// ========== COLLABORATOR AGGREGATES ==========

// GetAttendanceSummary reads the per-period aggregates the attendance
// subsystem maintains.
func (r *payrollRepository) GetAttendanceSummary(ctx context.Context, companyID string, month, year int, employeeIDs []string) ([]payroll.AttendanceSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, working_days, absence_days, late_minutes, late_days, unpaid_leave_days
		FROM attendance_period_summaries
		WHERE company_id = $1 AND period_month = $2 AND period_year = $3 AND employee_id = ANY($4)
	`

	rows, err := q.Query(ctx, query, companyID, month, year, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance summaries: %w", err)
	}
	defer rows.Close()

	var summaries []payroll.AttendanceSummary
	for rows.Next() {
		var s payroll.AttendanceSummary
		err := rows.Scan(&s.EmployeeID, &s.WorkingDays, &s.AbsenceDays, &s.LateMinutes, &s.LateDays, &s.UnpaidLeaveDays)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// GetOvertimePay sums the approved overtime for the employee and period.
func (r *payrollRepository) GetOvertimePay(ctx context.Context, companyID, employeeID string, month, year int) (payroll.OvertimePayTotal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(pay_amount), 0)
		FROM overtime_requests
		WHERE company_id = $1 AND employee_id = $2 AND period_month = $3 AND period_year = $4 AND status = 'approved'
	`

	total := payroll.OvertimePayTotal{EmployeeID: employeeID}
	err := q.QueryRow(ctx, query, companyID, employeeID, month, year).Scan(&total.Amount)
	if err != nil {
		return payroll.OvertimePayTotal{}, fmt.Errorf("failed to get overtime pay: %w", err)
	}

	return total, nil
}
