package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/employee"
	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/payroll"
	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/user"
	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/fixtures"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// generateConcurrency bounds the parallel per-employee computations in
// a batch run.
const generateConcurrency = 8

type PayrollServiceImpl struct {
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository

	// now is injected so period-sensitive logic is testable.
	now func() time.Time
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		now:          time.Now,
	}
}

// Helper to get company_id, user_id and role from JWT context
func getClaimsFromContext(ctx context.Context) (companyID, userID string, role user.Role, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	userID, _ = claims["user_id"].(string)
	roleStr, _ := claims["role"].(string)

	return companyID, userID, user.Role(roleStr), nil
}

// ========== SETTINGS ==========

func (s *PayrollServiceImpl) GetSetting(ctx context.Context) (payroll.PayrollSettingResponse, error) {
	companyID, _, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollSettingResponse{}, err
	}

	setting, err := s.resolveSetting(ctx, companyID)
	if err != nil {
		return payroll.PayrollSettingResponse{}, err
	}
	return toSettingResponse(setting), nil
}

func (s *PayrollServiceImpl) UpdateSetting(ctx context.Context, req payroll.UpdatePayrollSettingRequest) (payroll.PayrollSettingResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollSettingResponse{}, err
	}

	companyID, _, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollSettingResponse{}, err
	}

	current, err := s.resolveSetting(ctx, companyID)
	if err != nil {
		return payroll.PayrollSettingResponse{}, err
	}

	applySettingUpdates(&current, req)

	updated, err := s.payrollRepo.UpsertSetting(ctx, current)
	if err != nil {
		return payroll.PayrollSettingResponse{}, err
	}
	return toSettingResponse(updated), nil
}

// resolveSetting returns the stored company setting, falling back to the
// statutory defaults when the company has never saved one.
func (s *PayrollServiceImpl) resolveSetting(ctx context.Context, companyID string) (payroll.PayrollSetting, error) {
	setting, err := s.payrollRepo.GetSetting(ctx, companyID)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollSettingNotFound) {
			return fixtures.DefaultPayrollSetting(companyID), nil
		}
		return payroll.PayrollSetting{}, err
	}
	return setting, nil
}

func applySettingUpdates(current *payroll.PayrollSetting, req payroll.UpdatePayrollSettingRequest) {
	if req.HealthEmployeeRate != nil {
		current.HealthEmployeeRate = *req.HealthEmployeeRate
	}
	if req.HealthEmployerRate != nil {
		current.HealthEmployerRate = *req.HealthEmployerRate
	}
	if req.HealthSalaryCap != nil {
		current.HealthSalaryCap = *req.HealthSalaryCap
	}
	if req.JHTEmployeeRate != nil {
		current.JHTEmployeeRate = *req.JHTEmployeeRate
	}
	if req.JHTEmployerRate != nil {
		current.JHTEmployerRate = *req.JHTEmployerRate
	}
	if req.JPEmployeeRate != nil {
		current.JPEmployeeRate = *req.JPEmployeeRate
	}
	if req.JPEmployerRate != nil {
		current.JPEmployerRate = *req.JPEmployerRate
	}
	if req.JPSalaryCap != nil {
		current.JPSalaryCap = *req.JPSalaryCap
	}
	if req.JKKEmployerRate != nil {
		current.JKKEmployerRate = *req.JKKEmployerRate
	}
	if req.JKMEmployerRate != nil {
		current.JKMEmployerRate = *req.JKMEmployerRate
	}
	if req.UseTERMethod != nil {
		current.UseTERMethod = *req.UseTERMethod
	}
	if req.TaxPaymentMethod != nil {
		current.TaxPaymentMethod = *req.TaxPaymentMethod
	}
	if req.AbsenceDeductionRate != nil {
		current.AbsenceDeductionRate = *req.AbsenceDeductionRate
	}
	if req.LateDeductionMode != nil {
		current.LateDeductionMode = *req.LateDeductionMode
	}
	if req.LateDeductionRate != nil {
		current.LateDeductionRate = *req.LateDeductionRate
	}
	if req.LateToleranceMinutes != nil {
		current.LateToleranceMinutes = *req.LateToleranceMinutes
	}
	if req.OvertimeMultiplier != nil {
		current.OvertimeMultiplier = *req.OvertimeMultiplier
	}
	if req.ProrationMethod != nil {
		current.ProrationMethod = *req.ProrationMethod
	}
	if req.PayrollCutoffDay != nil {
		current.PayrollCutoffDay = *req.PayrollCutoffDay
	}
	if req.PaymentDay != nil {
		current.PaymentDay = *req.PaymentDay
	}
	if req.Currency != nil {
		current.Currency = *req.Currency
	}
	if req.RoundingMethod != nil {
		current.RoundingMethod = *req.RoundingMethod
	}
	if req.RoundingPrecision != nil {
		current.RoundingPrecision = *req.RoundingPrecision
	}
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}
}

// ========== CALCULATION ==========

func (s *PayrollServiceImpl) Calculate(ctx context.Context, req payroll.CalculateRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	companyID, _, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	env, err := s.loadEnvironment(ctx, companyID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	p, err := s.assemble(ctx, env, emp, req.PeriodMonth, req.PeriodYear, req.CustomFactor, nil)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	// Preview only: nothing is persisted, so no ID is assigned.
	return toPayrollResponse(p, true), nil
}

func (s *PayrollServiceImpl) Generate(ctx context.Context, req payroll.GenerateRequest) (payroll.GenerateResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GenerateResponse{}, err
	}

	companyID, _, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.GenerateResponse{}, err
	}

	env, err := s.loadEnvironment(ctx, companyID)
	if err != nil {
		return payroll.GenerateResponse{}, err
	}

	var employees []employee.Employee
	if len(req.EmployeeIDs) > 0 {
		employees, err = s.employeeRepo.GetByIDs(ctx, req.EmployeeIDs, companyID)
	} else {
		employees, err = s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
	}
	if err != nil {
		return payroll.GenerateResponse{}, err
	}

	ids := make([]string, len(employees))
	for i, emp := range employees {
		ids[i] = emp.ID
	}
	attendance, err := s.payrollRepo.GetAttendanceSummary(ctx, companyID, req.PeriodMonth, req.PeriodYear, ids)
	if err != nil {
		return payroll.GenerateResponse{}, err
	}
	attendanceByEmployee := make(map[string]payroll.AttendanceSummary, len(attendance))
	for _, a := range attendance {
		attendanceByEmployee[a.EmployeeID] = a
	}

	results := make([]payroll.GenerateItemResult, len(employees))

	// One goroutine per employee, bounded. An individual failure is
	// recorded in its slot and never aborts the batch.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(generateConcurrency)
	for i, emp := range employees {
		g.Go(func() error {
			att, ok := attendanceByEmployee[emp.ID]
			var attPtr *payroll.AttendanceSummary
			if ok {
				attPtr = &att
			}
			results[i] = s.generateOne(gctx, env, emp, req.PeriodMonth, req.PeriodYear, attPtr)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payroll.GenerateResponse{}, err
	}

	resp := payroll.GenerateResponse{
		PeriodMonth: req.PeriodMonth,
		PeriodYear:  req.PeriodYear,
		Items:       results,
	}
	for _, r := range results {
		switch {
		case r.Skipped:
			resp.Skipped++
		case r.PayrollID != nil:
			resp.Generated++
		default:
			resp.Failed++
		}
	}
	return resp, nil
}

// generateOne computes and persists one employee's payslip. Re-running
// generation is idempotent: validated-or-later slips are skipped, live
// drafts are recomputed in place.
func (s *PayrollServiceImpl) generateOne(
	ctx context.Context,
	env calcEnvironment,
	emp employee.Employee,
	month, year int,
	attendance *payroll.AttendanceSummary,
) payroll.GenerateItemResult {
	result := payroll.GenerateItemResult{EmployeeID: emp.ID}

	existing, err := s.payrollRepo.GetPayrollByEmployeePeriod(ctx, emp.ID, month, year, env.companyID)
	switch {
	case err == nil:
		if existing.Status.AtLeastValidated() {
			result.Skipped = true
			reason := fmt.Sprintf("payroll already %s", existing.Status)
			result.Reason = &reason
			return result
		}
		fresh, aerr := s.assemble(ctx, env, emp, month, year, nil, attendance)
		if aerr != nil {
			msg := aerr.Error()
			result.Reason = &msg
			return result
		}
		fresh.ID = existing.ID
		fresh.Version = existing.Version
		replaced, rerr := s.payrollRepo.ReplaceDraftPayroll(ctx, fresh)
		if rerr != nil {
			msg := rerr.Error()
			result.Reason = &msg
			return result
		}
		result.PayrollID = &replaced.ID
		return result

	case errors.Is(err, payroll.ErrPayrollNotFound):
		fresh, aerr := s.assemble(ctx, env, emp, month, year, nil, attendance)
		if aerr != nil {
			msg := aerr.Error()
			result.Reason = &msg
			return result
		}
		created, cerr := s.payrollRepo.CreatePayroll(ctx, fresh)
		if cerr != nil {
			msg := cerr.Error()
			result.Reason = &msg
			return result
		}
		result.PayrollID = &created.ID
		return result

	default:
		msg := err.Error()
		result.Reason = &msg
		return result
	}
}

// calcEnvironment is the per-company computation context shared by every
// payslip in one request: setting plus the prebuilt tax calculator.
type calcEnvironment struct {
	companyID string
	setting   payroll.PayrollSetting
	tax       *TaxCalculator
}

func (s *PayrollServiceImpl) loadEnvironment(ctx context.Context, companyID string) (calcEnvironment, error) {
	setting, err := s.resolveSetting(ctx, companyID)
	if err != nil {
		return calcEnvironment{}, err
	}

	ptkp, err := s.payrollRepo.GetPTKPEntries(ctx)
	if err != nil {
		return calcEnvironment{}, err
	}
	if len(ptkp) == 0 {
		ptkp = fixtures.DefaultPTKPEntries()
	}

	terBands, err := s.payrollRepo.GetTaxConfigurations(ctx, companyID)
	if err != nil {
		return calcEnvironment{}, err
	}
	if len(terBands) == 0 {
		terBands = fixtures.DefaultTERBands()
	}
	if err := payroll.ValidateTERBands(terBands); err != nil {
		return calcEnvironment{}, err
	}

	brackets, err := s.payrollRepo.GetTaxBrackets(ctx, companyID)
	if err != nil {
		return calcEnvironment{}, err
	}
	if len(brackets) == 0 {
		brackets = fixtures.DefaultTaxBrackets()
	}
	if err := payroll.ValidateTaxBrackets(brackets); err != nil {
		return calcEnvironment{}, err
	}

	return calcEnvironment{
		companyID: companyID,
		setting:   setting,
		tax:       NewTaxCalculator(setting, ptkp, terBands, brackets),
	}, nil
}

// assemble gathers the per-employee inputs and runs the pipeline.
// attendance may be pre-fetched by the caller (batch runs); when nil it
// is fetched here.
func (s *PayrollServiceImpl) assemble(
	ctx context.Context,
	env calcEnvironment,
	emp employee.Employee,
	month, year int,
	customFactor *decimal.Decimal,
	attendance *payroll.AttendanceSummary,
) (payroll.Payroll, error) {
	if attendance == nil {
		summaries, err := s.payrollRepo.GetAttendanceSummary(ctx, env.companyID, month, year, []string{emp.ID})
		if err != nil {
			return payroll.Payroll{}, err
		}
		if len(summaries) > 0 {
			attendance = &summaries[0]
		}
	}
	att := payroll.AttendanceSummary{EmployeeID: emp.ID}
	if attendance != nil {
		att = *attendance
	}
	if att.WorkingDays == 0 {
		att.WorkingDays = defaultWorkingDays(month, year)
	}

	adjustments, err := s.payrollRepo.GetApprovedAdjustments(ctx, env.companyID, emp.ID, month, year)
	if err != nil {
		return payroll.Payroll{}, err
	}

	overtime, err := s.payrollRepo.GetOvertimePay(ctx, env.companyID, emp.ID, month, year)
	if err != nil {
		return payroll.Payroll{}, err
	}

	return AssemblePayroll(AssemblerInput{
		Employee:     emp,
		PeriodMonth:  month,
		PeriodYear:   year,
		Setting:      env.setting,
		Attendance:   att,
		Adjustments:  adjustments,
		OvertimePay:  overtime.Amount.Mul(env.setting.OvertimeMultiplier),
		CustomFactor: customFactor,
		Tax:          env.tax,
	})
}

// defaultWorkingDays counts weekdays in the period; used when the
// attendance subsystem has no summary for the employee yet.
func defaultWorkingDays(month, year int) int {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return countEligibleDays(start, start.AddDate(0, 1, -1), payroll.ProrationWorkingDays, nil)
}

// ========== LIFECYCLE ==========

func (s *PayrollServiceImpl) Transition(ctx context.Context, payrollID string, action payroll.Action, req payroll.TransitionRequest) (payroll.PayrollResponse, error) {
	companyID, userID, role, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return s.transitionOne(ctx, companyID, userID, role, payrollID, action, req)
}

func (s *PayrollServiceImpl) BulkTransition(ctx context.Context, action payroll.Action, req payroll.BulkTransitionRequest) ([]payroll.BulkTransitionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	companyID, userID, role, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	// Sequential on purpose: each item carries its own outcome, and a
	// failure must not stop the remainder of the batch.
	results := make([]payroll.BulkTransitionResult, 0, len(req.PayrollIDs))
	for _, id := range req.PayrollIDs {
		item := payroll.BulkTransitionResult{PayrollID: id}
		resp, terr := s.transitionOne(ctx, companyID, userID, role, id, action, payroll.TransitionRequest{Note: req.Note})
		if terr != nil {
			msg := terr.Error()
			item.Error = &msg
		} else {
			item.OK = true
			status := string(resp.Status)
			item.Status = &status
		}
		results = append(results, item)
	}
	return results, nil
}

func (s *PayrollServiceImpl) transitionOne(
	ctx context.Context,
	companyID, userID string,
	role user.Role,
	payrollID string,
	action payroll.Action,
	req payroll.TransitionRequest,
) (payroll.PayrollResponse, error) {
	if !payroll.CanPerform(role, action) {
		return payroll.PayrollResponse{}, roleError(action)
	}

	p, err := s.payrollRepo.GetPayrollByID(ctx, payrollID, companyID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	next, err := payroll.NextStatus(p.Status, action)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	now := s.now()
	persistDetails := false

	switch action {
	case payroll.ActionProcess, payroll.ActionValidate:
		// Both recompute from current inputs and persist the refreshed
		// breakdown; validate additionally stamps the audit trail and
		// freezes the result against later drift.
		env, eerr := s.loadEnvironment(ctx, companyID)
		if eerr != nil {
			return payroll.PayrollResponse{}, eerr
		}
		emp, eerr := s.employeeRepo.GetByID(ctx, p.EmployeeID, companyID)
		if eerr != nil {
			return payroll.PayrollResponse{}, eerr
		}
		fresh, aerr := s.assemble(ctx, env, emp, p.PeriodMonth, p.PeriodYear, nil, nil)
		if aerr != nil {
			return payroll.PayrollResponse{}, aerr
		}
		copyComputed(&p, fresh)
		persistDetails = true
		if action == payroll.ActionValidate {
			p.ValidatedBy = &userID
			p.ValidatedAt = &now
		}

	case payroll.ActionSubmit:
		// Guard against configuration drift between validation and
		// submission: the frozen breakdown must still reproduce.
		env, eerr := s.loadEnvironment(ctx, companyID)
		if eerr != nil {
			return payroll.PayrollResponse{}, eerr
		}
		emp, eerr := s.employeeRepo.GetByID(ctx, p.EmployeeID, companyID)
		if eerr != nil {
			return payroll.PayrollResponse{}, eerr
		}
		fresh, aerr := s.assemble(ctx, env, emp, p.PeriodMonth, p.PeriodYear, nil, nil)
		if aerr != nil {
			return payroll.PayrollResponse{}, aerr
		}
		if !DetailsMatch(p.Details, fresh.Details) {
			return payroll.PayrollResponse{}, payroll.ErrFrozenMismatch
		}
		p.SubmittedBy = &userID
		p.SubmittedAt = &now

	case payroll.ActionApprove:
		p.ApprovedBy = &userID
		p.ApprovedAt = &now

	case payroll.ActionReject:
		p.RejectedBy = &userID
		p.RejectedAt = &now
		p.RejectNote = req.Note

	case payroll.ActionMarkPaid:
		if req.PaymentRef == nil || *req.PaymentRef == "" {
			return payroll.PayrollResponse{}, payroll.ErrPaymentRefRequired
		}
		p.PaidBy = &userID
		p.PaidAt = &now
		p.PaymentRef = req.PaymentRef

	case payroll.ActionCancel:
		p.CancelledBy = &userID
		p.CancelledAt = &now
	}

	p.Status = next

	var updated payroll.Payroll
	if persistDetails {
		// The recomputed breakdown and the status change land together.
		updated, err = s.payrollRepo.UpdatePayrollStatusWithDetails(ctx, p)
	} else {
		updated, err = s.payrollRepo.UpdatePayrollStatus(ctx, p)
	}
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return toPayrollResponse(updated, true), nil
}

func roleError(action payroll.Action) error {
	switch action {
	case payroll.ActionApprove, payroll.ActionReject, payroll.ActionMarkPaid, payroll.ActionCancel:
		return user.ErrHRManagerAccessRequired
	default:
		return user.ErrHRStaffAccessRequired
	}
}

// copyComputed overwrites the calculated fields of dst with a fresh
// computation, leaving identity, status and audit fields untouched.
func copyComputed(dst *payroll.Payroll, src payroll.Payroll) {
	dst.BasicSalary = src.BasicSalary
	dst.ProrateFactor = src.ProrateFactor
	dst.ProrateReason = src.ProrateReason
	dst.TotalAllowances = src.TotalAllowances
	dst.OvertimePay = src.OvertimePay
	dst.GrossSalary = src.GrossSalary
	dst.TotalDeductions = src.TotalDeductions
	dst.EmployeeContribution = src.EmployeeContribution
	dst.EmployerContribution = src.EmployerContribution
	dst.TaxableIncome = src.TaxableIncome
	dst.TaxMethod = src.TaxMethod
	dst.TaxPayment = src.TaxPayment
	dst.TERCategory = src.TERCategory
	dst.TERRate = src.TERRate
	dst.GrossUpInitial = src.GrossUpInitial
	dst.FinalGrossUp = src.FinalGrossUp
	dst.TaxAmount = src.TaxAmount
	dst.NetSalary = src.NetSalary
	dst.TakeHomePay = src.TakeHomePay
	dst.EmployerCost = src.EmployerCost
	dst.Details = src.Details
}

// ========== QUERIES ==========

func (s *PayrollServiceImpl) GetPayroll(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	companyID, _, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	p, err := s.payrollRepo.GetPayrollByID(ctx, id, companyID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return toPayrollResponse(p, true), nil
}

func (s *PayrollServiceImpl) ListPayrolls(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	companyID, _, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	payrolls, total, err := s.payrollRepo.ListPayrolls(ctx, companyID, filter)
	if err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	data := make([]payroll.PayrollResponse, 0, len(payrolls))
	for _, p := range payrolls {
		data = append(data, toPayrollResponse(p, false))
	}
	return payroll.ListPayrollResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *PayrollServiceImpl) GetSummary(ctx context.Context, month, year int) (payroll.PayrollSummaryResponse, error) {
	companyID, _, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, err
	}
	if month < 1 || month > 12 {
		return payroll.PayrollSummaryResponse{}, payroll.ErrInvalidPeriod
	}
	return s.payrollRepo.GetPayrollSummary(ctx, companyID, month, year)
}

// ========== ADJUSTMENTS ==========

func (s *PayrollServiceImpl) CreateAdjustment(ctx context.Context, req payroll.CreateAdjustmentRequest) (payroll.AdjustmentResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.AdjustmentResponse{}, err
	}

	companyID, _, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.AdjustmentResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID); err != nil {
		return payroll.AdjustmentResponse{}, err
	}

	adj := payroll.PayrollAdjustment{
		CompanyID:   companyID,
		EmployeeID:  req.EmployeeID,
		PeriodMonth: req.PeriodMonth,
		PeriodYear:  req.PeriodYear,
		Type:        req.Type,
		Description: req.Description,
		Amount:      req.Amount,
		Status:      payroll.AdjustmentPending,
	}
	// Earnings are taxable and BPJS-applicable unless stated otherwise.
	adj.IsTaxable = req.Type.IsEarning()
	if req.IsTaxable != nil {
		adj.IsTaxable = *req.IsTaxable
	}
	if req.BPJSApplicable != nil {
		adj.BPJSApplicable = *req.BPJSApplicable
	}

	created, err := s.payrollRepo.CreateAdjustment(ctx, adj)
	if err != nil {
		return payroll.AdjustmentResponse{}, err
	}
	return toAdjustmentResponse(created), nil
}

func (s *PayrollServiceImpl) ListAdjustments(ctx context.Context, month, year int, status *payroll.AdjustmentStatus) ([]payroll.AdjustmentResponse, error) {
	companyID, _, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	adjustments, err := s.payrollRepo.ListAdjustments(ctx, companyID, month, year, status)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.AdjustmentResponse, 0, len(adjustments))
	for _, adj := range adjustments {
		responses = append(responses, toAdjustmentResponse(adj))
	}
	return responses, nil
}

func (s *PayrollServiceImpl) DecideAdjustment(ctx context.Context, id string, approve bool) (payroll.AdjustmentResponse, error) {
	companyID, userID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.AdjustmentResponse{}, err
	}

	adj, err := s.payrollRepo.GetAdjustmentByID(ctx, id, companyID)
	if err != nil {
		return payroll.AdjustmentResponse{}, err
	}
	if adj.Status != payroll.AdjustmentPending {
		return payroll.AdjustmentResponse{}, payroll.ErrAdjustmentNotPending
	}

	status := payroll.AdjustmentRejected
	if approve {
		status = payroll.AdjustmentApproved
	}
	if err := s.payrollRepo.DecideAdjustment(ctx, id, companyID, status, userID); err != nil {
		return payroll.AdjustmentResponse{}, err
	}

	adj.Status = status
	return toAdjustmentResponse(adj), nil
}

// ========== MAPPERS ==========

func toSettingResponse(s payroll.PayrollSetting) payroll.PayrollSettingResponse {
	return payroll.PayrollSettingResponse{
		ID:                   s.ID,
		CompanyID:            s.CompanyID,
		HealthEmployeeRate:   s.HealthEmployeeRate,
		HealthEmployerRate:   s.HealthEmployerRate,
		HealthSalaryCap:      s.HealthSalaryCap,
		JHTEmployeeRate:      s.JHTEmployeeRate,
		JHTEmployerRate:      s.JHTEmployerRate,
		JPEmployeeRate:       s.JPEmployeeRate,
		JPEmployerRate:       s.JPEmployerRate,
		JPSalaryCap:          s.JPSalaryCap,
		JKKEmployerRate:      s.JKKEmployerRate,
		JKMEmployerRate:      s.JKMEmployerRate,
		UseTERMethod:         s.UseTERMethod,
		TaxPaymentMethod:     s.TaxPaymentMethod,
		AbsenceDeductionRate: s.AbsenceDeductionRate,
		LateDeductionMode:    s.LateDeductionMode,
		LateDeductionRate:    s.LateDeductionRate,
		LateToleranceMinutes: s.LateToleranceMinutes,
		OvertimeMultiplier:   s.OvertimeMultiplier,
		ProrationMethod:      s.ProrationMethod,
		PayrollCutoffDay:     s.PayrollCutoffDay,
		PaymentDay:           s.PaymentDay,
		Currency:             s.Currency,
		RoundingMethod:       s.RoundingMethod,
		RoundingPrecision:    s.RoundingPrecision,
		IsActive:             s.IsActive,
	}
}

func toPayrollResponse(p payroll.Payroll, withDetails bool) payroll.PayrollResponse {
	resp := payroll.PayrollResponse{
		ID:                   p.ID,
		EmployeeID:           p.EmployeeID,
		EmployeeName:         p.EmployeeName,
		EmployeeCode:         p.EmployeeCode,
		PeriodMonth:          p.PeriodMonth,
		PeriodYear:           p.PeriodYear,
		BasicSalary:          p.BasicSalary,
		ProrateFactor:        p.ProrateFactor,
		ProrateReason:        p.ProrateReason,
		TotalAllowances:      p.TotalAllowances,
		OvertimePay:          p.OvertimePay,
		GrossSalary:          p.GrossSalary,
		TotalDeductions:      p.TotalDeductions,
		EmployeeContribution: p.EmployeeContribution,
		EmployerContribution: p.EmployerContribution,
		TaxableIncome:        p.TaxableIncome,
		TaxMethod:            p.TaxMethod,
		TaxPayment:           p.TaxPayment,
		TERCategory:          p.TERCategory,
		TERRate:              p.TERRate,
		GrossUpInitial:       p.GrossUpInitial,
		FinalGrossUp:         p.FinalGrossUp,
		TaxAmount:            p.TaxAmount,
		NetSalary:            p.NetSalary,
		TakeHomePay:          p.TakeHomePay,
		EmployerCost:         p.EmployerCost,
		Status:               p.Status,
		PaymentRef:           p.PaymentRef,
	}
	if withDetails {
		resp.Details = make([]payroll.PayrollDetailResponse, 0, len(p.Details))
		for _, d := range p.Details {
			dr := payroll.PayrollDetailResponse{
				Sequence:       d.Sequence,
				ComponentType:  d.ComponentType,
				ComponentName:  d.ComponentName,
				Amount:         d.Amount,
				IsTaxable:      d.IsTaxable,
				BPJSApplicable: d.BPJSApplicable,
				ReferenceID:    d.ReferenceID,
			}
			if d.Source != nil {
				src := string(*d.Source)
				dr.Source = &src
			}
			resp.Details = append(resp.Details, dr)
		}
	}
	return resp
}

func toAdjustmentResponse(adj payroll.PayrollAdjustment) payroll.AdjustmentResponse {
	return payroll.AdjustmentResponse{
		ID:             adj.ID,
		EmployeeID:     adj.EmployeeID,
		PeriodMonth:    adj.PeriodMonth,
		PeriodYear:     adj.PeriodYear,
		Type:           adj.Type,
		Description:    adj.Description,
		Amount:         adj.Amount,
		IsTaxable:      adj.IsTaxable,
		BPJSApplicable: adj.BPJSApplicable,
		Status:         adj.Status,
	}
}
