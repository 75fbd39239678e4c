package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/payroll"
	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	GetSetting(w http.ResponseWriter, r *http.Request)
	UpdateSetting(w http.ResponseWriter, r *http.Request)

	Calculate(w http.ResponseWriter, r *http.Request)
	Generate(w http.ResponseWriter, r *http.Request)

	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	GetSummary(w http.ResponseWriter, r *http.Request)

	Transition(action payroll.Action) http.HandlerFunc
	BulkTransition(action payroll.Action) http.HandlerFunc

	CreateAdjustment(w http.ResponseWriter, r *http.Request)
	ListAdjustments(w http.ResponseWriter, r *http.Request)
	DecideAdjustment(approve bool) http.HandlerFunc
}

type PayrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &PayrollHandlerImpl{payrollService: payrollService}
}

// ========== SETTINGS ==========

// GetSetting implements PayrollHandler.
func (h *PayrollHandlerImpl) GetSetting(w http.ResponseWriter, r *http.Request) {
	setting, err := h.payrollService.GetSetting(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, setting)
}

// UpdateSetting implements PayrollHandler.
func (h *PayrollHandlerImpl) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdatePayrollSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateSetting decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	setting, err := h.payrollService.UpdateSetting(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll setting updated successfully", setting)
}

// ========== CALCULATION ==========

// Calculate implements PayrollHandler.
func (h *PayrollHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var req payroll.CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Calculate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.Calculate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Generate implements PayrollHandler.
func (h *PayrollHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req payroll.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Generate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.Generate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll generation completed", result)
}

// ========== QUERIES ==========

// List implements PayrollHandler.
func (h *PayrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := payroll.PayrollFilter{}

	query := r.URL.Query()
	if v := query.Get("period_month"); v != "" {
		if month, err := strconv.Atoi(v); err == nil {
			filter.PeriodMonth = &month
		}
	}
	if v := query.Get("period_year"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			filter.PeriodYear = &year
		}
	}
	if v := query.Get("status"); v != "" {
		status := payroll.Status(v)
		filter.Status = &status
	}
	if v := query.Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	filter.Page, _ = strconv.Atoi(query.Get("page"))
	filter.Limit, _ = strconv.Atoi(query.Get("limit"))

	result, err := h.payrollService.ListPayrolls(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := int(result.TotalCount) / result.Limit
	if int(result.TotalCount)%result.Limit > 0 {
		totalPages++
	}
	response.SuccessWithMeta(w, result.Data, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: totalPages,
	})
}

// Get implements PayrollHandler.
func (h *PayrollHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	payrollID := chi.URLParam(r, "id")
	if payrollID == "" {
		response.BadRequest(w, "Payroll ID is required", nil)
		return
	}

	result, err := h.payrollService.GetPayroll(r.Context(), payrollID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetSummary implements PayrollHandler.
func (h *PayrollHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(r.URL.Query().Get("period_month"))
	if err != nil {
		response.BadRequest(w, "period_month is required", nil)
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("period_year"))
	if err != nil {
		response.BadRequest(w, "period_year is required", nil)
		return
	}

	summary, err := h.payrollService.GetSummary(r.Context(), month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// ========== LIFECYCLE ==========

// Transition returns a handler bound to one lifecycle action.
func (h *PayrollHandlerImpl) Transition(action payroll.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payrollID := chi.URLParam(r, "id")
		if payrollID == "" {
			response.BadRequest(w, "Payroll ID is required", nil)
			return
		}

		// The body is optional for most actions.
		var req payroll.TransitionRequest
		if r.Body != nil && r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				slog.Error("Transition decode error", "action", action, "error", err)
				response.BadRequest(w, "Invalid request format", nil)
				return
			}
		}

		result, err := h.payrollService.Transition(r.Context(), payrollID, action, req)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		response.SuccessWithMessage(w, "Payroll "+string(result.Status), result)
	}
}

// BulkTransition returns a handler applying one action to many payrolls.
func (h *PayrollHandlerImpl) BulkTransition(action payroll.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req payroll.BulkTransitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Error("BulkTransition decode error", "action", action, "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}

		results, err := h.payrollService.BulkTransition(r.Context(), action, req)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		response.Success(w, results)
	}
}

// ========== ADJUSTMENTS ==========

// CreateAdjustment implements PayrollHandler.
func (h *PayrollHandlerImpl) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateAdjustment decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.CreateAdjustment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll adjustment created", result)
}

// ListAdjustments implements PayrollHandler.
func (h *PayrollHandlerImpl) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(r.URL.Query().Get("period_month"))
	if err != nil {
		response.BadRequest(w, "period_month is required", nil)
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("period_year"))
	if err != nil {
		response.BadRequest(w, "period_year is required", nil)
		return
	}

	var status *payroll.AdjustmentStatus
	if v := r.URL.Query().Get("status"); v != "" {
		s := payroll.AdjustmentStatus(v)
		status = &s
	}

	results, err := h.payrollService.ListAdjustments(r.Context(), month, year, status)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// DecideAdjustment returns a handler approving or rejecting an adjustment.
func (h *PayrollHandlerImpl) DecideAdjustment(approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adjustmentID := chi.URLParam(r, "id")
		if adjustmentID == "" {
			response.BadRequest(w, "Adjustment ID is required", nil)
			return
		}

		result, err := h.payrollService.DecideAdjustment(r.Context(), adjustmentID, approve)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		message := "Adjustment rejected"
		if approve {
			message = "Adjustment approved"
		}
		response.SuccessWithMessage(w, message, result)
	}
}
