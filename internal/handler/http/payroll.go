package http

import (
	"encoding/json"
	"net/http"

	"github.com/avantix/ttw-backend-go/internal/domain/payroll"
	"github.com/avantix/ttw-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	Pending(w http.ResponseWriter, r *http.Request)
	SettleGroup(w http.ResponseWriter, r *http.Request)
	SettleLine(w http.ResponseWriter, r *http.Request)
	UpdateLine(w http.ResponseWriter, r *http.Request)
	Adjust(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	DeleteMany(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// Pending implements PayrollHandler.
func (h *payrollHandlerImpl) Pending(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.AggregatePending(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// SettleGroup implements PayrollHandler.
func (h *payrollHandlerImpl) SettleGroup(w http.ResponseWriter, r *http.Request) {
	var req payroll.SettleGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.SettleGroup(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payment settled", result)
}

// SettleLine implements PayrollHandler.
func (h *payrollHandlerImpl) SettleLine(w http.ResponseWriter, r *http.Request) {
	var req payroll.SettleLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.SettleLine(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payment settled", result)
}

// UpdateLine implements PayrollHandler.
func (h *payrollHandlerImpl) UpdateLine(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdatePaymentLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.PaymentID = chi.URLParam(r, "id")

	result, err := h.payrollService.UpdatePaymentLine(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payment line updated", result)
}

// Adjust implements PayrollHandler.
func (h *payrollHandlerImpl) Adjust(w http.ResponseWriter, r *http.Request) {
	var req payroll.AdjustPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.PaymentID = chi.URLParam(r, "id")

	result, err := h.payrollService.AdjustPayment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payment adjusted", result)
}

// Get implements PayrollHandler.
func (h *payrollHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.payrollService.GetPayment(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements PayrollHandler.
func (h *payrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListPayments(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// DeleteMany implements PayrollHandler.
func (h *payrollHandlerImpl) DeleteMany(w http.ResponseWriter, r *http.Request) {
	var req payroll.DeletePaymentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	deleted, err := h.payrollService.DeletePayments(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payments deleted", map[string]int64{"deleted": deleted})
}
