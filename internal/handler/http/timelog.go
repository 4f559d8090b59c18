package http

import (
	"encoding/json"
	"net/http"

	"github.com/avantix/ttw-backend-go/internal/domain/timelog"
	"github.com/avantix/ttw-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TimeLogHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	SubmitBatch(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	ListUnpaid(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
}

type timeLogHandlerImpl struct {
	timeLogService timelog.TimeLogService
}

func NewTimeLogHandler(timeLogService timelog.TimeLogService) TimeLogHandler {
	return &timeLogHandlerImpl{timeLogService: timeLogService}
}

// Create implements TimeLogHandler.
func (h *timeLogHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req timelog.CreateLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.timeLogService.CreateLog(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Time log created", result)
}

// SubmitBatch implements TimeLogHandler.
func (h *timeLogHandlerImpl) SubmitBatch(w http.ResponseWriter, r *http.Request) {
	var req timelog.SubmitBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.timeLogService.SubmitBatch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Time logs submitted", result)
}

// Update implements TimeLogHandler.
func (h *timeLogHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req timelog.UpdateLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.timeLogService.UpdateLog(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time log updated", result)
}

// Delete implements TimeLogHandler.
func (h *timeLogHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.timeLogService.DeleteLog(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time log deleted", nil)
}

// ListUnpaid implements TimeLogHandler.
func (h *timeLogHandlerImpl) ListUnpaid(w http.ResponseWriter, r *http.Request) {
	result, err := h.timeLogService.ListUnpaid(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListByEmployee implements TimeLogHandler.
func (h *timeLogHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	result, err := h.timeLogService.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ClockIn implements TimeLogHandler.
func (h *timeLogHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	var req timelog.ClockInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.timeLogService.ClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock in successful", result)
}

// ClockOut implements TimeLogHandler.
func (h *timeLogHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	var req timelog.ClockOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.timeLogService.ClockOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock out successful", result)
}
