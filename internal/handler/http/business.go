package http

import (
	"encoding/json"
	"net/http"

	"github.com/avantix/ttw-backend-go/internal/domain/business"
	"github.com/avantix/ttw-backend-go/internal/handler/http/response"
)

type BusinessHandler interface {
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)
}

type businessHandlerImpl struct {
	businessService business.BusinessService
}

func NewBusinessHandler(businessService business.BusinessService) BusinessHandler {
	return &businessHandlerImpl{businessService: businessService}
}

// GetSettings implements BusinessHandler.
func (h *businessHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	result, err := h.businessService.GetSettings(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateSettings implements BusinessHandler.
func (h *businessHandlerImpl) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req business.UpdateBusinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.businessService.UpdateSettings(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Settings updated", result)
}
