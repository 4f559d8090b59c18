package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/avantix/ttw-backend-go/internal/domain/payimport"
	"github.com/avantix/ttw-backend-go/internal/handler/http/response"
)

type ImportHandler interface {
	Parse(w http.ResponseWriter, r *http.Request)
	Reconcile(w http.ResponseWriter, r *http.Request)
}

type importHandlerImpl struct {
	importService payimport.ImportService
}

func NewImportHandler(importService payimport.ImportService) ImportHandler {
	return &importHandlerImpl{importService: importService}
}

// Parse implements ImportHandler. It reads the uploaded workbook and returns
// the parsed rows for review; nothing is written yet.
func (h *importHandlerImpl) Parse(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form (max 10MB)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, "Field 'file' is required", nil)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	rows, err := h.importService.ParseWorkbook(file)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rows)
}

// Reconcile implements ImportHandler.
func (h *importHandlerImpl) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req payimport.ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.importService.Reconcile(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Import reconciled", result)
}
