package response

import (
	"errors"
	"net/http"

	"github.com/avantix/ttw-backend-go/internal/domain/auth"
	"github.com/avantix/ttw-backend-go/internal/domain/business"
	"github.com/avantix/ttw-backend-go/internal/domain/employee"
	"github.com/avantix/ttw-backend-go/internal/domain/payimport"
	"github.com/avantix/ttw-backend-go/internal/domain/payroll"
	"github.com/avantix/ttw-backend-go/internal/domain/timelog"
	"github.com/avantix/ttw-backend-go/internal/domain/user"
	"github.com/avantix/ttw-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token has been revoked")
	case errors.Is(err, auth.ErrRefreshTokenMissing):
		Unauthorized(w, "Refresh token cookie is missing")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")

	// Business domain errors
	case errors.Is(err, business.ErrBusinessNotFound):
		NotFound(w, "Business not found")
	case errors.Is(err, business.ErrBusinessSuspended):
		Forbidden(w, "Business is suspended")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		BadRequest(w, "Employee is not active", nil)
	case errors.Is(err, employee.ErrPINNotRecognized):
		Unauthorized(w, "PIN not recognized")
	case errors.Is(err, employee.ErrPINAlreadyUsed):
		Conflict(w, "PIN already assigned to another employee")

	// Time log domain errors
	case errors.Is(err, timelog.ErrLogNotFound):
		NotFound(w, "Time log not found")
	case errors.Is(err, timelog.ErrLogAlreadyPaid):
		Conflict(w, "Time log has already been paid")
	case errors.Is(err, timelog.ErrAlreadyClockedIn):
		Conflict(w, "Already clocked in today")
	case errors.Is(err, timelog.ErrNotClockedIn):
		BadRequest(w, "No open clock event for today", nil)
	case errors.Is(err, timelog.ErrEmployeeNotActive):
		BadRequest(w, "Employee is not active", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPaymentNotFound):
		NotFound(w, "Payment not found")
	case errors.Is(err, payroll.ErrNothingToSettle):
		BadRequest(w, "No unpaid hours to settle for this employee", nil)
	case errors.Is(err, payroll.ErrLineIndexOutOfRange):
		BadRequest(w, "Payment has no line at that index", nil)
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, payroll.ErrNonPositiveAmount):
		BadRequest(w, "Settlement amount and hours must be positive", nil)
	case errors.Is(err, payroll.ErrCannotAdjustImported):
		Conflict(w, "Imported payments cannot be adjusted by line")

	// Import domain errors
	case errors.Is(err, payimport.ErrEmptyWorkbook):
		BadRequest(w, "Workbook contains no importable rows", nil)
	case errors.Is(err, payimport.ErrUnreadableFile):
		BadRequest(w, "File could not be read as a spreadsheet", nil)
	case errors.Is(err, payimport.ErrNoImportableRow):
		BadRequest(w, "No valid rows found; employee name expected in column C", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
