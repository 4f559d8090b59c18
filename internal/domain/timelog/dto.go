package timelog

import (
	"github.com/avantix/ttw-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type TimeLogResponse struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	EmployeeName   *string         `json:"employee_name,omitempty"`
	Date           string          `json:"date"`
	TimeIn         *string         `json:"time_in,omitempty"`
	TimeOut        *string         `json:"time_out,omitempty"`
	IsDoubleDay    bool            `json:"is_double_day"`
	DeductionHours decimal.Decimal `json:"deduction_hours"`
	Hours          decimal.Decimal `json:"hours"`
	IsPaid         bool            `json:"is_paid"`
	Source         string          `json:"source"`
	LocationLat    *float64        `json:"location_lat,omitempty"`
	LocationLng    *float64        `json:"location_lng,omitempty"`
	PhotoURL       *string         `json:"photo_url,omitempty"`
}

// LogEntry is one row of a manual or batch submission.
type LogEntry struct {
	Date           string           `json:"date"`
	TimeIn         *string          `json:"time_in,omitempty"`
	TimeOut        *string          `json:"time_out,omitempty"`
	IsDoubleDay    bool             `json:"is_double_day"`
	DeductionHours *decimal.Decimal `json:"deduction_hours,omitempty"`
}

func (e *LogEntry) Validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(e.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"})
	}
	if e.TimeIn != nil && *e.TimeIn != "" && !validator.IsValidTimeOfDay(*e.TimeIn) {
		errs = append(errs, validator.ValidationError{Field: "time_in", Message: "must be HH:MM"})
	}
	if e.TimeOut != nil && *e.TimeOut != "" && !validator.IsValidTimeOfDay(*e.TimeOut) {
		errs = append(errs, validator.ValidationError{Field: "time_out", Message: "must be HH:MM"})
	}
	if e.DeductionHours != nil && e.DeductionHours.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "deduction_hours", Message: "must be non-negative"})
	}

	return errs
}

type CreateLogRequest struct {
	EmployeeID string `json:"employee_id"`
	LogEntry
}

func (r *CreateLogRequest) Validate() error {
	errs := r.LogEntry.Validate()

	if r.EmployeeID == "" {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SubmitBatchRequest struct {
	EmployeeID string     `json:"employee_id"`
	Logs       []LogEntry `json:"logs"`
}

func (r *SubmitBatchRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID == "" {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if len(r.Logs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "logs", Message: "must not be empty"})
	}
	for _, entry := range r.Logs {
		errs = append(errs, entry.Validate()...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SubmitBatchResponse struct {
	Count       int     `json:"count"`
	MessageSent *string `json:"message_sent,omitempty"`
}

type UpdateLogRequest struct {
	ID string `json:"-"`
	LogEntry
}

func (r *UpdateLogRequest) Validate() error {
	errs := r.LogEntry.Validate()

	if r.ID == "" {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClockInRequest struct {
	TimeIn      string   `json:"time_in"`
	LocationLat *float64 `json:"location_lat,omitempty"`
	LocationLng *float64 `json:"location_lng,omitempty"`
	PhotoURL    *string  `json:"photo_url,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidTimeOfDay(r.TimeIn) {
		errs = append(errs, validator.ValidationError{Field: "time_in", Message: "must be HH:MM"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClockOutRequest struct {
	TimeOut string `json:"time_out"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidTimeOfDay(r.TimeOut) {
		errs = append(errs, validator.ValidationError{Field: "time_out", Message: "must be HH:MM"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
