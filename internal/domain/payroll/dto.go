package payroll

import (
	"github.com/avantix/ttw-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type LogLineResponse struct {
	LogID          string          `json:"log_id"`
	Date           string          `json:"date"`
	TimeIn         *string         `json:"time_in,omitempty"`
	TimeOut        *string         `json:"time_out,omitempty"`
	IsDoubleDay    bool            `json:"is_double_day"`
	DeductionHours decimal.Decimal `json:"deduction_hours"`
	Hours          decimal.Decimal `json:"hours"`
	Gross          decimal.Decimal `json:"gross"`
	Deduction      decimal.Decimal `json:"deduction"`
	Net            decimal.Decimal `json:"net"`
}

type PendingBalanceResponse struct {
	EmployeeID   string            `json:"employee_id"`
	EmployeeName string            `json:"employee_name"`
	Hours        decimal.Decimal   `json:"hours"`
	RegularHours decimal.Decimal   `json:"regular_hours"`
	ExtraHours   decimal.Decimal   `json:"extra_hours"`
	DoubleHours  decimal.Decimal   `json:"double_hours"`
	Gross        decimal.Decimal   `json:"gross"`
	Deduction    decimal.Decimal   `json:"deduction"`
	Net          decimal.Decimal   `json:"net"`
	StartDate    string            `json:"start_date"`
	EndDate      string            `json:"end_date"`
	Lines        []LogLineResponse `json:"lines"`
}

type PendingSummaryResponse struct {
	Balances []PendingBalanceResponse `json:"balances"`
}

type PaymentLineResponse struct {
	Date           string          `json:"date"`
	TimeIn         *string         `json:"time_in,omitempty"`
	TimeOut        *string         `json:"time_out,omitempty"`
	Hours          decimal.Decimal `json:"hours"`
	IsDoubleDay    bool            `json:"is_double_day"`
	DeductionHours decimal.Decimal `json:"deduction_hours"`
	Net            decimal.Decimal `json:"net"`
	Deduction      decimal.Decimal `json:"deduction"`
	Note           *string         `json:"note,omitempty"`
}

type PaymentResponse struct {
	ID            string                `json:"id"`
	EmployeeID    string                `json:"employee_id"`
	EmployeeName  *string               `json:"employee_name,omitempty"`
	Date          string                `json:"date"`
	Hours         decimal.Decimal       `json:"hours"`
	Amount        decimal.Decimal       `json:"amount"`
	DeductionCCSS decimal.Decimal       `json:"deduction_ccss"`
	NetAmount     decimal.Decimal       `json:"net_amount"`
	StartDate     *string               `json:"start_date,omitempty"`
	EndDate       *string               `json:"end_date,omitempty"`
	LogsDetail    []PaymentLineResponse `json:"logs_detail"`
	IsImported    bool                  `json:"is_imported"`
}

type SettleGroupRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *SettleGroupRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID == "" {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SettleLineRequest struct {
	LogID string `json:"log_id"`
}

func (r *SettleLineRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.LogID == "" {
		errs = append(errs, validator.ValidationError{Field: "log_id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdatePaymentLineRequest edits one settled line. Hours and net are
// re-derived; the net uses the employee's current hourly rate so corrections
// reflect present truth, not the rate at settlement time.
type UpdatePaymentLineRequest struct {
	PaymentID      string           `json:"-"`
	LineIndex      int              `json:"line_index"`
	Date           string           `json:"date"`
	TimeIn         *string          `json:"time_in,omitempty"`
	TimeOut        *string          `json:"time_out,omitempty"`
	IsDoubleDay    bool             `json:"is_double_day"`
	DeductionHours *decimal.Decimal `json:"deduction_hours,omitempty"`
}

func (r *UpdatePaymentLineRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PaymentID == "" {
		errs = append(errs, validator.ValidationError{Field: "payment_id", Message: "is required"})
	}
	if r.LineIndex < 0 {
		errs = append(errs, validator.ValidationError{Field: "line_index", Message: "must be non-negative"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"})
	}
	if r.TimeIn != nil && *r.TimeIn != "" && !validator.IsValidTimeOfDay(*r.TimeIn) {
		errs = append(errs, validator.ValidationError{Field: "time_in", Message: "must be HH:MM"})
	}
	if r.TimeOut != nil && *r.TimeOut != "" && !validator.IsValidTimeOfDay(*r.TimeOut) {
		errs = append(errs, validator.ValidationError{Field: "time_out", Message: "must be HH:MM"})
	}
	if r.DeductionHours != nil && r.DeductionHours.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "deduction_hours", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AdjustPaymentRequest is a direct, audited correction of a payment's totals.
// It bypasses the hours calculator on purpose and is kept distinct from the
// log-driven edit path; the note records why the operator overrode the math.
type AdjustPaymentRequest struct {
	PaymentID string           `json:"-"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Hours     *decimal.Decimal `json:"hours,omitempty"`
	Note      string           `json:"note"`
}

func (r *AdjustPaymentRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PaymentID == "" {
		errs = append(errs, validator.ValidationError{Field: "payment_id", Message: "is required"})
	}
	if r.Amount == nil && r.Hours == nil {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount or hours is required"})
	}
	if r.Amount != nil && !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be positive"})
	}
	if r.Hours != nil && !r.Hours.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "hours", Message: "must be positive"})
	}
	if validator.IsEmpty(r.Note) {
		errs = append(errs, validator.ValidationError{Field: "note", Message: "is required for manual adjustments"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DeletePaymentsRequest struct {
	IDs []string `json:"ids"`
}

func (r *DeletePaymentsRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.IDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "ids", Message: "must not be empty"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
