package payimport

import (
	"github.com/avantix/ttw-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ImportRow is one externally computed payroll row from a spreadsheet.
type ImportRow struct {
	StartDate    *string         `json:"start_date,omitempty"`
	EndDate      *string         `json:"end_date,omitempty"`
	EmployeeName string          `json:"employee_name"`
	Hours        decimal.Decimal `json:"hours"`
	Amount       decimal.Decimal `json:"amount"`
}

func (r *ImportRow) Validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeName) {
		errs = append(errs, validator.ValidationError{Field: "employee_name", Message: "is required"})
	}
	if r.Hours.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "hours", Message: "must be non-negative"})
	}
	if r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be non-negative"})
	}

	return errs
}

type ReconcileRequest struct {
	Rows []ImportRow `json:"rows"`
}

func (r *ReconcileRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Rows) == 0 {
		errs = append(errs, validator.ValidationError{Field: "rows", Message: "must not be empty"})
	}
	for _, row := range r.Rows {
		errs = append(errs, row.Validate()...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// MatchKind tags how a row was linked to an employee. Fuzzy matches are
// applied first-match-wins but surfaced for human review.
type MatchKind string

const (
	MatchExact MatchKind = "exact"
	MatchFuzzy MatchKind = "fuzzy"
	MatchNone  MatchKind = "none"
)

type RowResult struct {
	EmployeeName string    `json:"employee_name"`
	EmployeeID   string    `json:"employee_id"`
	Match        MatchKind `json:"match"`
	Created      bool      `json:"created"`
	PaymentID    string    `json:"payment_id"`
}

type ReconcileResponse struct {
	BatchID  string      `json:"batch_id"`
	Matched  int         `json:"matched"`
	Created  int         `json:"created"`
	Rows     []RowResult `json:"rows"`
	Failed   int         `json:"failed"`
	Payments int         `json:"payments"`
}
