package employee

import (
	"github.com/avantix/ttw-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type EmployeeResponse struct {
	ID                 string          `json:"id"`
	BusinessID         string          `json:"business_id"`
	Name               string          `json:"name"`
	Cedula             *string         `json:"cedula,omitempty"`
	Phone              *string         `json:"phone,omitempty"`
	Position           *string         `json:"position,omitempty"`
	HourlyRate         decimal.Decimal `json:"hourly_rate"`
	Status             string          `json:"status"`
	StartDate          *string         `json:"start_date,omitempty"`
	EndDate            *string         `json:"end_date,omitempty"`
	ApplyCCSS          bool            `json:"apply_ccss"`
	OvertimeThreshold  decimal.Decimal `json:"overtime_threshold"`
	OvertimeMultiplier decimal.Decimal `json:"overtime_multiplier"`
	EnableOvertime     bool            `json:"enable_overtime"`
	SalaryHistory      []SalaryChange  `json:"salary_history"`
}

type CreateEmployeeRequest struct {
	Name               string           `json:"name"`
	Cedula             *string          `json:"cedula,omitempty"`
	Phone              *string          `json:"phone,omitempty"`
	PIN                *string          `json:"pin,omitempty"`
	Position           *string          `json:"position,omitempty"`
	HourlyRate         decimal.Decimal  `json:"hourly_rate"`
	StartDate          *string          `json:"start_date,omitempty"`
	ApplyCCSS          *bool            `json:"apply_ccss,omitempty"`
	OvertimeThreshold  *decimal.Decimal `json:"overtime_threshold,omitempty"`
	OvertimeMultiplier *decimal.Decimal `json:"overtime_multiplier,omitempty"`
	EnableOvertime     *bool            `json:"enable_overtime,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if !r.HourlyRate.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "must be positive"})
	}
	if r.PIN != nil && !validator.IsValidPIN(*r.PIN) {
		errs = append(errs, validator.ValidationError{Field: "pin", Message: "must be 4-6 digits"})
	}
	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "is not a valid phone number"})
	}
	if r.StartDate != nil {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be YYYY-MM-DD"})
		}
	}
	if r.OvertimeThreshold != nil && !r.OvertimeThreshold.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "overtime_threshold", Message: "must be positive"})
	}
	if r.OvertimeMultiplier != nil && !r.OvertimeMultiplier.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "overtime_multiplier", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID                 string           `json:"-"`
	Name               *string          `json:"name,omitempty"`
	Cedula             *string          `json:"cedula,omitempty"`
	Phone              *string          `json:"phone,omitempty"`
	PIN                *string          `json:"pin,omitempty"`
	Position           *string          `json:"position,omitempty"`
	HourlyRate         *decimal.Decimal `json:"hourly_rate,omitempty"`
	RateChangeReason   *string          `json:"rate_change_reason,omitempty"`
	Status             *string          `json:"status,omitempty"`
	StartDate          *string          `json:"start_date,omitempty"`
	EndDate            *string          `json:"end_date,omitempty"`
	ApplyCCSS          *bool            `json:"apply_ccss,omitempty"`
	OvertimeThreshold  *decimal.Decimal `json:"overtime_threshold,omitempty"`
	OvertimeMultiplier *decimal.Decimal `json:"overtime_multiplier,omitempty"`
	EnableOvertime     *bool            `json:"enable_overtime,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must not be empty"})
	}
	if r.HourlyRate != nil && !r.HourlyRate.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "must be positive"})
	}
	if r.PIN != nil && *r.PIN != "" && !validator.IsValidPIN(*r.PIN) {
		errs = append(errs, validator.ValidationError{Field: "pin", Message: "must be 4-6 digits"})
	}
	if r.Status != nil && *r.Status != string(StatusActive) && *r.Status != string(StatusInactive) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be Active or Inactive"})
	}
	if r.OvertimeThreshold != nil && !r.OvertimeThreshold.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "overtime_threshold", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PINLoginRequest struct {
	PIN string `json:"pin"`
}

func (r *PINLoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidPIN(r.PIN) {
		errs = append(errs, validator.ValidationError{Field: "pin", Message: "must be 4-6 digits"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
