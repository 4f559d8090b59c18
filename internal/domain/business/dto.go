package business

import (
	"github.com/avantix/ttw-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type BusinessResponse struct {
	ID                        string          `json:"id"`
	Name                      string          `json:"name"`
	CedulaJuridica            *string         `json:"cedula_juridica,omitempty"`
	LogoURL                   *string         `json:"logo_url,omitempty"`
	DefaultOvertimeMultiplier decimal.Decimal `json:"default_overtime_multiplier"`
	CycleType                 string          `json:"cycle_type"`
	Status                    string          `json:"status"`
}

type UpdateBusinessRequest struct {
	Name                      *string          `json:"name,omitempty"`
	CedulaJuridica            *string          `json:"cedula_juridica,omitempty"`
	LogoURL                   *string          `json:"logo_url,omitempty"`
	DefaultOvertimeMultiplier *decimal.Decimal `json:"default_overtime_multiplier,omitempty"`
	CycleType                 *string          `json:"cycle_type,omitempty"`
}

func (r *UpdateBusinessRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must not be empty"})
	}
	if r.DefaultOvertimeMultiplier != nil && !r.DefaultOvertimeMultiplier.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "default_overtime_multiplier", Message: "must be positive"})
	}
	if r.CycleType != nil && !CycleType(*r.CycleType).Valid() {
		errs = append(errs, validator.ValidationError{Field: "cycle_type", Message: "must be Weekly, Biweekly or Monthly"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
