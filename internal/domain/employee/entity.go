package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID         string
	BusinessID string
	Name       string
	Cedula     *string
	Phone      *string
	PIN        *string
	Position   *string
	HourlyRate decimal.Decimal
	Status     Status
	StartDate  *time.Time
	EndDate    *time.Time

	// Pay profile
	ApplyCCSS          bool
	OvertimeThreshold  decimal.Decimal
	OvertimeMultiplier decimal.Decimal
	EnableOvertime     bool

	// SalaryHistory is append-only, oldest first.
	SalaryHistory []SalaryChange

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// SalaryChange records one rate change. Stored as jsonb on the employee row.
type SalaryChange struct {
	Date   string          `json:"date"`
	Rate   decimal.Decimal `json:"rate"`
	Reason string          `json:"reason"`
}

// Defaults for the pay profile when not supplied at creation. Overtime is
// on unless the operator turns it off explicitly.
var (
	DefaultOvertimeThreshold  = decimal.NewFromInt(48)
	DefaultOvertimeMultiplier = decimal.RequireFromString("1.5")
)

const DefaultEnableOvertime = true
