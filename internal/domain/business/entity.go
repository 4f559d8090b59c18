package business

import (
	"time"

	"github.com/shopspring/decimal"
)

// CycleType is the tenant's pay cycle. It scales the weekly overtime
// threshold during aggregation: Weekly x1, Biweekly x2, Monthly x4.
// Monthly is a nominal 4-week block, not a calendar month.
type CycleType string

const (
	CycleWeekly   CycleType = "Weekly"
	CycleBiweekly CycleType = "Biweekly"
	CycleMonthly  CycleType = "Monthly"
)

// ThresholdMultiplier returns the factor applied to an employee's weekly
// overtime threshold for this cycle.
func (c CycleType) ThresholdMultiplier() decimal.Decimal {
	switch c {
	case CycleBiweekly:
		return decimal.NewFromInt(2)
	case CycleMonthly:
		return decimal.NewFromInt(4)
	default:
		return decimal.NewFromInt(1)
	}
}

func (c CycleType) Valid() bool {
	return c == CycleWeekly || c == CycleBiweekly || c == CycleMonthly
}

type Status string

const (
	StatusActive    Status = "Active"
	StatusSuspended Status = "Suspended"
)

type Business struct {
	ID                        string
	Name                      string
	CedulaJuridica            *string
	LogoURL                   *string
	DefaultOvertimeMultiplier decimal.Decimal
	CycleType                 CycleType
	Status                    Status
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}
