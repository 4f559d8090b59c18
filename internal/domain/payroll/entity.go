package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// CCSSRate is the statutory social-security deduction applied to gross pay
// when the employee opted in. Engine constant, not tenant configuration.
var CCSSRate = decimal.RequireFromString("0.1067")

// LogLine is the per-log money split produced by aggregation. It carries
// everything needed for drill-down and line-level settlement.
type LogLine struct {
	LogID          string          `json:"log_id"`
	Date           time.Time       `json:"date"`
	TimeIn         *string         `json:"time_in,omitempty"`
	TimeOut        *string         `json:"time_out,omitempty"`
	IsDoubleDay    bool            `json:"is_double_day"`
	DeductionHours decimal.Decimal `json:"deduction_hours"`
	Hours          decimal.Decimal `json:"hours"`
	Gross          decimal.Decimal `json:"gross"`
	Deduction      decimal.Decimal `json:"deduction"`
	Net            decimal.Decimal `json:"net"`
}

// PendingBalance is the accumulated unpaid position of one employee.
// ExtraHours is informational for the summary view; the net total stays a
// flat per-log sum (no overtime premium is applied to it).
type PendingBalance struct {
	EmployeeID   string
	EmployeeName string
	Phone        string

	Hours        decimal.Decimal
	RegularHours decimal.Decimal
	ExtraHours   decimal.Decimal
	DoubleHours  decimal.Decimal

	Gross     decimal.Decimal
	Deduction decimal.Decimal
	Net       decimal.Decimal

	StartDate time.Time
	EndDate   time.Time

	Lines []LogLine
}

// PaymentLine is one settled log snapshot inside Payment.LogsDetail.
// It is a denormalized copy: the originating time log no longer exists.
type PaymentLine struct {
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

type Payment struct {
	ID         string
	BusinessID string
	EmployeeID string
	Date       time.Time

	Hours         decimal.Decimal
	Amount        decimal.Decimal
	DeductionCCSS decimal.Decimal
	NetAmount     decimal.Decimal

	StartDate *time.Time
	EndDate   *time.Time

	// LogsDetail is the sole source of truth for the settled period.
	LogsDetail []PaymentLine

	IsImported bool

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
}

// SumLines recomputes hours, net and CCSS totals from LogsDetail. Used after
// every mutation of the detail array so the totals never drift from the lines.
func SumLines(lines []PaymentLine) (hours, net, deduction decimal.Decimal) {
	hours = decimal.Zero
	net = decimal.Zero
	deduction = decimal.Zero
	for _, l := range lines {
		hours = hours.Add(l.Hours)
		net = net.Add(l.Net)
		deduction = deduction.Add(l.Deduction)
	}
	return hours, net, deduction
}
