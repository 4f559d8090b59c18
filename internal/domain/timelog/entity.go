package timelog

import (
	"time"

	"github.com/shopspring/decimal"
)

type TimeLog struct {
	ID         string
	BusinessID string
	EmployeeID string
	Date       time.Time
	TimeIn     *string
	TimeOut    *string

	IsDoubleDay    bool
	DeductionHours decimal.Decimal

	// Hours is the payable span derived by ComputeHours at write time.
	Hours decimal.Decimal

	IsPaid bool
	Source Source

	// Marker metadata, absent for Manual and Imported sources.
	LocationLat *float64
	LocationLng *float64
	PhotoURL    *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
}

type Source string

const (
	SourceManual   Source = "Manual"
	SourceMarker   Source = "Marker"
	SourceImported Source = "Imported"
)
