package timelog

import (
	"context"
	"time"
)

// TimeLogRepository defines data access methods for time logs.
// All methods include businessID to prevent cross-tenant data access.
type TimeLogRepository interface {
	Create(ctx context.Context, log TimeLog) (TimeLog, error)
	GetByID(ctx context.Context, id string, businessID string) (TimeLog, error)
	ListUnpaid(ctx context.Context, businessID string) ([]TimeLog, error)
	ListByEmployee(ctx context.Context, employeeID string, businessID string) ([]TimeLog, error)
	GetOpenClockEvent(ctx context.Context, employeeID string, businessID string, date time.Time) (TimeLog, error)
	Update(ctx context.Context, log TimeLog) (TimeLog, error)
	Delete(ctx context.Context, id string, businessID string) error
	DeleteByEmployee(ctx context.Context, employeeID string, businessID string, unpaidOnly bool) (int64, error)
}
