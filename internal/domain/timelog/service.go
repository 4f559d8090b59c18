package timelog

import "context"

type TimeLogService interface {
	CreateLog(ctx context.Context, req CreateLogRequest) (TimeLogResponse, error)
	SubmitBatch(ctx context.Context, req SubmitBatchRequest) (SubmitBatchResponse, error)
	UpdateLog(ctx context.Context, req UpdateLogRequest) (TimeLogResponse, error)
	DeleteLog(ctx context.Context, id string) error
	ListUnpaid(ctx context.Context) ([]TimeLogResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]TimeLogResponse, error)

	// Kiosk marker flow. ClockIn opens a log with time-in only; ClockOut
	// completes today's open event and derives the payable hours.
	ClockIn(ctx context.Context, req ClockInRequest) (TimeLogResponse, error)
	ClockOut(ctx context.Context, req ClockOutRequest) (TimeLogResponse, error)
}
