package timelog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avantix/ttw-backend-go/internal/domain/employee"
	"github.com/avantix/ttw-backend-go/internal/domain/timelog"
	"github.com/avantix/ttw-backend-go/internal/pkg/database"
	"github.com/avantix/ttw-backend-go/internal/pkg/whatsapp"
	"github.com/avantix/ttw-backend-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// withTransaction is a seam for tests; production always runs the postgres
// transaction wrapper.
var withTransaction = postgresql.WithTransaction

type TimeLogServiceImpl struct {
	db           *database.DB
	timeLogRepo  timelog.TimeLogRepository
	employeeRepo employee.EmployeeRepository
	sender       whatsapp.Sender
}

func NewTimeLogService(
	db *database.DB,
	timeLogRepo timelog.TimeLogRepository,
	employeeRepo employee.EmployeeRepository,
	sender whatsapp.Sender,
) timelog.TimeLogService {
	return &TimeLogServiceImpl{
		db:           db,
		timeLogRepo:  timeLogRepo,
		employeeRepo: employeeRepo,
		sender:       sender,
	}
}

// Helper to get business_id from JWT context
func getClaimsFromContext(ctx context.Context) (businessID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	businessID, ok := claims["business_id"].(string)
	if !ok || businessID == "" {
		return "", fmt.Errorf("business_id claim is missing or invalid")
	}

	return businessID, nil
}

// Marker tokens carry an employee_id claim instead of a user_id.
func getMarkerClaims(ctx context.Context) (businessID, employeeID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	businessID, ok := claims["business_id"].(string)
	if !ok || businessID == "" {
		return "", "", fmt.Errorf("business_id claim is missing or invalid")
	}

	employeeID, ok = claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", "", fmt.Errorf("employee_id claim is missing or invalid")
	}

	return businessID, employeeID, nil
}

func toResponse(log timelog.TimeLog) timelog.TimeLogResponse {
	return timelog.TimeLogResponse{
		ID:             log.ID,
		EmployeeID:     log.EmployeeID,
		EmployeeName:   log.EmployeeName,
		Date:           log.Date.Format("2006-01-02"),
		TimeIn:         log.TimeIn,
		TimeOut:        log.TimeOut,
		IsDoubleDay:    log.IsDoubleDay,
		DeductionHours: log.DeductionHours,
		Hours:          log.Hours,
		IsPaid:         log.IsPaid,
		Source:         string(log.Source),
		LocationLat:    log.LocationLat,
		LocationLng:    log.LocationLng,
		PhotoURL:       log.PhotoURL,
	}
}

func buildLog(businessID string, employeeID string, entry timelog.LogEntry, source timelog.Source) (timelog.TimeLog, error) {
	date, err := time.Parse("2006-01-02", entry.Date)
	if err != nil {
		return timelog.TimeLog{}, fmt.Errorf("invalid date %q: %w", entry.Date, err)
	}

	deduction := decimal.Zero
	if entry.DeductionHours != nil {
		deduction = *entry.DeductionHours
	}

	hours, err := timelog.ComputeHours(entry.TimeIn, entry.TimeOut, deduction, entry.IsDoubleDay)
	if err != nil {
		return timelog.TimeLog{}, err
	}

	return timelog.TimeLog{
		BusinessID:     businessID,
		EmployeeID:     employeeID,
		Date:           date,
		TimeIn:         entry.TimeIn,
		TimeOut:        entry.TimeOut,
		IsDoubleDay:    entry.IsDoubleDay,
		DeductionHours: deduction,
		Hours:          hours,
		Source:         source,
	}, nil
}

func (s *TimeLogServiceImpl) CreateLog(ctx context.Context, req timelog.CreateLogRequest) (timelog.TimeLogResponse, error) {
	if err := req.Validate(); err != nil {
		return timelog.TimeLogResponse{}, err
	}

	businessID, err := getClaimsFromContext(ctx)
	if err != nil {
		return timelog.TimeLogResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, businessID)
	if err != nil {
		return timelog.TimeLogResponse{}, err
	}
	if emp.Status != employee.StatusActive {
		return timelog.TimeLogResponse{}, timelog.ErrEmployeeNotActive
	}

	log, err := buildLog(businessID, emp.ID, req.LogEntry, timelog.SourceManual)
	if err != nil {
		return timelog.TimeLogResponse{}, err
	}

	created, err := s.timeLogRepo.Create(ctx, log)
	if err != nil {
		return timelog.TimeLogResponse{}, err
	}

	return toResponse(created), nil
}

// SubmitBatch writes all entries atomically, then notifies the employee with
// a per-day summary. Notification failures never fail the submission.
func (s *TimeLogServiceImpl) SubmitBatch(ctx context.Context, req timelog.SubmitBatchRequest) (timelog.SubmitBatchResponse, error) {
	if err := req.Validate(); err != nil {
		return timelog.SubmitBatchResponse{}, err
	}

	businessID, err := getClaimsFromContext(ctx)
	if err != nil {
		return timelog.SubmitBatchResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, businessID)
	if err != nil {
		return timelog.SubmitBatchResponse{}, err
	}
	if emp.Status != employee.StatusActive {
		return timelog.SubmitBatchResponse{}, timelog.ErrEmployeeNotActive
	}

	created := make([]timelog.TimeLog, 0, len(req.Logs))
	err = withTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		for _, entry := range req.Logs {
			log, err := buildLog(businessID, emp.ID, entry, timelog.SourceManual)
			if err != nil {
				return err
			}
			saved, err := s.timeLogRepo.Create(txCtx, log)
			if err != nil {
				return err
			}
			created = append(created, saved)
		}
		return nil
	})
	if err != nil {
		return timelog.SubmitBatchResponse{}, err
	}

	resp := timelog.SubmitBatchResponse{Count: len(created)}

	if emp.Phone != nil && *emp.Phone != "" {
		text := batchSummaryText(emp.Name, created)
		if sendErr := s.sender.Send(ctx, *emp.Phone, text); sendErr != nil {
			slog.Warn("failed to send batch summary", "employee_id", emp.ID, "error", sendErr)
		} else {
			resp.MessageSent = &text
		}
	}

	return resp, nil
}

// batchSummaryText renders the WhatsApp message for a batch submission:
// a line per logged day plus the hour total.
func batchSummaryText(name string, logs []timelog.TimeLog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hola %s, se registraron tus horas:\n", name)

	total := decimal.Zero
	for _, log := range logs {
		span := "sin horario"
		if log.TimeIn != nil && log.TimeOut != nil {
			span = fmt.Sprintf("%s-%s", *log.TimeIn, *log.TimeOut)
		}
		fmt.Fprintf(&b, "- %s (%s): %s horas\n", log.Date.Format("2006-01-02"), span, log.Hours.Round(2))
		total = total.Add(log.Hours)
	}
	fmt.Fprintf(&b, "Total: %s horas", total.Round(2))

	return b.String()
}

func (s *TimeLogServiceImpl) UpdateLog(ctx context.Context, req timelog.UpdateLogRequest) (timelog.TimeLogResponse, error) {
	if err := req.Validate(); err != nil {
		return timelog.TimeLogResponse{}, err
	}

	businessID, err := getClaimsFromContext(ctx)
	if err != nil {
		return timelog.TimeLogResponse{}, err
	}

	log, err := s.timeLogRepo.GetByID(ctx, req.ID, businessID)
	if err != nil {
		return timelog.TimeLogResponse{}, err
	}
	if log.IsPaid {
		return timelog.TimeLogResponse{}, timelog.ErrLogAlreadyPaid
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return timelog.TimeLogResponse{}, fmt.Errorf("invalid date %q: %w", req.Date, err)
	}

	log.Date = date
	log.TimeIn = req.TimeIn
	log.TimeOut = req.TimeOut
	log.IsDoubleDay = req.IsDoubleDay
	if req.DeductionHours != nil {
		log.DeductionHours = *req.DeductionHours
	} else {
		log.DeductionHours = decimal.Zero
	}

	hours, err := timelog.ComputeHours(log.TimeIn, log.TimeOut, log.DeductionHours, log.IsDoubleDay)
	if err != nil {
		return timelog.TimeLogResponse{}, err
	}
	log.Hours = hours

	updated, err := s.timeLogRepo.Update(ctx, log)
	if err != nil {
		return timelog.TimeLogResponse{}, err
	}

	return toResponse(updated), nil
}

func (s *TimeLogServiceImpl) DeleteLog(ctx context.Context, id string) error {
	businessID, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	log, err := s.timeLogRepo.GetByID(ctx, id, businessID)
	if err != nil {
		return err
	}
	if log.IsPaid {
		return timelog.ErrLogAlreadyPaid
	}

	return s.timeLogRepo.Delete(ctx, id, businessID)
}

func (s *TimeLogServiceImpl) ListUnpaid(ctx context.Context) ([]timelog.TimeLogResponse, error) {
	businessID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	logs, err := s.timeLogRepo.ListUnpaid(ctx, businessID)
	if err != nil {
		return nil, err
	}

	responses := make([]timelog.TimeLogResponse, 0, len(logs))
	for _, log := range logs {
		responses = append(responses, toResponse(log))
	}

	return responses, nil
}

func (s *TimeLogServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]timelog.TimeLogResponse, error) {
	businessID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	logs, err := s.timeLogRepo.ListByEmployee(ctx, employeeID, businessID)
	if err != nil {
		return nil, err
	}

	responses := make([]timelog.TimeLogResponse, 0, len(logs))
	for _, log := range logs {
		responses = append(responses, toResponse(log))
	}

	return responses, nil
}

func (s *TimeLogServiceImpl) ClockIn(ctx context.Context, req timelog.ClockInRequest) (timelog.TimeLogResponse, error) {
	if err := req.Validate(); err != nil {
		return timelog.TimeLogResponse{}, err
	}

	businessID, employeeID, err := getMarkerClaims(ctx)
	if err != nil {
		return timelog.TimeLogResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID, businessID)
	if err != nil {
		return timelog.TimeLogResponse{}, err
	}
	if emp.Status != employee.StatusActive {
		return timelog.TimeLogResponse{}, timelog.ErrEmployeeNotActive
	}

	today := time.Now().Truncate(24 * time.Hour)
	if _, err := s.timeLogRepo.GetOpenClockEvent(ctx, employeeID, businessID, today); err == nil {
		return timelog.TimeLogResponse{}, timelog.ErrAlreadyClockedIn
	} else if err != timelog.ErrNotClockedIn {
		return timelog.TimeLogResponse{}, err
	}

	log := timelog.TimeLog{
		BusinessID:  businessID,
		EmployeeID:  employeeID,
		Date:        today,
		TimeIn:      &req.TimeIn,
		Source:      timelog.SourceMarker,
		LocationLat: req.LocationLat,
		LocationLng: req.LocationLng,
		PhotoURL:    req.PhotoURL,
	}

	created, err := s.timeLogRepo.Create(ctx, log)
	if err != nil {
		return timelog.TimeLogResponse{}, err
	}

	return toResponse(created), nil
}

func (s *TimeLogServiceImpl) ClockOut(ctx context.Context, req timelog.ClockOutRequest) (timelog.TimeLogResponse, error) {
	if err := req.Validate(); err != nil {
		return timelog.TimeLogResponse{}, err
	}

	businessID, employeeID, err := getMarkerClaims(ctx)
	if err != nil {
		return timelog.TimeLogResponse{}, err
	}

	today := time.Now().Truncate(24 * time.Hour)
	log, err := s.timeLogRepo.GetOpenClockEvent(ctx, employeeID, businessID, today)
	if err != nil {
		return timelog.TimeLogResponse{}, err
	}

	log.TimeOut = &req.TimeOut
	hours, err := timelog.ComputeHours(log.TimeIn, log.TimeOut, log.DeductionHours, log.IsDoubleDay)
	if err != nil {
		return timelog.TimeLogResponse{}, err
	}
	log.Hours = hours

	updated, err := s.timeLogRepo.Update(ctx, log)
	if err != nil {
		return timelog.TimeLogResponse{}, err
	}

	return toResponse(updated), nil
}
