package employee

import (
	"context"
	"fmt"
	"time"

	"github.com/avantix/ttw-backend-go/internal/domain/employee"
	"github.com/avantix/ttw-backend-go/internal/domain/timelog"
	"github.com/avantix/ttw-backend-go/internal/pkg/database"
	"github.com/avantix/ttw-backend-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
)

// withTransaction is a seam for tests; production always runs the postgres
// transaction wrapper.
var withTransaction = postgresql.WithTransaction

type EmployeeServiceImpl struct {
	db           *database.DB
	employeeRepo employee.EmployeeRepository
	timeLogRepo  timelog.TimeLogRepository
}

func NewEmployeeService(
	db *database.DB,
	employeeRepo employee.EmployeeRepository,
	timeLogRepo timelog.TimeLogRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		db:           db,
		employeeRepo: employeeRepo,
		timeLogRepo:  timeLogRepo,
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

func dateToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format("2006-01-02")
	return &formatted
}

func parseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}

func toResponse(emp employee.Employee) employee.EmployeeResponse {
	history := emp.SalaryHistory
	if history == nil {
		history = []employee.SalaryChange{}
	}
	return employee.EmployeeResponse{
		ID:                 emp.ID,
		BusinessID:         emp.BusinessID,
		Name:               emp.Name,
		Cedula:             emp.Cedula,
		Phone:              emp.Phone,
		Position:           emp.Position,
		HourlyRate:         emp.HourlyRate,
		Status:             string(emp.Status),
		StartDate:          dateToString(emp.StartDate),
		EndDate:            dateToString(emp.EndDate),
		ApplyCCSS:          emp.ApplyCCSS,
		OvertimeThreshold:  emp.OvertimeThreshold,
		OvertimeMultiplier: emp.OvertimeMultiplier,
		EnableOvertime:     emp.EnableOvertime,
		SalaryHistory:      history,
	}
}

func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	businessID, err := getClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp := employee.Employee{
		BusinessID:         businessID,
		Name:               req.Name,
		Cedula:             req.Cedula,
		Phone:              req.Phone,
		PIN:                req.PIN,
		Position:           req.Position,
		HourlyRate:         req.HourlyRate,
		Status:             employee.StatusActive,
		StartDate:          parseDate(req.StartDate),
		OvertimeThreshold:  employee.DefaultOvertimeThreshold,
		OvertimeMultiplier: employee.DefaultOvertimeMultiplier,
		EnableOvertime:     employee.DefaultEnableOvertime,
		SalaryHistory: []employee.SalaryChange{{
			Date:   time.Now().Format("2006-01-02"),
			Rate:   req.HourlyRate,
			Reason: "Initial rate",
		}},
	}
	if req.ApplyCCSS != nil {
		emp.ApplyCCSS = *req.ApplyCCSS
	}
	if req.OvertimeThreshold != nil {
		emp.OvertimeThreshold = *req.OvertimeThreshold
	}
	if req.OvertimeMultiplier != nil {
		emp.OvertimeMultiplier = *req.OvertimeMultiplier
	}
	if req.EnableOvertime != nil {
		emp.EnableOvertime = *req.EnableOvertime
	}

	created, err := s.employeeRepo.Create(ctx, emp)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return toResponse(created), nil
}

func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	businessID, err := getClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, id, businessID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return toResponse(emp), nil
}

func (s *EmployeeServiceImpl) List(ctx context.Context, activeOnly bool) ([]employee.EmployeeResponse, error) {
	businessID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.ListByBusinessID(ctx, businessID, activeOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, toResponse(emp))
	}

	return responses, nil
}

func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	businessID, err := getClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.ID, businessID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.Name != nil {
		emp.Name = *req.Name
	}
	if req.Cedula != nil {
		emp.Cedula = req.Cedula
	}
	if req.Phone != nil {
		emp.Phone = req.Phone
	}
	if req.PIN != nil {
		if *req.PIN == "" {
			emp.PIN = nil
		} else {
			emp.PIN = req.PIN
		}
	}
	if req.Position != nil {
		emp.Position = req.Position
	}
	if req.HourlyRate != nil && !req.HourlyRate.Equal(emp.HourlyRate) {
		reason := "Rate change"
		if req.RateChangeReason != nil && *req.RateChangeReason != "" {
			reason = *req.RateChangeReason
		}
		emp.SalaryHistory = append(emp.SalaryHistory, employee.SalaryChange{
			Date:   time.Now().Format("2006-01-02"),
			Rate:   *req.HourlyRate,
			Reason: reason,
		})
		emp.HourlyRate = *req.HourlyRate
	}
	if req.Status != nil {
		emp.Status = employee.Status(*req.Status)
		if emp.Status == employee.StatusInactive && emp.EndDate == nil {
			now := time.Now()
			emp.EndDate = &now
		}
	}
	if req.StartDate != nil {
		emp.StartDate = parseDate(req.StartDate)
	}
	if req.EndDate != nil {
		emp.EndDate = parseDate(req.EndDate)
	}
	if req.ApplyCCSS != nil {
		emp.ApplyCCSS = *req.ApplyCCSS
	}
	if req.OvertimeThreshold != nil {
		emp.OvertimeThreshold = *req.OvertimeThreshold
	}
	if req.OvertimeMultiplier != nil {
		emp.OvertimeMultiplier = *req.OvertimeMultiplier
	}
	if req.EnableOvertime != nil {
		emp.EnableOvertime = *req.EnableOvertime
	}

	updated, err := s.employeeRepo.Update(ctx, emp)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return toResponse(updated), nil
}

// Delete removes an employee and their unpaid logs in one transaction.
// Settled payments keep their denormalized snapshots and are untouched.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, id string) error {
	businessID, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	if _, err := s.employeeRepo.GetByID(ctx, id, businessID); err != nil {
		return err
	}

	return withTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if _, err := s.timeLogRepo.DeleteByEmployee(txCtx, id, businessID, false); err != nil {
			return err
		}
		return s.employeeRepo.Delete(txCtx, id, businessID)
	})
}
