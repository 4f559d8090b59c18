package employee

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/avantix/ttw-backend-go/internal/domain/employee"
	"github.com/avantix/ttw-backend-go/internal/domain/timelog"
	"github.com/avantix/ttw-backend-go/internal/pkg/database"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBusinessID = "biz-1"

func testContext(t *testing.T) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id":     "user-1",
		"business_id": testBusinessID,
		"role":        "owner",
		"type":        "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
	nextID    int
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[string]employee.Employee)}
}

func (r *fakeEmployeeRepo) Create(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	r.nextID++
	emp.ID = fmt.Sprintf("emp-%d", r.nextID)
	r.employees[emp.ID] = emp
	return emp, nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string, businessID string) (employee.Employee, error) {
	emp, ok := r.employees[id]
	if !ok || emp.BusinessID != businessID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *fakeEmployeeRepo) GetByPIN(_ context.Context, pin string, businessID string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrPINNotRecognized
}

func (r *fakeEmployeeRepo) ListByBusinessID(_ context.Context, businessID string, activeOnly bool) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range r.employees {
		if emp.BusinessID != businessID {
			continue
		}
		if activeOnly && emp.Status != employee.StatusActive {
			continue
		}
		out = append(out, emp)
	}
	return out, nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	if _, ok := r.employees[emp.ID]; !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	r.employees[emp.ID] = emp
	return emp, nil
}

func (r *fakeEmployeeRepo) Delete(_ context.Context, id string, businessID string) error {
	emp, ok := r.employees[id]
	if !ok || emp.BusinessID != businessID {
		return employee.ErrEmployeeNotFound
	}
	delete(r.employees, id)
	return nil
}

type fakeTimeLogRepo struct {
	logs map[string]timelog.TimeLog
}

func newFakeTimeLogRepo() *fakeTimeLogRepo {
	return &fakeTimeLogRepo{logs: make(map[string]timelog.TimeLog)}
}

func (r *fakeTimeLogRepo) Create(_ context.Context, log timelog.TimeLog) (timelog.TimeLog, error) {
	r.logs[log.ID] = log
	return log, nil
}

func (r *fakeTimeLogRepo) GetByID(_ context.Context, id string, businessID string) (timelog.TimeLog, error) {
	log, ok := r.logs[id]
	if !ok || log.BusinessID != businessID {
		return timelog.TimeLog{}, timelog.ErrLogNotFound
	}
	return log, nil
}

func (r *fakeTimeLogRepo) ListUnpaid(_ context.Context, businessID string) ([]timelog.TimeLog, error) {
	return nil, nil
}

func (r *fakeTimeLogRepo) ListByEmployee(_ context.Context, employeeID string, businessID string) ([]timelog.TimeLog, error) {
	return nil, nil
}

func (r *fakeTimeLogRepo) GetOpenClockEvent(_ context.Context, _, _ string, _ time.Time) (timelog.TimeLog, error) {
	return timelog.TimeLog{}, timelog.ErrNotClockedIn
}

func (r *fakeTimeLogRepo) Update(_ context.Context, log timelog.TimeLog) (timelog.TimeLog, error) {
	r.logs[log.ID] = log
	return log, nil
}

func (r *fakeTimeLogRepo) Delete(_ context.Context, id string, businessID string) error {
	delete(r.logs, id)
	return nil
}

func (r *fakeTimeLogRepo) DeleteByEmployee(_ context.Context, employeeID string, businessID string, unpaidOnly bool) (int64, error) {
	var n int64
	for id, log := range r.logs {
		if log.EmployeeID == employeeID && log.BusinessID == businessID {
			if unpaidOnly && log.IsPaid {
				continue
			}
			delete(r.logs, id)
			n++
		}
	}
	return n, nil
}

func newTestService(t *testing.T) (employee.EmployeeService, *fakeEmployeeRepo, *fakeTimeLogRepo) {
	t.Helper()

	prev := withTransaction
	withTransaction = func(ctx context.Context, _ *database.DB, fn func(tx pgx.Tx) error) error {
		return fn(nil)
	}
	t.Cleanup(func() { withTransaction = prev })

	employees := newFakeEmployeeRepo()
	logs := newFakeTimeLogRepo()
	return NewEmployeeService(nil, employees, logs), employees, logs
}

func TestCreateDefaultsPayProfile(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := testContext(t)

	resp, err := svc.Create(ctx, employee.CreateEmployeeRequest{
		Name:       "Maria Solano",
		HourlyRate: dec("1500"),
	})
	require.NoError(t, err)

	assert.Equal(t, string(employee.StatusActive), resp.Status)
	assert.True(t, resp.OvertimeThreshold.Equal(dec("48")))
	assert.True(t, resp.OvertimeMultiplier.Equal(dec("1.5")))
	// Overtime tracking is on by default; the operator has to opt out.
	assert.True(t, resp.EnableOvertime)
	assert.False(t, resp.ApplyCCSS)

	require.Len(t, resp.SalaryHistory, 1)
	assert.True(t, resp.SalaryHistory[0].Rate.Equal(dec("1500")))
	assert.Equal(t, "Initial rate", resp.SalaryHistory[0].Reason)
}

func TestCreateOvertimeExplicitlyDisabled(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := testContext(t)

	disabled := false
	resp, err := svc.Create(ctx, employee.CreateEmployeeRequest{
		Name:           "Carlos Vega",
		HourlyRate:     dec("2000"),
		EnableOvertime: &disabled,
	})
	require.NoError(t, err)

	assert.False(t, resp.EnableOvertime)
}

func TestUpdateRateAppendsSalaryHistory(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := testContext(t)

	created, err := svc.Create(ctx, employee.CreateEmployeeRequest{
		Name:       "Maria Solano",
		HourlyRate: dec("1500"),
	})
	require.NoError(t, err)

	rate := dec("1800")
	reason := "Annual review"
	updated, err := svc.Update(ctx, employee.UpdateEmployeeRequest{
		ID:               created.ID,
		HourlyRate:       &rate,
		RateChangeReason: &reason,
	})
	require.NoError(t, err)

	assert.True(t, updated.HourlyRate.Equal(dec("1800")))
	require.Len(t, updated.SalaryHistory, 2)
	assert.Equal(t, "Annual review", updated.SalaryHistory[1].Reason)
	assert.True(t, updated.SalaryHistory[1].Rate.Equal(dec("1800")))
}

func TestDeleteRemovesEmployeeLogs(t *testing.T) {
	svc, employees, logs := newTestService(t)
	ctx := testContext(t)

	created, err := svc.Create(ctx, employee.CreateEmployeeRequest{
		Name:       "Maria Solano",
		HourlyRate: dec("1500"),
	})
	require.NoError(t, err)

	logs.logs["l1"] = timelog.TimeLog{ID: "l1", BusinessID: testBusinessID, EmployeeID: created.ID}
	logs.logs["l2"] = timelog.TimeLog{ID: "l2", BusinessID: testBusinessID, EmployeeID: "someone-else"}

	require.NoError(t, svc.Delete(ctx, created.ID))

	assert.Empty(t, employees.employees)
	_, otherKept := logs.logs["l2"]
	assert.True(t, otherKept)
	_, ownGone := logs.logs["l1"]
	assert.False(t, ownGone)
}
