package payimport

import (
	"context"
	"fmt"
	"testing"

	"github.com/avantix/ttw-backend-go/internal/domain/employee"
	"github.com/avantix/ttw-backend-go/internal/domain/payimport"
	"github.com/avantix/ttw-backend-go/internal/domain/payroll"
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
		if emp.BusinessID == businessID {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	r.employees[emp.ID] = emp
	return emp, nil
}

func (r *fakeEmployeeRepo) Delete(_ context.Context, id string, businessID string) error {
	delete(r.employees, id)
	return nil
}

type fakePaymentRepo struct {
	payments []payroll.Payment
	nextID   int
}

func (r *fakePaymentRepo) Create(_ context.Context, p payroll.Payment) (payroll.Payment, error) {
	r.nextID++
	p.ID = fmt.Sprintf("pay-%d", r.nextID)
	r.payments = append(r.payments, p)
	return p, nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id string, businessID string) (payroll.Payment, error) {
	for _, p := range r.payments {
		if p.ID == id && p.BusinessID == businessID {
			return p, nil
		}
	}
	return payroll.Payment{}, payroll.ErrPaymentNotFound
}

func (r *fakePaymentRepo) List(_ context.Context, businessID string) ([]payroll.Payment, error) {
	return r.payments, nil
}

func (r *fakePaymentRepo) Update(_ context.Context, p payroll.Payment) (payroll.Payment, error) {
	return p, nil
}

func (r *fakePaymentRepo) Delete(_ context.Context, id string, businessID string) error {
	return nil
}

func (r *fakePaymentRepo) DeleteMany(_ context.Context, ids []string, businessID string) (int64, error) {
	return 0, nil
}

func newTestService(t *testing.T) (payimport.ImportService, *fakeEmployeeRepo, *fakePaymentRepo) {
	t.Helper()

	prev := withTransaction
	withTransaction = func(ctx context.Context, _ *database.DB, fn func(tx pgx.Tx) error) error {
		return fn(nil)
	}
	t.Cleanup(func() { withTransaction = prev })

	employees := newFakeEmployeeRepo()
	payments := &fakePaymentRepo{}
	return NewImportService(nil, employees, payments), employees, payments
}

func addRosterEmployee(repo *fakeEmployeeRepo, name string) string {
	id := fmt.Sprintf("roster-%d", len(repo.employees)+1)
	repo.employees[id] = employee.Employee{
		ID:         id,
		BusinessID: testBusinessID,
		Name:       name,
		HourlyRate: dec("1000"),
		Status:     employee.StatusActive,
	}
	return id
}

func TestMatchEmployee(t *testing.T) {
	roster := []employee.Employee{
		{ID: "e1", Name: "Juan Pérez Rodríguez"},
		{ID: "e2", Name: "Maria Solano"},
	}

	emp, kind := matchEmployee("Maria Solano", roster)
	assert.Equal(t, "e2", emp.ID)
	assert.Equal(t, payimport.MatchExact, kind)

	emp, kind = matchEmployee("maria solano", roster)
	assert.Equal(t, "e2", emp.ID)
	assert.Equal(t, payimport.MatchExact, kind)

	// Shorter spreadsheet name contained in the roster name.
	emp, kind = matchEmployee("Juan Pérez", roster)
	assert.Equal(t, "e1", emp.ID)
	assert.Equal(t, payimport.MatchFuzzy, kind)

	// Longer spreadsheet name containing the roster name.
	emp, kind = matchEmployee("Maria Solano Vargas", roster)
	assert.Equal(t, "e2", emp.ID)
	assert.Equal(t, payimport.MatchFuzzy, kind)

	_, kind = matchEmployee("Pedro Mora", roster)
	assert.Equal(t, payimport.MatchNone, kind)
}

func TestReconcileMatchedRow(t *testing.T) {
	svc, employees, payments := newTestService(t)
	ctx := testContext(t)

	id := addRosterEmployee(employees, "Maria Solano")

	start, end := "2026-03-01", "2026-03-07"
	resp, err := svc.Reconcile(ctx, payimport.ReconcileRequest{Rows: []payimport.ImportRow{{
		StartDate:    &start,
		EndDate:      &end,
		EmployeeName: "Maria Solano",
		Hours:        dec("40"),
		Amount:       dec("40000"),
	}}})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Matched)
	assert.Equal(t, 0, resp.Created)
	assert.Equal(t, 1, resp.Payments)
	assert.Equal(t, 0, resp.Failed)
	assert.NotEmpty(t, resp.BatchID)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, id, resp.Rows[0].EmployeeID)
	assert.Equal(t, payimport.MatchExact, resp.Rows[0].Match)

	require.Len(t, payments.payments, 1)
	p := payments.payments[0]
	assert.True(t, p.IsImported)
	assert.Equal(t, id, p.EmployeeID)
	assert.True(t, p.Hours.Equal(dec("40")))
	assert.True(t, p.NetAmount.Equal(dec("40000")))
	require.Len(t, p.LogsDetail, 1)
	require.NotNil(t, p.LogsDetail[0].Note)
	assert.Equal(t, "Imported", *p.LogsDetail[0].Note)
}

func TestReconcileProvisionsUnknownEmployee(t *testing.T) {
	svc, employees, payments := newTestService(t)
	ctx := testContext(t)

	resp, err := svc.Reconcile(ctx, payimport.ReconcileRequest{Rows: []payimport.ImportRow{{
		EmployeeName: "Pedro Mora",
		Hours:        dec("10"),
		Amount:       dec("25000"),
	}}})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Matched)
	assert.Equal(t, 1, resp.Created)
	require.Len(t, resp.Rows, 1)
	assert.True(t, resp.Rows[0].Created)

	emp, err := employees.GetByID(context.Background(), resp.Rows[0].EmployeeID, testBusinessID)
	require.NoError(t, err)
	assert.Equal(t, "Pedro Mora", emp.Name)
	require.NotNil(t, emp.Position)
	assert.Equal(t, "Imported", *emp.Position)
	// Rate derived from amount / hours.
	assert.True(t, emp.HourlyRate.Equal(dec("2500")), "rate = %s", emp.HourlyRate)
	assert.Equal(t, employee.StatusActive, emp.Status)
	assert.False(t, emp.ApplyCCSS)
	assert.True(t, emp.EnableOvertime)

	require.Len(t, payments.payments, 1)
}

func TestReconcileFallbackRateWhenHoursZero(t *testing.T) {
	svc, employees, _ := newTestService(t)
	ctx := testContext(t)

	resp, err := svc.Reconcile(ctx, payimport.ReconcileRequest{Rows: []payimport.ImportRow{{
		EmployeeName: "Ana Jimenez",
		Hours:        decimal.Zero,
		Amount:       dec("50000"),
	}}})
	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)

	emp, err := employees.GetByID(context.Background(), resp.Rows[0].EmployeeID, testBusinessID)
	require.NoError(t, err)
	assert.True(t, emp.HourlyRate.Equal(dec("3500")), "rate = %s", emp.HourlyRate)
}

func TestReconcileLaterRowsMatchProvisioned(t *testing.T) {
	svc, _, payments := newTestService(t)
	ctx := testContext(t)

	resp, err := svc.Reconcile(ctx, payimport.ReconcileRequest{Rows: []payimport.ImportRow{
		{EmployeeName: "Pedro Mora", Hours: dec("10"), Amount: dec("25000")},
		{EmployeeName: "Pedro Mora", Hours: dec("5"), Amount: dec("12500")},
	}})
	require.NoError(t, err)

	// The first row provisions, the second matches the new employee.
	assert.Equal(t, 1, resp.Created)
	assert.Equal(t, 1, resp.Matched)
	assert.Equal(t, 2, resp.Payments)
	require.Len(t, payments.payments, 2)
	assert.Equal(t, payments.payments[0].EmployeeID, payments.payments[1].EmployeeID)
}

func TestReconcileEmptyRequest(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := testContext(t)

	_, err := svc.Reconcile(ctx, payimport.ReconcileRequest{})
	assert.Error(t, err)
}

func TestParseCellDate(t *testing.T) {
	iso := parseCellDate("2026-03-07")
	require.NotNil(t, iso)
	assert.Equal(t, "2026-03-07", *iso)

	slash := parseCellDate("03/07/2026")
	require.NotNil(t, slash)
	assert.Equal(t, "2026-03-07", *slash)

	// Excel serial for 2026-03-07.
	serial := parseCellDate("46088")
	require.NotNil(t, serial)
	assert.Equal(t, "2026-03-07", *serial)

	assert.Nil(t, parseCellDate(""))
	assert.Nil(t, parseCellDate("not a date"))
}

func TestParseCellDecimal(t *testing.T) {
	assert.True(t, parseCellDecimal("1,250.50").Equal(dec("1250.50")))
	assert.True(t, parseCellDecimal(" 40 ").Equal(dec("40")))
	assert.True(t, parseCellDecimal("").IsZero())
	assert.True(t, parseCellDecimal("n/a").IsZero())
}
