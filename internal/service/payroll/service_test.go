package payroll

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/avantix/ttw-backend-go/internal/domain/business"
	"github.com/avantix/ttw-backend-go/internal/domain/employee"
	"github.com/avantix/ttw-backend-go/internal/domain/payroll"
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

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

// In-memory fakes. Settlement correctness is about what the service writes
// and deletes, so the fakes record every mutation.

type fakePaymentRepo struct {
	payments map[string]payroll.Payment
	nextID   int
	failNext bool
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]payroll.Payment)}
}

func (r *fakePaymentRepo) Create(_ context.Context, p payroll.Payment) (payroll.Payment, error) {
	if r.failNext {
		r.failNext = false
		return payroll.Payment{}, errors.New("create failed")
	}
	r.nextID++
	p.ID = fmt.Sprintf("pay-%d", r.nextID)
	r.payments[p.ID] = p
	return p, nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id string, businessID string) (payroll.Payment, error) {
	p, ok := r.payments[id]
	if !ok || p.BusinessID != businessID {
		return payroll.Payment{}, payroll.ErrPaymentNotFound
	}
	return p, nil
}

func (r *fakePaymentRepo) List(_ context.Context, businessID string) ([]payroll.Payment, error) {
	var out []payroll.Payment
	for _, p := range r.payments {
		if p.BusinessID == businessID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) Update(_ context.Context, p payroll.Payment) (payroll.Payment, error) {
	if _, ok := r.payments[p.ID]; !ok {
		return payroll.Payment{}, payroll.ErrPaymentNotFound
	}
	r.payments[p.ID] = p
	return p, nil
}

func (r *fakePaymentRepo) Delete(_ context.Context, id string, businessID string) error {
	p, ok := r.payments[id]
	if !ok || p.BusinessID != businessID {
		return payroll.ErrPaymentNotFound
	}
	delete(r.payments, id)
	return nil
}

func (r *fakePaymentRepo) DeleteMany(_ context.Context, ids []string, businessID string) (int64, error) {
	var n int64
	for _, id := range ids {
		if p, ok := r.payments[id]; ok && p.BusinessID == businessID {
			delete(r.payments, id)
			n++
		}
	}
	return n, nil
}

type fakeTimeLogRepo struct {
	logs       map[string]timelog.TimeLog
	failDelete map[string]bool
}

func newFakeTimeLogRepo() *fakeTimeLogRepo {
	return &fakeTimeLogRepo{
		logs:       make(map[string]timelog.TimeLog),
		failDelete: make(map[string]bool),
	}
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
	var out []timelog.TimeLog
	for _, log := range r.logs {
		if log.BusinessID == businessID && !log.IsPaid {
			out = append(out, log)
		}
	}
	return out, nil
}

func (r *fakeTimeLogRepo) ListByEmployee(_ context.Context, employeeID string, businessID string) ([]timelog.TimeLog, error) {
	var out []timelog.TimeLog
	for _, log := range r.logs {
		if log.BusinessID == businessID && log.EmployeeID == employeeID {
			out = append(out, log)
		}
	}
	return out, nil
}

func (r *fakeTimeLogRepo) GetOpenClockEvent(_ context.Context, _, _ string, _ time.Time) (timelog.TimeLog, error) {
	return timelog.TimeLog{}, timelog.ErrNotClockedIn
}

func (r *fakeTimeLogRepo) Update(_ context.Context, log timelog.TimeLog) (timelog.TimeLog, error) {
	if _, ok := r.logs[log.ID]; !ok {
		return timelog.TimeLog{}, timelog.ErrLogNotFound
	}
	r.logs[log.ID] = log
	return log, nil
}

func (r *fakeTimeLogRepo) Delete(_ context.Context, id string, businessID string) error {
	if r.failDelete[id] {
		return errors.New("delete failed")
	}
	log, ok := r.logs[id]
	if !ok || log.BusinessID != businessID {
		return timelog.ErrLogNotFound
	}
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

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[string]employee.Employee)}
}

func (r *fakeEmployeeRepo) Create(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	if emp.ID == "" {
		emp.ID = "emp-new"
	}
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
	for _, emp := range r.employees {
		if emp.PIN != nil && *emp.PIN == pin && emp.BusinessID == businessID {
			return emp, nil
		}
	}
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

type fakeBusinessRepo struct {
	b business.Business
}

func (r *fakeBusinessRepo) GetByID(_ context.Context, id string) (business.Business, error) {
	if r.b.ID != id {
		return business.Business{}, business.ErrBusinessNotFound
	}
	return r.b, nil
}

func (r *fakeBusinessRepo) Update(_ context.Context, b business.Business) (business.Business, error) {
	r.b = b
	return b, nil
}

type fakeSender struct {
	sent []string
}

func (f *fakeSender) Send(_ context.Context, phone string, text string) error {
	f.sent = append(f.sent, phone+": "+text)
	return nil
}

type fixture struct {
	svc       payroll.PayrollService
	payments  *fakePaymentRepo
	logs      *fakeTimeLogRepo
	employees *fakeEmployeeRepo
	sender    *fakeSender
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	// Route transactional work straight through; the fakes have no
	// transactions to speak of.
	prev := withTransaction
	withTransaction = func(ctx context.Context, _ *database.DB, fn func(tx pgx.Tx) error) error {
		return fn(nil)
	}
	t.Cleanup(func() { withTransaction = prev })

	payments := newFakePaymentRepo()
	logs := newFakeTimeLogRepo()
	employees := newFakeEmployeeRepo()
	sender := &fakeSender{}
	bizRepo := &fakeBusinessRepo{b: business.Business{
		ID:        testBusinessID,
		Name:      "Finca Test",
		CycleType: business.CycleWeekly,
		Status:    business.StatusActive,
	}}

	return &fixture{
		svc:       NewPayrollService(nil, payments, logs, employees, bizRepo, sender),
		payments:  payments,
		logs:      logs,
		employees: employees,
		sender:    sender,
	}
}

func (f *fixture) addEmployee(id, name, rate string, applyCCSS bool) {
	phone := "88887777"
	f.employees.employees[id] = employee.Employee{
		ID:                 id,
		BusinessID:         testBusinessID,
		Name:               name,
		Phone:              &phone,
		HourlyRate:         dec(rate),
		Status:             employee.StatusActive,
		ApplyCCSS:          applyCCSS,
		OvertimeThreshold:  decimal.NewFromInt(48),
		OvertimeMultiplier: dec("1.5"),
	}
}

func (f *fixture) addLog(id, empID, date, hours string) {
	in, out := "08:00", "17:00"
	f.logs.logs[id] = timelog.TimeLog{
		ID:         id,
		BusinessID: testBusinessID,
		EmployeeID: empID,
		Date:       day(date),
		TimeIn:     &in,
		TimeOut:    &out,
		Hours:      dec(hours),
	}
}

// addClockEvent stores an open clock-in: time in only, zero payable hours.
func (f *fixture) addClockEvent(id, empID, date string) {
	in := "08:00"
	f.logs.logs[id] = timelog.TimeLog{
		ID:         id,
		BusinessID: testBusinessID,
		EmployeeID: empID,
		Date:       day(date),
		TimeIn:     &in,
		Hours:      decimal.Zero,
	}
}

func TestSettleGroup(t *testing.T) {
	f := newFixture(t)
	ctx := testContext(t)

	f.addEmployee("e1", "Maria", "1000", true)
	f.addLog("l1", "e1", "2026-03-02", "10")
	f.addLog("l2", "e1", "2026-03-04", "8")

	resp, err := f.svc.SettleGroup(ctx, payroll.SettleGroupRequest{EmployeeID: "e1"})
	require.NoError(t, err)

	// 18h * 1000 = 18000 gross, 10.67% CCSS off.
	assert.True(t, resp.Hours.Equal(dec("18")), "hours = %s", resp.Hours)
	assert.True(t, resp.NetAmount.Equal(dec("16079.4")), "net = %s", resp.NetAmount)
	assert.True(t, resp.Amount.Equal(resp.NetAmount))
	assert.True(t, resp.DeductionCCSS.Equal(dec("1920.6")), "deduction = %s", resp.DeductionCCSS)
	assert.False(t, resp.IsImported)
	require.NotNil(t, resp.StartDate)
	require.NotNil(t, resp.EndDate)
	assert.Equal(t, "2026-03-02", *resp.StartDate)
	assert.Equal(t, "2026-03-04", *resp.EndDate)

	// Consumed logs are gone and the payment exists.
	assert.Empty(t, f.logs.logs)
	assert.Len(t, f.payments.payments, 1)

	// Totals equal the sum of the snapshot lines.
	require.Len(t, resp.LogsDetail, 2)
	sumHours, sumNet := decimal.Zero, decimal.Zero
	for _, l := range resp.LogsDetail {
		sumHours = sumHours.Add(l.Hours)
		sumNet = sumNet.Add(l.Net)
	}
	assert.True(t, sumHours.Equal(resp.Hours))
	assert.True(t, sumNet.Equal(resp.Amount))

	assert.Len(t, f.sender.sent, 1)
}

func TestSettleGroupRejectsZeroHourBalance(t *testing.T) {
	f := newFixture(t)
	ctx := testContext(t)

	// The employee's only unpaid row is an open clock-in. Paying it out would
	// write a zero payment and destroy the clock event.
	f.addEmployee("e1", "Maria", "1000", true)
	f.addClockEvent("l1", "e1", "2026-03-02")

	_, err := f.svc.SettleGroup(ctx, payroll.SettleGroupRequest{EmployeeID: "e1"})
	assert.ErrorIs(t, err, payroll.ErrNonPositiveAmount)

	_, kept := f.logs.logs["l1"]
	assert.True(t, kept)
	assert.Empty(t, f.payments.payments)
	assert.Empty(t, f.sender.sent)
}

func TestSettleGroupNothingPending(t *testing.T) {
	f := newFixture(t)
	ctx := testContext(t)

	f.addEmployee("e1", "Maria", "1000", false)

	_, err := f.svc.SettleGroup(ctx, payroll.SettleGroupRequest{EmployeeID: "e1"})
	assert.ErrorIs(t, err, payroll.ErrNothingToSettle)
}

func TestSettleGroupAtomicOnDeleteFailure(t *testing.T) {
	f := newFixture(t)
	ctx := testContext(t)

	f.addEmployee("e1", "Maria", "1000", false)
	f.addLog("l1", "e1", "2026-03-02", "10")
	f.addLog("l2", "e1", "2026-03-04", "8")
	f.logs.failDelete["l2"] = true

	_, err := f.svc.SettleGroup(ctx, payroll.SettleGroupRequest{EmployeeID: "e1"})
	require.Error(t, err)

	// In production the transaction rolls everything back. The fakes cannot
	// roll back, but the error must surface and no notification goes out.
	assert.Empty(t, f.sender.sent)
}

func TestSettleLine(t *testing.T) {
	f := newFixture(t)
	ctx := testContext(t)

	f.addEmployee("e1", "Maria", "1000", true)
	f.addLog("l1", "e1", "2026-03-02", "10")
	f.addLog("l2", "e1", "2026-03-04", "8")

	resp, err := f.svc.SettleLine(ctx, payroll.SettleLineRequest{LogID: "l1"})
	require.NoError(t, err)

	assert.True(t, resp.Hours.Equal(dec("10")))
	assert.True(t, resp.NetAmount.Equal(dec("8933")), "net = %s", resp.NetAmount)
	require.Len(t, resp.LogsDetail, 1)

	// Only the settled log is retired.
	_, l1Gone := f.logs.logs["l1"]
	_, l2Kept := f.logs.logs["l2"]
	assert.False(t, l1Gone)
	assert.True(t, l2Kept)
}

func TestSettleLineRejectsOpenClockEvent(t *testing.T) {
	f := newFixture(t)
	ctx := testContext(t)

	f.addEmployee("e1", "Maria", "1000", false)
	f.addClockEvent("l1", "e1", "2026-03-02")

	_, err := f.svc.SettleLine(ctx, payroll.SettleLineRequest{LogID: "l1"})
	assert.ErrorIs(t, err, payroll.ErrNonPositiveAmount)

	_, kept := f.logs.logs["l1"]
	assert.True(t, kept)
	assert.Empty(t, f.payments.payments)
}

func TestSettleLineUnknownLog(t *testing.T) {
	f := newFixture(t)
	ctx := testContext(t)

	_, err := f.svc.SettleLine(ctx, payroll.SettleLineRequest{LogID: "nope"})
	assert.ErrorIs(t, err, timelog.ErrLogNotFound)
}

func TestAggregatePendingSummary(t *testing.T) {
	f := newFixture(t)
	ctx := testContext(t)

	f.addEmployee("e1", "Maria", "1000", true)
	f.addEmployee("e2", "Carlos", "2000", false)
	f.addLog("l1", "e1", "2026-03-02", "10")
	f.addLog("l2", "e2", "2026-03-02", "8")

	resp, err := f.svc.AggregatePending(ctx)
	require.NoError(t, err)
	require.Len(t, resp.Balances, 2)

	// Sorted by name.
	assert.Equal(t, "Carlos", resp.Balances[0].EmployeeName)
	assert.Equal(t, "Maria", resp.Balances[1].EmployeeName)

	maria := resp.Balances[1]
	assert.True(t, maria.Net.Equal(dec("8933")))
	assert.True(t, maria.Deduction.Equal(dec("1067")))
}

func TestUpdatePaymentLineRecomputesTotals(t *testing.T) {
	f := newFixture(t)
	ctx := testContext(t)

	f.addEmployee("e1", "Maria", "1000", false)
	f.addLog("l1", "e1", "2026-03-02", "10")

	settled, err := f.svc.SettleGroup(ctx, payroll.SettleGroupRequest{EmployeeID: "e1"})
	require.NoError(t, err)
	require.True(t, settled.NetAmount.Equal(dec("10000")))

	// The employee got a raise after settlement; corrections use the
	// current rate.
	emp := f.employees.employees["e1"]
	emp.HourlyRate = dec("1200")
	f.employees.employees["e1"] = emp

	in, out := "08:00", "16:00"
	resp, err := f.svc.UpdatePaymentLine(ctx, payroll.UpdatePaymentLineRequest{
		PaymentID: settled.ID,
		LineIndex: 0,
		Date:      "2026-03-02",
		TimeIn:    &in,
		TimeOut:   &out,
	})
	require.NoError(t, err)

	// 8h at the current 1200 rate.
	assert.True(t, resp.Hours.Equal(dec("8")), "hours = %s", resp.Hours)
	assert.True(t, resp.NetAmount.Equal(dec("9600")), "net = %s", resp.NetAmount)

	sumHours, sumNet := decimal.Zero, decimal.Zero
	for _, l := range resp.LogsDetail {
		sumHours = sumHours.Add(l.Hours)
		sumNet = sumNet.Add(l.Net)
	}
	assert.True(t, sumHours.Equal(resp.Hours))
	assert.True(t, sumNet.Equal(resp.Amount))
}

func TestUpdatePaymentLineTracksDeductionPerLine(t *testing.T) {
	f := newFixture(t)
	ctx := testContext(t)

	// Two identical 10h lines so the edit target is unambiguous.
	f.addEmployee("e1", "Maria", "1000", true)
	f.addLog("l1", "e1", "2026-03-02", "10")
	f.addLog("l2", "e1", "2026-03-03", "10")

	settled, err := f.svc.SettleGroup(ctx, payroll.SettleGroupRequest{EmployeeID: "e1"})
	require.NoError(t, err)
	require.True(t, settled.DeductionCCSS.Equal(dec("2134")), "deduction = %s", settled.DeductionCCSS)

	in, out := "08:00", "16:00"
	resp, err := f.svc.UpdatePaymentLine(ctx, payroll.UpdatePaymentLineRequest{
		PaymentID: settled.ID,
		LineIndex: 0,
		Date:      "2026-03-02",
		TimeIn:    &in,
		TimeOut:   &out,
	})
	require.NoError(t, err)

	// The edited line drops to 8h (deduction 853.6); the untouched line keeps
	// its frozen 1067. The payment total is the sum of the two, never derived
	// from the net.
	assert.True(t, resp.DeductionCCSS.Equal(dec("1920.6")), "deduction = %s", resp.DeductionCCSS)
	assert.True(t, resp.LogsDetail[0].Deduction.Equal(dec("853.6")))
	assert.True(t, resp.LogsDetail[1].Deduction.Equal(dec("1067")))
	assert.True(t, resp.NetAmount.Equal(dec("16079.4")), "net = %s", resp.NetAmount)
}

func TestUpdatePaymentLineOutOfRange(t *testing.T) {
	f := newFixture(t)
	ctx := testContext(t)

	f.addEmployee("e1", "Maria", "1000", false)
	f.addLog("l1", "e1", "2026-03-02", "10")

	settled, err := f.svc.SettleGroup(ctx, payroll.SettleGroupRequest{EmployeeID: "e1"})
	require.NoError(t, err)

	_, err = f.svc.UpdatePaymentLine(ctx, payroll.UpdatePaymentLineRequest{
		PaymentID: settled.ID,
		LineIndex: 5,
		Date:      "2026-03-02",
	})
	assert.ErrorIs(t, err, payroll.ErrLineIndexOutOfRange)
}

func TestAdjustPaymentAppendsNote(t *testing.T) {
	f := newFixture(t)
	ctx := testContext(t)

	f.addEmployee("e1", "Maria", "1000", false)
	f.addLog("l1", "e1", "2026-03-02", "10")

	settled, err := f.svc.SettleGroup(ctx, payroll.SettleGroupRequest{EmployeeID: "e1"})
	require.NoError(t, err)

	amount := dec("9500")
	resp, err := f.svc.AdjustPayment(ctx, payroll.AdjustPaymentRequest{
		PaymentID: settled.ID,
		Amount:    &amount,
		Note:      "cash advance deducted",
	})
	require.NoError(t, err)

	assert.True(t, resp.Amount.Equal(dec("9500")))
	require.Len(t, resp.LogsDetail, 2)
	last := resp.LogsDetail[len(resp.LogsDetail)-1]
	require.NotNil(t, last.Note)
	assert.Equal(t, "cash advance deducted", *last.Note)
	assert.True(t, last.Hours.IsZero())

	// The note line carries the delta so the lines still sum to the totals.
	assert.True(t, last.Net.Equal(dec("-500")), "note net = %s", last.Net)
	sumHours, sumNet := decimal.Zero, decimal.Zero
	for _, l := range resp.LogsDetail {
		sumHours = sumHours.Add(l.Hours)
		sumNet = sumNet.Add(l.Net)
	}
	assert.True(t, sumHours.Equal(resp.Hours))
	assert.True(t, sumNet.Equal(resp.Amount))
}

func TestAdjustPaymentRequiresNote(t *testing.T) {
	f := newFixture(t)
	ctx := testContext(t)

	amount := dec("9500")
	_, err := f.svc.AdjustPayment(ctx, payroll.AdjustPaymentRequest{
		PaymentID: "pay-1",
		Amount:    &amount,
	})
	assert.Error(t, err)
}

func TestDeletePayments(t *testing.T) {
	f := newFixture(t)
	ctx := testContext(t)

	f.addEmployee("e1", "Maria", "1000", false)
	f.addLog("l1", "e1", "2026-03-02", "10")

	settled, err := f.svc.SettleGroup(ctx, payroll.SettleGroupRequest{EmployeeID: "e1"})
	require.NoError(t, err)

	deleted, err := f.svc.DeletePayments(ctx, payroll.DeletePaymentsRequest{IDs: []string{settled.ID, "ghost"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Empty(t, f.payments.payments)
}
