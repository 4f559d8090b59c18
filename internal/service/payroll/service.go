package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/avantix/ttw-backend-go/internal/domain/business"
	"github.com/avantix/ttw-backend-go/internal/domain/employee"
	"github.com/avantix/ttw-backend-go/internal/domain/payroll"
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

type PayrollServiceImpl struct {
	db           *database.DB
	paymentRepo  payroll.PaymentRepository
	timeLogRepo  timelog.TimeLogRepository
	employeeRepo employee.EmployeeRepository
	businessRepo business.BusinessRepository
	sender       whatsapp.Sender
}

func NewPayrollService(
	db *database.DB,
	paymentRepo payroll.PaymentRepository,
	timeLogRepo timelog.TimeLogRepository,
	employeeRepo employee.EmployeeRepository,
	businessRepo business.BusinessRepository,
	sender whatsapp.Sender,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		db:           db,
		paymentRepo:  paymentRepo,
		timeLogRepo:  timeLogRepo,
		employeeRepo: employeeRepo,
		businessRepo: businessRepo,
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

func toLineResponse(l payroll.LogLine) payroll.LogLineResponse {
	return payroll.LogLineResponse{
		LogID:          l.LogID,
		Date:           l.Date.Format("2006-01-02"),
		TimeIn:         l.TimeIn,
		TimeOut:        l.TimeOut,
		IsDoubleDay:    l.IsDoubleDay,
		DeductionHours: l.DeductionHours,
		Hours:          l.Hours,
		Gross:          l.Gross,
		Deduction:      l.Deduction,
		Net:            l.Net,
	}
}

func toPaymentResponse(p payroll.Payment) payroll.PaymentResponse {
	lines := make([]payroll.PaymentLineResponse, 0, len(p.LogsDetail))
	for _, l := range p.LogsDetail {
		lines = append(lines, payroll.PaymentLineResponse(l))
	}

	var startDate, endDate *string
	if p.StartDate != nil {
		s := p.StartDate.Format("2006-01-02")
		startDate = &s
	}
	if p.EndDate != nil {
		e := p.EndDate.Format("2006-01-02")
		endDate = &e
	}

	return payroll.PaymentResponse{
		ID:            p.ID,
		EmployeeID:    p.EmployeeID,
		EmployeeName:  p.EmployeeName,
		Date:          p.Date.Format("2006-01-02"),
		Hours:         p.Hours,
		Amount:        p.Amount,
		DeductionCCSS: p.DeductionCCSS,
		NetAmount:     p.NetAmount,
		StartDate:     startDate,
		EndDate:       endDate,
		LogsDetail:    lines,
		IsImported:    p.IsImported,
	}
}

// snapshotLine freezes one aggregated log line into a payment snapshot.
// Money and hours are rounded to two decimals here; payment totals are
// always sums over these rounded snapshots, never the raw aggregates, so
// the totals match the lines exactly.
func snapshotLine(l payroll.LogLine) payroll.PaymentLine {
	return payroll.PaymentLine{
		Date:           l.Date.Format("2006-01-02"),
		TimeIn:         l.TimeIn,
		TimeOut:        l.TimeOut,
		Hours:          l.Hours.Round(2),
		IsDoubleDay:    l.IsDoubleDay,
		DeductionHours: l.DeductionHours,
		Net:            l.Net.Round(2),
		Deduction:      l.Deduction.Round(2),
	}
}

func (s *PayrollServiceImpl) pendingFor(ctx context.Context, businessID string) (map[string]*payroll.PendingBalance, error) {
	b, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	logs, err := s.timeLogRepo.ListUnpaid(ctx, businessID)
	if err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.ListByBusinessID(ctx, businessID, false)
	if err != nil {
		return nil, err
	}

	return payroll.Aggregate(logs, employees, b.CycleType), nil
}

func (s *PayrollServiceImpl) AggregatePending(ctx context.Context) (payroll.PendingSummaryResponse, error) {
	businessID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PendingSummaryResponse{}, err
	}

	pending, err := s.pendingFor(ctx, businessID)
	if err != nil {
		return payroll.PendingSummaryResponse{}, err
	}

	balances := make([]payroll.PendingBalanceResponse, 0, len(pending))
	for _, balance := range pending {
		lines := make([]payroll.LogLineResponse, 0, len(balance.Lines))
		for _, l := range balance.Lines {
			lines = append(lines, toLineResponse(l))
		}
		balances = append(balances, payroll.PendingBalanceResponse{
			EmployeeID:   balance.EmployeeID,
			EmployeeName: balance.EmployeeName,
			Hours:        balance.Hours.Round(2),
			RegularHours: balance.RegularHours.Round(2),
			ExtraHours:   balance.ExtraHours.Round(2),
			DoubleHours:  balance.DoubleHours.Round(2),
			Gross:        balance.Gross.Round(2),
			Deduction:    balance.Deduction.Round(2),
			Net:          balance.Net.Round(2),
			StartDate:    balance.StartDate.Format("2006-01-02"),
			EndDate:      balance.EndDate.Format("2006-01-02"),
			Lines:        lines,
		})
	}

	sort.Slice(balances, func(i, j int) bool {
		return balances[i].EmployeeName < balances[j].EmployeeName
	})

	return payroll.PendingSummaryResponse{Balances: balances}, nil
}

// settle writes the payment and retires the consumed logs in one transaction.
func (s *PayrollServiceImpl) settle(ctx context.Context, businessID string, balance *payroll.PendingBalance) (payroll.Payment, error) {
	lines := make([]payroll.PaymentLine, 0, len(balance.Lines))
	for _, l := range balance.Lines {
		lines = append(lines, snapshotLine(l))
	}
	hours, net, deduction := payroll.SumLines(lines)

	// An open clock event or a zero-hour balance has nothing to pay out;
	// settling it would only destroy the underlying logs.
	if !hours.IsPositive() || !net.IsPositive() {
		return payroll.Payment{}, payroll.ErrNonPositiveAmount
	}

	startDate := balance.StartDate
	endDate := balance.EndDate
	payment := payroll.Payment{
		BusinessID:    businessID,
		EmployeeID:    balance.EmployeeID,
		Date:          time.Now(),
		Hours:         hours,
		Amount:        net,
		DeductionCCSS: deduction,
		NetAmount:     net,
		StartDate:     &startDate,
		EndDate:       &endDate,
		LogsDetail:    lines,
	}

	var created payroll.Payment
	err := withTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		var err error
		created, err = s.paymentRepo.Create(txCtx, payment)
		if err != nil {
			return err
		}

		for _, l := range balance.Lines {
			if err := s.timeLogRepo.Delete(txCtx, l.LogID, businessID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return payroll.Payment{}, err
	}

	return created, nil
}

func (s *PayrollServiceImpl) notifySettlement(ctx context.Context, balance *payroll.PendingBalance, payment payroll.Payment) {
	if balance.Phone == "" {
		return
	}

	text := fmt.Sprintf(
		"Hola %s, se pagaron %s horas (%s - %s). Neto: %s",
		balance.EmployeeName,
		payment.Hours,
		balance.StartDate.Format("2006-01-02"),
		balance.EndDate.Format("2006-01-02"),
		payment.NetAmount,
	)
	if err := s.sender.Send(ctx, balance.Phone, text); err != nil {
		slog.Warn("failed to send settlement notice",
			"employee_id", balance.EmployeeID, "payment_id", payment.ID, "error", err)
	}
}

func (s *PayrollServiceImpl) SettleGroup(ctx context.Context, req payroll.SettleGroupRequest) (payroll.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PaymentResponse{}, err
	}

	businessID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PaymentResponse{}, err
	}

	pending, err := s.pendingFor(ctx, businessID)
	if err != nil {
		return payroll.PaymentResponse{}, err
	}

	balance, ok := pending[req.EmployeeID]
	if !ok {
		return payroll.PaymentResponse{}, payroll.ErrNothingToSettle
	}

	created, err := s.settle(ctx, businessID, balance)
	if err != nil {
		return payroll.PaymentResponse{}, err
	}

	s.notifySettlement(ctx, balance, created)

	return toPaymentResponse(created), nil
}

func (s *PayrollServiceImpl) SettleLine(ctx context.Context, req payroll.SettleLineRequest) (payroll.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PaymentResponse{}, err
	}

	businessID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PaymentResponse{}, err
	}

	log, err := s.timeLogRepo.GetByID(ctx, req.LogID, businessID)
	if err != nil {
		return payroll.PaymentResponse{}, err
	}
	if log.IsPaid {
		return payroll.PaymentResponse{}, timelog.ErrLogAlreadyPaid
	}

	emp, err := s.employeeRepo.GetByID(ctx, log.EmployeeID, businessID)
	if err != nil {
		return payroll.PaymentResponse{}, payroll.ErrEmployeeNotFound
	}

	gross := log.Hours.Mul(emp.HourlyRate)
	deduction := decimal.Zero
	if emp.ApplyCCSS {
		deduction = gross.Mul(payroll.CCSSRate)
	}

	phone := ""
	if emp.Phone != nil {
		phone = *emp.Phone
	}
	balance := &payroll.PendingBalance{
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		Phone:        phone,
		Hours:        log.Hours,
		Deduction:    deduction,
		StartDate:    log.Date,
		EndDate:      log.Date,
		Lines: []payroll.LogLine{{
			LogID:          log.ID,
			Date:           log.Date,
			TimeIn:         log.TimeIn,
			TimeOut:        log.TimeOut,
			IsDoubleDay:    log.IsDoubleDay,
			DeductionHours: log.DeductionHours,
			Hours:          log.Hours,
			Gross:          gross,
			Deduction:      deduction,
			Net:            gross.Sub(deduction),
		}},
	}

	created, err := s.settle(ctx, businessID, balance)
	if err != nil {
		return payroll.PaymentResponse{}, err
	}

	s.notifySettlement(ctx, balance, created)

	return toPaymentResponse(created), nil
}

// UpdatePaymentLine re-derives one settled line from its clock data. The net
// uses the employee's current hourly rate, then the payment totals are
// recomputed from the whole mutated detail array.
func (s *PayrollServiceImpl) UpdatePaymentLine(ctx context.Context, req payroll.UpdatePaymentLineRequest) (payroll.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PaymentResponse{}, err
	}

	businessID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PaymentResponse{}, err
	}

	payment, err := s.paymentRepo.GetByID(ctx, req.PaymentID, businessID)
	if err != nil {
		return payroll.PaymentResponse{}, err
	}
	if payment.IsImported {
		return payroll.PaymentResponse{}, payroll.ErrCannotAdjustImported
	}
	if req.LineIndex >= len(payment.LogsDetail) {
		return payroll.PaymentResponse{}, payroll.ErrLineIndexOutOfRange
	}

	emp, err := s.employeeRepo.GetByID(ctx, payment.EmployeeID, businessID)
	if err != nil {
		return payroll.PaymentResponse{}, payroll.ErrEmployeeNotFound
	}

	deduction := decimal.Zero
	if req.DeductionHours != nil {
		deduction = *req.DeductionHours
	}

	hours, err := timelog.ComputeHours(req.TimeIn, req.TimeOut, deduction, req.IsDoubleDay)
	if err != nil {
		return payroll.PaymentResponse{}, err
	}

	gross := hours.Mul(emp.HourlyRate)
	lineDeduction := decimal.Zero
	if emp.ApplyCCSS {
		lineDeduction = gross.Mul(payroll.CCSSRate)
	}
	net := gross.Sub(lineDeduction)

	line := &payment.LogsDetail[req.LineIndex]
	line.Date = req.Date
	line.TimeIn = req.TimeIn
	line.TimeOut = req.TimeOut
	line.IsDoubleDay = req.IsDoubleDay
	line.DeductionHours = deduction
	line.Hours = hours.Round(2)
	line.Net = net.Round(2)
	line.Deduction = lineDeduction.Round(2)

	// Untouched lines keep the deduction frozen at their own last write, so
	// the payment total is a straight sum rather than a back-derivation from
	// the net.
	totalHours, totalNet, totalDeduction := payroll.SumLines(payment.LogsDetail)
	payment.Hours = totalHours
	payment.Amount = totalNet
	payment.NetAmount = totalNet
	payment.DeductionCCSS = totalDeduction

	updated, err := s.paymentRepo.Update(ctx, payment)
	if err != nil {
		return payroll.PaymentResponse{}, err
	}

	return toPaymentResponse(updated), nil
}

func (s *PayrollServiceImpl) AdjustPayment(ctx context.Context, req payroll.AdjustPaymentRequest) (payroll.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PaymentResponse{}, err
	}

	businessID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PaymentResponse{}, err
	}

	payment, err := s.paymentRepo.GetByID(ctx, req.PaymentID, businessID)
	if err != nil {
		return payroll.PaymentResponse{}, err
	}

	prevHours, prevNet, _ := payroll.SumLines(payment.LogsDetail)

	if req.Amount != nil {
		payment.Amount = req.Amount.Round(2)
		payment.NetAmount = payment.Amount
	}
	if req.Hours != nil {
		payment.Hours = req.Hours.Round(2)
	}

	// The adjustment is appended as its own line carrying the delta against
	// the previous totals, so the detail array keeps summing to the payment
	// and the audit trail lives where the money does.
	note := req.Note
	payment.LogsDetail = append(payment.LogsDetail, payroll.PaymentLine{
		Date:  time.Now().Format("2006-01-02"),
		Hours: payment.Hours.Sub(prevHours),
		Net:   payment.Amount.Sub(prevNet),
		Note:  &note,
	})

	updated, err := s.paymentRepo.Update(ctx, payment)
	if err != nil {
		return payroll.PaymentResponse{}, err
	}

	return toPaymentResponse(updated), nil
}

func (s *PayrollServiceImpl) GetPayment(ctx context.Context, id string) (payroll.PaymentResponse, error) {
	businessID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PaymentResponse{}, err
	}

	payment, err := s.paymentRepo.GetByID(ctx, id, businessID)
	if err != nil {
		return payroll.PaymentResponse{}, err
	}

	return toPaymentResponse(payment), nil
}

func (s *PayrollServiceImpl) ListPayments(ctx context.Context) ([]payroll.PaymentResponse, error) {
	businessID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.List(ctx, businessID)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, toPaymentResponse(p))
	}

	return responses, nil
}

func (s *PayrollServiceImpl) DeletePayments(ctx context.Context, req payroll.DeletePaymentsRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	businessID, err := getClaimsFromContext(ctx)
	if err != nil {
		return 0, err
	}

	return s.paymentRepo.DeleteMany(ctx, req.IDs, businessID)
}
