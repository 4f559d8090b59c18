package payroll

import "context"

type PayrollService interface {
	// AggregatePending computes the pending balance of every employee with
	// unpaid logs, from a fresh snapshot of the log store.
	AggregatePending(ctx context.Context) (PendingSummaryResponse, error)

	// SettleGroup pays out an employee's full pending balance: one payment,
	// all consumed logs deleted, atomically.
	SettleGroup(ctx context.Context, req SettleGroupRequest) (PaymentResponse, error)

	// SettleLine pays out a single unpaid log.
	SettleLine(ctx context.Context, req SettleLineRequest) (PaymentResponse, error)

	// UpdatePaymentLine edits one line of a settled payment and recomputes
	// the payment totals from the full mutated detail array.
	UpdatePaymentLine(ctx context.Context, req UpdatePaymentLineRequest) (PaymentResponse, error)

	// AdjustPayment overwrites a payment's totals directly (audited).
	AdjustPayment(ctx context.Context, req AdjustPaymentRequest) (PaymentResponse, error)

	GetPayment(ctx context.Context, id string) (PaymentResponse, error)
	ListPayments(ctx context.Context) ([]PaymentResponse, error)
	DeletePayments(ctx context.Context, req DeletePaymentsRequest) (int64, error)
}
