package payroll

import "errors"

var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrNothingToSettle      = errors.New("no unpaid hours to settle for this employee")
	ErrLineIndexOutOfRange  = errors.New("payment has no line at that index")
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrNonPositiveAmount    = errors.New("settlement amount and hours must be positive")
	ErrCannotAdjustImported = errors.New("imported payments cannot be adjusted by line")

	// ErrPartialSettlement marks a payment that was written while one or more
	// log deletions failed. The postgres path settles inside one transaction
	// and cannot produce it; it stays in the taxonomy for stores without
	// transactional deletes so callers can retry deletion without re-paying.
	ErrPartialSettlement = errors.New("payment created but some logs could not be retired")
)
