package payimport

import (
	"context"
	"io"
)

type ImportService interface {
	// ParseWorkbook reads an .xlsx stream into import rows. Column layout:
	// A=period start, B=period end, C=employee name, D=hours, E=net amount.
	ParseWorkbook(r io.Reader) ([]ImportRow, error)

	// Reconcile maps rows to employees (exact match, then substring fallback,
	// first match wins), provisions missing employees, and writes one
	// imported payment per row. Re-running the same rows duplicates payments;
	// reconciliation is a supervised manual step, not a replayable sync.
	Reconcile(ctx context.Context, req ReconcileRequest) (ReconcileResponse, error)
}
