package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avantix/ttw-backend-go/internal/domain/payroll"
	"github.com/avantix/ttw-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type paymentRepository struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) payroll.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `
	p.id, p.business_id, p.employee_id, p.date, p.hours, p.amount,
	p.deduction_ccss, p.net_amount, p.start_date, p.end_date, p.logs_detail,
	p.is_imported, p.created_at, p.updated_at
`

func scanPayment(row pgx.Row) (payroll.Payment, error) {
	var p payroll.Payment
	var detail []byte

	err := row.Scan(
		&p.ID, &p.BusinessID, &p.EmployeeID, &p.Date, &p.Hours, &p.Amount,
		&p.DeductionCCSS, &p.NetAmount, &p.StartDate, &p.EndDate, &detail,
		&p.IsImported, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return payroll.Payment{}, err
	}

	if len(detail) > 0 {
		if err := json.Unmarshal(detail, &p.LogsDetail); err != nil {
			return payroll.Payment{}, fmt.Errorf("failed to decode logs detail: %w", err)
		}
	}

	return p, nil
}

func (r *paymentRepository) Create(ctx context.Context, p payroll.Payment) (payroll.Payment, error) {
	q := GetQuerier(ctx, r.db)

	detail, err := json.Marshal(p.LogsDetail)
	if err != nil {
		return payroll.Payment{}, fmt.Errorf("failed to encode logs detail: %w", err)
	}

	query := `
		INSERT INTO payments (
			business_id, employee_id, date, hours, amount, deduction_ccss,
			net_amount, start_date, end_date, logs_detail, is_imported
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, business_id, employee_id, date, hours, amount,
			deduction_ccss, net_amount, start_date, end_date, logs_detail,
			is_imported, created_at, updated_at
	`

	created, err := scanPayment(q.QueryRow(ctx, query,
		p.BusinessID, p.EmployeeID, p.Date, p.Hours, p.Amount, p.DeductionCCSS,
		p.NetAmount, p.StartDate, p.EndDate, detail, p.IsImported,
	))
	if err != nil {
		return payroll.Payment{}, fmt.Errorf("failed to create payment: %w", err)
	}

	return created, nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id string, businessID string) (payroll.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + paymentColumns + ` FROM payments p WHERE p.id = $1 AND p.business_id = $2`

	p, err := scanPayment(q.QueryRow(ctx, query, id, businessID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payment{}, payroll.ErrPaymentNotFound
		}
		return payroll.Payment{}, fmt.Errorf("failed to get payment: %w", err)
	}

	return p, nil
}

func (r *paymentRepository) List(ctx context.Context, businessID string) ([]payroll.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + paymentColumns + `, e.name
		FROM payments p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE p.business_id = $1
		ORDER BY p.date DESC, p.created_at DESC
	`

	rows, err := q.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []payroll.Payment
	for rows.Next() {
		var p payroll.Payment
		var detail []byte
		if err := rows.Scan(
			&p.ID, &p.BusinessID, &p.EmployeeID, &p.Date, &p.Hours, &p.Amount,
			&p.DeductionCCSS, &p.NetAmount, &p.StartDate, &p.EndDate, &detail,
			&p.IsImported, &p.CreatedAt, &p.UpdatedAt, &p.EmployeeName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		if len(detail) > 0 {
			if err := json.Unmarshal(detail, &p.LogsDetail); err != nil {
				return nil, fmt.Errorf("failed to decode logs detail: %w", err)
			}
		}
		payments = append(payments, p)
	}

	return payments, nil
}

func (r *paymentRepository) Update(ctx context.Context, p payroll.Payment) (payroll.Payment, error) {
	q := GetQuerier(ctx, r.db)

	detail, err := json.Marshal(p.LogsDetail)
	if err != nil {
		return payroll.Payment{}, fmt.Errorf("failed to encode logs detail: %w", err)
	}

	query := `
		UPDATE payments
		SET hours = $1, amount = $2, deduction_ccss = $3, net_amount = $4,
			logs_detail = $5, updated_at = NOW()
		WHERE id = $6 AND business_id = $7
		RETURNING id, business_id, employee_id, date, hours, amount,
			deduction_ccss, net_amount, start_date, end_date, logs_detail,
			is_imported, created_at, updated_at
	`

	updated, err := scanPayment(q.QueryRow(ctx, query,
		p.Hours, p.Amount, p.DeductionCCSS, p.NetAmount, detail, p.ID, p.BusinessID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payment{}, payroll.ErrPaymentNotFound
		}
		return payroll.Payment{}, fmt.Errorf("failed to update payment: %w", err)
	}

	return updated, nil
}

func (r *paymentRepository) Delete(ctx context.Context, id string, businessID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payments WHERE id = $1 AND business_id = $2`, id, businessID)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPaymentNotFound
	}

	return nil
}

func (r *paymentRepository) DeleteMany(ctx context.Context, ids []string, businessID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`DELETE FROM payments WHERE id = ANY($1) AND business_id = $2`,
		ids, businessID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete payments: %w", err)
	}

	return tag.RowsAffected(), nil
}
