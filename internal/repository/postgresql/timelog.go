package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/avantix/ttw-backend-go/internal/domain/timelog"
	"github.com/avantix/ttw-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type timeLogRepository struct {
	db *database.DB
}

func NewTimeLogRepository(db *database.DB) timelog.TimeLogRepository {
	return &timeLogRepository{db: db}
}

const timeLogColumns = `
	l.id, l.business_id, l.employee_id, l.date, l.time_in, l.time_out,
	l.is_double_day, l.deduction_hours, l.hours, l.is_paid, l.source,
	l.location_lat, l.location_lng, l.photo_url, l.created_at, l.updated_at
`

func scanTimeLog(row pgx.Row) (timelog.TimeLog, error) {
	var log timelog.TimeLog
	err := row.Scan(
		&log.ID, &log.BusinessID, &log.EmployeeID, &log.Date, &log.TimeIn, &log.TimeOut,
		&log.IsDoubleDay, &log.DeductionHours, &log.Hours, &log.IsPaid, &log.Source,
		&log.LocationLat, &log.LocationLng, &log.PhotoURL, &log.CreatedAt, &log.UpdatedAt,
	)
	return log, err
}

func (r *timeLogRepository) Create(ctx context.Context, log timelog.TimeLog) (timelog.TimeLog, error) {
	q := GetQuerier(ctx, r.db)

	// Hours are rounded to two decimals at this boundary; aggregation keeps
	// full precision in memory.
	query := `
		INSERT INTO logs (
			business_id, employee_id, date, time_in, time_out, is_double_day,
			deduction_hours, hours, is_paid, source, location_lat, location_lng, photo_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + timeLogColumns

	created, err := scanTimeLog(q.QueryRow(ctx, query,
		log.BusinessID, log.EmployeeID, log.Date, log.TimeIn, log.TimeOut,
		log.IsDoubleDay, log.DeductionHours, log.Hours.Round(2), log.IsPaid,
		log.Source, log.LocationLat, log.LocationLng, log.PhotoURL,
	))
	if err != nil {
		return timelog.TimeLog{}, fmt.Errorf("failed to create time log: %w", err)
	}

	return created, nil
}

func (r *timeLogRepository) GetByID(ctx context.Context, id string, businessID string) (timelog.TimeLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeLogColumns + ` FROM logs l WHERE l.id = $1 AND l.business_id = $2`

	log, err := scanTimeLog(q.QueryRow(ctx, query, id, businessID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return timelog.TimeLog{}, timelog.ErrLogNotFound
		}
		return timelog.TimeLog{}, fmt.Errorf("failed to get time log: %w", err)
	}

	return log, nil
}

func (r *timeLogRepository) ListUnpaid(ctx context.Context, businessID string) ([]timelog.TimeLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timeLogColumns + `, e.name
		FROM logs l
		LEFT JOIN employees e ON e.id = l.employee_id
		WHERE l.business_id = $1 AND l.is_paid = false
		ORDER BY l.date, l.created_at
	`

	rows, err := q.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unpaid logs: %w", err)
	}
	defer rows.Close()

	var logs []timelog.TimeLog
	for rows.Next() {
		var log timelog.TimeLog
		if err := rows.Scan(
			&log.ID, &log.BusinessID, &log.EmployeeID, &log.Date, &log.TimeIn, &log.TimeOut,
			&log.IsDoubleDay, &log.DeductionHours, &log.Hours, &log.IsPaid, &log.Source,
			&log.LocationLat, &log.LocationLng, &log.PhotoURL, &log.CreatedAt, &log.UpdatedAt,
			&log.EmployeeName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan time log: %w", err)
		}
		logs = append(logs, log)
	}

	return logs, nil
}

func (r *timeLogRepository) ListByEmployee(ctx context.Context, employeeID string, businessID string) ([]timelog.TimeLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeLogColumns + ` FROM logs l
		WHERE l.employee_id = $1 AND l.business_id = $2
		ORDER BY l.date DESC, l.created_at DESC`

	rows, err := q.Query(ctx, query, employeeID, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs by employee: %w", err)
	}
	defer rows.Close()

	var logs []timelog.TimeLog
	for rows.Next() {
		log, err := scanTimeLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time log: %w", err)
		}
		logs = append(logs, log)
	}

	return logs, nil
}

func (r *timeLogRepository) GetOpenClockEvent(ctx context.Context, employeeID string, businessID string, date time.Time) (timelog.TimeLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeLogColumns + ` FROM logs l
		WHERE l.employee_id = $1 AND l.business_id = $2 AND l.date = $3
		  AND l.time_in IS NOT NULL AND l.time_out IS NULL AND l.is_paid = false
		ORDER BY l.created_at DESC
		LIMIT 1`

	log, err := scanTimeLog(q.QueryRow(ctx, query, employeeID, businessID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return timelog.TimeLog{}, timelog.ErrNotClockedIn
		}
		return timelog.TimeLog{}, fmt.Errorf("failed to get open clock event: %w", err)
	}

	return log, nil
}

func (r *timeLogRepository) Update(ctx context.Context, log timelog.TimeLog) (timelog.TimeLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE logs
		SET date = $1, time_in = $2, time_out = $3, is_double_day = $4,
			deduction_hours = $5, hours = $6, updated_at = NOW()
		WHERE id = $7 AND business_id = $8
		RETURNING ` + timeLogColumns

	updated, err := scanTimeLog(q.QueryRow(ctx, query,
		log.Date, log.TimeIn, log.TimeOut, log.IsDoubleDay,
		log.DeductionHours, log.Hours.Round(2), log.ID, log.BusinessID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return timelog.TimeLog{}, timelog.ErrLogNotFound
		}
		return timelog.TimeLog{}, fmt.Errorf("failed to update time log: %w", err)
	}

	return updated, nil
}

func (r *timeLogRepository) Delete(ctx context.Context, id string, businessID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM logs WHERE id = $1 AND business_id = $2`, id, businessID)
	if err != nil {
		return fmt.Errorf("failed to delete time log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timelog.ErrLogNotFound
	}

	return nil
}

func (r *timeLogRepository) DeleteByEmployee(ctx context.Context, employeeID string, businessID string, unpaidOnly bool) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM logs WHERE employee_id = $1 AND business_id = $2`
	if unpaidOnly {
		query += ` AND is_paid = false`
	}

	tag, err := q.Exec(ctx, query, employeeID, businessID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete logs by employee: %w", err)
	}

	return tag.RowsAffected(), nil
}
