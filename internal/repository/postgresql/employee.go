package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/avantix/ttw-backend-go/internal/domain/employee"
	"github.com/avantix/ttw-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	id, business_id, name, cedula, phone, pin, position, hourly_rate, status,
	start_date, end_date, apply_ccss, overtime_threshold, overtime_multiplier,
	enable_overtime, salary_history, created_at, updated_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	var history []byte

	err := row.Scan(
		&emp.ID, &emp.BusinessID, &emp.Name, &emp.Cedula, &emp.Phone, &emp.PIN,
		&emp.Position, &emp.HourlyRate, &emp.Status, &emp.StartDate, &emp.EndDate,
		&emp.ApplyCCSS, &emp.OvertimeThreshold, &emp.OvertimeMultiplier,
		&emp.EnableOvertime, &history, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}

	if len(history) > 0 {
		if err := json.Unmarshal(history, &emp.SalaryHistory); err != nil {
			return employee.Employee{}, fmt.Errorf("failed to decode salary history: %w", err)
		}
	}

	return emp, nil
}

func (r *employeeRepository) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	history, err := json.Marshal(emp.SalaryHistory)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to encode salary history: %w", err)
	}

	query := `
		INSERT INTO employees (
			business_id, name, cedula, phone, pin, position, hourly_rate, status,
			start_date, end_date, apply_ccss, overtime_threshold, overtime_multiplier,
			enable_overtime, salary_history
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		emp.BusinessID, emp.Name, emp.Cedula, emp.Phone, emp.PIN, emp.Position,
		emp.HourlyRate, emp.Status, emp.StartDate, emp.EndDate, emp.ApplyCCSS,
		emp.OvertimeThreshold, emp.OvertimeMultiplier, emp.EnableOvertime, history,
	))
	if err != nil {
		if strings.Contains(err.Error(), "uk_employee_pin") {
			return employee.Employee{}, employee.ErrPINAlreadyUsed
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return created, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string, businessID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 AND business_id = $2`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id, businessID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return emp, nil
}

func (r *employeeRepository) GetByPIN(ctx context.Context, pin string, businessID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees
		WHERE pin = $1 AND business_id = $2 AND status = 'Active'`

	emp, err := scanEmployee(q.QueryRow(ctx, query, pin, businessID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrPINNotRecognized
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by pin: %w", err)
	}

	return emp, nil
}

func (r *employeeRepository) ListByBusinessID(ctx context.Context, businessID string, activeOnly bool) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE business_id = $1`
	if activeOnly {
		query += ` AND status = 'Active'`
	}
	query += ` ORDER BY name`

	rows, err := q.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	return employees, nil
}

func (r *employeeRepository) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	history, err := json.Marshal(emp.SalaryHistory)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to encode salary history: %w", err)
	}

	query := `
		UPDATE employees
		SET name = $1, cedula = $2, phone = $3, pin = $4, position = $5,
			hourly_rate = $6, status = $7, start_date = $8, end_date = $9,
			apply_ccss = $10, overtime_threshold = $11, overtime_multiplier = $12,
			enable_overtime = $13, salary_history = $14, updated_at = NOW()
		WHERE id = $15 AND business_id = $16
		RETURNING ` + employeeColumns

	updated, err := scanEmployee(q.QueryRow(ctx, query,
		emp.Name, emp.Cedula, emp.Phone, emp.PIN, emp.Position, emp.HourlyRate,
		emp.Status, emp.StartDate, emp.EndDate, emp.ApplyCCSS, emp.OvertimeThreshold,
		emp.OvertimeMultiplier, emp.EnableOvertime, history, emp.ID, emp.BusinessID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}

	return updated, nil
}

func (r *employeeRepository) Delete(ctx context.Context, id string, businessID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1 AND business_id = $2`, id, businessID)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}
