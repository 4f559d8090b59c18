package payimport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/avantix/ttw-backend-go/internal/domain/employee"
	"github.com/avantix/ttw-backend-go/internal/domain/payimport"
	"github.com/avantix/ttw-backend-go/internal/domain/payroll"
	"github.com/avantix/ttw-backend-go/internal/pkg/database"
	"github.com/avantix/ttw-backend-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Rate assigned to provisioned employees when the row's hours are zero and
// no rate can be derived.
var fallbackHourlyRate = decimal.NewFromInt(3500)

var importedNote = "Imported"

// withTransaction is a seam for tests; production always runs the postgres
// transaction wrapper.
var withTransaction = postgresql.WithTransaction

type ImportServiceImpl struct {
	db           *database.DB
	employeeRepo employee.EmployeeRepository
	paymentRepo  payroll.PaymentRepository
}

func NewImportService(
	db *database.DB,
	employeeRepo employee.EmployeeRepository,
	paymentRepo payroll.PaymentRepository,
) payimport.ImportService {
	return &ImportServiceImpl{
		db:           db,
		employeeRepo: employeeRepo,
		paymentRepo:  paymentRepo,
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

var importDateLayouts = []string{
	"2006-01-02",
	"01-02-06",
	"1/2/06",
	"01/02/2006",
	"2/1/2006",
	"02/01/2006",
}

// parseCellDate accepts ISO and slash dates as well as raw Excel serials.
func parseCellDate(cell string) *string {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}

	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			formatted := t.Format("2006-01-02")
			return &formatted
		}
	}

	if serial, err := strconv.ParseFloat(cell, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			formatted := t.Format("2006-01-02")
			return &formatted
		}
	}

	return nil
}

func parseCellDecimal(cell string) decimal.Decimal {
	cell = strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if cell == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cell)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseWorkbook reads the first sheet. Header rows and rows without an
// employee name in column C are skipped silently; a workbook that yields no
// rows at all is an error.
func (s *ImportServiceImpl) ParseWorkbook(r io.Reader) ([]payimport.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, payimport.ErrUnreadableFile
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, payimport.ErrEmptyWorkbook
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, payimport.ErrUnreadableFile
	}

	cell := func(row []string, idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var parsed []payimport.ImportRow
	for _, row := range rows {
		name := cell(row, 2)
		if name == "" {
			continue
		}
		hours := parseCellDecimal(cell(row, 3))
		amount := parseCellDecimal(cell(row, 4))
		if hours.IsZero() && amount.IsZero() {
			// Header or annotation row.
			continue
		}

		parsed = append(parsed, payimport.ImportRow{
			StartDate:    parseCellDate(cell(row, 0)),
			EndDate:      parseCellDate(cell(row, 1)),
			EmployeeName: name,
			Hours:        hours,
			Amount:       amount,
		})
	}

	if len(parsed) == 0 {
		return nil, payimport.ErrNoImportableRow
	}

	return parsed, nil
}

// matchEmployee links a row name to a roster employee: case-insensitive exact
// match first, then substring containment either way, first match wins.
func matchEmployee(name string, roster []employee.Employee) (employee.Employee, payimport.MatchKind) {
	needle := strings.ToLower(strings.TrimSpace(name))

	for _, emp := range roster {
		if strings.ToLower(strings.TrimSpace(emp.Name)) == needle {
			return emp, payimport.MatchExact
		}
	}
	for _, emp := range roster {
		rosterName := strings.ToLower(strings.TrimSpace(emp.Name))
		if strings.Contains(rosterName, needle) || strings.Contains(needle, rosterName) {
			return emp, payimport.MatchFuzzy
		}
	}

	return employee.Employee{}, payimport.MatchNone
}

func (s *ImportServiceImpl) Reconcile(ctx context.Context, req payimport.ReconcileRequest) (payimport.ReconcileResponse, error) {
	if err := req.Validate(); err != nil {
		return payimport.ReconcileResponse{}, err
	}

	businessID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payimport.ReconcileResponse{}, err
	}

	roster, err := s.employeeRepo.ListByBusinessID(ctx, businessID, false)
	if err != nil {
		return payimport.ReconcileResponse{}, err
	}

	resp := payimport.ReconcileResponse{
		BatchID: uuid.NewString(),
	}

	for _, row := range req.Rows {
		result, err := s.reconcileRow(ctx, businessID, row, &roster)
		if err != nil {
			slog.Warn("import row failed",
				"batch_id", resp.BatchID, "employee_name", row.EmployeeName, "error", err)
			resp.Failed++
			continue
		}

		if result.Match != payimport.MatchNone {
			resp.Matched++
		}
		if result.Created {
			resp.Created++
		}
		if result.Match == payimport.MatchFuzzy {
			slog.Info("import row matched by substring",
				"batch_id", resp.BatchID, "row_name", row.EmployeeName, "employee_id", result.EmployeeID)
		}
		resp.Payments++
		resp.Rows = append(resp.Rows, result)
	}

	return resp, nil
}

// reconcileRow provisions the employee when needed and writes the imported
// payment, atomically per row. Provisioned employees are appended to the
// roster so later rows of the same batch match them.
func (s *ImportServiceImpl) reconcileRow(ctx context.Context, businessID string, row payimport.ImportRow, roster *[]employee.Employee) (payimport.RowResult, error) {
	emp, match := matchEmployee(row.EmployeeName, *roster)

	result := payimport.RowResult{
		EmployeeName: row.EmployeeName,
		Match:        match,
	}

	err := withTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if match == payimport.MatchNone {
			provisioned, err := s.provisionEmployee(txCtx, businessID, row)
			if err != nil {
				return err
			}
			emp = provisioned
			result.Created = true
		}

		payment, err := s.createImportedPayment(txCtx, businessID, emp.ID, row)
		if err != nil {
			return err
		}
		result.PaymentID = payment.ID
		return nil
	})
	if err != nil {
		return payimport.RowResult{}, err
	}

	result.EmployeeID = emp.ID
	if result.Created {
		*roster = append(*roster, emp)
	}

	return result, nil
}

func (s *ImportServiceImpl) provisionEmployee(ctx context.Context, businessID string, row payimport.ImportRow) (employee.Employee, error) {
	rate := fallbackHourlyRate
	if row.Hours.IsPositive() && row.Amount.IsPositive() {
		rate = row.Amount.Div(row.Hours).Round(2)
	}

	position := importedNote
	return s.employeeRepo.Create(ctx, employee.Employee{
		BusinessID:         businessID,
		Name:               strings.TrimSpace(row.EmployeeName),
		Position:           &position,
		HourlyRate:         rate,
		Status:             employee.StatusActive,
		OvertimeThreshold:  employee.DefaultOvertimeThreshold,
		OvertimeMultiplier: employee.DefaultOvertimeMultiplier,
		EnableOvertime:     employee.DefaultEnableOvertime,
		SalaryHistory: []employee.SalaryChange{{
			Date:   time.Now().Format("2006-01-02"),
			Rate:   rate,
			Reason: importedNote,
		}},
	})
}

func (s *ImportServiceImpl) createImportedPayment(ctx context.Context, businessID string, employeeID string, row payimport.ImportRow) (payroll.Payment, error) {
	var startDate, endDate *time.Time
	if row.StartDate != nil {
		if t, err := time.Parse("2006-01-02", *row.StartDate); err == nil {
			startDate = &t
		}
	}
	if row.EndDate != nil {
		if t, err := time.Parse("2006-01-02", *row.EndDate); err == nil {
			endDate = &t
		}
	}

	lineDate := time.Now().Format("2006-01-02")
	if row.EndDate != nil {
		lineDate = *row.EndDate
	}

	note := importedNote
	return s.paymentRepo.Create(ctx, payroll.Payment{
		BusinessID: businessID,
		EmployeeID: employeeID,
		Date:       time.Now(),
		Hours:      row.Hours.Round(2),
		Amount:     row.Amount.Round(2),
		NetAmount:  row.Amount.Round(2),
		StartDate:  startDate,
		EndDate:    endDate,
		LogsDetail: []payroll.PaymentLine{{
			Date:  lineDate,
			Hours: row.Hours.Round(2),
			Net:   row.Amount.Round(2),
			Note:  &note,
		}},
		IsImported: true,
	})
}
