package payroll

import (
	"github.com/avantix/ttw-backend-go/internal/domain/business"
	"github.com/avantix/ttw-backend-go/internal/domain/employee"
	"github.com/avantix/ttw-backend-go/internal/domain/timelog"
	"github.com/shopspring/decimal"
)

// Aggregate groups unpaid logs by employee and computes each pending balance.
//
// Per-log money uses the flat hourly rate: gross = hours * rate, the CCSS
// deduction applies when the employee opted in, net = gross - deduction.
// The overtime split (ExtraHours) is derived from the final regular-hours
// total against the cycle-scaled threshold, so the result does not depend on
// the order of the input logs. ExtraHours never feeds the net total.
//
// Logs whose employee is missing from the given set are skipped; a stale log
// must not fail the whole batch. Employees with no unpaid logs do not appear
// in the result.
func Aggregate(logs []timelog.TimeLog, employees []employee.Employee, cycle business.CycleType) map[string]*PendingBalance {
	byID := make(map[string]employee.Employee, len(employees))
	for _, emp := range employees {
		byID[emp.ID] = emp
	}

	pending := make(map[string]*PendingBalance)
	for _, log := range logs {
		emp, ok := byID[log.EmployeeID]
		if !ok {
			continue
		}

		balance, ok := pending[emp.ID]
		if !ok {
			phone := ""
			if emp.Phone != nil {
				phone = *emp.Phone
			}
			balance = &PendingBalance{
				EmployeeID:   emp.ID,
				EmployeeName: emp.Name,
				Phone:        phone,
				StartDate:    log.Date,
				EndDate:      log.Date,
			}
			pending[emp.ID] = balance
		}

		if log.IsDoubleDay {
			balance.DoubleHours = balance.DoubleHours.Add(log.Hours)
		} else {
			balance.RegularHours = balance.RegularHours.Add(log.Hours)
		}

		gross := log.Hours.Mul(emp.HourlyRate)
		deduction := decimal.Zero
		if emp.ApplyCCSS {
			deduction = gross.Mul(CCSSRate)
		}
		net := gross.Sub(deduction)

		balance.Hours = balance.Hours.Add(log.Hours)
		balance.Gross = balance.Gross.Add(gross)
		balance.Deduction = balance.Deduction.Add(deduction)
		balance.Net = balance.Net.Add(net)

		if log.Date.Before(balance.StartDate) {
			balance.StartDate = log.Date
		}
		if log.Date.After(balance.EndDate) {
			balance.EndDate = log.Date
		}

		balance.Lines = append(balance.Lines, LogLine{
			LogID:          log.ID,
			Date:           log.Date,
			TimeIn:         log.TimeIn,
			TimeOut:        log.TimeOut,
			IsDoubleDay:    log.IsDoubleDay,
			DeductionHours: log.DeductionHours,
			Hours:          log.Hours,
			Gross:          gross,
			Deduction:      deduction,
			Net:            net,
		})
	}

	// Overtime split from the final totals, not incrementally.
	for _, balance := range pending {
		emp := byID[balance.EmployeeID]
		if !emp.EnableOvertime {
			continue
		}
		threshold := emp.OvertimeThreshold.Mul(cycle.ThresholdMultiplier())
		if balance.RegularHours.GreaterThan(threshold) {
			balance.ExtraHours = balance.RegularHours.Sub(threshold)
		}
	}

	return pending
}
