package timelog

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const clockLayout = "15:04"

var (
	minutesPerDay  = decimal.NewFromInt(24 * 60)
	minutesPerHour = decimal.NewFromInt(60)
)

// ComputeHours derives the payable hours for one log entry.
//
// A missing time-in or time-out yields zero hours: the log exists only as a
// clock event. Only wall-clock time matters; when the span comes out negative
// the shift ran past midnight and 24 hours are added. Deduction hours are
// subtracted before doubling and the result never goes below zero. Double-day
// doubles the payable hours; it is independent of the overtime multiplier.
//
// The result keeps full precision. Rounding to two decimals happens only at
// the persistence boundary.
func ComputeHours(timeIn, timeOut *string, deductionHours decimal.Decimal, isDoubleDay bool) (decimal.Decimal, error) {
	if timeIn == nil || *timeIn == "" || timeOut == nil || *timeOut == "" {
		return decimal.Zero, nil
	}

	start, err := time.Parse(clockLayout, *timeIn)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid time_in %q: %w", *timeIn, err)
	}
	end, err := time.Parse(clockLayout, *timeOut)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid time_out %q: %w", *timeOut, err)
	}

	spanMinutes := decimal.NewFromInt(int64(end.Sub(start) / time.Minute))
	if spanMinutes.IsNegative() {
		spanMinutes = spanMinutes.Add(minutesPerDay)
	}

	hours := spanMinutes.Div(minutesPerHour).Sub(deductionHours)
	if hours.IsNegative() {
		hours = decimal.Zero
	}
	if isDoubleDay {
		hours = hours.Mul(decimal.NewFromInt(2))
	}

	return hours, nil
}
