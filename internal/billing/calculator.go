// Package billing derives a flat's monthly charges from metered water usage
// and configured fixed charges.
package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// WarningMeterRollback is reported when the current reading is below the
// previous one. Usage is clamped to zero in that case.
const WarningMeterRollback = "meter_rollback"

const monthLayout = "2006-01"

// DefaultRatePerLiter is the water rate applied when none is configured.
var DefaultRatePerLiter = decimal.RequireFromString("0.05")

var ErrInvalidMonth = errors.New("month must be in YYYY-MM format")

type Calculator struct {
	RatePerLiter decimal.Decimal
}

type Result struct {
	Usage       int64
	WaterCharge decimal.Decimal
	Total       decimal.Decimal
	Warnings    []string
}

// NewCalculator returns a Calculator, using DefaultRatePerLiter for a zero rate.
func NewCalculator(rate decimal.Decimal) Calculator {
	if rate.IsZero() {
		rate = DefaultRatePerLiter
	}
	return Calculator{RatePerLiter: rate}
}

// Compute applies usage = max(0, current-previous), water = usage*rate and
// total = water + sum(fixed).
func (c Calculator) Compute(previous, current int64, fixed []decimal.Decimal) Result {
	var res Result
	usage := current - previous
	if usage < 0 {
		usage = 0
		res.Warnings = append(res.Warnings, WarningMeterRollback)
	}
	res.Usage = usage
	res.WaterCharge = Money(decimal.NewFromInt(usage).Mul(c.RatePerLiter))
	res.Total = Money(res.WaterCharge.Add(Sum(fixed...)))
	return res
}

// Money truncates an amount to two decimal places.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(2)
}

func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// BillTotal adds every charge component of a bill, including carried-over dues
// and the values of configurable billing items.
func BillTotal(water, maintenance, electricity, other, previousDues decimal.Decimal, items ...decimal.Decimal) decimal.Decimal {
	return Money(Sum(water, maintenance, electricity, other, previousDues).Add(Sum(items...)))
}

// ParseMonth validates a YYYY-MM month string.
func ParseMonth(month string) (time.Time, error) {
	t, err := time.Parse(monthLayout, month)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMonth, month)
	}
	return t, nil
}

// CurrentMonth formats t as YYYY-MM.
func CurrentMonth(t time.Time) string {
	return t.Format(monthLayout)
}

// DueDate is the given day of the month following the bill month.
func DueDate(month string, day int) (time.Time, error) {
	start, err := ParseMonth(month)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(start.Year(), start.Month()+1, day, 0, 0, 0, 0, time.UTC), nil
}
