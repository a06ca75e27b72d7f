package service

import "github.com/shopspring/decimal"

// Column limits of the Postgres schema: NUMERIC(10,2) for money and
// NUMERIC(10,4) for rates.
const (
	moneyIntDigits = 8
	rateIntDigits  = 6
	maxFracDigits  = 12

	maxAmountText = "99999999.99"
	maxRateText   = "999999.9999"
)

// checkAmount records a problem when v is negative or does not fit a money column.
func checkAmount(ve *ValidationError, field string, v decimal.Decimal) {
	checkBounded(ve, field, v, moneyIntDigits, maxAmountText)
}

func checkAmountPtr(ve *ValidationError, field string, v *decimal.Decimal) {
	if v != nil {
		checkAmount(ve, field, *v)
	}
}

func checkRatePtr(ve *ValidationError, field string, v *decimal.Decimal) {
	if v != nil {
		checkBounded(ve, field, *v, rateIntDigits, maxRateText)
	}
}

// checkBounded inspects digits and exponent only, so an input like 1e2000000
// is rejected without expanding it.
func checkBounded(ve *ValidationError, field string, v decimal.Decimal, intDigits int, max string) {
	if v.IsNegative() {
		ve.Add(field, "must not be negative")
		return
	}
	if v.IsZero() {
		return
	}
	if int64(v.NumDigits())+int64(v.Exponent()) > int64(intDigits) {
		ve.Add(field, "must not exceed "+max)
		return
	}
	if -int64(v.Exponent()) > maxFracDigits {
		ve.Add(field, "has too many decimal places")
	}
}
