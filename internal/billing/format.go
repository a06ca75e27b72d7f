package billing

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders an amount with thousands separators and two decimals,
// e.g. "₹3,850.00".
func FormatAmount(symbol string, d decimal.Decimal) string {
	f, _ := Money(d).Float64()
	return printer.Sprintf("%s%.2f", symbol, f)
}
