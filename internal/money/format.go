package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Format renders an amount with two decimals and thousands grouping,
// e.g. 1234.5 -> "1,234.50".
func Format(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return printer.Sprintf("%.2f", f)
}

// FormatPercent renders a percentage value without trailing zeros,
// e.g. 8 -> "8%", 7.5 -> "7.5%".
func FormatPercent(d decimal.Decimal) string {
	return d.String() + "%"
}
