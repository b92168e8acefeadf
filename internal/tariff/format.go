package tariff

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// en-US display symbols.
var currencySymbols = map[string]string{
	"USD": "$",
	"CAD": "CA$",
	"MXN": "MX$",
	"CNY": "CN¥",
	"JPY": "¥",
	"EUR": "€",
}

var displayPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatAmount renders amount the way an en-US currency formatter would:
// symbol, grouped digits and the currency's standard minor digits.
// FormatAmount(decimal.NewFromInt(1000), "USD") == "$1,000.00".
func FormatAmount(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	scale := 2
	if unit, err := currency.ParseISO(code); err == nil {
		scale, _ = currency.Standard.Rounding(unit)
	}
	rounded := amount.Round(int32(scale))

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	digits := displayPrinter.Sprint(number.Decimal(rounded.InexactFloat64(), number.Scale(scale)))

	symbol, ok := currencySymbols[code]
	if !ok {
		symbol = code + " "
	}
	return sign + symbol + digits
}
