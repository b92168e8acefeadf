package tariff

import "strings"

// Country is a trade region code as selected in the calculator form.
type Country string

const (
	US Country = "US"
	CA Country = "CA"
	MX Country = "MX"
	EU Country = "EU"
	CN Country = "CN"
	JP Country = "JP"
)

// CountryOption pairs a code with its display name for form selects.
type CountryOption struct {
	Code Country
	Name string
}

var countryOptions = []CountryOption{
	{Code: US, Name: "United States"},
	{Code: CA, Name: "Canada"},
	{Code: MX, Name: "Mexico"},
	{Code: EU, Name: "European Union"},
	{Code: CN, Name: "China"},
	{Code: JP, Name: "Japan"},
}

// Countries returns the selectable regions in display order.
func Countries() []CountryOption {
	out := make([]CountryOption, len(countryOptions))
	copy(out, countryOptions)
	return out
}

// NormalizeCountry trims and upper-cases a submitted country code.
func NormalizeCountry(raw string) Country {
	return Country(strings.ToUpper(strings.TrimSpace(raw)))
}

// Name returns the display name, or the raw code for unknown regions.
func (c Country) Name() string {
	for _, opt := range countryOptions {
		if opt.Code == c {
			return opt.Name
		}
	}
	return string(c)
}

var currencyByCountry = map[Country]string{
	US: "USD",
	CA: "CAD",
	MX: "MXN",
	CN: "CNY",
	JP: "JPY",
	EU: "EUR",
}

const defaultCurrency = "EUR"

// CurrencyFor maps a destination to the currency quotes are expressed in.
// Unmapped destinations fall back to EUR.
func CurrencyFor(dest Country) string {
	if code, ok := currencyByCountry[dest]; ok {
		return code
	}
	return defaultCurrency
}
