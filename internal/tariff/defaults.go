package tariff

import "github.com/shopspring/decimal"

// Sample rates shipped with the calculator. They are illustrative, not a
// live customs feed.
var defaultDutyPercents = []struct {
	code  string
	rates [6]string // US, CA, MX, EU, CN, JP
}{
	{"8471.30.01", [6]string{"0", "0", "0", "0", "0", "0"}},
	{"8517.12.00", [6]string{"0", "0", "0", "0", "0", "0"}},
	{"6203.42.11", [6]string{"12.5", "18", "20", "12", "16", "8.9"}},
	{"8703.23.00", [6]string{"2.5", "6.1", "20", "10", "25", "0"}},
	{"0901.21.00", [6]string{"0", "0", "0", "7.5", "15", "12"}},
	{"3004.90.00", [6]string{"0", "0", "0", "0", "5", "0"}},
	{"3926.90.99", [6]string{"5.3", "6.5", "15", "6.5", "10", "4.2"}},
	{"7308.90.00", [6]string{"0", "0", "0", "0", "8", "0"}},
	{"1905.90.00", [6]string{"0", "0", "0", "0", "15", "10"}},
	{"6204.62.11", [6]string{"12.5", "18", "20", "12", "16", "8.9"}},
	{"9102.21.00", [6]string{"0", "0", "0", "4.5", "11", "5"}},
	{"6403.99.90", [6]string{"8.5", "20", "20", "8", "24", "6.5"}},
}

var defaultDutyColumns = [6]Country{US, CA, MX, EU, CN, JP}

var defaultVATRates = map[Country]string{
	US: "0",    // no federal VAT
	CA: "0.05", // GST
	MX: "0.16", // IVA
	EU: "0.20", // average EU VAT
	CN: "0.13",
	JP: "0.10", // consumption tax
}

var defaultCatalog = []HSCode{
	{Code: "8471.30.01", Description: "Computers"},
	{Code: "8517.12.00", Description: "Phones"},
	{Code: "6203.42.11", Description: "Men's trousers"},
	{Code: "8703.23.00", Description: "Cars"},
	{Code: "0901.21.00", Description: "Coffee beans and roasted coffee"},
	{Code: "3004.90.00", Description: "Medicaments"},
	{Code: "3926.90.99", Description: "Plastic articles and containers"},
	{Code: "7308.90.00", Description: "Iron and steel structures"},
	{Code: "1905.90.00", Description: "Bread, pastries, and cakes"},
	{Code: "6204.62.11", Description: "Women's trousers"},
	{Code: "9102.21.00", Description: "Wrist watches"},
	{Code: "6403.99.90", Description: "Footwear"},
}

// DefaultTables returns the built-in duty and VAT tables.
func DefaultTables() Tables {
	var rows []DutyRate
	for _, entry := range defaultDutyPercents {
		for i, dest := range defaultDutyColumns {
			rows = append(rows, DutyRate{
				HSCode:      entry.code,
				Destination: dest,
				Percent:     decimal.RequireFromString(entry.rates[i]),
			})
		}
	}
	duty, err := NewDutyTable(rows)
	if err != nil {
		panic(err)
	}

	vatRates := make(map[Country]decimal.Decimal, len(defaultVATRates))
	for dest, rate := range defaultVATRates {
		vatRates[dest] = decimal.RequireFromString(rate)
	}
	vat, err := NewVATTable(vatRates)
	if err != nil {
		panic(err)
	}
	return Tables{Duty: duty, VAT: vat}
}

// DefaultCatalog returns the built-in HS code catalog.
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultCatalog)
}
