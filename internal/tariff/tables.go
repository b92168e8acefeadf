package tariff

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

var (
	// DefaultDutyPercent applies when an HS code or destination has no entry.
	DefaultDutyPercent = decimal.NewFromInt(10)
	// DefaultVATRate applies to destinations without a VAT entry.
	DefaultVATRate = decimal.RequireFromString("0.20")

	hundred = decimal.NewFromInt(100)
)

// DutyRate is one row of a DutyTable.
type DutyRate struct {
	HSCode      string
	Destination Country
	Percent     decimal.Decimal
}

// DutyTable maps HS code and destination to an ad valorem duty percentage.
// The zero value is an empty table. A DutyTable is never mutated after
// construction.
type DutyTable struct {
	rates map[string]map[Country]decimal.Decimal
}

// NewDutyTable builds a table from rows. Rates must be non-negative; a
// repeated (code, destination) pair keeps the last rate.
func NewDutyTable(rows []DutyRate) (DutyTable, error) {
	rates := make(map[string]map[Country]decimal.Decimal)
	for _, row := range rows {
		if row.HSCode == "" || row.Destination == "" {
			return DutyTable{}, fmt.Errorf("duty rate row has empty key (code %q, destination %q)", row.HSCode, row.Destination)
		}
		if row.Percent.IsNegative() {
			return DutyTable{}, fmt.Errorf("duty rate for %s/%s is negative: %s", row.HSCode, row.Destination, row.Percent)
		}
		byDest, ok := rates[row.HSCode]
		if !ok {
			byDest = make(map[Country]decimal.Decimal)
			rates[row.HSCode] = byDest
		}
		byDest[row.Destination] = row.Percent
	}
	return DutyTable{rates: rates}, nil
}

// Percent returns the duty percentage for code into dest.
func (t DutyTable) Percent(code string, dest Country) (decimal.Decimal, bool) {
	byDest, ok := t.rates[code]
	if !ok {
		return decimal.Decimal{}, false
	}
	rate, ok := byDest[dest]
	return rate, ok
}

// Rows lists the table sorted by code then destination.
func (t DutyTable) Rows() []DutyRate {
	var out []DutyRate
	for code, byDest := range t.rates {
		for dest, pct := range byDest {
			out = append(out, DutyRate{HSCode: code, Destination: dest, Percent: pct})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HSCode != out[j].HSCode {
			return out[i].HSCode < out[j].HSCode
		}
		return out[i].Destination < out[j].Destination
	})
	return out
}

// Len reports the number of HS codes in the table.
func (t DutyTable) Len() int { return len(t.rates) }

// VATTable maps a destination to a tax rate expressed as a fraction.
type VATTable struct {
	rates map[Country]decimal.Decimal
}

// NewVATTable copies rates into an immutable table. Every rate must lie in
// [0, 1].
func NewVATTable(rates map[Country]decimal.Decimal) (VATTable, error) {
	copied := make(map[Country]decimal.Decimal, len(rates))
	for dest, rate := range rates {
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
			return VATTable{}, fmt.Errorf("vat rate for %s out of range: %s", dest, rate)
		}
		copied[dest] = rate
	}
	return VATTable{rates: copied}, nil
}

// Rate returns the VAT fraction for dest.
func (t VATTable) Rate(dest Country) (decimal.Decimal, bool) {
	rate, ok := t.rates[dest]
	return rate, ok
}

// Rates returns a copy of the table contents.
func (t VATTable) Rates() map[Country]decimal.Decimal {
	out := make(map[Country]decimal.Decimal, len(t.rates))
	for k, v := range t.rates {
		out[k] = v
	}
	return out
}

// Tables bundles the lookups an Estimator resolves rates from.
type Tables struct {
	Duty DutyTable
	VAT  VATTable
}

// dutyRate resolves the percentage for code into dest, defaulting to 10%.
func (t Tables) dutyRate(code string, dest Country) decimal.Decimal {
	if pct, ok := t.Duty.Percent(code, dest); ok {
		return pct
	}
	return DefaultDutyPercent
}

// vatRate resolves the VAT fraction for dest, defaulting to 20%.
func (t Tables) vatRate(dest Country) decimal.Decimal {
	if rate, ok := t.VAT.Rate(dest); ok {
		return rate
	}
	return DefaultVATRate
}
