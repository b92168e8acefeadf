package tariff

import "strings"

// HSCode is a Harmonized System classification with a product description.
type HSCode struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Catalog is a read-only list of known HS codes used for product search.
type Catalog struct {
	entries []HSCode
}

// NewCatalog copies entries into a catalog, keeping their order.
func NewCatalog(entries []HSCode) *Catalog {
	c := &Catalog{entries: make([]HSCode, len(entries))}
	copy(c.entries, entries)
	return c
}

// Entries returns a copy of every catalog entry.
func (c *Catalog) Entries() []HSCode {
	out := make([]HSCode, len(c.entries))
	copy(out, c.entries)
	return out
}

// Lookup finds the entry for an exact code.
func (c *Catalog) Lookup(code string) (HSCode, bool) {
	code = strings.TrimSpace(code)
	for _, e := range c.entries {
		if e.Code == code {
			return e, true
		}
	}
	return HSCode{}, false
}

// Search matches term against descriptions (case-insensitive) and codes
// (substring). A blank term matches nothing.
func (c *Catalog) Search(term string) []HSCode {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	lower := strings.ToLower(term)
	var out []HSCode
	for _, e := range c.entries {
		if strings.Contains(strings.ToLower(e.Description), lower) || strings.Contains(e.Code, term) {
			out = append(out, e)
		}
	}
	return out
}
