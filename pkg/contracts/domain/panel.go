package domain

import (
	"fmt"
	"strings"
)

// TradeRecord represents one product-year observation from the HS92 trade
// panel. The natural key (ProductCode, Year) is not guaranteed unique in the
// raw file; the loader collapses duplicates to the first occurrence per key.
type TradeRecord struct {
	ProductCode string    `json:"product_code" csv:"ProductCode" validate:"required"`
	Year        int       `json:"year" csv:"Year" validate:"required,min=1900,max=2100"`
	ExportValue NullFloat `json:"export_value" csv:"ExportValue"`
	ImportValue NullFloat `json:"import_value" csv:"ImportValue"`
	PCI         NullFloat `json:"pci" csv:"PCI"`

	// Label is attached by the dictionary join and stays empty when the code
	// has no dictionary entry. Empty labels are surfaced in the coverage
	// audit, never treated as an error.
	Label string `json:"label,omitempty" csv:"Label,omitempty"`
}

// Key returns the natural key used for first-occurrence deduplication.
func (r TradeRecord) Key() string {
	return fmt.Sprintf("%s|%d", r.ProductCode, r.Year)
}

// DictionaryEntry represents one code→label pair from the HS dictionary.
// Entries are deduplicated by Code, first occurrence wins.
type DictionaryEntry struct {
	Code  string `json:"code" validate:"required"`
	Label string `json:"label"`
}

// NormalizeCode trims a product code and left-pads it with zeros to the given
// width. Leading zeros are significant in HS codes ("0101" is horses, "101"
// is nothing), and upstream spreadsheet round-trips routinely strip them.
func NormalizeCode(code string, width int) string {
	c := strings.TrimSpace(code)
	if c == "" {
		return c
	}
	for len(c) < width {
		c = "0" + c
	}
	return c
}

// Product4 returns the 4-digit parent of a fine-grained HS code, which is the
// grouping key for crosswalk renormalization. Codes shorter than 4 digits are
// returned unchanged; loaders reject them before they reach this point.
func Product4(fineCode string) string {
	if len(fineCode) <= 4 {
		return fineCode
	}
	return fineCode[:4]
}
