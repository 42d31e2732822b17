package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NullFloat represents the Single Source of Truth (SSOT) for nullable numeric
// values across the entire HS panel pipeline. Export values, import values,
// PCI scores and derived dispersion statistics are all "real or missing", and
// missing must never collapse to zero: a product with export_value=0 traded
// nothing, while a product with a missing export_value was not measured.
// Every loader, calculator and exporter must carry numerics as NullFloat so
// that distinction survives end to end.
//
// Design Principles:
// - Missing is a first-class state, never conflated with 0
// - JSON serializes missing as null, present as a plain number
// - CSV serializes missing as the empty string
// - Arithmetic helpers fail soft: callers branch on Valid, never on sentinel values
//
// Usage:
//
//	pci := domain.Float(1.234)          // present
//	export := domain.MissingFloat()     // missing
//	if pci.Valid {
//	    total += pci.Value
//	}
type NullFloat struct {
	// Value holds the numeric payload. Meaningful only when Valid is true.
	Value float64

	// Valid reports whether Value carries a real observation.
	// false means the source field was empty, "NA", "NaN", "null", "." or
	// otherwise unparseable.
	Valid bool
}

// Float returns a present NullFloat wrapping v.
func Float(v float64) NullFloat {
	return NullFloat{Value: v, Valid: true}
}

// MissingFloat returns the missing value.
func MissingFloat() NullFloat {
	return NullFloat{}
}

// ParseNullFloat coerces a raw table cell into a NullFloat. Empty strings and
// the conventional missing markers ("NA", "N/A", "NaN", "null", "NULL", ".")
// become missing, as does any string strconv cannot parse. This is the single
// coercion point for every numeric column in every input table.
func ParseNullFloat(raw string) NullFloat {
	s := strings.TrimSpace(raw)
	if s == "" {
		return NullFloat{}
	}
	switch strings.ToLower(s) {
	case "na", "n/a", "nan", "null", ".":
		return NullFloat{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return NullFloat{}
	}
	return NullFloat{Value: v, Valid: true}
}

// Or returns Value when present, otherwise the fallback.
func (n NullFloat) Or(fallback float64) float64 {
	if n.Valid {
		return n.Value
	}
	return fallback
}

// Positive reports whether the value is present and strictly greater than zero.
func (n NullFloat) Positive() bool {
	return n.Valid && n.Value > 0
}

// String renders the value for logs and text reports. Missing renders as "NA".
func (n NullFloat) String() string {
	if !n.Valid {
		return "NA"
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// CSV renders the value for CSV cells with the given precision.
// Missing renders as the empty string so spreadsheet tools read a blank cell.
func (n NullFloat) CSV(precision int) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', precision, 64)
}

// MarshalJSON implements json.Marshaler. Missing marshals as null.
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON implements json.Unmarshaler. null and JSON strings holding
// missing markers unmarshal as missing; numbers and numeric strings as present.
func (n *NullFloat) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(trimmed, &v); err == nil {
		*n = NullFloat{Value: v, Valid: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		*n = ParseNullFloat(s)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into NullFloat", string(data))
}
