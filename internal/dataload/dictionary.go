package dataload

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"strings"

	"hspanel/internal/config"
	"hspanel/internal/errors"
	"hspanel/pkg/contracts/domain"
)

// dictionaryObject covers the array-of-objects dictionary shape. Different
// vintages of the file name the label field differently; the first non-empty
// one wins.
type dictionaryObject struct {
	Code        string `json:"code"`
	HS4         string `json:"hs4"`
	Label       string `json:"label"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (o dictionaryObject) code() string {
	if o.Code != "" {
		return o.Code
	}
	return o.HS4
}

func (o dictionaryObject) label() string {
	for _, s := range []string{o.Label, o.Name, o.Title, o.Description} {
		if strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// LoadDictionary reads the HS code→label dictionary from a JSON file.
//
// Both published shapes are accepted: a flat object mapping code to label,
// and an array of {code, label} objects (with name/title/description as
// known label-key drift). Entries are deduplicated by code, first occurrence
// wins, and returned sorted by code.
func (l *Loader) LoadDictionary(ctx context.Context, path string) ([]domain.DictionaryEntry, error) {
	file, err := l.openInput("dictionary", path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.NewParsingError("failed to read dictionary", err).WithContext("path", path)
	}

	entries, err := parseDictionary(data)
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "Loaded HS dictionary",
		"path", path,
		"entries", len(entries))

	return entries, nil
}

func parseDictionary(data []byte) ([]domain.DictionaryEntry, error) {
	// Map shape first: {"0101": "Horses", ...}
	var asMap map[string]string
	if err := json.Unmarshal(data, &asMap); err == nil {
		// Distinct raw keys can normalize to the same code ("101" and
		// "0101"). Iterating raw keys in sorted order keeps the winner
		// deterministic.
		rawCodes := make([]string, 0, len(asMap))
		for code := range asMap {
			rawCodes = append(rawCodes, code)
		}
		sort.Strings(rawCodes)

		seen := make(map[string]bool, len(rawCodes))
		entries := make([]domain.DictionaryEntry, 0, len(rawCodes))
		for _, raw := range rawCodes {
			code := domain.NormalizeCode(raw, config.CoarseCodeWidth)
			if code == "" || seen[code] {
				continue
			}
			seen[code] = true
			entries = append(entries, domain.DictionaryEntry{Code: code, Label: strings.TrimSpace(asMap[raw])})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Code < entries[j].Code })
		return entries, nil
	}

	// Array shape: [{"code": "0101", "label": "Horses"}, ...]
	var asArray []dictionaryObject
	if err := json.Unmarshal(data, &asArray); err != nil {
		return nil, errors.NewParsingError("dictionary is neither a code→label object nor an entry array", err)
	}

	seen := make(map[string]bool)
	var entries []domain.DictionaryEntry
	for _, obj := range asArray {
		code := domain.NormalizeCode(obj.code(), config.CoarseCodeWidth)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		entries = append(entries, domain.DictionaryEntry{Code: code, Label: obj.label()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Code < entries[j].Code })
	return entries, nil
}

// DictionaryMap indexes entries by code for join lookups.
func DictionaryMap(entries []domain.DictionaryEntry) map[string]string {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		if _, ok := m[e.Code]; !ok {
			m[e.Code] = e.Label
		}
	}
	return m
}
