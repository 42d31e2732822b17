package dataload

import (
	"sort"

	"hspanel/pkg/contracts/domain"
)

// AttachLabels joins dictionary labels onto panel records by product code.
// Records whose code has no dictionary entry keep an empty label and are
// reported as UnlabeledProduct audit rows with the years they appear in,
// sorted by product code. The join never drops a record.
func AttachLabels(records []domain.TradeRecord, entries []domain.DictionaryEntry) ([]domain.TradeRecord, []domain.UnlabeledProduct) {
	labels := DictionaryMap(entries)

	labeled := make([]domain.TradeRecord, len(records))
	unlabeledYears := make(map[string][]int)

	for i, r := range records {
		r.Label = labels[r.ProductCode]
		if r.Label == "" {
			unlabeledYears[r.ProductCode] = append(unlabeledYears[r.ProductCode], r.Year)
		}
		labeled[i] = r
	}

	unlabeled := make([]domain.UnlabeledProduct, 0, len(unlabeledYears))
	for code, years := range unlabeledYears {
		sort.Ints(years)
		unlabeled = append(unlabeled, domain.UnlabeledProduct{ProductCode: code, Years: years})
	}
	sort.Slice(unlabeled, func(i, j int) bool { return unlabeled[i].ProductCode < unlabeled[j].ProductCode })

	return labeled, unlabeled
}

// MissingFromYear reports dictionary codes with no panel record in the given
// year, sorted by code. Labels ride along so the audit table reads on its
// own.
func MissingFromYear(entries []domain.DictionaryEntry, records []domain.TradeRecord, year int) []domain.MissingDictionaryCode {
	present := make(map[string]bool)
	for _, r := range records {
		if r.Year == year {
			present[r.ProductCode] = true
		}
	}

	var missing []domain.MissingDictionaryCode
	for _, e := range entries {
		if !present[e.Code] {
			missing = append(missing, domain.MissingDictionaryCode{Code: e.Code, Label: e.Label})
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i].Code < missing[j].Code })
	return missing
}
