package diagnostics

import (
	"sort"

	"hspanel/pkg/contracts/domain"
)

// YearFrequency tabulates per-year coverage of the panel: how many distinct
// products appear, how much export value they report, and how many of them
// are missing PCI or export figures. Duplicate product-year observations
// collapse to the first one seen. Rows come back sorted by year, and sums
// run in sorted product order so the totals are byte-stable across runs.
func YearFrequency(records []domain.TradeRecord) []domain.YearCount {
	seen := make(map[string]bool, len(records))
	byYear := make(map[int][]domain.TradeRecord)

	for _, record := range records {
		key := record.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		byYear[record.Year] = append(byYear[record.Year], record)
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)

	counts := make([]domain.YearCount, 0, len(years))
	for _, year := range years {
		group := byYear[year]
		sort.Slice(group, func(i, j int) bool {
			return group[i].ProductCode < group[j].ProductCode
		})

		count := domain.YearCount{
			Year:         year,
			ProductCount: len(group),
		}

		pciSum := 0.0
		pciN := 0
		for _, record := range group {
			if record.ExportValue.Valid {
				count.TotalExport += record.ExportValue.Value
			} else {
				count.MissingExport++
			}
			if record.PCI.Valid {
				pciSum += record.PCI.Value
				pciN++
			} else {
				count.MissingPCI++
			}
		}
		if pciN > 0 {
			count.MeanPCI = domain.Float(pciSum / float64(pciN))
		}

		counts = append(counts, count)
	}

	return counts
}

// TopByExport ranks the products observed in the given year by export value,
// largest first, and returns at most n of them. Products whose export value
// is missing cannot be ranked and are excluded. Ties on export value break
// toward the smaller product code.
func TopByExport(records []domain.TradeRecord, year, n int) []domain.RankedProduct {
	if n <= 0 {
		return nil
	}

	seen := make(map[string]bool)
	var candidates []domain.TradeRecord
	for _, record := range records {
		if record.Year != year || !record.ExportValue.Valid {
			continue
		}
		if seen[record.ProductCode] {
			continue
		}
		seen[record.ProductCode] = true
		candidates = append(candidates, record)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].ExportValue.Value == candidates[j].ExportValue.Value {
			return candidates[i].ProductCode < candidates[j].ProductCode
		}
		return candidates[i].ExportValue.Value > candidates[j].ExportValue.Value
	})

	if n > len(candidates) {
		n = len(candidates)
	}

	ranked := make([]domain.RankedProduct, 0, n)
	for i := 0; i < n; i++ {
		record := candidates[i]
		ranked = append(ranked, domain.RankedProduct{
			Rank:        i + 1,
			ProductCode: record.ProductCode,
			Label:       record.Label,
			ExportValue: record.ExportValue.Value,
			PCI:         record.PCI,
		})
	}

	return ranked
}
