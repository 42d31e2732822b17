package allocation

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"strings"

	"hspanel/pkg/contracts/domain"
)

// DefaultShareTolerance bounds how far a product's renormalized shares may
// drift from summing to exactly 1.
const DefaultShareTolerance = 1e-9

// Allocator orchestrates crosswalk allocation: template construction and
// per-year export splitting with industry roll-ups.
type Allocator struct {
	logger         *slog.Logger
	shareTolerance float64
	workers        int
}

// AllocatorConfig holds configuration options for the Allocator.
type AllocatorConfig struct {
	ShareTolerance float64 // Allowed deviation of per-product share sums from one
	Workers        int     // Concurrent years during AllocateAll
}

// DefaultAllocatorConfig returns the standard allocator configuration.
func DefaultAllocatorConfig() AllocatorConfig {
	return AllocatorConfig{
		ShareTolerance: DefaultShareTolerance,
		Workers:        runtime.NumCPU(),
	}
}

// NewAllocator creates a new crosswalk allocator with the specified
// configuration.
func NewAllocator(logger *slog.Logger, config AllocatorConfig) *Allocator {
	if logger == nil {
		logger = slog.Default()
	}
	if config.ShareTolerance <= 0 {
		config.ShareTolerance = DefaultShareTolerance
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}

	return &Allocator{
		logger:         logger,
		shareTolerance: config.ShareTolerance,
		workers:        config.Workers,
	}
}

// YearAllocation bundles everything one panel year produced: the industry
// aggregates, the underlying allocation rows, and the coverage gaps observed
// along the way.
type YearAllocation struct {
	Year       int
	Aggregates []domain.IndustryAggregate
	Rows       []domain.AllocationRow
	Unmapped   []domain.UnmappedProduct
	Untitled   []domain.UntitledIndustry
}

// AllocateYear runs the allocation for a single panel year. It slices the
// records to the year, joins each product against the template, splits export
// values along the template shares, and rolls the rows up per industry.
//
// Products absent from the template land in the Unmapped audit instead of
// failing the year. A missing export value allocates as zero while the
// record still joins, so its PCI never leaks into the weighted ratio with a
// fabricated weight. Industries whose total allocated export is zero are
// omitted from the aggregates.
func (a *Allocator) AllocateYear(ctx context.Context, year int, records []domain.TradeRecord, template domain.AllocationTemplate, titles map[string]string) (YearAllocation, error) {
	select {
	case <-ctx.Done():
		return YearAllocation{}, ctx.Err()
	default:
	}

	result := YearAllocation{Year: year}

	// Slice to the year and collapse duplicate products, first record wins
	yearRecords := make(map[string]domain.TradeRecord)
	products := make([]string, 0)
	for _, record := range records {
		if record.Year != year {
			continue
		}
		code := strings.TrimSpace(record.ProductCode)
		if code == "" {
			continue
		}
		if _, seen := yearRecords[code]; seen {
			continue
		}
		yearRecords[code] = record
		products = append(products, code)
	}
	sort.Strings(products)

	// Join against the template in sorted product order so the float sums
	// downstream never depend on map iteration order
	labels := make(map[string]string, len(products))
	byIndustry := make(map[string][]domain.AllocationRow)
	industries := make([]string, 0)
	for _, product := range products {
		record := yearRecords[product]
		entries, ok := template.Entries(product)
		if !ok {
			result.Unmapped = append(result.Unmapped, domain.UnmappedProduct{
				Year:        year,
				Product4:    product,
				ExportValue: record.ExportValue,
			})
			continue
		}

		labels[product] = record.Label
		export := record.ExportValue.Or(0)

		for _, entry := range entries {
			row := domain.AllocationRow{
				Year:            year,
				Product4:        product,
				Industry4:       entry.Industry4,
				Share4:          entry.Share4,
				ExportValue:     export,
				PCI:             record.PCI,
				AllocatedExport: export * entry.Share4,
			}
			result.Rows = append(result.Rows, row)

			if _, seen := byIndustry[entry.Industry4]; !seen {
				industries = append(industries, entry.Industry4)
			}
			byIndustry[entry.Industry4] = append(byIndustry[entry.Industry4], row)
		}
	}
	sort.Strings(industries)

	// Roll the rows up per industry
	for _, industry := range industries {
		aggregate, ok := a.aggregateIndustry(year, industry, byIndustry[industry], labels, titles)
		if !ok {
			continue
		}

		if aggregate.Title == "" {
			result.Untitled = append(result.Untitled, domain.UntitledIndustry{
				Year:      year,
				Industry4: industry,
			})
		}
		result.Aggregates = append(result.Aggregates, aggregate)
	}

	a.logger.InfoContext(ctx, "allocated panel year",
		"year", year,
		"products", len(products),
		"unmapped", len(result.Unmapped),
		"rows", len(result.Rows),
		"industries", len(result.Aggregates),
		"untitled", len(result.Untitled),
	)

	return result, nil
}

// aggregateIndustry rolls one industry's allocation rows up into an
// aggregate. The second return is false when the industry's total allocated
// export is zero, which callers treat as "do not emit".
func (a *Allocator) aggregateIndustry(year int, industry string, rows []domain.AllocationRow, labels, titles map[string]string) (domain.IndustryAggregate, bool) {
	total := 0.0
	pciNumerator := 0.0
	pciDenominator := 0.0
	productSet := make(map[string]bool, len(rows))

	representative := ""
	representativeExport := 0.0

	// Rows arrive in sorted product order; strict comparison keeps the
	// smallest product code on ties
	for _, row := range rows {
		total += row.AllocatedExport
		productSet[row.Product4] = true

		if row.PCI.Valid {
			pciNumerator += row.PCI.Value * row.AllocatedExport
			pciDenominator += row.AllocatedExport
		}

		if row.AllocatedExport > representativeExport {
			representative = row.Product4
			representativeExport = row.AllocatedExport
		}
	}

	if total <= 0 {
		return domain.IndustryAggregate{}, false
	}

	aggregate := domain.IndustryAggregate{
		Year:                  year,
		Industry4:             industry,
		Title:                 titles[industry],
		TotalAllocatedExport:  total,
		ProductCount:          len(productSet),
		RepresentativeProduct: representative,
		RepresentativeLabel:   labels[representative],
	}
	if pciDenominator > 0 {
		aggregate.WeightedPCI = domain.Float(pciNumerator / pciDenominator)
	}

	return aggregate, true
}
