package allocation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"hspanel/pkg/contracts/domain"
)

// AllocateAll fans the panel's years out across workers and allocates each
// one against the shared template. Years are independent, so they run
// concurrently; results slot back by index and come out ordered by year
// regardless of completion order. The first failing year cancels the rest.
func (a *Allocator) AllocateAll(ctx context.Context, records []domain.TradeRecord, template domain.AllocationTemplate, titles map[string]string) ([]YearAllocation, error) {
	start := time.Now()

	years := distinctYears(records)
	if len(years) == 0 {
		return []YearAllocation{}, nil
	}

	a.logger.InfoContext(ctx, "starting allocation across years",
		"years", len(years),
		"first_year", years[0],
		"last_year", years[len(years)-1],
		"workers", a.workers,
	)

	results := make([]YearAllocation, len(years))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, year := range years {
		g.Go(func() error {
			allocation, err := a.AllocateYear(gctx, year, records, template, titles)
			if err != nil {
				return fmt.Errorf("allocate year %d: %w", year, err)
			}
			results[i] = allocation
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.logger.InfoContext(ctx, "allocation completed",
		"years", len(years),
		"duration", time.Since(start),
	)

	return results, nil
}

// AllocateFocalYear allocates a single year when the pipeline is scoped to
// one, keeping the same result shape as AllocateAll.
func (a *Allocator) AllocateFocalYear(ctx context.Context, year int, records []domain.TradeRecord, template domain.AllocationTemplate, titles map[string]string) ([]YearAllocation, error) {
	allocation, err := a.AllocateYear(ctx, year, records, template, titles)
	if err != nil {
		return nil, fmt.Errorf("allocate year %d: %w", year, err)
	}
	return []YearAllocation{allocation}, nil
}

// CollectAggregates flattens per-year results into one aggregate slice
// ordered by year then industry.
func CollectAggregates(results []YearAllocation) []domain.IndustryAggregate {
	var aggregates []domain.IndustryAggregate
	for _, result := range results {
		aggregates = append(aggregates, result.Aggregates...)
	}
	sort.Slice(aggregates, func(i, j int) bool {
		if aggregates[i].Year == aggregates[j].Year {
			return aggregates[i].Industry4 < aggregates[j].Industry4
		}
		return aggregates[i].Year < aggregates[j].Year
	})
	return aggregates
}

// CollectUnmapped flattens per-year unmapped audits ordered by year then
// product.
func CollectUnmapped(results []YearAllocation) []domain.UnmappedProduct {
	var unmapped []domain.UnmappedProduct
	for _, result := range results {
		unmapped = append(unmapped, result.Unmapped...)
	}
	sort.Slice(unmapped, func(i, j int) bool {
		if unmapped[i].Year == unmapped[j].Year {
			return unmapped[i].Product4 < unmapped[j].Product4
		}
		return unmapped[i].Year < unmapped[j].Year
	})
	return unmapped
}

// CollectUntitled flattens per-year untitled-industry audits ordered by year
// then industry.
func CollectUntitled(results []YearAllocation) []domain.UntitledIndustry {
	var untitled []domain.UntitledIndustry
	for _, result := range results {
		untitled = append(untitled, result.Untitled...)
	}
	sort.Slice(untitled, func(i, j int) bool {
		if untitled[i].Year == untitled[j].Year {
			return untitled[i].Industry4 < untitled[j].Industry4
		}
		return untitled[i].Year < untitled[j].Year
	})
	return untitled
}

// distinctYears returns the sorted distinct years present in the records.
func distinctYears(records []domain.TradeRecord) []int {
	seen := make(map[int]bool)
	var years []int
	for _, record := range records {
		if record.Year == 0 || seen[record.Year] {
			continue
		}
		seen[record.Year] = true
		years = append(years, record.Year)
	}
	sort.Ints(years)
	return years
}
