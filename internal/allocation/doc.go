// Package allocation implements the crosswalk allocation engine: it spreads
// each product's yearly export value across 4-digit industries and rolls the
// results up into export-weighted industry complexity aggregates.
//
// # Core Components
//
// The allocation runs in two phases:
//
//  1. Template build: the 6-digit-to-industry crosswalk collapses to the
//     4-digit product level and renormalizes, exactly once per run.
//  2. Per-year allocation: each panel year joins against the shared template,
//     allocated exports multiply out, and industry aggregates emerge.
//
// # Architecture
//
//   - allocator.go: Allocator type and the single-year allocation
//   - template.go: crosswalk renormalization into the shared template
//   - parallel.go: concurrent fan-out of independent years
//   - persist.go: CSV/JSON/summary-report persistence
//
// # Usage Example
//
//	allocator := NewAllocator(slog.Default(), DefaultAllocatorConfig())
//
//	template, err := allocator.BuildTemplate(ctx, edges)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	results, err := allocator.AllocateAll(ctx, records, template, titles)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = SaveAggregatesCSV(CollectAggregates(results), "reports/industry_aggregates.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Mathematical Foundation
//
// Template shares renormalize raw crosswalk weights within each 4-digit
// product:
//
//	share4(p, i) = Σ weights(p→i) / Σ weights(p→*)
//
// Products whose raw weights sum to zero drop out of the template entirely.
// For every surviving product the shares sum to 1 within a small tolerance.
//
// Per year, each joined product splits its export value along its template
// shares, and each industry aggregates its incoming rows:
//
//	allocated(y, p, i) = export(y, p) × share4(p, i)
//	weighted_pci(y, i) = Σ pci(y, p) × allocated(y, p, i) / Σ allocated(y, p, i)
//
// The weighted PCI sums run over contributing products with a present PCI
// only; a missing PCI never enters either side of the division. Industries
// whose total allocated export is zero are omitted rather than emitted with
// undefined ratios, so no output ever carries NaN or Inf.
//
// # Determinism
//
// Identical inputs produce byte-identical outputs. All map iteration for
// arithmetic goes through sorted key slices, so floating-point summation
// order never depends on map order, and years fan out to workers with
// results slotted back by index.
package allocation
