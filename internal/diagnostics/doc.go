// Package diagnostics computes per-product panel diagnostics from trade
// records: dispersion of PCI and trade values across years, presence spans,
// re-entry detection, and balance against the full panel year range.
//
// The Analyzer is the Single Source of Truth for these calculations. All
// callers (pipeline, audit tooling, report generation) obtain diagnostics
// through Analyzer.GenerateFromRecords rather than re-deriving them, so the
// treatment of missing values stays consistent everywhere:
//
//   - Standard deviations are sample deviations over present values only.
//     A field with fewer than two present observations gets a missing
//     deviation, never zero.
//   - Change flags derive from the deviations: a missing deviation means
//     the corresponding flag is false, because change was not observable.
//   - Presence is keyed off record existence, not value presence. A year
//     where a product appears with all numeric fields missing still counts
//     toward its span.
//
// The package also provides YearFrequency and TopByExport, pure functions
// over record slices used by the frequency table and console report.
package diagnostics
