package diagnostics

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"hspanel/pkg/contracts/domain"
)

// Analyzer generates per-product diagnostics from panel trade records.
// It consolidates the dispersion and span logic so the pipeline, the audit
// command, and the report generator all agree on what "changed" and
// "balanced" mean.
type Analyzer struct {
	logger          *slog.Logger
	minObservations int
}

// AnalyzerConfig holds configuration options for the Analyzer.
type AnalyzerConfig struct {
	MinObservations int // Present values required before a deviation is reported
}

// DefaultAnalyzerConfig returns the standard analyzer configuration.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		MinObservations: 2,
	}
}

// NewAnalyzer creates a new product diagnostics analyzer with the given
// configuration. This is the primary constructor for analyzer instances.
func NewAnalyzer(logger *slog.Logger, config AnalyzerConfig) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}

	// Sample deviations need at least two observations
	if config.MinObservations < 2 {
		config.MinObservations = 2
	}

	return &Analyzer{
		logger:          logger,
		minObservations: config.MinObservations,
	}
}

// GenerateFromRecords is the Single Source of Truth method for generating
// product diagnostics from TradeRecord slices. Records are grouped by product
// code, duplicate product-year observations collapse to the first one seen,
// and the result is sorted by product code for deterministic output.
func (a *Analyzer) GenerateFromRecords(ctx context.Context, records []domain.TradeRecord) ([]domain.ProductDiagnostics, error) {
	a.logger.InfoContext(ctx, "generating product diagnostics from panel records",
		slog.Int("record_count", len(records)))

	if len(records) == 0 {
		return []domain.ProductDiagnostics{}, nil
	}

	productData := a.groupRecordsByProduct(records)
	panelYears := a.countPanelYears(records)

	diagnostics := make([]domain.ProductDiagnostics, 0, len(productData))
	for product, productRecords := range productData {
		diag, err := a.generateProductDiagnostics(product, productRecords, panelYears)
		if err != nil {
			a.logger.ErrorContext(ctx, "failed to generate diagnostics for product",
				slog.String("product", product),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("generate diagnostics for product %s: %w", product, err)
		}
		diagnostics = append(diagnostics, diag)
	}

	// Sort diagnostics by product code for consistent output
	sort.Slice(diagnostics, func(i, j int) bool {
		return diagnostics[i].ProductCode < diagnostics[j].ProductCode
	})

	a.logger.InfoContext(ctx, "successfully generated product diagnostics",
		slog.Int("product_count", len(diagnostics)),
		slog.Int("panel_years", panelYears))

	return diagnostics, nil
}

// groupRecordsByProduct groups trade records by product code.
func (a *Analyzer) groupRecordsByProduct(records []domain.TradeRecord) map[string][]domain.TradeRecord {
	productData := make(map[string][]domain.TradeRecord)

	for _, record := range records {
		code := strings.TrimSpace(record.ProductCode)
		if code == "" {
			continue // Skip records without a product code
		}
		productData[code] = append(productData[code], record)
	}

	return productData
}

// countPanelYears counts the distinct years observed anywhere in the panel.
// The balanced flag compares each product's presence against this count.
func (a *Analyzer) countPanelYears(records []domain.TradeRecord) int {
	years := make(map[int]bool)
	for _, record := range records {
		years[record.Year] = true
	}
	return len(years)
}

// generateProductDiagnostics generates diagnostics for a single product.
// Presence counts record existence per year; the numeric fields contribute
// to dispersion only where present.
func (a *Analyzer) generateProductDiagnostics(product string, records []domain.TradeRecord, panelYears int) (domain.ProductDiagnostics, error) {
	if len(records) == 0 {
		return domain.ProductDiagnostics{}, fmt.Errorf("no records provided for product %s", product)
	}

	// Collapse duplicate years, first record wins to match load order
	byYear := make(map[int]domain.TradeRecord, len(records))
	years := make([]int, 0, len(records))
	for _, record := range records {
		if _, seen := byYear[record.Year]; seen {
			continue
		}
		byYear[record.Year] = record
		years = append(years, record.Year)
	}
	sort.Ints(years)

	diag := domain.ProductDiagnostics{
		ProductCode:  product,
		Label:        records[0].Label,
		YearsPresent: len(years),
		FirstYear:    years[0],
		LastYear:     years[len(years)-1],
		Balanced:     len(years) == panelYears,
	}

	// A gap of more than one year between consecutive observations means
	// the product left the panel and came back
	for i := 1; i < len(years); i++ {
		if years[i]-years[i-1] > 1 {
			diag.Reenters = true
			break
		}
	}

	var pciValues, exportValues, importValues []float64
	for _, year := range years {
		record := byYear[year]
		if record.PCI.Valid {
			pciValues = append(pciValues, record.PCI.Value)
		}
		if record.ExportValue.Valid {
			exportValues = append(exportValues, record.ExportValue.Value)
		}
		if record.ImportValue.Valid {
			importValues = append(importValues, record.ImportValue.Value)
		}
	}

	diag.PCISD = a.sampleStdDev(pciValues)
	diag.ExportSD = a.sampleStdDev(exportValues)
	diag.ImportSD = a.sampleStdDev(importValues)

	// A missing deviation leaves the flag false: change was not observable
	diag.PCIChanged = diag.PCISD.Valid && diag.PCISD.Value > 0
	diag.ValuesChanged = (diag.ExportSD.Valid && diag.ExportSD.Value > 0) ||
		(diag.ImportSD.Valid && diag.ImportSD.Value > 0)

	return diag, nil
}

// sampleStdDev computes the sample standard deviation of the given values.
// Fewer observations than the configured minimum yields a missing result
// rather than zero, so callers can tell "constant" apart from "unknown".
func (a *Analyzer) sampleStdDev(values []float64) domain.NullFloat {
	if len(values) < a.minObservations {
		return domain.MissingFloat()
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	sumSquares := 0.0
	for _, v := range values {
		dev := v - mean
		sumSquares += dev * dev
	}

	return domain.Float(math.Sqrt(sumSquares / float64(len(values)-1)))
}
