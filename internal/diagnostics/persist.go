package diagnostics

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"hspanel/internal/errors"
	"hspanel/pkg/contracts/domain"
)

// WriteCSV writes product diagnostics to a CSV file using the standard
// column layout. Missing deviations render as empty cells, never as zero.
func (a *Analyzer) WriteCSV(ctx context.Context, path string, diagnostics []domain.ProductDiagnostics) error {
	a.logger.InfoContext(ctx, "writing product diagnostics to CSV",
		slog.String("path", path),
		slog.Int("product_count", len(diagnostics)))

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory for CSV output", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create CSV file for product diagnostics", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"ProductCode", "Label",
		"PCISD", "ExportSD", "ImportSD",
		"PCIChanged", "ValuesChanged",
		"YearsPresent", "FirstYear", "LastYear",
		"Reenters", "Balanced",
	}
	if err := writer.Write(header); err != nil {
		return errors.NewStorageError("failed to write CSV header row", err)
	}

	for _, diag := range diagnostics {
		row := []string{
			diag.ProductCode,
			diag.Label,
			diag.PCISD.CSV(6),
			diag.ExportSD.CSV(6),
			diag.ImportSD.CSV(6),
			fmt.Sprintf("%t", diag.PCIChanged),
			fmt.Sprintf("%t", diag.ValuesChanged),
			fmt.Sprintf("%d", diag.YearsPresent),
			fmt.Sprintf("%d", diag.FirstYear),
			fmt.Sprintf("%d", diag.LastYear),
			fmt.Sprintf("%t", diag.Reenters),
			fmt.Sprintf("%t", diag.Balanced),
		}
		if err := writer.Write(row); err != nil {
			return errors.NewStorageError("failed to write CSV data row", err)
		}
	}

	a.logger.InfoContext(ctx, "successfully wrote product diagnostics to CSV",
		slog.String("path", path))

	return nil
}

// WriteJSON writes product diagnostics to a JSON file with metadata.
func (a *Analyzer) WriteJSON(ctx context.Context, path string, diagnostics []domain.ProductDiagnostics) error {
	a.logger.InfoContext(ctx, "writing product diagnostics to JSON",
		slog.String("path", path),
		slog.Int("product_count", len(diagnostics)))

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory for JSON output", err)
	}

	jsonData := map[string]interface{}{
		"products":     diagnostics,
		"count":        len(diagnostics),
		"generated_at": time.Now().Format(time.RFC3339),
		"format":       "product_diagnostics_v1",
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create JSON file for product diagnostics", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(jsonData); err != nil {
		return errors.NewStorageError("failed to encode product diagnostics to JSON", err)
	}

	a.logger.InfoContext(ctx, "successfully wrote product diagnostics to JSON",
		slog.String("path", path))

	return nil
}

// WriteFrequencyCSV writes the per-year frequency table to a CSV file.
func (a *Analyzer) WriteFrequencyCSV(ctx context.Context, path string, counts []domain.YearCount) error {
	a.logger.InfoContext(ctx, "writing year frequency table to CSV",
		slog.String("path", path),
		slog.Int("year_count", len(counts)))

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory for CSV output", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create CSV file for year frequency table", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Year", "ProductCount", "TotalExport", "MissingPCI", "MissingExport", "MeanPCI"}
	if err := writer.Write(header); err != nil {
		return errors.NewStorageError("failed to write CSV header row", err)
	}

	for _, count := range counts {
		row := []string{
			fmt.Sprintf("%d", count.Year),
			fmt.Sprintf("%d", count.ProductCount),
			fmt.Sprintf("%.3f", count.TotalExport),
			fmt.Sprintf("%d", count.MissingPCI),
			fmt.Sprintf("%d", count.MissingExport),
			count.MeanPCI.CSV(6),
		}
		if err := writer.Write(row); err != nil {
			return errors.NewStorageError("failed to write CSV data row", err)
		}
	}

	a.logger.InfoContext(ctx, "successfully wrote year frequency table to CSV",
		slog.String("path", path))

	return nil
}
