package allocation

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"hspanel/pkg/contracts/domain"
)

// SaveAggregatesCSV saves industry aggregates to a CSV file. Rows are
// ordered by year then industry, and a missing weighted PCI renders as an
// empty cell.
func SaveAggregatesCSV(aggregates []domain.IndustryAggregate, outputPath string) error {
	if len(aggregates) == 0 {
		return fmt.Errorf("no aggregates to save")
	}

	// Ensure output directory exists
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Year",
		"Industry4",
		"Title",
		"WeightedPCI",
		"TotalAllocatedExport",
		"ProductCount",
		"RepresentativeProduct",
		"RepresentativeLabel",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	// Sort aggregates by year then industry for consistent output
	sorted := make([]domain.IndustryAggregate, len(aggregates))
	copy(sorted, aggregates)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Year == sorted[j].Year {
			return sorted[i].Industry4 < sorted[j].Industry4
		}
		return sorted[i].Year < sorted[j].Year
	})

	for _, aggregate := range sorted {
		record := formatAggregateRecord(aggregate)
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write CSV record for industry %s: %w", aggregate.Industry4, err)
		}
	}

	return nil
}

// formatAggregateRecord converts an IndustryAggregate to a CSV record.
func formatAggregateRecord(aggregate domain.IndustryAggregate) []string {
	return []string{
		strconv.Itoa(aggregate.Year),
		aggregate.Industry4,
		aggregate.Title,
		aggregate.WeightedPCI.CSV(6),
		formatFloat(aggregate.TotalAllocatedExport, 3),
		strconv.Itoa(aggregate.ProductCount),
		aggregate.RepresentativeProduct,
		aggregate.RepresentativeLabel,
	}
}

// formatFloat formats a float64 value for CSV output with fixed precision.
func formatFloat(value float64, precision int) string {
	return strconv.FormatFloat(value, 'f', precision, 64)
}

// SaveAggregatesJSON saves industry aggregates to a JSON file with metadata.
func SaveAggregatesJSON(aggregates []domain.IndustryAggregate, outputPath string) error {
	if len(aggregates) == 0 {
		return fmt.Errorf("no aggregates to save")
	}

	// Ensure output directory exists
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	output := map[string]interface{}{
		"metadata": map[string]interface{}{
			"generated_at":  time.Now().Format(time.RFC3339),
			"total_records": len(aggregates),
			"years":         aggregateYears(aggregates),
			"industries":    countUniqueIndustries(aggregates),
		},
		"aggregates": aggregates,
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	return nil
}

// SaveSummaryReport creates a human-readable summary of the allocation run.
// The top-industries section uses the focal year when one is set, otherwise
// the latest allocated year.
func SaveSummaryReport(results []YearAllocation, focalYear, topN int, outputPath string) error {
	if len(results) == 0 {
		return fmt.Errorf("no allocation results to save")
	}
	if topN <= 0 {
		topN = 10
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	summary := calculateRunSummary(results, focalYear)

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create summary file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "HS Panel Pipeline - Allocation Summary\n")
	fmt.Fprintf(file, "======================================\n\n")
	fmt.Fprintf(file, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Fprintf(file, "DATASET OVERVIEW\n")
	fmt.Fprintf(file, "----------------\n")
	fmt.Fprintf(file, "Years Allocated: %d (%d to %d)\n", len(results), summary.FirstYear, summary.LastYear)
	fmt.Fprintf(file, "Industries Emitted: %d\n", summary.TotalAggregates)
	fmt.Fprintf(file, "Allocation Rows: %d\n", summary.TotalRows)
	fmt.Fprintf(file, "Total Allocated Export: %.3f\n", summary.TotalAllocated)
	fmt.Fprintf(file, "Unmapped Products: %d\n", summary.TotalUnmapped)
	fmt.Fprintf(file, "Untitled Industries: %d\n\n", summary.TotalUntitled)

	fmt.Fprintf(file, "PER-YEAR BREAKDOWN\n")
	fmt.Fprintf(file, "------------------\n")
	for _, year := range summary.Years {
		fmt.Fprintf(file, "%d: %d industries, %d rows, %d unmapped, total %.3f\n",
			year.Year, len(year.Aggregates), len(year.Rows), len(year.Unmapped), yearTotal(year))
	}
	fmt.Fprintf(file, "\n")

	fmt.Fprintf(file, "TOP %d INDUSTRIES BY ALLOCATED EXPORT (%d)\n", topN, summary.ReportYear)
	fmt.Fprintf(file, "------------------------------------------\n")
	for i, aggregate := range topAggregates(summary.ReportAggregates, topN) {
		fmt.Fprintf(file, "%2d. %s %s: %.3f (weighted PCI %s)\n",
			i+1, aggregate.Industry4, aggregate.Title,
			aggregate.TotalAllocatedExport, aggregate.WeightedPCI.String())
	}

	return nil
}

// runSummary holds the roll-up behind the summary report.
type runSummary struct {
	FirstYear        int
	LastYear         int
	TotalAggregates  int
	TotalRows        int
	TotalAllocated   float64
	TotalUnmapped    int
	TotalUntitled    int
	Years            []YearAllocation
	ReportYear       int
	ReportAggregates []domain.IndustryAggregate
}

// calculateRunSummary computes the report roll-up across all years.
func calculateRunSummary(results []YearAllocation, focalYear int) runSummary {
	sorted := make([]YearAllocation, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	summary := runSummary{
		FirstYear: sorted[0].Year,
		LastYear:  sorted[len(sorted)-1].Year,
		Years:     sorted,
	}

	for _, year := range sorted {
		summary.TotalAggregates += len(year.Aggregates)
		summary.TotalRows += len(year.Rows)
		summary.TotalAllocated += yearTotal(year)
		summary.TotalUnmapped += len(year.Unmapped)
		summary.TotalUntitled += len(year.Untitled)
	}

	// Pick the year the top-industries section reports on
	summary.ReportYear = summary.LastYear
	for _, year := range sorted {
		if focalYear != 0 && year.Year == focalYear {
			summary.ReportYear = year.Year
		}
	}
	for _, year := range sorted {
		if year.Year == summary.ReportYear {
			summary.ReportAggregates = year.Aggregates
		}
	}

	return summary
}

// yearTotal sums one year's allocated export across its aggregates.
func yearTotal(year YearAllocation) float64 {
	total := 0.0
	for _, aggregate := range year.Aggregates {
		total += aggregate.TotalAllocatedExport
	}
	return total
}

// topAggregates returns the n largest aggregates by allocated export, ties
// broken toward the smaller industry code.
func topAggregates(aggregates []domain.IndustryAggregate, n int) []domain.IndustryAggregate {
	sorted := make([]domain.IndustryAggregate, len(aggregates))
	copy(sorted, aggregates)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].TotalAllocatedExport == sorted[j].TotalAllocatedExport {
			return sorted[i].Industry4 < sorted[j].Industry4
		}
		return sorted[i].TotalAllocatedExport > sorted[j].TotalAllocatedExport
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// aggregateYears returns the sorted distinct years present in the
// aggregates.
func aggregateYears(aggregates []domain.IndustryAggregate) []int {
	seen := make(map[int]bool)
	var years []int
	for _, aggregate := range aggregates {
		if seen[aggregate.Year] {
			continue
		}
		seen[aggregate.Year] = true
		years = append(years, aggregate.Year)
	}
	sort.Ints(years)
	return years
}

// countUniqueIndustries counts distinct industry codes across years.
func countUniqueIndustries(aggregates []domain.IndustryAggregate) int {
	industries := make(map[string]bool)
	for _, aggregate := range aggregates {
		industries[aggregate.Industry4] = true
	}
	return len(industries)
}
