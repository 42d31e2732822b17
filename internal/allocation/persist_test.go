package allocation

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hspanel/pkg/contracts/domain"
)

func sampleAggregates() []domain.IndustryAggregate {
	return []domain.IndustryAggregate{
		{
			Year:                  1996,
			Industry4:             "3211",
			TotalAllocatedExport:  100,
			WeightedPCI:           domain.MissingFloat(),
			ProductCount:          1,
			RepresentativeProduct: "5201",
		},
		{
			Year:                  1995,
			Industry4:             "3111",
			Title:                 "Meat products",
			TotalAllocatedExport:  75,
			WeightedPCI:           domain.Float(1.5),
			ProductCount:          1,
			RepresentativeProduct: "0101",
			RepresentativeLabel:   "Live animals",
		},
	}
}

func TestSaveAggregatesCSV(t *testing.T) {
	tempDir := t.TempDir()
	outputPath := filepath.Join(tempDir, "industry_aggregates.csv")

	err := SaveAggregatesCSV(sampleAggregates(), outputPath)
	require.NoError(t, err)

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"Year", "Industry4", "Title", "WeightedPCI", "TotalAllocatedExport",
		"ProductCount", "RepresentativeProduct", "RepresentativeLabel",
	}, rows[0])

	// Sorted by year then industry regardless of input order
	assert.Equal(t, []string{"1995", "3111", "Meat products", "1.500000", "75.000", "1", "0101", "Live animals"}, rows[1])
	assert.Equal(t, []string{"1996", "3211", "", "", "100.000", "1", "5201", ""}, rows[2])
}

func TestSaveAggregatesCSV_Empty(t *testing.T) {
	err := SaveAggregatesCSV(nil, filepath.Join(t.TempDir(), "out.csv"))
	assert.Error(t, err)
}

func TestSaveAggregatesCSV_Idempotent(t *testing.T) {
	ctx := context.Background()
	tempDir := t.TempDir()
	allocator := NewAllocator(slog.Default(), DefaultAllocatorConfig())
	template := testTemplate(t)
	records := multiYearRecords()

	firstPath := filepath.Join(tempDir, "first.csv")
	secondPath := filepath.Join(tempDir, "second.csv")

	for _, outputPath := range []string{firstPath, secondPath} {
		results, err := allocator.AllocateAll(ctx, records, template, nil)
		require.NoError(t, err)
		require.NoError(t, SaveAggregatesCSV(CollectAggregates(results), outputPath))
	}

	first, err := os.ReadFile(firstPath)
	require.NoError(t, err)
	second, err := os.ReadFile(secondPath)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same inputs must produce byte-identical output")
}

func TestSaveAggregatesJSON(t *testing.T) {
	tempDir := t.TempDir()
	outputPath := filepath.Join(tempDir, "industry_aggregates.json")

	err := SaveAggregatesJSON(sampleAggregates(), outputPath)
	require.NoError(t, err)

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(content, &payload))

	assert.Contains(t, payload, "metadata")
	assert.Contains(t, payload, "aggregates")

	metadata, ok := payload["metadata"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), metadata["total_records"])
	assert.Equal(t, float64(2), metadata["industries"])

	// Missing weighted PCI serializes as null
	aggregates, ok := payload["aggregates"].([]interface{})
	require.True(t, ok)
	first, ok := aggregates[0].(map[string]interface{})
	require.True(t, ok)
	assert.Nil(t, first["weighted_pci"])
}

func TestSaveSummaryReport(t *testing.T) {
	ctx := context.Background()
	tempDir := t.TempDir()
	allocator := NewAllocator(slog.Default(), DefaultAllocatorConfig())

	results, err := allocator.AllocateAll(ctx, multiYearRecords(), testTemplate(t), map[string]string{"3111": "Meat products"})
	require.NoError(t, err)

	outputPath := filepath.Join(tempDir, "allocation_summary.txt")
	require.NoError(t, SaveSummaryReport(results, 1996, 5, outputPath))

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	report := string(content)

	assert.Contains(t, report, "DATASET OVERVIEW")
	assert.Contains(t, report, "Years Allocated: 3 (1995 to 1997)")
	assert.Contains(t, report, "PER-YEAR BREAKDOWN")
	assert.Contains(t, report, "TOP 5 INDUSTRIES BY ALLOCATED EXPORT (1996)")
	assert.Contains(t, report, "3111 Meat products")

	// Every allocated year shows up in the breakdown
	for _, line := range []string{"1995:", "1996:", "1997:"} {
		assert.True(t, strings.Contains(report, line), "missing breakdown line for %s", line)
	}
}

func TestSaveSummaryReport_FallsBackToLatestYear(t *testing.T) {
	ctx := context.Background()
	tempDir := t.TempDir()
	allocator := NewAllocator(slog.Default(), DefaultAllocatorConfig())

	results, err := allocator.AllocateAll(ctx, multiYearRecords(), testTemplate(t), nil)
	require.NoError(t, err)

	outputPath := filepath.Join(tempDir, "summary.txt")
	require.NoError(t, SaveSummaryReport(results, 0, 10, outputPath))

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "TOP 10 INDUSTRIES BY ALLOCATED EXPORT (1997)")
}

func TestSaveSummaryReport_Empty(t *testing.T) {
	err := SaveSummaryReport(nil, 0, 10, filepath.Join(t.TempDir(), "summary.txt"))
	assert.Error(t, err)
}
