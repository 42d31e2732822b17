package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"hspanel/pkg/contracts/domain"
)

func testWorkbookData() WorkbookData {
	return WorkbookData{
		Diagnostics: []domain.ProductDiagnostics{
			{
				ProductCode:   "0101",
				Label:         "Live animals",
				PCISD:         domain.Float(0.25),
				ExportSD:      domain.Float(12.5),
				ImportSD:      domain.MissingFloat(),
				PCIChanged:    true,
				ValuesChanged: true,
				YearsPresent:  3,
				FirstYear:     1995,
				LastYear:      1997,
				Balanced:      true,
			},
			{
				ProductCode:  "5201",
				PCISD:        domain.MissingFloat(),
				ExportSD:     domain.MissingFloat(),
				ImportSD:     domain.MissingFloat(),
				YearsPresent: 1,
				FirstYear:    1996,
				LastYear:     1996,
			},
		},
		Aggregates: []domain.IndustryAggregate{
			{
				Year:                  1995,
				Industry4:             "3111",
				Title:                 "Meat products",
				WeightedPCI:           domain.Float(1.5),
				TotalAllocatedExport:  75.5,
				ProductCount:          2,
				RepresentativeProduct: "0101",
				RepresentativeLabel:   "Live animals",
			},
			{
				Year:                  1995,
				Industry4:             "3211",
				WeightedPCI:           domain.MissingFloat(),
				TotalAllocatedExport:  40,
				ProductCount:          1,
				RepresentativeProduct: "5201",
			},
		},
		Frequency: []domain.YearCount{
			{Year: 1995, ProductCount: 2, TotalExport: 115.5, MissingPCI: 1, MeanPCI: domain.Float(1.5)},
			{Year: 1996, ProductCount: 1, TotalExport: 10, MissingExport: 1, MeanPCI: domain.MissingFloat()},
		},
		TopProducts: []domain.RankedProduct{
			{Rank: 1, ProductCode: "0101", Label: "Live animals", ExportValue: 75.5, PCI: domain.Float(1.5)},
			{Rank: 2, ProductCode: "5201", ExportValue: 40, PCI: domain.MissingFloat()},
		},
		FocalYear: 1995,
	}
}

// cellValue reads one cell, failing the test on lookup errors.
func cellValue(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	value, err := f.GetCellValue(sheet, cell)
	require.NoError(t, err)
	return value
}

func TestWorkbookExporter_Export(t *testing.T) {
	exporter := NewWorkbookExporter()

	f, err := exporter.Export(testWorkbookData())
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t,
		[]string{sheetDiagnostics, sheetAggregates, sheetFrequency, sheetTopProducts},
		f.GetSheetList())
}

func TestWorkbookExporter_DiagnosticsSheet(t *testing.T) {
	f, err := NewWorkbookExporter().Export(testWorkbookData())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "ProductCode", cellValue(t, f, sheetDiagnostics, "A1"))
	assert.Equal(t, "Balanced", cellValue(t, f, sheetDiagnostics, "L1"))

	assert.Equal(t, "0101", cellValue(t, f, sheetDiagnostics, "A2"))
	assert.Equal(t, "Live animals", cellValue(t, f, sheetDiagnostics, "B2"))
	assert.Equal(t, "0.25", cellValue(t, f, sheetDiagnostics, "C2"))
	assert.Equal(t, "12.5", cellValue(t, f, sheetDiagnostics, "D2"))
	assert.Equal(t, "", cellValue(t, f, sheetDiagnostics, "E2"),
		"missing import deviation must leave the cell empty")
	assert.Equal(t, "TRUE", cellValue(t, f, sheetDiagnostics, "F2"))
	assert.Equal(t, "3", cellValue(t, f, sheetDiagnostics, "H2"))
	assert.Equal(t, "1995", cellValue(t, f, sheetDiagnostics, "I2"))

	// Second product has no computed deviations at all.
	assert.Equal(t, "5201", cellValue(t, f, sheetDiagnostics, "A3"))
	assert.Equal(t, "", cellValue(t, f, sheetDiagnostics, "C3"))
	assert.Equal(t, "FALSE", cellValue(t, f, sheetDiagnostics, "F3"))
}

func TestWorkbookExporter_AggregatesSheet(t *testing.T) {
	f, err := NewWorkbookExporter().Export(testWorkbookData())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "WeightedPCI", cellValue(t, f, sheetAggregates, "D1"))

	assert.Equal(t, "3111", cellValue(t, f, sheetAggregates, "B2"))
	assert.Equal(t, "Meat products", cellValue(t, f, sheetAggregates, "C2"))
	assert.Equal(t, "1.5", cellValue(t, f, sheetAggregates, "D2"))
	assert.Equal(t, "75.5", cellValue(t, f, sheetAggregates, "E2"))

	assert.Equal(t, "3211", cellValue(t, f, sheetAggregates, "B3"))
	assert.Equal(t, "", cellValue(t, f, sheetAggregates, "D3"),
		"missing weighted PCI must leave the cell empty")
	assert.Equal(t, "40", cellValue(t, f, sheetAggregates, "E3"))
}

func TestWorkbookExporter_FrequencySheet(t *testing.T) {
	f, err := NewWorkbookExporter().Export(testWorkbookData())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "1995", cellValue(t, f, sheetFrequency, "A2"))
	assert.Equal(t, "2", cellValue(t, f, sheetFrequency, "B2"))
	assert.Equal(t, "115.5", cellValue(t, f, sheetFrequency, "C2"))
	assert.Equal(t, "1.5", cellValue(t, f, sheetFrequency, "F2"))
	assert.Equal(t, "", cellValue(t, f, sheetFrequency, "F3"))
}

func TestWorkbookExporter_TopProductsSheet(t *testing.T) {
	f, err := NewWorkbookExporter().Export(testWorkbookData())
	require.NoError(t, err)
	defer f.Close()

	// Every ranked row carries the focal year.
	assert.Equal(t, "1995", cellValue(t, f, sheetTopProducts, "A2"))
	assert.Equal(t, "1995", cellValue(t, f, sheetTopProducts, "A3"))

	assert.Equal(t, "1", cellValue(t, f, sheetTopProducts, "B2"))
	assert.Equal(t, "0101", cellValue(t, f, sheetTopProducts, "C2"))
	assert.Equal(t, "75.5", cellValue(t, f, sheetTopProducts, "E2"))
	assert.Equal(t, "", cellValue(t, f, sheetTopProducts, "F3"))
}

func TestWorkbookExporter_EmptyData(t *testing.T) {
	f, err := NewWorkbookExporter().Export(WorkbookData{FocalYear: 1995})
	require.NoError(t, err)
	defer f.Close()

	// Header-only sheets are still valid output.
	rows, err := f.GetRows(sheetDiagnostics)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ProductCode", rows[0][0])
}
