package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"hspanel/pkg/contracts/domain"
)

// Sheet names in the combined report workbook.
const (
	sheetDiagnostics = "Diagnostics"
	sheetAggregates  = "Industry Aggregates"
	sheetFrequency   = "Year Frequency"
	sheetTopProducts = "Top Products"
)

// WorkbookData carries the report tables that make up the combined workbook.
type WorkbookData struct {
	Diagnostics []domain.ProductDiagnostics
	Aggregates  []domain.IndustryAggregate
	Frequency   []domain.YearCount
	TopProducts []domain.RankedProduct
	FocalYear   int
}

// WorkbookExporter builds the multi-sheet Excel report from finished report
// tables. It holds no state; callers save the returned file themselves.
type WorkbookExporter struct{}

// NewWorkbookExporter creates a new workbook exporter instance
func NewWorkbookExporter() *WorkbookExporter {
	return &WorkbookExporter{}
}

// Export builds a workbook with one sheet per report table. Missing optional
// values are left as empty cells rather than written as zero.
func (e *WorkbookExporter) Export(data WorkbookData) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	f.SetSheetName("Sheet1", sheetDiagnostics)
	if err := e.writeDiagnosticsSheet(f, headerStyle, data.Diagnostics); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(sheetAggregates); err != nil {
		return nil, fmt.Errorf("failed to create sheet %s: %w", sheetAggregates, err)
	}
	if err := e.writeAggregatesSheet(f, headerStyle, data.Aggregates); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(sheetFrequency); err != nil {
		return nil, fmt.Errorf("failed to create sheet %s: %w", sheetFrequency, err)
	}
	if err := e.writeFrequencySheet(f, headerStyle, data.Frequency); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(sheetTopProducts); err != nil {
		return nil, fmt.Errorf("failed to create sheet %s: %w", sheetTopProducts, err)
	}
	if err := e.writeTopProductsSheet(f, headerStyle, data.FocalYear, data.TopProducts); err != nil {
		return nil, err
	}

	return f, nil
}

// writeHeaders writes the header row and applies the header style to it.
func (e *WorkbookExporter) writeHeaders(f *excelize.File, sheet string, style int, headers []string) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header %s: %w", header, err)
		}
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}
	return nil
}

// setOptionalCell writes an optional value, leaving the cell empty when the
// value is missing.
func setOptionalCell(f *excelize.File, sheet, cell string, value domain.NullFloat) error {
	if !value.Valid {
		return nil
	}
	return f.SetCellValue(sheet, cell, value.Value)
}

func (e *WorkbookExporter) writeDiagnosticsSheet(f *excelize.File, style int, rows []domain.ProductDiagnostics) error {
	headers := []string{
		"ProductCode", "Label", "PCISD", "ExportSD", "ImportSD",
		"PCIChanged", "ValuesChanged", "YearsPresent", "FirstYear",
		"LastYear", "Reenters", "Balanced",
	}
	if err := e.writeHeaders(f, sheetDiagnostics, style, headers); err != nil {
		return err
	}

	for i, diag := range rows {
		row := i + 2
		f.SetCellValue(sheetDiagnostics, fmt.Sprintf("A%d", row), diag.ProductCode)
		f.SetCellValue(sheetDiagnostics, fmt.Sprintf("B%d", row), diag.Label)
		if err := setOptionalCell(f, sheetDiagnostics, fmt.Sprintf("C%d", row), diag.PCISD); err != nil {
			return fmt.Errorf("failed to write diagnostics row %d: %w", row, err)
		}
		if err := setOptionalCell(f, sheetDiagnostics, fmt.Sprintf("D%d", row), diag.ExportSD); err != nil {
			return fmt.Errorf("failed to write diagnostics row %d: %w", row, err)
		}
		if err := setOptionalCell(f, sheetDiagnostics, fmt.Sprintf("E%d", row), diag.ImportSD); err != nil {
			return fmt.Errorf("failed to write diagnostics row %d: %w", row, err)
		}
		f.SetCellValue(sheetDiagnostics, fmt.Sprintf("F%d", row), diag.PCIChanged)
		f.SetCellValue(sheetDiagnostics, fmt.Sprintf("G%d", row), diag.ValuesChanged)
		f.SetCellValue(sheetDiagnostics, fmt.Sprintf("H%d", row), diag.YearsPresent)
		f.SetCellValue(sheetDiagnostics, fmt.Sprintf("I%d", row), diag.FirstYear)
		f.SetCellValue(sheetDiagnostics, fmt.Sprintf("J%d", row), diag.LastYear)
		f.SetCellValue(sheetDiagnostics, fmt.Sprintf("K%d", row), diag.Reenters)
		f.SetCellValue(sheetDiagnostics, fmt.Sprintf("L%d", row), diag.Balanced)
	}

	f.SetColWidth(sheetDiagnostics, "A", "B", 24)
	f.SetColWidth(sheetDiagnostics, "C", "E", 14)
	return nil
}

func (e *WorkbookExporter) writeAggregatesSheet(f *excelize.File, style int, rows []domain.IndustryAggregate) error {
	headers := []string{
		"Year", "Industry4", "Title", "WeightedPCI", "TotalAllocatedExport",
		"ProductCount", "RepresentativeProduct", "RepresentativeLabel",
	}
	if err := e.writeHeaders(f, sheetAggregates, style, headers); err != nil {
		return err
	}

	for i, agg := range rows {
		row := i + 2
		f.SetCellValue(sheetAggregates, fmt.Sprintf("A%d", row), agg.Year)
		f.SetCellValue(sheetAggregates, fmt.Sprintf("B%d", row), agg.Industry4)
		f.SetCellValue(sheetAggregates, fmt.Sprintf("C%d", row), agg.Title)
		if err := setOptionalCell(f, sheetAggregates, fmt.Sprintf("D%d", row), agg.WeightedPCI); err != nil {
			return fmt.Errorf("failed to write aggregate row %d: %w", row, err)
		}
		f.SetCellValue(sheetAggregates, fmt.Sprintf("E%d", row), agg.TotalAllocatedExport)
		f.SetCellValue(sheetAggregates, fmt.Sprintf("F%d", row), agg.ProductCount)
		f.SetCellValue(sheetAggregates, fmt.Sprintf("G%d", row), agg.RepresentativeProduct)
		f.SetCellValue(sheetAggregates, fmt.Sprintf("H%d", row), agg.RepresentativeLabel)
	}

	f.SetColWidth(sheetAggregates, "C", "C", 32)
	f.SetColWidth(sheetAggregates, "D", "E", 18)
	f.SetColWidth(sheetAggregates, "G", "H", 24)
	return nil
}

func (e *WorkbookExporter) writeFrequencySheet(f *excelize.File, style int, rows []domain.YearCount) error {
	headers := []string{
		"Year", "ProductCount", "TotalExport", "MissingPCI",
		"MissingExport", "MeanPCI",
	}
	if err := e.writeHeaders(f, sheetFrequency, style, headers); err != nil {
		return err
	}

	for i, count := range rows {
		row := i + 2
		f.SetCellValue(sheetFrequency, fmt.Sprintf("A%d", row), count.Year)
		f.SetCellValue(sheetFrequency, fmt.Sprintf("B%d", row), count.ProductCount)
		f.SetCellValue(sheetFrequency, fmt.Sprintf("C%d", row), count.TotalExport)
		f.SetCellValue(sheetFrequency, fmt.Sprintf("D%d", row), count.MissingPCI)
		f.SetCellValue(sheetFrequency, fmt.Sprintf("E%d", row), count.MissingExport)
		if err := setOptionalCell(f, sheetFrequency, fmt.Sprintf("F%d", row), count.MeanPCI); err != nil {
			return fmt.Errorf("failed to write frequency row %d: %w", row, err)
		}
	}

	f.SetColWidth(sheetFrequency, "B", "F", 14)
	return nil
}

func (e *WorkbookExporter) writeTopProductsSheet(f *excelize.File, style int, focalYear int, rows []domain.RankedProduct) error {
	headers := []string{"Year", "Rank", "ProductCode", "Label", "ExportValue", "PCI"}
	if err := e.writeHeaders(f, sheetTopProducts, style, headers); err != nil {
		return err
	}

	for i, ranked := range rows {
		row := i + 2
		f.SetCellValue(sheetTopProducts, fmt.Sprintf("A%d", row), focalYear)
		f.SetCellValue(sheetTopProducts, fmt.Sprintf("B%d", row), ranked.Rank)
		f.SetCellValue(sheetTopProducts, fmt.Sprintf("C%d", row), ranked.ProductCode)
		f.SetCellValue(sheetTopProducts, fmt.Sprintf("D%d", row), ranked.Label)
		f.SetCellValue(sheetTopProducts, fmt.Sprintf("E%d", row), ranked.ExportValue)
		if err := setOptionalCell(f, sheetTopProducts, fmt.Sprintf("F%d", row), ranked.PCI); err != nil {
			return fmt.Errorf("failed to write top products row %d: %w", row, err)
		}
	}

	f.SetColWidth(sheetTopProducts, "D", "D", 32)
	f.SetColWidth(sheetTopProducts, "E", "E", 18)
	return nil
}
