package dataload

import (
	"context"
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"

	"hspanel/internal/config"
	"hspanel/internal/errors"
	"hspanel/pkg/contracts/domain"
)

// Known header variants for the panel table.
var (
	panelProductVariants = []string{"product_code", "productcode", "hs4", "hs92_4", "hs", "commoditycode", "commodity_code", "product", "code"}
	panelYearVariants    = []string{"year", "yr", "t"}
	panelExportVariants  = []string{"export_value", "export_val", "exports", "export", "export_usd"}
	panelImportVariants  = []string{"import_value", "import_val", "imports", "import", "import_usd"}
	panelPCIVariants     = []string{"pci", "product_complexity_index", "complexity", "pci_value"}
)

// PanelStats reports what the panel load kept and dropped.
type PanelStats struct {
	RowsRead     int `json:"rows_read"`
	RowsKept     int `json:"rows_kept"`
	RowsSkipped  int `json:"rows_skipped"`
	Duplicates   int `json:"duplicates"`
	Products     int `json:"products"`
	Years        int `json:"years"`
	MissingPCI   int `json:"missing_pci"`
	MissingValue int `json:"missing_value"`
}

// LoadPanel reads the product-year trade panel from a CSV file.
//
// Duplicate (product_code, year) rows collapse to the first occurrence.
// Rows with an empty product code or unparseable year are skipped and
// counted. Numeric columns coerce through domain.ParseNullFloat, so a row
// whose values are all missing still records the product as present that
// year. Records come back sorted by product code then year.
func (l *Loader) LoadPanel(ctx context.Context, path string) ([]domain.TradeRecord, *PanelStats, error) {
	file, err := l.openInput("panel", path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, errors.NewParsingError("failed to read panel header", err).WithContext("path", path)
	}

	productIdx, err := resolveColumn("panel", "product code", header, panelProductVariants)
	if err != nil {
		return nil, nil, err
	}
	yearIdx, err := resolveColumn("panel", "year", header, panelYearVariants)
	if err != nil {
		return nil, nil, err
	}
	exportIdx, err := resolveColumn("panel", "export value", header, panelExportVariants)
	if err != nil {
		return nil, nil, err
	}
	importIdx, err := resolveColumn("panel", "import value", header, panelImportVariants)
	if err != nil {
		return nil, nil, err
	}
	pciIdx, err := resolveColumn("panel", "pci", header, panelPCIVariants)
	if err != nil {
		return nil, nil, err
	}

	stats := &PanelStats{}
	seen := make(map[string]bool)
	years := make(map[int]bool)
	products := make(map[string]bool)
	var records []domain.TradeRecord

	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.NewParsingError("failed to read panel row", err).WithContext("path", path)
		}
		stats.RowsRead++

		code := domain.NormalizeCode(cell(row, productIdx), config.CoarseCodeWidth)
		if code == "" {
			stats.RowsSkipped++
			continue
		}

		year, err := strconv.Atoi(strings.TrimSpace(cell(row, yearIdx)))
		if err != nil {
			stats.RowsSkipped++
			continue
		}

		record := domain.TradeRecord{
			ProductCode: code,
			Year:        year,
			ExportValue: domain.ParseNullFloat(cell(row, exportIdx)),
			ImportValue: domain.ParseNullFloat(cell(row, importIdx)),
			PCI:         domain.ParseNullFloat(cell(row, pciIdx)),
		}

		// First occurrence wins for a duplicated product-year key.
		if seen[record.Key()] {
			stats.Duplicates++
			continue
		}
		seen[record.Key()] = true

		if !record.PCI.Valid {
			stats.MissingPCI++
		}
		if !record.ExportValue.Valid {
			stats.MissingValue++
		}

		years[year] = true
		products[code] = true
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].ProductCode != records[j].ProductCode {
			return records[i].ProductCode < records[j].ProductCode
		}
		return records[i].Year < records[j].Year
	})

	stats.RowsKept = len(records)
	stats.Products = len(products)
	stats.Years = len(years)

	l.logger.InfoContext(ctx, "Loaded trade panel",
		"path", path,
		"rows_read", stats.RowsRead,
		"rows_kept", stats.RowsKept,
		"duplicates", stats.Duplicates,
		"skipped", stats.RowsSkipped,
		"products", stats.Products,
		"years", stats.Years)

	return records, stats, nil
}

// PanelYears returns the distinct years present in the records, ascending.
func PanelYears(records []domain.TradeRecord) []int {
	set := make(map[int]bool)
	for _, r := range records {
		set[r.Year] = true
	}
	years := make([]int, 0, len(set))
	for y := range set {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
