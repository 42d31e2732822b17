package dataload

import (
	"context"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"hspanel/internal/config"
	"hspanel/internal/errors"
	"hspanel/pkg/contracts/domain"
)

// Known header variants for the crosswalk table.
var (
	crosswalkFineVariants   = []string{"hs6", "hs_code", "hs92_6", "fine_code", "product_hs6", "hs", "sitc"}
	crosswalkCoarseVariants = []string{"industry4", "industry", "industry_code", "naics", "naics4", "sic", "isic", "coarse_code"}
	crosswalkWeightVariants = []string{"weight", "share", "value", "allocation", "emp_share"}
)

// CrosswalkStats reports what the crosswalk load kept and dropped.
type CrosswalkStats struct {
	RowsRead    int `json:"rows_read"`
	RowsKept    int `json:"rows_kept"`
	RowsSkipped int `json:"rows_skipped"`
	FineCodes   int `json:"fine_codes"`
}

// LoadCrosswalk reads the fine-to-coarse weight table. Files ending in .xlsx
// or .xlsm are read from their first sheet via excelize; anything else is
// treated as CSV. Fine codes are zero-padded to 6 digits and coarse codes to
// 4, since leading zeros rarely survive spreadsheet round-trips. Rows with a
// missing code or an unparseable or negative weight are skipped and counted.
func (l *Loader) LoadCrosswalk(ctx context.Context, path string) ([]domain.CrosswalkEdge, *CrosswalkStats, error) {
	rows, err := l.readTable("crosswalk", path)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, errors.NewParsingError("crosswalk table is empty", nil).WithContext("path", path)
	}

	header := rows[0]
	fineIdx, err := resolveColumn("crosswalk", "fine code", header, crosswalkFineVariants)
	if err != nil {
		return nil, nil, err
	}
	coarseIdx, err := resolveColumn("crosswalk", "coarse code", header, crosswalkCoarseVariants)
	if err != nil {
		return nil, nil, err
	}
	weightIdx, err := resolveColumn("crosswalk", "weight", header, crosswalkWeightVariants)
	if err != nil {
		return nil, nil, err
	}

	stats := &CrosswalkStats{}
	fineCodes := make(map[string]bool)
	var edges []domain.CrosswalkEdge

	for _, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		stats.RowsRead++

		fine := domain.NormalizeCode(cell(row, fineIdx), config.FineCodeWidth)
		coarse := domain.NormalizeCode(cell(row, coarseIdx), config.CoarseCodeWidth)
		weight := domain.ParseNullFloat(cell(row, weightIdx))

		if fine == "" || coarse == "" || !weight.Valid || weight.Value < 0 {
			stats.RowsSkipped++
			continue
		}

		fineCodes[fine] = true
		edges = append(edges, domain.CrosswalkEdge{
			FineCode:   fine,
			CoarseCode: coarse,
			Weight:     weight.Value,
		})
	}

	stats.RowsKept = len(edges)
	stats.FineCodes = len(fineCodes)

	l.logger.InfoContext(ctx, "Loaded crosswalk",
		"path", path,
		"rows_read", stats.RowsRead,
		"rows_kept", stats.RowsKept,
		"skipped", stats.RowsSkipped,
		"fine_codes", stats.FineCodes)

	return edges, stats, nil
}

// readTable returns the raw rows of a tabular input, dispatching on the file
// extension between the CSV and Excel paths.
func (l *Loader) readTable(input, path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return l.readExcel(input, path)
	default:
		return l.readCSV(input, path)
	}
}

func (l *Loader) readCSV(input, path string) ([][]string, error) {
	file, err := l.openInput(input, path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError("failed to read "+input+" row", err).WithContext("path", path)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (l *Loader) readExcel(input, path string) ([][]string, error) {
	if !config.FileExists(path) {
		return nil, errors.NewMissingInputError(input, path, nil)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewParsingError("failed to open "+input+" workbook", err).WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewParsingError(input+" workbook has no sheets", nil).WithContext("path", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.NewParsingError("failed to read "+input+" sheet", err).
			WithContext("path", path).
			WithContext("sheet", sheets[0])
	}
	return rows, nil
}
