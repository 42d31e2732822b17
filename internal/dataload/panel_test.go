package dataload

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "hspanel/internal/errors"
	"hspanel/pkg/contracts/domain"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadPanel(t *testing.T) {
	csv := `product_code,year,export_value,import_value,pci
0101,1995,1000.5,200,0.42
0101,1996,1100,,0.44
101,1997,1200,250,NA
8703,1995,50000,100,1.9
0101,1995,9999,9999,9.9
,1995,1,1,1
0202,banana,1,1,1
`
	loader := NewLoader(nil)
	records, stats, err := loader.LoadPanel(context.Background(), writeFixture(t, "panel.csv", csv))
	require.NoError(t, err)

	// 7 data rows: one duplicate dropped, one empty code skipped, one bad year skipped.
	assert.Equal(t, 7, stats.RowsRead)
	assert.Equal(t, 4, stats.RowsKept)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, 2, stats.RowsSkipped)
	assert.Equal(t, 2, stats.Products)
	assert.Equal(t, 3, stats.Years)
	require.Len(t, records, 4)

	// Sorted by product code then year.
	assert.Equal(t, "0101", records[0].ProductCode)
	assert.Equal(t, 1995, records[0].Year)
	assert.Equal(t, "0101", records[2].ProductCode)
	assert.Equal(t, 1997, records[2].Year)
	assert.Equal(t, "8703", records[3].ProductCode)

	// First occurrence wins for the duplicated 0101/1995 row.
	assert.Equal(t, domain.Float(1000.5), records[0].ExportValue)

	// "101" zero-pads to 0101 and its NA PCI stays missing.
	assert.False(t, records[2].PCI.Valid)
	assert.True(t, records[2].ExportValue.Valid)

	// Empty import cell stays missing, not zero.
	assert.False(t, records[1].ImportValue.Valid)
}

func TestLoadPanelAlternateHeaders(t *testing.T) {
	csv := `commoditycode,yr,exports,imports,product_complexity_index
0101,1995,10,20,0.5
`
	loader := NewLoader(nil)
	records, _, err := loader.LoadPanel(context.Background(), writeFixture(t, "panel.csv", csv))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "0101", records[0].ProductCode)
	assert.Equal(t, domain.Float(0.5), records[0].PCI)
}

func TestLoadPanelSchemaMismatch(t *testing.T) {
	csv := `product_code,year,export_value,import_value
0101,1995,10,20
`
	loader := NewLoader(nil)
	_, _, err := loader.LoadPanel(context.Background(), writeFixture(t, "panel.csv", csv))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchemaMismatch))
	assert.Contains(t, err.Error(), "pci")
}

func TestLoadPanelMissingFile(t *testing.T) {
	loader := NewLoader(nil)
	_, _, err := loader.LoadPanel(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingInput))
	assert.Contains(t, err.Error(), "nope.csv")
}

func TestPanelYears(t *testing.T) {
	records := []domain.TradeRecord{
		{ProductCode: "0101", Year: 1997},
		{ProductCode: "0101", Year: 1995},
		{ProductCode: "8703", Year: 1995},
	}
	assert.Equal(t, []int{1995, 1997}, PanelYears(records))
	assert.Empty(t, PanelYears(nil))
}
