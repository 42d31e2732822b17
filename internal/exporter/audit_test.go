package exporter

import (
	"encoding/csv"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hspanel/internal/config"
	"hspanel/pkg/contracts/domain"
)

// readAuditTable parses an audit CSV back into rows, skipping the BOM.
func readAuditTable(t *testing.T, path string) [][]string {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	bom := make([]byte, 3)
	_, err = file.Read(bom)
	require.NoError(t, err)
	require.Equal(t, []byte{0xEF, 0xBB, 0xBF}, bom)

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVWriter_WriteUnlabeledProducts(t *testing.T) {
	writer, paths := setupTestEnv(t)

	err := writer.WriteUnlabeledProducts([]domain.UnlabeledProduct{
		{ProductCode: "0042", Years: []int{1995, 1997}},
		{ProductCode: "9999", Years: []int{1996}},
	})
	require.NoError(t, err)

	rows := readAuditTable(t, paths.GetAuditPath(config.UnlabeledAuditName))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ProductCode", "Years", "YearCount"}, rows[0])
	assert.Equal(t, []string{"0042", "1995;1997", "2"}, rows[1])
	assert.Equal(t, []string{"9999", "1996", "1"}, rows[2])
}

func TestCSVWriter_WriteMissingDictionaryCodes(t *testing.T) {
	writer, paths := setupTestEnv(t)

	err := writer.WriteMissingDictionaryCodes([]domain.MissingDictionaryCode{
		{Code: "0102", Label: "Bovine animals, live"},
		{Code: "0203"},
	})
	require.NoError(t, err)

	rows := readAuditTable(t, paths.GetAuditPath(config.MissingCodesAuditName))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Code", "Label"}, rows[0])
	assert.Equal(t, []string{"0102", "Bovine animals, live"}, rows[1])
	assert.Equal(t, []string{"0203", ""}, rows[2])
}

func TestCSVWriter_WriteUnmappedProducts(t *testing.T) {
	writer, paths := setupTestEnv(t)

	err := writer.WriteUnmappedProducts([]domain.UnmappedProduct{
		{Year: 1995, Product4: "7777", ExportValue: domain.Float(12.5)},
		{Year: 1996, Product4: "8888", ExportValue: domain.MissingFloat()},
	})
	require.NoError(t, err)

	rows := readAuditTable(t, paths.GetAuditPath(config.UnmappedAuditName))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Year", "Product4", "ExportValue"}, rows[0])
	assert.Equal(t, []string{"1995", "7777", "12.500"}, rows[1])
	assert.Equal(t, []string{"1996", "8888", ""}, rows[2],
		"missing export must stay an empty cell")
}

func TestCSVWriter_WriteUntitledIndustries(t *testing.T) {
	writer, paths := setupTestEnv(t)

	err := writer.WriteUntitledIndustries([]domain.UntitledIndustry{
		{Year: 1995, Industry4: "3211"},
		{Year: 1996, Industry4: "3909"},
	})
	require.NoError(t, err)

	rows := readAuditTable(t, paths.GetAuditPath(config.UntitledAuditName))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Year", "Industry4"}, rows[0])
	assert.Equal(t, []string{"1995", "3211"}, rows[1])
	assert.Equal(t, []string{"1996", "3909"}, rows[2])
}

func TestCSVWriter_EmptyAuditsStillWriteHeaders(t *testing.T) {
	writer, paths := setupTestEnv(t)

	require.NoError(t, writer.WriteUnmappedProducts(nil))

	rows := readAuditTable(t, paths.GetAuditPath(config.UnmappedAuditName))
	require.Len(t, rows, 1, "an empty audit still produces a header-only file")
	assert.Equal(t, []string{"Year", "Product4", "ExportValue"}, rows[0])
}
