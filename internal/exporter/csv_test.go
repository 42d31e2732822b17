package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hspanel/internal/config"
)

// setupTestEnv roots a CSVWriter in a fresh temp directory.
func setupTestEnv(t *testing.T) (*CSVWriter, *config.Paths) {
	t.Helper()

	paths := config.PathsFrom(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())

	return NewCSVWriter(paths), paths
}

func TestNewCSVWriter(t *testing.T) {
	paths := &config.Paths{}
	writer := NewCSVWriter(paths)

	assert.NotNil(t, writer)
	assert.Equal(t, paths, writer.paths)
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, paths := setupTestEnv(t)

	tests := []struct {
		name        string
		filePath    string
		options     WriteOptions
		expectError bool
		validate    func(t *testing.T, filePath string)
	}{
		{
			name:     "basic write with headers",
			filePath: "test_basic.csv",
			options: WriteOptions{
				Headers: []string{"Year", "Product4", "ExportValue"},
				Records: [][]string{
					{"1995", "0101", "100.500"},
					{"1996", "5201", "87.250"},
				},
				Append:    false,
				BOMPrefix: false,
			},
			expectError: false,
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 3) // header + 2 records
				assert.Equal(t, "Year,Product4,ExportValue", lines[0])
				assert.Equal(t, "1995,0101,100.500", lines[1])
				assert.Equal(t, "1996,5201,87.250", lines[2])
			},
		},
		{
			name:     "write with BOM prefix",
			filePath: "test_bom.csv",
			options: WriteOptions{
				Headers: []string{"Code", "Label"},
				Records: [][]string{
					{"0101", "Live animals"},
				},
				Append:    false,
				BOMPrefix: true,
			},
			expectError: false,
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				// Check for UTF-8 BOM
				assert.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))

				contentWithoutBOM := content[3:]
				lines := strings.Split(strings.TrimSpace(string(contentWithoutBOM)), "\n")
				assert.Equal(t, "Code,Label", lines[0])
				assert.Equal(t, "0101,Live animals", lines[1])
			},
		},
		{
			name:     "write without headers",
			filePath: "test_no_headers.csv",
			options: WriteOptions{
				Headers: nil,
				Records: [][]string{
					{"1995", "3111"},
					{"1996", "3112"},
				},
				Append:    false,
				BOMPrefix: false,
			},
			expectError: false,
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 2) // only records, no headers
				assert.Equal(t, "1995,3111", lines[0])
				assert.Equal(t, "1996,3112", lines[1])
			},
		},
		{
			name:     "empty records",
			filePath: "test_empty.csv",
			options: WriteOptions{
				Headers:   []string{"Col1", "Col2"},
				Records:   [][]string{},
				Append:    false,
				BOMPrefix: false,
			},
			expectError: false,
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 1) // only headers
				assert.Equal(t, "Col1,Col2", lines[0])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writer.WriteCSV(tt.filePath, tt.options)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				tt.validate(t, paths.GetReportPath(tt.filePath))
			}
		})
	}
}

func TestCSVWriter_AppendToCSV(t *testing.T) {
	writer, paths := setupTestEnv(t)

	filePath := "append_test.csv"

	initialRecords := [][]string{
		{"1995", "0101"},
		{"1995", "5201"},
	}
	err := writer.WriteSimpleCSV(filePath, []string{"Year", "Product4"}, initialRecords)
	require.NoError(t, err)

	appendRecords := [][]string{
		{"1996", "0101"},
		{"1996", "7302"},
	}
	err = writer.AppendToCSV(filePath, appendRecords)
	assert.NoError(t, err)

	content, err := os.ReadFile(paths.GetReportPath(filePath))
	require.NoError(t, err)

	// Remove BOM for easier parsing
	contentWithoutBOM := content[3:]
	lines := strings.Split(strings.TrimSpace(string(contentWithoutBOM)), "\n")

	assert.Len(t, lines, 5) // header + 2 initial + 2 appended
	assert.Equal(t, "Year,Product4", lines[0])
	assert.Equal(t, "1995,0101", lines[1])
	assert.Equal(t, "1995,5201", lines[2])
	assert.Equal(t, "1996,0101", lines[3])
	assert.Equal(t, "1996,7302", lines[4])
}

func TestCSVWriter_ResolvePath(t *testing.T) {
	writer, paths := setupTestEnv(t)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "absolute path passes through",
			input:    filepath.Join(paths.ExecutableDir, "elsewhere", "file.csv"),
			expected: filepath.Join(paths.ExecutableDir, "elsewhere", "file.csv"),
		},
		{
			name:     "audits prefix resolves to audits directory",
			input:    "audits/unmapped_products.csv",
			expected: filepath.Join(paths.AuditsDir, "unmapped_products.csv"),
		},
		{
			name:     "plots prefix resolves to plots directory",
			input:    "plots/coverage.csv",
			expected: filepath.Join(paths.PlotsDir, "coverage.csv"),
		},
		{
			name:     "bare name defaults to reports directory",
			input:    "product_diagnostics.csv",
			expected: filepath.Join(paths.ReportsDir, "product_diagnostics.csv"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, writer.resolvePath(tt.input))
		})
	}
}

func TestCSVWriter_SpecialCharacters(t *testing.T) {
	writer, paths := setupTestEnv(t)

	// Dictionary labels contain commas, quotes and non-ASCII text; the CSV
	// layer must escape them so a reader gets the original cells back.
	headers := []string{"Code", "Label", "Notes"}
	records := [][]string{
		{"0101", "Horses, asses, mules", "live \"equine\" animals"},
		{"0904", "Piments du genre Capsicum", "séchés ou broyés"},
	}

	err := writer.WriteSimpleCSV("special_chars.csv", headers, records)
	assert.NoError(t, err)

	file, err := os.Open(paths.GetReportPath("special_chars.csv"))
	require.NoError(t, err)
	defer file.Close()

	// Skip BOM
	bom := make([]byte, 3)
	_, err = file.Read(bom)
	require.NoError(t, err)

	reader := csv.NewReader(file)
	allRecords, err := reader.ReadAll()
	require.NoError(t, err)

	require.Len(t, allRecords, 3) // header + 2 records
	assert.Equal(t, headers, allRecords[0])
	assert.Equal(t, "Horses, asses, mules", allRecords[1][1])
	assert.Equal(t, "live \"equine\" animals", allRecords[1][2])
	assert.Equal(t, "Piments du genre Capsicum", allRecords[2][1])
}

func TestCSVWriter_StreamWriter(t *testing.T) {
	writer, paths := setupTestEnv(t)

	stream, err := writer.CreateStreamWriter("stream_test.csv", []string{"Year", "Industry4", "Total"})
	require.NoError(t, err)

	require.NoError(t, stream.WriteRecord([]string{"1995", "3111", "75.000"}))
	require.NoError(t, stream.WriteRecord([]string{"1995", "3112", "25.000"}))
	require.NoError(t, stream.Close())

	content, err := os.ReadFile(paths.GetReportPath("stream_test.csv"))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))

	lines := strings.Split(strings.TrimSpace(string(content[3:])), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "Year,Industry4,Total", lines[0])
	assert.Equal(t, "1995,3111,75.000", lines[1])
	assert.Equal(t, "1995,3112,25.000", lines[2])
}

func TestCSVWriter_CreatesMissingDirectories(t *testing.T) {
	// No EnsureDirectories call; the writer must create what it needs.
	paths := config.PathsFrom(t.TempDir())
	writer := NewCSVWriter(paths)

	err := writer.WriteSimpleCSV("audits/fresh.csv", []string{"Code"}, [][]string{{"0101"}})
	assert.NoError(t, err)

	_, err = os.Stat(paths.GetAuditPath("fresh.csv"))
	assert.NoError(t, err)
}
