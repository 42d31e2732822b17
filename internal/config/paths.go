package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for ALL file paths in the application.
type Paths struct {
	ExecutableDir string
	DataDir       string
	ReportsDir    string
	PlotsDir      string
	AuditsDir     string
	LogsDir       string

	// Well-known report files
	DiagnosticsCSV   string
	AggregatesCSV    string
	YearFrequencyCSV string
	SummaryReport    string
	Workbook         string
	Manifest         string
}

// GetPaths returns the application paths relative to the executable location.
// All paths are ALWAYS relative to the executable directory, never the
// current working directory, so the binary behaves the same wherever it is
// invoked from.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	return PathsFrom(filepath.Dir(exe)), nil
}

// PathsFrom builds the path set rooted at the given directory.
// Split out of GetPaths so tests can root everything in a temp dir.
//
// Directory structure:
//
//	<root>/
//	  ├── config.yaml
//	  ├── .env
//	  ├── data/              (input tables)
//	  ├── reports/           (generated tables, workbook, manifest)
//	  │   ├── audits/        (coverage audit tables)
//	  │   └── plots/         (PNG charts)
//	  └── logs/              (run logs)
func PathsFrom(root string) *Paths {
	dataDir := filepath.Join(root, DefaultDataDir)
	reportsDir := filepath.Join(root, DefaultReportsDir)
	auditsDir := filepath.Join(reportsDir, "audits")
	plotsDir := filepath.Join(reportsDir, "plots")

	return &Paths{
		ExecutableDir: root,
		DataDir:       dataDir,
		ReportsDir:    reportsDir,
		PlotsDir:      plotsDir,
		AuditsDir:     auditsDir,
		LogsDir:       filepath.Join(root, DefaultLogsDir),

		DiagnosticsCSV:   filepath.Join(reportsDir, DiagnosticsCSVName),
		AggregatesCSV:    filepath.Join(reportsDir, AggregatesCSVName),
		YearFrequencyCSV: filepath.Join(reportsDir, YearFrequencyCSVName),
		SummaryReport:    filepath.Join(reportsDir, SummaryReportName),
		Workbook:         filepath.Join(reportsDir, WorkbookName),
		Manifest:         filepath.Join(reportsDir, ManifestName),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.ReportsDir,
		p.AuditsDir,
		p.PlotsDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}

	return nil
}

// ResolveInput resolves an input file name against the data directory.
// Absolute paths pass through untouched.
func (p *Paths) ResolveInput(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.DataDir, name)
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetAuditPath returns the path for a coverage audit table
func (p *Paths) GetAuditPath(filename string) string {
	return filepath.Join(p.AuditsDir, filename)
}

// GetPlotPath returns the path for a generated chart
func (p *Paths) GetPlotPath(filename string) string {
	return filepath.Join(p.PlotsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetAggregatesYearPath returns the path for a focal-year aggregate table,
// e.g. industry_aggregates_1998.csv.
func (p *Paths) GetAggregatesYearPath(year int) string {
	return filepath.Join(p.ReportsDir, fmt.Sprintf("industry_aggregates_%d.csv", year))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution() {
	logger := slog.Default()
	if logger == nil {
		return
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("data", p.DataDir),
			slog.String("reports", p.ReportsDir),
			slog.String("audits", p.AuditsDir),
			slog.String("plots", p.PlotsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("report_files",
			slog.String("diagnostics_csv", p.DiagnosticsCSV),
			slog.String("aggregates_csv", p.AggregatesCSV),
			slog.String("summary", p.SummaryReport),
			slog.String("workbook", p.Workbook),
			slog.String("manifest", p.Manifest),
		))
}
