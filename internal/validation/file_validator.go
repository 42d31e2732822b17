package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"hspanel/internal/config"
	"hspanel/internal/errors"
)

// FileValidator runs pre-flight checks over the run's source files and
// output directories, so a misconfigured run fails before any parsing
// starts rather than partway through a long pipeline.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator.
// A nil logger falls back to slog.Default().
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// Extensions the loaders can actually parse, per input. The panel reader
// is CSV-only; the crosswalk and titles readers dispatch on extension.
var (
	csvOnly   = []string{".csv"}
	jsonOnly  = []string{".json"}
	csvOrExcel = []string{".csv", ".xlsx"}
)

// ValidateSourceFile checks that a required source file exists, is a
// regular file, and can be opened for reading. A zero-byte file is
// tolerated with a warning; the loader reports the real schema error.
func (v *FileValidator) ValidateSourceFile(input, path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Source file does not exist",
			slog.String("input", input),
			slog.String("path", path))
		return errors.NewMissingInputError(input, path, err)
	}
	if err != nil {
		v.logger.Error("Failed to stat source file",
			slog.String("input", input),
			slog.String("path", path),
			slog.String("error", err.Error()))
		return errors.NewStorageError("failed to stat "+input, err).WithContext("path", path)
	}
	if info.IsDir() {
		v.logger.Error("Source path is a directory, not a file",
			slog.String("input", input),
			slog.String("path", path))
		return errors.NewAppValidationError(fmt.Sprintf("%s path %s is a directory, not a file", input, path))
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Source file is not readable",
			slog.String("input", input),
			slog.String("path", path),
			slog.String("error", err.Error()))
		return errors.NewStorageError(input+" is not readable", err).WithContext("path", path)
	}
	file.Close()

	if info.Size() == 0 {
		v.logger.Warn("Source file is empty",
			slog.String("input", input),
			slog.String("path", path))
	}

	v.logger.Debug("Source file validated",
		slog.String("input", input),
		slog.String("path", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateExtension checks that the file carries an extension the loader
// for this input can parse, and rejects Excel lock files left behind by
// an open workbook.
func (v *FileValidator) ValidateExtension(input, path string, allowed []string) error {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Source file is an Excel lock file",
			slog.String("input", input),
			slog.String("path", path))
		return errors.NewAppValidationError(fmt.Sprintf("%s path %s is an Excel lock file", input, path))
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}

	v.logger.Error("Source file has an unsupported extension",
		slog.String("input", input),
		slog.String("path", path),
		slog.String("extension", ext))
	return errors.NewAppValidationError(fmt.Sprintf("%s path %s has unsupported extension %q (expected %s)",
		input, path, ext, strings.Join(allowed, " or ")))
}

// ValidateRunInputs validates all four source files named by the inputs
// configuration, resolved against the data directory. It stops at the
// first failure so the log points at one concrete file to fix.
func (v *FileValidator) ValidateRunInputs(paths *config.Paths, inputs config.InputsConfig) error {
	checks := []struct {
		input   string
		path    string
		allowed []string
	}{
		{"panel", paths.ResolveInput(inputs.PanelFile), csvOnly},
		{"dictionary", paths.ResolveInput(inputs.DictionaryFile), jsonOnly},
		{"crosswalk", paths.ResolveInput(inputs.CrosswalkFile), csvOrExcel},
		{"industry_titles", paths.ResolveInput(inputs.TitlesFile), csvOrExcel},
	}

	for _, check := range checks {
		if err := v.ValidateSourceFile(check.input, check.path); err != nil {
			return err
		}
		if err := v.ValidateExtension(check.input, check.path, check.allowed); err != nil {
			return err
		}
	}

	v.logger.Info("Source files validated",
		slog.Int("files", len(checks)),
		slog.String("data_dir", paths.DataDir))
	return nil
}

// ValidateOutputDirectory ensures the output directory exists and is
// writable by probing with a throwaway file.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError("failed to create output directory", err).WithContext("directory", dir)
	}

	probe := filepath.Join(dir, ".write_test")
	file, err := os.Create(probe)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError("output directory is not writable", err).WithContext("directory", dir)
	}
	file.Close()
	os.Remove(probe)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
