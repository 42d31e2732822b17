package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/fatih/color"

	"hspanel/internal/allocation"
	"hspanel/internal/config"
	"hspanel/internal/dataload"
	"hspanel/internal/diagnostics"
	"hspanel/internal/exporter"
	"hspanel/internal/infrastructure"
	"hspanel/internal/validation"
	"hspanel/pkg/contracts"
	"hspanel/pkg/contracts/domain"
)

// panel-audit checks input coverage without allocating: which products have
// no dictionary label, which dictionary codes never show up in the focal
// year, and which products the crosswalk template cannot place.
func main() {
	yearFlag := flag.Int("year", 0, "focal year for the dictionary gap audit (defaults to the latest year in the panel)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	if *yearFlag != 0 {
		cfg.Pipeline.FocalYear = *yearFlag
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg.Logging.FilePath = paths.GetLogPath("panel_audit.log")
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	ctx := infrastructure.EnsureRunID(context.Background())
	started := time.Now()

	logger.InfoContext(ctx, "Starting panel audit",
		slog.String("run_id", infrastructure.GetRunID(ctx)),
		slog.String("version", contracts.Version))

	// The audit never reads industry titles, so only its three sources are
	// checked up front.
	validator := validation.NewFileValidator(logger)
	sources := []struct {
		input string
		path  string
	}{
		{"panel", paths.ResolveInput(cfg.Inputs.PanelFile)},
		{"dictionary", paths.ResolveInput(cfg.Inputs.DictionaryFile)},
		{"crosswalk", paths.ResolveInput(cfg.Inputs.CrosswalkFile)},
	}
	for _, source := range sources {
		if err := validator.ValidateSourceFile(source.input, source.path); err != nil {
			fatal(logger, "Source file validation failed", err)
		}
	}

	loader := dataload.NewLoader(logger)

	records, panelStats, err := loader.LoadPanel(ctx, paths.ResolveInput(cfg.Inputs.PanelFile))
	if err != nil {
		fatal(logger, "Failed to load panel", err)
	}
	entries, err := loader.LoadDictionary(ctx, paths.ResolveInput(cfg.Inputs.DictionaryFile))
	if err != nil {
		fatal(logger, "Failed to load dictionary", err)
	}
	labeled, unlabeled := dataload.AttachLabels(records, entries)

	edges, _, err := loader.LoadCrosswalk(ctx, paths.ResolveInput(cfg.Inputs.CrosswalkFile))
	if err != nil {
		fatal(logger, "Failed to load crosswalk", err)
	}

	years := dataload.PanelYears(labeled)
	if len(years) == 0 {
		fatal(logger, "Failed to resolve focal year", fmt.Errorf("panel contains no years"))
	}
	focalYear := cfg.Pipeline.FocalYear
	if focalYear == 0 {
		focalYear = years[len(years)-1]
	} else if !containsYear(years, focalYear) {
		fatal(logger, "Failed to resolve focal year",
			fmt.Errorf("year %d not present in panel (panel spans %d to %d)", focalYear, years[0], years[len(years)-1]))
	}

	missing := dataload.MissingFromYear(entries, labeled, focalYear)

	// The template decides mapped versus unmapped; no allocation runs here.
	allocator := allocation.NewAllocator(logger, allocation.AllocatorConfig{
		ShareTolerance: config.ShareTolerance,
	})
	template, err := allocator.BuildTemplate(ctx, edges)
	if err != nil {
		fatal(logger, "Failed to build allocation template", err)
	}
	unmapped := collectUnmapped(labeled, template)

	analyzer := diagnostics.NewAnalyzer(logger, diagnostics.DefaultAnalyzerConfig())
	diags, err := analyzer.GenerateFromRecords(ctx, labeled)
	if err != nil {
		fatal(logger, "Failed to generate diagnostics", err)
	}
	counts := diagnostics.YearFrequency(labeled)

	writer := exporter.NewCSVWriter(paths)
	if err := writer.WriteUnlabeledProducts(unlabeled); err != nil {
		fatal(logger, "Failed to write unlabeled products audit", err)
	}
	if err := writer.WriteMissingDictionaryCodes(missing); err != nil {
		fatal(logger, "Failed to write missing dictionary codes audit", err)
	}
	if err := writer.WriteUnmappedProducts(unmapped); err != nil {
		fatal(logger, "Failed to write unmapped products audit", err)
	}

	exporter.PrintYearFrequency(os.Stdout, counts)
	printBalance(diags, panelStats)
	printAuditSummary(focalYear, len(unlabeled), len(missing), len(unmapped))

	logger.InfoContext(ctx, "Panel audit completed",
		slog.Int("focal_year", focalYear),
		slog.Int("unlabeled", len(unlabeled)),
		slog.Int("missing_dictionary", len(missing)),
		slog.Int("unmapped", len(unmapped)),
		slog.Duration("duration", time.Since(started)))
	infrastructure.CloseLogFile()
}

// fatal logs the failure and exits. The log file is closed explicitly
// because os.Exit skips deferred calls.
func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, slog.String("error", err.Error()))
	infrastructure.CloseLogFile()
	os.Exit(1)
}

func containsYear(years []int, year int) bool {
	for _, candidate := range years {
		if candidate == year {
			return true
		}
	}
	return false
}

// collectUnmapped lists the product-years the template cannot place, without
// running the allocation itself.
func collectUnmapped(records []domain.TradeRecord, template domain.AllocationTemplate) []domain.UnmappedProduct {
	seen := make(map[string]bool)
	unmapped := make([]domain.UnmappedProduct, 0)

	for _, record := range records {
		if record.ProductCode == "" {
			continue
		}
		if _, ok := template.Entries(record.ProductCode); ok {
			continue
		}
		key := record.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		unmapped = append(unmapped, domain.UnmappedProduct{
			Year:        record.Year,
			Product4:    record.ProductCode,
			ExportValue: record.ExportValue,
		})
	}

	sort.Slice(unmapped, func(i, j int) bool {
		if unmapped[i].Year != unmapped[j].Year {
			return unmapped[i].Year < unmapped[j].Year
		}
		return unmapped[i].Product4 < unmapped[j].Product4
	})
	return unmapped
}

func printBalance(diags []domain.ProductDiagnostics, stats *dataload.PanelStats) {
	balanced := 0
	reenters := 0
	for _, diag := range diags {
		if diag.Balanced {
			balanced++
		}
		if diag.Reenters {
			reenters++
		}
	}

	color.New(color.FgYellow, color.Bold).Println("\n=== PANEL BALANCE ===")
	fmt.Printf("Products:        %d\n", len(diags))
	fmt.Printf("Balanced:        %d\n", balanced)
	fmt.Printf("Unbalanced:      %d\n", len(diags)-balanced)
	fmt.Printf("Reentering:      %d\n", reenters)
	fmt.Printf("Missing PCI:     %d\n", stats.MissingPCI)
	fmt.Printf("Missing values:  %d\n", stats.MissingValue)
}

func printAuditSummary(focalYear, unlabeled, missing, unmapped int) {
	color.New(color.FgYellow, color.Bold).Println("\n=== COVERAGE AUDITS ===")
	fmt.Printf("Unlabeled products:              %d\n", unlabeled)
	fmt.Printf("Missing dictionary codes (%d):  %d\n", focalYear, missing)
	fmt.Printf("Unmapped products:               %d\n", unmapped)

	total := unlabeled + missing + unmapped
	if total > 0 {
		color.New(color.FgRed).Printf("%d audit rows need review\n", total)
	} else {
		color.New(color.FgGreen).Println("no coverage gaps detected")
	}
}
