package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

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

func main() {
	yearFlag := flag.Int("year", 0, "focal year for per-year tables (defaults to the latest year in the panel)")
	workersFlag := flag.Int("workers", 0, "parallel year allocations (defaults to CPU count)")
	topFlag := flag.Int("top", 0, "row count for top-by-export rankings (defaults to config)")
	noPlots := flag.Bool("no-plots", false, "skip PNG chart generation")
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

	// Flags win over environment and file configuration.
	if *yearFlag != 0 {
		cfg.Pipeline.FocalYear = *yearFlag
	}
	if *workersFlag != 0 {
		cfg.Pipeline.Workers = *workersFlag
	}
	if *topFlag != 0 {
		cfg.Pipeline.TopN = *topFlag
	}
	if *noPlots {
		cfg.Pipeline.Plots = false
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg.Logging.FilePath = paths.GetLogPath("pipeline.log")
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	ctx := infrastructure.EnsureRunID(context.Background())
	started := time.Now()

	logger.InfoContext(ctx, "Starting HS panel pipeline",
		slog.String("run_id", infrastructure.GetRunID(ctx)),
		slog.String("version", contracts.Version),
		slog.Int("workers", cfg.EffectiveWorkers()))
	paths.LogPathResolution()

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateRunInputs(paths, cfg.Inputs); err != nil {
		fatal(logger, "Source file validation failed", err)
	}
	if err := validator.ValidateOutputDirectory(paths.ReportsDir); err != nil {
		fatal(logger, "Output directory validation failed", err)
	}

	loader := dataload.NewLoader(logger)

	panelPath := paths.ResolveInput(cfg.Inputs.PanelFile)
	records, panelStats, err := loader.LoadPanel(ctx, panelPath)
	if err != nil {
		fatal(logger, "Failed to load panel", err)
	}

	entries, err := loader.LoadDictionary(ctx, paths.ResolveInput(cfg.Inputs.DictionaryFile))
	if err != nil {
		fatal(logger, "Failed to load dictionary", err)
	}

	labeled, unlabeled := dataload.AttachLabels(records, entries)

	edges, crosswalkStats, err := loader.LoadCrosswalk(ctx, paths.ResolveInput(cfg.Inputs.CrosswalkFile))
	if err != nil {
		fatal(logger, "Failed to load crosswalk", err)
	}

	titles, err := loader.LoadTitles(ctx, paths.ResolveInput(cfg.Inputs.TitlesFile))
	if err != nil {
		fatal(logger, "Failed to load industry titles", err)
	}

	years := dataload.PanelYears(labeled)
	focalYear, err := resolveFocalYear(cfg.Pipeline.FocalYear, years)
	if err != nil {
		fatal(logger, "Failed to resolve focal year", err)
	}
	logger.InfoContext(ctx, "Inputs loaded",
		slog.Int("panel_rows", panelStats.RowsKept),
		slog.Int("years", len(years)),
		slog.Int("focal_year", focalYear))

	missing := dataload.MissingFromYear(entries, labeled, focalYear)

	analyzer := diagnostics.NewAnalyzer(logger, diagnostics.DefaultAnalyzerConfig())
	diags, err := analyzer.GenerateFromRecords(ctx, labeled)
	if err != nil {
		fatal(logger, "Failed to generate diagnostics", err)
	}
	counts := diagnostics.YearFrequency(labeled)
	ranked := diagnostics.TopByExport(labeled, focalYear, cfg.Pipeline.TopN)

	allocator := allocation.NewAllocator(logger, allocation.AllocatorConfig{
		ShareTolerance: config.ShareTolerance,
		Workers:        cfg.EffectiveWorkers(),
	})

	template, err := allocator.BuildTemplate(ctx, edges)
	if err != nil {
		fatal(logger, "Failed to build allocation template", err)
	}

	results, err := allocator.AllocateAll(ctx, labeled, template, titles)
	if err != nil {
		fatal(logger, "Failed to allocate panel", err)
	}

	aggregates := allocation.CollectAggregates(results)
	unmapped := allocation.CollectUnmapped(results)
	untitled := allocation.CollectUntitled(results)

	// Report tables
	if err := analyzer.WriteCSV(ctx, paths.DiagnosticsCSV, diags); err != nil {
		fatal(logger, "Failed to write diagnostics table", err)
	}
	if err := analyzer.WriteFrequencyCSV(ctx, paths.YearFrequencyCSV, counts); err != nil {
		fatal(logger, "Failed to write year frequency table", err)
	}

	if len(aggregates) > 0 {
		if err := allocation.SaveAggregatesCSV(aggregates, paths.AggregatesCSV); err != nil {
			fatal(logger, "Failed to write aggregates table", err)
		}
	} else {
		logger.WarnContext(ctx, "No industry aggregates produced, skipping table")
	}

	focalAggregates := filterYearAggregates(aggregates, focalYear)
	if len(focalAggregates) > 0 {
		if err := allocation.SaveAggregatesCSV(focalAggregates, paths.GetAggregatesYearPath(focalYear)); err != nil {
			fatal(logger, "Failed to write focal year aggregates table", err)
		}
	} else {
		logger.WarnContext(ctx, "No aggregates for focal year, skipping table",
			slog.Int("focal_year", focalYear))
	}

	if err := allocation.SaveSummaryReport(results, focalYear, cfg.Pipeline.TopN, paths.SummaryReport); err != nil {
		fatal(logger, "Failed to write summary report", err)
	}

	// Coverage audits
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
	if err := writer.WriteUntitledIndustries(untitled); err != nil {
		fatal(logger, "Failed to write untitled industries audit", err)
	}

	// Combined workbook
	workbook, err := exporter.NewWorkbookExporter().Export(exporter.WorkbookData{
		Diagnostics: diags,
		Aggregates:  aggregates,
		Frequency:   counts,
		TopProducts: ranked,
		FocalYear:   focalYear,
	})
	if err != nil {
		fatal(logger, "Failed to build report workbook", err)
	}
	if err := workbook.SaveAs(paths.Workbook); err != nil {
		workbook.Close()
		fatal(logger, "Failed to save report workbook", err)
	}
	workbook.Close()

	// Charts are optional output: a panel too thin to chart is not a failed
	// run, so chart errors degrade to warnings.
	if cfg.Pipeline.Plots {
		plotter := exporter.NewPlotExporter(paths)
		if err := plotter.SaveDispersionChart(diags, cfg.Pipeline.TopN, "pci_dispersion.png"); err != nil {
			logger.WarnContext(ctx, "Skipping dispersion chart", "error", err)
		}
		if err := plotter.SaveIndustryChart(aggregates, focalYear, cfg.Pipeline.TopN, fmt.Sprintf("industry_pci_%d.png", focalYear)); err != nil {
			logger.WarnContext(ctx, "Skipping industry chart", "error", err)
		}
		if err := plotter.SaveCoverageChart(counts, "panel_coverage.png"); err != nil {
			logger.WarnContext(ctx, "Skipping coverage chart", "error", err)
		}
	}

	manifest := runManifest{
		RunID:      infrastructure.GetRunID(ctx),
		App:        config.AppName,
		Version:    contracts.Version,
		StartedAt:  started.UTC(),
		FinishedAt: time.Now().UTC(),
		FocalYear:  focalYear,
		Workers:    cfg.EffectiveWorkers(),
		Inputs: map[string]string{
			"panel":      panelPath,
			"dictionary": paths.ResolveInput(cfg.Inputs.DictionaryFile),
			"crosswalk":  paths.ResolveInput(cfg.Inputs.CrosswalkFile),
			"titles":     paths.ResolveInput(cfg.Inputs.TitlesFile),
		},
		Panel:     panelStats,
		Crosswalk: crosswalkStats,
		TableRows: map[string]int{
			"diagnostics":         len(diags),
			"year_frequency":      len(counts),
			"industry_aggregates": len(aggregates),
			"focal_aggregates":    len(focalAggregates),
			"top_products":        len(ranked),
		},
		AuditRows: map[string]int{
			"unlabeled_products":       len(unlabeled),
			"missing_dictionary_codes": len(missing),
			"unmapped_products":        len(unmapped),
			"untitled_industries":      len(untitled),
		},
	}
	if err := writeManifest(paths.Manifest, manifest); err != nil {
		fatal(logger, "Failed to write run manifest", err)
	}

	exporter.PrintAuditCounts(os.Stdout, len(unlabeled), len(missing), len(unmapped), len(untitled))

	logger.InfoContext(ctx, "Pipeline completed",
		slog.Int("years", len(years)),
		slog.Int("products", panelStats.Products),
		slog.Int("aggregates", len(aggregates)),
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

// resolveFocalYear maps the configured focal year onto the panel. Zero means
// the latest year present; a configured year absent from the panel is fatal.
func resolveFocalYear(configured int, years []int) (int, error) {
	if len(years) == 0 {
		return 0, fmt.Errorf("panel contains no years")
	}
	if configured == 0 {
		return years[len(years)-1], nil
	}
	for _, year := range years {
		if year == configured {
			return configured, nil
		}
	}
	return 0, fmt.Errorf("focal year %d not present in panel (panel spans %d to %d)",
		configured, years[0], years[len(years)-1])
}

func filterYearAggregates(aggregates []domain.IndustryAggregate, year int) []domain.IndustryAggregate {
	subset := make([]domain.IndustryAggregate, 0)
	for _, aggregate := range aggregates {
		if aggregate.Year == year {
			subset = append(subset, aggregate)
		}
	}
	return subset
}

// runManifest records what a run read, produced and skipped, so output
// directories stay auditable after the fact.
type runManifest struct {
	RunID      string                   `json:"run_id"`
	App        string                   `json:"app"`
	Version    string                   `json:"version"`
	StartedAt  time.Time                `json:"started_at"`
	FinishedAt time.Time                `json:"finished_at"`
	FocalYear  int                      `json:"focal_year"`
	Workers    int                      `json:"workers"`
	Inputs     map[string]string        `json:"inputs"`
	Panel      *dataload.PanelStats     `json:"panel"`
	Crosswalk  *dataload.CrosswalkStats `json:"crosswalk"`
	TableRows  map[string]int           `json:"table_rows"`
	AuditRows  map[string]int           `json:"audit_rows"`
}

func writeManifest(path string, manifest runManifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
