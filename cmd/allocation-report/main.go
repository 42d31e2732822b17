package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"hspanel/internal/allocation"
	"hspanel/internal/config"
	"hspanel/internal/dataload"
	"hspanel/internal/diagnostics"
	"hspanel/internal/exporter"
	"hspanel/internal/infrastructure"
	"hspanel/internal/validation"
	"hspanel/pkg/contracts"
)

func main() {
	yearFlag := flag.Int("year", 0, "year to report on (defaults to the latest year in the panel)")
	topFlag := flag.Int("top", 0, "row count for the rankings (defaults to config)")
	jsonFlag := flag.Bool("json", false, "also write the aggregate table as JSON")
	plotsFlag := flag.Bool("plots", false, "also render the industry chart")
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
	if *topFlag != 0 {
		cfg.Pipeline.TopN = *topFlag
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg.Logging.FilePath = paths.GetLogPath("allocation_report.log")
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	ctx := infrastructure.EnsureRunID(context.Background())
	started := time.Now()

	logger.InfoContext(ctx, "Starting allocation report",
		slog.String("run_id", infrastructure.GetRunID(ctx)),
		slog.String("version", contracts.Version))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateRunInputs(paths, cfg.Inputs); err != nil {
		fatal(logger, "Source file validation failed", err)
	}

	loader := dataload.NewLoader(logger)

	records, _, err := loader.LoadPanel(ctx, paths.ResolveInput(cfg.Inputs.PanelFile))
	if err != nil {
		fatal(logger, "Failed to load panel", err)
	}
	entries, err := loader.LoadDictionary(ctx, paths.ResolveInput(cfg.Inputs.DictionaryFile))
	if err != nil {
		fatal(logger, "Failed to load dictionary", err)
	}
	labeled, _ := dataload.AttachLabels(records, entries)

	edges, _, err := loader.LoadCrosswalk(ctx, paths.ResolveInput(cfg.Inputs.CrosswalkFile))
	if err != nil {
		fatal(logger, "Failed to load crosswalk", err)
	}
	titles, err := loader.LoadTitles(ctx, paths.ResolveInput(cfg.Inputs.TitlesFile))
	if err != nil {
		fatal(logger, "Failed to load industry titles", err)
	}

	years := dataload.PanelYears(labeled)
	if len(years) == 0 {
		fatal(logger, "Failed to resolve report year", fmt.Errorf("panel contains no years"))
	}
	reportYear := cfg.Pipeline.FocalYear
	if reportYear == 0 {
		reportYear = years[len(years)-1]
	} else if !containsYear(years, reportYear) {
		fatal(logger, "Failed to resolve report year",
			fmt.Errorf("year %d not present in panel (panel spans %d to %d)", reportYear, years[0], years[len(years)-1]))
	}

	allocator := allocation.NewAllocator(logger, allocation.AllocatorConfig{
		ShareTolerance: config.ShareTolerance,
		Workers:        cfg.EffectiveWorkers(),
	})

	template, err := allocator.BuildTemplate(ctx, edges)
	if err != nil {
		fatal(logger, "Failed to build allocation template", err)
	}

	results, err := allocator.AllocateFocalYear(ctx, reportYear, labeled, template, titles)
	if err != nil {
		fatal(logger, "Failed to allocate report year", err)
	}
	aggregates := allocation.CollectAggregates(results)
	if len(aggregates) == 0 {
		fatal(logger, "Nothing to report", fmt.Errorf("year %d produced no industry aggregates", reportYear))
	}

	csvPath := paths.GetAggregatesYearPath(reportYear)
	if err := allocation.SaveAggregatesCSV(aggregates, csvPath); err != nil {
		fatal(logger, "Failed to write aggregate table", err)
	}
	logger.InfoContext(ctx, "Wrote aggregate table",
		slog.String("path", csvPath),
		slog.Int("industries", len(aggregates)))

	if *jsonFlag {
		jsonPath := strings.TrimSuffix(csvPath, ".csv") + ".json"
		if err := allocation.SaveAggregatesJSON(aggregates, jsonPath); err != nil {
			fatal(logger, "Failed to write aggregate JSON", err)
		}
	}

	if *plotsFlag {
		plotter := exporter.NewPlotExporter(paths)
		chart := fmt.Sprintf("industry_pci_%d.png", reportYear)
		if err := plotter.SaveIndustryChart(aggregates, reportYear, cfg.Pipeline.TopN, chart); err != nil {
			logger.WarnContext(ctx, "Skipping industry chart", "error", err)
		}
	}

	ranked := diagnostics.TopByExport(labeled, reportYear, cfg.Pipeline.TopN)
	exporter.PrintTopIndustries(os.Stdout, reportYear, aggregates, cfg.Pipeline.TopN)
	exporter.PrintTopProducts(os.Stdout, reportYear, ranked)

	logger.InfoContext(ctx, "Allocation report completed",
		slog.Int("year", reportYear),
		slog.Int("industries", len(aggregates)),
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
