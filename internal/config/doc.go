// Package config provides centralized configuration management for the HS
// panel pipeline. It handles loading configuration from multiple sources,
// validation, and provides a type-safe API for accessing configuration values
// throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (config.yaml)
//	3. Default values (lowest priority)
//
// A .env file next to the binary is loaded into the environment before
// processing, so local runs can keep their settings in one place.
//
// # Environment Variables
//
// All environment variables follow the pattern HSP_* for namespacing:
//
//	HSP_PIPELINE_FOCAL_YEAR=1998
//	HSP_PIPELINE_WORKERS=8
//	HSP_INPUTS_PANEL_FILE=data/hs92_panel.csv
//	HSP_LOGGING_LEVEL=debug
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which handles all file system paths relative to the executable location:
//
//	paths, err := config.GetPaths()
//	reportPath := paths.GetReportPath("diagnostics.csv")
//	plotPath := paths.GetPlotPath("pci_dispersion.png")
//
// # Validation
//
// All configuration is validated at load time with go-playground/validator
// plus a few cross-field checks, so a bad focal year or worker count fails
// the run before any input is read.
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
