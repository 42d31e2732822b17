// Package exporter renders finished report tables to their output formats.
//
// This package contains four main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, UTF-8 BOM for Excel compatibility, and the audit tables that
// record coverage gaps between the input tables.
//
// WorkbookExporter: Builds the combined multi-sheet Excel report holding
// diagnostics, industry aggregates, year frequency and the focal-year
// product ranking.
//
// PlotExporter: Renders PNG charts (PCI dispersion, allocated export by
// industry, panel coverage over time) under the plots directory.
//
// Console functions: Render the same tables to a terminal with colored
// section titles for interactive runs.
//
// Example usage:
//
//	// Create a CSV writer
//	writer := exporter.NewCSVWriter(paths)
//
//	// Write an audit table
//	err := writer.WriteUnmappedProducts(unmapped)
//
//	// Build and save the combined workbook
//	workbook := exporter.NewWorkbookExporter()
//	f, err := workbook.Export(exporter.WorkbookData{
//	    Diagnostics: diagnostics,
//	    Aggregates:  aggregates,
//	    Frequency:   counts,
//	    TopProducts: ranked,
//	    FocalYear:   1995,
//	})
//	err = f.SaveAs(paths.GetReportPath("hspanel_report.xlsx"))
//
// Every exporter preserves the missing-versus-zero distinction: missing
// values become empty CSV cells, empty workbook cells and "NA" console
// cells, never 0.
package exporter
