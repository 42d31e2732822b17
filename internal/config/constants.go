package config

// Application constants for the HS panel pipeline
const (
	// Application Info
	AppName = "HS Panel Pipeline"

	// EnvPrefix namespaces all environment variables (HSP_*)
	EnvPrefix = "HSP"

	// File Paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultReportsDir = "reports"
	DefaultLogsDir    = "logs"
	DefaultPlotsDir   = "reports/plots"
	DefaultAuditsDir  = "reports/audits"

	// Well-known input file names
	DefaultPanelFile      = "hs92_panel.csv"
	DefaultDictionaryFile = "hs_labels.json"
	DefaultCrosswalkFile  = "hs6_industry_crosswalk.csv"
	DefaultTitlesFile     = "industry_titles.csv"

	// Well-known output file names
	DiagnosticsCSVName    = "diagnostics.csv"
	AggregatesCSVName     = "industry_aggregates.csv"
	YearFrequencyCSVName  = "year_frequency.csv"
	SummaryReportName     = "allocation_summary.txt"
	WorkbookName          = "hspanel_report.xlsx"
	ManifestName          = "run_manifest.json"
	UnlabeledAuditName    = "audit_unlabeled_products.csv"
	MissingCodesAuditName = "audit_missing_dictionary_codes.csv"
	UnmappedAuditName     = "audit_unmapped_products.csv"
	UntitledAuditName     = "audit_untitled_industries.csv"

	// Code widths. HS fine codes are 6 digits, products and industries 4.
	FineCodeWidth   = 6
	CoarseCodeWidth = 4

	// ShareTolerance bounds the renormalization check: per-product shares
	// must sum to 1 within this tolerance.
	ShareTolerance = 1e-9

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)
