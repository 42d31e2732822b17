package domain

// ProductDiagnostics summarizes one product code's behavior across the panel:
// dispersion of its numeric fields over the years it appears, and the shape
// of its presence on the year axis.
type ProductDiagnostics struct {
	ProductCode string `json:"product_code" csv:"ProductCode"`
	Label       string `json:"label,omitempty" csv:"Label,omitempty"`

	// Sample standard deviations computed over present values only.
	// Fewer than two present observations leaves the deviation missing.
	PCISD    NullFloat `json:"pci_sd" csv:"PCISD"`
	ExportSD NullFloat `json:"export_sd" csv:"ExportSD"`
	ImportSD NullFloat `json:"import_sd" csv:"ImportSD"`

	// PCIChanged is true iff PCISD is present and strictly positive.
	// ValuesChanged is the same test applied to ExportSD or ImportSD.
	PCIChanged    bool `json:"pci_changed" csv:"PCIChanged"`
	ValuesChanged bool `json:"values_changed" csv:"ValuesChanged"`

	// Presence pattern after product-year deduplication.
	YearsPresent int  `json:"years_present" csv:"YearsPresent"`
	FirstYear    int  `json:"first_year" csv:"FirstYear"`
	LastYear     int  `json:"last_year" csv:"LastYear"`
	Reenters     bool `json:"reenters" csv:"Reenters"`
	Balanced     bool `json:"balanced" csv:"Balanced"`
}

// YearCount is one row of the panel frequency table: how many products were
// observed in a year and the total export value they reported.
type YearCount struct {
	Year          int       `json:"year" csv:"Year"`
	ProductCount  int       `json:"product_count" csv:"ProductCount"`
	TotalExport   float64   `json:"total_export" csv:"TotalExport"`
	MissingPCI    int       `json:"missing_pci" csv:"MissingPCI"`
	MissingExport int       `json:"missing_export" csv:"MissingExport"`
	MeanPCI       NullFloat `json:"mean_pci" csv:"MeanPCI"`
}

// RankedProduct is one row of a top-N-by-export ranking within a year.
type RankedProduct struct {
	Rank        int       `json:"rank" csv:"Rank"`
	ProductCode string    `json:"product_code" csv:"ProductCode"`
	Label       string    `json:"label,omitempty" csv:"Label,omitempty"`
	ExportValue float64   `json:"export_value" csv:"ExportValue"`
	PCI         NullFloat `json:"pci" csv:"PCI"`
}
