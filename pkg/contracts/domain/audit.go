package domain

// Audit row types. Coverage gaps between the input tables are never fatal and
// never silently dropped; each kind lands in its own audit table.

// UnlabeledProduct records a panel product code with no dictionary entry,
// with the years it was observed in.
type UnlabeledProduct struct {
	ProductCode string `json:"product_code" csv:"ProductCode"`
	Years       []int  `json:"years" csv:"Years"`
}

// MissingDictionaryCode records a dictionary code absent from the focal
// year's panel slice.
type MissingDictionaryCode struct {
	Code  string `json:"code" csv:"Code"`
	Label string `json:"label,omitempty" csv:"Label,omitempty"`
}

// UnmappedProduct records a product present in a year's panel slice but
// absent from the allocation template, so none of its export value reaches
// any industry that year.
type UnmappedProduct struct {
	Year        int       `json:"year" csv:"Year"`
	Product4    string    `json:"product4" csv:"Product4"`
	ExportValue NullFloat `json:"export_value" csv:"ExportValue"`
}

// UntitledIndustry records an industry code that received an allocation but
// has no row in the industry title table.
type UntitledIndustry struct {
	Year      int    `json:"year" csv:"Year"`
	Industry4 string `json:"industry4" csv:"Industry4"`
}
