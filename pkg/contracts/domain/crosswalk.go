package domain

import "sort"

// CrosswalkEdge represents one row of the fine-to-coarse weight table: what
// share of the 6-digit product's activity belongs to the 4-digit industry.
// Raw weights need not sum to 1 per product; renormalization handles that.
type CrosswalkEdge struct {
	FineCode   string  `json:"fine_code" validate:"required,len=6"`
	CoarseCode string  `json:"coarse_code" validate:"required"`
	Weight     float64 `json:"weight" validate:"min=0"`
}

// TemplateEntry is one renormalized allocation target for a 4-digit product:
// the industry and the share of the product's activity allocated to it.
type TemplateEntry struct {
	Industry4 string  `json:"industry4"`
	Share4    float64 `json:"share4"`
}

// AllocationTemplate is the year-independent renormalized crosswalk: for each
// 4-digit product, the industries it allocates to with shares summing to 1.
// It is built exactly once per run and shared read-only across all years.
// Products whose raw weights summed to zero carry no entries and are absent.
type AllocationTemplate map[string][]TemplateEntry

// Products returns the template's product codes in ascending order.
// Iteration for arithmetic always goes through this, never the raw map.
func (t AllocationTemplate) Products() []string {
	codes := make([]string, 0, len(t))
	for code := range t {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Entries returns the allocation targets for a product and whether the
// product is covered by the template at all.
func (t AllocationTemplate) Entries(product4 string) ([]TemplateEntry, bool) {
	entries, ok := t[product4]
	return entries, ok
}

// AllocationRow is one year-scoped product-industry allocation: the product's
// export value and PCI for the year attached to a template entry, with the
// allocated export already multiplied out.
type AllocationRow struct {
	Year            int       `json:"year"`
	Product4        string    `json:"product4"`
	Industry4       string    `json:"industry4"`
	Share4          float64   `json:"share4"`
	ExportValue     float64   `json:"export_value"`
	PCI             NullFloat `json:"pci"`
	AllocatedExport float64   `json:"allocated_export"`
}
