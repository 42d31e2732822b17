package domain

// IndustryAggregate is the terminal artifact of the crosswalk allocator: one
// industry's export-weighted complexity for one year. Emitted only when
// TotalAllocatedExport is strictly positive; industries whose allocation
// collapsed to zero are omitted rather than carried with NaN fields.
type IndustryAggregate struct {
	Year      int    `json:"year" csv:"Year"`
	Industry4 string `json:"industry4" csv:"Industry4"`

	// Title comes from the industry reference table and stays empty when the
	// code has no title row there.
	Title string `json:"title,omitempty" csv:"Title,omitempty"`

	// WeightedPCI is Σ(pci·allocated_export)/Σ(allocated_export) over
	// contributing products with a present PCI.
	WeightedPCI          NullFloat `json:"weighted_pci" csv:"WeightedPCI"`
	TotalAllocatedExport float64   `json:"total_allocated_export" csv:"TotalAllocatedExport"`

	// ProductCount is the number of distinct 4-digit products contributing.
	ProductCount int `json:"product_count" csv:"ProductCount"`

	// RepresentativeProduct is the contributing product with the largest
	// allocated export, ties broken toward the smallest code.
	RepresentativeProduct string `json:"representative_product" csv:"RepresentativeProduct"`
	RepresentativeLabel   string `json:"representative_label,omitempty" csv:"RepresentativeLabel,omitempty"`
}
