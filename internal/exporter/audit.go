package exporter

import (
	"fmt"

	"hspanel/internal/config"
	"hspanel/pkg/contracts/domain"
)

// Audit table routes under the audits directory. Names come from the config
// constants so downstream tooling can locate them by name across runs.
const (
	UnlabeledProductsFile  = "audits/" + config.UnlabeledAuditName
	MissingDictionaryFile  = "audits/" + config.MissingCodesAuditName
	UnmappedProductsFile   = "audits/" + config.UnmappedAuditName
	UntitledIndustriesFile = "audits/" + config.UntitledAuditName
)

// WriteUnlabeledProducts writes the audit table of panel products that have
// no dictionary label, one row per product with its observed years.
func (w *CSVWriter) WriteUnlabeledProducts(rows []domain.UnlabeledProduct) error {
	headers := []string{"ProductCode", "Years", "YearCount"}
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.ProductCode,
			formatYears(row.Years),
			formatInt(len(row.Years)),
		})
	}
	if err := w.WriteSimpleCSV(UnlabeledProductsFile, headers, records); err != nil {
		return fmt.Errorf("write unlabeled products audit: %w", err)
	}
	return nil
}

// WriteMissingDictionaryCodes writes the audit table of dictionary codes
// absent from the focal year's panel slice.
func (w *CSVWriter) WriteMissingDictionaryCodes(rows []domain.MissingDictionaryCode) error {
	headers := []string{"Code", "Label"}
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{row.Code, row.Label})
	}
	if err := w.WriteSimpleCSV(MissingDictionaryFile, headers, records); err != nil {
		return fmt.Errorf("write missing dictionary codes audit: %w", err)
	}
	return nil
}

// WriteUnmappedProducts writes the audit table of products whose export
// value reached no industry because the allocation template has no row for
// them. The export cell stays empty when the value was missing upstream.
func (w *CSVWriter) WriteUnmappedProducts(rows []domain.UnmappedProduct) error {
	headers := []string{"Year", "Product4", "ExportValue"}
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			formatInt(row.Year),
			row.Product4,
			formatNullFloat(row.ExportValue, 3),
		})
	}
	if err := w.WriteSimpleCSV(UnmappedProductsFile, headers, records); err != nil {
		return fmt.Errorf("write unmapped products audit: %w", err)
	}
	return nil
}

// WriteUntitledIndustries writes the audit table of industries that received
// allocations but have no entry in the industry title table.
func (w *CSVWriter) WriteUntitledIndustries(rows []domain.UntitledIndustry) error {
	headers := []string{"Year", "Industry4"}
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			formatInt(row.Year),
			row.Industry4,
		})
	}
	if err := w.WriteSimpleCSV(UntitledIndustriesFile, headers, records); err != nil {
		return fmt.Errorf("write untitled industries audit: %w", err)
	}
	return nil
}
