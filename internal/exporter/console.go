package exporter

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"hspanel/pkg/contracts/domain"
)

// Console rendering for interactive runs. Tables go to the writer the caller
// provides so the same functions serve stdout and tests.

// PrintYearFrequency renders the panel coverage table, one row per year.
func PrintYearFrequency(w io.Writer, counts []domain.YearCount) {
	color.New(color.FgYellow, color.Bold).Fprintln(w, "\n=== PANEL COVERAGE BY YEAR ===")

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Year", "Products", "Total Export", "Missing PCI", "Missing Export", "Mean PCI"})
	for _, count := range counts {
		table.Append([]string{
			strconv.Itoa(count.Year),
			strconv.Itoa(count.ProductCount),
			fmt.Sprintf("%.3f", count.TotalExport),
			strconv.Itoa(count.MissingPCI),
			strconv.Itoa(count.MissingExport),
			consoleNullFloat(count.MeanPCI, 4),
		})
	}
	table.Render()
}

// PrintTopProducts renders the top products of one year ranked by export
// value.
func PrintTopProducts(w io.Writer, year int, ranked []domain.RankedProduct) {
	color.New(color.FgYellow, color.Bold).Fprintf(w, "\n=== TOP PRODUCTS BY EXPORT (%d) ===\n", year)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rank", "Code", "Label", "Export", "PCI"})
	for _, product := range ranked {
		table.Append([]string{
			strconv.Itoa(product.Rank),
			product.ProductCode,
			product.Label,
			fmt.Sprintf("%.3f", product.ExportValue),
			consoleNullFloat(product.PCI, 4),
		})
	}
	table.Render()

	color.New(color.FgCyan).Fprintf(w, "%d products ranked\n", len(ranked))
}

// PrintTopIndustries renders the industries with the largest allocated
// export in one year.
func PrintTopIndustries(w io.Writer, year int, aggregates []domain.IndustryAggregate, topN int) {
	color.New(color.FgYellow, color.Bold).Fprintf(w, "\n=== TOP INDUSTRIES BY ALLOCATED EXPORT (%d) ===\n", year)

	ranked := make([]domain.IndustryAggregate, 0, len(aggregates))
	for _, agg := range aggregates {
		if agg.Year == year {
			ranked = append(ranked, agg)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalAllocatedExport != ranked[j].TotalAllocatedExport {
			return ranked[i].TotalAllocatedExport > ranked[j].TotalAllocatedExport
		}
		return ranked[i].Industry4 < ranked[j].Industry4
	})
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Industry", "Title", "Weighted PCI", "Allocated Export", "Products", "Representative"})
	for _, agg := range ranked {
		table.Append([]string{
			agg.Industry4,
			agg.Title,
			consoleNullFloat(agg.WeightedPCI, 4),
			fmt.Sprintf("%.3f", agg.TotalAllocatedExport),
			strconv.Itoa(agg.ProductCount),
			agg.RepresentativeProduct,
		})
	}
	table.Render()
}

// PrintAuditCounts renders a one-line-per-table summary of the audit output
// so interactive runs surface coverage gaps without opening the CSVs.
func PrintAuditCounts(w io.Writer, unlabeled, missingDictionary, unmapped, untitled int) {
	color.New(color.FgYellow, color.Bold).Fprintln(w, "\n=== AUDIT TABLES ===")

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Audit", "Rows"})
	table.Append([]string{"Unlabeled products", strconv.Itoa(unlabeled)})
	table.Append([]string{"Missing dictionary codes", strconv.Itoa(missingDictionary)})
	table.Append([]string{"Unmapped products", strconv.Itoa(unmapped)})
	table.Append([]string{"Untitled industries", strconv.Itoa(untitled)})
	table.Render()

	total := unlabeled + missingDictionary + unmapped + untitled
	if total > 0 {
		color.New(color.FgRed).Fprintf(w, "%d audit rows need review\n", total)
	} else {
		color.New(color.FgGreen).Fprintln(w, "no coverage gaps detected")
	}
}

// consoleNullFloat renders an optional value for console tables. Missing
// renders as "NA" so a blank cell is never mistaken for zero.
func consoleNullFloat(v domain.NullFloat, precision int) string {
	if !v.Valid {
		return "NA"
	}
	return strconv.FormatFloat(v.Value, 'f', precision, 64)
}
