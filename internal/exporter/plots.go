package exporter

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"hspanel/internal/config"
	"hspanel/pkg/contracts/domain"
)

// PlotExporter renders report tables as PNG charts under the plots
// directory.
type PlotExporter struct {
	paths *config.Paths
}

// NewPlotExporter creates a new plot exporter instance
func NewPlotExporter(paths *config.Paths) *PlotExporter {
	return &PlotExporter{paths: paths}
}

// SaveDispersionChart renders a bar chart of the products with the highest
// PCI dispersion. Products without a computed deviation are skipped.
func (e *PlotExporter) SaveDispersionChart(diagnostics []domain.ProductDiagnostics, topN int, filename string) error {
	ranked := make([]domain.ProductDiagnostics, 0, len(diagnostics))
	for _, diag := range diagnostics {
		if diag.PCISD.Valid {
			ranked = append(ranked, diag)
		}
	}
	if len(ranked) == 0 {
		return fmt.Errorf("no dispersion values to plot")
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].PCISD.Value != ranked[j].PCISD.Value {
			return ranked[i].PCISD.Value > ranked[j].PCISD.Value
		}
		return ranked[i].ProductCode < ranked[j].ProductCode
	})
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}

	values := make(plotter.Values, len(ranked))
	labels := make([]string, len(ranked))
	for i, diag := range ranked {
		values[i] = diag.PCISD.Value
		labels[i] = diag.ProductCode
	}

	p := plot.New()
	p.Title.Text = "PCI Dispersion by Product"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Product Code"
	p.Y.Label.Text = "PCI Standard Deviation"

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.Color = color.RGBA{R: 68, G: 114, B: 196, A: 255}
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return e.save(p, 12*vg.Inch, 6*vg.Inch, filename)
}

// SaveIndustryChart renders a bar chart of the industries with the largest
// allocated export in one year.
func (e *PlotExporter) SaveIndustryChart(aggregates []domain.IndustryAggregate, year, topN int, filename string) error {
	ranked := make([]domain.IndustryAggregate, 0, len(aggregates))
	for _, agg := range aggregates {
		if agg.Year == year {
			ranked = append(ranked, agg)
		}
	}
	if len(ranked) == 0 {
		return fmt.Errorf("no industry aggregates for year %d to plot", year)
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

	values := make(plotter.Values, len(ranked))
	labels := make([]string, len(ranked))
	for i, agg := range ranked {
		values[i] = agg.TotalAllocatedExport
		labels[i] = agg.Industry4
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Allocated Export by Industry (%d)", year)
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Industry Code"
	p.Y.Label.Text = "Allocated Export"

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.Color = color.RGBA{R: 112, G: 173, B: 71, A: 255}
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return e.save(p, 12*vg.Inch, 6*vg.Inch, filename)
}

// SaveCoverageChart renders a line chart of how many products the panel
// observes per year.
func (e *PlotExporter) SaveCoverageChart(counts []domain.YearCount, filename string) error {
	if len(counts) == 0 {
		return fmt.Errorf("no year counts to plot")
	}

	ordered := make([]domain.YearCount, len(counts))
	copy(ordered, counts)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Year < ordered[j].Year })

	pts := make(plotter.XYs, len(ordered))
	for i, count := range ordered {
		pts[i].X = float64(count.Year)
		pts[i].Y = float64(count.ProductCount)
	}

	p := plot.New()
	p.Title.Text = "Panel Coverage by Year"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Products Observed"
	p.Y.Min = 0

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("failed to build line chart: %w", err)
	}
	line.Color = color.RGBA{R: 197, G: 90, B: 17, A: 255}
	line.Width = vg.Points(2)

	p.Add(plotter.NewGrid())
	p.Add(line)

	return e.save(p, 12*vg.Inch, 6*vg.Inch, filename)
}

// save writes the finished plot under the plots directory, creating it on
// first use.
func (e *PlotExporter) save(p *plot.Plot, width, height vg.Length, filename string) error {
	fullPath := e.paths.GetPlotPath(filename)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create plot directory: %w", err)
	}
	if err := p.Save(width, height, fullPath); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", filename, err)
	}
	return nil
}
