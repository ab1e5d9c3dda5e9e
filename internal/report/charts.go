package report

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/reviewlens/backend/internal/analysis"
)

var (
	skyBlue    = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	bandGreen  = color.RGBA{R: 46, G: 139, B: 87, A: 255}
	bandOrange = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	bandRed    = color.RGBA{R: 205, G: 55, B: 55, A: 255}
	softGreen  = color.RGBA{R: 46, G: 139, B: 87, A: 180}
	softGray   = color.RGBA{R: 128, G: 128, B: 128, A: 180}
	softRed    = color.RGBA{R: 205, G: 55, B: 55, A: 180}
	scatterInk = color.RGBA{R: 31, G: 119, B: 180, A: 150}
)

// RenderDashboard draws the four-panel analysis dashboard and writes it as a
// single PNG: mention frequency, average rating with threshold color bands,
// stacked sentiment ratios, and frequency vs rating.
func RenderDashboard(records []analysis.FeatureRecord, chartTop int, path string) error {
	if len(records) == 0 {
		return fmt.Errorf("no feature records to chart")
	}
	if chartTop <= 0 || chartTop > len(records) {
		chartTop = len(records)
	}
	top := records[:chartTop]

	freqPlot, err := frequencyPanel(top)
	if err != nil {
		return err
	}
	ratingPlot, err := ratingPanel(top)
	if err != nil {
		return err
	}
	sentimentPlot, err := sentimentPanel(top)
	if err != nil {
		return err
	}
	scatterPlot, err := scatterPanel(records, chartTop)
	if err != nil {
		return err
	}

	img := vgimg.New(12*vg.Inch, 9*vg.Inch)
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows: 2, Cols: 2,
		PadX: vg.Millimeter * 4, PadY: vg.Millimeter * 4,
		PadTop: vg.Millimeter * 4, PadBottom: vg.Millimeter * 4,
		PadLeft: vg.Millimeter * 4, PadRight: vg.Millimeter * 4,
	}

	plots := [][]*plot.Plot{
		{freqPlot, ratingPlot},
		{sentimentPlot, scatterPlot},
	}

	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j := range plots[i] {
			plots[i][j].Draw(canvases[i][j])
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dashboard file: %w", err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write dashboard: %w", err)
	}

	return nil
}

func frequencyPanel(records []analysis.FeatureRecord) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Top %d Most Mentioned Features", len(records))
	p.X.Label.Text = "Number of Mentions"

	values := make(plotter.Values, len(records))
	labels := make([]string, len(records))
	for i, r := range records {
		values[i] = float64(r.Count)
		labels[i] = r.Label
	}

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return nil, fmt.Errorf("failed to build frequency bars: %w", err)
	}
	bars.Horizontal = true
	bars.Color = skyBlue
	bars.LineStyle.Width = 0

	p.Add(bars)
	p.NominalY(labels...)

	return p, nil
}

// ratingPanel colors each bar by rating band: green for 4 and up, orange for
// 3 and up, red below. One BarChart per band, zeros elsewhere, drawn at the
// same positions.
func ratingPanel(records []analysis.FeatureRecord) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Average Rating by Feature"
	p.X.Label.Text = "Average Rating"
	p.X.Min = 0
	p.X.Max = 5

	labels := make([]string, len(records))
	bands := map[color.RGBA]plotter.Values{
		bandGreen:  make(plotter.Values, len(records)),
		bandOrange: make(plotter.Values, len(records)),
		bandRed:    make(plotter.Values, len(records)),
	}

	for i, r := range records {
		labels[i] = r.Label
		switch {
		case r.AvgRating >= 4:
			bands[bandGreen][i] = r.AvgRating
		case r.AvgRating >= 3:
			bands[bandOrange][i] = r.AvgRating
		default:
			bands[bandRed][i] = r.AvgRating
		}
	}

	for _, band := range []color.RGBA{bandGreen, bandOrange, bandRed} {
		bars, err := plotter.NewBarChart(bands[band], vg.Points(14))
		if err != nil {
			return nil, fmt.Errorf("failed to build rating bars: %w", err)
		}
		bars.Horizontal = true
		bars.Color = band
		bars.LineStyle.Width = 0
		p.Add(bars)
	}
	p.NominalY(labels...)

	return p, nil
}

func sentimentPanel(records []analysis.FeatureRecord) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Sentiment Distribution by Feature"
	p.X.Label.Text = "Sentiment Ratio"

	labels := make([]string, len(records))
	positive := make(plotter.Values, len(records))
	neutral := make(plotter.Values, len(records))
	negative := make(plotter.Values, len(records))
	for i, r := range records {
		labels[i] = r.Label
		positive[i] = r.PositiveRatio
		neutral[i] = r.NeutralRatio
		negative[i] = r.NegativeRatio
	}

	posBars, err := plotter.NewBarChart(positive, vg.Points(14))
	if err != nil {
		return nil, fmt.Errorf("failed to build sentiment bars: %w", err)
	}
	neuBars, err := plotter.NewBarChart(neutral, vg.Points(14))
	if err != nil {
		return nil, fmt.Errorf("failed to build sentiment bars: %w", err)
	}
	negBars, err := plotter.NewBarChart(negative, vg.Points(14))
	if err != nil {
		return nil, fmt.Errorf("failed to build sentiment bars: %w", err)
	}

	posBars.Horizontal = true
	neuBars.Horizontal = true
	negBars.Horizontal = true
	posBars.Color = softGreen
	neuBars.Color = softGray
	negBars.Color = softRed
	posBars.LineStyle.Width = 0
	neuBars.LineStyle.Width = 0
	negBars.LineStyle.Width = 0

	neuBars.StackOn(posBars)
	negBars.StackOn(neuBars)

	p.Add(posBars, neuBars, negBars)
	p.NominalY(labels...)

	p.Legend.Add("Positive", posBars)
	p.Legend.Add("Neutral", neuBars)
	p.Legend.Add("Negative", negBars)
	p.Legend.Top = true

	return p, nil
}

// scatterPanel plots every analyzed feature but only labels the charted
// subset to avoid clutter.
func scatterPanel(records []analysis.FeatureRecord, labelTop int) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Feature Frequency vs Rating"
	p.X.Label.Text = "Mention Frequency"
	p.Y.Label.Text = "Average Rating"

	pts := make(plotter.XYs, len(records))
	for i, r := range records {
		pts[i].X = float64(r.Count)
		pts[i].Y = r.AvgRating
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to build scatter: %w", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(5)
	scatter.GlyphStyle.Color = scatterInk

	labelPts := make(plotter.XYs, 0, labelTop)
	names := make([]string, 0, labelTop)
	for i, r := range records {
		if i >= labelTop {
			break
		}
		labelPts = append(labelPts, pts[i])
		names = append(names, r.Label)
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: labelPts, Labels: names})
	if err != nil {
		return nil, fmt.Errorf("failed to build scatter labels: %w", err)
	}

	p.Add(scatter, labels)

	return p, nil
}
