package report

import (
	"fmt"
	"image/color"
	"image/png"
	"os"

	"github.com/psykhi/wordclouds"

	"github.com/reviewlens/backend/internal/analysis"
)

var cloudPalette = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
}

// RenderWordcloud draws the feature word cloud weighted by mention count.
func RenderWordcloud(records []analysis.FeatureRecord, fontFile, path string) error {
	weights := make(map[string]int, len(records))
	for _, r := range records {
		if r.Count > 0 {
			weights[r.Label] = r.Count
		}
	}
	if len(weights) == 0 {
		return fmt.Errorf("no features to render")
	}

	colors := make([]color.Color, len(cloudPalette))
	for i, c := range cloudPalette {
		colors[i] = c
	}

	cloud := wordclouds.NewWordcloud(weights,
		wordclouds.FontFile(fontFile),
		wordclouds.FontMaxSize(96),
		wordclouds.FontMinSize(14),
		wordclouds.Width(800),
		wordclouds.Height(400),
		wordclouds.Colors(colors),
		wordclouds.BackgroundColor(color.White),
	)

	img := cloud.Draw()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create wordcloud file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode wordcloud: %w", err)
	}

	return nil
}
