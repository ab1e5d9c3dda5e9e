package report

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewlens/backend/internal/analysis"
)

var reportTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testRecords() []analysis.FeatureRecord {
	return []analysis.FeatureRecord{
		{Label: "camera", Count: 12, AvgRating: 4.5, PositiveRatio: 0.75, NegativeRatio: 0.25, RatedMentions: 8},
		{Label: "battery", Count: 10, AvgRating: 2.4, PositiveRatio: 0.2, NegativeRatio: 0.6, NeutralRatio: 0.2, RatedMentions: 5},
		{Label: "display", Count: 7, AvgRating: 3.8, PositiveRatio: 0.5, NeutralRatio: 0.5, RatedMentions: 4},
		{Label: "price", Count: 3, AvgRating: 0, PositiveRatio: 0.1, NegativeRatio: 0.1, NeutralRatio: 0.8},
	}
}

func TestBuildTextDeterministic(t *testing.T) {
	first := BuildText(testRecords(), 42, reportTime)
	second := BuildText(testRecords(), 42, reportTime)
	assert.Equal(t, first, second)
}

func TestBuildTextOverview(t *testing.T) {
	out := BuildText(testRecords(), 42, reportTime)

	assert.Contains(t, out, "Generated: 2024-06-01 12:00:00")
	assert.Contains(t, out, "• Total Reviews Analyzed: 42")
	assert.Contains(t, out, "• Unique Features Identified: 4")
	assert.Contains(t, out, "• Total Feature Mentions: 32")
}

func TestBuildTextFrequencySection(t *testing.T) {
	out := BuildText(testRecords(), 42, reportTime)

	assert.Contains(t, out, "1. camera: 12 mentions")
	assert.Contains(t, out, "2. battery: 10 mentions")
	assert.Contains(t, out, "3. display: 7 mentions")
}

func TestBuildTextRatingSectionExcludesUnrated(t *testing.T) {
	out := BuildText(testRecords(), 42, reportTime)

	assert.Contains(t, out, "1. camera: 4.50/5.0 (from 8 ratings)")
	assert.Contains(t, out, "2. display: 3.80/5.0 (from 4 ratings)")
	assert.Contains(t, out, "3. battery: 2.40/5.0 (from 5 ratings)")
	assert.NotContains(t, out, "price: 0.00/5.0")
}

func TestBuildTextPositiveSection(t *testing.T) {
	out := BuildText(testRecords(), 42, reportTime)

	assert.Contains(t, out, "1. camera: 75.0% positive sentiment")
	assert.Contains(t, out, "2. display: 50.0% positive sentiment")
}

func TestBuildTextImprovementSection(t *testing.T) {
	out := BuildText(testRecords(), 42, reportTime)

	// battery: rated, 60% negative -> flagged. price: zero rating -> excluded.
	assert.Contains(t, out, "• battery: 2.40/5.0 rating, 60.0% negative sentiment")
	assert.NotContains(t, out, "• price:")
	assert.NotContains(t, out, "• camera:")
}

func TestBuildTextFixedBlocks(t *testing.T) {
	out := BuildText(nil, 0, reportTime)

	assert.Contains(t, out, "RECOMMENDATIONS")
	assert.Contains(t, out, "1. Leverage strengths in highly-rated features for marketing")
	assert.Contains(t, out, "METHODOLOGY")
	assert.Contains(t, out, "• Feature extraction using pattern matching and NLP")
}

func TestBuildTextTruncatesToTen(t *testing.T) {
	var records []analysis.FeatureRecord
	for i := 0; i < 15; i++ {
		records = append(records, analysis.FeatureRecord{
			Label: strings.Repeat("x", i+1),
			Count: 100 - i,
		})
	}

	out := BuildText(records, 15, reportTime)

	assert.Contains(t, out, "10. xxxxxxxxxx: 91 mentions")
	assert.NotContains(t, out, "11. ")
}

func TestWriteText(t *testing.T) {
	path := t.TempDir() + "/report.txt"
	content := BuildText(testRecords(), 42, reportTime)

	require.NoError(t, WriteText(path, content))

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(written))
}
