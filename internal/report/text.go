package report

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/reviewlens/backend/internal/analysis"
)

// maxListed bounds every ranked section of the text report.
const maxListed = 10

// improvementCandidates is how many of the lowest-rated features are
// screened for the improvement section.
const improvementCandidates = 5

// negativeAlertThreshold marks a feature as an improvement area when its
// negative sentiment share exceeds it.
const negativeAlertThreshold = 0.3

func byFrequency(records []analysis.FeatureRecord) []analysis.FeatureRecord {
	sorted := append([]analysis.FeatureRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	return sorted
}

func byRating(records []analysis.FeatureRecord) []analysis.FeatureRecord {
	sorted := append([]analysis.FeatureRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AvgRating > sorted[j].AvgRating
	})
	return sorted
}

func byPositiveRatio(records []analysis.FeatureRecord) []analysis.FeatureRecord {
	sorted := append([]analysis.FeatureRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PositiveRatio > sorted[j].PositiveRatio
	})
	return sorted
}

// BuildText renders the fixed-layout summary report. Identical records and
// review count produce identical output except for the timestamp line.
func BuildText(records []analysis.FeatureRecord, totalReviews int, now time.Time) string {
	totalMentions := 0
	for _, r := range records {
		totalMentions += r.Count
	}

	var b strings.Builder

	b.WriteString("\nPRODUCT FEATURE ANALYSIS SUMMARY REPORT\n")
	b.WriteString("======================================\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", now.Format("2006-01-02 15:04:05"))

	b.WriteString("OVERVIEW\n--------\n")
	fmt.Fprintf(&b, "• Total Reviews Analyzed: %d\n", totalReviews)
	fmt.Fprintf(&b, "• Unique Features Identified: %d\n", len(records))
	fmt.Fprintf(&b, "• Total Feature Mentions: %d\n\n", totalMentions)

	b.WriteString("TOP FEATURES BY FREQUENCY\n------------------------\n")
	for i, r := range truncate(byFrequency(records), maxListed) {
		fmt.Fprintf(&b, "%d. %s: %d mentions\n", i+1, r.Label, r.Count)
	}

	b.WriteString("\nHIGHEST RATED FEATURES\n---------------------\n")
	rank := 0
	for _, r := range truncate(byRating(records), maxListed) {
		if r.AvgRating <= 0 {
			continue
		}
		rank++
		fmt.Fprintf(&b, "%d. %s: %.2f/5.0 (from %d ratings)\n", rank, r.Label, r.AvgRating, r.RatedMentions)
	}

	b.WriteString("\nMOST POSITIVELY PERCEIVED FEATURES\n---------------------------------\n")
	for i, r := range truncate(byPositiveRatio(records), maxListed) {
		fmt.Fprintf(&b, "%d. %s: %.1f%% positive sentiment\n", i+1, r.Label, r.PositiveRatio*100)
	}

	b.WriteString("\nAREAS FOR IMPROVEMENT\n--------------------\n")
	rated := byRating(records)
	start := len(rated) - improvementCandidates
	if start < 0 {
		start = 0
	}
	for _, r := range rated[start:] {
		if r.AvgRating > 0 && r.NegativeRatio > negativeAlertThreshold {
			fmt.Fprintf(&b, "• %s: %.2f/5.0 rating, %.1f%% negative sentiment\n", r.Label, r.AvgRating, r.NegativeRatio*100)
		}
	}

	b.WriteString("\nRECOMMENDATIONS\n--------------\n")
	b.WriteString("1. Leverage strengths in highly-rated features for marketing\n")
	b.WriteString("2. Address concerns in low-rated, frequently mentioned features\n")
	b.WriteString("3. Monitor sentiment trends for key product aspects\n")
	b.WriteString("4. Focus development on features with mixed sentiment\n")

	b.WriteString("\nMETHODOLOGY\n-----------\n")
	b.WriteString("• Feature extraction using pattern matching and NLP\n")
	b.WriteString("• Sentiment analysis based on contextual word analysis\n")
	b.WriteString("• Rating correlation with feature mentions\n")
	b.WriteString("• Statistical aggregation across all reviews\n")

	return b.String()
}

func WriteText(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func truncate(records []analysis.FeatureRecord, n int) []analysis.FeatureRecord {
	if len(records) > n {
		return records[:n]
	}
	return records
}
