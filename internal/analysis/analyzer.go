package analysis

import (
	"strings"

	"go.uber.org/zap"

	"github.com/reviewlens/backend/internal/extractor"
	"github.com/reviewlens/backend/internal/loader"
	"github.com/reviewlens/backend/internal/sentiment"
	"github.com/reviewlens/backend/pkg/logger"
)

// FeatureRecord aggregates everything known about one feature across the
// review set. Ratios sum to 1 whenever at least one mention was classified;
// with zero classified mentions all three are 0 rather than undefined.
type FeatureRecord struct {
	Label         string  `json:"label"`
	Count         int     `json:"count"`
	AvgRating     float64 `json:"avg_rating"`
	PositiveRatio float64 `json:"positive_ratio"`
	NegativeRatio float64 `json:"negative_ratio"`
	NeutralRatio  float64 `json:"neutral_ratio"`
	RatedMentions int     `json:"rated_mentions"`
}

type Analyzer struct {
	topFeatures int
	window      int
}

func NewAnalyzer(topFeatures, window int) *Analyzer {
	if topFeatures <= 0 {
		topFeatures = 20
	}
	if window <= 0 {
		window = sentiment.DefaultWindow
	}
	return &Analyzer{topFeatures: topFeatures, window: window}
}

// Analyze re-scans the review set for each of the most frequent features,
// collecting ratings and classifying the sentiment window around every
// mention. Records come back in frequency order, ties by first discovery.
func (a *Analyzer) Analyze(table *loader.Table, counts *extractor.Counts) []FeatureRecord {
	lowered := make([]string, len(table.Reviews))
	for i, review := range table.Reviews {
		lowered[i] = strings.ToLower(review.Text)
	}

	top := counts.TopN(a.topFeatures)
	records := make([]FeatureRecord, 0, len(top))

	for _, lc := range top {
		var ratings []float64
		var positive, negative, classified int

		for i, text := range lowered {
			if !strings.Contains(text, lc.Label) {
				continue
			}

			if table.HasRatings() && table.Reviews[i].Rating != nil {
				ratings = append(ratings, *table.Reviews[i].Rating)
			}

			switch sentiment.Classify(text, lc.Label, a.window) {
			case sentiment.Positive:
				positive++
			case sentiment.Negative:
				negative++
			}
			classified++
		}

		record := FeatureRecord{
			Label:         lc.Label,
			Count:         lc.Count,
			RatedMentions: len(ratings),
		}

		if len(ratings) > 0 {
			sum := 0.0
			for _, r := range ratings {
				sum += r
			}
			record.AvgRating = sum / float64(len(ratings))
		}

		if classified > 0 {
			record.PositiveRatio = float64(positive) / float64(classified)
			record.NegativeRatio = float64(negative) / float64(classified)
			record.NeutralRatio = 1 - record.PositiveRatio - record.NegativeRatio
		}

		records = append(records, record)
	}

	logger.Info("Feature sentiment analyzed",
		zap.Int("features", len(records)),
		zap.Int("window", a.window),
	)

	return records
}
