package extractor

import (
	"strings"
	"unicode"

	prose "github.com/jdkato/prose/v2"
	"go.uber.org/zap"

	"github.com/reviewlens/backend/internal/loader"
	"github.com/reviewlens/backend/pkg/logger"
)

// minLabelLength is the shortest synthetic label worth keeping; anything
// shorter is adjective residue.
const minLabelLength = 2

type Extractor struct {
	normalizeLabels bool
}

func New(normalizeLabels bool) *Extractor {
	return &Extractor{normalizeLabels: normalizeLabels}
}

// Extract scans every review and returns the global feature frequency table.
// A review contributes each label at most once.
func (e *Extractor) Extract(reviews []loader.Review) *Counts {
	counts := NewCounts()

	for _, review := range reviews {
		for _, label := range e.reviewFeatures(review.Text) {
			counts.Add(label)
		}
	}

	logger.Info("Features extracted",
		zap.Int("reviews", len(reviews)),
		zap.Int("unique_features", counts.Len()),
		zap.Int("total_mentions", counts.Total()),
	)

	return counts
}

func (e *Extractor) reviewFeatures(text string) []string {
	lower := strings.ToLower(text)

	var features []string
	for _, fp := range featurePatterns {
		if fp.Pattern.MatchString(lower) {
			features = append(features, fp.Label)
		}
	}

	words := strings.Fields(lower)
	for i := 0; i+1 < len(words); i++ {
		bigram := words[i] + " " + words[i+1]
		if !containsTrigger(bigram) {
			continue
		}

		label := strings.TrimSpace(adjectivePattern.ReplaceAllString(bigram, ""))
		if e.normalizeLabels {
			label = normalizeLabel(label)
		}
		if len(label) <= minLabelLength || contains(features, label) {
			continue
		}
		features = append(features, label)
	}

	return features
}

func containsTrigger(bigram string) bool {
	for _, trigger := range bigramTriggers {
		if strings.Contains(bigram, trigger) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// normalizeLabel re-tokenizes a synthetic label and drops punctuation-only
// tokens, collapsing near-duplicates like "screen," and "screen". Opt-in;
// the raw behavior is the default.
func normalizeLabel(label string) string {
	doc, err := prose.NewDocument(label,
		prose.WithSegmentation(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return label
	}

	var words []string
	for _, tok := range doc.Tokens() {
		if isWordToken(tok.Text) {
			words = append(words, tok.Text)
		}
	}

	return strings.Join(words, " ")
}

func isWordToken(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
