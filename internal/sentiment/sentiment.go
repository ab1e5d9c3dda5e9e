// Package sentiment scores the polarity of feature mentions from the text
// immediately around them. It is a fixed-lexicon heuristic: no stemming, no
// negation handling, no model. That keeps the pipeline dependency-free and
// deterministic at the cost of precision.
package sentiment

import "strings"

type Class string

const (
	Positive Class = "positive"
	Negative Class = "negative"
	Neutral  Class = "neutral"
)

// DefaultWindow is the number of characters inspected on each side of a
// feature mention.
const DefaultWindow = 50

var positiveWords = []string{
	"good", "great", "excellent", "amazing", "love", "perfect", "awesome", "fantastic", "best",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "hate", "worst", "horrible", "disappointing", "poor",
}

// Classify scores the window around the first occurrence of feature within
// text. Both arguments are expected to be lowercased already. A feature that
// does not occur in the text is neutral.
func Classify(text, feature string, window int) Class {
	idx := strings.Index(text, feature)
	if idx < 0 {
		return Neutral
	}

	start := idx - window
	if start < 0 {
		start = 0
	}
	end := idx + len(feature) + window
	if end > len(text) {
		end = len(text)
	}
	context := text[start:end]

	positive := countHits(context, positiveWords)
	negative := countHits(context, negativeWords)

	switch {
	case positive > negative:
		return Positive
	case negative > positive:
		return Negative
	default:
		return Neutral
	}
}

// countHits counts how many lexicon words occur in the context, each counted
// at most once. Containment is substring-based, matching the extraction
// heuristics elsewhere in the pipeline.
func countHits(context string, words []string) int {
	hits := 0
	for _, word := range words {
		if strings.Contains(context, word) {
			hits++
		}
	}
	return hits
}
