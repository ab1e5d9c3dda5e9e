package extractor

import "regexp"

type FeaturePattern struct {
	Label   string
	Pattern *regexp.Regexp
}

// featurePatterns maps product aspect categories to the keyword alternations
// that identify them in lowercased review text. Order is fixed so that label
// discovery is deterministic.
var featurePatterns = []FeaturePattern{
	{"battery", regexp.MustCompile(`\b(battery|power|charging|charge)\b`)},
	{"camera", regexp.MustCompile(`\b(camera|photo|picture|image)\b`)},
	{"display", regexp.MustCompile(`\b(screen|display|monitor)\b`)},
	{"audio", regexp.MustCompile(`\b(sound|audio|speaker|music|volume)\b`)},
	{"design", regexp.MustCompile(`\b(design|look|appearance|style|color)\b`)},
	{"performance", regexp.MustCompile(`\b(performance|speed|fast|slow|lag)\b`)},
	{"price", regexp.MustCompile(`\b(price|cost|value|expensive|cheap|affordable)\b`)},
	{"size", regexp.MustCompile(`\b(size|weight|portable|compact|heavy)\b`)},
	{"quality", regexp.MustCompile(`\b(quality|build|material|durability)\b`)},
	{"usability", regexp.MustCompile(`\b(easy|difficult|user.friendly|interface|setup)\b`)},
	{"delivery", regexp.MustCompile(`\b(delivery|shipping|packaging|arrived)\b`)},
	{"service", regexp.MustCompile(`\b(service|support|help|customer)\b`)},
}

// bigramTriggers qualify an adjacent word pair for synthetic label mining.
// Matching is substring containment over the joined pair.
var bigramTriggers = []string{"good", "bad", "great", "poor"}

// adjectivePattern strips sentiment adjectives out of a qualifying bigram,
// leaving the aspect being described.
var adjectivePattern = regexp.MustCompile(`\b(good|bad|great|poor|excellent|terrible)\s*`)

func Labels() []string {
	labels := make([]string, 0, len(featurePatterns))
	for _, fp := range featurePatterns {
		labels = append(labels, fp.Label)
	}
	return labels
}
