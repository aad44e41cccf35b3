package sentiment

import (
	"strings"

	"aeropulse.app/pulse/internal/model"
)

// Thresholds for collapsing the raw signed score into {-1, 0, 1}.
const overallThreshold = 0.2

// Scorer counts occurrences of fixed positive/negative word lists in
// normalized text. Per-category scores reuse the overall raw score, gated on
// whether any of the category's keywords appear in the text.
type Scorer struct {
	categories map[string][]string
}

func NewScorer(categories map[string][]string) *Scorer {
	return &Scorer{categories: categories}
}

// Score analyzes normalized text. Zero matches in both lists yields a raw
// score of 0 (neutral).
func (s *Scorer) Score(text string) model.SentimentAnalysis {
	words := tokenize(text)

	pos := countMatches(words, positiveWords)
	neg := countMatches(words, negativeWords)

	raw := 0.0
	if pos+neg > 0 {
		raw = float64(pos-neg) / float64(pos+neg)
	}

	overall := 0.0
	switch {
	case raw > overallThreshold:
		overall = 1
	case raw < -overallThreshold:
		overall = -1
	}

	lower := strings.ToLower(text)
	categories := make(map[string]*float64, len(s.categories))
	for name, keywords := range s.categories {
		categories[name] = nil
		for _, kw := range keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				score := raw
				categories[name] = &score
				break
			}
		}
	}

	return model.SentimentAnalysis{
		OverallSentiment: overall,
		SentimentScore:   (raw + 1) / 2,
		Categories:       categories,
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
}

func countMatches(words []string, list []string) int {
	set := make(map[string]struct{}, len(list))
	for _, w := range list {
		set[w] = struct{}{}
	}

	count := 0
	for _, w := range words {
		if _, ok := set[w]; ok {
			count++
		}
	}
	return count
}
