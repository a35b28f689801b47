package report

import (
	"strings"
)

// NoRecommendation is the single recommendation reported when the answer
// contains none.
const NoRecommendation = "Aucune recommandation explicite fournie."

// Confidence levels extracted from recommendation text.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// recommendationsMarker separates the summary from the recommendations.
const recommendationsMarker = "Recommandations"

// Recommendation is one practical recommendation.
type Recommendation struct {
	Text string `json:"texte"`
	// Confidence is low, medium or high when the text states one.
	Confidence string `json:"confiance,omitempty"`
}

// Result is the parsed generator answer.
type Result struct {
	Summary         string           `json:"summary"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Parser turns a free text answer into a Result. Recommendations is never
// empty.
type Parser interface {
	Parse(text string) Result
}

// MarkdownParser splits the answer at the first "Recommandations". The
// trimmed text before it is the summary; every later line containing "-"
// yields the trimmed text after its first "-".
type MarkdownParser struct{}

// Parse implements Parser.
func (MarkdownParser) Parse(text string) Result {
	summary, rest, found := strings.Cut(text, recommendationsMarker)

	var recs []Recommendation
	if found {
		for _, line := range strings.Split(rest, "\n") {
			_, after, ok := strings.Cut(line, "-")
			if !ok {
				continue
			}
			body := strings.TrimSpace(after)
			recs = append(recs, Recommendation{Text: body, Confidence: ConfidenceOf(body)})
		}
	}
	if len(recs) == 0 {
		recs = []Recommendation{{Text: NoRecommendation}}
	}

	return Result{Summary: strings.TrimSpace(summary), Recommendations: recs}
}

var confidenceTerms = []struct {
	term  string
	level string
}{
	{"faible", ConfidenceLow},
	{"moyenne", ConfidenceMedium},
	{"haute", ConfidenceHigh},
}

// ConfidenceOf returns the level of the earliest faible/moyenne/haute in s,
// case-insensitive, or "" when none appears.
func ConfidenceOf(s string) string {
	lower := strings.ToLower(s)
	level, pos := "", -1
	for _, ct := range confidenceTerms {
		if i := strings.Index(lower, ct.term); i >= 0 && (pos < 0 || i < pos) {
			level, pos = ct.level, i
		}
	}
	return level
}
