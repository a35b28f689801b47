// Package lexical is a model-free NLP backend. Keywords are the first
// distinct long non-stopword tokens; the case category is picked by
// counting seed terms per label. It reports no entities and a neutral
// sentiment.
package lexical

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/kbukum/legalassist/nlp"
	"github.com/kbukum/legalassist/provider"
)

const (
	// ProviderName is the registered name for the lexical provider.
	ProviderName = "lexical"

	// DefaultMaxKeywords caps the keyword list.
	DefaultMaxKeywords = 12

	minKeywordRunes = 4
	neutral         = "neutral"
)

// labelSeeds are the terms that vote for each case category, in label order.
var labelSeeds = []struct {
	label string
	terms []string
}{
	{"penal", []string{"coups", "blessures", "violence", "vol", "agression", "plainte", "prison", "crime", "délit", "victime"}},
	{"civil", []string{"contrat", "obligation", "dommage", "responsabilité", "instance", "demande", "créance", "propriété", "procédure"}},
	{"famille", []string{"divorce", "mariage", "épouse", "époux", "enfant", "garde", "pension", "héritage", "discorde", "chiqaq"}},
	{"travail", []string{"licenciement", "salaire", "employeur", "salarié", "contrat de travail", "indemnité", "préavis", "travail"}},
}

// stopwords are French function words that pass the length filter.
var stopwords = map[string]bool{
	"alors": true, "aussi": true, "autre": true, "avant": true, "avec": true, "avoir": true,
	"cette": true, "comme": true, "dans": true, "depuis": true, "donc": true, "elle": true,
	"elles": true, "encore": true, "entre": true, "être": true, "leur": true, "leurs": true,
	"mais": true, "même": true, "nous": true, "parce": true, "pour": true, "quand": true,
	"quel": true, "quelle": true, "sans": true, "selon": true, "sont": true, "sous": true,
	"tout": true, "tous": true, "très": true, "vous": true, "était": true, "monsieur": true,
	"madame": true, "speaker": true, "inconnu": true,
}

// Provider implements nlp.Provider with lexical heuristics.
type Provider struct {
	maxKeywords int
}

// New creates a lexical provider.
func New(maxKeywords int) *Provider {
	if maxKeywords <= 0 {
		maxKeywords = DefaultMaxKeywords
	}
	return &Provider{maxKeywords: maxKeywords}
}

// Factory returns a provider.Factory reading the "max_keywords" option.
func Factory() provider.Factory[nlp.Provider] {
	return func(cfg map[string]any) (nlp.Provider, error) {
		n, err := provider.Options(cfg).Int("max_keywords", DefaultMaxKeywords)
		if err != nil {
			return nil, err
		}
		return New(n), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable always reports true.
func (p *Provider) IsAvailable(context.Context) bool { return true }

// Analyse extracts keywords and a category from text.
func (p *Provider) Analyse(ctx context.Context, text string) (*nlp.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text = strings.ToLower(norm.NFC.String(text))
	tokens := strings.FieldsFunc(text, func(r rune) bool { return !unicode.IsLetter(r) })

	category, scores := classify(text, tokens)
	return &nlp.Report{
		Entities:       []nlp.Entity{},
		Sentiment:      neutral,
		SentimentScore: 0,
		Category:       category,
		CategoryScores: scores,
		Keywords:       p.keywords(tokens),
	}, nil
}

func (p *Provider) keywords(tokens []string) []string {
	out := make([]string, 0, p.maxKeywords)
	seen := make(map[string]bool)
	for _, tok := range tokens {
		if len(out) >= p.maxKeywords {
			break
		}
		if utf8.RuneCountInString(tok) < minKeywordRunes || stopwords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// classify returns the label with most seed hits (first label wins ties)
// and the hit share per label. No hits yields an empty category.
func classify(text string, tokens []string) (string, map[string]float64) {
	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}

	hits := make([]int, len(labelSeeds))
	total := 0
	for i, ls := range labelSeeds {
		for _, term := range ls.terms {
			if strings.Contains(term, " ") {
				hits[i] += strings.Count(text, term)
			} else {
				hits[i] += counts[term]
			}
		}
		total += hits[i]
	}

	scores := make(map[string]float64, len(labelSeeds))
	best, bestHits := "", 0
	for i, ls := range labelSeeds {
		if total > 0 {
			scores[ls.label] = float64(hits[i]) / float64(total)
		} else {
			scores[ls.label] = 0
		}
		if hits[i] > bestHits {
			best, bestHits = ls.label, hits[i]
		}
	}
	return best, scores
}
