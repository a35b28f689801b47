package nlp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/kbukum/legalassist/provider"
)

// DefaultQuery is used when the report yields neither category nor keywords.
const DefaultQuery = "procédure judiciaire"

// Entity is a named entity span in the analysed text.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Report is the analysis of one transcript.
type Report struct {
	Entities       []Entity           `json:"entities"`
	Sentiment      string             `json:"sentiment"`
	SentimentScore float64            `json:"sentiment_score"`
	Category       string             `json:"category"`
	CategoryScores map[string]float64 `json:"category_scores"`
	Keywords       []string           `json:"keywords"`
}

// Summary renders the report as indented JSON for the generation prompt.
func (r *Report) Summary() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// BuildQuery joins the category and keywords into a retrieval query,
// falling back to DefaultQuery when both are empty.
func BuildQuery(r *Report) string {
	if r == nil {
		return DefaultQuery
	}
	q := strings.TrimSpace(r.Category + " " + strings.Join(r.Keywords, " "))
	if q == "" {
		return DefaultQuery
	}
	return q
}

// Provider is the interface that NLP backends must implement.
type Provider interface {
	provider.Provider

	// Analyse runs the full analysis over text.
	Analyse(ctx context.Context, text string) (*Report, error)
}
