package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/kbukum/legalassist/diarization"
	"github.com/kbukum/legalassist/retrieval"
)

// SystemPrompt frames the generator as a Moroccan-law assistant.
const SystemPrompt = "Tu es un assistant juridique spécialisé dans le droit marocain. " +
	"Fourni des réponses structurées, factuelles et prudentes."

// ArticleExcerptRunes is how much of each article text goes into the prompt.
const ArticleExcerptRunes = 400

const instructions = "1. Fournis un résumé structuré en 5 puces max (faits, parties, décisions, preuves, ton).\n" +
	"2. Fournis 3 recommandations juridiques pratiques avec estimation de confiance (faible/moyenne/haute).\n" +
	"3. Signale les incertitudes ou données manquantes."

// BuildPrompt renders the user prompt sent to the generator.
func BuildPrompt(segments []diarization.SpeakerSegment, articles []retrieval.Article, nlpSummary string) string {
	lines := make([]string, len(segments))
	for i, s := range segments {
		lines[i] = fmt.Sprintf("[%.2f-%.2f] %s: %s", s.Start, s.End, s.Speaker, s.Text)
	}

	arts := make([]string, len(articles))
	for i, a := range articles {
		arts[i] = fmt.Sprintf("Article %s (%s) - %s...", a.Article, a.Code, a.Excerpt(ArticleExcerptRunes))
	}

	var b strings.Builder
	b.WriteString("Contexte NLP:\n")
	b.WriteString(nlpSummary)
	b.WriteString("\n\nTranscription diarisée:\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nArticles pertinents:\n")
	b.WriteString(strings.Join(arts, "\n"))
	b.WriteString("\n\n")
	b.WriteString(instructions)
	return norm.NFC.String(b.String())
}

// Articles extracts the articles of search results, in result order.
func Articles(results []retrieval.Result) []retrieval.Article {
	out := make([]retrieval.Article, 0, len(results))
	for _, r := range results {
		if r.Article != nil {
			out = append(out, *r.Article)
		}
	}
	return out
}
