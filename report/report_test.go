package report

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/legalassist/diarization"
	"github.com/kbukum/legalassist/llm"
	"github.com/kbukum/legalassist/retrieval"
)

func TestBuildPrompt_Layout(t *testing.T) {
	segments := []diarization.SpeakerSegment{
		{Speaker: "SPEAKER_00", Text: "La séance est ouverte.", Start: 0, End: 2.5},
		{Speaker: "inconnu", Text: "Merci.", Start: 2.5, End: 3.125},
	}
	articles := []retrieval.Article{{Code: "Code Pénal Marocain", Article: "400", Text: "Quiconque, volontairement..."}}

	got := BuildPrompt(segments, articles, `{"category": "penal"}`)

	want := "Contexte NLP:\n{\"category\": \"penal\"}\n\n" +
		"Transcription diarisée:\n" +
		"[0.00-2.50] SPEAKER_00: La séance est ouverte.\n" +
		"[2.50-3.12] inconnu: Merci.\n\n" +
		"Articles pertinents:\n" +
		"Article 400 (Code Pénal Marocain) - Quiconque, volontairement......\n\n" +
		"1. Fournis un résumé structuré en 5 puces max (faits, parties, décisions, preuves, ton).\n" +
		"2. Fournis 3 recommandations juridiques pratiques avec estimation de confiance (faible/moyenne/haute).\n" +
		"3. Signale les incertitudes ou données manquantes."
	assert.Equal(t, want, got)
}

func TestBuildPrompt_TruncatesArticleRunes(t *testing.T) {
	long := strings.Repeat("é", 450)
	got := BuildPrompt(nil, []retrieval.Article{{Article: "1", Code: "C", Text: long}}, "")

	line := strings.Split(strings.Split(got, "Articles pertinents:\n")[1], "\n")[0]
	assert.Equal(t, "Article 1 (C) - "+strings.Repeat("é", 400)+"...", line)
}

func TestMarkdownParser(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		summary string
		recs    []Recommendation
	}{
		{
			name: "summary and bullets",
			input: "Résumé:\n- Faits: altercation\n\nRecommandations:\n" +
				"- Déposer une plainte (confiance: haute)\n" +
				"- Réunir des témoins (confiance: Moyenne)\n" +
				"- Consulter un avocat\n",
			summary: "Résumé:\n- Faits: altercation",
			recs: []Recommendation{
				{Text: "Déposer une plainte (confiance: haute)", Confidence: ConfidenceHigh},
				{Text: "Réunir des témoins (confiance: Moyenne)", Confidence: ConfidenceMedium},
				{Text: "Consulter un avocat"},
			},
		},
		{
			name:    "no marker",
			input:   "  Juste un résumé - sans section.  ",
			summary: "Juste un résumé - sans section.",
			recs:    []Recommendation{{Text: NoRecommendation}},
		},
		{
			name:    "marker without bullets",
			input:   "Résumé\nRecommandations\naucune",
			summary: "Résumé",
			recs:    []Recommendation{{Text: NoRecommendation}},
		},
		{
			name:    "text after first dash only",
			input:   "S\nRecommandations\n1. Appel - délai de 30 jours - faible",
			summary: "S",
			recs:    []Recommendation{{Text: "délai de 30 jours - faible", Confidence: ConfidenceLow}},
		},
		{
			name:    "marker line itself with dash",
			input:   "S\n## Recommandations - priorité haute",
			summary: "S\n##",
			recs:    []Recommendation{{Text: "priorité haute", Confidence: ConfidenceHigh}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarkdownParser{}.Parse(tt.input)
			assert.Equal(t, tt.summary, got.Summary)
			assert.Equal(t, tt.recs, got.Recommendations)
		})
	}
}

func TestConfidenceOf_Earliest(t *testing.T) {
	assert.Equal(t, ConfidenceLow, ConfidenceOf("faible plutôt que haute"))
	assert.Equal(t, ConfidenceHigh, ConfidenceOf("HAUTE, pas faible"))
	assert.Equal(t, "", ConfidenceOf("aucune estimation"))
}

type fakeGenerator struct {
	got  llm.CompletionRequest
	resp string
	err  error
}

func (f *fakeGenerator) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.resp, Model: "fake"}, nil
}

func TestComposer_Compose(t *testing.T) {
	gen := &fakeGenerator{resp: "Résumé\nRecommandations:\n- Agir vite (haute)"}
	c := NewComposer(gen, nil, nil)

	article := &retrieval.Article{Code: "Code de la Famille", Article: "97", Text: "En cas de discorde"}
	result, err := c.Compose(context.Background(),
		[]diarization.SpeakerSegment{{Speaker: "A", Text: "bonjour", Start: 0, End: 1}},
		[]retrieval.Result{{Article: article, Score: 0.9}},
		"{}",
	)
	require.NoError(t, err)

	assert.Equal(t, SystemPrompt, gen.got.SystemPrompt)
	assert.Equal(t, 0.2, gen.got.Temperature)
	assert.Equal(t, 800, gen.got.MaxTokens)
	require.Len(t, gen.got.Messages, 1)
	assert.Contains(t, gen.got.Messages[0].Content, "Article 97 (Code de la Famille) - En cas de discorde...")

	assert.Equal(t, "Résumé", result.Summary)
	assert.Equal(t, []Recommendation{{Text: "Agir vite (haute)", Confidence: ConfidenceHigh}}, result.Recommendations)
}

type upperParser struct{}

func (upperParser) Parse(text string) Result {
	return Result{Summary: strings.ToUpper(text), Recommendations: []Recommendation{{Text: "x"}}}
}

func TestComposer_CustomParserAndError(t *testing.T) {
	c := NewComposer(&fakeGenerator{resp: "abc"}, upperParser{}, nil)
	result, err := c.Compose(context.Background(), nil, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "ABC", result.Summary)

	boom := fmt.Errorf("rate limited")
	c = NewComposer(&fakeGenerator{err: boom}, nil, nil)
	_, err = c.Compose(context.Background(), nil, nil, "")
	assert.ErrorIs(t, err, boom)
}
