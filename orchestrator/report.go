package orchestrator

import (
	"time"

	"github.com/kbukum/legalassist/diarization"
	"github.com/kbukum/legalassist/nlp"
	"github.com/kbukum/legalassist/report"
	"github.com/kbukum/legalassist/retrieval"
	"github.com/kbukum/legalassist/transcription"
)

// Report is the persisted outcome of a successful run.
type Report struct {
	Transcription []transcription.Segment      `json:"transcription"`
	Diarization   []diarization.SpeakerSegment `json:"diarization"`
	NLPReport     *nlp.Report                  `json:"nlp_report"`
	LegalArticles []LegalArticle               `json:"legal_articles"`
	LLMResult     report.Result                `json:"llm_result"`
	Metadata      Metadata                     `json:"metadata"`

	// Key is the storage key the report was saved under.
	Key string `json:"-"`
}

// LegalArticle is a retrieved article with its similarity score.
type LegalArticle struct {
	retrieval.Article
	Score float64 `json:"score"`
}

// Metadata describes the run that produced a report.
type Metadata struct {
	RunID           string    `json:"run_id"`
	Input           string    `json:"input"`
	Query           string    `json:"query"`
	DurationSeconds float64   `json:"audio_duration_s"`
	Chunks          int       `json:"chunks"`
	Truncated       bool      `json:"transcript_truncated"`
	CreatedAt       time.Time `json:"created_at"`
}

func legalArticles(results []retrieval.Result) []LegalArticle {
	out := make([]LegalArticle, 0, len(results))
	for _, r := range results {
		if r.Article == nil {
			continue
		}
		out = append(out, LegalArticle{Article: *r.Article, Score: r.Score})
	}
	return out
}
