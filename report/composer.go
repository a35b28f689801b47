package report

import (
	"context"
	"time"

	"github.com/kbukum/legalassist/diarization"
	"github.com/kbukum/legalassist/llm"
	"github.com/kbukum/legalassist/logger"
	"github.com/kbukum/legalassist/retrieval"
)

// Generation parameters used for every report.
const (
	Temperature = 0.2
	MaxTokens   = 800
)

// Generator produces free text from a chat request. llm.Provider satisfies it.
type Generator interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error)
}

// Composer renders the prompt, calls the generator and parses the answer.
type Composer struct {
	gen    Generator
	parser Parser
	log    *logger.Logger
}

// NewComposer creates a Composer. A nil parser means MarkdownParser.
func NewComposer(gen Generator, parser Parser, log *logger.Logger) *Composer {
	if parser == nil {
		parser = MarkdownParser{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Composer{gen: gen, parser: parser, log: log.WithComponent("report")}
}

// Compose generates the summary and recommendations. Generator errors are
// returned unchanged.
func (c *Composer) Compose(ctx context.Context, segments []diarization.SpeakerSegment, results []retrieval.Result, nlpSummary string) (Result, error) {
	prompt := BuildPrompt(segments, Articles(results), nlpSummary)

	start := time.Now()
	resp, err := c.gen.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: SystemPrompt,
		Messages:     []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Temperature:  Temperature,
		MaxTokens:    MaxTokens,
	})
	if err != nil {
		return Result{}, err
	}

	result := c.parser.Parse(resp.Content)
	c.log.Info("report composed", logger.Fields(
		"model", resp.Model,
		"prompt_runes", len([]rune(prompt)),
		"recommendations", len(result.Recommendations),
		"duration_ms", time.Since(start).Milliseconds(),
	))
	return result, nil
}
