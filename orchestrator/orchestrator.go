package orchestrator

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/legalassist/audio"
	"github.com/kbukum/legalassist/diarization"
	"github.com/kbukum/legalassist/errors"
	"github.com/kbukum/legalassist/history"
	"github.com/kbukum/legalassist/logger"
	"github.com/kbukum/legalassist/nlp"
	"github.com/kbukum/legalassist/observability"
	"github.com/kbukum/legalassist/report"
	"github.com/kbukum/legalassist/retrieval"
	"github.com/kbukum/legalassist/transcription"
)

// NormalizedFileName is the normalized recording inside a run's work dir.
const NormalizedFileName = "normalized.wav"

// Normalizer converts the input recording to mono PCM WAV. Output past limit
// is not decoded.
type Normalizer interface {
	Normalize(ctx context.Context, in, out string, limit time.Duration) error
}

// Segmenter cuts a normalized WAV into chunk files under workDir.
type Segmenter interface {
	Segment(ctx context.Context, wavPath, workDir string) ([]audio.Chunk, error)
}

// Transcriber transcribes one audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error)
}

// Diarizer labels speaker turns in one audio file.
type Diarizer interface {
	Diarize(ctx context.Context, req diarization.Request) (*diarization.Response, error)
}

// Analyser extracts entities, sentiment, category and keywords.
type Analyser interface {
	Analyse(ctx context.Context, text string) (*nlp.Report, error)
}

// Searcher returns the articles closest to a query.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]retrieval.Result, error)
}

// Composer turns the run's intermediate results into summary and recommendations.
type Composer interface {
	Compose(ctx context.Context, segments []diarization.SpeakerSegment, results []retrieval.Result, nlpSummary string) (report.Result, error)
}

// ReportStore persists a report for an input file and returns its key.
type ReportStore interface {
	Save(ctx context.Context, inputPath string, v any) (string, error)
}

// Ledger records run start and outcome.
type Ledger interface {
	Start(ctx context.Context, runID, input string) error
	Finish(ctx context.Context, runID string, out history.Outcome) error
}

// Dependencies are the collaborators a run uses. All except Ledger,
// Metrics, Observers and Probe are required.
type Dependencies struct {
	Normalizer  Normalizer
	Segmenter   Segmenter
	Transcriber Transcriber
	Diarizer    Diarizer
	Analyser    Analyser
	Index       Searcher
	Composer    Composer
	Reports     ReportStore

	Ledger    Ledger
	Metrics   *observability.Metrics
	Observers []StateObserver

	// Probe returns the duration of the normalized WAV. Defaults to audio.Probe.
	Probe func(path string) (time.Duration, error)
}

func (d *Dependencies) validate() error {
	var missing []string
	for name, v := range map[string]any{
		"normalizer":  d.Normalizer,
		"segmenter":   d.Segmenter,
		"transcriber": d.Transcriber,
		"diarizer":    d.Diarizer,
		"analyser":    d.Analyser,
		"index":       d.Index,
		"composer":    d.Composer,
		"reports":     d.Reports,
	} {
		if v == nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("orchestrator: missing dependencies: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Config bounds and parameterises a run.
type Config struct {
	ServiceName             string
	WorkDir                 string
	Language                string
	MaxAudioMinutes         int
	MaxTranscriptCharacters int
	TopK                    int
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "legalassist"
	}
	if c.WorkDir == "" {
		c.WorkDir = os.TempDir()
	}
	if c.Language == "" {
		c.Language = "ar"
	}
	if c.MaxAudioMinutes <= 0 {
		c.MaxAudioMinutes = 60
	}
	if c.MaxTranscriptCharacters <= 0 {
		c.MaxTranscriptCharacters = 20000
	}
	if c.TopK <= 0 {
		c.TopK = retrieval.DefaultTopK
	}
}

// Orchestrator runs audio files through the pipeline. It holds no per-run
// state, so Run may be called concurrently.
type Orchestrator struct {
	cfg  Config
	deps Dependencies
	log  *logger.Logger
}

// New creates an Orchestrator.
func New(cfg Config, deps Dependencies, log *logger.Logger) (*Orchestrator, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if deps.Probe == nil {
		deps.Probe = audio.Probe
	}
	if deps.Metrics != nil {
		deps.Observers = append(append([]StateObserver(nil), deps.Observers...), MetricsObserver(deps.Metrics))
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Orchestrator{cfg: cfg, deps: deps, log: log.WithComponent("orchestrator")}, nil
}

// run carries the state of one Run call.
type run struct {
	o       *Orchestrator
	id      string
	input   string
	workDir string
	sm      *machine
	log     *logger.Logger

	normalized string
	chunks     []audio.Chunk
	transcript []transcription.Segment
	fused      []diarization.SpeakerSegment
	analysis   *nlp.Report
	results    []retrieval.Result
	composed   report.Result
	meta       Metadata
}

// Run processes audioPath and persists its report. On failure nothing is
// persisted and the returned error carries the failing stage in its details.
func (o *Orchestrator) Run(ctx context.Context, audioPath string) (*Report, error) {
	id := uuid.NewString()
	ctx = logger.ContextWithRunID(ctx, id)

	r := &run{
		o:       o,
		id:      id,
		input:   audioPath,
		workDir: filepath.Join(o.cfg.WorkDir, "run-"+id),
		sm:      newMachine(id, audioPath, o.deps.Observers),
		log:     o.log.WithContext(ctx),
	}
	r.meta = Metadata{RunID: id, Input: filepath.Base(audioPath)}
	defer r.cleanup()

	if o.deps.Ledger != nil {
		if err := o.deps.Ledger.Start(ctx, id, audioPath); err != nil {
			r.log.Warn("run ledger start failed", logger.ErrorFields("history.start", err))
		}
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanPipelineRun,
		attribute.String(observability.AttrRunID, id),
		attribute.String(observability.AttrInput, audioPath),
	)
	defer span.End()

	start := time.Now()
	r.log.Info("pipeline started", logger.Fields(logger.FieldInput, audioPath))

	rep, err := r.execute(ctx)
	if err != nil {
		stage := r.sm.current()
		if terr := r.sm.to(StateFailed, err); terr != nil {
			r.log.Error("state transition failed", logger.ErrorFields("fail", terr))
		}
		observability.RecordError(ctx, err)
		fields := logger.StageFields(stage.Stage(), audioPath)
		fields[logger.FieldError] = err.Error()
		r.log.Error("pipeline failed", fields)
		r.finish(ctx, history.Outcome{State: string(StateFailed), Chunks: len(r.chunks), Err: err})
		return nil, err
	}

	r.log.Info("pipeline finished", logger.Fields(
		logger.FieldInput, audioPath,
		"report", rep.Key,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	r.finish(ctx, history.Outcome{State: string(StateDone), ReportKey: rep.Key, Chunks: len(r.chunks)})
	return rep, nil
}

func (r *run) execute(ctx context.Context) (*Report, error) {
	steps := []struct {
		state State
		fn    func(context.Context) error
	}{
		{StateValidating, r.validate},
		{StateSegmenting, r.segment},
		{StateTranscribing, r.transcribe},
		{StateDiarizing, r.diarize},
		{StateAnalyzing, r.analyse},
		{StateRetrieving, r.retrieve},
		{StateComposing, r.compose},
	}
	for _, s := range steps {
		if err := r.stage(ctx, s.state, s.fn); err != nil {
			return nil, err
		}
	}

	rep := &Report{
		Transcription: r.transcript,
		Diarization:   r.fused,
		NLPReport:     r.analysis,
		LegalArticles: legalArticles(r.results),
		LLMResult:     r.composed,
		Metadata:      r.meta,
	}
	rep.Metadata.CreatedAt = time.Now().UTC()

	err := r.stage(ctx, StatePersisting, func(ctx context.Context) error {
		key, err := r.o.deps.Reports.Save(ctx, r.input, rep)
		if err != nil {
			return err
		}
		rep.Key = key
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := r.sm.to(StateDone, nil); err != nil {
		return nil, err
	}
	return rep, nil
}

// stage moves to s, runs fn inside a span and tags any error with the stage.
func (r *run) stage(ctx context.Context, s State, fn func(context.Context) error) error {
	if err := r.sm.to(s, nil); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return stageError(s, err)
	}

	sctx, st := observability.StartStage(ctx, s.Stage(), r.id, r.o.deps.Metrics)
	err := fn(sctx)
	if err != nil {
		err = stageError(s, err)
	}
	d := st.End(err)

	r.log.Debug("stage finished", logger.Fields(
		logger.FieldStage, s.Stage(),
		logger.FieldDuration, d.Milliseconds(),
	))
	return err
}

func (r *run) validate(ctx context.Context) error {
	info, err := os.Stat(r.input)
	if err != nil {
		return errors.InputError(r.input, "file not found").WithCause(err)
	}
	if info.IsDir() {
		return errors.InputError(r.input, "path is a directory")
	}
	if err := os.MkdirAll(r.workDir, 0o750); err != nil {
		return errors.Internal(fmt.Errorf("create work dir: %w", err))
	}

	// One second past the limit is enough for the duration check to reject
	// the recording without decoding all of it.
	limit := time.Duration(r.o.cfg.MaxAudioMinutes) * time.Minute
	r.normalized = filepath.Join(r.workDir, NormalizedFileName)
	if err := r.o.deps.Normalizer.Normalize(ctx, r.input, r.normalized, limit+time.Second); err != nil {
		return err
	}

	d, err := r.o.deps.Probe(r.normalized)
	if err != nil {
		return err
	}
	r.meta.DurationSeconds = d.Seconds()

	if d > limit {
		return errors.ValidationError(fmt.Sprintf(
			"Audio duration %.1f min exceeds the limit of %d min.", d.Minutes(), r.o.cfg.MaxAudioMinutes)).
			WithDetail("duration_s", d.Seconds())
	}
	return nil
}

func (r *run) segment(ctx context.Context) error {
	chunks, err := r.o.deps.Segmenter.Segment(ctx, r.normalized, filepath.Join(r.workDir, "chunks"))
	if err != nil {
		return err
	}
	r.chunks = chunks
	r.meta.Chunks = len(chunks)
	return nil
}

func (r *run) transcribe(ctx context.Context) error {
	perChunk := make([][]transcription.Segment, 0, len(r.chunks))
	for _, c := range r.chunks {
		resp, err := r.o.deps.Transcriber.Transcribe(ctx, transcription.Request{
			AudioPath: c.Path,
			Language:  r.o.cfg.Language,
		})
		if r.o.deps.Metrics != nil {
			r.o.deps.Metrics.RecordChunk(err)
		}
		if err != nil {
			return collaboratorError("transcription", err).
				WithDetail(logger.FieldChunk, c.Index).
				WithDetail("chunk_start", c.Start)
		}
		r.log.Debug("chunk transcribed", logger.Fields(
			logger.FieldChunk, c.Index,
			"segments", len(resp.Segments),
		))
		perChunk = append(perChunk, resp.Segments)
	}

	aligned, err := transcription.Align(r.chunks, perChunk)
	if err != nil {
		return err
	}
	r.transcript = aligned
	return nil
}

func (r *run) diarize(ctx context.Context) error {
	resp, err := r.o.deps.Diarizer.Diarize(ctx, diarization.Request{AudioPath: r.normalized})
	if err != nil {
		return collaboratorError("diarization", err)
	}
	r.fused = diarization.Fuse(r.transcript, resp.Segments)
	return nil
}

func (r *run) analyse(ctx context.Context) error {
	text, truncated := FullText(r.fused, r.o.cfg.MaxTranscriptCharacters)
	r.meta.Truncated = truncated
	if truncated {
		r.log.Warn("transcript truncated before analysis", logger.Fields(
			"limit", r.o.cfg.MaxTranscriptCharacters,
		))
	}

	rep, err := r.o.deps.Analyser.Analyse(ctx, text)
	if err != nil {
		return collaboratorError("nlp", err)
	}
	r.analysis = rep
	return nil
}

func (r *run) retrieve(ctx context.Context) error {
	query := nlp.BuildQuery(r.analysis)
	r.meta.Query = query

	results, err := r.o.deps.Index.Search(ctx, query, r.o.cfg.TopK)
	if err != nil {
		return collaboratorError("retrieval", err)
	}
	r.results = results
	return nil
}

func (r *run) compose(ctx context.Context) error {
	summary, err := r.analysis.Summary()
	if err != nil {
		return errors.Internal(err)
	}
	res, err := r.o.deps.Composer.Compose(ctx, r.fused, r.results, summary)
	if err != nil {
		return collaboratorError("llm", err)
	}
	r.composed = res
	return nil
}

func (r *run) finish(ctx context.Context, out history.Outcome) {
	if r.o.deps.Ledger == nil {
		return
	}
	// The run context may already be cancelled; the outcome is still recorded.
	lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := r.o.deps.Ledger.Finish(lctx, r.id, out); err != nil {
		r.log.Warn("run ledger finish failed", logger.ErrorFields("history.finish", err))
	}
}

func (r *run) cleanup() {
	if err := os.RemoveAll(r.workDir); err != nil {
		r.log.Warn("work dir cleanup failed", logger.Fields("work_dir", r.workDir, logger.FieldError, err.Error()))
	}
}

// FullText renders fused segments as "speaker: text" lines and truncates
// the result to limit runes. A limit <= 0 disables truncation.
func FullText(segments []diarization.SpeakerSegment, limit int) (string, bool) {
	lines := make([]string, len(segments))
	for i, s := range segments {
		lines[i] = s.Speaker + ": " + s.Text
	}
	text := strings.Join(lines, "\n")
	if limit <= 0 {
		return text, false
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text, false
	}
	return string(runes[:limit]), true
}

// collaboratorError keeps AppErrors raised below the provider boundary
// (they already carry a code) and wraps everything else.
func collaboratorError(name string, err error) *errors.AppError {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}
	var te interface{ Timeout() bool }
	if stderrors.Is(err, context.DeadlineExceeded) || (stderrors.As(err, &te) && te.Timeout()) {
		return errors.Timeout(name).WithCause(err)
	}
	return errors.CollaboratorError(name, err)
}

func stageError(s State, err error) error {
	if stderrors.Is(err, context.Canceled) {
		return err
	}
	return errors.Wrap(err).WithDetail(logger.FieldStage, s.Stage())
}

// MetricsObserver counts runs as they start and reach a terminal state.
func MetricsObserver(m *observability.Metrics) StateObserver {
	return ObserverFunc(func(t Transition) {
		switch {
		case t.To == StateValidating:
			m.RunStarted()
		case t.To.Terminal():
			m.RunFinished(t.To.Stage())
		}
	})
}
