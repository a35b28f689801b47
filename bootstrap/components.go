package bootstrap

import (
	"context"
	"time"

	"github.com/kbukum/legalassist/audio"
	"github.com/kbukum/legalassist/errors"
	"github.com/kbukum/legalassist/history"
	"github.com/kbukum/legalassist/logger"
	"github.com/kbukum/legalassist/orchestrator"
	"github.com/kbukum/legalassist/provider"
	"github.com/kbukum/legalassist/report"
	"github.com/kbukum/legalassist/retrieval"
	"github.com/kbukum/legalassist/sse"
	"github.com/kbukum/legalassist/storage"

	// Storage backends register themselves with storage.Open.
	_ "github.com/kbukum/legalassist/storage/local"
	_ "github.com/kbukum/legalassist/storage/s3"
)

// probeTimeout bounds each provider health check.
const probeTimeout = 3 * time.Second

type components struct {
	providers *Providers
	index     *retrieval.Index
	reports   *storage.Reports
	history   *history.Store
	historyOK bool
	pipeline  *orchestrator.Orchestrator
	events    *sse.Hub
}

// Providers resolves the configured backends once.
func (a *App) Providers() (*Providers, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.providersLocked()
}

func (a *App) providersLocked() (*Providers, error) {
	if a.built.providers != nil {
		return a.built.providers, nil
	}
	p, err := NewRegistries().Resolve(a.Cfg.Providers)
	if err != nil {
		return nil, err
	}
	a.built.providers = p
	return p, nil
}

// Index loads the corpus and embeds it once.
func (a *App) Index(ctx context.Context) (*retrieval.Index, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.indexLocked(ctx)
}

func (a *App) indexLocked(ctx context.Context) (*retrieval.Index, error) {
	if a.built.index != nil {
		return a.built.index, nil
	}
	p, err := a.providersLocked()
	if err != nil {
		return nil, err
	}
	articles, err := retrieval.LoadCorpus(a.Cfg.Paths.CorpusPath)
	if err != nil {
		return nil, err
	}
	ix, err := retrieval.NewIndex(ctx, articles, p.Embedder, retrieval.WithLogger(a.Logger))
	if err != nil {
		return nil, err
	}
	a.built.index = ix
	return ix, nil
}

// Reports opens the configured storage backend once.
func (a *App) Reports() (*storage.Reports, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reportsLocked()
}

func (a *App) reportsLocked() (*storage.Reports, error) {
	if a.built.reports != nil {
		return a.built.reports, nil
	}
	s, err := storage.Open(context.Background(), a.Cfg.Storage, a.Logger)
	if err != nil {
		return nil, err
	}
	a.built.reports = storage.NewReports(s)
	return a.built.reports, nil
}

// History opens the run ledger once. It returns nil when the ledger is
// disabled.
func (a *App) History(ctx context.Context) (*history.Store, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.historyLocked(ctx)
}

func (a *App) historyLocked(ctx context.Context) (*history.Store, error) {
	if a.built.historyOK {
		return a.built.history, nil
	}
	if !a.Cfg.History.Enabled {
		a.built.historyOK = true
		return nil, nil
	}
	st, err := history.Open(ctx, a.Cfg.History, a.Logger)
	if err != nil {
		return nil, err
	}
	a.onStop = append(a.onStop, namedHook{name: "history", fn: func(context.Context) error { return st.Close() }})
	a.built.history, a.built.historyOK = st, true
	return st, nil
}

// Events starts the run event hub once. It is stopped on Shutdown.
func (a *App) Events() *sse.Hub {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.eventsLocked()
}

func (a *App) eventsLocked() *sse.Hub {
	if a.built.events == nil {
		hub := sse.NewHub(a.Logger)
		hub.Start()
		a.onStop = append(a.onStop, namedHook{name: "events", fn: hub.Stop})
		a.built.events = hub
	}
	return a.built.events
}

// Pipeline assembles the orchestrator from every other component.
func (a *App) Pipeline(ctx context.Context) (*orchestrator.Orchestrator, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.built.pipeline != nil {
		return a.built.pipeline, nil
	}
	p, err := a.providersLocked()
	if err != nil {
		return nil, err
	}
	ix, err := a.indexLocked(ctx)
	if err != nil {
		return nil, err
	}
	reports, err := a.reportsLocked()
	if err != nil {
		return nil, err
	}
	ledger, err := a.historyLocked(ctx)
	if err != nil {
		return nil, err
	}

	cfg := a.Cfg
	deps := orchestrator.Dependencies{
		Normalizer: audio.NewNormalizer(audio.NormalizerConfig{
			Binary:     cfg.Audio.FFmpegBinary,
			SampleRate: cfg.Audio.SampleRate,
			Denoise:    cfg.Audio.Denoise,
		}, a.runner, a.Logger),
		Segmenter:   audio.NewSegmenter(cfg.Audio.ChunkSeconds, a.Logger),
		Transcriber: p.Transcriber,
		Diarizer:    p.Diarizer,
		Analyser:    p.Analyser,
		Index:       ix,
		Composer:    report.NewComposer(p.LLM, nil, a.Logger),
		Reports:     reports,
		Metrics:     a.Metrics,
		Observers:   []orchestrator.StateObserver{orchestrator.EventsObserver(a.eventsLocked(), a.Logger)},
	}
	if ledger != nil {
		deps.Ledger = ledger
	}

	o, err := orchestrator.New(orchestrator.Config{
		ServiceName:             cfg.Name,
		WorkDir:                 cfg.Paths.WorkDir,
		Language:                cfg.Audio.Language,
		MaxAudioMinutes:         cfg.Limits.MaxAudioMinutes,
		MaxTranscriptCharacters: cfg.Limits.MaxTranscriptCharacters,
		TopK:                    cfg.Retrieval.TopK,
	}, deps, a.Logger)
	if err != nil {
		return nil, err
	}
	a.built.pipeline = o
	a.Logger.Info("Pipeline ready", logger.Fields(
		"transcription", cfg.Providers.Transcription.Backend,
		"diarization", cfg.Providers.Diarization.Backend,
		"nlp", cfg.Providers.NLP.Backend,
		"embedding", cfg.Providers.Embedding.Backend,
		"llm", cfg.Providers.LLM.Backend,
		"articles", ix.Len(),
	))
	return o, nil
}

// Probe checks the ffmpeg binary and every resolved provider. Providers
// that cannot be built from the configuration fail with VALIDATION_ERROR.
func (a *App) Probe(ctx context.Context) ([]provider.HealthStatus, error) {
	p, err := a.Providers()
	if err != nil {
		return nil, errors.ValidationError(err.Error()).WithDetail("stage", "providers").WithCause(err)
	}
	normalizer := audio.NewNormalizer(audio.NormalizerConfig{Binary: a.Cfg.Audio.FFmpegBinary}, a.runner, a.Logger)
	return provider.Probe(ctx, probeTimeout, append([]provider.Provider{normalizer}, p.All()...)...), nil
}
