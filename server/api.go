package server

import (
	"context"
	stderrors "errors"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/legalassist/errors"
	"github.com/kbukum/legalassist/logger"
	"github.com/kbukum/legalassist/observability"
	"github.com/kbukum/legalassist/orchestrator"
	"github.com/kbukum/legalassist/resilience"
	"github.com/kbukum/legalassist/retrieval"
	"github.com/kbukum/legalassist/server/endpoint"
	"github.com/kbukum/legalassist/sse"
	"github.com/kbukum/legalassist/validation"
)

// UploadField is the multipart field carrying the audio file.
const UploadField = "file"

// maxTopK bounds POST /search.
const maxTopK = 50

// AcceptedAudioTypes are the upload content types POST /transcribe takes.
var AcceptedAudioTypes = map[string]bool{
	"audio/wav":   true,
	"audio/x-wav": true,
	"audio/mpeg":  true,
	"audio/ogg":   true,
}

// Pipeline runs one audio file end to end.
type Pipeline interface {
	Run(ctx context.Context, audioPath string) (*orchestrator.Report, error)
}

// Searcher answers free-text article searches.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]retrieval.Result, error)
}

// ReportReader reads persisted reports by id.
type ReportReader interface {
	Load(ctx context.Context, id string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}

// APIDependencies are the handles the HTTP API serves from.
type APIDependencies struct {
	Pipeline Pipeline
	Search   Searcher
	Reports  ReportReader
	Probe    endpoint.ProbeFunc
	Metrics  *observability.Metrics

	// Events, when set, serves run transitions on GET /events.
	Events *sse.Hub

	// MetricsPath is where Metrics is exposed. Defaults to /metrics.
	MetricsPath string
}

// API holds the legalassist HTTP handlers.
type API struct {
	serviceName string
	uploadDir   string
	deps        APIDependencies
	bulkhead    *resilience.Bulkhead
	log         *logger.Logger
}

// NewAPI validates deps and builds the handlers. Pipeline runs are admitted
// through a bulkhead sized by cfg.Pipeline.
func NewAPI(serviceName string, cfg Config, deps APIDependencies, log *logger.Logger) (*API, error) {
	if deps.Pipeline == nil || deps.Search == nil || deps.Reports == nil {
		return nil, errors.Internal(stderrors.New("server: pipeline, search and reports are required"))
	}
	log = log.WithComponent("api")

	bulkhead := resilience.NewBulkhead("pipeline", cfg.Pipeline).OnReject(func(name string, err error) {
		log.Warn("Pipeline run rejected", logger.Fields("bulkhead", name, logger.FieldError, err.Error()))
		if deps.Metrics != nil {
			deps.Metrics.RecordError("api", string(errors.ErrCodeBusy))
		}
	})
	return &API{
		serviceName: serviceName,
		uploadDir:   cfg.UploadDir,
		deps:        deps,
		bulkhead:    bulkhead,
		log:         log,
	}, nil
}

// Register mounts every route on s.
func (a *API) Register(s *Server) {
	r := s.Engine()
	r.Use(a.instrument())
	r.NoRoute(func(c *gin.Context) {
		RespondWithError(c, errors.NotFound("route", c.Request.URL.Path))
	})

	r.GET("/health", endpoint.Liveness)
	r.GET("/ready", endpoint.Readiness(a.serviceName, a.deps.Probe, a.deps.Metrics))
	r.GET("/info", endpoint.Info(a.serviceName))
	if a.deps.Metrics != nil {
		path := a.deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(a.deps.Metrics.Handler()))
	}

	r.POST("/transcribe", a.transcribe)
	r.POST("/search", a.search)
	r.GET("/reports", a.listReports)
	r.GET("/reports/:id", a.getReport)
	if a.deps.Events != nil {
		r.GET("/events", a.events)
	}
}

// instrument traces each request and records it by route template.
func (a *API) instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx, span := observability.StartSpan(c.Request.Context(), observability.SpanHTTPRequest)
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		observability.Annotate(ctx,
			attribute.String(observability.AttrRoute, c.Request.Method+" "+route),
			attribute.Int(observability.AttrHTTPStatus, status),
		)
		if len(c.Errors) > 0 {
			observability.RecordError(ctx, c.Errors.Last())
		}
		if a.deps.Metrics != nil {
			a.deps.Metrics.RecordHTTP(c.Request.Method, route, status, time.Since(start))
		}
	}
}

func (a *API) transcribe(c *gin.Context) {
	fh, err := c.FormFile(UploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			RespondWithError(c, errors.TooLarge(tooLarge.Limit))
			return
		}
		RespondWithError(c, errors.InputError(UploadField, "a multipart field named \"file\" is required"))
		return
	}

	contentType := fh.Header.Get("Content-Type")
	if mt, _, perr := mime.ParseMediaType(contentType); perr == nil {
		contentType = mt
	}
	if !AcceptedAudioTypes[strings.ToLower(contentType)] {
		RespondWithError(c, errors.InputError(fh.Filename, "unsupported content type "+contentType).
			WithDetail("content_type", contentType))
		return
	}

	dir, err := os.MkdirTemp(a.uploadDir, "upload-*")
	if err != nil {
		RespondWithError(c, errors.Internal(err))
		return
	}
	defer os.RemoveAll(dir)

	// The report is named after the upload, so keep its base name.
	dst := filepath.Join(dir, uploadName(fh.Filename))
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		RespondWithError(c, errors.Internal(err))
		return
	}

	ctx := c.Request.Context()
	a.log.WithContext(ctx).Info("Upload received", logger.Fields(
		logger.FieldInput, fh.Filename, "bytes", fh.Size, "content_type", contentType,
	))

	rep, err := resilience.Run(ctx, a.bulkhead, func(ctx context.Context) (*orchestrator.Report, error) {
		return a.deps.Pipeline.Run(ctx, dst)
	})
	if err != nil {
		if resilience.IsRejected(err) {
			err = errors.Busy("pipeline", err)
		}
		RespondWithError(c, err)
		return
	}
	RespondOK(c, rep)
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

func (a *API) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, errors.ValidationError("request body must be a JSON object").WithCause(err))
		return
	}
	if verr := validation.New().Range("top_k", req.TopK, 0, maxTopK).Err(); verr != nil {
		RespondWithError(c, verr)
		return
	}

	results, err := a.deps.Search.Search(c.Request.Context(), req.Query, req.TopK)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondList(c, results)
}

// events streams run transitions. ?run_id= narrows the stream to one run.
func (a *API) events(c *gin.Context) {
	pattern := orchestrator.AllRunsTopic
	if id := c.Query("run_id"); id != "" {
		if verr := validation.New().RequiredUUID("run_id", id).Err(); verr != nil {
			RespondWithError(c, verr)
			return
		}
		pattern = orchestrator.RunTopic(id)
	}
	sse.Serve(a.deps.Events, c.Writer, c.Request, uuid.NewString(), pattern)
}

func (a *API) listReports(c *gin.Context) {
	ids, err := a.deps.Reports.List(c.Request.Context())
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondList(c, ids)
}

func (a *API) getReport(c *gin.Context) {
	body, err := a.deps.Reports.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondRawJSON(c, body)
}

// uploadName reduces a client supplied file name to a safe base name.
func uploadName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	switch base {
	case "", ".", "..", "/":
		return "upload"
	}
	return base
}
