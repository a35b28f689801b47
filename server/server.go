package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/legalassist/logger"
	"github.com/kbukum/legalassist/server/middleware"
)

// Server is the HTTP front of legalassist. Routes live on a gin engine;
// the net/http middleware stack wraps the whole engine and the result is
// served over HTTP/1.1 and h2c on one port.
type Server struct {
	srv    *http.Server
	engine *gin.Engine
	bound  atomic.Value // net.Addr once Start succeeds
	log    *logger.Logger
}

// New builds a Server from cfg, which should already have defaults applied.
func New(cfg Config, log *logger.Logger) *Server {
	mode := gin.ReleaseMode
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		mode = gin.DebugMode
	}
	gin.SetMode(mode)
	log = log.WithComponent("server")

	engine := gin.New()
	handler := middleware.Chain(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.CORS(cfg.CORS),
		middleware.BodySizeLimit(cfg.MaxBodySize),
		middleware.RequestLogger(log),
	)(engine)

	return &Server{
		srv: &http.Server{
			Addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler: h2c.NewHandler(handler, &http2.Server{
				MaxConcurrentStreams: 250,
				IdleTimeout:          cfg.Timeouts.Idle,
			}),
			ReadHeaderTimeout: cfg.Timeouts.ReadHeader,
			ReadTimeout:       cfg.Timeouts.Read,
			WriteTimeout:      cfg.Timeouts.Write,
			IdleTimeout:       cfg.Timeouts.Idle,
		},
		engine: engine,
		log:    log,
	}
}

// Engine returns the gin engine for route registration.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Handler returns the fully wrapped handler, for httptest.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Start binds the port and serves in the background. Routes must be
// registered before Start.
func (s *Server) Start(ctx context.Context) error {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("server: bind %s: %w", s.srv.Addr, err)
	}
	s.bound.Store(ln.Addr())

	for _, r := range s.engine.Routes() {
		s.log.Debug("Route registered", logger.Fields("method", r.Method, "path", r.Path))
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", logger.ErrorFields("serve", err))
		}
	}()
	s.log.Info("HTTP server started", logger.Fields("addr", ln.Addr().String()))
	return nil
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// Addr returns the bound address after Start, the configured one before.
func (s *Server) Addr() string {
	if a, ok := s.bound.Load().(net.Addr); ok {
		return a.String()
	}
	return s.srv.Addr
}
