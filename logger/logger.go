package logger

import (
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger writes structured entries. The zero value is not usable; build one
// with New, NewWithWriter or NewNop.
type Logger struct {
	zl zerolog.Logger
}

// New builds a logger from cfg tagged with service. cfg should already
// have defaults applied. An unknown level falls back to info.
func New(cfg *Config, service string) *Logger {
	out := cfg.writer()
	if cfg.Format == "console" && cfg.Output != OutputFile {
		out = consoleWriter(out, cfg.NoColor)
	}
	return build(out, cfg.Level, cfg.Caller, service)
}

// NewWithWriter builds a JSON logger writing to w.
func NewWithWriter(w io.Writer, level, service string) *Logger {
	return build(w, level, false, service)
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func build(out io.Writer, level string, caller bool, service string) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zc := zerolog.New(out).Level(lvl).With().Timestamp()
	if caller {
		zc = zc.Caller()
	}
	if service != "" {
		zc = zc.Str(FieldService, service)
	}
	return &Logger{zl: zc.Logger()}
}

// WithComponent returns a logger tagged with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{zl: l.zl.With().Str(FieldComponent, name).Logger()}
}

func (l *Logger) Debug(msg string, fields ...map[string]any) { emit(l.zl.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...map[string]any)  { emit(l.zl.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...map[string]any)  { emit(l.zl.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields ...map[string]any) { emit(l.zl.Error(), msg, fields) }

func emit(ev *zerolog.Event, msg string, fields []map[string]any) {
	if ev == nil {
		return
	}
	for _, m := range fields {
		ev.Fields(m)
	}
	ev.Msg(msg)
}

var (
	globalMu sync.RWMutex
	global   *Logger
)

// Init builds the process-wide logger from cfg and routes zerolog's global
// logger through it.
func Init(cfg Config) {
	cfg.ApplyDefaults()
	SetGlobalLogger(New(&cfg, ""))
}

// SetGlobalLogger replaces the process-wide logger.
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	global = l
	log.Logger = l.zl
	globalMu.Unlock()
}

// GetGlobalLogger returns the process-wide logger, a console logger on
// stdout until Init or SetGlobalLogger is called.
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	l := global
	globalMu.RUnlock()
	if l != nil {
		return l
	}
	cfg := Config{}
	cfg.ApplyDefaults()
	return New(&cfg, "")
}
