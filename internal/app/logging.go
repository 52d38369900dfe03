package app

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/decred/slog"
)

// Subsystem tags.
const (
	SubsysPairing    = "PAIR"
	SubsysSubmission = "SUBM"
	SubsysSession    = "SESS"
	SubsysRouter     = "ROUT"
	SubsysStore      = "STOR"
	SubsysTransport  = "XPRT"
	SubsysInbox      = "INBX"
	SubsysBridge     = "BRDG"
	SubsysWallet     = "WLLT"
)

// Logging hands out subsystem loggers that share one backend and level.
type Logging struct {
	backend *slog.Backend

	mu      sync.Mutex
	level   slog.Level
	loggers map[string]slog.Logger
}

// NewLogging writes to w at level ("trace" through "off"; debug forces
// Debug).
func NewLogging(w io.Writer, level string, debug bool) (*Logging, error) {
	lvl := slog.LevelInfo
	if level != "" {
		l, ok := slog.LevelFromString(strings.ToLower(level))
		if !ok {
			return nil, fmt.Errorf("invalid log level %q", level)
		}
		lvl = l
	}
	if debug && lvl > slog.LevelDebug {
		lvl = slog.LevelDebug
	}
	return &Logging{
		backend: slog.NewBackend(w),
		level:   lvl,
		loggers: make(map[string]slog.Logger),
	}, nil
}

// Logger returns the logger for subsystem tag.
func (l *Logging) Logger(tag string) slog.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lg, ok := l.loggers[tag]; ok {
		return lg
	}
	lg := l.backend.Logger(tag)
	lg.SetLevel(l.level)
	l.loggers[tag] = lg
	return lg
}

// Level returns the configured level.
func (l *Logging) Level() slog.Level { return l.level }
