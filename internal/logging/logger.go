// File: internal/logging/logger.go
// Brief: Structured logger construction and the advisory warning sink.

// Package logging builds projkit's logr logger (zap underneath) and exposes the
// narrow Warner interface that synthesis uses for advisory warnings.
package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	crzap "sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// New returns a logger configured with the given level string.
func New(level string, out io.Writer) (logr.Logger, error) {
	lower := strings.ToLower(strings.TrimSpace(level))
	opts := crzap.Options{DestWriter: out}
	var zapLevel zapcore.Level
	switch lower {
	case "debug":
		opts.Development = true
		zapLevel = zapcore.DebugLevel
	case "info", "":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return logr.Logger{}, fmt.Errorf("unknown log level %q (expected debug, info, warn, or error)", level)
	}
	atomic := zap.NewAtomicLevelAt(zapLevel)
	opts.Level = &atomic
	return crzap.New(crzap.UseFlagOptions(&opts)), nil
}

// Warner receives advisory warnings. Warnings never change synthesis output.
type Warner interface {
	Warn(message string)
}

type logrWarner struct {
	log logr.Logger
	zl  *zap.Logger
}

// NewWarner adapts a logr logger. logr has no warn level, so when the sink is
// zap-backed warnings go to zap's Warn and survive a warn threshold; other
// sinks get them at V(0).
func NewWarner(log logr.Logger) Warner {
	w := logrWarner{log: log}
	if u, ok := log.GetSink().(zapr.Underlier); ok {
		w.zl = u.GetUnderlying()
	}
	return w
}

func (w logrWarner) Warn(message string) {
	if w.zl != nil {
		w.zl.Warn(message, zap.String("severity", "warning"))
		return
	}
	w.log.Info(message, "severity", "warning")
}

// Discard drops every warning.
var Discard Warner = discard{}

type discard struct{}

func (discard) Warn(string) {}

// Recorder keeps warnings in memory, mostly for tests and dry runs.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *Recorder) Warn(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

// Messages returns the recorded warnings in order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}
