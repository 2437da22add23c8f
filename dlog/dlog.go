// Package dlog is the diagnostic logger for the DOS/BIOS runtime.
//
// It wraps log/slog the way rcornwell-S370's util/logger package does:
// a small slog.Handler that timestamps, prefixes the level, and writes
// to a file and (above a configurable threshold) to stderr, guarded by
// a mutex since the scheduler's optional background poller can log
// concurrently with the CPU loop.
package dlog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

type handler struct {
	out   io.Writer
	h     slog.Handler
	mu    *sync.Mutex
	debug bool
}

func (h *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &handler{out: h.out, h: h.h.WithAttrs(attrs), mu: h.mu, debug: h.debug}
}

func (h *handler) WithGroup(name string) slog.Handler {
	return &handler{out: h.out, h: h.h.WithGroup(name), mu: h.mu, debug: h.debug}
}

func (h *handler) Handle(ctx context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	ts := r.Time.Format("2006/01/02 15:04:05")
	strs := []string{ts, level, r.Message}
	r.Attrs(func(a slog.Attr) bool {
		strs = append(strs, a.Key+"="+a.Value.String())
		return true
	})
	line := strings.Join(strs, " ") + "\n"

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write([]byte(line))
	}
	if h.debug || r.Level >= slog.LevelWarn {
		_, _ = os.Stderr.Write([]byte(line))
	}
	return err
}

// New builds a *slog.Logger that writes to out, and additionally echoes
// warnings and errors (or everything, if debug is set) to stderr.
func New(out io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	inner := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})
	return slog.New(&handler{out: out, h: inner, mu: &sync.Mutex{}, debug: debug})
}

// Discard is a logger that only ever prints warnings/errors to stderr;
// used by tests and by callers that pass no -trace file.
var Discard = New(io.Discard, false)
