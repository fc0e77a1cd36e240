// Package cli implements the circuitview command-line interface.
//
// This package provides commands for rendering quantum classifier circuits,
// inspecting the gate under a canvas position, exploring circuits in the
// terminal, serving interactive viewers over HTTP, and managing the artifact
// cache. The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - render: Generate SVG, PNG, PDF, JSON, or gate-dependency outputs
//   - inspect: Hit-test a canvas position and print the gate tooltip
//   - explore: Browse a circuit gate by gate in the terminal
//   - serve: Host interactive viewers over HTTP
//   - cache: Manage the artifact cache
//   - experiments: List circuits logged to the experiment store
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/circuitview/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/circuitview/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Rendered 3 artifacts (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
// Using a distinct type prevents collisions with other packages.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
// The logger can be retrieved later with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
// This ensures commands always have a valid logger even if context setup fails.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability Hooks
// =============================================================================

// loggingHooks reports pipeline, viewer, cache, and HTTP events at debug
// level. It is registered by --verbose.
type loggingHooks struct {
	logger *log.Logger
}

func registerLoggingHooks(l *log.Logger) {
	h := loggingHooks{logger: l}
	observability.Register(observability.Hooks{Pipeline: h, Viewer: h, Cache: h, HTTP: h})
}

func (h loggingHooks) OnLoadStart(_ context.Context, topology string, reps int) {
	h.logger.Debug("load start", "entanglement", topology, "reps", reps)
}

func (h loggingHooks) OnLoadComplete(_ context.Context, origin string, gates int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "duration", d, "err", err)
		return
	}
	h.logger.Debug("load complete", "origin", origin, "gates", gates, "duration", d)
}

func (h loggingHooks) OnLayoutComplete(_ context.Context, gates int, d time.Duration) {
	h.logger.Debug("layout complete", "gates", gates, "duration", d)
}

func (h loggingHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h loggingHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render complete", "formats", formats, "duration", d, "err", err)
}

func (h loggingHooks) OnRedraw(reason string, d time.Duration) {
	h.logger.Debug("redraw", "reason", reason, "duration", d)
}

func (h loggingHooks) OnStaleResponse(seq, latest uint64) {
	h.logger.Debug("stale response discarded", "seq", seq, "latest", latest)
}

func (h loggingHooks) OnHover(index int, gate string) {
	if index < 0 {
		h.logger.Debug("hover cleared")
		return
	}
	h.logger.Debug("hover", "gate", index, "name", gate)
}

func (h loggingHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h loggingHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h loggingHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h loggingHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h loggingHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h loggingHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}
