package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/circuitview/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("loaded circuit") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("computed layout") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("computed layout") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("redis cache unavailable") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressReportsElapsed(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("Rendered 2 artifacts")

	out := buf.String()
	if !strings.Contains(out, "Rendered 2 artifacts (") || !strings.Contains(out, "ms)") {
		t.Errorf("progress output = %q", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)

	if got := loggerFromContext(withLogger(context.Background(), custom)); got != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("loggerFromContext should fall back to log.Default()")
	}
}

func TestLoggingHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)
	c.SetLogLevel(log.DebugLevel)

	ctx := context.Background()
	observability.Pipeline().OnLoadStart(ctx, "circular", 3)
	observability.Pipeline().OnLoadComplete(ctx, "synthetic", 48, time.Millisecond, nil)
	observability.Pipeline().OnLoadComplete(ctx, "", 0, time.Millisecond, errors.New("boom"))
	observability.Viewer().OnStaleResponse(1, 2)
	observability.Cache().OnCacheHit(ctx, "artifact")

	out := buf.String()
	for _, want := range []string{"load start", "entanglement=circular", "gates=48", "load failed", "stale response discarded", "cache hit"} {
		if !strings.Contains(out, want) {
			t.Errorf("hook output missing %q:\n%s", want, out)
		}
	}

	// Leaving debug unregisters the hooks.
	buf.Reset()
	c.SetLogLevel(log.InfoLevel)
	observability.Pipeline().OnLoadStart(ctx, "linear", 1)
	if buf.Len() != 0 {
		t.Errorf("hooks still active at info level: %q", buf.String())
	}
}
