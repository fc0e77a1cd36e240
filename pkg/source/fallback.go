package source

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/circuitview/pkg/circuit"
	"github.com/matzehuels/circuitview/pkg/observability"
)

// Result is a loaded circuit and where it came from.
type Result struct {
	Circuit *circuit.Circuit
	Origin  Origin
}

// Loader resolves settings to a circuit with its origin.
type Loader interface {
	Load(ctx context.Context, s Settings) (Result, error)
}

// Fallback asks Primary and, on any failure, serves Secondary instead. The
// primary error is logged at debug level and otherwise swallowed. A nil
// Primary goes straight to Secondary.
type Fallback struct {
	Primary   Source
	Secondary Source
	Logger    *log.Logger
}

// NewFallback builds a loader that falls back to the synthetic generator.
func NewFallback(primary Source, logger *log.Logger) *Fallback {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Fallback{Primary: primary, Secondary: Synthetic{}, Logger: logger}
}

// Load validates s and resolves it. Only invalid settings, a cancelled
// context, or a failing secondary produce an error.
func (f *Fallback) Load(ctx context.Context, s Settings) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}

	observability.Pipeline().OnLoadStart(ctx, string(s.Topology), s.Reps)
	start := time.Now()

	res, err := f.load(ctx, s)
	gates := 0
	if res.Circuit != nil {
		gates = res.Circuit.Len()
	}
	observability.Pipeline().OnLoadComplete(ctx, string(res.Origin), gates, time.Since(start), err)
	return res, err
}

func (f *Fallback) load(ctx context.Context, s Settings) (Result, error) {
	if f.Primary != nil {
		c, err := f.Primary.Circuit(ctx, s)
		if err == nil {
			return Result{Circuit: c, Origin: OriginRemote}, nil
		}
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		f.logger().Debug("backend unavailable, using synthetic circuit",
			"entanglement", s.Topology, "reps", s.Reps, "err", err)
	}

	secondary := f.Secondary
	if secondary == nil {
		secondary = Synthetic{}
	}
	c, err := secondary.Circuit(ctx, s)
	if err != nil {
		return Result{}, err
	}
	return Result{Circuit: c, Origin: OriginSynthetic}, nil
}

func (f *Fallback) logger() *log.Logger {
	if f.Logger == nil {
		return log.Default()
	}
	return f.Logger
}

var _ Loader = (*Fallback)(nil)
