package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/circuitview/pkg/cache"
	"github.com/matzehuels/circuitview/pkg/circuit"
	"github.com/matzehuels/circuitview/pkg/layout"
	"github.com/matzehuels/circuitview/pkg/observability"
	"github.com/matzehuels/circuitview/pkg/render"
	"github.com/matzehuels/circuitview/pkg/source"
	"github.com/matzehuels/circuitview/pkg/store"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Loader source.Loader
	Cache  cache.Cache
	Keyer  cache.Keyer
	// Store logs every circuit loaded from the backend. Failures are
	// logged and never fail the run.
	Store  store.Store
	Logger *log.Logger
}

// NewRunner creates a runner with the given loader, cache, and keyer.
// If loader is nil, circuits are always generated locally.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(loader source.Loader, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if loader == nil {
		loader = source.NewFallback(nil, logger)
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Runner{
		Loader: loader,
		Cache:  c,
		Keyer:  keyer,
		Store:  store.NewNullStore(),
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	loaded, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Circuit = loaded.Circuit
	result.Origin = loaded.Origin
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Qubits = loaded.Circuit.QubitCount
	result.Stats.Gates = loaded.Circuit.Len()
	result.Stats.Depth = loaded.Circuit.Depth

	data, err := circuit.Marshal(loaded.Circuit)
	if err != nil {
		return nil, fmt.Errorf("encode circuit: %w", err)
	}
	result.CircuitHash = cache.Hash(data)

	opts.Logger.Info("loaded circuit",
		"origin", result.Origin,
		"qubits", result.Stats.Qubits,
		"gates", result.Stats.Gates,
		"depth", result.Stats.Depth,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	result.Layout = r.ComputeLayout(ctx, loaded.Circuit, opts)
	result.Hovered = HoveredAt(result.Layout, opts.Pointer)
	result.Stats.LayoutTime = time.Since(layoutStart)

	opts.Logger.Debug("computed layout",
		"width", result.Layout.Width,
		"height", result.Layout.Height,
		"hovered", result.Hovered,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	frame := Frame{Circuit: result.Circuit, Origin: result.Origin, Layout: result.Layout, Hovered: result.Hovered}
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, frame, result.CircuitHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load resolves the circuit for opts. A preloaded Options.Circuit is used
// as is; otherwise the runner's loader is asked. Circuits served by the
// backend are logged to the store.
func (r *Runner) Load(ctx context.Context, opts Options) (source.Result, error) {
	if opts.Circuit != nil {
		return source.Result{Circuit: opts.Circuit, Origin: source.OriginFile}, nil
	}
	res, err := r.Loader.Load(ctx, opts.Settings)
	if err != nil {
		return source.Result{}, err
	}
	if res.Origin == source.OriginRemote {
		r.logExperiment(ctx, res, opts.Settings)
	}
	return res, nil
}

// ComputeLayout lays out c for the options' viewport.
func (r *Runner) ComputeLayout(ctx context.Context, c *circuit.Circuit, opts Options) layout.Layout {
	start := time.Now()
	l := layout.Compute(c, opts.Width, opts.Height, layout.DefaultConfig)
	observability.Pipeline().OnLayoutComplete(ctx, c.Len(), time.Since(start))
	return l
}

// HoveredAt returns the gate under p, or [render.NoHover] when p is nil or
// over empty canvas.
func HoveredAt(l layout.Layout, p *Point) int {
	if p == nil {
		return render.NoHover
	}
	if box, ok := l.HitTest(p.X, p.Y); ok {
		return box.Index
	}
	return render.NoHover
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, f Frame, circuitHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	// Try to get all formats from cache (unless refresh requested)
	if !opts.Refresh {
		artifacts := make(map[string][]byte)
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(circuitHash, opts.ArtifactKeyOpts(format, f.Layout, f.Hovered, f.Origin))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
			return artifacts, true, nil // All artifacts from cache
		}
	}

	// Render all formats
	rendered, err := Render(ctx, f, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(circuitHash, opts.ArtifactKeyOpts(format, f.Layout, f.Hovered, f.Origin))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Debug("cache write failed", "format", format, "err", err)
		}
	}

	return rendered, false, nil // Cache miss
}

func (r *Runner) logExperiment(ctx context.Context, res source.Result, s source.Settings) {
	if r.Store == nil {
		return
	}
	e := store.NewExperiment(res.Circuit, s.Reps, string(s.Topology), string(res.Origin), time.Now())
	if err := r.Store.SaveExperiment(ctx, e); err != nil {
		r.Logger.Warn("failed to log experiment", "err", err)
	}
}

// Close releases resources held by the runner (cache and store).
func (r *Runner) Close() error {
	var firstErr error
	if r.Cache != nil {
		firstErr = r.Cache.Close()
	}
	if r.Store != nil {
		if err := r.Store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
