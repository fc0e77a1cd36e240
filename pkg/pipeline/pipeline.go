// Package pipeline provides the load → layout → render pipeline shared by
// the CLI commands and the HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: resolve [source.Settings] to a circuit, asking the backend first
//     and falling back to the synthetic generator
//  2. Layout: compute wire and gate geometry for the viewport
//  3. Render: generate output in the requested formats
//
// Rendered artifacts are cached by circuit content, so repeated renders of
// the same synthetic circuit (or an unchanged backend circuit) are served
// from the cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(loader, cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Settings: source.Settings{Topology: synth.Full, Reps: 3},
//	    Formats:  []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/circuitview/pkg/cache"
	"github.com/matzehuels/circuitview/pkg/circuit"
	"github.com/matzehuels/circuitview/pkg/errors"
	"github.com/matzehuels/circuitview/pkg/layout"
	"github.com/matzehuels/circuitview/pkg/render"
	"github.com/matzehuels/circuitview/pkg/source"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultScale is the PNG raster scale. Two pixels per canvas unit keeps
	// gate labels legible on high-density displays.
	DefaultScale = 2.0

	// MaxScale bounds PNG output size.
	MaxScale = 8.0
)

// Format constants for output formats.
const (
	FormatSVG         = "svg"
	FormatPNG         = "png"
	FormatPDF         = "pdf"
	FormatJSON        = "json"
	FormatDOT         = "dot"
	FormatNodelinkSVG = "nodelink-svg"
	FormatNodelinkPNG = "nodelink-png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:         true,
	FormatPNG:         true,
	FormatPDF:         true,
	FormatJSON:        true,
	FormatDOT:         true,
	FormatNodelinkSVG: true,
	FormatNodelinkPNG: true,
}

// FormatExtensions maps each format to its file extension.
var FormatExtensions = map[string]string{
	FormatSVG:         ".svg",
	FormatPNG:         ".png",
	FormatPDF:         ".pdf",
	FormatJSON:        ".json",
	FormatDOT:         ".dot",
	FormatNodelinkSVG: ".nodelink.svg",
	FormatNodelinkPNG: ".nodelink.png",
}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatSVG:         "image/svg+xml",
	FormatPNG:         "image/png",
	FormatPDF:         "application/pdf",
	FormatJSON:        "application/json",
	FormatDOT:         "text/vnd.graphviz; charset=utf-8",
	FormatNodelinkSVG: "image/svg+xml",
	FormatNodelinkPNG: "image/png",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Point is a pointer position in canvas coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Settings source.Settings `json:"settings"`
	Refresh  bool            `json:"refresh,omitempty"`

	// Layout options. Zero means the circuit's natural size.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Pointer highlights the gate under it, as if the viewer's pointer
	// rested there.
	Pointer *Point `json:"pointer,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Palette     string   `json:"palette,omitempty"`
	ShowDepth   bool     `json:"show_depth,omitempty"`
	Tooltip     bool     `json:"tooltip,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	EmbedFont   bool     `json:"embed_font,omitempty"`
	Scale       float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// Circuit, when set, bypasses the loader (for example a circuit read
	// from a file). It is reported with [source.OriginFile].
	Circuit *circuit.Circuit `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Circuit is the loaded circuit.
	Circuit *circuit.Circuit

	// Origin records where the circuit came from.
	Origin source.Origin

	// CircuitHash is the content hash of the circuit's wire encoding.
	CircuitHash string

	// Layout is the computed geometry.
	Layout layout.Layout

	// Hovered is the gate under Options.Pointer, or [render.NoHover].
	Hovered int

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Qubits     int
	Gates      int
	Depth      int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json, dot, nodelink-svg, nodelink-png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePalette checks that a palette name is known.
func ValidatePalette(name string) error {
	if _, ok := render.PaletteByName(name); !ok {
		return errors.New(errors.ErrCodeInvalidInput, "invalid palette: %q (must be one of: dark, light)", name)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Settings.Topology == "" {
		o.Settings.Topology = source.DefaultSettings().Topology
	}
	if o.Settings.Reps == 0 {
		o.Settings.Reps = source.DefaultReps
	}
	if o.Circuit == nil {
		if err := o.Settings.Validate(); err != nil {
			return err
		}
	}
	if err := errors.ValidateDimension("width", o.Width); err != nil {
		return err
	}
	if err := errors.ValidateDimension("height", o.Height); err != nil {
		return err
	}

	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidatePalette(o.Palette); err != nil {
		return err
	}
	if o.Scale < 0 || o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be between 0 and %g, got %g", MaxScale, o.Scale)
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Palette == "" {
		o.Palette = render.DefaultPalette.Name
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string, l layout.Layout, hovered int, origin source.Origin) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:  format,
		Width:   l.Width,
		Height:  l.Height,
		Hovered: hovered,
		Palette: o.Palette,
	}
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		opts.Depth = o.ShowDepth
		opts.Tooltip = o.Tooltip
	}
	switch format {
	case FormatSVG:
		opts.Interactive = o.Interactive
		opts.EmbedFont = o.EmbedFont
	case FormatPNG:
		opts.Scale = o.Scale
	case FormatJSON:
		opts.Origin = string(origin)
	}
	return opts
}
