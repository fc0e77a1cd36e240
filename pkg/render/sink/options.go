package sink

import (
	"github.com/matzehuels/circuitview/pkg/layout"
	"github.com/matzehuels/circuitview/pkg/render"
)

// Option configures SVG, PNG, and PDF rendering.
type Option func(*renderer)

type renderer struct {
	opts        render.Options
	scale       float64
	embedFont   bool
	interactive bool
	title       string
}

// WithPalette selects the color palette.
func WithPalette(p render.Palette) Option { return func(r *renderer) { r.opts.Palette = p } }

// WithHovered highlights the gate at sequence index i.
func WithHovered(i int) Option { return func(r *renderer) { r.opts.Hovered = i } }

// WithDepth adds the "Total Depth: N" readout.
func WithDepth(d int) Option {
	return func(r *renderer) { r.opts.ShowDepth = true; r.opts.Depth = d }
}

// WithTooltip draws the hovered gate's tooltip panel.
func WithTooltip() Option { return func(r *renderer) { r.opts.Tooltip = true } }

// WithScale sets the raster scale factor (default 1, one pixel per canvas
// unit). It only affects PNG.
func WithScale(s float64) Option { return func(r *renderer) { r.scale = s } }

// WithEmbeddedFont inlines the Go font into SVG output so labels look the
// same without the font installed.
func WithEmbeddedFont() Option { return func(r *renderer) { r.embedFont = true } }

// WithInteraction adds CSS hover highlighting to SVG output.
func WithInteraction() Option { return func(r *renderer) { r.interactive = true } }

// WithTitle sets the document title (SVG <title>, PDF metadata).
func WithTitle(t string) Option { return func(r *renderer) { r.title = t } }

func newRenderer(opts ...Option) renderer {
	r := renderer{opts: render.DefaultOptions(), scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = 1
	}
	return r
}

func (r renderer) scene(l layout.Layout) render.Scene {
	return render.Build(l, r.opts)
}
