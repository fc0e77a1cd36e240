// Package sink writes circuit diagrams to output formats.
//
// # Overview
//
// A "sink" paints a [render.Scene] built from a [layout.Layout]:
//
//   - SVG: string-built vector output with a blur-filter glow and
//     data-gate attributes for client-side hit-testing
//   - PNG: raster output via the tdewolff/canvas rasterizer
//   - PDF: vector output via the tdewolff/canvas PDF writer
//   - JSON: layout export for external tools
//
// # Usage
//
//	l := layout.Compute(c, 0, 0, layout.DefaultConfig)
//	svg := sink.RenderSVG(l, sink.WithHovered(3), sink.WithDepth(c.Depth))
//	png, err := sink.RenderPNG(l, sink.WithScale(2))
//
// SVG, PNG, and PDF share one option set so a render request means the same
// thing in every format.
//
// [render.Scene]: github.com/matzehuels/circuitview/pkg/render.Scene
// [layout.Layout]: github.com/matzehuels/circuitview/pkg/layout.Layout
package sink
