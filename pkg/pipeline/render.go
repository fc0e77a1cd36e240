package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/circuitview/pkg/circuit"
	"github.com/matzehuels/circuitview/pkg/layout"
	"github.com/matzehuels/circuitview/pkg/render"
	"github.com/matzehuels/circuitview/pkg/render/nodelink"
	"github.com/matzehuels/circuitview/pkg/render/sink"
	"github.com/matzehuels/circuitview/pkg/source"
)

// Frame is everything a renderer needs about one displayed circuit.
type Frame struct {
	Circuit *circuit.Circuit
	Origin  source.Origin
	Layout  layout.Layout
	Hovered int
}

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, f Frame, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	palette, ok := render.PaletteByName(opts.Palette)
	if !ok {
		return nil, ValidatePalette(opts.Palette)
	}

	sinkOpts := buildSinkOptions(f, palette, opts)
	artifacts := make(map[string][]byte)

	var dot string
	dotSource := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(f.Circuit, nodelink.Options{Palette: palette, Levels: true})
		}
		return dot
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(f.Layout, sinkOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(f.Layout, append(sinkOpts, sink.WithScale(opts.Scale))...)
		case FormatPDF:
			data, err = sink.RenderPDF(f.Layout, sinkOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(f.Layout,
				sink.WithJSONDepth(f.Circuit.Depth),
				sink.WithJSONOrigin(string(f.Origin)),
				sink.WithJSONPalette(palette.Name),
				sink.WithJSONTooltips())
		case FormatDOT:
			data = []byte(dotSource())
		case FormatNodelinkSVG:
			data, err = nodelink.RenderSVG(ctx, dotSource())
		case FormatNodelinkPNG:
			data, err = nodelink.RenderPNG(ctx, dotSource())
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSinkOptions constructs the diagram sink options shared by SVG, PNG,
// and PDF.
func buildSinkOptions(f Frame, palette render.Palette, opts Options) []sink.Option {
	sinkOpts := []sink.Option{
		sink.WithPalette(palette),
		sink.WithHovered(f.Hovered),
		sink.WithTitle(title(f.Circuit)),
	}
	if opts.ShowDepth {
		sinkOpts = append(sinkOpts, sink.WithDepth(f.Circuit.Depth))
	}
	if opts.Tooltip {
		sinkOpts = append(sinkOpts, sink.WithTooltip())
	}
	if opts.Interactive {
		sinkOpts = append(sinkOpts, sink.WithInteraction())
	}
	if opts.EmbedFont {
		sinkOpts = append(sinkOpts, sink.WithEmbeddedFont())
	}
	return sinkOpts
}

func title(c *circuit.Circuit) string {
	return fmt.Sprintf("Quantum circuit: %d qubits, %d gates, depth %d", c.QubitCount, c.Len(), c.Depth)
}
