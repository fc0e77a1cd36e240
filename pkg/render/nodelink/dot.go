package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/circuitview/pkg/circuit"
	"github.com/matzehuels/circuitview/pkg/render"
	"github.com/matzehuels/circuitview/pkg/tooltip"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes qubits and parameters in node labels.
	// When false, only the uppercased gate name is shown.
	Detailed bool

	// Palette colors node borders by gate category. The zero value uses
	// [render.DefaultPalette].
	Palette render.Palette

	// Levels places gates of the same ASAP level on one rank.
	Levels bool
}

// ToDOT converts a circuit's gate dependencies to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Gates without qubits have no dependencies and are omitted.
func ToDOT(c *circuit.Circuit, opts Options) string {
	p := opts.Palette
	if p.Background == "" {
		p = render.DefaultPalette
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", p.Background)
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fillcolor=%q, fontcolor=%q, fontsize=14, penwidth=2, margin=\"0.2,0.1\"];\n",
		p.GateFill, p.Label)
	fmt.Fprintf(&buf, "  edge [color=%q, fontcolor=%q, fontsize=10];\n", p.Wire, p.Text)
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i, g := range c.Gates {
		if !g.Drawable() {
			continue
		}
		fmt.Fprintf(&buf, "  %q [label=%q, color=%q];\n", nodeID(i), fmtLabel(g, opts.Detailed), p.GateColor(g.Category))
	}

	if opts.Levels {
		writeRanks(&buf, c)
	}

	buf.WriteString("\n")
	for _, d := range circuit.Dependencies(c) {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", nodeID(d.From), nodeID(d.To), fmt.Sprintf("q[%d]", d.Qubit))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(i int) string { return "g" + strconv.Itoa(i) }

func fmtLabel(g circuit.Gate, detailed bool) string {
	name := strings.ToUpper(g.Name)
	if !detailed {
		return name
	}
	parts := []string{name, tooltip.FormatQubits(g.Qubits)}
	if len(g.Params) > 0 {
		parts = append(parts, tooltip.FormatParams(g.Params))
	}
	return strings.Join(parts, "\n")
}

func writeRanks(buf *bytes.Buffer, c *circuit.Circuit) {
	levels := circuit.Levels(c)
	byLevel := map[int][]string{}
	maxLevel := -1
	for i, lv := range levels {
		if lv < 0 {
			continue
		}
		byLevel[lv] = append(byLevel[lv], strconv.Quote(nodeID(i)))
		maxLevel = max(maxLevel, lv)
	}
	for lv := 0; lv <= maxLevel; lv++ {
		if ids := byLevel[lv]; len(ids) > 1 {
			fmt.Fprintf(buf, "  { rank=same; %s; }\n", strings.Join(ids, "; "))
		}
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
