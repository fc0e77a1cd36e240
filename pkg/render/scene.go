package render

import (
	"fmt"
	"strings"

	"github.com/matzehuels/circuitview/pkg/layout"
	"github.com/matzehuels/circuitview/pkg/tooltip"
)

// Stroke widths and text sizes, in canvas pixels.
const (
	WireWidth      = 2.0
	ConnectorWidth = 3.0
	BoxStrokeWidth = 2.0
	GlowRadius     = 15.0

	WireLabelSize = 14.0
	GateLabelSize = 12.0
	ReadoutSize   = 14.0
	TooltipSize   = 12.0
)

const (
	tooltipPadding    = 12.0
	tooltipLineHeight = 18.0
	tooltipRadius     = 8.0
	// tooltipWrap approximates how many 12px characters fit on one line.
	tooltipWrap = 44
)

// NoHover marks that no gate is highlighted.
const NoHover = -1

// Options controls scene construction.
type Options struct {
	Palette Palette
	// Hovered is the sequence index of the highlighted gate, or [NoHover].
	Hovered int
	// ShowDepth draws a "Total Depth: N" readout in the top-left corner.
	ShowDepth bool
	Depth     int
	// Tooltip draws the hovered gate's tooltip panel into the scene.
	Tooltip bool
}

// DefaultOptions returns the dark palette with nothing highlighted.
func DefaultOptions() Options {
	return Options{Palette: DefaultPalette, Hovered: NoHover}
}

// Align is the horizontal anchor of a [Text].
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// String returns the SVG text-anchor value.
func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "middle"
	case AlignRight:
		return "end"
	default:
		return "start"
	}
}

// Shape is one drawing primitive: a [Line], [Rect], or [Text].
type Shape interface {
	shape()
}

// Line is a straight stroke.
type Line struct {
	X1, Y1, X2, Y2 float64
	Color          string
	Width          float64
	// Gate is the owning gate index, or -1 for wires.
	Gate int
}

// Rect is a filled, stroked rectangle.
type Rect struct {
	X, Y, W, H  float64
	Fill        string
	Stroke      string
	StrokeWidth float64
	Radius      float64
	// Glow is the halo color, or empty for none.
	Glow string
	// Gate is the owning gate index, or -1.
	Gate int
}

// Text is a single line of text vertically centered on Y.
type Text struct {
	X, Y    float64
	Content string
	Color   string
	Size    float64
	Bold    bool
	Align   Align
}

func (Line) shape() {}
func (Rect) shape() {}
func (Text) shape() {}

// Scene is a fully resolved drawing, painted in order.
type Scene struct {
	Width      float64
	Height     float64
	Background string
	Shapes     []Shape
}

// Build converts a layout into a scene. Gates without qubits produce no
// shapes. An out-of-range Hovered index highlights nothing.
func Build(l layout.Layout, opts Options) Scene {
	p := opts.Palette
	if p.Background == "" {
		p = DefaultPalette
	}
	cfg := l.Config

	s := Scene{Width: l.Width, Height: l.Height, Background: p.Background}
	add := func(sh Shape) { s.Shapes = append(s.Shapes, sh) }

	for _, w := range l.Wires {
		add(Text{X: w.LabelX, Y: w.Y, Content: w.Label, Color: p.Text, Size: WireLabelSize, Align: AlignRight})
		add(Line{X1: w.X1, Y1: w.Y, X2: w.X2, Y2: w.Y, Color: p.Wire, Width: WireWidth, Gate: -1})
	}

	for _, g := range l.Gates {
		if !g.Drawable() {
			continue
		}
		color := p.GateColor(g.Gate.Category)
		if g.Connector() {
			add(Line{X1: g.X, Y1: g.SpanTop, X2: g.X, Y2: g.SpanBottom, Color: color, Width: ConnectorWidth, Gate: g.Index})
		}
		glow := ""
		if g.Index == opts.Hovered {
			glow = color
		}
		label := strings.ToUpper(g.Gate.Name)
		half := cfg.GateSize / 2
		for _, n := range g.Nodes {
			add(Rect{
				X: n.X - half, Y: n.Y - half, W: cfg.GateSize, H: cfg.GateSize,
				Fill: p.GateFill, Stroke: color, StrokeWidth: BoxStrokeWidth,
				Glow: glow, Gate: g.Index,
			})
			add(Text{X: n.X, Y: n.Y, Content: label, Color: p.Label, Size: GateLabelSize, Bold: true, Align: AlignCenter})
		}
	}

	if opts.ShowDepth {
		add(Text{X: 20, Y: 30, Content: fmt.Sprintf("Total Depth: %d", opts.Depth), Color: p.Text, Size: ReadoutSize, Bold: true})
	}

	if opts.Tooltip {
		if g, ok := l.Box(opts.Hovered); ok && g.Drawable() {
			s.Shapes = append(s.Shapes, tooltipShapes(tooltip.For(g.Gate), l.Width, l.Height, p, p.GateColor(g.Gate.Category))...)
		}
	}
	return s
}

// TooltipLines returns the wrapped display lines of c and the height of
// the panel that holds them.
func TooltipLines(c tooltip.Content) ([]string, float64) {
	var lines []string
	for i, ln := range c.Lines() {
		if i == 0 {
			lines = append(lines, ln)
			continue
		}
		lines = append(lines, wrap(ln, tooltipWrap)...)
	}
	return lines, 2*tooltipPadding + float64(len(lines))*tooltipLineHeight
}

func tooltipShapes(c tooltip.Content, width, height float64, p Palette, accent string) []Shape {
	lines, h := TooltipLines(c)
	pos := tooltip.Place(width, height, h)
	left, top := max(pos.Left, 0), max(pos.Top, 0)

	shapes := []Shape{Rect{
		X: left, Y: top, W: tooltip.Width, H: h,
		Fill: p.GateFill, Stroke: accent, StrokeWidth: 1, Radius: tooltipRadius, Gate: -1,
	}}
	for i, ln := range lines {
		t := Text{
			X:       left + tooltipPadding,
			Y:       top + tooltipPadding + (float64(i)+0.5)*tooltipLineHeight,
			Content: ln,
			Color:   p.Text,
			Size:    TooltipSize,
		}
		if i == 0 {
			t.Color, t.Bold, t.Size = accent, true, TooltipSize+2
		}
		shapes = append(shapes, t)
	}
	return shapes
}

// wrap breaks s into lines of at most n runes at word boundaries. Words
// longer than n stay whole.
func wrap(s string, n int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{s}
	}
	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		if len([]rune(cur))+1+len([]rune(w)) > n {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur += " " + w
	}
	return append(lines, cur)
}
