package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/circuitview/pkg/circuit"
	"github.com/matzehuels/circuitview/pkg/layout"
	"github.com/matzehuels/circuitview/pkg/tooltip"
)

func testLayout(t *testing.T) layout.Layout {
	t.Helper()
	c, err := circuit.New(2, []circuit.Gate{
		{Name: "h", Qubits: []int{0}},
		{Name: "cx", Qubits: []int{0, 1}},
		{Name: "barrier"},
		{Name: "rz", Qubits: []int{1}, Params: []circuit.Param{circuit.Number(0.5)}},
	})
	if err != nil {
		t.Fatalf("circuit.New: %v", err)
	}
	return layout.Compute(c, 0, 0, layout.DefaultConfig)
}

func shapesOf[T Shape](s Scene) []T {
	var out []T
	for _, sh := range s.Shapes {
		if v, ok := sh.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func TestBuildCounts(t *testing.T) {
	s := Build(testLayout(t), DefaultOptions())

	// 2 wires + 1 connector
	if n := len(shapesOf[Line](s)); n != 3 {
		t.Errorf("lines = %d, want 3", n)
	}
	// h, cx (2 boxes), rz; the barrier draws nothing
	if n := len(shapesOf[Rect](s)); n != 4 {
		t.Errorf("rects = %d, want 4", n)
	}
	// 2 wire labels + 4 gate labels
	if n := len(shapesOf[Text](s)); n != 6 {
		t.Errorf("texts = %d, want 6", n)
	}
	if s.Background != DefaultPalette.Background {
		t.Errorf("Background = %s", s.Background)
	}
}

func TestBuildColors(t *testing.T) {
	s := Build(testLayout(t), DefaultOptions())
	want := map[int]string{
		0: DefaultPalette.Hadamard,
		1: DefaultPalette.Entangling,
		3: DefaultPalette.Rotation,
	}
	for _, r := range shapesOf[Rect](s) {
		if r.Stroke != want[r.Gate] {
			t.Errorf("gate %d stroke = %s, want %s", r.Gate, r.Stroke, want[r.Gate])
		}
		if r.Fill != DefaultPalette.GateFill {
			t.Errorf("gate %d fill = %s", r.Gate, r.Fill)
		}
	}
	for _, l := range shapesOf[Line](s) {
		if l.Gate == 1 && (l.Color != DefaultPalette.Entangling || l.Width != ConnectorWidth) {
			t.Errorf("connector = %+v", l)
		}
		if l.Gate == -1 && l.Color != DefaultPalette.Wire {
			t.Errorf("wire = %+v", l)
		}
	}
}

func TestBuildLabels(t *testing.T) {
	s := Build(testLayout(t), DefaultOptions())
	var got []string
	for _, tx := range shapesOf[Text](s) {
		got = append(got, tx.Content)
	}
	want := "q[0] q[1] H CX CX RZ"
	if strings.Join(got, " ") != want {
		t.Errorf("labels = %q, want %q", strings.Join(got, " "), want)
	}
}

func TestBuildGlowOnlyHovered(t *testing.T) {
	opts := DefaultOptions()
	opts.Hovered = 1
	s := Build(testLayout(t), opts)

	glowing := 0
	for _, r := range shapesOf[Rect](s) {
		switch {
		case r.Gate == 1 && r.Glow != DefaultPalette.Entangling:
			t.Errorf("hovered box glow = %q", r.Glow)
		case r.Gate != 1 && r.Glow != "":
			t.Errorf("gate %d should not glow", r.Gate)
		}
		if r.Glow != "" {
			glowing++
		}
	}
	if glowing != 2 {
		t.Errorf("glowing boxes = %d, want 2 (one per qubit)", glowing)
	}
}

func TestBuildOutOfRangeHover(t *testing.T) {
	for _, h := range []int{NoHover, 99, 2} {
		opts := DefaultOptions()
		opts.Hovered = h
		opts.Tooltip = true
		s := Build(testLayout(t), opts)
		for _, r := range shapesOf[Rect](s) {
			if r.Glow != "" {
				t.Errorf("Hovered=%d: gate %d glows", h, r.Gate)
			}
		}
		if n := len(shapesOf[Rect](s)); n != 4 {
			t.Errorf("Hovered=%d: rects = %d, want no tooltip panel", h, n)
		}
	}
}

func TestBuildDepthReadout(t *testing.T) {
	opts := DefaultOptions()
	opts.ShowDepth, opts.Depth = true, 3
	s := Build(testLayout(t), opts)
	texts := shapesOf[Text](s)
	last := texts[len(texts)-1]
	if last.Content != "Total Depth: 3" {
		t.Errorf("readout = %q", last.Content)
	}
}

func TestBuildTooltipPanel(t *testing.T) {
	opts := DefaultOptions()
	opts.Hovered = 3
	opts.Tooltip = true
	l := testLayout(t)
	s := Build(l, opts)

	rects := shapesOf[Rect](s)
	panel := rects[len(rects)-1]
	if panel.W != tooltip.Width || panel.Gate != -1 {
		t.Fatalf("panel = %+v", panel)
	}
	if panel.X < 0 || panel.Y < 0 {
		t.Errorf("panel should be clamped into the canvas: %+v", panel)
	}

	var found bool
	for _, tx := range shapesOf[Text](s) {
		if tx.Content == "Parameters: θ = 0.500" {
			found = true
		}
	}
	if !found {
		t.Error("tooltip should show formatted parameters")
	}
}

func TestTooltipLinesWrap(t *testing.T) {
	lines, h := TooltipLines(tooltip.For(circuit.Gate{Name: "cx", Qubits: []int{0, 1}}))
	for _, ln := range lines[1:] {
		if n := len([]rune(ln)); n > tooltipWrap {
			t.Errorf("line %q has %d runes", ln, n)
		}
	}
	if want := 2*tooltipPadding + float64(len(lines))*tooltipLineHeight; h != want {
		t.Errorf("height = %v, want %v", h, want)
	}
}

func TestPaletteGateColor(t *testing.T) {
	p := DefaultPalette
	tests := map[circuit.Category]string{
		circuit.CategoryHadamard:         "#22d3ee",
		circuit.CategoryRotation:         "#f472b6",
		circuit.CategoryEntangling:       "#818cf8",
		circuit.CategoryTwoQubitRotation: "#a78bfa",
		circuit.CategoryOther:            "#64748b",
	}
	for c, want := range tests {
		if got := p.GateColor(c); got != want {
			t.Errorf("GateColor(%s) = %s, want %s", c, got, want)
		}
	}
}

func TestPaletteByName(t *testing.T) {
	if p, ok := PaletteByName(""); !ok || p.Name != "dark" {
		t.Errorf("PaletteByName(\"\") = %s, %v", p.Name, ok)
	}
	if p, ok := PaletteByName("light"); !ok || p != LightPalette {
		t.Errorf("PaletteByName(light) = %s, %v", p.Name, ok)
	}
	if _, ok := PaletteByName("neon"); ok {
		t.Error("unknown palette should not resolve")
	}
}

func TestWrap(t *testing.T) {
	got := wrap("aa bb cc dd", 5)
	want := []string{"aa bb", "cc dd"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("wrap = %q, want %q", got, want)
	}
	if got := wrap("", 5); len(got) != 1 {
		t.Errorf("wrap(\"\") = %q", got)
	}
}
