package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/circuitview/pkg/circuit"
	"github.com/matzehuels/circuitview/pkg/render"
)

func testCircuit(t *testing.T) *circuit.Circuit {
	t.Helper()
	c, err := circuit.New(3, []circuit.Gate{
		{Name: "h", Qubits: []int{0}},
		{Name: "h", Qubits: []int{1}},
		{Name: "cx", Qubits: []int{0, 1}},
		{Name: "barrier"},
		{Name: "rz", Qubits: []int{2}, Params: []circuit.Param{circuit.Number(0.25)}},
	})
	if err != nil {
		t.Fatalf("circuit.New: %v", err)
	}
	return c
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(testCircuit(t), Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	for _, want := range []string{
		`"g0" [label="H", color="#22d3ee"]`,
		`"g2" [label="CX", color="#818cf8"]`,
		`"g4" [label="RZ", color="#f472b6"]`,
		`"g0" -> "g2" [label="q[0]"]`,
		`"g1" -> "g2" [label="q[1]"]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s", want)
		}
	}
	if strings.Contains(dot, `"g3"`) {
		t.Error("gates without qubits should be omitted")
	}
	if n := strings.Count(dot, "->"); n != 2 {
		t.Errorf("edges = %d, want 2", n)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(testCircuit(t), Options{Detailed: true})

	if !strings.Contains(dot, `label="CX\nQubits: [0, 1]"`) {
		t.Error("ToDOT() detailed output missing qubits")
	}
	if !strings.Contains(dot, `θ = 0.250`) {
		t.Error("ToDOT() detailed output missing parameters")
	}
}

func TestToDOT_Levels(t *testing.T) {
	dot := ToDOT(testCircuit(t), Options{Levels: true})
	if !strings.Contains(dot, `{ rank=same; "g0"; "g1"; "g4"; }`) {
		t.Errorf("ToDOT() should group level 0 gates:\n%s", dot)
	}
}

func TestToDOT_Palette(t *testing.T) {
	dot := ToDOT(testCircuit(t), Options{Palette: render.LightPalette})
	if !strings.Contains(dot, `bgcolor="#ffffff"`) {
		t.Error("ToDOT() should use the palette background")
	}
}

func TestFmtLabel(t *testing.T) {
	g := circuit.Gate{Name: "rz", Qubits: []int{1}, Params: []circuit.Param{circuit.Symbol("x[1]")}}
	if got := fmtLabel(g, false); got != "RZ" {
		t.Errorf("fmtLabel() simple = %q", got)
	}
	if got := fmtLabel(g, true); got != "RZ\nQubits: [1]\nx[1]" {
		t.Errorf("fmtLabel() detailed = %q", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("SVG without viewBox should be unchanged")
	}
}
