package sink

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/circuitview/pkg/circuit"
	"github.com/matzehuels/circuitview/pkg/layout"
	"github.com/matzehuels/circuitview/pkg/tooltip"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	depth    int
	hasDepth bool
	origin   string
	palette  string
	tooltips bool
}

// WithJSONDepth records the circuit depth.
func WithJSONDepth(d int) JSONOption {
	return func(r *jsonRenderer) { r.depth = d; r.hasDepth = true }
}

// WithJSONOrigin records where the circuit came from ("remote",
// "synthetic", or "file").
func WithJSONOrigin(o string) JSONOption { return func(r *jsonRenderer) { r.origin = o } }

// WithJSONPalette records the palette name.
func WithJSONPalette(name string) JSONOption { return func(r *jsonRenderer) { r.palette = name } }

// WithJSONTooltips embeds each gate's tooltip content, so clients can show
// hover details without their own gate table.
func WithJSONTooltips() JSONOption { return func(r *jsonRenderer) { r.tooltips = true } }

type jsonOutput struct {
	Width   float64       `json:"width"`
	Height  float64       `json:"height"`
	Config  layout.Config `json:"config"`
	Qubits  int           `json:"qubits"`
	Depth   *int          `json:"depth,omitempty"`
	Origin  string        `json:"origin,omitempty"`
	Palette string        `json:"palette,omitempty"`
	Wires   []layout.Wire `json:"wires"`
	Gates   []jsonGate    `json:"gates"`
}

type jsonGate struct {
	Index    int              `json:"index"`
	Name     string           `json:"name"`
	Label    string           `json:"label"`
	Category circuit.Category `json:"category"`
	Qubits   []int            `json:"qubits"`
	Params   []circuit.Param  `json:"params,omitempty"`
	X        float64          `json:"x"`
	Nodes    []layout.Node    `json:"nodes"`
	Tooltip  *tooltip.Content `json:"tooltip,omitempty"`
}

// RenderJSON exports the layout with per-gate metadata.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:   l.Width,
		Height:  l.Height,
		Config:  l.Config,
		Qubits:  len(l.Wires),
		Origin:  r.origin,
		Palette: r.palette,
		Wires:   l.Wires,
		Gates:   make([]jsonGate, 0, len(l.Gates)),
	}
	if r.hasDepth {
		out.Depth = &r.depth
	}
	if out.Wires == nil {
		out.Wires = []layout.Wire{}
	}

	for _, g := range l.Gates {
		jg := jsonGate{
			Index:    g.Index,
			Name:     g.Gate.Name,
			Label:    strings.ToUpper(g.Gate.Name),
			Category: g.Gate.Category,
			Qubits:   g.Gate.Qubits,
			Params:   g.Gate.Params,
			X:        g.X,
			Nodes:    g.Nodes,
		}
		if jg.Qubits == nil {
			jg.Qubits = []int{}
		}
		if jg.Nodes == nil {
			jg.Nodes = []layout.Node{}
		}
		if r.tooltips && g.Drawable() {
			tc := tooltip.For(g.Gate)
			jg.Tooltip = &tc
		}
		out.Gates = append(out.Gates, jg)
	}

	return json.MarshalIndent(out, "", "  ")
}
