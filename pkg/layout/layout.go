// Package layout computes the geometry of a circuit diagram.
//
// [Compute] is a pure function from a circuit and a viewport size to wire and
// gate coordinates. Drawing is a separate step (see package sink), and
// pointer hit-testing runs against the same [Layout] value so the two never
// disagree.
//
// Wires are horizontal lines, one per qubit, spaced [Config.WireSpacing]
// apart. Gates are placed strictly in sequence order, one column per gate:
// gate k sits at x = StartX + (k+1)*StepSpacing. Gates on disjoint qubits
// are not packed into a shared column, so a circuit is always as wide as its
// gate count. Multi-qubit gates draw a box on every wire they touch joined by
// a vertical connector.
package layout

import (
	"fmt"

	"github.com/matzehuels/circuitview/pkg/circuit"
)

// Config holds the drawing constants, in canvas pixels.
type Config struct {
	GateSize      float64 `json:"gate_size"`
	WireSpacing   float64 `json:"wire_spacing"`
	StepSpacing   float64 `json:"step_spacing"`
	StartX        float64 `json:"start_x"`
	StartY        float64 `json:"start_y"`
	LabelOffset   float64 `json:"label_offset"`
	WireEndMargin float64 `json:"wire_end_margin"`
}

// DefaultConfig is the standard diagram geometry.
var DefaultConfig = Config{
	GateSize:      40,
	WireSpacing:   60,
	StepSpacing:   70,
	StartX:        60,
	StartY:        80,
	LabelOffset:   15,
	WireEndMargin: 20,
}

// Wire is the horizontal line of one qubit.
type Wire struct {
	Qubit int     `json:"qubit"`
	Y     float64 `json:"y"`
	X1    float64 `json:"x1"`
	X2    float64 `json:"x2"`
	Label string  `json:"label"`
	// LabelX is the right edge of the right-aligned label.
	LabelX float64 `json:"label_x"`
}

// Node is the center of one gate box on one wire.
type Node struct {
	Qubit int     `json:"qubit"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// GateBox is the geometry of one gate in the sequence.
type GateBox struct {
	// Index is the gate's position in the circuit's sequence.
	Index int `json:"index"`

	Gate circuit.Gate `json:"-"`

	// X is the column center shared by all of the gate's boxes.
	X float64 `json:"x"`

	// Top is the top edge of the uppermost box.
	Top float64 `json:"top"`

	// SpanTop and SpanBottom are the wire y-coordinates joined by the
	// connector. They are equal for single-qubit gates.
	SpanTop    float64 `json:"span_top"`
	SpanBottom float64 `json:"span_bottom"`

	// Nodes lists one box center per qubit, in the gate's qubit order.
	// It is empty for gates without qubits.
	Nodes []Node `json:"nodes"`
}

// Drawable reports whether the gate has at least one box.
func (b GateBox) Drawable() bool { return len(b.Nodes) > 0 }

// Connector reports whether a vertical connector joins the boxes.
func (b GateBox) Connector() bool { return len(b.Nodes) > 1 }

// Layout is the computed geometry of one circuit at one viewport size.
type Layout struct {
	Config Config    `json:"config"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Wires  []Wire    `json:"wires"`
	Gates  []GateBox `json:"gates"`
}

// WireY returns the y-coordinate of qubit q's wire.
func (c Config) WireY(q int) float64 {
	return c.StartY + float64(q)*c.WireSpacing
}

// GateX returns the column center of the gate at sequence index k.
func (c Config) GateX(k int) float64 {
	return c.StartX + float64(k+1)*c.StepSpacing
}

// NaturalSize returns the smallest viewport that shows every wire and gate.
func (c Config) NaturalSize(qubits, gates int) (w, h float64) {
	w = c.GateX(gates) + c.WireEndMargin
	h = c.WireY(qubits-1) + c.StartY
	return w, h
}

// Compute lays out circ in a width x height viewport. A zero width or
// height is replaced by the natural size. Compute is deterministic and does
// not retain circ.
func Compute(circ *circuit.Circuit, width, height float64, cfg Config) Layout {
	nw, nh := cfg.NaturalSize(circ.QubitCount, circ.Len())
	if width <= 0 {
		width = nw
	}
	if height <= 0 {
		height = nh
	}

	l := Layout{
		Config: cfg,
		Width:  width,
		Height: height,
		Wires:  make([]Wire, circ.QubitCount),
		Gates:  make([]GateBox, circ.Len()),
	}

	for q := range l.Wires {
		l.Wires[q] = Wire{
			Qubit:  q,
			Y:      cfg.WireY(q),
			X1:     cfg.StartX,
			X2:     width - cfg.WireEndMargin,
			Label:  fmt.Sprintf("q[%d]", q),
			LabelX: cfg.StartX - cfg.LabelOffset,
		}
	}

	for k, g := range circ.Gates {
		box := GateBox{Index: k, Gate: g, X: cfg.GateX(k), Nodes: []Node{}}
		if lo, hi, ok := g.Span(); ok {
			box.SpanTop = cfg.WireY(lo)
			box.SpanBottom = cfg.WireY(hi)
			box.Top = box.SpanTop - cfg.GateSize/2
			box.Nodes = make([]Node, len(g.Qubits))
			for i, q := range g.Qubits {
				box.Nodes[i] = Node{Qubit: q, X: box.X, Y: cfg.WireY(q)}
			}
		}
		l.Gates[k] = box
	}
	return l
}
