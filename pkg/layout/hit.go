package layout

import "math"

// HitTest returns the gate whose box contains (x, y).
//
// Gates are scanned in sequence order and, within a gate, in qubit order.
// A box is the GateSize square centered on its node; edges count as inside.
// The first match wins. Gates without qubits are never hit.
func (l *Layout) HitTest(x, y float64) (GateBox, bool) {
	half := l.Config.GateSize / 2
	for _, g := range l.Gates {
		for _, n := range g.Nodes {
			if math.Abs(x-n.X) <= half && math.Abs(y-n.Y) <= half {
				return g, true
			}
		}
	}
	return GateBox{}, false
}

// Box returns the gate at sequence index i.
func (l *Layout) Box(i int) (GateBox, bool) {
	if i < 0 || i >= len(l.Gates) {
		return GateBox{}, false
	}
	return l.Gates[i], true
}
