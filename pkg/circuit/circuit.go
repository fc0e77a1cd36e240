package circuit

import (
	"slices"

	"github.com/matzehuels/circuitview/pkg/errors"
)

// Gate is one operation in a circuit's gate sequence.
type Gate struct {
	// Name is the gate identifier as received (e.g. "h", "cx", "rz").
	// It is case-sensitive for classification.
	Name string

	// Qubits lists the wire indices the gate acts on. One index is a
	// single-qubit gate, two or more a multi-qubit gate. An empty list is
	// tolerated; such gates keep their sequence position but are never
	// drawn or hit.
	Qubits []int

	// Params holds the gate's numeric or symbolic parameters.
	Params []Param

	// Category is resolved from Name when the circuit is built.
	Category Category
}

// Drawable reports whether the gate occupies at least one wire.
func (g Gate) Drawable() bool { return len(g.Qubits) > 0 }

// IsMultiQubit reports whether the gate spans more than one wire.
func (g Gate) IsMultiQubit() bool { return len(g.Qubits) > 1 }

// Span returns the lowest and highest qubit index the gate touches.
// ok is false for gates without qubits.
func (g Gate) Span() (lo, hi int, ok bool) {
	if len(g.Qubits) == 0 {
		return 0, 0, false
	}
	return slices.Min(g.Qubits), slices.Max(g.Qubits), true
}

// Circuit is an immutable quantum-circuit description.
type Circuit struct {
	// QubitCount is the number of wires, at least 1.
	QubitCount int

	// Depth is the reported circuit depth. Backend circuits carry the
	// server's value; others get [ComputeDepth].
	Depth int

	// Gates is the gate sequence in drawing order.
	Gates []Gate
}

// New builds a validated circuit from a qubit count and gate sequence.
// The gates are copied, each gate's category is resolved, and the depth is
// computed from the sequence.
func New(qubitCount int, gates []Gate) (*Circuit, error) {
	return build(qubitCount, -1, gates)
}

// build validates and copies. A negative depth means "compute it".
func build(qubitCount, depth int, gates []Gate) (*Circuit, error) {
	if qubitCount < 1 {
		return nil, errors.New(errors.ErrCodeInvalidCircuit, "qubit count must be at least 1, got %d", qubitCount)
	}

	owned := make([]Gate, len(gates))
	for i, g := range gates {
		if g.Name == "" {
			return nil, errors.New(errors.ErrCodeInvalidCircuit, "gate %d has no name", i)
		}
		for _, q := range g.Qubits {
			if q < 0 || q >= qubitCount {
				return nil, errors.New(errors.ErrCodeInvalidCircuit,
					"gate %d (%s) references qubit %d outside [0, %d)", i, g.Name, q, qubitCount)
			}
		}
		owned[i] = Gate{
			Name:     g.Name,
			Qubits:   slices.Clone(g.Qubits),
			Params:   slices.Clone(g.Params),
			Category: Classify(g.Name),
		}
	}

	c := &Circuit{QubitCount: qubitCount, Gates: owned}
	if depth < 0 {
		c.Depth = ComputeDepth(c)
	} else {
		c.Depth = depth
	}
	return c, nil
}

// Len returns the number of gates in the sequence.
func (c *Circuit) Len() int { return len(c.Gates) }

// Gate returns the gate at sequence index i.
func (c *Circuit) Gate(i int) (Gate, bool) {
	if i < 0 || i >= len(c.Gates) {
		return Gate{}, false
	}
	return c.Gates[i], true
}

// CountByCategory tallies gates per category.
func (c *Circuit) CountByCategory() map[Category]int {
	counts := make(map[Category]int)
	for _, g := range c.Gates {
		counts[g.Category]++
	}
	return counts
}
