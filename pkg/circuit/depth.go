package circuit

// ComputeDepth returns the as-soon-as-possible depth of the circuit: each
// gate is placed one level after the deepest earlier gate sharing any of its
// qubits. Gates without qubits do not contribute.
func ComputeDepth(c *Circuit) int {
	levels := Levels(c)
	depth := 0
	for _, l := range levels {
		if l+1 > depth {
			depth = l + 1
		}
	}
	return depth
}

// Levels returns each gate's zero-based ASAP level. Gates without qubits get
// level -1.
func Levels(c *Circuit) []int {
	frontier := make([]int, c.QubitCount)
	levels := make([]int, len(c.Gates))
	for i, g := range c.Gates {
		if !g.Drawable() {
			levels[i] = -1
			continue
		}
		level := 0
		for _, q := range g.Qubits {
			if frontier[q] > level {
				level = frontier[q]
			}
		}
		levels[i] = level
		for _, q := range g.Qubits {
			frontier[q] = level + 1
		}
	}
	return levels
}

// Dependency is an ordering constraint between two gates in the sequence:
// To acts on Qubit after From did.
type Dependency struct {
	From, To int
	Qubit    int
}

// Dependencies returns, for every gate, an edge from the previous gate on
// each qubit it touches. Edges are ordered by target gate, then by qubit
// order within the target.
func Dependencies(c *Circuit) []Dependency {
	last := make([]int, c.QubitCount)
	for i := range last {
		last[i] = -1
	}
	var deps []Dependency
	for i, g := range c.Gates {
		for _, q := range g.Qubits {
			if last[q] >= 0 && last[q] != i {
				deps = append(deps, Dependency{From: last[q], To: i, Qubit: q})
			}
			last[q] = i
		}
	}
	return deps
}
