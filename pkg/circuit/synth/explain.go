package synth

import (
	"fmt"
	"strings"
)

// Explanation describes an entangling topology for display next to the
// circuit.
type Explanation struct {
	Summary string `json:"summary"`
	// Formula is a LaTeX product of the layer's CNOT gates.
	Formula string `json:"formula"`
}

var summaries = map[Topology]string{
	Linear:   "Linear: Adjacent CNOT gates create correlations between neighboring qubits.",
	Circular: "Circular: Ring topology with CNOT from last to first qubit.",
	Full:     "Full: All-to-all connectivity for maximum expressivity.",
}

// Explain returns the summary and formula for t on n qubits. Unknown
// topologies are explained as [Linear].
func Explain(t Topology, n int) Explanation {
	if _, ok := summaries[t]; !ok {
		t = Linear
	}
	if t == Full {
		return Explanation{Summary: summaries[t], Formula: `\prod_{i<j} CNOT_{ij}`}
	}

	pairs := t.Pairs(n)
	terms := make([]string, len(pairs))
	for i, p := range pairs {
		terms[i] = fmt.Sprintf("CNOT_{%d%d}", p[0], p[1])
	}
	return Explanation{Summary: summaries[t], Formula: strings.Join(terms, ` \cdot `)}
}
