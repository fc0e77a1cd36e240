// Package tooltip produces the text and fixed placement of the gate tooltip.
//
// Content comes from a small static description table looked up by the
// lowercased gate name, with a generic fallback for anything else. The
// tooltip is always drawn centered horizontally near the bottom of the
// canvas; it never follows the pointer or the hovered gate.
package tooltip

import (
	"fmt"
	"strings"

	"github.com/matzehuels/circuitview/pkg/circuit"
)

// Description is the static text for one gate kind.
type Description struct {
	Title     string `json:"title"`
	Operation string `json:"operation"`
	Text      string `json:"text"`
}

var descriptions = map[string]Description{
	"h": {
		Title:     "H Gate",
		Operation: "Hadamard Transform",
		Text:      "Creates superposition by mapping basis states |0> and |1> to equal probability states |+> and |->.",
	},
	"rz": {
		Title:     "RZ Gate",
		Operation: "Z-Rotation",
		Text:      "Rotates the qubit state around the Z-axis of the Bloch sphere by the specified angle θ, encoding the feature data.",
	},
	"cx": {
		Title:     "CNOT Gate",
		Operation: "Entanglement",
		Text:      "Controlled-NOT gate. Flips the target qubit if the control qubit is |1>, creating quantum entanglement between qubits.",
	},
	"zz": {
		Title:     "ZZ Gate",
		Operation: "Simultaneous Rotation",
		Text:      "Two-qubit rotation around the ZZ-axis. Used in the Feature Map to encode correlations between features.",
	},
}

// Describe returns the description for a gate name. Lookup is
// case-insensitive; unknown names get a generic description titled after
// the uppercased name.
func Describe(name string) Description {
	if d, ok := descriptions[strings.ToLower(name)]; ok {
		return d
	}
	return Description{
		Title:     strings.ToUpper(name) + " Gate",
		Operation: "Quantum Operation",
		Text:      "A quantum logic gate acting on the qubits.",
	}
}

// FormatParams renders parameters for display: numbers as "θ = %.3f",
// symbols verbatim, joined by ", ". An empty list renders as "None".
func FormatParams(params []circuit.Param) string {
	if len(params) == 0 {
		return "None"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		if p.IsNumeric() {
			parts[i] = fmt.Sprintf("θ = %.3f", p.Value())
		} else {
			parts[i] = p.Symbol()
		}
	}
	return strings.Join(parts, ", ")
}

// FormatQubits renders a qubit list as "Qubits: [0, 1]".
func FormatQubits(qubits []int) string {
	parts := make([]string, len(qubits))
	for i, q := range qubits {
		parts[i] = fmt.Sprint(q)
	}
	return "Qubits: [" + strings.Join(parts, ", ") + "]"
}

// Content is everything the tooltip shows for one gate.
type Content struct {
	Title       string `json:"title"`
	Operation   string `json:"operation"`
	Description string `json:"description"`
	Qubits      string `json:"qubits"`
	Params      string `json:"params"`
}

// For builds the tooltip content of g.
func For(g circuit.Gate) Content {
	d := Describe(g.Name)
	return Content{
		Title:       d.Title,
		Operation:   d.Operation,
		Description: d.Text,
		Qubits:      FormatQubits(g.Qubits),
		Params:      FormatParams(g.Params),
	}
}

// Lines returns the content as display lines, title first.
func (c Content) Lines() []string {
	return []string{c.Title, c.Operation, c.Description, c.Qubits, "Parameters: " + c.Params}
}
