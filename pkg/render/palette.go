package render

import "github.com/matzehuels/circuitview/pkg/circuit"

// Palette holds the colors of a rendered circuit as CSS hex strings.
type Palette struct {
	Name       string `json:"name"`
	Background string `json:"background"`
	Wire       string `json:"wire"`
	GateFill   string `json:"gate_fill"`
	Border     string `json:"border"`
	Text       string `json:"text"`
	Label      string `json:"label"`

	Hadamard         string `json:"hadamard"`
	Rotation         string `json:"rotation"`
	Entangling       string `json:"entangling"`
	TwoQubitRotation string `json:"two_qubit_rotation"`
}

// DefaultPalette is the dark theme of the interactive viewer.
var DefaultPalette = Palette{
	Name:       "dark",
	Background: "#0f172a",
	Wire:       "#4b5563",
	GateFill:   "#1e293b",
	Border:     "#64748b",
	Text:       "#e2e8f0",
	Label:      "#ffffff",

	Hadamard:         "#22d3ee",
	Rotation:         "#f472b6",
	Entangling:       "#818cf8",
	TwoQubitRotation: "#a78bfa",
}

// LightPalette suits printed output.
var LightPalette = Palette{
	Name:       "light",
	Background: "#ffffff",
	Wire:       "#9ca3af",
	GateFill:   "#f8fafc",
	Border:     "#64748b",
	Text:       "#1e293b",
	Label:      "#0f172a",

	Hadamard:         "#0891b2",
	Rotation:         "#db2777",
	Entangling:       "#4f46e5",
	TwoQubitRotation: "#7c3aed",
}

// Palettes lists the built-in palettes by name.
var Palettes = map[string]Palette{
	DefaultPalette.Name: DefaultPalette,
	LightPalette.Name:   LightPalette,
}

// PaletteByName returns the named palette, or false if unknown.
// An empty name selects [DefaultPalette].
func PaletteByName(name string) (Palette, bool) {
	if name == "" {
		return DefaultPalette, true
	}
	p, ok := Palettes[name]
	return p, ok
}

// GateColor returns the accent used for gates of category c. Gates outside
// the known categories use the neutral border color.
func (p Palette) GateColor(c circuit.Category) string {
	switch c {
	case circuit.CategoryHadamard:
		return p.Hadamard
	case circuit.CategoryRotation:
		return p.Rotation
	case circuit.CategoryEntangling:
		return p.Entangling
	case circuit.CategoryTwoQubitRotation:
		return p.TwoQubitRotation
	default:
		return p.Border
	}
}
