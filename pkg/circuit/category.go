package circuit

import "strings"

// Category is the display class of a gate. It selects the border color and
// glow used by the renderers.
type Category int

const (
	CategoryOther Category = iota
	CategoryHadamard
	CategoryRotation
	CategoryEntangling
	CategoryTwoQubitRotation
)

var categoryNames = map[Category]string{
	CategoryOther:            "other",
	CategoryHadamard:         "hadamard",
	CategoryRotation:         "rotation",
	CategoryEntangling:       "entangling",
	CategoryTwoQubitRotation: "two-qubit-rotation",
}

// String returns the lowercase category name.
func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return categoryNames[CategoryOther]
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Classify maps a gate name to its category by case-sensitive substring
// match, checked in order: "h", then "rz" or "p", then "cx" or "sc", then
// "zz". The first rule that matches wins, so e.g. "rzz" is a rotation and
// any name containing "h" is a Hadamard.
func Classify(name string) Category {
	switch {
	case strings.Contains(name, "h"):
		return CategoryHadamard
	case strings.Contains(name, "rz"), strings.Contains(name, "p"):
		return CategoryRotation
	case strings.Contains(name, "cx"), strings.Contains(name, "sc"):
		return CategoryEntangling
	case strings.Contains(name, "zz"):
		return CategoryTwoQubitRotation
	default:
		return CategoryOther
	}
}
