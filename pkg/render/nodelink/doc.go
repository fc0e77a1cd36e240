// Package nodelink renders a circuit's gate dependencies as a node-link
// diagram.
//
// # Overview
//
// Each drawable gate becomes a node; an edge runs from the previous gate on
// each qubit a gate touches (see [circuit.Dependencies]), labeled with that
// qubit. The result reads top to bottom in execution order and makes the
// circuit's critical path (its depth) visible at a glance.
//
// # Usage
//
//	dot := nodelink.ToDOT(c, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Options
//
//   - Detailed: node labels include the gate's qubits and parameters
//   - Palette: node border colors by gate category
//   - Levels: group gates of the same ASAP level onto one rank
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering; no Graphviz installation is required.
//
// [circuit.Dependencies]: github.com/matzehuels/circuitview/pkg/circuit.Dependencies
package nodelink
