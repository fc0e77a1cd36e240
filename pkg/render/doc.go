// Package render turns a computed circuit layout into drawable output.
//
// # Overview
//
// Rendering happens in two steps. [Build] converts a [layout.Layout] and
// [Options] into a [Scene]: a flat, ordered list of lines, boxes, and text
// in canvas pixels with colors already resolved from the [Palette]. The
// output backends then paint that scene without further decisions:
//
//   - [sink] writes SVG, PNG, PDF, and JSON
//   - [nodelink] draws the gate dependency graph with Graphviz
//
// Because every backend consumes the same scene, the hovered-gate glow,
// labels, and colors agree across formats.
//
// # Scene Order
//
// Wires and their q[i] labels come first. Each drawable gate then adds its
// connector (multi-qubit gates only) followed by one box and label per
// qubit, in sequence order, so later gates paint over earlier ones. The
// optional depth readout and tooltip panel are drawn last.
//
// [sink]: github.com/matzehuels/circuitview/pkg/render/sink
// [nodelink]: github.com/matzehuels/circuitview/pkg/render/nodelink
package render
