// Package pkg provides the core libraries for circuitview quantum circuit
// visualization.
//
// # Overview
//
// circuitview draws the feature-map circuit of a quantum classifier as a wire
// diagram: one horizontal wire per qubit and one column per gate, with
// multi-qubit gates joined by a vertical connector. Circuits come from a
// classification backend or, when it is unreachable, from a local generator
// that builds the same circuit shape. The pkg directory is organized into
// four areas:
//
//  1. Domain model ([circuit], [circuit/synth], [source])
//  2. Geometry and interaction ([layout], [tooltip], [viewer])
//  3. Output ([render], [render/sink], [render/nodelink], [pipeline])
//  4. Infrastructure ([cache], [store], [config], [errors], [observability])
//
// # Architecture
//
// The typical data flow:
//
//	Backend GET /circuit-interactive  (or synth.Generate)
//	         ↓
//	    [source] package (fetch with synthetic fallback)
//	         ↓
//	    [layout] package (wire and gate coordinates)
//	         ↓
//	    [render/sink] package (SVG, PNG, PDF, JSON)
//
// The interactive path replaces the last step with a [viewer] controller that
// hit-tests pointer events against the same layout and drives the tooltip.
//
// # Quick Start
//
// Load a circuit and render it to SVG:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/circuitview/pkg/layout"
//	    "github.com/matzehuels/circuitview/pkg/render/sink"
//	    "github.com/matzehuels/circuitview/pkg/source"
//	)
//
//	// 1. Load (backend first, generated circuit on any failure)
//	client, _ := source.NewClient(source.DefaultBaseURL, source.DefaultTimeout)
//	res, _ := source.NewFallback(client, nil).Load(context.Background(), source.DefaultSettings())
//
//	// 2. Compute layout at natural size
//	l := layout.Compute(res.Circuit, 0, 0, layout.DefaultConfig)
//
//	// 3. Render to SVG with the depth readout
//	svg := sink.RenderSVG(l, sink.WithDepth(res.Circuit.Depth))
//
// # Main Packages
//
// [circuit] - Gates, parameters, categories, the backend wire format, and
// ASAP depth.
//
// [circuit/synth] - Deterministic feature-map generator for the linear,
// circular, and full entangling topologies.
//
// [layout] - Pure layout and hit-testing. Rendering and pointer handling read
// the same [layout.Layout], so what is drawn is what is hit.
//
// [tooltip] - Gate descriptions, parameter formatting, and the fixed tooltip
// placement.
//
// [viewer] - Stateful controller: loads with stale-response protection,
// hover tracking with redraw only on change, and a delayed tooltip hide.
//
// [render] - Backend-independent scene (shapes, colors, palettes).
// [render/sink] draws scenes as SVG, PNG, and PDF and exports layouts as
// JSON. [render/nodelink] draws the gate-dependency graph with Graphviz.
//
// [pipeline] - Load → layout → render with artifact caching, used by the
// CLI and the HTTP server.
//
// [cache] - File, Redis, and null artifact caches with content-hash keys.
//
// [store] - Experiment log backed by MongoDB.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/layout/...   # Specific package
//	go test -run Example       # Examples only
//
// [circuit]: https://pkg.go.dev/github.com/matzehuels/circuitview/pkg/circuit
// [circuit/synth]: https://pkg.go.dev/github.com/matzehuels/circuitview/pkg/circuit/synth
// [source]: https://pkg.go.dev/github.com/matzehuels/circuitview/pkg/source
// [layout]: https://pkg.go.dev/github.com/matzehuels/circuitview/pkg/layout
// [tooltip]: https://pkg.go.dev/github.com/matzehuels/circuitview/pkg/tooltip
// [viewer]: https://pkg.go.dev/github.com/matzehuels/circuitview/pkg/viewer
// [render]: https://pkg.go.dev/github.com/matzehuels/circuitview/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/circuitview/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/circuitview/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/circuitview/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/circuitview/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/circuitview/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/circuitview/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/circuitview/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/circuitview/pkg/observability
package pkg
