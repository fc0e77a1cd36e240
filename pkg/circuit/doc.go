// Package circuit defines the abstract quantum-circuit model rendered by
// circuitview.
//
// A [Circuit] is a qubit count plus an ordered gate sequence. Circuits are
// immutable once built: every update from a backend or from the synthetic
// generator produces a new value that replaces the previous one wholesale.
//
// # Ingest
//
// Circuits enter the system through [New] (programmatic construction) or
// [Decode] (the backend's JSON wire format). Both validate qubit indices and
// resolve each gate's display [Category] exactly once, so downstream
// packages never re-derive it from the gate name.
//
// # Wire Format
//
//	{
//	  "n_qubits": 4,
//	  "depth": 12,
//	  "gates": [
//	    {"name": "h",  "qubits": [0]},
//	    {"name": "p",  "qubits": [0], "params": ["2.0*x[0]"]},
//	    {"name": "cx", "qubits": [0, 1]},
//	    {"name": "rz", "qubits": [1], "params": [0.12345]}
//	  ]
//	}
//
// "qubitCount" and "qubits" are accepted as aliases of "n_qubits". Parameters
// are numeric or symbolic; see [Param].
package circuit
