// Package synth generates deterministic stand-in circuits shaped like a
// feature-map/ansatz pair. They are served when the backend is unreachable so
// the view never stays empty.
//
// Each repetition applies, in order: "h" on every qubit, "rz" on every qubit
// with a symbolic feature parameter, one entangling layer of "cx" gates laid
// out by the [Topology], and "rx" on every qubit. The result is an ordinary
// [circuit.Circuit] with a computed depth.
package synth

import (
	"fmt"
	"strings"

	"github.com/matzehuels/circuitview/pkg/circuit"
	"github.com/matzehuels/circuitview/pkg/errors"
)

// DefaultQubits is the qubit count of generated circuits.
const DefaultQubits = 4

// Topology selects the qubit pairs coupled by each entangling layer.
type Topology string

const (
	// Linear couples adjacent qubits: (0,1), (1,2), ..., (n-2,n-1).
	Linear Topology = "linear"
	// Circular is Linear plus the wrap-around pair (n-1,0).
	Circular Topology = "circular"
	// Full couples every unordered pair (i,j) with i<j.
	Full Topology = "full"
)

// DefaultTopology is used when none is configured.
const DefaultTopology = Linear

// Topologies lists the supported topologies in display order.
var Topologies = []Topology{Linear, Circular, Full}

// ParseTopology validates a topology name. The empty string selects
// [DefaultTopology].
func ParseTopology(s string) (Topology, error) {
	switch t := Topology(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return DefaultTopology, nil
	case Linear, Circular, Full:
		return t, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidTopology,
			"unknown topology %q (must be linear, circular, or full)", s)
	}
}

// Valid reports whether t is one of the supported topologies.
func (t Topology) Valid() bool {
	return t == Linear || t == Circular || t == Full
}

// Pairs returns the ordered (control, target) pairs of one entangling layer.
func (t Topology) Pairs(n int) [][2]int {
	var pairs [][2]int
	switch t {
	case Linear:
		for q := 0; q < n-1; q++ {
			pairs = append(pairs, [2]int{q, q + 1})
		}
	case Circular:
		if n < 2 {
			return nil
		}
		for q := 0; q < n; q++ {
			pairs = append(pairs, [2]int{q, (q + 1) % n})
		}
	case Full:
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

// Generate builds a circuit on [DefaultQubits] qubits.
func Generate(t Topology, reps int) (*circuit.Circuit, error) {
	return GenerateN(t, DefaultQubits, reps)
}

// GenerateN builds a circuit on n qubits with the given number of
// repetitions.
func GenerateN(t Topology, n, reps int) (*circuit.Circuit, error) {
	if !t.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidTopology, "unknown topology %q", t)
	}
	if reps < 1 {
		return nil, errors.New(errors.ErrCodeInvalidReps, "reps must be at least 1, got %d", reps)
	}
	if n < 1 {
		return nil, errors.New(errors.ErrCodeInvalidCircuit, "qubit count must be at least 1, got %d", n)
	}

	pairs := t.Pairs(n)
	gates := make([]circuit.Gate, 0, reps*(3*n+len(pairs)))
	for range reps {
		for q := range n {
			gates = append(gates, circuit.Gate{Name: "h", Qubits: []int{q}})
		}
		for q := range n {
			gates = append(gates, circuit.Gate{
				Name:   "rz",
				Qubits: []int{q},
				Params: []circuit.Param{circuit.Symbol(fmt.Sprintf("2.0*x[%d]", q))},
			})
		}
		for _, p := range pairs {
			gates = append(gates, circuit.Gate{Name: "cx", Qubits: []int{p[0], p[1]}})
		}
		for q := range n {
			gates = append(gates, circuit.Gate{Name: "rx", Qubits: []int{q}})
		}
	}
	return circuit.New(n, gates)
}
