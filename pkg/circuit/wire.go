package circuit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/circuitview/pkg/errors"
)

// wireCircuit is the JSON shape exchanged with the backend.
type wireCircuit struct {
	NQubits    *int       `json:"n_qubits,omitempty"`
	QubitCount *int       `json:"qubitCount,omitempty"`
	Qubits     *int       `json:"qubits,omitempty"`
	Depth      *int       `json:"depth,omitempty"`
	Gates      []wireGate `json:"gates"`
}

type wireGate struct {
	Name   string  `json:"name"`
	Qubits []int   `json:"qubits"`
	Params []Param `json:"params,omitempty"`
}

func (w wireCircuit) count() int {
	for _, p := range []*int{w.NQubits, w.QubitCount, w.Qubits} {
		if p != nil {
			return *p
		}
	}
	return inferCount(w.Gates)
}

// inferCount derives a qubit count from the highest index referenced.
func inferCount(gates []wireGate) int {
	n := 0
	for _, g := range gates {
		for _, q := range g.Qubits {
			if q+1 > n {
				n = q + 1
			}
		}
	}
	return n
}

// Decode reads one circuit in wire format from r and ingests it.
// A missing depth is computed from the gate sequence.
func Decode(r io.Reader) (*Circuit, error) {
	var w wireCircuit
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCircuit, err, "decode circuit")
	}
	if w.Gates == nil {
		return nil, errors.New(errors.ErrCodeInvalidCircuit, "circuit has no gates field")
	}

	gates := make([]Gate, len(w.Gates))
	for i, g := range w.Gates {
		gates[i] = Gate{Name: g.Name, Qubits: g.Qubits, Params: g.Params}
	}

	depth := -1
	if w.Depth != nil {
		if *w.Depth < 0 {
			return nil, errors.New(errors.ErrCodeInvalidCircuit, "depth cannot be negative")
		}
		depth = *w.Depth
	}
	return build(w.count(), depth, gates)
}

// Unmarshal ingests a circuit from JSON bytes.
func Unmarshal(data []byte) (*Circuit, error) {
	return Decode(bytes.NewReader(data))
}

// Marshal encodes the circuit in canonical wire format. The output is
// deterministic and suitable for content hashing.
func Marshal(c *Circuit) ([]byte, error) {
	n, d := c.QubitCount, c.Depth
	w := wireCircuit{NQubits: &n, Depth: &d, Gates: make([]wireGate, len(c.Gates))}
	for i, g := range c.Gates {
		qubits := g.Qubits
		if qubits == nil {
			qubits = []int{}
		}
		w.Gates[i] = wireGate{Name: g.Name, Qubits: qubits, Params: g.Params}
	}
	return json.Marshal(w)
}

// Encode writes the circuit in wire format to w, indented for readability.
func Encode(w io.Writer, c *Circuit) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}

// ReadFile ingests a circuit from a JSON file.
func ReadFile(path string) (*Circuit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open circuit: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
