// Package store records viewed circuits as experiments.
//
// Every circuit the viewer loads from the backend can be logged with the
// settings that produced it. [MongoStore] writes to a MongoDB collection,
// [MemoryStore] keeps entries in process, and [NullStore] discards them.
// Store failures are for the caller to log; they never fail a render.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/matzehuels/circuitview/pkg/circuit"
)

// DefaultExplanation labels experiments logged by the interactive viewer.
const DefaultExplanation = "Q-Lab Interaction"

// Config is the settings an experiment was run with.
type Config struct {
	Reps         int    `bson:"reps" json:"reps"`
	Entanglement string `bson:"entanglement" json:"entanglement"`
}

// Gate is the stored form of one gate. Parameters keep their display form
// so symbolic and numeric values share a type.
type Gate struct {
	Name   string   `bson:"name" json:"name"`
	Qubits []int    `bson:"qubits" json:"qubits"`
	Params []string `bson:"params,omitempty" json:"params,omitempty"`
}

// Experiment is one logged circuit.
type Experiment struct {
	Config      Config    `bson:"config" json:"config"`
	Qubits      int       `bson:"n_qubits" json:"n_qubits"`
	Gates       []Gate    `bson:"gates" json:"gates"`
	Depth       int       `bson:"depth" json:"depth"`
	Origin      string    `bson:"origin" json:"origin"`
	Explanation string    `bson:"explanation" json:"explanation"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
}

// NewExperiment builds the record of circuit c loaded with the given
// settings.
func NewExperiment(c *circuit.Circuit, reps int, entanglement, origin string, at time.Time) Experiment {
	gates := make([]Gate, len(c.Gates))
	for i, g := range c.Gates {
		sg := Gate{Name: g.Name, Qubits: append([]int{}, g.Qubits...)}
		for _, p := range g.Params {
			sg.Params = append(sg.Params, p.String())
		}
		gates[i] = sg
	}
	return Experiment{
		Config:      Config{Reps: reps, Entanglement: entanglement},
		Qubits:      c.QubitCount,
		Gates:       gates,
		Depth:       c.Depth,
		Origin:      origin,
		Explanation: DefaultExplanation,
		Timestamp:   at.UTC(),
	}
}

// Store persists experiments.
type Store interface {
	SaveExperiment(ctx context.Context, e Experiment) error
	// Recent returns up to n experiments, newest first. A non-positive n
	// returns all of them.
	Recent(ctx context.Context, n int) ([]Experiment, error)
	Close() error
}

// NullStore discards everything.
type NullStore struct{}

// NewNullStore returns a store that records nothing.
func NewNullStore() NullStore { return NullStore{} }

func (NullStore) SaveExperiment(context.Context, Experiment) error  { return nil }
func (NullStore) Recent(context.Context, int) ([]Experiment, error) { return nil, nil }
func (NullStore) Close() error                                      { return nil }

// MemoryStore keeps experiments in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu   sync.Mutex
	exps []Experiment
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

// SaveExperiment appends e.
func (m *MemoryStore) SaveExperiment(_ context.Context, e Experiment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exps = append(m.exps, e)
	return nil
}

// Recent returns up to n experiments, newest timestamp first. Entries with
// equal timestamps keep reverse insertion order.
func (m *MemoryStore) Recent(_ context.Context, n int) ([]Experiment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Experiment, len(m.exps))
	for i, e := range m.exps {
		out[len(out)-1-i] = e
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out, nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }

// Len returns the number of stored experiments.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.exps)
}

var (
	_ Store = NullStore{}
	_ Store = (*MemoryStore)(nil)
	_ Store = (*MongoStore)(nil)
)
