// Package source supplies circuits to the viewer.
//
// A [Source] turns [Settings] into a [circuit.Circuit]. [Client] fetches from
// the classification backend, [Synthetic] generates locally, and [Fallback]
// combines the two: it asks the backend once and serves the synthetic
// circuit on any failure, so callers always get something to draw and never
// see the backend error.
package source

import (
	"context"

	"github.com/matzehuels/circuitview/pkg/circuit"
	"github.com/matzehuels/circuitview/pkg/circuit/synth"
	"github.com/matzehuels/circuitview/pkg/errors"
)

// Accepted repetition range, matching what the backend validates.
const (
	MinReps     = 1
	MaxReps     = 5
	DefaultReps = 2
)

// Settings selects which circuit to display.
type Settings struct {
	Topology synth.Topology `json:"entanglement"`
	Reps     int            `json:"reps"`
}

// DefaultSettings returns linear entanglement with two repetitions.
func DefaultSettings() Settings {
	return Settings{Topology: synth.DefaultTopology, Reps: DefaultReps}
}

// Validate checks the topology and repetition range.
func (s Settings) Validate() error {
	if !s.Topology.Valid() {
		return errors.New(errors.ErrCodeInvalidTopology,
			"unknown entanglement %q (must be linear, circular, or full)", s.Topology)
	}
	if s.Reps < MinReps || s.Reps > MaxReps {
		return errors.New(errors.ErrCodeInvalidReps, "reps must be between %d and %d, got %d", MinReps, MaxReps, s.Reps)
	}
	return nil
}

// ParseSettings builds settings from user input. An empty topology or zero
// reps selects the default.
func ParseSettings(topology string, reps int) (Settings, error) {
	t, err := synth.ParseTopology(topology)
	if err != nil {
		return Settings{}, err
	}
	if reps == 0 {
		reps = DefaultReps
	}
	s := Settings{Topology: t, Reps: reps}
	return s, s.Validate()
}

// Origin records where a circuit came from.
type Origin string

const (
	OriginRemote    Origin = "remote"
	OriginSynthetic Origin = "synthetic"
	OriginFile      Origin = "file"
)

// Source produces a circuit for the given settings.
type Source interface {
	Circuit(ctx context.Context, s Settings) (*circuit.Circuit, error)
}

// Func adapts a function to [Source].
type Func func(ctx context.Context, s Settings) (*circuit.Circuit, error)

// Circuit calls f.
func (f Func) Circuit(ctx context.Context, s Settings) (*circuit.Circuit, error) { return f(ctx, s) }

// Synthetic generates circuits locally. The zero value uses
// [synth.DefaultQubits].
type Synthetic struct {
	Qubits int
}

// Circuit generates the synthetic circuit for s.
func (g Synthetic) Circuit(_ context.Context, s Settings) (*circuit.Circuit, error) {
	n := g.Qubits
	if n == 0 {
		n = synth.DefaultQubits
	}
	return synth.GenerateN(s.Topology, n, s.Reps)
}

// Static always returns the same circuit, regardless of settings.
type Static struct {
	C *circuit.Circuit
}

// Circuit returns the fixed circuit.
func (s Static) Circuit(context.Context, Settings) (*circuit.Circuit, error) { return s.C, nil }
