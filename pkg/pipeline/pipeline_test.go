package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/circuitview/pkg/cache"
	"github.com/matzehuels/circuitview/pkg/circuit"
	"github.com/matzehuels/circuitview/pkg/circuit/synth"
	"github.com/matzehuels/circuitview/pkg/errors"
	"github.com/matzehuels/circuitview/pkg/layout"
	"github.com/matzehuels/circuitview/pkg/render"
	"github.com/matzehuels/circuitview/pkg/source"
	"github.com/matzehuels/circuitview/pkg/store"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"nodelink-svg", false},
		{"nodelink-png", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestFormatTablesComplete(t *testing.T) {
	for f := range ValidFormats {
		if FormatExtensions[f] == "" {
			t.Errorf("format %q has no extension", f)
		}
		if ContentTypes[f] == "" {
			t.Errorf("format %q has no content type", f)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}

	if opts.Settings != source.DefaultSettings() {
		t.Errorf("Settings = %+v, want defaults", opts.Settings)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Palette != render.DefaultPalette.Name {
		t.Errorf("Palette = %q", opts.Palette)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"bad reps", Options{Settings: source.Settings{Topology: synth.Linear, Reps: 6}}, errors.ErrCodeInvalidReps},
		{"bad topology", Options{Settings: source.Settings{Topology: "star"}}, errors.ErrCodeInvalidTopology},
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad palette", Options{Palette: "neon"}, errors.ErrCodeInvalidInput},
		{"negative width", Options{Width: -1}, errors.ErrCodeInvalidInput},
		{"huge scale", Options{Scale: 100}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsPreloadedCircuitSkipsSettings(t *testing.T) {
	opts := Options{Circuit: testCircuit(t), Settings: source.Settings{Reps: 99}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("preloaded circuit should not need valid settings: %v", err)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Formats: []string{"png"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	first := fmt.Sprintf("%+v", opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if got := fmt.Sprintf("%+v", opts); got != first {
		t.Errorf("options changed on second call:\n%s\n%s", first, got)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{ShowDepth: true, Interactive: true, Scale: 3, Palette: "light"}
	l := layout.Layout{Width: 400, Height: 200}

	svg := opts.ArtifactKeyOpts(FormatSVG, l, 2, source.OriginSynthetic)
	if !svg.Depth || !svg.Interactive || svg.Scale != 0 || svg.Origin != "" {
		t.Errorf("svg key opts = %+v", svg)
	}
	png := opts.ArtifactKeyOpts(FormatPNG, l, 2, source.OriginSynthetic)
	if png.Interactive || png.Scale != 3 {
		t.Errorf("png key opts = %+v", png)
	}
	js := opts.ArtifactKeyOpts(FormatJSON, l, 2, source.OriginSynthetic)
	if js.Depth || js.Origin != "synthetic" {
		t.Errorf("json key opts = %+v", js)
	}
	if svg.Width != 400 || svg.Height != 200 || svg.Hovered != 2 || svg.Palette != "light" {
		t.Errorf("common key opts = %+v", svg)
	}
}

func TestHoveredAt(t *testing.T) {
	l := layout.Compute(testCircuit(t), 0, 0, layout.DefaultConfig)
	cfg := layout.DefaultConfig

	tests := []struct {
		name string
		p    *Point
		want int
	}{
		{"no pointer", nil, render.NoHover},
		{"first gate", &Point{X: cfg.GateX(0), Y: cfg.WireY(0)}, 0},
		{"cx lower box", &Point{X: cfg.GateX(1), Y: cfg.WireY(1)}, 1},
		{"empty canvas", &Point{X: 1, Y: 1}, render.NoHover},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HoveredAt(l, tt.p); got != tt.want {
				t.Errorf("HoveredAt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExecuteSynthetic(t *testing.T) {
	mem := store.NewMemoryStore()
	r := NewRunner(nil, nil, nil, nil)
	r.Store = mem
	defer r.Close()

	res, err := r.Execute(context.Background(), Options{
		Settings:  source.Settings{Topology: synth.Circular, Reps: 1},
		Formats:   []string{FormatSVG, FormatJSON, FormatDOT},
		ShowDepth: true,
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if res.Origin != source.OriginSynthetic {
		t.Errorf("Origin = %q, want synthetic", res.Origin)
	}
	if res.Stats.Qubits != synth.DefaultQubits || res.Stats.Gates != res.Circuit.Len() {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if len(res.CircuitHash) != 64 {
		t.Errorf("CircuitHash = %q", res.CircuitHash)
	}
	if res.Hovered != render.NoHover {
		t.Errorf("Hovered = %d without pointer", res.Hovered)
	}
	if res.CacheInfo.RenderHit {
		t.Error("NullCache run should not hit")
	}

	svg := res.Artifacts[FormatSVG]
	if !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Errorf("svg artifact starts with %q", svg[:min(len(svg), 20)])
	}
	if !bytes.Contains(svg, []byte(fmt.Sprintf("Total Depth: %d", res.Circuit.Depth))) {
		t.Error("svg should contain the depth readout")
	}

	var exported struct {
		Origin string `json:"origin"`
		Gates  []any  `json:"gates"`
	}
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &exported); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if exported.Origin != "synthetic" || len(exported.Gates) != res.Circuit.Len() {
		t.Errorf("json artifact origin=%q gates=%d", exported.Origin, len(exported.Gates))
	}

	if !strings.HasPrefix(string(res.Artifacts[FormatDOT]), "digraph G {") {
		t.Error("dot artifact should be a digraph")
	}

	if mem.Len() != 0 {
		t.Errorf("synthetic circuits should not be logged, store has %d", mem.Len())
	}
}

type remoteLoader struct {
	c     *circuit.Circuit
	calls int
}

func (l *remoteLoader) Load(_ context.Context, _ source.Settings) (source.Result, error) {
	l.calls++
	return source.Result{Circuit: l.c, Origin: source.OriginRemote}, nil
}

func TestExecuteRemoteLogsExperiment(t *testing.T) {
	mem := store.NewMemoryStore()
	r := NewRunner(&remoteLoader{c: testCircuit(t)}, nil, nil, nil)
	r.Store = mem

	_, err := r.Execute(context.Background(), Options{
		Settings: source.Settings{Topology: synth.Full, Reps: 3},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	got, _ := mem.Recent(context.Background(), 0)
	if len(got) != 1 {
		t.Fatalf("store has %d experiments, want 1", len(got))
	}
	e := got[0]
	if e.Config != (store.Config{Reps: 3, Entanglement: "full"}) || e.Origin != "remote" || len(e.Gates) != 3 {
		t.Errorf("experiment = %+v", e)
	}
}

type failingStore struct{ store.NullStore }

func (failingStore) SaveExperiment(context.Context, store.Experiment) error {
	return fmt.Errorf("connection refused")
}

func TestExecuteStoreFailureIgnored(t *testing.T) {
	r := NewRunner(&remoteLoader{c: testCircuit(t)}, nil, nil, nil)
	r.Store = failingStore{}

	if _, err := r.Execute(context.Background(), Options{}); err != nil {
		t.Errorf("store failure should not fail the run: %v", err)
	}
}

func TestExecuteLoadError(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r.Loader = source.NewFallback(source.Func(func(ctx context.Context, _ source.Settings) (*circuit.Circuit, error) {
		return nil, ctx.Err()
	}), nil)
	if _, err := r.Execute(ctx, Options{}); err == nil {
		t.Error("cancelled load should fail")
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestExecutePointerHover(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	cfg := layout.DefaultConfig

	res, err := r.Execute(context.Background(), Options{
		Circuit: testCircuit(t),
		Pointer: &Point{X: cfg.GateX(2), Y: cfg.WireY(1)},
		Tooltip: true,
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.Origin != source.OriginFile {
		t.Errorf("Origin = %q, want file", res.Origin)
	}
	if res.Hovered != 2 {
		t.Errorf("Hovered = %d, want 2", res.Hovered)
	}
	if !bytes.Contains(res.Artifacts[FormatSVG], []byte("RZ Gate")) {
		t.Error("tooltip panel should describe the hovered gate")
	}
}

func TestExecuteArtifactCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	loader := &remoteLoader{c: testCircuit(t)}
	r := NewRunner(loader, fc, nil, nil)
	defer r.Close()
	ctx := context.Background()
	opts := Options{Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("first Execute() error: %v", err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should miss")
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the artifact cache")
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}
	if loader.calls != 2 {
		t.Errorf("loader called %d times; the circuit is always reloaded", loader.calls)
	}

	// A different hover produces a different artifact key.
	cfg := layout.DefaultConfig
	hovered := opts
	hovered.Pointer = &Point{X: cfg.GateX(0), Y: cfg.WireY(0)}
	third, err := r.Execute(ctx, hovered)
	if err != nil {
		t.Fatalf("hovered Execute() error: %v", err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("hovered render should not reuse the unhovered artifact")
	}

	refresh := opts
	refresh.Refresh = true
	fourth, err := r.Execute(ctx, refresh)
	if err != nil {
		t.Fatalf("refresh Execute() error: %v", err)
	}
	if fourth.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	c := testCircuit(t)
	f := Frame{Circuit: c, Layout: layout.Compute(c, 0, 0, layout.DefaultConfig), Hovered: render.NoHover}
	_, err := Render(context.Background(), f, Options{Formats: []string{"bmp"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func testCircuit(t *testing.T) *circuit.Circuit {
	t.Helper()
	c, err := circuit.New(2, []circuit.Gate{
		{Name: "h", Qubits: []int{0}},
		{Name: "cx", Qubits: []int{0, 1}},
		{Name: "rz", Qubits: []int{1}, Params: []circuit.Param{circuit.Number(0.5)}},
	})
	if err != nil {
		t.Fatalf("circuit.New: %v", err)
	}
	return c
}
