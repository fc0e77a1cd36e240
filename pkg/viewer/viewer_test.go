package viewer

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/circuitview/pkg/circuit"
	"github.com/matzehuels/circuitview/pkg/circuit/synth"
	"github.com/matzehuels/circuitview/pkg/errors"
	"github.com/matzehuels/circuitview/pkg/observability"
	"github.com/matzehuels/circuitview/pkg/render"
	"github.com/matzehuels/circuitview/pkg/source"
	"github.com/matzehuels/circuitview/pkg/tooltip"
)

type recordingSurface struct {
	mu     sync.Mutex
	frames []Frame
	err    error
}

func (s *recordingSurface) Draw(f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, f)
	return s.err
}

func (s *recordingSurface) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func (s *recordingSurface) last() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames[len(s.frames)-1]
}

type recordingTooltip struct {
	events []string
	shown  tooltip.Content
	at     tooltip.Placement
}

func (t *recordingTooltip) Show(c tooltip.Content, p tooltip.Placement) {
	t.events = append(t.events, "show")
	t.shown, t.at = c, p
}
func (t *recordingTooltip) FadeOut() { t.events = append(t.events, "fade") }
func (t *recordingTooltip) Hide()    { t.events = append(t.events, "hide") }

func (t *recordingTooltip) lastEvent() string {
	if len(t.events) == 0 {
		return ""
	}
	return t.events[len(t.events)-1]
}

// manualScheduler records scheduled calls; fire runs the latest one.
type manualScheduler struct {
	pending []*manualTimer
}

type manualTimer struct {
	f       func()
	d       time.Duration
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (s *manualScheduler) schedule(d time.Duration, f func()) Timer {
	t := &manualTimer{f: f, d: d}
	s.pending = append(s.pending, t)
	return t
}

func (s *manualScheduler) fire() {
	t := s.pending[len(s.pending)-1]
	if !t.stopped {
		t.f()
	}
}

type harness struct {
	c       *Controller
	surface *recordingSurface
	tip     *recordingTooltip
	sched   *manualScheduler
	depths  []int
}

func newHarness(t *testing.T, loader source.Loader) *harness {
	t.Helper()
	h := &harness{surface: &recordingSurface{}, tip: &recordingTooltip{}, sched: &manualScheduler{}}
	if loader == nil {
		loader = source.NewFallback(nil, nil)
	}
	h.c = New(Options{
		Loader:    loader,
		Surface:   h.surface,
		Tooltip:   h.tip,
		OnDepth:   func(d int) { h.depths = append(h.depths, d) },
		Scheduler: h.sched.schedule,
	})
	t.Cleanup(h.c.Close)
	return h
}

func twoGateCircuit(t *testing.T) *circuit.Circuit {
	t.Helper()
	c, err := circuit.New(2, []circuit.Gate{
		{Name: "h", Qubits: []int{0}},
		{Name: "cx", Qubits: []int{0, 1}},
	})
	if err != nil {
		t.Fatalf("circuit.New: %v", err)
	}
	return c
}

func TestLoadDisplaysCircuit(t *testing.T) {
	h := newHarness(t, nil)
	res, err := h.c.Load(context.Background(), source.DefaultSettings())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if res.Origin != source.OriginSynthetic {
		t.Errorf("Origin = %s", res.Origin)
	}

	f := h.c.Frame()
	if f.Circuit != res.Circuit || f.Hovered != render.NoHover {
		t.Errorf("frame = %+v", f)
	}
	if h.surface.count() != 1 {
		t.Errorf("draws = %d, want 1", h.surface.count())
	}
	if len(h.depths) != 1 || h.depths[0] != res.Circuit.Depth {
		t.Errorf("depth readout = %v, want [%d]", h.depths, res.Circuit.Depth)
	}
}

func TestLoadInvalidSettingsKeepsCircuit(t *testing.T) {
	h := newHarness(t, nil)
	_, _ = h.c.Load(context.Background(), source.DefaultSettings())
	before := h.c.Frame()

	_, err := h.c.Load(context.Background(), source.Settings{Topology: synth.Linear, Reps: 0})
	if !errors.Is(err, errors.ErrCodeInvalidReps) {
		t.Fatalf("Load() = %v", err)
	}
	if h.c.Frame().Circuit != before.Circuit {
		t.Error("failed load should keep the previous circuit")
	}
}

// blockingLoader returns a distinguishable circuit per request and waits
// for release before answering.
type blockingLoader struct {
	released map[int]chan struct{}
	started  chan int
}

func (b *blockingLoader) Load(ctx context.Context, s source.Settings) (source.Result, error) {
	b.started <- s.Reps
	<-b.released[s.Reps]
	c, err := synth.GenerateN(s.Topology, s.Reps, 1)
	return source.Result{Circuit: c, Origin: source.OriginRemote}, err
}

func TestLoadDiscardsStaleResponse(t *testing.T) {
	loader := &blockingLoader{
		released: map[int]chan struct{}{1: make(chan struct{}), 2: make(chan struct{})},
		started:  make(chan int, 2),
	}
	h := newHarness(t, loader)

	type outcome struct {
		res source.Result
		err error
	}
	first, second := make(chan outcome, 1), make(chan outcome, 1)

	go func() {
		res, err := h.c.Load(context.Background(), source.Settings{Topology: synth.Linear, Reps: 1})
		first <- outcome{res, err}
	}()
	<-loader.started
	go func() {
		res, err := h.c.Load(context.Background(), source.Settings{Topology: synth.Linear, Reps: 2})
		second <- outcome{res, err}
	}()
	<-loader.started

	// Newer request resolves first, then the stale one.
	close(loader.released[2])
	got2 := <-second
	close(loader.released[1])
	got1 := <-first

	if got2.err != nil {
		t.Fatalf("newer load error: %v", got2.err)
	}
	if !errors.Is(got1.err, errors.ErrCodeSuperseded) {
		t.Fatalf("stale load = %v, want superseded", got1.err)
	}
	if q := h.c.Frame().Circuit.QubitCount; q != 2 {
		t.Errorf("displayed circuit has %d qubits, want the newer (2)", q)
	}
	if h.surface.count() != 1 {
		t.Errorf("draws = %d, want 1", h.surface.count())
	}
}

func TestSetCircuitSupersedesLoad(t *testing.T) {
	loader := &blockingLoader{
		released: map[int]chan struct{}{3: make(chan struct{})},
		started:  make(chan int, 1),
	}
	h := newHarness(t, loader)

	done := make(chan error, 1)
	go func() {
		_, err := h.c.Load(context.Background(), source.Settings{Topology: synth.Linear, Reps: 3})
		done <- err
	}()
	<-loader.started

	c := twoGateCircuit(t)
	if err := h.c.SetCircuit(c, source.OriginFile, source.DefaultSettings()); err != nil {
		t.Fatalf("SetCircuit error: %v", err)
	}
	close(loader.released[3])
	if err := <-done; !errors.Is(err, errors.ErrCodeSuperseded) {
		t.Errorf("Load() = %v, want superseded", err)
	}
	if h.c.Frame().Circuit != c {
		t.Error("SetCircuit result should stay displayed")
	}
}

func TestPointerMoveRedrawsOnChangeOnly(t *testing.T) {
	h := newHarness(t, nil)
	_ = h.c.SetCircuit(twoGateCircuit(t), source.OriginFile, source.DefaultSettings())
	draws := h.surface.count()

	tests := []struct {
		name    string
		x, y    float64
		hovered int
		changed bool
	}{
		{"enter h", 130, 80, 0, true},
		{"stay on h", 140, 90, 0, false},
		{"cx lower box", 200, 140, 1, true},
		{"cx upper box", 200, 80, 1, false},
		{"empty space", 165, 110, render.NoHover, true},
		{"still empty", 10, 10, render.NoHover, false},
	}
	for _, tt := range tests {
		changed, err := h.c.PointerMove(tt.x, tt.y)
		if err != nil {
			t.Fatalf("%s: PointerMove error: %v", tt.name, err)
		}
		if changed != tt.changed {
			t.Errorf("%s: changed = %v, want %v", tt.name, changed, tt.changed)
		}
		if got := h.c.Hovered(); got != tt.hovered {
			t.Errorf("%s: hovered = %d, want %d", tt.name, got, tt.hovered)
		}
		if tt.changed {
			draws++
		}
		if h.surface.count() != draws {
			t.Errorf("%s: draws = %d, want %d", tt.name, h.surface.count(), draws)
		}
	}
}

type hoverHooks struct {
	observability.NoopViewerHooks
	names []string
}

func (h *hoverHooks) OnHover(_ int, gate string) { h.names = append(h.names, gate) }

func TestHoverHooks(t *testing.T) {
	hooks := &hoverHooks{}
	observability.Register(observability.Hooks{Viewer: hooks})
	t.Cleanup(observability.Reset)

	h := newHarness(t, nil)
	_ = h.c.SetCircuit(twoGateCircuit(t), source.OriginFile, source.DefaultSettings())

	_, _ = h.c.PointerMove(130, 80)
	_, _ = h.c.PointerMove(135, 85) // same gate, no event
	_, _ = h.c.PointerMove(200, 140)
	_, _ = h.c.PointerLeave()

	want := []string{"h", "cx", ""}
	if fmt.Sprint(hooks.names) != fmt.Sprint(want) {
		t.Errorf("hover events = %q, want %q", hooks.names, want)
	}
}

func TestPointerMoveShowsTooltip(t *testing.T) {
	h := newHarness(t, nil)
	_ = h.c.SetCircuit(twoGateCircuit(t), source.OriginFile, source.DefaultSettings())

	_, _ = h.c.PointerMove(200, 140)
	if h.tip.lastEvent() != "show" {
		t.Fatalf("tooltip events = %v", h.tip.events)
	}
	if h.tip.shown.Title != "CNOT Gate" || h.tip.shown.Qubits != "Qubits: [0, 1]" {
		t.Errorf("tooltip = %+v", h.tip.shown)
	}

	l := h.c.Frame().Layout
	want := tooltip.Place(l.Width, l.Height, tooltip.DefaultHeight)
	if h.tip.at != want {
		t.Errorf("placement = %+v, want %+v", h.tip.at, want)
	}
	if f := h.surface.last(); f.Hovered != 1 {
		t.Errorf("drawn frame hovered = %d, want 1", f.Hovered)
	}

	content, ok := h.c.TooltipContent()
	if !ok || content.Title != "CNOT Gate" {
		t.Errorf("TooltipContent() = %+v, %v", content, ok)
	}
}

func TestPointerLeave(t *testing.T) {
	h := newHarness(t, nil)
	_ = h.c.SetCircuit(twoGateCircuit(t), source.OriginFile, source.DefaultSettings())
	_, _ = h.c.PointerMove(130, 80)
	draws := h.surface.count()

	changed, err := h.c.PointerLeave()
	if err != nil || !changed {
		t.Fatalf("PointerLeave() = %v, %v", changed, err)
	}
	if h.c.Hovered() != render.NoHover {
		t.Error("hover should be cleared")
	}
	if h.surface.count() != draws+1 {
		t.Error("leaving a hovered gate should redraw to remove the glow")
	}
	if h.tip.lastEvent() != "fade" {
		t.Errorf("tooltip should fade immediately: %v", h.tip.events)
	}
	if d := h.sched.pending[len(h.sched.pending)-1].d; d != HideDelay {
		t.Errorf("hide delay = %v, want %v", d, HideDelay)
	}

	h.sched.fire()
	if h.tip.lastEvent() != "hide" {
		t.Errorf("tooltip should hide after the delay: %v", h.tip.events)
	}

	changed, _ = h.c.PointerLeave()
	if changed || h.surface.count() != draws+1 {
		t.Error("leaving with nothing hovered should not redraw")
	}
}

func TestHoverCancelsPendingHide(t *testing.T) {
	h := newHarness(t, nil)
	_ = h.c.SetCircuit(twoGateCircuit(t), source.OriginFile, source.DefaultSettings())
	_, _ = h.c.PointerMove(130, 80)
	_, _ = h.c.PointerLeave()
	pending := h.sched.pending[len(h.sched.pending)-1]

	_, _ = h.c.PointerMove(200, 80)
	if !pending.stopped {
		t.Error("new hover should cancel the pending hide")
	}
	if pending.f(); h.tip.lastEvent() != "show" {
		t.Errorf("stale hide should not hide a visible tooltip: %v", h.tip.events)
	}
}

func TestReplacingCircuitClearsHover(t *testing.T) {
	h := newHarness(t, nil)
	_ = h.c.SetCircuit(twoGateCircuit(t), source.OriginFile, source.DefaultSettings())
	_, _ = h.c.PointerMove(130, 80)

	if _, err := h.c.Load(context.Background(), source.DefaultSettings()); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if h.c.Hovered() != render.NoHover || h.surface.last().Hovered != render.NoHover {
		t.Error("new circuit should clear the hover")
	}
	if h.tip.lastEvent() != "hide" {
		t.Errorf("new circuit should hide the tooltip: %v", h.tip.events)
	}
}

func TestResize(t *testing.T) {
	calls := 0
	loader := source.Func(func(ctx context.Context, s source.Settings) (*circuit.Circuit, error) {
		calls++
		return synth.Generate(s.Topology, s.Reps)
	})
	h := newHarness(t, &source.Fallback{Primary: loader})
	_, _ = h.c.Load(context.Background(), source.DefaultSettings())

	if err := h.c.Resize(1200, 500); err != nil {
		t.Fatalf("Resize error: %v", err)
	}
	f := h.c.Frame()
	if f.Layout.Width != 1200 || f.Layout.Height != 500 {
		t.Errorf("layout = %vx%v", f.Layout.Width, f.Layout.Height)
	}
	if f.Layout.Wires[0].X2 != 1180 {
		t.Errorf("wire end = %v, want 1180", f.Layout.Wires[0].X2)
	}
	if calls != 1 {
		t.Errorf("Resize should not fetch; loader called %d times", calls)
	}
	if err := h.c.Resize(-1, 10); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Resize(-1) = %v", err)
	}
}

func TestResizeBeforeLoad(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.c.Resize(640, 480); err != nil {
		t.Fatalf("Resize error: %v", err)
	}
	if h.surface.count() != 0 {
		t.Error("nothing to draw before the first load")
	}
	if changed, _ := h.c.PointerMove(100, 100); changed {
		t.Error("pointer events before a load should be ignored")
	}
	if !h.c.Frame().Empty() {
		t.Error("frame should be empty")
	}
}

func TestSurfaceErrorPropagates(t *testing.T) {
	h := newHarness(t, nil)
	h.surface.err = fmt.Errorf("display lost")
	err := h.c.SetCircuit(twoGateCircuit(t), source.OriginFile, source.DefaultSettings())
	if err == nil {
		t.Fatal("SetCircuit should report surface errors")
	}
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("error code = %s", errors.GetCode(err))
	}
}

func TestGenerationIncreases(t *testing.T) {
	h := newHarness(t, nil)
	_ = h.c.SetCircuit(twoGateCircuit(t), source.OriginFile, source.DefaultSettings())
	g1 := h.c.Frame().Generation
	_, _ = h.c.PointerMove(130, 80)
	g2 := h.c.Frame().Generation
	if g2 <= g1 {
		t.Errorf("generation %d -> %d should increase", g1, g2)
	}
}
