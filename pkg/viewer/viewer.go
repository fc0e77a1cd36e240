// Package viewer holds the interactive state of one circuit viewer.
//
// A [Controller] owns the displayed circuit, its layout at the current
// viewport size, and the hovered gate. Events (loads, resizes, pointer
// moves) mutate that state and redraw through a [Surface]. The tooltip and
// depth readout are updated through their own collaborators, so the same
// controller drives the terminal explorer, the HTTP server, and tests.
//
// Loads are sequenced: each call to [Controller.Load] takes a request number
// before fetching, and a response that arrives after a newer request was
// issued is discarded with [errors.ErrCodeSuperseded].
package viewer

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/circuitview/pkg/circuit"
	"github.com/matzehuels/circuitview/pkg/errors"
	"github.com/matzehuels/circuitview/pkg/layout"
	"github.com/matzehuels/circuitview/pkg/observability"
	"github.com/matzehuels/circuitview/pkg/render"
	"github.com/matzehuels/circuitview/pkg/source"
	"github.com/matzehuels/circuitview/pkg/tooltip"
)

// HideDelay is how long a faded tooltip stays in place before it is hidden.
const HideDelay = 150 * time.Millisecond

// Frame is a snapshot of everything needed to draw the viewer.
type Frame struct {
	// Generation increases on every redraw.
	Generation uint64
	Circuit    *circuit.Circuit
	Origin     source.Origin
	Settings   source.Settings
	Layout     layout.Layout
	// Hovered is the highlighted gate index, or render.NoHover.
	Hovered int
}

// Empty reports whether no circuit has been loaded yet.
func (f Frame) Empty() bool { return f.Circuit == nil }

// Surface draws full frames.
type Surface interface {
	Draw(f Frame) error
}

// TooltipView shows gate details. FadeOut starts hiding the tooltip; Hide
// completes it once [HideDelay] has passed without a new hover.
type TooltipView interface {
	Show(c tooltip.Content, p tooltip.Placement)
	FadeOut()
	Hide()
}

// Timer is a cancellable scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d. [time.AfterFunc] is the default.
type Scheduler func(d time.Duration, f func()) Timer

func realScheduler(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Options configures a [Controller]. Only Loader is required.
type Options struct {
	Loader    source.Loader
	Surface   Surface
	Tooltip   TooltipView
	OnDepth   func(depth int)
	Scheduler Scheduler
	Config    layout.Config
	Width     float64
	Height    float64
	Logger    *log.Logger
}

// Controller is the state of one viewer. It is safe for concurrent use.
type Controller struct {
	loader   source.Loader
	surface  Surface
	tip      TooltipView
	onDepth  func(int)
	schedule Scheduler
	cfg      layout.Config
	logger   *log.Logger

	mu       sync.Mutex
	width    float64
	height   float64
	circ     *circuit.Circuit
	origin   source.Origin
	settings source.Settings
	lay      layout.Layout
	hovered  int
	seq      uint64
	gen      uint64
	hide     Timer
}

// New creates a controller. Missing collaborators are replaced by no-ops;
// a zero Config uses [layout.DefaultConfig].
func New(opts Options) *Controller {
	c := &Controller{
		loader:   opts.Loader,
		surface:  opts.Surface,
		tip:      opts.Tooltip,
		onDepth:  opts.OnDepth,
		schedule: opts.Scheduler,
		cfg:      opts.Config,
		logger:   opts.Logger,
		width:    opts.Width,
		height:   opts.Height,
		hovered:  render.NoHover,
	}
	if c.loader == nil {
		c.loader = source.NewFallback(nil, opts.Logger)
	}
	if c.surface == nil {
		c.surface = nopSurface{}
	}
	if c.tip == nil {
		c.tip = nopTooltip{}
	}
	if c.onDepth == nil {
		c.onDepth = func(int) {}
	}
	if c.schedule == nil {
		c.schedule = realScheduler
	}
	if c.cfg == (layout.Config{}) {
		c.cfg = layout.DefaultConfig
	}
	if c.logger == nil {
		c.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return c
}

// Load fetches the circuit for s and displays it. If another Load or
// SetCircuit started while this one was fetching, the result is dropped and
// an ErrCodeSuperseded error returned. On any error the current circuit
// stays on screen.
func (c *Controller) Load(ctx context.Context, s source.Settings) (source.Result, error) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	res, err := c.loader.Load(ctx, s)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		observability.Viewer().OnStaleResponse(seq, c.seq)
		c.logger.Debug("discarding stale circuit", "seq", seq, "latest", c.seq)
		return source.Result{}, errors.New(errors.ErrCodeSuperseded, "load %d superseded by %d", seq, c.seq)
	}
	if err != nil {
		return source.Result{}, err
	}
	if err := c.install(res.Circuit, res.Origin, s); err != nil {
		return res, err
	}
	return res, nil
}

// SetCircuit displays a circuit directly, without fetching. Pending loads
// are superseded.
func (c *Controller) SetCircuit(circ *circuit.Circuit, origin source.Origin, s source.Settings) error {
	if circ == nil {
		return errors.New(errors.ErrCodeInvalidCircuit, "nil circuit")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.install(circ, origin, s)
}

// install replaces the circuit, clears the hover, and redraws. Caller holds mu.
func (c *Controller) install(circ *circuit.Circuit, origin source.Origin, s source.Settings) error {
	c.circ, c.origin, c.settings = circ, origin, s
	c.hovered = render.NoHover
	c.relayout()
	c.hideTooltipNow()
	c.onDepth(circ.Depth)
	return c.redraw("circuit")
}

// Resize changes the viewport and relays out the current circuit. A zero
// dimension means natural size.
func (c *Controller) Resize(width, height float64) error {
	if err := errors.ValidateDimension("width", width); err != nil {
		return err
	}
	if err := errors.ValidateDimension("height", height); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width, c.height = width, height
	if c.circ == nil {
		return nil
	}
	c.relayout()
	return c.redraw("resize")
}

// PointerMove hit-tests the pointer and updates the hovered gate. It
// redraws and reports true only when the hovered gate changed.
func (c *Controller) PointerMove(x, y float64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.circ == nil {
		return false, nil
	}

	idx := render.NoHover
	box, hit := c.lay.HitTest(x, y)
	if hit {
		idx = box.Index
	}
	if idx == c.hovered {
		return false, nil
	}

	c.hovered = idx
	err := c.redraw("hover")
	if hit {
		observability.Viewer().OnHover(idx, box.Gate.Name)
		c.showTooltip(box.Gate)
	} else {
		observability.Viewer().OnHover(render.NoHover, "")
		c.fadeTooltip()
	}
	return true, err
}

// PointerLeave clears the hover when the pointer exits the canvas. It
// redraws only if a gate was hovered.
func (c *Controller) PointerLeave() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fadeTooltip()
	if c.hovered == render.NoHover {
		return false, nil
	}
	c.hovered = render.NoHover
	observability.Viewer().OnHover(render.NoHover, "")
	return true, c.redraw("leave")
}

// Frame returns a snapshot of the current state.
func (c *Controller) Frame() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame()
}

// Hovered returns the hovered gate index, or render.NoHover.
func (c *Controller) Hovered() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hovered
}

// TooltipContent returns the tooltip of the hovered gate, if any.
func (c *Controller) TooltipContent() (tooltip.Content, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	box, ok := c.lay.Box(c.hovered)
	if !ok {
		return tooltip.Content{}, false
	}
	return tooltip.For(box.Gate), true
}

// Close cancels a pending tooltip hide.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelHide()
}

func (c *Controller) frame() Frame {
	return Frame{
		Generation: c.gen,
		Circuit:    c.circ,
		Origin:     c.origin,
		Settings:   c.settings,
		Layout:     c.lay,
		Hovered:    c.hovered,
	}
}

func (c *Controller) relayout() {
	start := time.Now()
	c.lay = layout.Compute(c.circ, c.width, c.height, c.cfg)
	observability.Pipeline().OnLayoutComplete(context.Background(), c.circ.Len(), time.Since(start))
}

func (c *Controller) redraw(reason string) error {
	start := time.Now()
	c.gen++
	err := c.surface.Draw(c.frame())
	observability.Viewer().OnRedraw(reason, time.Since(start))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "draw frame")
	}
	return nil
}

func (c *Controller) showTooltip(g circuit.Gate) {
	c.cancelHide()
	c.tip.Show(tooltip.For(g), tooltip.Place(c.lay.Width, c.lay.Height, tooltip.DefaultHeight))
}

// fadeTooltip starts the fade and schedules the hide. A hover that arrives
// before the delay cancels the hide.
func (c *Controller) fadeTooltip() {
	c.cancelHide()
	c.tip.FadeOut()
	var t Timer
	t = c.schedule(HideDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.hide != t || c.hovered != render.NoHover {
			return
		}
		c.hide = nil
		c.tip.Hide()
	})
	c.hide = t
}

func (c *Controller) hideTooltipNow() {
	c.cancelHide()
	c.tip.Hide()
}

func (c *Controller) cancelHide() {
	if c.hide != nil {
		c.hide.Stop()
		c.hide = nil
	}
}

type nopSurface struct{}

func (nopSurface) Draw(Frame) error { return nil }

type nopTooltip struct{}

func (nopTooltip) Show(tooltip.Content, tooltip.Placement) {}
func (nopTooltip) FadeOut()                                {}
func (nopTooltip) Hide()                                   {}
