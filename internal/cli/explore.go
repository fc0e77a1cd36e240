package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/circuitview/pkg/circuit"
	"github.com/matzehuels/circuitview/pkg/circuit/synth"
	"github.com/matzehuels/circuitview/pkg/errors"
	"github.com/matzehuels/circuitview/pkg/layout"
	"github.com/matzehuels/circuitview/pkg/render"
	"github.com/matzehuels/circuitview/pkg/source"
	"github.com/matzehuels/circuitview/pkg/tooltip"
	"github.com/matzehuels/circuitview/pkg/viewer"
)

// exploreCommand creates the explore command: a terminal viewer where the
// arrow keys move a virtual pointer across the canvas.
func (c *CLI) exploreCommand() *cobra.Command {
	var flags circuitFlags

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Explore a circuit interactively in the terminal",
		Long: `Explore a circuit gate by gate.

The arrow keys (or h/j/k/l) move the pointer one gate column or one wire at a
time; the gate under the pointer is highlighted and its tooltip shown.
Press e to cycle the entanglement, +/- to change repetitions, r to reload,
esc to move the pointer off the canvas, and q to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(cmd, &flags)
			if err != nil {
				return err
			}
			loader, err := c.newLoader(flags.offline)
			if err != nil {
				return err
			}
			palette, _ := render.PaletteByName(opts.Palette)

			m := newExploreModel(cmd.Context(), loader, palette, opts.Settings)
			if err := m.ctrl.Resize(opts.Width, opts.Height); err != nil {
				return err
			}
			if opts.Circuit != nil {
				if err := m.ctrl.SetCircuit(opts.Circuit, source.OriginFile, opts.Settings); err != nil {
					return err
				}
				m.fixed = true
			}

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			m.panel.send = func(msg tea.Msg) { go p.Send(msg) }
			_, err = p.Run()
			m.ctrl.Close()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// Panel - tooltip and depth state written by the controller
// =============================================================================

type tipState int

const (
	tipHidden tipState = iota
	tipShown
	tipFading
)

// panel implements viewer.TooltipView. The controller calls it from the
// update loop and from its hide timer, so it has its own lock and notifies
// the program with a message when state changes off the update loop.
type panel struct {
	mu      sync.Mutex
	state   tipState
	content tooltip.Content
	place   tooltip.Placement
	depth   int
	send    func(tea.Msg)
}

type panelChangedMsg struct{}

func (p *panel) Show(c tooltip.Content, pl tooltip.Placement) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state, p.content, p.place = tipShown, c, pl
}

func (p *panel) FadeOut() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == tipShown {
		p.state = tipFading
	}
}

func (p *panel) Hide() {
	p.mu.Lock()
	p.state = tipHidden
	send := p.send
	p.mu.Unlock()
	if send != nil {
		send(panelChangedMsg{})
	}
}

func (p *panel) setDepth(d int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.depth = d
}

func (p *panel) snapshot() (tipState, tooltip.Content, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, p.content, p.depth
}

// =============================================================================
// exploreModel
// =============================================================================

var topologies = []synth.Topology{synth.Linear, synth.Circular, synth.Full}

// cellWidth is the character width of one gate column.
const cellWidth = 7

type loadedMsg struct {
	res source.Result
	err error
}

type exploreModel struct {
	ctx      context.Context
	ctrl     *viewer.Controller
	panel    *panel
	palette  render.Palette
	settings source.Settings

	// pointer position in canvas coordinates
	col, wire int
	onCanvas  bool

	fixed   bool // circuit came from a file; no reloads
	loading bool
	err     error
	width   int
	offset  int
}

func newExploreModel(ctx context.Context, loader source.Loader, palette render.Palette, s source.Settings) *exploreModel {
	p := &panel{}
	m := &exploreModel{
		ctx:      ctx,
		panel:    p,
		palette:  palette,
		settings: s,
		width:    80,
	}
	m.ctrl = viewer.New(viewer.Options{
		Loader:  loader,
		Tooltip: p,
		OnDepth: p.setDepth,
	})
	return m
}

func (m *exploreModel) load() tea.Cmd {
	m.loading = true
	s := m.settings
	return func() tea.Msg {
		res, err := m.ctrl.Load(m.ctx, s)
		return loadedMsg{res: res, err: err}
	}
}

func (m *exploreModel) Init() tea.Cmd {
	if m.fixed {
		return nil
	}
	return m.load()
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if errors.Is(msg.err, errors.ErrCodeSuperseded) {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		m.col, m.wire, m.offset = 0, 0, 0
		m.onCanvas = false
		return m, nil

	case panelChangedMsg:
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m *exploreModel) handleKey(key string) (tea.Model, tea.Cmd) {
	f := m.ctrl.Frame()
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.onCanvas = false
		_, m.err = m.ctrl.PointerLeave()
		return m, nil
	case "left", "h":
		m.col--
	case "right", "l":
		m.col++
	case "up", "k":
		m.wire--
	case "down", "j":
		m.wire++
	case "e":
		if m.fixed {
			return m, nil
		}
		m.settings.Topology = nextTopology(m.settings.Topology)
		return m, m.load()
	case "+", "=":
		if m.fixed || m.settings.Reps >= source.MaxReps {
			return m, nil
		}
		m.settings.Reps++
		return m, m.load()
	case "-":
		if m.fixed || m.settings.Reps <= source.MinReps {
			return m, nil
		}
		m.settings.Reps--
		return m, m.load()
	case "r":
		if m.fixed {
			return m, nil
		}
		return m, m.load()
	default:
		return m, nil
	}

	if f.Empty() {
		return m, nil
	}
	m.col = clamp(m.col, 0, f.Circuit.Len()-1)
	m.wire = clamp(m.wire, 0, f.Circuit.QubitCount-1)
	m.onCanvas = true
	cfg := f.Layout.Config
	_, m.err = m.ctrl.PointerMove(cfg.GateX(m.col), cfg.WireY(m.wire))
	return m, nil
}

func nextTopology(t synth.Topology) synth.Topology {
	for i, v := range topologies {
		if v == t {
			return topologies[(i+1)%len(topologies)]
		}
	}
	return synth.DefaultTopology
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func (m *exploreModel) View() string {
	var b strings.Builder
	f := m.ctrl.Frame()
	state, content, depth := m.panel.snapshot()

	b.WriteString(StyleTitle.Render("circuitview"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("entanglement %s · reps %d", m.settings.Topology, m.settings.Reps)))
	if m.loading {
		b.WriteString(StyleDim.Render(" · loading..."))
	}
	b.WriteString("\n\n")

	if f.Empty() {
		b.WriteString(StyleDim.Render("waiting for circuit"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(StyleValue.Render(fmt.Sprintf("Total Depth: %d", depth)))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d gates · %s · redraws %d", f.Circuit.Len(), f.Origin, f.Generation)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(synth.Explain(f.Settings.Topology, f.Circuit.QubitCount).Summary))
	b.WriteString("\n\n")
	b.WriteString(m.diagram(f))
	b.WriteString(renderLegend(m.palette))
	b.WriteString("\n\n")

	switch state {
	case tipShown:
		b.WriteString(renderTooltip(content, m.palette.GateColor(m.hoveredCategory(f))))
	case tipFading:
		b.WriteString(StyleDim.Render(renderTooltip(content, m.palette.Border)))
	}
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(StyleWarning.Render(errors.UserMessage(m.err)))
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render("←/→ gate  ↑/↓ wire  esc leave  e entanglement  +/- reps  r reload  q quit"))
	return b.String()
}

func (m *exploreModel) hoveredCategory(f viewer.Frame) circuit.Category {
	if box, ok := f.Layout.Box(f.Hovered); ok {
		return box.Gate.Category
	}
	return circuit.CategoryOther
}

// diagram draws the wires as text rows, one cell per gate column, scrolled
// so the pointer column stays visible.
func (m *exploreModel) diagram(f viewer.Frame) string {
	const labelWidth = 6
	visible := max(1, (m.width-labelWidth)/cellWidth)
	if m.col < m.offset {
		m.offset = m.col
	}
	if m.col >= m.offset+visible {
		m.offset = m.col - visible + 1
	}
	end := min(len(f.Layout.Gates), m.offset+visible)

	wireStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Wire))
	var b strings.Builder
	for q := 0; q < f.Circuit.QubitCount; q++ {
		b.WriteString(StyleDim.Render(fmt.Sprintf("%-*s", labelWidth, f.Layout.Wires[q].Label)))
		for k := m.offset; k < end; k++ {
			b.WriteString(m.cell(f, f.Layout.Gates[k], q, wireStyle))
		}
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", labelWidth))
		for k := m.offset; k < end; k++ {
			b.WriteString(m.spacer(f.Layout.Gates[k], q, k))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *exploreModel) cell(f viewer.Frame, g layout.GateBox, q int, wire lipgloss.Style) string {
	on, between := false, false
	if lo, hi, ok := g.Gate.Span(); ok {
		between = q > lo && q < hi
	}
	for _, n := range g.Nodes {
		if n.Qubit == q {
			on = true
		}
	}

	switch {
	case on:
		label := strings.ToUpper(g.Gate.Name)
		if len(label) > 3 {
			label = label[:3]
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.GateColor(g.Gate.Category)))
		if g.Index == f.Hovered {
			style = style.Bold(true).Reverse(true)
		}
		return wire.Render("─") + style.Render(fmt.Sprintf("[%-3s]", label)) + wire.Render("─")
	case between:
		return wire.Render("───┼───")
	default:
		return wire.Render(strings.Repeat("─", cellWidth))
	}
}

// spacer draws the connector below a wire and the pointer marker.
func (m *exploreModel) spacer(g layout.GateBox, q, k int) string {
	if m.onCanvas && k == m.col && q == m.wire {
		return StyleHighlight.Render("   ▲   ")
	}
	if lo, hi, ok := g.Gate.Span(); ok && q >= lo && q < hi {
		return StyleDim.Render("   │   ")
	}
	return strings.Repeat(" ", cellWidth)
}
