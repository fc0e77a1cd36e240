package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/circuitview/pkg/layout"
	"github.com/matzehuels/circuitview/pkg/pipeline"
	"github.com/matzehuels/circuitview/pkg/render"
	"github.com/matzehuels/circuitview/pkg/tooltip"
)

// inspectCommand creates the inspect command, which answers "what is under
// the pointer at (x, y)?" without drawing anything.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags circuitFlags
		x, y  float64
		gate  int
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the gate at a canvas position",
		Long: `Hit-test a canvas position against the circuit layout and print the
tooltip of the gate found there.

Use --x/--y for a pointer position or --gate for a sequence index. Positions
use the same coordinates as the rendered SVG.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(cmd, &flags)
			if err != nil {
				return err
			}
			byIndex := cmd.Flags().Changed("gate")
			if !byIndex && !(cmd.Flags().Changed("x") && cmd.Flags().Changed("y")) {
				return fmt.Errorf("either --x and --y or --gate is required")
			}
			if !byIndex {
				opts.Pointer = &pipeline.Point{X: x, Y: y}
			}
			return c.runInspect(cmd.Context(), opts, byIndex, gate, flags.offline)
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64Var(&x, "x", 0, "pointer x position")
	cmd.Flags().Float64Var(&y, "y", 0, "pointer y position")
	cmd.Flags().IntVar(&gate, "gate", 0, "gate sequence index")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, opts pipeline.Options, byIndex bool, index int, offline bool) error {
	runner, err := c.newRunner(ctx, runnerOpts{noCache: true, offline: offline, noStore: true})
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	sp := newSpinner(ctx, "Loading circuit...")
	sp.Start()
	loaded, err := runner.Load(ctx, opts)
	sp.Stop()
	if err != nil {
		return err
	}
	l := runner.ComputeLayout(ctx, loaded.Circuit, opts)

	var (
		box layout.GateBox
		ok  bool
	)
	if byIndex {
		box, ok = l.Box(index)
		ok = ok && box.Drawable()
	} else if hovered := pipeline.HoveredAt(l, opts.Pointer); hovered != render.NoHover {
		box, ok = l.Box(hovered)
	}

	printStats(loaded.Circuit, loaded.Origin, false)
	if !ok {
		if byIndex {
			printWarning("No drawable gate at index %d", index)
		} else {
			printInfo("No gate at (%.0f, %.0f)", opts.Pointer.X, opts.Pointer.Y)
		}
		return nil
	}

	palette, _ := render.PaletteByName(opts.Palette)
	printKeyValue("Gate", fmt.Sprintf("#%d at x=%.0f", box.Index, box.X))
	fmt.Println(renderTooltip(tooltip.For(box.Gate), palette.GateColor(box.Gate.Category)))
	return nil
}
