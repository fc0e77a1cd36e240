package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/circuitview/pkg/circuit"
	"github.com/matzehuels/circuitview/pkg/pipeline"
	"github.com/matzehuels/circuitview/pkg/source"
)

// defaultOutputBase names output files when -o is not given.
const defaultOutputBase = "circuit"

// circuitFlags are the flags shared by every command that loads a circuit.
type circuitFlags struct {
	entanglement string  // linear, circular, or full
	reps         int     // feature-map repetitions
	width        float64 // viewport width (0 = natural size)
	height       float64 // viewport height (0 = natural size)
	file         string  // read the circuit from a wire-format JSON file
	offline      bool    // skip the backend and generate locally
}

func (f *circuitFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.entanglement, "entanglement", "e", "", "entanglement topology: linear (default), circular, full")
	cmd.Flags().IntVarP(&f.reps, "reps", "r", 0, "feature-map repetitions, 1-5 (default 2)")
	cmd.Flags().Float64Var(&f.width, "width", 0, "canvas width (default: natural size)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "canvas height (default: natural size)")
	cmd.Flags().StringVar(&f.file, "file", "", "read the circuit from a JSON file instead of the backend")
	cmd.Flags().BoolVar(&f.offline, "offline", false, "do not contact the backend; generate the circuit locally")
	cmd.RegisterFlagCompletionFunc("entanglement", completeValues("linear", "circular", "full"))
}

// settings resolves the circuit settings, falling back to the config file
// for flags that were not given.
func (c *CLI) settings(cmd *cobra.Command, f *circuitFlags) (source.Settings, error) {
	topology, reps := f.entanglement, f.reps
	if !cmd.Flags().Changed("entanglement") {
		topology = c.Config.Defaults.Entanglement
	}
	if !cmd.Flags().Changed("reps") {
		reps = c.Config.Defaults.Reps
	}
	return source.ParseSettings(topology, reps)
}

// canvas resolves the viewport size the same way.
func (c *CLI) canvas(cmd *cobra.Command, f *circuitFlags) (width, height float64) {
	width, height = f.width, f.height
	if !cmd.Flags().Changed("width") {
		width = c.Config.Canvas.Width
	}
	if !cmd.Flags().Changed("height") {
		height = c.Config.Canvas.Height
	}
	return width, height
}

// pipelineOptions builds the load and layout part of the pipeline options.
func (c *CLI) pipelineOptions(cmd *cobra.Command, f *circuitFlags) (pipeline.Options, error) {
	s, err := c.settings(cmd, f)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{Settings: s, Logger: c.Logger, Palette: c.Config.Defaults.Palette}
	opts.Width, opts.Height = c.canvas(cmd, f)
	if f.file != "" {
		circ, err := circuit.ReadFile(f.file)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("read circuit %s: %w", f.file, err)
		}
		opts.Circuit = circ
	}
	return opts, nil
}

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      circuitFlags
		formatsStr string
		output     string
		palette    string
		hoverX     float64
		hoverY     float64
		noCache    bool
		noStore    bool
	)
	opts := pipeline.Options{ShowDepth: true}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a circuit diagram",
		Long: `Render the feature-map circuit for the given entanglement and repetitions.

The circuit is requested from the classification backend. When the backend
is unreachable or answers with an error, an equivalent circuit is generated
locally instead, so rendering always succeeds.

Formats: svg (default), png, pdf, json (layout export), dot, nodelink-svg,
and nodelink-png (gate-dependency graph). With several formats, -o is used
as the base path and each format gets its own extension.

--hover-x/--hover-y render the diagram as it looks with the pointer resting
at that canvas position; --tooltip adds the gate's tooltip panel.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := c.pipelineOptions(cmd, &flags)
			if err != nil {
				return err
			}
			base.Formats = parseFormats(formatsStr)
			base.ShowDepth = opts.ShowDepth
			base.Tooltip = opts.Tooltip
			base.Interactive = opts.Interactive
			base.EmbedFont = opts.EmbedFont
			base.Scale = opts.Scale
			base.Refresh = opts.Refresh
			if cmd.Flags().Changed("palette") {
				base.Palette = palette
			}
			if cmd.Flags().Changed("hover-x") || cmd.Flags().Changed("hover-y") {
				base.Pointer = &pipeline.Point{X: hoverX, Y: hoverY}
			}
			if err := pipeline.ValidateFormats(base.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), base, output, runnerOpts{noCache: noCache, offline: flags.offline, noStore: noStore})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s), comma-separated (default svg)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple); - for stdout")
	cmd.Flags().StringVar(&palette, "palette", "", "color palette: dark (default), light")
	cmd.Flags().Float64Var(&hoverX, "hover-x", 0, "pointer x position to highlight")
	cmd.Flags().Float64Var(&hoverY, "hover-y", 0, "pointer y position to highlight")
	cmd.Flags().BoolVar(&opts.ShowDepth, "depth", opts.ShowDepth, "draw the total depth readout")
	cmd.Flags().BoolVar(&opts.Tooltip, "tooltip", false, "draw the hovered gate's tooltip")
	cmd.Flags().BoolVar(&opts.Interactive, "interactive", false, "add CSS hover highlighting to SVG output")
	cmd.Flags().BoolVar(&opts.EmbedFont, "embed-font", false, "embed the label font in SVG output")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "PNG pixels per canvas unit")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached artifacts")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "do not log the circuit to the experiment store")
	cmd.RegisterFlagCompletionFunc("format", completeValues(formatNames()...))
	cmd.RegisterFlagCompletionFunc("palette", completeValues(paletteNames()...))

	return cmd
}

// runRender executes the pipeline and writes each artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, ro runnerOpts) error {
	runner, err := c.newRunner(ctx, ro)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	sp := newSpinner(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	sp.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		sp.StopWithError("Render failed")
		return err
	}
	sp.Stop()

	if output == "-" {
		if len(opts.Formats) != 1 {
			return fmt.Errorf("stdout output needs exactly one format, got %d", len(opts.Formats))
		}
		_, err := os.Stdout.Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	paths := outputPaths(output, opts.Formats)
	for _, format := range opts.Formats {
		if err := writeFile(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}
	prog.done(fmt.Sprintf("Rendered %d artifacts", len(opts.Formats)))

	printSuccess("Rendered circuit")
	printStats(result.Circuit, result.Origin, result.CacheInfo.RenderHit)
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	return nil
}

// outputPaths maps each format to its file. A single format writes to
// output as given; several formats use output as a base path.
func outputPaths(output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output)
	for _, f := range formats {
		paths[f] = base + pipeline.FormatExtensions[f]
	}
	return paths
}

// basePath strips a known format extension from output. An empty output
// uses the default base name.
func basePath(output string) string {
	if output == "" {
		return defaultOutputBase
	}
	for _, ext := range []string{".nodelink.svg", ".nodelink.png"} {
		if strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// An empty path writes to stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}
