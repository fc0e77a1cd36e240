package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/circuitview/pkg/circuit"
	"github.com/matzehuels/circuitview/pkg/render"
	"github.com/matzehuels/circuitview/pkg/source"
	"github.com/matzehuels/circuitview/pkg/tooltip"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printStatus(icon string, style lipgloss.Style, msg string) {
	fmt.Println(style.Render(icon) + " " + msg)
}

func printSuccess(format string, args ...any) {
	printStatus(iconSuccess, styleIconSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printStatus(iconError, styleIconError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printStatus(iconWarning, styleIconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printStatus(iconInfo, styleIconInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints one written artifact path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

var styleKey = lipgloss.NewStyle().Foreground(colorGray).Width(12)

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Circuit Summary
// =============================================================================

// circuitStats describes a circuit on one line: size, entangling gate count,
// depth, origin, and whether artifacts came from the cache.
func circuitStats(c *circuit.Circuit, origin source.Origin, cached bool) string {
	counts := c.CountByCategory()
	parts := []string{
		fmt.Sprintf("%d qubits", c.QubitCount),
		fmt.Sprintf("%d gates", c.Len()),
		fmt.Sprintf("%d entangling", counts[circuit.CategoryEntangling]+counts[circuit.CategoryTwoQubitRotation]),
		fmt.Sprintf("depth %d", c.Depth),
		string(origin),
	}
	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}

	status := styleComputed.Render(iconFresh)
	if cached {
		status = styleCached.Render(iconCached)
	}
	return "  " + strings.Join(append(parts, status), StyleDim.Render(" · "))
}

func printStats(c *circuit.Circuit, origin source.Origin, cached bool) {
	fmt.Println(circuitStats(c, origin, cached))
}

// =============================================================================
// Tooltip Box
// =============================================================================

var styleTooltipBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorDim).
	Padding(0, 1).
	Width(tooltipBoxWidth)

// tooltipBoxWidth matches the character width the canvas tooltip wraps at.
const tooltipBoxWidth = 46

// renderTooltip formats gate details the way the canvas tooltip shows them,
// with the title in the gate's category color.
func renderTooltip(c tooltip.Content, accent string) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accent)).Render(c.Title)
	body := strings.Join([]string{
		title,
		StyleHighlight.Render(c.Operation),
		c.Description,
		"",
		StyleValue.Render(c.Qubits),
		StyleValue.Render("Parameters: " + c.Params),
	}, "\n")
	return styleTooltipBox.BorderForeground(lipgloss.Color(accent)).Render(body)
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Category Legend
// =============================================================================

var legendCategories = []circuit.Category{
	circuit.CategoryHadamard,
	circuit.CategoryRotation,
	circuit.CategoryEntangling,
	circuit.CategoryTwoQubitRotation,
}

// renderLegend shows one colored swatch per gate category.
func renderLegend(p render.Palette) string {
	parts := make([]string, len(legendCategories))
	for i, cat := range legendCategories {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(p.GateColor(cat))).Render("■")
		parts[i] = swatch + " " + StyleDim.Render(cat.String())
	}
	return strings.Join(parts, "  ")
}
