package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/circuitview/pkg/store"
)

// experimentsCommand lists the circuits logged to the experiment store.
func (c *CLI) experimentsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "experiments",
		Short: "List logged circuit experiments",
		Long: `List the most recent circuits logged to the experiment store.

Circuits served by the backend are logged with the settings that produced
them. Configure the store with [store] mongo_uri in the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Config.Store.MongoURI == "" {
				printWarning("No experiment store configured")
				printNextStep("Set the MongoDB URI", "[store] mongo_uri = \"mongodb://localhost:27017\"")
				return nil
			}
			st := c.openStore(cmd.Context())
			defer st.Close()

			exps, err := st.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list experiments: %w", err)
			}
			if len(exps) == 0 {
				printInfo("No experiments logged yet")
				return nil
			}
			fmt.Println(experimentsTable(exps, time.Now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of experiments to show (0 = all)")
	return cmd
}

func experimentsTable(exps []store.Experiment, now time.Time) string {
	rows := make([][]string, len(exps))
	for i, e := range exps {
		rows[i] = []string{
			formatAge(now.Sub(e.Timestamp)),
			e.Config.Entanglement,
			strconv.Itoa(e.Config.Reps),
			strconv.Itoa(e.Qubits),
			strconv.Itoa(len(e.Gates)),
			strconv.Itoa(e.Depth),
			e.Origin,
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Logged", "Entanglement", "Reps", "Qubits", "Gates", "Depth", "Origin").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorDim).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		String()
}

// formatAge renders a duration the way "ago" columns usually read.
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
