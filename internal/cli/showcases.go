package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// showcasesCommand lists the configured showcases.
func (c *CLI) showcasesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "showcases",
		Aliases: []string{"ls"},
		Short:   "List the configured showcases",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(cfg.Showcases))
			for _, s := range cfg.Showcases {
				ec := cfg.EngineConfig(s)
				action := "-"
				if ec.ActionTarget != "" {
					action = ec.ActionLabel + " " + iconArrow + " " + ec.ActionTarget
				}
				rows = append(rows, []string{
					s.Name,
					strings.Join(ec.Labels, ", "),
					fmt.Sprintf("%.0f×%.0f", ec.Width, ec.Height),
					action,
				})
			}

			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("Showcase", "Labels", "Canvas", "Action").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					switch {
					case row == -1:
						return headerStyle
					case col == 0:
						return StyleHighlight
					case col == 2:
						return StyleDim
					}
					return StyleValue
				})

			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}
