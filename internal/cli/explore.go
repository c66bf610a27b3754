package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/visionspec/visionspec/pkg/study"
)

// exploreCommand creates the interactive explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var room roomFlags

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Interactively adjust room measurements and watch the recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			engine, err := c.newEngine(cfg)
			if err != nil {
				return err
			}

			model := NewExplorerModel(engine, room.distance, room.eye, room.ceiling)
			final, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return fmt.Errorf("explorer: %w", err)
			}

			m := final.(ExplorerModel)
			if !m.Accepted {
				return nil
			}
			printRecommendations(m.Room(), m.Recs)
			return nil
		},
	}

	cmd.Flags().Float64VarP(&room.distance, "distance", "d", 3.0, "initial viewing distance in meters")
	cmd.Flags().Float64Var(&room.eye, "eye-height", 1.2, "initial eye height in meters")
	cmd.Flags().Float64Var(&room.ceiling, "ceiling-height", study.DefaultCeilingHeightM, "initial ceiling height in meters")

	return cmd
}
