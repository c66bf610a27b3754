package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/visionspec/visionspec/pkg/catalog"
	"github.com/visionspec/visionspec/pkg/errors"
)

// catalogCommand creates the catalog inspection command.
func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the TV size catalog",
	}

	cmd.AddCommand(c.catalogListCommand())
	cmd.AddCommand(c.catalogLookupCommand())
	cmd.AddCommand(c.catalogPathCommand())

	return cmd
}

// loadCatalog resolves and loads the catalog the engine would use.
func (c *CLI) loadCatalog() (*catalog.Catalog, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	path, err := c.catalogFile(cfg)
	if err != nil {
		return nil, err
	}
	return catalog.Load(path)
}

// catalogListCommand creates the "catalog list" subcommand.
func (c *CLI) catalogListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every catalog size with its maximum distances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}
			fmt.Println(catalogTable(cat.Entries()))
			printDetail("%d sizes from %s", cat.Len(), cat.Source())
			return nil
		},
	}
}

// catalogLookupCommand creates the "catalog lookup" subcommand.
func (c *CLI) catalogLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <size>",
		Short: "Show the entry for a size, interpolating between catalog sizes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "size must be an integer number of inches, got %q", args[0])
			}
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}
			entry, err := cat.Interpolate(size)
			if err != nil {
				return err
			}
			if _, exact := cat.Lookup(size); !exact {
				printInfo("%d\" is not in the catalog; values are interpolated", size)
			}
			fmt.Println(catalogTable([]catalog.SizeEntry{entry}))
			return nil
		},
	}
}

// catalogPathCommand creates the "catalog path" subcommand.
func (c *CLI) catalogPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the resolved catalog file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			path, err := c.catalogFile(cfg)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}

func catalogTable(entries []catalog.SizeEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			fmt.Sprintf("%d\"", e.SizeInches),
			fmt.Sprintf("%.1f", e.DiagonalInches),
			fmt.Sprintf("%.2f m", e.Distance4H),
			fmt.Sprintf("%.2f m", e.Distance6H),
			fmt.Sprintf("%.2f m", e.Distance8H),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Size", "Diagonal", "4H", "6H", "8H").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Padding(0, 1).Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Padding(0, 1).Foreground(colorWhite)
		}).
		Render()
}
