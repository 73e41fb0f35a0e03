package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// palettesCommand lists the palette library with colour swatches.
func (c *CLI) palettesCommand() *cobra.Command {
	var (
		minColors, maxColors int
		asJSON               bool
	)
	cmd := &cobra.Command{
		Use:   "palettes",
		Short: "List available palettes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set := c.palettes().Filter(minColors, maxColors)
			if asJSON {
				data, err := json.MarshalIndent(set, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}
			if len(set) == 0 {
				printInfo("No palettes with %d–%d colours", minColors, maxColors)
				return nil
			}
			for _, p := range set {
				printSwatch(p.Name, p.Colors)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&minColors, "min", 0, "fewest colours")
	cmd.Flags().IntVar(&maxColors, "max", 0, "most colours (0 for no limit)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the palette set as JSON")
	return cmd
}
