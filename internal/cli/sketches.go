package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchbook/pkg/sketch"
)

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

// sketchesCommand lists sketches, or describes one.
func (c *CLI) sketchesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "sketches [name]",
		Aliases: []string{"ls"},
		Short:   "List sketches or show a sketch's parameters",
		Args:    cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeSketches,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := c.registry()
			if len(args) == 0 {
				fmt.Println(sketchTable(reg.All()))
				return nil
			}
			s, err := reg.Lookup(args[0])
			if err != nil {
				return err
			}
			info := s.Info()
			fmt.Println(StyleTitle.Render(info.Title) + " " + StyleDim.Render("("+info.Name+")"))
			fmt.Println(info.Description)
			if len(info.Days) > 0 {
				printKeyValue("days", formatDays(info.Days))
			}
			printNewline()
			fmt.Println(paramTable(s.Params(), c.cfg().Sketches[info.Name]))
			return nil
		},
	}
}

func sketchTable(all []sketch.Sketch) string {
	rows := make([][]string, 0, len(all))
	for _, s := range all {
		info := s.Info()
		rows = append(rows, []string{info.Name, info.Title, formatDays(info.Days), info.Description})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Title", "Days", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if col == 0 {
				return StyleHighlight
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// paramTable renders a sketch's parameters. Values set in the project file
// are shown next to the default.
func paramTable(params []sketch.Param, project map[string]string) string {
	rows := make([][]string, 0, len(params))
	for _, p := range params {
		def := p.Default
		if v, ok := project[p.Key]; ok {
			def = v + " " + StyleDim.Render("(default "+p.Default+")")
		}
		rows = append(rows, []string{p.Key, string(p.Type), def, paramRange(p), p.Description})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Key", "Type", "Value", "Range", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if col == 0 {
				return StyleHighlight
			}
			if col == 3 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func paramRange(p sketch.Param) string {
	if len(p.Choices) > 0 {
		return strings.Join(p.Choices, "|")
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	switch {
	case p.HasMin && p.HasMax:
		return f(p.Min) + "–" + f(p.Max)
	case p.HasMin:
		return "≥ " + f(p.Min)
	case p.HasMax:
		return "≤ " + f(p.Max)
	}
	return ""
}

func formatDays(days []int) string {
	s := make([]string, len(days))
	for i, d := range days {
		s[i] = strconv.Itoa(d)
	}
	return strings.Join(s, ", ")
}
