package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ckski/Evolution-Tutorials/pkg/display"
	"github.com/ckski/Evolution-Tutorials/pkg/pipeline"
	"github.com/ckski/Evolution-Tutorials/pkg/render"
)

// targetsCommand creates the targets command listing the builtin shapes.
func (c *CLI) targetsCommand() *cobra.Command {
	var (
		preview bool
		size    int
	)

	cmd := &cobra.Command{
		Use:   "targets",
		Short: "List the builtin targets",
		Long: `List the builtin targets.

Builtins are fit directly by name: 'shapefit fit star'. Custom shapes come
from .toml manifests or .png images instead; see 'shapefit fit --help'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTargets(preview, size)
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "render each target under the table")
	cmd.Flags().IntVar(&size, "size", pipeline.DefaultSize, "canvas edge for previews")

	return cmd
}

// runTargets prints the builtin table and optional previews.
func runTargets(preview bool, size int) error {
	names := pipeline.Builtins()

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		p, _ := pipeline.BuiltinPolygon(name)
		rows = append(rows, []string{name, fmt.Sprintf("%d", len(p)), p.String()})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("Name", "Points", "Vertices").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			return styleTableCell
		})

	fmt.Println(t.Render())

	if !preview {
		return nil
	}

	for _, name := range names {
		p, _ := pipeline.BuiltinPolygon(name)
		r, err := render.Default(size, size).Rasterize(p)
		if err != nil {
			return err
		}
		printNewline()
		fmt.Println(StyleHighlight.Render(name))
		if err := (display.ANSI{}).Show(r); err != nil {
			return err
		}
	}

	return nil
}
