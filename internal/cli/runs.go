package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// runsCommand creates the runs command for listing and pruning saved runs.
func (c *CLI) runsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List and prune saved runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRunsList(cmd.Context(), limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many runs (0 = all)")

	cmd.AddCommand(c.runsClearCommand())
	cmd.AddCommand(c.runsDeleteCommand())

	return cmd
}

// runRunsList prints saved runs newest first.
func (c *CLI) runRunsList(ctx context.Context, limit int) error {
	store, err := newStore()
	if err != nil {
		return err
	}

	recs, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		printInfo("No saved runs")
		printNextStep("Save one", "shapefit fit star --save")
		return nil
	}
	if limit > 0 && limit < len(recs) {
		recs = recs[:limit]
	}

	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, []string{
			rec.ID,
			formatRelativeTime(rec.CreatedAt),
			rec.Target,
			rec.Strategy,
			formatScore(rec.Score),
			fmt.Sprintf("%d", rec.Trials),
			rec.Elapsed.Round(time.Millisecond).String(),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("ID", "Created", "Target", "Strategy", "Score", "Trials", "Elapsed").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			if col == 0 {
				return styleTableCell.Foreground(colorMuted)
			}
			return styleTableCell
		})

	fmt.Println(t.Render())
	printDetail("Directory: %s", store.Path())

	return nil
}

// runsClearCommand creates the "runs clear" subcommand.
func (c *CLI) runsClearCommand() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete saved runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStore()
			if err != nil {
				return err
			}
			n, err := store.Prune(cmd.Context(), keep)
			if err != nil {
				return err
			}
			if keep > 0 {
				printSuccess("Removed %d runs, kept the newest %d", n, keep)
			} else {
				printSuccess("Removed %d runs", n)
			}
			printDetail("Directory: %s", store.Path())
			return nil
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 0, "keep the newest N runs")

	return cmd
}

// runsDeleteCommand creates the "runs delete" subcommand.
func (c *CLI) runsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [run-id]",
		Short: "Delete one saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStore()
			if err != nil {
				return err
			}
			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}
