package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ckski/Evolution-Tutorials/pkg/display"
	"github.com/ckski/Evolution-Tutorials/pkg/history"
	shapeio "github.com/ckski/Evolution-Tutorials/pkg/io"
	"github.com/ckski/Evolution-Tutorials/pkg/render"
)

// showCommand creates the show command for re-rendering saved runs.
func (c *CLI) showCommand() *cobra.Command {
	var (
		pngPath string
		scale   int
		plain   bool
	)

	cmd := &cobra.Command{
		Use:   "show [run-id | result.json]",
		Short: "Re-render a saved run",
		Long: `Re-render a saved run.

Without an argument the most recent saved run is shown. A .json argument is
read as an exported result file instead of a run ID. The stored solution is
rasterized again with the run's original backend and canvas size, so the art
is reproduced from the polygon rather than replayed from stored bytes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) > 0 {
				id = args[0]
			}
			return c.runShow(cmd.Context(), id, pngPath, scale, plain)
		},
	}

	cmd.Flags().StringVarP(&pngPath, "output", "o", "", "also write the raster as a PNG to this path")
	cmd.Flags().IntVar(&scale, "scale", 0, "png pixel multiplier")
	cmd.Flags().BoolVar(&plain, "plain", false, "character-ramp art instead of color blocks")

	return cmd
}

// runShow loads the record, re-rasterizes its solution, and displays it.
func (c *CLI) runShow(ctx context.Context, id, pngPath string, scale int, plain bool) error {
	rec, err := c.loadRecord(ctx, id)
	if err != nil {
		return err
	}

	p, err := rec.Polygon()
	if err != nil {
		return err
	}
	ras, err := render.New(rec.Backend, rec.Width, rec.Height)
	if err != nil {
		return err
	}
	r, err := ras.Rasterize(p)
	if err != nil {
		return err
	}

	printKeyValue("run", rec.ID)
	printKeyValue("target", rec.Target)
	printKeyValue("created", rec.CreatedAt.Format(time.RFC3339))
	printKeyValue("canvas", fmt.Sprintf("%dx%d", rec.Width, rec.Height))
	printKeyValue("backend", rec.Backend)
	printKeyValue("strategy", rec.Strategy)
	printKeyValue("seed", fmt.Sprintf("%d", rec.Seed))
	printKeyValue("score", formatScore(rec.Score))
	printKeyValue("trials", fmt.Sprintf("%d", rec.Trials))
	printKeyValue("elapsed", rec.Elapsed.Round(time.Millisecond).String())
	printKeyValue("solution", rec.Solution)
	printNewline()

	var d display.Displayer = display.ANSI{}
	if plain {
		d = display.ASCII{}
	}
	if err := d.Show(r); err != nil {
		return err
	}

	if pngPath != "" {
		if err := (display.PNG{Path: pngPath, Scale: scale}).Show(r); err != nil {
			return err
		}
		printFile(pngPath)
	}

	return nil
}

// loadRecord resolves the show argument: an exported result file, a saved
// run ID, or the latest saved run when empty.
func (c *CLI) loadRecord(ctx context.Context, id string) (*history.Record, error) {
	if strings.HasSuffix(id, ".json") {
		return shapeio.ImportResult(id)
	}
	store, err := newStore()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return store.Latest(ctx)
	}
	return store.Get(ctx, id)
}
