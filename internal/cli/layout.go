package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/organogram/pkg/layout"
	"github.com/matzehuels/organogram/pkg/snapshot"
)

// layoutCommand creates the layout command, which runs auto layout on a
// snapshot and writes the positioned snapshot back out.
func (c *CLI) layoutCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "layout [snapshot.json]",
		Short: "Assign hierarchy levels and positions to every node",
		Long: `Assign hierarchy levels and positions to every node.

Roots (nodes nobody owns) go on level 0 and owners sit above the entities
they own. The output is a snapshot with x, y and level filled in, ready for
'render' or 'save'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input, output string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	g, loaded, err := c.loadGraph(input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}

	prog := newProgress(c.Logger)
	res := layout.Apply(g, cfg.Layout)
	prog.done(fmt.Sprintf("Laid out %d nodes on %d levels", g.NodeCount(), len(res.Levels)))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	path := outputPath(output, input, ".layout.json")
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := snapshot.Write(out, snapshot.FromGraph(g)); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	if path == "-" {
		return nil
	}

	printSuccess("Layout complete")
	printFile(path)
	printStats(g.NodeCount(), g.EdgeCount(), len(loaded.Skipped))
	printNewline()
	printNextStep("Render", appName+" render "+path)
	return nil
}
