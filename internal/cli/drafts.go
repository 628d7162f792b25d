package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/organogram/pkg/drafts"
	"github.com/matzehuels/organogram/pkg/snapshot"
)

// draftsCommand manages autosaved drafts.
func (c *CLI) draftsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Manage autosaved drafts",
	}

	cmd.AddCommand(c.draftsListCommand())
	cmd.AddCommand(c.draftsShowCommand())
	cmd.AddCommand(c.draftsRemoveCommand())

	return cmd
}

// withDrafts opens the configured draft store for the duration of fn.
func (c *CLI) withDrafts(ctx context.Context, fn func(drafts.Store) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	store, err := c.openDrafts(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func (c *CLI) draftsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List drafts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDrafts(cmd.Context(), func(store drafts.Store) error {
				list, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(list) == 0 {
					printInfo("No drafts")
					return nil
				}
				for _, d := range list {
					printKeyValue(d.StructureID, fmt.Sprintf("%d nodes, %d edges", len(d.Snapshot.Nodes), len(d.Snapshot.Edges)))
					printDetail("saved %s", formatRelativeTime(d.SavedAt))
				}
				return nil
			})
		},
	}
}

func (c *CLI) draftsShowCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show [structure-id]",
		Short: "Print a draft as a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDrafts(cmd.Context(), func(store drafts.Store) error {
				d, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("draft %s: %w", args[0], err)
				}
				out, err := openOutput(output)
				if err != nil {
					return err
				}
				defer out.Close()
				return snapshot.Write(out, d.Snapshot)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file")

	return cmd
}

func (c *CLI) draftsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm [structure-id...]",
		Aliases: []string{"remove"},
		Short:   "Discard drafts",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDrafts(cmd.Context(), func(store drafts.Store) error {
				for _, id := range args {
					if err := store.Delete(cmd.Context(), id); err != nil {
						return err
					}
					printSuccess("Removed draft %s", id)
				}
				return nil
			})
		},
	}
}
