package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/organogram/pkg/api"
	"github.com/matzehuels/organogram/pkg/diagram"
	"github.com/matzehuels/organogram/pkg/interact"
	"github.com/matzehuels/organogram/pkg/snapshot"
)

// editCommand opens the terminal editor.
func (c *CLI) editCommand() *cobra.Command {
	var (
		structureID string
		output      string
		restore     bool
	)

	cmd := &cobra.Command{
		Use:   "edit [snapshot.json]",
		Short: "Edit an organogram in the terminal",
		Long: `Edit an organogram in the terminal.

Nodes and ownership connections are listed side by side. Select with the
arrow keys, move the selected node with shift+arrows, run auto layout with
'l', delete with 'x' and save to the structure API with ctrl+s. Every edit
is autosaved as a draft of the structure; --restore picks it up again.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runEdit(cmd.Context(), input, structureID, output, restore)
		},
	}

	cmd.Flags().StringVarP(&structureID, "structure", "s", "", "structure id used for save and drafts")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the edited snapshot here on exit")
	cmd.Flags().BoolVar(&restore, "restore", false, "start from the structure's autosaved draft")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, input, structureID, output string, restore bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	store, err := c.openDrafts(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	var client *api.Client
	if cfg.API.BaseURL != "" {
		if client, err = c.apiClient(cfg); err != nil {
			return err
		}
	}

	start, err := c.initialSnapshot(ctx, store, input, structureID, restore)
	if err != nil {
		return err
	}

	// The editor owns the terminal; keep log lines out of it.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(LogError)
	defer c.Logger.SetLevel(level)

	ctrl := interact.New(diagram.New(), cfg.Layout, c.Logger)
	ctrl.Load(start)

	model := NewEditorModel(ctx, ctrl, client, store, structureID, cfg.Drafts.TTL)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("editor: %w", err)
	}

	g := model.Graph()
	if output != "" {
		if err := snapshot.WriteFile(output, snapshot.FromGraph(g)); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		printFile(output)
	}
	printStats(g.NodeCount(), g.EdgeCount(), 0)
	if model.Dirty() && structureID != "" {
		printWarning("Unsaved changes are kept as a draft")
		printNextStep("Resume", fmt.Sprintf("%s edit -s %s --restore", appName, structureID))
	}
	return nil
}
