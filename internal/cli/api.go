package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/organogram/pkg/api"
	"github.com/matzehuels/organogram/pkg/layout"
	"github.com/matzehuels/organogram/pkg/snapshot"
)

// saveCommand submits a snapshot file to the structure API.
func (c *CLI) saveCommand() *cobra.Command {
	var (
		structureID string
		autoLayout  bool
	)

	cmd := &cobra.Command{
		Use:   "save [snapshot.json]",
		Short: "Submit an organogram to the structure API",
		Long: `Submit an organogram to the structure API.

The API base URL and CSRF token come from the [api] config section or
ORGANOGRAM_API_URL and ORGANOGRAM_CSRF_TOKEN. A failed save is reported and
nothing is retried.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSave(cmd.Context(), args[0], structureID, autoLayout)
		},
	}

	cmd.Flags().StringVarP(&structureID, "structure", "s", "", "structure id (required)")
	cmd.Flags().BoolVar(&autoLayout, "layout", false, "run auto layout before saving")
	_ = cmd.MarkFlagRequired("structure")

	return cmd
}

func (c *CLI) runSave(ctx context.Context, input, structureID string, autoLayout bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	client, err := c.apiClient(cfg)
	if err != nil {
		return err
	}
	g, loaded, err := c.loadGraph(input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}
	if autoLayout {
		layout.Apply(g, cfg.Layout)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Saving structure %s...", structureID))
	spinner.Start()
	resp, err := client.Submit(ctx, snapshot.NewSaveRequest(structureID, g))
	if err != nil {
		spinner.StopWithError("Save failed")
		return err
	}
	spinner.Stop()

	msg := resp.Message
	if msg == "" {
		msg = "Organogram saved"
	}
	printSuccess("%s", msg)
	printStats(g.NodeCount(), g.EdgeCount(), len(loaded.Skipped))
	printNewline()
	printNextStep("Validate", fmt.Sprintf("%s validate %s", appName, structureID))
	return nil
}

// validateCommand fetches the API's validation results for a structure.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [structure-id]",
		Short: "Show the structure API's validation results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runValidate(ctx context.Context, structureID string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	client, err := c.apiClient(cfg)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Validating structure %s...", structureID))
	spinner.Start()
	res, err := client.Validate(ctx, structureID)
	if err != nil {
		spinner.StopWithError("Validation failed")
		return err
	}
	spinner.Stop()

	printValidation(res)
	if res.OverallStatus == api.StatusInvalid {
		return fmt.Errorf("structure %s is invalid", structureID)
	}
	return nil
}
