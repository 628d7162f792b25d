package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/organogram/internal/server"
	"github.com/matzehuels/organogram/pkg/api"
	"github.com/matzehuels/organogram/pkg/diagram"
	"github.com/matzehuels/organogram/pkg/drafts"
	"github.com/matzehuels/organogram/pkg/interact"
	"github.com/matzehuels/organogram/pkg/snapshot"
)

// serveCommand runs the HTTP binding for a browser canvas.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		structureID string
		origin      string
		restore     bool
	)

	cmd := &cobra.Command{
		Use:   "serve [snapshot.json]",
		Short: "Serve the editor engine over HTTP",
		Long: `Serve the editor engine over HTTP.

A browser canvas posts editor events to /events and redraws what the
response names. The graph starts from the given snapshot, the structure's
autosaved draft (--restore), or empty. Every mutating event autosaves a
draft; /save submits to the structure API.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runServe(cmd.Context(), input, serveOpts{
				addr:        addr,
				structureID: structureID,
				origin:      origin,
				restore:     restore,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVarP(&structureID, "structure", "s", "", "structure id used for save, validate and drafts")
	cmd.Flags().StringVar(&origin, "cors-origin", "", "allowed CORS origin for the canvas")
	cmd.Flags().BoolVar(&restore, "restore", false, "start from the structure's autosaved draft")

	return cmd
}

type serveOpts struct {
	addr        string
	structureID string
	origin      string
	restore     bool
}

func (c *CLI) runServe(ctx context.Context, input string, opts serveOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.addr == "" {
		opts.addr = cfg.Server.Addr
	}
	if opts.structureID == "" {
		opts.structureID = cfg.Server.StructureID
	}

	store, err := c.openDrafts(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	// The API is optional: without it the binding still edits and autosaves.
	var client *api.Client
	if cfg.API.BaseURL != "" {
		if client, err = c.apiClient(cfg); err != nil {
			return err
		}
	} else {
		c.Logger.Warn("no structure API configured; /save and /validate are disabled")
	}

	start, err := c.initialSnapshot(ctx, store, input, opts.structureID, opts.restore)
	if err != nil {
		return err
	}

	ctrl := interact.New(diagram.New(), cfg.Layout, c.Logger)
	_, res := ctrl.Load(start)
	c.Logger.Info("graph loaded", "nodes", res.Nodes, "edges", res.Edges, "skipped", len(res.Skipped))

	srv := server.New(ctrl, server.Options{
		StructureID:   opts.structureID,
		API:           client,
		Drafts:        store,
		DraftTTL:      cfg.Drafts.TTL,
		AllowedOrigin: opts.origin,
		Logger:        c.Logger,
	})
	err = srv.ListenAndServe(ctx, opts.addr)
	if errors.Is(err, context.Canceled) {
		c.Logger.Info("shut down")
		return nil
	}
	return err
}

// initialSnapshot picks the starting graph: a file, a draft, or nothing.
func (c *CLI) initialSnapshot(ctx context.Context, store drafts.Store, input, structureID string, restore bool) (snapshot.Snapshot, error) {
	if restore {
		if input != "" {
			return snapshot.Snapshot{}, fmt.Errorf("--restore and a snapshot file are mutually exclusive")
		}
		d, err := store.Get(ctx, structureID)
		if err != nil {
			return snapshot.Snapshot{}, fmt.Errorf("restore draft %s: %w", structureID, err)
		}
		c.Logger.Info("restored draft", "structure", structureID, "saved", d.SavedAt)
		return d.Snapshot, nil
	}
	if input == "" {
		return snapshot.Snapshot{}, nil
	}
	return snapshot.ReadFile(input)
}
