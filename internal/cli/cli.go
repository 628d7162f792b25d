// Package cli implements the organogram command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/organogram/pkg/api"
	"github.com/matzehuels/organogram/pkg/buildinfo"
	"github.com/matzehuels/organogram/pkg/config"
	"github.com/matzehuels/organogram/pkg/diagram"
	"github.com/matzehuels/organogram/pkg/drafts"
	"github.com/matzehuels/organogram/pkg/observability"
	"github.com/matzehuels/organogram/pkg/snapshot"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "organogram"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. Debug level also routes engine,
// API and draft hooks to the logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Register()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Organogram edits corporate ownership diagrams",
		Long:         `Organogram lays out, renders and edits ownership structures of entities and parties, and submits them to the corporate structure API.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ~/.config/organogram/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.saveCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.draftsCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared setup
// =============================================================================

// loadConfig reads the configuration once per process.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.cfg = &cfg
	return cfg, nil
}

func (c *CLI) apiClient(cfg config.Config) (*api.Client, error) {
	return api.NewClient(cfg.APIClientConfig(), c.Logger)
}

func (c *CLI) openDrafts(ctx context.Context, cfg config.Config) (drafts.Store, error) {
	return drafts.Open(ctx, cfg.DraftStoreConfig(), c.Logger)
}

// loadGraph reads a snapshot file into a new graph, logging skipped records.
func (c *CLI) loadGraph(path string) (*diagram.Graph, snapshot.LoadResult, error) {
	s, err := snapshot.ReadFile(path)
	if err != nil {
		return nil, snapshot.LoadResult{}, err
	}
	g, res := snapshot.Build(s, c.Logger)
	return g, res, nil
}

// =============================================================================
// Paths
// =============================================================================

// outputPath derives "<input without ext><suffix>" when output is empty.
func outputPath(output, input, suffix string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

// openOutput creates path for writing, or returns stdout for "-".
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
