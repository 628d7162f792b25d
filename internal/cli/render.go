package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/organogram/pkg/diagram"
	"github.com/matzehuels/organogram/pkg/layout"
	"github.com/matzehuels/organogram/pkg/render"
	"github.com/matzehuels/organogram/pkg/render/dot"
)

const (
	engineScene    = "scene"    // the editor's own SVG drawing
	engineGraphviz = "graphviz" // DOT through go-graphviz, positions pinned

	defaultPNGScale = 2.0
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file (single format) or base path
	formats  []string // svg, dot, pdf, png
	engine   string   // scene or graphviz
	layout   bool     // run auto layout before drawing
	detailed bool     // jurisdiction/nationality in graphviz labels
	scale    float64  // PNG scale factor
}

func (c *CLI) renderCommand() *cobra.Command {
	var formats string
	opts := renderOpts{engine: engineScene, layout: true, scale: defaultPNGScale}

	cmd := &cobra.Command{
		Use:   "render [snapshot.json]",
		Short: "Render an organogram to SVG, DOT, PDF or PNG",
		Long: `Render an organogram to SVG, DOT, PDF or PNG.

The scene engine draws the diagram exactly as the editor shows it. The
graphviz engine emits DOT with positions pinned from the layout and renders
it through Graphviz. PDF and PNG need rsvg-convert on the PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formats)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if err := validateEngine(opts.engine); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): svg (default), dot, pdf, png (comma-separated)")
	cmd.Flags().StringVarP(&opts.engine, "engine", "e", opts.engine, "renderer: scene (default), graphviz")
	cmd.Flags().BoolVar(&opts.layout, "layout", opts.layout, "run auto layout before rendering")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show jurisdiction and nationality (graphviz)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")

	return cmd
}

// parseFormats parses the --format flag. If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{"svg"}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

var validFormats = map[string]bool{"svg": true, "dot": true, "pdf": true, "png": true}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'svg', 'dot', 'pdf', or 'png')", f)
		}
	}
	return nil
}

func validateEngine(e string) error {
	if e != engineScene && e != engineGraphviz {
		return fmt.Errorf("invalid engine: %s (must be 'scene' or 'graphviz')", e)
	}
	return nil
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	g, loaded, err := c.loadGraph(input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}
	c.Logger.Infof("Loaded %s: %d nodes, %d edges", input, g.NodeCount(), g.EdgeCount())

	if opts.layout {
		res := layout.Apply(g, cfg.Layout)
		c.Logger.Debugf("Auto layout: %d levels", len(res.Levels))
	}

	for _, format := range opts.formats {
		data, err := c.renderGraph(ctx, g, cfg.Layout, format, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}

		path := opts.output
		if path == "" || len(opts.formats) > 1 {
			path = outputPath(basePath(opts.output), input, "") + "." + format
		}
		if err := writeOutput(path, data); err != nil {
			return err
		}
		c.Logger.Debugf("Generated %s: %d bytes", format, len(data))
		if path != "-" {
			printFile(path)
		}
	}
	printStats(g.NodeCount(), g.EdgeCount(), len(loaded.Skipped))
	return nil
}

// basePath strips a known format extension from an explicit output path.
func basePath(output string) string {
	for f := range validFormats {
		if strings.HasSuffix(output, "."+f) {
			return strings.TrimSuffix(output, "."+f)
		}
	}
	return output
}

func (c *CLI) renderGraph(ctx context.Context, g *diagram.Graph, cfg layout.Config, format string, opts renderOpts) ([]byte, error) {
	dotOpts := dot.Options{Pinned: true, Detailed: opts.detailed}

	if format == "dot" {
		return []byte(dot.ToDOT(g, cfg, dotOpts)), nil
	}

	var svg []byte
	switch opts.engine {
	case engineGraphviz:
		var err error
		if svg, err = dot.RenderSVG(ctx, dot.ToDOT(g, cfg, dotOpts), dotOpts); err != nil {
			return nil, err
		}
	default:
		scene := render.NewScene(cfg)
		scene.Sync(g)
		svg = render.RenderSVG(scene)
	}

	switch format {
	case "pdf":
		return render.ToPDF(ctx, svg)
	case "png":
		return render.ToPNG(ctx, svg, opts.scale)
	}
	return svg, nil
}

func writeOutput(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = out.Write(data)
	return err
}
