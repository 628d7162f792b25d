// Package dot renders organograms through Graphviz.
//
// [ToDOT] produces DOT source with one rounded box per node and one labelled
// arrow per ownership edge. With [Options.Pinned] every node carries its
// diagram position (pos="x,y!") and [RenderSVG] lays the graph out with
// neato, so the export matches the editor canvas; otherwise Graphviz's own
// hierarchical dot layout is used.
//
//	src := dot.ToDOT(g, layout.DefaultConfig(), dot.Options{Pinned: true})
//	svg, err := dot.RenderSVG(ctx, src, dot.Options{Pinned: true})
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering.
package dot
