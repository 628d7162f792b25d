// Package render keeps the drawable side of the organogram separate from the
// graph store.
//
// # Scene
//
// A [Scene] maps node and edge ids to view handles ([NodeView], [EdgeView])
// holding what a canvas needs: box, icon, truncated title, connector path and
// percentage label. [Scene.Sync] rebuilds every handle from a graph;
// [Scene.Apply] consumes an [interact.Change] and touches only the handles it
// names, so dragging one node never rebuilds unrelated connectors:
//
//	scene := render.NewScene(cfg)
//	scene.Sync(g)
//	change, _ := controller.HandleEvent(ev)
//	scene.Apply(g, change)
//
// # Output
//
// [WriteSVG] draws a scene as standalone SVG using the editor's own geometry.
// [ToPDF] and [ToPNG] convert that SVG with the external rsvg-convert tool.
// The [dot] subpackage renders through Graphviz instead.
//
// [dot]: github.com/matzehuels/organogram/pkg/render/dot
package render
