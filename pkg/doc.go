// Package pkg holds the libraries behind the organogram editor.
//
// # Overview
//
// An organogram is a diagram of who owns what: entities (companies, trusts,
// funds) and parties (people, external owners) joined by directed ownership
// connections labelled with a percentage. The packages are organized as:
//
//  1. [diagram] - The graph store: nodes, edges, referential integrity
//  2. [layout] - Hierarchical auto layout and connector geometry
//  3. [interact] - The event controller: drag, select, palette drop, keys
//  4. [viewport] - Pan and zoom between canvas and diagram coordinates
//  5. [render] - Scene handles, SVG output and the Graphviz backend
//  6. [snapshot] - JSON load and save format
//  7. [api] - Client for the structure save and validate endpoints
//  8. [drafts] - Autosaved drafts on disk, in Redis or in MongoDB
//
// # Architecture
//
// The data flow of an editing session:
//
//	Snapshot (API, draft or file)
//	         ↓
//	    [snapshot] package (records → graph)
//	         ↓
//	    [interact] package (events → graph mutations + Change)
//	         ↓
//	    [render] package (Change → scene handles → SVG)
//	         ↓
//	    [api] package (SaveRequest → structure API)
//
// # Quick Start
//
// Load a saved structure, lay it out and draw it:
//
//	snap, _ := snapshot.ReadFile("holding.json")
//	g, _ := snapshot.Build(snap, logger)
//
//	cfg := layout.DefaultConfig()
//	layout.Apply(g, cfg)
//
//	scene := render.NewScene(cfg)
//	scene.Sync(g)
//	svg := render.RenderSVG(scene)
//
// Drive the same graph from editor events:
//
//	ctrl := interact.New(g, cfg, logger)
//	change, err := ctrl.HandleEvent(interact.Event{Kind: interact.ClickNode, NodeID: "entity_1"})
//	if err == nil {
//	    scene.Apply(g, change)
//	}
//
// # Infrastructure
//
// [errors] defines the error codes shared by the CLI and the HTTP binding.
// [config] reads the TOML configuration file. [observability] exposes hooks
// for engine events, API calls and draft storage.
//
// [diagram]: https://pkg.go.dev/github.com/matzehuels/organogram/pkg/diagram
// [layout]: https://pkg.go.dev/github.com/matzehuels/organogram/pkg/layout
// [interact]: https://pkg.go.dev/github.com/matzehuels/organogram/pkg/interact
// [viewport]: https://pkg.go.dev/github.com/matzehuels/organogram/pkg/viewport
// [render]: https://pkg.go.dev/github.com/matzehuels/organogram/pkg/render
// [snapshot]: https://pkg.go.dev/github.com/matzehuels/organogram/pkg/snapshot
// [api]: https://pkg.go.dev/github.com/matzehuels/organogram/pkg/api
// [drafts]: https://pkg.go.dev/github.com/matzehuels/organogram/pkg/drafts
// [errors]: https://pkg.go.dev/github.com/matzehuels/organogram/pkg/errors
// [config]: https://pkg.go.dev/github.com/matzehuels/organogram/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/organogram/pkg/observability
package pkg
