// Package diagram provides the graph store behind the organogram editor.
//
// # Overview
//
// An organogram is a directed graph of ownership: nodes are legal entities
// or parties, and an edge A → B carries the percentage of B owned by A.
// [Graph] holds both keyed by ID and iterates them in insertion order, so
// anything derived from the store (root order, discovery order, snapshots)
// is deterministic for a given sequence of mutations.
//
// # Basic Usage
//
//	g := diagram.New()
//	g.AddNode(diagram.Node{ID: "entity_1", Kind: diagram.KindEntity, Name: "Holdco"})
//	g.AddNode(diagram.Node{ID: "entity_2", Kind: diagram.KindEntity, Name: "Opco"})
//	id, err := g.AddEdge(diagram.Edge{Source: "entity_1", Target: "entity_2", Percentage: 100})
//	// id == "entity_1_entity_2"
//
// # Referential Integrity
//
// Every edge references two existing nodes. [Graph.AddEdge] rejects edges
// with a missing endpoint and [Graph.RemoveNode] cascades to every incident
// edge. Rejected inserts return a sentinel error and leave the store exactly
// as it was; callers log the error and carry on.
//
// The store is pure data. View handles for rendering live in package render,
// looked up by the same IDs.
//
// # Concurrency
//
// Graph is not safe for concurrent use. The editor mutates it from a single
// logical thread; bindings that serve concurrent clients serialize access.
package diagram
