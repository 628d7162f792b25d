// Package layout assigns hierarchy levels and grid positions to organogram
// nodes and computes connector geometry between them.
//
// # Auto Layout
//
// [Levels] walks the ownership graph breadth-first from its roots (nodes
// nobody owns), queued in store insertion order. A node reached through
// several paths keeps the level of the first path that reached it; it is
// not promoted to the deepest or shallowest candidate. Nodes never reached
// (members of an ownership cycle with no root above them, or a graph whose
// every node is owned) land on level 0 after the traversal.
//
// [Compute] then lays every level out as a horizontal band:
//
//	x = -(k*NodeSpacing)/2 + i*NodeSpacing   // i-th of k nodes, discovery order
//	y = BaseY + level*LevelHeight
//
// [Apply] runs Compute and writes the result into the store.
//
// # Connectors
//
// An ownership connector leaves the bottom-center of the owner's box and
// enters the top-center of the owned node's box. [ConnectionPath] returns a
// cubic curve whose two control points sit on the horizontal line through
// the vertical midpoint. The percentage label sits at [LabelPosition], the
// midpoint of the straight segment between the anchors, which approximates
// the curve's midpoint.
package layout
