// Package interact is the interaction controller of the organogram editor.
//
// A [Controller] owns the transient editor state (selection, drag flag,
// viewport, canvas size) and mutates a [diagram.Graph] in response to UI
// events. Every binding, whether the HTTP server or the terminal editor,
// funnels input through [Controller.HandleEvent] and redraws from the
// returned [Change]:
//
//	c := interact.New(graph, layout.DefaultConfig(), logger)
//	change, err := c.HandleEvent(interact.Event{Kind: interact.DragMove, NodeID: "entity_1", X: 40, Y: 220})
//	for _, e := range change.Edges {
//	    redraw(e.ID, e.Path, e.Label)
//	}
//
// # Drag
//
// DragStart selects the node and sets the dragging flag. DragMove moves the
// node to the pointer and reports geometry for its incident edges only.
// DragEnd clears the flag and keeps the selection. Clicks delivered while the
// flag is set are ignored.
//
// # Rejections
//
// Store rejections (duplicate ids, missing endpoints) and malformed input are
// logged at warn level and returned as coded errors from [errors]; the event
// has no effect and the controller stays usable.
//
// A Controller is not safe for concurrent use.
package interact
