package interact

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/matzehuels/organogram/pkg/diagram"
	orgerrors "github.com/matzehuels/organogram/pkg/errors"
	"github.com/matzehuels/organogram/pkg/layout"
	"github.com/matzehuels/organogram/pkg/snapshot"
)

// Kind identifies an editor event.
type Kind string

const (
	DragStart   Kind = "drag_start"
	DragMove    Kind = "drag_move"
	DragEnd     Kind = "drag_end"
	ClickNode   Kind = "click_node"
	ClickEdge   Kind = "click_edge"
	ClickCanvas Kind = "click_canvas"

	Drop       Kind = "drop"        // palette item dropped at a client point
	AddItem    Kind = "add_item"    // palette item placed at the canvas center
	AddNode    Kind = "add_node"    // explicit node record
	Connect    Kind = "connect"     // new ownership edge
	UpdateEdge Kind = "update_edge" // connection property form
	Delete     Kind = "delete"      // whatever is selected
	DeleteNode Kind = "delete_node"
	DeleteEdge Kind = "delete_edge"
	Escape     Kind = "escape"
	AutoLayout Kind = "auto_layout"
	Clear      Kind = "clear"

	ZoomIn      Kind = "zoom_in"
	ZoomOut     Kind = "zoom_out"
	Pan         Kind = "pan"
	FitToScreen Kind = "fit_to_screen"
	Resize      Kind = "resize"
	Key         Kind = "key"
)

// Event is one UI input. Only the fields relevant to Kind are read.
type Event struct {
	Kind Kind `json:"kind"`

	NodeID string `json:"node_id,omitempty"`
	EdgeID string `json:"edge_id,omitempty"`

	// X, Y is the pointer in diagram coordinates for drag events, the
	// client point for Drop, and the pan delta for Pan.
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`

	// Origin is the client position of the canvas' top-left corner (Drop).
	Origin layout.Point `json:"origin"`

	// Payload is the raw JSON palette item carried by a Drop.
	Payload string `json:"payload,omitempty"`

	Item *PaletteItem         `json:"item,omitempty"` // AddItem
	Node *snapshot.NodeRecord `json:"node,omitempty"` // AddNode
	Edge *snapshot.EdgeRecord `json:"edge,omitempty"` // Connect, UpdateEdge

	// Width and Height give the canvas size (Resize).
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Key is a shortcut such as "ctrl+s", "delete" or "escape".
	Key string `json:"key,omitempty"`
}

// PaletteItem is a library entry dragged onto the canvas.
type PaletteItem struct {
	Type         string     `json:"type"`
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	EntityType   string     `json:"entityType,omitempty"`
	Jurisdiction string     `json:"jurisdiction,omitempty"`
	Nationality  string     `json:"nationality,omitempty"`
	TotalShares  ShareCount `json:"totalShares,omitempty"`
}

// ShareCount accepts a share count encoded as a JSON number or as a numeric
// string, which is how palette data attributes arrive. Empty and null are zero.
type ShareCount int64

func (s *ShareCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = 0
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*s = 0
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return err
	}
	*s = ShareCount(n)
	return nil
}

// ParsePaletteItem decodes and checks a drop payload.
func ParsePaletteItem(payload string) (PaletteItem, error) {
	var item PaletteItem
	if strings.TrimSpace(payload) == "" {
		return item, orgerrors.New(orgerrors.ErrCodeInvalidInput, "empty drop payload")
	}
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		return item, orgerrors.Wrap(orgerrors.ErrCodeInvalidInput, err, "malformed drop payload")
	}
	if err := item.validate(); err != nil {
		return item, err
	}
	return item, nil
}

func (p PaletteItem) validate() error {
	if !diagram.Kind(p.Type).Valid() {
		return orgerrors.New(orgerrors.ErrCodeInvalidInput, "unknown palette item type %q", p.Type)
	}
	if err := orgerrors.ValidateElementID(p.ID); err != nil {
		return err
	}
	return nil
}

// NodeID is the canvas id of the item: its type and library id joined by "_".
func (p PaletteItem) NodeID() string { return p.Type + "_" + p.ID }

// Node builds the diagram node for the item at pos. Entity attributes are
// copied for entities and nationality for parties.
func (p PaletteItem) Node(pos layout.Point) diagram.Node {
	n := diagram.Node{
		ID:   p.NodeID(),
		Kind: diagram.Kind(p.Type),
		Name: p.Name,
		X:    pos.X,
		Y:    pos.Y,
	}
	switch n.Kind {
	case diagram.KindEntity:
		n.EntityType = p.EntityType
		n.Jurisdiction = p.Jurisdiction
		n.TotalShares = int64(p.TotalShares)
	case diagram.KindParty:
		n.Nationality = p.Nationality
	}
	return n
}
