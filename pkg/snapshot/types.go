package snapshot

import "github.com/matzehuels/organogram/pkg/diagram"

// Snapshot is the initial graph handed to the editor at startup.
type Snapshot struct {
	Nodes []NodeRecord `json:"nodes" bson:"nodes"`
	Edges []EdgeRecord `json:"edges" bson:"edges"`
}

// SaveRequest is the body submitted to the save endpoint.
type SaveRequest struct {
	StructureID string       `json:"structure_id" bson:"structure_id"`
	Nodes       []NodeRecord `json:"nodes" bson:"nodes"`
	Edges       []EdgeRecord `json:"edges" bson:"edges"`
}

// Snapshot returns the graph part of the request.
func (r SaveRequest) Snapshot() Snapshot {
	return Snapshot{Nodes: r.Nodes, Edges: r.Edges}
}

// NodeRecord is the serialized form of a diagram node.
type NodeRecord struct {
	ID    string  `json:"id" bson:"id"`
	Type  string  `json:"type" bson:"type"` // "entity" or "party"
	Name  string  `json:"name" bson:"name"`
	X     float64 `json:"x" bson:"x"`
	Y     float64 `json:"y" bson:"y"`
	Level int     `json:"level" bson:"level"`

	EntityType   string `json:"entity_type,omitempty" bson:"entity_type,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty" bson:"jurisdiction,omitempty"`
	TotalShares  *int64 `json:"total_shares,omitempty" bson:"total_shares,omitempty"`
	Nationality  string `json:"nationality,omitempty" bson:"nationality,omitempty"`
}

// EdgeRecord is the serialized form of an ownership connection.
type EdgeRecord struct {
	ID         string  `json:"id" bson:"id"`
	Source     string  `json:"source" bson:"source"`
	Target     string  `json:"target" bson:"target"`
	Percentage float64 `json:"percentage" bson:"percentage"`

	Shares        *int64   `json:"shares,omitempty" bson:"shares,omitempty"`
	CorporateName string   `json:"corporate_name,omitempty" bson:"corporate_name,omitempty"`
	HashNumber    string   `json:"hash_number,omitempty" bson:"hash_number,omitempty"`
	ShareValueUSD *float64 `json:"share_value_usd,omitempty" bson:"share_value_usd,omitempty"`
	ShareValueEUR *float64 `json:"share_value_eur,omitempty" bson:"share_value_eur,omitempty"`
}

// NodeFromRecord converts a record to a store node. A missing type defaults to entity.
func NodeFromRecord(r NodeRecord) diagram.Node {
	kind := diagram.Kind(r.Type)
	if kind == "" {
		kind = diagram.KindEntity
	}
	n := diagram.Node{
		ID:           r.ID,
		Kind:         kind,
		Name:         r.Name,
		X:            r.X,
		Y:            r.Y,
		Level:        r.Level,
		EntityType:   r.EntityType,
		Jurisdiction: r.Jurisdiction,
		Nationality:  r.Nationality,
	}
	if r.TotalShares != nil {
		n.TotalShares = *r.TotalShares
	}
	return n
}

// NodeToRecord converts a store node to its wire form.
func NodeToRecord(n diagram.Node) NodeRecord {
	r := NodeRecord{
		ID:           n.ID,
		Type:         string(n.Kind),
		Name:         n.Name,
		X:            n.X,
		Y:            n.Y,
		Level:        n.Level,
		EntityType:   n.EntityType,
		Jurisdiction: n.Jurisdiction,
		Nationality:  n.Nationality,
	}
	if n.TotalShares != 0 {
		shares := n.TotalShares
		r.TotalShares = &shares
	}
	return r
}

// EdgeFromRecord converts a record to a store edge.
func EdgeFromRecord(r EdgeRecord) diagram.Edge {
	return diagram.Edge{
		ID:            r.ID,
		Source:        r.Source,
		Target:        r.Target,
		Percentage:    r.Percentage,
		Shares:        copyPtr(r.Shares),
		CorporateName: r.CorporateName,
		HashNumber:    r.HashNumber,
		ShareValueUSD: copyPtr(r.ShareValueUSD),
		ShareValueEUR: copyPtr(r.ShareValueEUR),
	}
}

// EdgeToRecord converts a store edge to its wire form.
func EdgeToRecord(e diagram.Edge) EdgeRecord {
	return EdgeRecord{
		ID:            e.ID,
		Source:        e.Source,
		Target:        e.Target,
		Percentage:    e.Percentage,
		Shares:        copyPtr(e.Shares),
		CorporateName: e.CorporateName,
		HashNumber:    e.HashNumber,
		ShareValueUSD: copyPtr(e.ShareValueUSD),
		ShareValueEUR: copyPtr(e.ShareValueEUR),
	}
}

// copyPtr keeps records from aliasing store memory.
func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
