package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/organogram/pkg/diagram"
	orgerrors "github.com/matzehuels/organogram/pkg/errors"
)

// FromGraph captures every node and edge of g, in insertion order.
// Nodes and edges are never nil so the JSON form always has both arrays.
func FromGraph(g *diagram.Graph) Snapshot {
	nodes := g.Nodes()
	edges := g.Edges()
	s := Snapshot{
		Nodes: make([]NodeRecord, len(nodes)),
		Edges: make([]EdgeRecord, len(edges)),
	}
	for i, n := range nodes {
		s.Nodes[i] = NodeToRecord(n)
	}
	for i, e := range edges {
		s.Edges[i] = EdgeToRecord(e)
	}
	return s
}

// NewSaveRequest snapshots g for submission under structureID.
func NewSaveRequest(structureID string, g *diagram.Graph) SaveRequest {
	s := FromGraph(g)
	return SaveRequest{StructureID: structureID, Nodes: s.Nodes, Edges: s.Edges}
}

// Skipped describes a record the store refused.
type Skipped struct {
	ID  string
	Err error
}

// LoadResult reports what [Load] inserted.
type LoadResult struct {
	Nodes   int
	Edges   int
	Skipped []Skipped
}

// Load inserts the snapshot into g. Nodes keep their saved position and level.
// Nodes whose type is neither entity nor party are skipped as INVALID_INPUT.
// Rejected records are logged and reported in the result; they never abort the load.
// A nil logger uses log.Default().
func Load(g *diagram.Graph, s Snapshot, logger *log.Logger) LoadResult {
	if logger == nil {
		logger = log.Default()
	}
	var res LoadResult

	for _, r := range s.Nodes {
		n := NodeFromRecord(r)
		if !n.Kind.Valid() {
			err := orgerrors.New(orgerrors.ErrCodeInvalidInput, "node %s: unknown node type %q", r.ID, r.Type)
			logger.Warn("skipping node", "id", r.ID, "err", err)
			res.Skipped = append(res.Skipped, Skipped{ID: r.ID, Err: err})
			continue
		}
		if err := g.AddNode(n); err != nil {
			err = orgerrors.Wrap(orgerrors.ErrCodeReferential, err, "node %s", r.ID)
			logger.Warn("skipping node", "id", r.ID, "err", err)
			res.Skipped = append(res.Skipped, Skipped{ID: r.ID, Err: err})
			continue
		}
		_ = g.SetPlacement(n.ID, max(n.Level, 0), n.X, n.Y)
		res.Nodes++
	}

	for _, r := range s.Edges {
		if _, err := g.AddEdge(EdgeFromRecord(r)); err != nil {
			id := r.ID
			if id == "" {
				id = diagram.EdgeID(r.Source, r.Target)
			}
			err = orgerrors.Wrap(orgerrors.ErrCodeReferential, err, "edge %s (%s → %s)", id, r.Source, r.Target)
			logger.Warn("skipping edge", "id", id, "err", err)
			res.Skipped = append(res.Skipped, Skipped{ID: id, Err: err})
			continue
		}
		res.Edges++
	}

	return res
}

// Build creates a new graph from s. See [Load].
func Build(s Snapshot, logger *log.Logger) (*diagram.Graph, LoadResult) {
	g := diagram.New()
	res := Load(g, s, logger)
	return g, res
}

// Marshal converts a snapshot to indented JSON.
func Marshal(s Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Unmarshal decodes JSON bytes into a snapshot.
func Unmarshal(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, orgerrors.Wrap(orgerrors.ErrCodeInvalidInput, err, "decode snapshot")
	}
	return s, nil
}

// Read decodes a snapshot from r.
func Read(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, orgerrors.Wrap(orgerrors.ErrCodeInvalidInput, err, "decode snapshot")
	}
	return s, nil
}

// Write encodes s as indented JSON to w.
func Write(w io.Writer, s Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadFile reads a snapshot from a JSON file.
func ReadFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, orgerrors.Wrap(orgerrors.ErrCodeNotFound, err, "open %s", path)
		}
		return Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// WriteFile writes a snapshot to a JSON file with 0644 permissions.
func WriteFile(path string, s Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(f, s)
}
