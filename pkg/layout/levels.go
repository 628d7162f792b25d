package layout

import "github.com/matzehuels/organogram/pkg/diagram"

// Levels groups node IDs by hierarchy level, each level in discovery order.
//
// Roots are nodes that are not the target of any edge, taken in insertion
// order. A single breadth-first traversal starts from all roots at once; the
// first visit fixes a node's level. Unreached nodes are appended to level 0
// in insertion order, so cyclic graphs terminate and every node is placed.
// The result has no empty levels.
func Levels(g *diagram.Graph) [][]string {
	ids := g.NodeIDs()
	if len(ids) == 0 {
		return nil
	}

	type item struct {
		id    string
		level int
	}

	var queue []item
	for _, id := range ids {
		if len(g.InEdges(id)) == 0 {
			queue = append(queue, item{id: id})
		}
	}

	visited := make(map[string]bool, len(ids))
	var levels [][]string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur.id] {
			continue
		}
		visited[cur.id] = true

		if cur.level == len(levels) {
			levels = append(levels, nil)
		}
		levels[cur.level] = append(levels[cur.level], cur.id)

		for _, eid := range g.OutEdges(cur.id) {
			e, _ := g.Edge(eid)
			if !visited[e.Target] {
				queue = append(queue, item{id: e.Target, level: cur.level + 1})
			}
		}
	}

	for _, id := range ids {
		if visited[id] {
			continue
		}
		if len(levels) == 0 {
			levels = append(levels, nil)
		}
		levels[0] = append(levels[0], id)
	}
	return levels
}
