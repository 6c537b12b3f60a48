package ir

import (
	"fmt"
	"sort"
	"strings"
)

// Dump renders the graph reachable from root (via operand edges) as a
// deterministic flat listing, one node per line, sorted by id:
//
//	#0 Start bot defs=[#1 #7] users=[#8]
//	#7 Con int(7) defs=[] users=[#0 #8]
//	#8 Ret bot defs=[#0 #7] users=[]
//
// Operand lists keep their order; user sets are sorted by id. The
// output is stable for a fixed graph, which makes it suitable for
// golden-file comparison.
func Dump(root *Node) string {
	nodes := Reachable(root)

	var b strings.Builder
	for _, n := range nodes {
		fmt.Fprintf(&b, "#%d %s %s defs=[%s] users=[%s]\n",
			n.id, n.op, n.typ, joinDefs(n.defs), joinIDs(n.UserIDs()))
	}
	return b.String()
}

// Reachable returns every node reachable from root through operand
// edges, sorted by id.
func Reachable(root *Node) []*Node {
	seen := make(map[NodeID]*Node)
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if _, ok := seen[n.id]; ok {
			return
		}
		seen[n.id] = n
		for _, d := range n.defs {
			walk(d)
		}
	}
	walk(root)

	nodes := make([]*Node, 0, len(seen))
	for _, n := range seen {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].id < nodes[j].id })
	return nodes
}

func joinDefs(defs []*Node) string {
	parts := make([]string, len(defs))
	for i, d := range defs {
		parts[i] = fmt.Sprintf("#%d", d.id)
	}
	return strings.Join(parts, " ")
}

func joinIDs(ids []NodeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("#%d", id)
	}
	return strings.Join(parts, " ")
}
