package searcher

import (
	"fmt"
	"strconv"

	"github.com/awalterschulze/gographviz"
)

// ToDot renders the live tree in graphviz DOT, down to maxDepth levels below
// the root. A negative maxDepth renders everything.
func (m *MCTS[S, M]) ToDot(maxDepth int) string {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		panic(err)
	}
	if err := g.SetDir(true); err != nil {
		panic(err)
	}

	type entry struct {
		id    nodeID
		depth int
	}
	stack := []entry{{id: m.tree.root}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := m.tree.node(e.id)

		label := "root"
		if e.id != m.tree.root {
			label = fmt.Sprintf("%s by %d", n.move, n.mover)
		}
		label = fmt.Sprintf("%s\nW/V/A %.1f/%d/%d", label, n.wins, n.visits, n.avails)
		attrs := map[string]string{
			"shape": "box",
			"label": strconv.Quote(label),
		}
		if err := g.AddNode("G", dotName(e.id), attrs); err != nil {
			panic(err)
		}
		if p := n.parent; p.isValid() && e.id != m.tree.root {
			if err := g.AddEdge(dotName(p), dotName(e.id), true, nil); err != nil {
				panic(err)
			}
		}

		if maxDepth >= 0 && e.depth >= maxDepth {
			continue
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, entry{id: n.children[i], depth: e.depth + 1})
		}
	}
	return g.String()
}

func dotName(id nodeID) string {
	return fmt.Sprintf("n%d", id)
}
