// ABOUTME: Graphviz DOT export of a topology
// ABOUTME: One cluster per fabric with spines and leaves ranked in rows

package render

import (
	"fmt"
	"strings"

	"github.com/markalston/fabric-designer/backend/models"
)

// DOT renders graph as a Graphviz digraph. Parallel links between the same
// pair of devices are collapsed into one edge labelled with the link count.
func DOT(graph models.TopologyGraph) string {
	var b strings.Builder
	b.WriteString("digraph fabric {\n")
	b.WriteString("\trankdir=BT;\n")
	b.WriteString("\tnode [shape=box, style=rounded];\n")

	fabrics := fabricOrder(graph)
	colors := FabricColors(fabrics)

	for i, fabric := range fabrics {
		fmt.Fprintf(&b, "\tsubgraph cluster_%d {\n", i)
		fmt.Fprintf(&b, "\t\tlabel=%q;\n", fabric)
		fmt.Fprintf(&b, "\t\tcolor=%q;\n", colors[fabric])

		if spines := graph.Spines(fabric); len(spines) > 0 {
			b.WriteString("\t\t{ rank=same;")
			for _, s := range spines {
				fmt.Fprintf(&b, " %q;", s.ID)
			}
			b.WriteString(" }\n")
		}
		b.WriteString("\t\t{ rank=same;")
		for _, l := range graph.Leaves(fabric) {
			fmt.Fprintf(&b, " %q;", l.ID)
		}
		b.WriteString(" }\n")
		b.WriteString("\t}\n")
	}

	for _, s := range graph.Servers {
		fmt.Fprintf(&b, "\t%q [shape=component];\n", s.ID)
	}

	type pair struct{ from, to, fabric, speed string }
	counts := make(map[pair]int)
	var order []pair
	for _, c := range graph.Connections {
		k := pair{c.Source, c.Target, c.Fabric, c.Speed}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}
	for _, k := range order {
		label := k.speed
		if n := counts[k]; n > 1 {
			label = fmt.Sprintf("%d x %s", n, k.speed)
		}
		fmt.Fprintf(&b, "\t%q -> %q [label=%q, color=%q];\n", k.from, k.to, label, colors[k.fabric])
	}

	b.WriteString("}\n")
	return b.String()
}
