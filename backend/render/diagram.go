// ABOUTME: Diagram layout of a topology as positioned nodes and colored edges
// ABOUTME: Spines on top, leaves in the middle, servers at the bottom, grouped by fabric

package render

import "github.com/markalston/fabric-designer/backend/models"

// Layout spacing in pixels
const (
	NodeSpacing        = 150
	FabricGroupSpacing = 600
	SpineRowY          = 0
	LeafRowY           = 200
	ServerRowY         = 400
)

// Node types in a diagram
const (
	NodeServer = "server"
	NodeLeaf   = "leaf"
	NodeSpine  = "spine"
)

var fabricColors = map[string]string{
	"frontend": "#22c55e",
	"gpu":      "#ec4899",
}

var fallbackPalette = []string{"#3b82f6", "#f59e0b", "#14b8a6", "#8b5cf6", "#ef4444"}

// Diagram is a positioned node/edge graph ready for a canvas renderer
type Diagram struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one device on the canvas
type Node struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	Label    string            `json:"label"`
	Fabric   string            `json:"network,omitempty"`
	X        int               `json:"x"`
	Y        int               `json:"y"`
	Ports    map[string]string `json:"ports,omitempty"`
	Networks []ServerNetwork   `json:"networks,omitempty"`
}

// ServerNetwork summarizes a server's ports on one fabric
type ServerNetwork struct {
	Name  string `json:"name"`
	Ports int    `json:"ports"`
	Speed string `json:"speed"`
}

// Edge is one connection on the canvas
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Fabric string `json:"network"`
	Speed  string `json:"speed"`
	Label  string `json:"label"`
	Color  string `json:"color"`
}

// Layout positions every device of graph. Fabrics are laid out left to right
// in the order they first appear; each row is centered on its fabric's offset.
func Layout(graph models.TopologyGraph) Diagram {
	d := Diagram{Nodes: []Node{}, Edges: []Edge{}}
	fabrics := fabricOrder(graph)

	for i, fabric := range fabrics {
		offset := i * FabricGroupSpacing

		spines := graph.Spines(fabric)
		for j, spine := range spines {
			d.Nodes = append(d.Nodes, Node{
				ID:     spine.ID,
				Type:   NodeSpine,
				Label:  spine.ID,
				Fabric: fabric,
				X:      rowX(offset, j, len(spines)),
				Y:      SpineRowY,
				Ports:  map[string]string{"downlinks": PortSummary(spine.Downlinks, "")},
			})
		}

		leaves := graph.Leaves(fabric)
		for j, leaf := range leaves {
			ports := map[string]string{}
			switch p := leaf.Ports.(type) {
			case models.FabricLeafPorts:
				ports["downlinks"] = PortSummary(p.Downlinks, "")
				ports["uplinks"] = PortSummary(p.Uplinks, "")
			case models.BondLeafPorts:
				ports["ports"] = PortSummary(p.Ports, "")
			}
			d.Nodes = append(d.Nodes, Node{
				ID:     leaf.ID,
				Type:   NodeLeaf,
				Label:  leaf.ID,
				Fabric: fabric,
				X:      rowX(offset, j, len(leaves)),
				Y:      LeafRowY,
				Ports:  ports,
			})
		}
	}

	for i, server := range graph.Servers {
		networks := make([]ServerNetwork, 0, len(server.Networks))
		for _, g := range server.Networks {
			sn := ServerNetwork{Name: g.Fabric, Ports: len(g.Ports)}
			if len(g.Ports) > 0 {
				sn.Speed = g.Ports[0].Speed
			}
			networks = append(networks, sn)
		}
		d.Nodes = append(d.Nodes, Node{
			ID:       server.ID,
			Type:     NodeServer,
			Label:    server.ID,
			X:        rowX(0, i, len(graph.Servers)),
			Y:        ServerRowY,
			Networks: networks,
		})
	}

	colors := FabricColors(fabrics)
	for _, c := range graph.Connections {
		d.Edges = append(d.Edges, Edge{
			ID:     c.ID,
			Source: c.Source,
			Target: c.Target,
			Fabric: c.Fabric,
			Speed:  c.Speed,
			Label:  c.Speed,
			Color:  colors[c.Fabric],
		})
	}

	return d
}

// rowX centers a row of n nodes on offset.
func rowX(offset, index, n int) int {
	width := n * NodeSpacing
	return offset + index*NodeSpacing - width/2 + NodeSpacing/2
}

// FabricColors assigns a stroke color per fabric. frontend and gpu keep their
// fixed colors; other fabrics take palette entries in order.
func FabricColors(fabrics []string) map[string]string {
	colors := make(map[string]string, len(fabrics))
	next := 0
	for _, f := range fabrics {
		if c, ok := fabricColors[f]; ok {
			colors[f] = c
			continue
		}
		colors[f] = fallbackPalette[next%len(fallbackPalette)]
		next++
	}
	return colors
}

// fabricOrder returns fabric names in order of first appearance among spines,
// then leaves.
func fabricOrder(graph models.TopologyGraph) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(f string) {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	for _, s := range graph.SpineSwitches {
		add(s.Fabric)
	}
	for _, l := range graph.LeafSwitches {
		add(l.Fabric)
	}
	return out
}
