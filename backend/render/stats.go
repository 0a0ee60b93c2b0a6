// ABOUTME: Summary statistics for a synthesized topology
// ABOUTME: Device and connection counts, broken down by fabric and by speed

package render

import "github.com/markalston/fabric-designer/backend/models"

// Stats counts devices and connections in graph.
func Stats(graph models.TopologyGraph) models.DesignStats {
	stats := models.DesignStats{
		Servers:              len(graph.Servers),
		LeafSwitches:         len(graph.LeafSwitches),
		SpineSwitches:        len(graph.SpineSwitches),
		Connections:          len(graph.Connections),
		ConnectionsByNetwork: map[string]int{},
		ConnectionsBySpeed:   map[string]int{},
		Fabrics:              graph.Fabrics,
	}
	for _, c := range graph.Connections {
		stats.ConnectionsByNetwork[c.Fabric]++
		stats.ConnectionsBySpeed[c.Speed]++
	}
	for _, f := range graph.Fabrics {
		stats.UnplacedServerPorts += f.UnplacedServerPorts
	}
	return stats
}
