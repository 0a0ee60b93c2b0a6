// ABOUTME: Topology synthesis engine for spine-leaf and LACP fabrics
// ABOUTME: Sizes switches per fabric and enumerates every server, leaf, and spine link

package services

import (
	"fmt"

	"github.com/markalston/fabric-designer/backend/models"
)

// TopologyCalculator builds fabric topologies from a single switch model
type TopologyCalculator struct {
	model models.SwitchModel
}

// NewTopologyCalculator creates a calculator that uses model for every leaf and spine
func NewTopologyCalculator(model models.SwitchModel) *TopologyCalculator {
	return &TopologyCalculator{model: model}
}

// Synthesize builds a topology for cfg using model. It is shorthand for
// NewTopologyCalculator(model).Synthesize(cfg).
func Synthesize(cfg models.ClusterConfig, model models.SwitchModel) models.TopologyGraph {
	return NewTopologyCalculator(model).Synthesize(cfg)
}

// Synthesize derives switch counts, allocates ports, and wires every fabric in cfg.
// The result is deterministic and shares no memory with cfg. Inputs outside the
// engine's domain (no servers, switches with fewer than two ports) produce an
// empty graph; fabrics without NIC ports or with an unknown kind are skipped.
// Demand the switch model cannot absorb is left unconnected and recorded in the
// fabric's report rather than returned as an error.
func (c *TopologyCalculator) Synthesize(cfg models.ClusterConfig) models.TopologyGraph {
	graph := models.TopologyGraph{
		Servers:       []models.Server{},
		LeafSwitches:  []models.LeafSwitch{},
		SpineSwitches: []models.SpineSwitch{},
		Connections:   []models.Connection{},
		Fabrics:       []models.FabricReport{},
	}
	if cfg.ServerCount < 1 || c.model.TotalPorts < 2 {
		return graph
	}

	fabrics := usableFabrics(cfg.Networks)
	graph.Servers = buildServers(cfg.ServerCount, fabrics)

	for _, req := range fabrics {
		var report models.FabricReport
		switch req.Kind {
		case models.KindSpineLeaf:
			report = c.buildSpineLeaf(&graph, req, cfg.ServerCount)
		case models.KindLACP:
			report = c.buildLACP(&graph, req, cfg.ServerCount)
		}
		graph.Fabrics = append(graph.Fabrics, report)
	}

	return graph
}

// usableFabrics drops requirements the engine cannot wire: no NIC ports, an
// unknown kind, or a name already taken by an earlier fabric.
func usableFabrics(reqs []models.NetworkRequirement) []models.NetworkRequirement {
	seen := make(map[string]bool, len(reqs))
	out := make([]models.NetworkRequirement, 0, len(reqs))
	for _, req := range reqs {
		if req.NICPortCount < 1 || !req.Kind.Valid() || seen[req.Name] {
			continue
		}
		seen[req.Name] = true
		out = append(out, req)
	}
	return out
}

func buildServers(count int, fabrics []models.NetworkRequirement) []models.Server {
	servers := make([]models.Server, count)
	for i := range servers {
		groups := make([]models.PortGroup, 0, len(fabrics))
		for _, req := range fabrics {
			groups = append(groups, models.PortGroup{
				Fabric: req.Name,
				Ports:  makePorts(req.Name+"-port-", req.NICPortCount, req.PortSpeed),
			})
		}
		servers[i] = models.Server{ID: serverID(i), Networks: groups}
	}
	return servers
}

// buildSpineLeaf sizes a non-blocking two-tier fabric and wires servers to
// leaves by sequential fill, then every leaf to every spine.
func (c *TopologyCalculator) buildSpineLeaf(graph *models.TopologyGraph, req models.NetworkRequirement, serverCount int) models.FabricReport {
	totalPorts := c.model.TotalPorts
	serverPorts := serverCount * req.NICPortCount

	maxDownlinks := totalPorts / 2
	maxUplinks := totalPorts - maxDownlinks

	leafCount := max(2, ceilDiv(serverPorts, maxDownlinks))
	downlinksPerLeaf := min(maxDownlinks, ceilDiv(serverPorts, leafCount))

	totalUplinks := leafCount * maxUplinks
	spineCount := max(2, ceilDiv(totalUplinks, totalPorts))
	downlinksPerSpine := ceilDiv(totalUplinks, spineCount)

	report := models.FabricReport{
		Name:                  req.Name,
		Kind:                  req.Kind,
		OversubscriptionRatio: req.OversubscriptionRatio,
		LeafCount:             leafCount,
		SpineCount:            spineCount,
		DownlinksPerLeaf:      downlinksPerLeaf,
		UplinksPerLeaf:        maxUplinks,
		ServerPorts:           serverPorts,
	}

	leaves := make([]models.FabricLeafPorts, leafCount)
	for i := range leaves {
		down := downlinksPerLeaf
		if i == leafCount-1 {
			down = max(0, serverPorts-downlinksPerLeaf*(leafCount-1))
		}
		leaves[i] = models.FabricLeafPorts{
			Downlinks: makePorts("downlink-", down, req.PortSpeed),
			Uplinks:   makePorts("uplink-", maxUplinks, req.PortSpeed),
		}
		graph.LeafSwitches = append(graph.LeafSwitches, models.LeafSwitch{
			ID:     leafID(req.Name, i),
			Fabric: req.Name,
			Ports:  leaves[i],
		})
	}

	spineDownlinks := make([]int, spineCount)
	remaining := totalUplinks
	for i := range spineDownlinks {
		n := min(downlinksPerSpine, remaining)
		if i == spineCount-1 {
			n = remaining
		}
		spineDownlinks[i] = n
		remaining -= n
		graph.SpineSwitches = append(graph.SpineSwitches, models.SpineSwitch{
			ID:        spineID(req.Name, i),
			Fabric:    req.Name,
			Downlinks: makePorts("downlink-", n, req.PortSpeed),
		})
	}

	// Server ports fill leaf 1 completely before moving on to leaf 2.
	allocated := 0
	for s := 0; s < serverCount; s++ {
		for p := 0; p < req.NICPortCount; p++ {
			leaf := allocated / downlinksPerLeaf
			slot := allocated % downlinksPerLeaf
			if leaf >= leafCount || slot >= len(leaves[leaf].Downlinks) {
				report.UnplacedServerPorts++
				continue
			}
			graph.Connections = append(graph.Connections, models.Connection{
				ID:         fmt.Sprintf("conn-server%d-%s-port%d-to-leaf%d", s+1, req.Name, p+1, leaf+1),
				Source:     serverID(s),
				SourcePort: fmt.Sprintf("%s-port-%d", req.Name, p+1),
				Target:     leafID(req.Name, leaf),
				TargetPort: leaves[leaf].Downlinks[slot].ID,
				Speed:      req.PortSpeed,
				Fabric:     req.Name,
			})
			allocated++
		}
	}
	report.ConnectedServerPorts = allocated

	// Each leaf splits its uplinks across all spines, earlier spines taking the
	// remainder. Spine downlinks are handed out in leaf order.
	perSpine := maxUplinks / spineCount
	extra := maxUplinks % spineCount
	nextDownlink := make([]int, spineCount)
	linked := make([][]bool, leafCount)

	for l := range leaves {
		linked[l] = make([]bool, spineCount)
		uplink := 0
		for s := 0; s < spineCount; s++ {
			n := perSpine
			if s < extra {
				n++
			}
			for range n {
				if nextDownlink[s] >= spineDownlinks[s] {
					report.DroppedUplinks++
					uplink++
					continue
				}
				spine := spineID(req.Name, s)
				graph.Connections = append(graph.Connections, models.Connection{
					ID:         fmt.Sprintf("conn-%s-uplink%d-to-%s", leafID(req.Name, l), uplink+1, spine),
					Source:     leafID(req.Name, l),
					SourcePort: leaves[l].Uplinks[uplink].ID,
					Target:     spine,
					TargetPort: fmt.Sprintf("downlink-%d", nextDownlink[s]+1),
					Speed:      req.PortSpeed,
					Fabric:     req.Name,
				})
				nextDownlink[s]++
				uplink++
				report.LeafSpineLinks++
				linked[l][s] = true
			}
		}
	}

	report.FullMesh = true
	for _, row := range linked {
		for _, ok := range row {
			if !ok {
				report.FullMesh = false
			}
		}
	}

	report.Warnings = fabricWarnings(req, report)
	return report
}

// buildLACP creates a redundant switch pair and spreads each server's ports
// across it. Ports alternate between the two switches over the fabric-wide
// port sequence so every slot is used exactly once.
func (c *TopologyCalculator) buildLACP(graph *models.TopologyGraph, req models.NetworkRequirement, serverCount int) models.FabricReport {
	serverPorts := serverCount * req.NICPortCount
	portsPerSwitch := ceilDiv(serverPorts, 2)

	report := models.FabricReport{
		Name:                  req.Name,
		Kind:                  req.Kind,
		OversubscriptionRatio: req.OversubscriptionRatio,
		LeafCount:             2,
		ServerPorts:           serverPorts,
	}

	pair := [2]models.BondLeafPorts{}
	for i := range pair {
		pair[i] = models.BondLeafPorts{Ports: makePorts("port-", portsPerSwitch, req.PortSpeed)}
		graph.LeafSwitches = append(graph.LeafSwitches, models.LeafSwitch{
			ID:     lacpSwitchID(req.Name, i),
			Fabric: req.Name,
			Ports:  pair[i],
		})
	}

	for s := 0; s < serverCount; s++ {
		for p := 0; p < req.NICPortCount; p++ {
			k := s*req.NICPortCount + p
			sw := k % 2
			slot := k / 2
			if slot >= len(pair[sw].Ports) {
				report.UnplacedServerPorts++
				continue
			}
			target := lacpSwitchID(req.Name, sw)
			graph.Connections = append(graph.Connections, models.Connection{
				ID:         fmt.Sprintf("conn-server%d-%s-port%d-to-%s-port%d", s+1, req.Name, p+1, target, slot+1),
				Source:     serverID(s),
				SourcePort: fmt.Sprintf("%s-port-%d", req.Name, p+1),
				Target:     target,
				TargetPort: pair[sw].Ports[slot].ID,
				Speed:      req.PortSpeed,
				Fabric:     req.Name,
			})
			report.ConnectedServerPorts++
		}
	}

	report.Warnings = fabricWarnings(req, report)
	return report
}

func fabricWarnings(req models.NetworkRequirement, report models.FabricReport) []string {
	var warnings []string
	if req.OversubscriptionRatio != "" && req.OversubscriptionRatio != models.Ratio1to1 {
		warnings = append(warnings, fmt.Sprintf("oversubscription %s requested; fabric is built non-blocking 1:1", req.OversubscriptionRatio))
	}
	if report.UnplacedServerPorts > 0 {
		warnings = append(warnings, fmt.Sprintf("%d of %d server ports could not be connected", report.UnplacedServerPorts, report.ServerPorts))
	}
	if report.DroppedUplinks > 0 {
		warnings = append(warnings, fmt.Sprintf("%d leaf uplinks left unconnected: spines ran out of downlinks", report.DroppedUplinks))
	}
	if report.Kind == models.KindSpineLeaf && !report.FullMesh {
		warnings = append(warnings, fmt.Sprintf("leaf-spine mesh is incomplete: %d spines for %d uplinks per leaf", report.SpineCount, report.UplinksPerLeaf))
	}
	return warnings
}

func makePorts(prefix string, n int, speed string) []models.Port {
	ports := make([]models.Port, n)
	for i := range ports {
		ports[i] = models.Port{ID: fmt.Sprintf("%s%d", prefix, i+1), Speed: speed}
	}
	return ports
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func serverID(i int) string { return fmt.Sprintf("server-%d", i+1) }

func leafID(fabric string, i int) string { return fmt.Sprintf("%s-leaf-%d", fabric, i+1) }

func spineID(fabric string, i int) string { return fmt.Sprintf("%s-spine-%d", fabric, i+1) }

func lacpSwitchID(fabric string, i int) string { return fmt.Sprintf("%s-switch-%d", fabric, i+1) }
