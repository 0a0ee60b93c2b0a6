// ABOUTME: Data models for cluster configuration and synthesized fabric topology
// ABOUTME: Servers, leaf/spine switches, and connections produced by the topology engine

package models

import (
	"encoding/json"
	"fmt"
)

// TopologyKind selects how a fabric is built.
type TopologyKind string

const (
	// KindSpineLeaf builds a two-tier Clos fabric of leaves and spines.
	KindSpineLeaf TopologyKind = "spine-leaf"
	// KindLACP builds a stacked/MLAG switch pair with servers bonded across it.
	KindLACP TopologyKind = "lacp"
)

// Valid reports whether k is a known topology kind.
func (k TopologyKind) Valid() bool {
	return k == KindSpineLeaf || k == KindLACP
}

// OversubscriptionRatio is the requested downlink:uplink ratio of a fabric.
// The engine always builds 1:1; other ratios are recorded and reported.
type OversubscriptionRatio string

const (
	Ratio1to1 OversubscriptionRatio = "1:1"
	Ratio2to1 OversubscriptionRatio = "2:1"
	Ratio3to1 OversubscriptionRatio = "3:1"
)

// Valid reports whether r is a known ratio.
func (r OversubscriptionRatio) Valid() bool {
	switch r {
	case Ratio1to1, Ratio2to1, Ratio3to1:
		return true
	}
	return false
}

// PortSpeeds lists the speed labels offered for NICs and switches.
var PortSpeeds = []string{"10G", "25G", "40G", "100G", "200G", "400G"}

// NetworkRequirement describes one fabric a server participates in
type NetworkRequirement struct {
	Name                  string                `json:"name"`
	Kind                  TopologyKind          `json:"type"`
	OversubscriptionRatio OversubscriptionRatio `json:"oversubscription_ratio,omitempty"`
	NICPortCount          int                   `json:"nic_ports"`
	PortSpeed             string                `json:"port_speed"`
}

// ClusterConfig is the engine input: server count plus the fabrics each server joins
type ClusterConfig struct {
	ServerCount int                  `json:"servers"`
	Networks    []NetworkRequirement `json:"networks"`
}

// Network returns the requirement with the given fabric name.
func (c ClusterConfig) Network(name string) (NetworkRequirement, bool) {
	for _, n := range c.Networks {
		if n.Name == name {
			return n, true
		}
	}
	return NetworkRequirement{}, false
}

// Clone returns a copy that shares no slices with c.
func (c ClusterConfig) Clone() ClusterConfig {
	out := ClusterConfig{ServerCount: c.ServerCount}
	if c.Networks != nil {
		out.Networks = make([]NetworkRequirement, len(c.Networks))
		copy(out.Networks, c.Networks)
	}
	return out
}

// SwitchModel is the fixed hardware used for every leaf and spine
type SwitchModel struct {
	Name       string `json:"name"`
	TotalPorts int    `json:"total_ports"`
	PortSpeed  string `json:"port_speed"`
}

// Port is a single physical port on a server or switch
type Port struct {
	ID    string `json:"id"`
	Speed string `json:"speed"`
}

// PortGroup is the set of ports a server has on one fabric
type PortGroup struct {
	Fabric string `json:"network"`
	Ports  []Port `json:"ports"`
}

// Server is a compute node with one port group per fabric
type Server struct {
	ID       string      `json:"id"`
	Networks []PortGroup `json:"networks"`
}

// Group returns the server's port group on the named fabric.
func (s Server) Group(fabric string) (PortGroup, bool) {
	for _, g := range s.Networks {
		if g.Fabric == fabric {
			return g, true
		}
	}
	return PortGroup{}, false
}

// LeafPorts is the port layout of a leaf switch. It is implemented only by
// FabricLeafPorts and BondLeafPorts.
type LeafPorts interface {
	Kind() TopologyKind
	PortCount() int
	leafPorts()
}

// FabricLeafPorts is a spine-leaf leaf: server-facing downlinks and spine-facing uplinks.
type FabricLeafPorts struct {
	Downlinks []Port
	Uplinks   []Port
}

func (FabricLeafPorts) Kind() TopologyKind { return KindSpineLeaf }

func (p FabricLeafPorts) PortCount() int { return len(p.Downlinks) + len(p.Uplinks) }

func (FabricLeafPorts) leafPorts() {}

// BondLeafPorts is one switch of an LACP pair: a flat list of server-facing ports.
type BondLeafPorts struct {
	Ports []Port
}

func (BondLeafPorts) Kind() TopologyKind { return KindLACP }

func (p BondLeafPorts) PortCount() int { return len(p.Ports) }

func (BondLeafPorts) leafPorts() {}

// LeafSwitch is a top-of-rack switch (or one half of an LACP pair)
type LeafSwitch struct {
	ID     string
	Fabric string
	Ports  LeafPorts
}

// Kind returns the fabric kind of the leaf's port layout.
func (l LeafSwitch) Kind() TopologyKind {
	if l.Ports == nil {
		return ""
	}
	return l.Ports.Kind()
}

type leafSwitchJSON struct {
	ID        string       `json:"id"`
	Fabric    string       `json:"network"`
	Kind      TopologyKind `json:"kind"`
	Downlinks []Port       `json:"downlinks,omitempty"`
	Uplinks   []Port       `json:"uplinks,omitempty"`
	Ports     []Port       `json:"ports,omitempty"`
}

// MarshalJSON writes the leaf with an explicit kind discriminator.
func (l LeafSwitch) MarshalJSON() ([]byte, error) {
	out := leafSwitchJSON{ID: l.ID, Fabric: l.Fabric, Kind: l.Kind()}
	switch p := l.Ports.(type) {
	case FabricLeafPorts:
		out.Downlinks = p.Downlinks
		out.Uplinks = p.Uplinks
	case BondLeafPorts:
		out.Ports = p.Ports
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores the port layout selected by the kind discriminator.
func (l *LeafSwitch) UnmarshalJSON(data []byte) error {
	var in leafSwitchJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	l.ID = in.ID
	l.Fabric = in.Fabric
	switch in.Kind {
	case KindSpineLeaf:
		l.Ports = FabricLeafPorts{Downlinks: in.Downlinks, Uplinks: in.Uplinks}
	case KindLACP:
		l.Ports = BondLeafPorts{Ports: in.Ports}
	default:
		return fmt.Errorf("leaf switch %q: unknown kind %q", in.ID, in.Kind)
	}
	return nil
}

// SpineSwitch is an aggregation switch; it only connects to leaves
type SpineSwitch struct {
	ID        string `json:"id"`
	Fabric    string `json:"network"`
	Downlinks []Port `json:"downlinks"`
}

// Connection is a directed point-to-point link between two device ports
type Connection struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	SourcePort string `json:"source_port"`
	Target     string `json:"target"`
	TargetPort string `json:"target_port"`
	Speed      string `json:"speed"`
	Fabric     string `json:"network"`
}

// FabricReport summarizes how one fabric was sized and wired, including any
// capacity the engine could not place.
type FabricReport struct {
	Name                  string                `json:"name"`
	Kind                  TopologyKind          `json:"type"`
	OversubscriptionRatio OversubscriptionRatio `json:"oversubscription_ratio,omitempty"`
	LeafCount             int                   `json:"leaf_count"`
	SpineCount            int                   `json:"spine_count"`
	DownlinksPerLeaf      int                   `json:"downlinks_per_leaf,omitempty"`
	UplinksPerLeaf        int                   `json:"uplinks_per_leaf,omitempty"`
	ServerPorts           int                   `json:"server_ports"`
	ConnectedServerPorts  int                   `json:"connected_server_ports"`
	UnplacedServerPorts   int                   `json:"unplaced_server_ports"`
	LeafSpineLinks        int                   `json:"leaf_spine_links"`
	DroppedUplinks        int                   `json:"dropped_uplinks"`
	FullMesh              bool                  `json:"full_mesh"`
	Warnings              []string              `json:"warnings,omitempty"`
}

// Degraded reports whether the fabric left any demanded link unbuilt.
func (r FabricReport) Degraded() bool {
	return r.UnplacedServerPorts > 0 || r.DroppedUplinks > 0 || (r.Kind == KindSpineLeaf && !r.FullMesh)
}

// TopologyGraph is the immutable output of one synthesis run
type TopologyGraph struct {
	Servers       []Server       `json:"servers"`
	LeafSwitches  []LeafSwitch   `json:"leaf_switches"`
	SpineSwitches []SpineSwitch  `json:"spine_switches"`
	Connections   []Connection   `json:"connections"`
	Fabrics       []FabricReport `json:"fabrics"`
}

// Degraded reports whether any fabric in the graph is degraded.
func (g TopologyGraph) Degraded() bool {
	for _, f := range g.Fabrics {
		if f.Degraded() {
			return true
		}
	}
	return false
}

// Leaves returns the leaf switches belonging to a fabric, in creation order.
func (g TopologyGraph) Leaves(fabric string) []LeafSwitch {
	var out []LeafSwitch
	for _, l := range g.LeafSwitches {
		if l.Fabric == fabric {
			out = append(out, l)
		}
	}
	return out
}

// Spines returns the spine switches belonging to a fabric, in creation order.
func (g TopologyGraph) Spines(fabric string) []SpineSwitch {
	var out []SpineSwitch
	for _, s := range g.SpineSwitches {
		if s.Fabric == fabric {
			out = append(out, s)
		}
	}
	return out
}

// DesignStats holds summary counts for a topology
type DesignStats struct {
	Servers              int            `json:"servers"`
	LeafSwitches         int            `json:"leaf_switches"`
	SpineSwitches        int            `json:"spine_switches"`
	Connections          int            `json:"connections"`
	ConnectionsByNetwork map[string]int `json:"connections_by_network"`
	ConnectionsBySpeed   map[string]int `json:"connections_by_speed"`
	UnplacedServerPorts  int            `json:"unplaced_server_ports"`
	Fabrics              []FabricReport `json:"fabrics"`
}
