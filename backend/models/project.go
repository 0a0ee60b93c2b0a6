// ABOUTME: Data models for stored network design projects
// ABOUTME: Project records, partial updates, and the switch model catalog

package models

import "time"

// DefaultSwitchModel is the switch used when a project does not pick one.
const DefaultSwitchModel = "9336C-FX2"

// SwitchCatalog lists the switch models a project can be built from.
// Port counts are the usable line-rate ports of each model.
var SwitchCatalog = []SwitchModel{
	{Name: "9336C-FX2", TotalPorts: 36, PortSpeed: "100G"},
	{Name: "93180YC-EX", TotalPorts: 54, PortSpeed: "25G"},
	{Name: "93180YC-FX", TotalPorts: 54, PortSpeed: "25G"},
	{Name: "93240YC-FX2", TotalPorts: 60, PortSpeed: "25G"},
	{Name: "9364C", TotalPorts: 64, PortSpeed: "100G"},
}

// LookupSwitchModel returns the catalog entry with the given name.
func LookupSwitchModel(name string) (SwitchModel, bool) {
	for _, m := range SwitchCatalog {
		if m.Name == name {
			return m, true
		}
	}
	return SwitchModel{}, false
}

// Project is a named, persisted cluster configuration
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Version     uint64        `json:"version"`
	SwitchModel string        `json:"switch_model"`
	Config      ClusterConfig `json:"config"`
}

// Clone returns a deep copy of the project.
func (p Project) Clone() Project {
	out := p
	out.Config = p.Config.Clone()
	return out
}

// CreateProjectInput is the request body for creating a project
type CreateProjectInput struct {
	Name string `json:"name"`
}

// NetworkPatch updates one fabric, matched by name. Nil fields are left unchanged.
type NetworkPatch struct {
	Name                  string                 `json:"name"`
	Kind                  *TopologyKind          `json:"type,omitempty"`
	OversubscriptionRatio *OversubscriptionRatio `json:"oversubscription_ratio,omitempty"`
	NICPortCount          *int                   `json:"nic_ports,omitempty"`
	PortSpeed             *string                `json:"port_speed,omitempty"`
}

// ProjectUpdate is a partial update merged into a stored project
type ProjectUpdate struct {
	Name           *string        `json:"name,omitempty"`
	ServerCount    *int           `json:"servers,omitempty"`
	SwitchModel    *string        `json:"switch_model,omitempty"`
	Networks       []NetworkPatch `json:"networks,omitempty"`
	RemoveNetworks []string       `json:"remove_networks,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u ProjectUpdate) Empty() bool {
	return u.Name == nil && u.ServerCount == nil && u.SwitchModel == nil &&
		len(u.Networks) == 0 && len(u.RemoveNetworks) == 0
}

// SynthesizeInput is the request body for ad-hoc topology synthesis
type SynthesizeInput struct {
	Config      ClusterConfig `json:"config"`
	SwitchModel string        `json:"switch_model,omitempty"`
}

// TopologyResponse wraps a synthesized graph with the inputs that produced it
type TopologyResponse struct {
	ProjectID   string        `json:"project_id,omitempty"`
	Version     uint64        `json:"version,omitempty"`
	SwitchModel SwitchModel   `json:"switch_model"`
	Topology    TopologyGraph `json:"topology"`
	Cached      bool          `json:"cached"`
}
