// ABOUTME: YAML design document for a project and its synthesized topology
// ABOUTME: Lists server NIC config, the switch model, generated switches, and link counts

package render

import (
	"fmt"

	"github.com/markalston/fabric-designer/backend/models"
	"gopkg.in/yaml.v3"
)

type document struct {
	Project  *projectDoc `yaml:"project,omitempty"`
	Servers  serversDoc  `yaml:"servers"`
	Switches switchDoc   `yaml:"switches"`
	Design   designDoc   `yaml:"network-design"`
	Warnings []string    `yaml:"warnings,omitempty"`
}

type projectDoc struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Version uint64 `yaml:"version"`
}

type serversDoc struct {
	Quantity int          `yaml:"quantity"`
	Networks []networkDoc `yaml:"networks"`
}

type networkDoc struct {
	Name                  string     `yaml:"name"`
	Type                  string     `yaml:"type"`
	OversubscriptionRatio string     `yaml:"oversubscription_ratio,omitempty"`
	NICPorts              nicPortDoc `yaml:"nic-ports"`
}

type nicPortDoc struct {
	Quantity int    `yaml:"quantity"`
	Speed    string `yaml:"speed"`
}

type switchDoc struct {
	Name  string `yaml:"name"`
	Ports int    `yaml:"ports"`
	Speed string `yaml:"speed"`
}

type designDoc struct {
	LeafSwitches  []leafDoc      `yaml:"leaf-switches,omitempty"`
	SpineSwitches []spineDoc     `yaml:"spine-switches,omitempty"`
	Connections   connectionsDoc `yaml:"connections"`
}

type leafDoc struct {
	ID        string `yaml:"id"`
	Model     string `yaml:"model"`
	Network   string `yaml:"network"`
	Downlinks string `yaml:"downlinks,omitempty"`
	Uplinks   string `yaml:"uplinks,omitempty"`
	Ports     string `yaml:"ports,omitempty"`
}

type spineDoc struct {
	ID        string `yaml:"id"`
	Model     string `yaml:"model"`
	Network   string `yaml:"network"`
	Downlinks string `yaml:"downlinks"`
}

type connectionsDoc struct {
	Total     int            `yaml:"total"`
	ByNetwork map[string]int `yaml:",inline"`
}

// Document renders the design as YAML. project may be nil for ad-hoc designs,
// in which case cfg supplies the server section.
func Document(project *models.Project, cfg models.ClusterConfig, model models.SwitchModel, graph models.TopologyGraph) ([]byte, error) {
	doc := document{
		Servers: serversDoc{Quantity: cfg.ServerCount, Networks: []networkDoc{}},
		Switches: switchDoc{
			Name:  model.Name,
			Ports: model.TotalPorts,
			Speed: model.PortSpeed,
		},
		Design: designDoc{
			Connections: connectionsDoc{Total: len(graph.Connections), ByNetwork: map[string]int{}},
		},
	}
	if project != nil {
		doc.Project = &projectDoc{ID: project.ID, Name: project.Name, Version: project.Version}
	}

	for _, n := range cfg.Networks {
		nd := networkDoc{
			Name:     n.Name,
			Type:     string(n.Kind),
			NICPorts: nicPortDoc{Quantity: n.NICPortCount, Speed: n.PortSpeed},
		}
		if n.Kind == models.KindSpineLeaf {
			nd.OversubscriptionRatio = string(n.OversubscriptionRatio)
		}
		doc.Servers.Networks = append(doc.Servers.Networks, nd)
	}

	for _, leaf := range graph.LeafSwitches {
		speed := fabricSpeed(cfg, leaf.Fabric)
		ld := leafDoc{ID: leaf.ID, Model: model.Name, Network: leaf.Fabric}
		switch p := leaf.Ports.(type) {
		case models.FabricLeafPorts:
			ld.Downlinks = PortSummary(p.Downlinks, speed)
			ld.Uplinks = PortSummary(p.Uplinks, speed)
		case models.BondLeafPorts:
			ld.Ports = PortSummary(p.Ports, speed)
		}
		doc.Design.LeafSwitches = append(doc.Design.LeafSwitches, ld)
	}

	for _, spine := range graph.SpineSwitches {
		doc.Design.SpineSwitches = append(doc.Design.SpineSwitches, spineDoc{
			ID:        spine.ID,
			Model:     model.Name,
			Network:   spine.Fabric,
			Downlinks: PortSummary(spine.Downlinks, fabricSpeed(cfg, spine.Fabric)),
		})
	}

	for _, c := range graph.Connections {
		doc.Design.Connections.ByNetwork[c.Fabric]++
	}

	for _, f := range graph.Fabrics {
		for _, w := range f.Warnings {
			doc.Warnings = append(doc.Warnings, fmt.Sprintf("%s: %s", f.Name, w))
		}
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding design document: %w", err)
	}
	return out, nil
}

// PortSummary formats a port list as "N x SPEED". fallback is used for the
// speed of an empty list.
func PortSummary(ports []models.Port, fallback string) string {
	speed := fallback
	if len(ports) > 0 {
		speed = ports[0].Speed
	}
	return fmt.Sprintf("%d x %s", len(ports), speed)
}

func fabricSpeed(cfg models.ClusterConfig, fabric string) string {
	if n, ok := cfg.Network(fabric); ok {
		return n.PortSpeed
	}
	return ""
}
