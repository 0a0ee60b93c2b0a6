package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestLeafSwitch_JSONCarriesKind(t *testing.T) {
	leaf := LeafSwitch{
		ID:     "gpu-leaf-1",
		Fabric: "gpu",
		Ports: FabricLeafPorts{
			Downlinks: []Port{{ID: "downlink-1", Speed: "100G"}},
			Uplinks:   []Port{{ID: "uplink-1", Speed: "100G"}},
		},
	}

	data, err := json.Marshal(leaf)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if !strings.Contains(string(data), `"kind":"spine-leaf"`) {
		t.Errorf("Expected kind discriminator in %s", data)
	}
	if strings.Contains(string(data), `"ports"`) {
		t.Errorf("Spine-leaf leaf must not carry flat ports: %s", data)
	}

	var decoded LeafSwitch
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	ports, ok := decoded.Ports.(FabricLeafPorts)
	if !ok {
		t.Fatalf("Expected FabricLeafPorts, got %T", decoded.Ports)
	}
	if len(ports.Downlinks) != 1 || len(ports.Uplinks) != 1 {
		t.Errorf("Expected 1 downlink and 1 uplink, got %d and %d", len(ports.Downlinks), len(ports.Uplinks))
	}
}

func TestLeafSwitch_BondPortsJSON(t *testing.T) {
	leaf := LeafSwitch{
		ID:     "frontend-switch-1",
		Fabric: "frontend",
		Ports:  BondLeafPorts{Ports: []Port{{ID: "port-1", Speed: "25G"}, {ID: "port-2", Speed: "25G"}}},
	}

	data, err := json.Marshal(leaf)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var decoded LeafSwitch
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if decoded.Kind() != KindLACP {
		t.Errorf("Expected kind lacp, got %s", decoded.Kind())
	}
	if decoded.Ports.PortCount() != 2 {
		t.Errorf("Expected 2 ports, got %d", decoded.Ports.PortCount())
	}
}

func TestLeafSwitch_UnknownKindRejected(t *testing.T) {
	var leaf LeafSwitch
	err := json.Unmarshal([]byte(`{"id":"x","network":"gpu","kind":"ring"}`), &leaf)
	if err == nil {
		t.Fatal("Expected error for unknown kind")
	}
}

func TestFabricReport_Degraded(t *testing.T) {
	tests := []struct {
		name   string
		report FabricReport
		want   bool
	}{
		{"healthy spine-leaf", FabricReport{Kind: KindSpineLeaf, FullMesh: true}, false},
		{"unplaced ports", FabricReport{Kind: KindSpineLeaf, FullMesh: true, UnplacedServerPorts: 3}, true},
		{"dropped uplinks", FabricReport{Kind: KindSpineLeaf, FullMesh: true, DroppedUplinks: 1}, true},
		{"partial mesh", FabricReport{Kind: KindSpineLeaf, FullMesh: false}, true},
		{"lacp has no mesh", FabricReport{Kind: KindLACP}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.report.Degraded(); got != tt.want {
				t.Errorf("Degraded() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClusterConfig_CloneIsIndependent(t *testing.T) {
	cfg := ClusterConfig{
		ServerCount: 4,
		Networks:    []NetworkRequirement{{Name: "gpu", Kind: KindSpineLeaf, NICPortCount: 2, PortSpeed: "100G"}},
	}

	clone := cfg.Clone()
	clone.Networks[0].NICPortCount = 8

	if cfg.Networks[0].NICPortCount != 2 {
		t.Errorf("Expected original NIC ports 2, got %d", cfg.Networks[0].NICPortCount)
	}
}

func TestLookupSwitchModel(t *testing.T) {
	m, ok := LookupSwitchModel(DefaultSwitchModel)
	if !ok {
		t.Fatalf("Expected %s in catalog", DefaultSwitchModel)
	}
	if m.TotalPorts != 36 || m.PortSpeed != "100G" {
		t.Errorf("Expected 36 x 100G, got %d x %s", m.TotalPorts, m.PortSpeed)
	}
	if _, ok := LookupSwitchModel("unknown"); ok {
		t.Error("Expected unknown model lookup to fail")
	}
}
