// ABOUTME: Tests for --network flag parsing
// ABOUTME: Covers full specs, partial patches, and malformed values

package cmd

import (
	"testing"

	"github.com/markalston/fabric-designer/backend/models"
)

func TestParseNetworkSpec_Full(t *testing.T) {
	patch, err := parseNetworkSpec("name=gpu,kind=lacp,ratio=2:1,ports=4,speed=100g")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if patch.Name != "gpu" {
		t.Errorf("Expected name gpu, got %s", patch.Name)
	}
	if patch.Kind == nil || *patch.Kind != models.KindLACP {
		t.Errorf("Expected kind lacp, got %v", patch.Kind)
	}
	if patch.OversubscriptionRatio == nil || *patch.OversubscriptionRatio != models.Ratio2to1 {
		t.Errorf("Expected ratio 2:1, got %v", patch.OversubscriptionRatio)
	}
	if patch.NICPortCount == nil || *patch.NICPortCount != 4 {
		t.Errorf("Expected 4 ports, got %v", patch.NICPortCount)
	}
	if patch.PortSpeed == nil || *patch.PortSpeed != "100G" {
		t.Errorf("Expected speed 100G, got %v", patch.PortSpeed)
	}
}

func TestParseNetworkSpec_Partial(t *testing.T) {
	patch, err := parseNetworkSpec("name=frontend, ports=8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if patch.Kind != nil || patch.PortSpeed != nil || patch.OversubscriptionRatio != nil {
		t.Errorf("Expected unset fields to stay nil, got %+v", patch)
	}
	if patch.NICPortCount == nil || *patch.NICPortCount != 8 {
		t.Errorf("Expected 8 ports, got %v", patch.NICPortCount)
	}
}

func TestParseNetworkSpec_Errors(t *testing.T) {
	tests := []struct {
		name string
		spec string
	}{
		{"missing name", "ports=2,speed=40G"},
		{"not key value", "name=gpu,lacp"},
		{"unknown key", "name=gpu,vlan=10"},
		{"bad kind", "name=gpu,kind=ring"},
		{"bad ratio", "name=gpu,ratio=5:1"},
		{"bad ports", "name=gpu,ports=four"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseNetworkSpec(tt.spec); err == nil {
				t.Errorf("expected error for %q", tt.spec)
			}
		})
	}
}

func TestRequirementFromPatch(t *testing.T) {
	patch, _ := parseNetworkSpec("name=storage,ports=2,speed=25G")
	req, err := requirementFromPatch(patch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.NetworkRequirement{
		Name:                  "storage",
		Kind:                  models.KindSpineLeaf,
		OversubscriptionRatio: models.Ratio1to1,
		NICPortCount:          2,
		PortSpeed:             "25G",
	}
	if req != want {
		t.Errorf("Expected %+v, got %+v", want, req)
	}

	patch, _ = parseNetworkSpec("name=storage,speed=25G")
	if _, err := requirementFromPatch(patch); err == nil {
		t.Error("expected error when ports are missing")
	}
}
