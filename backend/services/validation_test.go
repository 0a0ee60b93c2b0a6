// ABOUTME: Tests for input validation functions
// ABOUTME: Verifies config domain checks, project ids, and log-safe error messages

package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/markalston/fabric-designer/backend/models"
)

func validConfig() models.ClusterConfig {
	return models.ClusterConfig{
		ServerCount: 10,
		Networks: []models.NetworkRequirement{
			{Name: "frontend", Kind: models.KindSpineLeaf, OversubscriptionRatio: models.Ratio1to1, NICPortCount: 2, PortSpeed: "40G"},
			{Name: "gpu", Kind: models.KindSpineLeaf, NICPortCount: 4, PortSpeed: "100G"},
			{Name: "storage_a", Kind: models.KindLACP, NICPortCount: 2, PortSpeed: "25G"},
		},
	}
}

func TestValidateClusterConfig_Valid(t *testing.T) {
	if err := ValidateClusterConfig(validConfig()); err != nil {
		t.Errorf("ValidateClusterConfig returned error: %v, expected nil", err)
	}
}

func TestValidateClusterConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.ClusterConfig)
		field  string
	}{
		{"zero servers", func(c *models.ClusterConfig) { c.ServerCount = 0 }, "servers"},
		{"too many servers", func(c *models.ClusterConfig) { c.ServerCount = MaxServers + 1 }, "servers"},
		{"no networks", func(c *models.ClusterConfig) { c.Networks = nil }, "networks"},
		{"empty name", func(c *models.ClusterConfig) { c.Networks[0].Name = "" }, "networks[0].name"},
		{"uppercase name", func(c *models.ClusterConfig) { c.Networks[0].Name = "Frontend" }, "networks[0].name"},
		{"path in name", func(c *models.ClusterConfig) { c.Networks[0].Name = "../gpu" }, "networks[0].name"},
		{"duplicate name", func(c *models.ClusterConfig) { c.Networks[1].Name = "frontend" }, "networks[1].name"},
		{"unknown kind", func(c *models.ClusterConfig) { c.Networks[0].Kind = "ring" }, "networks[0].type"},
		{"unknown ratio", func(c *models.ClusterConfig) { c.Networks[0].OversubscriptionRatio = "5:1" }, "networks[0].oversubscription_ratio"},
		{"zero nic ports", func(c *models.ClusterConfig) { c.Networks[1].NICPortCount = 0 }, "networks[1].nic_ports"},
		{"too many nic ports", func(c *models.ClusterConfig) { c.Networks[1].NICPortCount = 17 }, "networks[1].nic_ports"},
		{"unknown speed", func(c *models.ClusterConfig) { c.Networks[2].PortSpeed = "1G" }, "networks[2].port_speed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := ValidateClusterConfig(cfg)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected *ValidationError, got %v", err)
			}
			found := false
			for _, f := range verr.Fields {
				if f.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected error on field %s, got %v", tt.field, verr.Fields)
			}
		})
	}
}

func TestValidateClusterConfig_CollectsAllFields(t *testing.T) {
	cfg := models.ClusterConfig{
		ServerCount: 0,
		Networks:    []models.NetworkRequirement{{Name: "x", Kind: "bad", NICPortCount: 0, PortSpeed: "?"}},
	}

	var verr *ValidationError
	if !errors.As(ValidateClusterConfig(cfg), &verr) {
		t.Fatal("Expected *ValidationError")
	}
	if len(verr.Fields) != 4 {
		t.Errorf("Expected 4 field errors, got %d: %v", len(verr.Fields), verr.Fields)
	}
	if !strings.HasPrefix(verr.Error(), "validation failed: servers:") {
		t.Errorf("Unexpected error message: %s", verr.Error())
	}
}

func TestValidateSwitchModel(t *testing.T) {
	for _, m := range models.SwitchCatalog {
		if err := ValidateSwitchModel(m); err != nil {
			t.Errorf("ValidateSwitchModel(%s) returned error: %v", m.Name, err)
		}
	}
	if err := ValidateSwitchModel(models.SwitchModel{Name: "one", TotalPorts: 1}); err == nil {
		t.Error("Expected error for single-port switch")
	}
	if err := ValidateSwitchModel(models.SwitchModel{TotalPorts: 36}); err == nil {
		t.Error("Expected error for unnamed switch")
	}
}

func TestValidateProjectID(t *testing.T) {
	if err := ValidateProjectID("12345678-1234-1234-1234-123456789abc"); err != nil {
		t.Errorf("ValidateProjectID returned error: %v, expected nil", err)
	}

	invalid := []string{"", "../../admin", "12345678-1234-1234-1234-123456789ABC", "12345678-1234-1234-1234-123456789abc\n"}
	for _, id := range invalid {
		if err := ValidateProjectID(id); err == nil {
			t.Errorf("ValidateProjectID(%q) returned nil, expected error", id)
		}
	}
}

func TestValidateProjectName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Pod A", false},
		{"unicode", "Rechenzentrum Süd", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", strings.Repeat("a", MaxProjectNameLength+1), true},
		{"max length", strings.Repeat("a", MaxProjectNameLength), false},
		{"newline", "pod\nFAKE LOG", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProjectName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProjectName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

// containsControlChar checks if a string contains any ASCII control characters
func containsControlChar(s string) bool {
	for _, r := range s {
		if r < 32 || r == 127 {
			return true
		}
	}
	return false
}

func TestValidationErrors_SanitizeInput(t *testing.T) {
	inputs := []string{"bad\nFAKE LOG: attack", "bad\rFAKE", "bad\x00hidden", "bad\n\r\t\x00attack"}

	for _, in := range inputs {
		cfg := validConfig()
		cfg.Networks[0].Name = in
		if err := ValidateClusterConfig(cfg); err == nil || containsControlChar(err.Error()) {
			t.Errorf("Expected sanitized error for %q, got %v", in, err)
		}
		if err := ValidateProjectID(in); err == nil || containsControlChar(err.Error()) {
			t.Errorf("Expected sanitized id error for %q, got %v", in, err)
		}
	}
}

func TestNormalizeClusterConfig(t *testing.T) {
	cfg := validConfig()
	out := NormalizeClusterConfig(cfg)

	if out.Networks[1].OversubscriptionRatio != models.Ratio1to1 {
		t.Errorf("Expected default ratio 1:1, got %q", out.Networks[1].OversubscriptionRatio)
	}
	if cfg.Networks[1].OversubscriptionRatio != "" {
		t.Error("Expected input config to be left unchanged")
	}
}
