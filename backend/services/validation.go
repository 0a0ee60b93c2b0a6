// ABOUTME: Input validation for cluster configurations, switch models, and project names
// ABOUTME: Rejects out-of-domain engine input before synthesis and sanitizes values for logs

package services

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/markalston/fabric-designer/backend/models"
)

const (
	// MaxServers bounds a single design; larger clusters are split into pods.
	MaxServers = 10000
	// MinNICPorts and MaxNICPorts bound the ports a server has on one fabric.
	MinNICPorts = 1
	MaxNICPorts = 16
	// MaxProjectNameLength bounds project names.
	MaxProjectNameLength = 100
)

// projectIDPattern matches project ids (lowercase UUIDs: 8-4-4-4-12 hex)
var projectIDPattern = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)

// fabricNamePattern matches fabric names; they prefix every port and device id
var fabricNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// FieldError describes one invalid field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every invalid field of a request
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// sanitizeForLog removes control characters from strings to prevent log injection
// when including user input in error messages
func sanitizeForLog(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1 // Remove control characters
		}
		return r
	}, s)
}

// ValidateProjectID validates that a project id has the correct format.
// Ids are interpolated into store keys and CLI request paths.
func ValidateProjectID(id string) error {
	if !projectIDPattern.MatchString(id) {
		return fmt.Errorf("invalid project id format: %s", sanitizeForLog(id))
	}
	return nil
}

// ValidateClusterConfig checks that cfg lies inside the synthesis engine's domain.
func ValidateClusterConfig(cfg models.ClusterConfig) error {
	verr := &ValidationError{}

	if cfg.ServerCount < 1 || cfg.ServerCount > MaxServers {
		verr.add("servers", "must be between 1 and %d", MaxServers)
	}
	if len(cfg.Networks) == 0 {
		verr.add("networks", "at least one network is required")
	}

	seen := make(map[string]bool, len(cfg.Networks))
	for i, n := range cfg.Networks {
		field := fmt.Sprintf("networks[%d]", i)
		if !fabricNamePattern.MatchString(n.Name) {
			verr.add(field+".name", "invalid network name: %q", sanitizeForLog(n.Name))
		} else if seen[n.Name] {
			verr.add(field+".name", "duplicate network name: %s", n.Name)
		}
		seen[n.Name] = true

		if !n.Kind.Valid() {
			verr.add(field+".type", "must be %q or %q", models.KindSpineLeaf, models.KindLACP)
		}
		if n.OversubscriptionRatio != "" && !n.OversubscriptionRatio.Valid() {
			verr.add(field+".oversubscription_ratio", "must be one of 1:1, 2:1, 3:1")
		}
		if n.NICPortCount < MinNICPorts || n.NICPortCount > MaxNICPorts {
			verr.add(field+".nic_ports", "must be between %d and %d", MinNICPorts, MaxNICPorts)
		}
		if !slices.Contains(models.PortSpeeds, n.PortSpeed) {
			verr.add(field+".port_speed", "must be one of %s", strings.Join(models.PortSpeeds, ", "))
		}
	}

	return verr.orNil()
}

// ValidateSwitchModel checks that a switch model can build a fabric.
func ValidateSwitchModel(m models.SwitchModel) error {
	verr := &ValidationError{}
	if m.Name == "" {
		verr.add("switch_model.name", "cannot be empty")
	}
	if m.TotalPorts < 2 {
		verr.add("switch_model.total_ports", "must be at least 2")
	}
	return verr.orNil()
}

// ValidateProjectName checks length and rejects control characters.
func ValidateProjectName(name string) error {
	verr := &ValidationError{}
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		verr.add("name", "cannot be empty")
	case utf8.RuneCountInString(name) > MaxProjectNameLength:
		verr.add("name", "must be at most %d characters", MaxProjectNameLength)
	case sanitizeForLog(name) != name:
		verr.add("name", "cannot contain control characters")
	}
	return verr.orNil()
}

// NormalizeClusterConfig fills defaults the engine relies on: an empty
// oversubscription ratio becomes 1:1.
func NormalizeClusterConfig(cfg models.ClusterConfig) models.ClusterConfig {
	out := cfg.Clone()
	for i := range out.Networks {
		if out.Networks[i].OversubscriptionRatio == "" {
			out.Networks[i].OversubscriptionRatio = models.Ratio1to1
		}
	}
	return out
}
