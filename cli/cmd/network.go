// ABOUTME: Parsing of --network flag values shared by project update and synthesize
// ABOUTME: Converts name=...,kind=...,ratio=...,ports=...,speed=... into fabric patches

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/markalston/fabric-designer/backend/models"
)

const networkFlagUsage = "Fabric as name=NAME,kind=spine-leaf|lacp,ratio=1:1,ports=N,speed=100G (repeatable)"

// parseNetworkSpec parses one --network value. Only name is required; omitted
// keys are left nil so the value can patch an existing fabric.
func parseNetworkSpec(spec string) (models.NetworkPatch, error) {
	var patch models.NetworkPatch
	for _, field := range strings.Split(spec, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return patch, fmt.Errorf("invalid network field %q: expected key=value", field)
		}
		value = strings.TrimSpace(value)

		switch strings.TrimSpace(key) {
		case "name":
			patch.Name = value
		case "kind", "type":
			kind := models.TopologyKind(value)
			if !kind.Valid() {
				return patch, fmt.Errorf("invalid network kind %q: must be %s or %s", value, models.KindSpineLeaf, models.KindLACP)
			}
			patch.Kind = &kind
		case "ratio":
			ratio := models.OversubscriptionRatio(value)
			if !ratio.Valid() {
				return patch, fmt.Errorf("invalid oversubscription ratio %q", value)
			}
			patch.OversubscriptionRatio = &ratio
		case "ports":
			n, err := strconv.Atoi(value)
			if err != nil {
				return patch, fmt.Errorf("invalid port count %q: %w", value, err)
			}
			patch.NICPortCount = &n
		case "speed":
			speed := strings.ToUpper(value)
			patch.PortSpeed = &speed
		default:
			return patch, fmt.Errorf("unknown network field %q", key)
		}
	}

	if patch.Name == "" {
		return patch, fmt.Errorf("network %q is missing name=", spec)
	}
	return patch, nil
}

// parseNetworkPatches parses every --network value.
func parseNetworkPatches(specs []string) ([]models.NetworkPatch, error) {
	patches := make([]models.NetworkPatch, 0, len(specs))
	for _, spec := range specs {
		patch, err := parseNetworkSpec(spec)
		if err != nil {
			return nil, err
		}
		patches = append(patches, patch)
	}
	return patches, nil
}

// requirementFromPatch builds a complete fabric from a patch. Kind defaults to
// spine-leaf and the ratio to 1:1; ports and speed must be given.
func requirementFromPatch(patch models.NetworkPatch) (models.NetworkRequirement, error) {
	req := models.NetworkRequirement{
		Name:                  patch.Name,
		Kind:                  models.KindSpineLeaf,
		OversubscriptionRatio: models.Ratio1to1,
	}
	if patch.Kind != nil {
		req.Kind = *patch.Kind
	}
	if patch.OversubscriptionRatio != nil {
		req.OversubscriptionRatio = *patch.OversubscriptionRatio
	}
	if patch.NICPortCount == nil {
		return req, fmt.Errorf("network %s: ports= is required", patch.Name)
	}
	req.NICPortCount = *patch.NICPortCount
	if patch.PortSpeed == nil {
		return req, fmt.Errorf("network %s: speed= is required", patch.Name)
	}
	req.PortSpeed = *patch.PortSpeed
	return req, nil
}
