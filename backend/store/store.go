// ABOUTME: Project store interface shared by the memory, SQLite, and bbolt backends
// ABOUTME: Builds default project records and merges partial updates before they are saved

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/markalston/fabric-designer/backend/models"
	"github.com/markalston/fabric-designer/backend/services"
)

// ErrNotFound is returned when no project has the requested id.
var ErrNotFound = errors.New("project not found")

// ProjectStore persists projects. Implementations are safe for concurrent use.
type ProjectStore interface {
	// Create stores a new project with the default configuration.
	Create(ctx context.Context, name string) (models.Project, error)
	// Get returns the project with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (models.Project, error)
	// List returns every project ordered by creation time.
	List(ctx context.Context) ([]models.Project, error)
	// Update merges u into the stored project and returns the result.
	Update(ctx context.Context, id string, u models.ProjectUpdate) (models.Project, error)
	// Delete removes a project and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
	Close() error
}

// NewProject returns a project with a fresh id and the default cluster:
// ten servers on a 2 x 40G frontend fabric and a 4 x 100G GPU fabric.
func NewProject(name string, now time.Time) models.Project {
	now = now.UTC().Round(0)
	return models.Project{
		ID:          uuid.NewString(),
		Name:        name,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
		SwitchModel: models.DefaultSwitchModel,
		Config: models.ClusterConfig{
			ServerCount: 10,
			Networks: []models.NetworkRequirement{
				{
					Name:                  "frontend",
					Kind:                  models.KindSpineLeaf,
					OversubscriptionRatio: models.Ratio1to1,
					NICPortCount:          2,
					PortSpeed:             "40G",
				},
				{
					Name:                  "gpu",
					Kind:                  models.KindSpineLeaf,
					OversubscriptionRatio: models.Ratio1to1,
					NICPortCount:          4,
					PortSpeed:             "100G",
				},
			},
		},
	}
}

// ApplyUpdate merges u into p. Networks are matched by name; a patch for an
// unknown name adds a fabric. The merged project is validated and its version
// bumped. p is not modified.
func ApplyUpdate(p models.Project, u models.ProjectUpdate, now time.Time) (models.Project, error) {
	out := p.Clone()

	if u.Name != nil {
		if err := services.ValidateProjectName(*u.Name); err != nil {
			return models.Project{}, err
		}
		out.Name = *u.Name
	}
	if u.ServerCount != nil {
		out.Config.ServerCount = *u.ServerCount
	}
	if u.SwitchModel != nil {
		if _, ok := models.LookupSwitchModel(*u.SwitchModel); !ok {
			return models.Project{}, &services.ValidationError{Fields: []services.FieldError{
				{Field: "switch_model", Message: fmt.Sprintf("unknown switch model: %q", *u.SwitchModel)},
			}}
		}
		out.SwitchModel = *u.SwitchModel
	}

	for _, name := range u.RemoveNetworks {
		kept := out.Config.Networks[:0]
		for _, n := range out.Config.Networks {
			if n.Name != name {
				kept = append(kept, n)
			}
		}
		out.Config.Networks = kept
	}

	for _, patch := range u.Networks {
		idx := -1
		for i, n := range out.Config.Networks {
			if n.Name == patch.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			out.Config.Networks = append(out.Config.Networks, models.NetworkRequirement{Name: patch.Name})
			idx = len(out.Config.Networks) - 1
		}
		mergeNetwork(&out.Config.Networks[idx], patch)
	}

	out.Config = services.NormalizeClusterConfig(out.Config)
	if err := services.ValidateClusterConfig(out.Config); err != nil {
		return models.Project{}, err
	}

	out.Version++
	out.UpdatedAt = now.UTC().Round(0)
	return out, nil
}

func mergeNetwork(n *models.NetworkRequirement, patch models.NetworkPatch) {
	if patch.Kind != nil {
		n.Kind = *patch.Kind
	}
	if patch.OversubscriptionRatio != nil {
		n.OversubscriptionRatio = *patch.OversubscriptionRatio
	}
	if patch.NICPortCount != nil {
		n.NICPortCount = *patch.NICPortCount
	}
	if patch.PortSpeed != nil {
		n.PortSpeed = *patch.PortSpeed
	}
}
