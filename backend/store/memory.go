// ABOUTME: In-memory project store backed by go-memdb
// ABOUTME: Projects live in a single table with a unique id index

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	memdb "github.com/hashicorp/go-memdb"
	"github.com/markalston/fabric-designer/backend/models"
	"github.com/markalston/fabric-designer/backend/services"
)

const (
	tableProject = "project"
	indexID      = "id"
)

var memorySchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tableProject: {
			Name: tableProject,
			Indexes: map[string]*memdb.IndexSchema{
				indexID: {
					Name:    indexID,
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
			},
		},
	},
}

// MemoryStore keeps projects in process memory. Contents are lost on restart.
type MemoryStore struct {
	db  *memdb.MemDB
	now func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() (*MemoryStore, error) {
	db, err := memdb.NewMemDB(memorySchema)
	if err != nil {
		return nil, fmt.Errorf("creating memdb: %w", err)
	}
	return &MemoryStore{db: db, now: time.Now}, nil
}

func (s *MemoryStore) Create(_ context.Context, name string) (models.Project, error) {
	if err := services.ValidateProjectName(name); err != nil {
		return models.Project{}, err
	}
	p := NewProject(name, s.now())

	tx := s.db.Txn(true)
	defer tx.Abort()
	if err := tx.Insert(tableProject, &p); err != nil {
		return models.Project{}, fmt.Errorf("inserting project: %w", err)
	}
	tx.Commit()
	return p.Clone(), nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (models.Project, error) {
	tx := s.db.Txn(false)
	defer tx.Abort()
	p, err := s.lookup(tx, id)
	if err != nil {
		return models.Project{}, err
	}
	return p.Clone(), nil
}

func (s *MemoryStore) lookup(tx *memdb.Txn, id string) (*models.Project, error) {
	raw, err := tx.First(tableProject, indexID, id)
	if err != nil {
		return nil, fmt.Errorf("looking up project: %w", err)
	}
	if raw == nil {
		return nil, ErrNotFound
	}
	return raw.(*models.Project), nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.Project, error) {
	tx := s.db.Txn(false)
	defer tx.Abort()

	it, err := tx.Get(tableProject, indexID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	projects := []models.Project{}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		projects = append(projects, raw.(*models.Project).Clone())
	}
	sortByCreation(projects)
	return projects, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, u models.ProjectUpdate) (models.Project, error) {
	tx := s.db.Txn(true)
	defer tx.Abort()

	current, err := s.lookup(tx, id)
	if err != nil {
		return models.Project{}, err
	}
	merged, err := ApplyUpdate(*current, u, s.now())
	if err != nil {
		return models.Project{}, err
	}
	if err := tx.Insert(tableProject, &merged); err != nil {
		return models.Project{}, fmt.Errorf("updating project: %w", err)
	}
	tx.Commit()
	return merged.Clone(), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	tx := s.db.Txn(true)
	defer tx.Abort()

	current, err := s.lookup(tx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := tx.Delete(tableProject, current); err != nil {
		return false, fmt.Errorf("deleting project: %w", err)
	}
	tx.Commit()
	return true, nil
}

func (s *MemoryStore) Close() error { return nil }

func sortByCreation(projects []models.Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].ID < projects[j].ID
		}
		return projects[i].CreatedAt.Before(projects[j].CreatedAt)
	})
}
