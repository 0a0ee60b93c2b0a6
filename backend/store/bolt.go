// ABOUTME: bbolt-backed project store for single-node durable deployments
// ABOUTME: Projects are JSON values in bucket v1/projects keyed by id

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/markalston/fabric-designer/backend/models"
	"github.com/markalston/fabric-designer/backend/services"
	bolt "go.etcd.io/bbolt"
)

// Layout:
//
//	bucket(v1) ->
//		bucket(projects) ->
//			<id> -> project JSON
var (
	bucketKeyStorageVersion = []byte("v1")
	bucketKeyProjects       = []byte("projects")
)

type bucketKeyPath [][]byte

func (bk bucketKeyPath) String() string {
	return string(bytes.Join([][]byte(bk), []byte("/")))
}

// BoltStore persists projects in a bbolt database file
type BoltStore struct {
	db  *bolt.DB
	now func() time.Time
}

// NewBoltStore opens (creating if needed) the database at path
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := createBucketIfNotExists(tx, bucketKeyStorageVersion, bucketKeyProjects)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{db: db, now: time.Now}, nil
}

func createBucketIfNotExists(tx *bolt.Tx, keys ...[]byte) (*bolt.Bucket, error) {
	bkt, err := tx.CreateBucketIfNotExists(keys[0])
	if err != nil {
		return nil, fmt.Errorf("creating bucket %s: %w", bucketKeyPath(keys[:1]), err)
	}
	for i, key := range keys[1:] {
		bkt, err = bkt.CreateBucketIfNotExists(key)
		if err != nil {
			return nil, fmt.Errorf("creating bucket %s: %w", bucketKeyPath(keys[:i+2]), err)
		}
	}
	return bkt, nil
}

func getProjectsBucket(tx *bolt.Tx) *bolt.Bucket {
	bkt := tx.Bucket(bucketKeyStorageVersion)
	if bkt == nil {
		return nil
	}
	return bkt.Bucket(bucketKeyProjects)
}

func getProject(tx *bolt.Tx, id string) (models.Project, error) {
	bkt := getProjectsBucket(tx)
	if bkt == nil {
		return models.Project{}, ErrNotFound
	}
	p := bkt.Get([]byte(id))
	if p == nil {
		return models.Project{}, ErrNotFound
	}
	var project models.Project
	if err := json.Unmarshal(p, &project); err != nil {
		return models.Project{}, fmt.Errorf("decoding project %s: %w", id, err)
	}
	return project, nil
}

func putProject(tx *bolt.Tx, project models.Project) error {
	bkt, err := createBucketIfNotExists(tx, bucketKeyStorageVersion, bucketKeyProjects)
	if err != nil {
		return err
	}
	p, err := json.Marshal(project)
	if err != nil {
		return fmt.Errorf("encoding project: %w", err)
	}
	return bkt.Put([]byte(project.ID), p)
}

func (s *BoltStore) Create(_ context.Context, name string) (models.Project, error) {
	if err := services.ValidateProjectName(name); err != nil {
		return models.Project{}, err
	}
	project := NewProject(name, s.now())
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return putProject(tx, project)
	}); err != nil {
		return models.Project{}, err
	}
	return project, nil
}

func (s *BoltStore) Get(_ context.Context, id string) (models.Project, error) {
	var project models.Project
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		project, err = getProject(tx, id)
		return err
	})
	return project, err
}

func (s *BoltStore) List(_ context.Context) ([]models.Project, error) {
	projects := []models.Project{}
	err := s.db.View(func(tx *bolt.Tx) error {
		bkt := getProjectsBucket(tx)
		if bkt == nil {
			return nil
		}
		return bkt.ForEach(func(k, v []byte) error {
			var p models.Project
			if err := json.Unmarshal(v, &p); err != nil {
				return fmt.Errorf("decoding project %s: %w", k, err)
			}
			projects = append(projects, p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortByCreation(projects)
	return projects, nil
}

func (s *BoltStore) Update(_ context.Context, id string, u models.ProjectUpdate) (models.Project, error) {
	var merged models.Project
	err := s.db.Update(func(tx *bolt.Tx) error {
		current, err := getProject(tx, id)
		if err != nil {
			return err
		}
		merged, err = ApplyUpdate(current, u, s.now())
		if err != nil {
			return err
		}
		return putProject(tx, merged)
	})
	if err != nil {
		return models.Project{}, err
	}
	return merged, nil
}

func (s *BoltStore) Delete(_ context.Context, id string) (bool, error) {
	var existed bool
	err := s.db.Update(func(tx *bolt.Tx) error {
		bkt := getProjectsBucket(tx)
		if bkt == nil || bkt.Get([]byte(id)) == nil {
			return nil
		}
		existed = true
		return bkt.Delete([]byte(id))
	})
	return existed, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
