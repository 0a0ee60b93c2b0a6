// ABOUTME: SQLite project store using the pure-Go modernc driver
// ABOUTME: Each project is one row holding its JSON record and creation time

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/markalston/fabric-designer/backend/models"
	"github.com/markalston/fabric-designer/backend/services"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	version INTEGER NOT NULL,
	record JSON NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_projects_created ON projects(created_at, id);
`

// SQLiteStore persists projects in a SQLite database file
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (creating if needed) the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Create(ctx context.Context, name string) (models.Project, error) {
	if err := services.ValidateProjectName(name); err != nil {
		return models.Project{}, err
	}
	p := NewProject(name, s.now())

	record, err := json.Marshal(p)
	if err != nil {
		return models.Project{}, fmt.Errorf("encoding project: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, created_at, version, record) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.CreatedAt.UnixNano(), p.Version, string(record))
	if err != nil {
		return models.Project{}, fmt.Errorf("inserting project: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (models.Project, error) {
	return getRow(ctx, s.db, id)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getRow(ctx context.Context, q queryer, id string) (models.Project, error) {
	var record string
	err := q.QueryRowContext(ctx, `SELECT record FROM projects WHERE id = ?`, id).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, ErrNotFound
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("reading project: %w", err)
	}
	var p models.Project
	if err := json.Unmarshal([]byte(record), &p); err != nil {
		return models.Project{}, fmt.Errorf("decoding project %s: %w", id, err)
	}
	return p, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record FROM projects ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		var p models.Project
		if err := json.Unmarshal([]byte(record), &p); err != nil {
			return nil, fmt.Errorf("decoding project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *SQLiteStore) Update(ctx context.Context, id string, u models.ProjectUpdate) (models.Project, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Project{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := getRow(ctx, tx, id)
	if err != nil {
		return models.Project{}, err
	}
	merged, err := ApplyUpdate(current, u, s.now())
	if err != nil {
		return models.Project{}, err
	}
	record, err := json.Marshal(merged)
	if err != nil {
		return models.Project{}, fmt.Errorf("encoding project: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE projects SET name = ?, version = ?, record = ? WHERE id = ?`,
		merged.Name, merged.Version, string(record), id)
	if err != nil {
		return models.Project{}, fmt.Errorf("updating project: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.Project{}, fmt.Errorf("committing update: %w", err)
	}
	return merged, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting project: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
