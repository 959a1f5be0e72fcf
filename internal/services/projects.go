package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/apricodi/builder/internal/database"
	"github.com/apricodi/builder/internal/models"
	"github.com/apricodi/builder/internal/schema"
	"github.com/google/uuid"
)

var (
	// ErrProjectNotFound is returned for unknown ids and for projects owned by
	// someone else.
	ErrProjectNotFound = errors.New("project not found")
)

// ProjectService is the project store. Every operation is scoped to an owner;
// concurrent writes to the same project are last-write-wins.
type ProjectService struct {
	db  *database.DB
	now func() time.Time
}

func NewProjectService(db *database.DB) *ProjectService {
	return &ProjectService{db: db, now: time.Now}
}

// SetClock replaces the clock used for timestamps.
func (s *ProjectService) SetClock(now func() time.Time) {
	s.now = now
}

const projectColumns = "id, user_id, name, description, schema, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var p models.Project
	var raw string
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &raw, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &p.Schema); err != nil {
		return nil, err
	}
	if p.Schema.Elements == nil {
		p.Schema.Elements = []schema.Element{}
	}
	return &p, nil
}

// Create stores a new project for ownerID.
func (s *ProjectService) Create(ownerID string, req *models.CreateProjectRequest) (*models.Project, error) {
	raw, err := schema.Marshal(req.Schema)
	if err != nil {
		return nil, storeErr("encode schema", err)
	}

	id := uuid.New().String()
	now := s.now().UTC()
	_, err = s.db.Exec(
		"INSERT INTO projects ("+projectColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, ownerID, req.Name, req.Description, string(raw), now, now,
	)
	if err != nil {
		return nil, storeErr("create project", err)
	}

	return s.Get(ownerID, id)
}

// Get returns one project of ownerID.
func (s *ProjectService) Get(ownerID, id string) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRow(
		"SELECT "+projectColumns+" FROM projects WHERE id = ? AND user_id = ?",
		id, ownerID,
	))
	if err == sql.ErrNoRows {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, storeErr("get project", err)
	}
	return p, nil
}

// GetPublic returns a project by id regardless of owner, for the public
// preview page.
func (s *ProjectService) GetPublic(id string) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRow("SELECT "+projectColumns+" FROM projects WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, storeErr("get project", err)
	}
	return p, nil
}

// ListByOwner returns the projects of ownerID, newest first.
func (s *ProjectService) ListByOwner(ownerID string) ([]models.Project, error) {
	rows, err := s.db.Query(
		"SELECT "+projectColumns+" FROM projects WHERE user_id = ? ORDER BY created_at DESC, rowid DESC",
		ownerID,
	)
	if err != nil {
		return nil, storeErr("list projects", err)
	}
	defer func() { _ = rows.Close() }()

	projects := make([]models.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, storeErr("list projects", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list projects", err)
	}
	return projects, nil
}

// Update applies the fields set in req and refreshes updated_at.
func (s *ProjectService) Update(ownerID, id string, req *models.UpdateProjectRequest) (*models.Project, error) {
	p, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Schema != nil {
		p.Schema = *req.Schema
	}

	raw, err := schema.Marshal(p.Schema)
	if err != nil {
		return nil, storeErr("encode schema", err)
	}

	updatedAt := s.now().UTC()
	if !updatedAt.After(p.UpdatedAt) {
		updatedAt = p.UpdatedAt.Add(time.Microsecond)
	}

	_, err = s.db.Exec(
		"UPDATE projects SET name = ?, description = ?, schema = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		p.Name, p.Description, string(raw), updatedAt, id, ownerID,
	)
	if err != nil {
		return nil, storeErr("update project", err)
	}

	return s.Get(ownerID, id)
}

// Save creates a project when req.ID is empty and otherwise replaces the
// name, description and schema of the existing one.
func (s *ProjectService) Save(ownerID string, req *models.SaveProjectRequest) (*models.Project, bool, error) {
	if req.ID == "" {
		p, err := s.Create(ownerID, &models.CreateProjectRequest{
			Schema:      req.Schema,
			Name:        req.Name,
			Description: req.Description,
		})
		return p, true, err
	}

	p, err := s.Update(ownerID, req.ID, &models.UpdateProjectRequest{
		Schema:      &req.Schema,
		Name:        &req.Name,
		Description: &req.Description,
	})
	return p, false, err
}

// Delete removes a project of ownerID.
func (s *ProjectService) Delete(ownerID, id string) error {
	result, err := s.db.Exec("DELETE FROM projects WHERE id = ? AND user_id = ?", id, ownerID)
	if err != nil {
		return storeErr("delete project", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return storeErr("delete project", err)
	}
	if n == 0 {
		return ErrProjectNotFound
	}
	return nil
}
