package models

import (
	"time"

	"github.com/apricodi/builder/internal/schema"
)

// Project is a saved AppSchema owned by one user.
type Project struct {
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Schema      schema.AppSchema `json:"schema"`
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
}

// CreateProjectRequest contains the data for creating a project.
type CreateProjectRequest struct {
	Schema      schema.AppSchema `json:"schema"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
}

// UpdateProjectRequest changes only the fields that are set.
type UpdateProjectRequest struct {
	Schema      *schema.AppSchema `json:"schema"`
	Name        *string           `json:"name"`
	Description *string           `json:"description"`
}

// SaveProjectRequest creates a project when ID is empty and updates the
// existing one otherwise.
type SaveProjectRequest struct {
	Schema      schema.AppSchema `json:"schema"`
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
}
