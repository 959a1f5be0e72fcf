package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/apricodi/builder/internal/database"
	"github.com/apricodi/builder/internal/models"
	"github.com/google/uuid"
)

// LeadService is the lead store.
type LeadService struct {
	db  *database.DB
	now func() time.Time
}

func NewLeadService(db *database.DB) *LeadService {
	return &LeadService{db: db, now: time.Now}
}

// CreateLead stores one contact-form submission. An empty ProjectID is stored
// as NULL.
func (s *LeadService) CreateLead(ctx context.Context, req *models.CreateLeadRequest) (*models.Lead, error) {
	lead := &models.Lead{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		Company:      strings.TrimSpace(req.Company),
		Message:      strings.TrimSpace(req.Message),
		InterestArea: req.InterestArea,
		CreatedAt:    s.now().UTC(),
	}
	if req.ProjectID != "" {
		pid := req.ProjectID
		lead.ProjectID = &pid
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leads (id, project_id, name, email, phone, company, message, interest_area, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.ID, lead.ProjectID, lead.Name, lead.Email, lead.Phone, lead.Company, lead.Message, lead.InterestArea, lead.CreatedAt,
	)
	if err != nil {
		return nil, storeErr("create lead", err)
	}
	return lead, nil
}

// ListByProject returns the leads of one project, newest first.
func (s *LeadService) ListByProject(ctx context.Context, projectID string) ([]models.Lead, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, name, email, phone, company, message, interest_area, created_at
		FROM leads WHERE project_id = ? ORDER BY created_at DESC, rowid DESC`,
		projectID,
	)
	if err != nil {
		return nil, storeErr("list leads", err)
	}
	defer func() { _ = rows.Close() }()

	leads := make([]models.Lead, 0)
	for rows.Next() {
		var lead models.Lead
		var pid sql.NullString
		if err := rows.Scan(&lead.ID, &pid, &lead.Name, &lead.Email, &lead.Phone, &lead.Company, &lead.Message, &lead.InterestArea, &lead.CreatedAt); err != nil {
			return nil, storeErr("list leads", err)
		}
		if pid.Valid {
			lead.ProjectID = &pid.String
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list leads", err)
	}
	return leads, nil
}
