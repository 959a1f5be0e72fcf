package services

import (
	"encoding/json"
	"log"

	"github.com/apricodi/builder/internal/database"
	"github.com/apricodi/builder/internal/models"
)

// AuditService records user actions.
type AuditService struct {
	db *database.DB
}

func NewAuditService(db *database.DB) *AuditService {
	return &AuditService{db: db}
}

// AuditLog is an entry to be recorded.
type AuditLog struct {
	Details      map[string]any
	UserID       string
	Email        string
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	UserAgent    string
}

// Log records an entry. Failures are logged and returned, but callers
// normally ignore them so that auditing never fails a request.
func (s *AuditService) Log(entry AuditLog) error {
	var details string
	if entry.Details != nil {
		if b, err := json.Marshal(entry.Details); err == nil {
			details = string(b)
		}
	}

	var uid any
	if entry.UserID != "" {
		uid = entry.UserID
	}

	_, err := s.db.Exec(`
		INSERT INTO audit_logs (user_id, email, action, resource_type, resource_id, ip_address, user_agent, details)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, uid, entry.Email, entry.Action, entry.ResourceType, entry.ResourceID, entry.IPAddress, entry.UserAgent, details)
	if err != nil {
		log.Printf("[Audit] Failed to record %s %s: %v", entry.Action, entry.ResourceType, err)
	}
	return err
}

// LogAuth records login, logout and registration events.
func (s *AuditService) LogAuth(user *models.User, action, ip, userAgent string) {
	_ = s.Log(AuditLog{
		UserID:       userID(user),
		Email:        userEmail(user),
		Action:       action,
		ResourceType: "auth",
		IPAddress:    ip,
		UserAgent:    userAgent,
	})
}

// LogProject records a project write.
func (s *AuditService) LogProject(user *models.User, action string, project *models.Project, ip, userAgent string) {
	_ = s.Log(AuditLog{
		UserID:       userID(user),
		Email:        userEmail(user),
		Action:       action,
		ResourceType: "project",
		ResourceID:   project.ID,
		IPAddress:    ip,
		UserAgent:    userAgent,
		Details: map[string]any{
			"name":     project.Name,
			"elements": len(project.Schema.Elements),
		},
	})
}

// LogGeneration records the outcome of a generation request. kind is empty
// on success.
func (s *AuditService) LogGeneration(user *models.User, kind string, elements int, ip, userAgent string) {
	action := "generate_success"
	details := map[string]any{"elements": elements}
	if kind != "" {
		action = "generate_failed"
		details = map[string]any{"kind": kind}
	}
	_ = s.Log(AuditLog{
		UserID:       userID(user),
		Email:        userEmail(user),
		Action:       action,
		ResourceType: "generation",
		IPAddress:    ip,
		UserAgent:    userAgent,
		Details:      details,
	})
}

// AuditLogEntry is a stored audit record.
type AuditLogEntry struct {
	UserID       *string `json:"user_id"`
	Email        string  `json:"email"`
	Action       string  `json:"action"`
	ResourceType string  `json:"resource_type"`
	ResourceID   string  `json:"resource_id"`
	IPAddress    string  `json:"ip_address"`
	UserAgent    string  `json:"user_agent"`
	Details      string  `json:"details"`
	CreatedAt    string  `json:"created_at"`
	ID           int64   `json:"id"`
}

// GetLogs returns the entries of one user, newest first.
func (s *AuditService) GetLogs(userID string, limit, offset int) ([]AuditLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT id, user_id, email, action, resource_type, resource_id, ip_address, user_agent, details, created_at
		FROM audit_logs
		WHERE user_id = ?
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, storeErr("list audit logs", err)
	}
	defer func() { _ = rows.Close() }()

	// Empty slice so that JSON carries [] instead of null.
	logs := make([]AuditLogEntry, 0)
	for rows.Next() {
		var entry AuditLogEntry
		var email, resourceID, ipAddress, userAgent, details *string

		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&email,
			&entry.Action,
			&entry.ResourceType,
			&resourceID,
			&ipAddress,
			&userAgent,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, storeErr("list audit logs", err)
		}

		entry.Email = deref(email)
		entry.ResourceID = deref(resourceID)
		entry.IPAddress = deref(ipAddress)
		entry.UserAgent = deref(userAgent)
		entry.Details = deref(details)
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

func userID(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}

func userEmail(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.Email
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
