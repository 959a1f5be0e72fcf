package models

import "time"

// Lead is one contact-form submission.
type Lead struct {
	CreatedAt    time.Time `json:"created_at"`
	ProjectID    *string   `json:"project_id"`
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Company      string    `json:"company"`
	Message      string    `json:"message"`
	InterestArea string    `json:"interest_area"`
}

// CreateLeadRequest contains the contact fields of a submission. ProjectID is
// optional; leads from the builder's own landing page have none.
type CreateLeadRequest struct {
	ProjectID    string `json:"project_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Company      string `json:"company"`
	Message      string `json:"message"`
	InterestArea string `json:"interest_area"`
}
