// Package contact implements the interactive side of contact-form elements:
// field state, a single create-lead call per submission, and the
// confirmation callback.
package contact

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/apricodi/builder/internal/models"
	"github.com/apricodi/builder/internal/validation"
)

// State is the submission state of a Form.
type State int

const (
	Editing State = iota
	Submitting
	Submitted
	Failed
)

func (s State) String() string {
	switch s {
	case Submitting:
		return "submitting"
	case Submitted:
		return "submitted"
	case Failed:
		return "failed"
	default:
		return "editing"
	}
}

// ErrSubmitting is returned when Submit is called while a previous
// submission is still in flight.
var ErrSubmitting = errors.New("submission in progress")

// DefaultCompletionDelay is the time between a successful submission and the
// completion callback.
const DefaultCompletionDelay = 2 * time.Second

// LeadCreator is the lead store as seen by the form.
type LeadCreator interface {
	CreateLead(ctx context.Context, req *models.CreateLeadRequest) (*models.Lead, error)
}

// Fields are the editable values of the form.
type Fields struct {
	Name         string `json:"name" form:"name"`
	Email        string `json:"email" form:"email"`
	Phone        string `json:"phone" form:"phone"`
	Company      string `json:"company" form:"company"`
	Message      string `json:"message" form:"message"`
	InterestArea string `json:"interest_area" form:"interest_area"`
}

// Form is one contact-form element instance.
type Form struct {
	mu         sync.Mutex
	store      LeadCreator
	projectID  string
	fields     Fields
	state      State
	err        error
	delay      time.Duration
	onComplete func(*models.Lead)
	timer      *time.Timer
}

// Option configures a Form.
type Option func(*Form)

// WithCompletionDelay overrides DefaultCompletionDelay.
func WithCompletionDelay(d time.Duration) Option {
	return func(f *Form) { f.delay = d }
}

// withCallback sets the callback run after a successful submission.
func withCallback(fn func(*models.Lead)) Option {
	return func(f *Form) { f.onComplete = fn }
}

// NewForm creates a form that submits to store. projectID is attached to
// every lead and may be empty.
func NewForm(store LeadCreator, projectID string, opts ...Option) *Form {
	f := &Form{
		store:     store,
		projectID: projectID,
		delay:     DefaultCompletionDelay,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Set replaces the field values. Editing a submitted or failed form returns
// it to Editing.
func (f *Form) Set(fields Fields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Submitting {
		return
	}
	f.fields = fields
	f.state = Editing
	f.err = nil
}

// CompletionDelay is the time between a successful submission and the
// completion callback, or the client's confirmation view reset.
func (f *Form) CompletionDelay() time.Duration {
	return f.delay
}

// Fields returns the current field values.
func (f *Form) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// State returns the submission state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Err returns the error of the last failed submission.
func (f *Form) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Submit validates the fields and performs exactly one create-lead call.
// Validation failures make no store call. On store failure the fields are
// kept so the user can resubmit; on success they are cleared and the
// completion callback is scheduled.
func (f *Form) Submit(ctx context.Context) (*models.Lead, error) {
	f.mu.Lock()
	if f.state == Submitting {
		f.mu.Unlock()
		return nil, ErrSubmitting
	}

	req := &models.CreateLeadRequest{
		ProjectID:    f.projectID,
		Name:         f.fields.Name,
		Email:        f.fields.Email,
		Phone:        f.fields.Phone,
		Company:      f.fields.Company,
		Message:      f.fields.Message,
		InterestArea: f.fields.InterestArea,
	}
	if err := validation.ValidateLead(req); err != nil {
		f.state = Failed
		f.err = err
		f.mu.Unlock()
		return nil, err
	}

	f.state = Submitting
	f.err = nil
	f.mu.Unlock()

	lead, err := f.store.CreateLead(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.state = Failed
		f.err = err
		return nil, err
	}

	f.state = Submitted
	f.fields = Fields{}
	if f.onComplete != nil {
		cb := f.onComplete
		f.timer = time.AfterFunc(f.delay, func() { cb(lead) })
	}
	return lead, nil
}

// Close cancels a pending completion callback.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
	}
}
