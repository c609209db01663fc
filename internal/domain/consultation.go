package domain

import (
	"context"
	"strings"
	"time"
)

// Consultation is a consultation record as served by the consultation API.
// AISummary stays nil until the summary pipeline has produced one.
// swagger:model Consultation
type Consultation struct {
	ID          int64     `json:"id"`
	PatientID   int64     `json:"patient"`
	PatientName string    `json:"patient_name"`
	Symptoms    string    `json:"symptoms"`
	Diagnosis   string    `json:"diagnosis"`
	CreatedAt   time.Time `json:"created_at"`
	AISummary   *string   `json:"ai_summary"`
}

// HasSummary reports whether an AI summary is present and non-blank.
func (c *Consultation) HasSummary() bool {
	return c != nil && c.AISummary != nil && strings.TrimSpace(*c.AISummary) != ""
}

// Summary returns the AI summary or "".
func (c *Consultation) Summary() string {
	if c == nil || c.AISummary == nil {
		return ""
	}
	return *c.AISummary
}

// NewConsultationInput is the data needed to open a consultation.
type NewConsultationInput struct {
	PatientID int64  `json:"patient"`
	Symptoms  string `json:"symptoms"`
	Diagnosis string `json:"diagnosis"`
}

// Normalize trims free-text fields.
func (in *NewConsultationInput) Normalize() {
	in.Symptoms = strings.TrimSpace(in.Symptoms)
	in.Diagnosis = strings.TrimSpace(in.Diagnosis)
}

// Validate returns per-field messages; nil means valid.
func (in *NewConsultationInput) Validate() map[string][]string {
	errs := make(map[string][]string)
	if in.PatientID <= 0 {
		errs["patient"] = append(errs["patient"], "Select a patient.")
	}
	if in.Symptoms == "" {
		errs["symptoms"] = append(errs["symptoms"], "This field is required.")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ConsultationQuery selects a page of consultations, optionally for one patient.
type ConsultationQuery struct {
	PaginationParams
	PatientID int64 // zero means all patients
}

// SummaryTrigger is the outcome of asking the consultation API for a summary.
// Ready is true when the API answered synchronously with the summary in place.
type SummaryTrigger struct {
	Ready        bool          `json:"ready"`
	Detail       string        `json:"detail,omitempty"`
	Consultation *Consultation `json:"consultation,omitempty"`
}

// SummaryStatus is what a poller sees for one consultation.
type SummaryStatus struct {
	ConsultationID int64  `json:"consultation_id"`
	Ready          bool   `json:"ready"`
	AISummary      string `json:"ai_summary,omitempty"`
}

// ConsultationService defines the business logic for consultations.
type ConsultationService interface {
	List(ctx context.Context, q ConsultationQuery) (Page[Consultation], error)
	Get(ctx context.Context, id int64) (*Consultation, error)
	Create(ctx context.Context, in NewConsultationInput) (*Consultation, error)
}

// SummaryService triggers AI summary generation and watches for its completion.
type SummaryService interface {
	Trigger(ctx context.Context, id int64) (*SummaryTrigger, error)
	Status(ctx context.Context, id int64) (*SummaryStatus, error)
	Await(ctx context.Context, id int64) (*SummaryStatus, error)
}
