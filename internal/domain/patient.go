package domain

import (
	"context"
	"net/mail"
	"strings"
	"time"
)

// DateLayout is the wire and form format of dates of birth.
const DateLayout = "2006-01-02"

// Patient is a patient record as served by the consultation API.
// swagger:model Patient
type Patient struct {
	ID          int64  `json:"id"`
	FullName    string `json:"full_name"`
	DateOfBirth string `json:"date_of_birth"`
	Email       string `json:"email"`
}

// NewPatientInput is the data needed to register a patient.
type NewPatientInput struct {
	FullName    string `json:"full_name"`
	DateOfBirth string `json:"date_of_birth"`
	Email       string `json:"email"`
}

// Normalize trims fields and lower-cases the email.
func (in *NewPatientInput) Normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.DateOfBirth = strings.TrimSpace(in.DateOfBirth)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

// Validate returns per-field messages; nil means valid. now bounds the date of birth.
func (in *NewPatientInput) Validate(now time.Time) map[string][]string {
	errs := make(map[string][]string)
	switch {
	case in.FullName == "":
		errs["full_name"] = append(errs["full_name"], "This field is required.")
	case len(in.FullName) > 255:
		errs["full_name"] = append(errs["full_name"], "Ensure this field has no more than 255 characters.")
	}
	if in.DateOfBirth == "" {
		errs["date_of_birth"] = append(errs["date_of_birth"], "This field is required.")
	} else if dob, err := time.Parse(DateLayout, in.DateOfBirth); err != nil {
		errs["date_of_birth"] = append(errs["date_of_birth"], "Date has wrong format. Use YYYY-MM-DD.")
	} else if dob.After(now) {
		errs["date_of_birth"] = append(errs["date_of_birth"], "Date of birth cannot be in the future.")
	}
	if in.Email == "" {
		errs["email"] = append(errs["email"], "This field is required.")
	} else if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		errs["email"] = append(errs["email"], "Enter a valid email address.")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// PatientQuery selects a page of patients.
type PatientQuery struct {
	PaginationParams
}

// PatientDirectoryCache caches the complete patient list used by pickers and filters.
type PatientDirectoryCache interface {
	Get(ctx context.Context) ([]Patient, bool, error)
	Set(ctx context.Context, patients []Patient) error
	Invalidate(ctx context.Context) error
}

// PatientService defines the business logic for listing and registering patients.
type PatientService interface {
	List(ctx context.Context, q PatientQuery) (Page[Patient], error)
	Create(ctx context.Context, in NewPatientInput) (*Patient, error)
	Directory(ctx context.Context) ([]Patient, error)
}
