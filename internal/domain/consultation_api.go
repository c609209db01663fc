package domain

import "context"

// ConsultationAPI is the REST backend that owns patients and consultations.
type ConsultationAPI interface {
	ListPatients(ctx context.Context, q PatientQuery) (Page[Patient], error)
	ListAllPatients(ctx context.Context) ([]Patient, error)
	CreatePatient(ctx context.Context, in NewPatientInput) (*Patient, error)
	ListConsultations(ctx context.Context, q ConsultationQuery) (Page[Consultation], error)
	GetConsultation(ctx context.Context, id int64) (*Consultation, error)
	CreateConsultation(ctx context.Context, in NewConsultationInput) (*Consultation, error)
	GenerateSummary(ctx context.Context, id int64) (*SummaryTrigger, error)
	Ping(ctx context.Context) error
}
