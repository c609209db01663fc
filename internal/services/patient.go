package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"healthconsultant/internal/domain"
	"healthconsultant/internal/metrics"
)

type patientService struct {
	api            domain.ConsultationAPI
	directory      domain.PatientDirectoryCache
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewPatientService creates a PatientService backed by the consultation API,
// with the full patient list cached in directory.
func NewPatientService(api domain.ConsultationAPI, directory domain.PatientDirectoryCache, logger *slog.Logger, timeout time.Duration) domain.PatientService {
	if logger == nil {
		logger = slog.Default()
	}
	return &patientService{
		api:            api,
		directory:      directory,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *patientService) List(ctx context.Context, q domain.PatientQuery) (domain.Page[domain.Patient], error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	page, err := pageOrProbe(ctx, q.Page, func(ctx context.Context, n int) (domain.Page[domain.Patient], error) {
		pq := q
		pq.Page = n
		return s.api.ListPatients(ctx, pq)
	})
	if err != nil {
		return domain.Page[domain.Patient]{}, fmt.Errorf("list patients: %w", err)
	}
	return page, nil
}

func (s *patientService) Create(ctx context.Context, in domain.NewPatientInput) (*domain.Patient, error) {
	in.Normalize()
	if fields := in.Validate(s.now()); fields != nil {
		return nil, domain.NewValidationError(fields)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	p, err := s.api.CreatePatient(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	if err := s.directory.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "patient directory invalidation failed", "err", err)
	}
	return p, nil
}

// Directory returns every patient, cache first.
func (s *patientService) Directory(ctx context.Context) ([]domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	patients, ok, err := s.directory.Get(ctx)
	switch {
	case err != nil:
		metrics.PatientDirectoryLookups.WithLabelValues("error").Inc()
		s.logger.WarnContext(ctx, "patient directory read failed", "err", err)
	case ok:
		metrics.PatientDirectoryLookups.WithLabelValues("hit").Inc()
		return patients, nil
	default:
		metrics.PatientDirectoryLookups.WithLabelValues("miss").Inc()
	}

	patients, err = s.api.ListAllPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("load patient directory: %w", err)
	}
	if err := s.directory.Set(ctx, patients); err != nil {
		s.logger.WarnContext(ctx, "patient directory write failed", "err", err)
	}
	return patients, nil
}
