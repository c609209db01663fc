package services

import (
	"context"
	"fmt"
	"time"

	"healthconsultant/internal/domain"
)

type consultationService struct {
	api            domain.ConsultationAPI
	contextTimeout time.Duration
}

// NewConsultationService creates a ConsultationService backed by the consultation API.
func NewConsultationService(api domain.ConsultationAPI, timeout time.Duration) domain.ConsultationService {
	return &consultationService{api: api, contextTimeout: timeout}
}

func (s *consultationService) List(ctx context.Context, q domain.ConsultationQuery) (domain.Page[domain.Consultation], error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	page, err := pageOrProbe(ctx, q.Page, func(ctx context.Context, n int) (domain.Page[domain.Consultation], error) {
		cq := q
		cq.Page = n
		return s.api.ListConsultations(ctx, cq)
	})
	if err != nil {
		return domain.Page[domain.Consultation]{}, fmt.Errorf("list consultations: %w", err)
	}
	return page, nil
}

func (s *consultationService) Get(ctx context.Context, id int64) (*domain.Consultation, error) {
	if id <= 0 {
		return nil, domain.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	c, err := s.api.GetConsultation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get consultation %d: %w", id, err)
	}
	return c, nil
}

func (s *consultationService) Create(ctx context.Context, in domain.NewConsultationInput) (*domain.Consultation, error) {
	in.Normalize()
	if fields := in.Validate(); fields != nil {
		return nil, domain.NewValidationError(fields)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	c, err := s.api.CreateConsultation(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create consultation: %w", err)
	}
	return c, nil
}
