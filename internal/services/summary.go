package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"healthconsultant/internal/domain"
)

const blankSymptomsDetail = "Symptoms are required to generate a summary."

type summaryService struct {
	api            domain.ConsultationAPI
	logger         *slog.Logger
	contextTimeout time.Duration
	pollInterval   time.Duration
	waitTimeout    time.Duration
}

// NewSummaryService creates a SummaryService. Await polls every pollInterval
// and gives up after waitTimeout.
func NewSummaryService(api domain.ConsultationAPI, logger *slog.Logger, timeout, pollInterval, waitTimeout time.Duration) domain.SummaryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &summaryService{
		api:            api,
		logger:         logger,
		contextTimeout: timeout,
		pollInterval:   pollInterval,
		waitTimeout:    waitTimeout,
	}
}

// Trigger asks for a summary. Consultations without symptoms are refused
// before the request leaves this process.
func (s *summaryService) Trigger(ctx context.Context, id int64) (*domain.SummaryTrigger, error) {
	if id <= 0 {
		return nil, domain.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	c, err := s.api.GetConsultation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get consultation %d: %w", id, err)
	}
	if strings.TrimSpace(c.Symptoms) == "" {
		return nil, domain.NewValidationError(map[string][]string{"detail": {blankSymptomsDetail}})
	}

	trig, err := s.api.GenerateSummary(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("generate summary %d: %w", id, err)
	}
	s.logger.InfoContext(ctx, "summary requested", "consultation_id", id, "ready", trig.Ready)
	return trig, nil
}

func (s *summaryService) Status(ctx context.Context, id int64) (*domain.SummaryStatus, error) {
	if id <= 0 {
		return nil, domain.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	c, err := s.api.GetConsultation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get consultation %d: %w", id, err)
	}
	return statusOf(c), nil
}

// Await polls until the summary is present, the wait timeout elapses, or ctx
// is done. On timeout it returns the last status seen with a nil error; a
// cancelled ctx returns ctx.Err().
func (s *summaryService) Await(ctx context.Context, id int64) (*domain.SummaryStatus, error) {
	waitCtx, cancel := context.WithTimeout(ctx, s.waitTimeout)
	defer cancel()

	span := trace.SpanFromContext(ctx)
	last := &domain.SummaryStatus{ConsultationID: id}
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		st, err := s.Status(waitCtx, id)
		switch {
		case err == nil:
			last = st
			span.AddEvent("summary.poll", trace.WithAttributes(
				attribute.Int("attempt", attempt),
				attribute.Bool("ready", st.Ready),
			))
			if st.Ready {
				return st, nil
			}
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case waitCtx.Err() != nil && errors.Is(err, context.DeadlineExceeded):
			return last, nil
		default:
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-waitCtx.Done():
			return last, nil
		case <-ticker.C:
		}
	}
}

func statusOf(c *domain.Consultation) *domain.SummaryStatus {
	return &domain.SummaryStatus{
		ConsultationID: c.ID,
		Ready:          c.HasSummary(),
		AISummary:      c.Summary(),
	}
}
