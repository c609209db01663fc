package controllers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"healthconsultant/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var testOptions = Options{PageSize: 10, NeighborRadius: 1, PublicAPIURL: "http://localhost:8000/api", PollInterval: 3 * time.Second}

// fakePatientService implements domain.PatientService for handler tests.
type fakePatientService struct {
	page       domain.Page[domain.Patient]
	listErr    error
	lastQuery  domain.PatientQuery
	created    *domain.Patient
	createErr  error
	lastCreate domain.NewPatientInput
	directory  []domain.Patient
	directErr  error
}

func (f *fakePatientService) List(ctx context.Context, q domain.PatientQuery) (domain.Page[domain.Patient], error) {
	f.lastQuery = q
	return f.page, f.listErr
}

func (f *fakePatientService) Create(ctx context.Context, in domain.NewPatientInput) (*domain.Patient, error) {
	f.lastCreate = in
	return f.created, f.createErr
}

func (f *fakePatientService) Directory(ctx context.Context) ([]domain.Patient, error) {
	return f.directory, f.directErr
}

// fakeConsultationService implements domain.ConsultationService for handler tests.
type fakeConsultationService struct {
	page       domain.Page[domain.Consultation]
	listErr    error
	lastQuery  domain.ConsultationQuery
	byID       map[int64]*domain.Consultation
	created    *domain.Consultation
	createErr  error
	lastCreate domain.NewConsultationInput
}

func (f *fakeConsultationService) List(ctx context.Context, q domain.ConsultationQuery) (domain.Page[domain.Consultation], error) {
	f.lastQuery = q
	return f.page, f.listErr
}

func (f *fakeConsultationService) Get(ctx context.Context, id int64) (*domain.Consultation, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeConsultationService) Create(ctx context.Context, in domain.NewConsultationInput) (*domain.Consultation, error) {
	f.lastCreate = in
	return f.created, f.createErr
}

// fakeSummaryService implements domain.SummaryService for handler tests.
type fakeSummaryService struct {
	trigger    *domain.SummaryTrigger
	triggerErr error
	status     *domain.SummaryStatus
	statusErr  error
	awaited    bool
	lastID     int64
}

func (f *fakeSummaryService) Trigger(ctx context.Context, id int64) (*domain.SummaryTrigger, error) {
	f.lastID = id
	return f.trigger, f.triggerErr
}

func (f *fakeSummaryService) Status(ctx context.Context, id int64) (*domain.SummaryStatus, error) {
	f.lastID = id
	return f.status, f.statusErr
}

func (f *fakeSummaryService) Await(ctx context.Context, id int64) (*domain.SummaryStatus, error) {
	f.lastID = id
	f.awaited = true
	return f.status, f.statusErr
}

// fakeHealthService implements domain.HealthService with a fixed report.
type fakeHealthService struct {
	report domain.HealthReport
}

func (f *fakeHealthService) Start() error                { return nil }
func (f *fakeHealthService) Stop()                       {}
func (f *fakeHealthService) Report() domain.HealthReport { return f.report }

// withURLParam attaches a chi URL parameter to r as the router would.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
