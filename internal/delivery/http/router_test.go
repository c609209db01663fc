package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"healthconsultant/internal/adapters/cache"
	"healthconsultant/internal/delivery/http/controllers"
	"healthconsultant/internal/delivery/http/middleware"
	"healthconsultant/internal/delivery/http/views"
	"healthconsultant/internal/domain"
	"healthconsultant/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAPI serves a fixed set of consultations; page past the end answers
// ErrPageOutOfRange like the backend.
type stubAPI struct {
	consultations []domain.Consultation
}

func (s *stubAPI) ListPatients(ctx context.Context, q domain.PatientQuery) (domain.Page[domain.Patient], error) {
	return domain.Page[domain.Patient]{Items: []domain.Patient{{ID: 1, FullName: "Jane Doe"}}, Total: 1}, nil
}

func (s *stubAPI) ListAllPatients(ctx context.Context) ([]domain.Patient, error) {
	return []domain.Patient{{ID: 1, FullName: "Jane Doe"}}, nil
}

func (s *stubAPI) CreatePatient(ctx context.Context, in domain.NewPatientInput) (*domain.Patient, error) {
	return &domain.Patient{ID: 2, FullName: in.FullName, Email: in.Email, DateOfBirth: in.DateOfBirth}, nil
}

func (s *stubAPI) ListConsultations(ctx context.Context, q domain.ConsultationQuery) (domain.Page[domain.Consultation], error) {
	total := len(s.consultations)
	if q.Page > 1 && q.Offset() >= total {
		return domain.Page[domain.Consultation]{}, domain.ErrPageOutOfRange
	}
	end := min(q.Offset()+q.PageSize, total)
	return domain.Page[domain.Consultation]{Items: s.consultations[q.Offset():end], Total: total}, nil
}

func (s *stubAPI) GetConsultation(ctx context.Context, id int64) (*domain.Consultation, error) {
	for _, c := range s.consultations {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubAPI) CreateConsultation(ctx context.Context, in domain.NewConsultationInput) (*domain.Consultation, error) {
	return &domain.Consultation{ID: 999, PatientID: in.PatientID, Symptoms: in.Symptoms}, nil
}

func (s *stubAPI) GenerateSummary(ctx context.Context, id int64) (*domain.SummaryTrigger, error) {
	return &domain.SummaryTrigger{Ready: false, Detail: "queued"}, nil
}

func (s *stubAPI) Ping(ctx context.Context) error { return nil }

func newTestRouter(t *testing.T, burst int64) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := &stubAPI{}
	for i := 1; i <= 95; i++ {
		api.consultations = append(api.consultations, domain.Consultation{ID: int64(i), PatientID: 1, PatientName: "Jane Doe", Symptoms: "cough " + strconv.Itoa(i)})
	}

	patients := services.NewPatientService(api, cache.NewNoopPatientDirectory(), logger, time.Second)
	consultations := services.NewConsultationService(api, time.Second)
	summaries := services.NewSummaryService(api, logger, time.Second, 10*time.Millisecond, 50*time.Millisecond)
	health := services.NewHealthService(api, logger, "http://backend/api", time.Hour, time.Second)

	renderer, err := views.NewRenderer()
	require.NoError(t, err)
	opts := controllers.Options{PageSize: 10, NeighborRadius: 1, PublicAPIURL: "http://backend/api", PollInterval: 3 * time.Second}

	return NewRouter(RouterConfig{
		Logger:             logger,
		Pages:              controllers.NewPageController(logger, renderer, patients, consultations, summaries, health, opts),
		API:                controllers.NewAPIController(logger, patients, consultations, summaries, health, opts),
		SummaryLimiter:     middleware.NewRateLimiter(0.001, burst),
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	})
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter(t, 5)

	tests := []struct {
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{http.MethodGet, "/", http.StatusOK, "Consultations"},
		{http.MethodGet, "/patients", http.StatusOK, "Jane Doe"},
		{http.MethodGet, "/patients/new", http.StatusOK, "New patient"},
		{http.MethodGet, "/consultations?page=4", http.StatusOK, `aria-current="page">4<`},
		{http.MethodGet, "/consultations?page=40", http.StatusOK, "No consultations on this page."},
		{http.MethodGet, "/consultations/new", http.StatusOK, "New consultation"},
		{http.MethodGet, "/api/consultations?page=2", http.StatusOK, `"total_pages":10`},
		{http.MethodGet, "/api/consultations/3", http.StatusOK, `"symptoms":"cough 3"`},
		{http.MethodGet, "/api/consultations/300", http.StatusNotFound, `"code":"not_found"`},
		{http.MethodGet, "/api/consultations/3/summary", http.StatusOK, `"ready":false`},
		{http.MethodPost, "/api/consultations/3/generate-summary", http.StatusAccepted, `"ready":false`},
		{http.MethodGet, "/health", http.StatusOK, `"upstream":"http://backend/api"`},
		{http.MethodGet, "/metrics", http.StatusOK, "http_request_total"},
		{http.MethodGet, "/swagger/doc.json", http.StatusOK, "Health Consultant API"},
		{http.MethodGet, "/static/summary.js", http.StatusOK, "summary"},
		{http.MethodGet, "/no/such/page", http.StatusNotFound, "does not exist"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBody)
		})
	}
}

func TestRouter_SummaryLongPollTimesOut(t *testing.T) {
	router := newTestRouter(t, 5)
	rr := httptest.NewRecorder()
	start := time.Now()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/consultations/3/summary?wait=true", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"ready":false`)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestRouter_SummaryRateLimited(t *testing.T) {
	router := newTestRouter(t, 1)
	do := func() int {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/consultations/3/generate-summary", nil)
		req.RemoteAddr = "192.0.2.10:5000"
		router.ServeHTTP(rr, req)
		return rr.Code
	}
	assert.Equal(t, http.StatusAccepted, do())
	assert.Equal(t, http.StatusTooManyRequests, do())
}

func TestRouter_CORSOnlyOnAPI(t *testing.T) {
	router := newTestRouter(t, 5)

	req := httptest.NewRequest(http.MethodOptions, "/api/consultations", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_FormPostRedirects(t *testing.T) {
	router := newTestRouter(t, 5)
	form := "full_name=Jane+Roe&date_of_birth=1991-02-03&email=JANE.ROE%40example.com"
	req := httptest.NewRequest(http.MethodPost, "/patients", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/patients", rr.Header().Get("Location"))
}
