package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"healthconsultant/internal/delivery/http/views"
	"healthconsultant/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageFixture struct {
	patients      *fakePatientService
	consultations *fakeConsultationService
	summaries     *fakeSummaryService
	ctrl          *PageController
}

func newPageFixture(t *testing.T) *pageFixture {
	t.Helper()
	renderer, err := views.NewRenderer()
	require.NoError(t, err)
	f := &pageFixture{
		patients:      &fakePatientService{directory: []domain.Patient{{ID: 7, FullName: "Jane Doe"}}},
		consultations: &fakeConsultationService{byID: map[int64]*domain.Consultation{}},
		summaries:     &fakeSummaryService{},
	}
	f.ctrl = NewPageController(testLogger, renderer, f.patients, f.consultations, f.summaries,
		&fakeHealthService{report: domain.HealthReport{Status: domain.HealthStatusHealthy}}, testOptions)
	return f
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestPages_Home(t *testing.T) {
	f := newPageFixture(t)
	f.patients.page.Total = 3
	f.consultations.page.Total = 12

	rr := httptest.NewRecorder()
	f.ctrl.Home(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), ">12<")
	assert.Equal(t, 1, f.patients.lastQuery.PageSize)
}

func TestPages_HomeDegradesWhenBackendDown(t *testing.T) {
	f := newPageFixture(t)
	f.patients.listErr = &domain.StatusError{StatusCode: 502}
	f.consultations.listErr = &domain.StatusError{StatusCode: 502}

	rr := httptest.NewRecorder()
	f.ctrl.Home(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "not reachable")
}

func TestPages_ListConsultations_ClampsPageAndKeepsFilter(t *testing.T) {
	f := newPageFixture(t)
	f.consultations.page = domain.Page[domain.Consultation]{Items: []domain.Consultation{{ID: 1, PatientName: "Jane Doe", Symptoms: "cough"}}, Total: 95}

	rr := httptest.NewRecorder()
	f.ctrl.ListConsultations(rr, httptest.NewRequest(http.MethodGet, "/consultations?page=-3&patient=7", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, f.consultations.lastQuery.Page)
	assert.Equal(t, int64(7), f.consultations.lastQuery.PatientID)
	body := rr.Body.String()
	assert.Contains(t, body, `href="/consultations?page=2&amp;patient=7"`)
	assert.Contains(t, body, `href="/consultations?page=10&amp;patient=7"`)
	assert.Contains(t, body, `data-key="ellipsis-2"`)
	assert.Contains(t, body, `<option value="7" selected>`)
}

func TestPages_ListConsultations_PastLastPage(t *testing.T) {
	f := newPageFixture(t)
	f.consultations.page = domain.Page[domain.Consultation]{Items: []domain.Consultation{}, Total: 25}

	rr := httptest.NewRecorder()
	f.ctrl.ListConsultations(rr, httptest.NewRequest(http.MethodGet, "/consultations?page=9", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "No consultations on this page.")
	assert.Contains(t, body, `class="prev" href="/consultations?page=3"`)
}

func TestPages_ListPatients_SinglePageHasNoControls(t *testing.T) {
	f := newPageFixture(t)
	f.patients.page = domain.Page[domain.Patient]{Items: []domain.Patient{{ID: 1, FullName: "Jane"}}, Total: 1}

	rr := httptest.NewRecorder()
	f.ctrl.ListPatients(rr, httptest.NewRequest(http.MethodGet, "/patients", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), `class="pagination"`)
}

func TestPages_CreatePatient(t *testing.T) {
	t.Run("success redirects", func(t *testing.T) {
		f := newPageFixture(t)
		f.patients.created = &domain.Patient{ID: 1}

		rr := httptest.NewRecorder()
		f.ctrl.CreatePatient(rr, postForm("/patients", url.Values{
			"full_name": {"Jane Doe"}, "date_of_birth": {"1990-05-15"}, "email": {"jane@example.com"},
		}))

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/patients", rr.Header().Get("Location"))
		assert.Equal(t, "Jane Doe", f.patients.lastCreate.FullName)
	})

	t.Run("validation re-renders the form", func(t *testing.T) {
		f := newPageFixture(t)
		f.patients.createErr = domain.NewValidationError(map[string][]string{"email": {"patient with this email already exists."}})

		rr := httptest.NewRecorder()
		f.ctrl.CreatePatient(rr, postForm("/patients", url.Values{
			"full_name": {"Jane Doe"}, "date_of_birth": {"1990-05-15"}, "email": {"jane@example.com"},
		}))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "patient with this email already exists.")
		assert.Contains(t, body, `value="Jane Doe"`)
	})

	t.Run("backend failure renders error page", func(t *testing.T) {
		f := newPageFixture(t)
		f.patients.createErr = errors.New("boom")

		rr := httptest.NewRecorder()
		f.ctrl.CreatePatient(rr, postForm("/patients", url.Values{"full_name": {"Jane"}}))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestPages_CreateConsultation(t *testing.T) {
	f := newPageFixture(t)
	f.consultations.created = &domain.Consultation{ID: 9, PatientID: 7}

	rr := httptest.NewRecorder()
	f.ctrl.CreateConsultation(rr, postForm("/consultations", url.Values{
		"patient": {"7"}, "symptoms": {"cough"}, "diagnosis": {""},
	}))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/consultations?patient=7", rr.Header().Get("Location"))
	assert.Equal(t, int64(7), f.consultations.lastCreate.PatientID)
}

func TestPages_CreateConsultation_Invalid(t *testing.T) {
	f := newPageFixture(t)
	f.consultations.createErr = domain.NewValidationError(map[string][]string{"patient": {"Select a patient."}})

	rr := httptest.NewRecorder()
	f.ctrl.CreateConsultation(rr, postForm("/consultations", url.Values{"patient": {""}, "symptoms": {"cough"}}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Select a patient.")
	assert.Contains(t, rr.Body.String(), "cough")
}

func TestPages_GenerateSummaryFallback(t *testing.T) {
	f := newPageFixture(t)
	f.summaries.trigger = &domain.SummaryTrigger{Ready: false}

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/consultations/3/generate-summary", nil), "id", "3")
	req.Header.Set("Referer", "http://example.com/consultations?page=2&patient=7")
	rr := httptest.NewRecorder()
	f.ctrl.GenerateSummary(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/consultations?page=2&patient=7#consultation-3", rr.Header().Get("Location"))
	assert.Equal(t, int64(3), f.summaries.lastID)
}

func TestPages_GenerateSummaryFallback_Errors(t *testing.T) {
	f := newPageFixture(t)
	f.summaries.triggerErr = domain.ErrSummaryUnavailable

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/consultations/3/generate-summary", nil), "id", "3")
	rr := httptest.NewRecorder()
	f.ctrl.GenerateSummary(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "temporarily unavailable")
}

func TestBackTo(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "http://example.com/consultations/1/generate-summary", nil)
	assert.Equal(t, "/consultations", backTo(req, "/consultations"))

	req.Header.Set("Referer", "https://elsewhere.example.org/phish")
	assert.Equal(t, "/consultations", backTo(req, "/consultations"))

	req.Header.Set("Referer", "http://example.com/consultations?page=3")
	assert.Equal(t, "/consultations?page=3", backTo(req, "/consultations"))
}
