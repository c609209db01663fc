package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"healthconsultant/internal/delivery/http/helpers"
	"healthconsultant/internal/delivery/http/views"
	"healthconsultant/internal/domain"
)

// PageController serves the server-rendered HTML pages.
type PageController struct {
	Logger        *slog.Logger
	Renderer      *views.Renderer
	Patients      domain.PatientService
	Consultations domain.ConsultationService
	Summaries     domain.SummaryService
	Health        domain.HealthService
	Options       Options
}

func NewPageController(
	logger *slog.Logger,
	renderer *views.Renderer,
	patients domain.PatientService,
	consultations domain.ConsultationService,
	summaries domain.SummaryService,
	health domain.HealthService,
	opts Options,
) *PageController {
	return &PageController{
		Logger:        logger,
		Renderer:      renderer,
		Patients:      patients,
		Consultations: consultations,
		Summaries:     summaries,
		Health:        health,
		Options:       opts,
	}
}

func (c *PageController) layout(title, nav string) views.Layout {
	return views.Layout{Title: title, Nav: nav, PublicAPIURL: c.Options.PublicAPIURL}
}

func (c *PageController) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	if err := c.Renderer.Render(w, status, page, data); err != nil {
		c.Logger.ErrorContext(r.Context(), "render failed", "page", page, "path", r.URL.Path, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (c *PageController) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, _, message := helpers.ErrorStatus(err)
	if status >= http.StatusInternalServerError {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		message = "The record you asked for does not exist."
	}
	c.render(w, r, status, views.PageError, views.ErrorPage{
		Layout:  c.layout(http.StatusText(status), ""),
		Status:  status,
		Message: message,
	})
}

// NotFound renders the 404 page for unknown routes.
func (c *PageController) NotFound(w http.ResponseWriter, r *http.Request) {
	c.renderError(w, r, domain.ErrNotFound)
}

// Home shows totals and backend health. Backend failures degrade to zero counts.
func (c *PageController) Home(w http.ResponseWriter, r *http.Request) {
	probe := domain.PaginationParams{Page: 1, PageSize: 1}
	data := views.HomePage{Layout: c.layout("Home", ""), Health: c.Health.Report()}

	patients, err := c.Patients.List(r.Context(), domain.PatientQuery{PaginationParams: probe})
	if err != nil {
		c.Logger.WarnContext(r.Context(), "home: count patients failed", "err", err)
		data.Unavailable = true
	}
	consultations, err := c.Consultations.List(r.Context(), domain.ConsultationQuery{PaginationParams: probe})
	if err != nil {
		c.Logger.WarnContext(r.Context(), "home: count consultations failed", "err", err)
		data.Unavailable = true
	}
	data.PatientCount = patients.Total
	data.ConsultationCount = consultations.Total
	c.render(w, r, http.StatusOK, views.PageHome, data)
}

func (c *PageController) pagination(r *http.Request, params domain.PaginationParams, total int) views.Pagination {
	controls := domain.NewPageControls(params.Page, domain.TotalPages(total, params.PageSize), c.Options.NeighborRadius)
	return views.NewPagination(controls, helpers.PageLinker(r.URL))
}

// ListPatients renders one page of the patient table.
func (c *PageController) ListPatients(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r, c.Options.PageSize)
	page, err := c.Patients.List(r.Context(), domain.PatientQuery{PaginationParams: params})
	if err != nil {
		c.renderError(w, r, err)
		return
	}
	c.render(w, r, http.StatusOK, views.PagePatients, views.PatientsPage{
		Layout:     c.layout("Patients", "patients"),
		Patients:   page.Items,
		Total:      page.Total,
		Pagination: c.pagination(r, params, page.Total),
	})
}

// NewPatientForm renders an empty patient form.
func (c *PageController) NewPatientForm(w http.ResponseWriter, r *http.Request) {
	c.renderPatientForm(w, r, http.StatusOK, domain.NewPatientInput{}, nil)
}

func (c *PageController) renderPatientForm(w http.ResponseWriter, r *http.Request, status int, in domain.NewPatientInput, fields map[string][]string) {
	c.render(w, r, status, views.PagePatientNew, views.PatientFormPage{
		Layout: c.layout("New patient", "patients"),
		Input:  in,
		Errors: fields,
		Today:  time.Now().Format(domain.DateLayout),
	})
}

// CreatePatient handles the patient form. Validation errors re-render the
// form with the submitted values; success redirects to the list.
func (c *PageController) CreatePatient(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		c.renderPatientForm(w, r, http.StatusBadRequest, domain.NewPatientInput{}, map[string][]string{"detail": {"The form could not be read."}})
		return
	}
	in := domain.NewPatientInput{
		FullName:    r.PostForm.Get("full_name"),
		DateOfBirth: r.PostForm.Get("date_of_birth"),
		Email:       r.PostForm.Get("email"),
	}
	if _, err := c.Patients.Create(r.Context(), in); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			c.renderPatientForm(w, r, http.StatusBadRequest, in, verr.Fields)
			return
		}
		c.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/patients", http.StatusSeeOther)
}

// ListConsultations renders one page of consultations, optionally filtered
// by patient. Page links keep the filter; changing the filter starts over at page 1.
func (c *PageController) ListConsultations(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r, c.Options.PageSize)
	patientID, ok := patientFilter(r)
	if !ok {
		c.renderError(w, r, domain.NewValidationError(map[string][]string{"patient": {"Select a valid patient."}}))
		return
	}
	page, err := c.Consultations.List(r.Context(), domain.ConsultationQuery{PaginationParams: params, PatientID: patientID})
	if err != nil {
		c.renderError(w, r, err)
		return
	}
	c.render(w, r, http.StatusOK, views.PageConsultations, views.ConsultationsPage{
		Layout:        c.layout("Consultations", "consultations"),
		Consultations: page.Items,
		Total:         page.Total,
		Patients:      c.directory(r),
		PatientID:     patientID,
		Pagination:    c.pagination(r, params, page.Total),
		PollInterval:  c.Options.PollInterval,
	})
}

// directory loads the patient picker; a failure only costs the picker.
func (c *PageController) directory(r *http.Request) []domain.Patient {
	patients, err := c.Patients.Directory(r.Context())
	if err != nil {
		c.Logger.WarnContext(r.Context(), "patient directory unavailable", "err", err)
		return nil
	}
	return patients
}

// NewConsultationForm renders an empty consultation form; ?patient= preselects one.
func (c *PageController) NewConsultationForm(w http.ResponseWriter, r *http.Request) {
	patientID, _ := patientFilter(r)
	c.renderConsultationForm(w, r, http.StatusOK, domain.NewConsultationInput{PatientID: patientID}, nil)
}

func (c *PageController) renderConsultationForm(w http.ResponseWriter, r *http.Request, status int, in domain.NewConsultationInput, fields map[string][]string) {
	c.render(w, r, status, views.PageConsultationNew, views.ConsultationFormPage{
		Layout:   c.layout("New consultation", "consultations"),
		Input:    in,
		Patients: c.directory(r),
		Errors:   fields,
	})
}

// CreateConsultation handles the consultation form.
func (c *PageController) CreateConsultation(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		c.renderConsultationForm(w, r, http.StatusBadRequest, domain.NewConsultationInput{}, map[string][]string{"detail": {"The form could not be read."}})
		return
	}
	in := domain.NewConsultationInput{
		Symptoms:  r.PostForm.Get("symptoms"),
		Diagnosis: r.PostForm.Get("diagnosis"),
	}
	in.PatientID, _ = strconv.ParseInt(strings.TrimSpace(r.PostForm.Get("patient")), 10, 64)

	created, err := c.Consultations.Create(r.Context(), in)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			c.renderConsultationForm(w, r, http.StatusBadRequest, in, verr.Fields)
			return
		}
		c.renderError(w, r, err)
		return
	}
	target := url.URL{Path: "/consultations", RawQuery: url.Values{"patient": {strconv.FormatInt(created.PatientID, 10)}}.Encode()}
	http.Redirect(w, r, target.String(), http.StatusSeeOther)
}

// GenerateSummary is the no-script fallback of the summary button: it
// triggers generation and sends the browser back where it came from.
func (c *PageController) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		c.renderError(w, r, domain.ErrNotFound)
		return
	}
	if _, err := c.Summaries.Trigger(r.Context(), id); err != nil {
		c.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, backTo(r, "/consultations")+"#consultation-"+strconv.FormatInt(id, 10), http.StatusSeeOther)
}

// backTo returns the path and query of a same-host Referer, or fallback.
func backTo(r *http.Request, fallback string) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return fallback
	}
	u := url.URL{Path: ref.Path, RawQuery: ref.RawQuery}
	return u.String()
}
