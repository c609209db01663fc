package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"healthconsultant/internal/delivery/http/helpers"
	"healthconsultant/internal/domain"
)

// APIController serves the JSON API used by browser scripts and other clients.
type APIController struct {
	Logger        *slog.Logger
	Patients      domain.PatientService
	Consultations domain.ConsultationService
	Summaries     domain.SummaryService
	Health        domain.HealthService
	Options       Options
}

func NewAPIController(
	logger *slog.Logger,
	patients domain.PatientService,
	consultations domain.ConsultationService,
	summaries domain.SummaryService,
	health domain.HealthService,
	opts Options,
) *APIController {
	return &APIController{
		Logger:        logger,
		Patients:      patients,
		Consultations: consultations,
		Summaries:     summaries,
		Health:        health,
		Options:       opts,
	}
}

// PatientList is one page of patients plus pagination metadata.
type PatientList struct {
	Items      []domain.Patient       `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// PatientListSuccessResponse is the success response envelope for GET /api/patients (200).
type PatientListSuccessResponse struct {
	Data  PatientList       `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListPatients godoc
// @Summary List patients
// @Description Returns one page of patients. The pagination object carries the page window to render, with ellipsis markers, and the previous/next affordances.
// @Tags patients
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 10, max 50)"
// @Success 200 {object} controllers.PatientListSuccessResponse
// @Failure 502 {object} helpers.APIResponse "error.code: upstream_error"
// @Router /api/patients [get]
func (c *APIController) ListPatients(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r, c.Options.PageSize)
	page, err := c.Patients.List(r.Context(), domain.PatientQuery{PaginationParams: params})
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, PatientList{
		Items:      page.Items,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, page.Total, c.Options.NeighborRadius),
	})
}

// CreatePatientRequest is the request body for POST /api/patients.
type CreatePatientRequest struct {
	FullName    string `json:"full_name"`
	DateOfBirth string `json:"date_of_birth"`
	Email       string `json:"email"`
}

// Validate implements Validator. Format rules are checked by the patient service.
func (req CreatePatientRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(req.FullName) == "" {
		errs = append(errs, "full_name is required")
	}
	if strings.TrimSpace(req.DateOfBirth) == "" {
		errs = append(errs, "date_of_birth is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, "email is required")
	}
	return errs
}

// CreatePatient godoc
// @Summary Register a patient
// @Description Emails are stored lower-cased and must be unique. Field errors come back in error.fields.
// @Tags patients
// @Accept json
// @Produce json
// @Param patient body CreatePatientRequest true "Patient data"
// @Success 201 {object} helpers.APIResponse "data contains the created patient"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 502 {object} helpers.APIResponse "error.code: upstream_error"
// @Router /api/patients [post]
func (c *APIController) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req CreatePatientRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.Patients.Create(r.Context(), domain.NewPatientInput{
		FullName:    req.FullName,
		DateOfBirth: req.DateOfBirth,
		Email:       req.Email,
	})
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, p)
}

// PatientDirectory godoc
// @Summary List every patient
// @Description Unpaginated patient list for pickers and filters. Served from cache when available.
// @Tags patients
// @Produce json
// @Success 200 {object} helpers.APIResponse "data is an array of patients"
// @Failure 502 {object} helpers.APIResponse "error.code: upstream_error"
// @Router /api/patients/directory [get]
func (c *APIController) PatientDirectory(w http.ResponseWriter, r *http.Request) {
	patients, err := c.Patients.Directory(r.Context())
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, patients)
}

// ConsultationList is one page of consultations plus pagination metadata.
type ConsultationList struct {
	Items      []domain.Consultation  `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ConsultationListSuccessResponse is the success response envelope for GET /api/consultations (200).
type ConsultationListSuccessResponse struct {
	Data  ConsultationList  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListConsultations godoc
// @Summary List consultations
// @Description Returns one page of consultations, newest first, optionally for one patient. A page past the end returns no items but the real total.
// @Tags consultations
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 10, max 50)"
// @Param patient query int false "Patient ID filter"
// @Success 200 {object} controllers.ConsultationListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 502 {object} helpers.APIResponse "error.code: upstream_error"
// @Router /api/consultations [get]
func (c *APIController) ListConsultations(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r, c.Options.PageSize)
	patientID, ok := patientFilter(r)
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "patient must be a positive integer")
		return
	}
	page, err := c.Consultations.List(r.Context(), domain.ConsultationQuery{PaginationParams: params, PatientID: patientID})
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ConsultationList{
		Items:      page.Items,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, page.Total, c.Options.NeighborRadius),
	})
}

// CreateConsultationRequest is the request body for POST /api/consultations.
type CreateConsultationRequest struct {
	PatientID int64  `json:"patient"`
	Symptoms  string `json:"symptoms"`
	Diagnosis string `json:"diagnosis"`
}

// Validate implements Validator.
func (req CreateConsultationRequest) Validate() []string {
	var errs []string
	if req.PatientID <= 0 {
		errs = append(errs, "patient is required")
	}
	if strings.TrimSpace(req.Symptoms) == "" {
		errs = append(errs, "symptoms is required")
	}
	return errs
}

// CreateConsultation godoc
// @Summary Record a consultation
// @Tags consultations
// @Accept json
// @Produce json
// @Param consultation body CreateConsultationRequest true "Consultation data"
// @Success 201 {object} helpers.APIResponse "data contains the created consultation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 502 {object} helpers.APIResponse "error.code: upstream_error"
// @Router /api/consultations [post]
func (c *APIController) CreateConsultation(w http.ResponseWriter, r *http.Request) {
	var req CreateConsultationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	created, err := c.Consultations.Create(r.Context(), domain.NewConsultationInput{
		PatientID: req.PatientID,
		Symptoms:  req.Symptoms,
		Diagnosis: req.Diagnosis,
	})
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, created)
}

// GetConsultation godoc
// @Summary Get a consultation
// @Tags consultations
// @Produce json
// @Param id path int true "Consultation ID"
// @Success 200 {object} helpers.APIResponse "data contains the consultation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/consultations/{id} [get]
func (c *APIController) GetConsultation(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid consultation id")
		return
	}
	cons, err := c.Consultations.Get(r.Context(), id)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, cons)
}

// GenerateSummary godoc
// @Summary Generate the AI summary of a consultation
// @Description Answers 200 with the consultation when the summary is ready at once, or 202 when generation was queued; poll the summary endpoint afterwards. Rate limited per client.
// @Tags summaries
// @Produce json
// @Param id path int true "Consultation ID"
// @Success 200 {object} helpers.APIResponse "data.ready is true"
// @Success 202 {object} helpers.APIResponse "data.ready is false"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (blank symptoms)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /api/consultations/{id}/generate-summary [post]
func (c *APIController) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid consultation id")
		return
	}
	trig, err := c.Summaries.Trigger(r.Context(), id)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	status := http.StatusAccepted
	if trig.Ready {
		status = http.StatusOK
	}
	helpers.WriteJSONSuccess(w, status, trig)
}

// SummaryStatus godoc
// @Summary Get the summary status of a consultation
// @Description With wait=true the request is held until the summary exists or the server's wait timeout passes.
// @Tags summaries
// @Produce json
// @Param id path int true "Consultation ID"
// @Param wait query bool false "Long-poll until ready"
// @Success 200 {object} helpers.APIResponse "data contains consultation_id, ready and ai_summary"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/consultations/{id}/summary [get]
func (c *APIController) SummaryStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid consultation id")
		return
	}
	var st *domain.SummaryStatus
	if wait := r.URL.Query().Get("wait"); wait == "true" || wait == "1" {
		st, err = c.Summaries.Await(r.Context(), id)
	} else {
		st, err = c.Summaries.Status(r.Context(), id)
	}
	if err != nil {
		if r.Context().Err() != nil {
			// client went away
			return
		}
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, st)
}

// HealthCheck godoc
// @Summary Service health
// @Description Reports the result of the last background probe of the consultation API. Degraded answers 503.
// @Tags ops
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the health report"
// @Failure 503 {object} helpers.APIResponse "data contains the health report"
// @Router /health [get]
func (c *APIController) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := c.Health.Report()
	status := http.StatusOK
	if report.Status == domain.HealthStatusDegraded {
		status = http.StatusServiceUnavailable
	}
	helpers.WriteJSONSuccess(w, status, report)
}
