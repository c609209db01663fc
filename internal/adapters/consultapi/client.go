package consultapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"healthconsultant/internal/domain"
	"healthconsultant/internal/metrics"
)

var tracer = otel.Tracer("healthconsultant.internal.adapters.consultapi")

// MaxPageSize is the largest page_size the consultation API accepts.
const MaxPageSize = 50

const maxErrorBody = 1 << 20

type listEnvelope[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

type detailBody struct {
	Detail string `json:"detail"`
}

type consultAPIClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewClient returns a ConsultationAPI speaking to the REST backend at baseURL
// (e.g. http://localhost:8000/api). timeout bounds each call.
func NewClient(baseURL string, timeout time.Duration, client *http.Client, logger *slog.Logger) domain.ConsultationAPI {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &consultAPIClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		timeout: timeout,
		logger:  logger,
	}
}

type call struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	// notFound replaces the generic upstream error on 404; nil keeps it.
	notFound error
}

func (c *consultAPIClient) ListPatients(ctx context.Context, q domain.PatientQuery) (domain.Page[domain.Patient], error) {
	var env listEnvelope[domain.Patient]
	if _, err := c.do(ctx, call{
		op:       "list_patients",
		method:   http.MethodGet,
		path:     "/patients/",
		query:    pageQuery(q.PaginationParams),
		notFound: pageNotFound(q.Page),
	}, &env); err != nil {
		return domain.Page[domain.Patient]{}, err
	}
	return domain.Page[domain.Patient]{Items: nonNil(env.Results), Total: env.Count}, nil
}

func (c *consultAPIClient) ListAllPatients(ctx context.Context) ([]domain.Patient, error) {
	var all []domain.Patient
	for page := 1; ; page++ {
		var env listEnvelope[domain.Patient]
		if _, err := c.do(ctx, call{
			op:     "list_patients",
			method: http.MethodGet,
			path:   "/patients/",
			query:  pageQuery(domain.PaginationParams{Page: page, PageSize: MaxPageSize}),
		}, &env); err != nil {
			return nil, fmt.Errorf("failed to list patients page %d: %w", page, err)
		}
		all = append(all, env.Results...)
		if env.Next == nil || len(env.Results) == 0 {
			break
		}
	}
	return nonNil(all), nil
}

func (c *consultAPIClient) CreatePatient(ctx context.Context, in domain.NewPatientInput) (*domain.Patient, error) {
	var p domain.Patient
	if _, err := c.do(ctx, call{op: "create_patient", method: http.MethodPost, path: "/patients/", body: in}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *consultAPIClient) ListConsultations(ctx context.Context, q domain.ConsultationQuery) (domain.Page[domain.Consultation], error) {
	query := pageQuery(q.PaginationParams)
	if q.PatientID > 0 {
		query.Set("patient", strconv.FormatInt(q.PatientID, 10))
	}
	var env listEnvelope[domain.Consultation]
	if _, err := c.do(ctx, call{
		op:       "list_consultations",
		method:   http.MethodGet,
		path:     "/consultations/",
		query:    query,
		notFound: pageNotFound(q.Page),
	}, &env); err != nil {
		return domain.Page[domain.Consultation]{}, err
	}
	return domain.Page[domain.Consultation]{Items: nonNil(env.Results), Total: env.Count}, nil
}

func (c *consultAPIClient) GetConsultation(ctx context.Context, id int64) (*domain.Consultation, error) {
	var out domain.Consultation
	if _, err := c.do(ctx, call{
		op:       "get_consultation",
		method:   http.MethodGet,
		path:     "/consultations/" + strconv.FormatInt(id, 10) + "/",
		notFound: domain.ErrNotFound,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *consultAPIClient) CreateConsultation(ctx context.Context, in domain.NewConsultationInput) (*domain.Consultation, error) {
	var out domain.Consultation
	if _, err := c.do(ctx, call{op: "create_consultation", method: http.MethodPost, path: "/consultations/", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateSummary asks the backend for a summary. A 200 carries the updated
// consultation; a 202 means the work was queued and only a detail comes back.
func (c *consultAPIClient) GenerateSummary(ctx context.Context, id int64) (*domain.SummaryTrigger, error) {
	var raw json.RawMessage
	status, err := c.do(ctx, call{
		op:       "generate_summary",
		method:   http.MethodPost,
		path:     "/consultations/" + strconv.FormatInt(id, 10) + "/generate-summary/",
		notFound: domain.ErrNotFound,
	}, &raw)
	if err != nil {
		return nil, err
	}
	if status == http.StatusAccepted {
		var d detailBody
		_ = json.Unmarshal(raw, &d)
		return &domain.SummaryTrigger{Ready: false, Detail: d.Detail}, nil
	}
	var cons domain.Consultation
	if err := json.Unmarshal(raw, &cons); err != nil {
		return nil, fmt.Errorf("failed to decode summary response: %w", err)
	}
	return &domain.SummaryTrigger{Ready: cons.HasSummary(), Consultation: &cons}, nil
}

// Ping fetches the smallest possible patient page.
func (c *consultAPIClient) Ping(ctx context.Context) error {
	var env listEnvelope[json.RawMessage]
	_, err := c.do(ctx, call{
		op:     "ping",
		method: http.MethodGet,
		path:   "/patients/",
		query:  url.Values{"page_size": {"1"}},
	}, &env)
	return err
}

func (c *consultAPIClient) do(ctx context.Context, cl call, out any) (status int, err error) {
	ctx, span := tracer.Start(ctx, "consultapi."+cl.op)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", cl.method),
		attribute.String("consultapi.path", cl.path),
	)

	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = outcomeOf(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		metrics.UpstreamRequestTotals.WithLabelValues(cl.op, outcome).Inc()
		metrics.UpstreamRequestDuration.WithLabelValues(cl.op).Observe(time.Since(start).Seconds())
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}
	var body io.Reader
	if cl.body != nil {
		buf, err := json.Marshal(cl.body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.RequestIDHeader, requestID(ctx))

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to call consultation api: %w", err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		err := mapStatus(resp.StatusCode, raw, cl.notFound)
		c.logger.DebugContext(ctx, "consultation api error", "op", cl.op, "status", resp.StatusCode, "err", err)
		return resp.StatusCode, err
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode %s response: %w", cl.op, err)
	}
	return resp.StatusCode, nil
}

// mapStatus converts a non-2xx response into a domain error.
func mapStatus(status int, raw []byte, notFound error) error {
	switch {
	case status == http.StatusBadRequest:
		return domain.NewValidationError(parseFieldErrors(raw))
	case status == http.StatusNotFound && notFound != nil:
		if d := parseDetail(raw); d != "" {
			return fmt.Errorf("%w: %s", notFound, d)
		}
		return notFound
	case status == http.StatusServiceUnavailable:
		if d := parseDetail(raw); d != "" {
			return fmt.Errorf("%w: %s", domain.ErrSummaryUnavailable, d)
		}
		return domain.ErrSummaryUnavailable
	default:
		return &domain.StatusError{StatusCode: status, Detail: parseDetail(raw)}
	}
}

// parseFieldErrors reads a DRF error body: {"field": ["msg", ...]} or {"detail": "msg"}.
func parseFieldErrors(raw []byte) map[string][]string {
	fields := make(map[string][]string)
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		fields["detail"] = []string{"The consultation API rejected the request."}
		return fields
	}
	for k, v := range body {
		var list []string
		if err := json.Unmarshal(v, &list); err == nil {
			fields[k] = list
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			fields[k] = []string{s}
		}
	}
	if len(fields) == 0 {
		fields["detail"] = []string{"The consultation API rejected the request."}
	}
	return fields
}

func parseDetail(raw []byte) string {
	var d detailBody
	if err := json.Unmarshal(raw, &d); err != nil {
		return ""
	}
	return d.Detail
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrPageOutOfRange):
		return "not_found"
	case errors.Is(err, domain.ErrSummaryUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

func pageQuery(p domain.PaginationParams) url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(p.PageSize))
	}
	return q
}

// The backend answers 404 "Invalid page." past the last page.
func pageNotFound(page int) error {
	if page > 1 {
		return domain.ErrPageOutOfRange
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
