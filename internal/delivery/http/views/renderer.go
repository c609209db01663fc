package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"healthconsultant/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Page names accepted by Render.
const (
	PageHome            = "home"
	PagePatients        = "patients"
	PagePatientNew      = "patient_new"
	PageConsultations   = "consultations"
	PageConsultationNew = "consultation_new"
	PageError           = "error"
)

var pageNames = []string{PageHome, PagePatients, PagePatientNew, PageConsultations, PageConsultationNew, PageError}

// Renderer executes the embedded page templates. Each page is parsed together
// with the layout and the shared partials.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Local().Format("2 Jan 2006, 15:04")
	},
	"ms": func(d time.Duration) int64 { return d.Milliseconds() },
	"paragraphs": func(s string) []string {
		var out []string
		for _, p := range strings.Split(s, "\n\n") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	},
}

// NewRenderer parses every page template. It fails on any template error so
// a broken template stops the server at startup.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes page name with data and the given status. The page is
// rendered to a buffer first so a template error never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// StaticHandler serves the embedded scripts and styles under prefix.
func StaticHandler(prefix string) http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix(prefix, http.FileServer(http.FS(sub)))
}

// Layout carries what every page needs.
type Layout struct {
	Title        string
	Nav          string // active nav entry
	PublicAPIURL string
}

// PaginationItem is one rendered entry of a pagination control.
type PaginationItem struct {
	Key      string
	Label    string
	Href     string
	Current  bool
	Ellipsis bool
}

// Pagination is the view model of a pagination control.
type Pagination struct {
	Visible      bool
	Items        []PaginationItem
	HasPrevious  bool
	HasNext      bool
	PreviousHref string
	NextHref     string
	CurrentPage  int
	TotalPages   int
}

// NewPagination turns page controls into links. link is the navigation sink:
// it maps a page number to the URL that shows it.
func NewPagination(c domain.PageControls, link func(page int) string) Pagination {
	p := Pagination{
		Visible:     c.Visible(),
		HasPrevious: c.HasPrevious,
		HasNext:     c.HasNext,
		CurrentPage: c.CurrentPage,
		TotalPages:  c.TotalPages,
		Items:       make([]PaginationItem, 0, len(c.Plan)),
	}
	if c.HasPrevious {
		p.PreviousHref = link(c.PreviousPage())
	}
	if c.HasNext {
		p.NextHref = link(c.NextPage())
	}
	for i, m := range c.Plan {
		item := PaginationItem{Key: m.Key(i), Label: m.String(), Ellipsis: m.IsEllipsis()}
		if !m.IsEllipsis() {
			item.Href = link(m.Page)
			item.Current = m.Page == c.CurrentPage
		}
		p.Items = append(p.Items, item)
	}
	return p
}

// HomePage is the data of the landing page.
type HomePage struct {
	Layout
	PatientCount      int
	ConsultationCount int
	Health            domain.HealthReport
	Unavailable       bool
}

// PatientsPage is the data of the patient list.
type PatientsPage struct {
	Layout
	Patients   []domain.Patient
	Total      int
	Pagination Pagination
}

// PatientFormPage is the data of the new patient form.
type PatientFormPage struct {
	Layout
	Input  domain.NewPatientInput
	Errors map[string][]string
	Today  string
}

// ConsultationsPage is the data of the consultation list.
type ConsultationsPage struct {
	Layout
	Consultations []domain.Consultation
	Total         int
	Patients      []domain.Patient
	PatientID     int64
	Pagination    Pagination
	PollInterval  time.Duration
}

// ConsultationFormPage is the data of the new consultation form.
type ConsultationFormPage struct {
	Layout
	Input    domain.NewConsultationInput
	Patients []domain.Patient
	Errors   map[string][]string
}

// ErrorPage is the data of the error page.
type ErrorPage struct {
	Layout
	Status  int
	Message string
}
