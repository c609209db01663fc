package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// Options are the presentation settings shared by the controllers.
type Options struct {
	PageSize       int
	NeighborRadius int
	PublicAPIURL   string
	PollInterval   time.Duration
}

var errInvalidID = errors.New("invalid id")

// idParam reads a positive integer URL parameter.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// patientFilter reads ?patient=. Empty means no filter; anything that is not
// a positive integer is reported as invalid.
func patientFilter(r *http.Request) (int64, bool) {
	s := strings.TrimSpace(r.URL.Query().Get("patient"))
	if s == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
