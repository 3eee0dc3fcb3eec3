package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/sixfigure-jobs/internal/db"
	"github.com/jonathan/sixfigure-jobs/internal/salary"
)

// JobResponse is a job with its rendered salary badge.
type JobResponse struct {
	db.Job
	SalaryText string `json:"salary_text,omitempty"`
}

// ListJobsResponse is the body of GET /jobs.
type ListJobsResponse struct {
	Jobs   []JobResponse `json:"jobs"`
	Count  int           `json:"count"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// NormalizeRequest is the body of POST /salary/normalize.
type NormalizeRequest struct {
	SalaryMin    *float64 `json:"salary_min,omitempty" validate:"omitempty,gte=0"`
	SalaryMax    *float64 `json:"salary_max,omitempty" validate:"omitempty,gte=0"`
	MinAnnual    *float64 `json:"min_annual,omitempty" validate:"omitempty,gte=0"`
	MaxAnnual    *float64 `json:"max_annual,omitempty" validate:"omitempty,gte=0"`
	Currency     string   `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
	CountryCode  string   `json:"country_code,omitempty" validate:"omitempty,len=2,alpha"`
	SalaryPeriod string   `json:"salary_period,omitempty" validate:"max=32"`
	SalaryRaw    string   `json:"salary_raw,omitempty" validate:"max=500"`
}

// Input converts the request to resolver input.
func (r *NormalizeRequest) Input() salary.Input {
	return salary.Input{
		SalaryMin:    r.SalaryMin,
		SalaryMax:    r.SalaryMax,
		MinAnnual:    r.MinAnnual,
		MaxAnnual:    r.MaxAnnual,
		Currency:     r.Currency,
		CountryCode:  r.CountryCode,
		SalaryPeriod: r.SalaryPeriod,
		SalaryRaw:    r.SalaryRaw,
	}
}

// BandsResponse describes one market's band table.
type BandsResponse struct {
	Country   string        `json:"country"`
	Currency  string        `json:"currency"`
	Threshold float64       `json:"threshold"`
	Bands     []salary.Band `json:"bands"`
	// Fallback is set when the country has no table of its own and the USD
	// table applies.
	Fallback bool `json:"fallback,omitempty"`
}

// handleHealth reports whether the job store is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListJobs lists jobs with salary filters.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := db.ListJobsOptions{
		Country:           q.Get("country"),
		Company:           q.Get("company"),
		Source:            q.Get("source"),
		Sort:              q.Get("sort"),
		HighSalaryOnly:    parseQueryBool(r, "high_salary"),
		LocalHundredKOnly: parseQueryBool(r, "local_100k"),
		Limit:             parseQueryInt(r, "limit", db.DefaultListLimit, db.MaxListLimit),
		Offset:            parseQueryInt(r, "offset", 0, 0),
	}

	if v := q.Get("minSalary"); v != "" {
		minSalary, err := strconv.ParseFloat(v, 64)
		if err != nil || minSalary < 0 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid minSalary")
			return
		}
		opts.MinSalary = &minSalary
	}
	if opts.Sort != "" && opts.Sort != db.SortSalary && opts.Sort != db.SortDate {
		s.errorResponse(w, http.StatusBadRequest, "Invalid sort: use salary or date")
		return
	}
	if opts.Country != "" && len(strings.TrimSpace(opts.Country)) != 2 {
		s.errorResponse(w, http.StatusBadRequest, "Invalid country: use an ISO 3166-1 alpha-2 code")
		return
	}

	jobs, total, err := s.store.ListJobs(r.Context(), opts)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	out := make([]JobResponse, len(jobs))
	for i := range jobs {
		out[i] = s.jobResponse(&jobs[i])
	}
	s.jsonResponse(w, http.StatusOK, ListJobsResponse{
		Jobs:   out,
		Count:  total,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
}

// handleGetJob retrieves a job by its ID
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := s.store.GetJobByID(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		err := &ErrNotFound{Resource: "job", ID: id.String()}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, s.jobResponse(job))
}

func (s *Server) jobResponse(job *db.Job) JobResponse {
	text, _ := s.salaries.BuildSalaryText(job.SalaryInput())
	return JobResponse{Job: *job, SalaryText: text}
}

// handleNormalize resolves, classifies and formats a salary record.
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req NormalizeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		verr := validationError(err)
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, s.salaries.Normalize(req.Input()))
}

// handleListBands lists every configured market.
func (s *Server) handleListBands(w http.ResponseWriter, _ *http.Request) {
	countries := s.salaries.Countries()
	out := make([]BandsResponse, 0, len(countries))
	for _, c := range countries {
		out = append(out, s.bandsFor(c))
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"markets": out, "count": len(out)})
}

// handleGetBands returns the table that applies to one country.
func (s *Server) handleGetBands(w http.ResponseWriter, r *http.Request) {
	country := strings.ToUpper(strings.TrimSpace(r.PathValue("country")))
	if len(country) != 2 {
		s.errorResponse(w, http.StatusBadRequest, "Invalid country: use an ISO 3166-1 alpha-2 code")
		return
	}
	s.jsonResponse(w, http.StatusOK, s.bandsFor(country))
}

func (s *Server) bandsFor(country string) BandsResponse {
	table := s.salaries.Lookup(country, salary.DefaultCurrency(country))
	known := false
	for _, c := range s.salaries.Countries() {
		if c == country {
			known = true
			break
		}
	}
	return BandsResponse{
		Country:   country,
		Currency:  table.Currency,
		Threshold: table.Threshold(),
		Bands:     table.Bands,
		Fallback:  !known,
	}
}

// parseQueryInt parses a non-negative integer query parameter, clamped to
// maxValue when maxValue is positive.
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	val, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

func parseQueryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}
