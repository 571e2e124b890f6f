// Package handlers exposes the REST surface for companies and jobs,
// bridging HTTP requests to the service layer and translating domain
// errors to status codes.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	e "github.com/joblyhq/jobly/internal/board/errors"
	"github.com/joblyhq/jobly/internal/board/models"
	"go.uber.org/zap"
)

// CompanyController defines the business logic the handlers invoke.
type CompanyController interface {
	CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error)
	ListCompanies(ctx context.Context, filters map[string]string) ([]models.Company, error)
	GetCompany(ctx context.Context, handle string) (*models.CompanyDetail, error)
	UpdateCompany(ctx context.Context, handle string, update *models.CompanyUpdate) (*models.Company, error)
	DeleteCompany(ctx context.Context, handle string) error
}

// JobController defines the business logic the handlers invoke.
type JobController interface {
	CreateJob(ctx context.Context, job *models.Job) (*models.Job, error)
	ListJobs(ctx context.Context, filters map[string]string) ([]models.JobListing, error)
	GetJob(ctx context.Context, id int64) (*models.Job, error)
	UpdateJob(ctx context.Context, id int64, update *models.JobUpdate) (*models.Job, error)
	DeleteJob(ctx context.Context, id int64) error
}

type Handler struct {
	companies CompanyController
	jobs      JobController
	logger    *zap.Logger
}

func NewHandler(companies CompanyController, jobs JobController, logger *zap.Logger) *Handler {
	return &Handler{
		companies: companies,
		jobs:      jobs,
		logger:    logger.Named("http_handler"),
	}
}

// Routes registers the REST surface on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /companies", h.createCompany)
	mux.HandleFunc("GET /companies", h.listCompanies)
	mux.HandleFunc("GET /companies/{handle}", h.getCompany)
	mux.HandleFunc("PATCH /companies/{handle}", h.updateCompany)
	mux.HandleFunc("DELETE /companies/{handle}", h.deleteCompany)

	mux.HandleFunc("POST /jobs", h.createJob)
	mux.HandleFunc("GET /jobs", h.listJobs)
	mux.HandleFunc("GET /jobs/{id}", h.getJob)
	mux.HandleFunc("PATCH /jobs/{id}", h.updateJob)
	mux.HandleFunc("DELETE /jobs/{id}", h.deleteJob)

	return mux
}

func (h *Handler) createCompany(w http.ResponseWriter, r *http.Request) {
	var company models.Company
	if err := decodeBody(r, &company); err != nil {
		h.writeError(w, err)
		return
	}

	created, err := h.companies.CreateCompany(r.Context(), &company)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]any{"company": created})
}

func (h *Handler) listCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.companies.ListCompanies(r.Context(), queryFilters(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"companies": companies})
}

func (h *Handler) getCompany(w http.ResponseWriter, r *http.Request) {
	company, err := h.companies.GetCompany(r.Context(), r.PathValue("handle"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"company": company})
}

func (h *Handler) updateCompany(w http.ResponseWriter, r *http.Request) {
	var update models.CompanyUpdate
	if err := decodeBody(r, &update); err != nil {
		h.writeError(w, err)
		return
	}

	updated, err := h.companies.UpdateCompany(r.Context(), r.PathValue("handle"), &update)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"company": updated})
}

func (h *Handler) deleteCompany(w http.ResponseWriter, r *http.Request) {
	handle := r.PathValue("handle")
	if err := h.companies.DeleteCompany(r.Context(), handle); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"deleted": handle})
}

func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	var job models.Job
	if err := decodeBody(r, &job); err != nil {
		h.writeError(w, err)
		return
	}
	if job.ID != 0 {
		h.writeError(w, fmt.Errorf("%w: id is assigned by the server", e.ErrInvalidInput))
		return
	}

	created, err := h.jobs.CreateJob(r.Context(), &job)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]any{"job": created})
}

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.ListJobs(r.Context(), queryFilters(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	job, err := h.jobs.GetJob(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"job": job})
}

func (h *Handler) updateJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	// JobUpdate has no id or companyHandle field, and unknown body keys
	// are rejected by the decoder, so immutable fields can never reach
	// the update compiler.
	var update models.JobUpdate
	if err := decodeBody(r, &update); err != nil {
		h.writeError(w, err)
		return
	}

	updated, err := h.jobs.UpdateJob(r.Context(), id, &update)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"job": updated})
}

func (h *Handler) deleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.jobs.DeleteJob(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// queryFilters collects the present query parameters. Recognition and
// validation of names and values belong to the predicate builder.
func queryFilters(r *http.Request) map[string]string {
	filters := make(map[string]string)
	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			filters[name] = values[0]
		}
	}
	return filters
}

func jobID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: job id must be an integer", e.ErrInvalidInput)
	}
	return id, nil
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", e.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError maps domain errors to status codes. Unknown errors are
// store failures: logged with detail, surfaced opaquely as 500.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var status int
	message := err.Error()
	switch {
	case errors.Is(err, e.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, e.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, e.ErrDuplicateHandle):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
		message = "internal server error"
		h.logger.Error("unexpected error", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": message,
			"status":  status,
		},
	})
}
