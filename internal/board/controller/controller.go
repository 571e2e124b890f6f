// Package controller implements the business logic (service layer) for
// companies and jobs, orchestrating repository operations and sending
// mutation events.
package controller

import (
	"context"
	"fmt"
	"strconv"

	e "github.com/joblyhq/jobly/internal/board/errors"
	"github.com/joblyhq/jobly/internal/board/events"
	"github.com/joblyhq/jobly/internal/board/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	maxHandleLen = 25
	maxNameLen   = 100
)

type EventProducer interface {
	Produce(eventType events.EventType, key string, payload any)
}

// CompanyStore defines the storage interface for companies.
type CompanyStore interface {
	CreateCompany(ctx context.Context, company *models.Company) error
	ListCompanies(ctx context.Context, filters map[string]string) ([]models.Company, error)
	GetCompany(ctx context.Context, handle string) (*models.CompanyDetail, error)
	UpdateCompany(ctx context.Context, handle string, update *models.CompanyUpdate) (*models.Company, error)
	DeleteCompany(ctx context.Context, handle string) error
}

// JobStore defines the storage interface for jobs.
type JobStore interface {
	CreateJob(ctx context.Context, job *models.Job) error
	ListJobs(ctx context.Context, filters map[string]string) ([]models.JobListing, error)
	GetJob(ctx context.Context, id int64) (*models.Job, error)
	UpdateJob(ctx context.Context, id int64, update *models.JobUpdate) (*models.Job, error)
	DeleteJob(ctx context.Context, id int64) error
}

// CompanyService provides methods to manage companies via repository
// operations and event production.
type CompanyService struct {
	store    CompanyStore
	producer EventProducer
	logger   *zap.Logger
}

func NewCompanyService(store CompanyStore, producer EventProducer, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		store:    store,
		producer: producer,
		logger:   logger.Named("company_service"),
	}
}

// CreateCompany adds a new company after validating input data.
// Handle uniqueness is enforced by the store's constraint.
func (s *CompanyService) CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error) {
	if company.Handle == "" || len(company.Handle) > maxHandleLen {
		return nil, fmt.Errorf("%w: invalid handle", e.ErrInvalidInput)
	}
	if company.Name == "" || len(company.Name) > maxNameLen {
		return nil, fmt.Errorf("%w: invalid name", e.ErrInvalidInput)
	}
	if company.NumEmployees != nil && *company.NumEmployees < 0 {
		return nil, fmt.Errorf("%w: numEmployees must be non-negative", e.ErrInvalidInput)
	}

	if err := s.store.CreateCompany(ctx, company); err != nil {
		return nil, err
	}
	go func() {
		s.producer.Produce(events.CompanyCreated, company.Handle, company)
	}()
	return company, nil
}

// ListCompanies returns companies matching the filters; validation of
// filter names and values happens in the predicate builder.
func (s *CompanyService) ListCompanies(ctx context.Context, filters map[string]string) ([]models.Company, error) {
	return s.store.ListCompanies(ctx, filters)
}

// GetCompany retrieves a company by handle with its jobs attached.
func (s *CompanyService) GetCompany(ctx context.Context, handle string) (*models.CompanyDetail, error) {
	return s.store.GetCompany(ctx, handle)
}

// UpdateCompany applies a partial update and fires an event with the
// updated record.
func (s *CompanyService) UpdateCompany(ctx context.Context, handle string, update *models.CompanyUpdate) (*models.Company, error) {
	if update.NumEmployees != nil && *update.NumEmployees < 0 {
		return nil, fmt.Errorf("%w: numEmployees must be non-negative", e.ErrInvalidInput)
	}
	if update.Name != nil && (*update.Name == "" || len(*update.Name) > maxNameLen) {
		return nil, fmt.Errorf("%w: invalid name", e.ErrInvalidInput)
	}

	updated, err := s.store.UpdateCompany(ctx, handle, update)
	if err != nil {
		return nil, err
	}
	go func() {
		s.producer.Produce(events.CompanyUpdated, handle, updated)
	}()
	return updated, nil
}

// DeleteCompany removes a company, cascading to its jobs, and fires a
// deletion event carrying the last known record.
func (s *CompanyService) DeleteCompany(ctx context.Context, handle string) error {
	company, err := s.store.GetCompany(ctx, handle)
	if err != nil {
		return err
	}

	if err := s.store.DeleteCompany(ctx, handle); err != nil {
		return err
	}

	go func() {
		s.producer.Produce(events.CompanyDeleted, handle, company)
	}()
	return nil
}

// JobService provides methods to manage jobs.
type JobService struct {
	store    JobStore
	producer EventProducer
	logger   *zap.Logger
}

func NewJobService(store JobStore, producer EventProducer, logger *zap.Logger) *JobService {
	return &JobService{
		store:    store,
		producer: producer,
		logger:   logger.Named("job_service"),
	}
}

// CreateJob adds a new job after validating input data. The referenced
// company's existence is verified by the store inside the insert
// transaction.
func (s *JobService) CreateJob(ctx context.Context, job *models.Job) (*models.Job, error) {
	if job.Title == "" || len(job.Title) > maxNameLen {
		return nil, fmt.Errorf("%w: invalid title", e.ErrInvalidInput)
	}
	if job.CompanyHandle == "" {
		return nil, fmt.Errorf("%w: companyHandle is required", e.ErrInvalidInput)
	}
	if job.Salary != nil && *job.Salary < 0 {
		return nil, fmt.Errorf("%w: salary must be non-negative", e.ErrInvalidInput)
	}
	if err := validEquity(job.Equity); err != nil {
		return nil, err
	}

	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	go func() {
		s.producer.Produce(events.JobCreated, strconv.FormatInt(job.ID, 10), job)
	}()
	return job, nil
}

// ListJobs returns jobs matching the filters, joined with company
// names.
func (s *JobService) ListJobs(ctx context.Context, filters map[string]string) ([]models.JobListing, error) {
	return s.store.ListJobs(ctx, filters)
}

// GetJob retrieves a job by id.
func (s *JobService) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	return s.store.GetJob(ctx, id)
}

// UpdateJob applies a partial update to a job's mutable fields.
func (s *JobService) UpdateJob(ctx context.Context, id int64, update *models.JobUpdate) (*models.Job, error) {
	if update.Title != nil && (*update.Title == "" || len(*update.Title) > maxNameLen) {
		return nil, fmt.Errorf("%w: invalid title", e.ErrInvalidInput)
	}
	if update.Salary != nil && *update.Salary < 0 {
		return nil, fmt.Errorf("%w: salary must be non-negative", e.ErrInvalidInput)
	}
	if err := validEquity(update.Equity); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateJob(ctx, id, update)
	if err != nil {
		return nil, err
	}
	go func() {
		s.producer.Produce(events.JobUpdated, strconv.FormatInt(id, 10), updated)
	}()
	return updated, nil
}

// DeleteJob removes a job by id.
func (s *JobService) DeleteJob(ctx context.Context, id int64) error {
	if err := s.store.DeleteJob(ctx, id); err != nil {
		return err
	}
	go func() {
		s.producer.Produce(events.JobDeleted, strconv.FormatInt(id, 10), nil)
	}()
	return nil
}

// validEquity accepts nil or a decimal in [0, 1].
func validEquity(equity *decimal.Decimal) error {
	if equity == nil {
		return nil
	}
	if equity.IsNegative() || equity.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: equity must be between 0 and 1, got %s", e.ErrInvalidInput, equity)
	}
	return nil
}
