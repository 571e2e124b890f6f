package db

import (
	"context"
	"errors"
	"fmt"

	e "github.com/joblyhq/jobly/internal/board/errors"
	"github.com/joblyhq/jobly/internal/board/models"
	"github.com/joblyhq/jobly/internal/board/query"
	"gorm.io/gorm"
)

// CreateJob inserts a new job after verifying the referenced company
// exists. Check and insert run in one transaction so a concurrent
// company delete cannot slip between them; a failed creation writes
// zero rows.
func (r *Repository) CreateJob(ctx context.Context, job *models.Job) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		var count int64
		if err := tx.db.Model(&models.Company{}).
			Where("handle = ?", job.CompanyHandle).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: company doesn't exist: %q", e.ErrInvalidInput, job.CompanyHandle)
		}
		return tx.db.Create(job).Error
	})
}

// GetJob fetches a job by id.
func (r *Repository) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	var job models.Job
	result := r.db.WithContext(ctx).First(&job, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: job %d", e.ErrNotFound, id)
		}
		return nil, result.Error
	}
	return &job, nil
}

// ListJobs returns jobs matching the given filters joined with their
// company's display name, ordered by title.
func (r *Repository) ListJobs(ctx context.Context, filters map[string]string) ([]models.JobListing, error) {
	clause, args, err := query.JobPredicate(filters)
	if err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).Model(&models.Job{}).
		Select("jobs.id, jobs.title, jobs.salary, jobs.equity, jobs.company_handle, companies.name AS company_name").
		Joins("LEFT JOIN companies ON companies.handle = jobs.company_handle").
		Order("jobs.title")
	if clause != "" {
		q = q.Where(clause, args...)
	}

	listings := make([]models.JobListing, 0)
	if err := q.Scan(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// UpdateJob applies a partial update and returns the updated row. The
// id and company handle are not part of JobUpdate, so they can never
// reach the compiler.
func (r *Repository) UpdateJob(ctx context.Context, id int64, update *models.JobUpdate) (*models.Job, error) {
	set, args, err := query.SetClause(update.Fields(), nil)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Exec("UPDATE jobs SET "+set+" WHERE id = ?", append(args, id)...)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: job %d", e.ErrNotFound, id)
	}

	var job models.Job
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// DeleteJob removes a job by id.
func (r *Repository) DeleteJob(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Exec("DELETE FROM jobs WHERE id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: job %d", e.ErrNotFound, id)
	}
	return nil
}
