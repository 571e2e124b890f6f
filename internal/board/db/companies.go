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

// companyColumns translates external field names to their columns for
// partial updates.
var companyColumns = map[string]string{
	"numEmployees": "num_employees",
	"logoUrl":      "logo_url",
}

// CreateCompany inserts a new company. Uniqueness of the handle is
// enforced by the primary-key constraint in a single statement, so two
// concurrent creations of the same handle cannot both succeed; the
// constraint violation is translated to ErrDuplicateHandle.
func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	result := r.db.WithContext(ctx).Create(company)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: company %q", e.ErrDuplicateHandle, company.Handle)
		}
		return result.Error
	}
	return nil
}

// ListCompanies returns companies matching the given filters, ordered
// by name. An empty filter set matches every company.
func (r *Repository) ListCompanies(ctx context.Context, filters map[string]string) ([]models.Company, error) {
	clause, args, err := query.CompanyPredicate(filters)
	if err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).Model(&models.Company{}).Order("name")
	if clause != "" {
		q = q.Where(clause, args...)
	}

	companies := make([]models.Company, 0)
	if err := q.Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// GetCompany fetches a company by handle together with its jobs,
// ordered by job id. The job list is always recomputed from the jobs
// table at read time.
func (r *Repository) GetCompany(ctx context.Context, handle string) (*models.CompanyDetail, error) {
	var company models.Company
	result := r.db.WithContext(ctx).First(&company, "handle = ?", handle)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: company %q", e.ErrNotFound, handle)
		}
		return nil, result.Error
	}

	jobs := make([]models.Job, 0)
	if err := r.db.WithContext(ctx).
		Where("company_handle = ?", handle).
		Order("id").
		Find(&jobs).Error; err != nil {
		return nil, err
	}

	return &models.CompanyDetail{Company: company, Jobs: jobs}, nil
}

// UpdateCompany applies a partial update and returns the updated row.
// Unspecified fields are left untouched. Returns ErrInvalidInput when
// no fields are set and ErrNotFound when the handle does not exist.
func (r *Repository) UpdateCompany(ctx context.Context, handle string, update *models.CompanyUpdate) (*models.Company, error) {
	set, args, err := query.SetClause(update.Fields(), companyColumns)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Exec("UPDATE companies SET "+set+" WHERE handle = ?", append(args, handle)...)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: company %q", e.ErrNotFound, handle)
	}

	var company models.Company
	if err := r.db.WithContext(ctx).First(&company, "handle = ?", handle).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// DeleteCompany removes a company and, in the same transaction, every
// job that references it. Dependent jobs cascade rather than blocking
// the delete.
func (r *Repository) DeleteCompany(ctx context.Context, handle string) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		if err := tx.db.Exec("DELETE FROM jobs WHERE company_handle = ?", handle).Error; err != nil {
			return err
		}
		result := tx.db.Exec("DELETE FROM companies WHERE handle = ?", handle)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: company %q", e.ErrNotFound, handle)
		}
		return nil
	})
}
