package models

import (
	"github.com/joblyhq/jobly/internal/board/query"
	"github.com/shopspring/decimal"
)

// Job represents a job posting. Equity is an exact fixed-point decimal
// in [0, 1]; it is never handled as a float anywhere in the system.
type Job struct {
	ID     int64            `json:"id" gorm:"primaryKey;autoIncrement"`
	Title  string           `json:"title" gorm:"size:100;not null"`
	Salary *int             `json:"salary" gorm:"check:salary >= 0"`
	Equity *decimal.Decimal `json:"equity" gorm:"type:decimal(5,4)"`
	// CompanyHandle references companies.handle and is immutable after
	// creation. Existence is checked by the repository, inside the same
	// transaction as the insert.
	CompanyHandle string `json:"companyHandle" gorm:"column:company_handle;size:25;not null;index"`
}

// JobListing is a job row joined with its company's display name,
// returned by the filtered list operation.
type JobListing struct {
	ID            int64            `json:"id"`
	Title         string           `json:"title"`
	Salary        *int             `json:"salary"`
	Equity        *decimal.Decimal `json:"equity"`
	CompanyHandle string           `json:"companyHandle"`
	CompanyName   string           `json:"companyName"`
}

// JobUpdate represents the fields that can be updated for a Job. The id
// and company handle are deliberately absent: they are immutable, so an
// attempt to set them is rejected before it can reach the compiler.
type JobUpdate struct {
	Title  *string          `json:"title"`
	Salary *int             `json:"salary"`
	Equity *decimal.Decimal `json:"equity"`
}

// Fields flattens the set fields into an ordered sequence for the
// update compiler.
func (u *JobUpdate) Fields() *query.Fields {
	f := &query.Fields{}
	if u.Title != nil {
		f.Set("title", *u.Title)
	}
	if u.Salary != nil {
		f.Set("salary", *u.Salary)
	}
	if u.Equity != nil {
		f.Set("equity", *u.Equity)
	}
	return f
}
