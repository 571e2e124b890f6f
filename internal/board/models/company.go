// Package models defines the domain models for companies and jobs,
// configured to work with GORM as the ORM. External JSON field names
// (numEmployees, logoUrl, companyHandle) differ from column names; the
// gorm tags pin the column side, the json tags pin the API side.
package models

import (
	"github.com/joblyhq/jobly/internal/board/query"
)

// Company represents a company entity. The handle is the primary key,
// chosen by the caller at creation time and immutable afterwards.
type Company struct {
	Handle      string `json:"handle" gorm:"primaryKey;size:25"`
	Name        string `json:"name" gorm:"size:100;not null"`
	Description string `json:"description" gorm:"size:3000"`
	// NumEmployees is nullable; nil means unknown, not zero.
	NumEmployees *int    `json:"numEmployees" gorm:"column:num_employees;check:num_employees >= 0"`
	LogoURL      *string `json:"logoUrl" gorm:"column:logo_url"`
}

// CompanyDetail is a company merged with its current job list. The job
// list is recomputed from the jobs table at read time, never stored.
type CompanyDetail struct {
	Company
	Jobs []Job `json:"jobs"`
}

// CompanyUpdate represents the fields that can be updated for a Company.
// Pointer types are used to allow partial updates; the handle is not
// here because it is immutable.
type CompanyUpdate struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	NumEmployees *int    `json:"numEmployees"`
	LogoURL      *string `json:"logoUrl"`
}

// Fields flattens the set fields into an ordered sequence for the
// update compiler. Declaration order keeps the output deterministic.
func (u *CompanyUpdate) Fields() *query.Fields {
	f := &query.Fields{}
	if u.Name != nil {
		f.Set("name", *u.Name)
	}
	if u.Description != nil {
		f.Set("description", *u.Description)
	}
	if u.NumEmployees != nil {
		f.Set("numEmployees", *u.NumEmployees)
	}
	if u.LogoURL != nil {
		f.Set("logoUrl", *u.LogoURL)
	}
	return f
}
