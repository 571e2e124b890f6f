// Package query builds parameterized SQL fragments from sparse,
// partially-specified client input: WHERE predicates from optional
// filters and SET clauses from partial updates. Every client value is
// emitted as a bound parameter; nothing is ever spliced into query
// text.
package query

import (
	"fmt"
	"strconv"
	"strings"

	e "github.com/joblyhq/jobly/internal/board/errors"
)

// cond pairs one predicate term with the values bound to its
// placeholders. Keeping term and values together makes it impossible
// for clause order and argument order to drift apart.
type cond struct {
	expr string
	args []any
}

type predicate struct {
	conds []cond
}

func (p *predicate) add(expr string, args ...any) {
	p.conds = append(p.conds, cond{expr: expr, args: args})
}

// clause joins all terms with AND and flattens the bound values in the
// same order. Zero terms yield an empty clause, matching every row.
func (p *predicate) clause() (string, []any) {
	if len(p.conds) == 0 {
		return "", nil
	}
	exprs := make([]string, 0, len(p.conds))
	var args []any
	for _, c := range p.conds {
		exprs = append(exprs, c.expr)
		args = append(args, c.args...)
	}
	return strings.Join(exprs, " AND "), args
}

// CompanyPredicate translates the recognized company filters (name,
// minEmployees, maxEmployees) into a WHERE clause and bound values.
// Unknown filter names are rejected rather than ignored.
func CompanyPredicate(filters map[string]string) (string, []any, error) {
	if err := checkRecognized(filters, "name", "minEmployees", "maxEmployees"); err != nil {
		return "", nil, err
	}

	min, err := optionalNonNegative(filters, "minEmployees")
	if err != nil {
		return "", nil, err
	}
	max, err := optionalNonNegative(filters, "maxEmployees")
	if err != nil {
		return "", nil, err
	}
	if min != nil && max != nil && *min > *max {
		return "", nil, fmt.Errorf("%w: minEmployees %d greater than maxEmployees %d", e.ErrInvalidInput, *min, *max)
	}

	var p predicate
	if name, ok := filters["name"]; ok {
		p.add("LOWER(name) LIKE LOWER(?)", contains(name))
	}
	if min != nil {
		p.add("num_employees >= ?", *min)
	}
	if max != nil {
		p.add("num_employees <= ?", *max)
	}

	clause, args := p.clause()
	return clause, args, nil
}

// JobPredicate translates the recognized job filters (title, minSalary,
// hasEquity) into a WHERE clause and bound values. hasEquity=true means
// equity strictly greater than zero; false adds no constraint.
func JobPredicate(filters map[string]string) (string, []any, error) {
	if err := checkRecognized(filters, "title", "minSalary", "hasEquity"); err != nil {
		return "", nil, err
	}

	minSalary, err := optionalNonNegative(filters, "minSalary")
	if err != nil {
		return "", nil, err
	}

	var p predicate
	if title, ok := filters["title"]; ok {
		p.add("LOWER(title) LIKE LOWER(?)", contains(title))
	}
	if minSalary != nil {
		p.add("salary >= ?", *minSalary)
	}
	if raw, ok := filters["hasEquity"]; ok {
		hasEquity, err := strconv.ParseBool(raw)
		if err != nil {
			return "", nil, fmt.Errorf("%w: hasEquity must be a boolean, got %q", e.ErrInvalidInput, raw)
		}
		if hasEquity {
			p.add("equity > 0")
		}
	}

	clause, args := p.clause()
	return clause, args, nil
}

func checkRecognized(filters map[string]string, recognized ...string) error {
	for name := range filters {
		known := false
		for _, r := range recognized {
			if name == r {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%w: unknown filter %q", e.ErrInvalidInput, name)
		}
	}
	return nil
}

func optionalNonNegative(filters map[string]string, name string) (*int, error) {
	raw, ok := filters[name]
	if !ok {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: %s must be a non-negative integer, got %q", e.ErrInvalidInput, name, raw)
	}
	return &n, nil
}

// contains wraps a substring filter value for a LIKE comparison. The
// result is always passed as a bound parameter.
func contains(v string) string {
	return "%" + v + "%"
}
