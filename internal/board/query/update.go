package query

import (
	"fmt"
	"strings"

	e "github.com/joblyhq/jobly/internal/board/errors"
)

// Fields is an ordered sequence of field name/value pairs destined for
// a partial update. Insertion order is preserved so the compiled
// assignment list and its bound values stay aligned.
type Fields struct {
	names  []string
	values []any
}

// Set appends a field. Setting the same name twice appends twice; the
// typed update structs that feed this never do.
func (f *Fields) Set(name string, value any) {
	f.names = append(f.names, name)
	f.values = append(f.values, value)
}

// Len reports the number of fields set.
func (f *Fields) Len() int {
	return len(f.names)
}

// SetClause compiles the fields into a SQL SET clause with one bound
// placeholder per field, returning the bound values in emission order.
// Column names come from the translation table when present, otherwise
// the field name is used unchanged. An empty field set is a caller
// error, not a no-op.
func SetClause(f *Fields, columns map[string]string) (string, []any, error) {
	if f == nil || f.Len() == 0 {
		return "", nil, fmt.Errorf("%w: no data", e.ErrInvalidInput)
	}
	assignments := make([]string, 0, len(f.names))
	for _, name := range f.names {
		col := name
		if c, ok := columns[name]; ok {
			col = c
		}
		assignments = append(assignments, col+" = ?")
	}
	return strings.Join(assignments, ", "), f.values, nil
}
