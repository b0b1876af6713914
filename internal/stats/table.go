package stats

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// DateLayout is the canonical rendering of date columns.
const DateLayout = "2006-01-02"

// Record is one row keyed by column name. Values are string, int64, float64,
// time.Time or nil for a missing cell.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered set of records sharing a column layout. A nil *Table
// means "no table yet", which is distinct from a table with zero rows.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Record `json:"rows"`
}

// NewTable creates an empty table with the given columns.
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns}
}

// Len returns the number of rows; zero for a nil table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Empty reports whether the table is absent or has no rows.
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// HasColumn reports whether name is part of the layout.
func (t *Table) HasColumn(name string) bool {
	return t != nil && slices.Contains(t.Columns, name)
}

// Append adds a row, extending the layout with any column it introduces.
func (t *Table) Append(r Record) {
	for k := range r {
		if !slices.Contains(t.Columns, k) {
			t.Columns = append(t.Columns, k)
		}
	}
	t.Rows = append(t.Rows, r)
}

// Clone deep-copies the layout and every record.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		Columns: slices.Clone(t.Columns),
		Rows:    make([]Record, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// Value returns the cell at row i, column name.
func (t *Table) Value(i int, name string) any {
	return t.Rows[i][name]
}

// --------------------------------------------------------------------------
// Values
// --------------------------------------------------------------------------

// FormatValue renders a cell the way it is persisted. Missing cells render as
// the empty string.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(DateLayout)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// ParseValue decodes a persisted cell into the column's kind. The empty
// string is the missing value for every kind.
func ParseValue(k Kind, s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	switch k {
	case KindInt:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			// Nullable integer columns written by float-typed tools carry a ".0".
			f, ferr := strconv.ParseFloat(s, 64)
			if ferr != nil || f != float64(int64(f)) {
				return nil, errors.Wrapf(err, "parse int %q", s)
			}
			return int64(f), nil
		}
		return n, nil
	case KindFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parse float %q", s)
		}
		return f, nil
	case KindDate:
		for _, layout := range []string{DateLayout, time.RFC3339, "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, s); err == nil {
				y, m, d := t.Date()
				return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
			}
		}
		return nil, errors.Newf("parse date %q", s)
	default:
		return s, nil
	}
}

// compareValues orders two cells. Missing values sort after everything else.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case int64:
		switch y := b.(type) {
		case int64:
			return cmp.Compare(x, y)
		case float64:
			return cmp.Compare(float64(x), y)
		}
	case float64:
		switch y := b.(type) {
		case float64:
			return cmp.Compare(x, y)
		case int64:
			return cmp.Compare(x, float64(y))
		}
	}
	return strings.Compare(FormatValue(a), FormatValue(b))
}
