package stats

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// keySep joins multi-column keys; it cannot appear in scraped text.
const keySep = "\x1f"

// Merge folds an incoming batch into the master table.
//
//   - An empty incoming batch returns master unchanged.
//   - The batch must carry every dedup and sort column and its dedup keys must
//     be unique; violations fail with ErrSchemaMismatch or
//     ErrDuplicateWithinBatch and nothing is produced.
//   - With no master yet the batch becomes the master.
//   - Otherwise master rows are followed by incoming rows and only the last
//     row per dedup key survives, so a later snapshot replaces an earlier one.
//
// The result is always laid out by Order. Inputs are never modified.
func Merge(master, incoming *Table, keys Keys) (*Table, error) {
	if incoming.Empty() {
		return master, nil
	}
	if err := requireKeys(incoming, "incoming", keys); err != nil {
		return nil, err
	}
	if err := requireUnique(incoming, keys.Dedup); err != nil {
		return nil, err
	}

	if master == nil {
		return Order(incoming.Clone(), keys.Sort), nil
	}
	if err := requireKeys(master, "master", keys); err != nil {
		return nil, err
	}

	combined := concat(master, incoming)
	return Order(keepLast(combined, keys.Dedup), keys.Sort), nil
}

// Order sorts rows ascending by the sort columns. The sort is stable, so
// rows with equal keys keep their relative order, and missing values go last.
// The returned table owns a fresh row slice.
func Order(t *Table, sortKeys []string) *Table {
	if t == nil {
		return nil
	}
	rows := slices.Clone(t.Rows)
	slices.SortStableFunc(rows, func(a, b Record) int {
		for _, k := range sortKeys {
			if c := compareValues(a[k], b[k]); c != 0 {
				return c
			}
		}
		return 0
	})
	return &Table{Columns: slices.Clone(t.Columns), Rows: rows}
}

// DedupKey renders the identity of a row for the given key columns.
func DedupKey(r Record, cols []string) string {
	if len(cols) == 1 {
		return FormatValue(r[cols[0]])
	}
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = FormatValue(r[c])
	}
	return strings.Join(parts, keySep)
}

func requireKeys(t *Table, side string, keys Keys) error {
	for _, cols := range [][]string{keys.Dedup, keys.Sort} {
		for _, col := range cols {
			if !t.HasColumn(col) {
				return errors.Wrapf(ErrSchemaMismatch, "%s: missing column %q", side, col)
			}
		}
	}
	return nil
}

func requireUnique(t *Table, cols []string) error {
	seen := make(map[string]int, len(t.Rows))
	for i, r := range t.Rows {
		k := DedupKey(r, cols)
		if first, dup := seen[k]; dup {
			return errors.Wrapf(ErrDuplicateWithinBatch,
				"key %q at rows %d and %d", k, first, i)
		}
		seen[k] = i
	}
	return nil
}

// concat stacks b under a. The layout is a's columns followed by any columns
// only b has; cells a row lacks stay missing.
func concat(a, b *Table) *Table {
	cols := slices.Clone(a.Columns)
	for _, c := range b.Columns {
		if !slices.Contains(cols, c) {
			cols = append(cols, c)
		}
	}
	rows := make([]Record, 0, len(a.Rows)+len(b.Rows))
	for _, r := range a.Rows {
		rows = append(rows, r.Clone())
	}
	for _, r := range b.Rows {
		rows = append(rows, r.Clone())
	}
	return &Table{Columns: cols, Rows: rows}
}

// keepLast drops every row whose key reappears later. Survivors stay at the
// position of their last occurrence.
func keepLast(t *Table, cols []string) *Table {
	last := make(map[string]int, len(t.Rows))
	for i, r := range t.Rows {
		last[DedupKey(r, cols)] = i
	}
	rows := make([]Record, 0, len(last))
	for i, r := range t.Rows {
		if last[DedupKey(r, cols)] == i {
			rows = append(rows, r)
		}
	}
	return &Table{Columns: t.Columns, Rows: rows}
}
