package stats

import (
	"encoding/csv"
	"io"

	"github.com/cockroachdb/errors"
)

// WriteCSV encodes the table with a header row. Missing cells are written
// as empty fields and dates as YYYY-MM-DD.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return errors.Wrap(err, "write header")
	}
	record := make([]string, len(t.Columns))
	for i, r := range t.Rows {
		for j, col := range t.Columns {
			record[j] = FormatValue(r[col])
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "write row %d", i)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV decodes a table written by WriteCSV, typing each column by the
// schema. An input with no header yields an empty table.
func ReadCSV(r io.Reader, schema Schema) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return NewTable(), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}

	kinds := make([]Kind, len(header))
	for i, col := range header {
		kinds[i] = schema.Kind(col)
	}

	t := NewTable(header...)
	for line := 2; ; line++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read line %d", line)
		}
		if len(fields) != len(header) {
			return nil, errors.Wrapf(ErrSchemaMismatch,
				"line %d has %d fields, header has %d", line, len(fields), len(header))
		}
		row := make(Record, len(header))
		for i, col := range header {
			v, err := ParseValue(kinds[i], fields[i])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d column %q", line, col)
			}
			row[col] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
