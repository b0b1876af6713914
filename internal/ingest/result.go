// Package ingest runs the scrape and transform stages that feed the
// aggregator, and chains all three for a full pipeline run.
package ingest

import "fmt"

// StageResult tracks counts and errors from one stage run.
type StageResult struct {
	Stage         string
	TablesWritten int
	TablesSkipped int
	Rows          int
	CastFailures  int
	Errors        []string
}

// Add merges another StageResult into this one.
func (r *StageResult) Add(other StageResult) {
	r.TablesWritten += other.TablesWritten
	r.TablesSkipped += other.TablesSkipped
	r.Rows += other.Rows
	r.CastFailures += other.CastFailures
	r.Errors = append(r.Errors, other.Errors...)
}

// AddErrorf records a formatted error message.
func (r *StageResult) AddErrorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the stage.
func (r *StageResult) Summary() string {
	return fmt.Sprintf(
		"stage=%s written=%d skipped=%d rows=%d cast_failures=%d errors=%d",
		r.Stage, r.TablesWritten, r.TablesSkipped, r.Rows, r.CastFailures, len(r.Errors),
	)
}
