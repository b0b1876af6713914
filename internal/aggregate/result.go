package aggregate

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/albapepper/cricstats/internal/stats"
	"github.com/albapepper/cricstats/internal/storage"
)

// Status is the terminal state of one category in a run.
type Status string

const (
	StatusMerged  Status = "merged"
	StatusNoop    Status = "noop"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Outcome is what happened to one category.
type Outcome struct {
	Category stats.Category `json:"category"`
	Status   Status         `json:"status"`
	Key      string         `json:"key,omitempty"`
	Incoming int            `json:"incoming"`
	Rows     int            `json:"rows"`
	Written  bool           `json:"written"`
	Reason   string         `json:"reason,omitempty"`
	Error    string         `json:"error,omitempty"`
	Duration time.Duration  `json:"-"`

	err error
}

// Err returns the failure cause, or nil.
func (o Outcome) Err() error { return o.err }

// Result tracks per-category outcomes of one run.
type Result struct {
	Player   string        `json:"player"`
	Scope    storage.Scope `json:"scope"`
	Outcomes []Outcome     `json:"outcomes"`
	Duration time.Duration `json:"-"`
}

func (r *Result) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Outcome returns the outcome for c.
func (r *Result) Outcome(c stats.Category) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Category == c {
			return o, true
		}
	}
	return Outcome{}, false
}

// Failed returns the failed outcomes.
func (r *Result) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			out = append(out, o)
		}
	}
	return out
}

// Err joins every category failure, or returns nil.
func (r *Result) Err() error {
	var errs []error
	for _, o := range r.Failed() {
		errs = append(errs, o.err)
	}
	return errors.Join(errs...)
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	counts := map[Status]int{}
	for _, o := range r.Outcomes {
		counts[o.Status]++
	}
	return fmt.Sprintf("merged=%d noop=%d skipped=%d failed=%d",
		counts[StatusMerged], counts[StatusNoop], counts[StatusSkipped], counts[StatusFailed])
}
