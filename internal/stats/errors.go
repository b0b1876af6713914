package stats

import "github.com/cockroachdb/errors"

// Failure classes of the aggregation engine. Callers match them with
// errors.Is; the wrapped message names the offending column or key.
var (
	ErrSchemaMismatch       = errors.New("schema mismatch")
	ErrDuplicateWithinBatch = errors.New("duplicate key within batch")
	ErrUnknownCategory      = errors.New("unknown category")
)
