package stats

import (
	"slices"

	"github.com/cockroachdb/errors"
)

// Fingerprint is the innings identity: player, format, match and innings
// number concatenated as "<player>_<format><match>_<inns>", e.g.
// "253802_ODI#2701_1". Match IDs already carry their "#" prefix.
func Fingerprint(playerID, format, matchID, inns string) string {
	return playerID + "_" + format + matchID + "_" + inns
}

// Stamp tags every row of an innings batch with Player ID and its Inns ID
// fingerprint. An absent or empty batch is returned as an empty table without
// identity columns; that is a valid no-op state.
func Stamp(batch *Table, playerID string) (*Table, error) {
	if batch.Empty() {
		if batch == nil {
			return NewTable(), nil
		}
		return NewTable(slices.Clone(batch.Columns)...), nil
	}
	for _, col := range []string{ColFormat, ColMatchID, ColInns} {
		if !batch.HasColumn(col) {
			return nil, errors.Wrapf(ErrSchemaMismatch, "stamp: missing column %q", col)
		}
	}

	out := &Table{
		Columns: slices.Clone(batch.Columns),
		Rows:    make([]Record, len(batch.Rows)),
	}
	for _, col := range []string{ColPlayerID, ColInnsID} {
		if !slices.Contains(out.Columns, col) {
			out.Columns = append(out.Columns, col)
		}
	}

	for i, r := range batch.Rows {
		row := r.Clone()
		row[ColPlayerID] = playerID
		row[ColInnsID] = Fingerprint(
			playerID,
			FormatValue(r[ColFormat]),
			FormatValue(r[ColMatchID]),
			FormatValue(r[ColInns]),
		)
		out.Rows[i] = row
	}
	return out, nil
}
