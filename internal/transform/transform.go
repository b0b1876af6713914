// Package transform turns scraped innings tables into typed tables laid out
// per the category schema.
package transform

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/albapepper/cricstats/internal/stats"
)

// Raw column names as they appear on the statsguru pages.
const (
	rawOpposition = "Opposition"
	rawGround     = "Ground"
	rawStartDate  = "Start Date"
	rawMatchID    = "Match id"
)

// missingMarkers are whole-cell placeholders the site uses for "did not
// bat/bowl/field" and similar.
var missingMarkers = map[string]bool{
	"DNB":  true,
	"TDNB": true,
	"DNF":  true,
	"TDNF": true,
	"-":    true,
	"sub":  true,
}

// groundLocations folds ground names onto the city they are played in.
var groundLocations = map[string]string{
	"Colombo (SSC)": "Colombo",
	"Colombo (PSS)": "Colombo",
	"Colombo (RPS)": "Colombo",
	"Eden Gardens":  "Kolkata",
	"Wankhede":      "Mumbai",
	"Brabourne":     "Mumbai",
	"Kingston":      "Kingston Jamaica",
	"The Oval":      "London",
	"Lord's":        "London",
	"W.A.C.A":       "Perth",
	"Dharamsala":    "Dharamshala",
	"Hamilton":      "Hamilton Waikato",
	"Fatullah":      "Fatullah Dhaka",
	"Providence":    "Providence Guyana",
	"Dubai (DICS)":  "Dubai",
	"Chattogram":    "Chattogram Chittagong",
}

var (
	oppositionRe = regexp.MustCompile(`^(.*?)\sv\s(.*)$`)
	matchNumRe   = regexp.MustCompile(`(\d+)$`)
)

var dateLayouts = []string{"2 Jan 2006", "02 Jan 2006", stats.DateLayout}

// Report counts what a transform had to discard.
type Report struct {
	Rows           int
	CastFailures   map[string]int
	MissingColumns []string
}

// Transformer converts raw tables category by category.
type Transformer struct {
	logger *slog.Logger
}

// New creates a transformer.
func New(logger *slog.Logger) *Transformer {
	return &Transformer{logger: logger}
}

// Table transforms one raw table. A nil or empty input yields an empty
// table in the category layout. Personal info is passed through with cells
// trimmed.
func (tr *Transformer) Table(raw *stats.Table, cat stats.Category) (*stats.Table, Report, error) {
	schema := stats.SchemaFor(cat)
	rep := Report{CastFailures: map[string]int{}}

	if cat == stats.PersonalInfo {
		return personalInfo(raw), Report{Rows: raw.Len()}, nil
	}

	cols := schema.SourceColumns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	out := stats.NewTable(names...)
	if raw.Empty() {
		return out, rep, nil
	}

	for _, col := range []string{rawOpposition, rawGround, rawStartDate, rawMatchID} {
		if !raw.HasColumn(col) {
			return nil, rep, errors.Wrapf(stats.ErrSchemaMismatch, "%s: raw table has no %q column", cat, col)
		}
	}
	for _, c := range cols {
		if !derived(c.Name) && !raw.HasColumn(c.Name) {
			rep.MissingColumns = append(rep.MissingColumns, c.Name)
		}
	}

	for _, r := range raw.Rows {
		cells := cleanRow(r)
		row := make(stats.Record, len(cols))

		format, opposition := splitOpposition(cells[rawOpposition])
		cells[stats.ColFormat] = format
		cells[stats.ColOpposition] = opposition
		cells[stats.ColLocation] = location(cells[rawGround])
		cells[stats.ColMatchID] = matchID(cells[rawMatchID])

		for _, c := range cols {
			s := cells[c.Name]
			if s == "" {
				row[c.Name] = nil
				continue
			}
			v, err := castCell(c.Kind, s)
			if err != nil {
				rep.CastFailures[c.Name]++
				row[c.Name] = nil
				continue
			}
			row[c.Name] = v
		}
		out.Append(row)
	}
	rep.Rows = out.Len()

	if len(rep.MissingColumns) > 0 {
		tr.logger.Warn("Raw table lacks columns, filled as missing", "category", cat, "columns", rep.MissingColumns)
	}
	for col, n := range rep.CastFailures {
		tr.logger.Warn("Data type casting failed", "category", cat, "column", col, "cells", n)
	}
	return out, rep, nil
}

func derived(col string) bool {
	switch col {
	case stats.ColFormat, stats.ColLocation, stats.ColMatchID:
		return true
	}
	return false
}

// cleanRow renders every cell as text, strips '*' and blanks the missing
// markers.
func cleanRow(r stats.Record) map[string]string {
	out := make(map[string]string, len(r)+3)
	for k, v := range r {
		s := strings.TrimSpace(strings.ReplaceAll(stats.FormatValue(v), "*", ""))
		if missingMarkers[s] {
			s = ""
		}
		out[k] = s
	}
	return out
}

// splitOpposition splits "ODI v Australia" into its format and opponent.
func splitOpposition(s string) (format, opposition string) {
	m := oppositionRe.FindStringSubmatch(s)
	if m == nil {
		return "", ""
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
}

func location(ground string) string {
	if loc, ok := groundLocations[ground]; ok {
		return loc
	}
	return ground
}

// matchID rewrites "ODI # 2701" as "#2701".
func matchID(s string) string {
	m := matchNumRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return "#" + m[1]
}

func castCell(k stats.Kind, s string) (any, error) {
	if k == stats.KindDate {
		return parseDate(s)
	}
	return stats.ParseValue(k, s)
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func personalInfo(raw *stats.Table) *stats.Table {
	if raw == nil {
		return stats.NewTable(stats.SchemaFor(stats.PersonalInfo).ColumnNames()...)
	}
	out := stats.NewTable(raw.Columns...)
	for _, r := range raw.Rows {
		row := make(stats.Record, len(r))
		for k, v := range r {
			if s, ok := v.(string); ok {
				s = strings.TrimSpace(s)
				if s == "" {
					row[k] = nil
					continue
				}
				v = s
			}
			row[k] = v
		}
		out.Append(row)
	}
	return out
}
