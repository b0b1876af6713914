// Package stats holds the canonical per-category table schemas and the pure
// data operations applied to them: identity stamping, merge-upsert and the
// ordering policy. Nothing in this package performs I/O.
package stats

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// --------------------------------------------------------------------------
// Categories
// --------------------------------------------------------------------------

// Category is one statistic category. The set is closed; every value has an
// entry in the schema registry.
type Category int

const (
	Batting Category = iota
	Bowling
	Fielding
	Allround
	PersonalInfo

	numCategories
)

// SelectAll is the selector sentinel meaning every category.
const SelectAll = "all"

var categoryNames = [numCategories]string{
	Batting:      "batting",
	Bowling:      "bowling",
	Fielding:     "fielding",
	Allround:     "allround",
	PersonalInfo: "personal_info",
}

func (c Category) String() string {
	if !c.Valid() {
		return "unknown"
	}
	return categoryNames[c]
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	return c >= 0 && c < numCategories
}

// HasInnings is false only for PersonalInfo, whose rows have no innings
// dimension and are identified by Player ID alone.
func (c Category) HasInnings() bool {
	return c != PersonalInfo
}

// MarshalText renders the category by name in JSON payloads.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, errors.Wrapf(ErrUnknownCategory, "category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText parses a category name.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Categories returns every category in registry order.
func Categories() []Category {
	out := make([]Category, 0, numCategories)
	for c := Category(0); c < numCategories; c++ {
		out = append(out, c)
	}
	return out
}

// ParseCategory maps a category name to its Category.
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for c := Category(0); c < numCategories; c++ {
		if categoryNames[c] == name {
			return c, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownCategory, "%q (want one of %s, %s)",
		s, strings.Join(categoryNames[:], ", "), SelectAll)
}

// ParseSelector accepts either a single category name or SelectAll.
func ParseSelector(s string) ([]Category, error) {
	if strings.EqualFold(strings.TrimSpace(s), SelectAll) {
		return Categories(), nil
	}
	c, err := ParseCategory(s)
	if err != nil {
		return nil, err
	}
	return []Category{c}, nil
}
