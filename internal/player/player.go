// Package player holds the identity record a pipeline run is scoped to.
package player

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/albapepper/cricstats/internal/stats"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Player identifies a cricketer. HasAllroundStats is derived once from the
// playing role; call sites read the flag instead of re-inspecting the role.
type Player struct {
	ID               string `json:"id" validate:"required,numeric"`
	Name             string `json:"name" validate:"required"`
	Slug             string `json:"slug" validate:"required,ne=master"` // master is the cross-player segment
	Role             string `json:"role,omitempty"`
	HasAllroundStats bool   `json:"has_allround_stats"`
}

// New builds and validates a player identity.
func New(name, id, role string) (Player, error) {
	p := Player{
		ID:               strings.TrimSpace(id),
		Name:             strings.TrimSpace(name),
		Slug:             Slug(name),
		Role:             strings.TrimSpace(role),
		HasAllroundStats: isAllrounder(role),
	}
	if err := validate.Struct(p); err != nil {
		return Player{}, fmt.Errorf("invalid player %q: %w", name, err)
	}
	return p, nil
}

// FromPersonalInfo reads the identity from the first row of a personal info
// table. name is used when the table carries no Player Name column.
func FromPersonalInfo(info *stats.Table, name string) (Player, error) {
	if info.Empty() {
		return Player{}, fmt.Errorf("personal info for %q is empty", name)
	}
	row := info.Rows[0]
	if n := stats.FormatValue(row[stats.ColPlayerName]); n != "" {
		name = n
	}
	return New(name, stats.FormatValue(row[stats.ColPlayerID]), stats.FormatValue(row[stats.ColRole]))
}

func isAllrounder(role string) bool {
	return strings.Contains(strings.ToLower(role), "allround")
}

// Slug is the storage path segment for a player name: lower case, accents
// stripped, spaces replaced by underscores ("Virat Kohli" -> "virat_kohli").
func Slug(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(name))
	if err != nil {
		folded = strings.TrimSpace(name)
	}
	return strings.ReplaceAll(strings.ToLower(folded), " ", "_")
}
