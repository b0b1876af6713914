package stats

import (
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelector(t *testing.T) {
	t.Parallel()

	all, err := ParseSelector("all")
	require.NoError(t, err)
	assert.Equal(t, []Category{Batting, Bowling, Fielding, Allround, PersonalInfo}, all)

	one, err := ParseSelector(" Bowling ")
	require.NoError(t, err)
	assert.Equal(t, []Category{Bowling}, one)

	_, err = ParseSelector("keeping")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCategory))
}

func TestCategory_JSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(map[string]Category{"c": PersonalInfo})
	require.NoError(t, err)
	assert.JSONEq(t, `{"c":"personal_info"}`, string(b))

	var back map[string]Category
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, PersonalInfo, back["c"])
}

func TestSchemaRegistry(t *testing.T) {
	t.Parallel()

	for _, c := range Categories() {
		s := SchemaFor(c)
		assert.Equal(t, c, s.Category)
		assert.NotEmpty(t, s.File)
		for _, k := range append(append([]string{}, s.Keys.Dedup...), s.Keys.Sort...) {
			assert.Contains(t, s.ColumnNames(), k, "%s key %q must be a schema column", c, k)
		}
	}

	bat := SchemaFor(Batting)
	assert.Equal(t, []string{
		ColMatchID, ColStartDate, ColFormat, ColInns,
		"Pos", "Runs", "BF", "4s", "6s", "SR", "Mins", "Dismissal",
		ColOpposition, ColLocation, ColPlayerID, ColInnsID,
	}, bat.ColumnNames())
	assert.Equal(t, KindDate, bat.Kind(ColStartDate))
	assert.Equal(t, KindFloat, bat.Kind("SR"))
	assert.Equal(t, KindInt, bat.Kind("Mins"))
	assert.Equal(t, KindString, bat.Kind("Dismissal"))
	assert.Len(t, bat.SourceColumns(), len(bat.Columns)-2)

	assert.Equal(t, []string{ColInnsID}, SchemaFor(Fielding).Keys.Dedup)
	assert.Equal(t, []string{ColPlayerID, ColStartDate}, SchemaFor(Allround).Keys.Sort)
	assert.Equal(t, []string{ColPlayerID}, SchemaFor(PersonalInfo).Keys.Dedup)
	assert.Equal(t, []string{ColPlayerID}, SchemaFor(PersonalInfo).Keys.Sort)
}
