package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_TypesColumnsBySchema(t *testing.T) {
	t.Parallel()

	in := "Match ID,Start Date,Format,Inns,Runs,SR,Dismissal,Player ID,Inns ID\n" +
		"#2701,2008-08-18,ODI,1,12,54.54,lbw,253802,253802_ODI#2701_1\n" +
		"#2702,2008-08-20,ODI,1,,,,253802,253802_ODI#2702_1\n"

	got, err := ReadCSV(strings.NewReader(in), SchemaFor(Batting))
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())

	first := got.Rows[0]
	assert.Equal(t, "#2701", first[ColMatchID])
	assert.Equal(t, day(2008, 8, 18), first[ColStartDate])
	assert.Equal(t, int64(1), first[ColInns])
	assert.Equal(t, int64(12), first["Runs"])
	assert.Equal(t, 54.54, first["SR"])
	assert.Equal(t, "253802", first[ColPlayerID])

	second := got.Rows[1]
	assert.Nil(t, second["Runs"])
	assert.Nil(t, second["SR"])
	assert.Nil(t, second["Dismissal"])
}

func TestWriteCSV_ReadBack(t *testing.T) {
	t.Parallel()

	tbl := NewTable(ColMatchID, ColStartDate, ColInns, "Overs", "Wkts")
	tbl.Rows = []Record{
		{ColMatchID: "#1", ColStartDate: day(2010, 1, 5), ColInns: int64(2), "Overs": 3.4, "Wkts": nil},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))
	assert.Equal(t, "Match ID,Start Date,Inns,Overs,Wkts\n#1,2010-01-05,2,3.4,\n", buf.String())

	back, err := ReadCSV(&buf, SchemaFor(Bowling))
	require.NoError(t, err)
	assert.Equal(t, tbl.Rows, back.Rows)
}

func TestReadCSV_Errors(t *testing.T) {
	t.Parallel()

	empty, err := ReadCSV(strings.NewReader(""), SchemaFor(Batting))
	require.NoError(t, err)
	assert.True(t, empty.Empty())

	_, err = ReadCSV(strings.NewReader("Inns,Runs\n1\n"), SchemaFor(Batting))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemaMismatch))

	_, err = ReadCSV(strings.NewReader("Inns\nfirst\n"), SchemaFor(Batting))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "Inns"`)
}

func TestParseValue_IntAcceptsWholeFloat(t *testing.T) {
	t.Parallel()

	v, err := ParseValue(KindInt, "4.0")
	require.NoError(t, err)
	assert.Equal(t, int64(4), v)

	_, err = ParseValue(KindInt, "4.5")
	assert.Error(t, err)
}
