package stats

// --------------------------------------------------------------------------
// Column names shared across categories
// --------------------------------------------------------------------------

const (
	ColMatchID    = "Match ID"
	ColStartDate  = "Start Date"
	ColFormat     = "Format"
	ColInns       = "Inns"
	ColOpposition = "Opposition"
	ColLocation   = "Location"
	ColPlayerID   = "Player ID"
	ColInnsID     = "Inns ID"
	ColPlayerName = "Player Name"
	ColRole       = "PLAYING ROLE"
)

// Kind is the value type a column decodes to.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDate:
		return "date"
	default:
		return "string"
	}
}

// Column is a named, typed column of a category schema.
type Column struct {
	Name string
	Kind Kind
}

// Keys are the identity and layout columns the merge engine works on.
type Keys struct {
	Dedup []string
	Sort  []string
}

// Schema describes the canonical layout of one category table.
type Schema struct {
	Category Category
	Columns  []Column
	Keys     Keys
	File     string
}

// ColumnNames returns the canonical column order.
func (s Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Kind returns the declared kind of a column. Columns the schema does not
// know about (free-form profile fields) are strings.
func (s Schema) Kind(name string) Kind {
	for _, c := range s.Columns {
		if c.Name == name {
			return c.Kind
		}
	}
	return KindString
}

// SourceColumns are the columns the transformer produces, i.e. the canonical
// layout without the identity columns the aggregator stamps on.
func (s Schema) SourceColumns() []Column {
	if !s.Category.HasInnings() {
		return s.Columns
	}
	out := make([]Column, 0, len(s.Columns))
	for _, c := range s.Columns {
		if c.Name == ColPlayerID || c.Name == ColInnsID {
			continue
		}
		out = append(out, c)
	}
	return out
}

// --------------------------------------------------------------------------
// Registry
// --------------------------------------------------------------------------

// columnKinds lists every non-string column across the innings categories.
var columnKinds = map[string]Kind{
	ColStartDate: KindDate,
	ColInns:      KindInt,
	"Pos":        KindInt,
	"Runs":       KindInt,
	"BF":         KindInt,
	"4s":         KindInt,
	"6s":         KindInt,
	"SR":         KindFloat,
	"Mins":       KindInt,
	"Overs":      KindFloat,
	"Mdns":       KindInt,
	"Wkts":       KindInt,
	"Econ":       KindFloat,
	"Dis":        KindInt,
	"Ct":         KindInt,
	"Conc":       KindInt,
	"St":         KindInt,
}

var inningsKeys = Keys{
	Dedup: []string{ColInnsID},
	Sort:  []string{ColPlayerID, ColStartDate},
}

var schemas = [numCategories]Schema{
	Batting:  inningsSchema(Batting, "batting_stats.csv", "Pos", "Runs", "BF", "4s", "6s", "SR", "Mins", "Dismissal"),
	Bowling:  inningsSchema(Bowling, "bowling_stats.csv", "Pos", "Overs", "Mdns", "Runs", "Wkts", "Econ"),
	Fielding: inningsSchema(Fielding, "fielding_stats.csv", "Dis", "Ct"),
	Allround: inningsSchema(Allround, "allround_stats.csv", "Score", "Overs", "Conc", "Wkts", "Ct", "St"),
	PersonalInfo: {
		Category: PersonalInfo,
		Columns: []Column{
			{Name: ColPlayerID, Kind: KindString},
			{Name: ColPlayerName, Kind: KindString},
		},
		Keys: Keys{
			Dedup: []string{ColPlayerID},
			Sort:  []string{ColPlayerID},
		},
		File: "personal_info.csv",
	},
}

// inningsSchema lays out Match ID, Start Date, Format, Inns, the category
// columns, Opposition, Location and finally the stamped identity columns.
func inningsSchema(c Category, file string, custom ...string) Schema {
	names := []string{ColMatchID, ColStartDate, ColFormat, ColInns}
	names = append(names, custom...)
	names = append(names, ColOpposition, ColLocation, ColPlayerID, ColInnsID)

	cols := make([]Column, len(names))
	for i, n := range names {
		cols[i] = Column{Name: n, Kind: columnKinds[n]}
	}
	return Schema{Category: c, Columns: cols, Keys: inningsKeys, File: file}
}

// SchemaFor returns the registry entry for c. The returned schema is shared
// and must not be modified.
func SchemaFor(c Category) Schema {
	return schemas[c]
}
