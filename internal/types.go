package internal

type Category string

const (
	CategoryBatting   Category = "batting_average"
	CategoryHomeRuns  Category = "career_home_runs"
	CategoryStrikeout Category = "career_strikeouts"
)

// Categories lists the record categories in the order a run processes them.
var Categories = []Category{CategoryBatting, CategoryHomeRuns, CategoryStrikeout}

type Field string

const (
	FieldLeague Field = "league"
	FieldName   Field = "name"
	FieldTeam   Field = "team"
	FieldValue  Field = "value"
	FieldYear   Field = "year"
)

// Cell is one td of a source table row.
type Cell struct {
	Text  string
	Links []string
}

// RawRow is a table row following the anchor row, in document order.
type RawRow struct {
	Index   int
	Classes []string
	Cells   []Cell
}

// RawRecord holds the string fields a layout extracted from a row, before coercion.
type RawRecord struct {
	RowIndex int
	League   string
	Name     string
	Team     string
	Value    string
	Year     string
}

func (r *RawRecord) Set(f Field, value string) {
	switch f {
	case FieldLeague:
		r.League = value
	case FieldName:
		r.Name = value
	case FieldTeam:
		r.Team = value
	case FieldValue:
		r.Value = value
	case FieldYear:
		r.Year = value
	}
}

func (r RawRecord) Get(f Field) string {
	switch f {
	case FieldLeague:
		return r.League
	case FieldName:
		return r.Name
	case FieldTeam:
		return r.Team
	case FieldValue:
		return r.Value
	case FieldYear:
		return r.Year
	default:
		return ""
	}
}

// Table is an export destination. Fields maps each column to the record field it holds;
// rows shorter than Required columns are malformed.
type Table struct {
	Name     string
	Columns  []string
	Fields   []Field
	Required int
}

var (
	TableBatting = Table{
		Name:     "batting_avg",
		Columns:  []string{"League", "Name", "Team", "Batting_Average", "Year"},
		Fields:   []Field{FieldLeague, FieldName, FieldTeam, FieldValue, FieldYear},
		Required: 4,
	}
	TableHomeRuns = Table{
		Name:     "home_runs",
		Columns:  []string{"Name", "Career_Home_Runs"},
		Fields:   []Field{FieldName, FieldValue},
		Required: 2,
	}
	TableStrikeouts = Table{
		Name:     "career_strikeouts",
		Columns:  []string{"League", "Name", "Career_Strikeouts"},
		Fields:   []Field{FieldLeague, FieldName, FieldValue},
		Required: 2,
	}
)

// TableFor maps a category to the table its records are exported into.
func TableFor(c Category) (Table, bool) {
	switch c {
	case CategoryBatting:
		return TableBatting, true
	case CategoryHomeRuns:
		return TableHomeRuns, true
	case CategoryStrikeout:
		return TableStrikeouts, true
	default:
		return Table{}, false
	}
}

// Record is a normalized row ready for export. Values follow the column order of its table.
type Record interface {
	Values() []any
}

type BattingRecord struct {
	League         string  `json:"league"`
	Name           string  `json:"name"`
	Team           string  `json:"team"`
	BattingAverage float64 `json:"battingAverage"`
	Year           *int    `json:"year"`
}

func (r BattingRecord) Values() []any {
	return []any{r.League, r.Name, r.Team, r.BattingAverage, r.Year}
}

type HomeRunRecord struct {
	Name           string `json:"name"`
	CareerHomeRuns int    `json:"careerHomeRuns"`
}

func (r HomeRunRecord) Values() []any {
	return []any{r.Name, r.CareerHomeRuns}
}

type StrikeoutRecord struct {
	League           string `json:"league"`
	Name             string `json:"name"`
	CareerStrikeouts *int   `json:"careerStrikeouts"`
}

func (r StrikeoutRecord) Values() []any {
	return []any{r.League, r.Name, r.CareerStrikeouts}
}

// ExportResult counts the records a sink wrote and the ones it had to skip.
type ExportResult struct {
	Written int
	Failed  int
}

// CategoryReport summarizes one category of a pipeline run.
type CategoryReport struct {
	Category      Category
	Status        string
	RowsSeen      int
	RowsSkipped   int
	RowsMalformed int
	Invalid       int
	Records       int
	Written       int
	WriteFailures int
	Error         string
}

type RunReport struct {
	RunID      string
	Categories []CategoryReport
}

// Failed reports whether any category of the run failed.
func (r RunReport) Failed() bool {
	for _, c := range r.Categories {
		if c.Status == StatusFailed {
			return true
		}
	}
	return false
}

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)
