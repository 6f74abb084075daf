package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"mlbstats/internal"
	"mlbstats/internal/storage"
)

// Querier is the read side of the record store the console runs against.
type Querier interface {
	QueryTable(ctx context.Context, table string, filter storage.TableFilter) (storage.ResultSet, error)
	PlayerStats(ctx context.Context, name string) (storage.ResultSet, error)
	Query(ctx context.Context, query string, args ...any) (storage.ResultSet, error)
}

const menu = `1) Query a single table
2) Lookup stats by player name
3) Run custom SQL
4) Exit
Choose an option: `

type Console struct {
	db  Querier
	in  *bufio.Scanner
	out io.Writer
}

func New(db Querier, in io.Reader, out io.Writer) *Console {
	return &Console{db: db, in: bufio.NewScanner(in), out: out}
}

// Run shows the menu until the user exits, input ends or ctx is cancelled. Query errors are
// printed and the menu is shown again.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		choice, ok := c.prompt(menu)
		if !ok {
			return c.in.Err()
		}
		switch choice {
		case "1":
			c.singleTable(ctx)
		case "2":
			c.playerStats(ctx)
		case "3":
			c.customSQL(ctx)
		case "4":
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		default:
			fmt.Fprint(c.out, "Invalid selection.\n\n")
		}
	}
}

func (c *Console) singleTable(ctx context.Context) {
	name, _ := c.prompt("Which table? (batting_avg, home_runs, career_strikeouts): ")
	if !knownTable(name) {
		fmt.Fprint(c.out, "Unknown table.\n\n")
		return
	}

	var filter storage.TableFilter
	if name == internal.TableBatting.Name {
		raw, _ := c.prompt("Filter by Year (leave blank for any): ")
		if raw != "" {
			year, err := strconv.Atoi(raw)
			if err != nil {
				fmt.Fprintf(c.out, "Invalid year: %s\n\n", raw)
				return
			}
			filter.Year = &year
		}
	}

	raw, _ := c.prompt("Minimum stat value (leave blank for any): ")
	if raw != "" {
		minStat, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fmt.Fprintf(c.out, "Invalid minimum: %s\n\n", raw)
			return
		}
		filter.MinStat = &minStat
	}

	raw, _ = c.prompt("Limit to top N rows (leave blank for all): ")
	if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fmt.Fprintf(c.out, "Invalid limit: %s\n\n", raw)
			return
		}
		filter.Limit = &n
	}

	rs, err := c.db.QueryTable(ctx, name, filter)
	if err != nil {
		fmt.Fprintf(c.out, "Error running query: %v\n\n", err)
		return
	}
	c.render(rs)
}

func (c *Console) playerStats(ctx context.Context) {
	name, _ := c.prompt("Enter the exact player name: ")
	rs, err := c.db.PlayerStats(ctx, name)
	if err != nil {
		fmt.Fprintf(c.out, "Query error: %v\n\n", err)
		return
	}
	if len(rs.Rows) == 0 {
		fmt.Fprint(c.out, "No data returned.\n\n")
		return
	}
	c.render(rs)
}

func (c *Console) customSQL(ctx context.Context) {
	query, _ := c.prompt("Enter your SQL statement (end with a semicolon):\n")
	rs, err := c.db.Query(ctx, query)
	if err != nil {
		fmt.Fprintf(c.out, "Custom query failed: %v\n\n", err)
		return
	}
	c.render(rs)
}

func (c *Console) prompt(text string) (string, bool) {
	fmt.Fprint(c.out, text)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) render(rs storage.ResultSet) {
	Render(c.out, rs)
	fmt.Fprintln(c.out)
}

// Render writes a result set as a text table.
func Render(out io.Writer, rs storage.ResultSet) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, 0, len(rs.Columns))
	for _, col := range rs.Columns {
		header = append(header, col)
	}
	t.AppendHeader(header)

	for _, row := range rs.Rows {
		r := make(table.Row, 0, len(row))
		for _, v := range row {
			if v == nil {
				v = "NULL"
			}
			r = append(r, v)
		}
		t.AppendRow(r)
	}
	t.Render()
}

func knownTable(name string) bool {
	for _, c := range internal.Categories {
		if t, _ := internal.TableFor(c); t.Name == name {
			return true
		}
	}
	return false
}
