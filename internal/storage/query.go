package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"mlbstats/internal"
)

// ResultSet is a query result with the column names in select order.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// TableFilter narrows a single-table query. Nil fields are not applied.
type TableFilter struct {
	Year    *int
	MinStat *float64
	Limit   *int
}

// statColumn is the column a table is ranked and filtered by.
var statColumn = map[string]string{
	internal.TableBatting.Name:    "Batting_Average",
	internal.TableHomeRuns.Name:   "Career_Home_Runs",
	internal.TableStrikeouts.Name: "Career_Strikeouts",
}

// QueryTable lists a record table ordered by its stat, best first.
func (d *DB) QueryTable(ctx context.Context, table string, filter TableFilter) (ResultSet, error) {
	stat, ok := statColumn[table]
	if !ok {
		return ResultSet{}, fmt.Errorf("unknown table: %s", table)
	}

	var where []string
	var args []any
	if filter.Year != nil {
		if table != internal.TableBatting.Name {
			return ResultSet{}, fmt.Errorf("table %s has no Year column", table)
		}
		where = append(where, "Year = ?")
		args = append(args, *filter.Year)
	}
	if filter.MinStat != nil {
		where = append(where, stat+" >= ?")
		args = append(args, *filter.MinStat)
	}

	query := "SELECT * FROM " + table
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + stat + " DESC"
	if filter.Limit != nil {
		query += " LIMIT ?"
		args = append(args, *filter.Limit)
	}

	return d.Query(ctx, query, args...)
}

// PlayerStats joins a player's batting records with their career totals by exact name.
func (d *DB) PlayerStats(ctx context.Context, name string) (ResultSet, error) {
	return d.Query(ctx, `
SELECT
  b.Name,
  b.League,
  b.Team,
  b.Batting_Average,
  b.Year,
  hr.Career_Home_Runs,
  so.Career_Strikeouts
FROM batting_avg AS b
  LEFT JOIN home_runs         AS hr ON b.Name = hr.Name
  LEFT JOIN career_strikeouts AS so ON b.Name = so.Name
WHERE b.Name = ?
`, name)
}

// Query runs an arbitrary read-only statement and collects every row. Writes fail.
func (d *DB) Query(ctx context.Context, query string, args ...any) (ResultSet, error) {
	rows, err := d.ro.QueryContext(ctx, query, args...)
	if err != nil {
		return ResultSet{}, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows *sql.Rows) (ResultSet, error) {
	columns, err := rows.Columns()
	if err != nil {
		return ResultSet{}, err
	}

	out := ResultSet{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return ResultSet{}, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out.Rows = append(out.Rows, values)
	}
	return out, rows.Err()
}
