package storage

import (
	"context"

	"mlbstats/internal"
)

func (d *DB) ListBatting(ctx context.Context) ([]internal.BattingRecord, error) {
	rows, err := d.conn.QueryContext(ctx, `
SELECT COALESCE(League, ''), Name, COALESCE(Team, ''), COALESCE(Batting_Average, 0), Year
FROM batting_avg ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.BattingRecord
	for rows.Next() {
		var r internal.BattingRecord
		if err := rows.Scan(&r.League, &r.Name, &r.Team, &r.BattingAverage, &r.Year); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) ListHomeRuns(ctx context.Context) ([]internal.HomeRunRecord, error) {
	rows, err := d.conn.QueryContext(ctx, `
SELECT Name, COALESCE(Career_Home_Runs, 0) FROM home_runs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.HomeRunRecord
	for rows.Next() {
		var r internal.HomeRunRecord
		if err := rows.Scan(&r.Name, &r.CareerHomeRuns); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) ListStrikeouts(ctx context.Context) ([]internal.StrikeoutRecord, error) {
	rows, err := d.conn.QueryContext(ctx, `
SELECT COALESCE(League, ''), Name, Career_Strikeouts FROM career_strikeouts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.StrikeoutRecord
	for rows.Next() {
		var r internal.StrikeoutRecord
		if err := rows.Scan(&r.League, &r.Name, &r.CareerStrikeouts); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
