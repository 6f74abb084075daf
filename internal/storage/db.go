package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"mlbstats/internal"
)

type DB struct {
	conn *sql.DB
	// ro serves ad-hoc queries; its connections run with query_only set.
	ro  *sql.DB
	log *zap.Logger
}

func Open(path string, log *zap.Logger) (*DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn, log: log}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	ro, err := sql.Open("sqlite", "file:"+path+"?_pragma=query_only(1)")
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ro.Ping(); err != nil {
		_ = ro.Close()
		_ = conn.Close()
		return nil, err
	}
	db.ro = ro

	return db, nil
}

func (d *DB) Close() error {
	return errors.Join(d.ro.Close(), d.conn.Close())
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS batting_avg (
  id INTEGER PRIMARY KEY,
  League TEXT,
  Name TEXT NOT NULL CHECK (length(Name) > 0),
  Team TEXT,
  Batting_Average REAL,
  Year INTEGER
);
CREATE INDEX IF NOT EXISTS idx_batting_avg_name ON batting_avg(Name);

CREATE TABLE IF NOT EXISTS home_runs (
  id INTEGER PRIMARY KEY,
  Name TEXT NOT NULL CHECK (length(Name) > 0),
  Career_Home_Runs INTEGER
);
CREATE INDEX IF NOT EXISTS idx_home_runs_name ON home_runs(Name);

CREATE TABLE IF NOT EXISTS career_strikeouts (
  id INTEGER PRIMARY KEY,
  League TEXT,
  Name TEXT NOT NULL CHECK (length(Name) > 0),
  Career_Strikeouts INTEGER
);
CREATE INDEX IF NOT EXISTS idx_career_strikeouts_name ON career_strikeouts(Name);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId TEXT NOT NULL,
  category TEXT NOT NULL,
  status TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  error TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// Export appends records to table in one transaction. A record the database rejects is
// logged and counted as failed; the remaining records are still written.
func (d *DB) Export(ctx context.Context, table internal.Table, records []internal.Record) (internal.ExportResult, error) {
	return d.write(ctx, table, records, false)
}

// Replace clears table and writes records in the same transaction. When the transaction
// cannot be committed the previous rows are kept.
func (d *DB) Replace(ctx context.Context, table internal.Table, records []internal.Record) (internal.ExportResult, error) {
	return d.write(ctx, table, records, true)
}

func (d *DB) write(ctx context.Context, table internal.Table, records []internal.Record, replace bool) (internal.ExportResult, error) {
	if err := checkTable(table.Name); err != nil {
		return internal.ExportResult{}, err
	}

	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return internal.ExportResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if replace {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table.Name); err != nil {
			return internal.ExportResult{}, err
		}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(table.Columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s)`,
		table.Name, strings.Join(table.Columns, ", "), placeholders,
	))
	if err != nil {
		return internal.ExportResult{}, err
	}
	defer stmt.Close()

	var res internal.ExportResult
	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.Values()...); err != nil {
			res.Failed++
			d.log.Warn("failed to insert record",
				zap.String("table", table.Name),
				zap.Int("position", i),
				zap.Any("values", rec.Values()),
				zap.Error(err),
			)
			continue
		}
		res.Written++
	}

	if err := tx.Commit(); err != nil {
		return internal.ExportResult{Failed: len(records)}, err
	}
	return res, nil
}

func (d *DB) InsertRun(ctx context.Context, report internal.RunReport) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range report.Categories {
		counts, _ := json.Marshal(map[string]int{
			"rowsSeen":      c.RowsSeen,
			"rowsSkipped":   c.RowsSkipped,
			"rowsMalformed": c.RowsMalformed,
			"invalid":       c.Invalid,
			"records":       c.Records,
			"written":       c.Written,
			"writeFailures": c.WriteFailures,
		})
		var errText *string
		if c.Error != "" {
			errText = &c.Error
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (runId, category, status, countsJson, error) VALUES (?, ?, ?, ?, ?)`,
			report.RunID, string(c.Category), c.Status, string(counts), errText,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func checkTable(name string) error {
	for _, c := range internal.Categories {
		if t, _ := internal.TableFor(c); t.Name == name {
			return nil
		}
	}
	return fmt.Errorf("unknown table: %s", name)
}
