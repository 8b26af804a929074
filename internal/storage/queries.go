package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/pable/go-gps-metrics/internal/model"
)

const timeLayout = time.RFC3339Nano

// DatasetInfo describes one cached dataset.
type DatasetInfo struct {
	SourceKey  string
	SourcePath string
	TotalRows  int
	Matches    int
	Warnings   int
	LoadedAt   time.Time
}

// Lookup returns the dataset cached under key. It implements cache.Cache.
func (db *DB) Lookup(key string) (*model.Dataset, bool, error) {
	var (
		ds       model.Dataset
		colsJSON string
		loadedAt string
	)
	err := db.conn.QueryRow(`
		SELECT source_path, columns, total_rows, loaded_at
		FROM datasets WHERE source_key = ?`, key,
	).Scan(&ds.Source, &colsJSON, &ds.TotalRows, &loadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query dataset %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(colsJSON), &ds.Columns); err != nil {
		return nil, false, fmt.Errorf("decode columns for %s: %w", key, err)
	}
	ds.SourceKey = key
	ds.LoadedAt, _ = time.Parse(timeLayout, loadedAt)

	if ds.Records, err = db.sessions(key); err != nil {
		return nil, false, err
	}
	if ds.Warnings, err = db.warnings(key); err != nil {
		return nil, false, err
	}
	return &ds, true, nil
}

func (db *DB) sessions(key string) ([]model.SessionRecord, error) {
	rows, err := db.conn.Query(`
		SELECT display_name, team, position, session_type, session_date,
		       distance_z5, distance_z6, max_speed, all_max_speed,
		       distance_total, total_time, entries_z6, hsr
		FROM sessions WHERE source_key = ? ORDER BY row_idx`, key)
	if err != nil {
		return nil, fmt.Errorf("query sessions for %s: %w", key, err)
	}
	defer rows.Close()

	var out []model.SessionRecord
	for rows.Next() {
		var (
			r    model.SessionRecord
			date sql.NullString
		)
		if err := rows.Scan(&r.DisplayName, &r.Team, &r.Position, &r.SessionType, &date,
			&r.DistanceZ5, &r.DistanceZ6, &r.MaxSpeed, &r.AllMaxSpeed,
			&r.DistanceTotal, &r.TotalTime, &r.EntriesZ6, &r.HSR); err != nil {
			return nil, err
		}
		if date.Valid {
			if t, err := time.Parse(timeLayout, date.String); err == nil {
				r.SessionDate = sql.NullTime{Time: t, Valid: true}
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (db *DB) warnings(key string) ([]model.CoercionWarning, error) {
	rows, err := db.conn.Query(`
		SELECT row_num, column_name, value, reason
		FROM warnings WHERE source_key = ? ORDER BY idx`, key)
	if err != nil {
		return nil, fmt.Errorf("query warnings for %s: %w", key, err)
	}
	defer rows.Close()

	var out []model.CoercionWarning
	for rows.Next() {
		var w model.CoercionWarning
		if err := rows.Scan(&w.Row, &w.Column, &w.Value, &w.Reason); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// Store caches ds under key, replacing any previous entry. It implements
// cache.Cache.
func (db *DB) Store(key string, ds *model.Dataset) error {
	colsJSON, err := json.Marshal(ds.Columns)
	if err != nil {
		return fmt.Errorf("encode columns: %w", err)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteDataset(tx, key); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO datasets(source_key, source_path, columns, total_rows, loaded_at)
		VALUES (?, ?, ?, ?, ?)`,
		key, ds.Source, string(colsJSON), ds.TotalRows, ds.LoadedAt.UTC().Format(timeLayout),
	); err != nil {
		return fmt.Errorf("insert dataset %s: %w", key, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO sessions(
			source_key, row_idx, display_name, team, position, session_type, session_date,
			distance_z5, distance_z6, max_speed, all_max_speed,
			distance_total, total_time, entries_z6, hsr
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range ds.Records {
		var date sql.NullString
		if r.SessionDate.Valid {
			date = sql.NullString{String: r.SessionDate.Time.Format(timeLayout), Valid: true}
		}
		_, err = stmt.Exec(
			key, i, r.DisplayName, r.Team, r.Position, r.SessionType, date,
			r.DistanceZ5, r.DistanceZ6, r.MaxSpeed, r.AllMaxSpeed,
			r.DistanceTotal, r.TotalTime, r.EntriesZ6, r.HSR,
		)
		if err != nil {
			return fmt.Errorf("insert session %d: %w", i, err)
		}
	}

	wstmt, err := tx.Prepare(`
		INSERT INTO warnings(source_key, idx, row_num, column_name, value, reason)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer wstmt.Close()

	for i, w := range ds.Warnings {
		if _, err := wstmt.Exec(key, i, w.Row, w.Column, w.Value, w.Reason); err != nil {
			return fmt.Errorf("insert warning %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// ListDatasets returns every cached dataset, most recently loaded first.
func (db *DB) ListDatasets() ([]DatasetInfo, error) {
	rows, err := db.conn.Query(`
		SELECT d.source_key, d.source_path, d.total_rows, d.loaded_at,
		       (SELECT COUNT(1) FROM sessions s WHERE s.source_key = d.source_key),
		       (SELECT COUNT(1) FROM warnings w WHERE w.source_key = d.source_key)
		FROM datasets d ORDER BY d.loaded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DatasetInfo
	for rows.Next() {
		var (
			info     DatasetInfo
			loadedAt string
		)
		if err := rows.Scan(&info.SourceKey, &info.SourcePath, &info.TotalRows, &loadedAt,
			&info.Matches, &info.Warnings); err != nil {
			return nil, err
		}
		info.LoadedAt, _ = time.Parse(timeLayout, loadedAt)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Purge removes every cached dataset and returns how many were removed.
func (db *DB) Purge() (int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRow("SELECT COUNT(1) FROM datasets").Scan(&n); err != nil {
		return 0, err
	}
	for _, table := range []string{"warnings", "sessions", "datasets"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return 0, fmt.Errorf("purge %s: %w", table, err)
		}
	}
	return n, tx.Commit()
}

func deleteDataset(tx *sql.Tx, key string) error {
	for _, table := range []string{"warnings", "sessions", "datasets"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE source_key = ?", key); err != nil {
			return fmt.Errorf("delete %s for %s: %w", table, key, err)
		}
	}
	return nil
}
