// Package store persists live readings so the dashboard can chart history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/dmitriimaksimovdevelop/aquanova/internal/model"
)

// DefaultLimit is the number of readings returned when no limit is given.
const DefaultLimit = 100

// Store defines reading persistence operations.
type Store interface {
	// Save stores r, assigning an ID and timestamp when missing.
	Save(ctx context.Context, r model.Reading) (model.Reading, error)

	// Recent returns up to limit of the newest readings, oldest first.
	Recent(ctx context.Context, limit int) ([]model.Reading, error)

	// Prune deletes readings older than before and reports how many went.
	Prune(ctx context.Context, before time.Time) (int64, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	Path string
	Now  func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		path = filepath.Join("data", "aquanova.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	const schema = `
	CREATE TABLE IF NOT EXISTS readings (
		id TEXT PRIMARY KEY,
		ts INTEGER NOT NULL,
		temperature REAL NOT NULL,
		ph REAL NOT NULL,
		dissolved_oxygen REAL NOT NULL,
		turbidity REAL NOT NULL,
		salinity REAL NOT NULL,
		ammonia REAL NOT NULL,
		health_score INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_readings_ts ON readings(ts);`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &SQLiteStore{db: db, Path: path}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, r model.Reading) (model.Reading, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO readings(id, ts, temperature, ph, dissolved_oxygen, turbidity, salinity, ammonia, health_score)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Timestamp.UnixNano(),
		r.Temperature, r.PH, r.DissolvedOxygen, r.Turbidity, r.Salinity, r.Ammonia,
		model.ComputeHealthScore(r),
	)
	if err != nil {
		return model.Reading{}, fmt.Errorf("insert reading %s: %w", r.ID, err)
	}
	return r, nil
}

// Recent implements Store. A non-positive limit means DefaultLimit.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]model.Reading, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ts, temperature, ph, dissolved_oxygen, turbidity, salinity, ammonia
		FROM readings
		ORDER BY ts DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query readings: %w", err)
	}
	defer rows.Close()

	result := []model.Reading{}
	for rows.Next() {
		var r model.Reading
		var ts int64
		if err := rows.Scan(&r.ID, &ts,
			&r.Temperature, &r.PH, &r.DissolvedOxygen, &r.Turbidity, &r.Salinity, &r.Ammonia); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		r.Timestamp = time.Unix(0, ts).UTC()
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate readings: %w", err)
	}

	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result, nil
}

// Prune implements Store.
func (s *SQLiteStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM readings WHERE ts < ?`, before.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("prune readings: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune readings: %w", err)
	}
	return n, nil
}

// AverageHealth returns the mean stored health score since the given time,
// and the number of readings it covers.
func (s *SQLiteStore) AverageHealth(ctx context.Context, since time.Time) (float64, int, error) {
	var avg sql.NullFloat64
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT AVG(health_score), COUNT(*) FROM readings WHERE ts >= ?`, since.UnixNano()).Scan(&avg, &n)
	if err != nil {
		return 0, 0, fmt.Errorf("average health: %w", err)
	}
	return avg.Float64, n, nil
}

func (s *SQLiteStore) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}
