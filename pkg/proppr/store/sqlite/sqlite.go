package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cognicore/proppr/pkg/proppr/internalerr"
	"github.com/cognicore/proppr/pkg/proppr/store"
)

const schemeKey = "scheme"

// sqliteStore implements the ParamStore interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.ParamStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Initialize schema
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS params (
	feature TEXT PRIMARY KEY,
	value REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// Params loads the whole coefficient table
func (s *sqliteStore) Params(ctx context.Context) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT feature, value FROM params`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	params := make(map[string]float64)
	for rows.Next() {
		var (
			feature string
			value   float64
		)
		if err := rows.Scan(&feature, &value); err != nil {
			return nil, err
		}
		params[feature] = value
	}
	return params, rows.Err()
}

// Param loads one coefficient
func (s *sqliteStore) Param(ctx context.Context, feature string) (float64, bool, error) {
	var value float64
	err := s.db.QueryRowContext(ctx, `SELECT value FROM params WHERE feature = ?`, feature).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return value, true, nil
}

// UpsertParam inserts or updates one coefficient
func (s *sqliteStore) UpsertParam(ctx context.Context, feature string, value float64) error {
	if feature == "" {
		return fmt.Errorf("%w: empty feature name", internalerr.ErrInvalidInput)
	}
	const stmt = `
INSERT INTO params (feature, value) VALUES (?, ?)
ON CONFLICT(feature) DO UPDATE SET value=excluded.value;
`
	_, err := s.db.ExecContext(ctx, stmt, feature, value)
	return err
}

// ReplaceParams rewrites the table in one transaction
func (s *sqliteStore) ReplaceParams(ctx context.Context, params map[string]float64) error {
	for f := range params {
		if f == "" {
			return fmt.Errorf("%w: empty feature name", internalerr.ErrInvalidInput)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM params`); err != nil {
		return err
	}
	if len(params) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO params (feature, value) VALUES (?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for f, v := range params {
			if _, err := stmt.ExecContext(ctx, f, v); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// Scheme returns the recorded weighting scheme
func (s *sqliteStore) Scheme(ctx context.Context) (string, bool, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, schemeKey).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

// SetScheme records the weighting scheme
func (s *sqliteStore) SetScheme(ctx context.Context, name string) error {
	const stmt = `
INSERT INTO meta (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value;
`
	_, err := s.db.ExecContext(ctx, stmt, schemeKey, name)
	return err
}
