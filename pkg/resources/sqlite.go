package resources

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/readmeio/render-exporter/pkg/render"
)

// SQLiteStore persists the latest snapshot in a single-row SQLite table.
// It is suitable for single-instance deployments where surviving a restart
// without an upstream round trip matters.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the snapshot database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot db path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		path, int((5 * time.Second).Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshot (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		services TEXT NOT NULL,
		key_values TEXT NOT NULL,
		databases TEXT NOT NULL,
		refreshed_at INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load implements Store.
func (s *SQLiteStore) Load(ctx context.Context) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT services, key_values, databases, refreshed_at FROM snapshot WHERE id = 1`)

	var servicesJSON, keyValuesJSON, databasesJSON string
	var refreshedAt int64
	if err := row.Scan(&servicesJSON, &keyValuesJSON, &databasesJSON, &refreshedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	snap := &Snapshot{RefreshedAt: time.Unix(refreshedAt, 0)}
	for _, col := range []struct {
		data string
		dst  *[]render.Resource
	}{
		{servicesJSON, &snap.Services},
		{keyValuesJSON, &snap.KeyValues},
		{databasesJSON, &snap.Databases},
	} {
		if err := json.Unmarshal([]byte(col.data), col.dst); err != nil {
			return nil, fmt.Errorf("failed to decode persisted snapshot: %w", err)
		}
	}
	return snap, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, snap *Snapshot) error {
	servicesJSON, err := json.Marshal(snap.Services)
	if err != nil {
		return fmt.Errorf("failed to encode services: %w", err)
	}
	keyValuesJSON, err := json.Marshal(snap.KeyValues)
	if err != nil {
		return fmt.Errorf("failed to encode key values: %w", err)
	}
	databasesJSON, err := json.Marshal(snap.Databases)
	if err != nil {
		return fmt.Errorf("failed to encode databases: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshot (id, services, key_values, databases, refreshed_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			services = excluded.services,
			key_values = excluded.key_values,
			databases = excluded.databases,
			refreshed_at = excluded.refreshed_at
	`, string(servicesJSON), string(keyValuesJSON), string(databasesJSON), snap.RefreshedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
