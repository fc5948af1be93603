package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"routineshell/pkg/routinetypes"
)

type sqlDialect struct {
	name   string
	create string
	get    string
	upsert string
}

var sqliteDialect = sqlDialect{
	name: "sqlite",
	create: `CREATE TABLE IF NOT EXISTS slots (
		slot_key TEXT PRIMARY KEY,
		slot_value TEXT NOT NULL
	)`,
	get:    `SELECT slot_value FROM slots WHERE slot_key = ?`,
	upsert: `INSERT INTO slots (slot_key, slot_value) VALUES (?, ?) ON CONFLICT(slot_key) DO UPDATE SET slot_value = excluded.slot_value`,
}

var postgresDialect = sqlDialect{
	name: "postgres",
	create: `CREATE TABLE IF NOT EXISTS routine_slots (
		slot_key TEXT PRIMARY KEY,
		slot_value TEXT NOT NULL
	)`,
	get:    `SELECT slot_value FROM routine_slots WHERE slot_key = $1`,
	upsert: `INSERT INTO routine_slots (slot_key, slot_value) VALUES ($1, $2) ON CONFLICT (slot_key) DO UPDATE SET slot_value = EXCLUDED.slot_value`,
}

// SQLSlot stores slots in a two-column table through database/sql.
type SQLSlot struct {
	db      *sql.DB
	dialect sqlDialect
}

// OpenSQLiteSlot opens (creating if needed) a SQLite database at path.
func OpenSQLiteSlot(ctx context.Context, path string) (*SQLSlot, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return newSQLSlot(ctx, db, sqliteDialect)
}

// OpenPostgresSlot connects to Postgres through the pgx stdlib driver.
func OpenPostgresSlot(ctx context.Context, dsn string) (*SQLSlot, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return newSQLSlot(ctx, db, postgresDialect)
}

func newSQLSlot(ctx context.Context, db *sql.DB, dialect sqlDialect) (*SQLSlot, error) {
	if _, err := db.ExecContext(ctx, dialect.create); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create %s slot table: %w", dialect.name, err)
	}
	return &SQLSlot{db: db, dialect: dialect}, nil
}

// Get implements Slot.
func (s *SQLSlot) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.dialect.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", routinetypes.ErrSlotNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select slot: %w", err)
	}
	return value, nil
}

// Set implements Slot.
func (s *SQLSlot) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.upsert, key, value); err != nil {
		return fmt.Errorf("upsert slot: %w", err)
	}
	return nil
}

// Close implements Slot.
func (s *SQLSlot) Close() error {
	return s.db.Close()
}
