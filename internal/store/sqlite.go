package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

// SQLiteBackend keeps one row per player.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (or creates) the SQLite database and runs migrations.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS players (
		id         INTEGER PRIMARY KEY,
		name       TEXT,
		data       BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Printf("[INFO] sqlite player store opened: %s", dbPath)
	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) LoadAll(ctx context.Context) ([]Record, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT id, name, data, updated_at FROM players`)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var name sql.NullString
		if err := rows.Scan(&r.ID, &name, &r.Data, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		r.Name = name.String
		out = append(out, r)
	}
	return out, rows.Err()
}

func (b *SQLiteBackend) Persist(ctx context.Context, changed, _ []Record) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO players (id, name, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, data = excluded.data, updated_at = excluded.updated_at`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range changed {
		if _, err := stmt.ExecContext(ctx, r.ID, r.Name, r.Data, r.UpdatedAt); err != nil {
			tx.Rollback()
			return fmt.Errorf("upsert player %d: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

func (b *SQLiteBackend) Close() error {
	log.Println("[INFO] closing sqlite player store")
	return b.db.Close()
}
