package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists game history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sales (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			player_id   INTEGER NOT NULL,
			resource    TEXT,
			quantity    REAL,
			earned      REAL,
			money_after REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_player ON sales(player_id, timestamp)`,

		`CREATE TABLE IF NOT EXISTS purchases (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			player_id   INTEGER NOT NULL,
			item        TEXT,
			level       INTEGER,
			paid        REAL,
			money_after REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_player ON purchases(player_id, timestamp)`,

		`CREATE TABLE IF NOT EXISTS discoveries (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			player_id INTEGER NOT NULL,
			deposit   TEXT,
			resource  TEXT,
			amount    REAL,
			stored    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_discoveries_player ON discoveries(player_id, timestamp)`,

		`CREATE TABLE IF NOT EXISTS level_ups (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			player_id    INTEGER NOT NULL,
			level        INTEGER,
			required_exp INTEGER
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSale(evt *SaleEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO sales
		(timestamp, player_id, resource, quantity, earned, money_after)
		VALUES (?,?,?,?,?,?)`,
		r.now().Unix(), evt.PlayerID, evt.Resource, evt.Quantity, evt.Earned, evt.MoneyAfter,
	)
	return err
}

func (r *SQLiteRecorder) RecordPurchase(evt *PurchaseEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO purchases
		(timestamp, player_id, item, level, paid, money_after)
		VALUES (?,?,?,?,?,?)`,
		r.now().Unix(), evt.PlayerID, evt.Item, evt.Level, evt.Paid, evt.MoneyAfter,
	)
	return err
}

func (r *SQLiteRecorder) RecordDiscovery(evt *DiscoveryEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := 0
	if evt.Stored {
		stored = 1
	}
	_, err := r.db.Exec(`INSERT INTO discoveries
		(timestamp, player_id, deposit, resource, amount, stored)
		VALUES (?,?,?,?,?,?)`,
		r.now().Unix(), evt.PlayerID, evt.Deposit, evt.Resource, evt.Amount, stored,
	)
	return err
}

func (r *SQLiteRecorder) RecordLevel(evt *LevelEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO level_ups
		(timestamp, player_id, level, required_exp)
		VALUES (?,?,?,?)`,
		r.now().Unix(), evt.PlayerID, evt.Level, evt.RequiredExp,
	)
	return err
}

// TotalEarned sums the credits a player has made from sales.
func (r *SQLiteRecorder) TotalEarned(playerID int64) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total sql.NullFloat64
	err := r.db.QueryRow(`SELECT SUM(earned) FROM sales WHERE player_id = ?`, playerID).Scan(&total)
	return total.Float64, err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
