package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS rfps (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		deadline TIMESTAMP NOT NULL,
		walkthrough_date TIMESTAMP,
		contact TEXT NOT NULL DEFAULT '',
		contact_phone TEXT NOT NULL DEFAULT '',
		organization TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'unread',
		priority TEXT NOT NULL DEFAULT 'medium',
		urgency_level TEXT NOT NULL DEFAULT 'normal',
		estimated_value REAL,
		bid_amount REAL,
		notes TEXT NOT NULL DEFAULT '',
		documents TEXT NOT NULL DEFAULT '[]',
		tags TEXT NOT NULL DEFAULT '[]',
		email_source TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`

var sqliteIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_rfps_deadline ON rfps(deadline)`,
	`CREATE INDEX IF NOT EXISTS idx_rfps_status ON rfps(status)`,
	`CREATE INDEX IF NOT EXISTS idx_rfps_urgency_level ON rfps(urgency_level)`,
	`CREATE INDEX IF NOT EXISTS idx_rfps_priority ON rfps(priority)`,
	`CREATE INDEX IF NOT EXISTS idx_rfps_created_at ON rfps(created_at)`,
}

// NewSQLiteStore opens (or creates) the embedded database file and ensures
// the schema exists.
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLStore, error) {
	db, err := sqlx.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create rfps table: %w", err)
	}
	for _, stmt := range sqliteIndexes {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create index: %w", err)
		}
	}

	return &SQLStore{db: db, logger: logger}, nil
}
