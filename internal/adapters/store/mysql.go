package store

import (
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const mysqlSchema = `
	CREATE TABLE IF NOT EXISTS rfps (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		deadline TIMESTAMP NOT NULL,
		walkthrough_date TIMESTAMP NULL,
		contact VARCHAR(255) NOT NULL DEFAULT '',
		contact_phone VARCHAR(32) NOT NULL DEFAULT '',
		organization VARCHAR(255) NOT NULL DEFAULT '',
		status VARCHAR(16) NOT NULL DEFAULT 'unread',
		priority VARCHAR(16) NOT NULL DEFAULT 'medium',
		urgency_level VARCHAR(16) NOT NULL DEFAULT 'normal',
		estimated_value DECIMAL(15,2) NULL,
		bid_amount DECIMAL(15,2) NULL,
		notes TEXT,
		documents TEXT,
		tags TEXT,
		email_source VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		INDEX idx_rfps_deadline (deadline),
		INDEX idx_rfps_status (status),
		INDEX idx_rfps_urgency_level (urgency_level),
		INDEX idx_rfps_priority (priority),
		INDEX idx_rfps_created_at (created_at)
	)`

// NewMySQLStore connects to MySQL and ensures the schema exists.
func NewMySQLStore(dsn string, logger *zap.Logger) (*SQLStore, error) {
	db, err := sqlx.Open("mysql", normalizeDSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	if _, err := db.Exec(mysqlSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create rfps table: %w", err)
	}

	return &SQLStore{db: db, logger: logger}, nil
}

// normalizeDSN ensures the driver parameters the store relies on: parseTime
// so TIMESTAMP columns scan into time.Time, and clientFoundRows so UPDATE
// reports matched rows rather than changed rows. Without the latter an
// update that leaves every column as-is would count zero rows and look like
// a missing id.
func normalizeDSN(dsn string) string {
	var params []string
	if !strings.Contains(dsn, "parseTime") {
		params = append(params, "parseTime=true")
	}
	if !strings.Contains(dsn, "clientFoundRows") {
		params = append(params, "clientFoundRows=true")
	}
	if len(params) == 0 {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}
