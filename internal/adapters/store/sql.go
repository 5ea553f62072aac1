package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/niche/rfp-tracker/internal/core"
)

// sortColumns whitelists ORDER BY targets; anything else falls back to
// deadline so caller input never reaches the SQL string.
var sortColumns = map[string]string{
	"deadline":        "deadline",
	"name":            "name",
	"created_at":      "created_at",
	"updated_at":      "updated_at",
	"status":          "status",
	"priority":        "priority",
	"urgency_level":   "urgency_level",
	"estimated_value": "estimated_value",
}

const rfpColumns = `id, name, description, deadline, walkthrough_date, contact,
	contact_phone, organization, status, priority, urgency_level,
	estimated_value, bid_amount, notes, documents, tags, email_source,
	created_at, updated_at`

// SQLStore is a sqlx-backed implementation of the RFPRepository interface.
// SQLite and MySQL share the query layer; the constructors differ only in
// driver and schema bootstrap.
type SQLStore struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// Insert persists a new record and assigns its id.
func (s *SQLStore) Insert(ctx context.Context, rfp *core.RFP) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO rfps (
			name, description, deadline, walkthrough_date, contact,
			contact_phone, organization, status, priority, urgency_level,
			estimated_value, bid_amount, notes, documents, tags,
			email_source, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rfp.Name, rfp.Description, rfp.Deadline, rfp.WalkthroughDate,
		rfp.Contact, rfp.ContactPhone, rfp.Organization, rfp.Status,
		rfp.Priority, rfp.UrgencyLevel, rfp.EstimatedValue, rfp.BidAmount,
		rfp.Notes, rfp.Documents, rfp.Tags, rfp.EmailSource,
		rfp.CreatedAt, rfp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert rfp: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted rfp id: %w", err)
	}
	rfp.ID = id
	return nil
}

// GetByID returns the record or core.ErrNotFound.
func (s *SQLStore) GetByID(ctx context.Context, id int64) (*core.RFP, error) {
	var rfp core.RFP
	err := s.db.GetContext(ctx, &rfp, `SELECT `+rfpColumns+` FROM rfps WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query rfp %d: %w", id, err)
	}
	return &rfp, nil
}

// Update replaces the stored row for rfp.ID.
func (s *SQLStore) Update(ctx context.Context, rfp *core.RFP) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE rfps SET
			name = ?, description = ?, deadline = ?, walkthrough_date = ?,
			contact = ?, contact_phone = ?, organization = ?, status = ?,
			priority = ?, urgency_level = ?, estimated_value = ?,
			bid_amount = ?, notes = ?, documents = ?, tags = ?,
			email_source = ?, updated_at = ?
		WHERE id = ?`,
		rfp.Name, rfp.Description, rfp.Deadline, rfp.WalkthroughDate,
		rfp.Contact, rfp.ContactPhone, rfp.Organization, rfp.Status,
		rfp.Priority, rfp.UrgencyLevel, rfp.EstimatedValue, rfp.BidAmount,
		rfp.Notes, rfp.Documents, rfp.Tags, rfp.EmailSource,
		rfp.UpdatedAt, rfp.ID)
	if err != nil {
		return fmt.Errorf("failed to update rfp %d: %w", rfp.ID, err)
	}
	return s.requireRow(res, rfp.ID)
}

// Delete hard-deletes the record.
func (s *SQLStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rfps WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rfp %d: %w", id, err)
	}
	return s.requireRow(res, id)
}

// List returns one filtered, sorted page plus the unpaginated total.
func (s *SQLStore) List(ctx context.Context, q core.ListQuery) ([]core.RFP, int, error) {
	where, args := buildFilter(q)

	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM rfps`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count rfps: %w", err)
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = "deadline"
	}
	direction := "ASC"
	if strings.EqualFold(q.SortOrder, "desc") {
		direction = "DESC"
	}

	query := `SELECT ` + rfpColumns + ` FROM rfps` + where +
		fmt.Sprintf(" ORDER BY %s %s LIMIT ? OFFSET ?", column, direction)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rfps := []core.RFP{}
	if err := s.db.SelectContext(ctx, &rfps, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list rfps: %w", err)
	}
	return rfps, total, nil
}

// Count returns the total number of records.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM rfps`); err != nil {
		return 0, fmt.Errorf("failed to count rfps: %w", err)
	}
	return total, nil
}

// CountByUrgency returns counts grouped by urgency level.
func (s *SQLStore) CountByUrgency(ctx context.Context) (map[core.Urgency]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT urgency_level, COUNT(*) FROM rfps GROUP BY urgency_level`)
	if err != nil {
		return nil, fmt.Errorf("failed to count rfps by urgency: %w", err)
	}
	defer rows.Close()

	counts := make(map[core.Urgency]int)
	for rows.Next() {
		var level core.Urgency
		var n int
		if err := rows.Scan(&level, &n); err != nil {
			return nil, fmt.Errorf("failed to scan urgency count: %w", err)
		}
		counts[level] = n
	}
	return counts, rows.Err()
}

// CountByStatus returns counts grouped by status.
func (s *SQLStore) CountByStatus(ctx context.Context) (map[core.Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM rfps GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count rfps by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[core.Status]int)
	for rows.Next() {
		var status core.Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// Upcoming returns records with deadlines in [now, now+within], ascending.
func (s *SQLStore) Upcoming(ctx context.Context, now time.Time, within time.Duration, excludeCompleted bool, limit int) ([]core.RFP, error) {
	query := `SELECT ` + rfpColumns + ` FROM rfps WHERE deadline >= ? AND deadline <= ?`
	args := []interface{}{now, now.Add(within)}
	if excludeCompleted {
		query += ` AND status != ?`
		args = append(args, core.StatusCompleted)
	}
	query += ` ORDER BY deadline ASC LIMIT ?`
	args = append(args, limit)

	rfps := []core.RFP{}
	if err := s.db.SelectContext(ctx, &rfps, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query upcoming deadlines: %w", err)
	}
	return rfps, nil
}

// Recent returns up to limit records, newest created first.
func (s *SQLStore) Recent(ctx context.Context, limit int) ([]core.RFP, error) {
	rfps := []core.RFP{}
	err := s.db.SelectContext(ctx, &rfps,
		`SELECT `+rfpColumns+` FROM rfps ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent rfps: %w", err)
	}
	return rfps, nil
}

// NeedingAlert returns alert candidates, ascending by deadline. The OR'd
// conditions can overlap; a row still appears once.
func (s *SQLStore) NeedingAlert(ctx context.Context, now time.Time) ([]core.RFP, error) {
	tomorrow := now.Add(24 * time.Hour)
	nextWeek := now.Add(7 * 24 * time.Hour)

	rfps := []core.RFP{}
	err := s.db.SelectContext(ctx, &rfps, `
		SELECT `+rfpColumns+` FROM rfps
		WHERE (deadline < ? AND status != ?)
		   OR (deadline >= ? AND deadline <= ? AND status != ?)
		   OR (deadline >= ? AND deadline <= ? AND status = ?)
		ORDER BY deadline ASC`,
		now, core.StatusCompleted,
		now, tomorrow, core.StatusCompleted,
		now, nextWeek, core.StatusUnread)
	if err != nil {
		return nil, fmt.Errorf("failed to query rfps needing alerts: %w", err)
	}
	return rfps, nil
}

// Stop closes the database connection.
func (s *SQLStore) Stop() {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close database", zap.Error(err))
	}
}

func (s *SQLStore) requireRow(res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for rfp %d: %w", id, err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

// buildFilter translates the query's filters into a WHERE clause. Search is
// a case-insensitive contains over name, description and contact.
func buildFilter(q core.ListQuery) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if q.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, q.Status)
	}
	if q.Urgency != "" {
		clauses = append(clauses, "urgency_level = ?")
		args = append(args, q.Urgency)
	}
	if q.Search != "" {
		needle := "%" + strings.ToLower(q.Search) + "%"
		clauses = append(clauses, "(LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(contact) LIKE ?)")
		args = append(args, needle, needle, needle)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
