package core

import (
	"context"
	"time"
)

// RFPRepository defines the persistence boundary for RFP records. All writes
// are single-row; implementations provide their engine's default isolation
// for concurrent readers.
type RFPRepository interface {
	// Insert persists a new record and assigns its id.
	Insert(ctx context.Context, rfp *RFP) error

	// GetByID returns the record or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*RFP, error)

	// Update replaces the stored row for rfp.ID, or returns ErrNotFound.
	Update(ctx context.Context, rfp *RFP) error

	// Delete hard-deletes the record, or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error

	// List returns one filtered, sorted page plus the unpaginated total.
	List(ctx context.Context, q ListQuery) ([]RFP, int, error)

	// CountByUrgency returns counts grouped by urgency level.
	CountByUrgency(ctx context.Context) (map[Urgency]int, error)

	// CountByStatus returns counts grouped by status.
	CountByStatus(ctx context.Context) (map[Status]int, error)

	// Count returns the total number of records.
	Count(ctx context.Context) (int, error)

	// Upcoming returns up to limit records with deadlines in
	// [now, now+within], ascending by deadline, optionally excluding
	// completed records.
	Upcoming(ctx context.Context, now time.Time, within time.Duration, excludeCompleted bool, limit int) ([]RFP, error)

	// Recent returns up to limit records, newest created first.
	Recent(ctx context.Context, limit int) ([]RFP, error)

	// NeedingAlert returns, ascending by deadline and without duplicates,
	// records that are overdue and not completed, due within 24 hours and
	// not completed, or due within 7 days and still unread.
	NeedingAlert(ctx context.Context, now time.Time) ([]RFP, error)
}

// MailSource defines the external mail client boundary used by ingestion.
type MailSource interface {
	// ListEnvelopes returns up to pageSize envelopes for the account, in
	// whatever order the source yields them.
	ListEnvelopes(ctx context.Context, account string, pageSize int) ([]Envelope, error)

	// ReadMessage returns the full message as header lines (Subject:,
	// From:, Date:) followed by a blank line and the plaintext body.
	ReadMessage(ctx context.Context, account, id string) (string, error)
}

// Notifier delivers alert notifications. Calls are best-effort; failures must
// never fail the operation that triggered them.
type Notifier interface {
	Notify(ctx context.Context, kind string, rfp *RFP) error
}
