package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/niche/rfp-tracker/internal/core"
)

func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(s.Stop)
	return s
}

func sampleRFP(name string, deadline time.Time) *core.RFP {
	value := 50000.0
	return &core.RFP{
		Name:           name,
		Description:    "Full building envelope restoration",
		Deadline:       deadline,
		Contact:        "bids@acme.com",
		ContactPhone:   "(212) 555-0100",
		Organization:   "Acme",
		Status:         core.StatusUnread,
		Priority:       core.PriorityMedium,
		UrgencyLevel:   core.UrgencyNormal,
		EstimatedValue: &value,
		Notes:          "Imported from email",
		Documents:      core.StringList{"rfp.pdf"},
		Tags:           core.StringList{"facade", "ll11"},
		EmailSource:    "17@bids@acme.com",
		CreatedAt:      time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:      time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSQLiteInsertAndGet(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	rfp := sampleRFP("Facade Restoration", time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, s.Insert(ctx, rfp))
	require.NotZero(t, rfp.ID)

	got, err := s.GetByID(ctx, rfp.ID)
	require.NoError(t, err)
	require.Equal(t, rfp.Name, got.Name)
	require.Equal(t, rfp.Description, got.Description)
	require.True(t, got.Deadline.Equal(rfp.Deadline))
	require.Nil(t, got.WalkthroughDate)
	require.Equal(t, rfp.Status, got.Status)
	require.Equal(t, rfp.UrgencyLevel, got.UrgencyLevel)
	require.NotNil(t, got.EstimatedValue)
	require.Equal(t, 50000.0, *got.EstimatedValue)
	require.Nil(t, got.BidAmount)
	require.Equal(t, core.StringList{"rfp.pdf"}, got.Documents)
	require.Equal(t, core.StringList{"facade", "ll11"}, got.Tags)
	require.Equal(t, rfp.EmailSource, got.EmailSource)
}

func TestSQLiteGetNotFound(t *testing.T) {
	s := newSQLiteStore(t)

	_, err := s.GetByID(context.Background(), 99)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestSQLiteUpdate(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	rfp := sampleRFP("Facade Restoration", time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, s.Insert(ctx, rfp))

	rfp.Status = core.StatusSubmitted
	rfp.Notes = "Submitted on time"
	require.NoError(t, s.Update(ctx, rfp))

	got, err := s.GetByID(ctx, rfp.ID)
	require.NoError(t, err)
	require.Equal(t, core.StatusSubmitted, got.Status)
	require.Equal(t, "Submitted on time", got.Notes)

	// Re-sending identical values must not read as a missing record.
	require.NoError(t, s.Update(ctx, rfp))

	missing := sampleRFP("Missing", time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC))
	missing.ID = 99
	require.ErrorIs(t, s.Update(ctx, missing), core.ErrNotFound)
}

func TestSQLiteDelete(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	rfp := sampleRFP("Facade Restoration", time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, s.Insert(ctx, rfp))

	require.NoError(t, s.Delete(ctx, rfp.ID))
	_, err := s.GetByID(ctx, rfp.ID)
	require.ErrorIs(t, err, core.ErrNotFound)

	require.ErrorIs(t, s.Delete(ctx, rfp.ID), core.ErrNotFound)
}

func TestSQLiteListFilterSearchAndSort(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	base := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	first := sampleRFP("Garage Membrane", base.Add(48*time.Hour))
	second := sampleRFP("Facade Restoration", base)
	second.Status = core.StatusSubmitted
	third := sampleRFP("Roof Replacement", base.Add(24*time.Hour))
	for _, rfp := range []*core.RFP{first, second, third} {
		require.NoError(t, s.Insert(ctx, rfp))
	}

	rows, total, err := s.List(ctx, core.ListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Equal(t, "Facade Restoration", rows[0].Name)
	require.Equal(t, "Roof Replacement", rows[1].Name)
	require.Equal(t, "Garage Membrane", rows[2].Name)

	rows, total, err = s.List(ctx, core.ListQuery{Page: 1, Limit: 10, Status: core.StatusSubmitted})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "Facade Restoration", rows[0].Name)

	rows, total, err = s.List(ctx, core.ListQuery{Page: 1, Limit: 10, Search: "ROOF"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "Roof Replacement", rows[0].Name)

	rows, total, err = s.List(ctx, core.ListQuery{Page: 1, Limit: 10, SortBy: "name", SortOrder: "desc"})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Equal(t, "Roof Replacement", rows[0].Name)

	// An unknown sort column falls back to deadline ordering.
	rows, _, err = s.List(ctx, core.ListQuery{Page: 1, Limit: 10, SortBy: "id; DROP TABLE rfps"})
	require.NoError(t, err)
	require.Equal(t, "Facade Restoration", rows[0].Name)

	rows, total, err = s.List(ctx, core.ListQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, rows, 1)
}

func TestSQLiteCountsAndUpcoming(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	urgent := sampleRFP("Due Tomorrow", now.Add(24*time.Hour))
	urgent.UrgencyLevel = core.UrgencyUrgent
	done := sampleRFP("Completed Job", now.Add(48*time.Hour))
	done.Status = core.StatusCompleted
	farOut := sampleRFP("Far Out", now.Add(30*24*time.Hour))
	for _, rfp := range []*core.RFP{urgent, done, farOut} {
		require.NoError(t, s.Insert(ctx, rfp))
	}

	total, err := s.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, total)

	byUrgency, err := s.CountByUrgency(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, byUrgency[core.UrgencyUrgent])
	require.Equal(t, 2, byUrgency[core.UrgencyNormal])

	byStatus, err := s.CountByStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, byStatus[core.StatusUnread])
	require.Equal(t, 1, byStatus[core.StatusCompleted])

	upcoming, err := s.Upcoming(ctx, now, 7*24*time.Hour, false, 10)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	require.Equal(t, "Due Tomorrow", upcoming[0].Name)

	upcoming, err = s.Upcoming(ctx, now, 7*24*time.Hour, true, 10)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	require.Equal(t, "Due Tomorrow", upcoming[0].Name)
}

func TestSQLiteRecent(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	deadline := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)

	older := sampleRFP("Older", deadline)
	newer := sampleRFP("Newer", deadline)
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)
	require.NoError(t, s.Insert(ctx, older))
	require.NoError(t, s.Insert(ctx, newer))

	rows, err := s.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Newer", rows[0].Name)
}

func TestSQLiteNeedingAlert(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	overdue := sampleRFP("Overdue Bid", now.Add(-24*time.Hour))
	overdueDone := sampleRFP("Overdue Completed", now.Add(-24*time.Hour))
	overdueDone.Status = core.StatusCompleted
	// Unread and due within a day, so two of the OR'd conditions match.
	dueSoon := sampleRFP("Due Tomorrow", now.Add(12*time.Hour))
	unreadWeek := sampleRFP("Unread This Week", now.Add(5*24*time.Hour))
	readWeek := sampleRFP("In Progress This Week", now.Add(5*24*time.Hour))
	readWeek.Status = core.StatusInProgress
	for _, rfp := range []*core.RFP{overdue, overdueDone, dueSoon, unreadWeek, readWeek} {
		require.NoError(t, s.Insert(ctx, rfp))
	}

	rows, err := s.NeedingAlert(ctx, now)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Overdue Bid", rows[0].Name)
	require.Equal(t, "Due Tomorrow", rows[1].Name)
	require.Equal(t, "Unread This Week", rows[2].Name)
}
