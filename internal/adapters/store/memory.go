package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/niche/rfp-tracker/internal/core"
)

// MemoryStore is an in-memory implementation of the RFPRepository interface,
// used for tests and single-process runs without a database file.
type MemoryStore struct {
	mu     sync.RWMutex
	rfps   map[int64]core.RFP
	nextID int64
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rfps:   make(map[int64]core.RFP),
		nextID: 1,
	}
}

// Insert persists a new record and assigns its id.
func (s *MemoryStore) Insert(ctx context.Context, rfp *core.RFP) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rfp.ID = s.nextID
	s.nextID++
	s.rfps[rfp.ID] = *rfp
	return nil
}

// GetByID returns the record or core.ErrNotFound.
func (s *MemoryStore) GetByID(ctx context.Context, id int64) (*core.RFP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rfp, ok := s.rfps[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &rfp, nil
}

// Update replaces the stored row.
func (s *MemoryStore) Update(ctx context.Context, rfp *core.RFP) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rfps[rfp.ID]; !ok {
		return core.ErrNotFound
	}
	s.rfps[rfp.ID] = *rfp
	return nil
}

// Delete hard-deletes the record.
func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rfps[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.rfps, id)
	return nil
}

// List returns one filtered, sorted page plus the unpaginated total.
func (s *MemoryStore) List(ctx context.Context, q core.ListQuery) ([]core.RFP, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []core.RFP
	for _, rfp := range s.rfps {
		if matches(rfp, q) {
			rows = append(rows, rfp)
		}
	}

	sortRows(rows, q.SortBy, q.SortOrder)

	total := len(rows)
	offset := (q.Page - 1) * q.Limit
	if offset >= total {
		return []core.RFP{}, total, nil
	}
	end := offset + q.Limit
	if end > total {
		end = total
	}
	return rows[offset:end], total, nil
}

// Count returns the total number of records.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rfps), nil
}

// CountByUrgency returns counts grouped by urgency level.
func (s *MemoryStore) CountByUrgency(ctx context.Context) (map[core.Urgency]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[core.Urgency]int)
	for _, rfp := range s.rfps {
		counts[rfp.UrgencyLevel]++
	}
	return counts, nil
}

// CountByStatus returns counts grouped by status.
func (s *MemoryStore) CountByStatus(ctx context.Context) (map[core.Status]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[core.Status]int)
	for _, rfp := range s.rfps {
		counts[rfp.Status]++
	}
	return counts, nil
}

// Upcoming returns records with deadlines in [now, now+within], ascending.
func (s *MemoryStore) Upcoming(ctx context.Context, now time.Time, within time.Duration, excludeCompleted bool, limit int) ([]core.RFP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := now.Add(within)
	var rows []core.RFP
	for _, rfp := range s.rfps {
		if rfp.Deadline.Before(now) || rfp.Deadline.After(cutoff) {
			continue
		}
		if excludeCompleted && rfp.Status == core.StatusCompleted {
			continue
		}
		rows = append(rows, rfp)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Deadline.Before(rows[j].Deadline) })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// Recent returns up to limit records, newest created first.
func (s *MemoryStore) Recent(ctx context.Context, limit int) ([]core.RFP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]core.RFP, 0, len(s.rfps))
	for _, rfp := range s.rfps {
		rows = append(rows, rfp)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID > rows[j].ID
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// NeedingAlert returns alert candidates, ascending by deadline, each record
// at most once even when it satisfies several conditions.
func (s *MemoryStore) NeedingAlert(ctx context.Context, now time.Time) ([]core.RFP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tomorrow := now.Add(24 * time.Hour)
	nextWeek := now.Add(7 * 24 * time.Hour)

	var rows []core.RFP
	for _, rfp := range s.rfps {
		overdue := rfp.Deadline.Before(now) && rfp.Status != core.StatusCompleted
		dueSoon := !rfp.Deadline.Before(now) && !rfp.Deadline.After(tomorrow) && rfp.Status != core.StatusCompleted
		unreadWeek := !rfp.Deadline.Before(now) && !rfp.Deadline.After(nextWeek) && rfp.Status == core.StatusUnread
		if overdue || dueSoon || unreadWeek {
			rows = append(rows, rfp)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Deadline.Before(rows[j].Deadline) })
	return rows, nil
}

func matches(rfp core.RFP, q core.ListQuery) bool {
	if q.Status != "" && rfp.Status != q.Status {
		return false
	}
	if q.Urgency != "" && rfp.UrgencyLevel != q.Urgency {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(rfp.Name), needle) &&
			!strings.Contains(strings.ToLower(rfp.Description), needle) &&
			!strings.Contains(strings.ToLower(rfp.Contact), needle) {
			return false
		}
	}
	return true
}

func sortRows(rows []core.RFP, sortBy, sortOrder string) {
	less := func(a, b core.RFP) bool { return a.Deadline.Before(b.Deadline) }

	switch sortBy {
	case "name":
		less = func(a, b core.RFP) bool { return a.Name < b.Name }
	case "created_at":
		less = func(a, b core.RFP) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "updated_at":
		less = func(a, b core.RFP) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case "status":
		less = func(a, b core.RFP) bool { return a.Status < b.Status }
	case "priority":
		less = func(a, b core.RFP) bool { return a.Priority < b.Priority }
	case "urgency_level":
		less = func(a, b core.RFP) bool { return a.UrgencyLevel < b.UrgencyLevel }
	case "estimated_value":
		less = func(a, b core.RFP) bool {
			return derefValue(a.EstimatedValue) < derefValue(b.EstimatedValue)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if strings.EqualFold(sortOrder, "desc") {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

func derefValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
