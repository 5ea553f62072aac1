package core

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	defaultPageLimit = 50
	maxNameLength    = 255
)

var (
	// minDeadline guards against obviously bogus deadlines from imports.
	minDeadline = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

	emailPattern = regexp.MustCompile(`^[\w.\-+]+@[\w.\-]+\.\w+$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
)

// RFPService implements the record store operations on top of an
// RFPRepository: validation, defaulting, urgency recomputation and
// best-effort alerting.
type RFPService struct {
	repo     RFPRepository
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewRFPService creates a new RFP service.
func NewRFPService(repo RFPRepository, notifier Notifier, logger *zap.Logger) *RFPService {
	return &RFPService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the service's wall clock. Used by tests.
func (s *RFPService) WithClock(now func() time.Time) *RFPService {
	s.now = now
	return s
}

// Create validates and persists a new RFP. Urgency is computed from the
// deadline; an urgent or overdue record fires a fire-and-forget alert.
func (s *RFPService) Create(ctx context.Context, in CreateInput) (*RFP, error) {
	now := s.now()

	var errs []string
	if in.Name == "" {
		errs = append(errs, "name is required")
	} else if utf8.RuneCountInString(in.Name) > maxNameLength {
		errs = append(errs, fmt.Sprintf("name must be at most %d characters", maxNameLength))
	}
	if in.Deadline == nil {
		errs = append(errs, "deadline is required")
	} else {
		errs = append(errs, validateDeadline(*in.Deadline, now)...)
	}
	errs = append(errs, validateOptionalFields(in.Contact, in.ContactPhone, in.EstimatedValue, in.BidAmount)...)

	status := in.Status
	if status == "" {
		status = StatusUnread
	} else if !ValidStatus(status) {
		errs = append(errs, fmt.Sprintf("invalid status: %s", status))
	}
	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	} else if !ValidPriority(priority) {
		errs = append(errs, fmt.Sprintf("invalid priority: %s", priority))
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	rfp := &RFP{
		Name:            in.Name,
		Description:     in.Description,
		Deadline:        *in.Deadline,
		WalkthroughDate: in.WalkthroughDate,
		Contact:         in.Contact,
		ContactPhone:    in.ContactPhone,
		Organization:    in.Organization,
		Status:          status,
		Priority:        priority,
		UrgencyLevel:    UrgencyFor(*in.Deadline, now),
		EstimatedValue:  in.EstimatedValue,
		BidAmount:       in.BidAmount,
		Notes:           in.Notes,
		Documents:       in.Documents,
		Tags:            in.Tags,
		EmailSource:     in.EmailSource,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, rfp); err != nil {
		return nil, fmt.Errorf("failed to create rfp: %w", err)
	}

	if rfp.UrgencyLevel == UrgencyUrgent || rfp.UrgencyLevel == UrgencyOverdue {
		s.sendAlert("new_urgent_rfp", rfp)
	}

	return rfp, nil
}

// Update applies a partial update; only non-nil fields change. Urgency is
// recomputed from the effective deadline regardless of the payload.
func (s *RFPService) Update(ctx context.Context, id int64, in UpdateInput) (*RFP, error) {
	rfp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()

	var errs []string
	if in.Name != nil {
		if *in.Name == "" {
			errs = append(errs, "name must not be empty")
		} else if utf8.RuneCountInString(*in.Name) > maxNameLength {
			errs = append(errs, fmt.Sprintf("name must be at most %d characters", maxNameLength))
		}
	}
	if in.Deadline != nil {
		errs = append(errs, validateDeadline(*in.Deadline, now)...)
	}
	var contact, phone string
	if in.Contact != nil {
		contact = *in.Contact
	}
	if in.ContactPhone != nil {
		phone = *in.ContactPhone
	}
	errs = append(errs, validateOptionalFields(contact, phone, in.EstimatedValue, in.BidAmount)...)
	if in.Status != nil && !ValidStatus(*in.Status) {
		errs = append(errs, fmt.Sprintf("invalid status: %s", *in.Status))
	}
	if in.Priority != nil && !ValidPriority(*in.Priority) {
		errs = append(errs, fmt.Sprintf("invalid priority: %s", *in.Priority))
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	if in.Name != nil {
		rfp.Name = *in.Name
	}
	if in.Description != nil {
		rfp.Description = *in.Description
	}
	if in.Deadline != nil {
		rfp.Deadline = *in.Deadline
	}
	if in.WalkthroughDate != nil {
		rfp.WalkthroughDate = in.WalkthroughDate
	}
	if in.Contact != nil {
		rfp.Contact = *in.Contact
	}
	if in.ContactPhone != nil {
		rfp.ContactPhone = *in.ContactPhone
	}
	if in.Organization != nil {
		rfp.Organization = *in.Organization
	}
	if in.Status != nil {
		rfp.Status = *in.Status
	}
	if in.Priority != nil {
		rfp.Priority = *in.Priority
	}
	if in.EstimatedValue != nil {
		rfp.EstimatedValue = in.EstimatedValue
	}
	if in.BidAmount != nil {
		rfp.BidAmount = in.BidAmount
	}
	if in.Notes != nil {
		rfp.Notes = *in.Notes
	}
	if in.Documents != nil {
		rfp.Documents = in.Documents
	}
	if in.Tags != nil {
		rfp.Tags = in.Tags
	}
	if in.EmailSource != nil {
		rfp.EmailSource = *in.EmailSource
	}

	rfp.UrgencyLevel = UrgencyFor(rfp.Deadline, now)
	rfp.UpdatedAt = now

	if err := s.repo.Update(ctx, rfp); err != nil {
		return nil, fmt.Errorf("failed to update rfp: %w", err)
	}
	return rfp, nil
}

// ChangeStatus sets the record's status and appends a timestamped history
// line to its notes instead of overwriting them.
func (s *RFPService) ChangeStatus(ctx context.Context, id int64, status Status, notes string) (*RFP, error) {
	if !ValidStatus(status) {
		return nil, &ValidationError{Errors: []string{fmt.Sprintf("invalid status: %s", status)}}
	}

	rfp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entry := fmt.Sprintf("[%s] Status changed to: %s", now.Format(time.RFC3339), status)
	if notes != "" {
		entry += " - " + notes
	}
	if rfp.Notes != "" {
		rfp.Notes += "\n" + entry
	} else {
		rfp.Notes = entry
	}

	rfp.Status = status
	rfp.UrgencyLevel = UrgencyFor(rfp.Deadline, now)
	rfp.UpdatedAt = now

	if err := s.repo.Update(ctx, rfp); err != nil {
		return nil, fmt.Errorf("failed to change rfp status: %w", err)
	}
	return rfp, nil
}

// Delete hard-deletes the record.
func (s *RFPService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Get returns a single record by id.
func (s *RFPService) Get(ctx context.Context, id int64) (*RFP, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns one page of records with pagination totals.
func (s *RFPService) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageLimit
	}
	if q.SortBy == "" {
		q.SortBy = "deadline"
	}
	if q.SortOrder == "" {
		q.SortOrder = "asc"
	}

	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list rfps: %w", err)
	}

	return &ListResult{
		RFPs:        rows,
		TotalCount:  total,
		CurrentPage: q.Page,
		TotalPages:  int(math.Ceil(float64(total) / float64(q.Limit))),
	}, nil
}

// Stats builds the dashboard summary. Urgency buckets are always present,
// even at zero; status buckets carry observed statuses only.
func (s *RFPService) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count rfps: %w", err)
	}

	urgency := map[Urgency]int{
		UrgencyOverdue: 0,
		UrgencyUrgent:  0,
		UrgencyWarning: 0,
		UrgencyNormal:  0,
	}
	byUrgency, err := s.repo.CountByUrgency(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count rfps by urgency: %w", err)
	}
	for k, v := range byUrgency {
		urgency[k] = v
	}

	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count rfps by status: %w", err)
	}

	upcoming, err := s.repo.Upcoming(ctx, s.now(), 7*24*time.Hour, false, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to load upcoming deadlines: %w", err)
	}

	return &Stats{
		Total:             total,
		Urgency:           urgency,
		Status:            byStatus,
		UpcomingDeadlines: upcoming,
	}, nil
}

// Recent returns the most recently created records, newest first.
func (s *RFPService) Recent(ctx context.Context, limit int) ([]RFP, error) {
	return s.repo.Recent(ctx, limit)
}

// UpcomingDeadlines returns records due within the window, soonest first.
func (s *RFPService) UpcomingDeadlines(ctx context.Context, within time.Duration, excludeCompleted bool, limit int) ([]RFP, error) {
	return s.repo.Upcoming(ctx, s.now(), within, excludeCompleted, limit)
}

// FindNeedingAlert returns records due for an alert run, ascending by
// deadline and without duplicates.
func (s *RFPService) FindNeedingAlert(ctx context.Context, now time.Time) ([]RFP, error) {
	return s.repo.NeedingAlert(ctx, now)
}

// sendAlert notifies in the background; a failed notification only logs.
func (s *RFPService) sendAlert(kind string, rfp *RFP) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.Notify(ctx, kind, rfp); err != nil {
			s.logger.Error("Failed to send alert",
				zap.String("kind", kind),
				zap.Int64("rfp_id", rfp.ID),
				zap.Error(err))
		}
	}()
}

func validateDeadline(deadline, now time.Time) []string {
	var errs []string
	if !deadline.After(now) {
		errs = append(errs, "deadline must be in the future")
	}
	if deadline.Before(minDeadline) {
		errs = append(errs, "deadline must be after 2020-01-01")
	}
	return errs
}

func validateOptionalFields(contact, phone string, estimated, bid *float64) []string {
	var errs []string
	if contact != "" && !emailPattern.MatchString(contact) {
		errs = append(errs, "contact must be an email address")
	}
	if phone != "" && !phonePattern.MatchString(normalizePhone(phone)) {
		errs = append(errs, "contact_phone must be a valid phone number")
	}
	if estimated != nil && *estimated < 0 {
		errs = append(errs, "estimated_value must not be negative")
	}
	if bid != nil && *bid < 0 {
		errs = append(errs, "bid_amount must not be negative")
	}
	return errs
}

// normalizePhone strips separators commonly present in extracted phone
// numbers so the pattern check matches formats like (212) 555-0100.
func normalizePhone(phone string) string {
	out := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		switch phone[i] {
		case ' ', '-', '.', '(', ')':
			continue
		default:
			out = append(out, phone[i])
		}
	}
	return string(out)
}
