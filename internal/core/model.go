package core

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Status is the workflow state of an RFP.
type Status string

const (
	StatusUnread     Status = "unread"
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusSubmitted  Status = "submitted"
	StatusAwarded    Status = "awarded"
	StatusLost       Status = "lost"
	StatusCompleted  Status = "completed"
)

// ValidStatus reports whether s is one of the known workflow states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusUnread, StatusPending, StatusInProgress, StatusSubmitted,
		StatusAwarded, StatusLost, StatusCompleted:
		return true
	}
	return false
}

// Priority is the caller-assigned importance of an RFP.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Urgency is the deadline-derived tier of an RFP. It is recomputed from the
// deadline on every save and is never set directly by callers.
type Urgency string

const (
	UrgencyNormal  Urgency = "normal"
	UrgencyWarning Urgency = "warning"
	UrgencyUrgent  Urgency = "urgent"
	UrgencyOverdue Urgency = "overdue"
)

// StringList is a JSON-encoded list of strings stored in a single text column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to encode string list: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		if len(v) == 0 {
			*l = nil
			return nil
		}
		return json.Unmarshal(v, l)
	case string:
		if v == "" {
			*l = nil
			return nil
		}
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into string list", src)
	}
}

// RFP is the tracked Request-for-Proposal record.
type RFP struct {
	ID              int64      `db:"id" json:"id"`
	Name            string     `db:"name" json:"name"`
	Description     string     `db:"description" json:"description"`
	Deadline        time.Time  `db:"deadline" json:"deadline"`
	WalkthroughDate *time.Time `db:"walkthrough_date" json:"walkthrough_date"`
	Contact         string     `db:"contact" json:"contact"`
	ContactPhone    string     `db:"contact_phone" json:"contact_phone"`
	Organization    string     `db:"organization" json:"organization"`
	Status          Status     `db:"status" json:"status"`
	Priority        Priority   `db:"priority" json:"priority"`
	UrgencyLevel    Urgency    `db:"urgency_level" json:"urgency_level"`
	EstimatedValue  *float64   `db:"estimated_value" json:"estimated_value"`
	BidAmount       *float64   `db:"bid_amount" json:"bid_amount"`
	Notes           string     `db:"notes" json:"notes"`
	Documents       StringList `db:"documents" json:"documents"`
	Tags            StringList `db:"tags" json:"tags"`
	EmailSource     string     `db:"email_source" json:"email_source"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// CreateInput carries the caller-supplied fields for a new RFP. Status and
// priority default to unread/medium when empty; urgency is always computed.
type CreateInput struct {
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Deadline        *time.Time `json:"deadline"`
	WalkthroughDate *time.Time `json:"walkthrough_date"`
	Contact         string     `json:"contact"`
	ContactPhone    string     `json:"contact_phone"`
	Organization    string     `json:"organization"`
	Status          Status     `json:"status"`
	Priority        Priority   `json:"priority"`
	EstimatedValue  *float64   `json:"estimated_value"`
	BidAmount       *float64   `json:"bid_amount"`
	Notes           string     `json:"notes"`
	Documents       []string   `json:"documents"`
	Tags            []string   `json:"tags"`
	EmailSource     string     `json:"email_source"`
}

// UpdateInput carries a partial update; only non-nil fields change.
type UpdateInput struct {
	Name            *string    `json:"name"`
	Description     *string    `json:"description"`
	Deadline        *time.Time `json:"deadline"`
	WalkthroughDate *time.Time `json:"walkthrough_date"`
	Contact         *string    `json:"contact"`
	ContactPhone    *string    `json:"contact_phone"`
	Organization    *string    `json:"organization"`
	Status          *Status    `json:"status"`
	Priority        *Priority  `json:"priority"`
	EstimatedValue  *float64   `json:"estimated_value"`
	BidAmount       *float64   `json:"bid_amount"`
	Notes           *string    `json:"notes"`
	Documents       []string   `json:"documents"`
	Tags            []string   `json:"tags"`
	EmailSource     *string    `json:"email_source"`
}

// ListQuery selects, orders and paginates RFPs.
type ListQuery struct {
	Status    Status
	Urgency   Urgency
	Search    string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// ListResult is one page of RFPs plus pagination totals.
type ListResult struct {
	RFPs        []RFP `json:"rfps"`
	TotalCount  int   `json:"totalCount"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
}

// Stats is the dashboard summary over the whole store.
type Stats struct {
	Total             int             `json:"total"`
	Urgency           map[Urgency]int `json:"urgency"`
	Status            map[Status]int  `json:"status"`
	UpcomingDeadlines []RFP           `json:"upcomingDeadlines"`
}

// Envelope is a mail source's lightweight listing entry for a message,
// distinct from the full message body.
type Envelope struct {
	ID      string
	Subject string
	From    string
	Date    string
}
