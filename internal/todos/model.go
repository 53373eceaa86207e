package todos

import (
	"strings"
	"time"
)

// Priority is the closed set of todo priorities.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority maps a raw string onto the closed priority set.
func ParsePriority(raw string) (Priority, bool) {
	switch Priority(strings.ToLower(strings.TrimSpace(raw))) {
	case PriorityLow:
		return PriorityLow, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityHigh:
		return PriorityHigh, true
	default:
		return "", false
	}
}

// Todo is a task record owned by exactly one principal. Stored titles are
// always trimmed and non-empty. ID, OwnerID, and CreatedAt are immutable once
// the record is created.
type Todo struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     *string   `json:"dueDate"`
	Priority    Priority  `json:"priority"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RecordID implements records.Record.
func (t Todo) RecordID() string { return t.ID }

// RecordOwner implements records.Record.
func (t Todo) RecordOwner() string { return t.OwnerID }
