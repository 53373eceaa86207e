package notes

import "time"

// Note is a free-form note owned by exactly one principal. LinkedTaskID may
// reference a todo id; the reference is not validated and may dangle after
// the todo is deleted. UpdatedAt is bumped on every successful update.
type Note struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	LinkedTaskID *string   `json:"linkedTaskId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RecordID implements records.Record.
func (n Note) RecordID() string { return n.ID }

// RecordOwner implements records.Record.
func (n Note) RecordOwner() string { return n.OwnerID }
