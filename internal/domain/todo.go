package domain

import "time"

// Todo is a single task record held by the store.
type Todo struct {
	ID          uint64
	Title       string
	Description string
	DueAt       *time.Time // nil means no due time
	Done        bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsRemaining reports whether the todo is not done and its due time, if any,
// has not passed at now.
func (t Todo) IsRemaining(now time.Time) bool {
	if t.Done {
		return false
	}
	return t.DueAt == nil || !t.DueAt.Before(now)
}

// Clone returns a copy that shares no memory with t.
func (t Todo) Clone() Todo {
	if t.DueAt != nil {
		due := *t.DueAt
		t.DueAt = &due
	}
	return t
}
