package model

import "time"

// Status is the completion state of a task.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

// IsValid reports whether s is one of the two known statuses.
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusDone
}

// Opposite returns the other status.
func (s Status) Opposite() Status {
	if s == StatusDone {
		return StatusPending
	}
	return StatusDone
}

// Priority is the urgency class of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// Rank orders priorities for sorting: high=1, medium=2, low=3.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// DateLayout is the canonical calendar-date form for CreatedDate and Deadline.
const DateLayout = "2006-01-02"

// Task represents a single item on the board. Calendar dates are stored as
// canonical YYYY-MM-DD strings so SQL comparison stays lexicographic.
type Task struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Name        string   `gorm:"size:255;index" json:"name"`
	Status      Status   `gorm:"size:16;default:pending;index" json:"status"`
	Priority    Priority `gorm:"size:16" json:"priority"`
	CreatedDate string   `gorm:"type:date" json:"created_date"`
	Deadline    string   `gorm:"type:date;index" json:"deadline"`
	// IsOverdue is derived per read (deadline < today AND status != done),
	// never stored.
	IsOverdue bool      `gorm:"column:is_overdue;-:migration;->" json:"is_overdue"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeletedTask is a best-effort audit copy of a task taken immediately before
// a hard delete. Its write failing never blocks the delete.
type DeletedTask struct {
	ID          uint     `gorm:"primaryKey"`
	OriginalID  uint     `gorm:"index"`
	Name        string   `gorm:"size:255"`
	Status      Status   `gorm:"size:16"`
	Priority    Priority `gorm:"size:16"`
	CreatedDate string   `gorm:"type:date"`
	Deadline    string   `gorm:"type:date"`
	DeletedAt   time.Time
	DeletedBy   string `gorm:"size:64"`
}

// ListFilters are the independently optional list criteria. All supplied
// filters are ANDed.
type ListFilters struct {
	Status         string
	Priority       string
	Search         string
	DeadlineFilter string
	SortBy         string
}

// Statistics aggregates completion figures. Each field comes from its own
// query, so the numbers are not guaranteed mutually consistent under
// concurrent writes.
type Statistics struct {
	Total                int64            `json:"total"`
	Completed            int64            `json:"completed"`
	Pending              int64            `json:"pending"`
	Overdue              int64            `json:"overdue"`
	DueToday             int64            `json:"due_today"`
	ByPriority           map[string]int64 `json:"by_priority"`
	CompletionPercentage float64          `json:"completion_percentage"`
}
