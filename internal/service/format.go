package service

import (
	"fmt"
	"time"

	"taskboard/internal/model"
)

// Deadline urgency labels and CSS classes.
const (
	DeadlineOverdue = "OVERDUE"
	DeadlineToday   = "TODAY"

	deadlineClassOverdue = "overdue"
	deadlineClassToday   = "today"
	deadlineClassSoon    = "soon"
	deadlineClassNormal  = "normal"
)

// TaskView is a task plus its display-only fields.
type TaskView struct {
	model.Task
	FormattedCreatedDate string `json:"formatted_created_date"`
	FormattedDeadline    string `json:"formatted_deadline"`
	StatusBadge          string `json:"status_badge"`
	PriorityIcon         string `json:"priority_icon"`
	DeadlineStatus       string `json:"deadline_status"`
	DeadlineClass        string `json:"deadline_class"`
}

// FormatForDisplay derives the view fields for one task. It is pure: today
// is supplied by the caller, never read from a global clock.
func FormatForDisplay(task model.Task, today string) TaskView {
	view := TaskView{
		Task:                 task,
		FormattedCreatedDate: displayDate(task.CreatedDate),
		FormattedDeadline:    displayDate(task.Deadline),
		StatusBadge:          statusBadge(task.Status),
		PriorityIcon:         priorityIcon(task.Priority),
	}
	view.IsOverdue = task.Deadline < today && task.Status != model.StatusDone
	view.DeadlineStatus, view.DeadlineClass = deadlineUrgency(task.Deadline, today, view.IsOverdue)
	return view
}

func statusBadge(status model.Status) string {
	if status == model.StatusDone {
		return "✅ Done"
	}
	return "⏳ Pending"
}

func priorityIcon(priority model.Priority) string {
	switch priority {
	case model.PriorityHigh:
		return "🔴"
	case model.PriorityMedium:
		return "🟡"
	case model.PriorityLow:
		return "🟢"
	default:
		return "⚪"
	}
}

// deadlineUrgency classifies time pressure. A deadline equal to today is
// always "TODAY", never "0 DAYS LEFT". Done tasks are never overdue, so a
// done task with a past deadline falls through to the days-left branch.
func deadlineUrgency(deadline, today string, overdue bool) (label, class string) {
	if overdue {
		return DeadlineOverdue, deadlineClassOverdue
	}
	if deadline == today {
		return DeadlineToday, deadlineClassToday
	}

	daysLeft, ok := daysBetween(today, deadline)
	if ok && daysLeft <= 3 {
		return fmt.Sprintf("%d DAYS LEFT", daysLeft), deadlineClassSoon
	}
	return "", deadlineClassNormal
}

func daysBetween(from, to string) (int, bool) {
	start, err := time.Parse(model.DateLayout, from)
	if err != nil {
		return 0, false
	}
	end, err := time.Parse(model.DateLayout, to)
	if err != nil {
		return 0, false
	}
	return int(end.Sub(start).Hours() / 24), true
}

// displayDate renders a stored ISO date as dd/mm/yyyy. Unparseable values
// come back unchanged.
func displayDate(date string) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}
