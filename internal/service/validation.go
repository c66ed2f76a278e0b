package service

import (
	"strings"
	"time"

	"taskboard/internal/model"
)

// Validation messages, accumulated in field order. Callers always get the
// full set, never just the first failure.
const (
	MsgNameEmpty      = "task name cannot be empty"
	MsgNameTooLong    = "task name must be at most 255 characters"
	MsgPriorityBlank  = "priority must be selected"
	MsgPriorityBad    = "priority is not valid"
	MsgCreatedMissing = "created date is required"
	MsgCreatedBad     = "created date format is not valid"
	MsgDeadlineBlank  = "deadline is required"
	MsgDeadlineBad    = "deadline format is not valid"
	MsgDeadlinePast   = "deadline cannot be earlier than today"
	MsgDuplicateName  = "a task with the same name already exists and is not done"
	MsgInvalidID      = "invalid task id"
)

// TaskInput carries raw form fields for create and edit.
type TaskInput struct {
	Name        string
	Priority    string
	CreatedDate string
	Deadline    string
}

// Trimmed returns the input with the name trimmed, matching how it is
// validated and stored.
func (in TaskInput) Trimmed() TaskInput {
	in.Name = strings.TrimSpace(in.Name)
	return in
}

// ValidateTaskInput runs all stateless checks and returns every failure.
// The past-deadline rule applies on create only; edit deliberately skips it.
func ValidateTaskInput(in TaskInput, today string, rejectPastDeadline bool) []string {
	in = in.Trimmed()
	var errs []string

	if in.Name == "" {
		errs = append(errs, MsgNameEmpty)
	} else if len(in.Name) > 255 {
		errs = append(errs, MsgNameTooLong)
	}

	if in.Priority == "" {
		errs = append(errs, MsgPriorityBlank)
	} else if !model.Priority(in.Priority).IsValid() {
		errs = append(errs, MsgPriorityBad)
	}

	if in.CreatedDate == "" {
		errs = append(errs, MsgCreatedMissing)
	} else if !ValidDate(in.CreatedDate) {
		errs = append(errs, MsgCreatedBad)
	}

	if in.Deadline == "" {
		errs = append(errs, MsgDeadlineBlank)
	} else if !ValidDate(in.Deadline) {
		errs = append(errs, MsgDeadlineBad)
	} else if rejectPastDeadline && in.Deadline < today {
		errs = append(errs, MsgDeadlinePast)
	}

	return errs
}

// ValidDate reports whether s is a calendar date in canonical YYYY-MM-DD
// form. The round-trip check rejects inputs a lenient parser would
// normalize, e.g. 2024-2-3 or 2024-02-30.
func ValidDate(s string) bool {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return false
	}
	return t.Format(model.DateLayout) == s
}
