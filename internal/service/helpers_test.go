package service

import (
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return db
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// fixedClock pins "today" to the given date at noon UTC.
func fixedClock(date string) func() time.Time {
	day, err := time.Parse(model.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return day.Add(12 * time.Hour) }
}

type fixture struct {
	repo     *repository.TaskRepository
	tasks    *TaskService
	queries  *QueryService
	activity string
}

func newFixture(t *testing.T, today string) *fixture {
	t.Helper()
	db := newTestDB(t)
	logger := discardLogger()
	repo := repository.NewTaskRepository(db, logger)

	activityPath := filepath.Join(t.TempDir(), "activity.log")
	activity := NewActivityLogger(activityPath, logger)

	tasks := NewTaskService(repo, activity, logger)
	tasks.SetClock(fixedClock(today))
	queries := NewQueryService(repo)
	queries.SetClock(fixedClock(today))

	return &fixture{repo: repo, tasks: tasks, queries: queries, activity: activityPath}
}

func (f *fixture) setToday(today string) {
	f.tasks.SetClock(fixedClock(today))
	f.queries.SetClock(fixedClock(today))
}

func validInput(name string) TaskInput {
	return TaskInput{
		Name:        name,
		Priority:    "high",
		CreatedDate: "2024-06-15",
		Deadline:    "2024-06-20",
	}
}
