package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/model"
)

func (f *fixture) mustCreate(t *testing.T, name, priority, deadline string) uint {
	t.Helper()
	in := TaskInput{Name: name, Priority: priority, CreatedDate: "2024-06-15", Deadline: deadline}
	result := f.tasks.Create(context.Background(), in, testOrigin)
	require.Equal(t, ResultOK, result.Kind, "create %q: %v", name, result.Errors)
	return result.TaskID
}

func names(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Name
	}
	return out
}

func TestQueryService_StatisticsEmptyStore(t *testing.T) {
	f := newFixture(t, "2024-06-15")

	stats, err := f.queries.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.Statistics{
		Total:                0,
		Completed:            0,
		Pending:              0,
		Overdue:              0,
		DueToday:             0,
		ByPriority:           map[string]int64{},
		CompletionPercentage: 0,
	}, stats)
}

func TestQueryService_Statistics(t *testing.T) {
	f := newFixture(t, "2024-06-15")
	ctx := context.Background()

	f.mustCreate(t, "due today", "high", "2024-06-15")
	f.mustCreate(t, "this week", "medium", "2024-06-18")
	willBeDone := f.mustCreate(t, "done one", "low", "2024-06-16")
	f.mustCreate(t, "overdue one", "high", "2024-06-16")
	require.Equal(t, ResultOK, f.tasks.ToggleStatus(ctx, willBeDone, model.StatusPending, testOrigin).Kind)

	// Let the remaining deadlines pass.
	f.setToday("2024-06-17")

	stats, err := f.queries.Statistics(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.Total)
	assert.EqualValues(t, 1, stats.Completed)
	assert.EqualValues(t, 3, stats.Pending)
	// "due today" (06-15) and "overdue one" (06-16) are both past now.
	assert.EqualValues(t, 2, stats.Overdue)
	assert.EqualValues(t, 0, stats.DueToday)
	// By-priority counts cover non-done tasks only.
	assert.Equal(t, map[string]int64{"high": 2, "medium": 1}, stats.ByPriority)
	assert.InDelta(t, 25.0, stats.CompletionPercentage, 0.001)
}

func TestQueryService_StatisticsCompletionRounding(t *testing.T) {
	f := newFixture(t, "2024-06-15")
	ctx := context.Background()

	done := f.mustCreate(t, "a", "high", "2024-06-20")
	f.mustCreate(t, "b", "high", "2024-06-20")
	f.mustCreate(t, "c", "high", "2024-06-20")
	require.Equal(t, ResultOK, f.tasks.ToggleStatus(ctx, done, model.StatusPending, testOrigin).Kind)

	stats, err := f.queries.Statistics(ctx)
	require.NoError(t, err)
	// 1/3 → 33.333…, rounded to one decimal.
	assert.InDelta(t, 33.3, stats.CompletionPercentage, 0.001)
}

func TestQueryService_ListDefaultOrdering(t *testing.T) {
	f := newFixture(t, "2024-06-15")

	f.mustCreate(t, "low early", "low", "2024-06-16")
	f.mustCreate(t, "high late", "high", "2024-06-25")
	f.mustCreate(t, "high early", "high", "2024-06-16")
	f.mustCreate(t, "medium", "medium", "2024-06-18")

	tasks, err := f.queries.List(context.Background(), model.ListFilters{})
	require.NoError(t, err)
	// Priority rank ascending, then deadline ascending.
	assert.Equal(t, []string{"high early", "high late", "medium", "low early"}, names(tasks))
}

func TestQueryService_ListFilters(t *testing.T) {
	f := newFixture(t, "2024-06-15")
	ctx := context.Background()

	f.mustCreate(t, "today task", "high", "2024-06-15")
	f.mustCreate(t, "tomorrow task", "medium", "2024-06-16")
	f.mustCreate(t, "next week task", "low", "2024-06-21")
	f.mustCreate(t, "far away", "low", "2024-08-01")
	doneID := f.mustCreate(t, "finished", "high", "2024-06-15")
	require.Equal(t, ResultOK, f.tasks.ToggleStatus(ctx, doneID, model.StatusPending, testOrigin).Kind)

	t.Run("status", func(t *testing.T) {
		tasks, err := f.queries.List(ctx, model.ListFilters{Status: "done"})
		require.NoError(t, err)
		assert.Equal(t, []string{"finished"}, names(tasks))
	})

	t.Run("priority", func(t *testing.T) {
		tasks, err := f.queries.List(ctx, model.ListFilters{Priority: "medium"})
		require.NoError(t, err)
		assert.Equal(t, []string{"tomorrow task"}, names(tasks))
	})

	t.Run("search is case-insensitive substring", func(t *testing.T) {
		tasks, err := f.queries.List(ctx, model.ListFilters{Search: "TOMORROW"})
		require.NoError(t, err)
		assert.Equal(t, []string{"tomorrow task"}, names(tasks))
	})

	t.Run("deadline today", func(t *testing.T) {
		tasks, err := f.queries.List(ctx, model.ListFilters{DeadlineFilter: "today"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"today task", "finished"}, names(tasks))
	})

	t.Run("deadline tomorrow", func(t *testing.T) {
		tasks, err := f.queries.List(ctx, model.ListFilters{DeadlineFilter: "tomorrow"})
		require.NoError(t, err)
		assert.Equal(t, []string{"tomorrow task"}, names(tasks))
	})

	t.Run("deadline this_week", func(t *testing.T) {
		tasks, err := f.queries.List(ctx, model.ListFilters{DeadlineFilter: "this_week"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"today task", "tomorrow task", "next week task", "finished"}, names(tasks))
	})

	t.Run("filters are ANDed", func(t *testing.T) {
		tasks, err := f.queries.List(ctx, model.ListFilters{
			Status:         "pending",
			DeadlineFilter: "today",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"today task"}, names(tasks))
	})

	t.Run("overdue excludes done", func(t *testing.T) {
		f.setToday("2024-06-17")
		defer f.setToday("2024-06-15")

		tasks, err := f.queries.List(ctx, model.ListFilters{DeadlineFilter: "overdue"})
		require.NoError(t, err)
		// "finished" is also past its deadline but done tasks are excluded.
		assert.ElementsMatch(t, []string{"today task", "tomorrow task"}, names(tasks))
	})
}

func TestQueryService_ListSortModes(t *testing.T) {
	f := newFixture(t, "2024-06-15")
	ctx := context.Background()

	f.mustCreate(t, "bravo", "low", "2024-06-20")
	f.mustCreate(t, "alpha", "medium", "2024-06-25")
	f.mustCreate(t, "charlie", "high", "2024-06-16")

	byName, err := f.queries.List(ctx, model.ListFilters{SortBy: "name"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, names(byName))

	byDeadline, err := f.queries.List(ctx, model.ListFilters{SortBy: "deadline"})
	require.NoError(t, err)
	assert.Equal(t, []string{"charlie", "bravo", "alpha"}, names(byDeadline))
}

func TestQueryService_ListCarriesOverdueFlag(t *testing.T) {
	f := newFixture(t, "2024-06-15")
	ctx := context.Background()

	f.mustCreate(t, "Report", "high", "2024-06-17")

	tasks, err := f.queries.List(ctx, model.ListFilters{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.False(t, tasks[0].IsOverdue)

	// Three days later the deadline has passed.
	f.setToday("2024-06-18")
	tasks, err = f.queries.List(ctx, model.ListFilters{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].IsOverdue)

	view := FormatForDisplay(tasks[0], f.queries.Today())
	assert.Equal(t, DeadlineOverdue, view.DeadlineStatus)
}

func TestQueryService_GetNotFound(t *testing.T) {
	f := newFixture(t, "2024-06-15")
	_, err := f.queries.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQueryService_SearchRanking(t *testing.T) {
	f := newFixture(t, "2024-06-15")
	ctx := context.Background()

	f.mustCreate(t, "annual report", "high", "2024-06-16")
	f.mustCreate(t, "report draft", "low", "2024-06-16")
	f.mustCreate(t, "report review", "high", "2024-06-20")
	f.mustCreate(t, "unrelated", "high", "2024-06-16")

	tasks, err := f.queries.Search(ctx, "report", 10)
	require.NoError(t, err)
	// Exact-prefix matches first, then priority rank, then deadline.
	assert.Equal(t, []string{"report review", "report draft", "annual report"}, names(tasks))
}

func TestQueryService_SearchLimit(t *testing.T) {
	f := newFixture(t, "2024-06-15")
	ctx := context.Background()

	f.mustCreate(t, "task one", "high", "2024-06-16")
	f.mustCreate(t, "task two", "high", "2024-06-17")
	f.mustCreate(t, "task three", "high", "2024-06-18")

	tasks, err := f.queries.Search(ctx, "task", 2)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}
