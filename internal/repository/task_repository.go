package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskboard/internal/model"
)

// ErrNoRowsDeleted is returned when a delete matched no rows; the surrounding
// transaction is rolled back.
var ErrNoRowsDeleted = errors.New("no task rows deleted")

// priorityRankExpr orders priorities high, medium, low in SQL.
const priorityRankExpr = "CASE priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 END"

// TaskRepository handles CRUD and aggregate queries for tasks. All date
// comparisons take "today" as a parameter so callers control the clock.
type TaskRepository struct {
	db     *gorm.DB
	logger *log.Logger
}

func NewTaskRepository(db *gorm.DB, logger *log.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Update persists the mutable fields of a task and bumps updated_at.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	updates := map[string]interface{}{
		"name":         task.Name,
		"priority":     task.Priority,
		"created_date": task.CreatedDate,
		"deadline":     task.Deadline,
	}
	if err := r.db.WithContext(ctx).Model(task).Updates(updates).Error; err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// UpdateStatus flips a task's status and bumps updated_at.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id uint, status model.Status) error {
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	return nil
}

// CountActiveByName counts non-done tasks with exactly this name, excluding
// excludeID when non-zero. Used for the uniqueness rule.
func (r *TaskRepository) CountActiveByName(ctx context.Context, name string, excludeID uint) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("name = ? AND status != ?", name, model.StatusDone)
	if excludeID > 0 {
		q = q.Where("id != ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count tasks by name: %w", err)
	}
	return count, nil
}

// List returns tasks matching the filters, each row carrying the derived
// is_overdue flag. Filtering and ordering are delegated to SQL.
func (r *TaskRepository) List(ctx context.Context, filters model.ListFilters, today string) ([]model.Task, error) {
	q := r.withOverdue(ctx, today)

	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.Priority != "" {
		q = q.Where("priority = ?", filters.Priority)
	}
	if filters.Search != "" {
		q = q.Where("name LIKE ?", "%"+filters.Search+"%")
	}

	switch filters.DeadlineFilter {
	case "today":
		q = q.Where("deadline = ?", today)
	case "tomorrow":
		q = q.Where("deadline = ?", shiftDate(today, 1))
	case "this_week":
		q = q.Where("deadline BETWEEN ? AND ?", today, shiftDate(today, 7))
	case "overdue":
		q = q.Where("deadline < ? AND status != ?", today, model.StatusDone)
	}

	switch filters.SortBy {
	case "name":
		q = q.Order("name ASC")
	case "deadline":
		q = q.Order("deadline ASC")
	case "status":
		q = q.Order("status ASC, deadline ASC")
	default:
		q = q.Order(priorityRankExpr + " ASC, deadline ASC")
	}

	var tasks []model.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// GetWithOverdue returns one task with its derived is_overdue flag.
func (r *TaskRepository) GetWithOverdue(ctx context.Context, id uint, today string) (*model.Task, error) {
	var task model.Task
	if err := r.withOverdue(ctx, today).Where("tasks.id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Search matches tasks whose name contains keyword, ranking exact-prefix
// matches first, then priority rank, then deadline.
func (r *TaskRepository) Search(ctx context.Context, keyword string, limit int, today string) ([]model.Task, error) {
	order := clause.OrderBy{
		Expression: clause.Expr{
			SQL:                "CASE WHEN name LIKE ? THEN 1 ELSE 2 END, " + priorityRankExpr + ", deadline ASC",
			Vars:               []interface{}{keyword + "%"},
			WithoutParentheses: true,
		},
	}

	var tasks []model.Task
	err := r.withOverdue(ctx, today).
		Where("name LIKE ?", "%"+keyword+"%").
		Clauses(order).
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}
	return tasks, nil
}

// Statistics runs one COUNT per figure. Figures are independent snapshots,
// not a single consistent read.
func (r *TaskRepository) Statistics(ctx context.Context, today string) (model.Statistics, error) {
	var stats model.Statistics
	db := r.db.WithContext(ctx).Model(&model.Task{})

	if err := db.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return stats, fmt.Errorf("count tasks: %w", err)
	}
	if err := db.Session(&gorm.Session{}).Where("status = ?", model.StatusDone).
		Count(&stats.Completed).Error; err != nil {
		return stats, fmt.Errorf("count completed tasks: %w", err)
	}
	stats.Pending = stats.Total - stats.Completed

	if err := db.Session(&gorm.Session{}).
		Where("deadline < ? AND status != ?", today, model.StatusDone).
		Count(&stats.Overdue).Error; err != nil {
		return stats, fmt.Errorf("count overdue tasks: %w", err)
	}
	if err := db.Session(&gorm.Session{}).
		Where("deadline = ? AND status != ?", today, model.StatusDone).
		Count(&stats.DueToday).Error; err != nil {
		return stats, fmt.Errorf("count tasks due today: %w", err)
	}

	type priorityCount struct {
		Priority string
		Count    int64
	}
	var rows []priorityCount
	if err := db.Session(&gorm.Session{}).
		Select("priority, COUNT(*) as count").
		Where("status != ?", model.StatusDone).
		Group("priority").
		Scan(&rows).Error; err != nil {
		return stats, fmt.Errorf("count tasks by priority: %w", err)
	}
	stats.ByPriority = make(map[string]int64, len(rows))
	for _, row := range rows {
		stats.ByPriority[row.Priority] = row.Count
	}

	if stats.Total > 0 {
		pct := float64(stats.Completed) / float64(stats.Total) * 100
		stats.CompletionPercentage = math.Round(pct*10) / 10
	}
	return stats, nil
}

// DeleteWithBackup removes a task inside one transaction, writing a
// best-effort audit copy first. A failed backup is logged and swallowed;
// a delete that matches no rows rolls the whole transaction back.
func (r *TaskRepository) DeleteWithBackup(ctx context.Context, task *model.Task, deletedBy string, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		backup := model.DeletedTask{
			OriginalID:  task.ID,
			Name:        task.Name,
			Status:      task.Status,
			Priority:    task.Priority,
			CreatedDate: task.CreatedDate,
			Deadline:    task.Deadline,
			DeletedAt:   now,
			DeletedBy:   deletedBy,
		}
		if err := tx.Create(&backup).Error; err != nil {
			r.logger.Printf("task backup failed (id=%d): %v", task.ID, err)
		}

		res := tx.Delete(&model.Task{}, task.ID)
		if res.Error != nil {
			return fmt.Errorf("delete task: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNoRowsDeleted
		}
		return nil
	})
}

// ListDeleted returns audit copies, newest first.
func (r *TaskRepository) ListDeleted(ctx context.Context) ([]model.DeletedTask, error) {
	var deleted []model.DeletedTask
	if err := r.db.WithContext(ctx).Order("deleted_at DESC").Find(&deleted).Error; err != nil {
		return nil, fmt.Errorf("list deleted tasks: %w", err)
	}
	return deleted, nil
}

func (r *TaskRepository) withOverdue(ctx context.Context, today string) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Task{}).
		Select("tasks.*, CASE WHEN deadline < ? AND status != ? THEN 1 ELSE 0 END AS is_overdue",
			today, model.StatusDone)
}

// shiftDate moves an ISO date by n days. Invalid input comes back unchanged;
// filters are validated upstream.
func shiftDate(date string, days int) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format(model.DateLayout)
}
