package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// Messages shared by the mutation handlers.
const (
	msgInvalidData   = "invalid task data"
	msgStoreError    = "a database error occurred"
	msgNotFound      = "task not found"
	msgConflict      = "task status already changed, please refresh the page"
	msgDeleteFailed  = "failed to delete task or task not found"
	msgCreated       = "task created successfully!"
	msgUpdated       = "task updated successfully!"
	msgDeleted       = "task deleted successfully!"
	msgMarkedDone    = "task marked as done! 🎉"
	msgReopened      = "task status set back to pending"
	msgLateComplete  = "task completed past its deadline (%s)"
	msgInvalidStatus = "status is not valid"
)

// TaskService implements the four mutation operations. Each returns a
// MutationResult; store failures are logged here with operation context and
// reduced to a generic message.
type TaskService struct {
	repo     *repository.TaskRepository
	activity *ActivityLogger
	logger   *log.Logger
	nowFn    func() time.Time
}

func NewTaskService(repo *repository.TaskRepository, activity *ActivityLogger, logger *log.Logger) *TaskService {
	return &TaskService{
		repo:     repo,
		activity: activity,
		logger:   logger,
		nowFn:    time.Now,
	}
}

// SetClock overrides the service clock. Intended for tests.
func (s *TaskService) SetClock(nowFn func() time.Time) {
	s.nowFn = nowFn
}

func (s *TaskService) today() string {
	return s.nowFn().Format(model.DateLayout)
}

// Create validates the input, including the create-only past-deadline rule
// and the active-name uniqueness rule, then inserts a pending task.
func (s *TaskService) Create(ctx context.Context, in TaskInput, origin Origin) MutationResult {
	in = in.Trimmed()
	errs := ValidateTaskInput(in, s.today(), true)

	if len(errs) == 0 {
		count, err := s.repo.CountActiveByName(ctx, in.Name, 0)
		if err != nil {
			return s.storeError("create task", 0, err)
		}
		if count > 0 {
			errs = append(errs, MsgDuplicateName)
		}
	}

	if len(errs) > 0 {
		return invalidResult(errs)
	}

	task := model.Task{
		Name:        in.Name,
		Status:      model.StatusPending,
		Priority:    model.Priority(in.Priority),
		CreatedDate: in.CreatedDate,
		Deadline:    in.Deadline,
	}
	if err := s.repo.Create(ctx, &task); err != nil {
		return s.storeError("create task", 0, err)
	}

	s.activity.Record("CREATE", fmt.Sprintf("task %q created", task.Name), origin)

	return MutationResult{
		Kind:    ResultOK,
		Message: msgCreated,
		TaskID:  task.ID,
		Flashes: []Flash{{Text: msgCreated, Kind: FlashSuccess}},
	}
}

// Edit updates all mutable fields. The past-deadline rule does not apply
// here; only create enforces it.
func (s *TaskService) Edit(ctx context.Context, id uint, in TaskInput, origin Origin) MutationResult {
	in = in.Trimmed()
	var errs []string
	if id == 0 {
		errs = append(errs, MsgInvalidID)
	}
	errs = append(errs, ValidateTaskInput(in, s.today(), false)...)
	if len(errs) > 0 {
		return invalidResult(errs)
	}

	existing, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundResult()
	}
	if err != nil {
		return s.storeError("edit task", id, err)
	}

	count, err := s.repo.CountActiveByName(ctx, in.Name, id)
	if err != nil {
		return s.storeError("edit task", id, err)
	}
	if count > 0 {
		return invalidResult([]string{MsgDuplicateName})
	}

	oldName := existing.Name
	existing.Name = in.Name
	existing.Priority = model.Priority(in.Priority)
	existing.CreatedDate = in.CreatedDate
	existing.Deadline = in.Deadline
	if err := s.repo.Update(ctx, existing); err != nil {
		return s.storeError("edit task", id, err)
	}

	if oldName != in.Name {
		s.activity.Record("UPDATE", fmt.Sprintf("task %q updated to %q", oldName, in.Name), origin)
		s.activity.Record("UPDATE_DETAIL", fmt.Sprintf("changes: name %q -> %q", oldName, in.Name), origin)
	} else {
		s.activity.Record("UPDATE", fmt.Sprintf("task %q updated", in.Name), origin)
	}

	return MutationResult{
		Kind:    ResultOK,
		Message: msgUpdated,
		TaskID:  id,
		Flashes: []Flash{{Text: msgUpdated, Kind: FlashSuccess}},
	}
}

// Delete removes a task inside one transaction, taking a best-effort audit
// snapshot first. A zero-row delete rolls everything back.
func (s *TaskService) Delete(ctx context.Context, id uint, origin Origin) MutationResult {
	if id == 0 {
		return invalidResult([]string{MsgInvalidID})
	}

	task, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundResult()
	}
	if err != nil {
		return s.storeError("delete task", id, err)
	}

	err = s.repo.DeleteWithBackup(ctx, task, origin.IP, s.nowFn())
	if errors.Is(err, repository.ErrNoRowsDeleted) {
		return MutationResult{
			Kind:    ResultNotFound,
			Message: msgDeleteFailed,
			Errors:  []string{msgDeleteFailed},
			Flashes: []Flash{{Text: msgDeleteFailed, Kind: FlashError}},
		}
	}
	if err != nil {
		return s.storeError("delete task", id, err)
	}

	s.activity.Record("DELETE",
		fmt.Sprintf("task %q (status: %s) deleted", task.Name, task.Status), origin)

	return MutationResult{
		Kind:    ResultOK,
		Message: msgDeleted,
		TaskID:  id,
		Flashes: []Flash{{Text: msgDeleted, Kind: FlashSuccess}},
	}
}

// ToggleStatus flips a task between pending and done. The expected current
// status guards against a stale page: when the stored status differs, the
// caller gets a conflict instead of a blind overwrite.
func (s *TaskService) ToggleStatus(ctx context.Context, id uint, expected model.Status, origin Origin) MutationResult {
	if id == 0 {
		return invalidResult([]string{MsgInvalidID})
	}
	if !expected.IsValid() {
		return invalidResult([]string{msgInvalidStatus})
	}

	task, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundResult()
	}
	if err != nil {
		return s.storeError("toggle task status", id, err)
	}

	if task.Status != expected {
		return MutationResult{
			Kind:    ResultConflict,
			Message: msgConflict,
			Errors:  []string{msgConflict},
			Flashes: []Flash{{Text: msgConflict, Kind: FlashError}},
		}
	}

	newStatus := expected.Opposite()
	if err := s.repo.UpdateStatus(ctx, id, newStatus); err != nil {
		return s.storeError("toggle task status", id, err)
	}

	result := MutationResult{
		Kind:      ResultOK,
		TaskID:    id,
		NewStatus: newStatus,
	}

	if newStatus == model.StatusDone {
		result.Message = msgMarkedDone
		result.Flashes = []Flash{{Text: msgMarkedDone, Kind: FlashSuccess}}

		onTime := task.Deadline >= s.today()
		timing := "on time"
		if !onTime {
			timing = "late"
			result.Flashes = append(result.Flashes, Flash{
				Text: fmt.Sprintf(msgLateComplete, task.Deadline),
				Kind: FlashWarning,
			})
		}
		s.activity.Record("COMPLETE", fmt.Sprintf("task %q completed (%s)", task.Name, timing), origin)
	} else {
		result.Message = msgReopened
		result.Flashes = []Flash{{Text: msgReopened, Kind: FlashInfo}}
		s.activity.Record("REOPEN", fmt.Sprintf("task %q reopened", task.Name), origin)
	}

	return result
}

func (s *TaskService) storeError(op string, id uint, err error) MutationResult {
	if id > 0 {
		s.logger.Printf("%s (id=%d): %v", op, id, err)
	} else {
		s.logger.Printf("%s: %v", op, err)
	}
	return MutationResult{
		Kind:    ResultStoreError,
		Message: msgStoreError,
		Errors:  []string{msgStoreError},
		Flashes: []Flash{{Text: msgStoreError, Kind: FlashError}},
	}
}

func invalidResult(errs []string) MutationResult {
	return MutationResult{
		Kind:    ResultInvalid,
		Message: msgInvalidData,
		Errors:  errs,
		Flashes: errorFlashes(errs),
	}
}

func notFoundResult() MutationResult {
	return MutationResult{
		Kind:    ResultNotFound,
		Message: msgNotFound,
		Errors:  []string{msgNotFound},
		Flashes: []Flash{{Text: msgNotFound, Kind: FlashError}},
	}
}
