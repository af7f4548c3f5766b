package service

import (
	"context"
	"log"

	"offboarding-dashboard/internal/model"
	"offboarding-dashboard/internal/repository"
)

// TaskService owns the offboarding task collection.
// Validation failures are silent: mutations report false and change nothing.
type TaskService struct {
	taskRepo *repository.TaskRepository
}

func NewTaskService(taskRepo *repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// AddTask appends a task built from draft. It reports false without
// touching the collection when a required field is empty.
func (s *TaskService) AddTask(ctx context.Context, draft model.Draft) (*model.Task, bool, error) {
	if !draft.Validate().OK() {
		return nil, false, nil
	}

	task := model.Task{}
	task.Apply(draft)
	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, false, err
	}

	log.Printf("[info] task created id=%d person=%q type=%s date=%s", task.ID, task.PersonToOffboard, task.OffboardingType, task.Date)
	return &task, true, nil
}

// UpdateTask replaces the fields of the task with the same id, keeping its
// position. Invalid drafts and unknown ids are no-ops.
func (s *TaskService) UpdateTask(ctx context.Context, edited model.Task) (bool, error) {
	if edited.ID == 0 || !edited.Draft().Validate().OK() {
		return false, nil
	}

	ok, err := s.taskRepo.Replace(ctx, edited)
	if err != nil {
		return false, err
	}
	if ok {
		log.Printf("[info] task updated id=%d", edited.ID)
	}
	return ok, nil
}

// ToggleCompletion flips the completed flag. It returns nil for unknown ids.
func (s *TaskService) ToggleCompletion(ctx context.Context, id uint) (*model.Task, error) {
	if id == 0 {
		return nil, nil
	}
	task, err := s.taskRepo.ToggleCompleted(ctx, id)
	if err != nil {
		return nil, err
	}
	if task != nil {
		log.Printf("[info] task toggled id=%d completed=%t", task.ID, task.Completed)
	}
	return task, nil
}

// FilterTasks returns the tasks matching term in creation order.
func (s *TaskService) FilterTasks(ctx context.Context, term string) ([]model.Task, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if term == "" {
		return tasks, nil
	}

	out := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Matches(term) {
			out = append(out, task)
		}
	}
	return out, nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]model.Task, error) {
	return s.taskRepo.List(ctx)
}

func (s *TaskService) GetTask(ctx context.Context, id uint) (*model.Task, error) {
	if id == 0 {
		return nil, ErrInvalidID
	}
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrNotFound
	}
	return task, nil
}
