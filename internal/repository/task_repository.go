package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"offboarding-dashboard/internal/model"
)

// TaskRepository keeps offboarding tasks in insertion order.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	task.ID = 0
	task.Completed = false
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// List returns every task ordered by creation.
func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListIncomplete returns tasks that are not completed, in creation order.
func (r *TaskRepository) ListIncomplete(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("completed = ?", false).Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list incomplete tasks: %w", err)
	}
	return tasks, nil
}

// FindByID returns the task or (nil, nil) when no task has that id.
func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, id).Error
	switch {
	case err == nil:
		return &task, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find task: %w", err)
	}
}

// Replace overwrites the editable fields of an existing task. Completed is untouched.
// It reports false when the id does not exist.
func (r *TaskRepository) Replace(ctx context.Context, task model.Task) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", task.ID).Updates(map[string]interface{}{
		"date":               task.Date,
		"category":           task.Category,
		"person_to_offboard": task.PersonToOffboard,
		"responsible_person": task.ResponsiblePerson,
		"offboarding_type":   task.OffboardingType,
	})
	if res.Error != nil {
		return false, fmt.Errorf("replace task: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ToggleCompleted flips the completed flag and returns the updated task,
// or nil when the id does not exist.
func (r *TaskRepository) ToggleCompleted(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, id).Error; err != nil {
			return err
		}
		task.Completed = !task.Completed
		return tx.Model(&task).Update("completed", task.Completed).Error
	})
	switch {
	case err == nil:
		return &task, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("toggle task: %w", err)
	}
}

// Count returns the number of stored tasks.
func (r *TaskRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}
