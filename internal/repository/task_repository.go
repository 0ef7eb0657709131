package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"todo-calendar/internal/calendar"
	"todo-calendar/internal/model"
)

// TaskRepository stores tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// ListByUser returns all of the user's tasks, earliest due date first and
// unscheduled tasks last.
func (r *TaskRepository) ListByUser(ctx context.Context, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("due_date IS NULL, due_date ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListDueBetween returns the tasks due in [from, to]. Dates are stored as
// YYYY-MM-DD text so lexical order is calendar order.
func (r *TaskRepository) ListDueBetween(ctx context.Context, userID uint, from, to calendar.Date) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND due_date >= ? AND due_date <= ?", userID, from, to).
		Order("due_date ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks between %s and %s: %w", from, to, err)
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// SetCompleted records the completion flag; at is kept only when completed.
func (r *TaskRepository) SetCompleted(ctx context.Context, task *model.Task, completed bool, at time.Time) error {
	task.IsCompleted = completed
	if completed {
		task.CompletedAt = &at
	} else {
		task.CompletedAt = nil
	}
	err := r.db.WithContext(ctx).Model(task).Updates(map[string]interface{}{
		"is_completed": task.IsCompleted,
		"completed_at": task.CompletedAt,
	}).Error
	if err != nil {
		return fmt.Errorf("update task completion: %w", err)
	}
	return nil
}

// Delete removes a task owned by the user. Missing tasks report
// gorm.ErrRecordNotFound.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).Delete(&model.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
