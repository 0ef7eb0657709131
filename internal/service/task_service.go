package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"todo-calendar/internal/calendar"
	"todo-calendar/internal/model"
	"todo-calendar/internal/repository"
)

var (
	ErrEmptyText       = errors.New("task text is required")
	ErrUnknownCategory = errors.New("unknown category")
)

// TaskInput carries the fields of a new task.
type TaskInput struct {
	Text     string
	Category string
	DueDate  calendar.Date
}

// Stats are the counters shown on the home summary.
type Stats struct {
	Total     int
	Completed int
	Pending   int
}

// TaskService wraps task-related business rules.
type TaskService struct {
	taskRepo *repository.TaskRepository
}

func NewTaskService(taskRepo *repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

func (s *TaskService) CreateTask(ctx context.Context, user *model.User, input TaskInput) (*model.Task, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrEmptyText
	}

	category := model.DefaultCategory
	if strings.TrimSpace(input.Category) != "" {
		canonical, ok := model.CanonicalCategory(input.Category)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, input.Category)
		}
		category = canonical
	}

	due := input.DueDate
	if !due.IsZero() && !due.Valid() {
		return nil, fmt.Errorf("%w: %v", calendar.ErrInvalidDate, due)
	}

	task := model.Task{
		UserID:   user.ID,
		Text:     text,
		Category: category,
		DueDate:  due,
	}
	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, user *model.User) ([]model.Task, error) {
	return s.taskRepo.ListByUser(ctx, user.ID)
}

// CalendarTasks returns the user's tasks in the shape the calendar needs.
func (s *TaskService) CalendarTasks(ctx context.Context, user *model.User) ([]calendar.Task, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return toCalendarTasks(tasks), nil
}

func (s *TaskService) GetTask(ctx context.Context, user *model.User, taskID uint) (*model.Task, error) {
	return s.taskRepo.FindByID(ctx, user.ID, taskID)
}

// ToggleComplete flips the completion state of a task.
func (s *TaskService) ToggleComplete(ctx context.Context, user *model.User, taskID uint, now time.Time) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.taskRepo.SetCompleted(ctx, task, !task.IsCompleted, now); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, user *model.User, taskID uint) error {
	return s.taskRepo.Delete(ctx, user.ID, taskID)
}

// Stats counts every task of the user, scheduled or not.
func (s *TaskService) Stats(ctx context.Context, user *model.User) (Stats, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return Stats{}, err
	}
	var st Stats
	for _, t := range tasks {
		st.Total++
		if t.IsCompleted {
			st.Completed++
		}
	}
	st.Pending = st.Total - st.Completed
	return st, nil
}

func toCalendarTasks(tasks []model.Task) []calendar.Task {
	out := make([]calendar.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.CalendarTask())
	}
	return out
}
