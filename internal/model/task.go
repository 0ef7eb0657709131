package model

import (
	"time"

	"todo-calendar/internal/calendar"
)

// Task is a single to-do item owned by a user.
type Task struct {
	ID          uint          `gorm:"primaryKey"`
	UserID      uint          `gorm:"index"`
	Text        string        `gorm:"not null"`
	Category    string        `gorm:"index"`
	IsCompleted bool          `gorm:"default:false"`
	DueDate     calendar.Date `gorm:"type:text;index"`
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CalendarTask projects the task for the calendar view.
func (t Task) CalendarTask() calendar.Task {
	return calendar.Task{
		ID:          t.ID,
		Text:        t.Text,
		Category:    t.Category,
		IsCompleted: t.IsCompleted,
		DueDate:     t.DueDate,
	}
}
