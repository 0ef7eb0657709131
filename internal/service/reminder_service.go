package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"todo-calendar/internal/calendar"
	"todo-calendar/internal/model"
	"todo-calendar/internal/repository"
)

// ReminderService builds the daily summary sent to each user.
type ReminderService struct {
	taskRepo *repository.TaskRepository
}

func NewReminderService(taskRepo *repository.TaskRepository) *ReminderService {
	return &ReminderService{taskRepo: taskRepo}
}

// Summary is the data behind a daily report.
type Summary struct {
	Today   calendar.Date
	Due     []calendar.Task
	Overdue []calendar.Task
	Month   calendar.MonthStats
}

// Summarize collects today's tasks, overdue pending tasks and month stats.
func (s *ReminderService) Summarize(ctx context.Context, user model.User, now time.Time, loc *time.Location) (Summary, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return Summary{}, err
	}
	all := toCalendarTasks(tasks)
	today := calendar.Today(now, loc)

	summary := Summary{
		Today: today,
		Due:   calendar.TasksForDay(all, today),
		Month: calendar.StatsForMonth(all, today.Year, today.Month),
	}
	for _, t := range all {
		if !t.IsCompleted && !t.DueDate.IsZero() && t.DueDate.Before(today) {
			summary.Overdue = append(summary.Overdue, t)
		}
	}
	return summary, nil
}

// DailySummary renders the summary as Telegram HTML.
func (s *ReminderService) DailySummary(ctx context.Context, user model.User, now time.Time, loc *time.Location) (string, error) {
	summary, err := s.Summarize(ctx, user, now, loc)
	if err != nil {
		return "", err
	}
	return FormatSummary(summary), nil
}

// FormatSummary renders a Summary as Telegram HTML.
func FormatSummary(summary Summary) string {
	var b strings.Builder
	b.WriteString("📋 <b>Resumo do dia</b>\n")
	b.WriteString(fmt.Sprintf("🗓 %s\n\n", summary.Today.Format("02/01/2006")))

	b.WriteString("📌 <b>Tarefas de hoje</b>\n")
	if len(summary.Due) == 0 {
		b.WriteString("— nenhuma tarefa para hoje\n")
	}
	for _, t := range summary.Due {
		b.WriteString(summaryLine(t))
	}

	if len(summary.Overdue) > 0 {
		b.WriteString("\n⚠️ <b>Atrasadas</b>\n")
		for _, t := range summary.Overdue {
			b.WriteString(fmt.Sprintf("• %s <i>(%s)</i>\n", html.EscapeString(t.Text), t.DueDate.Format("02/01")))
		}
	}

	m := summary.Month
	b.WriteString(fmt.Sprintf("\n📊 %s: %d/%d concluídas, %d pendentes",
		strings.ToLower(calendar.MonthName(summary.Today.Month)), m.Completed, m.Total, m.Pending))
	return b.String()
}

func summaryLine(t calendar.Task) string {
	mark := "⬜"
	if t.IsCompleted {
		mark = "✅"
	}
	line := fmt.Sprintf("%s %s", mark, html.EscapeString(t.Text))
	if t.Category != "" {
		line += fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(t.Category))
	}
	return line + "\n"
}
