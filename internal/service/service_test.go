package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"todo-calendar/internal/calendar"
	"todo-calendar/internal/model"
	"todo-calendar/internal/repository"
	"todo-calendar/internal/service"
)

type fixture struct {
	user       *model.User
	tasks      *service.TaskService
	categories *service.CategoryService
	reminders  *service.ReminderService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.NewDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	user, err := repository.NewUserRepository(db).Upsert(context.Background(), repository.Profile{TelegramID: 100, FirstName: "Bia"})
	require.NoError(t, err)

	taskRepo := repository.NewTaskRepository(db)
	return fixture{
		user:       user,
		tasks:      service.NewTaskService(taskRepo),
		categories: service.NewCategoryService(repository.NewCategoryRepository(db)),
		reminders:  service.NewReminderService(taskRepo),
	}
}

func mustDate(t *testing.T, s string) calendar.Date {
	t.Helper()
	d, err := calendar.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestCreateTaskValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.tasks.CreateTask(ctx, f.user, service.TaskInput{Text: "   "})
	assert.True(t, errors.Is(err, service.ErrEmptyText))

	_, err = f.tasks.CreateTask(ctx, f.user, service.TaskInput{Text: "x", Category: "Viagem"})
	assert.True(t, errors.Is(err, service.ErrUnknownCategory))

	_, err = f.tasks.CreateTask(ctx, f.user, service.TaskInput{Text: "x", DueDate: calendar.NewDate(2023, time.February, 29)})
	assert.True(t, errors.Is(err, calendar.ErrInvalidDate))

	task, err := f.tasks.CreateTask(ctx, f.user, service.TaskInput{Text: "  estudar go ", Category: "estudos"})
	require.NoError(t, err)
	assert.Equal(t, "estudar go", task.Text)
	assert.Equal(t, "Estudos", task.Category)
	assert.True(t, task.DueDate.IsZero())

	task, err = f.tasks.CreateTask(ctx, f.user, service.TaskInput{Text: "sem categoria"})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCategory, task.Category)
}

func TestToggleCompleteAndStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

	a, err := f.tasks.CreateTask(ctx, f.user, service.TaskInput{Text: "a", DueDate: mustDate(t, "2024-03-05")})
	require.NoError(t, err)
	_, err = f.tasks.CreateTask(ctx, f.user, service.TaskInput{Text: "b"})
	require.NoError(t, err)

	toggled, err := f.tasks.ToggleComplete(ctx, f.user, a.ID, now)
	require.NoError(t, err)
	assert.True(t, toggled.IsCompleted)

	stats, err := f.tasks.Stats(ctx, f.user)
	require.NoError(t, err)
	assert.Equal(t, service.Stats{Total: 2, Completed: 1, Pending: 1}, stats)

	toggled, err = f.tasks.ToggleComplete(ctx, f.user, a.ID, now)
	require.NoError(t, err)
	assert.False(t, toggled.IsCompleted)
	assert.Nil(t, toggled.CompletedAt)

	_, err = f.tasks.ToggleComplete(ctx, f.user, 999, now)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	require.NoError(t, f.tasks.DeleteTask(ctx, f.user, a.ID))
	_, err = f.tasks.GetTask(ctx, f.user, a.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestCalendarTasksFeedTheView(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	for _, in := range []service.TaskInput{
		{Text: "pagar conta", DueDate: mustDate(t, "2024-03-05")},
		{Text: "mercado", DueDate: mustDate(t, "2024-03-05")},
		{Text: "dentista", DueDate: mustDate(t, "2024-03-20")},
		{Text: "sem data"},
	} {
		_, err := f.tasks.CreateTask(ctx, f.user, in)
		require.NoError(t, err)
	}
	list, err := f.tasks.ListTasks(ctx, f.user)
	require.NoError(t, err)
	for _, task := range list {
		if task.Text == "mercado" || task.Text == "dentista" {
			_, err := f.tasks.ToggleComplete(ctx, f.user, task.ID, now)
			require.NoError(t, err)
		}
	}

	tasks, err := f.tasks.CalendarTasks(ctx, f.user)
	require.NoError(t, err)
	require.Len(t, tasks, 4)

	snap := calendar.Render(tasks, 2024, time.March, mustDate(t, "2024-03-05"), calendar.Today(now, time.UTC))
	assert.Equal(t, calendar.MonthStats{Total: 3, Completed: 2, Pending: 1}, snap.Stats)
	c20, _ := snap.Cell(20)
	assert.True(t, c20.IsFullyCompleted)
}

func TestCategoryListIncludesEmpty(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.tasks.CreateTask(ctx, f.user, service.TaskInput{Text: "relatório", Category: "Trabalho"})
	require.NoError(t, err)

	list, err := f.categories.List(ctx, f.user)
	require.NoError(t, err)
	require.Len(t, list, len(model.Categories))
	for _, c := range list {
		if c.Name == "Trabalho" {
			assert.Equal(t, 1, c.Total)
		} else {
			assert.Zero(t, c.Total, c.Name)
		}
	}
}

func TestDailySummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	brt := time.FixedZone("BRT", -3*60*60)
	// 01:00 UTC on the 6th is still the 5th in Brazil.
	now := time.Date(2024, time.March, 6, 1, 0, 0, 0, time.UTC)

	for _, in := range []service.TaskInput{
		{Text: "hoje", DueDate: mustDate(t, "2024-03-05"), Category: "Trabalho"},
		{Text: "atrasada", DueDate: mustDate(t, "2024-03-01")},
		{Text: "amanhã", DueDate: mustDate(t, "2024-03-06")},
	} {
		_, err := f.tasks.CreateTask(ctx, f.user, in)
		require.NoError(t, err)
	}

	summary, err := f.reminders.Summarize(ctx, *f.user, now, brt)
	require.NoError(t, err)
	assert.Equal(t, mustDate(t, "2024-03-05"), summary.Today)
	require.Len(t, summary.Due, 1)
	assert.Equal(t, "hoje", summary.Due[0].Text)
	require.Len(t, summary.Overdue, 1)
	assert.Equal(t, "atrasada", summary.Overdue[0].Text)
	assert.Equal(t, 3, summary.Month.Total)

	text, err := f.reminders.DailySummary(ctx, *f.user, now, brt)
	require.NoError(t, err)
	assert.Contains(t, text, "05/03/2024")
	assert.Contains(t, text, "⬜ hoje <i>(Trabalho)</i>")
	assert.Contains(t, text, "atrasada <i>(01/03)</i>")
	assert.Contains(t, text, "março: 0/3 concluídas, 3 pendentes")
}

func TestScheduler(t *testing.T) {
	s := service.NewSchedulerService(time.UTC)
	_, err := s.ScheduleDaily("25:00", func() {})
	assert.Error(t, err)
	_, err = s.ScheduleDaily("8h", func() {})
	assert.Error(t, err)
	_, err = s.ScheduleInterval(0, func() {})
	assert.Error(t, err)

	id, err := s.ScheduleDaily("08:30", func() {})
	require.NoError(t, err)
	assert.NotZero(t, id)
	id, err = s.ScheduleInterval(5*time.Hour, func() {})
	require.NoError(t, err)
	assert.NotZero(t, id)

	s.Start()
	s.Stop()
}
