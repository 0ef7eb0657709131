package repository_test

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
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.NewDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func mustDate(t *testing.T, s string) calendar.Date {
	t.Helper()
	d, err := calendar.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestUserUpsert(t *testing.T) {
	ctx := context.Background()
	users := repository.NewUserRepository(newTestDB(t))

	first, err := users.Upsert(ctx, repository.Profile{TelegramID: 42, FirstName: "Ana"})
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	again, err := users.Upsert(ctx, repository.Profile{TelegramID: 42, FirstName: "Ana Maria", Username: "ana"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	found, err := users.FindByTelegramID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", found.FirstName)
	assert.Equal(t, "ana", found.Username)

	_, err = users.FindByTelegramID(ctx, 7)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	all, err := users.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestTaskRoundTripKeepsCalendarDay(t *testing.T) {
	ctx := context.Background()
	tasks := repository.NewTaskRepository(newTestDB(t))

	due := mustDate(t, "2024-03-05")
	task := &model.Task{UserID: 1, Text: "pagar conta", Category: "Pessoal", DueDate: due}
	require.NoError(t, tasks.Create(ctx, task))

	got, err := tasks.FindByID(ctx, 1, task.ID)
	require.NoError(t, err)
	assert.Equal(t, due, got.DueDate)
	assert.False(t, got.IsCompleted)

	_, err = tasks.FindByID(ctx, 2, task.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound), "other users must not see the task")
}

func TestTaskListOrdering(t *testing.T) {
	ctx := context.Background()
	tasks := repository.NewTaskRepository(newTestDB(t))

	for _, tk := range []model.Task{
		{UserID: 1, Text: "sem data"},
		{UserID: 1, Text: "depois", DueDate: mustDate(t, "2024-03-20")},
		{UserID: 1, Text: "antes", DueDate: mustDate(t, "2024-03-05")},
		{UserID: 2, Text: "de outra pessoa", DueDate: mustDate(t, "2024-03-01")},
	} {
		tk := tk
		require.NoError(t, tasks.Create(ctx, &tk))
	}

	list, err := tasks.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "antes", list[0].Text)
	assert.Equal(t, "depois", list[1].Text)
	assert.Equal(t, "sem data", list[2].Text)
	assert.True(t, list[2].DueDate.IsZero())

	march, err := tasks.ListDueBetween(ctx, 1, mustDate(t, "2024-03-01"), mustDate(t, "2024-03-10"))
	require.NoError(t, err)
	require.Len(t, march, 1)
	assert.Equal(t, "antes", march[0].Text)
}

func TestTaskCompletionAndDelete(t *testing.T) {
	ctx := context.Background()
	tasks := repository.NewTaskRepository(newTestDB(t))

	task := &model.Task{UserID: 1, Text: "ler", DueDate: mustDate(t, "2024-03-05")}
	require.NoError(t, tasks.Create(ctx, task))

	now := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	require.NoError(t, tasks.SetCompleted(ctx, task, true, now))
	got, err := tasks.FindByID(ctx, 1, task.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	require.NotNil(t, got.CompletedAt)

	require.NoError(t, tasks.SetCompleted(ctx, got, false, now))
	got, err = tasks.FindByID(ctx, 1, task.ID)
	require.NoError(t, err)
	assert.False(t, got.IsCompleted)
	assert.Nil(t, got.CompletedAt)

	require.NoError(t, tasks.Delete(ctx, 1, task.ID))
	err = tasks.Delete(ctx, 1, task.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestCategoryCounts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tasks := repository.NewTaskRepository(db)
	categories := repository.NewCategoryRepository(db)

	for _, tk := range []model.Task{
		{UserID: 1, Text: "a", Category: "Trabalho"},
		{UserID: 1, Text: "b", Category: "Trabalho", IsCompleted: true},
		{UserID: 1, Text: "c", Category: "Compras"},
		{UserID: 2, Text: "d", Category: "Trabalho"},
	} {
		tk := tk
		require.NoError(t, tasks.Create(ctx, &tk))
	}

	counts, err := categories.CountsByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryCount{Name: "Trabalho", Total: 2, Completed: 1}, counts["Trabalho"])
	assert.Equal(t, model.CategoryCount{Name: "Compras", Total: 1}, counts["Compras"])
	assert.NotContains(t, counts, "Saúde")
}
